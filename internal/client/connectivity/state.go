// Package connectivity tracks whether the remote document store is
// reachable. A Monitor owns the State; everything else only reads it.
package connectivity

import "sync/atomic"

// State is the process-wide online flag. It is created once and passed to
// whoever needs it; the zero value is offline.
type State struct {
	online atomic.Bool
}

// NewState returns a State starting in the offline position
func NewState() *State {
	return &State{}
}

// Online reports the last known connectivity
func (s *State) Online() bool {
	return s.online.Load()
}

// set stores online and reports whether the value changed
func (s *State) set(online bool) bool {
	return s.online.Swap(online) != online
}
