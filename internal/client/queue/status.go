package queue

import (
	"fmt"
	"slices"
)

// Status is the delivery state of a queued item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusInFlight Status = "in_flight"
	StatusFailed   Status = "failed"
	// StatusDead marks items the remote rejected permanently (or that ran out
	// of attempts). Drains skip them until an operator requeues or discards.
	StatusDead Status = "dead"
)

// validTransitions defines allowed status transitions. Success is not a
// status: a delivered item is removed.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusInFlight},
	StatusInFlight: {StatusFailed, StatusDead},
	StatusFailed:   {StatusInFlight, StatusPending, StatusDead},
	StatusDead:     {StatusPending},
}

// CanTransition reports whether an item may move from one status to another.
func CanTransition(from, to Status) bool {
	return slices.Contains(validTransitions[from], to)
}

func checkTransition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Drainable reports whether a drain pass should pick the item up.
func (s Status) Drainable() bool {
	return s == StatusPending || s == StatusFailed
}
