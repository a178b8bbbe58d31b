package connectivity

import (
	"context"
	"sync"
)

// Manual is a Primitive whose value is set in-process. It backs the
// CLI's --offline mode and tests.
type Manual struct {
	subs   listeners
	mu     sync.Mutex
	online bool
}

// NewManual returns a Manual primitive starting at online
func NewManual(online bool) *Manual {
	return &Manual{online: online}
}

// Current never fails
func (m *Manual) Current(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online, nil
}

// Set reports online to subscribers, repeating values included
func (m *Manual) Set(online bool) {
	m.mu.Lock()
	m.online = online
	m.mu.Unlock()

	m.subs.emit(online)
}

func (m *Manual) Subscribe(fn func(online bool)) func() {
	return m.subs.add(fn)
}
