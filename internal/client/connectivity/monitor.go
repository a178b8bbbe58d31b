package connectivity

import (
	"context"
	"log/slog"
	"sync"
)

// Monitor turns a Primitive into deduplicated online/offline transitions
// and keeps the shared State in step with them.
type Monitor struct {
	primitive Primitive
	state     *State
	logger    *slog.Logger
	subs      listeners

	// notifyMu orders state changes with their delivery and with the
	// snapshot a new subscriber receives
	notifyMu sync.Mutex

	mu          sync.Mutex
	unsubscribe func()
}

// NewMonitor creates a monitor writing into state
func NewMonitor(primitive Primitive, state *State, logger *slog.Logger) *Monitor {
	return &Monitor{
		primitive: primitive,
		state:     state,
		logger:    logger,
	}
}

// State returns the state the monitor maintains
func (m *Monitor) State() *State {
	return m.state
}

// Online reports the last known connectivity
func (m *Monitor) Online() bool {
	return m.state.Online()
}

// Start takes the initial snapshot and then follows the primitive.
// A failing snapshot leaves the state offline. Calling Start twice is a no-op.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsubscribe != nil {
		return
	}

	m.Check(ctx)
	m.unsubscribe = m.primitive.Subscribe(m.report)
}

// Stop detaches from the primitive. Subscribers stay registered.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Check re-reads the primitive, applies the result and returns it
func (m *Monitor) Check(ctx context.Context) bool {
	online, err := m.primitive.Current(ctx)
	if err != nil {
		m.logger.Warn("Connectivity check failed, assuming offline", "error", err)
		online = false
	}
	m.report(online)
	return online
}

// Subscribe calls onChange with the current state right away and then once
// per real transition. onChange must not call Subscribe.
func (m *Monitor) Subscribe(onChange func(online bool)) (unsubscribe func()) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	onChange(m.state.Online())
	return m.subs.add(onChange)
}

func (m *Monitor) report(online bool) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	if !m.state.set(online) {
		return
	}

	m.logger.Info("Connectivity changed", "online", online)
	m.subs.emit(online)
}
