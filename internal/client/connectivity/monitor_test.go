package connectivity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder collects delivered values
type recorder struct {
	got []bool
	mu  sync.Mutex
}

func (r *recorder) record(online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, online)
}

func (r *recorder) values() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.got...)
}

func TestState_ZeroValueIsOffline(t *testing.T) {
	s := NewState()
	assert.False(t, s.Online())

	assert.True(t, s.set(true))
	assert.False(t, s.set(true))
	assert.True(t, s.Online())
}

func TestMonitor_SubscribeDeliversSnapshotThenTransitions(t *testing.T) {
	manual := NewManual(true)
	m := NewMonitor(manual, NewState(), discardLogger())
	m.Start(context.Background())
	defer m.Stop()

	var rec recorder
	unsubscribe := m.Subscribe(rec.record)
	defer unsubscribe()

	manual.Set(true) // повтор не доставляется
	manual.Set(false)
	manual.Set(false)
	manual.Set(true)

	assert.Equal(t, []bool{true, false, true}, rec.values())
	assert.True(t, m.Online())
}

func TestMonitor_InitialSnapshotFailureIsOffline(t *testing.T) {
	prim := &PrimitiveMock{
		CurrentFunc: func(ctx context.Context) (bool, error) {
			return true, errors.New("platform unavailable")
		},
		SubscribeFunc: func(fn func(online bool)) func() { return func() {} },
	}

	m := NewMonitor(prim, NewState(), discardLogger())
	m.Start(context.Background())

	assert.False(t, m.Online())
	assert.Len(t, prim.CurrentCalls(), 1)
	assert.Len(t, prim.SubscribeCalls(), 1)
}

func TestMonitor_StartTwiceSubscribesOnce(t *testing.T) {
	prim := &PrimitiveMock{
		CurrentFunc:   func(ctx context.Context) (bool, error) { return true, nil },
		SubscribeFunc: func(fn func(online bool)) func() { return func() {} },
	}

	m := NewMonitor(prim, NewState(), discardLogger())
	m.Start(context.Background())
	m.Start(context.Background())

	assert.Len(t, prim.SubscribeCalls(), 1)
}

func TestMonitor_StopDetachesFromPrimitive(t *testing.T) {
	manual := NewManual(false)
	m := NewMonitor(manual, NewState(), discardLogger())
	m.Start(context.Background())

	var rec recorder
	m.Subscribe(rec.record)

	m.Stop()
	manual.Set(true)

	assert.Equal(t, []bool{false}, rec.values())
	assert.False(t, m.Online())
	assert.Equal(t, 0, manual.subs.len())
}

func TestMonitor_UnsubscribeStopsDelivery(t *testing.T) {
	manual := NewManual(false)
	m := NewMonitor(manual, NewState(), discardLogger())
	m.Start(context.Background())
	defer m.Stop()

	var first, second recorder
	unsubscribe := m.Subscribe(first.record)
	m.Subscribe(second.record)

	unsubscribe()
	unsubscribe()
	manual.Set(true)

	assert.Equal(t, []bool{false}, first.values())
	assert.Equal(t, []bool{false, true}, second.values())
}

func TestMonitor_CheckAppliesCurrentValue(t *testing.T) {
	online := false
	var mu sync.Mutex
	prim := &PrimitiveMock{
		CurrentFunc: func(ctx context.Context) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			return online, nil
		},
		SubscribeFunc: func(fn func(online bool)) func() { return func() {} },
	}

	m := NewMonitor(prim, NewState(), discardLogger())
	m.Start(context.Background())
	require.False(t, m.Online())

	var rec recorder
	m.Subscribe(rec.record)

	mu.Lock()
	online = true
	mu.Unlock()

	assert.True(t, m.Check(context.Background()))
	assert.True(t, m.State().Online())
	assert.Equal(t, []bool{false, true}, rec.values())
}

func TestMonitor_ConcurrentReportsStayConsistent(t *testing.T) {
	manual := NewManual(false)
	m := NewMonitor(manual, NewState(), discardLogger())
	m.Start(context.Background())
	defer m.Stop()

	var rec recorder
	m.Subscribe(rec.record)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(online bool) {
			defer wg.Done()
			manual.Set(online)
		}(i%2 == 0)
	}
	wg.Wait()

	// Соседние значения всегда различаются: дубликаты не доставляются
	values := rec.values()
	for i := 1; i < len(values); i++ {
		assert.NotEqual(t, values[i-1], values[i])
	}
	assert.Equal(t, m.Online(), values[len(values)-1])
}
