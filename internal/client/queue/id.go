package queue

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator issues ULIDs that sort in issue order within the process:
// the millisecond part never goes backwards and ids issued within the same
// millisecond are ordered by the monotonic entropy increment.
type IDGenerator struct {
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
	lastMs  uint64
	mu      sync.Mutex
}

// NewIDGenerator creates a generator reading the wall clock
func NewIDGenerator() *IDGenerator {
	return NewIDGeneratorWithClock(time.Now)
}

// NewIDGeneratorWithClock creates a generator with a custom clock (tests)
func NewIDGeneratorWithClock(now func() time.Time) *IDGenerator {
	return &IDGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     now,
	}
}

// Next returns the next identifier
func (g *IDGenerator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := ulid.Timestamp(g.now())
	if ms < g.lastMs {
		// Часы ушли назад: остаёмся на последней миллисекунде
		ms = g.lastMs
	}

	id, err := ulid.New(ms, g.entropy)
	if errors.Is(err, ulid.ErrMonotonicOverflow) {
		ms++
		id, err = ulid.New(ms, g.entropy)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	g.lastMs = ms
	return id.String(), nil
}
