package connectivity

import (
	"maps"
	"slices"
	"sync"
)

// listeners is a set of callbacks keyed by registration order
type listeners struct {
	fns  map[int]func(bool)
	mu   sync.Mutex
	next int
}

func (l *listeners) add(fn func(bool)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fns == nil {
		l.fns = make(map[int]func(bool))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

// snapshot copies the callbacks so they run without the lock held
func (l *listeners) snapshot() []func(bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]func(bool), 0, len(l.fns))
	for _, id := range slices.Sorted(maps.Keys(l.fns)) {
		out = append(out, l.fns[id])
	}
	return out
}

func (l *listeners) emit(online bool) {
	for _, fn := range l.snapshot() {
		fn(online)
	}
}

func (l *listeners) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fns)
}
