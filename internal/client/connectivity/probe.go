package connectivity

import (
	"context"
	"log/slog"
	"time"
)

// DefaultProbeInterval is used when NewProbe gets a non-positive interval
const DefaultProbeInterval = 15 * time.Second

// HealthChecker is anything that can tell whether the remote answers
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Probe is a Primitive that polls a health endpoint. Any error counts as
// offline.
type Probe struct {
	checker  HealthChecker
	logger   *slog.Logger
	subs     listeners
	interval time.Duration
	timeout  time.Duration
}

// NewProbe creates a probe. Polling only happens while Run is running.
func NewProbe(checker HealthChecker, interval time.Duration, logger *slog.Logger) *Probe {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}

	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}

	return &Probe{
		checker:  checker,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
	}
}

// Current performs one health check
func (p *Probe) Current(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.checker.Health(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Probe) Subscribe(fn func(online bool)) func() {
	return p.subs.add(fn)
}

// Start runs the polling loop in the background. The returned stop
// cancels it and waits for the loop to exit.
func (p *Probe) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	return func() {
		cancel()
		<-done
	}
}

// Run polls until ctx is cancelled, reporting every result to subscribers
func (p *Probe) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			online, err := p.Current(ctx)
			if err != nil {
				p.logger.Debug("Health probe failed", "error", err)
			}
			// Отменённый контекст не должен переводить в офлайн
			if ctx.Err() != nil {
				return
			}
			p.subs.emit(online)
		}
	}
}
