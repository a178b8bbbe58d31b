// Package sync coordinates the offline-first engine: it serves reads from
// the remote store or the cache, queues every write durably and drains the
// queues when connectivity returns.
package sync

import (
	"context"
	"errors"
	"log/slog"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/keepsake/internal/client/cache"
	"github.com/iudanet/keepsake/internal/client/connectivity"
	"github.com/iudanet/keepsake/internal/client/queue"
	"github.com/iudanet/keepsake/internal/client/remote"
	"github.com/iudanet/keepsake/internal/client/storage"
	"github.com/iudanet/keepsake/internal/models"
)

// Queue names
const (
	QueueUploads = "uploads"
	QueueActions = "actions"
)

var (
	// ErrUnknownQueue is returned for a queue name other than uploads or actions
	ErrUnknownQueue = errors.New("unknown queue")
	// ErrInvalidOperation wraps validation failures of enqueued payloads
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrUnsupportedOperation is reported for payload variants no handler exists for
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrItemInFlight is returned when discarding an item that is being delivered
	ErrItemInFlight = queue.ErrItemInFlight
	// ErrOffline is recorded as the remote error of reads served while offline
	ErrOffline = errors.New("offline")
)

// Option настраивает Orchestrator
type Option func(*Orchestrator)

// WithMaxAttempts moves an item to dead after n failed deliveries.
// Zero keeps retrying until the remote rejects it permanently.
func WithMaxAttempts(n int) Option {
	return func(o *Orchestrator) { o.maxAttempts = n }
}

// WithDrainOnStart drains right after Start when the initial snapshot is online
func WithDrainOnStart(enabled bool) Option {
	return func(o *Orchestrator) { o.drainOnStart = enabled }
}

// WithDrainOnEnqueue launches a background drain after every enqueue made
// while online
func WithDrainOnEnqueue(enabled bool) Option {
	return func(o *Orchestrator) { o.drainOnEnqueue = enabled }
}

// WithClock overrides the wall clock (tests)
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator sequences reads, writes and drains against the cache, the
// queues and the remote store. It owns no data itself.
type Orchestrator struct {
	remote   remote.Store
	cache    *cache.Store
	uploads  *queue.Queue[models.UploadOp]
	actions  *queue.Queue[models.ActionOp]
	monitor  *connectivity.Monitor
	metadata storage.MetadataStorage
	logger   *slog.Logger
	now      func() time.Time

	runCtx      context.Context
	unsubscribe func()
	wg          stdsync.WaitGroup
	mu          stdsync.Mutex

	maxAttempts    int
	drainOnStart   bool
	drainOnEnqueue bool
	started        bool
	stopped        bool

	// флаги single-flight, по одному на очередь
	uploadsDraining atomic.Bool
	actionsDraining atomic.Bool
}

// NewOrchestrator wires the engine. Both queues live in kv and share one id
// generator.
func NewOrchestrator(
	kv storage.KV,
	metadata storage.MetadataStorage,
	store remote.Store,
	cacheStore *cache.Store,
	monitor *connectivity.Monitor,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		remote:   store,
		cache:    cacheStore,
		monitor:  monitor,
		metadata: metadata,
		logger:   logger,
		now:      time.Now,
		runCtx:   context.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}

	ids := queue.NewIDGeneratorWithClock(o.now)
	o.uploads = queue.New[models.UploadOp](kv, QueueUploads, models.DecodeUploadOp,
		queue.WithIDGenerator(ids), queue.WithClock(o.now))
	o.actions = queue.New[models.ActionOp](kv, QueueActions, models.DecodeActionOp,
		queue.WithIDGenerator(ids), queue.WithClock(o.now))

	return o
}

// Start recovers items a previous process left in flight and subscribes to
// connectivity: every offline->online transition launches a background
// drain. Start also drains immediately when WithDrainOnStart is set and the
// monitor reports online.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return nil
	}
	o.started = true
	o.runCtx = ctx
	o.mu.Unlock()

	for _, recoverInFlight := range []func(context.Context) (int, error){o.uploads.RecoverInFlight, o.actions.RecoverInFlight} {
		n, err := recoverInFlight(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			o.logger.Warn("Recovered interrupted items", "count", n)
		}
	}

	first := true
	unsubscribe := o.monitor.Subscribe(func(online bool) {
		initial := first
		first = false

		if !online {
			o.logger.Info("Offline, writes will be queued")
			return
		}
		if initial && !o.drainOnStart {
			return
		}
		o.logger.Info("Online, draining queues")
		o.drainAsync()
	})

	o.mu.Lock()
	o.unsubscribe = unsubscribe
	o.mu.Unlock()

	return nil
}

// Stop unsubscribes from connectivity and waits for background drains to
// finish their current pass
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	o.mu.Unlock()

	o.wg.Wait()
}

func (o *Orchestrator) drainAsync() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return
	}

	ctx := o.runCtx
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.ForceSync(ctx)
	}()
}
