package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/iudanet/keepsake/internal/client/queue"
	"github.com/iudanet/keepsake/internal/client/remote"
)

// QueueResult summarises one drain pass over a queue
type QueueResult struct {
	Queue string `json:"queue"`
	// Skipped is true when another drain of the queue was already running
	Skipped   bool `json:"skipped"`
	Processed int  `json:"processed"`
	Succeeded int  `json:"succeeded"`
	Failed    int  `json:"failed"`
	Dead      int  `json:"dead"`
}

// SyncResult contains drain results of both queues
type SyncResult struct {
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Uploads    QueueResult `json:"uploads"`
	Actions    QueueResult `json:"actions"`
	// Offline is true when nothing was attempted because the remote is unreachable
	Offline bool `json:"offline"`
}

// ForceSync drains both queues once, concurrently and independently, and
// waits for both passes. A queue whose drain is already running is skipped.
// Nothing is attempted while offline.
func (o *Orchestrator) ForceSync(ctx context.Context) SyncResult {
	result := SyncResult{
		StartedAt: o.now(),
		Uploads:   QueueResult{Queue: QueueUploads},
		Actions:   QueueResult{Queue: QueueActions},
	}

	if !o.monitor.Online() {
		o.logger.Info("Skipping sync while offline")
		result.Offline = true
		result.FinishedAt = o.now()
		return result
	}

	var wg stdsync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		result.Uploads = drainQueue(ctx, o, o.uploads, &o.uploadsDraining, o.handleUpload)
	}()
	go func() {
		defer wg.Done()
		result.Actions = drainQueue(ctx, o, o.actions, &o.actionsDraining, o.handleAction)
	}()
	wg.Wait()

	result.FinishedAt = o.now()

	if !result.Uploads.Skipped || !result.Actions.Skipped {
		if err := o.metadata.SaveLastSyncAt(ctx, result.FinishedAt); err != nil {
			// Время синхронизации носит справочный характер
			o.logger.Warn("Failed to save last sync time", "error", err)
		}
	}

	o.logger.Info("Synchronization completed",
		"uploads_succeeded", result.Uploads.Succeeded,
		"uploads_failed", result.Uploads.Failed,
		"actions_succeeded", result.Actions.Succeeded,
		"actions_failed", result.Actions.Failed,
		"dead", result.Uploads.Dead+result.Actions.Dead)

	return result
}

// drainQueue delivers every drainable item of q in FIFO order. A failing
// item is recorded and the pass moves on. The context is only checked
// between items.
func drainQueue[T queue.Payload](
	ctx context.Context,
	o *Orchestrator,
	q *queue.Queue[T],
	draining *atomic.Bool,
	handle func(context.Context, *queue.Item[T]) error,
) QueueResult {
	res := QueueResult{Queue: q.Name()}

	if !draining.CompareAndSwap(false, true) {
		o.logger.Debug("Drain already running", "queue", q.Name())
		res.Skipped = true
		return res
	}
	defer draining.Store(false)

	logger := o.logger.With("queue", q.Name())

	// Под флагом других проходов нет: всё in_flight осталось от прерванного процесса
	if n, err := q.RecoverInFlight(ctx); err != nil {
		logger.Error("Failed to recover interrupted items", "error", err)
	} else if n > 0 {
		logger.Warn("Recovered interrupted items", "count", n)
	}

	items, err := q.List(ctx)
	if err != nil {
		logger.Error("Failed to list queue", "error", err)
		return res
	}

	for _, item := range items {
		if ctx.Err() != nil {
			logger.Info("Drain cancelled", "remaining", len(items)-res.Processed)
			break
		}
		if !item.Status.Drainable() {
			continue
		}

		res.Processed++
		switch deliverItem(ctx, o, logger, q, item, handle) {
		case "":
			res.Succeeded++
		case queue.StatusDead:
			res.Dead++
		default:
			res.Failed++
		}
	}

	return res
}

// deliverItem runs one item through in_flight and returns the status it
// ended in; an empty status means it was delivered and removed
func deliverItem[T queue.Payload](
	ctx context.Context,
	o *Orchestrator,
	logger *slog.Logger,
	q *queue.Queue[T],
	item *queue.Item[T],
	handle func(context.Context, *queue.Item[T]) error,
) queue.Status {
	logger = logger.With("item_id", item.ID, "kind", item.Kind)

	if err := q.UpdateStatus(ctx, item.ID, queue.StatusInFlight, ""); err != nil {
		logger.Error("Failed to mark item in flight", "error", err)
		return queue.StatusFailed
	}
	attempts := item.Attempts + 1

	var handleErr error
	if item.DecodeErr != nil {
		// Нераспознанный payload не станет лучше при повторе
		handleErr = remote.Permanent(fmt.Errorf("%w: %w", ErrUnsupportedOperation, item.DecodeErr))
	} else {
		handleErr = handle(remote.WithIdempotencyKey(ctx, item.IdempotencyKey), item)
	}

	if handleErr == nil {
		if err := q.Remove(ctx, item.ID); err != nil {
			// Доставлено, но осталось в очереди: повтор безопасен благодаря ключу идемпотентности
			logger.Error("Failed to remove delivered item", "error", err)
			return queue.StatusInFlight
		}
		logger.Debug("Item delivered", "attempts", attempts)
		return ""
	}

	status := queue.StatusFailed
	if remote.IsPermanent(handleErr) {
		status = queue.StatusDead
	} else if o.maxAttempts > 0 && attempts >= o.maxAttempts {
		status = queue.StatusDead
		handleErr = fmt.Errorf("giving up after %d attempts: %w", attempts, handleErr)
	}

	if err := q.UpdateStatus(ctx, item.ID, status, handleErr.Error()); err != nil {
		logger.Error("Failed to record delivery failure", "error", err, "delivery_error", handleErr)
		return queue.StatusFailed
	}

	if status == queue.StatusDead {
		logger.Warn("Item moved to dead", "error", handleErr, "attempts", attempts)
	} else {
		logger.Info("Item delivery failed, will retry", "error", handleErr, "attempts", attempts)
	}
	return status
}
