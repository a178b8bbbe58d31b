package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/keepsake/internal/client/cache"
	"github.com/iudanet/keepsake/internal/client/queue"
)

// PendingCounts holds the number of items still to be delivered per queue,
// plus the dead items that wait for an operator
type PendingCounts struct {
	Uploads     int `json:"uploads"`
	Actions     int `json:"actions"`
	DeadUploads int `json:"dead_uploads"`
	DeadActions int `json:"dead_actions"`
}

// PendingCounts reports queue depth
func (o *Orchestrator) PendingCounts(ctx context.Context) (PendingCounts, error) {
	uploads, err := o.uploads.Counts(ctx)
	if err != nil {
		return PendingCounts{}, fmt.Errorf("failed to count uploads: %w", err)
	}
	actions, err := o.actions.Counts(ctx)
	if err != nil {
		return PendingCounts{}, fmt.Errorf("failed to count actions: %w", err)
	}

	return PendingCounts{
		Uploads:     uploads.Undelivered(),
		Actions:     actions.Undelivered(),
		DeadUploads: uploads.Dead,
		DeadActions: actions.Dead,
	}, nil
}

// CacheInfo returns a diagnostic snapshot of the cache
func (o *Orchestrator) CacheInfo(ctx context.Context) (cache.Info, error) {
	return o.cache.Info(ctx)
}

// ClearCache removes the cached collection stored under key, or every entry when key is empty
func (o *Orchestrator) ClearCache(ctx context.Context, key string) error {
	if key == "" {
		return o.cache.ClearAll(ctx)
	}
	return o.cache.Clear(ctx, key)
}

// LastSync returns when the last drain completed; zero if never
func (o *Orchestrator) LastSync(ctx context.Context) (time.Time, error) {
	return o.metadata.GetLastSyncAt(ctx)
}

// Online reports the connectivity the orchestrator acts on
func (o *Orchestrator) Online() bool {
	return o.monitor.Online()
}

// ItemInfo is a queue item without its payload
type ItemInfo struct {
	EnqueuedAt       time.Time    `json:"enqueued_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	ID               string       `json:"id"`
	Kind             string       `json:"kind"`
	Status           queue.Status `json:"status"`
	LastError        string       `json:"last_error,omitempty"`
	TargetCollection string       `json:"target_collection,omitempty"`
	TargetID         string       `json:"target_id,omitempty"`
	Attempts         int          `json:"attempts"`
	Corrupt          bool         `json:"corrupt,omitempty"`
}

func itemInfo[T queue.Payload](item *queue.Item[T]) ItemInfo {
	return ItemInfo{
		ID:               item.ID,
		Kind:             item.Kind,
		Status:           item.Status,
		LastError:        item.LastError,
		TargetCollection: item.TargetCollection,
		TargetID:         item.TargetID,
		Attempts:         item.Attempts,
		EnqueuedAt:       item.EnqueuedAt,
		UpdatedAt:        item.UpdatedAt,
		Corrupt:          item.DecodeErr != nil,
	}
}

func listInfo[T queue.Payload](ctx context.Context, q *queue.Queue[T]) ([]ItemInfo, error) {
	items, err := q.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ItemInfo, 0, len(items))
	for _, item := range items {
		out = append(out, itemInfo(item))
	}
	return out, nil
}

// Items lists a queue in delivery order
func (o *Orchestrator) Items(ctx context.Context, queueName string) ([]ItemInfo, error) {
	switch queueName {
	case QueueUploads:
		return listInfo(ctx, o.uploads)
	case QueueActions:
		return listInfo(ctx, o.actions)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQueue, queueName)
	}
}

// Discard drops an item that is not being delivered right now
func (o *Orchestrator) Discard(ctx context.Context, queueName, id string) error {
	switch queueName {
	case QueueUploads:
		return o.uploads.RemoveUnlessInFlight(ctx, id)
	case QueueActions:
		return o.actions.RemoveUnlessInFlight(ctx, id)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQueue, queueName)
	}
}

// Requeue returns a failed or dead item to pending with a fresh attempt count
func (o *Orchestrator) Requeue(ctx context.Context, queueName, id string) error {
	var err error
	switch queueName {
	case QueueUploads:
		err = o.uploads.Requeue(ctx, id)
	case QueueActions:
		err = o.actions.Requeue(ctx, id)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQueue, queueName)
	}

	if err != nil && !errors.Is(err, queue.ErrItemNotFound) {
		o.logger.Warn("Requeue failed", "queue", queueName, "item_id", id, "error", err)
	}
	return err
}
