package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/keepsake/internal/models"
)

// EnqueueUpload durably queues a content upload, folder or collection
// operation and returns its item id. Connectivity is not consulted.
func (o *Orchestrator) EnqueueUpload(ctx context.Context, op models.UploadOp) (string, error) {
	if op == nil {
		return "", fmt.Errorf("%w: nil upload", ErrInvalidOperation)
	}
	if err := op.Validate(); err != nil {
		return "", errors.Join(ErrInvalidOperation, err)
	}

	id, err := o.uploads.Enqueue(ctx, op)
	if err != nil {
		return "", err
	}

	o.logger.Info("Upload queued", "queue", QueueUploads, "item_id", id, "kind", op.Kind())
	o.afterEnqueue()
	return id, nil
}

// EnqueueAction durably queues a comment, reaction or field update and
// returns its item id
func (o *Orchestrator) EnqueueAction(ctx context.Context, op models.ActionOp) (string, error) {
	if op == nil {
		return "", fmt.Errorf("%w: nil action", ErrInvalidOperation)
	}
	if err := op.Validate(); err != nil {
		return "", errors.Join(ErrInvalidOperation, err)
	}

	id, err := o.actions.Enqueue(ctx, op)
	if err != nil {
		return "", err
	}

	collection, target := op.Target()
	o.logger.Info("Action queued", "queue", QueueActions, "item_id", id, "kind", op.Kind(),
		"target_collection", collection, "target_id", target)
	o.afterEnqueue()
	return id, nil
}

func (o *Orchestrator) afterEnqueue() {
	if o.drainOnEnqueue && o.monitor.Online() {
		o.drainAsync()
	}
}
