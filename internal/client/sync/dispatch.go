package sync

import (
	"context"
	"fmt"
	"maps"

	"github.com/iudanet/keepsake/internal/client/queue"
	"github.com/iudanet/keepsake/internal/client/remote"
	"github.com/iudanet/keepsake/internal/models"
)

// Idempotency key suffixes of the two steps of a content upload
const (
	blobKeySuffix = ":blob"
	docKeySuffix  = ":doc"
)

// handleUpload dispatches a Mutation Queue item
func (o *Orchestrator) handleUpload(ctx context.Context, item *queue.Item[models.UploadOp]) error {
	switch op := item.Payload.(type) {
	case models.ContentUpload:
		return o.uploadContent(ctx, item.IdempotencyKey, op)
	case models.FolderOp:
		fields := maps.Clone(op.Fields)
		if op.Action != models.WriteDelete {
			if fields == nil {
				fields = make(map[string]any, 1)
			}
			fields["name"] = op.Name
		}
		return o.write(ctx, op.Action, op.Collection(), op.FolderID, fields)
	case models.CollectionOp:
		return o.write(ctx, op.Action, op.Collection, op.DocID, op.Fields)
	default:
		return remote.Permanent(fmt.Errorf("%w: %s", ErrUnsupportedOperation, item.Kind))
	}
}

// handleAction dispatches an Action Queue item
func (o *Orchestrator) handleAction(ctx context.Context, item *queue.Item[models.ActionOp]) error {
	switch op := item.Payload.(type) {
	case models.AddComment:
		createdAt := op.CreatedAt
		if createdAt.IsZero() {
			createdAt = item.EnqueuedAt
		}
		return o.remote.Create(ctx,
			models.SubCollection(op.TargetCollection, op.TargetID, "comments"), op.CommentID,
			map[string]any{"author": op.Author, "text": op.Text, "created_at": createdAt})
	case models.AddReaction:
		// Одна реакция на автора: повторная перезаписывает предыдущую
		return o.remote.Create(ctx,
			models.SubCollection(op.TargetCollection, op.TargetID, "reactions"), op.Author,
			map[string]any{"author": op.Author, "emoji": op.Emoji})
	case models.UpdateField:
		return o.remote.Update(ctx, op.TargetCollection, op.TargetID, map[string]any{op.Field: op.Value})
	default:
		return remote.Permanent(fmt.Errorf("%w: %s", ErrUnsupportedOperation, item.Kind))
	}
}

// uploadContent stores the binary and then its metadata document. Each step
// carries its own idempotency key derived from the item's, so a retry after
// a partial failure does not create a second copy of either.
func (o *Orchestrator) uploadContent(ctx context.Context, key string, op models.ContentUpload) error {
	ref, err := o.remote.PutBlob(remote.WithIdempotencyKey(ctx, key+blobKeySuffix), op.BlobKey(), op.ContentType, op.Data)
	if err != nil {
		return fmt.Errorf("blob upload: %w", err)
	}

	fields := maps.Clone(op.Fields)
	if fields == nil {
		fields = make(map[string]any, 5)
	}
	fields["blob_ref"] = ref
	fields["file_name"] = op.FileName
	fields["content_type"] = op.ContentType
	fields["size"] = len(op.Data)
	if op.FolderID != "" {
		fields["folder_id"] = op.FolderID
	}

	if err := o.remote.Create(remote.WithIdempotencyKey(ctx, key+docKeySuffix), op.Collection, op.DocID, fields); err != nil {
		return fmt.Errorf("metadata write: %w", err)
	}
	return nil
}

func (o *Orchestrator) write(ctx context.Context, action models.WriteAction, collection, id string, fields map[string]any) error {
	switch action {
	case models.WriteCreate:
		return o.remote.Create(ctx, collection, id, fields)
	case models.WriteUpdate:
		return o.remote.Update(ctx, collection, id, fields)
	case models.WriteDelete:
		return o.remote.Delete(ctx, collection, id)
	default:
		return remote.Permanent(fmt.Errorf("%w: action %q", ErrUnsupportedOperation, action))
	}
}
