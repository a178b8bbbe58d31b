package storage

import (
	"context"
	"time"

	"github.com/iudanet/keepsake/internal/models"
)

// Query selects documents of one collection
type Query struct {
	Collection string
	// OrderBy is id, created_at, updated_at or a top-level field name.
	// Empty orders by id.
	OrderBy    string
	Descending bool
	// Limit of 0 returns every document
	Limit int
}

// Write is a single document mutation
type Write struct {
	Fields map[string]any
	// Scope owns the idempotency key
	Scope string
	// IdempotencyKey is optional; a repeated key is answered without
	// applying the write again
	IdempotencyKey string
	Action         models.WriteAction
	Collection     string
	ID             string
}

// Blob is an uploaded binary
type Blob struct {
	CreatedAt   time.Time
	Key         string
	ContentType string
	Checksum    string // sha256, hex
	Data        []byte
	Size        int64
}

// DocumentStorage defines interface for collection documents persistence
type DocumentStorage interface {
	// Query returns the documents of a collection; an unknown collection is empty
	Query(ctx context.Context, q Query) ([]models.Record, error)

	// Apply performs the write. Create replaces an existing document, Update
	// merges top-level fields and returns ErrDocumentNotFound for a missing
	// document, Delete of a missing document succeeds.
	// replayed is true when the idempotency key had already been applied.
	Apply(ctx context.Context, w Write) (replayed bool, err error)
}

// BlobStorage defines interface for binary content persistence
type BlobStorage interface {
	// PutBlob stores blob under blob.Key, replacing earlier content
	PutBlob(ctx context.Context, scope, idempotencyKey string, blob *Blob) (replayed bool, err error)

	// GetBlob returns ErrBlobNotFound when nothing is stored under key
	GetBlob(ctx context.Context, key string) (*Blob, error)
}

// IdempotencyStorage expires recorded idempotency keys
type IdempotencyStorage interface {
	// PruneIdempotencyKeys removes keys recorded before the given time
	PruneIdempotencyKeys(ctx context.Context, before time.Time) (int64, error)
}
