package storage

import (
	"context"
	"time"
)

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveLastSyncAt saves the completion time of the last drain pass
	SaveLastSyncAt(ctx context.Context, at time.Time) error

	// GetLastSyncAt retrieves the completion time of the last drain pass
	// Returns zero time if no drain has completed yet
	GetLastSyncAt(ctx context.Context) (time.Time, error)
}
