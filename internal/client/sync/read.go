package sync

import (
	"context"
	"time"

	"github.com/iudanet/keepsake/internal/client/remote"
	"github.com/iudanet/keepsake/internal/models"
	"github.com/iudanet/keepsake/internal/validation"
)

// Source tells where collection data came from
type Source string

const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// CollectionResult is the answer of the read path
type CollectionResult struct {
	// FetchedAt is when the data left the remote store; zero for an empty
	// cache answer
	FetchedAt time.Time
	// RemoteErr explains why the cache was used. It is informational only.
	RemoteErr  error
	Collection string
	Source     Source
	Data       []models.Record
}

// ReadOption настраивает чтение коллекции
type ReadOption func(*readOptions)

type readOptions struct {
	query      remote.QueryOptions
	maxAge     time.Duration
	forceCheck bool
}

// WithMaxAge overrides how old a cached answer may be
func WithMaxAge(d time.Duration) ReadOption {
	return func(r *readOptions) { r.maxAge = d }
}

// WithForceOnlineCheck re-checks connectivity instead of trusting the last
// known state
func WithForceOnlineCheck() ReadOption {
	return func(r *readOptions) { r.forceCheck = true }
}

// WithOrderBy orders the remote query by field
func WithOrderBy(field string, descending bool) ReadOption {
	return func(r *readOptions) {
		r.query.OrderBy = field
		r.query.Descending = descending
	}
}

// WithLimit caps the number of documents fetched
func WithLimit(n int) ReadOption {
	return func(r *readOptions) { r.query.Limit = n }
}

// GetCollection returns the collection users/<scope>/<key>. Online it
// queries the remote store and refreshes the cache; offline, or when the
// query fails, it answers from the cache. It never fails: a missing cache
// entry yields an empty collection with source cache.
func (o *Orchestrator) GetCollection(ctx context.Context, scope, key string, opts ...ReadOption) *CollectionResult {
	var cfg readOptions
	for _, opt := range opts {
		opt(&cfg)
	}

	collection := models.UserCollection(scope, key)
	result := &CollectionResult{
		Collection: collection,
		Source:     SourceCache,
		Data:       []models.Record{},
	}

	if err := validation.ValidateScope(scope); err != nil {
		result.RemoteErr = err
		return result
	}
	if err := validation.ValidateCollectionPath(collection); err != nil {
		result.RemoteErr = err
		return result
	}

	online := o.monitor.Online()
	if cfg.forceCheck {
		online = o.monitor.Check(ctx)
	}

	if online {
		records, err := o.remote.Query(ctx, collection, cfg.query)
		if err == nil {
			if records == nil {
				records = []models.Record{}
			}
			// Ограниченная выборка не заменяет снимок всей коллекции
			if cfg.query.Limit <= 0 {
				if err := o.cache.Write(ctx, collection, records); err != nil {
					o.logger.Warn("Failed to refresh cache", "collection", collection, "error", err)
				}
			}
			return &CollectionResult{
				Collection: collection,
				Source:     SourceRemote,
				Data:       records,
				FetchedAt:  o.now(),
			}
		}

		o.logger.Warn("Remote read failed, falling back to cache", "collection", collection, "error", err)
		result.RemoteErr = err
	} else {
		result.RemoteErr = ErrOffline
	}

	entry, err := o.cache.Read(ctx, collection, cfg.maxAge)
	if err != nil {
		o.logger.Warn("Cache read failed", "collection", collection, "error", err)
		return result
	}
	if entry == nil {
		return result
	}

	var records []models.Record
	if err := entry.Decode(&records); err != nil {
		o.logger.Warn("Cached collection is unreadable", "collection", collection, "error", err)
		return result
	}
	if records != nil {
		result.Data = applyQuery(records, cfg.query)
	}
	result.FetchedAt = entry.WrittenAt

	return result
}
