package storage

import "context"

//go:generate moq -out kv_mock.go . KV

// KV defines the durable local key-value store the sync engine builds on.
// Keys are plain strings; Keys returns matches in ascending byte order.
type KV interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if nothing is stored
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value atomically
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error
	Remove(ctx context.Context, key string) error

	// Keys lists every key starting with prefix in ascending order
	Keys(ctx context.Context, prefix string) ([]string, error)
}
