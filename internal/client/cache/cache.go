// Package cache implements the read-through collection cache of the sync
// engine. Entries are TTL-stamped and versioned; expiry is detected lazily on
// read, never on a timer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/iudanet/keepsake/internal/client/storage"
)

const (
	keyPrefix = "cache/"

	// SchemaVersion tags every entry; entries written under another version are discarded on read
	SchemaVersion = "v1"

	// DefaultMaxAge is used when a read passes a non-positive maxAge
	DefaultMaxAge = 24 * time.Hour

	// DefaultHotEntries bounds the in-memory tier
	DefaultHotEntries = 64
)

// Entry is one cached collection snapshot.
type Entry struct {
	WrittenAt     time.Time       `json:"written_at"`
	Key           string          `json:"key"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v
func (e *Entry) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to decode cache entry %s: %w", e.Key, err)
	}
	return nil
}

// Store wraps the KV with TTL-stamped, versioned entries and a small LRU of
// recently used entries in front of it.
type Store struct {
	kv     storage.KV
	hot    *lru.Cache[string, *Entry]
	logger *slog.Logger
	now    func() time.Time
	maxAge time.Duration

	hits    atomic.Int64
	misses  atomic.Int64
	expired atomic.Int64
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the wall clock (tests)
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDefaultMaxAge sets the max age used by reads that do not pass one
func WithDefaultMaxAge(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// New creates a cache store. hotEntries <= 0 uses DefaultHotEntries.
func New(kv storage.KV, hotEntries int, logger *slog.Logger, opts ...Option) (*Store, error) {
	if hotEntries <= 0 {
		hotEntries = DefaultHotEntries
	}

	hot, err := lru.New[string, *Entry](hotEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create hot cache: %w", err)
	}

	s := &Store{
		kv:     kv,
		hot:    hot,
		logger: logger,
		now:    time.Now,
		maxAge: DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Read returns the entry stored under key when it exists, carries the
// current schema version and is not older than maxAge. Otherwise it returns
// nil and removes whatever stale entry was stored.
func (s *Store) Read(ctx context.Context, key string, maxAge time.Duration) (*Entry, error) {
	if maxAge <= 0 {
		maxAge = s.maxAge
	}

	entry, ok := s.hot.Get(key)
	if !ok {
		data, err := s.kv.Get(ctx, storageKey(key))
		if err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				s.misses.Add(1)
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read cache entry %s: %w", key, err)
		}

		entry = &Entry{}
		if err := json.Unmarshal(data, entry); err != nil {
			s.logger.Warn("Dropping undecodable cache entry", "key", key, "error", err)
			return nil, s.purge(ctx, key)
		}
	}

	if entry.SchemaVersion != SchemaVersion {
		s.logger.Debug("Dropping cache entry with foreign schema",
			"key", key, "schema_version", entry.SchemaVersion)
		return nil, s.purge(ctx, key)
	}

	if s.now().Sub(entry.WrittenAt) > maxAge {
		s.expired.Add(1)
		s.logger.Debug("Cache entry expired", "key", key, "written_at", entry.WrittenAt, "max_age", maxAge)
		return nil, s.purge(ctx, key)
	}

	s.hot.Add(key, entry)
	s.hits.Add(1)
	return entry, nil
}

// ReadInto reads key and decodes its payload into a T.
// ok is false on a miss.
func ReadInto[T any](ctx context.Context, s *Store, key string, maxAge time.Duration) (value T, ok bool, err error) {
	entry, err := s.Read(ctx, key, maxAge)
	if err != nil || entry == nil {
		return value, false, err
	}
	if err := entry.Decode(&value); err != nil {
		return value, false, err
	}
	return value, true, nil
}

// Write replaces the entry under key with payload, stamped with the current
// time. The whole entry is written with a single KV Set.
func (s *Store) Write(ctx context.Context, key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal cache payload %s: %w", key, err)
	}

	entry := &Entry{
		Key:           key,
		Payload:       raw,
		WrittenAt:     s.now(),
		SchemaVersion: SchemaVersion,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry %s: %w", key, err)
	}

	if err := s.kv.Set(ctx, storageKey(key), data); err != nil {
		// Горячий слой не должен пережить неудачную запись
		s.hot.Remove(key)
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}

	s.hot.Add(key, entry)
	return nil
}

// Clear removes the entry under key
func (s *Store) Clear(ctx context.Context, key string) error {
	return s.purge(ctx, key)
}

// ClearAll removes every cache entry
func (s *Store) ClearAll(ctx context.Context) error {
	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list cache entries: %w", err)
	}

	s.hot.Purge()
	for _, k := range keys {
		if err := s.kv.Remove(ctx, k); err != nil {
			return fmt.Errorf("failed to remove cache entry %s: %w", k, err)
		}
	}
	return nil
}

// Keys lists the logical keys of stored entries (expired ones included until read)
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache entries: %w", err)
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, keyPrefix))
	}
	return out, nil
}

// EntryInfo describes one stored entry
type EntryInfo struct {
	WrittenAt time.Time     `json:"written_at"`
	Key       string        `json:"key"`
	Age       time.Duration `json:"age"`
	Bytes     int           `json:"bytes"`
	Stale     bool          `json:"stale"`
}

// Info is a diagnostic snapshot of the cache
type Info struct {
	Entries    []EntryInfo   `json:"entries"`
	MaxAge     time.Duration `json:"max_age"`
	TotalBytes int           `json:"total_bytes"`
	HotEntries int           `json:"hot_entries"`
	Hits       int64         `json:"hits"`
	Misses     int64         `json:"misses"`
	Expired    int64         `json:"expired"`
}

// Info inspects stored entries without purging them
func (s *Store) Info(ctx context.Context) (Info, error) {
	info := Info{
		MaxAge:     s.maxAge,
		HotEntries: s.hot.Len(),
		Hits:       s.hits.Load(),
		Misses:     s.misses.Load(),
		Expired:    s.expired.Load(),
	}

	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return info, fmt.Errorf("failed to list cache entries: %w", err)
	}

	now := s.now()
	for _, k := range keys {
		data, err := s.kv.Get(ctx, k)
		if err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				continue
			}
			return info, fmt.Errorf("failed to read cache entry %s: %w", k, err)
		}

		ei := EntryInfo{Key: strings.TrimPrefix(k, keyPrefix), Bytes: len(data), Stale: true}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err == nil {
			ei.WrittenAt = entry.WrittenAt
			ei.Age = now.Sub(entry.WrittenAt)
			ei.Stale = entry.SchemaVersion != SchemaVersion || ei.Age > s.maxAge
		}

		info.Entries = append(info.Entries, ei)
		info.TotalBytes += len(data)
	}

	return info, nil
}

func (s *Store) purge(ctx context.Context, key string) error {
	s.hot.Remove(key)
	if err := s.kv.Remove(ctx, storageKey(key)); err != nil {
		return fmt.Errorf("failed to remove cache entry %s: %w", key, err)
	}
	return nil
}

func storageKey(key string) string {
	return keyPrefix + key
}
