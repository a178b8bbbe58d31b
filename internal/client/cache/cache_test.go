package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/keepsake/internal/client/storage"
	"github.com/iudanet/keepsake/internal/client/storage/boltdb"
	"github.com/iudanet/keepsake/internal/models"
)

type testClock struct {
	now time.Time
	mu  sync.Mutex
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestKV(t *testing.T) *boltdb.Storage {
	t.Helper()

	kv, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	return kv
}

func newTestStore(t *testing.T, kv storage.KV, clock *testClock) *Store {
	t.Helper()

	s, err := New(kv, 4, slog.New(slog.NewTextHandler(io.Discard, nil)), WithClock(clock.Now))
	require.NoError(t, err)
	return s
}

func folders(n int) []models.Record {
	out := make([]models.Record, 0, n)
	for i := range n {
		out = append(out, models.Record{
			ID:     string(rune('a' + i)),
			Fields: map[string]any{"name": "folder"},
		})
	}
	return out
}

func TestStore_WriteThenRead(t *testing.T) {
	clock := newTestClock()
	s := newTestStore(t, newTestKV(t), clock)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "users/alice/folders", folders(2)))

	entry, err := s.Read(ctx, "users/alice/folders", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "users/alice/folders", entry.Key)
	assert.Equal(t, SchemaVersion, entry.SchemaVersion)
	assert.Equal(t, clock.Now(), entry.WrittenAt)

	var got []models.Record
	require.NoError(t, entry.Decode(&got))
	assert.Len(t, got, 2)
}

func TestStore_ReadMissing(t *testing.T) {
	s := newTestStore(t, newTestKV(t), newTestClock())

	entry, err := s.Read(context.Background(), "nothing", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_WriteIsIdempotent(t *testing.T) {
	clock := newTestClock()
	s := newTestStore(t, newTestKV(t), clock)
	ctx := context.Background()
	payload := folders(3)

	require.NoError(t, s.Write(ctx, "k", payload))
	first, err := s.Read(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, first)

	clock.Advance(time.Minute)
	require.NoError(t, s.Write(ctx, "k", payload))
	second, err := s.Read(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.JSONEq(t, string(first.Payload), string(second.Payload))
	assert.Equal(t, first.WrittenAt.Add(time.Minute), second.WrittenAt)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}

func TestStore_ExpiredEntryIsPurged(t *testing.T) {
	tests := []struct {
		name   string
		age    time.Duration
		maxAge time.Duration
		hit    bool
	}{
		{name: "fresh", age: 0, maxAge: time.Second, hit: true},
		{name: "exactly max age", age: time.Second, maxAge: time.Second, hit: true},
		{name: "one past max age", age: time.Second + time.Nanosecond, maxAge: time.Second, hit: false},
		{name: "one ms past max age", age: time.Second + time.Millisecond, maxAge: time.Second, hit: false},
		{name: "default max age", age: 23 * time.Hour, maxAge: 0, hit: true},
		{name: "past default max age", age: 25 * time.Hour, maxAge: 0, hit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newTestClock()
			kv := newTestKV(t)
			s := newTestStore(t, kv, clock)
			ctx := context.Background()

			require.NoError(t, s.Write(ctx, "k", folders(1)))
			clock.Advance(tt.age)

			entry, err := s.Read(ctx, "k", tt.maxAge)
			require.NoError(t, err)

			if tt.hit {
				assert.NotNil(t, entry)
				return
			}

			assert.Nil(t, entry)
			_, err = kv.Get(ctx, "cache/k")
			assert.ErrorIs(t, err, storage.ErrKeyNotFound)
		})
	}
}

func TestStore_FolderListExpiresAfterMaxAge(t *testing.T) {
	clock := newTestClock()
	s := newTestStore(t, newTestKV(t), clock)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "users/alice/folders", folders(4)))
	clock.Advance(1100 * time.Millisecond)

	entry, err := s.Read(ctx, "users/alice/folders", 1000*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, entry)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.NotContains(t, keys, "users/alice/folders")
	assert.Empty(t, keys)
}

func TestStore_HotTierHonoursExpiry(t *testing.T) {
	clock := newTestClock()
	s := newTestStore(t, newTestKV(t), clock)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "k", folders(1)))
	// Запись попадает в горячий слой
	_, err := s.Read(ctx, "k", time.Minute)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)

	entry, err := s.Read(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, 0, s.hot.Len())
}

func TestStore_SchemaMismatchIsAMiss(t *testing.T) {
	clock := newTestClock()
	kv := newTestKV(t)
	s := newTestStore(t, kv, clock)
	ctx := context.Background()

	old, err := json.Marshal(Entry{
		Key:           "k",
		Payload:       json.RawMessage(`[]`),
		WrittenAt:     clock.Now(),
		SchemaVersion: "v0",
	})
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "cache/k", old))

	entry, err := s.Read(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = kv.Get(ctx, "cache/k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStore_CorruptEntryIsAMiss(t *testing.T) {
	kv := newTestKV(t)
	s := newTestStore(t, kv, newTestClock())
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "cache/k", []byte("{not json")))

	entry, err := s.Read(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, entry)

	_, err = kv.Get(ctx, "cache/k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestReadInto(t *testing.T) {
	s := newTestStore(t, newTestKV(t), newTestClock())
	ctx := context.Background()

	got, ok, err := ReadInto[[]models.Record](ctx, s, "k", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	require.NoError(t, s.Write(ctx, "k", folders(3)))

	got, ok, err = ReadInto[[]models.Record](ctx, s, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, got, 3)
}

func TestStore_ClearAndClearAll(t *testing.T) {
	kv := newTestKV(t)
	s := newTestStore(t, kv, newTestClock())
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Write(ctx, k, folders(1)))
	}
	// Ключи других подсистем не трогаем
	require.NoError(t, kv.Set(ctx, "queue/uploads/1", []byte("{}")))

	require.NoError(t, s.Clear(ctx, "a"))
	entry, err := s.Read(ctx, "a", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, entry)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, keys)

	require.NoError(t, s.ClearAll(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = kv.Get(ctx, "queue/uploads/1")
	assert.NoError(t, err)
}

func TestStore_Info(t *testing.T) {
	clock := newTestClock()
	s := newTestStore(t, newTestKV(t), clock)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "old", folders(1)))
	clock.Advance(25 * time.Hour)
	require.NoError(t, s.Write(ctx, "new", folders(2)))

	_, err := s.Read(ctx, "missing", 0)
	require.NoError(t, err)

	info, err := s.Info(ctx)
	require.NoError(t, err)
	require.Len(t, info.Entries, 2)
	assert.Equal(t, DefaultMaxAge, info.MaxAge)
	assert.Equal(t, int64(1), info.Misses)

	byKey := map[string]EntryInfo{}
	for _, e := range info.Entries {
		byKey[e.Key] = e
		assert.Positive(t, e.Bytes)
	}
	assert.True(t, byKey["old"].Stale)
	assert.Equal(t, 25*time.Hour, byKey["old"].Age)
	assert.False(t, byKey["new"].Stale)
	assert.Equal(t, byKey["old"].Bytes+byKey["new"].Bytes, info.TotalBytes)

	// Info ничего не удаляет
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestStore_WriteFailureInvalidatesHotTier(t *testing.T) {
	kv := &storage.KVMock{
		SetFunc: func(ctx context.Context, key string, value []byte) error {
			return errors.New("disk full")
		},
		RemoveFunc: func(ctx context.Context, key string) error { return nil },
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, storage.ErrKeyNotFound
		},
	}
	s := newTestStore(t, kv, newTestClock())
	ctx := context.Background()

	err := s.Write(ctx, "k", folders(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	entry, err := s.Read(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_ReadPropagatesStorageError(t *testing.T) {
	kv := &storage.KVMock{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, storage.ErrStorageClosed
		},
	}
	s := newTestStore(t, kv, newTestClock())

	_, err := s.Read(context.Background(), "k", time.Hour)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
