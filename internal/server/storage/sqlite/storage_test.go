package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/keepsake/internal/models"
	"github.com/iudanet/keepsake/internal/server/storage"
)

type stepClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()

	// Используем in-memory database для тестов
	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := &stepClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now

	return s
}

func create(t *testing.T, s *Storage, collection, id string, fields map[string]any) {
	t.Helper()
	replayed, err := s.Apply(context.Background(), storage.Write{
		Action:     models.WriteCreate,
		Scope:      "alice",
		Collection: collection,
		ID:         id,
		Fields:     fields,
	})
	require.NoError(t, err)
	require.False(t, replayed)
}

func TestStorage_CreateAndQuery(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	create(t, s, "users/alice/folders", "f2", map[string]any{"name": "Beach"})
	create(t, s, "users/alice/folders", "f1", map[string]any{"name": "Alps"})
	create(t, s, "users/bob/folders", "f3", map[string]any{"name": "Home"})

	records, err := s.Query(ctx, storage.Query{Collection: "users/alice/folders"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "f1", records[0].ID)
	assert.Equal(t, "Alps", records[0].Fields["name"])
	assert.Equal(t, "f2", records[1].ID)
	assert.False(t, records[0].CreatedAt.IsZero())

	records, err = s.Query(ctx, storage.Query{Collection: "users/carol/folders"})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStorage_QueryOrdering(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	create(t, s, "users/alice/memories", "b", map[string]any{"taken": "2024-05-01"})
	create(t, s, "users/alice/memories", "c", map[string]any{"taken": "2023-01-09"})
	create(t, s, "users/alice/memories", "a", map[string]any{"taken": "2025-12-24"})

	ids := func(records []models.Record) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, r.ID)
		}
		return out
	}

	tests := []struct {
		name  string
		query storage.Query
		want  []string
	}{
		{name: "default by id", query: storage.Query{}, want: []string{"a", "b", "c"}},
		{name: "created_at desc", query: storage.Query{OrderBy: "created_at", Descending: true}, want: []string{"a", "c", "b"}},
		{name: "updated_at", query: storage.Query{OrderBy: "updated_at"}, want: []string{"b", "c", "a"}},
		{name: "field", query: storage.Query{OrderBy: "taken"}, want: []string{"c", "b", "a"}},
		{name: "field desc with limit", query: storage.Query{OrderBy: "taken", Descending: true, Limit: 2}, want: []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Collection = "users/alice/memories"
			records, err := s.Query(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(records))
		})
	}

	_, err := s.Query(ctx, storage.Query{Collection: "users/alice/memories", OrderBy: "x); DROP TABLE documents;--"})
	assert.ErrorIs(t, err, storage.ErrInvalidOrderBy)
}

func TestStorage_CreateIsUpsert(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	create(t, s, "users/alice/memories/m1/reactions", "bob", map[string]any{"emoji": "👍"})
	first, err := s.Query(ctx, storage.Query{Collection: "users/alice/memories/m1/reactions"})
	require.NoError(t, err)

	create(t, s, "users/alice/memories/m1/reactions", "bob", map[string]any{"emoji": "❤️"})
	records, err := s.Query(ctx, storage.Query{Collection: "users/alice/memories/m1/reactions"})
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "❤️", records[0].Fields["emoji"])
	assert.Equal(t, first[0].CreatedAt, records[0].CreatedAt)
	assert.True(t, records[0].UpdatedAt.After(first[0].UpdatedAt))
}

func TestStorage_UpdateMergesFields(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	create(t, s, "users/alice/memories", "m1", map[string]any{"title": "Old", "place": "Rome"})

	_, err := s.Apply(ctx, storage.Write{
		Action:     models.WriteUpdate,
		Scope:      "alice",
		Collection: "users/alice/memories",
		ID:         "m1",
		Fields:     map[string]any{"title": "New"},
	})
	require.NoError(t, err)

	records, err := s.Query(ctx, storage.Query{Collection: "users/alice/memories"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, map[string]any{"title": "New", "place": "Rome"}, records[0].Fields)

	_, err = s.Apply(ctx, storage.Write{
		Action:     models.WriteUpdate,
		Scope:      "alice",
		Collection: "users/alice/memories",
		ID:         "missing",
		Fields:     map[string]any{"title": "x"},
	})
	assert.ErrorIs(t, err, storage.ErrDocumentNotFound)
}

func TestStorage_DeleteIsIdempotent(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	create(t, s, "users/alice/folders", "f1", map[string]any{"name": "Alps"})

	for range 2 {
		_, err := s.Apply(ctx, storage.Write{
			Action:     models.WriteDelete,
			Scope:      "alice",
			Collection: "users/alice/folders",
			ID:         "f1",
		})
		require.NoError(t, err)
	}

	records, err := s.Query(ctx, storage.Query{Collection: "users/alice/folders"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStorage_UnknownAction(t *testing.T) {
	s := setupTestStorage(t)

	_, err := s.Apply(context.Background(), storage.Write{
		Action:     "archive",
		Collection: "users/alice/folders",
		ID:         "f1",
	})
	assert.ErrorIs(t, err, storage.ErrUnknownAction)
}

func TestStorage_IdempotencyKey(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	w := storage.Write{
		Action:         models.WriteCreate,
		Scope:          "alice",
		IdempotencyKey: "k-1",
		Collection:     "users/alice/memories/m1/comments",
		ID:             "c1",
		Fields:         map[string]any{"text": "nice"},
	}

	replayed, err := s.Apply(ctx, w)
	require.NoError(t, err)
	assert.False(t, replayed)

	// Между повторами документ изменили, повтор не должен его перезаписать
	_, err = s.Apply(ctx, storage.Write{
		Action: models.WriteUpdate, Scope: "alice",
		Collection: w.Collection, ID: "c1", Fields: map[string]any{"text": "edited"},
	})
	require.NoError(t, err)

	replayed, err = s.Apply(ctx, w)
	require.NoError(t, err)
	assert.True(t, replayed)

	records, err := s.Query(ctx, storage.Query{Collection: w.Collection})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "edited", records[0].Fields["text"])

	// Тот же ключ для другого запроса
	other := w
	other.ID = "c2"
	_, err = s.Apply(ctx, other)
	assert.ErrorIs(t, err, storage.ErrIdempotencyConflict)

	// Ключи разных пользователей не пересекаются
	bob := w
	bob.Scope = "bob"
	replayed, err = s.Apply(ctx, bob)
	require.NoError(t, err)
	assert.False(t, replayed)
}

func TestStorage_FailedWriteReleasesKey(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	w := storage.Write{
		Action:         models.WriteUpdate,
		Scope:          "alice",
		IdempotencyKey: "k-2",
		Collection:     "users/alice/memories",
		ID:             "m1",
		Fields:         map[string]any{"title": "x"},
	}

	_, err := s.Apply(ctx, w)
	require.ErrorIs(t, err, storage.ErrDocumentNotFound)

	create(t, s, "users/alice/memories", "m1", map[string]any{"title": "a"})

	replayed, err := s.Apply(ctx, w)
	require.NoError(t, err)
	assert.False(t, replayed)
}

func TestStorage_Blobs(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	_, err := s.GetBlob(ctx, "users/alice/blobs/m1/a.jpg")
	assert.ErrorIs(t, err, storage.ErrBlobNotFound)

	blob := &storage.Blob{Key: "users/alice/blobs/m1/a.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}
	replayed, err := s.PutBlob(ctx, "alice", "k-blob", blob)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.Equal(t, int64(4), blob.Size)
	assert.Len(t, blob.Checksum, 64)

	replayed, err = s.PutBlob(ctx, "alice", "k-blob", &storage.Blob{Key: blob.Key, ContentType: "image/jpeg", Data: []byte("jpeg")})
	require.NoError(t, err)
	assert.True(t, replayed)

	got, err := s.GetBlob(ctx, blob.Key)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got.Data)
	assert.Equal(t, "image/jpeg", got.ContentType)
	assert.Equal(t, blob.Checksum, got.Checksum)
	assert.Equal(t, int64(4), got.Size)

	_, err = s.PutBlob(ctx, "alice", "k-blob", &storage.Blob{Key: blob.Key, Data: []byte("png")})
	assert.ErrorIs(t, err, storage.ErrIdempotencyConflict)
}

func TestStorage_PruneIdempotencyKeys(t *testing.T) {
	s := setupTestStorage(t)
	ctx := context.Background()

	w := storage.Write{
		Action:         models.WriteCreate,
		Scope:          "alice",
		IdempotencyKey: "k-old",
		Collection:     "users/alice/folders",
		ID:             "f1",
	}
	_, err := s.Apply(ctx, w)
	require.NoError(t, err)

	n, err := s.PruneIdempotencyKeys(ctx, s.now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	replayed, err := s.Apply(ctx, w)
	require.NoError(t, err)
	assert.False(t, replayed)
}

func TestStorage_Ping(t *testing.T) {
	s := setupTestStorage(t)
	assert.NoError(t, s.Ping(context.Background()))
}
