package boltdb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/keepsake/internal/client/storage"
)

func TestStorage_SetGet(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value []byte
	}{
		{name: "plain json", key: "cache/memories", value: []byte(`{"a":1}`)},
		{name: "empty value", key: "cache/empty", value: []byte{}},
		{name: "nested key", key: "queue/uploads/01HZX", value: []byte("payload")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			ctx := context.Background()

			require.NoError(t, store.Set(ctx, tt.key, tt.value))

			got, err := store.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestStorage_Get_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStorage_Set_Overwrite(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v1")))
	require.NoError(t, store.Set(ctx, "k", []byte("v2")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestStorage_Remove(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	require.NoError(t, store.Remove(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	// Удаление отсутствующего ключа не ошибка
	assert.NoError(t, store.Remove(ctx, "k"))
}

func TestStorage_Keys_PrefixAndOrder(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	for _, k := range []string{"queue/b/03", "queue/a/02", "queue/a/01", "cache/x", "queue/a/10"} {
		require.NoError(t, store.Set(ctx, k, []byte(k)))
	}

	keys, err := store.Keys(ctx, "queue/a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"queue/a/01", "queue/a/02", "queue/a/10"}, keys)

	keys, err = store.Keys(ctx, "nothing/")
	require.NoError(t, err)
	assert.Empty(t, keys)

	all, err := store.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStorage_ClosedErrors(t *testing.T) {
	store, err := New(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	ctx := context.Background()

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Set(ctx, "k", nil), storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Remove(ctx, "k"), storage.ErrStorageClosed)
	_, err = store.Keys(ctx, "")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestStorage_ConcurrentSet(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func(i int) {
			done <- store.Set(ctx, fmt.Sprintf("c/%02d", i), []byte("x"))
		}(i)
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, <-done)
	}

	keys, err := store.Keys(ctx, "c/")
	require.NoError(t, err)
	assert.Len(t, keys, 20)
}
