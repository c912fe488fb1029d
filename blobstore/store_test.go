package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest exercises the BlobStore contract shared by all local
// implementations.
func storeUnderTest(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PutOpenReadAll", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "runs/a", []byte("alpha")))

		b, err := store.Open(ctx, "runs/a")
		require.NoError(t, err)
		defer b.Close()

		assert.EqualValues(t, 5, b.Size())
		data, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, []byte("alpha"), data)
	})

	t.Run("CreateStreaming", func(t *testing.T) {
		w, err := store.Create(ctx, "runs/b")
		require.NoError(t, err)
		_, err = w.Write([]byte("be"))
		require.NoError(t, err)
		_, err = w.Write([]byte("ta"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		b, err := store.Open(ctx, "runs/b")
		require.NoError(t, err)
		defer b.Close()
		data, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, []byte("beta"), data)
	})

	t.Run("List", func(t *testing.T) {
		names, err := store.List(ctx, "runs/")
		require.NoError(t, err)
		assert.Equal(t, []string{"runs/a", "runs/b"}, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "runs/a"))
		require.NoError(t, store.Delete(ctx, "runs/a")) // idempotent

		_, err := store.Open(ctx, "runs/a")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	storeUnderTest(t, store)
}

func TestLocalStoreNoPartialWrites(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	w, err := store.Create(ctx, "snap")
	require.NoError(t, err)
	_, err = w.Write([]byte("half"))
	require.NoError(t, err)

	// Blob must not be visible before Close.
	_, err = store.Open(ctx, "snap")
	assert.ErrorIs(t, err, ErrNotFound)
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	_, err = store.Open(ctx, "snap")
	assert.NoError(t, err)
}
