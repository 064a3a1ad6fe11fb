package blobstore

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/paramgrid/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore counts backend reads of a MemoryStore.
type countingStore struct {
	*MemoryStore
	reads     atomic.Int64
	readBytes atomic.Int64
}

func (s *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.MemoryStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &countingBlob{Blob: b, store: s}, nil
}

type countingBlob struct {
	Blob
	store *countingStore
}

func (b *countingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	n, err := b.Blob.ReadAt(ctx, p, off)
	b.store.reads.Add(1)
	b.store.readBytes.Add(int64(n))
	return n, err
}

func newCounting(t *testing.T, blobs map[string][]byte) *countingStore {
	t.Helper()
	s := &countingStore{MemoryStore: NewMemoryStore()}
	for name, data := range blobs {
		require.NoError(t, s.Put(context.Background(), name, data))
	}
	return s
}

func TestCachingStore_ReadAt(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i % 251)
	}
	inner := newCounting(t, map[string][]byte{"test": data})
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1<<20), 256)

	blob, err := store.Open(ctx, "test")
	require.NoError(t, err)

	buf := make([]byte, 100)
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[:100], buf)
	assert.Equal(t, int64(1), inner.reads.Load())
	assert.Equal(t, int64(256), inner.readBytes.Load(), "whole block fetched")

	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inner.reads.Load(), "served from cache")

	// Spans block 0 (cached) and block 1 (not).
	n, err = blob.ReadAt(ctx, buf, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
	assert.Equal(t, data[200:300], buf)
	assert.Equal(t, int64(2), inner.reads.Load())
	assert.Equal(t, int64(512), inner.readBytes.Load())

	t.Run("Coalesced", func(t *testing.T) {
		// Blocks 2 and 3 are fetched with a single backend read.
		big := make([]byte, 512)
		n, err := blob.ReadAt(ctx, big, 512)
		require.NoError(t, err)
		assert.Equal(t, 512, n)
		assert.Equal(t, data[512:], big)
		assert.Equal(t, int64(3), inner.reads.Load())
	})

	t.Run("ReadAll", func(t *testing.T) {
		got, err := ReadAll(ctx, store, "test")
		require.NoError(t, err)
		assert.Equal(t, data, got)
		assert.Equal(t, int64(3), inner.reads.Load())
	})
}

func TestCachingStore_SmallFile(t *testing.T) {
	ctx := context.Background()
	inner := newCounting(t, map[string][]byte{"small": []byte("hello")})
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024), 256)

	blob, err := store.Open(ctx, "small")
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := blob.ReadAt(ctx, buf, 0)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf[:n]))

	r, err := blob.ReadRange(ctx, 1, 3)
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ell", string(got))

	_, err = blob.ReadRange(ctx, 5, 1)
	assert.ErrorIs(t, err, io.EOF)
}

func TestCachingStore_Invalidation(t *testing.T) {
	ctx := context.Background()
	inner := newCounting(t, map[string][]byte{"doc": []byte("v1")})
	store := NewCachingStore(inner, cache.NewLRUBlockCache(1024), 16)

	got, err := ReadAll(ctx, store, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, store.Put(ctx, "doc", []byte("v2!")))
	got, err = ReadAll(ctx, store, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v2!", string(got))

	w, err := store.Create(ctx, "doc")
	require.NoError(t, err)
	_, err = w.Write([]byte("v3"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	got, err = ReadAll(ctx, store, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v3", string(got))

	require.NoError(t, store.Delete(ctx, "doc"))
	_, err = ReadAll(ctx, store, "doc")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
