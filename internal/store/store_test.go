package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/classmeta/internal/classdef"
)

// countingStore counts backend reads and can block them.
type countingStore struct {
	*Memory
	gets    atomic.Int64
	release chan struct{}
}

func (c *countingStore) Get(ctx context.Context, key string) (*classdef.Document, error) {
	c.gets.Add(1)
	if c.release != nil {
		<-c.release
	}
	return c.Memory.Get(ctx, key)
}

func doc(name string) *classdef.Document {
	return &classdef.Document{Classes: []classdef.Class{{Name: name}}}
}

func TestNotFoundError(t *testing.T) {
	err := error(NotFoundError{Key: "a.yaml"})
	assert.EqualError(t, err, "definition not found: a.yaml")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, errors.Is(errors.New("other"), ErrNotFound))
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	original := doc("p.A")
	require.NoError(t, m.Put(ctx, "a", original))
	original.Classes[0].Name = "changed"

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "p.A", got.Classes[0].Name, "the store keeps its own copy")

	assert.Error(t, m.Put(ctx, "nil", nil))

	require.NoError(t, m.Put(ctx, "c", doc("p.C")))
	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestCached_ServesFromCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory()}
	require.NoError(t, backend.Put(ctx, "a", doc("p.A")))

	c, err := NewCached(backend, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := c.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "p.A", got.Classes[0].Name)
	}
	assert.Equal(t, int64(1), backend.gets.Load())
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Put(ctx, "a", doc("p.A2")))
	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "p.A2", got.Classes[0].Name, "Put invalidates")
	assert.Equal(t, int64(2), backend.gets.Load())

	require.NoError(t, c.Delete(ctx, "a"))
	_, err = c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, c.Len(), "misses are not cached")
}

func TestCached_Evicts(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory()}
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, backend.Put(ctx, k, doc(k)))
	}
	c, err := NewCached(backend, 2)
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c", "a"} {
		_, err := c.Get(ctx, k)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(4), backend.gets.Load(), "a was evicted by c")
	assert.Equal(t, 2, c.Len())
}

func TestCached_SharesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory(), release: make(chan struct{})}
	require.NoError(t, backend.Memory.Put(ctx, "a", doc("p.A")))

	c, err := NewCached(backend, 0)
	require.NoError(t, err)

	const readers = 8
	var started, done sync.WaitGroup
	started.Add(readers)
	done.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			got, err := c.Get(ctx, "a")
			assert.NoError(t, err)
			assert.Equal(t, "p.A", got.Classes[0].Name)
		}()
	}
	started.Wait()
	close(backend.release)
	done.Wait()

	// Readers that arrived after the flight finished hit the cache.
	assert.LessOrEqual(t, backend.gets.Load(), int64(readers))
	assert.GreaterOrEqual(t, backend.gets.Load(), int64(1))
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Put(ctx, "2-app", doc("p.App")))
	require.NoError(t, m.Put(ctx, "1-lang", doc("java.lang.String")))

	docs, err := Documents(ctx, m)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "java.lang.String", docs[0].Classes[0].Name)
	assert.Equal(t, "p.App", docs[1].Classes[0].Name)
}
