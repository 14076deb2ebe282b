package store

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/conduit-lang/classmeta/internal/classdef"
)

// DefaultCacheSize is the number of documents kept by NewCached when no
// size is given
const DefaultCacheSize = 256

// Cached keeps recently read documents in memory in front of another
// store. Concurrent misses for the same key share one backend read.
// Documents returned by Get are shared and must not be modified.
type Cached struct {
	backend Store
	cache   *lru.Cache
	group   singleflight.Group
}

var _ Store = (*Cached)(nil)

// NewCached wraps backend with an LRU cache of size documents
func NewCached(backend Store, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cached{backend: backend, cache: cache}, nil
}

// Put stores the document and drops the cached copy
func (c *Cached) Put(ctx context.Context, key string, doc *classdef.Document) error {
	if err := c.backend.Put(ctx, key, doc); err != nil {
		return err
	}
	c.cache.Remove(key)
	return nil
}

// Get returns the cached document or reads it from the backend
func (c *Cached) Get(ctx context.Context, key string) (*classdef.Document, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.(*classdef.Document), nil
	}
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		doc, err := c.backend.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*classdef.Document), nil
}

// Delete removes the document from the backend and the cache
func (c *Cached) Delete(ctx context.Context, key string) error {
	c.cache.Remove(key)
	return c.backend.Delete(ctx, key)
}

// Keys lists the backend's keys
func (c *Cached) Keys(ctx context.Context) ([]string, error) {
	return c.backend.Keys(ctx)
}

// Len returns the number of cached documents
func (c *Cached) Len() int {
	return c.cache.Len()
}

// Close purges the cache and closes the backend
func (c *Cached) Close() error {
	c.cache.Purge()
	return c.backend.Close()
}
