package store

import (
	"context"
	"sort"
	"sync"

	"github.com/conduit-lang/classmeta/internal/classdef"
)

// Memory is an in-process store, used when no backend is configured
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Put stores an encoded copy of the document
func (m *Memory) Put(ctx context.Context, key string, doc *classdef.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[key] = data
	m.mu.Unlock()
	return nil
}

// Get decodes a fresh copy of the stored document
func (m *Memory) Get(ctx context.Context, key string) (*classdef.Document, error) {
	m.mu.RLock()
	data, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return nil, NotFoundError{Key: key}
	}
	return Decode(key, data)
}

// Delete removes the document
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.docs, key)
	m.mu.Unlock()
	return nil
}

// Keys lists the stored keys in ascending order
func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}
