// Package store persists class definition documents so a definition set can
// be imported once and served by many processes.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/conduit-lang/classmeta/internal/classdef"
)

// Store defines the interface for all definition backends
type Store interface {
	// Put stores a document under key, replacing any previous one
	Put(ctx context.Context, key string, doc *classdef.Document) error

	// Get retrieves the document stored under key. It returns an error
	// matching ErrNotFound when there is none.
	Get(ctx context.Context, key string) (*classdef.Document, error)

	// Delete removes the document stored under key. Deleting a missing key
	// is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys in ascending order
	Keys(ctx context.Context) ([]string, error)

	// Close releases the backend's resources
	Close() error
}

// ErrNotFound is matched by errors for keys without a document
var ErrNotFound = errors.New("definition not found")

// NotFoundError is returned when no document is stored under Key
type NotFoundError struct {
	Key string
}

func (e NotFoundError) Error() string {
	return "definition not found: " + e.Key
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Encode serializes a document the way backends store it
func Encode(doc *classdef.Document) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("nil definition document")
	}
	data, err := doc.Marshal(classdef.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to encode definitions: %w", err)
	}
	return data, nil
}

// Decode parses a stored document
func Decode(key string, data []byte) (*classdef.Document, error) {
	doc, err := classdef.Parse(data, classdef.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("stored definitions %s: %w", key, err)
	}
	return doc, nil
}

// Documents returns every stored document in key order
func Documents(ctx context.Context, s Store) ([]*classdef.Document, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]*classdef.Document, 0, len(keys))
	for _, key := range keys {
		doc, err := s.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// Deleted since listing.
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
