// Package redisstore keeps definition documents in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/store"
)

// Store implements store.Store over a Redis client
type Store struct {
	client *redis.Client
	prefix string
}

var _ store.Store = (*Store)(nil)

// Config holds Redis-specific configuration
type Config struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
	// Prefix is prepended to all keys
	Prefix string
}

// DefaultConfig returns a default Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:   "localhost:6379",
		Prefix: "classmeta:definitions:",
	}
}

// New connects to Redis and checks the connection
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}
	return NewWithClient(client, config.Prefix), nil
}

// NewWithClient creates a store over an existing client
func NewWithClient(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Put stores the document under key
func (s *Store) Put(ctx context.Context, key string, doc *classdef.Document) error {
	data, err := store.Encode(doc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store definitions %s: %w", key, err)
	}
	return nil
}

// Get retrieves the document stored under key
func (s *Store) Get(ctx context.Context, key string) (*classdef.Document, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.NotFoundError{Key: key}
		}
		return nil, fmt.Errorf("failed to load definitions %s: %w", key, err)
	}
	return store.Decode(key, data)
}

// Delete removes the document stored under key
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Keys lists the stored keys in ascending order
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
