// Package sqlstore keeps definition documents in a SQL table. SQLite and
// PostgreSQL (through pgx or lib/pq) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/store"
)

// Dialect selects the placeholder style of a database
type Dialect int

const (
	// SQLite uses "?" placeholders
	SQLite Dialect = iota
	// Postgres uses "$n" placeholders
	Postgres
)

// DialectFor returns the dialect of a database/sql driver name
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3":
		return SQLite, nil
	case "pgx", "postgres":
		return Postgres, nil
	}
	return 0, fmt.Errorf("unsupported database driver %q", driver)
}

// Store implements store.Store over database/sql
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open connects with the given driver and creates the definitions table
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == SQLite {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s := New(db, dialect)
	if err := s.Initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New creates a store over an existing connection pool
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect, now: time.Now}
}

// Initialize ensures the classmeta_definitions table exists
func (s *Store) Initialize(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS classmeta_definitions (
	name VARCHAR(255) PRIMARY KEY,
	body TEXT NOT NULL,
	updated_at BIGINT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize definitions table: %w", err)
	}
	return nil
}

// bind rewrites "?" placeholders for the store's dialect
func (s *Store) bind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

// Put inserts or replaces the document stored under key
func (s *Store) Put(ctx context.Context, key string, doc *classdef.Document) error {
	data, err := store.Encode(doc)
	if err != nil {
		return err
	}
	query := s.bind(`
INSERT INTO classmeta_definitions (name, body, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, query, key, string(data), s.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to store definitions %s: %w", key, err)
	}
	return nil
}

// Get loads the document stored under key
func (s *Store) Get(ctx context.Context, key string) (*classdef.Document, error) {
	var body string
	query := s.bind(`SELECT body FROM classmeta_definitions WHERE name = ?`)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFoundError{Key: key}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load definitions %s: %w", key, err)
	}
	return store.Decode(key, []byte(body))
}

// Delete removes the document stored under key
func (s *Store) Delete(ctx context.Context, key string) error {
	query := s.bind(`DELETE FROM classmeta_definitions WHERE name = ?`)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete definitions %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in ascending order
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM classmeta_definitions ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan definition key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	return keys, nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}
