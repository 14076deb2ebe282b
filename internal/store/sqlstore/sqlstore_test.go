package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/store"
)

func sampleDoc(name string) *classdef.Document {
	return &classdef.Document{
		Loader:  "app",
		Classes: []classdef.Class{{Name: name, Modifiers: []string{"public"}}},
	}
}

func setupSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := setupSQLite(t)

	require.NoError(t, s.Put(ctx, "b.yaml", sampleDoc("p.B")))
	require.NoError(t, s.Put(ctx, "a.yaml", sampleDoc("p.A")))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, keys)

	doc, err := s.Get(ctx, "a.yaml")
	require.NoError(t, err)
	assert.Equal(t, sampleDoc("p.A"), doc)

	// Put replaces.
	require.NoError(t, s.Put(ctx, "a.yaml", sampleDoc("p.A2")))
	doc, err = s.Get(ctx, "a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "p.A2", doc.Classes[0].Name)

	require.NoError(t, s.Delete(ctx, "a.yaml"))
	_, err = s.Get(ctx, "a.yaml")
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, s.Delete(ctx, "a.yaml"), "deleting twice is fine")

	docs, err := store.Documents(ctx, s)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "p.B", docs[0].Classes[0].Name)
}

func TestStore_InitializeIsIdempotent(t *testing.T) {
	s := setupSQLite(t)
	assert.NoError(t, s.Initialize(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.EqualError(t, err, `unsupported database driver "mysql"`)
}

func TestDialectFor(t *testing.T) {
	tests := map[string]Dialect{"sqlite3": SQLite, "pgx": Postgres, "postgres": Postgres}
	for driver, want := range tests {
		got, err := DialectFor(driver)
		require.NoError(t, err)
		assert.Equal(t, want, got, driver)
	}
}

func TestStore_Bind(t *testing.T) {
	q := "UPDATE t SET a = ?, b = ? WHERE c = ?"
	assert.Equal(t, q, New(nil, SQLite).bind(q))
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE c = $3", New(nil, Postgres).bind(q))
}

func TestStore_PostgresQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, Postgres)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()

	body, err := store.Encode(sampleDoc("p.A"))
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3)")).
		WithArgs("a.yaml", string(body), int64(1700000000000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Put(ctx, "a.yaml", sampleDoc("p.A")))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM classmeta_definitions WHERE name = $1")).
		WithArgs("a.yaml").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(string(body)))
	doc, err := s.Get(ctx, "a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "p.A", doc.Classes[0].Name)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT body FROM classmeta_definitions WHERE name = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))
	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT name FROM classmeta_definitions ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a.yaml").AddRow("b.yaml"))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, keys)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classmeta_definitions WHERE name = $1")).
		WithArgs("a.yaml").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Delete(ctx, "a.yaml"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DatabaseErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, SQLite)
	ctx := context.Background()
	boom := errors.New("connection reset")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS classmeta_definitions").WillReturnError(boom)
	err = s.Initialize(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to initialize definitions table")

	mock.ExpectQuery("SELECT body").WillReturnError(boom)
	_, err = s.Get(ctx, "a.yaml")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	mock.ExpectQuery("SELECT body").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow("{not json"))
	_, err = s.Get(ctx, "a.yaml")
	assert.ErrorContains(t, err, "stored definitions a.yaml")

	mock.ExpectQuery("SELECT name").WillReturnError(boom)
	_, err = s.Keys(ctx)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}
