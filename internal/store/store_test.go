package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend runs the common get/set/remove contract against b.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, found, err := b.Get(ctx, "weatherverse_user")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, b.Set(ctx, "weatherverse_user", `{"id":"1"}`))
	v, found, err := b.Get(ctx, "weatherverse_user")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"1"}`, v)

	require.NoError(t, b.Set(ctx, "weatherverse_user", `{"id":"2"}`))
	v, _, err = b.Get(ctx, "weatherverse_user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2"}`, v)

	require.NoError(t, b.Remove(ctx, "weatherverse_user"))
	_, found, err = b.Get(ctx, "weatherverse_user")
	require.NoError(t, err)
	assert.False(t, found)

	// removing twice is not an error
	require.NoError(t, b.Remove(ctx, "weatherverse_user"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseBackend(t, s)
	assert.Equal(t, 0, s.Len())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "weatherverse.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseBackend(t, s)
}

func TestOpenSQLiteClosesDatabaseOnSchemaError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weatherverse.db")

	// an index named kv makes the table creation fail
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (x TEXT); CREATE INDEX kv ON other (x)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	var opened *sql.DB
	openDB = func(driver, dsn string) (*sql.DB, error) {
		db, err := sql.Open(driver, dsn)
		opened = db
		return db, err
	}
	t.Cleanup(func() { openDB = sql.Open })

	_, err = OpenSQLite(path)
	require.ErrorContains(t, err, "sqlite schema")
	require.NotNil(t, opened)
	assert.ErrorContains(t, opened.Ping(), "database is closed")
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weatherverse.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "weatherverse_favorites", `[]`))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, "weatherverse_favorites")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, v)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("WEATHERVERSE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WEATHERVERSE_TEST_REDIS_ADDR not set")
	}

	s, err := NewRedisStore(context.Background(), RedisOptions{Addr: addr, Prefix: "test:" + t.Name() + ":"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseBackend(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, b)

	b, err = Open(ctx, Options{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "kv.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, b)
	require.NoError(t, b.Close())

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.Error(t, err)
}
