package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = fs.Close()
		_ = sq.Close()
	})
	return map[string]Store{"file": fs, "sqlite": sq}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "weather-favorites")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_PutGetOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "weather-favorites", []byte(`[{"name":"西宮市"}]`)))
			got, err := s.Get(ctx, "weather-favorites")
			require.NoError(t, err)
			assert.JSONEq(t, `[{"name":"西宮市"}]`, string(got))

			require.NoError(t, s.Put(ctx, "weather-favorites", []byte(`[]`)))
			got, err = s.Get(ctx, "weather-favorites")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(got))
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, "a", []byte("1")))
			require.NoError(t, s.Put(ctx, "a/b", []byte("2")))

			a, err := s.Get(ctx, "a")
			require.NoError(t, err)
			ab, err := s.Get(ctx, "a/b")
			require.NoError(t, err)
			assert.Equal(t, "1", string(a))
			assert.Equal(t, "2", string(ab))
		})
	}
}

func TestStore_Ping(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Ping(context.Background()))
		})
	}
}

func TestFileStore_PingMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, s.Ping(context.Background()))
}

func TestFileStore_CancelledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "k", []byte("v")), context.Canceled)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "weather-favorites", []byte("[]")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "weather-favorites")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	fs, err := Open(BackendFile, filepath.Join(dir, "files"))
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, fs)

	sq, err := Open(BackendSQLite, filepath.Join(dir, "db"))
	require.NoError(t, err)
	defer sq.Close()
	assert.IsType(t, &SQLiteStore{}, sq)
	assert.FileExists(t, filepath.Join(dir, "db", "weather.db"))

	_, err = Open("redis", dir)
	assert.Error(t, err)
}
