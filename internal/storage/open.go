package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open builds the store for backend. For the file backend path is a
// directory. For sqlite it is either the database file or a directory in
// which weather.db is created.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		if path == ":memory:" {
			return NewSQLiteStore(path)
		}
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "weather.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
