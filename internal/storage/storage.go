// Package storage provides the opaque key-value persistence used by search
// analytics. Values are uninterpreted bytes; callers own the encoding.
//
// Several backends implement Store: a single JSON document with atomic
// writes (the default), SQLite, Pebble and an in-memory map. A missing key is
// reported as ErrNotFound so callers can treat absence as an empty default.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when a key has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is an opaque key-value store.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

const (
	defaultFilePermissions os.FileMode = 0o644
	defaultDirPermissions  os.FileMode = 0o755
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	FilePath  string // file backend
	DBPath    string // sqlite backend
	PebbleDir string // pebble backend
}

// Open creates the Store described by opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendFile, "":
		return NewFileStore(opts.FilePath, defaultFilePermissions, defaultDirPermissions)
	case BackendSQLite:
		return NewSQLiteStore(opts.DBPath)
	case BackendPebble:
		return NewPebbleStore(opts.PebbleDir)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// defaultPath returns path, or an OS-appropriate tmp location when empty.
func defaultPath(path, name string) string {
	if path == "" {
		return filepath.Join(os.TempDir(), "hfotank", name)
	}
	return path
}

// ensureDir creates the parent directory of path.
func ensureDir(path string, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
