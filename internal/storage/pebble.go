package storage

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// PebbleStore keeps keys in a Pebble database directory. Writes are synced.
type PebbleStore struct {
	db  *pebble.DB
	dir string
}

// NewPebbleStore opens (or creates) the Pebble database in dir.
func NewPebbleStore(dir string) (*PebbleStore, error) {
	dir = defaultPath(dir, "pebble")
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble store: open %s: %w", dir, err)
	}
	return &PebbleStore{db: db, dir: dir}, nil
}

func (s *PebbleStore) Get(key string) ([]byte, error) {
	value, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("pebble store: get %s: %w", key, err)
	}
	defer closer.Close()

	// value is only valid until closer.Close.
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *PebbleStore) Put(key string, value []byte) error {
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("pebble store: put %s: %w", key, err)
	}
	return nil
}

func (s *PebbleStore) Delete(key string) error {
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble store: delete %s: %w", key, err)
	}
	return nil
}

// Close flushes and closes the database.
func (s *PebbleStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
