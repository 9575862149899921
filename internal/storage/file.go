package storage

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const fileFormatVersion = "1.0"

// FileStore keeps all keys in a single JSON document.
// Every write rewrites the document atomically via a temp file and rename.
type FileStore struct {
	entries         map[string][]byte
	filePath        string
	filePermissions os.FileMode
	dirPermissions  os.FileMode
}

// persistenceFile is the on-disk document layout.
type persistenceFile struct {
	Version string            `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Entries map[string][]byte `json:"entries"`
}

// NewFileStore opens the document at filePath, creating nothing until the
// first write. An empty filePath uses the OS tmp directory.
func NewFileStore(filePath string, filePermissions, dirPermissions os.FileMode) (*FileStore, error) {
	s := &FileStore{
		entries:         make(map[string][]byte),
		filePath:        defaultPath(filePath, "data.json"),
		filePermissions: filePermissions,
		dirPermissions:  dirPermissions,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.filePath
}

// Get returns a copy of the value stored under key.
func (s *FileStore) Get(key string) ([]byte, error) {
	v, ok := s.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put stores value under key and rewrites the document.
// On write failure the in-memory value is rolled back.
func (s *FileStore) Put(key string, value []byte) error {
	prev, had := s.entries[key]
	v := make([]byte, len(value))
	copy(v, value)
	s.entries[key] = v

	if err := s.save(); err != nil {
		if had {
			s.entries[key] = prev
		} else {
			delete(s.entries, key)
		}
		return err
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileStore) Delete(key string) error {
	prev, had := s.entries[key]
	if !had {
		return nil
	}
	delete(s.entries, key)
	if err := s.save(); err != nil {
		s.entries[key] = prev
		return err
	}
	return nil
}

// Close is a no-op; every write is already durable.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) save() error {
	if err := ensureDir(s.filePath, s.dirPermissions); err != nil {
		return err
	}

	data := persistenceFile{
		Version: fileFormatVersion,
		SavedAt: time.Now(),
		Entries: s.entries,
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temporary file first (atomic write)
	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, jsonData, s.filePermissions); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tempPath, s.filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

func (s *FileStore) load() error {
	// Clean up any stale temp files from previous crashes
	tempPath := s.filePath + ".tmp"
	if _, err := os.Stat(tempPath); err == nil {
		_ = os.Remove(tempPath)
	}

	jsonData, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var data persistenceFile
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if data.Entries != nil {
		s.entries = data.Entries
	}
	return nil
}
