package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is durable key/value storage for session state.
type Store interface {
	// Read returns the stored value, or ok=false when the key is absent.
	Read(key string) (value []byte, ok bool, err error)

	// Write stores a value under key, replacing any previous value.
	Write(key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error
}

// FileStore implements Store with one file per key inside a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates a FileStore rooted at basePath, creating it if needed.
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) Read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *FileStore) Write(key string, value []byte) error {
	path := filepath.Join(s.basePath, key)
	if err := os.WriteFile(path, value, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	if err := os.Remove(filepath.Join(s.basePath, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
