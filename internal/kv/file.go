package kv

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// FileStore keeps one JSON file per key inside a directory.
// Writes are atomic and serialized across processes with a lock file.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the store files.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.dir, "agenda.lock")
}

// Load reads the blob for key. Returns ok=false if the file doesn't exist.
func (s *FileStore) Load(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(s.keyPath(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Save writes the blob for key while holding the store lock.
func (s *FileStore) Save(key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.withLock(func() error {
		return s.write(key, data)
	})
}

// Close is a no-op for file stores.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) write(key string, data []byte) error {
	path := s.keyPath(key)

	if existing, err := os.ReadFile(path); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read %s: %w", key, err)
	}

	// Write atomically via temp file
	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", key, err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp file for %s: %w", key, err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename %s: %w", key, err)
	}

	return nil
}

// withLock runs fn while holding an exclusive lock on the store directory.
func (s *FileStore) withLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	return fn()
}
