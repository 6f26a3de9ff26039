// Package kv persists named blobs in a local durable key-value store.
//
// Each collection the application owns (lists, tasks, the onboarding
// profile) is written as a single JSON document under its own key. Writes
// replace the whole document; there are no partial updates.
package kv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/agenda/internal/validation"
)

// Keys used by the application.
const (
	KeyLists   = "lists"
	KeyTasks   = "tasks"
	KeyProfile = "profile"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	// ErrInvalidKey is returned for keys that cannot be stored.
	ErrInvalidKey = errors.New("invalid key")

	// ErrUnknownBackend is returned by Open for unsupported backends.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store loads and saves named blobs.
type Store interface {
	// Load returns the blob stored under key. ok is false when the key has
	// never been written.
	Load(key string) (data []byte, ok bool, err error)

	// Save replaces the blob stored under key.
	Save(key string, data []byte) error

	// Close releases resources held by the store.
	Close() error
}

// Open opens a store of the named backend rooted at dir.
// An empty backend selects BackendFile.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return OpenSQLiteStore(dir)
	default:
		return nil, validation.FormatInvalidValueError(ErrUnknownBackend, backend, ValidBackends())
	}
}

// ValidBackends returns the supported backend names.
func ValidBackends() []string {
	return []string{BackendFile, BackendSQLite}
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	for _, r := range key {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-' && r != '_' {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
