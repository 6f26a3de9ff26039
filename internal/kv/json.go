package kv

import (
	"encoding/json"
	"fmt"
	"log"
)

// LoadJSON decodes the JSON array stored under key. A missing key or a
// malformed document yields an empty slice; the latter is logged to logger
// when one is given. Only storage errors are returned.
func LoadJSON[T any](store Store, key string, logger *log.Logger) ([]T, error) {
	data, ok, err := store.Load(key)
	if err != nil {
		return nil, err
	}
	if !ok || len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		if logger != nil {
			logger.Printf("discarding malformed %s: %v", key, err)
		}
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// SaveJSON encodes items as a JSON array and stores it under key.
func SaveJSON[T any](store Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return store.Save(key, data)
}

// LoadObject decodes the JSON object stored under key into target.
// It reports false when the key is missing or the document is malformed.
func LoadObject(store Store, key string, target any, logger *log.Logger) (bool, error) {
	data, ok, err := store.Load(key)
	if err != nil {
		return false, err
	}
	if !ok || len(data) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		if logger != nil {
			logger.Printf("discarding malformed %s: %v", key, err)
		}
		return false, nil
	}
	return true, nil
}

// SaveObject encodes value as JSON and stores it under key.
func SaveObject(store Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return store.Save(key, data)
}
