package kv

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type entry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	sqliteStore, err := OpenSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		BackendFile:   NewFileStore(t.TempDir()),
		BackendSQLite: sqliteStore,
	}
}

func TestStore_LoadMissing(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			data, ok, err := store.Load(KeyLists)
			if err != nil {
				t.Fatalf("load missing key: %v", err)
			}
			if ok || data != nil {
				t.Fatalf("expected missing key, got ok=%v data=%q", ok, data)
			}
		})
	}
}

func TestStore_SaveLoad(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Save(KeyTasks, []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			if err := store.Save(KeyTasks, []byte(`[{"id":"b"}]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}

			data, ok, err := store.Load(KeyTasks)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if !ok {
				t.Fatal("expected key to exist")
			}
			if string(data) != `[{"id":"b"}]` {
				t.Fatalf("expected overwritten blob, got %q", data)
			}
		})
	}
}

func TestStore_RejectsInvalidKeys(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{"", "../escape", "Lists"} {
				if err := store.Save(key, []byte("[]")); !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("Save(%q): expected ErrInvalidKey, got %v", key, err)
				}
				if _, _, err := store.Load(key); !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("Load(%q): expected ErrInvalidKey, got %v", key, err)
				}
			}
		})
	}
}

func TestFileStore_WritesOneFilePerKey(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)

	if err := store.Save(KeyLists, []byte("[]")); err != nil {
		t.Fatalf("save lists: %v", err)
	}
	if err := store.Save(KeyTasks, []byte("[]")); err != nil {
		t.Fatalf("save tasks: %v", err)
	}

	for _, name := range []string{"lists.json", "tasks.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s to exist: %v", name, err)
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp*"))
	if err != nil {
		t.Fatalf("glob temp files: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no temp files left behind, got %v", matches)
	}
}

func TestFileStore_ConcurrentSaves(t *testing.T) {
	store := NewFileStore(t.TempDir())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Save(KeyLists, []byte(`[]`)); err != nil {
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	data, ok, err := store.Load(KeyLists)
	if err != nil || !ok || string(data) != "[]" {
		t.Fatalf("unexpected final state: data=%q ok=%v err=%v", data, ok, err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open("", dir)
	if err != nil {
		t.Fatalf("open default backend: %v", err)
	}
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", store)
	}

	store, err = Open("SQLite", dir)
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*SQLiteStore); !ok {
		t.Fatalf("expected *SQLiteStore, got %T", store)
	}

	if _, err := Open("redis", dir); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	for name, store := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			items := []entry{{ID: "b", Label: "Lavoro"}, {ID: "a", Label: "Casa 🏠"}}
			if err := SaveJSON(store, KeyLists, items); err != nil {
				t.Fatalf("save json: %v", err)
			}

			got, err := LoadJSON[entry](store, KeyLists, nil)
			if err != nil {
				t.Fatalf("load json: %v", err)
			}
			if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
				t.Fatalf("round trip mismatch: got %+v", got)
			}
		})
	}
}

func TestJSON_MissingIsEmpty(t *testing.T) {
	store := NewFileStore(t.TempDir())

	got, err := LoadJSON[entry](store, KeyLists, nil)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestJSON_MalformedIsEmptyAndLogged(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := store.Save(KeyLists, []byte(`{not json`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	got, err := LoadJSON[entry](store, KeyLists, logger)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %+v", got)
	}
	if !strings.Contains(buf.String(), "discarding malformed lists") {
		t.Fatalf("expected malformed blob to be logged, got %q", buf.String())
	}
}

func TestJSON_NilSavesEmptyArray(t *testing.T) {
	store := NewFileStore(t.TempDir())
	if err := SaveJSON[entry](store, KeyTasks, nil); err != nil {
		t.Fatalf("save json: %v", err)
	}
	data, _, err := store.Load(KeyTasks)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected [], got %q", data)
	}
}

func TestObject_RoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	var missing entry
	ok, err := LoadObject(store, KeyProfile, &missing, nil)
	if err != nil || ok {
		t.Fatalf("expected missing profile, got ok=%v err=%v", ok, err)
	}

	if err := SaveObject(store, KeyProfile, entry{ID: "me", Label: "Tino"}); err != nil {
		t.Fatalf("save object: %v", err)
	}

	var got entry
	ok, err = LoadObject(store, KeyProfile, &got, nil)
	if err != nil || !ok {
		t.Fatalf("load object: ok=%v err=%v", ok, err)
	}
	if got.Label != "Tino" {
		t.Fatalf("expected Tino, got %+v", got)
	}
}
