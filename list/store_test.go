package list

import (
	"errors"
	"testing"
	"time"

	"github.com/amonks/agenda/internal/kv"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()

	backing := kv.NewFileStore(t.TempDir())
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	store := NewStore(backing, Options{
		Now: func() time.Time {
			now = now.Add(time.Second)
			return now
		},
	})
	if err := store.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	return store, backing
}

func TestStore_CreateAppendsAndPersists(t *testing.T) {
	store, backing := newTestStore(t)

	created, err := store.Create("  Lavoro   💼 ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Label != "Lavoro 💼" {
		t.Fatalf("expected trimmed label, got %q", created.Label)
	}
	if len(created.ID) != 8 {
		t.Fatalf("expected 8-char ID, got %q", created.ID)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 list, got %d", store.Len())
	}

	got, ok := store.Get(created.ID)
	if !ok || got != created {
		t.Fatalf("expected to retrieve %+v, got %+v (ok=%v)", created, got, ok)
	}

	data, ok, err := backing.Load(kv.KeyLists)
	if err != nil || !ok {
		t.Fatalf("expected persisted lists, ok=%v err=%v", ok, err)
	}
	want := `[{"value":"` + created.ID + `","label":"Lavoro 💼"}]`
	if string(data) != want {
		t.Fatalf("expected %s, got %s", want, data)
	}
}

func TestStore_CreateRejectsEmptyLabels(t *testing.T) {
	store, backing := newTestStore(t)

	for _, label := range []string{"", "   ", "\t\n"} {
		if _, err := store.Create(label); !errors.Is(err, ErrEmptyLabel) {
			t.Fatalf("Create(%q): expected ErrEmptyLabel, got %v", label, err)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", store.Len())
	}
	if _, ok, _ := backing.Load(kv.KeyLists); ok {
		t.Fatal("expected nothing to be written")
	}
}

func TestStore_CreateGeneratesDistinctIDs(t *testing.T) {
	backing := kv.NewFileStore(t.TempDir())
	frozen := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	store := NewStore(backing, Options{Now: func() time.Time { return frozen }})

	first, err := store.Create("Spesa")
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := store.Create("Spesa")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct IDs, both are %q", first.ID)
	}
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	work, _ := store.Create("Lavoro")
	home, _ := store.Create("Casa")

	deleted, err := store.Delete(work.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to report true")
	}
	if _, ok := store.Get(work.ID); ok {
		t.Fatal("expected deleted list to be gone")
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 list, got %d", store.Len())
	}

	deleted, err = store.Delete("missing")
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if deleted {
		t.Fatal("expected delete of missing ID to report false")
	}
	if lists := store.Lists(); len(lists) != 1 || lists[0] != home {
		t.Fatalf("expected only %+v, got %+v", home, lists)
	}
}

func TestStore_RestoreRoundTrip(t *testing.T) {
	store, backing := newTestStore(t)

	for _, label := range []string{"Lavoro", "Casa 🏠", "Palestra"} {
		if _, err := store.Create(label); err != nil {
			t.Fatalf("create %q: %v", label, err)
		}
	}
	want := store.Lists()

	restored := NewStore(backing, Options{})
	if err := restored.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got := restored.Lists()
	if len(got) != len(want) {
		t.Fatalf("expected %d lists, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("list %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestStore_RestoreMalformedIsEmpty(t *testing.T) {
	backing := kv.NewFileStore(t.TempDir())
	if err := backing.Save(kv.KeyLists, []byte(`[{"value":`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := NewStore(backing, Options{})
	if err := store.Restore(); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", store.Len())
	}
}

func TestStore_ListsReturnsCopy(t *testing.T) {
	store, _ := newTestStore(t)
	created, _ := store.Create("Lavoro")

	lists := store.Lists()
	lists[0].Label = "changed"

	got, _ := store.Get(created.ID)
	if got.Label != "Lavoro" {
		t.Fatalf("expected store to be unaffected, got %q", got.Label)
	}
}

func TestStore_Resolve(t *testing.T) {
	store, _ := newTestStore(t)
	work, _ := store.Create("Lavoro")
	home, _ := store.Create("Casa")

	cases := []struct {
		name string
		ref  string
		want List
	}{
		{name: "exact id", ref: work.ID, want: work},
		{name: "label", ref: "casa", want: home},
		{name: "label with padding", ref: "  LAVORO ", want: work},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.Resolve(tc.ref)
			if err != nil {
				t.Fatalf("resolve %q: %v", tc.ref, err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}

	if _, err := store.Resolve("Palestra"); !errors.Is(err, ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound, got %v", err)
	}
	if _, err := store.Resolve(""); !errors.Is(err, ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound for empty ref, got %v", err)
	}

	if _, err := store.Create("Casa"); err != nil {
		t.Fatalf("create duplicate label: %v", err)
	}
	if _, err := store.Resolve("Casa"); !errors.Is(err, ErrAmbiguousListRef) {
		t.Fatalf("expected ErrAmbiguousListRef, got %v", err)
	}
}

func TestStore_ResolveByPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	work, _ := store.Create("Lavoro")

	got, err := store.Resolve(work.ID[:6])
	if err != nil {
		t.Fatalf("resolve prefix: %v", err)
	}
	if got != work {
		t.Fatalf("expected %+v, got %+v", work, got)
	}
}

func TestStore_Search(t *testing.T) {
	store, _ := newTestStore(t)
	work, _ := store.Create("Lavoro")
	store.Create("Casa")
	store.Create("Palestra")

	if got := store.Search(""); len(got) != 3 {
		t.Fatalf("expected all lists for empty query, got %+v", got)
	}

	got := store.Search("lvr")
	if len(got) != 1 || got[0] != work {
		t.Fatalf("expected fuzzy match on Lavoro, got %+v", got)
	}

	if got := store.Search("zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}
