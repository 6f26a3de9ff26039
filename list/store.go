package list

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/amonks/agenda/internal/ids"
	"github.com/amonks/agenda/internal/kv"
	internalstrings "github.com/amonks/agenda/internal/strings"
	"github.com/sahilm/fuzzy"
)

// Store owns the list collection and writes it through to a kv.Store on
// every mutation.
type Store struct {
	mu     sync.RWMutex
	kv     kv.Store
	now    func() time.Time
	logger *log.Logger
	lists  []List
}

// Options configures a Store.
type Options struct {
	// Now returns the current time used for ID generation. Defaults to time.Now.
	Now func() time.Time

	// Logger receives recovery warnings. May be nil.
	Logger *log.Logger
}

// NewStore creates an empty store backed by store. Call Restore to load the
// persisted collection.
func NewStore(store kv.Store, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		kv:     store,
		now:    opts.Now,
		logger: opts.Logger,
		lists:  []List{},
	}
}

// Restore replaces the in-memory collection with the persisted one.
// A missing or malformed document restores an empty collection.
func (s *Store) Restore() error {
	lists, err := kv.LoadJSON[List](s.kv, kv.KeyLists, s.logger)
	if err != nil {
		return fmt.Errorf("restore lists: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = lists
	return nil
}

// Create appends a list with the given label and persists the collection.
func (s *Store) Create(label string) (List, error) {
	label = internalstrings.NormalizeWhitespace(label)
	if label == "" {
		return List{}, ErrEmptyLabel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := List{
		ID:    ids.GenerateUnique(label, s.now(), s.hasIDLocked),
		Label: label,
	}

	next := append(cloneLists(s.lists), created)
	if err := kv.SaveJSON(s.kv, kv.KeyLists, next); err != nil {
		return List{}, fmt.Errorf("write lists: %w", err)
	}
	s.lists = next
	return created, nil
}

// Delete removes the list with the given ID and persists the collection.
// It reports false, without writing, when no list has that ID.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexLocked(id)
	if index < 0 {
		return false, nil
	}

	next := make([]List, 0, len(s.lists)-1)
	next = append(next, s.lists[:index]...)
	next = append(next, s.lists[index+1:]...)
	if err := kv.SaveJSON(s.kv, kv.KeyLists, next); err != nil {
		return false, fmt.Errorf("write lists: %w", err)
	}
	s.lists = next
	return true, nil
}

// Get returns the list with the given ID.
func (s *Store) Get(id string) (List, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := s.indexLocked(id)
	if index < 0 {
		return List{}, false
	}
	return s.lists[index], true
}

// Lists returns a copy of the collection in insertion order.
func (s *Store) Lists() []List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLists(s.lists)
}

// Len returns the number of lists.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists)
}

// Resolve finds a list by exact ID, unique ID prefix, or case-insensitive
// label.
func (s *Store) Resolve(ref string) (List, error) {
	ref = internalstrings.NormalizeWhitespace(ref)
	if ref == "" {
		return List{}, ErrListNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var byLabel []List
	for _, l := range s.lists {
		if strings.EqualFold(l.Label, ref) {
			byLabel = append(byLabel, l)
		}
	}

	listIDs := make([]string, 0, len(s.lists))
	for _, l := range s.lists {
		listIDs = append(listIDs, l.ID)
	}
	match, found, ambiguous := ids.MatchPrefix(listIDs, ref)
	if found && !ambiguous && strings.EqualFold(match, ref) {
		return s.lists[s.indexLocked(match)], nil
	}

	switch len(byLabel) {
	case 1:
		return byLabel[0], nil
	case 0:
	default:
		return List{}, fmt.Errorf("%w: %d lists are labelled %q", ErrAmbiguousListRef, len(byLabel), ref)
	}

	if !found {
		return List{}, fmt.Errorf("%w: %s", ErrListNotFound, ref)
	}
	if ambiguous {
		return List{}, fmt.Errorf("%w: %s", ErrAmbiguousListRef, ref)
	}
	return s.lists[s.indexLocked(match)], nil
}

// Search returns the lists whose labels fuzzily match query, best match
// first. An empty query returns every list in insertion order.
func (s *Store) Search(query string) []List {
	query = internalstrings.NormalizeWhitespace(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == "" {
		return cloneLists(s.lists)
	}

	labels := make([]string, len(s.lists))
	for i, l := range s.lists {
		labels[i] = l.Label
	}

	matches := fuzzy.Find(query, labels)
	results := make([]List, 0, len(matches))
	for _, match := range matches {
		results = append(results, s.lists[match.Index])
	}
	return results
}

func (s *Store) hasIDLocked(id string) bool {
	return s.indexLocked(id) >= 0
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, l := range s.lists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func cloneLists(lists []List) []List {
	out := make([]List, len(lists))
	copy(out, lists)
	return out
}
