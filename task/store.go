package task

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/amonks/agenda/internal/ids"
	"github.com/amonks/agenda/internal/kv"
	internalstrings "github.com/amonks/agenda/internal/strings"
)

// Store owns the task collection and writes it through to a kv.Store on
// every mutation.
type Store struct {
	mu     sync.RWMutex
	kv     kv.Store
	now    func() time.Time
	logger *log.Logger
	tasks  []Task
}

// Options configures a Store.
type Options struct {
	// Now returns the current time used for ID generation. Defaults to time.Now.
	Now func() time.Time

	// Logger receives recovery warnings. May be nil.
	Logger *log.Logger
}

// CreateOptions describes a new task.
type CreateOptions struct {
	Description string
	Date        time.Time
	Hours       []string
	ListID      string
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
		tasks:  []Task{},
	}
}

// Restore replaces the in-memory collection with the persisted one.
// A missing or malformed document restores an empty collection.
func (s *Store) Restore() error {
	tasks, err := kv.LoadJSON[Task](s.kv, kv.KeyTasks, s.logger)
	if err != nil {
		return fmt.Errorf("restore tasks: %w", err)
	}
	for i := range tasks {
		if tasks[i].Hours == nil {
			tasks[i].Hours = []string{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	return nil
}

// Validate checks opts and returns the normalized description, day and hours.
func Validate(opts CreateOptions) (string, time.Time, []string, error) {
	description := internalstrings.NormalizeWhitespace(opts.Description)
	if description == "" {
		return "", time.Time{}, nil, ErrEmptyDescription
	}
	if internalstrings.NormalizeWhitespace(opts.ListID) == "" {
		return "", time.Time{}, nil, ErrEmptyListID
	}
	if opts.Date.IsZero() {
		return "", time.Time{}, nil, ErrMissingDate
	}
	hours, err := ValidateHours(opts.Hours)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return description, Day(opts.Date), hours, nil
}

// Create appends a new, incomplete task and persists the collection.
func (s *Store) Create(opts CreateOptions) (Task, error) {
	description, day, hours, err := Validate(opts)
	if err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := Task{
		ID:          ids.GenerateUnique(description, s.now(), s.hasIDLocked),
		Description: description,
		Date:        day,
		Hours:       hours,
		ListID:      internalstrings.NormalizeWhitespace(opts.ListID),
	}

	next := append(cloneTasks(s.tasks), created)
	if err := s.writeLocked(next); err != nil {
		return Task{}, err
	}
	return created.Clone(), nil
}

// Delete removes the task with the given ID and persists the collection.
// It reports false, without writing, when no task has that ID.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexLocked(id)
	if index < 0 {
		return false, nil
	}

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:index]...)
	next = append(next, s.tasks[index+1:]...)
	if err := s.writeLocked(next); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByList removes every task belonging to listID and returns how many
// were removed.
func (s *Store) DeleteByList(listID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ListID != listID {
			next = append(next, t)
		}
	}
	removed := len(s.tasks) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.writeLocked(next); err != nil {
		return 0, err
	}
	return removed, nil
}

// ToggleCompletion flips the completed flag of a task and persists the
// collection. It returns the updated task.
func (s *Store) ToggleCompletion(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexLocked(id)
	if index < 0 {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	next := cloneTasks(s.tasks)
	next[index].Completed = !next[index].Completed
	if err := s.writeLocked(next); err != nil {
		return Task{}, err
	}
	return next[index].Clone(), nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := s.indexLocked(id)
	if index < 0 {
		return Task{}, false
	}
	return s.tasks[index].Clone(), true
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Resolve returns the full ID of the task matching an ID or unique prefix.
func (s *Store) Resolve(prefix string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	taskIDs := make([]string, 0, len(s.tasks))
	for _, t := range s.tasks {
		taskIDs = append(taskIDs, t.ID)
	}

	match, found, ambiguous := ids.MatchPrefix(taskIDs, prefix)
	if !found {
		return "", fmt.Errorf("%w: %s", ErrTaskNotFound, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousTaskIDPrefix, prefix)
	}
	return match, nil
}

// writeLocked persists next and, on success, makes it the live collection.
func (s *Store) writeLocked(next []Task) error {
	if err := kv.SaveJSON(s.kv, kv.KeyTasks, next); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	s.tasks = next
	return nil
}

func (s *Store) hasIDLocked(id string) bool {
	return s.indexLocked(id) >= 0
}

func (s *Store) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
