// Package agenda opens the local state and exposes the operations behind the
// CLI and the terminal UI.
//
// An Agenda owns one kv.Store, the list and task stores restored from it, the
// onboarding profile and the completion transition tracker. Deleting a list
// deletes its tasks.
package agenda

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/amonks/agenda/internal/clock"
	"github.com/amonks/agenda/internal/kv"
	"github.com/amonks/agenda/list"
	"github.com/amonks/agenda/task"
	"github.com/amonks/agenda/view"
)

// ErrListNotFound is returned when a task refers to a list that does not exist.
var ErrListNotFound = list.ErrListNotFound

// Options configures Open.
type Options struct {
	// Dir is the state directory.
	Dir string

	// Backend selects the kv backend (kv.BackendFile or kv.BackendSQLite).
	Backend string

	// Store overrides Dir and Backend with an already opened store.
	Store kv.Store

	// Logger receives diagnostics. Defaults to discarding output.
	Logger *log.Logger

	// Clock drives ID timestamps and transitions. Defaults to clock.Real.
	Clock clock.Clock

	// TransitionWindow is how long completion phases last.
	TransitionWindow time.Duration

	// OnTransition is called when a completion phase starts or ends.
	OnTransition func(id string, phase task.Phase)
}

// Agenda is the application state.
type Agenda struct {
	store       kv.Store
	logger      *log.Logger
	clock       clock.Clock
	lists       *list.Store
	tasks       *task.Store
	transitions *task.Transitions
	profile     Profile
	onboarded   bool
}

// Open opens the store and restores lists, tasks and the profile.
func Open(opts Options) (*Agenda, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	store := opts.Store
	if store == nil {
		if opts.Dir == "" {
			return nil, fmt.Errorf("state directory is required")
		}
		opened, err := kv.Open(opts.Backend, opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		store = opened
	}

	a := &Agenda{
		store:  store,
		logger: opts.Logger,
		clock:  opts.Clock,
		lists:  list.NewStore(store, list.Options{Now: opts.Clock.Now, Logger: opts.Logger}),
		tasks:  task.NewStore(store, task.Options{Now: opts.Clock.Now, Logger: opts.Logger}),
		transitions: task.NewTransitions(opts.Clock, task.TransitionOptions{
			Window:   opts.TransitionWindow,
			OnChange: opts.OnTransition,
		}),
	}

	if err := a.restore(); err != nil {
		store.Close()
		return nil, err
	}
	opts.Logger.Printf("restored %d lists and %d tasks", a.lists.Len(), a.tasks.Len())
	return a, nil
}

func (a *Agenda) restore() error {
	if err := a.lists.Restore(); err != nil {
		return err
	}
	if err := a.tasks.Restore(); err != nil {
		return err
	}
	return a.restoreProfile()
}

// Close stops pending transitions and closes the store.
func (a *Agenda) Close() error {
	a.transitions.Stop()
	return a.store.Close()
}

// Now returns the agenda clock's current time.
func (a *Agenda) Now() time.Time {
	return a.clock.Now()
}

// Clock returns the clock driving the agenda.
func (a *Agenda) Clock() clock.Clock {
	return a.clock
}

// Transitions returns the completion transition tracker.
func (a *Agenda) Transitions() *task.Transitions {
	return a.transitions
}

// CreateList creates a list with the given label.
func (a *Agenda) CreateList(label string) (list.List, error) {
	created, err := a.lists.Create(label)
	if err != nil {
		return list.List{}, err
	}
	a.logger.Printf("created list %s %q", created.ID, created.Label)
	return created, nil
}

// DeleteList deletes a list and every task in it. It returns the number of
// tasks removed; deleting a missing list is ErrListNotFound.
func (a *Agenda) DeleteList(id string) (int, error) {
	if _, ok := a.lists.Get(id); !ok {
		return 0, fmt.Errorf("%w: %s", ErrListNotFound, id)
	}

	removed, err := a.tasks.DeleteByList(id)
	if err != nil {
		return 0, err
	}
	if _, err := a.lists.Delete(id); err != nil {
		return removed, err
	}
	a.logger.Printf("deleted list %s and %d tasks", id, removed)
	return removed, nil
}

// Lists returns every list in creation order.
func (a *Agenda) Lists() []list.List {
	return a.lists.Lists()
}

// List returns the list with the given ID.
func (a *Agenda) List(id string) (list.List, bool) {
	return a.lists.Get(id)
}

// ResolveList finds a list by ID, ID prefix or label.
func (a *Agenda) ResolveList(ref string) (list.List, error) {
	return a.lists.Resolve(ref)
}

// SearchLists fuzzy-matches list labels.
func (a *Agenda) SearchLists(query string) []list.List {
	return a.lists.Search(query)
}

// CreateTask creates a task in an existing list.
func (a *Agenda) CreateTask(opts task.CreateOptions) (task.Task, error) {
	if _, _, _, err := task.Validate(opts); err != nil {
		return task.Task{}, err
	}
	if _, ok := a.lists.Get(opts.ListID); !ok {
		return task.Task{}, fmt.Errorf("%w: %s", ErrListNotFound, opts.ListID)
	}

	created, err := a.tasks.Create(opts)
	if err != nil {
		return task.Task{}, err
	}
	a.logger.Printf("created task %s in list %s", created.ID, created.ListID)
	return created, nil
}

// DeleteTask deletes a task. Deleting a missing task is task.ErrTaskNotFound.
func (a *Agenda) DeleteTask(id string) error {
	deleted, err := a.tasks.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	a.logger.Printf("deleted task %s", id)
	return nil
}

// ToggleTask flips a task's completion and starts its transition phase.
func (a *Agenda) ToggleTask(id string) (task.Task, error) {
	toggled, err := a.tasks.ToggleCompletion(id)
	if err != nil {
		return task.Task{}, err
	}
	a.transitions.Notify(toggled.ID, toggled.Completed)
	return toggled, nil
}

// Task returns the task with the given ID.
func (a *Agenda) Task(id string) (task.Task, bool) {
	return a.tasks.Get(id)
}

// Tasks returns every task in creation order.
func (a *Agenda) Tasks() []task.Task {
	return a.tasks.Tasks()
}

// ResolveTask returns the full ID for a task ID or unique prefix.
func (a *Agenda) ResolveTask(prefix string) (string, error) {
	return a.tasks.Resolve(prefix)
}

// Project returns the day groups for a list.
func (a *Agenda) Project(listID string) []view.Group {
	return view.Project(a.tasks.Tasks(), listID, a.clock.Now())
}

// PendingCounts returns the number of incomplete tasks per list ID.
func (a *Agenda) PendingCounts() map[string]int {
	tasks := a.tasks.Tasks()
	counts := make(map[string]int)
	for _, l := range a.lists.Lists() {
		counts[l.ID] = view.PendingCount(tasks, l.ID)
	}
	return counts
}

// IsNotFound reports whether err means a list or task did not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrListNotFound) || errors.Is(err, task.ErrTaskNotFound)
}
