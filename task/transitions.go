package task

import (
	"sync"
	"time"

	"github.com/amonks/agenda/internal/clock"
)

// Phase is the transient display state of a task whose completion was just
// toggled.
type Phase int

const (
	// PhaseNone means no transition is in flight.
	PhaseNone Phase = iota
	// PhaseEntering follows marking a task complete.
	PhaseEntering
	// PhaseLeaving follows marking a task incomplete.
	PhaseLeaving
)

// DefaultTransitionWindow is how long a phase lasts before it is cleared.
const DefaultTransitionWindow = 300 * time.Millisecond

func (p Phase) String() string {
	switch p {
	case PhaseEntering:
		return "entering"
	case PhaseLeaving:
		return "leaving"
	default:
		return "none"
	}
}

// Transitions tracks per-task completion phases. Each Notify starts a fixed
// window after which the phase is cleared; a newer Notify for the same task
// cancels the pending clear.
type Transitions struct {
	mu       sync.Mutex
	clock    clock.Clock
	window   time.Duration
	phases   map[string]Phase
	timers   map[string]clock.Timer
	onChange func(id string, phase Phase)
}

// TransitionOptions configures Transitions.
type TransitionOptions struct {
	// Window defaults to DefaultTransitionWindow.
	Window time.Duration

	// OnChange, if set, is called after a phase starts or is cleared.
	// It is called without internal locks held.
	OnChange func(id string, phase Phase)
}

// NewTransitions creates a tracker driven by clk.
func NewTransitions(clk clock.Clock, opts TransitionOptions) *Transitions {
	if clk == nil {
		clk = clock.Real{}
	}
	if opts.Window <= 0 {
		opts.Window = DefaultTransitionWindow
	}
	return &Transitions{
		clock:    clk,
		window:   opts.Window,
		phases:   make(map[string]Phase),
		timers:   make(map[string]clock.Timer),
		onChange: opts.OnChange,
	}
}

// Window returns how long each phase lasts.
func (tr *Transitions) Window() time.Duration {
	return tr.window
}

// Notify records that the task's completion flag is now completed.
func (tr *Transitions) Notify(id string, completed bool) {
	phase := PhaseLeaving
	if completed {
		phase = PhaseEntering
	}

	tr.mu.Lock()
	if pending, ok := tr.timers[id]; ok {
		pending.Stop()
	}
	tr.phases[id] = phase

	var timer clock.Timer
	timer = tr.clock.AfterFunc(tr.window, func() {
		tr.mu.Lock()
		if tr.timers[id] != timer {
			tr.mu.Unlock()
			return
		}
		delete(tr.timers, id)
		delete(tr.phases, id)
		tr.mu.Unlock()
		tr.changed(id, PhaseNone)
	})
	tr.timers[id] = timer
	tr.mu.Unlock()

	tr.changed(id, phase)
}

// Phase returns the current phase for a task.
func (tr *Transitions) Phase(id string) Phase {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.phases[id]
}

// Active returns the number of tasks with a phase in flight.
func (tr *Transitions) Active() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.phases)
}

// Stop cancels every pending clear and forgets all phases.
func (tr *Transitions) Stop() {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	for id, timer := range tr.timers {
		timer.Stop()
		delete(tr.timers, id)
	}
	for id := range tr.phases {
		delete(tr.phases, id)
	}
}

func (tr *Transitions) changed(id string, phase Phase) {
	if tr.onChange != nil {
		tr.onChange(id, phase)
	}
}
