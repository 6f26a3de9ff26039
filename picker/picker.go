// Package picker implements the date and hour selection used when adding a
// task.
//
// The picker starts in StateBrowsing with the current month displayed.
// Selecting an enabled day arms it (StateDateArmed) and opens a short repeat
// window; selecting the same day again inside the window opens the hour grid
// (StateHourPicking). Up to two hours can be selected; a third evicts the
// oldest. Save turns the armed day, the hours and a description into a task
// and resets the picker.
package picker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amonks/agenda/internal/clock"
	internalstrings "github.com/amonks/agenda/internal/strings"
	"github.com/amonks/agenda/task"
)

// State is the picker's interaction state.
type State int

const (
	// StateBrowsing shows the month grid with no armed date.
	StateBrowsing State = iota
	// StateDateArmed shows the month grid with one date selected.
	StateDateArmed
	// StateHourPicking shows the hour grid for the armed date.
	StateHourPicking
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateDateArmed:
		return "date-armed"
	case StateHourPicking:
		return "hour-picking"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DefaultRepeatWindow is the window in which a second selection of the armed
// date opens the hour grid.
const DefaultRepeatWindow = 300 * time.Millisecond

var (
	// ErrDateDisabled is returned when selecting a past day or a day outside
	// the displayed month.
	ErrDateDisabled = errors.New("date is not selectable")

	// ErrHourPickerOpen is returned when selecting a date while the hour grid
	// is shown.
	ErrHourPickerOpen = errors.New("hour picker is open")

	// ErrNoArmedDate is returned when an action needs a selected date.
	ErrNoArmedDate = errors.New("no date selected")

	// ErrHourPickerClosed is returned when toggling hours outside the hour grid.
	ErrHourPickerClosed = errors.New("hour picker is not open")
)

// Creator receives the task built by Save.
type Creator interface {
	CreateTask(opts task.CreateOptions) (task.Task, error)
}

// Options configures a Picker.
type Options struct {
	// RepeatWindow defaults to DefaultRepeatWindow.
	RepeatWindow time.Duration
}

// Picker is the date/hour selection state machine. It is safe for
// concurrent use; the repeat window expires on a timer goroutine.
type Picker struct {
	mu           sync.Mutex
	clock        clock.Clock
	repeatWindow time.Duration

	state   State
	month   time.Time
	armed   time.Time
	hours   []string
	repeat  clock.Timer
	pending bool
}

// New returns a picker showing the current month.
func New(clk clock.Clock, opts Options) *Picker {
	if clk == nil {
		clk = clock.Real{}
	}
	if opts.RepeatWindow <= 0 {
		opts.RepeatWindow = DefaultRepeatWindow
	}
	p := &Picker{clock: clk, repeatWindow: opts.RepeatWindow}
	p.resetLocked()
	return p
}

// State returns the current interaction state.
func (p *Picker) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ArmedDate returns the selected day, if any.
func (p *Picker) ArmedDate() (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.armed, !p.armed.IsZero()
}

// Month returns the first day of the displayed month.
func (p *Picker) Month() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.month
}

// Hours returns the selected hours in selection order.
func (p *Picker) Hours() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.hours...)
}

// RepeatPending reports whether a second selection of the armed date would
// open the hour grid.
func (p *Picker) RepeatPending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Disabled reports whether date cannot be selected: it is before today or
// outside the displayed month.
func (p *Picker) Disabled(date time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabledLocked(date)
}

// SelectDate handles a click or tap on a day of the month grid.
func (p *Picker) SelectDate(date time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateHourPicking {
		return ErrHourPickerOpen
	}
	if p.disabledLocked(date) {
		return fmt.Errorf("%w: %s", ErrDateDisabled, date.Format(time.DateOnly))
	}

	day := task.Day(date.In(p.location()))
	if p.state == StateDateArmed && p.pending && day.Equal(p.armed) {
		p.stopRepeatLocked()
		p.state = StateHourPicking
		return nil
	}

	p.stopRepeatLocked()
	p.armed = day
	p.state = StateDateArmed
	p.pending = true

	var timer clock.Timer
	timer = p.clock.AfterFunc(p.repeatWindow, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.repeat != timer {
			return
		}
		p.repeat = nil
		p.pending = false
	})
	p.repeat = timer
	return nil
}

// ShowHours opens the hour grid for the armed date.
func (p *Picker) ShowHours() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.armed.IsZero() {
		return ErrNoArmedDate
	}
	p.stopRepeatLocked()
	p.state = StateHourPicking
	return nil
}

// Back leaves the hour grid. The date stays armed.
func (p *Picker) Back() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateHourPicking {
		return
	}
	p.stopRepeatLocked()
	p.state = StateDateArmed
}

// NextMonth displays the following month.
func (p *Picker) NextMonth() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.month = p.month.AddDate(0, 1, 0)
}

// PrevMonth displays the preceding month.
func (p *Picker) PrevMonth() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.month = p.month.AddDate(0, -1, 0)
}

// ShowMonth displays the month containing t.
func (p *Picker) ShowMonth(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.month = firstOfMonth(t.In(p.location()))
}

// ToggleHour adds or removes an hour slot. With two hours already selected,
// adding a third evicts the one selected first.
func (p *Picker) ToggleHour(label string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateHourPicking {
		return ErrHourPickerClosed
	}
	if _, err := task.ParseHour(label); err != nil {
		return err
	}

	for i, selected := range p.hours {
		if selected == label {
			p.hours = append(p.hours[:i:i], p.hours[i+1:]...)
			return nil
		}
	}

	if len(p.hours) >= task.MaxHours {
		p.hours = append([]string(nil), p.hours[1:]...)
	}
	p.hours = append(p.hours, label)
	return nil
}

// CanSave reports whether Save would be accepted for the given inputs.
func (p *Picker) CanSave(description, listID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.armed.IsZero() &&
		internalstrings.NormalizeWhitespace(description) != "" &&
		internalstrings.NormalizeWhitespace(listID) != ""
}

// Save creates a task from the armed date, the selected hours, description
// and listID, then resets the picker. Nothing changes when validation or the
// creator fails.
func (p *Picker) Save(creator Creator, description, listID string) (task.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.armed.IsZero() {
		return task.Task{}, ErrNoArmedDate
	}
	opts := task.CreateOptions{
		Description: description,
		Date:        p.armed,
		Hours:       append([]string(nil), p.hours...),
		ListID:      listID,
	}
	if _, _, _, err := task.Validate(opts); err != nil {
		return task.Task{}, err
	}

	created, err := creator.CreateTask(opts)
	if err != nil {
		return task.Task{}, err
	}
	p.resetLocked()
	return created, nil
}

// Reset returns to StateBrowsing on the current month with nothing selected.
func (p *Picker) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

func (p *Picker) resetLocked() {
	p.stopRepeatLocked()
	now := p.clock.Now()
	p.state = StateBrowsing
	p.month = firstOfMonth(now)
	p.armed = time.Time{}
	p.hours = nil
}

func (p *Picker) stopRepeatLocked() {
	if p.repeat != nil {
		p.repeat.Stop()
		p.repeat = nil
	}
	p.pending = false
}

func (p *Picker) disabledLocked(date time.Time) bool {
	date = date.In(p.location())
	if task.Day(date).Before(task.Day(p.clock.Now())) {
		return true
	}
	return date.Year() != p.month.Year() || date.Month() != p.month.Month()
}

func (p *Picker) location() *time.Location {
	return p.clock.Now().Location()
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
