// Package clock provides wall time and cancellable deferred callbacks.
//
// The repeat-selection detector in the date picker and the completion
// transitions in the task package both schedule a callback that must be
// cancelled when a newer action supersedes it. They take a Clock so tests can
// drive time with Fake.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock reports the current time and schedules deferred callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a handle to a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Real is a Clock backed by the time package.
type Real struct{}

// Now returns time.Now.
func (Real) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn with time.AfterFunc.
func (Real) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Fixed reports a constant time and schedules callbacks on real timers.
type Fixed struct {
	At time.Time
}

// Now returns At.
func (f Fixed) Now() time.Time {
	return f.At
}

// AfterFunc schedules fn with time.AfterFunc.
func (Fixed) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Fake is a manually advanced Clock. Callbacks run synchronously inside
// Advance, in deadline order.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *Fake
	seq      int
	deadline time.Time
	fn       func()
	stopped  bool
	fired    bool
}

// NewFake returns a Fake clock set to now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc schedules fn to run once the fake time reaches now+d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	timer := &fakeTimer{clock: f, seq: f.seq, deadline: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, timer)
	return timer
}

// Advance moves the fake time forward and runs every callback that became due.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	var due []*fakeTimer
	pending := f.timers[:0]
	for _, timer := range f.timers {
		if timer.stopped {
			continue
		}
		if !timer.deadline.After(now) {
			timer.fired = true
			due = append(due, timer)
			continue
		}
		pending = append(pending, timer)
	}
	f.timers = pending
	f.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].seq < due[j].seq
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, timer := range due {
		timer.fn()
	}
}

// Pending returns the number of scheduled callbacks that have not run or
// been stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, timer := range f.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}
	return count
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
