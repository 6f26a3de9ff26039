package task

import (
	"sync"
	"testing"
	"time"

	"github.com/amonks/agenda/internal/clock"
)

func TestTransitions_PhasesClearAfterWindow(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	tr := NewTransitions(fake, TransitionOptions{})

	tr.Notify("a", true)
	tr.Notify("b", false)
	if got := tr.Phase("a"); got != PhaseEntering {
		t.Fatalf("expected a entering, got %v", got)
	}
	if got := tr.Phase("b"); got != PhaseLeaving {
		t.Fatalf("expected b leaving, got %v", got)
	}

	fake.Advance(299 * time.Millisecond)
	if tr.Active() != 2 {
		t.Fatalf("expected both phases still active, got %d", tr.Active())
	}

	fake.Advance(time.Millisecond)
	if tr.Phase("a") != PhaseNone || tr.Phase("b") != PhaseNone {
		t.Fatalf("expected phases cleared, got a=%v b=%v", tr.Phase("a"), tr.Phase("b"))
	}
}

func TestTransitions_NewToggleCancelsPendingClear(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))

	var mu sync.Mutex
	var events []string
	tr := NewTransitions(fake, TransitionOptions{
		OnChange: func(id string, phase Phase) {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, id+":"+phase.String())
		},
	})

	tr.Notify("a", true)
	fake.Advance(200 * time.Millisecond)
	tr.Notify("a", false)

	fake.Advance(200 * time.Millisecond)
	if got := tr.Phase("a"); got != PhaseLeaving {
		t.Fatalf("expected stale clear to be cancelled, got %v", got)
	}
	if fake.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", fake.Pending())
	}

	fake.Advance(100 * time.Millisecond)
	if got := tr.Phase("a"); got != PhaseNone {
		t.Fatalf("expected phase cleared, got %v", got)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"a:entering", "a:leaving", "a:none"}
	if len(events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, events)
		}
	}
}

func TestTransitions_CustomWindowAndStop(t *testing.T) {
	fake := clock.NewFake(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	tr := NewTransitions(fake, TransitionOptions{Window: time.Second})
	if tr.Window() != time.Second {
		t.Fatalf("expected 1s window, got %v", tr.Window())
	}

	tr.Notify("a", true)
	tr.Stop()
	if tr.Active() != 0 || fake.Pending() != 0 {
		t.Fatalf("expected everything cleared, active=%d pending=%d", tr.Active(), fake.Pending())
	}
}
