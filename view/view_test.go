package view

import (
	"testing"
	"time"

	"github.com/amonks/agenda/task"
)

var testNow = time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC)

func dated(id, listID string, date time.Time, hours ...string) task.Task {
	return task.Task{ID: id, Description: id, Date: date, Hours: hours, ListID: listID}
}

func TestProject_TodayPinnedFirstThenChronological(t *testing.T) {
	today := task.Day(testNow)
	tasks := []task.Task{
		dated("tomorrow", "work", today.AddDate(0, 0, 1)),
		dated("yesterday", "work", today.AddDate(0, 0, -1)),
		dated("today", "work", today),
		dated("next-week", "work", today.AddDate(0, 0, 7)),
	}

	groups := Project(tasks, "work", testNow)

	want := []string{"Oggi", "sabato 17 ottobre", "Domani", "domenica 25 ottobre"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, label := range want {
		if groups[i].Label != label {
			t.Fatalf("group %d: expected %q, got %q", i, label, groups[i].Label)
		}
	}
}

func TestProject_TodayTomorrowYesterdayOrder(t *testing.T) {
	today := task.Day(testNow)
	tasks := []task.Task{
		dated("yesterday", "work", today.AddDate(0, 0, -1)),
		dated("tomorrow", "work", today.AddDate(0, 0, 1)),
		dated("today", "work", today),
	}

	groups := Project(tasks, "work", testNow)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	if groups[0].Label != LabelToday {
		t.Fatalf("expected today first, got %q", groups[0].Label)
	}
	// Remaining groups are chronological: yesterday sorts before tomorrow.
	if !groups[1].Day.Before(groups[2].Day) {
		t.Fatalf("expected chronological order after today, got %v then %v", groups[1].Day, groups[2].Day)
	}
}

func TestProject_FiltersByListAndKeepsInsertionOrder(t *testing.T) {
	today := task.Day(testNow)
	tasks := []task.Task{
		dated("first", "work", today.Add(15*time.Hour)),
		dated("other-list", "home", today),
		dated("second", "work", today, "08:00"),
		dated("third", "work", today.Add(time.Hour)),
	}

	groups := Project(tasks, "work", testNow)
	if len(groups) != 1 {
		t.Fatalf("expected a single day group, got %d", len(groups))
	}
	got := groups[0].Tasks
	if len(got) != 3 || got[0].ID != "first" || got[1].ID != "second" || got[2].ID != "third" {
		t.Fatalf("expected insertion order, got %+v", got)
	}

	if groups := Project(tasks, "missing", testNow); len(groups) != 0 {
		t.Fatalf("expected no groups for unknown list, got %+v", groups)
	}
}

func TestProject_BucketsInViewerLocation(t *testing.T) {
	rome := time.FixedZone("CEST", 2*3600)
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, rome)
	// Local midnight in Rome, as serialized in UTC.
	stored := time.Date(2026, 10, 17, 22, 0, 0, 0, time.UTC)

	groups := Project([]task.Task{dated("a", "work", stored)}, "work", now)
	if len(groups) != 1 || groups[0].Label != LabelToday {
		t.Fatalf("expected the task in today's group, got %+v", groups)
	}
}

func TestDayLabel(t *testing.T) {
	cases := []struct {
		name string
		day  time.Time
		want string
	}{
		{name: "today", day: testNow, want: "Oggi"},
		{name: "tomorrow", day: testNow.AddDate(0, 0, 1), want: "Domani"},
		{name: "later this year", day: time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC), want: "giovedì 24 dicembre"},
		{name: "next year", day: time.Date(2027, 1, 4, 0, 0, 0, 0, time.UTC), want: "lunedì 4 gennaio 2027"},
		{name: "yesterday", day: testNow.AddDate(0, 0, -1), want: "sabato 17 ottobre"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DayLabel(tc.day, testNow); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGreeting(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{hour: 4, want: "Buona sera"},
		{hour: 5, want: "Buongiorno"},
		{hour: 12, want: "Buongiorno"},
		{hour: 13, want: "Buon pomeriggio"},
		{hour: 17, want: "Buon pomeriggio"},
		{hour: 18, want: "Buona sera"},
		{hour: 23, want: "Buona sera"},
	}
	for _, tc := range cases {
		now := time.Date(2026, 10, 18, tc.hour, 0, 0, 0, time.UTC)
		if got := Greeting(now); got != tc.want {
			t.Errorf("Greeting at %02d:00 = %q, want %q", tc.hour, got, tc.want)
		}
	}

	if got := GreetingLine(testNow, "Tino"); got != "Buongiorno, Tino" {
		t.Fatalf("unexpected greeting line %q", got)
	}
	if got := GreetingLine(testNow, ""); got != "Buongiorno" {
		t.Fatalf("unexpected anonymous greeting %q", got)
	}
}

func TestHeaderDate(t *testing.T) {
	if got := HeaderDate(testNow); got != "Oggi, Dom 18 Ott 2026" {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestMonthTitle(t *testing.T) {
	if got := MonthTitle(testNow); got != "ottobre 2026" {
		t.Fatalf("unexpected month title %q", got)
	}
}

func TestPendingCount(t *testing.T) {
	today := task.Day(testNow)
	done := dated("done", "work", today)
	done.Completed = true
	tasks := []task.Task{dated("open", "work", today), done, dated("home", "home", today)}

	if got := PendingCount(tasks, "work"); got != 1 {
		t.Fatalf("expected 1 pending task, got %d", got)
	}
}
