package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/amonks/agenda/agenda"
	"github.com/amonks/agenda/internal/clock"
	"github.com/amonks/agenda/picker"
	"github.com/amonks/agenda/task"
)

const (
	testWidth  = 100
	testHeight = 30
)

var testNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.Local)

func useASCIIRenderer(t *testing.T) {
	originalProfile := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(originalProfile)
	})
}

func openTestAgenda(t *testing.T, name string) (*agenda.Agenda, *clock.Fake) {
	t.Helper()
	fake := clock.NewFake(testNow)
	a, err := agenda.Open(agenda.Options{Dir: t.TempDir(), Clock: fake})
	if err != nil {
		t.Fatalf("open agenda: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	if name != "" {
		if _, err := a.SetName(name); err != nil {
			t.Fatalf("set name: %v", err)
		}
	}
	return a, fake
}

func newTestModel(t *testing.T, a *agenda.Agenda) model {
	t.Helper()
	useASCIIRenderer(t)
	return send(newModel(a, Options{}), tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(model)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(kind tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: kind}
}

func TestTUI_OnboardingStoresName(t *testing.T) {
	a, _ := openTestAgenda(t, "")
	m := newTestModel(t, a)

	if m.modal.kind != modalOnboarding {
		t.Fatalf("expected onboarding modal, got %v", m.modal.kind)
	}

	m = send(m, key(tea.KeyEnter))
	if m.modal.kind != modalOnboarding {
		t.Fatal("expected empty name to keep onboarding open")
	}

	m = send(m, keyRunes("Tino"), key(tea.KeyEnter))
	if m.modal.kind != modalNone {
		t.Fatalf("expected onboarding to close, got %v", m.modal.kind)
	}
	if profile, ok := a.Profile(); !ok || profile.Name != "Tino" {
		t.Fatalf("expected stored name, got %+v (ok=%v)", profile, ok)
	}

	view := m.View()
	if !strings.Contains(view, "Buongiorno, Tino") {
		t.Fatalf("expected greeting in header, got:\n%s", view)
	}
	if !strings.Contains(view, "Oggi, Dom 18 Ott 2026") {
		t.Fatalf("expected header date, got:\n%s", view)
	}
}

func TestTUI_TasksGroupedTodayFirst(t *testing.T) {
	a, _ := openTestAgenda(t, "Tino")
	work, _ := a.CreateList("Work")
	a.CreateTask(task.CreateOptions{Description: "Slides", Date: testNow.AddDate(0, 0, 1), ListID: work.ID})
	a.CreateTask(task.CreateOptions{Description: "Write report", Date: testNow, Hours: []string{"09:00", "11:00"}, ListID: work.ID})

	m := newTestModel(t, a)
	view := m.View()

	today := strings.Index(view, "Oggi\n")
	if today < 0 {
		today = strings.Index(view, "Oggi ")
	}
	tomorrow := strings.Index(view, "Domani")
	if today < 0 || tomorrow < 0 || today > tomorrow {
		t.Fatalf("expected Oggi group before Domani, got:\n%s", view)
	}
	if !strings.Contains(view, "[ ] 09:00 - 11:00 Write report") {
		t.Fatalf("expected task row with range, got:\n%s", view)
	}
	if !strings.Contains(view, "Work") {
		t.Fatalf("expected list in sidebar, got:\n%s", view)
	}
}

func TestTUI_ToggleStartsAndEndsTransition(t *testing.T) {
	a, fake := openTestAgenda(t, "Tino")
	work, _ := a.CreateList("Work")
	created, _ := a.CreateTask(task.CreateOptions{Description: "Write report", Date: testNow, ListID: work.ID})

	m := newTestModel(t, a)
	m = send(m, key(tea.KeyEnter), keyRunes("x"))

	toggled, _ := a.Task(created.ID)
	if !toggled.Completed {
		t.Fatal("expected task completed")
	}
	if got := a.Transitions().Phase(created.ID); got != task.PhaseEntering {
		t.Fatalf("expected entering phase, got %v", got)
	}
	if !strings.Contains(m.View(), "[x] Write report") {
		t.Fatalf("expected completed row, got:\n%s", m.View())
	}

	fake.Advance(task.DefaultTransitionWindow)
	if got := a.Transitions().Phase(created.ID); got != task.PhaseNone {
		t.Fatalf("expected phase cleared, got %v", got)
	}
}

func TestTUI_AddTaskThroughSheet(t *testing.T) {
	a, _ := openTestAgenda(t, "Tino")
	work, _ := a.CreateList("Work")

	m := newTestModel(t, a)
	m = send(m, keyRunes("a"))
	if m.modal.kind != modalSheet || m.sheet == nil {
		t.Fatal("expected add sheet to open")
	}

	m = send(m, keyRunes("Write report"), key(tea.KeyTab))
	m = send(m, key(tea.KeyEnter))
	if got := m.sheet.picker.State(); got != picker.StateDateArmed {
		t.Fatalf("expected date armed, got %v", got)
	}
	m = send(m, key(tea.KeyEnter))
	if got := m.sheet.picker.State(); got != picker.StateHourPicking {
		t.Fatalf("expected hour picking after repeat select, got %v", got)
	}
	if !strings.Contains(m.View(), "Ore per Oggi") {
		t.Fatalf("expected hour grid, got:\n%s", m.View())
	}

	m = send(m, key(tea.KeyEnter), key(tea.KeyRight), key(tea.KeyRight), key(tea.KeyEnter))
	if got := m.sheet.picker.Hours(); len(got) != 2 || got[0] != "09:00" || got[1] != "11:00" {
		t.Fatalf("expected 09:00 and 11:00 selected, got %v", got)
	}

	m = send(m, key(tea.KeyCtrlS))
	if m.modal.kind != modalNone {
		t.Fatalf("expected sheet closed after save, got %v (status %q)", m.modal.kind, m.status)
	}

	groups := a.Project(work.ID)
	if len(groups) != 1 || groups[0].Label != "Oggi" || len(groups[0].Tasks) != 1 {
		t.Fatalf("expected one task today, got %+v", groups)
	}
	if got := groups[0].Tasks[0].TimeRange(); got != "09:00 - 11:00" {
		t.Fatalf("expected range 09:00 - 11:00, got %q", got)
	}
}

func TestTUI_SheetRejectsPastDayAndEmptyDescription(t *testing.T) {
	a, _ := openTestAgenda(t, "Tino")
	a.CreateList("Work")

	m := newTestModel(t, a)
	m = send(m, keyRunes("a"), key(tea.KeyTab), key(tea.KeyLeft), key(tea.KeyEnter))
	if got := m.sheet.picker.State(); got != picker.StateBrowsing {
		t.Fatalf("expected yesterday to be rejected, got %v", got)
	}
	if m.statusLevel != statusError {
		t.Fatalf("expected error status, got %q", m.status)
	}

	m = send(m, key(tea.KeyRight), key(tea.KeyEnter), key(tea.KeyCtrlS))
	if m.modal.kind != modalSheet {
		t.Fatal("expected sheet to stay open without a description")
	}
	if len(a.Tasks()) != 0 {
		t.Fatalf("expected no tasks, got %d", len(a.Tasks()))
	}

	m = send(m, key(tea.KeyEsc))
	if m.modal.kind != modalNone {
		t.Fatal("expected esc to close the sheet")
	}
}

func TestTUI_SheetEscFromHoursReturnsToCalendar(t *testing.T) {
	a, _ := openTestAgenda(t, "Tino")
	a.CreateList("Work")

	m := newTestModel(t, a)
	m = send(m, keyRunes("a"), key(tea.KeyTab), key(tea.KeyEnter), keyRunes("o"))
	if got := m.sheet.picker.State(); got != picker.StateHourPicking {
		t.Fatalf("expected hour picking, got %v", got)
	}

	m = send(m, key(tea.KeyEsc))
	if got := m.sheet.picker.State(); got != picker.StateDateArmed {
		t.Fatalf("expected date armed after esc, got %v", got)
	}
	if m.modal.kind != modalSheet {
		t.Fatal("expected sheet to stay open")
	}
}

func TestTUI_NewListAndDeleteWithConfirmation(t *testing.T) {
	a, _ := openTestAgenda(t, "Tino")

	m := newTestModel(t, a)
	if !strings.Contains(m.View(), "Nessuna lista") {
		t.Fatalf("expected empty state, got:\n%s", m.View())
	}

	m = send(m, keyRunes("n"), keyRunes("Casa"), key(tea.KeyEnter))
	lists := a.Lists()
	if len(lists) != 1 || lists[0].Label != "Casa" {
		t.Fatalf("expected list Casa, got %+v", lists)
	}
	if m.selectedListID() != lists[0].ID {
		t.Fatal("expected new list selected")
	}
	a.CreateTask(task.CreateOptions{Description: "Spesa", Date: testNow, ListID: lists[0].ID})

	m = send(m, keyRunes("d"))
	if m.modal.kind != modalDeleteList {
		t.Fatalf("expected delete confirmation, got %v", m.modal.kind)
	}
	m = send(m, key(tea.KeyEsc))
	if len(a.Lists()) != 1 {
		t.Fatal("expected cancel to keep the list")
	}

	m = send(m, keyRunes("d"), keyRunes("y"))
	if len(a.Lists()) != 0 || len(a.Tasks()) != 0 {
		t.Fatalf("expected list and tasks deleted, got %d lists %d tasks", len(a.Lists()), len(a.Tasks()))
	}
	if m.selectedListID() != "" {
		t.Fatal("expected no selection after deleting the last list")
	}
}

func TestTUI_DeleteTask(t *testing.T) {
	a, _ := openTestAgenda(t, "Tino")
	work, _ := a.CreateList("Work")
	a.CreateTask(task.CreateOptions{Description: "Write report", Date: testNow, ListID: work.ID})

	m := newTestModel(t, a)
	m = send(m, key(tea.KeyTab), keyRunes("d"))
	if m.modal.kind != modalDeleteTask {
		t.Fatalf("expected task delete confirmation, got %v", m.modal.kind)
	}
	m = send(m, key(tea.KeyLeft), key(tea.KeyEnter))
	if len(a.Tasks()) != 0 {
		t.Fatalf("expected task deleted, got %d", len(a.Tasks()))
	}
}

func TestFormatListItemAlignsCount(t *testing.T) {
	item := listItem{pending: 3}
	item.list.Label = "Work"

	if got := formatListItem(item, 10); got != "Work     3" {
		t.Fatalf("unexpected line %q", got)
	}
}
