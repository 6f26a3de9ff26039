package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amonks/agenda/internal/clock"
	"github.com/amonks/agenda/picker"
	"github.com/amonks/agenda/task"
	"github.com/amonks/agenda/view"
)

type sheetFocus int

const (
	sheetFocusCalendar sheetFocus = iota
	sheetFocusDescription
)

const hourColumns = 6

// sheet is the add-task form: a description, a target list and the picker.
type sheet struct {
	picker      *picker.Picker
	clock       clock.Clock
	description textinput.Model
	focus       sheetFocus
	cursor      time.Time
	hourCursor  int
	listIDs     []string
	listLabels  []string
	listIndex   int
}

// repeatExpiredMsg redraws the sheet once the repeat window has passed.
type repeatExpiredMsg struct{}

func newSheet(clk clock.Clock, repeatWindow time.Duration, listIDs, listLabels []string, listID string) *sheet {
	input := textinput.New()
	input.Placeholder = "Cosa devi fare?"
	input.Prompt = "> "
	input.CharLimit = 200

	s := &sheet{
		picker:      picker.New(clk, picker.Options{RepeatWindow: repeatWindow}),
		clock:       clk,
		description: input,
		cursor:      task.Day(clk.Now()),
		hourCursor:  9,
		listIDs:     listIDs,
		listLabels:  listLabels,
	}
	for i, id := range listIDs {
		if id == listID {
			s.listIndex = i
		}
	}
	return s
}

func (s *sheet) listID() string {
	if len(s.listIDs) == 0 {
		return ""
	}
	return s.listIDs[s.listIndex]
}

func (s *sheet) listLabel() string {
	if len(s.listLabels) == 0 {
		return ""
	}
	return s.listLabels[s.listIndex]
}

func (s *sheet) cycleList() {
	if len(s.listIDs) == 0 {
		return
	}
	s.listIndex = (s.listIndex + 1) % len(s.listIDs)
}

func (s *sheet) toggleFocus() tea.Cmd {
	if s.focus == sheetFocusCalendar {
		s.focus = sheetFocusDescription
		return s.description.Focus()
	}
	s.focus = sheetFocusCalendar
	s.description.Blur()
	return nil
}

// moveCursor shifts the calendar cursor by days, following it across months.
func (s *sheet) moveCursor(days int) {
	s.cursor = s.cursor.AddDate(0, 0, days)
	month := s.picker.Month()
	if s.cursor.Year() != month.Year() || s.cursor.Month() != month.Month() {
		s.picker.ShowMonth(s.cursor)
	}
}

func (s *sheet) shiftMonth(delta int) {
	if delta > 0 {
		s.picker.NextMonth()
	} else {
		s.picker.PrevMonth()
	}
	month := s.picker.Month()
	today := task.Day(s.clock.Now())
	s.cursor = month
	if month.Year() == today.Year() && month.Month() == today.Month() {
		s.cursor = today
	}
}

// selectCursor feeds the cursor day to the picker. It returns a command
// that redraws when the repeat window closes.
func (s *sheet) selectCursor(window time.Duration) (tea.Cmd, error) {
	if err := s.picker.SelectDate(s.cursor); err != nil {
		return nil, err
	}
	if s.picker.State() == picker.StateHourPicking {
		return nil, nil
	}
	return tea.Tick(window, func(time.Time) tea.Msg { return repeatExpiredMsg{} }), nil
}

func (s *sheet) moveHourCursor(delta int) {
	next := s.hourCursor + delta
	if next < 0 || next > 23 {
		return
	}
	s.hourCursor = next
}

func (s *sheet) toggleHour() error {
	return s.picker.ToggleHour(task.HourSlots()[s.hourCursor])
}

func (s *sheet) save(creator picker.Creator) (task.Task, error) {
	return s.picker.Save(creator, s.description.Value(), s.listID())
}

func (s *sheet) View(width int) string {
	var sections []string
	sections = append(sections, labelStyle.Render("Nuova attività"))

	descLabel := "Descrizione"
	if s.focus == sheetFocusDescription {
		descLabel = selectedBorder.Render(descLabel)
	}
	sections = append(sections, descLabel, s.description.View())
	sections = append(sections, fmt.Sprintf("Lista: %s %s", labelStyle.Render(s.listLabel()), valueMuted.Render("(ctrl+l)")))
	sections = append(sections, "")

	if s.picker.State() == picker.StateHourPicking {
		sections = append(sections, s.hoursView())
	} else {
		sections = append(sections, s.calendarView())
	}

	sections = append(sections, "", s.summary())
	content := strings.Join(sections, "\n")
	return lipgloss.NewStyle().Border(borderASCII).Padding(0, 1).Width(max(width, 36)).Render(content)
}

func (s *sheet) calendarView() string {
	month := s.picker.Month()
	title := fmt.Sprintf("< %s >", view.MonthTitle(month))

	var b strings.Builder
	b.WriteString(labelStyle.Render(title) + "\n")
	for _, initial := range view.WeekdayInitials() {
		b.WriteString(" " + initial + " ")
	}
	for _, week := range s.picker.Grid() {
		b.WriteString("\n")
		for _, d := range week {
			b.WriteString(s.dayCell(d))
		}
	}
	return b.String()
}

func (s *sheet) dayCell(d picker.Day) string {
	if !d.InMonth {
		return "    "
	}
	number := fmt.Sprintf("%2d", d.Date.Day())
	cursor := s.focus == sheetFocusCalendar && d.Date.Equal(s.cursor)

	text := " " + number + " "
	switch {
	case d.Selected:
		text = "[" + number + "]"
	case cursor:
		text = ">" + number + "<"
	}

	style := cellStyle
	switch {
	case d.Selected:
		style = cellSelectedStyle
	case d.Disabled:
		style = cellDisabledStyle
	case d.Today:
		style = cellTodayStyle
	}
	if cursor {
		style = style.Inherit(cellCursorStyle)
	}
	return style.Render(text)
}

func (s *sheet) hoursView() string {
	armed, _ := s.picker.ArmedDate()
	selected := make(map[string]bool)
	for _, h := range s.picker.Hours() {
		selected[h] = true
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render("Ore per "+view.DayLabel(armed, s.clock.Now())) + "\n")
	for i, slot := range task.HourSlots() {
		if i > 0 && i%hourColumns == 0 {
			b.WriteString("\n")
		}
		text := " " + slot + " "
		style := cellStyle
		if selected[slot] {
			text = "[" + slot + "]"
			style = cellSelectedStyle
		}
		if s.focus == sheetFocusCalendar && i == s.hourCursor {
			if !selected[slot] {
				text = ">" + slot + "<"
			}
			style = style.Inherit(cellCursorStyle)
		}
		b.WriteString(style.Render(text))
	}
	return b.String()
}

// summary describes what Save would create, or what is still missing.
func (s *sheet) summary() string {
	armed, ok := s.picker.ArmedDate()
	if !ok {
		return valueMuted.Render("Scegli un giorno")
	}

	preview := task.Task{Hours: s.picker.Hours()}
	if hours, err := task.ValidateHours(preview.Hours); err == nil {
		preview.Hours = hours
	}
	line := view.DayLabel(armed, s.clock.Now())
	if r := preview.TimeRange(); r != "" {
		line += ", " + r
	}
	if s.picker.RepeatPending() {
		line += valueMuted.Render("  (invio di nuovo per le ore)")
	}
	return line
}
