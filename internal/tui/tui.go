// Package tui is the interactive terminal interface: a sidebar of lists, the
// day-grouped tasks of the selected list and the add-task sheet.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/amonks/agenda/agenda"
	"github.com/amonks/agenda/picker"
	"github.com/amonks/agenda/task"
	"github.com/amonks/agenda/view"
)

type focusPane int

const (
	focusLists focusPane = iota
	focusTasks
)

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalOnboarding
	modalNewList
	modalDeleteList
	modalDeleteTask
	modalSheet
)

// Options configures Run.
type Options struct {
	// RepeatWindow is the picker's double-select window.
	RepeatWindow time.Duration
}

type model struct {
	agenda       *agenda.Agenda
	repeatWindow time.Duration
	width        int
	height       int
	focus        focusPane
	lists        list.Model
	groups       []view.Group
	tasks        []task.Task
	taskCursor   int
	modal        confirmModal
	input        textinput.Model
	sheet        *sheet
	status       string
	statusLevel  statusLevel
}

type confirmModal struct {
	kind        modalKind
	message     string
	confirmText string
	cancelText  string
	selected    int
	targetID    string
}

// transitionEndedMsg redraws a task once its completion phase is over.
type transitionEndedMsg struct {
	id string
}

// Run starts the interface on the terminal and blocks until it quits.
func Run(a *agenda.Agenda, opts Options) error {
	if a == nil {
		return fmt.Errorf("agenda is required")
	}
	program := tea.NewProgram(newModel(a, opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newModel(a *agenda.Agenda, opts Options) model {
	if opts.RepeatWindow <= 0 {
		opts.RepeatWindow = picker.DefaultRepeatWindow
	}

	lists := list.New(nil, newListItemDelegate(), 0, 0)
	lists.Title = "Liste"
	lists.SetShowStatusBar(false)
	lists.SetFilteringEnabled(false)
	lists.SetShowHelp(false)
	lists.SetShowPagination(false)

	m := model{
		agenda:       a,
		repeatWindow: opts.RepeatWindow,
		focus:        focusLists,
		lists:        lists,
		modal:        confirmModal{kind: modalNone},
	}
	m.refresh()
	if _, onboarded := a.Profile(); !onboarded {
		m = m.openInput(modalOnboarding, "Come ti chiami?")
	}
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case transitionEndedMsg, repeatExpiredMsg:
		return m, nil
	}

	if m.modal.kind != modalNone {
		return m.updateModal(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		updated, cmd := m.handleKey(key)
		return updated, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Caricamento..."
	}
	if m.modal.kind == modalSheet && m.sheet != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.sheet.View(min(m.width-4, 60)))
	}

	contentHeight := max(m.height-3, 1)
	leftWidth, rightWidth := splitWidths(m.width)
	listPane := m.renderPane(m.lists.View(), leftWidth, contentHeight, m.focus == focusLists)
	taskPane := m.renderPane(m.renderTasks(rightWidth-4, contentHeight-2), rightWidth, contentHeight, m.focus == focusTasks)
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, taskPane)

	screen := strings.Join([]string{m.renderHeader(), m.renderHelpLine(), content, m.renderStatusLine()}, "\n")
	if m.modal.kind != modalNone {
		screen = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modalView())
	}
	return screen
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.modal = confirmModal{kind: modalHelp}
		return m, nil
	case "tab", "shift+tab", "backtab":
		if m.focus == focusLists {
			m.focus = focusTasks
		} else {
			m.focus = focusLists
		}
		return m, nil
	case "left", "h":
		m.focus = focusLists
		return m, nil
	case "right", "l":
		if m.selectedListID() != "" {
			m.focus = focusTasks
		}
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "n":
		return m.openInput(modalNewList, "Nome della nuova lista"), textinput.Blink
	case "a":
		return m.openSheet()
	case "d", "delete":
		return m.promptDelete(), nil
	case "x", " ":
		if m.focus == focusTasks {
			return m.toggleSelectedTask()
		}
	case "enter":
		if m.focus == focusLists && m.selectedListID() != "" {
			m.focus = focusTasks
		}
		return m, nil
	}
	return m, nil
}

func (m *model) moveCursor(delta int) {
	if m.focus == focusLists {
		if delta < 0 {
			m.lists.CursorUp()
		} else {
			m.lists.CursorDown()
		}
		m.taskCursor = 0
		m.refreshTasks()
		return
	}
	next := m.taskCursor + delta
	if next >= 0 && next < len(m.tasks) {
		m.taskCursor = next
	}
}

func (m model) toggleSelectedTask() (model, tea.Cmd) {
	current, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	toggled, err := m.agenda.ToggleTask(current.ID)
	if err != nil {
		m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
		return m, nil
	}
	m.refresh()
	if toggled.Completed {
		m.setStatus("Completata: "+toggled.Description, statusInfo)
	} else {
		m.setStatus("Riaperta: "+toggled.Description, statusInfo)
	}
	id := toggled.ID
	return m, tea.Tick(m.agenda.Transitions().Window(), func(time.Time) tea.Msg {
		return transitionEndedMsg{id: id}
	})
}

func (m model) promptDelete() model {
	if m.focus == focusTasks {
		current, ok := m.selectedTask()
		if !ok {
			return m
		}
		m.modal = confirmModal{
			kind:        modalDeleteTask,
			message:     fmt.Sprintf("Eliminare %q?", current.Description),
			confirmText: "Elimina",
			cancelText:  "Annulla",
			selected:    1,
			targetID:    current.ID,
		}
		return m
	}

	item, ok := m.selectedListItem()
	if !ok {
		return m
	}
	m.modal = confirmModal{
		kind:        modalDeleteList,
		message:     fmt.Sprintf("Eliminare la lista %q e le sue attività (%d da fare)?", item.list.Label, item.pending),
		confirmText: "Elimina",
		cancelText:  "Annulla",
		selected:    1,
		targetID:    item.list.ID,
	}
	return m
}

func (m model) openInput(kind modalKind, placeholder string) model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "> "
	input.CharLimit = 100
	input.Focus()
	m.input = input
	m.modal = confirmModal{kind: kind, message: placeholder}
	return m
}

func (m model) openSheet() (model, tea.Cmd) {
	lists := m.agenda.Lists()
	if len(lists) == 0 {
		m.setStatus("Crea prima una lista (n)", statusError)
		return m, nil
	}
	ids := make([]string, len(lists))
	labels := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
		labels[i] = l.Label
	}
	m.sheet = newSheet(m.agenda.Clock(), m.repeatWindow, ids, labels, m.selectedListID())
	m.modal = confirmModal{kind: modalSheet}
	return m, m.sheet.toggleFocus()
}

func (m model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.modal.kind {
	case modalSheet:
		return m.updateSheet(msg)
	case modalOnboarding, modalNewList:
		return m.updateInput(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.modal.kind == modalHelp {
		switch key.String() {
		case "?", "esc", "enter":
			m.modal = confirmModal{kind: modalNone}
		case "ctrl+c", "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch key.String() {
	case "left", "right", "tab", "shift+tab", "backtab":
		m.modal.selected = 1 - m.modal.selected
		return m, nil
	case "enter":
		return m.resolveModal(m.modal.selected == 0)
	case "y", "s":
		return m.resolveModal(true)
	case "n", "esc":
		return m.resolveModal(false)
	}
	return m, nil
}

func (m model) resolveModal(confirm bool) (tea.Model, tea.Cmd) {
	modal := m.modal
	m.modal = confirmModal{kind: modalNone}
	if !confirm {
		return m, nil
	}

	switch modal.kind {
	case modalDeleteList:
		removed, err := m.agenda.DeleteList(modal.targetID)
		if err != nil {
			m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
			break
		}
		m.focus = focusLists
		m.setStatus(fmt.Sprintf("Lista eliminata (%d attività)", removed), statusInfo)
	case modalDeleteTask:
		if err := m.agenda.DeleteTask(modal.targetID); err != nil {
			m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
			break
		}
		m.setStatus("Attività eliminata", statusInfo)
	}
	m.refresh()
	return m, nil
}

func (m model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.modal.kind == modalNewList {
				m.modal = confirmModal{kind: modalNone}
			}
			return m, nil
		case "enter":
			return m.submitInput(), nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submitInput() model {
	value := m.input.Value()
	switch m.modal.kind {
	case modalOnboarding:
		profile, err := m.agenda.SetName(value)
		if errors.Is(err, agenda.ErrEmptyName) {
			m.setStatus("Il nome non può essere vuoto", statusError)
			return m
		}
		if err != nil {
			m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
			return m
		}
		m.setStatus("Ciao, "+profile.Name, statusInfo)
	case modalNewList:
		created, err := m.agenda.CreateList(value)
		if err != nil {
			m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
			return m
		}
		m.refresh()
		m.selectListByID(created.ID)
		m.setStatus("Lista creata: "+created.Label, statusInfo)
	}
	m.modal = confirmModal{kind: modalNone}
	return m
}

func (m model) updateSheet(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := m.sheet
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.focus == sheetFocusDescription {
			var cmd tea.Cmd
			s.description, cmd = s.description.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+s":
		created, err := s.save(m.agenda)
		if err != nil {
			m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
			return m, nil
		}
		m.closeSheet()
		m.refresh()
		m.selectListByID(created.ListID)
		m.setStatus("Attività creata: "+created.Description, statusInfo)
		return m, nil
	case "ctrl+l":
		s.cycleList()
		return m, nil
	case "tab", "shift+tab", "backtab":
		return m, s.toggleFocus()
	case "esc":
		if s.picker.State() == picker.StateHourPicking {
			s.picker.Back()
			return m, nil
		}
		m.closeSheet()
		return m, nil
	}

	if s.focus == sheetFocusDescription {
		var cmd tea.Cmd
		s.description, cmd = s.description.Update(msg)
		return m, cmd
	}

	if s.picker.State() == picker.StateHourPicking {
		switch key.String() {
		case "left":
			s.moveHourCursor(-1)
		case "right":
			s.moveHourCursor(1)
		case "up":
			s.moveHourCursor(-hourColumns)
		case "down":
			s.moveHourCursor(hourColumns)
		case "enter", " ":
			if err := s.toggleHour(); err != nil {
				m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
			}
		}
		return m, nil
	}

	switch key.String() {
	case "left":
		s.moveCursor(-1)
	case "right":
		s.moveCursor(1)
	case "up":
		s.moveCursor(-7)
	case "down":
		s.moveCursor(7)
	case "[":
		s.shiftMonth(-1)
	case "]":
		s.shiftMonth(1)
	case "o":
		if err := s.picker.ShowHours(); err != nil {
			m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
		}
	case "enter", " ":
		cmd, err := s.selectCursor(m.repeatWindow)
		if err != nil {
			m.setStatus(fmt.Sprintf("Errore: %v", err), statusError)
			return m, nil
		}
		return m, cmd
	}
	return m, nil
}

func (m *model) closeSheet() {
	if m.sheet != nil {
		m.sheet.picker.Reset()
	}
	m.sheet = nil
	m.modal = confirmModal{kind: modalNone}
}

// refresh reloads lists and the selected list's projection from the agenda.
func (m *model) refresh() {
	selected := m.selectedListID()
	pending := m.agenda.PendingCounts()
	lists := m.agenda.Lists()

	items := make([]list.Item, 0, len(lists))
	index := 0
	for i, l := range lists {
		items = append(items, listItem{list: l, pending: pending[l.ID]})
		if l.ID == selected {
			index = i
		}
	}
	m.lists.SetItems(items)
	if len(items) > 0 {
		m.lists.Select(index)
	}
	m.refreshTasks()
}

func (m *model) refreshTasks() {
	listID := m.selectedListID()
	if listID == "" {
		m.groups = nil
		m.tasks = nil
		m.taskCursor = 0
		return
	}
	m.groups = m.agenda.Project(listID)
	m.tasks = nil
	for _, g := range m.groups {
		m.tasks = append(m.tasks, g.Tasks...)
	}
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = max(len(m.tasks)-1, 0)
	}
}

func (m *model) selectListByID(id string) {
	for i, item := range m.lists.Items() {
		if current, ok := item.(listItem); ok && current.list.ID == id {
			m.lists.Select(i)
			m.taskCursor = 0
			m.refreshTasks()
			return
		}
	}
}

func (m model) selectedListItem() (listItem, bool) {
	item := m.lists.SelectedItem()
	if item == nil {
		return listItem{}, false
	}
	current, ok := item.(listItem)
	return current, ok
}

func (m model) selectedListID() string {
	item, ok := m.selectedListItem()
	if !ok {
		return ""
	}
	return item.list.ID
}

func (m model) selectedTask() (task.Task, bool) {
	if m.taskCursor < 0 || m.taskCursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.taskCursor], true
}

func (m *model) resize() {
	contentHeight := max(m.height-3, 1)
	leftWidth, _ := splitWidths(m.width)
	m.lists.SetSize(max(leftWidth-4, 1), max(contentHeight-2, 1))
}

func splitWidths(width int) (int, int) {
	left := width / 3
	if left < 24 {
		left = 24
	}
	if left > width-20 {
		left = width / 2
	}
	right := width - left
	if right < 20 {
		right = 20
		left = width - right
	}
	return left, right
}

// renderTasks draws the day groups, scrolled so the cursor row is visible.
func (m model) renderTasks(width, height int) string {
	if m.selectedListID() == "" {
		return valueMuted.Render("Nessuna lista. Premi n per crearne una.")
	}
	if len(m.groups) == 0 {
		return valueMuted.Render("Nessuna attività. Premi a per aggiungerne una.")
	}

	now := m.agenda.Now()
	today := task.Day(now)
	transitions := m.agenda.Transitions()

	var lines []string
	cursorLine := 0
	index := 0
	for gi, g := range m.groups {
		if gi > 0 {
			lines = append(lines, "")
		}
		style := groupStyle
		if g.Day.Equal(today) {
			style = groupTodayStyle
		}
		lines = append(lines, style.Render(g.Label))
		for _, t := range g.Tasks {
			if index == m.taskCursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderTaskRow(t, transitions.Phase(t.ID), index == m.taskCursor, width))
			index++
		}
	}

	if height > 0 && len(lines) > height {
		start := min(max(cursorLine-height/2, 0), len(lines)-height)
		lines = lines[start : start+height]
	}
	return strings.Join(lines, "\n")
}

func (m model) renderTaskRow(t task.Task, phase task.Phase, selected bool, width int) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	line := check + " "
	if r := t.TimeRange(); r != "" {
		line += timeRangeStyle.Render(r) + " "
	}
	line += t.Description
	if width > 0 {
		line = truncate.StringWithTail(line, uint(width), "…")
	}

	style := rowNormalStyle
	switch {
	case selected && m.focus == focusTasks:
		style = rowSelectedStyle
	case phase == task.PhaseEntering:
		style = rowEnteringStyle
	case phase == task.PhaseLeaving:
		style = rowLeavingStyle
	case t.Completed:
		style = rowDoneStyle
	}
	return style.Render(line)
}

func (m model) renderHeader() string {
	line, date := m.agenda.Greeting()
	greeting := greetingStyle.Render(line)
	hint := valueMuted.Render(date)
	spacer := strings.Repeat(" ", max(m.width-lipgloss.Width(greeting)-lipgloss.Width(hint)-1, 1))
	return headerBarStyle.Width(m.width).Render(greeting + spacer + hint)
}

func (m model) renderPane(content string, width, height int, focused bool) string {
	style := paneStyle
	if focused {
		style = paneActiveStyle
	}
	return style.Width(max(width-2, 0)).Height(max(height-2, 0)).Render(content)
}

func (m model) renderStatusLine() string {
	text := strings.TrimSpace(m.status)
	if text == "" {
		return ""
	}
	style := valueMuted
	switch m.statusLevel {
	case statusError:
		style = statusErrorStyle
	case statusInfo:
		style = statusSuccessStyle
	}
	return style.Render(text)
}

func (m model) renderHelpLine() string {
	text := m.helpSummary()
	if m.width > 0 {
		text = truncate.StringWithTail(text, uint(m.width), "…")
	}
	return helpBarStyle.Render(text)
}

func (m model) helpSummary() string {
	if m.focus == focusTasks {
		return "Tasti: su/giù muovi | x completa | d elimina | a aggiungi | tab liste | ? aiuto | q esci"
	}
	return "Tasti: su/giù muovi | invio apri | n nuova lista | d elimina | a aggiungi | ? aiuto | q esci"
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) modalView() string {
	modalStyle := lipgloss.NewStyle().Border(borderASCII).Padding(1, 2)
	wrap := max(min(m.width-8, 60), 20)

	switch m.modal.kind {
	case modalHelp:
		return modalStyle.Render(helpContent(wrap))
	case modalOnboarding, modalNewList:
		title := m.modal.message
		if m.modal.kind == modalOnboarding {
			title = "Benvenuto! " + title
		}
		content := strings.Join([]string{wordwrap.String(title, wrap), "", m.input.View(), "", m.renderStatusLine()}, "\n")
		return modalStyle.Render(content)
	}

	buttons := make([]string, 0, 2)
	for i, option := range []string{m.modal.confirmText, m.modal.cancelText} {
		style := valueMuted
		if i == m.modal.selected {
			style = selectedBorder
		}
		buttons = append(buttons, style.Render("["+option+"]"))
	}
	content := strings.Join([]string{wordwrap.String(m.modal.message, wrap), "", strings.Join(buttons, " ")}, "\n")
	return modalStyle.Render(content)
}

func helpContent(width int) string {
	sections := []string{
		labelStyle.Render("Liste"),
		"su/giù scegli lista, invio o destra apre le attività, n crea una lista, d elimina la lista e le sue attività.",
		"",
		labelStyle.Render("Attività"),
		"x o spazio segna come fatta, d elimina, a apre il foglio per una nuova attività.",
		"",
		labelStyle.Render("Nuova attività"),
		"tab passa tra descrizione e calendario. Frecce muovono il giorno, [ e ] cambiano mese. Invio due volte sullo stesso giorno apre le ore (o con o). Si scelgono al massimo due ore; una terza sostituisce la prima. esc torna indietro, ctrl+l cambia lista, ctrl+s salva.",
	}
	for i, section := range sections {
		sections[i] = wordwrap.String(section, width)
	}
	return strings.Join(sections, "\n")
}
