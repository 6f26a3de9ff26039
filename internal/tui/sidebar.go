package tui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	agendalist "github.com/amonks/agenda/list"
)

type listItem struct {
	list    agendalist.List
	pending int
}

func (item listItem) FilterValue() string {
	return item.list.Label
}

type listItemDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	emptyStyle    lipgloss.Style
}

func newListItemDelegate() listItemDelegate {
	return listItemDelegate{
		normalStyle:   rowNormalStyle,
		selectedStyle: rowSelectedStyle,
		emptyStyle:    valueMuted,
	}
}

func (d listItemDelegate) Height() int                             { return 1 }
func (d listItemDelegate) Spacing() int                            { return 0 }
func (d listItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d listItemDelegate) Render(w io.Writer, m list.Model, index int, entry list.Item) {
	item, ok := entry.(listItem)
	if !ok {
		return
	}

	line := formatListItem(item, m.Width())
	style := d.normalStyle
	if index == m.Index() {
		style = d.selectedStyle
	} else if item.pending == 0 {
		style = d.emptyStyle
	}
	fmt.Fprint(w, style.Render(line))
}

// formatListItem renders "label   N" with the pending count right-aligned
// in width cells.
func formatListItem(item listItem, width int) string {
	count := strconv.Itoa(item.pending)
	if width <= 0 {
		return item.list.Label + " " + count
	}
	labelWidth := width - runewidth.StringWidth(count) - 1
	if labelWidth < 1 {
		return runewidth.Truncate(item.list.Label+" "+count, width, "")
	}
	label := runewidth.Truncate(item.list.Label, labelWidth, "…")
	return runewidth.FillRight(label, labelWidth) + " " + count
}
