package tui

import "github.com/charmbracelet/lipgloss"

var (
	borderASCII = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	headerBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	greetingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	helpBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	paneStyle       = lipgloss.NewStyle().Border(borderASCII).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
	paneActiveStyle = paneStyle.BorderForeground(lipgloss.Color("33"))

	labelStyle         = lipgloss.NewStyle().Bold(true)
	valueMuted         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	selectedBorder     = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	rowNormalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rowSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	rowDoneStyle     = valueMuted.Strikethrough(true)
	rowEnteringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	rowLeavingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	groupTodayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	groupStyle       = lipgloss.NewStyle().Bold(true)
	timeRangeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	cellStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	cellDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellTodayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	cellSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true)
	cellCursorStyle   = lipgloss.NewStyle().Reverse(true)
)
