package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/amonks/agenda/internal/ids"
)

var idPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// HighlightID returns an ID with its unique prefix highlighted when stdout is
// a color terminal.
func HighlightID(id string, prefixLen int) string {
	if !ColorEnabled() {
		return id
	}
	return highlightID(id, prefixLen)
}

func highlightID(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) {
		return id
	}
	return idPrefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}

// ColorEnabled reports whether stdout should receive ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PrefixLengths returns the shortest unique prefix length for each ID,
// keyed by lowercased ID.
func PrefixLengths(idList []string) map[string]int {
	return ids.UniquePrefixLengths(idList)
}

// PrefixLength looks up id in lengths case-insensitively.
func PrefixLength(lengths map[string]int, id string) int {
	if id == "" || lengths == nil {
		return 0
	}
	return lengths[strings.ToLower(id)]
}
