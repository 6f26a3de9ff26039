package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amonks/agenda/internal/markdown"
	"github.com/amonks/agenda/internal/ui"
	"github.com/amonks/agenda/list"
	"github.com/amonks/agenda/view"
)

var showCmd = &cobra.Command{
	Use:   "show [list]",
	Short: "Show a list's tasks grouped by day",
	Long: `Show a list's tasks grouped by day.

Today's tasks come first, labelled Oggi; the other days follow in date
order. With a single list the argument may be omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

var showMarkdown bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "Render as markdown")
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	target, err := resolveListFlag(s.agenda, ref)
	if err != nil {
		return err
	}

	l := list.List{ID: target.ID, Label: target.Label}
	groups := s.agenda.Project(l.ID)
	now := s.agenda.Now()

	if showMarkdown {
		out := markdown.SafeRender(outputWidth(), 0, []byte(formatGroupsMarkdown(l, groups)))
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatGroups(l, groups, now))
	return nil
}

// formatGroups renders the day groups as plain indented text.
func formatGroups(l list.List, groups []view.Group, now time.Time) string {
	var b strings.Builder
	header := view.HeaderDate(now)
	fmt.Fprintf(&b, "%s  (%s)\n", l.Label, header)
	if len(groups) == 0 {
		b.WriteString("\nNo tasks\n")
		return b.String()
	}

	var idList []string
	for _, g := range groups {
		for _, t := range g.Tasks {
			idList = append(idList, t.ID)
		}
	}
	prefixes := ui.PrefixLengths(idList)

	rangeWidth := 0
	for _, g := range groups {
		for _, t := range g.Tasks {
			rangeWidth = max(rangeWidth, len(t.TimeRange()))
		}
	}

	for _, g := range groups {
		fmt.Fprintf(&b, "\n%s\n", g.Label)
		for _, t := range g.Tasks {
			done := "[ ]"
			if t.Completed {
				done = "[x]"
			}
			line := fmt.Sprintf("  %s %s", done, ui.HighlightID(t.ID, ui.PrefixLength(prefixes, t.ID)))
			if rangeWidth > 0 {
				line += "  " + ui.PadRight(t.TimeRange(), rangeWidth)
			}
			b.WriteString(line + "  " + t.Description + "\n")
		}
	}
	return b.String()
}

// formatGroupsMarkdown renders the day groups as a markdown document.
func formatGroupsMarkdown(l list.List, groups []view.Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", markdown.Escape(l.Label))
	if len(groups) == 0 {
		b.WriteString("\nNo tasks\n")
		return b.String()
	}
	for _, g := range groups {
		fmt.Fprintf(&b, "\n## %s\n\n", g.Label)
		for _, t := range g.Tasks {
			text := markdown.Escape(t.Description)
			if r := t.TimeRange(); r != "" {
				text = "**" + r + "** " + text
			}
			b.WriteString(markdown.Checkbox(t.Completed, text) + "\n")
		}
	}
	return b.String()
}

func outputWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
