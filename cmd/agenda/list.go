package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/agenda/internal/listflags"
	"github.com/amonks/agenda/internal/ui"
	"github.com/amonks/agenda/list"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"lists"},
	Short:   "Manage task lists",
}

// list create
var listCreateCmd = &cobra.Command{
	Use:   "create <label>...",
	Short: "Create a list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runListCreate,
}

// list delete
var listDeleteCmd = &cobra.Command{
	Use:   "delete <list>",
	Short: "Delete a list and all of its tasks",
	Long: `Delete a list and all of its tasks.

The list may be named by ID, unique ID prefix or label. When running
interactively you are asked to confirm; use --yes to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runListDelete,
}

var listDeleteYes bool

// list ls
var listLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "Show lists with their pending task counts",
	Args:    cobra.NoArgs,
	RunE:    runListLs,
}

var listLsJSON bool

// list search
var listSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search list labels",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runListSearch,
}

var listSearchJSON bool

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.AddCommand(listCreateCmd, listDeleteCmd, listLsCmd, listSearchCmd)

	listDeleteCmd.Flags().BoolVarP(&listDeleteYes, "yes", "y", false, "Do not ask for confirmation")
	listflags.AddJSONFlag(listLsCmd, &listLsJSON)
	listflags.AddJSONFlag(listSearchCmd, &listSearchJSON)
}

func runListCreate(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	created, err := s.agenda.CreateList(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created list %s: %s\n", created.ID, created.Label)
	return nil
}

func runListDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	target, err := s.agenda.ResolveList(args[0])
	if err != nil {
		return err
	}

	pending := s.agenda.PendingCounts()[target.ID]
	ok, err := confirmDestructive(listDeleteYes, fmt.Sprintf("Delete list %q and its tasks (%d pending)?", target.Label, pending))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
		return nil
	}

	removed, err := s.agenda.DeleteList(target.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %s: %s (%s)\n", target.ID, target.Label, pluralTasks(removed))
	return nil
}

func runListLs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	lists := s.agenda.Lists()
	if listLsJSON {
		return encodeJSON(cmd.OutOrStdout(), lists)
	}
	if len(lists) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No lists. Create one with: agenda list create <label>")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatListTable(lists, s.agenda.PendingCounts()))
	return nil
}

func runListSearch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	matches := s.agenda.SearchLists(strings.Join(args, " "))
	if listSearchJSON {
		return encodeJSON(cmd.OutOrStdout(), matches)
	}
	if len(matches) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching lists")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), formatListTable(matches, s.agenda.PendingCounts()))
	return nil
}

func formatListTable(lists []list.List, pending map[string]int) string {
	idList := make([]string, len(lists))
	for i, l := range lists {
		idList[i] = l.ID
	}
	prefixes := ui.PrefixLengths(idList)

	builder := ui.NewTableBuilder([]string{"ID", "LABEL", "PENDING"}, len(lists))
	for _, l := range lists {
		builder.AddRow([]string{
			ui.HighlightID(l.ID, ui.PrefixLength(prefixes, l.ID)),
			ui.TruncateTableCell(l.Label),
			strconv.Itoa(pending[l.ID]),
		})
	}
	return builder.String()
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
