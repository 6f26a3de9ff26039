package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/agenda/agenda"
	"github.com/amonks/agenda/internal/listflags"
	"github.com/amonks/agenda/internal/ui"
	"github.com/amonks/agenda/picker"
	"github.com/amonks/agenda/task"
	"github.com/amonks/agenda/view"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage tasks",
}

// task add
var taskAddCmd = &cobra.Command{
	Use:   "add [description]...",
	Short: "Add a task to a list",
	Long: `Add a task to a list.

--date accepts today (oggi), tomorrow (domani) or YYYY-MM-DD and defaults
to today. Past days cannot be chosen. --hour may be given up to twice;
the task shows the range between the earliest and latest hour.`,
	RunE: runTaskAdd,
}

var (
	taskAddDescription string
	taskAddList        string
	taskAddDate        string
	taskAddHours       []string
)

// task toggle
var taskToggleCmd = &cobra.Command{
	Use:     "toggle <id>...",
	Aliases: []string{"done"},
	Short:   "Toggle the completion of one or more tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runTaskToggle,
}

// task delete
var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskDelete,
}

var taskDeleteYes bool

// task ls
var taskLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List pending tasks",
	Long: `List pending tasks in creation order.

Use --all to include completed tasks and --list to show a single list.`,
	Args: cobra.NoArgs,
	RunE: runTaskLs,
}

var (
	taskLsList string
	taskLsJSON bool
	taskLsAll  bool
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd, taskToggleCmd, taskDeleteCmd, taskLsCmd)

	taskAddCmd.Flags().StringVarP(&taskAddDescription, "description", "d", "", "Task description")
	taskAddCmd.Flags().StringVarP(&taskAddList, "list", "l", "", "List ID, ID prefix or label")
	taskAddCmd.Flags().StringVar(&taskAddDate, "date", "today", "Day of the task (today, tomorrow or YYYY-MM-DD)")
	taskAddCmd.Flags().StringArrayVar(&taskAddHours, "hour", nil, "Hour slot like 09:00 (repeatable, at most 2)")
	addDescriptionFlagAliases(taskAddCmd)
	addTaskFlagAliases(taskAddCmd)

	taskDeleteCmd.Flags().BoolVarP(&taskDeleteYes, "yes", "y", false, "Do not ask for confirmation")

	taskLsCmd.Flags().StringVarP(&taskLsList, "list", "l", "", "Only show tasks in this list")
	listflags.AddJSONFlag(taskLsCmd, &taskLsJSON)
	listflags.AddAllFlag(taskLsCmd, &taskLsAll)
	addTaskFlagAliases(taskLsCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	description := taskAddDescription
	if len(args) > 0 {
		if hasChangedFlags(cmd, "description") {
			return fmt.Errorf("give the description as arguments or with --description, not both")
		}
		description = strings.Join(args, " ")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	target, err := resolveListFlag(s.agenda, taskAddList)
	if err != nil {
		return err
	}

	now := s.agenda.Now()
	date, err := parseDateInput(taskAddDate, now)
	if err != nil {
		return err
	}

	hours := make([]string, 0, len(taskAddHours))
	for _, value := range taskAddHours {
		hours = append(hours, normalizeHourInput(value))
	}
	if _, err := task.ValidateHours(hours); err != nil {
		return err
	}

	repeat, err := s.config.RepeatWindow()
	if err != nil {
		return err
	}
	p := picker.New(s.agenda.Clock(), picker.Options{RepeatWindow: repeat})
	created, err := addWithPicker(p, s.agenda, description, target.ID, date, hours)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created task %s in %s: %s\n", created.ID, target.Label, describeWhen(created, now))
	return nil
}

// addWithPicker drives p the way the add sheet does: show the month, select
// the day, open the hour grid, toggle each hour, save.
func addWithPicker(p *picker.Picker, creator picker.Creator, description, listID string, date time.Time, hours []string) (task.Task, error) {
	p.ShowMonth(date)
	if err := p.SelectDate(date); err != nil {
		if errors.Is(err, picker.ErrDateDisabled) {
			return task.Task{}, fmt.Errorf("%w: %s is before today", picker.ErrDateDisabled, formatDate(date))
		}
		return task.Task{}, err
	}
	if len(hours) > 0 {
		if err := p.ShowHours(); err != nil {
			return task.Task{}, err
		}
		for _, hour := range hours {
			if err := p.ToggleHour(hour); err != nil {
				return task.Task{}, err
			}
		}
	}
	return p.Save(creator, description, listID)
}

// normalizeHourInput accepts "9", "09", "9:00" and "09:00".
func normalizeHourInput(value string) string {
	value = strings.TrimSpace(value)
	hour, minutes, hasColon := strings.Cut(value, ":")
	if !hasColon {
		minutes = "00"
	}
	if len(hour) == 1 {
		hour = "0" + hour
	}
	return hour + ":" + minutes
}

func resolveListFlag(a *agenda.Agenda, ref string) (listRef, error) {
	if strings.TrimSpace(ref) != "" {
		l, err := a.ResolveList(ref)
		if err != nil {
			return listRef{}, err
		}
		return listRef{ID: l.ID, Label: l.Label}, nil
	}
	lists := a.Lists()
	switch len(lists) {
	case 0:
		return listRef{}, fmt.Errorf("no lists: create one with agenda list create <label>")
	case 1:
		return listRef{ID: lists[0].ID, Label: lists[0].Label}, nil
	default:
		return listRef{}, fmt.Errorf("%d lists exist: choose one with --list", len(lists))
	}
}

type listRef struct {
	ID    string
	Label string
}

func runTaskToggle(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, arg := range args {
		id, err := s.agenda.ResolveTask(arg)
		if err != nil {
			return err
		}
		toggled, err := s.agenda.ToggleTask(id)
		if err != nil {
			return err
		}
		state := "Reopened"
		if toggled.Completed {
			state = "Completed"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s task %s: %s\n", state, toggled.ID, toggled.Description)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	for _, arg := range args {
		id, err := s.agenda.ResolveTask(arg)
		if err != nil {
			return err
		}
		target, _ := s.agenda.Task(id)

		ok, err := confirmDestructive(taskDeleteYes, fmt.Sprintf("Delete task %q?", target.Description))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped task %s\n", id)
			continue
		}

		if err := s.agenda.DeleteTask(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", id, target.Description)
	}
	return nil
}

func runTaskLs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	listID := ""
	if strings.TrimSpace(taskLsList) != "" {
		target, err := s.agenda.ResolveList(taskLsList)
		if err != nil {
			return err
		}
		listID = target.ID
	}
	tasks := filterTasks(s.agenda.Tasks(), listID, taskLsAll)

	if taskLsJSON {
		return encodeJSON(cmd.OutOrStdout(), tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
		return nil
	}

	labels := make(map[string]string)
	for _, l := range s.agenda.Lists() {
		labels[l.ID] = l.Label
	}
	fmt.Fprint(cmd.OutOrStdout(), formatTaskTable(tasks, labels))
	return nil
}

// filterTasks keeps tasks in listID (any list when empty), dropping
// completed ones unless all is set.
func filterTasks(tasks []task.Task, listID string, all bool) []task.Task {
	filtered := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if listID != "" && t.ListID != listID {
			continue
		}
		if t.Completed && !all {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func formatTaskTable(tasks []task.Task, listLabels map[string]string) string {
	idList := make([]string, len(tasks))
	for i, t := range tasks {
		idList[i] = t.ID
	}
	prefixes := ui.PrefixLengths(idList)

	builder := ui.NewTableBuilder([]string{"ID", "DONE", "DATE", "TIME", "LIST", "DESCRIPTION"}, len(tasks))
	for _, t := range tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		timeRange := t.TimeRange()
		if timeRange == "" {
			timeRange = "-"
		}
		builder.AddRow([]string{
			ui.HighlightID(t.ID, ui.PrefixLength(prefixes, t.ID)),
			done,
			formatDate(t.Date),
			timeRange,
			ui.TruncateTableCell(listLabels[t.ListID]),
			ui.TruncateTableCell(t.Description),
		})
	}
	return builder.String()
}

func describeWhen(t task.Task, now time.Time) string {
	when := t.Description + " (" + view.DayLabel(t.Date, now)
	if r := t.TimeRange(); r != "" {
		when += ", " + r
	}
	return when + ")"
}
