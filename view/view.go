// Package view derives the grouped, labelled task listings shown for a list.
package view

import (
	"sort"
	"time"

	"github.com/amonks/agenda/task"
)

// Group is the tasks of one list that fall on the same day.
type Group struct {
	Day   time.Time
	Label string
	Tasks []task.Task
}

// Project filters tasks to listID and groups them by day. Today's group comes
// first; the remaining groups follow in ascending date order, so overdue days
// sort after today. Tasks keep their insertion order within a group.
func Project(tasks []task.Task, listID string, now time.Time) []Group {
	today := task.Day(now)

	index := make(map[time.Time]int)
	var groups []Group
	for _, t := range tasks {
		if t.ListID != listID {
			continue
		}
		day := task.Day(t.Date.In(now.Location()))
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, Group{Day: day, Label: DayLabel(day, now)})
		}
		groups[i].Tasks = append(groups[i].Tasks, t.Clone())
	}

	sort.SliceStable(groups, func(i, j int) bool {
		iToday := groups[i].Day.Equal(today)
		jToday := groups[j].Day.Equal(today)
		if iToday != jToday {
			return iToday
		}
		return groups[i].Day.Before(groups[j].Day)
	})
	return groups
}

// PendingCount returns the number of incomplete tasks in listID.
func PendingCount(tasks []task.Task, listID string) int {
	count := 0
	for _, t := range tasks {
		if t.ListID == listID && !t.Completed {
			count++
		}
	}
	return count
}
