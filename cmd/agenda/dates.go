package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/amonks/agenda/task"
)

// parseDateInput turns a --date value into a day in now's location.
// Accepted forms are today/oggi, tomorrow/domani and YYYY-MM-DD.
func parseDateInput(value string, now time.Time) (time.Time, error) {
	today := task.Day(now)
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today", "oggi":
		return today, nil
	case "tomorrow", "domani":
		return today.AddDate(0, 0, 1), nil
	}

	parsed, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use today, tomorrow or YYYY-MM-DD", value)
	}
	return parsed, nil
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
