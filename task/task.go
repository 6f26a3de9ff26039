// Package task implements the store of dated tasks.
//
// Tasks belong to a list by ID, carry a calendar day plus zero, one or two
// hourly slots, and are persisted as a JSON array under the "tasks" key.
package task

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Task is a dated, optionally timed, item belonging to a list.
type Task struct {
	// ID is an 8-char lowercase base32 identifier.
	ID string `json:"id"`

	// Description is the trimmed task text.
	Description string `json:"description"`

	// Date is the task's day, normalized to local midnight.
	Date time.Time `json:"date"`

	// Hours holds 0 (all day), 1 (a point in time) or 2 (a range) slot
	// labels like "14:00", in chronological order.
	Hours []string `json:"hours"`

	// ListID references the owning list.
	ListID string `json:"listId"`

	// Completed reports whether the task is done.
	Completed bool `json:"completed"`
}

// MaxHours is the largest number of hour slots a task can carry.
const MaxHours = 2

var (
	// ErrEmptyDescription is returned when a task description is empty.
	ErrEmptyDescription = errors.New("description cannot be empty")

	// ErrEmptyListID is returned when a task has no list.
	ErrEmptyListID = errors.New("list cannot be empty")

	// ErrMissingDate is returned when a task has no date.
	ErrMissingDate = errors.New("date is required")

	// ErrTooManyHours is returned when more than MaxHours slots are given.
	ErrTooManyHours = errors.New("at most 2 hours can be selected")

	// ErrInvalidHour is returned for labels that are not an hourly slot.
	ErrInvalidHour = errors.New("invalid hour")

	// ErrDuplicateHour is returned when the same slot is given twice.
	ErrDuplicateHour = errors.New("duplicate hour")

	// ErrTaskNotFound is returned when no task matches an ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTaskIDPrefix is returned when an ID prefix matches several tasks.
	ErrAmbiguousTaskIDPrefix = errors.New("ambiguous task ID prefix")
)

// HourSlots returns the 24 hourly slot labels "00:00" through "23:00".
func HourSlots() []string {
	slots := make([]string, 24)
	for hour := range slots {
		slots[hour] = fmt.Sprintf("%02d:00", hour)
	}
	return slots
}

// ParseHour returns the hour of day for a slot label like "09:00".
func ParseHour(label string) (int, error) {
	if len(label) != 5 || label[2] != ':' || label[3:] != "00" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, label)
	}
	hour, err := strconv.Atoi(label[:2])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, label)
	}
	return hour, nil
}

// ValidateHours checks a slot selection and returns it sorted chronologically.
func ValidateHours(hours []string) ([]string, error) {
	if len(hours) > MaxHours {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyHours, len(hours))
	}

	sorted := make([]string, 0, len(hours))
	seen := make(map[string]bool, len(hours))
	for _, label := range hours {
		if _, err := ParseHour(label); err != nil {
			return nil, err
		}
		if seen[label] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateHour, label)
		}
		seen[label] = true
		sorted = append(sorted, label)
	}
	sort.Strings(sorted)
	return sorted, nil
}

// Day strips the time of day from t, keeping its location.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// TimeRange renders the task's hours: "" for all-day tasks, "09:00" for a
// single slot and "09:00 - 11:00" for a range.
func (t Task) TimeRange() string {
	switch len(t.Hours) {
	case 0:
		return ""
	case 1:
		return t.Hours[0]
	default:
		return t.Hours[0] + " - " + t.Hours[len(t.Hours)-1]
	}
}

// Clone returns a copy of t that shares no slices with it.
func (t Task) Clone() Task {
	if t.Hours != nil {
		t.Hours = append([]string(nil), t.Hours...)
	}
	return t
}
