// Package list implements the store of named task lists.
//
// Lists are kept in insertion order and persisted as a JSON array of
// {value, label} objects under the "lists" key. The public API mirrors the
// CLI commands: Create, Delete, Get, Lists, Resolve and Search.
package list

import "errors"

// List is a named bucket of tasks.
type List struct {
	// ID is an 8-char lowercase base32 identifier derived from the label and
	// the creation time.
	ID string `json:"value"`

	// Label is the display name. It may contain emoji.
	Label string `json:"label"`
}

var (
	// ErrEmptyLabel is returned when a list label is empty after trimming.
	ErrEmptyLabel = errors.New("list label cannot be empty")

	// ErrListNotFound is returned when no list matches an ID or label.
	ErrListNotFound = errors.New("list not found")

	// ErrAmbiguousListRef is returned when a reference matches several lists.
	ErrAmbiguousListRef = errors.New("ambiguous list reference")
)
