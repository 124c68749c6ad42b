package store

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// Filter selects which todos a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps a route ("/", "/active", "/completed") or a bare filter
// name to a Filter.
func ParseFilter(route string) (Filter, error) {
	switch strings.Trim(strings.ToLower(strings.TrimSpace(route)), "/") {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, active or completed)", route)
}

// Keep reports whether t is visible under f.
func (f Filter) Keep(t model.Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// Visible returns the todos kept by f, in order. todos is not modified.
func Visible(todos []model.Todo, f Filter) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if f.Keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns how many todos are done and how many are pending.
func Counts(todos []model.Todo) (done, pending int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}
