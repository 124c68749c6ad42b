// Package store holds the application state and the reducer that moves it
// between versions in response to events.
package store

import "github.com/Makepad-fr/tada/internal/model"

// Op names the kind of remote operation a failure belongs to.
type Op string

const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// OpFailure is the outcome of a failed operation on a single todo.
type OpFailure struct {
	Op      Op
	Message string
}

// IDSet is an immutable set of ids. Methods that change membership return
// a new set and leave the receiver untouched.
type IDSet map[model.ID]struct{}

// Has reports membership. A nil set is empty.
func (s IDSet) Has(id model.ID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) with(id model.ID) IDSet {
	out := make(IDSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	out[id] = struct{}{}
	return out
}

func (s IDSet) without(id model.ID) IDSet {
	if !s.Has(id) {
		return s
	}
	if len(s) == 1 {
		return nil
	}
	out := make(IDSet, len(s)-1)
	for k := range s {
		if k != id {
			out[k] = struct{}{}
		}
	}
	return out
}

// State is the whole application state. Values are treated as immutable:
// the reducer copies slices and maps before changing them, so a State
// returned by Snapshot may be read freely but must not be modified.
type State struct {
	Todos    []model.Todo
	Theme    model.Theme
	Loading  bool
	Creating IDSet // temp ids of creations in flight
	Updating IDSet
	Deleting IDSet
	Failures map[model.ID]OpFailure
	Error    string // last surfaced error, "" when none
}

// Initial returns the state the application starts with.
func Initial() State {
	return State{Theme: model.ThemeLight}
}

// IsCreating reports whether any creation is in flight.
func (s State) IsCreating() bool { return len(s.Creating) > 0 }

// IsUpdating reports whether an update of id is in flight.
func (s State) IsUpdating(id model.ID) bool { return s.Updating.Has(id) }

// IsDeleting reports whether a delete of id is in flight.
func (s State) IsDeleting(id model.ID) bool { return s.Deleting.Has(id) }

// IsPending reports whether any operation on id is in flight.
func (s State) IsPending(id model.ID) bool {
	return s.Creating.Has(id) || s.Updating.Has(id) || s.Deleting.Has(id)
}

// Failure returns the last failure recorded for id.
func (s State) Failure(id model.ID) (OpFailure, bool) {
	f, ok := s.Failures[id]
	return f, ok
}

// Find returns the todo with the given id.
func (s State) Find(id model.ID) (model.Todo, bool) {
	for _, t := range s.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}
