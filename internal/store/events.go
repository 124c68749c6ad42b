package store

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// Event is a state transition request. The set of events is closed: only
// types in this package implement it.
type Event interface {
	isEvent()
}

// Remote fetch.
type (
	FetchTodosStart   struct{}
	FetchTodosSuccess struct{ Todos []model.Todo }
	FetchTodosError   struct{ Message string }
)

// Remote create. TempID names the optimistic entry.
type (
	CreateTodoStart   struct{ Todo model.Todo }
	CreateTodoSuccess struct {
		Todo   model.Todo
		TempID model.ID
	}
	CreateTodoError struct {
		Message string
		TempID  model.ID
	}
)

// Remote update. The error carries the attempted patch so it can still be
// applied locally.
type (
	UpdateTodoStart struct {
		ID    model.ID
		Patch model.Patch
	}
	UpdateTodoSuccess struct{ Todo model.Todo }
	UpdateTodoError   struct {
		Message string
		ID      model.ID
		Patch   model.Patch
	}
)

// Remote delete.
type (
	DeleteTodoStart   struct{ ID model.ID }
	DeleteTodoSuccess struct{ ID model.ID }
	DeleteTodoError   struct {
		Message string
		ID      model.ID
	}
)

type (
	ClearError  struct{}
	ToggleTheme struct{}
)

// Local edits that never reach the server.
type (
	AddItem struct {
		ID    model.ID
		Title string
	}
	UpdateItem struct {
		ID    model.ID
		Title string
	}
	ToggleItem           struct{ ID model.ID }
	RemoveItem           struct{ ID model.ID }
	RemoveAllItems       struct{}
	RemoveCompletedItems struct{}
	ToggleAll            struct{ Completed bool }
)

// NewAddItem builds an AddItem with a fresh local id.
func NewAddItem(title string) AddItem {
	return AddItem{ID: model.NewLocalID(), Title: title}
}

func (FetchTodosStart) isEvent()      {}
func (FetchTodosSuccess) isEvent()    {}
func (FetchTodosError) isEvent()      {}
func (CreateTodoStart) isEvent()      {}
func (CreateTodoSuccess) isEvent()    {}
func (CreateTodoError) isEvent()      {}
func (UpdateTodoStart) isEvent()      {}
func (UpdateTodoSuccess) isEvent()    {}
func (UpdateTodoError) isEvent()      {}
func (DeleteTodoStart) isEvent()      {}
func (DeleteTodoSuccess) isEvent()    {}
func (DeleteTodoError) isEvent()      {}
func (ClearError) isEvent()           {}
func (ToggleTheme) isEvent()          {}
func (AddItem) isEvent()              {}
func (UpdateItem) isEvent()           {}
func (ToggleItem) isEvent()           {}
func (RemoveItem) isEvent()           {}
func (RemoveAllItems) isEvent()       {}
func (RemoveCompletedItems) isEvent() {}
func (ToggleAll) isEvent()            {}

// Kind returns the bare type name of ev, e.g. "CreateTodoStart".
func Kind(ev Event) string {
	name := fmt.Sprintf("%T", ev)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
