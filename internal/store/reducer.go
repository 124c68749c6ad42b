package store

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// Reduce returns the state that follows s after ev. It is pure: s is never
// modified and the result depends only on its arguments.
//
// An event type Reduce does not handle (including a nil event) is a wiring
// bug, and Reduce panics rather than return s unchanged.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case FetchTodosStart:
		s.Loading = true
		s.Error = ""
	case FetchTodosSuccess:
		s.Todos = e.Todos
		s.Loading = false
		s.Error = ""
	case FetchTodosError:
		s.Loading = false
		s.Error = e.Message

	case CreateTodoStart:
		s.Todos = appendTodo(s.Todos, e.Todo)
		s.Creating = s.Creating.with(e.Todo.ID)
		s.Error = ""
	case CreateTodoSuccess:
		s.Todos = mapTodo(s.Todos, e.TempID, func(model.Todo) model.Todo { return e.Todo })
		s.Creating = s.Creating.without(e.TempID)
	case CreateTodoError:
		s.Todos = removeTodos(s.Todos, func(t model.Todo) bool { return t.ID == e.TempID })
		s.Creating = s.Creating.without(e.TempID)
		s.Error = e.Message

	case UpdateTodoStart:
		s.Updating = s.Updating.with(e.ID)
		s.Failures = withoutFailure(s.Failures, e.ID)
	case UpdateTodoSuccess:
		s.Todos = mapTodo(s.Todos, e.Todo.ID, func(model.Todo) model.Todo { return e.Todo })
		s.Updating = s.Updating.without(e.Todo.ID)
	case UpdateTodoError:
		s.Todos = mapTodo(s.Todos, e.ID, e.Patch.Apply)
		s.Updating = s.Updating.without(e.ID)
		s.Failures = withFailure(s.Failures, e.ID, OpFailure{Op: OpUpdate, Message: e.Message})
		s.Error = e.Message

	case DeleteTodoStart:
		s.Deleting = s.Deleting.with(e.ID)
		s.Failures = withoutFailure(s.Failures, e.ID)
	case DeleteTodoSuccess:
		s.Todos = removeTodos(s.Todos, func(t model.Todo) bool { return t.ID == e.ID })
		s.Deleting = s.Deleting.without(e.ID)
		s.Failures = withoutFailure(s.Failures, e.ID)
	case DeleteTodoError:
		s.Deleting = s.Deleting.without(e.ID)
		s.Failures = withFailure(s.Failures, e.ID, OpFailure{Op: OpDelete, Message: e.Message})
		s.Error = e.Message

	case ClearError:
		s.Error = ""
		s.Failures = nil
	case ToggleTheme:
		s.Theme = s.Theme.Toggle()

	case AddItem:
		s.Todos = appendTodo(s.Todos, model.Todo{ID: e.ID, Title: e.Title})
	case UpdateItem:
		s.Todos = mapTodo(s.Todos, e.ID, func(t model.Todo) model.Todo {
			t.Title = e.Title
			return t
		})
	case ToggleItem:
		s.Todos = mapTodo(s.Todos, e.ID, func(t model.Todo) model.Todo {
			t.Completed = !t.Completed
			return t
		})
	case RemoveItem:
		s.Todos = removeTodos(s.Todos, func(t model.Todo) bool { return t.ID == e.ID })
	case RemoveAllItems:
		s.Todos = nil
	case RemoveCompletedItems:
		s.Todos = removeTodos(s.Todos, func(t model.Todo) bool { return t.Completed })
	case ToggleAll:
		next := make([]model.Todo, len(s.Todos))
		for i, t := range s.Todos {
			t.Completed = e.Completed
			next[i] = t
		}
		s.Todos = next

	default:
		panic(fmt.Sprintf("store: unknown event %T", ev))
	}
	return s
}

func appendTodo(todos []model.Todo, t model.Todo) []model.Todo {
	out := make([]model.Todo, 0, len(todos)+1)
	out = append(out, todos...)
	return append(out, t)
}

// mapTodo replaces, in place, every entry whose id is id with fn(entry).
func mapTodo(todos []model.Todo, id model.ID, fn func(model.Todo) model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i, t := range todos {
		if t.ID == id {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}

func removeTodos(todos []model.Todo, drop func(model.Todo) bool) []model.Todo {
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if !drop(t) {
			out = append(out, t)
		}
	}
	return out
}

func withFailure(m map[model.ID]OpFailure, id model.ID, f OpFailure) map[model.ID]OpFailure {
	out := make(map[model.ID]OpFailure, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[id] = f
	return out
}

func withoutFailure(m map[model.ID]OpFailure, id model.ID) map[model.ID]OpFailure {
	if _, ok := m[id]; !ok {
		return m
	}
	if len(m) == 1 {
		return nil
	}
	out := make(map[model.ID]OpFailure, len(m)-1)
	for k, v := range m {
		if k != id {
			out[k] = v
		}
	}
	return out
}
