// Package actions bridges user intent to the remote todo service and the
// store. Every operation dispatches a start event before it returns, runs
// the network call on its own goroutine and dispatches exactly one success
// or error event when the call settles.
package actions

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

// Dispatch delivers an event to the reducer, usually Store.Dispatch.
type Dispatch func(store.Event)

// Creators runs operations against a Service and reports their progress
// through a Dispatch.
type Creators struct {
	api       api.Service
	dispatch  Dispatch
	userID    int
	newTempID func() model.ID
	logger    *log.Logger
}

// Option configures Creators.
type Option func(*Creators)

// WithUserID sets the owner of created todos.
func WithUserID(id int) Option {
	return func(c *Creators) { c.userID = id }
}

// WithTempIDs replaces the temporary id generator.
func WithTempIDs(fn func() model.ID) Option {
	return func(c *Creators) { c.newTempID = fn }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Creators) { c.logger = l }
}

// New binds svc to dispatch.
func New(svc api.Service, dispatch Dispatch, opts ...Option) *Creators {
	c := &Creators{
		api:       svc,
		dispatch:  dispatch,
		userID:    model.DefaultUserID,
		newTempID: model.NewTempID,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTodos reloads the collection. The returned channel is closed once the
// outcome has been dispatched.
func (c *Creators) FetchTodos(ctx context.Context) <-chan struct{} {
	c.dispatch(store.FetchTodosStart{})
	return c.run(func() {
		todos, err := c.api.FetchAll(ctx)
		if err != nil {
			c.logger.Warn("fetch todos", "err", err)
			c.dispatch(store.FetchTodosError{Message: err.Error()})
			return
		}
		c.dispatch(store.FetchTodosSuccess{Todos: todos})
	})
}

// CreateTodo appends an optimistic todo under a temporary id and replaces it
// with the server's todo, or retracts it on failure.
func (c *Creators) CreateTodo(ctx context.Context, title string) <-chan struct{} {
	tempID := c.newTempID()
	optimistic := model.Todo{ID: tempID, Title: title, Completed: false, UserID: c.userID}
	c.dispatch(store.CreateTodoStart{Todo: optimistic})

	completed, userID := false, c.userID
	fields := model.Patch{Title: &title, Completed: &completed, UserID: &userID}
	return c.run(func() {
		todo, err := c.api.Create(ctx, fields)
		if err != nil {
			c.logger.Warn("create todo", "temp_id", tempID, "err", err)
			c.dispatch(store.CreateTodoError{Message: err.Error(), TempID: tempID})
			return
		}
		c.dispatch(store.CreateTodoSuccess{Todo: todo, TempID: tempID})
	})
}

// UpdateTodo sends patch for id. On failure the patch is still applied
// locally and the error is reported.
func (c *Creators) UpdateTodo(ctx context.Context, id model.ID, patch model.Patch) <-chan struct{} {
	c.dispatch(store.UpdateTodoStart{ID: id, Patch: patch})
	return c.run(func() {
		todo, err := c.api.Update(ctx, id, patch)
		if err != nil {
			c.logger.Warn("update todo", "id", id, "err", err)
			c.dispatch(store.UpdateTodoError{Message: err.Error(), ID: id, Patch: patch})
			return
		}
		c.dispatch(store.UpdateTodoSuccess{Todo: todo})
	})
}

// DeleteTodo removes id once the server confirms. A failed delete leaves the
// todo in place.
func (c *Creators) DeleteTodo(ctx context.Context, id model.ID) <-chan struct{} {
	c.dispatch(store.DeleteTodoStart{ID: id})
	return c.run(func() {
		if err := c.api.Delete(ctx, id); err != nil {
			c.logger.Warn("delete todo", "id", id, "err", err)
			c.dispatch(store.DeleteTodoError{Message: err.Error(), ID: id})
			return
		}
		c.dispatch(store.DeleteTodoSuccess{ID: id})
	})
}

// ClearError dismisses the surfaced error.
func (c *Creators) ClearError() {
	c.dispatch(store.ClearError{})
}

func (c *Creators) run(fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	return done
}
