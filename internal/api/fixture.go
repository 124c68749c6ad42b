package api

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

// Fixture is an in-memory Service seeded from a JSON file or a slice. It is
// used for demos (-fixture) and tests. Changes are never written back.
type Fixture struct {
	mu     sync.Mutex
	todos  []model.Todo
	nextID int
	limit  int

	// Delay is slept (honouring ctx) before every call so optimistic
	// states stay visible.
	Delay time.Duration
	// Fail, when set, is consulted before every call; a non-nil result is
	// returned instead of performing it. op is "fetch", "create", "update"
	// or "delete".
	Fail func(op string, id model.ID) error
}

var _ Service = (*Fixture)(nil)

// NewFixture returns a fixture holding a copy of todos.
func NewFixture(todos []model.Todo) *Fixture {
	f := &Fixture{todos: append([]model.Todo(nil), todos...), limit: DefaultLimit}
	for _, t := range todos {
		if n, ok := t.ID.Int(); ok && n > f.nextID {
			f.nextID = n
		}
	}
	f.nextID++
	return f
}

// LoadFixture reads a JSON array of todos from path.
func LoadFixture(path string) (*Fixture, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var todos []model.Todo
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return NewFixture(todos), nil
}

// SetLimit changes the fetch cap; 0 keeps everything.
func (f *Fixture) SetLimit(n int) {
	f.mu.Lock()
	f.limit = n
	f.mu.Unlock()
}

func (f *Fixture) wait(ctx context.Context, op string, id model.ID) error {
	if f.Delay > 0 {
		timer := time.NewTimer(f.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if f.Fail != nil {
		return f.Fail(op, id)
	}
	return nil
}

func (f *Fixture) FetchAll(ctx context.Context) ([]model.Todo, error) {
	if err := f.wait(ctx, "fetch", model.ID{}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]model.Todo(nil), f.todos...)
	if f.limit > 0 && len(out) > f.limit {
		out = out[:f.limit]
	}
	return out, nil
}

func (f *Fixture) Create(ctx context.Context, fields model.Patch) (model.Todo, error) {
	if err := f.wait(ctx, "create", model.ID{}); err != nil {
		return model.Todo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	todo := fields.Apply(model.Todo{ID: model.PermanentID(f.nextID)})
	f.nextID++
	f.todos = append(f.todos, todo)
	return todo, nil
}

func (f *Fixture) Update(ctx context.Context, id model.ID, fields model.Patch) (model.Todo, error) {
	if err := f.wait(ctx, "update", id); err != nil {
		return model.Todo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == id {
			f.todos[i] = fields.Apply(t)
			return f.todos[i], nil
		}
	}
	return model.Todo{}, ErrUpdate
}

func (f *Fixture) Delete(ctx context.Context, id model.ID) error {
	if err := f.wait(ctx, "delete", id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.todos {
		if t.ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return nil
		}
	}
	return ErrDelete
}
