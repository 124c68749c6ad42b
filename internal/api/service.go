// Package api talks to the remote todo collection.
package api

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// Service is the remote todo collection as seen by the action creators.
type Service interface {
	FetchAll(ctx context.Context) ([]model.Todo, error)
	Create(ctx context.Context, fields model.Patch) (model.Todo, error)
	Update(ctx context.Context, id model.ID, fields model.Patch) (model.Todo, error)
	Delete(ctx context.Context, id model.ID) error
}

// Failures reported for a non-success response. The text is shown to users
// as is.
var (
	ErrFetch  = errors.New("Failed to fetch todos")
	ErrCreate = errors.New("Failed to create todo")
	ErrUpdate = errors.New("Failed to update todo")
	ErrDelete = errors.New("Failed to delete todo")
)
