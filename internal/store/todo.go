package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// TodoStore defines the interface for todo data persistence.
//
// Every read and mutation is scoped by owner: a todo belonging to a
// different user is reported as ErrTodoNotFound, never as a distinct
// "forbidden" condition.
type TodoStore interface {
	// Create saves a new todo to the store.
	// Returns validation errors from the domain Todo if data is invalid.
	Create(ctx context.Context, todo *domain.Todo) error

	// ListByOwner retrieves all todos owned by the given user in
	// insertion order. Returns an empty slice if the user has none.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Todo, error)

	// GetByID retrieves the todo with the given ID if it is owned by
	// ownerID. Returns ErrTodoNotFound otherwise.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error)

	// Update saves changes to an existing todo, matching on both ID and
	// owner. Only text and the completion pair are written.
	// Returns ErrTodoNotFound if no owned todo matches.
	Update(ctx context.Context, todo *domain.Todo) error

	// Delete removes the todo with the given ID if it is owned by
	// ownerID and returns the deleted record.
	// Returns ErrTodoNotFound if no owned todo matches.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error)

	// WithTx returns a new TodoStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) TodoStore
}
