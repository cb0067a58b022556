package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// PostgresTodoStore implements the store.TodoStore interface
// using a PostgreSQL database as the storage backend.
//
// Owner scoping lives in the SQL itself: every statement matches on
// both id and user_id, so a todo owned by someone else produces the
// same zero-row result as a todo that does not exist.
type PostgresTodoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTodoStore creates a new PostgreSQL implementation of the
// TodoStore interface.
func NewPostgresTodoStore(db store.DBTX, log *slog.Logger) *PostgresTodoStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTodoStore{
		db:     db,
		logger: log.With(slog.String("component", "todo_store")),
	}
}

var _ store.TodoStore = (*PostgresTodoStore)(nil)

// Create implements store.TodoStore.Create
func (s *PostgresTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during create",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	query := `
		INSERT INTO todos (id, user_id, text, completed, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		todo.ID,
		todo.UserID,
		todo.Text,
		todo.Completed,
		todo.CompletedAt,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()),
			slog.String("user_id", todo.UserID.String()))
		return MapError(err)
	}

	log.Info("todo created",
		slog.String("todo_id", todo.ID.String()),
		slog.String("user_id", todo.UserID.String()))
	return nil
}

// ListByOwner implements store.TodoStore.ListByOwner
// Results come back in insertion order.
func (s *PostgresTodoStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, text, completed, completed_at, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list todos",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	todos := make([]*domain.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows.Scan)
		if err != nil {
			log.Error("failed to scan todo row",
				slog.String("error", err.Error()),
				slog.String("user_id", ownerID.String()))
			return nil, MapError(err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return todos, nil
}

// GetByID implements store.TodoStore.GetByID
// Returns store.ErrTodoNotFound if no todo with this ID is owned by ownerID.
func (s *PostgresTodoStore) GetByID(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, text, completed, completed_at, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`

	todo, err := scanTodo(func(dest ...any) error {
		return s.db.QueryRowContext(ctx, query, id, ownerID).Scan(dest...)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("todo not found",
				slog.String("todo_id", id.String()),
				slog.String("user_id", ownerID.String()))
			return nil, store.ErrTodoNotFound
		}
		log.Error("failed to get todo by ID",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, MapError(err)
	}

	return todo, nil
}

// Update implements store.TodoStore.Update
// Only text and the completion pair are written; owner and timestamps
// of creation are immutable.
func (s *PostgresTodoStore) Update(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during update",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	todo.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE todos
		SET text = $1, completed = $2, completed_at = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		todo.Text,
		todo.Completed,
		todo.CompletedAt,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	)
	if err != nil {
		log.Error("failed to update todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "todo"); err != nil {
		log.Debug("todo not found for update",
			slog.String("todo_id", todo.ID.String()),
			slog.String("user_id", todo.UserID.String()))
		return store.ErrTodoNotFound
	}

	log.Info("todo updated",
		slog.String("todo_id", todo.ID.String()),
		slog.Bool("completed", todo.Completed))
	return nil
}

// Delete implements store.TodoStore.Delete
// Uses RETURNING so the handler can echo the deleted record back.
func (s *PostgresTodoStore) Delete(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, text, completed, completed_at, created_at, updated_at
	`

	todo, err := scanTodo(func(dest ...any) error {
		return s.db.QueryRowContext(ctx, query, id, ownerID).Scan(dest...)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("todo not found for delete",
				slog.String("todo_id", id.String()),
				slog.String("user_id", ownerID.String()))
			return nil, store.ErrTodoNotFound
		}
		log.Error("failed to delete todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("todo deleted",
		slog.String("todo_id", id.String()),
		slog.String("user_id", ownerID.String()))
	return todo, nil
}

// WithTx implements store.TodoStore.WithTx
func (s *PostgresTodoStore) WithTx(tx *sql.Tx) store.TodoStore {
	return &PostgresTodoStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanTodo maps one row onto a domain.Todo. The completed_at column is
// nullable and scans through sql.NullTime.
func scanTodo(scan func(dest ...any) error) (*domain.Todo, error) {
	var todo domain.Todo
	var completedAt sql.NullTime

	err := scan(
		&todo.ID,
		&todo.UserID,
		&todo.Text,
		&todo.Completed,
		&completedAt,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		t := completedAt.Time
		todo.CompletedAt = &t
	}

	return &todo, nil
}
