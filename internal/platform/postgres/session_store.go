package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
func NewPostgresSessionStore(db store.DBTX, log *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: log.With(slog.String("component", "session_store")),
	}
}

var _ store.SessionStore = (*PostgresSessionStore)(nil)

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.Session) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()))
		return err
	}

	query := `
		INSERT INTO sessions (id, user_id, scope, token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.Scope,
		session.Token,
		session.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("user_id", session.UserID.String()))
		return MapError(err)
	}

	log.Debug("session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()))
	return nil
}

// Exists implements store.SessionStore.Exists
// The token string is matched exactly; this is the per-request
// revocation check performed by the auth gate.
func (s *PostgresSessionStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	token, scope string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE user_id = $1 AND token = $2 AND scope = $3
		)
	`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, userID, token, scope).Scan(&exists)
	if err != nil {
		log.Error("failed to check session existence",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, MapError(err)
	}

	return exists, nil
}

// Delete implements store.SessionStore.Delete
// Returns store.ErrSessionNotFound if no matching session exists.
func (s *PostgresSessionStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM sessions
		WHERE user_id = $1 AND token = $2
	`

	result, err := s.db.ExecContext(ctx, query, userID, token)
	if err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "session"); err != nil {
		log.Debug("session already absent",
			slog.String("user_id", userID.String()))
		return store.ErrSessionNotFound
	}

	log.Debug("session deleted",
		slog.String("user_id", userID.String()))
	return nil
}

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}
