package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// SessionStore defines the interface for session (active token) persistence.
type SessionStore interface {
	// Create saves a new session to the store.
	Create(ctx context.Context, session *domain.Session) error

	// Exists reports whether the exact token string is an active session
	// for the given user under the given scope. This is the revocation
	// check: a token whose row has been deleted is no longer accepted
	// even though its signature still verifies.
	Exists(ctx context.Context, userID uuid.UUID, token, scope string) (bool, error)

	// Delete removes the session matching the exact token string for the
	// given user. Returns ErrSessionNotFound if no such session exists.
	Delete(ctx context.Context, userID uuid.UUID, token string) error

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) SessionStore
}
