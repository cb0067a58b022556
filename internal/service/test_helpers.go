package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// NewTestUserService creates a user service whose transaction runner
// invokes the work function directly, so tests can run against
// in-memory store fakes without a database. Fake stores should return
// themselves from WithTx.
func NewTestUserService(
	users store.UserStore,
	sessions store.SessionStore,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) *UserServiceImpl {
	svc := NewUserService(nil, users, sessions, tokens, hasher, verifier, log)
	svc.runInTx = func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
		return fn(ctx, nil)
	}
	return svc
}
