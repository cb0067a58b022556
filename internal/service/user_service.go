package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// UserService provides registration, login, and logout.
type UserService interface {
	// Register creates a new user from the given credentials and opens
	// an initial session. Returns the user and the session token.
	// Returns store.ErrEmailExists if the email is already taken, or a
	// domain validation error for malformed input.
	Register(ctx context.Context, email, password string) (*domain.User, string, error)

	// Login authenticates the given credentials and opens a new session.
	// Returns ErrInvalidCredentials for both unknown email and wrong
	// password.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Logout revokes the exact session token for the user. Revoking an
	// already-absent token is a no-op.
	Logout(ctx context.Context, userID uuid.UUID, token string) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	db       *sql.DB
	users    store.UserStore
	sessions store.SessionStore
	tokens   auth.TokenService
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger

	// Injectable for testing; defaults to store.RunInTransaction.
	runInTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewUserService creates a new UserService.
func NewUserService(
	db *sql.DB,
	users store.UserStore,
	sessions store.SessionStore,
	tokens auth.TokenService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) *UserServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		db:       db,
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		verifier: verifier,
		logger:   log.With("component", "user_service"),
		runInTx:  store.RunInTransaction,
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register creates the user and their first session atomically.
// Hashing happens here, explicitly, before anything touches the store.
func (s *UserServiceImpl) Register(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		s.logger.Debug("registration rejected by validation", "error", err)
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err, "user_id", user.ID)
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	token, err := s.tokens.Issue(ctx, user.ID, domain.ScopeAuth)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	session, err := domain.NewSession(user.ID, token)
	if err != nil {
		return nil, "", err
	}

	err = s.runInTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.sessions.WithTx(tx).Create(ctx, session)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register existing email")
		} else {
			s.logger.Error("failed to register user", "error", err, "user_id", user.ID)
		}
		return nil, "", err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, token, nil
}

// Login verifies credentials and appends a new session. Multiple
// concurrent sessions per user are permitted.
func (s *UserServiceImpl) Login(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	// Registration stored the normalized form; look up the same way so
	// mixed-case input round-trips.
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login with unknown email")
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login with wrong password", "user_id", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.ID, domain.ScopeAuth)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	session, err := domain.NewSession(user.ID, token)
	if err != nil {
		return nil, "", err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Error("failed to create session", "error", err, "user_id", user.ID)
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout deletes the session row for the exact token. A missing row is
// treated as success so repeated logouts are idempotent.
func (s *UserServiceImpl) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	err := s.sessions.Delete(ctx, userID, token)
	if err != nil && !errors.Is(err, store.ErrSessionNotFound) {
		s.logger.Error("failed to delete session", "error", err, "user_id", userID)
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("user logged out", "user_id", userID)
	return nil
}
