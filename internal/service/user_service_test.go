package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory store fakes. WithTx returns the fake itself; the service's
// transaction runner is overridden to call the function directly.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionStore) Create(ctx context.Context, session *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.Token] = &copied
	return nil
}

func (f *fakeSessionStore) Exists(
	ctx context.Context,
	userID uuid.UUID,
	token, scope string,
) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[token]
	return ok && session.UserID == userID && session.Scope == scope, nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[token]
	if !ok || session.UserID != userID {
		return store.ErrSessionNotFound
	}
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return f }

func newTestUserService(t *testing.T) (*UserServiceImpl, *fakeUserStore, *fakeSessionStore) {
	t.Helper()

	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	tokens := auth.NewTestTokenService("test-secret-that-is-long-enough-for-testing", nil)

	svc := NewUserService(nil, users, sessions, tokens,
		auth.NewBcryptHasher(), auth.NewBcryptVerifier(), nil)
	svc.runInTx = func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
		return fn(ctx, nil)
	}

	return svc, users, sessions
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	svc, _, sessions := newTestUserService(t)
	ctx := context.Background()

	registered, registerToken, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, registerToken)

	// The plaintext never survives registration.
	assert.Empty(t, registered.Password)
	assert.NotEmpty(t, registered.HashedPassword)
	assert.NotEqual(t, "secret1", registered.HashedPassword)

	// Registration opens a session for the issued token.
	active, err := sessions.Exists(ctx, registered.ID, registerToken, domain.ScopeAuth)
	require.NoError(t, err)
	assert.True(t, active)

	loggedIn, loginToken, err := svc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)

	// Concurrent sessions: the register token stays valid after login.
	active, err = sessions.Exists(ctx, registered.ID, registerToken, domain.ScopeAuth)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestLoginNormalizesEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Mixed@Example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "mixed@example.com", registered.Email)

	// Login applies the same normalization as registration, so the
	// caller's original casing round-trips.
	loggedIn, _, err := svc.Login(ctx, "Mixed@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)

	loggedIn, _, err = svc.Login(ctx, "  MIXED@EXAMPLE.COM  ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, loggedIn.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "a@x.com", "different1")
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, _, err = svc.Register(ctx, "a@x.com", "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestLoginFailsUniformly(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	// Unknown email and wrong password are indistinguishable.
	_, _, unknownErr := svc.Login(ctx, "b@x.com", "secret1")
	_, _, wrongErr := svc.Login(ctx, "a@x.com", "wrong-password")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLogout(t *testing.T) {
	t.Parallel()

	svc, _, sessions := newTestUserService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID, token))

	active, err := sessions.Exists(ctx, user.ID, token, domain.ScopeAuth)
	require.NoError(t, err)
	assert.False(t, active)

	// Logging out an already-revoked token is a no-op.
	assert.NoError(t, svc.Logout(ctx, user.ID, token))
}
