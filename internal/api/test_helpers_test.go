package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/require"
)

// In-memory store fakes shared by the handler tests. They reproduce the
// contracts the postgres stores implement, most importantly the owner
// scoping of todo lookups.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
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

type fakeTodoStore struct {
	mu    sync.Mutex
	todos []*domain.Todo // Insertion order, like the real store's listing.
}

func (f *fakeTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	if err := todo.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *todo
	f.todos = append(f.todos, &copied)
	return nil
}

func (f *fakeTodoStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.Todo, 0)
	for _, todo := range f.todos {
		if todo.UserID == ownerID {
			copied := *todo
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeTodoStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, todo := range f.todos {
		if todo.ID == id && todo.UserID == ownerID {
			copied := *todo
			return &copied, nil
		}
	}
	return nil, store.ErrTodoNotFound
}

func (f *fakeTodoStore) Update(ctx context.Context, updated *domain.Todo) error {
	if err := updated.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, todo := range f.todos {
		if todo.ID == updated.ID && todo.UserID == updated.UserID {
			copied := *updated
			copied.UpdatedAt = time.Now().UTC()
			f.todos[i] = &copied
			return nil
		}
	}
	return store.ErrTodoNotFound
}

func (f *fakeTodoStore) Delete(ctx context.Context, id, ownerID uuid.UUID) (*domain.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, todo := range f.todos {
		if todo.ID == id && todo.UserID == ownerID {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			return todo, nil
		}
	}
	return nil, store.ErrTodoNotFound
}

func (f *fakeTodoStore) WithTx(tx *sql.Tx) store.TodoStore { return f }

// apiFixture wires real handlers, the real auth gate, and the real user
// service over the in-memory fakes, exposed through the same routes the
// server registers.
type apiFixture struct {
	router   http.Handler
	users    *fakeUserStore
	sessions *fakeSessionStore
	todos    *fakeTodoStore
	tokens   auth.TokenService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	tokens := auth.NewTestTokenService("test-secret-that-is-long-enough-for-testing", nil)
	users := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	sessions := &fakeSessionStore{sessions: make(map[string]*domain.Session)}
	todos := &fakeTodoStore{}

	userService := service.NewTestUserService(users, sessions, tokens,
		auth.NewBcryptHasher(), auth.NewBcryptVerifier(), nil)

	authHandler := NewAuthHandler(userService)
	todoHandler := NewTodoHandler(todos)
	authMiddleware := middleware.NewAuthMiddleware(tokens, users, sessions)

	r := chi.NewRouter()
	r.Post("/users", authHandler.Register)
	r.Post("/users/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/users/me", authHandler.Me)
		r.Delete("/users/me/token", authHandler.Logout)
		r.Post("/todos", todoHandler.Create)
		r.Get("/todos", todoHandler.List)
		r.Get("/todos/{id}", todoHandler.Get)
		r.Patch("/todos/{id}", todoHandler.Update)
		r.Delete("/todos/{id}", todoHandler.Delete)
	})

	return &apiFixture{
		router:   r,
		users:    users,
		sessions: sessions,
		todos:    todos,
		tokens:   tokens,
	}
}

// do performs a request against the fixture's router. A non-nil body is
// JSON-encoded; a non-empty token goes into the x-auth header.
func (f *apiFixture) do(
	t *testing.T,
	method, path, token string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(middleware.AuthHeader, token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns the response body
// and session token.
func (f *apiFixture) register(t *testing.T, email, password string) (UserResponse, string) {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/users", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, "register failed: %s", rec.Body.String())

	token := rec.Header().Get(middleware.AuthHeader)
	require.NotEmpty(t, token)

	var user UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user, token
}

// createTodo creates a todo through the API for the given session.
func (f *apiFixture) createTodo(t *testing.T, token, text string) domain.Todo {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/todos", token, map[string]string{"text": text})
	require.Equal(t, http.StatusOK, rec.Code, "create todo failed: %s", rec.Body.String())

	var todo domain.Todo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todo))
	return todo
}
