package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/api"
	apiMiddleware "github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// application holds the shared application dependencies so construction
// and cleanup stay in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	sessionStore store.SessionStore
	todoStore    store.TodoStore

	tokenService auth.TokenService
	userService  service.UserService

	authHandler    *api.AuthHandler
	todoHandler    *api.TodoHandler
	authMiddleware *apiMiddleware.AuthMiddleware
}

// newApplication constructs all stores, services, and handlers from the
// loaded configuration and the open database connection.
func newApplication(cfg *config.Config, db *sql.DB, log *slog.Logger) (*application, error) {
	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	sessionStore := postgres.NewPostgresSessionStore(db, log)
	todoStore := postgres.NewPostgresTodoStore(db, log)

	userService := service.NewUserService(
		db,
		userStore,
		sessionStore,
		tokenService,
		auth.NewBcryptHasher(),
		auth.NewBcryptVerifier(),
		log,
	)

	return &application{
		config:         cfg,
		logger:         log,
		db:             db,
		userStore:      userStore,
		sessionStore:   sessionStore,
		todoStore:      todoStore,
		tokenService:   tokenService,
		userService:    userService,
		authHandler:    api.NewAuthHandler(userService),
		todoHandler:    api.NewTodoHandler(todoStore),
		authMiddleware: apiMiddleware.NewAuthMiddleware(tokenService, userStore, sessionStore),
	}, nil
}
