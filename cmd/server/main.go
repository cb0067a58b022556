// Package main implements the entry point for the todo-api server:
// user registration, token-based authentication, and per-user todo CRUD.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run wires configuration, logging, the database, and the HTTP server
// together, then serves until interrupted. All process-wide state (the
// store connection, the signing secret) lives in explicitly constructed
// objects handed to the components that need them.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", "error", err)
		}
	}()

	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	app, err := newApplication(cfg, db, appLogger)
	if err != nil {
		return err
	}

	return app.serve(ctx)
}
