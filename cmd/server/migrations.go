package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/migrations"
	"github.com/pressly/goose/v3"
)

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...), "component", "migrations")
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), "component", "migrations")
}

// runMigrations brings the schema up to date from the embedded goose
// migrations before the server starts accepting requests.
func runMigrations(db *sql.DB, log *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("migrations applied")
	return nil
}
