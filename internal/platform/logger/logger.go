// Package logger provides structured logging functionality for the application.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/todo-api/internal/config"
)

// Setup initializes and configures the application's logging system based
// on the provided configuration. It creates a structured JSON logger with
// the appropriate log level and sets it as the default logger for the
// application.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %q", cfg.LogLevel)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)

	// Set as default so package-level slog functions use the same handler.
	slog.SetDefault(log)

	return log, nil
}
