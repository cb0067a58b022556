package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithContext returns a new context carrying the given logger.
// Handlers attach a request-scoped logger (with trace ID attrs) so that
// lower layers log with the same correlation fields.
func WithContext(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext retrieves the logger from the context, falling back to
// the process default logger if none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, falling
// back to the provided logger if none was attached. Useful for
// components that carry their own component-tagged logger.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
