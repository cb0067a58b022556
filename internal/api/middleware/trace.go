package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// Trace adds a trace ID to the request context and attaches a
// request-scoped logger carrying it, so every log line produced while
// handling the request can be correlated. Apply it early in the chain.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithContext(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
