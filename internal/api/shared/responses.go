package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error response with the given status
// code and message, tagged with the request's trace ID when available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		TraceID: traceID,
	})
}

// RespondWithErrorAndLog writes a sanitized JSON error response and logs
// the detailed error. The raw error never reaches the client. Server
// errors log at ERROR level, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", err.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   userMessage,
		TraceID: traceID,
	})
}

// RespondEmpty writes a bare status code with no body. The auth gate's
// 401s and malformed-id 404s use this.
func RespondEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}
