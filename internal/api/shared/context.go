package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"time"
)

// ContextKey is the key type for request-context values.
type ContextKey string

// Context keys for various values
const (
	// UserContextKey is the context key for the authenticated user record.
	UserContextKey ContextKey = "user"

	// TokenContextKey is the context key for the raw session token string.
	TokenContextKey ContextKey = "token"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID.
	TraceIDLength = 16 // 32 hex characters
)

// SetTraceID adds a trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID creates a random trace ID for request tracking.
// If crypto/rand fails it falls back to timestamp-derived bytes rather
// than returning a static value.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if n, err := rand.Read(b); err != nil || n != TraceIDLength {
		slog.Error("failed to generate secure random trace ID",
			"error", err,
			"bytes_read", n)
		now := time.Now()
		binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
		binary.BigEndian.PutUint32(b[8:12], uint32(now.Nanosecond()))
		binary.BigEndian.PutUint32(b[12:16], uint32(now.Unix()))
	}
	return hex.EncodeToString(b)
}
