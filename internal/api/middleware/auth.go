package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// AuthHeader is the request header carrying the session token.
const AuthHeader = "x-auth"

// AuthMiddleware is the auth gate for protected routes. It resolves the
// x-auth header to a user in three steps: verify the token signature,
// require the exact token string to still be an active session for that
// user (revocation), then load the user record into the request context.
//
// Every failure is terminal for the request: an immediate 401 with an
// empty body, matching the transport contract for unauthenticated calls.
type AuthMiddleware struct {
	tokens   auth.TokenService
	users    store.UserStore
	sessions store.SessionStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(
	tokens auth.TokenService,
	users store.UserStore,
	sessions store.SessionStore,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		users:    users,
		sessions: sessions,
	}
}

// Authenticate admits or rejects the request based on the x-auth header.
// On success the resolved user record and the raw token string are
// attached to the request context for downstream handlers.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(AuthHeader)
		if token == "" {
			shared.RespondEmpty(w, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.Verify(r.Context(), token)
		if err != nil {
			shared.RespondEmpty(w, http.StatusUnauthorized)
			return
		}

		// Signature validity is not enough: the exact token must still be
		// on the user's session list under the expected scope. This is
		// what makes logout effective for tokens that never expire.
		active, err := m.sessions.Exists(r.Context(), claims.UserID, token, domain.ScopeAuth)
		if err != nil {
			slog.Error("failed to check session", "error", err, "user_id", claims.UserID)
			shared.RespondEmpty(w, http.StatusUnauthorized)
			return
		}
		if !active {
			shared.RespondEmpty(w, http.StatusUnauthorized)
			return
		}
		if claims.Scope != domain.ScopeAuth {
			slog.Debug("token rejected", "error", auth.ErrWrongScope, "user_id", claims.UserID)
			shared.RespondEmpty(w, http.StatusUnauthorized)
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			shared.RespondEmpty(w, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserContextKey, user)
		ctx = context.WithValue(ctx, shared.TokenContextKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromRequest extracts the authenticated user from the request
// context. Returns the user and a boolean indicating if it was found.
func UserFromRequest(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(shared.UserContextKey).(*domain.User)
	return user, ok
}

// TokenFromRequest extracts the raw session token from the request context.
func TokenFromRequest(r *http.Request) (string, bool) {
	token, ok := r.Context().Value(shared.TokenContextKey).(string)
	return token, ok
}
