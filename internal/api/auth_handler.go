package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
)

// AuthHandler handles user registration, login, profile, and logout.
type AuthHandler struct {
	users service.UserService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register handles POST /users.
// On success the session token travels in the x-auth response header
// and the body carries the public user view.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithError(w, r, http.StatusBadRequest, "Email already in use")
		case isDomainValidationError(err):
			shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to create user", err)
		}
		return
	}

	w.Header().Set(middleware.AuthHeader, token)
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Login handles POST /users/login.
// Unknown email and wrong password produce the same 400 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	w.Header().Set(middleware.AuthHeader, token)
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Me handles GET /users/me. The auth gate has already resolved the user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		slog.Error("authenticated route reached without user in context")
		shared.RespondEmpty(w, http.StatusUnauthorized)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Logout handles DELETE /users/me/token, revoking the exact token the
// request authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	token, tokenOK := middleware.TokenFromRequest(r)
	if !ok || !tokenOK {
		slog.Error("authenticated route reached without user or token in context")
		shared.RespondEmpty(w, http.StatusUnauthorized)
		return
	}

	if err := h.users.Logout(r.Context(), user.ID, token); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to log out", err)
		return
	}

	shared.RespondEmpty(w, http.StatusOK)
}

// isDomainValidationError reports whether the error is one of the
// domain's input validation errors, which map to 400 rather than 500.
func isDomainValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrEmptyPassword,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrEmptyTodoText,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
