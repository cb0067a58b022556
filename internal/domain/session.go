package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScopeAuth is the only session scope currently issued. The scope
// travels inside the signed token and is stored with the session row,
// so a token can never be replayed under a different scope.
const ScopeAuth = "auth"

// Session is one active login for a user: the exact signed token string
// plus the scope it was issued under. A user may hold any number of
// concurrent sessions. Deleting the row revokes the token regardless of
// its signature remaining valid.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Scope     string
	Token     string
	CreatedAt time.Time
}

// NewSession creates a session binding the given token to the user
// under the auth scope.
func NewSession(userID uuid.UUID, token string) (*Session, error) {
	session := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Scope:     ScopeAuth,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if s.Token == "" {
		return ErrEmptySessionKey
	}
	if s.Scope != ScopeAuth {
		return ErrInvalidScope
	}
	return nil
}
