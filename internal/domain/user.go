package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// User represents a registered user of the todo service.
// The plaintext Password only exists in-flight during registration or
// login and is never persisted or serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, transient. Hashed by the service layer before storage.
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON.
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// NormalizeEmail lowercases and trims an email address. Registration
// stores the normalized form, so every lookup path must apply the same
// normalization or mixed-case input would silently miss.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a new User with the given email and password.
// The email is normalized so the store's uniqueness index is
// effectively case-insensitive. Returns an error if validation fails.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validEmailFormat performs a structural check of the email address:
// exactly one "@" with a non-empty local part and a domain containing an
// interior dot. Request-level validation applies the stricter
// go-playground rules; this is the last line of defense for users
// constructed outside the HTTP layer.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || strings.IndexByte(email[at+1:], '@') != -1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
