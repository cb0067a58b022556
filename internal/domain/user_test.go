package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("a@x.com", "secret1")
		require.NoError(t, err)
		assert.NotEqual(t, "", user.ID.String())
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, "secret1", user.Password)
		assert.Empty(t, user.HashedPassword)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("email is normalized", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("  Admin@Example.COM ", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", user.Email)
	})

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "empty email", email: "", password: "secret1", wantErr: ErrEmptyEmail},
		{name: "no at sign", email: "nope.example.com", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "no domain dot", email: "a@localhost", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "dot at domain end", email: "a@example.", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "two at signs", email: "a@b@example.com", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "empty password", email: "a@x.com", password: "", wantErr: ErrEmptyPassword},
		{name: "short password", email: "a@x.com", password: "abc", wantErr: ErrPasswordTooShort},
		{
			name:     "long password",
			email:    "a@x.com",
			password: strings.Repeat("x", MaxPasswordLength+1),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUser(tc.email, tc.password)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	t.Parallel()

	// Users loaded from the store carry only the hash; that must pass.
	user, err := NewUser("a@x.com", "secret1")
	require.NoError(t, err)
	user.Password = ""
	user.HashedPassword = "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef"

	assert.NoError(t, user.Validate())
}
