package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines operations for issuing and verifying signed
// session tokens.
//
// Verification is a pure signature/payload check: it does not consult
// the session store, so a verified token may still have been revoked.
// The auth gate layers the store-side membership check on top.
type TokenService interface {
	// Issue creates a signed token binding the user's identity to the
	// given scope. Returns the token string or an error if signing fails.
	Issue(ctx context.Context, userID uuid.UUID, scope string) (string, error)

	// Verify validates the provided token string and extracts the claims.
	// Returns ErrInvalidToken if the signature is invalid or the payload
	// is malformed.
	Verify(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified payload of a session token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID

	// Scope is the label restricting the token's intended use.
	Scope string

	// Subject mirrors UserID as the standard sub claim.
	Subject string

	// IssuedAt is when the token was signed. Tokens carry no expiry;
	// revocation is handled by deleting the session row.
	IssuedAt time.Time

	// ID is the unique token identifier (jti claim).
	ID string
}
