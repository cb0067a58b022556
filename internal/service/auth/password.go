package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher defines the interface for hashing plaintext passwords.
// Hashing is an explicit service-layer step invoked during registration,
// not a persistence hook.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the password.
	Hash(password string) (string, error)
}

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext
	// equivalent. Returns nil on success, or an error on failure
	// (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt with a fixed cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new BcryptHasher with bcrypt's default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// Hash implements the PasswordHasher interface using bcrypt.
// bcrypt generates a random salt per call, so the same password never
// hashes to the same string twice.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements the PasswordVerifier interface using bcrypt's
// constant-time comparison.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
