package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or the
	// signature doesn't match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrWrongScope indicates the token was issued for a different scope.
	ErrWrongScope = errors.New("authentication token has wrong scope")
)
