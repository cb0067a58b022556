package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. Entity-specific variants wrap it so callers can match
	// either the generic or the specific error.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrTodoNotFound indicates that the requested todo does not exist in
	// the store. Owner-scoped queries also return this when the todo
	// exists but belongs to someone else; the two cases are deliberately
	// indistinguishable.
	ErrTodoNotFound = fmt.Errorf("%w: todo", ErrNotFound)

	// ErrSessionNotFound indicates that the requested session does not exist in the store.
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
