package domain

import "errors"

// Common validation errors
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")

	ErrEmptyTodoText   = errors.New("todo text cannot be empty")
	ErrEmptyTodoOwner  = errors.New("todo owner cannot be empty")
	ErrCompletionState = errors.New("completed flag and completedAt timestamp disagree")
	ErrEmptySessionKey = errors.New("session token cannot be empty")
	ErrInvalidScope    = errors.New("invalid session scope")
)
