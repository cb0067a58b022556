package service

import "errors"

// ErrInvalidCredentials is returned by Login for both an unknown email
// and a wrong password. The two cases are deliberately uniform so the
// endpoint never leaks which emails are registered.
var ErrInvalidCredentials = errors.New("invalid credentials")
