// Package domain contains the core business entities and validation rules
// of the application: users, their active sessions, and the todos they own.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
