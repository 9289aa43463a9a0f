// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrInvalidLogin is returned when a login name is empty or too long.
	ErrInvalidLogin = errors.New("invalid login name")

	// ErrSessionNotFound is returned when a session cannot be found by token.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = errors.New("session has expired")
)
