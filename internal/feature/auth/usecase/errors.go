// Package usecase implements the business logic for the auth feature.
package usecase

import "music_backend/internal/shared/apperr"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = apperr.NotFound("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = apperr.Conflict("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = apperr.Unauthorized("invalid email or password")

	ErrMissingFields     = apperr.Validation("name, email and password are required")
	ErrMissingLogin      = apperr.Validation("email and password are required")
	ErrPasswordTooShort  = apperr.Validation("password must be at least 8 characters long")
	ErrPasswordTooLong   = apperr.Validation("password must be at most 72 bytes")
	ErrLogoutUnavailable = apperr.Validation("token cannot be revoked")
)
