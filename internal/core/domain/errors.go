package domain

import "errors"

var (
	// ErrEmailTaken is returned when registration hits the email uniqueness
	// constraint.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound is returned when no user exists for the given email.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when a password does not match the
	// stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidSession covers both unknown and expired tokens. The two cases
	// are deliberately indistinguishable so callers cannot probe which tokens
	// once existed.
	ErrInvalidSession = errors.New("invalid or expired token")

	// ErrInvalidInput is returned when a request payload fails basic
	// validation before reaching the store.
	ErrInvalidInput = errors.New("invalid input")
)
