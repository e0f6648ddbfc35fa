package service

import "errors"

// Sentinel errors the HTTP layer maps onto status codes. Services wrap
// them with context via fmt.Errorf("...: %w", Err...).
var (
	// ErrNotFound means the referenced task, user, or notification does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner means the acting user does not own the target record.
	// The operation is aborted before any mutation or side effect.
	ErrNotOwner = errors.New("owned by another user")

	// ErrValidation covers missing or malformed required input.
	ErrValidation = errors.New("invalid input")

	// ErrEmailTaken rejects registration with an address already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email, wrong password, and
	// bad or expired tokens.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
