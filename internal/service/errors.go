package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes and application error codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. The API layer maps this to 404 so the
	// resource's existence is not revealed.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidCredentials indicates a failed login attempt. Deliberately
	// covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrResetTokenInvalid indicates a password reset token that is
	// unknown, already consumed, or expired.
	ErrResetTokenInvalid = errors.New("password reset token is invalid or expired")
)
