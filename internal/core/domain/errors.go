package domain

import "errors"

// Authentication and registration errors. ErrInvalidCredentials deliberately
// covers both "unknown user" and "wrong password" so login responses cannot be
// used to enumerate usernames.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Token validation errors. The request gate collapses all three into one
// uniform unauthenticated response; the distinction exists for metrics and
// for tests.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// Password-reset errors. Unlike login, the forgot-password endpoint
// intentionally discloses whether an email is registered.
var (
	ErrEmailNotFound     = errors.New("email not registered")
	ErrInvalidResetToken = errors.New("invalid reset token")
)

// Resource errors.
var (
	ErrBranchNotFound  = errors.New("branch not found")
	ErrItemNotFound    = errors.New("item not found")
	ErrPatientNotFound = errors.New("patient not found")
)
