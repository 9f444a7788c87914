package auth

import "errors"

// Token-level verification failures. Verify returns exactly one of these.
var (
	ErrMalformed        = errors.New("auth: token malformed")
	ErrInvalidSignature = errors.New("auth: token signature invalid")
	ErrExpired          = errors.New("auth: token expired")
)

// Request-level failures.
var (
	ErrUnauthenticated = errors.New("auth: unauthenticated")
	ErrForbidden       = errors.New("auth: access denied")
	ErrRevoked         = errors.New("auth: token revoked")
)
