package auth

import "errors"

var (
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: already exists")
	ErrInvalidInput = errors.New("auth: invalid input")

	// ErrUnauthorized covers bad credentials at login.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrForbidden means a valid identity lacks the requested capability.
	ErrForbidden = errors.New("auth: insufficient permissions")

	// ErrInvalidToken indicates the token is forged, malformed, or
	// missing required claims.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
)
