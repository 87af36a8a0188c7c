package auth

import "errors"

// Every failure the auth core can produce is one of these sentinels.
// The HTTP layer maps them to status codes; nothing else escapes to
// callers.
var (
	ErrInvalidInput      = errors.New("missing account or password")
	ErrAccountTaken      = errors.New("account already exists")
	ErrUnknownAccount    = errors.New("unknown account")
	ErrBadCredentials    = errors.New("incorrect password")
	ErrMissingCredential = errors.New("missing bearer token")
	ErrMalformedToken    = errors.New("malformed token")
	ErrBadSignature      = errors.New("invalid token signature")
	ErrTokenExpired      = errors.New("token expired")
	ErrForbidden         = errors.New("forbidden")
)
