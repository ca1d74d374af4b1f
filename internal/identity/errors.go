package identity

import "errors"

// The four auth failure classes surfaced to clients. Anything else maps to
// ErrInternal before leaving the service.
var (
	ErrBadCredentials = errors.New("bad_credentials")
	ErrUsernameTaken  = errors.New("username_taken")
	ErrWeakPassword   = errors.New("weak_password")
	ErrInternal       = errors.New("internal")
)

// ErrNotFound is returned for missing profile documents; the session
// bootstrap on the client retries on it.
var ErrNotFound = errors.New("user not found")
