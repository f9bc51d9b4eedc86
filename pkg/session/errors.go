package session

import "errors"

// ErrAuthInFlight rejects an auth operation started while another one
// is still running; overlapping sign-in/sign-out calls would interleave
// their state writes unpredictably.
var ErrAuthInFlight = errors.New("session: another auth operation is in flight")

// ValidationError is bad input detected locally, before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is a rejection from the auth endpoints. Message carries the
// server-supplied text when the server sent one, a generic fallback
// otherwise.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
