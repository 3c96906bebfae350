package session

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when credentials are rejected before any network call.
	ErrValidation = errors.New("validation error")
	// ErrAccountNotFound marks a login that failed because the account does
	// not exist yet. It triggers registration and is never shown to the user.
	ErrAccountNotFound = errors.New("account not found")
	// ErrSuperseded is returned by Manager.SignIn when a newer sign-in or
	// sign-out happened while the resolution was in flight.
	ErrSuperseded = errors.New("sign-in superseded")
	// ErrUnsupportedInput is returned for Input values this package does not define.
	ErrUnsupportedInput = errors.New("unsupported sign-in input")
)

// ValidationError carries a user-facing message about malformed credentials.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// AuthError is a terminal sign-in failure. Message is the most specific
// text available and is meant to be shown verbatim.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// BackendUnavailableError wraps a failed federated token exchange. The
// resolver recovers from it with a locally built session and only logs it.
type BackendUnavailableError struct {
	Err error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("identity backend unavailable: %v", e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}
