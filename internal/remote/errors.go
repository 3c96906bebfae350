package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call.
type Kind int

const (
	// KindOther covers any failure without a more specific classification.
	KindOther Kind = iota
	// KindNotFound means the backend does not know the requested account or record.
	KindNotFound
	// KindInvalidCredentials means the backend rejected the supplied credentials.
	KindInvalidCredentials
	// KindUnavailable means the backend could not be reached or failed on its side.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnavailable:
		return "unavailable"
	default:
		return "other"
	}
}

// Error is returned by every client in this package when a call fails.
// Status is zero when no response was received.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("remote %s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("remote %s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("remote %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("remote %s (%d)", e.Kind, e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the classification of err, or KindOther when err did not
// come from this package.
func KindOf(err error) Kind {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind
	}
	return KindOther
}

// MessageOf returns the backend-supplied message carried by err, if any.
func MessageOf(err error) string {
	var remoteErr *Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	return ""
}

func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindInvalidCredentials
	case status >= http.StatusInternalServerError:
		return KindUnavailable
	default:
		return KindOther
	}
}
