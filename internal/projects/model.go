package projects

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a project cannot be located.
var ErrNotFound = errors.New("project not found")

// ErrValidation is returned when input validation fails.
var ErrValidation = errors.New("validation error")

// ValidationError wraps a validation message so callers can distinguish
// client errors from internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}

// Project is a story owned by exactly one account. Pages is the editor's
// opaque page document and is stored verbatim.
type Project struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"userId"`
	Title      string          `json:"title"`
	Date       string          `json:"date"`
	CoverImage string          `json:"coverImage,omitempty"`
	Pages      json.RawMessage `json:"pages"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

// SaveInput creates a project or, when ID names an existing project of the
// same owner, replaces its content.
type SaveInput struct {
	ID         string
	OwnerID    string
	Title      string
	Date       string
	CoverImage string
	Pages      json.RawMessage
}
