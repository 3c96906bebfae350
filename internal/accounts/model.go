package accounts

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrAlreadyExists is returned when registering an email that is taken.
	ErrAlreadyExists = errors.New("user already exists")
	// ErrInvalidPassword is returned when the password does not match the stored hash.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrPasswordRequired is returned when a password account logs in without one.
	ErrPasswordRequired = errors.New("password required")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
)

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

// ProviderGoogle tags accounts created through Google sign-in.
const ProviderGoogle = "google"

// DefaultName is assigned when registration omits a display name.
const DefaultName = "Explorer"

// User is a stored account. PasswordHash is empty for federated-only accounts.
type User struct {
	ID              string    `db:"id"`
	Email           string    `db:"email"`
	PasswordHash    string    `db:"password_hash"`
	Name            string    `db:"name"`
	Age             string    `db:"age"`
	OAuthProvider   string    `db:"oauth_provider"`
	OAuthProviderID string    `db:"oauth_provider_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Profile is the public shape of an account returned to clients.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Age   string `json:"age"`
}

// Profile strips credentials and bookkeeping from the account.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Name: u.Name, Age: u.Age}
}

// RegisterInput carries the fields accepted by Register.
type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Name     string
}

// FederatedIdentity is the verified subset of an identity provider's claims.
type FederatedIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// ProfileInput is a partial profile update; nil fields are left unchanged.
type ProfileInput struct {
	Name *string
	Age  *string
}
