package session

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var mailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgCredentialsRequired = "email and password are required"
	msgPasswordTooShort    = "Password must be at least 8 characters long."
	msgInvalidEmail        = "Please enter a valid email address."
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("mailshape", func(fl validator.FieldLevel) bool {
		return mailShape.MatchString(fl.Field().String())
	})
	return v
}

// validateCredentials reports the first problem in priority order: missing
// fields, then password length, then email shape.
func validateCredentials(v *validator.Validate, c Credentials) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Message: err.Error()}
	}

	tags := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		tags[fe.Tag()] = true
	}
	switch {
	case tags["required"]:
		return &ValidationError{Message: msgCredentialsRequired}
	case tags["min"]:
		return &ValidationError{Message: msgPasswordTooShort}
	default:
		return &ValidationError{Message: msgInvalidEmail}
	}
}
