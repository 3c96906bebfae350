package session

import (
	"errors"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	v := newValidator()
	cases := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"empty email", Credentials{Password: "longenough"}, msgCredentialsRequired},
		{"empty password", Credentials{Email: "a@b.com"}, msgCredentialsRequired},
		{"short password", Credentials{Email: "a@b.com", Password: "short"}, msgPasswordTooShort},
		{"short password wins over bad email", Credentials{Email: "nope", Password: "short"}, msgPasswordTooShort},
		{"missing at", Credentials{Email: "ab.com", Password: "longenough"}, msgInvalidEmail},
		{"missing dot", Credentials{Email: "a@bcom", Password: "longenough"}, msgInvalidEmail},
		{"whitespace", Credentials{Email: "a b@c.com", Password: "longenough"}, msgInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateCredentials(v, tc.creds)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Message != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, vErr.Message)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatal("expected error to match ErrValidation")
			}
		})
	}
}

func TestValidateCredentialsAccepts(t *testing.T) {
	if err := validateCredentials(newValidator(), Credentials{Email: "a@b.com", Password: "12345678"}); err != nil {
		t.Fatalf("expected valid credentials, got %v", err)
	}
}
