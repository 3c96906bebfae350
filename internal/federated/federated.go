// Package federated acquires identity assertions from an external provider.
package federated

import "context"

// Profile is the identity the provider disclosed alongside its token.
type Profile struct {
	Subject string
	Name    string
	Email   string
}

// Assertion is a provider-signed ID token plus the profile it carries.
// It is handed to the backend once and never stored.
type Assertion struct {
	IDToken string
	Profile Profile
}

// Capability obtains an Assertion, typically by sending the person through
// the provider's consent screen.
type Capability interface {
	Acquire(ctx context.Context) (Assertion, error)
}
