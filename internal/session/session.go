// Package session turns credentials, federated assertions, or a guest
// election into the single account session the client trusts.
package session

// Origin records how a Session was established.
type Origin string

// Origins of a Session.
const (
	OriginPassword          Origin = "password"
	OriginRegistered        Origin = "registered"
	OriginFederated         Origin = "federated"
	OriginFederatedFallback Origin = "federated-fallback"
	OriginGuest             Origin = "guest"
)

const (
	// GuestName is the display name of every guest session.
	GuestName     = "Guest Explorer"
	// FallbackName is used when a federated profile discloses no name.
	FallbackName  = "Explorer"
	guestIDPrefix = "guest_"
)

// Session is an established identity. Values are never mutated after
// construction; replacing the active session swaps the whole value.
type Session struct {
	ID     string
	Name   string
	Email  string
	Age    string
	Origin Origin
}

// IsGuest reports whether the session was synthesized without any identity check.
func (s Session) IsGuest() bool {
	return s.Origin == OriginGuest
}

// Input is one of Credentials, FederatedRequest, or GuestRequest.
type Input interface {
	isInput()
}

// Credentials are a transient email and password pair.
type Credentials struct {
	Email    string `validate:"required,mailshape"`
	Password string `validate:"required,min=8"`
}

// FederatedRequest asks for sign-in through the federated identity provider.
type FederatedRequest struct{}

// GuestRequest asks for an unverified guest session.
type GuestRequest struct{}

func (Credentials) isInput()      {}
func (FederatedRequest) isInput() {}
func (GuestRequest) isInput()     {}
