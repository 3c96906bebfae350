package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"narrator/internal/federated"
	"narrator/internal/remote"
)

// AuthBackend is the remote account service. remote.AuthClient satisfies it.
type AuthBackend interface {
	LoginByPassword(ctx context.Context, email, password string) (remote.User, error)
	RegisterByPassword(ctx context.Context, email, password string) (remote.User, error)
	LoginByFederatedToken(ctx context.Context, idToken string) (remote.User, error)
}

// Resolver produces exactly one Session per sign-in attempt, or fails.
type Resolver struct {
	backend  AuthBackend
	identity federated.Capability
	logger   *slog.Logger
	validate *validator.Validate
	newID    func() (uuid.UUID, error)
}

// ResolverOption configures a Resolver during construction.
type ResolverOption func(*Resolver)

// WithGuestIDSource overrides the generator of guest identifiers.
func WithGuestIDSource(newID func() (uuid.UUID, error)) ResolverOption {
	return func(r *Resolver) {
		r.newID = newID
	}
}

// NewResolver wires a Resolver. identity may be nil when federated sign-in
// is not configured.
func NewResolver(backend AuthBackend, identity federated.Capability, logger *slog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		backend:  backend,
		identity: identity,
		logger:   logger,
		validate: newValidator(),
		newID:    uuid.NewV7,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve dispatches on the kind of input.
func (r *Resolver) Resolve(ctx context.Context, input Input) (Session, error) {
	switch in := input.(type) {
	case Credentials:
		return r.ResolvePassword(ctx, in)
	case FederatedRequest:
		return r.ResolveFederated(ctx)
	case GuestRequest:
		return r.ResolveGuest()
	default:
		return Session{}, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}

// ResolvePassword logs in with credentials. An unknown account is
// registered once with the same credentials.
func (r *Resolver) ResolvePassword(ctx context.Context, creds Credentials) (Session, error) {
	if err := validateCredentials(r.validate, creds); err != nil {
		return Session{}, err
	}

	user, err := r.login(ctx, creds)
	if err == nil {
		return fromRemote(user, OriginPassword), nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return Session{}, &AuthError{Message: messageOr(err, "Login failed"), Err: err}
	}

	r.logger.Info("account not found, registering", "email", creds.Email)
	user, err = r.backend.RegisterByPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		return Session{}, &AuthError{Message: messageOr(err, "Registration failed"), Err: err}
	}
	return fromRemote(user, OriginRegistered), nil
}

func (r *Resolver) login(ctx context.Context, creds Credentials) (remote.User, error) {
	user, err := r.backend.LoginByPassword(ctx, creds.Email, creds.Password)
	if err != nil && remote.KindOf(err) == remote.KindNotFound {
		return remote.User{}, fmt.Errorf("%w: %w", ErrAccountNotFound, err)
	}
	return user, err
}

// ResolveFederated acquires a provider assertion and exchanges it with the
// backend. A failed exchange still yields a session built from the
// provider profile.
func (r *Resolver) ResolveFederated(ctx context.Context) (Session, error) {
	if r.identity == nil {
		return Session{}, &AuthError{Message: "Google sign-in failed: federated sign-in is not configured"}
	}

	assertion, err := r.identity.Acquire(ctx)
	if err != nil {
		return Session{}, &AuthError{Message: "Google sign-in failed: " + err.Error(), Err: err}
	}

	user, err := r.backend.LoginByFederatedToken(ctx, assertion.IDToken)
	if err != nil {
		r.logger.Warn("backend login failed, using local fallback",
			"error", &BackendUnavailableError{Err: err},
			"subject", assertion.Profile.Subject,
		)
		if strings.TrimSpace(assertion.Profile.Subject) == "" {
			return Session{}, &AuthError{Message: "Google sign-in failed: provider did not disclose an account identifier", Err: err}
		}
		return fallbackSession(assertion.Profile), nil
	}
	return fromRemote(user, OriginFederated), nil
}

// ResolveGuest synthesizes a guest session with a fresh time-ordered ID.
func (r *Resolver) ResolveGuest() (Session, error) {
	id, err := r.newID()
	if err != nil {
		return Session{}, fmt.Errorf("generate guest id: %w", err)
	}
	return Session{
		ID:     guestIDPrefix + id.String(),
		Name:   GuestName,
		Origin: OriginGuest,
	}, nil
}

func fromRemote(user remote.User, origin Origin) Session {
	return Session{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Age:    user.Age,
		Origin: origin,
	}
}

func fallbackSession(profile federated.Profile) Session {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = FallbackName
	}
	return Session{
		ID:     profile.Subject,
		Name:   name,
		Email:  profile.Email,
		Origin: OriginFederatedFallback,
	}
}

func messageOr(err error, fallback string) string {
	if msg := remote.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}
