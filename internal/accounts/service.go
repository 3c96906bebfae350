package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Service provides account registration and login.
type Service struct {
	repo     Repository
	hasher   PasswordHasher
	validate *validator.Validate
	now      func() time.Time
}

// Option configures the Service during construction.
type Option func(*Service)

// WithHasher overrides the password hasher.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository, opts ...Option) *Service {
	svc := &Service{
		repo:     repo,
		hasher:   BcryptHasher{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register creates a password account.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Tag() == "email" {
			return User{}, &ValidationError{Message: "Invalid email address"}
		}
		return User{}, &ValidationError{Message: "Email and password required"}
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return User{}, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultName
	}

	now := s.now()
	user := User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, user)
}

// Login authenticates a password account. Accounts without a stored hash
// (federated-only) may log in by email alone when no password is supplied.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return User{}, err
	}

	if password != "" {
		if user.PasswordHash == "" || s.hasher.Compare(user.PasswordHash, password) != nil {
			return User{}, ErrInvalidPassword
		}
		return user, nil
	}

	if user.PasswordHash != "" {
		return User{}, ErrPasswordRequired
	}
	return user, nil
}

// LoginFederated returns the account for a verified federated identity,
// creating one keyed by the provider subject on first sign-in. An existing
// password account with the same email is returned as-is.
func (s *Service) LoginFederated(ctx context.Context, identity FederatedIdentity) (User, error) {
	if identity.Subject == "" {
		return User{}, &ValidationError{Message: "identity subject is required"}
	}

	user, err := s.repo.FindByOAuth(ctx, identity.Provider, identity.Subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("find user by oauth: %w", err)
	}

	if identity.Email != "" {
		user, err = s.repo.FindByEmail(ctx, identity.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return User{}, fmt.Errorf("find user by email: %w", err)
		}
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = DefaultName
	}

	now := s.now()
	created, err := s.repo.Create(ctx, User{
		ID:              identity.Subject,
		Email:           identity.Email,
		Name:            name,
		OAuthProvider:   identity.Provider,
		OAuthProviderID: identity.Subject,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return User{}, fmt.Errorf("create federated user: %w", err)
	}
	return created, nil
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, id string, input ProfileInput) (User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Age != nil {
		age := strings.TrimSpace(*input.Age)
		if len(age) > 10 {
			return User{}, &ValidationError{Message: "age must be at most 10 characters"}
		}
		user.Age = age
	}
	user.UpdatedAt = s.now()

	return s.repo.Update(ctx, user)
}
