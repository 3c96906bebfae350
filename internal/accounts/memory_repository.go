package accounts

import (
	"context"
	"strings"
	"sync"
)

// InMemoryRepository stores accounts in an in-process map, ideal for local development or tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string
}

// NewInMemoryRepository constructs a repository seeded with optional initial accounts.
func NewInMemoryRepository(initial []User) *InMemoryRepository {
	repo := &InMemoryRepository{
		byID:    make(map[string]User, len(initial)),
		byEmail: make(map[string]string, len(initial)),
	}
	for _, user := range initial {
		repo.byID[user.ID] = user
		repo.byEmail[emailKey(user.Email)] = user.ID
	}
	return repo
}

// Create stores a new account, rejecting duplicate IDs and emails.
func (r *InMemoryRepository) Create(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; ok {
		return User{}, ErrAlreadyExists
	}
	if _, ok := r.byEmail[emailKey(user.Email)]; ok {
		return User{}, ErrAlreadyExists
	}
	r.byID[user.ID] = user
	r.byEmail[emailKey(user.Email)] = user.ID
	return user, nil
}

// FindByID returns an account by ID.
func (r *InMemoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

// FindByEmail returns an account by email, ignoring case.
func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return r.byID[id], nil
}

// FindByOAuth returns the account linked to a provider subject.
func (r *InMemoryRepository) FindByOAuth(_ context.Context, provider, providerID string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.byID {
		if user.OAuthProvider == provider && user.OAuthProviderID == providerID {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

// Update replaces an existing account.
func (r *InMemoryRepository) Update(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return User{}, ErrNotFound
	}
	delete(r.byEmail, emailKey(existing.Email))
	r.byID[user.ID] = user
	r.byEmail[emailKey(user.Email)] = user.ID
	return user, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
