package accounts

import "context"

// Repository defines persistence for accounts.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByOAuth(ctx context.Context, provider, providerID string) (User, error)
	Update(ctx context.Context, user User) (User, error)
}
