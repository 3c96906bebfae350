package projects

import "context"

// Repository defines persistence for projects.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
	Create(ctx context.Context, project Project) (Project, error)
	Update(ctx context.Context, project Project) (Project, error)
	Delete(ctx context.Context, id string) error
}
