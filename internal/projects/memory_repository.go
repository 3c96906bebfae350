package projects

import (
	"context"
	"sync"
)

// InMemoryRepository stores projects in an in-process map, ideal for local development or tests.
type InMemoryRepository struct {
	mu    sync.RWMutex
	data  map[string]Project
	order []string
}

// NewInMemoryRepository constructs a repository seeded with optional initial projects.
func NewInMemoryRepository(initial []Project) *InMemoryRepository {
	data := make(map[string]Project, len(initial))
	order := make([]string, 0, len(initial))
	for _, project := range initial {
		data[project.ID] = project
		order = append(order, project.ID)
	}
	return &InMemoryRepository{data: data, order: order}
}

// ListByOwner returns the owner's projects in insertion order.
func (r *InMemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Project, 0)
	for _, id := range r.order {
		if project, ok := r.data[id]; ok && project.OwnerID == ownerID {
			out = append(out, project)
		}
	}
	return out, nil
}

// Get returns a project by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.data[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return project, nil
}

// Create stores a new project.
func (r *InMemoryRepository) Create(_ context.Context, project Project) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[project.ID]; !exists {
		r.order = append(r.order, project.ID)
	}
	r.data[project.ID] = project
	return project, nil
}

// Update replaces an existing project.
func (r *InMemoryRepository) Update(_ context.Context, project Project) (Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[project.ID]; !ok {
		return Project{}, ErrNotFound
	}
	r.data[project.ID] = project
	return project, nil
}

// Delete removes a project by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
