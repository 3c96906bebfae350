// Package library keeps a local view of the signed-in account's projects
// in step with the remote project service.
package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"narrator/internal/remote"
	"narrator/internal/session"
)

// Project is a story owned by the session's account.
type Project = remote.Project

// CreateInput describes a new project. The owner comes from the session.
type CreateInput struct {
	ID         string
	Title      string
	Date       string
	CoverImage string
	Pages      json.RawMessage
}

// Backend is the remote project service. remote.ProjectClient satisfies it.
type Backend interface {
	List(ctx context.Context, ownerID string) ([]remote.Project, error)
	Save(ctx context.Context, input remote.ProjectInput) (remote.Project, error)
	Delete(ctx context.Context, projectID string) error
}

// Store is the local project list for one session.
type Store struct {
	backend Backend
	owner   session.Session
	logger  *slog.Logger

	mu         sync.Mutex
	projects   []Project
	generation uint64
	inFlight   int
	loaded     bool
	stale      bool
}

// NewStore binds a Store to the given session.
func NewStore(backend Backend, owner session.Session, logger *slog.Logger) *Store {
	return &Store{
		backend:  backend,
		owner:    owner,
		logger:   logger.With("user_id", owner.ID),
		projects: []Project{},
	}
}

// Owner returns the session the store is bound to.
func (s *Store) Owner() session.Session {
	return s.owner
}

// Refresh replaces the local list with the remote one. A failed fetch
// leaves an empty list and is only logged. A response overtaken by a later
// Refresh, Create, or Delete is discarded. The returned slice is what the store holds afterwards.
func (s *Store) Refresh(ctx context.Context) []Project {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.inFlight++
	s.mu.Unlock()

	list, err := s.backend.List(ctx, s.owner.ID)
	if err != nil {
		s.logger.Error("list projects", "error", err)
		list = []Project{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if gen != s.generation {
		s.logger.Debug("discarding stale project list", "generation", gen, "latest", s.generation)
		s.loaded = true
		return cloneProjects(s.projects)
	}
	s.projects = dedupe(list)
	s.loaded = true
	s.stale = err != nil
	return cloneProjects(s.projects)
}

// Reconcile re-fetches the list only when the store is stale.
func (s *Store) Reconcile(ctx context.Context) bool {
	if !s.Stale() {
		return false
	}
	s.Refresh(ctx)
	return true
}

// Projects returns a copy of the local list.
func (s *Store) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProjects(s.projects)
}

// Loading reports whether a fetch is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Loaded reports whether at least one fetch has completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Stale reports whether the local list may have diverged from the remote one.
func (s *Store) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// Create saves a project remotely and adds it locally once the backend
// has accepted it. A project with an existing ID replaces the local entry.
func (s *Store) Create(ctx context.Context, input CreateInput) (Project, error) {
	created, err := s.backend.Save(ctx, remote.ProjectInput{
		ID:         input.ID,
		OwnerID:    s.owner.ID,
		Title:      input.Title,
		Date:       input.Date,
		CoverImage: input.CoverImage,
		Pages:      input.Pages,
	})
	if err != nil {
		return Project{}, fmt.Errorf("save project: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = upsert(s.projects, created)
	s.invalidatePendingLocked()
	return created, nil
}

// RemoveLocal drops id from the local list and reports whether it was present.
func (s *Store) RemoveLocal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.projects {
		if p.ID == id {
			s.projects = append(s.projects[:i:i], s.projects[i+1:]...)
			s.invalidatePendingLocked()
			return true
		}
	}
	return false
}

// invalidatePendingLocked makes any outstanding Refresh discard its
// response, since it was fetched before the local change. The store is
// then stale until the next Refresh completes. s.mu must be held.
func (s *Store) invalidatePendingLocked() {
	if s.inFlight == 0 {
		return
	}
	s.generation++
	s.stale = true
}

// Delete removes id locally, then asks the backend to delete it. A remote
// failure is logged and marks the store stale; the local removal stands.
func (s *Store) Delete(ctx context.Context, id string) {
	if !s.RemoveLocal(id) {
		s.mu.Lock()
		s.invalidatePendingLocked()
		s.mu.Unlock()
	}

	if err := s.backend.Delete(ctx, id); err != nil {
		s.logger.Error("delete project", "project_id", id, "error", err)
		s.mu.Lock()
		s.stale = true
		s.mu.Unlock()
	}
}

func cloneProjects(in []Project) []Project {
	out := make([]Project, len(in))
	copy(out, in)
	return out
}

func upsert(list []Project, p Project) []Project {
	for i := range list {
		if list[i].ID == p.ID {
			out := cloneProjects(list)
			out[i] = p
			return out
		}
	}
	return append(cloneProjects(list), p)
}

// dedupe keeps the last entry per ID at the position of the first.
func dedupe(list []Project) []Project {
	out := make([]Project, 0, len(list))
	index := make(map[string]int, len(list))
	for _, p := range list {
		if i, ok := index[p.ID]; ok {
			out[i] = p
			continue
		}
		index[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
