package library

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"narrator/internal/remote"
	"narrator/internal/session"
)

type backendStub struct {
	list   func(ctx context.Context, ownerID string) ([]remote.Project, error)
	save   func(ctx context.Context, input remote.ProjectInput) (remote.Project, error)
	delete func(ctx context.Context, projectID string) error

	deleted []string
}

func (b *backendStub) List(ctx context.Context, ownerID string) ([]remote.Project, error) {
	if b.list != nil {
		return b.list(ctx, ownerID)
	}
	return []remote.Project{}, nil
}

func (b *backendStub) Save(ctx context.Context, input remote.ProjectInput) (remote.Project, error) {
	if b.save != nil {
		return b.save(ctx, input)
	}
	return remote.Project{ID: input.ID, OwnerID: input.OwnerID, Title: input.Title}, nil
}

func (b *backendStub) Delete(ctx context.Context, projectID string) error {
	b.deleted = append(b.deleted, projectID)
	if b.delete != nil {
		return b.delete(ctx, projectID)
	}
	return nil
}

func newTestStore(backend Backend) *Store {
	return NewStore(backend, session.Session{ID: "u1", Name: "Asha"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ids(list []Project) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func twoProjects(context.Context, string) ([]remote.Project, error) {
	return []remote.Project{{ID: "p1", OwnerID: "u1"}, {ID: "p2", OwnerID: "u1"}}, nil
}

func TestRefreshQueriesOwner(t *testing.T) {
	var owner string
	store := newTestStore(&backendStub{list: func(ctx context.Context, ownerID string) ([]remote.Project, error) {
		owner = ownerID
		return twoProjects(ctx, ownerID)
	}})

	got := store.Refresh(context.Background())
	if owner != "u1" {
		t.Fatalf("expected owner u1, got %q", owner)
	}
	if !equalIDs(ids(got), []string{"p1", "p2"}) {
		t.Fatalf("unexpected projects %v", ids(got))
	}
	if !store.Loaded() || store.Loading() {
		t.Fatal("expected loaded and not loading")
	}
}

func TestRefreshFailsSoft(t *testing.T) {
	store := newTestStore(&backendStub{list: func(context.Context, string) ([]remote.Project, error) {
		return nil, &remote.Error{Kind: remote.KindUnavailable}
	}})

	got := store.Refresh(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
	if !store.Loaded() {
		t.Fatal("expected failed fetch to count as loaded")
	}
	if !store.Stale() {
		t.Fatal("expected failed fetch to mark store stale")
	}
}

func TestRefreshDedupesByID(t *testing.T) {
	store := newTestStore(&backendStub{list: func(context.Context, string) ([]remote.Project, error) {
		return []remote.Project{{ID: "p1", Title: "old"}, {ID: "p2"}, {ID: "p1", Title: "new"}}, nil
	}})

	got := store.Refresh(context.Background())
	if !equalIDs(ids(got), []string{"p1", "p2"}) || got[0].Title != "new" {
		t.Fatalf("unexpected projects %+v", got)
	}
}

func TestRefreshDropsOvertakenResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	calls := 0
	store := newTestStore(&backendStub{list: func(context.Context, string) ([]remote.Project, error) {
		calls++
		if calls == 1 {
			close(started)
			<-release
			return []remote.Project{{ID: "old"}}, nil
		}
		return []remote.Project{{ID: "new"}}, nil
	}})

	done := make(chan []Project, 1)
	go func() { done <- store.Refresh(context.Background()) }()
	<-started
	if !store.Loading() {
		t.Fatal("expected loading while fetch is outstanding")
	}

	store.Refresh(context.Background())
	close(release)
	<-done

	if got := ids(store.Projects()); !equalIDs(got, []string{"new"}) {
		t.Fatalf("expected newer response to win, got %v", got)
	}
}

func TestDeleteRemovesLocallyBeforeRemote(t *testing.T) {
	backend := &backendStub{list: twoProjects}
	store := newTestStore(backend)
	store.Refresh(context.Background())

	backend.delete = func(context.Context, string) error {
		if got := ids(store.Projects()); !equalIDs(got, []string{"p2"}) {
			t.Errorf("expected local removal before remote call, got %v", got)
		}
		return nil
	}
	store.Delete(context.Background(), "p1")

	if got := ids(store.Projects()); !equalIDs(got, []string{"p2"}) {
		t.Fatalf("expected [p2], got %v", got)
	}
	if store.Stale() {
		t.Fatal("expected store to be fresh after successful delete")
	}
}

func TestDeleteRemoteFailureMarksStale(t *testing.T) {
	backend := &backendStub{list: twoProjects, delete: func(context.Context, string) error {
		return errors.New("network down")
	}}
	store := newTestStore(backend)
	store.Refresh(context.Background())

	store.Delete(context.Background(), "p1")

	if got := ids(store.Projects()); !equalIDs(got, []string{"p2"}) {
		t.Fatalf("expected removal to stand, got %v", got)
	}
	if !store.Stale() {
		t.Fatal("expected stale store")
	}

	if !store.Reconcile(context.Background()) {
		t.Fatal("expected reconcile to re-fetch")
	}
	if got := ids(store.Projects()); !equalIDs(got, []string{"p1", "p2"}) {
		t.Fatalf("expected remote state after reconcile, got %v", got)
	}
	if store.Stale() {
		t.Fatal("expected fresh store after reconcile")
	}
	if store.Reconcile(context.Background()) {
		t.Fatal("expected reconcile to be a no-op when fresh")
	}
}

func TestDeleteUnknownIDIsLocalNoop(t *testing.T) {
	backend := &backendStub{list: twoProjects}
	store := newTestStore(backend)
	store.Refresh(context.Background())

	store.Delete(context.Background(), "missing")

	if got := ids(store.Projects()); !equalIDs(got, []string{"p1", "p2"}) {
		t.Fatalf("expected list unchanged, got %v", got)
	}
	if len(backend.deleted) != 1 || backend.deleted[0] != "missing" {
		t.Fatalf("expected remote delete to be issued, got %v", backend.deleted)
	}
}

func TestCreateAddsAfterRemoteSuccess(t *testing.T) {
	var sent remote.ProjectInput
	backend := &backendStub{save: func(_ context.Context, input remote.ProjectInput) (remote.Project, error) {
		sent = input
		return remote.Project{ID: "p9", OwnerID: input.OwnerID, Title: input.Title}, nil
	}}
	store := newTestStore(backend)

	created, err := store.Create(context.Background(), CreateInput{Title: "Bedtime"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if sent.OwnerID != "u1" {
		t.Fatalf("expected owner from session, got %q", sent.OwnerID)
	}
	if created.ID != "p9" || !equalIDs(ids(store.Projects()), []string{"p9"}) {
		t.Fatalf("unexpected store contents %v", ids(store.Projects()))
	}

	if _, err := store.Create(context.Background(), CreateInput{ID: "p9", Title: "Again"}); err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}
	if got := store.Projects(); len(got) != 1 || got[0].Title != "Again" {
		t.Fatalf("expected in-place replacement, got %+v", got)
	}
}

func TestCreateFailureLeavesListUntouched(t *testing.T) {
	backend := &backendStub{save: func(context.Context, remote.ProjectInput) (remote.Project, error) {
		return remote.Project{}, &remote.Error{Kind: remote.KindOther, Message: "title is required"}
	}}
	store := newTestStore(backend)

	if _, err := store.Create(context.Background(), CreateInput{}); err == nil {
		t.Fatal("expected error")
	}
	if len(store.Projects()) != 0 {
		t.Fatal("expected no optimistic insert")
	}
}

func TestProjectsReturnsCopy(t *testing.T) {
	store := newTestStore(&backendStub{list: twoProjects})
	store.Refresh(context.Background())

	snapshot := store.Projects()
	snapshot[0].ID = "mutated"
	if store.Projects()[0].ID != "p1" {
		t.Fatal("expected snapshot to be independent of store state")
	}
}

// blockingList serves the first call immediately and holds the second until
// release is closed.
func blockingList(first, second []remote.Project, started, release chan struct{}) func(context.Context, string) ([]remote.Project, error) {
	calls := 0
	return func(context.Context, string) ([]remote.Project, error) {
		calls++
		if calls == 2 {
			close(started)
			<-release
			return second, nil
		}
		return first, nil
	}
}

func TestDeleteDuringRefreshDiscardsOlderList(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	both := []remote.Project{{ID: "p1"}, {ID: "p2"}}
	backend := &backendStub{list: blockingList(both, both, started, release)}
	store := newTestStore(backend)
	store.Refresh(context.Background())

	done := make(chan struct{})
	go func() {
		store.Refresh(context.Background())
		close(done)
	}()
	<-started

	store.Delete(context.Background(), "p1")
	close(release)
	<-done

	if got := ids(store.Projects()); !equalIDs(got, []string{"p2"}) {
		t.Fatalf("expected deleted project to stay removed, got %v", got)
	}
	if !store.Stale() {
		t.Fatal("expected discarded list to leave the store stale")
	}
}

func TestCreateDuringRefreshKeepsCreatedProject(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &backendStub{list: blockingList(nil, []remote.Project{}, started, release)}
	store := newTestStore(backend)
	store.Refresh(context.Background())

	done := make(chan struct{})
	go func() {
		store.Refresh(context.Background())
		close(done)
	}()
	<-started

	if _, err := store.Create(context.Background(), CreateInput{ID: "p9", Title: "New"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	close(release)
	<-done

	if got := ids(store.Projects()); !equalIDs(got, []string{"p9"}) {
		t.Fatalf("expected created project to survive the older list, got %v", got)
	}
	if !store.Stale() {
		t.Fatal("expected discarded list to leave the store stale")
	}

	backend.list = func(context.Context, string) ([]remote.Project, error) {
		return []remote.Project{{ID: "p9", Title: "New"}}, nil
	}
	if !store.Reconcile(context.Background()) {
		t.Fatal("expected reconcile to re-fetch")
	}
	if store.Stale() {
		t.Fatal("expected fresh store after reconcile")
	}
}

func TestLocalChangeWithoutPendingRefreshKeepsStoreFresh(t *testing.T) {
	store := newTestStore(&backendStub{list: twoProjects})
	store.Refresh(context.Background())

	store.Delete(context.Background(), "p1")
	if _, err := store.Create(context.Background(), CreateInput{ID: "p3"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if store.Stale() {
		t.Fatal("expected no stale flag without an outstanding refresh")
	}
}
