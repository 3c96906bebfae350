package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"narrator/internal/library"
	"narrator/internal/remote"
	"narrator/internal/session"
)

type backendStub struct {
	list    func(ctx context.Context, ownerID string) ([]remote.Project, error)
	deleted []string
	failDel bool
}

func (b *backendStub) List(ctx context.Context, ownerID string) ([]remote.Project, error) {
	if b.list != nil {
		return b.list(ctx, ownerID)
	}
	return []remote.Project{}, nil
}

func (b *backendStub) Save(_ context.Context, input remote.ProjectInput) (remote.Project, error) {
	return remote.Project{ID: input.ID, OwnerID: input.OwnerID, Title: input.Title}, nil
}

func (b *backendStub) Delete(_ context.Context, projectID string) error {
	b.deleted = append(b.deleted, projectID)
	if b.failDel {
		return errors.New("network down")
	}
	return nil
}

func newController(backend library.Backend, name string) *Controller {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewController(library.NewStore(backend, session.Session{ID: "u1", Name: name}, logger))
}

func kinds(v View) []TileKind {
	out := make([]TileKind, len(v.Tiles))
	for i, tile := range v.Tiles {
		out[i] = tile.Kind
	}
	return out
}

func projectIDs(v View) []string {
	var out []string
	for _, tile := range v.Tiles {
		if tile.Kind == TileProject {
			out = append(out, tile.Project.ID)
		}
	}
	return out
}

func twoProjects(context.Context, string) ([]remote.Project, error) {
	return []remote.Project{{ID: "p1", Title: "One"}, {ID: "p2"}}, nil
}

type recordingConfirmer struct {
	answer    bool
	questions []string
}

func (r *recordingConfirmer) Confirm(question string) bool {
	r.questions = append(r.questions, question)
	return r.answer
}

func TestGreeting(t *testing.T) {
	if got := Greeting("Asha"); got != "WELCOME ASHA" {
		t.Fatalf("unexpected greeting %q", got)
	}
	if got := Greeting("  "); got != "WELCOME STORYTELLER" {
		t.Fatalf("unexpected fallback greeting %q", got)
	}
}

func TestViewBeforeLoadShowsLoading(t *testing.T) {
	view := newController(&backendStub{}, "Asha").View()

	got := kinds(view)
	if len(got) != 2 || got[0] != TileCreate || got[1] != TileLoading {
		t.Fatalf("unexpected tiles %v", got)
	}
	if len(view.Templates) != 3 {
		t.Fatalf("expected templates to be present, got %d", len(view.Templates))
	}
}

func TestViewListsProjectsAfterCreateTile(t *testing.T) {
	ctrl := newController(&backendStub{list: twoProjects}, "Asha")
	ctrl.Load(context.Background())

	view := ctrl.View()
	if view.Greeting != "WELCOME ASHA" {
		t.Fatalf("unexpected greeting %q", view.Greeting)
	}
	got := kinds(view)
	if len(got) != 3 || got[0] != TileCreate || got[1] != TileProject || got[2] != TileProject {
		t.Fatalf("unexpected tiles %v", got)
	}
	if view.Tiles[1].Label() != "One" || view.Tiles[2].Label() != UntitledStory {
		t.Fatalf("unexpected labels %q, %q", view.Tiles[1].Label(), view.Tiles[2].Label())
	}
}

func TestViewEmptyAfterLoad(t *testing.T) {
	ctrl := newController(&backendStub{}, "")
	ctrl.Load(context.Background())

	got := kinds(ctrl.View())
	if len(got) != 2 || got[1] != TileEmpty {
		t.Fatalf("unexpected tiles %v", got)
	}
}

func TestViewEmptyWhenListFails(t *testing.T) {
	ctrl := newController(&backendStub{list: func(context.Context, string) ([]remote.Project, error) {
		return nil, &remote.Error{Kind: remote.KindUnavailable}
	}}, "Asha")
	ctrl.Load(context.Background())

	view := ctrl.View()
	if got := kinds(view); len(got) != 2 || got[1] != TileEmpty {
		t.Fatalf("unexpected tiles %v", got)
	}
	if len(view.Templates) != 3 {
		t.Fatal("expected templates regardless of list failure")
	}
}

func TestDeleteConfirmedRemovesImmediately(t *testing.T) {
	backend := &backendStub{list: twoProjects}
	ctrl := newController(backend, "Asha")
	ctrl.Load(context.Background())
	confirm := &recordingConfirmer{answer: true}

	if !ctrl.Delete(context.Background(), "p1", confirm) {
		t.Fatal("expected delete to proceed")
	}
	if len(confirm.questions) != 1 || confirm.questions[0] != DeletePrompt {
		t.Fatalf("unexpected prompts %v", confirm.questions)
	}
	if got := projectIDs(ctrl.View()); len(got) != 1 || got[0] != "p2" {
		t.Fatalf("expected [p2], got %v", got)
	}
}

func TestDeleteDeclinedChangesNothing(t *testing.T) {
	backend := &backendStub{list: twoProjects}
	ctrl := newController(backend, "Asha")
	ctrl.Load(context.Background())

	if ctrl.Delete(context.Background(), "p1", ConfirmFunc(func(string) bool { return false })) {
		t.Fatal("expected delete to be declined")
	}
	if len(backend.deleted) != 0 {
		t.Fatal("expected no remote call")
	}
	if got := projectIDs(ctrl.View()); len(got) != 2 {
		t.Fatalf("expected both projects, got %v", got)
	}
}

func TestDeleteRemoteFailureKeepsLocalRemoval(t *testing.T) {
	backend := &backendStub{list: twoProjects, failDel: true}
	ctrl := newController(backend, "Asha")
	ctrl.Load(context.Background())

	ctrl.Delete(context.Background(), "p1", ConfirmFunc(func(string) bool { return true }))
	if got := projectIDs(ctrl.View()); len(got) != 1 || got[0] != "p2" {
		t.Fatalf("expected [p2], got %v", got)
	}
}

func TestOpenTemplate(t *testing.T) {
	ctrl := newController(&backendStub{}, "Asha")

	doc, err := ctrl.OpenTemplate(1)
	if err != nil || doc != "/Dhoni's Dream Bat.pdf" {
		t.Fatalf("unexpected document %q (%v)", doc, err)
	}
	if _, err := ctrl.OpenTemplate(99); err == nil {
		t.Fatal("expected error for unknown template")
	}
}
