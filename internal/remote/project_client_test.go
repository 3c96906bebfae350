package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProjectListQueriesOwner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "u1" {
			t.Errorf("unexpected owner %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"p1","userId":"u1","title":"One"},{"id":"p2","userId":"u1","title":"Two"}]`))
	}))
	defer srv.Close()

	list, err := NewProjectClient(NewTransport(srv.URL)).List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 2 || list[0].ID != "p1" || list[1].Title != "Two" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestProjectListNullIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	list, err := NewProjectClient(NewTransport(srv.URL)).List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}
}

func TestProjectDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Project not found"}`))
	}))
	defer srv.Close()

	if err := NewProjectClient(NewTransport(srv.URL)).Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(paths) != 1 || paths[0] != "DELETE /api/projects/p1" {
		t.Fatalf("unexpected requests %v", paths)
	}
}

func TestProjectDeleteServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewProjectClient(NewTransport(srv.URL)).Delete(context.Background(), "p1")
	if KindOf(err) != KindUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
