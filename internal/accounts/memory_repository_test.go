package accounts

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryRepositoryUpdateReindexesEmail(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: "u1", Email: "old@example.com"}})
	ctx := context.Background()

	if _, err := repo.Update(ctx, User{ID: "u1", Email: "new@example.com"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := repo.FindByEmail(ctx, "old@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected old email to be released, got %v", err)
	}
	got, err := repo.FindByEmail(ctx, "NEW@example.com")
	if err != nil || got.ID != "u1" {
		t.Fatalf("expected lookup by new email, got %+v, %v", got, err)
	}
}

func TestInMemoryRepositoryUpdateMissing(t *testing.T) {
	repo := NewInMemoryRepository(nil)

	if _, err := repo.Update(context.Background(), User{ID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
