package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"narrator/internal/accounts"
	"narrator/internal/projects"
)

const (
	demoEmail    = "demo@narrator.local"
	demoPassword = "storytime"
)

// seedLocalAccounts returns a demo account for local development. Its
// password is demoPassword.
func seedLocalAccounts() ([]accounts.User, error) {
	hash, err := accounts.BcryptHasher{}.Hash(demoPassword)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	now := time.Now().UTC()
	return []accounts.User{
		{
			ID:           uuid.NewString(),
			Email:        demoEmail,
			PasswordHash: hash,
			Name:         "Demo Storyteller",
			Age:          "8",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}, nil
}

// seedLocalProjects returns a few stories owned by the first demo account.
func seedLocalProjects(users []accounts.User) []projects.Project {
	if len(users) == 0 {
		return nil
	}
	owner := users[0].ID
	now := time.Now().UTC()

	page := func(text string) json.RawMessage {
		raw, _ := json.Marshal([]map[string]string{{"text": text}})
		return raw
	}

	return []projects.Project{
		{
			ID:        uuid.NewString(),
			OwnerID:   owner,
			Title:     "The Moon Who Forgot to Rise",
			Date:      now.Format("Jan 2, 2006"),
			Pages:     page("One night the moon overslept, and the stars went looking for it."),
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        uuid.NewString(),
			OwnerID:   owner,
			Title:     "Pip and the Paper Boat",
			Date:      now.Add(-24 * time.Hour).Format("Jan 2, 2006"),
			Pages:     page("Pip folded a boat from yesterday's newspaper and set it on the puddle."),
			CreatedAt: now.Add(-24 * time.Hour),
			UpdatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID:        uuid.NewString(),
			OwnerID:   owner,
			Date:      now.Add(-48 * time.Hour).Format("Jan 2, 2006"),
			Pages:     json.RawMessage(`[]`),
			CreatedAt: now.Add(-48 * time.Hour),
			UpdatedAt: now.Add(-48 * time.Hour),
		},
	}
}
