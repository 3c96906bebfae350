package projects

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLength         = 200
	maxCoverImageBytes     = 5 * 1024 * 1024
	maxCoverImageURLLength = 4096
)

// Service orchestrates validation and persistence for projects.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a Service with the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the owner's projects. An empty owner yields an empty list.
func (s *Service) List(ctx context.Context, ownerID string) ([]Project, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return []Project{}, nil
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// Save creates a project, or updates it when the ID already exists for the same owner.
func (s *Service) Save(ctx context.Context, input SaveInput) (Project, error) {
	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return Project{}, validationErr("userId is required")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Project{}, validationErr("title is required")
	}
	if len(title) > maxTitleLength {
		return Project{}, validationErr(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	coverImage, err := sanitizeCoverImage(input.CoverImage)
	if err != nil {
		return Project{}, err
	}

	pages, err := normalizePages(input.Pages)
	if err != nil {
		return Project{}, err
	}

	now := s.now()
	id := strings.TrimSpace(input.ID)
	if id != "" {
		existing, err := s.repo.Get(ctx, id)
		switch {
		case err == nil:
			if existing.OwnerID != ownerID {
				return Project{}, ErrNotFound
			}
			existing.Title = title
			existing.Date = strings.TrimSpace(input.Date)
			existing.CoverImage = coverImage
			existing.Pages = pages
			existing.UpdatedAt = now
			return s.repo.Update(ctx, existing)
		case !errors.Is(err, ErrNotFound):
			return Project{}, err
		}
	} else {
		id = uuid.NewString()
	}

	return s.repo.Create(ctx, Project{
		ID:         id,
		OwnerID:    ownerID,
		Title:      title,
		Date:       strings.TrimSpace(input.Date),
		CoverImage: coverImage,
		Pages:      pages,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func normalizePages(raw json.RawMessage) (json.RawMessage, error) {
	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return json.RawMessage("[]"), nil
	}
	var pages []json.RawMessage
	if err := json.Unmarshal(raw, &pages); err != nil {
		return nil, validationErr("pages must be a JSON array")
	}
	return raw, nil
}

// sanitizeCoverImage accepts an empty value, a site-relative path, an HTTPS
// URL, or a base64 image data URI.
func sanitizeCoverImage(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	if strings.HasPrefix(trimmed, "data:") {
		header, data, found := strings.Cut(trimmed, ",")
		if !found {
			return "", validationErr("coverImage data URI is invalid")
		}
		mimeType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
		if !strings.HasPrefix(mimeType, "image/") {
			return "", validationErr("coverImage must be an image")
		}
		if _, err := base64.StdEncoding.DecodeString(data); err != nil {
			return "", validationErr("coverImage must contain valid base64 image data")
		}
		if len(data)*3/4 > maxCoverImageBytes {
			return "", validationErr(fmt.Sprintf("coverImage must be smaller than %dMB", maxCoverImageBytes/1024/1024))
		}
		return trimmed, nil
	}

	if len(trimmed) > maxCoverImageURLLength {
		return "", validationErr(fmt.Sprintf("coverImage must be shorter than %d characters", maxCoverImageURLLength))
	}

	if strings.HasPrefix(trimmed, "/") && !strings.HasPrefix(trimmed, "//") {
		return trimmed, nil
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return "", validationErr("coverImage must be an HTTPS URL, a site path, or a data URI")
	}
	return trimmed, nil
}
