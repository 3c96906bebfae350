package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Project is a story record as served by the backend.
type Project struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"userId"`
	Title      string          `json:"title"`
	Date       string          `json:"date"`
	CoverImage string          `json:"coverImage,omitempty"`
	Pages      json.RawMessage `json:"pages,omitempty"`
}

// ProjectInput is the payload for creating or replacing a project. An empty
// ID asks the backend to assign one.
type ProjectInput struct {
	ID         string          `json:"id,omitempty"`
	OwnerID    string          `json:"userId"`
	Title      string          `json:"title"`
	Date       string          `json:"date,omitempty"`
	CoverImage string          `json:"coverImage,omitempty"`
	Pages      json.RawMessage `json:"pages,omitempty"`
}

// ProjectClient lists, saves, and deletes projects on the backend.
type ProjectClient struct {
	transport *Transport
}

// NewProjectClient constructs a ProjectClient.
func NewProjectClient(transport *Transport) *ProjectClient {
	return &ProjectClient{transport: transport}
}

// List returns the projects owned by ownerID.
func (c *ProjectClient) List(ctx context.Context, ownerID string) ([]Project, error) {
	var list []Project
	if err := c.transport.do(ctx, http.MethodGet, "/api/projects", url.Values{"userId": {ownerID}}, nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Project{}
	}
	return list, nil
}

// Save creates or replaces a project.
func (c *ProjectClient) Save(ctx context.Context, input ProjectInput) (Project, error) {
	var project Project
	err := c.transport.do(ctx, http.MethodPost, "/api/projects", nil, input, &project)
	return project, err
}

// Delete removes a project. A project the backend no longer knows counts as deleted.
func (c *ProjectClient) Delete(ctx context.Context, projectID string) error {
	err := c.transport.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(projectID), nil, nil, nil)
	if KindOf(err) == KindNotFound {
		return nil
	}
	return err
}
