// Package dashboard assembles what a signed-in person sees: their stories,
// the create affordance, and the template catalog.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"narrator/internal/library"
	"narrator/internal/templates"
)

// DeletePrompt is the question asked before a story is deleted.
const DeletePrompt = "Are you sure you want to delete this story?"

// UntitledStory labels a project without a title.
const UntitledStory = "Untitled Story"

// TileKind distinguishes entries of the project column.
type TileKind int

// Tile kinds in display order.
const (
	TileCreate TileKind = iota
	TileLoading
	TileProject
	TileEmpty
)

// Tile is one entry of the project column. Project is set for TileProject only.
type Tile struct {
	Kind    TileKind
	Project library.Project
}

// Label is the text shown for the tile.
func (t Tile) Label() string {
	switch t.Kind {
	case TileCreate:
		return "Make Your Own Project"
	case TileLoading:
		return "Loading stories..."
	case TileEmpty:
		return "No stories woven yet."
	default:
		if strings.TrimSpace(t.Project.Title) == "" {
			return UntitledStory
		}
		return t.Project.Title
	}
}

// View is the rendered state of the dashboard.
type View struct {
	Greeting  string
	Tiles     []Tile
	Templates []templates.Template
}

// Confirmer asks the person a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(question string) bool {
	return f(question)
}

// Controller drives the dashboard for one session.
type Controller struct {
	store *library.Store
}

// NewController constructs a Controller over store.
func NewController(store *library.Store) *Controller {
	return &Controller{store: store}
}

// Load fetches the session's projects. Failures leave an empty list.
func (c *Controller) Load(ctx context.Context) {
	c.store.Refresh(ctx)
}

// View returns the current dashboard state.
func (c *Controller) View() View {
	tiles := []Tile{{Kind: TileCreate}}
	switch projects := c.store.Projects(); {
	case c.store.Loading():
		tiles = append(tiles, Tile{Kind: TileLoading})
	case len(projects) > 0:
		for _, p := range projects {
			tiles = append(tiles, Tile{Kind: TileProject, Project: p})
		}
	case c.store.Loaded():
		tiles = append(tiles, Tile{Kind: TileEmpty})
	default:
		tiles = append(tiles, Tile{Kind: TileLoading})
	}

	return View{
		Greeting:  Greeting(c.store.Owner().Name),
		Tiles:     tiles,
		Templates: templates.All(),
	}
}

// Greeting builds the headline for a display name.
func Greeting(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "WELCOME STORYTELLER"
	}
	return "WELCOME " + strings.ToUpper(name)
}

// Delete removes a project after confirmation and reports whether the
// person agreed. The local list changes before the backend answers.
func (c *Controller) Delete(ctx context.Context, id string, confirm Confirmer) bool {
	if !confirm.Confirm(DeletePrompt) {
		return false
	}
	c.store.Delete(ctx, id)
	return true
}

// OpenTemplate returns the document of the template with the given ID.
func (c *Controller) OpenTemplate(id int) (string, error) {
	tmpl, ok := templates.Find(id)
	if !ok {
		return "", fmt.Errorf("template %d not found", id)
	}
	return tmpl.Document, nil
}
