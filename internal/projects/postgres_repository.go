package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists projects to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const projectSelect = `
SELECT id, owner_id, title, date, cover_image, pages::text AS pages, created_at, updated_at
FROM projects
`

type projectRow struct {
	ID         string    `db:"id"`
	OwnerID    string    `db:"owner_id"`
	Title      string    `db:"title"`
	Date       string    `db:"date"`
	CoverImage string    `db:"cover_image"`
	Pages      string    `db:"pages"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (row projectRow) toProject() Project {
	return Project{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Title:      row.Title,
		Date:       row.Date,
		CoverImage: row.CoverImage,
		Pages:      json.RawMessage(row.Pages),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func newProjectRow(p Project) projectRow {
	pages := string(p.Pages)
	if pages == "" {
		pages = "[]"
	}
	return projectRow{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Title:      p.Title,
		Date:       p.Date,
		CoverImage: p.CoverImage,
		Pages:      pages,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ListByOwner returns the owner's projects, oldest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Project, error) {
	var rows []projectRow
	if err := r.db.SelectContext(ctx, &rows, projectSelect+" WHERE owner_id = $1 ORDER BY created_at ASC, id ASC", ownerID); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]Project, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toProject())
	}
	return out, nil
}

// Get retrieves a project by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Project, error) {
	var row projectRow
	if err := r.db.GetContext(ctx, &row, projectSelect+" WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, fmt.Errorf("get project: %w", err)
	}
	return row.toProject(), nil
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, project Project) (Project, error) {
	const insert = `
INSERT INTO projects (id, owner_id, title, date, cover_image, pages, created_at, updated_at)
VALUES (:id, :owner_id, :title, :date, :cover_image, CAST(:pages AS jsonb), :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, insert, newProjectRow(project)); err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	return project, nil
}

// Update replaces the content of an existing row.
func (r *PostgresRepository) Update(ctx context.Context, project Project) (Project, error) {
	const update = `
UPDATE projects
SET title = :title, date = :date, cover_image = :cover_image, pages = CAST(:pages AS jsonb), updated_at = :updated_at
WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, update, newProjectRow(project))
	if err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return Project{}, fmt.Errorf("update project: %w", err)
	} else if affected == 0 {
		return Project{}, ErrNotFound
	}
	return project, nil
}

// Delete removes a row by primary key.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
