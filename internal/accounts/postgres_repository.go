package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository persists accounts to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userSelect = `
SELECT id, email, COALESCE(password_hash, '') AS password_hash, name, age,
       oauth_provider, oauth_provider_id, created_at, updated_at
FROM users
`

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// Create inserts a new account.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	const insert = `
INSERT INTO users (id, email, password_hash, name, age, oauth_provider, oauth_provider_id, created_at, updated_at)
VALUES (:id, :email, NULLIF(:password_hash, ''), :name, :age, :oauth_provider, :oauth_provider_id, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, insert, user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return User{}, ErrAlreadyExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindByID returns an account by primary key.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	return r.getOne(ctx, userSelect+" WHERE id = $1", id)
}

// FindByEmail returns an account by email, ignoring case.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, userSelect+" WHERE lower(email) = lower($1)", email)
}

// FindByOAuth returns the account linked to a provider subject.
func (r *PostgresRepository) FindByOAuth(ctx context.Context, provider, providerID string) (User, error) {
	return r.getOne(ctx, userSelect+" WHERE oauth_provider = $1 AND oauth_provider_id = $2", provider, providerID)
}

// Update writes profile and credential fields of an existing account.
func (r *PostgresRepository) Update(ctx context.Context, user User) (User, error) {
	const update = `
UPDATE users
SET email = :email, password_hash = NULLIF(:password_hash, ''), name = :name, age = :age,
    oauth_provider = :oauth_provider, oauth_provider_id = :oauth_provider_id, updated_at = :updated_at
WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, update, user)
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}
