package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmartin/resume-dash/internal/types"
)

const userColumns = `id, email, name, provider, created_at, updated_at`

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Provider, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertUser creates or refreshes the account row for a sign-in. The email
// is the identity; name and provider follow whatever the provider reported
// last.
func (db *DB) UpsertUser(ctx context.Context, email, name, provider string) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, provider)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET name = $2, provider = $3, updated_at = NOW()
		 RETURNING `+userColumns,
		email, name, provider,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by id, or nil when absent.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// SetUserTokenHash stores the bcrypt hash of the user's current API token.
func (db *DB) SetUserTokenHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET token_hash = $2, updated_at = NOW() WHERE id = $1`,
		id, hash,
	)
	if err != nil {
		return fmt.Errorf("failed to set token hash: %w", err)
	}
	return nil
}

// GetUserTokenHash returns the stored token hash, or empty when none is
// set.
func (db *DB) GetUserTokenHash(ctx context.Context, id uuid.UUID) (string, error) {
	var hash *string
	err := db.pool.QueryRow(ctx,
		`SELECT token_hash FROM users WHERE id = $1`, id,
	).Scan(&hash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get token hash: %w", err)
	}
	if hash == nil {
		return "", nil
	}
	return *hash, nil
}
