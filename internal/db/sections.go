package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmartin/resume-dash/internal/section"
)

const sectionColumns = `id, user_id, type, key, flavor, version, content, is_current, tags, created_at, updated_at`

func scanSection(row pgx.Row) (*section.Section, error) {
	var s section.Section
	var content []byte
	err := row.Scan(&s.ID, &s.UserID, &s.Type, &s.Key, &s.Flavor, &s.Version,
		&content, &s.IsCurrent, &s.Tags, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(content, &s.Content); err != nil {
		return nil, fmt.Errorf("failed to decode section content: %w", err)
	}
	return &s, nil
}

// ListSections returns every section row for the user, all versions
// included, ordered oldest first so library grouping is deterministic.
func (db *DB) ListSections(ctx context.Context, userID uuid.UUID) ([]section.Section, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []section.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *s)
	}
	return sections, rows.Err()
}

// ListSectionVersions returns every version of one flavor, oldest first.
func (db *DB) ListSectionVersions(ctx context.Context, userID uuid.UUID, id section.ID) ([]section.Section, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sectionColumns+` FROM sections
		 WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4
		 ORDER BY created_at, id`,
		userID, id.Type, id.Key, id.Flavor,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list section versions: %w", err)
	}
	defer rows.Close()

	var sections []section.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *s)
	}
	return sections, rows.Err()
}

// GetSection retrieves one exact version. Returns nil when the row does not
// exist.
func (db *DB) GetSection(ctx context.Context, userID uuid.UUID, id section.ID, version string) (*section.Section, error) {
	s, err := scanSection(db.pool.QueryRow(ctx,
		`SELECT `+sectionColumns+` FROM sections
		 WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4 AND version = $5`,
		userID, id.Type, id.Key, id.Flavor, version,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}
	return s, nil
}

// GetCurrentSection retrieves the current version of a flavor, or nil.
func (db *DB) GetCurrentSection(ctx context.Context, userID uuid.UUID, id section.ID) (*section.Section, error) {
	s, err := scanSection(db.pool.QueryRow(ctx,
		`SELECT `+sectionColumns+` FROM sections
		 WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4 AND is_current`,
		userID, id.Type, id.Key, id.Flavor,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get current section: %w", err)
	}
	return s, nil
}

// CreateSection inserts a brand new flavor at the initial version.
func (db *DB) CreateSection(ctx context.Context, userID uuid.UUID, id section.ID, content section.Content, tags []string) (*section.Section, error) {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	s, err := scanSection(db.pool.QueryRow(ctx,
		`INSERT INTO sections (user_id, type, key, flavor, version, content, is_current, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		 RETURNING `+sectionColumns,
		userID, id.Type, id.Key, id.Flavor, section.InitialVersion, contentJSON, tags,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return s, nil
}

// UpdateSection writes new content as a fresh version. The previous current
// row is demoted and the new row promoted in one transaction, so a flavor
// never has zero or two current versions.
func (db *DB) UpdateSection(ctx context.Context, userID uuid.UUID, id section.ID, content section.Content) (*section.Section, error) {
	contentJSON, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	var currentVersion string
	var tags []string
	err = tx.QueryRow(ctx,
		`SELECT version, tags FROM sections
		 WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4 AND is_current
		 FOR UPDATE`,
		userID, id.Type, id.Key, id.Flavor,
	).Scan(&currentVersion, &tags)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find current version: %w", err)
	}

	nextVersion, err := section.NextVersion(currentVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to bump version %q: %w", currentVersion, err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE sections SET is_current = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4 AND is_current`,
		userID, id.Type, id.Key, id.Flavor,
	); err != nil {
		return nil, fmt.Errorf("failed to demote current version: %w", err)
	}

	s, err := scanSection(tx.QueryRow(ctx,
		`INSERT INTO sections (user_id, type, key, flavor, version, content, is_current, tags)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
		 RETURNING `+sectionColumns,
		userID, id.Type, id.Key, id.Flavor, nextVersion, contentJSON, tags,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to insert new version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit section update: %w", err)
	}
	return s, nil
}

// DeleteSectionVersion removes one exact version. When the deleted row was
// current, the newest surviving version is promoted so the flavor keeps a
// current row.
func (db *DB) DeleteSectionVersion(ctx context.Context, userID uuid.UUID, id section.ID, version string) (bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	var wasCurrent bool
	err = tx.QueryRow(ctx,
		`DELETE FROM sections
		 WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4 AND version = $5
		 RETURNING is_current`,
		userID, id.Type, id.Key, id.Flavor, version,
	).Scan(&wasCurrent)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete section version: %w", err)
	}

	if wasCurrent {
		if _, err := tx.Exec(ctx,
			`UPDATE sections SET is_current = TRUE, updated_at = NOW()
			 WHERE id = (
			   SELECT id FROM sections
			   WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4
			   ORDER BY created_at DESC, id DESC LIMIT 1
			 )`,
			userID, id.Type, id.Key, id.Flavor,
		); err != nil {
			return false, fmt.Errorf("failed to promote surviving version: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit version delete: %w", err)
	}
	return true, nil
}

// DeleteFlavor removes every version of a flavor. Returns the number of
// rows removed.
func (db *DB) DeleteFlavor(ctx context.Context, userID uuid.UUID, id section.ID) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM sections WHERE user_id = $1 AND type = $2 AND key = $3 AND flavor = $4`,
		userID, id.Type, id.Key, id.Flavor,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete flavor: %w", err)
	}
	return tag.RowsAffected(), nil
}
