package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/section"
	"github.com/jmartin/resume-dash/internal/types"
)

// ListSectionConfigs returns the user's per-key matcher settings.
func (db *DB) ListSectionConfigs(ctx context.Context, userID uuid.UUID) ([]types.SectionConfig, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, section_type, section_key, priority, fixed_flavor
		 FROM section_configs WHERE user_id = $1 ORDER BY section_type, section_key`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list section configs: %w", err)
	}
	defer rows.Close()

	var configs []types.SectionConfig
	for rows.Next() {
		var c types.SectionConfig
		if err := rows.Scan(&c.ID, &c.UserID, &c.SectionType, &c.SectionKey, &c.Priority, &c.FixedFlavor); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// UpsertSectionConfig writes the settings for one (type, key) pair,
// replacing any previous row.
func (db *DB) UpsertSectionConfig(ctx context.Context, config *types.SectionConfig) (*types.SectionConfig, error) {
	var out types.SectionConfig
	err := db.pool.QueryRow(ctx,
		`INSERT INTO section_configs (user_id, section_type, section_key, priority, fixed_flavor)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, section_type, section_key)
		 DO UPDATE SET priority = $4, fixed_flavor = $5
		 RETURNING id, user_id, section_type, section_key, priority, fixed_flavor`,
		config.UserID, config.SectionType, config.SectionKey, config.Priority, config.FixedFlavor,
	).Scan(&out.ID, &out.UserID, &out.SectionType, &out.SectionKey, &out.Priority, &out.FixedFlavor)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert section config: %w", err)
	}
	return &out, nil
}

// DeleteSectionConfig removes the settings for one (type, key) pair,
// restoring default matcher behavior for it.
func (db *DB) DeleteSectionConfig(ctx context.Context, userID uuid.UUID, sectionType section.Type, sectionKey string) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM section_configs WHERE user_id = $1 AND section_type = $2 AND section_key = $3`,
		userID, sectionType, sectionKey,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete section config: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
