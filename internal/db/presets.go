package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmartin/resume-dash/internal/types"
)

const presetColumns = `id, user_id, name, resume_config, created_at, updated_at`

func scanPreset(row pgx.Row) (*types.Preset, error) {
	var p types.Preset
	var config []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &config, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(config, &p.ResumeConfig); err != nil {
		return nil, fmt.Errorf("failed to decode preset config: %w", err)
	}
	return &p, nil
}

// ListPresets returns the user's presets ordered by name.
func (db *DB) ListPresets(ctx context.Context, userID uuid.UUID) ([]types.Preset, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer rows.Close()

	var presets []types.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// GetPreset retrieves one preset, or nil when absent.
func (db *DB) GetPreset(ctx context.Context, userID, id uuid.UUID) (*types.Preset, error) {
	p, err := scanPreset(db.pool.QueryRow(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE user_id = $1 AND id = $2`,
		userID, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return p, nil
}

// SavePreset inserts a preset, or overwrites the config when the user
// already has one with that name.
func (db *DB) SavePreset(ctx context.Context, preset *types.Preset) (*types.Preset, error) {
	config, err := json.Marshal(preset.ResumeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preset config: %w", err)
	}

	p, err := scanPreset(db.pool.QueryRow(ctx,
		`INSERT INTO presets (user_id, name, resume_config)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, name) DO UPDATE SET resume_config = $3, updated_at = NOW()
		 RETURNING `+presetColumns,
		preset.UserID, preset.Name, config,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}
	return p, nil
}

// DeletePreset removes a preset. Returns false when it did not exist.
func (db *DB) DeletePreset(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM presets WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
