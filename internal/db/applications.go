package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmartin/resume-dash/internal/types"
)

const applicationColumns = `id, user_id, company, role, location, job_url, job_description,
	status, resume_config, applied_at, notes, referral, salary_range, created_at, updated_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var config []byte
	err := row.Scan(&a.ID, &a.UserID, &a.Company, &a.Role, &a.Location, &a.JobURL,
		&a.JobDescription, &a.Status, &config, &a.AppliedAt, &a.Notes, &a.Referral,
		&a.SalaryRange, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(config) > 0 {
		if err := json.Unmarshal(config, &a.ResumeConfig); err != nil {
			return nil, fmt.Errorf("failed to decode resume config: %w", err)
		}
	}
	return &a, nil
}

// ListApplications returns the user's applications, newest application
// first.
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY applied_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// GetApplication retrieves one application, or nil when absent.
func (db *DB) GetApplication(ctx context.Context, userID, id uuid.UUID) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 AND id = $2`,
		userID, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// CreateApplication inserts a new application record. A zero AppliedAt
// defaults to now.
func (db *DB) CreateApplication(ctx context.Context, app *types.Application) (*types.Application, error) {
	config, err := json.Marshal(app.ResumeConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume config: %w", err)
	}
	appliedAt := app.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = time.Now().UTC()
	}
	status := app.Status
	if status == "" {
		status = types.StatusApplied
	}

	created, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, company, role, location, job_url, job_description,
		                           status, resume_config, applied_at, notes, referral, salary_range)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+applicationColumns,
		app.UserID, app.Company, app.Role, app.Location, app.JobURL, app.JobDescription,
		status, config, appliedAt, app.Notes, app.Referral, app.SalaryRange,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return created, nil
}

// ApplicationUpdate holds the mutable application fields. Nil pointers are
// left untouched.
type ApplicationUpdate struct {
	Status      *types.Status
	Notes       *string
	Referral    *string
	SalaryRange *string
}

// UpdateApplication applies a partial update and returns the new row, or
// nil when the application does not exist.
func (db *DB) UpdateApplication(ctx context.Context, userID, id uuid.UUID, update ApplicationUpdate) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET
		   status       = COALESCE($3, status),
		   notes        = COALESCE($4, notes),
		   referral     = COALESCE($5, referral),
		   salary_range = COALESCE($6, salary_range),
		   updated_at   = NOW()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+applicationColumns,
		userID, id, update.Status, update.Notes, update.Referral, update.SalaryRange,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return a, nil
}

// DeleteApplication removes an application. Returns false when it did not
// exist.
func (db *DB) DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM applications WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
