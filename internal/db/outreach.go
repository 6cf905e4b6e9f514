package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmartin/resume-dash/internal/outreach"
	"github.com/jmartin/resume-dash/internal/resume"
)

// -----------------------------------------------------------------------------
// Templates
// -----------------------------------------------------------------------------

const templateColumns = `id, user_id, name, content, style, length, created_at`

func scanTemplate(row pgx.Row) (*outreach.Template, error) {
	var t outreach.Template
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Content, &t.Style, &t.Length, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTemplates returns the user's message templates ordered by name.
func (db *DB) ListTemplates(ctx context.Context, userID uuid.UUID) ([]outreach.Template, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+templateColumns+` FROM outreach_templates WHERE user_id = $1 ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []outreach.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// CreateTemplate inserts a message template.
func (db *DB) CreateTemplate(ctx context.Context, t *outreach.Template) (*outreach.Template, error) {
	created, err := scanTemplate(db.pool.QueryRow(ctx,
		`INSERT INTO outreach_templates (user_id, name, content, style, length)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+templateColumns,
		t.UserID, t.Name, t.Content, t.Style, t.Length,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return created, nil
}

// DeleteTemplate removes a template. Returns false when it did not exist.
func (db *DB) DeleteTemplate(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM outreach_templates WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete template: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// -----------------------------------------------------------------------------
// Threads
// -----------------------------------------------------------------------------

const threadColumns = `t.id, t.user_id, t.company, t.contact_name, t.contact_method,
	t.resume_config, t.is_active, t.application_ids, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM outreach_messages m WHERE m.thread_id = t.id),
	(SELECT MAX(m.message_at) FROM outreach_messages m WHERE m.thread_id = t.id)`

func scanThread(row pgx.Row) (*outreach.Thread, error) {
	var th outreach.Thread
	var config []byte
	err := row.Scan(&th.ID, &th.UserID, &th.Company, &th.ContactName, &th.ContactMethod,
		&config, &th.IsActive, &th.ApplicationIDs, &th.CreatedAt, &th.UpdatedAt,
		&th.MessageCount, &th.LastMessageAt)
	if err != nil {
		return nil, err
	}
	if len(config) > 0 {
		th.ResumeConfig = &resume.Config{}
		if err := json.Unmarshal(config, th.ResumeConfig); err != nil {
			return nil, fmt.Errorf("failed to decode thread resume config: %w", err)
		}
	}
	return &th, nil
}

// ListThreads returns the user's threads, most recently updated first, each
// with its message count and last activity time.
func (db *DB) ListThreads(ctx context.Context, userID uuid.UUID) ([]outreach.Thread, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+threadColumns+` FROM outreach_threads t WHERE t.user_id = $1 ORDER BY t.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	var threads []outreach.Thread
	for rows.Next() {
		th, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, *th)
	}
	return threads, rows.Err()
}

// GetThread retrieves one thread, or nil when absent.
func (db *DB) GetThread(ctx context.Context, userID, id uuid.UUID) (*outreach.Thread, error) {
	th, err := scanThread(db.pool.QueryRow(ctx,
		`SELECT `+threadColumns+` FROM outreach_threads t WHERE t.user_id = $1 AND t.id = $2`,
		userID, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return th, nil
}

// CreateThread inserts a new conversation thread.
func (db *DB) CreateThread(ctx context.Context, th *outreach.Thread) (*outreach.Thread, error) {
	appIDs := th.ApplicationIDs
	if appIDs == nil {
		appIDs = []uuid.UUID{}
	}
	var config []byte
	if th.ResumeConfig != nil {
		var err error
		if config, err = json.Marshal(th.ResumeConfig); err != nil {
			return nil, fmt.Errorf("failed to marshal thread resume config: %w", err)
		}
	}
	created, err := scanThread(db.pool.QueryRow(ctx,
		`WITH inserted AS (
		   INSERT INTO outreach_threads (user_id, company, contact_name, contact_method, resume_config, is_active, application_ids)
		   VALUES ($1, $2, $3, $4, $5, TRUE, $6)
		   RETURNING *
		 )
		 SELECT `+threadColumns+` FROM inserted t`,
		th.UserID, th.Company, th.ContactName, th.ContactMethod, config, appIDs,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	return created, nil
}

// ThreadUpdate holds the mutable thread fields. Nil pointers are left
// untouched.
type ThreadUpdate struct {
	ContactName    *string
	ContactMethod  *outreach.ContactMethod
	IsActive       *bool
	ApplicationIDs *[]uuid.UUID
}

// UpdateThread applies a partial update and returns the new row, or nil
// when the thread does not exist.
func (db *DB) UpdateThread(ctx context.Context, userID, id uuid.UUID, update ThreadUpdate) (*outreach.Thread, error) {
	th, err := scanThread(db.pool.QueryRow(ctx,
		`WITH updated AS (
		   UPDATE outreach_threads SET
		     contact_name    = COALESCE($3, contact_name),
		     contact_method  = COALESCE($4, contact_method),
		     is_active       = COALESCE($5, is_active),
		     application_ids = COALESCE($6, application_ids),
		     updated_at      = NOW()
		   WHERE user_id = $1 AND id = $2
		   RETURNING *
		 )
		 SELECT `+threadColumns+` FROM updated t`,
		userID, id, update.ContactName, update.ContactMethod, update.IsActive, update.ApplicationIDs,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}
	return th, nil
}

// DeleteThread removes a thread and its messages.
func (db *DB) DeleteThread(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM outreach_threads WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete thread: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

const messageColumns = `id, thread_id, direction, content, message_at, is_raw_dump, created_at`

func scanMessage(row pgx.Row) (*outreach.Message, error) {
	var m outreach.Message
	err := row.Scan(&m.ID, &m.ThreadID, &m.Direction, &m.Content, &m.MessageAt, &m.IsRawDump, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns a thread's messages in timeline order.
func (db *DB) ListMessages(ctx context.Context, threadID uuid.UUID) ([]outreach.Message, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM outreach_messages
		 WHERE thread_id = $1
		 ORDER BY COALESCE(message_at, created_at), created_at`,
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []outreach.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// CreateMessage appends a message to a thread and bumps the thread's
// updated_at.
func (db *DB) CreateMessage(ctx context.Context, m *outreach.Message) (*outreach.Message, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	created, err := scanMessage(tx.QueryRow(ctx,
		`INSERT INTO outreach_messages (thread_id, direction, content, message_at, is_raw_dump)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+messageColumns,
		m.ThreadID, m.Direction, m.Content, m.MessageAt, m.IsRawDump,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE outreach_threads SET updated_at = NOW() WHERE id = $1`,
		m.ThreadID,
	); err != nil {
		return nil, fmt.Errorf("failed to touch thread: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}
	return created, nil
}

// DeleteMessage removes one message from a thread.
func (db *DB) DeleteMessage(ctx context.Context, threadID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM outreach_messages WHERE thread_id = $1 AND id = $2`,
		threadID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
