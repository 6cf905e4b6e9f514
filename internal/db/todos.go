package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jmartin/resume-dash/internal/types"
)

const todoColumns = `id, user_id, text, is_done, sort_order, created_at, updated_at`

func scanTodo(row pgx.Row) (*types.Todo, error) {
	var t types.Todo
	if err := row.Scan(&t.ID, &t.UserID, &t.Text, &t.IsDone, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTodos returns the user's todos in display order.
func (db *DB) ListTodos(ctx context.Context, userID uuid.UUID) ([]types.Todo, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY sort_order, created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []types.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

// CreateTodo appends a todo at the end of the list.
func (db *DB) CreateTodo(ctx context.Context, userID uuid.UUID, text string) (*types.Todo, error) {
	t, err := scanTodo(db.pool.QueryRow(ctx,
		`INSERT INTO todos (user_id, text, sort_order)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM todos WHERE user_id = $1))
		 RETURNING `+todoColumns,
		userID, text,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return t, nil
}

// TodoUpdate is a partial todo update; nil fields are left unchanged.
type TodoUpdate struct {
	Text   *string
	IsDone *bool
}

// UpdateTodo applies a partial update, returning nil when the todo does not
// exist for the user.
func (db *DB) UpdateTodo(ctx context.Context, userID, id uuid.UUID, update TodoUpdate) (*types.Todo, error) {
	t, err := scanTodo(db.pool.QueryRow(ctx,
		`UPDATE todos SET
			text = COALESCE($3, text),
			is_done = COALESCE($4, is_done),
			updated_at = NOW()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+todoColumns,
		userID, id, update.Text, update.IsDone,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return t, nil
}

// DeleteTodo removes one todo.
func (db *DB) DeleteTodo(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM todos WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReorderTodos rewrites sort_order to match the given id order and returns
// the reordered list. Ids not owned by the user are ignored; todos absent
// from ids keep their position relative to each other after the listed ones.
func (db *DB) ReorderTodos(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]types.Todo, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	for i, id := range ids {
		if _, err := tx.Exec(ctx,
			`UPDATE todos SET sort_order = $3, updated_at = NOW()
			 WHERE user_id = $1 AND id = $2`,
			userID, id, i+1,
		); err != nil {
			return nil, fmt.Errorf("failed to reorder todo %s: %w", id, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reorder: %w", err)
	}

	return db.ListTodos(ctx, userID)
}

// ClearCompletedTodos deletes every done todo, returning how many went.
func (db *DB) ClearCompletedTodos(ctx context.Context, userID uuid.UUID) (int, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM todos WHERE user_id = $1 AND is_done`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear completed todos: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
