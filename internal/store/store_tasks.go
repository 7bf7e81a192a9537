package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"labeldesk/internal/song"
)

// ErrTaskClosed rejects input against a submitted or approved task.
var ErrTaskClosed = errors.New("task no longer accepts input")

// FindOpenTask returns the open task for (song, item), or ErrNotFound.
func (s *Store) FindOpenTask(ctx context.Context, songID, itemID int64) (*song.Task, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+taskColumns+` FROM tasks
         WHERE song_id = ? AND checklist_item_id = ? AND state = ?
         ORDER BY created_at LIMIT 1`,
		songID,
		itemID,
		song.TaskOpen,
	)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("open task for item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find open task: %w", err)
	}
	return task, nil
}

// GetTask fetches a task by identifier.
func (s *Store) GetTask(ctx context.Context, id string) (*song.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// CreateTask inserts a fresh open task instance for a checklist item.
func (s *Store) CreateTask(ctx context.Context, songID, itemID int64) (*song.Task, error) {
	id := uuid.NewString()
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO tasks (id, song_id, checklist_item_id, state, created_at)
         VALUES (?, ?, ?, ?, ?)`,
		id,
		songID,
		itemID,
		song.TaskOpen,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// ListTasks returns every task instance for a checklist item in creation
// order.
func (s *Store) ListTasks(ctx context.Context, songID, itemID int64) ([]*song.Task, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+taskColumns+` FROM tasks
         WHERE song_id = ? AND checklist_item_id = ? ORDER BY created_at`,
		songID,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*song.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// SubmitTask records the task's payload and closes it. Review-gated items
// move the task to submitted and count it as pending review; others approve
// immediately and credit the item's completed instances.
func (s *Store) SubmitTask(ctx context.Context, taskID, payloadJSON, byName string) (*song.Task, error) {
	ctx = ensureContext(ctx)
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.IsClosed() {
		return nil, ErrTaskClosed
	}
	item, err := s.GetItem(ctx, task.SongID, task.ChecklistItemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin submit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if item.RequiresReview() {
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE tasks SET state = ?, payload_json = ?, submitted_at = ? WHERE id = ?`,
			song.TaskSubmitted, nullableString(payloadJSON), now, taskID,
		); err != nil {
			return nil, fmt.Errorf("submit task: %w", err)
		}
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE checklist_items
             SET pending_review_count = COALESCE(pending_review_count, 0) + 1, updated_at = ?
             WHERE id = ?`,
			now, item.ID,
		); err != nil {
			return nil, fmt.Errorf("count pending review: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE tasks SET state = ?, payload_json = ?, submitted_at = ?, completed_at = ? WHERE id = ?`,
			song.TaskApproved, nullableString(payloadJSON), now, now, taskID,
		); err != nil {
			return nil, fmt.Errorf("approve task: %w", err)
		}
		if err := creditInstance(ctx, tx, item, byName, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submit: %w", err)
	}
	return s.GetTask(ctx, taskID)
}

// ApproveTask moves a submitted task to approved, shifting the instance
// from pending review to completed.
func (s *Store) ApproveTask(ctx context.Context, taskID, byName string) (*song.Task, error) {
	ctx = ensureContext(ctx)
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.State != song.TaskSubmitted {
		return nil, fmt.Errorf("approve from %s: %w", task.State, ErrTaskClosed)
	}
	item, err := s.GetItem(ctx, task.SongID, task.ChecklistItemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE tasks SET state = ?, completed_at = ? WHERE id = ?`,
		song.TaskApproved, now, taskID,
	); err != nil {
		return nil, fmt.Errorf("approve task: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE checklist_items
         SET pending_review_count = MAX(COALESCE(pending_review_count, 0) - 1, 0), updated_at = ?
         WHERE id = ?`,
		now, item.ID,
	); err != nil {
		return nil, fmt.Errorf("uncount pending review: %w", err)
	}
	if err := creditInstance(ctx, tx, item, byName, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit approve: %w", err)
	}
	return s.GetTask(ctx, taskID)
}

// creditInstance increments the item's completed instances, marking the
// item itself complete once the quantity is satisfied. completed_count
// never exceeds quantity.
func creditInstance(ctx context.Context, tx *sql.Tx, item *song.ChecklistItem, byName, now string) error {
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE checklist_items
         SET completed_count = MIN(COALESCE(completed_count, 0) + 1, MAX(COALESCE(quantity, 1), 1)),
             updated_at = ?
         WHERE id = ?`,
		now, item.ID,
	); err != nil {
		return fmt.Errorf("credit task instance: %w", err)
	}
	if _, err := tx.ExecContext(
		ctx,
		`UPDATE checklist_items
         SET is_complete = 1, completed_at = COALESCE(completed_at, ?), completed_by_name = COALESCE(completed_by_name, ?), updated_at = ?
         WHERE id = ? AND COALESCE(completed_count, 0) >= MAX(COALESCE(quantity, 1), 1)`,
		now, nullableString(strings.TrimSpace(byName)), now, item.ID,
	); err != nil {
		return fmt.Errorf("complete task-backed item: %w", err)
	}
	return nil
}
