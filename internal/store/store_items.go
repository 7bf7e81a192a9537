package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"labeldesk/internal/song"
)

// ErrAutoValidated rejects user mutations against auto-validated items.
var ErrAutoValidated = errors.New("item is auto-validated and cannot be toggled")

// ErrTaskBacked rejects plain toggles against items that complete through
// task instances.
var ErrTaskBacked = errors.New("item completes through its backing task")

// TemplateItem describes one checklist row to attach from a stage template.
type TemplateItem struct {
	Stage          song.Stage
	Category       string
	SortOrder      int
	Description    string
	HelpText       string
	ValidationType song.ValidationType
	RecordingID    *int64
	RecordingTitle string
	Detail         *song.TemplateItemDetail
}

// AttachTemplate bulk-inserts a stage template's items for a song. Items are
// created incomplete; the engine never deletes them afterwards.
func (s *Store) AttachTemplate(ctx context.Context, songID int64, items []TemplateItem) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	ctx = ensureContext(ctx)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin attach tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for _, item := range items {
		if song.StageIndex(item.Stage) < 0 {
			return 0, fmt.Errorf("unknown stage %q", item.Stage)
		}
		validation := item.ValidationType
		if validation == "" {
			validation = song.ValidationManual
		}
		var hasInputs, requiresReview, quantity, completedCount, pendingReview any
		if item.Detail != nil {
			hasInputs = boolToInt(item.Detail.HasTaskInputs)
			requiresReview = boolToInt(item.Detail.RequiresReview)
			quantity = item.Detail.Quantity
			completedCount = item.Detail.CompletedCount
			pendingReview = item.Detail.PendingReviewCount
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO checklist_items (
                song_id, stage, category, sort_order, description, help_text,
                validation_type, is_complete, recording_id, recording_title,
                has_task_inputs, requires_review, quantity, completed_count,
                pending_review_count, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			songID,
			item.Stage,
			strings.TrimSpace(item.Category),
			item.SortOrder,
			strings.TrimSpace(item.Description),
			nullableString(item.HelpText),
			validation,
			nullableInt64(item.RecordingID),
			nullableString(item.RecordingTitle),
			hasInputs,
			requiresReview,
			quantity,
			completedCount,
			pendingReview,
			timestamp,
			timestamp,
		); err != nil {
			return 0, fmt.Errorf("insert checklist item: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit attach: %w", err)
	}
	return inserted, nil
}

// ListItems returns the full checklist snapshot for a song in insertion
// order. Derived views re-group this snapshot; it is never filtered here.
func (s *Store) ListItems(ctx context.Context, songID int64) ([]song.ChecklistItem, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM checklist_items WHERE song_id = ? ORDER BY id`,
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	var items []song.ChecklistItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist items: %w", err)
	}
	return items, nil
}

// GetItem fetches a single checklist item scoped to a song.
func (s *Store) GetItem(ctx context.Context, songID, itemID int64) (*song.ChecklistItem, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+itemColumns+` FROM checklist_items WHERE id = ? AND song_id = ?`,
		itemID,
		songID,
	)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checklist item %d: %w", itemID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get checklist item: %w", err)
	}
	return item, nil
}

// ToggleItem flips is_complete on a manual, non-task item. Completing
// stamps completed_at and completed_by_name; un-completing clears both.
func (s *Store) ToggleItem(ctx context.Context, songID, itemID int64, byName string) (*song.ChecklistItem, error) {
	item, err := s.GetItem(ctx, songID, itemID)
	if err != nil {
		return nil, err
	}
	if item.ValidationType == song.ValidationAuto {
		return nil, ErrAutoValidated
	}
	if item.HasTaskInputs() || item.Quantity() > 1 {
		return nil, ErrTaskBacked
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if item.IsComplete {
		err = s.execWithoutResultRetry(
			ctx,
			`UPDATE checklist_items
             SET is_complete = 0, completed_at = NULL, completed_by_name = NULL, updated_at = ?
             WHERE id = ? AND song_id = ?`,
			now, itemID, songID,
		)
	} else {
		err = s.execWithoutResultRetry(
			ctx,
			`UPDATE checklist_items
             SET is_complete = 1, completed_at = ?, completed_by_name = ?, updated_at = ?
             WHERE id = ? AND song_id = ?`,
			now, nullableString(strings.TrimSpace(byName)), now, itemID, songID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle checklist item: %w", err)
	}
	return s.GetItem(ctx, songID, itemID)
}

// AssignItem sets the assignee display name on an item.
func (s *Store) AssignItem(ctx context.Context, songID, itemID int64, name string) (*song.ChecklistItem, error) {
	if _, err := s.GetItem(ctx, songID, itemID); err != nil {
		return nil, err
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE checklist_items SET assigned_to_name = ?, updated_at = ? WHERE id = ? AND song_id = ?`,
		nullableString(strings.TrimSpace(name)),
		time.Now().UTC().Format(time.RFC3339Nano),
		itemID,
		songID,
	); err != nil {
		return nil, fmt.Errorf("assign checklist item: %w", err)
	}
	return s.GetItem(ctx, songID, itemID)
}

// SetItemAssetURL stores a reference URL on an item. On manual items this
// is a parallel completion path: a non-empty URL marks the item complete as
// a documented side effect. Auto items record the URL for the validation
// sweep without changing completion.
func (s *Store) SetItemAssetURL(ctx context.Context, songID, itemID int64, url, byName string) (*song.ChecklistItem, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("asset url is required")
	}
	item, err := s.GetItem(ctx, songID, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if item.ValidationType == song.ValidationManual && !item.IsComplete {
		err = s.execWithoutResultRetry(
			ctx,
			`UPDATE checklist_items
             SET asset_url = ?, is_complete = 1, completed_at = ?, completed_by_name = ?, updated_at = ?
             WHERE id = ? AND song_id = ?`,
			url, now, nullableString(strings.TrimSpace(byName)), now, itemID, songID,
		)
	} else {
		err = s.execWithoutResultRetry(
			ctx,
			`UPDATE checklist_items SET asset_url = ?, updated_at = ? WHERE id = ? AND song_id = ?`,
			url, now, itemID, songID,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("set asset url: %w", err)
	}
	return s.GetItem(ctx, songID, itemID)
}

// ValidateAutoItems completes every incomplete auto-validated item whose
// validation evidence (a recorded asset URL) is present. Returns the number
// of items completed by the sweep.
func (s *Store) ValidateAutoItems(ctx context.Context, songID int64) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE checklist_items
         SET is_complete = 1, completed_at = ?, completed_by_name = 'system validation', updated_at = ?
         WHERE song_id = ? AND validation_type = ? AND is_complete = 0
           AND asset_url IS NOT NULL AND TRIM(asset_url) <> ''`,
		now,
		now,
		songID,
		song.ValidationAuto,
	)
	if err != nil {
		return 0, fmt.Errorf("validate auto items: %w", err)
	}
	return res.RowsAffected()
}
