package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"labeldesk/internal/song"
)

// EnsureStageStatus returns the stage-status row for (song, stage),
// creating it as not_started when absent. Rows are never deleted; they are
// the durable record of stage progress and survive checklist churn.
func (s *Store) EnsureStageStatus(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error) {
	if song.StageIndex(stage) < 0 {
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO stage_statuses (song_id, stage, state, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (song_id, stage) DO NOTHING`,
		songID,
		stage,
		song.StateNotStarted,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("ensure stage status: %w", err)
	}
	return s.GetStageStatus(ctx, songID, stage)
}

// GetStageStatus fetches the status row for (song, stage).
func (s *Store) GetStageStatus(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+statusColumns+` FROM stage_statuses WHERE song_id = ? AND stage = ?`,
		songID,
		stage,
	)
	status, err := scanStageStatus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stage status %d/%s: %w", songID, stage, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get stage status: %w", err)
	}
	return status, nil
}

// ListStageStatuses returns every status row for a song ordered by the
// canonical stage position. Stages without rows are absent; callers default
// them to not_started.
func (s *Store) ListStageStatuses(ctx context.Context, songID int64) ([]*song.StageStatus, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+statusColumns+` FROM stage_statuses WHERE song_id = ?`,
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stage statuses: %w", err)
	}
	defer rows.Close()

	byStage := make(map[song.Stage]*song.StageStatus)
	for rows.Next() {
		status, err := scanStageStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stage status: %w", err)
		}
		byStage[status.Stage] = status
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage statuses: %w", err)
	}

	ordered := make([]*song.StageStatus, 0, len(byStage))
	for _, stage := range song.StageOrder() {
		if status, ok := byStage[stage]; ok {
			ordered = append(ordered, status)
		}
	}
	return ordered, nil
}

// SetStageState mutates the state of one stage-status row, stamping
// started_at on entry to in_progress and completed_at on completion.
func (s *Store) SetStageState(ctx context.Context, songID int64, stage song.Stage, state song.StageState) (*song.StageStatus, error) {
	if _, ok := song.ParseStageState(string(state)); !ok {
		return nil, fmt.Errorf("unknown stage state %q", state)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var (
		query string
		args  []any
	)
	switch state {
	case song.StateInProgress:
		query = `UPDATE stage_statuses
             SET state = ?, started_at = COALESCE(started_at, ?), updated_at = ?
             WHERE song_id = ? AND stage = ?`
		args = []any{state, now, now, songID, stage}
	case song.StateCompleted:
		query = `UPDATE stage_statuses
             SET state = ?, completed_at = COALESCE(completed_at, ?), updated_at = ?
             WHERE song_id = ? AND stage = ?`
		args = []any{state, now, now, songID, stage}
	default:
		query = `UPDATE stage_statuses
             SET state = ?, updated_at = ?
             WHERE song_id = ? AND stage = ?`
		args = []any{state, now, songID, stage}
	}

	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("set stage state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("stage status %d/%s: %w", songID, stage, ErrNotFound)
	}
	return s.GetStageStatus(ctx, songID, stage)
}
