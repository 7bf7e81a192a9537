package transition

import (
	"context"
	"fmt"
	"log/slog"

	"labeldesk/internal/checklist"
	"labeldesk/internal/logging"
	"labeldesk/internal/song"
)

// StatusStore abstracts the stage-status persistence the controller drives.
type StatusStore interface {
	EnsureStageStatus(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error)
	SetStageState(ctx context.Context, songID int64, stage song.Stage, state song.StageState) (*song.StageStatus, error)
}

// ChecklistReader provides the item snapshot used for finish preconditions.
type ChecklistReader interface {
	ListItems(ctx context.Context, songID int64) ([]song.ChecklistItem, error)
}

// Controller executes stage-status transitions for a specific selected
// stage, which may or may not equal the song's current stage. It never
// moves the song's current_stage itself; terminal actions do that at the
// service layer.
type Controller struct {
	store  StatusStore
	items  ChecklistReader
	logger *slog.Logger
}

// NewController builds a transition controller.
func NewController(store StatusStore, items ChecklistReader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{store: store, items: items, logger: logger}
}

// Start moves a not_started stage to in_progress. Unknown states are
// treated as not_started.
func (c *Controller) Start(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error) {
	status, err := c.store.EnsureStageStatus(ctx, songID, stage)
	if err != nil {
		return nil, fmt.Errorf("ensure stage status: %w", err)
	}
	switch status.State {
	case song.StateCompleted:
		return nil, ErrStageCompleted
	case song.StateInProgress, song.StateBlocked:
		return nil, fmt.Errorf("%w: start from %s", ErrInvalidTransition, status.State)
	}
	updated, err := c.store.SetStageState(ctx, songID, stage, song.StateInProgress)
	if err != nil {
		return nil, fmt.Errorf("start stage %s: %w", stage, err)
	}
	c.logger.Info("stage started",
		logging.Int64("song_id", songID),
		logging.String("stage", string(stage)))
	return updated, nil
}

// Finish moves an in_progress stage to completed and cascades the next
// canonical stage to in_progress when one exists. The full stage checklist
// (song-level and recording items) must sit at 100%.
//
// The two mutations are sequential, not atomic: the cascade leg is only
// attempted after the completion leg succeeds, and a cascade failure is
// returned as *CascadeError with the completed stage left in place.
func (c *Controller) Finish(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error) {
	return c.finish(ctx, songID, stage, false)
}

// FinishSongLevel is Finish under the terminal-action gate: only song-level
// items must be complete. Recording sub-checklists never hold the song back.
func (c *Controller) FinishSongLevel(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error) {
	return c.finish(ctx, songID, stage, true)
}

func (c *Controller) finish(ctx context.Context, songID int64, stage song.Stage, songLevelOnly bool) (*song.StageStatus, error) {
	status, err := c.store.EnsureStageStatus(ctx, songID, stage)
	if err != nil {
		return nil, fmt.Errorf("ensure stage status: %w", err)
	}
	if status.State == song.StateCompleted {
		return nil, ErrStageCompleted
	}
	if status.State != song.StateInProgress {
		return nil, fmt.Errorf("%w: finish from %s", ErrInvalidTransition, status.State)
	}

	items, err := c.items.ListItems(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("load checklist: %w", err)
	}
	view := checklist.Aggregate(items, stage)
	percent := view.StagePercent
	if songLevelOnly {
		percent = view.SongLevelPercent
	}
	if percent < 100 {
		return nil, fmt.Errorf("%w: %s at %d%%", ErrChecklistIncomplete, stage, percent)
	}

	completed, err := c.store.SetStageState(ctx, songID, stage, song.StateCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete stage %s: %w", stage, err)
	}
	c.logger.Info("stage completed",
		logging.Int64("song_id", songID),
		logging.String("stage", string(stage)))

	next, ok := song.NextStage(stage)
	if !ok {
		return completed, nil
	}
	if _, err := c.store.EnsureStageStatus(ctx, songID, next); err != nil {
		return completed, &CascadeError{Completed: stage, Next: next, Err: err}
	}
	if _, err := c.store.SetStageState(ctx, songID, next, song.StateInProgress); err != nil {
		return completed, &CascadeError{Completed: stage, Next: next, Err: err}
	}
	c.logger.Info("next stage started",
		logging.Int64("song_id", songID),
		logging.String("stage", string(next)))
	return completed, nil
}

// Resume moves a blocked stage back to in_progress. No cascade.
func (c *Controller) Resume(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error) {
	status, err := c.store.EnsureStageStatus(ctx, songID, stage)
	if err != nil {
		return nil, fmt.Errorf("ensure stage status: %w", err)
	}
	if status.State == song.StateCompleted {
		return nil, ErrStageCompleted
	}
	if status.State != song.StateBlocked {
		return nil, fmt.Errorf("%w: resume from %s", ErrInvalidTransition, status.State)
	}
	updated, err := c.store.SetStageState(ctx, songID, stage, song.StateInProgress)
	if err != nil {
		return nil, fmt.Errorf("resume stage %s: %w", stage, err)
	}
	c.logger.Info("stage resumed",
		logging.Int64("song_id", songID),
		logging.String("stage", string(stage)))
	return updated, nil
}

// Block marks an in_progress stage as blocked.
func (c *Controller) Block(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error) {
	status, err := c.store.EnsureStageStatus(ctx, songID, stage)
	if err != nil {
		return nil, fmt.Errorf("ensure stage status: %w", err)
	}
	if status.State == song.StateCompleted {
		return nil, ErrStageCompleted
	}
	if status.State != song.StateInProgress {
		return nil, fmt.Errorf("%w: block from %s", ErrInvalidTransition, status.State)
	}
	updated, err := c.store.SetStageState(ctx, songID, stage, song.StateBlocked)
	if err != nil {
		return nil, fmt.Errorf("block stage %s: %w", stage, err)
	}
	c.logger.Info("stage blocked",
		logging.Int64("song_id", songID),
		logging.String("stage", string(stage)))
	return updated, nil
}
