package api

import (
	"context"
	"log/slog"

	"labeldesk/internal/checklist"
	"labeldesk/internal/logging"
	"labeldesk/internal/song"
)

// ChecklistStore abstracts the item persistence the checklist service drives.
type ChecklistStore interface {
	GetSong(ctx context.Context, id int64) (*song.Song, error)
	ListItems(ctx context.Context, songID int64) ([]song.ChecklistItem, error)
	ToggleItem(ctx context.Context, songID, itemID int64, byName string) (*song.ChecklistItem, error)
	AssignItem(ctx context.Context, songID, itemID int64, name string) (*song.ChecklistItem, error)
	SetItemAssetURL(ctx context.Context, songID, itemID int64, url, byName string) (*song.ChecklistItem, error)
	ValidateAutoItems(ctx context.Context, songID int64) (int64, error)
	SetChecklistProgress(ctx context.Context, id int64, percent int) error
}

// ChecklistService exposes the derived checklist views and item mutations.
type ChecklistService struct {
	store  ChecklistStore
	logger *slog.Logger
}

// NewChecklistService constructs a ChecklistService.
func NewChecklistService(itemStore ChecklistStore, logger *slog.Logger) *ChecklistService {
	if itemStore == nil {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ChecklistService{store: itemStore, logger: logger}
}

// StageView returns the grouped checklist for one stage. When the requested
// stage is the song's current stage the view also carries the carryover
// report for earlier stages.
func (s *ChecklistService) StageView(ctx context.Context, songID int64, stage song.Stage) (*StageChecklist, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	record, err := s.store.GetSong(ctx, songID)
	if err != nil {
		return nil, translateErr(string(stage), "stage view", err)
	}
	items, err := s.store.ListItems(ctx, songID)
	if err != nil {
		return nil, translateErr(string(stage), "stage view", err)
	}

	view := FromStageView(checklist.Aggregate(items, stage))
	if stage == record.CurrentStage {
		view.Carryover = FromCarryover(checklist.Carryover(items, stage))
	}
	return &view, nil
}

// Toggle flips a simple-toggle item's completion and refreshes the song's
// cached progress.
func (s *ChecklistService) Toggle(ctx context.Context, songID, itemID int64, actor string) (*ChecklistItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	item, err := s.store.ToggleItem(ctx, songID, itemID, actor)
	if err != nil {
		return nil, translateErr("", "toggle item", err)
	}
	s.refreshProgress(ctx, songID)
	dto := FromItem(*item)
	return &dto, nil
}

// Assign records who is responsible for an item.
func (s *ChecklistService) Assign(ctx context.Context, songID, itemID int64, assignee string) (*ChecklistItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	item, err := s.store.AssignItem(ctx, songID, itemID, assignee)
	if err != nil {
		return nil, translateErr("", "assign item", err)
	}
	dto := FromItem(*item)
	return &dto, nil
}

// SetAssetURL attaches evidence to an item. Manual items complete on upload;
// auto items wait for the validation sweep.
func (s *ChecklistService) SetAssetURL(ctx context.Context, songID, itemID int64, url, actor string) (*ChecklistItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	item, err := s.store.SetItemAssetURL(ctx, songID, itemID, url, actor)
	if err != nil {
		return nil, translateErr("", "set asset url", err)
	}
	s.refreshProgress(ctx, songID)
	dto := FromItem(*item)
	return &dto, nil
}

// Validate runs the auto-validation sweep for one song and returns how many
// items it completed.
func (s *ChecklistService) Validate(ctx context.Context, songID int64) (int64, error) {
	if s == nil || s.store == nil {
		return 0, nil
	}
	count, err := s.store.ValidateAutoItems(ctx, songID)
	if err != nil {
		return 0, translateErr("", "validate items", err)
	}
	if count > 0 {
		s.refreshProgress(ctx, songID)
	}
	return count, nil
}

// refreshProgress recomputes the song-level completion for the current stage
// and stores it on the song. Failures only log; the cache is advisory.
func (s *ChecklistService) refreshProgress(ctx context.Context, songID int64) {
	record, err := s.store.GetSong(ctx, songID)
	if err != nil {
		s.logger.Warn("progress refresh skipped", logging.Error(err))
		return
	}
	items, err := s.store.ListItems(ctx, songID)
	if err != nil {
		s.logger.Warn("progress refresh skipped", logging.Error(err))
		return
	}
	view := checklist.Aggregate(items, record.CurrentStage)
	if err := s.store.SetChecklistProgress(ctx, songID, view.SongLevelPercent); err != nil {
		s.logger.Warn("progress refresh failed", logging.Error(err))
	}
}
