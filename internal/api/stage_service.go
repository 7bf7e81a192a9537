package api

import (
	"context"
	"errors"
	"log/slog"

	"labeldesk/internal/checklist"
	"labeldesk/internal/logging"
	"labeldesk/internal/notifications"
	"labeldesk/internal/services"
	"labeldesk/internal/services/distributor"
	"labeldesk/internal/song"
	"labeldesk/internal/transition"
)

// StageStore abstracts the persistence the stage service needs beyond the
// transition controller.
type StageStore interface {
	GetSong(ctx context.Context, id int64) (*song.Song, error)
	SetCurrentStage(ctx context.Context, id int64, stage song.Stage) (*song.Song, error)
	ListItems(ctx context.Context, songID int64) ([]song.ChecklistItem, error)
}

// StageController is the transition surface the service drives.
type StageController interface {
	Start(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error)
	Finish(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error)
	FinishSongLevel(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error)
	Resume(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error)
	Block(ctx context.Context, songID int64, stage song.Stage) (*song.StageStatus, error)
}

// StageService executes stage transitions and the stage-gated terminal
// actions that move the song pointer forward.
type StageService struct {
	store       StageStore
	controller  StageController
	distributor distributor.Service
	notifier    notifications.Service
	logger      *slog.Logger
}

// NewStageService constructs a StageService. The distributor and notifier
// may be nil; both degrade to no-ops.
func NewStageService(stageStore StageStore, controller StageController, dist distributor.Service, notifier notifications.Service, logger *slog.Logger) *StageService {
	if stageStore == nil || controller == nil {
		return nil
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StageService{
		store:       stageStore,
		controller:  controller,
		distributor: dist,
		notifier:    notifier,
		logger:      logger,
	}
}

// Start moves a stage from not_started to in_progress.
func (s *StageService) Start(ctx context.Context, songID int64, stage song.Stage) (*StageStatus, error) {
	if s == nil {
		return nil, nil
	}
	status, err := s.controller.Start(ctx, songID, stage)
	if err != nil {
		return nil, translateErr(string(stage), "start stage", err)
	}
	s.notifyStageStarted(ctx, songID, stage)
	dto := FromStageStatus(status)
	return &dto, nil
}

// Finish completes an in_progress stage and cascades the next stage to
// in_progress. A stalled cascade is reported through the notifier and
// surfaced to the caller; the completion is never rolled back.
func (s *StageService) Finish(ctx context.Context, songID int64, stage song.Stage) (*StageStatus, error) {
	if s == nil {
		return nil, nil
	}
	status, err := s.controller.Finish(ctx, songID, stage)
	var cascadeErr *transition.CascadeError
	if errors.As(err, &cascadeErr) {
		s.notifyCascadeStalled(ctx, songID, cascadeErr)
		dto := FromStageStatus(status)
		return &dto, translateErr(string(stage), "finish stage", err)
	}
	if err != nil {
		return nil, translateErr(string(stage), "finish stage", err)
	}
	s.notifyStageCompleted(ctx, songID, stage)
	dto := FromStageStatus(status)
	return &dto, nil
}

// Resume moves a blocked stage back to in_progress.
func (s *StageService) Resume(ctx context.Context, songID int64, stage song.Stage) (*StageStatus, error) {
	if s == nil {
		return nil, nil
	}
	status, err := s.controller.Resume(ctx, songID, stage)
	if err != nil {
		return nil, translateErr(string(stage), "resume stage", err)
	}
	dto := FromStageStatus(status)
	return &dto, nil
}

// Block marks an in_progress stage as blocked.
func (s *StageService) Block(ctx context.Context, songID int64, stage song.Stage) (*StageStatus, error) {
	if s == nil {
		return nil, nil
	}
	status, err := s.controller.Block(ctx, songID, stage)
	if err != nil {
		return nil, translateErr(string(stage), "block stage", err)
	}
	dto := FromStageStatus(status)
	return &dto, nil
}

// TerminalAction reports the stage-gated action currently offered for the
// song, if any. Only song-level items gate it; recording sub-checklists
// never hold the song back.
func (s *StageService) TerminalAction(ctx context.Context, songID int64) (string, error) {
	if s == nil {
		return "", nil
	}
	record, err := s.store.GetSong(ctx, songID)
	if err != nil {
		return "", translateErr("", "terminal action", err)
	}
	items, err := s.store.ListItems(ctx, songID)
	if err != nil {
		return "", translateErr("", "terminal action", err)
	}
	view := checklist.Aggregate(items, record.CurrentStage)
	return string(transition.TerminalActionFor(record.CurrentStage, view.SongLevelPercent)), nil
}

// Advance executes the terminal action for the song's current stage: the
// current stage completes, the next stage starts, and the song pointer moves
// forward. Send-to-digital additionally registers the release with the
// distribution partner. Advance is safe to retry after a stalled cascade.
func (s *StageService) Advance(ctx context.Context, songID int64) (*Song, error) {
	if s == nil {
		return nil, nil
	}
	record, err := s.store.GetSong(ctx, songID)
	if err != nil {
		return nil, translateErr("", "advance song", err)
	}
	current := record.CurrentStage
	items, err := s.store.ListItems(ctx, songID)
	if err != nil {
		return nil, translateErr(string(current), "advance song", err)
	}
	view := checklist.Aggregate(items, current)
	action := transition.TerminalActionFor(current, view.SongLevelPercent)
	if action == transition.TerminalNone {
		return nil, services.Wrap(services.ErrValidation, string(current), "advance song", "song-level checklist incomplete", nil)
	}
	next, ok := song.NextStage(current)
	if !ok {
		return nil, services.Wrap(services.ErrConflict, string(current), "advance song", "song is already at the final stage", nil)
	}

	// The terminal action is offered under the song-level gate, so it must
	// complete the stage under the same gate; open recording items are not
	// allowed to strand an offered action.
	if _, err := s.controller.FinishSongLevel(ctx, songID, current); err != nil {
		var cascadeErr *transition.CascadeError
		switch {
		case errors.As(err, &cascadeErr):
			// The completion leg held; start the next stage below.
			s.notifyCascadeStalled(ctx, songID, cascadeErr)
		case errors.Is(err, transition.ErrStageCompleted):
			// Retry after an earlier stall.
		default:
			return nil, translateErr(string(current), "advance song", err)
		}
		if _, err := s.controller.Start(ctx, songID, next); err != nil && !errors.Is(err, transition.ErrInvalidTransition) {
			return nil, translateErr(string(next), "advance song", err)
		}
	}

	if action == transition.TerminalSendToDigital && s.distributor != nil {
		release := distributor.Release{SongID: record.ID, Title: record.Title, Artist: record.Artist}
		if err := s.distributor.RegisterRelease(ctx, release); err != nil {
			s.logger.Error("release registration failed",
				logging.Int64(logging.FieldSongID, songID),
				logging.Error(err))
			return nil, err
		}
	}

	advanced, err := s.store.SetCurrentStage(ctx, songID, next)
	if err != nil {
		return nil, translateErr(string(next), "advance song", err)
	}
	s.logger.Info("song advanced",
		logging.Int64(logging.FieldSongID, songID),
		logging.String(logging.FieldStage, string(next)))
	if s.notifier != nil {
		if next == song.StageReleased {
			_ = s.notifier.NotifySongReleased(ctx, advanced.Title)
		} else {
			_ = s.notifier.NotifySongAdvanced(ctx, advanced.Title, current, next)
		}
	}
	dto := FromSong(advanced)
	return &dto, nil
}

func (s *StageService) notifyStageStarted(ctx context.Context, songID int64, stage song.Stage) {
	if s.notifier == nil {
		return
	}
	if record, err := s.store.GetSong(ctx, songID); err == nil {
		_ = s.notifier.NotifyStageStarted(ctx, record.Title, stage)
	}
}

func (s *StageService) notifyStageCompleted(ctx context.Context, songID int64, stage song.Stage) {
	if s.notifier == nil {
		return
	}
	if record, err := s.store.GetSong(ctx, songID); err == nil {
		_ = s.notifier.NotifyStageCompleted(ctx, record.Title, stage)
	}
}

func (s *StageService) notifyCascadeStalled(ctx context.Context, songID int64, cascadeErr *transition.CascadeError) {
	s.logger.Error("stage cascade stalled",
		logging.Int64(logging.FieldSongID, songID),
		logging.String(logging.FieldStage, string(cascadeErr.Completed)),
		logging.Error(cascadeErr.Err))
	if s.notifier == nil {
		return
	}
	if record, err := s.store.GetSong(ctx, songID); err == nil {
		_ = s.notifier.NotifyCascadeStalled(ctx, record.Title, cascadeErr.Completed, cascadeErr.Next)
	}
}
