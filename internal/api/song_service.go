package api

import (
	"context"
	"strings"

	"labeldesk/internal/services"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
)

// SongStore abstracts song persistence interactions needed by the service.
type SongStore interface {
	CreateSong(ctx context.Context, title, artist string) (*song.Song, error)
	GetSong(ctx context.Context, id int64) (*song.Song, error)
	ListSongs(ctx context.Context) ([]*song.Song, error)
	ListStageStatuses(ctx context.Context, songID int64) ([]*song.StageStatus, error)
	CreateRecording(ctx context.Context, songID int64, title string) (*song.Recording, error)
	ListRecordings(ctx context.Context, songID int64) ([]*song.Recording, error)
	AttachTemplate(ctx context.Context, songID int64, items []store.TemplateItem) (int64, error)
}

// SongService exposes song CRUD returning API DTOs.
type SongService struct {
	store SongStore
}

// NewSongService constructs a SongService around the provided store.
func NewSongService(songStore SongStore) *SongService {
	if songStore == nil {
		return nil
	}
	return &SongService{store: songStore}
}

// Create registers a new song in the draft stage.
func (s *SongService) Create(ctx context.Context, title, artist string) (*Song, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	if strings.TrimSpace(title) == "" {
		return nil, services.Wrap(services.ErrValidation, "", "create song", "title is required", nil)
	}
	record, err := s.store.CreateSong(ctx, title, artist)
	if err != nil {
		return nil, translateErr("", "create song", err)
	}
	dto := FromSong(record)
	return &dto, nil
}

// List returns every song.
func (s *SongService) List(ctx context.Context) ([]Song, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	records, err := s.store.ListSongs(ctx)
	if err != nil {
		return nil, translateErr("", "list songs", err)
	}
	return FromSongs(records), nil
}

// Describe fetches a song together with its stage statuses and recordings.
// Stages without a persisted status row appear as not_started; rows are not
// created by reads.
func (s *SongService) Describe(ctx context.Context, id int64) (*SongDetailResponse, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	record, err := s.store.GetSong(ctx, id)
	if err != nil {
		return nil, translateErr("", "describe song", err)
	}
	statuses, err := s.store.ListStageStatuses(ctx, id)
	if err != nil {
		return nil, translateErr("", "describe song", err)
	}
	recordings, err := s.store.ListRecordings(ctx, id)
	if err != nil {
		return nil, translateErr("", "describe song", err)
	}

	detail := &SongDetailResponse{Song: FromSong(record)}
	persisted := make(map[song.Stage]*song.StageStatus, len(statuses))
	for _, status := range statuses {
		persisted[status.Stage] = status
	}
	for _, stage := range song.StageOrder() {
		if status, ok := persisted[stage]; ok {
			detail.Statuses = append(detail.Statuses, FromStageStatus(status))
			continue
		}
		detail.Statuses = append(detail.Statuses, StageStatus{
			Stage:  string(stage),
			State:  string(song.StateNotStarted),
			Action: "start",
		})
	}
	for _, recording := range recordings {
		detail.Recordings = append(detail.Recordings, FromRecording(recording))
	}
	return detail, nil
}

// AddRecording registers a recording for a song.
func (s *SongService) AddRecording(ctx context.Context, songID int64, title string) (*Recording, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	if strings.TrimSpace(title) == "" {
		return nil, services.Wrap(services.ErrValidation, "", "add recording", "title is required", nil)
	}
	record, err := s.store.CreateRecording(ctx, songID, title)
	if err != nil {
		return nil, translateErr("", "add recording", err)
	}
	dto := FromRecording(record)
	return &dto, nil
}

// AttachTemplate attaches stage template items to a song's checklist.
func (s *SongService) AttachTemplate(ctx context.Context, songID int64, items []store.TemplateItem) (int64, error) {
	if s == nil || s.store == nil {
		return 0, nil
	}
	count, err := s.store.AttachTemplate(ctx, songID, items)
	if err != nil {
		return 0, translateErr("", "attach template", err)
	}
	return count, nil
}
