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

// CreateSong inserts a new song at the draft stage.
func (s *Store) CreateSong(ctx context.Context, title, artist string) (*song.Song, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("song title is required")
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO songs (title, artist, current_stage, checklist_progress, created_at, updated_at)
         VALUES (?, ?, ?, 0, ?, ?)`,
		title,
		strings.TrimSpace(artist),
		song.StageDraft,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetSong(ctx, id)
}

// GetSong fetches a song by identifier.
func (s *Store) GetSong(ctx context.Context, id int64) (*song.Song, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	record, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}
	return record, nil
}

// ListSongs returns all songs ordered by identifier.
func (s *Store) ListSongs(ctx context.Context) ([]*song.Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var songs []*song.Song
	for rows.Next() {
		record, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

// SetCurrentStage advances the song's pipeline position. Terminal actions
// (send-to-marketing, send-to-digital, generic finish) are the only callers.
func (s *Store) SetCurrentStage(ctx context.Context, id int64, stage song.Stage) (*song.Song, error) {
	if song.StageIndex(stage) < 0 {
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE songs SET current_stage = ?, updated_at = ? WHERE id = ?`,
		stage,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return nil, fmt.Errorf("set current stage: %w", err)
	}
	return s.GetSong(ctx, id)
}

// SetChecklistProgress refreshes the cached song-level completion
// percentage shown on song listings.
func (s *Store) SetChecklistProgress(ctx context.Context, id int64, percent int) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE songs SET checklist_progress = ?, updated_at = ? WHERE id = ?`,
		percent,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("set checklist progress: %w", err)
	}
	return nil
}

// Stats returns how many songs sit in each pipeline stage.
func (s *Store) Stats(ctx context.Context) (map[song.Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT current_stage, COUNT(*) FROM songs GROUP BY current_stage`)
	if err != nil {
		return nil, fmt.Errorf("query song stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[song.Stage]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, fmt.Errorf("scan song stats: %w", err)
		}
		stats[song.Stage(stage)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate song stats: %w", err)
	}
	return stats, nil
}

// CreateRecording adds a recording to a song.
func (s *Store) CreateRecording(ctx context.Context, songID int64, title string) (*song.Recording, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("recording title is required")
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO recordings (song_id, title) VALUES (?, ?)`,
		songID,
		title,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recording: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &song.Recording{ID: id, SongID: songID, Title: title}, nil
}

// ListRecordings returns a song's recordings ordered by identifier.
func (s *Store) ListRecordings(ctx context.Context, songID int64) ([]*song.Recording, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, song_id, title FROM recordings WHERE song_id = ? ORDER BY id`, songID)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var recordings []*song.Recording
	for rows.Next() {
		var record song.Recording
		if err := rows.Scan(&record.ID, &record.SongID, &record.Title); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		recordings = append(recordings, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recordings: %w", err)
	}
	return recordings, nil
}
