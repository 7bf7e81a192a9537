package testsupport

import (
	"context"
	"testing"

	"labeldesk/internal/config"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSong creates a song for tests using the provided store.
func NewSong(t testing.TB, st *store.Store, title, artist string) *song.Song {
	t.Helper()

	record, err := st.CreateSong(context.Background(), title, artist)
	if err != nil {
		t.Fatalf("store.CreateSong: %v", err)
	}
	return record
}

// AttachItem inserts a single checklist item and returns its snapshot.
func AttachItem(t testing.TB, st *store.Store, songID int64, item store.TemplateItem) song.ChecklistItem {
	t.Helper()

	ctx := context.Background()
	if _, err := st.AttachTemplate(ctx, songID, []store.TemplateItem{item}); err != nil {
		t.Fatalf("store.AttachTemplate: %v", err)
	}
	items, err := st.ListItems(ctx, songID)
	if err != nil {
		t.Fatalf("store.ListItems: %v", err)
	}
	if len(items) == 0 {
		t.Fatal("expected attached item")
	}
	return items[len(items)-1]
}

// StartStage drives a song's stage status to in_progress.
func StartStage(t testing.TB, st *store.Store, songID int64, stage song.Stage) {
	t.Helper()

	ctx := context.Background()
	if _, err := st.EnsureStageStatus(ctx, songID, stage); err != nil {
		t.Fatalf("store.EnsureStageStatus: %v", err)
	}
	if _, err := st.SetStageState(ctx, songID, stage, song.StateInProgress); err != nil {
		t.Fatalf("store.SetStageState: %v", err)
	}
}
