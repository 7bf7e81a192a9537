package api_test

import (
	"context"
	"errors"
	"testing"

	"labeldesk/internal/api"
	"labeldesk/internal/services"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
	"labeldesk/internal/testsupport"
)

func seedChecklist(t *testing.T) (*api.ChecklistService, *store.Store, *song.Song) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	record := testsupport.NewSong(t, st, "Night Drive", "The Hollows")
	return api.NewChecklistService(st, nil), st, record
}

func TestStageViewGroupsAndAnnotatesItems(t *testing.T) {
	svc, st, record := seedChecklist(t)
	ctx := context.Background()

	recording, err := st.CreateRecording(ctx, record.ID, "Studio Take")
	if err != nil {
		t.Fatalf("CreateRecording failed: %v", err)
	}
	if _, err := st.AttachTemplate(ctx, record.ID, []store.TemplateItem{
		{Stage: song.StageDraft, Category: "Metadata", SortOrder: 2, Description: "Confirm writers"},
		{Stage: song.StageDraft, Category: "Metadata", SortOrder: 1, Description: "Register title"},
		{Stage: song.StageDraft, Category: "Legal", SortOrder: 1, Description: "Clear samples", ValidationType: song.ValidationAuto},
		{Stage: song.StageDraft, Category: "Takes", SortOrder: 1, Description: "Comp vocals", RecordingID: &recording.ID, RecordingTitle: recording.Title},
	}); err != nil {
		t.Fatalf("AttachTemplate failed: %v", err)
	}

	view, err := svc.StageView(ctx, record.ID, song.StageDraft)
	if err != nil {
		t.Fatalf("StageView failed: %v", err)
	}
	if len(view.Categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(view.Categories))
	}
	if view.Categories[0].Category != "Metadata" || view.Categories[1].Category != "Legal" {
		t.Fatalf("category order = %s, %s", view.Categories[0].Category, view.Categories[1].Category)
	}
	metadata := view.Categories[0]
	if metadata.Items[0].Description != "Register title" {
		t.Fatalf("sort order not applied: %#v", metadata.Items[0])
	}
	if view.Categories[1].Items[0].Mode != "read_only_auto" {
		t.Fatalf("auto item mode = %s", view.Categories[1].Items[0].Mode)
	}
	if len(view.Recordings) != 1 || view.Recordings[0].RecordingTitle != "Studio Take" {
		t.Fatalf("unexpected recordings: %#v", view.Recordings)
	}
	if view.StagePercent != 0 || view.SongLevelPercent != 0 {
		t.Fatalf("percents = %d/%d, want 0/0", view.StagePercent, view.SongLevelPercent)
	}
}

func TestStageViewCarryoverOnlyForCurrentStage(t *testing.T) {
	svc, st, record := seedChecklist(t)
	ctx := context.Background()

	if _, err := st.AttachTemplate(ctx, record.ID, []store.TemplateItem{
		{Stage: song.StageDraft, Description: "Leftover"},
		{Stage: song.StagePublishing, Description: "Splits"},
	}); err != nil {
		t.Fatalf("AttachTemplate failed: %v", err)
	}
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StagePublishing); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}

	current, err := svc.StageView(ctx, record.ID, song.StagePublishing)
	if err != nil {
		t.Fatalf("StageView failed: %v", err)
	}
	if len(current.Carryover) != 1 || current.Carryover[0].Stage != string(song.StageDraft) {
		t.Fatalf("unexpected carryover: %#v", current.Carryover)
	}

	past, err := svc.StageView(ctx, record.ID, song.StageDraft)
	if err != nil {
		t.Fatalf("StageView failed: %v", err)
	}
	if past.Carryover != nil {
		t.Fatalf("non-current stage carried carryover: %#v", past.Carryover)
	}
}

func TestToggleRefreshesProgressCache(t *testing.T) {
	svc, st, record := seedChecklist(t)
	ctx := context.Background()
	item := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Register title",
	})

	toggled, err := svc.Toggle(ctx, record.ID, item.ID, "Ana Reyes")
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if !toggled.IsComplete || toggled.CompletedBy != "Ana Reyes" {
		t.Fatalf("unexpected item: %#v", toggled)
	}

	refreshed, err := st.GetSong(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetSong failed: %v", err)
	}
	if refreshed.ChecklistProgress != 100 {
		t.Fatalf("cached progress = %d, want 100", refreshed.ChecklistProgress)
	}
}

func TestProgressCacheCoversSongLevelItemsOnly(t *testing.T) {
	svc, st, record := seedChecklist(t)
	ctx := context.Background()
	recording, err := st.CreateRecording(ctx, record.ID, "Studio Take")
	if err != nil {
		t.Fatalf("CreateRecording failed: %v", err)
	}
	songLevel := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Register title",
	})
	testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Comp vocals",
		RecordingID: &recording.ID, RecordingTitle: recording.Title,
	})

	if _, err := svc.Toggle(ctx, record.ID, songLevel.ID, "Ana Reyes"); err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}

	refreshed, err := st.GetSong(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetSong failed: %v", err)
	}
	if refreshed.ChecklistProgress != 100 {
		t.Fatalf("cached progress = %d, want 100 with only the recording item open", refreshed.ChecklistProgress)
	}
}

func TestToggleRejectsAutoItems(t *testing.T) {
	svc, st, record := seedChecklist(t)
	item := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Auto check", ValidationType: song.ValidationAuto,
	})

	if _, err := svc.Toggle(context.Background(), record.ID, item.ID, ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSetAssetURLAndValidateSweep(t *testing.T) {
	svc, st, record := seedChecklist(t)
	ctx := context.Background()
	manual := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageMarketingAssets, Description: "Upload cover art",
	})
	auto := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageMarketingAssets, Description: "Validated master", ValidationType: song.ValidationAuto,
	})

	updated, err := svc.SetAssetURL(ctx, record.ID, manual.ID, "https://example.com/a.png", "Ana")
	if err != nil {
		t.Fatalf("SetAssetURL failed: %v", err)
	}
	if !updated.IsComplete {
		t.Fatal("manual item must complete on upload")
	}

	if _, err := svc.SetAssetURL(ctx, record.ID, auto.ID, "https://example.com/m.wav", ""); err != nil {
		t.Fatalf("SetAssetURL on auto item failed: %v", err)
	}
	count, err := svc.Validate(ctx, record.ID)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("validated = %d, want 1", count)
	}
}

func TestAssignRecordsAssignee(t *testing.T) {
	svc, st, record := seedChecklist(t)
	item := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Register title",
	})

	assigned, err := svc.Assign(context.Background(), record.ID, item.ID, "Sam Okafor")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if assigned.AssignedTo != "Sam Okafor" {
		t.Fatalf("assigned to = %q", assigned.AssignedTo)
	}
}
