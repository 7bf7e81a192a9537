package checklist_test

import (
	"testing"

	"labeldesk/internal/checklist"
	"labeldesk/internal/song"
)

func TestCarryoverSelectsEarlierIncompleteItems(t *testing.T) {
	items := []song.ChecklistItem{
		stageItem(song.StageDraft, "Setup", 1, false),
		stageItem(song.StageLabelRecording, "Session", 1, true),
		stageItem(song.StagePublishing, "Splits", 1, false),
	}
	groups := checklist.Carryover(items, song.StageMarketingAssets)

	if len(groups) != 2 {
		t.Fatalf("expected 2 carryover groups, got %d", len(groups))
	}
	if groups[0].Stage != song.StageDraft || groups[1].Stage != song.StagePublishing {
		t.Fatalf("unexpected group order: %s, %s", groups[0].Stage, groups[1].Stage)
	}
	if len(groups[0].Items) != 1 || len(groups[1].Items) != 1 {
		t.Fatalf("unexpected group sizes: %d, %d", len(groups[0].Items), len(groups[1].Items))
	}
}

func TestCarryoverExcludesCurrentAndLaterStages(t *testing.T) {
	items := []song.ChecklistItem{
		stageItem(song.StageMarketingAssets, "Assets", 1, false),
		stageItem(song.StageReleased, "Wrap", 1, false),
	}
	if groups := checklist.Carryover(items, song.StageMarketingAssets); len(groups) != 0 {
		t.Fatalf("expected no carryover, got %d groups", len(groups))
	}
}

func TestCarryoverExcludesUnknownStages(t *testing.T) {
	items := []song.ChecklistItem{
		stageItem(song.Stage("mystery"), "Setup", 1, false),
		stageItem(song.StageDraft, "Setup", 1, false),
	}
	groups := checklist.Carryover(items, song.StageLabelReview)
	if len(groups) != 1 || groups[0].Stage != song.StageDraft {
		t.Fatalf("unknown stage not excluded: %+v", groups)
	}
}

func TestCarryoverIgnoresCompleteItems(t *testing.T) {
	items := []song.ChecklistItem{
		stageItem(song.StageDraft, "Setup", 1, true),
	}
	if groups := checklist.Carryover(items, song.StagePublishing); len(groups) != 0 {
		t.Fatalf("complete item reported as carryover: %+v", groups)
	}
}
