package song_test

import (
	"testing"

	"labeldesk/internal/song"
)

func TestStageOrderIsFixedAndDistinct(t *testing.T) {
	order := song.StageOrder()
	want := []song.Stage{
		song.StageDraft,
		song.StagePublishing,
		song.StageLabelRecording,
		song.StageMarketingAssets,
		song.StageLabelReview,
		song.StageReadyForDigital,
		song.StageDigitalDistribution,
		song.StageReleased,
		song.StageArchived,
	}
	if len(order) != len(want) {
		t.Fatalf("stage order has %d entries, want %d", len(order), len(want))
	}
	seen := make(map[song.Stage]struct{}, len(order))
	for i, stage := range order {
		if stage != want[i] {
			t.Fatalf("stage order[%d] = %s, want %s", i, stage, want[i])
		}
		if _, dup := seen[stage]; dup {
			t.Fatalf("duplicate stage %s", stage)
		}
		seen[stage] = struct{}{}
	}
}

func TestStageIndexMonotonicity(t *testing.T) {
	order := song.StageOrder()
	for i, earlier := range order {
		for j, later := range order {
			gotEarlier := song.StageIndex(earlier) < song.StageIndex(later)
			if gotEarlier != (i < j) {
				t.Fatalf("index ordering of %s vs %s disagrees with list position", earlier, later)
			}
		}
	}
}

func TestStageIndexUnknown(t *testing.T) {
	if idx := song.StageIndex("mastering"); idx != -1 {
		t.Fatalf("StageIndex(unknown) = %d, want -1", idx)
	}
}

func TestNextStage(t *testing.T) {
	next, ok := song.NextStage(song.StageLabelRecording)
	if !ok || next != song.StageMarketingAssets {
		t.Fatalf("NextStage(label_recording) = %s, %v", next, ok)
	}
	if _, ok := song.NextStage(song.StageArchived); ok {
		t.Fatal("expected no stage after archived")
	}
	if _, ok := song.NextStage("mystery"); ok {
		t.Fatal("expected no stage after unknown value")
	}
}

func TestParseStage(t *testing.T) {
	stage, ok := song.ParseStage("  Label_Recording ")
	if !ok || stage != song.StageLabelRecording {
		t.Fatalf("ParseStage normalized = %s, %v", stage, ok)
	}
	if _, ok := song.ParseStage(""); ok {
		t.Fatal("expected empty stage to be rejected")
	}
	if _, ok := song.ParseStage("mixing"); ok {
		t.Fatal("expected unknown stage to be rejected")
	}
}

func TestParseStageState(t *testing.T) {
	state, ok := song.ParseStageState("In_Progress")
	if !ok || state != song.StateInProgress {
		t.Fatalf("ParseStageState = %s, %v", state, ok)
	}
	if _, ok := song.ParseStageState("paused"); ok {
		t.Fatal("expected unknown state to be rejected")
	}
}
