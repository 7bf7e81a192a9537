package api_test

import (
	"context"
	"errors"
	"testing"

	"labeldesk/internal/api"
	"labeldesk/internal/services"
	"labeldesk/internal/services/distributor"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
	"labeldesk/internal/testsupport"
	"labeldesk/internal/transition"
)

type captureNotifier struct {
	started   []song.Stage
	completed []song.Stage
	advanced  []song.Stage
	released  []string
	stalled   []song.Stage
}

func (n *captureNotifier) NotifyStageStarted(_ context.Context, _ string, stage song.Stage) error {
	n.started = append(n.started, stage)
	return nil
}

func (n *captureNotifier) NotifyStageCompleted(_ context.Context, _ string, stage song.Stage) error {
	n.completed = append(n.completed, stage)
	return nil
}

func (n *captureNotifier) NotifySongAdvanced(_ context.Context, _ string, _, to song.Stage) error {
	n.advanced = append(n.advanced, to)
	return nil
}

func (n *captureNotifier) NotifySongReleased(_ context.Context, title string) error {
	n.released = append(n.released, title)
	return nil
}

func (n *captureNotifier) NotifyTaskSubmitted(context.Context, string, string) error { return nil }
func (n *captureNotifier) NotifyTaskApproved(context.Context, string, string) error  { return nil }

func (n *captureNotifier) NotifyCascadeStalled(_ context.Context, _ string, completed, _ song.Stage) error {
	n.stalled = append(n.stalled, completed)
	return nil
}

func (n *captureNotifier) NotifyError(context.Context, error, string) error { return nil }
func (n *captureNotifier) TestNotification(context.Context) error           { return nil }

type captureDistributor struct {
	releases []distributor.Release
	err      error
}

func (d *captureDistributor) RegisterRelease(_ context.Context, release distributor.Release) error {
	if d.err != nil {
		return d.err
	}
	d.releases = append(d.releases, release)
	return nil
}

func (d *captureDistributor) Ping(context.Context) error { return nil }

func newStageService(t *testing.T) (*api.StageService, *store.Store, *song.Song, *captureNotifier, *captureDistributor) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	record := testsupport.NewSong(t, st, "Night Drive", "The Hollows")
	notifier := &captureNotifier{}
	dist := &captureDistributor{}
	ctrl := transition.NewController(st, st, nil)
	svc := api.NewStageService(st, ctrl, dist, notifier, nil)
	return svc, st, record, notifier, dist
}

func TestStageServiceStartNotifies(t *testing.T) {
	svc, _, record, notifier, _ := newStageService(t)

	status, err := svc.Start(context.Background(), record.ID, song.StageDraft)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if status.State != string(song.StateInProgress) || status.Action != "finish" {
		t.Fatalf("unexpected status: %#v", status)
	}
	if len(notifier.started) != 1 || notifier.started[0] != song.StageDraft {
		t.Fatalf("unexpected start notifications: %#v", notifier.started)
	}
}

func TestStageServiceFinishMapsIncompleteChecklist(t *testing.T) {
	svc, st, record, _, _ := newStageService(t)
	testsupport.StartStage(t, st, record.ID, song.StageDraft)
	testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Register title",
	})

	_, err := svc.Finish(context.Background(), record.ID, song.StageDraft)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStageServiceBlockAndResume(t *testing.T) {
	svc, st, record, _, _ := newStageService(t)
	testsupport.StartStage(t, st, record.ID, song.StageLabelReview)

	ctx := context.Background()
	blocked, err := svc.Block(ctx, record.ID, song.StageLabelReview)
	if err != nil {
		t.Fatalf("Block failed: %v", err)
	}
	if blocked.Action != "resume" {
		t.Fatalf("blocked action = %s, want resume", blocked.Action)
	}
	resumed, err := svc.Resume(ctx, record.ID, song.StageLabelReview)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	if resumed.State != string(song.StateInProgress) {
		t.Fatalf("resumed state = %s", resumed.State)
	}
}

func TestTerminalActionGatesOnSongLevelItems(t *testing.T) {
	svc, st, record, _, _ := newStageService(t)
	ctx := context.Background()
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StageLabelRecording); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}
	recording, err := st.CreateRecording(ctx, record.ID, "Studio Take")
	if err != nil {
		t.Fatalf("CreateRecording failed: %v", err)
	}
	songLevel := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageLabelRecording, Description: "Approve mix",
	})
	testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageLabelRecording, Description: "Comp takes",
		RecordingID: &recording.ID, RecordingTitle: recording.Title,
	})

	action, err := svc.TerminalAction(ctx, record.ID)
	if err != nil {
		t.Fatalf("TerminalAction failed: %v", err)
	}
	if action != "" {
		t.Fatalf("action = %q, want none while song-level item open", action)
	}

	if _, err := st.ToggleItem(ctx, record.ID, songLevel.ID, "Ana"); err != nil {
		t.Fatalf("ToggleItem failed: %v", err)
	}
	action, err = svc.TerminalAction(ctx, record.ID)
	if err != nil {
		t.Fatalf("TerminalAction failed: %v", err)
	}
	if action != "send_to_marketing" {
		t.Fatalf("action = %q, want send_to_marketing despite open recording item", action)
	}
}

func TestAdvanceIgnoresOpenRecordingItems(t *testing.T) {
	svc, st, record, _, _ := newStageService(t)
	ctx := context.Background()
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StageLabelRecording); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}
	testsupport.StartStage(t, st, record.ID, song.StageLabelRecording)
	recording, err := st.CreateRecording(ctx, record.ID, "Studio Take")
	if err != nil {
		t.Fatalf("CreateRecording failed: %v", err)
	}
	songLevel := testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageLabelRecording, Description: "Approve mix",
	})
	testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageLabelRecording, Description: "Comp takes",
		RecordingID: &recording.ID, RecordingTitle: recording.Title,
	})
	if _, err := st.ToggleItem(ctx, record.ID, songLevel.ID, "Ana"); err != nil {
		t.Fatalf("ToggleItem failed: %v", err)
	}

	// The offered action must be executable: the open recording item keeps
	// the full stage below 100% but does not hold the song back.
	action, err := svc.TerminalAction(ctx, record.ID)
	if err != nil {
		t.Fatalf("TerminalAction failed: %v", err)
	}
	if action != "send_to_marketing" {
		t.Fatalf("action = %q, want send_to_marketing", action)
	}
	advanced, err := svc.Advance(ctx, record.ID)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if advanced.CurrentStage != string(song.StageMarketingAssets) {
		t.Fatalf("current stage = %s, want marketing_assets", advanced.CurrentStage)
	}

	status, err := st.EnsureStageStatus(ctx, record.ID, song.StageLabelRecording)
	if err != nil {
		t.Fatalf("EnsureStageStatus failed: %v", err)
	}
	if status.State != song.StateCompleted {
		t.Fatalf("label_recording state = %s, want completed", status.State)
	}
}

func TestAdvanceSendToMarketingMovesPointer(t *testing.T) {
	svc, st, record, notifier, dist := newStageService(t)
	ctx := context.Background()
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StageLabelRecording); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}
	testsupport.StartStage(t, st, record.ID, song.StageLabelRecording)

	advanced, err := svc.Advance(ctx, record.ID)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if advanced.CurrentStage != string(song.StageMarketingAssets) {
		t.Fatalf("current stage = %s, want marketing_assets", advanced.CurrentStage)
	}
	next, err := st.GetStageStatus(ctx, record.ID, song.StageMarketingAssets)
	if err != nil {
		t.Fatalf("GetStageStatus failed: %v", err)
	}
	if next.State != song.StateInProgress {
		t.Fatalf("next stage state = %s, want in_progress", next.State)
	}
	if len(dist.releases) != 0 {
		t.Fatalf("marketing advance must not register a release: %#v", dist.releases)
	}
	if len(notifier.advanced) != 1 || notifier.advanced[0] != song.StageMarketingAssets {
		t.Fatalf("unexpected advance notifications: %#v", notifier.advanced)
	}
}

func TestAdvanceSendToDigitalRegistersRelease(t *testing.T) {
	svc, st, record, _, dist := newStageService(t)
	ctx := context.Background()
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StageReadyForDigital); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}
	testsupport.StartStage(t, st, record.ID, song.StageReadyForDigital)

	advanced, err := svc.Advance(ctx, record.ID)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if advanced.CurrentStage != string(song.StageDigitalDistribution) {
		t.Fatalf("current stage = %s, want digital_distribution", advanced.CurrentStage)
	}
	if len(dist.releases) != 1 || dist.releases[0].Title != "Night Drive" {
		t.Fatalf("unexpected releases: %#v", dist.releases)
	}
}

func TestAdvanceHaltsWhenDistributorFails(t *testing.T) {
	svc, st, record, _, dist := newStageService(t)
	ctx := context.Background()
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StageReadyForDigital); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}
	testsupport.StartStage(t, st, record.ID, song.StageReadyForDigital)
	dist.err = services.Wrap(services.ErrUpstream, "", "register release", "partner down", nil)

	if _, err := svc.Advance(ctx, record.ID); !errors.Is(err, services.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	unchanged, err := st.GetSong(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetSong failed: %v", err)
	}
	if unchanged.CurrentStage != song.StageReadyForDigital {
		t.Fatalf("pointer moved despite distributor failure: %s", unchanged.CurrentStage)
	}
}

func TestAdvanceRejectsIncompleteChecklist(t *testing.T) {
	svc, st, record, _, _ := newStageService(t)
	ctx := context.Background()
	testsupport.StartStage(t, st, record.ID, song.StageDraft)
	testsupport.AttachItem(t, st, record.ID, store.TemplateItem{
		Stage: song.StageDraft, Description: "Register title",
	})

	if _, err := svc.Advance(ctx, record.ID); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAdvanceIntoReleasedNotifies(t *testing.T) {
	svc, st, record, notifier, _ := newStageService(t)
	ctx := context.Background()
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StageDigitalDistribution); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}
	testsupport.StartStage(t, st, record.ID, song.StageDigitalDistribution)

	advanced, err := svc.Advance(ctx, record.ID)
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if advanced.CurrentStage != string(song.StageReleased) {
		t.Fatalf("current stage = %s, want released", advanced.CurrentStage)
	}
	if len(notifier.released) != 1 {
		t.Fatalf("expected release notification, got %#v", notifier.released)
	}
}

func TestAdvanceAtFinalStageConflicts(t *testing.T) {
	svc, st, record, _, _ := newStageService(t)
	ctx := context.Background()
	if _, err := st.SetCurrentStage(ctx, record.ID, song.StageArchived); err != nil {
		t.Fatalf("SetCurrentStage failed: %v", err)
	}
	testsupport.StartStage(t, st, record.ID, song.StageArchived)

	if _, err := svc.Advance(ctx, record.ID); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict at final stage, got %v", err)
	}
}
