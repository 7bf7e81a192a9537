package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"labeldesk/internal/api"
	"labeldesk/internal/config"
	"labeldesk/internal/daemon"
	"labeldesk/internal/logging"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
	"labeldesk/internal/testsupport"
	"labeldesk/internal/workflow"
)

type apiFixture struct {
	daemon *daemon.Daemon
	store  *store.Store
	base   string
	client *http.Client
}

func startAPIFixture(t *testing.T, opts ...testsupport.ConfigOption) *apiFixture {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	return startAPIFixtureWithConfig(t, cfg)
}

func startAPIFixtureWithConfig(t *testing.T, cfg *config.Config) *apiFixture {
	t.Helper()

	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()
	d, err := daemon.New(cfg, st, logger, workflow.NewManager(cfg, st, logger))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		d.Stop()
		_ = d.Close()
	})

	return &apiFixture{
		daemon: d,
		store:  st,
		base:   "http://" + d.APIAddr(),
		client: &http.Client{},
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, wantStatus int, dest any) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, f.base+path, &payload)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s returned %d, want %d", method, path, resp.StatusCode, wantStatus)
	}
	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func TestAPISongWorkflow(t *testing.T) {
	f := startAPIFixture(t)

	var created api.Song
	f.do(t, http.MethodPost, "/api/songs", map[string]string{
		"title":  "Night Drive",
		"artist": "The Waveforms",
	}, http.StatusCreated, &created)
	if created.ID == 0 {
		t.Fatal("expected created song to carry an id")
	}
	if created.CurrentStage != string(song.StageDraft) {
		t.Fatalf("new song current stage = %q", created.CurrentStage)
	}

	var list api.SongListResponse
	f.do(t, http.MethodGet, "/api/songs", nil, http.StatusOK, &list)
	if len(list.Songs) != 1 || list.Songs[0].ID != created.ID {
		t.Fatalf("unexpected song list: %+v", list.Songs)
	}

	item := testsupport.AttachItem(t, f.store, created.ID, store.TemplateItem{
		Stage:          song.StageDraft,
		Category:       "composition",
		Description:    "Register the working title",
		ValidationType: song.ValidationManual,
	})

	var status api.StageStatus
	f.do(t, http.MethodPost, fmt.Sprintf("/api/songs/%d/stages/draft/start", created.ID), nil, http.StatusOK, &status)
	if status.State != string(song.StateInProgress) {
		t.Fatalf("started stage state = %q", status.State)
	}

	var view api.StageChecklist
	f.do(t, http.MethodGet, fmt.Sprintf("/api/songs/%d/checklist", created.ID), nil, http.StatusOK, &view)
	if view.Stage != string(song.StageDraft) {
		t.Fatalf("checklist defaulted to stage %q", view.Stage)
	}
	if view.StagePercent != 0 {
		t.Fatalf("fresh checklist percent = %d", view.StagePercent)
	}

	var toggled api.ChecklistItem
	f.do(t, http.MethodPost, fmt.Sprintf("/api/songs/%d/items/%d/toggle", created.ID, item.ID), map[string]string{
		"actor": "ana",
	}, http.StatusOK, &toggled)
	if !toggled.IsComplete {
		t.Fatal("expected toggle to complete the item")
	}

	var advanced api.Song
	f.do(t, http.MethodPost, fmt.Sprintf("/api/songs/%d/advance", created.ID), nil, http.StatusOK, &advanced)
	if advanced.CurrentStage != string(song.StagePublishing) {
		t.Fatalf("advanced song stage = %q", advanced.CurrentStage)
	}

	var detail api.SongDetailResponse
	f.do(t, http.MethodGet, fmt.Sprintf("/api/songs/%d", created.ID), nil, http.StatusOK, &detail)
	states := make(map[string]string, len(detail.Statuses))
	for _, st := range detail.Statuses {
		states[st.Stage] = st.State
	}
	if states[string(song.StageDraft)] != string(song.StateCompleted) {
		t.Fatalf("draft state after advance = %q", states[string(song.StageDraft)])
	}
	if states[string(song.StagePublishing)] != string(song.StateInProgress) {
		t.Fatalf("publishing state after advance = %q", states[string(song.StagePublishing)])
	}
}

func TestAPIRejectsUnknownSongAndStage(t *testing.T) {
	f := startAPIFixture(t)

	f.do(t, http.MethodGet, "/api/songs/4242", nil, http.StatusNotFound, nil)

	var created api.Song
	f.do(t, http.MethodPost, "/api/songs", map[string]string{"title": "Afterimage"}, http.StatusCreated, &created)
	f.do(t, http.MethodPost, fmt.Sprintf("/api/songs/%d/stages/mixing/start", created.ID), nil, http.StatusBadRequest, nil)
}

func TestAPIFinishRequiresCompleteChecklist(t *testing.T) {
	f := startAPIFixture(t)

	var created api.Song
	f.do(t, http.MethodPost, "/api/songs", map[string]string{"title": "Undertow"}, http.StatusCreated, &created)
	testsupport.AttachItem(t, f.store, created.ID, store.TemplateItem{
		Stage:          song.StageDraft,
		Category:       "composition",
		Description:    "Confirm the final lyric sheet",
		ValidationType: song.ValidationManual,
	})

	f.do(t, http.MethodPost, fmt.Sprintf("/api/songs/%d/stages/draft/start", created.ID), nil, http.StatusOK, nil)
	f.do(t, http.MethodPost, fmt.Sprintf("/api/songs/%d/stages/draft/finish", created.ID), nil, http.StatusUnprocessableEntity, nil)
}

func TestAPIBearerToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIToken = "sekrit"
	f := startAPIFixtureWithConfig(t, cfg)

	resp, err := http.Get(f.base + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request returned %d", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, f.base+"/api/status", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = f.client.Do(req)
	if err != nil {
		t.Fatalf("authenticated GET /api/status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated request returned %d", resp.StatusCode)
	}
}
