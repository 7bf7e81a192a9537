package daemon

import (
	"net/http"
	"strings"

	"labeldesk/internal/api"
	"labeldesk/internal/song"
)

func (s *apiServer) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.songSvc.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SongListResponse{Songs: songs})
}

func (s *apiServer) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title  string `json:"title"`
		Artist string `json:"artist"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	created, err := s.songSvc.Create(r.Context(), body.Title, body.Artist)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *apiServer) handleDescribeSong(w http.ResponseWriter, r *http.Request) {
	id, ok := s.songID(w, r)
	if !ok {
		return
	}
	detail, err := s.songSvc.Describe(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *apiServer) handleAddRecording(w http.ResponseWriter, r *http.Request) {
	id, ok := s.songID(w, r)
	if !ok {
		return
	}
	var body struct {
		Title string `json:"title"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	recording, err := s.songSvc.AddRecording(r.Context(), id, body.Title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, recording)
}

func (s *apiServer) handleChecklist(w http.ResponseWriter, r *http.Request) {
	id, ok := s.songID(w, r)
	if !ok {
		return
	}
	stageValue := strings.TrimSpace(r.URL.Query().Get("stage"))
	var stage song.Stage
	if stageValue == "" {
		record, err := s.songSvc.Describe(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		stage = song.Stage(record.Song.CurrentStage)
	} else {
		parsed, valid := song.ParseStage(stageValue)
		if !valid {
			s.writeError(w, http.StatusBadRequest, "unknown stage")
			return
		}
		stage = parsed
	}
	view, err := s.checklistSvc.StageView(r.Context(), id, stage)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *apiServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.songID(w, r)
	if !ok {
		return
	}
	count, err := s.checklistSvc.Validate(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"validated": count})
}

func (s *apiServer) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	songID, ok := s.songID(w, r)
	if !ok {
		return
	}
	itemID, ok := s.itemID(w, r)
	if !ok {
		return
	}
	var body struct {
		Actor string `json:"actor"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	item, err := s.checklistSvc.Toggle(r.Context(), songID, itemID, body.Actor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}

func (s *apiServer) handleAssignItem(w http.ResponseWriter, r *http.Request) {
	songID, ok := s.songID(w, r)
	if !ok {
		return
	}
	itemID, ok := s.itemID(w, r)
	if !ok {
		return
	}
	var body struct {
		Assignee string `json:"assignee"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	item, err := s.checklistSvc.Assign(r.Context(), songID, itemID, body.Assignee)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}

func (s *apiServer) handleItemAsset(w http.ResponseWriter, r *http.Request) {
	songID, ok := s.songID(w, r)
	if !ok {
		return
	}
	itemID, ok := s.itemID(w, r)
	if !ok {
		return
	}
	var body struct {
		URL   string `json:"url"`
		Actor string `json:"actor"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	item, err := s.checklistSvc.SetAssetURL(r.Context(), songID, itemID, body.URL, body.Actor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}
