package daemon

import (
	"net/http"
	"strings"
)

func (s *apiServer) handleOpenTask(w http.ResponseWriter, r *http.Request) {
	songID, ok := s.songID(w, r)
	if !ok {
		return
	}
	itemID, ok := s.itemID(w, r)
	if !ok {
		return
	}
	task, err := s.taskSvc.Open(r.Context(), songID, itemID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *apiServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	songID, ok := s.songID(w, r)
	if !ok {
		return
	}
	itemID, ok := s.itemID(w, r)
	if !ok {
		return
	}
	instances, err := s.taskSvc.List(r.Context(), songID, itemID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tasks": instances})
}

func (s *apiServer) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(r.PathValue("task"))
	if taskID == "" {
		s.writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	var body struct {
		Payload string `json:"payload"`
		Actor   string `json:"actor"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	task, err := s.taskSvc.Submit(r.Context(), taskID, body.Payload, body.Actor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *apiServer) handleApproveTask(w http.ResponseWriter, r *http.Request) {
	taskID := strings.TrimSpace(r.PathValue("task"))
	if taskID == "" {
		s.writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	var body struct {
		Actor string `json:"actor"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	task, err := s.taskSvc.Approve(r.Context(), taskID, body.Actor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}
