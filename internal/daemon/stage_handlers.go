package daemon

import (
	"net/http"
)

func (s *apiServer) handleStageAction(w http.ResponseWriter, r *http.Request) {
	songID, ok := s.songID(w, r)
	if !ok {
		return
	}
	stage, ok := s.stageParam(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	switch r.PathValue("action") {
	case "start":
		status, err := s.stageSvc.Start(ctx, songID, stage)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, status)
	case "finish":
		status, err := s.stageSvc.Finish(ctx, songID, stage)
		if err != nil {
			// A stalled cascade still completed the stage; report both.
			if status != nil {
				s.writeJSON(w, http.StatusConflict, map[string]any{
					"status": status,
					"error":  err.Error(),
				})
				return
			}
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, status)
	case "resume":
		status, err := s.stageSvc.Resume(ctx, songID, stage)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, status)
	case "block":
		status, err := s.stageSvc.Block(ctx, songID, stage)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, status)
	default:
		s.writeError(w, http.StatusNotFound, "unknown stage action")
	}
}

func (s *apiServer) handleAdvance(w http.ResponseWriter, r *http.Request) {
	songID, ok := s.songID(w, r)
	if !ok {
		return
	}
	advanced, err := s.stageSvc.Advance(r.Context(), songID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, advanced)
}
