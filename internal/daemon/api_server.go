package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"labeldesk/internal/api"
	"labeldesk/internal/config"
	"labeldesk/internal/logging"
	"labeldesk/internal/logs"
	"labeldesk/internal/notifications"
	"labeldesk/internal/services"
	"labeldesk/internal/services/distributor"
	"labeldesk/internal/song"
	"labeldesk/internal/tasks"
	"labeldesk/internal/transition"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	songSvc      *api.SongService
	checklistSvc *api.ChecklistService
	stageSvc     *api.StageService
	taskSvc      *api.TaskService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	notifier := notifications.NewService(cfg)
	controller := transition.NewController(d.store, d.store, logger)
	srv := &apiServer{
		bind:         bind,
		logger:       logger,
		daemon:       d,
		songSvc:      api.NewSongService(d.store),
		checklistSvc: api.NewChecklistService(d.store, logger),
		stageSvc:     api.NewStageService(d.store, controller, distributor.NewConfiguredService(cfg), notifier, logger),
		taskSvc:      api.NewTaskService(d.store, tasks.NewResolver(d.store, logger), notifier, logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/logs", srv.handleLogs)
	mux.HandleFunc("GET /api/songs", srv.handleListSongs)
	mux.HandleFunc("POST /api/songs", srv.handleCreateSong)
	mux.HandleFunc("GET /api/songs/{id}", srv.handleDescribeSong)
	mux.HandleFunc("POST /api/songs/{id}/recordings", srv.handleAddRecording)
	mux.HandleFunc("GET /api/songs/{id}/checklist", srv.handleChecklist)
	mux.HandleFunc("POST /api/songs/{id}/validate", srv.handleValidate)
	mux.HandleFunc("POST /api/songs/{id}/advance", srv.handleAdvance)
	mux.HandleFunc("POST /api/songs/{id}/stages/{stage}/{action}", srv.handleStageAction)
	mux.HandleFunc("POST /api/songs/{id}/items/{item}/toggle", srv.handleToggleItem)
	mux.HandleFunc("POST /api/songs/{id}/items/{item}/assign", srv.handleAssignItem)
	mux.HandleFunc("POST /api/songs/{id}/items/{item}/asset", srv.handleItemAsset)
	mux.HandleFunc("POST /api/songs/{id}/items/{item}/task", srv.handleOpenTask)
	mux.HandleFunc("GET /api/songs/{id}/items/{item}/tasks", srv.handleListTasks)
	mux.HandleFunc("POST /api/tasks/{task}/submit", srv.handleSubmitTask)
	mux.HandleFunc("POST /api/tasks/{task}/approve", srv.handleApproveTask)

	srv.server = &http.Server{
		Handler:           authMiddleware(strings.TrimSpace(cfg.Paths.APIToken), mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	stats := make(map[string]int, len(status.Workflow.SongStats))
	for stage, count := range status.Workflow.SongStats {
		stats[string(stage)] = count
	}
	payload := map[string]any{
		"running":      status.Running,
		"dbPath":       status.DBPath,
		"lockFilePath": status.LockFilePath,
		"workflow": map[string]any{
			"running":       status.Workflow.Running,
			"lastError":     status.Workflow.LastError,
			"lastSweep":     api.FormatTime(status.Workflow.LastSweep),
			"lastValidated": status.Workflow.LastValidated,
			"songStats":     stats,
		},
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	offset := int64(-1)
	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = parsed
	}
	limit := 100
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	follow := query.Get("follow") == "1"
	wait := time.Duration(0)
	if raw := strings.TrimSpace(query.Get("wait")); raw != "" {
		millis, err := strconv.Atoi(raw)
		if err != nil || millis < 0 {
			s.writeError(w, http.StatusBadRequest, "invalid wait")
			return
		}
		wait = time.Duration(millis) * time.Millisecond
	}
	if follow && wait <= 0 {
		wait = time.Second
	}

	result, err := logs.Tail(r.Context(), s.daemon.LogPath(), logs.TailOptions{
		Offset: offset,
		Limit:  limit,
		Follow: follow,
		Wait:   wait,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.writeError(w, http.StatusInternalServerError, "failed to read logs")
		return
	}
	s.writeJSON(w, http.StatusOK, logs.TailPage{Lines: result.Lines, Offset: result.Offset})
}

func (s *apiServer) songID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid song id")
		return 0, false
	}
	return id, true
}

func (s *apiServer) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("item"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

func (s *apiServer) stageParam(w http.ResponseWriter, r *http.Request) (song.Stage, bool) {
	stage, ok := song.ParseStage(r.PathValue("stage"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown stage")
		return "", false
	}
	return stage, true
}

func (s *apiServer) decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if r.Body == nil {
		return true
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		// An empty body means an empty request, not a malformed one.
		if errors.Is(err, io.EOF) {
			return true
		}
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, services.HTTPStatus(err), err.Error())
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
