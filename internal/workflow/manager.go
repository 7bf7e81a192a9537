package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"labeldesk/internal/checklist"
	"labeldesk/internal/config"
	"labeldesk/internal/logging"
	"labeldesk/internal/notifications"
	"labeldesk/internal/song"
	"labeldesk/internal/store"
)

// Manager coordinates the periodic validation sweep over all songs.
type Manager struct {
	cfg          *config.Config
	store        *store.Store
	logger       *slog.Logger
	notifier     notifications.Service
	pollInterval time.Duration

	mu            sync.RWMutex
	running       bool
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	lastErr       error
	lastSweep     time.Time
	lastValidated int64
}

// NewManager constructs a workflow manager with the configured notifier.
func NewManager(cfg *config.Config, songStore *store.Store, logger *slog.Logger) *Manager {
	return NewManagerWithNotifier(cfg, songStore, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom
// notifier (used in tests).
func NewManagerWithNotifier(cfg *config.Config, songStore *store.Store, logger *slog.Logger, notifier notifications.Service) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	interval := time.Duration(cfg.Workflow.ValidateInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Manager{
		cfg:          cfg,
		store:        songStore,
		logger:       logger,
		notifier:     notifier,
		pollInterval: interval,
	}
}

// Start begins the background sweep loop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.run(runCtx)
	return nil
}

// Stop terminates the sweep loop and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.pollInterval):
		}

		validated, err := m.Sweep(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			m.setLastError(err)
			m.logger.Error("validation sweep failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "sweep_failed"),
				logging.String(logging.FieldErrorHint, "check database access"),
			)
			if m.notifier != nil {
				_ = m.notifier.NotifyError(ctx, err, "validation sweep")
			}
			continue
		}
		m.setLastError(nil)
		if validated > 0 {
			m.logger.Info("validation sweep completed items",
				logging.Int64("validated", validated),
				logging.String(logging.FieldEventType, "sweep_completed"),
			)
		}
	}
}

// Sweep runs one validation pass over every song and returns how many items
// it completed. Songs whose checklist changed get their cached progress
// refreshed.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	songs, err := m.store.ListSongs(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, record := range songs {
		validated, err := m.store.ValidateAutoItems(ctx, record.ID)
		if err != nil {
			return total, err
		}
		if validated == 0 {
			continue
		}
		total += validated
		if err := m.refreshProgress(ctx, record); err != nil {
			m.logger.Warn("progress refresh failed",
				logging.Int64(logging.FieldSongID, record.ID),
				logging.Error(err))
		}
	}
	m.mu.Lock()
	m.lastSweep = time.Now().UTC()
	m.lastValidated = total
	m.mu.Unlock()
	return total, nil
}

func (m *Manager) refreshProgress(ctx context.Context, record *song.Song) error {
	items, err := m.store.ListItems(ctx, record.ID)
	if err != nil {
		return err
	}
	view := checklist.Aggregate(items, record.CurrentStage)
	return m.store.SetChecklistProgress(ctx, record.ID, view.SongLevelPercent)
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
