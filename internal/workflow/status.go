package workflow

import (
	"context"
	"time"

	"labeldesk/internal/logging"
	"labeldesk/internal/song"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running       bool
	LastError     string
	LastSweep     time.Time
	LastValidated int64
	SongStats     map[song.Stage]int
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	summary := StatusSummary{
		Running:       m.running,
		LastSweep:     m.lastSweep,
		LastValidated: m.lastValidated,
	}
	if m.lastErr != nil {
		summary.LastError = m.lastErr.Error()
	}
	m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Warn("failed to read song stats", logging.Error(err))
	}
	summary.SongStats = stats
	return summary
}
