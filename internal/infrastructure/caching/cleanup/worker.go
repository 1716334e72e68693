// Package cleanup provides the background session sweep worker
package cleanup

import (
	"context"
	"time"

	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/manager"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/pkg/config"
)

// stateStore is the durable side of the sweep: per-session deletion for the
// sessions evicted from memory, plus a time-based purge for rows whose
// sessions never reached this process.
type stateStore interface {
	Delete(sessionID string) error
	PurgeIdle(ttl time.Duration) (int64, error)
}

// Worker evicts idle sessions from memory and purges their durable state.
type Worker struct {
	cacheManager *manager.Manager
	stateRepo    stateStore
	logger       *logging.ChanneledLogger
	interval     time.Duration
	ttl          time.Duration
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cacheManager *manager.Manager, stateRepo stateStore, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cacheManager: cacheManager,
		stateRepo:    stateRepo,
		logger:       logger,
		interval:     config.SessionSweepEvery,
		ttl:          config.SessionTTL,
	}
}

// Start begins the sweep routine, using the configured interval.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Cache().Info("Session sweep worker started", "interval", w.interval, "ttl", w.ttl)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Session sweep worker stopping")
			return
		case <-ticker.C:
			w.performSweep()
		}
	}
}

func (w *Worker) performSweep() {
	start := time.Now()
	evicted := w.cacheManager.SweepIdleSessions(w.ttl)

	// Over capacity, idle sessions get a shorter grace period.
	if count := w.cacheManager.SessionCount(); count > config.MaxTrackedSessions {
		w.logger.Cache().Warn("Session count over capacity, sweeping with reduced ttl",
			"count", count,
			"max", config.MaxTrackedSessions)
		extra := w.cacheManager.SweepIdleSessions(w.ttl / 4)
		evicted = append(evicted, extra...)
	}

	// Durable purge follows the in-memory eviction so both sides expire on
	// the same clock. Writes stay best-effort like every other storage write.
	for _, sessionID := range evicted {
		if err := w.stateRepo.Delete(sessionID); err != nil {
			w.logger.Cache().Warn("Durable session delete failed", "error", err.Error(), "sessionId", sessionID)
		}
	}

	// Rows whose sessions never reached this process (e.g. written before a
	// restart) are never in the in-memory store; a time-based purge catches
	// those stragglers.
	if _, err := w.stateRepo.PurgeIdle(w.ttl); err != nil {
		w.logger.Cache().Warn("Durable session purge failed", "error", err.Error())
	}

	if len(evicted) > 0 {
		w.logger.Cache().Info("Session sweep completed", "evicted", len(evicted), "duration", time.Since(start))
	}
}
