package cleanup

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/manager"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
)

type fakeStateStore struct {
	mu      sync.Mutex
	deleted []string
	purged  bool
}

func (f *fakeStateStore) Delete(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *fakeStateStore) PurgeIdle(ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = true
	return 0, nil
}

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError + 4,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		t.Fatalf("NewChanneledLogger: %v", err)
	}
	return logger
}

func TestSweepPurgesDurableStateForEvictedSessions(t *testing.T) {
	logger := quietLogger(t)
	cacheManager := manager.NewManager(logger)
	catalog := engagement.DefaultCatalog()

	stale, _ := cacheManager.GetOrCreateSession("stale", catalog)
	stale.LastActive = time.Now().UTC().Add(-2 * time.Hour)
	cacheManager.GetOrCreateSession("fresh", catalog)

	store := &fakeStateStore{}
	worker := NewWorker(cacheManager, store, logger)
	worker.ttl = time.Hour

	worker.performSweep()

	if len(store.deleted) != 1 || store.deleted[0] != "stale" {
		t.Errorf("deleted = %v, want [stale]", store.deleted)
	}
	if !store.purged {
		t.Error("time-based purge must still run for rows unknown to this process")
	}
	if cacheManager.SessionCount() != 1 {
		t.Errorf("SessionCount = %d, want 1", cacheManager.SessionCount())
	}
}

func TestSweepWithNoIdleSessionsDeletesNothing(t *testing.T) {
	logger := quietLogger(t)
	cacheManager := manager.NewManager(logger)
	cacheManager.GetOrCreateSession("active", engagement.DefaultCatalog())

	store := &fakeStateStore{}
	worker := NewWorker(cacheManager, store, logger)
	worker.ttl = time.Hour

	worker.performSweep()

	if len(store.deleted) != 0 {
		t.Errorf("deleted = %v, want none", store.deleted)
	}
}
