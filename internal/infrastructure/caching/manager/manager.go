// Package manager provides centralized cache operations by delegating to
// specialized stores.
package manager

import (
	"sync"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/stores"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/types"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
)

// Manager fronts the in-memory session store and tracks access times.
type Manager struct {
	Mu            sync.RWMutex
	LastAccessed  time.Time
	sessionsStore *stores.SessionsStore
	logger        *logging.ChanneledLogger
}

// NewManager creates the cache manager with its stores.
func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"sessions"})
	}

	return &Manager{
		LastAccessed:  time.Now().UTC(),
		sessionsStore: stores.NewSessionsStore(logger),
		logger:        logger,
	}
}

func (m *Manager) touch() {
	m.Mu.Lock()
	m.LastAccessed = time.Now().UTC()
	m.Mu.Unlock()
}

// GetSession retrieves session state by session ID.
func (m *Manager) GetSession(sessionID string) (*types.SessionState, bool) {
	m.touch()
	return m.sessionsStore.Get(sessionID)
}

// GetOrCreateSession returns existing or freshly created session state; the
// bool reports whether the state was newly created.
func (m *Manager) GetOrCreateSession(sessionID string, catalog *engagement.Catalog) (*types.SessionState, bool) {
	m.touch()
	return m.sessionsStore.GetOrCreate(sessionID, catalog)
}

// TouchSession records session activity.
func (m *Manager) TouchSession(sessionID string) {
	m.sessionsStore.Touch(sessionID)
}

// SetSessionAdmin flags a session as an operator session.
func (m *Manager) SetSessionAdmin(sessionID string, isAdmin bool) {
	m.sessionsStore.SetAdmin(sessionID, isAdmin)
}

// RemoveSession drops a session's in-memory state.
func (m *Manager) RemoveSession(sessionID string) {
	m.sessionsStore.Remove(sessionID)
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	return m.sessionsStore.Count()
}

// SessionSummaries returns the operator snapshot of all live sessions.
func (m *Manager) SessionSummaries() []types.SessionSummary {
	m.touch()
	return m.sessionsStore.Summaries()
}

// SweepIdleSessions evicts idle sessions and returns the evicted IDs.
func (m *Manager) SweepIdleSessions(ttl time.Duration) []string {
	return m.sessionsStore.SweepIdle(ttl)
}
