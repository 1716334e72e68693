// Package stores provides concrete cache store implementations
package stores

import (
	"sort"
	"sync"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/types"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
)

// SessionsStore holds the in-memory engagement state for every live session.
type SessionsStore struct {
	sessions map[string]*types.SessionState
	mu       sync.RWMutex
	logger   *logging.ChanneledLogger
}

// NewSessionsStore creates a new sessions cache store
func NewSessionsStore(logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Cache().Info("Initializing sessions cache store")
	}
	return &SessionsStore{
		sessions: make(map[string]*types.SessionState),
		logger:   logger,
	}
}

// Get retrieves session state by session ID.
func (ss *SessionsStore) Get(sessionID string) (*types.SessionState, bool) {
	start := time.Now()
	ss.mu.RLock()
	state, found := ss.sessions[sessionID]
	ss.mu.RUnlock()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "session", "sessionId", sessionID, "hit", found, "duration", time.Since(start))
	}
	return state, found
}

// GetOrCreate returns the existing state for a session, or creates an empty
// one bound to the shared catalog. The second return reports whether the
// state was newly created. Hydration from storage is the caller's job, gated
// by the state's HydrateOnce.
func (ss *SessionsStore) GetOrCreate(sessionID string, catalog *engagement.Catalog) (*types.SessionState, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if state, found := ss.sessions[sessionID]; found {
		state.LastActive = time.Now().UTC()
		return state, false
	}

	now := time.Now().UTC()
	state := &types.SessionState{
		SessionID:  sessionID,
		Tracker:    engagement.NewTracker(catalog),
		CreatedAt:  now,
		LastActive: now,
	}
	ss.sessions[sessionID] = state

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "create", "type", "session", "sessionId", sessionID)
	}
	return state, true
}

// Touch updates the session's last activity timestamp.
func (ss *SessionsStore) Touch(sessionID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if state, found := ss.sessions[sessionID]; found {
		state.LastActive = time.Now().UTC()
	}
}

// SetAdmin flags a session as an operator session for its lifetime.
func (ss *SessionsStore) SetAdmin(sessionID string, isAdmin bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if state, found := ss.sessions[sessionID]; found {
		state.IsAdmin = isAdmin
	}
}

// Remove drops a session's in-memory state.
func (ss *SessionsStore) Remove(sessionID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, sessionID)

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "remove", "type", "session", "sessionId", sessionID)
	}
}

// Count returns the number of live sessions.
func (ss *SessionsStore) Count() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// Summaries returns a consistent snapshot of every live session, most
// recently active first, for the operator polling surface.
func (ss *SessionsStore) Summaries() []types.SessionSummary {
	ss.mu.RLock()
	states := make([]*types.SessionState, 0, len(ss.sessions))
	for _, state := range ss.sessions {
		states = append(states, state)
	}
	ss.mu.RUnlock()

	summaries := make([]types.SessionSummary, 0, len(states))
	for _, state := range states {
		summaries = append(summaries, types.SessionSummary{
			SessionID:     state.SessionID,
			Counts:        state.Tracker.Counts(),
			ShownSections: state.Tracker.ShownSections(),
			IsAdmin:       state.IsAdmin,
			CreatedAt:     state.CreatedAt,
			LastActive:    state.LastActive,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastActive.After(summaries[j].LastActive)
	})
	return summaries
}

// SweepIdle evicts sessions idle longer than ttl and returns their IDs so
// the caller can purge durable state alongside.
func (ss *SessionsStore) SweepIdle(ttl time.Duration) []string {
	start := time.Now()
	cutoff := time.Now().UTC().Add(-ttl)

	ss.mu.Lock()
	var evicted []string
	for sessionID, state := range ss.sessions {
		if state.LastActive.Before(cutoff) {
			delete(ss.sessions, sessionID)
			evicted = append(evicted, sessionID)
		}
	}
	remaining := len(ss.sessions)
	ss.mu.Unlock()

	if ss.logger != nil && len(evicted) > 0 {
		ss.logger.Cache().Info("Idle sessions evicted", "evicted", len(evicted), "remaining", remaining, "duration", time.Since(start))
	}
	return evicted
}
