package services

import (
	"fmt"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/manager"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/types"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	sessionstore "github.com/lumenlearn/engage-go/internal/infrastructure/persistence/session"
)

// StateStore is the durable medium for session-scoped state documents.
type StateStore interface {
	Load(sessionID, stateKey string) ([]byte, error)
	Save(sessionID, stateKey string, payload []byte) error
	Delete(sessionID string) error
}

// TrackerService orchestrates interaction tracking for sessions: hydration
// from durable storage on first access, count mutation, CTA trigger
// evaluation, and best-effort persistence on every mutation.
//
// Persistence failures are logged and swallowed; the in-memory state stays
// authoritative for the session. Tracking never throws and never blocks.
type TrackerService struct {
	cacheManager *manager.Manager
	stateStore   StateStore
	analytics    *AnalyticsService
	catalog      *engagement.Catalog
	logger       *logging.ChanneledLogger
}

// NewTrackerService creates a new tracker service with its dependencies.
func NewTrackerService(cacheManager *manager.Manager, stateStore StateStore, analytics *AnalyticsService, catalog *engagement.Catalog, logger *logging.ChanneledLogger) *TrackerService {
	return &TrackerService{
		cacheManager: cacheManager,
		stateStore:   stateStore,
		analytics:    analytics,
		catalog:      catalog,
		logger:       logger,
	}
}

// TrackResult holds the outcome of one tracked interaction.
type TrackResult struct {
	Type       string `json:"type"`
	NewCount   int    `json:"newCount"`
	Triggered  bool   `json:"triggered"`
	SectionKey string `json:"sectionKey,omitempty"`
	ContentID  string `json:"contentId,omitempty"`
}

// StateSnapshot is a read-only copy of one session's engagement state.
type StateSnapshot struct {
	Counts        map[engagement.InteractionType]int `json:"counts"`
	ShownSections []string                           `json:"shownSections"`
}

// Hydrate returns the in-memory state for a session, loading persisted
// documents into a fresh tracker on the session's first request. Concurrent
// first requests all wait until the merge completes. Read-side failures and
// corruption degrade to empty state, never an error.
func (s *TrackerService) Hydrate(sessionID string) *types.SessionState {
	state, _ := s.cacheManager.GetOrCreateSession(sessionID, s.catalog)

	state.HydrateOnce(func() {
		countsRaw, err := s.stateStore.Load(sessionID, sessionstore.KeyInteractionCounts)
		if err != nil {
			s.logger.Engage().Warn("Count hydration failed, starting empty", "error", err.Error(), "sessionId", sessionID)
		}
		shownRaw, err := s.stateStore.Load(sessionID, sessionstore.KeyShownSections)
		if err != nil {
			s.logger.Engage().Warn("Shown-set hydration failed, starting empty", "error", err.Error(), "sessionId", sessionID)
		}

		counts := engagement.DecodeCounts(countsRaw)
		shown := engagement.DecodeShown(shownRaw)
		if len(counts) > 0 || len(shown) > 0 {
			state.Tracker.Restore(counts, shown)
			s.logger.Engage().Debug("Session state hydrated", "sessionId", sessionID, "countKeys", len(counts), "shownSections", len(shown))
		}
	})
	return state
}

// Track records one interaction for a session and evaluates CTA thresholds.
// It returns an error only for an unknown interaction type; storage failures
// never surface.
func (s *TrackerService) Track(sessionID string, interactionType engagement.InteractionType) (*TrackResult, error) {
	if !engagement.IsKnownType(interactionType) {
		return nil, fmt.Errorf("unknown interaction type: %q", interactionType)
	}

	start := time.Now()
	state := s.Hydrate(sessionID)

	sectionKey, triggered := state.Tracker.Track(interactionType)
	newCount := state.Tracker.Count(interactionType)
	s.cacheManager.TouchSession(sessionID)

	s.persistCounts(sessionID, state)
	s.analytics.EmitInteraction(sessionID, string(interactionType), newCount)

	result := &TrackResult{
		Type:     string(interactionType),
		NewCount: newCount,
	}

	if triggered {
		section, _ := s.catalog.Section(sectionKey)
		result.Triggered = true
		result.SectionKey = sectionKey
		result.ContentID = section.ContentID

		s.persistShown(sessionID, state)

		totalCount := 0
		counts := state.Tracker.Counts()
		for _, contributing := range section.Interactions {
			totalCount += counts[contributing]
		}
		s.analytics.EmitTrigger(sessionID, sectionKey, section.ContentID, totalCount)

		s.logger.Engage().Info("Section threshold crossed",
			"sessionId", sessionID,
			"sectionKey", sectionKey,
			"contentId", section.ContentID,
			"totalCount", totalCount,
			"duration", time.Since(start))
	} else {
		s.logger.Engage().Debug("Interaction tracked",
			"sessionId", sessionID,
			"type", interactionType,
			"newCount", newCount,
			"duration", time.Since(start))
	}

	return result, nil
}

// RecordCTAClick records a followed CTA link. Clicks never contribute to
// section thresholds.
func (s *TrackerService) RecordCTAClick(sessionID, source string) {
	s.cacheManager.TouchSession(sessionID)
	s.analytics.EmitCTAClick(sessionID, source)
}

// Snapshot returns a consistent read-only copy of a session's state.
func (s *TrackerService) Snapshot(sessionID string) *StateSnapshot {
	state := s.Hydrate(sessionID)
	return &StateSnapshot{
		Counts:        state.Tracker.Counts(),
		ShownSections: state.Tracker.ShownSections(),
	}
}

// Reset clears a session's counts and shown-set and persists the cleared
// state. Destructive, no undo; used by support tooling and tests.
func (s *TrackerService) Reset(sessionID string) {
	state := s.Hydrate(sessionID)
	state.Tracker.Reset()

	s.persistCounts(sessionID, state)
	s.persistShown(sessionID, state)
	s.logger.Engage().Info("Session state reset", "sessionId", sessionID)
}

func (s *TrackerService) persistCounts(sessionID string, state *types.SessionState) {
	payload, err := engagement.EncodeCounts(state.Tracker.Counts())
	if err != nil {
		s.logger.Engage().Warn("Count encoding failed, state remains in memory", "error", err.Error(), "sessionId", sessionID)
		return
	}
	if err := s.stateStore.Save(sessionID, sessionstore.KeyInteractionCounts, payload); err != nil {
		s.logger.Engage().Warn("Count persistence failed, state remains in memory", "error", err.Error(), "sessionId", sessionID)
	}
}

func (s *TrackerService) persistShown(sessionID string, state *types.SessionState) {
	payload, err := engagement.EncodeShown(state.Tracker.ShownSections())
	if err != nil {
		s.logger.Engage().Warn("Shown-set encoding failed, state remains in memory", "error", err.Error(), "sessionId", sessionID)
		return
	}
	if err := s.stateStore.Save(sessionID, sessionstore.KeyShownSections, payload); err != nil {
		s.logger.Engage().Warn("Shown-set persistence failed, state remains in memory", "error", err.Error(), "sessionId", sessionID)
	}
}
