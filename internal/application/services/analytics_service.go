// Package services provides application-level orchestration services
package services

import (
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/events"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
)

// AnalyticsService emits engagement events to the event sink. Every emit is
// fire-and-forget: a failed store is logged and discarded, and callers are
// never blocked on the write.
type AnalyticsService struct {
	eventRepo events.Repository
	logger    *logging.ChanneledLogger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(eventRepo events.Repository, logger *logging.ChanneledLogger) *AnalyticsService {
	return &AnalyticsService{
		eventRepo: eventRepo,
		logger:    logger,
	}
}

// EmitInteraction records one interaction occurrence with its new count.
func (s *AnalyticsService) EmitInteraction(sessionID, interactionType string, count int) {
	event := &events.InteractionEvent{
		SessionID: sessionID,
		Type:      interactionType,
		Count:     count,
		CreatedAt: time.Now().UTC(),
	}
	go func() {
		if err := s.eventRepo.StoreInteractionEvent(event); err != nil {
			s.logger.Analytics().Warn("Interaction event dropped", "error", err.Error(), "sessionId", sessionID, "type", interactionType)
		}
	}()
}

// EmitTrigger records a section threshold crossing.
func (s *AnalyticsService) EmitTrigger(sessionID, sectionKey, contentID string, totalCount int) {
	event := &events.TriggerEvent{
		SessionID:  sessionID,
		SectionKey: sectionKey,
		ContentID:  contentID,
		TotalCount: totalCount,
		CreatedAt:  time.Now().UTC(),
	}
	go func() {
		if err := s.eventRepo.StoreTriggerEvent(event); err != nil {
			s.logger.Analytics().Warn("Trigger event dropped", "error", err.Error(), "sessionId", sessionID, "sectionKey", sectionKey)
		}
	}()
}

// EmitCTAClick records a followed CTA link with its click source.
func (s *AnalyticsService) EmitCTAClick(sessionID, source string) {
	event := &events.CTAClickEvent{
		SessionID: sessionID,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}
	go func() {
		if err := s.eventRepo.StoreCTAClickEvent(event); err != nil {
			s.logger.Analytics().Warn("CTA click event dropped", "error", err.Error(), "sessionId", sessionID, "source", source)
		}
	}()
}
