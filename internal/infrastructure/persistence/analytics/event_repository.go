// Package analytics provides the concrete SQL-based implementation for
// analytics event persistence.
//
// PURPOSE: Store engagement events to the events table as they happen.
// Emission is fire-and-forget at the service layer; a failed insert is
// logged and discarded, never surfaced to the caller.
package analytics

import (
	"fmt"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/events"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/persistence/database"
	"github.com/lumenlearn/engage-go/internal/infrastructure/security"
	"github.com/lumenlearn/engage-go/pkg/config"
)

// SQLEventRepository handles real-time event persistence to the database.
type SQLEventRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLEventRepository creates a new instance of the repository.
func NewSQLEventRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLEventRepository {
	return &SQLEventRepository{
		db:     db,
		logger: logger,
	}
}

const insertQuery = `
	INSERT INTO events (id, session_id, verb, object_id, object_type, count, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// StoreInteractionEvent saves one interaction occurrence with its new count.
func (r *SQLEventRepository) StoreInteractionEvent(event *events.InteractionEvent) error {
	eventID := security.GenerateULID()

	start := time.Now()
	_, err := r.db.Exec(
		insertQuery,
		eventID,
		event.SessionID,
		events.VerbInteraction,
		event.Type,
		"interaction",
		event.Count,
		event.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		r.logger.Database().Error("Interaction event insert failed",
			"error", err.Error(),
			"eventId", eventID,
			"sessionId", event.SessionID,
			"type", event.Type)
		return fmt.Errorf("failed to store interaction event: %w", err)
	}

	r.logger.Database().Debug("Interaction event insert completed",
		"eventId", eventID,
		"sessionId", event.SessionID,
		"type", event.Type,
		"count", event.Count,
		"duration", time.Since(start))
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(insertQuery, duration, event.SessionID)
	}
	return nil
}

// StoreTriggerEvent saves a section threshold crossing.
func (r *SQLEventRepository) StoreTriggerEvent(event *events.TriggerEvent) error {
	eventID := security.GenerateULID()

	start := time.Now()
	_, err := r.db.Exec(
		insertQuery,
		eventID,
		event.SessionID,
		events.VerbTrigger,
		event.SectionKey,
		event.ContentID,
		event.TotalCount,
		event.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		r.logger.Database().Error("Trigger event insert failed",
			"error", err.Error(),
			"eventId", eventID,
			"sessionId", event.SessionID,
			"sectionKey", event.SectionKey)
		return fmt.Errorf("failed to store trigger event: %w", err)
	}

	r.logger.Database().Info("Trigger event insert completed",
		"eventId", eventID,
		"sessionId", event.SessionID,
		"sectionKey", event.SectionKey,
		"contentId", event.ContentID,
		"totalCount", event.TotalCount,
		"duration", time.Since(start))
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(insertQuery, duration, event.SessionID)
	}
	return nil
}

// StoreCTAClickEvent saves a CTA link follow with its click source.
func (r *SQLEventRepository) StoreCTAClickEvent(event *events.CTAClickEvent) error {
	eventID := security.GenerateULID()

	_, err := r.db.Exec(
		insertQuery,
		eventID,
		event.SessionID,
		events.VerbCTAClick,
		event.Source,
		"cta",
		nil,
		event.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		r.logger.Database().Error("CTA click event insert failed",
			"error", err.Error(),
			"eventId", eventID,
			"sessionId", event.SessionID,
			"source", event.Source)
		return fmt.Errorf("failed to store cta click event: %w", err)
	}

	r.logger.Database().Debug("CTA click event insert completed",
		"eventId", eventID,
		"sessionId", event.SessionID,
		"source", event.Source)
	return nil
}
