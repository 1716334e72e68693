// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/application/services"
	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/performance"
	"github.com/lumenlearn/engage-go/internal/presentation/http/middleware"
)

// ctaClickEventType is the one event type that reports a followed CTA link
// instead of a countable interaction.
const ctaClickEventType = "cta_click"

// TrackHandlers contains all engagement tracking HTTP handlers
type TrackHandlers struct {
	trackerService *services.TrackerService
	ctaService     *services.CTAContentService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewTrackHandlers creates track handlers with injected dependencies
func NewTrackHandlers(trackerService *services.TrackerService, ctaService *services.CTAContentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *TrackHandlers {
	return &TrackHandlers{
		trackerService: trackerService,
		ctaService:     ctaService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

type trackRequest struct {
	EventType string `json:"eventType" binding:"required"`
	Source    string `json:"source"`
}

// PostTrack handles POST /api/v1/track - records one interaction and reports
// a CTA payload when a section threshold is crossed
func (h *TrackHandlers) PostTrack(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not resolved"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("post_track_request", sessionID)
	defer marker.Complete()

	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventType required"})
		return
	}

	if req.EventType == ctaClickEventType {
		h.trackerService.RecordCTAClick(sessionID, req.Source)
		c.JSON(http.StatusOK, gin.H{"recorded": true})
		return
	}

	result, err := h.trackerService.Track(sessionID, engagement.InteractionType(req.EventType))
	if err != nil {
		h.logger.Engage().Warn("Track request rejected", "sessionId", sessionID, "eventType", req.EventType, "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"type":      result.Type,
		"newCount":  result.NewCount,
		"triggered": result.Triggered,
	}

	if result.Triggered {
		content, err := h.ctaService.Resolve(result.SectionKey, result.ContentID)
		if err != nil {
			// A triggered section with no content entry is a config bug.
			// The count already landed, so report the trigger without copy.
			h.logger.Engage().Error("CTA content resolution failed", "sessionId", sessionID, "sectionKey", result.SectionKey, "error", err.Error())
		} else {
			response["cta"] = content
		}
	}

	h.logger.Perf().Debug("Performance for PostTrack request", "duration", time.Since(start), "sessionId", sessionID, "triggered", result.Triggered)
	c.JSON(http.StatusOK, response)
}

// GetState handles GET /api/v1/state - returns the caller's counts and shown
// sections
func (h *TrackHandlers) GetState(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not resolved"})
		return
	}

	snapshot := h.trackerService.Snapshot(sessionID)
	c.JSON(http.StatusOK, gin.H{
		"sessionId":     sessionID,
		"counts":        snapshot.Counts,
		"shownSections": snapshot.ShownSections,
	})
}

// PostReset handles POST /api/v1/state/reset - clears the caller's counts and
// re-arms every section. Destructive, no undo
func (h *TrackHandlers) PostReset(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not resolved"})
		return
	}

	h.trackerService.Reset(sessionID)
	c.JSON(http.StatusOK, gin.H{"reset": true, "sessionId": sessionID})
}
