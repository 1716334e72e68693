package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/application/services"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/performance"
	"github.com/lumenlearn/engage-go/internal/presentation/http/middleware"
)

// UnlockHandlers contains all day unlock HTTP handlers
type UnlockHandlers struct {
	unlockService *services.UnlockService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewUnlockHandlers creates unlock handlers with injected dependencies
func NewUnlockHandlers(unlockService *services.UnlockService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *UnlockHandlers {
	return &UnlockHandlers{
		unlockService: unlockService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetUnlock handles GET /api/v1/unlock/:id - gate decision for one day
func (h *UnlockHandlers) GetUnlock(c *gin.Context) {
	id := c.Param("id")
	status := h.unlockService.Status(id, middleware.GetIsAdmin(c))
	c.JSON(http.StatusOK, status)
}

// GetSchedule handles GET /api/v1/unlock - full schedule plus banner gate
func (h *UnlockHandlers) GetSchedule(c *gin.Context) {
	result := h.unlockService.Schedule(middleware.GetIsAdmin(c))
	c.JSON(http.StatusOK, result)
}
