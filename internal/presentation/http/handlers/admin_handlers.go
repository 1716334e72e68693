package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/application/services"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/manager"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/performance"
	"github.com/lumenlearn/engage-go/internal/presentation/http/middleware"
)

// AdminHandlers contains the operator surface HTTP handlers
type AdminHandlers struct {
	adminService   *services.AdminService
	trackerService *services.TrackerService
	cacheManager   *manager.Manager
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(adminService *services.AdminService, trackerService *services.TrackerService, cacheManager *manager.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AdminHandlers {
	return &AdminHandlers{
		adminService:   adminService,
		trackerService: trackerService,
		cacheManager:   cacheManager,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

type loginRequest struct {
	Key string `json:"key"`
}

// PostLogin handles POST /api/v1/admin/login - credential in, bypass token out
func (h *AdminHandlers) PostLogin(c *gin.Context) {
	sessionID, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session not resolved"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_login_request", sessionID)
	defer marker.Complete()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		req.Key = c.PostForm("key")
	}

	result := h.adminService.Authenticate(sessionID, req.Key)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusUnauthorized, result)
		return
	}

	h.cacheManager.SetSessionAdmin(sessionID, true)
	h.logger.Perf().Debug("Performance for admin login", "duration", time.Since(start), "sessionId", sessionID)
	c.JSON(http.StatusOK, result)
}

// GetStatus handles GET /api/v1/admin/status - reports whether the presented
// token grants the bypass
func (h *AdminHandlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isAdmin": middleware.GetIsAdmin(c)})
}

// GetSessions handles GET /api/v1/admin/sessions - operator snapshot of all
// live sessions, polled by the dashboard
func (h *AdminHandlers) GetSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count":    h.cacheManager.SessionCount(),
		"sessions": h.cacheManager.SessionSummaries(),
	})
}

// GetPerf handles GET /api/v1/admin/perf - aggregated operation timings for
// the operator dashboard
func (h *AdminHandlers) GetPerf(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"operations": h.perfTracker.Summary()})
}

// PostSessionReset handles POST /api/v1/admin/sessions/:id/reset - operator
// reset of one visitor session
func (h *AdminHandlers) PostSessionReset(c *gin.Context) {
	targetID := c.Param("id")
	if targetID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id required"})
		return
	}

	h.trackerService.Reset(targetID)
	h.logger.Engage().Info("Operator reset session", "targetSessionId", targetID)
	c.JSON(http.StatusOK, gin.H{"reset": true, "sessionId": targetID})
}
