package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/manager"
	"github.com/lumenlearn/engage-go/internal/infrastructure/persistence/database"
)

// HealthHandlers contains the liveness endpoint
type HealthHandlers struct {
	db           *database.DB
	cacheManager *manager.Manager
	startedAt    time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(db *database.DB, cacheManager *manager.Manager) *HealthHandlers {
	return &HealthHandlers{
		db:           db,
		cacheManager: cacheManager,
		startedAt:    time.Now().UTC(),
	}
}

// GetHealth handles GET /health - liveness plus a coarse database check
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	status := "ok"
	code := http.StatusOK
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"uptime":   time.Since(h.startedAt).Truncate(time.Second).String(),
		"sessions": h.cacheManager.SessionCount(),
	})
}
