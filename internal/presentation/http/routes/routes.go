// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/application/container"
	"github.com/lumenlearn/engage-go/internal/presentation/http/handlers"
	"github.com/lumenlearn/engage-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	trackHandlers := handlers.NewTrackHandlers(container.TrackerService, container.CTAService, container.Logger, container.PerfTracker)
	unlockHandlers := handlers.NewUnlockHandlers(container.UnlockService, container.Logger, container.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(container.AdminService, container.TrackerService, container.CacheManager, container.Logger, container.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(container.DB, container.CacheManager)

	r.GET("/health", healthHandlers.GetHealth)

	api := r.Group("/api/v1")
	api.Use(middleware.SessionMiddleware(container.Logger))
	api.Use(middleware.AdminMiddleware(container.AdminService))
	{
		// Engagement tracking
		api.POST("/track", trackHandlers.PostTrack)
		api.GET("/state", trackHandlers.GetState)
		api.POST("/state/reset", trackHandlers.PostReset)

		// Day unlock gating
		api.GET("/unlock", unlockHandlers.GetSchedule)
		api.GET("/unlock/:id", unlockHandlers.GetUnlock)

		// Operator surface
		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandlers.PostLogin)
			admin.GET("/status", adminHandlers.GetStatus)

			guarded := admin.Group("/")
			guarded.Use(middleware.RequireAdmin())
			{
				guarded.GET("/sessions", adminHandlers.GetSessions)
				guarded.POST("/sessions/:id/reset", adminHandlers.PostSessionReset)
				guarded.GET("/perf", adminHandlers.GetPerf)
			}
		}
	}

	return r
}
