// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/lumenlearn/engage-go/internal/application/services"
	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/domain/schedule"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/manager"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/performance"
	"github.com/lumenlearn/engage-go/internal/infrastructure/persistence/analytics"
	"github.com/lumenlearn/engage-go/internal/infrastructure/persistence/database"
	"github.com/lumenlearn/engage-go/internal/infrastructure/persistence/session"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services (stateless singletons)
	TrackerService   *services.TrackerService
	UnlockService    *services.UnlockService
	AdminService     *services.AdminService
	CTAService       *services.CTAContentService
	AnalyticsService *services.AnalyticsService

	// Infrastructure dependencies
	DB           *database.DB
	StateRepo    *session.StateRepository
	CacheManager *manager.Manager
	Catalog      *engagement.Catalog
	Scheduler    *schedule.Scheduler
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, scheduler *schedule.Scheduler, catalog *engagement.Catalog, logger *logging.ChanneledLogger) *Container {
	cacheManager := manager.NewManager(logger)
	stateRepo := session.NewStateRepository(db, logger)
	eventRepo := analytics.NewSQLEventRepository(db, logger)

	analyticsService := services.NewAnalyticsService(eventRepo, logger)
	trackerService := services.NewTrackerService(cacheManager, stateRepo, analyticsService, catalog, logger)

	return &Container{
		TrackerService:   trackerService,
		UnlockService:    services.NewUnlockService(scheduler, logger),
		AdminService:     services.NewAdminService(logger),
		CTAService:       services.NewCTAContentService(logger),
		AnalyticsService: analyticsService,

		DB:           db,
		StateRepo:    stateRepo,
		CacheManager: cacheManager,
		Catalog:      catalog,
		Scheduler:    scheduler,
		Logger:       logger,
		PerfTracker:  performance.NewTracker(),
	}
}
