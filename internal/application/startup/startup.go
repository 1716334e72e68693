// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/application/container"
	"github.com/lumenlearn/engage-go/internal/application/services"
	"github.com/lumenlearn/engage-go/internal/domain/engagement"
	"github.com/lumenlearn/engage-go/internal/infrastructure/caching/cleanup"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/persistence/database"
	"github.com/lumenlearn/engage-go/internal/infrastructure/security"
	"github.com/lumenlearn/engage-go/internal/presentation/http/server"
	"github.com/lumenlearn/engage-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("Initializing engage engine...")

	// Step 1: Channeled logging
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    config.LogToFile,
		OutputToConsole: true,
		LogDirectory:    config.LogDirectory,
		JSONFormat:      config.LogJSONFormat,
		DefaultLevel:    logging.ParseLevel(config.LogDefaultLevel),
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "directory", config.LogDirectory, "toFile", config.LogToFile)

	// Step 2: Admin token secret
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not configured, generated ephemeral secret; bypass tokens will not survive restarts")
	}

	// Step 3: Unlock schedule and section catalog
	scheduler, err := services.NewSchedulerFromConfig()
	if err != nil {
		return fmt.Errorf("failed to build unlock scheduler: %w", err)
	}
	logger.Startup().Info("Unlock scheduler initialized", "timezone", config.UnlockTimeZone)

	catalog := engagement.DefaultCatalog()
	catalog.GateOpensAt, err = services.CatalogGateFromConfig()
	if err != nil {
		return fmt.Errorf("failed to parse CTA gate config: %w", err)
	}
	logger.Startup().Info("Section catalog initialized", "sections", len(catalog.Sections), "gateOpen", catalog.GateOpen(time.Now()))

	// Step 4: Database connection and schema
	startDBTime := time.Now()
	db, err := database.NewConnectionWithLogger(config.DBDriver, database.DataSourceName(), logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.NewTableCreator().CreateSchema(db); err != nil {
		return fmt.Errorf("failed to create database schema: %w", err)
	}
	logger.Startup().Info("Database ready", "driver", config.DBDriver, "duration", time.Since(startDBTime))

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(db, scheduler, catalog, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Background session sweep worker
	sweepWorker := cleanup.NewWorker(appContainer.CacheManager, appContainer.StateRepo, logger)
	go sweepWorker.Start(ctx)
	logger.Startup().Info("Session sweep worker started", "interval", config.SessionSweepEvery, "ttl", config.SessionTTL)

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	// Stop server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
