package services

import (
	"fmt"
	"time"

	"github.com/lumenlearn/engage-go/internal/domain/schedule"
	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/pkg/config"
)

// UnlockService answers day accessibility questions for handlers.
type UnlockService struct {
	scheduler *schedule.Scheduler
	logger    *logging.ChanneledLogger
}

// NewUnlockService creates a new unlock service.
func NewUnlockService(scheduler *schedule.Scheduler, logger *logging.ChanneledLogger) *UnlockService {
	return &UnlockService{
		scheduler: scheduler,
		logger:    logger,
	}
}

// Status returns the gate decision and display metadata for one content id.
func (s *UnlockService) Status(id string, isAdmin bool) schedule.Status {
	status := schedule.Status{
		ID:          id,
		Unlocked:    s.scheduler.IsUnlocked(id, isAdmin),
		UnlockLabel: s.scheduler.UnlockLabel(id),
		TimeUntil:   s.scheduler.TimeUntilUnlock(id),
	}

	s.logger.Unlock().Debug("Unlock decision",
		"id", id,
		"isAdmin", isAdmin,
		"unlocked", status.Unlocked)
	return status
}

// ScheduleResult is the full listing served to page-render logic.
type ScheduleResult struct {
	Days          []schedule.Status `json:"days"`
	BannerVisible bool              `json:"bannerVisible"`
}

// Schedule returns every day's gate decision plus the banner gate.
func (s *UnlockService) Schedule(isAdmin bool) *ScheduleResult {
	return &ScheduleResult{
		Days:          s.scheduler.Statuses(isAdmin),
		BannerVisible: s.scheduler.CTABannerVisible(isAdmin),
	}
}

// BannerVisible exposes the banner gate on its own.
func (s *UnlockService) BannerVisible(isAdmin bool) bool {
	return s.scheduler.CTABannerVisible(isAdmin)
}

// NewSchedulerFromConfig builds the process-wide scheduler from configured
// unlock instants. Instants are parsed in the canonical zone; a bad config
// value fails startup rather than shipping a wrong gate.
func NewSchedulerFromConfig() (*schedule.Scheduler, error) {
	loc, err := time.LoadLocation(config.UnlockTimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid unlock timezone %q: %w", config.UnlockTimeZone, err)
	}

	dayConfigs := []struct {
		id    string
		value string
	}{
		{"day1", config.Day1UnlockAt},
		{"day2", config.Day2UnlockAt},
		{"day3", config.Day3UnlockAt},
		{"day4", config.Day4UnlockAt},
	}

	entries := make([]schedule.Entry, 0, len(dayConfigs))
	for _, dc := range dayConfigs {
		unlocksAt, err := time.ParseInLocation("2006-01-02T15:04:05", dc.value, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid unlock instant for %s (%q): %w", dc.id, dc.value, err)
		}
		entries = append(entries, schedule.Entry{ID: dc.id, UnlocksAt: unlocksAt})
	}

	// Empty banner config means the gate is disabled: banner always visible.
	var bannerFrom time.Time
	if config.BannerVisibleFrom != "" {
		bannerFrom, err = time.ParseInLocation("2006-01-02T15:04:05", config.BannerVisibleFrom, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid banner gate instant %q: %w", config.BannerVisibleFrom, err)
		}
	}

	return schedule.NewScheduler(entries, bannerFrom, loc), nil
}

// CatalogGateFromConfig parses the global CTA gate instant for the section
// catalog. Empty config means the gate is open (current configuration).
func CatalogGateFromConfig() (time.Time, error) {
	if config.CTAGateOpensAt == "" {
		return time.Time{}, nil
	}
	loc, err := time.LoadLocation(config.UnlockTimeZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid unlock timezone %q: %w", config.UnlockTimeZone, err)
	}
	gate, err := time.ParseInLocation("2006-01-02T15:04:05", config.CTAGateOpensAt, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cta gate instant %q: %w", config.CTAGateOpensAt, err)
	}
	return gate, nil
}
