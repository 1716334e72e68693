// Package schedule answers whether day content is accessible yet. Unlock
// instants are fixed at startup in a single canonical time zone so every
// viewer sees identical unlock language regardless of their local clock.
package schedule

import (
	"fmt"
	"time"
)

// Sentinels returned for locked and unknown content.
const (
	LabelLocked  = "Locked"
	AvailableNow = "Available now"
)

// Entry maps a content id to its absolute unlock instant.
type Entry struct {
	ID        string
	UnlocksAt time.Time
}

// Status is the gate decision plus display metadata for one content id.
type Status struct {
	ID          string `json:"id"`
	Unlocked    bool   `json:"unlocked"`
	UnlockLabel string `json:"unlockLabel"`
	TimeUntil   string `json:"timeUntil"`
}

// Scheduler evaluates unlock gates against a fresh clock read per decision.
// The LOCKED→UNLOCKED transition per id is one-way at the configured instant;
// the admin override is an orthogonal escape hatch that never alters the
// underlying state.
type Scheduler struct {
	entries    map[string]time.Time
	order      []string
	loc        *time.Location
	bannerFrom time.Time
	now        func() time.Time
}

// NewScheduler builds a scheduler from fixed entries. Instants are rendered
// in loc; nil defaults to UTC.
func NewScheduler(entries []Entry, bannerFrom time.Time, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		entries:    make(map[string]time.Time, len(entries)),
		loc:        loc,
		bannerFrom: bannerFrom,
		now:        time.Now,
	}
	for _, e := range entries {
		if _, dup := s.entries[e.ID]; !dup {
			s.order = append(s.order, e.ID)
		}
		s.entries[e.ID] = e.UnlocksAt
	}
	return s
}

// IsUnlocked reports whether the content id is accessible now. Admin sessions
// bypass the gate unconditionally. An unknown id is a programming error and
// resolves to the safe state: locked.
func (s *Scheduler) IsUnlocked(id string, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	unlocksAt, known := s.entries[id]
	if !known {
		return false
	}
	return !s.now().Before(unlocksAt)
}

// UnlockLabel renders the unlock instant in the canonical zone, e.g.
// "Tuesday 9:00 AM ET". Unknown ids render the locked sentinel.
func (s *Scheduler) UnlockLabel(id string) string {
	unlocksAt, known := s.entries[id]
	if !known {
		return LabelLocked
	}
	local := unlocksAt.In(s.loc)
	return fmt.Sprintf("%s %s %s", local.Format("Monday"), local.Format("3:04 PM"), zoneAbbrev(local))
}

// TimeUntilUnlock returns a coarse countdown to the unlock instant with
// minute granularity, or the availability sentinel once past it.
func (s *Scheduler) TimeUntilUnlock(id string) string {
	unlocksAt, known := s.entries[id]
	if !known {
		return LabelLocked
	}

	remaining := unlocksAt.Sub(s.now())
	if remaining <= 0 {
		return AvailableNow
	}

	days := int(remaining / (24 * time.Hour))
	remaining -= time.Duration(days) * 24 * time.Hour
	hours := int(remaining / time.Hour)
	remaining -= time.Duration(hours) * time.Hour
	minutes := int(remaining / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// CTABannerVisible reports whether the global CTA banner gate is open. The
// zero instant means the gate is disabled and the banner always shows; this
// is the shipped configuration, but the comparison mechanism stays live.
func (s *Scheduler) CTABannerVisible(isAdmin bool) bool {
	if isAdmin {
		return true
	}
	if s.bannerFrom.IsZero() {
		return true
	}
	return !s.now().Before(s.bannerFrom)
}

// Statuses returns the gate decision for every configured id, in declaration
// order, for the schedule listing endpoint.
func (s *Scheduler) Statuses(isAdmin bool) []Status {
	out := make([]Status, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Status{
			ID:          id,
			Unlocked:    s.IsUnlocked(id, isAdmin),
			UnlockLabel: s.UnlockLabel(id),
			TimeUntil:   s.TimeUntilUnlock(id),
		})
	}
	return out
}

// zoneAbbrev collapses North American zone names to the familiar short form
// used in event copy ("ET" instead of "EDT"/"EST").
func zoneAbbrev(t time.Time) string {
	name, _ := t.Zone()
	switch name {
	case "EDT", "EST":
		return "ET"
	case "CDT", "CST":
		return "CT"
	case "MDT", "MST":
		return "MT"
	case "PDT", "PST":
		return "PT"
	}
	return name
}
