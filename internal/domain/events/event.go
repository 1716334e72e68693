// Package events provides analytics event types
package events

import "time"

// Event verbs recorded by the analytics sink.
const (
	VerbInteraction = "INTERACTION"
	VerbTrigger     = "TRIGGER"
	VerbCTAClick    = "CTA_CLICK"
)

// InteractionEvent is emitted once per tracked interaction, carrying the
// interaction type and its new count.
type InteractionEvent struct {
	SessionID string
	Type      string
	Count     int
	CreatedAt time.Time
}

// TriggerEvent is emitted when a section crosses its threshold.
type TriggerEvent struct {
	SessionID  string
	SectionKey string
	ContentID  string
	TotalCount int
	CreatedAt  time.Time
}

// CTAClickEvent is emitted when the user follows a surfaced CTA link.
type CTAClickEvent struct {
	SessionID string
	Source    string
	CreatedAt time.Time
}
