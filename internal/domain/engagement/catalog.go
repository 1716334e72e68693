// Package engagement provides the interaction tracking state machine that
// decides, once per section per session, when a conversion prompt is earned.
package engagement

import "time"

// InteractionType is a fixed, enumerated category of trackable user action.
type InteractionType string

const (
	Day1CardFlip     InteractionType = "day1_card_flip"
	Day1PromptCopy   InteractionType = "day1_prompt_copy"
	Day2CardFlip     InteractionType = "day2_card_flip"
	Day2PromptCopy   InteractionType = "day2_prompt_copy"
	AgentsCardFlip   InteractionType = "agents_card_flip"
	AgentsPromptCopy InteractionType = "agents_prompt_copy"
	Day3CardFlip     InteractionType = "day3_card_flip"
	Day3PromptCopy   InteractionType = "day3_prompt_copy"
	Day4CardFlip     InteractionType = "day4_card_flip"
	Day4PromptCopy   InteractionType = "day4_prompt_copy"
	ChatMessageSent  InteractionType = "chat_message_sent"
)

// knownTypes is the closed set of trackable interaction types.
var knownTypes = map[InteractionType]bool{
	Day1CardFlip:     true,
	Day1PromptCopy:   true,
	Day2CardFlip:     true,
	Day2PromptCopy:   true,
	AgentsCardFlip:   true,
	AgentsPromptCopy: true,
	Day3CardFlip:     true,
	Day3PromptCopy:   true,
	Day4CardFlip:     true,
	Day4PromptCopy:   true,
	ChatMessageSent:  true,
}

// IsKnownType reports whether t belongs to the fixed interaction-type set.
func IsKnownType(t InteractionType) bool {
	return knownTypes[t]
}

// SectionConfig describes one logical section: which interaction types count
// toward it, the trigger threshold, and the content id used to resolve the
// prompt copy and destination URL.
type SectionConfig struct {
	Key          string            `json:"key"`
	ContentID    string            `json:"contentId"`
	Threshold    int               `json:"threshold"`
	Interactions []InteractionType `json:"interactions"`
}

// Catalog is the process-wide, immutable section configuration. Section order
// in the slice is the evaluation order; evaluation is first-match.
//
// GateOpensAt is the global CTA time gate. The zero time means the gate is
// open (the current configuration); a non-zero instant suppresses all trigger
// evaluation before that instant while counting continues.
type Catalog struct {
	Sections    []SectionConfig
	GateOpensAt time.Time
}

// GateOpen reports whether trigger evaluation is allowed at the given instant.
func (c *Catalog) GateOpen(now time.Time) bool {
	if c.GateOpensAt.IsZero() {
		return true
	}
	return !now.Before(c.GateOpensAt)
}

// Section returns the config for a section key.
func (c *Catalog) Section(key string) (SectionConfig, bool) {
	for _, s := range c.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// DefaultCatalog returns the shipped section catalog. Each interaction type
// contributes to a single section; the tracker still behaves sanely if a
// future config overlaps types (first declared section wins).
func DefaultCatalog() *Catalog {
	return &Catalog{
		Sections: []SectionConfig{
			{
				Key:          "day2",
				ContentID:    "cta-day2-reserve",
				Threshold:    3,
				Interactions: []InteractionType{Day1CardFlip, Day1PromptCopy, Day2CardFlip, Day2PromptCopy},
			},
			{
				Key:          "agents",
				ContentID:    "cta-agents-reserve",
				Threshold:    3,
				Interactions: []InteractionType{AgentsCardFlip, AgentsPromptCopy},
			},
			{
				Key:          "day3",
				ContentID:    "cta-day3-reserve",
				Threshold:    4,
				Interactions: []InteractionType{Day3CardFlip, Day3PromptCopy, ChatMessageSent},
			},
			{
				Key:          "day4",
				ContentID:    "cta-day4-reserve",
				Threshold:    3,
				Interactions: []InteractionType{Day4CardFlip, Day4PromptCopy},
			},
		},
	}
}
