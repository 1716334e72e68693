package services

import (
	"fmt"
	"net/url"

	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/pkg/config"
)

// CTAContent is the display copy and destination for one triggered section.
type CTAContent struct {
	SectionKey string `json:"sectionKey"`
	ContentID  string `json:"contentId"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	URL        string `json:"url"`
}

// ctaCopy holds the static title and message for one content id.
type ctaCopy struct {
	title   string
	message string
}

// CTAContentService resolves triggered section keys to display copy and a
// campaign-tagged destination URL.
type CTAContentService struct {
	entries map[string]ctaCopy
	logger  *logging.ChanneledLogger
}

// NewCTAContentService creates a new CTA content service with the default
// content catalog.
func NewCTAContentService(logger *logging.ChanneledLogger) *CTAContentService {
	return &CTAContentService{
		entries: map[string]ctaCopy{
			"cta-day2-reserve": {
				title:   "Enjoying Day 2?",
				message: "Keep your momentum going. Reserve your spot in the full cohort.",
			},
			"cta-agents-reserve": {
				title:   "Agents clicked for you",
				message: "You clearly get agents. Take them further with the full cohort.",
			},
			"cta-day3-reserve": {
				title:   "Day 3 deep dive",
				message: "You are building real skills. Lock in a seat before the cohort fills.",
			},
			"cta-day4-reserve": {
				title:   "You made it to Day 4",
				message: "Finish strong. Join the full cohort and keep building.",
			},
		},
		logger: logger,
	}
}

// Resolve maps a triggered section to its content. Unknown content ids return
// an error; handlers treat that as a programming error and log it.
func (c *CTAContentService) Resolve(sectionKey, contentID string) (*CTAContent, error) {
	entry, ok := c.entries[contentID]
	if !ok {
		return nil, fmt.Errorf("unknown CTA content id: %q", contentID)
	}

	campaignURL, err := BuildCampaignURL(contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to build campaign URL for %q: %w", contentID, err)
	}

	return &CTAContent{
		SectionKey: sectionKey,
		ContentID:  contentID,
		Title:      entry.title,
		Message:    entry.message,
		URL:        campaignURL,
	}, nil
}

// BuildCampaignURL appends fixed campaign-tracking parameters to the
// reservation URL for one trigger id.
func BuildCampaignURL(triggerID string) (string, error) {
	base, err := url.Parse(config.ReservationURL)
	if err != nil {
		return "", fmt.Errorf("invalid reservation URL %q: %w", config.ReservationURL, err)
	}

	query := base.Query()
	query.Set("utm_source", config.UTMSource)
	query.Set("utm_medium", config.UTMMedium)
	query.Set("utm_campaign", triggerID)
	base.RawQuery = query.Encode()

	return base.String(), nil
}
