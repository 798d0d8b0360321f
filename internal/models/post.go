package models

import (
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Platform is a social network a post targets
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformTikTok    Platform = "tiktok"
	PlatformThreads   Platform = "threads"
)

// Platforms lists the supported platforms in display order.
var Platforms = []Platform{PlatformInstagram, PlatformLinkedIn, PlatformTwitter, PlatformTikTok, PlatformThreads}

var platformNames = map[Platform]string{
	PlatformInstagram: "Instagram",
	PlatformLinkedIn:  "LinkedIn",
	PlatformTwitter:   "Twitter",
	PlatformTikTok:    "TikTok",
	PlatformThreads:   "Threads",
}

// DisplayName returns the human name, or the raw value for unknown platforms.
func (p Platform) DisplayName() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return string(p)
}

// PlatformList renders Platforms for help and error text.
func PlatformList() string {
	names := make([]string, len(Platforms))
	for i, p := range Platforms {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func (p Platform) Valid() bool {
	_, ok := platformNames[p]
	return ok
}

// ParsePlatform lower-cases and trims a model-supplied platform string.
func ParsePlatform(s string) Platform {
	return Platform(strings.ToLower(strings.TrimSpace(s)))
}

// PostStatus is the lifecycle stage of a post
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
)

// GeneratedPost represents a planned or drafted post. CreatedAt doubles as
// the scheduled date.
type GeneratedPost struct {
	ID                  string     `json:"id"`
	Platform            Platform   `json:"platform"`
	Content             string     `json:"content"`
	Hashtags            []string   `json:"hashtags"`
	Rationale           string     `json:"rationale"`
	VisualSuggestion    string     `json:"visualSuggestion"`
	ImageURL            string     `json:"imageUrl,omitempty"`
	EstimatedEngagement string     `json:"estimatedEngagement"`
	SuggestedTime       string     `json:"suggestedTime"`
	Status              PostStatus `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// NewPostID allocates a fresh post identifier.
func NewPostID() string {
	return gonanoid.Must()
}

// NewDraft creates a draft post stamped at now
func NewDraft(platform Platform, now time.Time) *GeneratedPost {
	return &GeneratedPost{
		ID:        NewPostID(),
		Platform:  platform,
		Hashtags:  []string{},
		Status:    StatusDraft,
		CreatedAt: now,
	}
}

// ScheduleProposal is the transient output of a scheduling request.
type ScheduleProposal struct {
	Explanation string           `json:"explanation"`
	Posts       []*GeneratedPost `json:"posts"`
}

// RawScheduleEntry is a proposed post before its date has been resolved.
// Year is zero when the model omitted it.
type RawScheduleEntry struct {
	Platform      string `json:"platform"`
	Day           int    `json:"day"`
	Month         string `json:"month"`
	Year          int    `json:"year,omitempty"`
	Content       string `json:"content"`
	SuggestedTime string `json:"suggestedTime"`
	Rationale     string `json:"rationale"`
}
