// Package schedule turns proposed calendar entries into dated posts and
// merges them into an existing post collection.
package schedule

import (
	"strings"
	"time"

	"github.com/shubh-37/social-strategist/internal/models"
)

// ParseMonth matches a full month name case-insensitively.
func ParseMonth(name string) (time.Month, bool) {
	name = strings.TrimSpace(name)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(name, m.String()) {
			return m, true
		}
	}
	return 0, false
}

// ResolveDate converts an entry's (day, month, year) into a timestamp.
//
// An unparseable month falls back to ref's month and a missing or
// non-positive year to ref's year. Days past the end of the month roll
// forward (31 April is 1 May). The time of day is midnight in ref's location;
// the entry's suggested time is kept as text only.
func ResolveDate(entry models.RawScheduleEntry, ref time.Time) time.Time {
	month, ok := ParseMonth(entry.Month)
	if !ok {
		month = ref.Month()
	}

	year := entry.Year
	if year <= 0 {
		year = ref.Year()
	}

	return time.Date(year, month, entry.Day, 0, 0, 0, 0, ref.Location())
}

// Defaults stamped onto posts that come from a schedule proposal.
const (
	ProposedVisualSuggestion    = "AI Generated"
	ProposedEstimatedEngagement = "Predicted High"
)

// ToPost builds a scheduled post from a validated entry with a fresh id.
func ToPost(entry models.RawScheduleEntry, ref time.Time) *models.GeneratedPost {
	return &models.GeneratedPost{
		ID:                  models.NewPostID(),
		Platform:            models.ParsePlatform(entry.Platform),
		Content:             entry.Content,
		Hashtags:            []string{},
		Rationale:           entry.Rationale,
		VisualSuggestion:    ProposedVisualSuggestion,
		EstimatedEngagement: ProposedEstimatedEngagement,
		SuggestedTime:       entry.SuggestedTime,
		Status:              models.StatusScheduled,
		CreatedAt:           ResolveDate(entry, ref),
	}
}
