package schedule

import (
	"slices"
	"sort"
	"time"

	"github.com/shubh-37/social-strategist/internal/models"
)

// Merge appends proposed to existing and returns a new slice. Order is
// preserved and nothing is deduplicated, even identical platform/date/content
// combinations; callers that want deduplication apply it upstream.
func Merge(existing, proposed []*models.GeneratedPost) []*models.GeneratedPost {
	merged := make([]*models.GeneratedPost, 0, len(existing)+len(proposed))
	merged = append(merged, existing...)
	return append(merged, proposed...)
}

// UpcomingLimit caps the live schedule block.
const UpcomingLimit = 5

// Upcoming returns posts dated at or after now, earliest first, at most limit.
// A negative limit means no cap.
func Upcoming(posts []*models.GeneratedPost, now time.Time, limit int) []*models.GeneratedPost {
	var upcoming []*models.GeneratedPost
	for _, p := range posts {
		if !p.CreatedAt.Before(now) {
			upcoming = append(upcoming, p)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].CreatedAt.Before(upcoming[j].CreatedAt)
	})
	if limit >= 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return slices.Clip(upcoming)
}
