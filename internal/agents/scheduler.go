package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/prompts"
	"github.com/shubh-37/social-strategist/internal/schedule"
)

type proposalPayload struct {
	Explanation string                    `json:"explanation"`
	Posts       []models.RawScheduleEntry `json:"posts"`
}

// ProposeSchedule asks for a batch of dated posts. calendar is the month the
// user is looking at; it anchors the prompt and is the fallback for entries
// with an unreadable month or no year. Nothing is merged here.
func (s *Strategist) ProposeSchedule(ctx context.Context, persona *models.Persona, request string, calendar time.Time) (*models.ScheduleProposal, error) {
	if persona == nil {
		return nil, fmt.Errorf("%w: persona is required", ErrInvalidInput)
	}
	if strings.TrimSpace(request) == "" {
		return nil, fmt.Errorf("%w: scheduling request is required", ErrInvalidInput)
	}

	var payload proposalPayload
	if _, err := s.complete(ctx, prompts.ProposeSchedule(persona, request, calendar), &payload); err != nil {
		return nil, err
	}

	proposal := &models.ScheduleProposal{
		Explanation: payload.Explanation,
		Posts:       make([]*models.GeneratedPost, 0, len(payload.Posts)),
	}
	for _, entry := range payload.Posts {
		proposal.Posts = append(proposal.Posts, schedule.ToPost(entry, calendar))
	}
	return proposal, nil
}
