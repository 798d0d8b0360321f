package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/prompts"
)

// AnalyzeVoice extracts a brand voice guide from past posts. The guide is
// returned, not saved; attaching it to a persona is the caller's move.
func (s *Strategist) AnalyzeVoice(ctx context.Context, pastPosts []string) (*models.BrandVoiceGuide, error) {
	var samples []string
	for _, p := range pastPosts {
		if strings.TrimSpace(p) != "" {
			samples = append(samples, p)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: at least one past post is required", ErrInvalidInput)
	}

	var guide models.BrandVoiceGuide
	if _, err := s.complete(ctx, prompts.AnalyzeVoice(samples), &guide); err != nil {
		return nil, err
	}
	return &guide, nil
}
