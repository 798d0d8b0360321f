package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/prompts"
)

// SuggestAudience proposes a target audience description for the brand.
func (s *Strategist) SuggestAudience(ctx context.Context, brandName, industry, tone string) (string, error) {
	if strings.TrimSpace(brandName) == "" || strings.TrimSpace(industry) == "" {
		return "", fmt.Errorf("%w: brand name and industry are required", ErrInvalidInput)
	}

	req := prompts.SuggestAudience(brandName, industry, tone)
	text, err := s.complete(ctx, req, nil)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errs.SchemaViolation(req.Op, "empty audience suggestion")
	}
	return text, nil
}

// SuggestPillars proposes content pillars for the persona. Blank entries are
// dropped; the caller decides how many to keep.
func (s *Strategist) SuggestPillars(ctx context.Context, persona *models.Persona) ([]string, error) {
	if persona == nil || strings.TrimSpace(persona.BrandName) == "" {
		return nil, fmt.Errorf("%w: brand name is required", ErrInvalidInput)
	}

	var pillars []string
	req := prompts.SuggestPillars(persona.BrandName, persona.Industry, persona.Tone, persona.TargetAudience)
	if _, err := s.complete(ctx, req, &pillars); err != nil {
		return nil, err
	}

	out := pillars[:0]
	for _, p := range pillars {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
