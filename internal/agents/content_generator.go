package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/prompts"
)

type postPayload struct {
	Content             string   `json:"content"`
	Hashtags            []string `json:"hashtags"`
	Rationale           string   `json:"rationale"`
	VisualSuggestion    string   `json:"visualSuggestion"`
	EstimatedEngagement string   `json:"estimatedEngagement"`
	SuggestedTime       string   `json:"suggestedTime"`
}

// GeneratePost drafts a new post for platform about topic.
func (s *Strategist) GeneratePost(ctx context.Context, persona *models.Persona, platform models.Platform, topic, extra string) (*models.GeneratedPost, error) {
	if err := checkPostInput(persona, platform, topic); err != nil {
		return nil, err
	}

	var payload postPayload
	if _, err := s.complete(ctx, prompts.GeneratePost(persona, platform, topic, extra), &payload); err != nil {
		return nil, err
	}
	return s.draft(platform, payload), nil
}

// RefinePost revises prior according to feedback. prior is left untouched;
// the result is a new draft with a new id on the same platform.
func (s *Strategist) RefinePost(ctx context.Context, persona *models.Persona, prior *models.GeneratedPost, topic, feedback string) (*models.GeneratedPost, error) {
	if prior == nil {
		return nil, fmt.Errorf("%w: no post to refine", ErrInvalidInput)
	}
	if strings.TrimSpace(feedback) == "" {
		return nil, fmt.Errorf("%w: feedback is required", ErrInvalidInput)
	}
	if err := checkPostInput(persona, prior.Platform, topic); err != nil {
		return nil, err
	}

	req := prompts.RefinePost(persona, prior.Platform, topic, prompts.Refinement{
		OriginalContent: prior.Content,
		Feedback:        feedback,
	})

	var payload postPayload
	if _, err := s.complete(ctx, req, &payload); err != nil {
		return nil, err
	}
	return s.draft(prior.Platform, payload), nil
}

// GenerateMedia renders an image for a post's visual suggestion.
func (s *Strategist) GenerateMedia(ctx context.Context, visualSuggestion string) (*llm.Image, error) {
	if strings.TrimSpace(visualSuggestion) == "" {
		return nil, fmt.Errorf("%w: visual suggestion is required", ErrInvalidInput)
	}

	req := prompts.GenerateMedia(visualSuggestion)
	req.Model = s.imageModel

	start := time.Now()
	var (
		img *llm.Image
		err error
	)
	if s.images == nil {
		err = errs.Transport(req.Op, fmt.Errorf("image generation is not supported by the configured provider"))
	} else {
		img, err = s.images.GenerateImage(ctx, req)
		if err == nil && (img == nil || len(img.Data) == 0) {
			err = errs.NoImage(req.Op)
		}
		if err != nil {
			if _, ok := errs.KindOf(err); !ok {
				err = errs.Transport(req.Op, err)
			}
		}
	}
	s.observer.RecordGeneration(req.Op, time.Since(start), err)

	if err != nil {
		s.logger.Warn("Image generation failed", zap.String("op", req.Op), zap.Error(err))
		return nil, err
	}
	return img, nil
}

func (s *Strategist) draft(platform models.Platform, p postPayload) *models.GeneratedPost {
	post := models.NewDraft(platform, s.now())
	post.Content = p.Content
	post.Hashtags = p.Hashtags
	post.Rationale = p.Rationale
	post.VisualSuggestion = p.VisualSuggestion
	post.EstimatedEngagement = p.EstimatedEngagement
	post.SuggestedTime = p.SuggestedTime
	return post
}

func checkPostInput(persona *models.Persona, platform models.Platform, topic string) error {
	if persona == nil {
		return fmt.Errorf("%w: persona is required", ErrInvalidInput)
	}
	if !platform.Valid() {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidInput, platform)
	}
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	return nil
}
