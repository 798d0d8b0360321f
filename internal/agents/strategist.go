// Package agents runs the generative operations: each call builds a request,
// invokes the model and validates the response. Agents hold no session state.
package agents

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/contract"
	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/metrics"
)

// ErrInvalidInput marks a request rejected before any model call.
var ErrInvalidInput = errors.New("invalid input")

type Strategist struct {
	text       llm.TextGenerator
	images     llm.ImageGenerator
	textModel  string
	imageModel string
	observer   metrics.Observer
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Strategist)

// WithModels overrides the model ids sent with each request.
func WithModels(textModel, imageModel string) Option {
	return func(s *Strategist) {
		s.textModel = textModel
		s.imageModel = imageModel
	}
}

func WithObserver(o metrics.Observer) Option {
	return func(s *Strategist) { s.observer = o }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Strategist) { s.logger = l }
}

// WithClock sets the time source used to stamp new drafts.
func WithClock(now func() time.Time) Option {
	return func(s *Strategist) { s.now = now }
}

// NewStrategist creates a strategist over the given generators. images may be
// nil when the provider cannot produce images; GenerateMedia then fails with
// a transport error.
func NewStrategist(text llm.TextGenerator, images llm.ImageGenerator, opts ...Option) *Strategist {
	s := &Strategist{
		text:     text,
		images:   images,
		observer: metrics.Nop{},
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// complete sends req and, when it carries a contract, parses the response
// into dst. It returns the raw text for free-form requests.
func (s *Strategist) complete(ctx context.Context, req llm.TextRequest, dst any) (string, error) {
	if req.Model == "" {
		req.Model = s.textModel
	}

	start := time.Now()
	raw, err := s.text.GenerateText(ctx, req)
	if err != nil {
		if _, ok := errs.KindOf(err); !ok {
			err = errs.Transport(req.Op, err)
		}
	} else if req.Contract != nil {
		err = req.Contract.Parse(raw, dst)
	}
	s.observer.RecordGeneration(req.Op, time.Since(start), err)

	if err != nil {
		s.logger.Warn("Generation failed",
			zap.String("op", req.Op),
			zap.Error(err),
			zap.String("response", contract.Compact(raw)))
		return "", err
	}

	s.logger.Debug("Generation succeeded", zap.String("op", req.Op), zap.Duration("took", time.Since(start)))
	return raw, nil
}
