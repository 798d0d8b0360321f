package agents

import (
	"context"
	"sync"
	"time"

	"github.com/shubh-37/social-strategist/internal/llm"
)

// fakeText answers by operation and records every request.
type fakeText struct {
	mu        sync.Mutex
	responses map[string]string
	err       error
	requests  []llm.TextRequest
}

func (f *fakeText) GenerateText(_ context.Context, req llm.TextRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.responses[req.Op], nil
}

func (f *fakeText) last() llm.TextRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fakeImage struct {
	img *llm.Image
	err error
}

func (f *fakeImage) GenerateImage(context.Context, llm.ImageRequest) (*llm.Image, error) {
	return f.img, f.err
}

type recordedGeneration struct {
	op  string
	err error
}

type fakeObserver struct {
	mu          sync.Mutex
	generations []recordedGeneration
}

func (o *fakeObserver) RecordGeneration(op string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generations = append(o.generations, recordedGeneration{op: op, err: err})
}

func (o *fakeObserver) RecordUpload(time.Duration, int, error) {}

var fixedNow = time.Date(2025, time.November, 3, 14, 30, 0, 0, time.UTC)

func newTestStrategist(text *fakeText, images *fakeImage, obs *fakeObserver) *Strategist {
	var ig llm.ImageGenerator
	if images != nil {
		ig = images
	}
	return NewStrategist(text, ig,
		WithModels("text-model", "image-model"),
		WithObserver(obs),
		WithClock(func() time.Time { return fixedNow }),
	)
}
