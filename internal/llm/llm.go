// Package llm is the boundary to the external text and image generation
// services.
package llm

import (
	"context"

	"github.com/shubh-37/social-strategist/internal/contract"
)

// Sampling temperatures used by the prompt templates.
const (
	TemperatureAnalytical float32 = 0.5
	TemperatureCreative   float32 = 0.7
)

// Turn is one prior message of a conversation.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// TextRequest is a single text-generation call. When Contract is set the
// response is expected to be JSON satisfying it.
type TextRequest struct {
	Op                string
	Model             string
	Prompt            string
	SystemInstruction string
	Contract          *contract.Contract
	Temperature       *float32
	History           []Turn
}

// ImageRequest is a single image-generation call.
type ImageRequest struct {
	Op          string
	Model       string
	Prompt      string
	AspectRatio string
}

// Image is an inline image payload returned by the image model.
type Image struct {
	Data     []byte
	MIMEType string
}

// TextGenerator produces text for a request. Implementations return an
// errs.KindTransportFailure error when the call itself fails.
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
}

// ImageGenerator produces an image for a request, failing with
// errs.KindNoImageReturned when the response carries no inline image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)
}

// Temperature returns a pointer suitable for TextRequest.Temperature.
func Temperature(t float32) *float32 {
	return &t
}
