package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/shubh-37/social-strategist/internal/contract"
	"github.com/shubh-37/social-strategist/internal/errs"
)

// Default Gemini models.
const (
	DefaultTextModel  = "gemini-3-flash-preview"
	DefaultImageModel = "gemini-2.5-flash-image"
)

// GeminiClient generates text and images through the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	textModel  string
	imageModel string
	logger     *zap.Logger
}

// NewGeminiClient creates a client for the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey, textModel, imageModel string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	if imageModel == "" {
		imageModel = DefaultImageModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
		logger:     logger,
	}, nil
}

// GenerateText implements TextGenerator.
func (g *GeminiClient) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = g.textModel
	}

	result, err := g.client.Models.GenerateContent(ctx, model, buildContents(req), buildTextConfig(req))
	if err != nil {
		g.logger.Error("Gemini generation failed", zap.String("op", req.Op), zap.Error(err))
		return "", errs.Transport(req.Op, err)
	}
	return result.Text(), nil
}

// GenerateImage implements ImageGenerator. The first inline image part of the
// first candidate wins.
func (g *GeminiClient) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	model := req.Model
	if model == "" {
		model = g.imageModel
	}

	config := &genai.GenerateContentConfig{}
	if req.AspectRatio != "" {
		config.ImageConfig = &genai.ImageConfig{AspectRatio: req.AspectRatio}
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	result, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		g.logger.Error("Gemini image generation failed", zap.String("op", req.Op), zap.Error(err))
		return nil, errs.Transport(req.Op, err)
	}

	if img := firstInlineImage(result); img != nil {
		return img, nil
	}
	return nil, errs.NoImage(req.Op)
}

func firstInlineImage(resp *genai.GenerateContentResponse) *Image {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}
		}
	}
	return nil
}

func buildContents(req TextRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := genai.Role(genai.RoleUser)
		if turn.Role == string(genai.RoleModel) {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	return append(contents, genai.NewContentFromText(req.Prompt, genai.RoleUser))
}

func buildTextConfig(req TextRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{Temperature: req.Temperature}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Contract != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = Schema(req.Contract)
	}
	return config
}

// Schema converts a contract into a Gemini response schema.
func Schema(c *contract.Contract) *genai.Schema {
	if c.Root == contract.KindStringArray {
		return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}
	return objectSchema(c.Fields)
}

func objectSchema(fields []contract.Field) *genai.Schema {
	s := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = fieldSchema(f)
		s.PropertyOrdering = append(s.PropertyOrdering, f.Name)
		if !f.Optional {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func fieldSchema(f contract.Field) *genai.Schema {
	var s *genai.Schema
	switch f.Kind {
	case contract.KindInteger:
		s = &genai.Schema{Type: genai.TypeInteger}
	case contract.KindStringArray:
		s = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	case contract.KindObjectArray:
		s = &genai.Schema{Type: genai.TypeArray, Items: objectSchema(f.Fields)}
	case contract.KindObject:
		s = objectSchema(f.Fields)
	default:
		s = &genai.Schema{Type: genai.TypeString}
	}
	s.Description = f.Description
	return s
}
