package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/errs"
)

const (
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
	anthropicURL          = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
)

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float32           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AnthropicClient is a text-only provider over the Anthropic Messages API.
// The Messages API has no response-schema parameter, so a contract is sent
// as JSON Schema text appended to the prompt and validated afterwards like
// any other response.
type AnthropicClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAnthropicClient creates a Messages API client.
func NewAnthropicClient(apiKey, model string, logger *zap.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnthropicClient{
		apiKey:     apiKey,
		model:      model,
		endpoint:   anthropicURL,
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

// GenerateText implements TextGenerator.
func (a *AnthropicClient) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	text, err := a.callClaude(ctx, req)
	if err != nil {
		return "", errs.Transport(req.Op, err)
	}
	return text, nil
}

func (a *AnthropicClient) callClaude(ctx context.Context, req TextRequest) (string, error) {
	reqBody, err := a.buildRequest(req)
	if err != nil {
		return "", err
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("Anthropic API error", zap.String("op", req.Op), zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Content) > 0 && apiResp.Content[0].Type == "text" {
		return apiResp.Content[0].Text, nil
	}

	return "", fmt.Errorf("unexpected response format")
}

func (a *AnthropicClient) buildRequest(req TextRequest) (*anthropicRequest, error) {
	model := req.Model
	if model == "" || !isClaudeModel(model) {
		model = a.model
	}

	prompt := req.Prompt
	if req.Contract != nil {
		schema, err := json.MarshalIndent(req.Contract.JSONSchema(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response schema: %w", err)
		}
		prompt += "\n\nRespond with only a JSON value matching this JSON Schema, no prose:\n" + string(schema)
	}

	messages := make([]anthropicMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := "user"
		if turn.Role == "model" {
			role = "assistant"
		}
		messages = append(messages, anthropicMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, anthropicMessage{Role: "user", Content: prompt})

	return &anthropicRequest{
		Model:       model,
		MaxTokens:   2000,
		System:      req.SystemInstruction,
		Temperature: req.Temperature,
		Messages:    messages,
	}, nil
}

func isClaudeModel(model string) bool {
	return strings.HasPrefix(model, "claude")
}
