package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultAnthropicTemperature = 0.7
	DefaultAnthropicMaxTokens   = 1024
)

// ClaudeBackend generates text through the Anthropic messages API.
type ClaudeBackend struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

type anthropicChatRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Stream      bool               `json:"stream,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicChatResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []anthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClaudeBackend constructs the Anthropic adapter. A missing API key leaves
// the backend unavailable; construction never fails.
func NewClaudeBackend(apiKey string, modelName string, logger *slog.Logger) *ClaudeBackend {
	b := &ClaudeBackend{
		apiKey:    apiKey,
		modelName: modelName,
		logger:    logger,
	}

	if apiKey == "" {
		logger.Warn("No Anthropic API key found; claude backend disabled")
		return b
	}

	b.httpClient = &http.Client{
		Timeout: 120 * time.Second,
	}
	logger.Info("Initialized claude backend", "model", modelName)
	return b
}

func (b *ClaudeBackend) Name() string {
	return "claude"
}

func (b *ClaudeBackend) IsAvailable() bool {
	return b.httpClient != nil
}

func (b *ClaudeBackend) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if b.httpClient == nil {
		return "", fmt.Errorf("claude: %w", ErrBackendUnconfigured)
	}

	temperature := DefaultAnthropicTemperature
	chatReq := anthropicChatRequest{
		Model:       b.modelName,
		MaxTokens:   DefaultAnthropicMaxTokens,
		Temperature: &temperature,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	reqBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicBaseURL+"/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to make request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))}
	}

	var chatResp anthropicChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if chatResp.Error != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("API error: %s", chatResp.Error.Message)}
	}

	var responseText string
	for _, content := range chatResp.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}

	return strings.TrimSpace(responseText), nil
}
