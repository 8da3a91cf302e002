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
	chatGPTBaseURL = "https://api.openai.com/v1"

	DefaultChatGPTTemperature = 0.7
	DefaultChatGPTMaxTokens   = 1024
)

// ChatGPTBackend generates text through the OpenAI chat completions API.
type ChatGPTBackend struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stream      bool            `json:"stream"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type openAIChatResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewChatGPTBackend constructs the OpenAI adapter. A missing API key leaves
// the backend unavailable; construction never fails.
func NewChatGPTBackend(apiKey string, modelName string, logger *slog.Logger) *ChatGPTBackend {
	b := &ChatGPTBackend{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   chatGPTBaseURL,
		logger:    logger,
	}

	if apiKey == "" {
		logger.Warn("No OpenAI API key found; openai backend disabled")
		return b
	}

	b.httpClient = &http.Client{
		Timeout: 60 * time.Second,
	}
	logger.Info("Initialized openai backend", "model", modelName)
	return b
}

func (b *ChatGPTBackend) Name() string {
	return "openai"
}

func (b *ChatGPTBackend) IsAvailable() bool {
	return b.httpClient != nil
}

func (b *ChatGPTBackend) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if b.httpClient == nil {
		return "", fmt.Errorf("openai: %w", ErrBackendUnconfigured)
	}

	content, err := openAICompatibleCompletion(ctx, b.httpClient, b.baseURL, b.apiKey, nil, openAIChatRequest{
		Model:       b.modelName,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: DefaultChatGPTTemperature,
		MaxTokens:   DefaultChatGPTMaxTokens,
	})
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: err}
	}
	return content, nil
}

// openAICompatibleCompletion performs one chat-completions call against any
// OpenAI-compatible endpoint. Shared by the openai and openrouter backends.
func openAICompatibleCompletion(ctx context.Context, client *http.Client, baseURL, apiKey string, extraHeaders map[string]string, chatReq openAIChatRequest) (string, error) {
	reqBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}
