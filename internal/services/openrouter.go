package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterBackend generates text through OpenRouter's OpenAI-compatible API.
// OpenRouter asks callers to identify themselves with attribution headers.
type OpenRouterBackend struct {
	apiKey     string
	modelName  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpenRouterBackend constructs the OpenRouter adapter. A missing API key
// leaves the backend unavailable; construction never fails.
func NewOpenRouterBackend(apiKey string, modelName string, logger *slog.Logger) *OpenRouterBackend {
	b := &OpenRouterBackend{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   openRouterBaseURL,
		logger:    logger,
	}

	if apiKey == "" {
		logger.Warn("No OpenRouter API key found; openrouter backend disabled")
		return b
	}

	b.httpClient = &http.Client{
		Timeout: 60 * time.Second,
	}
	logger.Info("Initialized openrouter backend", "model", modelName)
	return b
}

func (b *OpenRouterBackend) Name() string {
	return "openrouter"
}

func (b *OpenRouterBackend) IsAvailable() bool {
	return b.httpClient != nil
}

func (b *OpenRouterBackend) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if b.httpClient == nil {
		return "", fmt.Errorf("openrouter: %w", ErrBackendUnconfigured)
	}

	headers := map[string]string{
		"HTTP-Referer": "https://github.com/darkstation/chronicles",
		"X-Title":      "Dark Station Chronicles",
	}

	content, err := openAICompatibleCompletion(ctx, b.httpClient, b.baseURL, b.apiKey, headers, openAIChatRequest{
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
