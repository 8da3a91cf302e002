package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// GeminiBackend generates text through the Google GenAI SDK.
type GeminiBackend struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

// NewGeminiBackend constructs the Gemini adapter. A missing API key or a
// failed client construction leaves the backend unavailable; construction
// never returns an error.
func NewGeminiBackend(ctx context.Context, apiKey string, modelName string, logger *slog.Logger) *GeminiBackend {
	b := &GeminiBackend{
		modelName: modelName,
		logger:    logger,
	}

	if apiKey == "" {
		logger.Warn("No Gemini API key found; gemini backend disabled")
		return b
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		logger.Error("Failed to initialize Gemini client; gemini backend disabled", "error", err)
		return b
	}

	b.client = client
	logger.Info("Initialized gemini backend", "model", modelName)
	return b
}

func (b *GeminiBackend) Name() string {
	return "gemini"
}

func (b *GeminiBackend) IsAvailable() bool {
	return b.client != nil
}

func (b *GeminiBackend) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("gemini: %w", ErrBackendUnconfigured)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := b.client.Models.GenerateContent(ctx, b.modelName, contents, nil)
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("generate content failed: %w", err)}
	}

	text := result.Text()
	if text == "" {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("no content in response")}
	}

	return strings.TrimSpace(text), nil
}
