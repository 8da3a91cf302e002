package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const DefaultLlamaTemperature = 0.7

// LlamaBackend generates text through a local model server speaking the
// Ollama chat API (Ollama itself, or llama.cpp's compatible server). The
// in-process model loading of earlier deployments is replaced by one
// reachability probe at construction time.
type LlamaBackend struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

type llamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []llamaMessage `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type llamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type llamaChatResponse struct {
	Model   string       `json:"model"`
	Message llamaMessage `json:"message"`
	Done    bool         `json:"done"`
	Error   string       `json:"error,omitempty"`
}

// NewLlamaBackend constructs the local-model adapter. The backend is left
// unavailable when no server URL is configured, when a configured model file
// path does not exist, or when the server does not answer the construction
// probe. Construction never fails.
func NewLlamaBackend(baseURL string, modelPath string, modelName string, logger *slog.Logger) *LlamaBackend {
	b := &LlamaBackend{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		modelName: modelName,
		logger:    logger,
	}

	if baseURL == "" {
		logger.Warn("No llama server URL configured; llama backend disabled")
		return b
	}

	if modelPath != "" {
		if _, err := os.Stat(modelPath); err != nil {
			logger.Warn("Llama model path not found; llama backend disabled", "path", modelPath)
			return b
		}
	}

	client := &http.Client{
		Timeout: 120 * time.Second,
	}

	// Single readiness probe; availability is fixed from here on.
	probeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := probeLlamaServer(probeCtx, client, b.baseURL); err != nil {
		logger.Warn("Llama server not reachable; llama backend disabled", "url", baseURL, "error", err)
		return b
	}

	b.httpClient = client
	logger.Info("Initialized llama backend", "url", baseURL, "model", modelName)
	return b
}

func probeLlamaServer(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/api/version", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return nil
}

func (b *LlamaBackend) Name() string {
	return "llama"
}

func (b *LlamaBackend) IsAvailable() bool {
	return b.httpClient != nil
}

func (b *LlamaBackend) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	if b.httpClient == nil {
		return "", fmt.Errorf("llama: %w", ErrBackendUnconfigured)
	}

	chatReq := llamaChatRequest{
		Model: b.modelName,
		Messages: []llamaMessage{
			{Role: "user", Content: prompt},
		},
		Stream: false,
		Options: map[string]any{
			"temperature": DefaultLlamaTemperature,
		},
	}

	reqBody, err := json.Marshal(chatReq)
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", b.baseURL+"/api/chat", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

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

	var chatResp llamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	if chatResp.Error != "" {
		return "", &BackendCallError{Backend: b.Name(), Err: fmt.Errorf("API error: %s", chatResp.Error)}
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}
