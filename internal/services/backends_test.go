package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestClaudeBackend_UnavailableWithoutKey(t *testing.T) {
	b := NewClaudeBackend("", "claude-sonnet-4-20250514", testLogger())

	if b.IsAvailable() {
		t.Error("Expected claude backend to be unavailable without API key")
	}

	_, err := b.GenerateResponse(context.Background(), "hello")
	if !errors.Is(err, ErrBackendUnconfigured) {
		t.Errorf("Expected ErrBackendUnconfigured, got %v", err)
	}
}

func TestClaudeBackend_AvailableWithKey(t *testing.T) {
	b := NewClaudeBackend("sk-test", "claude-sonnet-4-20250514", testLogger())
	if !b.IsAvailable() {
		t.Error("Expected claude backend to be available with API key")
	}
	if b.Name() != "claude" {
		t.Errorf("Expected identity 'claude', got %q", b.Name())
	}
}

func TestChatGPTBackend_UnavailableWithoutKey(t *testing.T) {
	b := NewChatGPTBackend("", "gpt-4o-mini", testLogger())

	if b.IsAvailable() {
		t.Error("Expected openai backend to be unavailable without API key")
	}

	_, err := b.GenerateResponse(context.Background(), "hello")
	if !errors.Is(err, ErrBackendUnconfigured) {
		t.Errorf("Expected ErrBackendUnconfigured, got %v", err)
	}
}

func TestOpenRouterBackend_UnavailableWithoutKey(t *testing.T) {
	b := NewOpenRouterBackend("", "meta-llama/llama-3.1-70b-instruct", testLogger())
	if b.IsAvailable() {
		t.Error("Expected openrouter backend to be unavailable without API key")
	}
}

func TestGeminiBackend_UnavailableWithoutKey(t *testing.T) {
	b := NewGeminiBackend(context.Background(), "", "gemini-2.0-flash", testLogger())

	if b.IsAvailable() {
		t.Error("Expected gemini backend to be unavailable without API key")
	}

	_, err := b.GenerateResponse(context.Background(), "hello")
	if !errors.Is(err, ErrBackendUnconfigured) {
		t.Errorf("Expected ErrBackendUnconfigured, got %v", err)
	}
}

func TestLlamaBackend_UnavailableWithoutURL(t *testing.T) {
	b := NewLlamaBackend("", "", "llama3", testLogger())
	if b.IsAvailable() {
		t.Error("Expected llama backend to be unavailable without server URL")
	}
}

func TestLlamaBackend_UnavailableWithMissingModelPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b := NewLlamaBackend(server.URL, "/nonexistent/model.gguf", "llama3", testLogger())
	if b.IsAvailable() {
		t.Error("Expected llama backend to be unavailable with missing model file")
	}
}

func TestLlamaBackend_AvailableWithValidModelPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	modelPath := filepath.Join(t.TempDir(), "model.gguf")
	if err := os.WriteFile(modelPath, []byte("gguf"), 0o644); err != nil {
		t.Fatalf("Failed to write model file: %v", err)
	}

	b := NewLlamaBackend(server.URL, modelPath, "llama3", testLogger())
	if !b.IsAvailable() {
		t.Error("Expected llama backend to be available")
	}
}

func TestLlamaBackend_UnavailableWhenServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // Probe must fail.

	b := NewLlamaBackend(server.URL, "", "llama3", testLogger())
	if b.IsAvailable() {
		t.Error("Expected llama backend to be unavailable when server is down")
	}
}

func TestLlamaBackend_GenerateResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			w.WriteHeader(http.StatusOK)
		case "/api/chat":
			var req llamaChatRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("Failed to decode chat request: %v", err)
			}
			if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
				t.Errorf("Unexpected chat request messages: %+v", req.Messages)
			}
			resp := llamaChatResponse{
				Model:   req.Model,
				Message: llamaMessage{Role: "assistant", Content: "  The lab lights flicker.  "},
				Done:    true,
			}
			_ = json.NewEncoder(w).Encode(resp)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	b := NewLlamaBackend(server.URL, "", "llama3", testLogger())
	if !b.IsAvailable() {
		t.Fatal("Expected llama backend to be available")
	}

	got, err := b.GenerateResponse(context.Background(), "look")
	if err != nil {
		t.Fatalf("GenerateResponse failed: %v", err)
	}
	if got != "The lab lights flicker." {
		t.Errorf("Expected trimmed response, got %q", got)
	}
}

func TestLlamaBackend_CallFailureWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/version" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	b := NewLlamaBackend(server.URL, "", "llama3", testLogger())
	_, err := b.GenerateResponse(context.Background(), "look")

	var callErr *BackendCallError
	if !errors.As(err, &callErr) {
		t.Fatalf("Expected BackendCallError, got %v", err)
	}
	if callErr.Backend != "llama" {
		t.Errorf("Expected backend identity in error, got %q", callErr.Backend)
	}
}
