package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/darkstation/chronicles/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionResponse matches the API session payload.
type SessionResponse struct {
	ID        string             `json:"id"`
	Message   string             `json:"message,omitempty"`
	GameState *state.PromptState `json:"game_state,omitempty"`
}

// CommandRequest matches the API command payload.
type CommandRequest struct {
	Command string `json:"command"`
	UseAI   bool   `json:"use_ai"`
	Backend string `json:"backend,omitempty"`
}

// CommandResponse matches the API command reply.
type CommandResponse struct {
	Message   string             `json:"message"`
	GameState *state.PromptState `json:"game_state,omitempty"`
}

// BackendResponse matches the API backend payload.
type BackendResponse struct {
	Backend  string   `json:"backend"`
	Backends []string `json:"backends,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func createSession(client *http.Client, baseURL string) (*SessionResponse, error) {
	resp, err := client.Post(baseURL+"/v1/sessions", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &session, nil
}

func sendCommand(client *http.Client, baseURL string, sessionID string, req CommandRequest) (*CommandResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/sessions/%s/command", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("command failed: %s", errorResp.Error)
	}

	var cmdResp CommandResponse
	if err := json.Unmarshal(body, &cmdResp); err != nil {
		return nil, fmt.Errorf("failed to parse command response: %w", err)
	}
	return &cmdResp, nil
}

func getBackend(client *http.Client, baseURL string, sessionID string) (*BackendResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/sessions/%s/backend", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get backend: %s", errorResp.Error)
	}

	var backendResp BackendResponse
	if err := json.Unmarshal(body, &backendResp); err != nil {
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}
	return &backendResp, nil
}

func switchBackend(client *http.Client, baseURL string, sessionID string, backend string) (*BackendResponse, error) {
	jsonData, err := json.Marshal(map[string]string{"backend": backend})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/v1/sessions/%s/backend", baseURL, sessionID),
		bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to switch backend: %s", errorResp.Error)
	}

	var backendResp BackendResponse
	if err := json.Unmarshal(body, &backendResp); err != nil {
		return nil, fmt.Errorf("failed to parse backend response: %w", err)
	}
	return &backendResp, nil
}
