package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/darkstation/chronicles/pkg/state"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CommandRequest is a player command for one session.
type CommandRequest struct {
	Command string `json:"command"`
	UseAI   bool   `json:"use_ai"`
	Backend string `json:"backend,omitempty"`
}

// CommandResponse carries the game's reply and the post-command snapshot.
type CommandResponse struct {
	Message   string             `json:"message"`
	GameState *state.PromptState `json:"game_state,omitempty"`
}

// SessionResponse describes a session to API clients.
type SessionResponse struct {
	ID        string             `json:"id"`
	Message   string             `json:"message,omitempty"`
	GameState *state.PromptState `json:"game_state,omitempty"`
}

// BackendResponse reports the active backend and the configured identities.
type BackendResponse struct {
	Backend  string   `json:"backend"`
	Backends []string `json:"backends,omitempty"`
}

// SwitchBackendRequest asks to activate a different backend.
type SwitchBackendRequest struct {
	Backend string `json:"backend"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Error: message})
}
