package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/darkstation/chronicles/internal/services"
)

// aiResponseTimeout bounds one provider call from the HTTP layer. The
// adapter contract itself carries no timeout.
const aiResponseTimeout = 60 * time.Second

// SessionHandler serves the session API:
//
//	POST   /v1/sessions                  create a session
//	GET    /v1/sessions/{id}             session snapshot
//	DELETE /v1/sessions/{id}             end a session
//	POST   /v1/sessions/{id}/command     process a player command
//	GET    /v1/sessions/{id}/backend     active AI backend
//	PUT    /v1/sessions/{id}/backend     switch AI backend
type SessionHandler struct {
	sessions *services.SessionService
	logger   *slog.Logger
}

func NewSessionHandler(sessions *services.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	parts := strings.Split(rest, "/")

	if rest == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported at /v1/sessions.")
			return
		}
		h.create(w, r)
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session id.")
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Error loading session", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session.")
		return
	}
	if session == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found.")
		return
	}

	switch {
	case len(parts) == 1:
		h.sessionRoot(w, r, session)
	case len(parts) == 2 && parts[1] == "command":
		h.command(w, r, session)
	case len(parts) == 2 && parts[1] == "backend":
		h.backend(w, r, session)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found.")
	}
}

func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Create(r.Context())
	if err != nil {
		h.logger.Error("Error creating session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session.")
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, SessionResponse{
		ID:        session.ID.String(),
		Message:   session.Station.OpeningText(),
		GameState: session.Station.Snapshot(),
	})
}

func (h *SessionHandler) sessionRoot(w http.ResponseWriter, r *http.Request, session *services.GameSession) {
	switch r.Method {
	case http.MethodGet:
		session.Lock()
		resp := SessionResponse{
			ID:        session.ID.String(),
			GameState: session.Station.Snapshot(),
		}
		session.Unlock()
		writeJSON(w, h.logger, http.StatusOK, resp)

	case http.MethodDelete:
		if err := h.sessions.Delete(r.Context(), session.ID); err != nil {
			h.logger.Error("Error deleting session", "session_id", session.ID, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session.")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

func (h *SessionHandler) command(w http.ResponseWriter, r *http.Request, session *services.GameSession) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'command' field.")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Command cannot be empty.")
		return
	}

	session.Lock()
	defer session.Unlock()

	h.logger.Info("Processing command",
		"session_id", session.ID,
		"command", req.Command,
		"use_ai", req.UseAI)

	// A requested backend switch is validated before the command touches the
	// game, so a rejected switch leaves the session exactly as it was.
	if req.UseAI && req.Backend != "" && req.Backend != session.Narrator.CurrentBackend() {
		if !session.Narrator.SwitchBackend(req.Backend) {
			writeError(w, h.logger, http.StatusConflict, "Backend "+req.Backend+" is unavailable.")
			return
		}
	}

	message := session.Station.ProcessCommand(req.Command)

	if req.UseAI {
		ctx, cancel := context.WithTimeout(r.Context(), aiResponseTimeout)
		aiMessage := session.Narrator.Respond(ctx, req.Command, session.Station.Snapshot())
		cancel()
		message = message + "\n\n" + aiMessage
	}

	if err := h.sessions.Persist(r.Context(), session); err != nil {
		h.logger.Error("Error persisting session", "session_id", session.ID, "error", err)
	}

	writeJSON(w, h.logger, http.StatusOK, CommandResponse{
		Message:   message,
		GameState: session.Station.Snapshot(),
	})
}

func (h *SessionHandler) backend(w http.ResponseWriter, r *http.Request, session *services.GameSession) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.logger, http.StatusOK, BackendResponse{
			Backend:  session.Narrator.CurrentBackend(),
			Backends: session.Narrator.Backends(),
		})

	case http.MethodPut:
		var req SwitchBackendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'backend' field.")
			return
		}

		session.Lock()
		ok := session.Narrator.SwitchBackend(req.Backend)
		session.Unlock()
		if !ok {
			writeError(w, h.logger, http.StatusConflict, "Backend "+req.Backend+" is unknown or unavailable.")
			return
		}

		writeJSON(w, h.logger, http.StatusOK, BackendResponse{
			Backend: session.Narrator.CurrentBackend(),
		})

	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}
