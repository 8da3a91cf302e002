package services

import (
	"context"
	"log/slog"

	"github.com/darkstation/chronicles/internal/logger"
	"github.com/darkstation/chronicles/pkg/chat"
	"github.com/darkstation/chronicles/pkg/prompts"
	"github.com/darkstation/chronicles/pkg/state"
)

// DegradedMessage is the fixed, in-character text returned whenever AI
// enhancement cannot be produced. AI failures never abort the calling game
// flow; they only degrade it.
const DegradedMessage = "I apologize, but I encountered an error processing your request."

// Narrator orchestrates one session's AI responses: it selects a usable
// backend, composes the prompt from persona, memory and game state, invokes
// the backend, and records the exchange. One Narrator (with its registry and
// memory) is owned exclusively by one game session.
type Narrator struct {
	registry *Registry
	memory   *chat.Memory
	persona  prompts.Persona
	logger   *slog.Logger
}

// NewNarrator creates a narrator owning the given registry and a fresh
// conversation memory with the given inclusion window.
func NewNarrator(registry *Registry, memoryLimit int, logger *slog.Logger) *Narrator {
	return &Narrator{
		registry: registry,
		memory:   chat.NewMemory(memoryLimit),
		persona:  prompts.DefaultPersona(),
		logger:   logger,
	}
}

// Memory exposes the conversation memory for persistence and restore.
func (n *Narrator) Memory() *chat.Memory {
	return n.memory
}

// CurrentBackend returns the active backend identity.
func (n *Narrator) CurrentBackend() string {
	return n.registry.Current()
}

// SwitchBackend attempts to activate the named backend.
func (n *Narrator) SwitchBackend(name string) bool {
	return n.registry.Switch(name)
}

// Backends returns the configured backend identities in registration order.
func (n *Narrator) Backends() []string {
	return n.registry.Names()
}

// Respond produces the narrator's reply to one player input. The snapshot is
// optional and consumed read-only. Any backend failure is contained here: the
// caller always receives text, at worst the degraded message. A failed call
// records nothing and changes no backend state.
func (n *Narrator) Respond(ctx context.Context, input string, snapshot *state.PromptState) string {
	backend := n.registry.Resolve()
	if backend == nil {
		n.logger.Error("No AI backends available for response")
		return DegradedMessage
	}

	builder := prompts.New().
		WithPersona(n.persona).
		WithHistory(n.memory.Window()).
		WithSnapshot(snapshot).
		WithUserInput(input)
	if snapshot != nil {
		builder = builder.WithCharacterClass(snapshot.CharacterClass)
	}

	prompt, err := builder.Build()
	if err != nil {
		logger.WithError(n.logger, err).Error("Error composing prompt")
		return DegradedMessage
	}

	response, err := backend.GenerateResponse(ctx, prompt)
	if err != nil {
		logger.WithError(n.logger, err).Error("Error getting AI response",
			"backend", backend.Name())
		return DegradedMessage
	}

	n.memory.Record(input, response)
	return response
}
