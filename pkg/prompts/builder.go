package prompts

import (
	"fmt"
	"strings"

	"github.com/darkstation/chronicles/pkg/chat"
	"github.com/darkstation/chronicles/pkg/state"
)

// Builder composes the full narrator prompt using a fluent interface.
// Section order is a behavioral contract: base persona, class persona,
// recent history, game state, then the current player input. Reordering
// sections changes model behavior.
type Builder struct {
	persona   Persona
	class     string
	history   []chat.Exchange
	snapshot  *state.PromptState
	userInput string
}

// New creates a prompt builder with the default persona.
func New() *Builder {
	return &Builder{
		persona: DefaultPersona(),
	}
}

// WithPersona replaces the persona context wholesale.
func (b *Builder) WithPersona(p Persona) *Builder {
	b.persona = p
	return b
}

// WithCharacterClass sets the per-class persona key. Unknown classes are
// ignored at Build time.
func (b *Builder) WithCharacterClass(class string) *Builder {
	b.class = class
	return b
}

// WithHistory sets the windowed conversation history, oldest first.
func (b *Builder) WithHistory(history []chat.Exchange) *Builder {
	b.history = history
	return b
}

// WithSnapshot sets the current game-state snapshot. Nil omits the section.
func (b *Builder) WithSnapshot(snapshot *state.PromptState) *Builder {
	b.snapshot = snapshot
	return b
}

// WithUserInput sets the raw player input for this turn.
func (b *Builder) WithUserInput(input string) *Builder {
	b.userInput = input
	return b
}

// Build constructs the final prompt text.
func (b *Builder) Build() (string, error) {
	if b.userInput == "" {
		return "", fmt.Errorf("user input is required")
	}

	base, ok := b.persona[PersonaKeyBase]
	if !ok {
		return "", fmt.Errorf("persona is missing %q context", PersonaKeyBase)
	}

	parts := []string{base}

	if b.class != "" {
		if classContext, ok := b.persona[b.class]; ok {
			parts = append(parts, classContext)
		}
	}

	if len(b.history) > 0 {
		var sb strings.Builder
		sb.WriteString("Recent interactions:\n")
		for _, exchange := range b.history {
			sb.WriteString("Player: " + exchange.Input + "\n")
			sb.WriteString("Response: " + exchange.Response + "\n")
		}
		parts = append(parts, sb.String())
	}

	if b.snapshot != nil {
		parts = append(parts, renderSnapshot(b.snapshot))
	}

	parts = append(parts, "Player input: "+b.userInput)
	return strings.Join(parts, "\n"), nil
}

func renderSnapshot(s *state.PromptState) string {
	var sb strings.Builder
	sb.WriteString("Current game state:\n")

	location := s.CurrentRoom
	if location == "" {
		location = "unknown"
	}
	sb.WriteString("- Location: " + location + "\n")
	sb.WriteString(fmt.Sprintf("- Player stats: %v\n", s.PlayerStats))
	sb.WriteString(fmt.Sprintf("- Inventory: %v", s.Inventory))

	if len(s.AvailableExits) > 0 {
		sb.WriteString("\n- Exits: " + strings.Join(s.AvailableExits, ", "))
	}
	return sb.String()
}
