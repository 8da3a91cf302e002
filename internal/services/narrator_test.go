package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/darkstation/chronicles/pkg/state"
)

func newTestNarrator(t *testing.T, backends []Backend, preferred string) *Narrator {
	t.Helper()
	r, err := NewRegistryWithBackends(backends, preferred, testLogger())
	if err != nil {
		t.Fatalf("Registry init failed: %v", err)
	}
	return NewNarrator(r, 10, testLogger())
}

func TestNarrator_RespondUsesActiveBackend(t *testing.T) {
	claude := NewMockBackend("claude", "The bridge hums with latent power.")
	n := newTestNarrator(t, []Backend{claude}, "claude")

	snap := &state.PromptState{
		CurrentRoom: "bridge",
		PlayerStats: map[string]any{"health": 100},
		Inventory:   []string{},
	}

	got := n.Respond(context.Background(), "look", snap)
	if got != "The bridge hums with latent power." {
		t.Errorf("Expected mocked text verbatim, got %q", got)
	}
	if claude.CallCount() != 1 {
		t.Errorf("Expected exactly one backend call, got %d", claude.CallCount())
	}
	if !strings.Contains(claude.LastPrompt(), "bridge") {
		t.Error("Expected composed prompt to contain the room id")
	}
	if n.Memory().Len() != 1 {
		t.Errorf("Expected one recorded exchange, got %d", n.Memory().Len())
	}
	if n.Memory().Recent(1)[0].Input != "look" {
		t.Errorf("Exchange input should be the original user input, got %q", n.Memory().Recent(1)[0].Input)
	}
}

func TestNarrator_FallbackUsesOtherBackendOnce(t *testing.T) {
	claude := unavailableMock("claude")
	llama := NewMockBackend("llama", "Static crackles from the speakers.")

	r, err := NewRegistryWithBackends([]Backend{claude, llama}, "claude", testLogger())
	if err != nil {
		t.Fatalf("Registry init failed: %v", err)
	}
	// Point the active pointer at the unavailable backend to exercise
	// per-call fallback.
	r.mu.Lock()
	r.active = "claude"
	r.mu.Unlock()

	n := NewNarrator(r, 10, testLogger())
	got := n.Respond(context.Background(), "listen", nil)

	if got != "Static crackles from the speakers." {
		t.Errorf("Expected fallback backend response, got %q", got)
	}
	if llama.CallCount() != 1 {
		t.Errorf("Expected exactly one fallback call, got %d", llama.CallCount())
	}
	if claude.CallCount() != 0 {
		t.Errorf("Unavailable backend must not be called, got %d calls", claude.CallCount())
	}
	if n.Memory().Len() != 1 {
		t.Errorf("Expected one recorded exchange, got %d", n.Memory().Len())
	}
	if n.CurrentBackend() != "claude" {
		t.Errorf("Fallback must not demote the active pointer, got %q", n.CurrentBackend())
	}
}

func TestNarrator_AllUnavailableDegrades(t *testing.T) {
	claude := NewMockBackend("claude", "unused")
	n := newTestNarrator(t, []Backend{claude}, "claude")
	claude.Available = false

	got := n.Respond(context.Background(), "look", nil)
	if got != DegradedMessage {
		t.Errorf("Expected degraded message, got %q", got)
	}
	if n.Memory().Len() != 0 {
		t.Errorf("Degraded response must not be recorded, memory len %d", n.Memory().Len())
	}
	if claude.CallCount() != 0 {
		t.Errorf("No backend should be called, got %d", claude.CallCount())
	}
}

func TestNarrator_CallFailureDegradesWithoutRecording(t *testing.T) {
	claude := NewMockBackend("claude", "")
	claude.SetError(errors.New("quota exceeded"))
	llama := NewMockBackend("llama", "never used")

	n := newTestNarrator(t, []Backend{claude, llama}, "claude")

	got := n.Respond(context.Background(), "look", nil)
	if got != DegradedMessage {
		t.Errorf("Expected degraded message on call failure, got %q", got)
	}
	if n.Memory().Len() != 0 {
		t.Errorf("Failed call must not append to memory, len %d", n.Memory().Len())
	}
	// No mid-call re-selection: the alternate backend is untouched.
	if llama.CallCount() != 0 {
		t.Errorf("Expected no retry on alternate backend, got %d calls", llama.CallCount())
	}
	if n.CurrentBackend() != "claude" {
		t.Errorf("Failed call must not demote the active pointer, got %q", n.CurrentBackend())
	}
}

func TestNarrator_HistoryWindowInPrompt(t *testing.T) {
	claude := NewMockBackend("claude", "ok")
	n := newTestNarrator(t, []Backend{claude}, "claude")

	for i := 0; i < 15; i++ {
		n.Respond(context.Background(), "cmd "+string(rune('a'+i)), nil)
	}

	prompt := claude.LastPrompt()
	if strings.Contains(prompt, "Player: cmd a\n") {
		t.Error("Oldest exchange should have aged out of the prompt window")
	}
	if !strings.Contains(prompt, "Player: cmd n\n") {
		t.Error("Recent exchange missing from prompt window")
	}

	// Count history lines in the final prompt: window is 10.
	count := strings.Count(prompt, "Player: cmd ")
	if count != 10 {
		t.Errorf("Expected 10 history entries in prompt, got %d", count)
	}
}

func TestNarrator_ClassContextFromSnapshot(t *testing.T) {
	claude := NewMockBackend("claude", "ok")
	n := newTestNarrator(t, []Backend{claude}, "claude")

	n.Respond(context.Background(), "look", &state.PromptState{
		CurrentRoom:    "lab",
		CharacterClass: "cybernetic",
	})

	if !strings.Contains(claude.LastPrompt(), "cybernetic enhancements") {
		t.Error("Expected class persona in composed prompt")
	}
}

func TestNarrator_SwitchBackend(t *testing.T) {
	claude := NewMockBackend("claude", "from claude")
	llama := NewMockBackend("llama", "from llama")
	n := newTestNarrator(t, []Backend{claude, llama}, "claude")

	if !n.SwitchBackend("llama") {
		t.Fatal("Expected switch to succeed")
	}
	if n.CurrentBackend() != "llama" {
		t.Errorf("Expected 'llama' active, got %q", n.CurrentBackend())
	}

	got := n.Respond(context.Background(), "look", nil)
	if got != "from llama" {
		t.Errorf("Expected response from switched backend, got %q", got)
	}
}
