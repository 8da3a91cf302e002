package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/darkstation/chronicles/internal/config"
)

// Registry holds the configured backends and the active backend pointer.
// Fallback iteration follows registration order; it is not a priority
// ranking beyond that.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	backends map[string]Backend
	active   string
	logger   *slog.Logger
}

// NewRegistry constructs all backend adapters from configuration and picks
// the initial active backend: the configured default when it is known and
// available, otherwise the first available backend in registration order.
// It fails with ErrNoBackendsAvailable when nothing is usable.
func NewRegistry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	backends := []Backend{
		NewClaudeBackend(cfg.AnthropicAPIKey, cfg.AnthropicModel, logger),
		NewLlamaBackend(cfg.LlamaServerURL, cfg.LlamaModelPath, "llama3", logger),
		NewChatGPTBackend(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger),
		NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger),
		NewOpenRouterBackend(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, logger),
	}
	return NewRegistryWithBackends(backends, cfg.DefaultBackend, logger)
}

// NewRegistryWithBackends builds a registry from pre-constructed backends,
// preserving their order for fallback iteration.
func NewRegistryWithBackends(backends []Backend, preferred string, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		order:    make([]string, 0, len(backends)),
		backends: make(map[string]Backend, len(backends)),
		logger:   logger,
	}

	for _, b := range backends {
		if _, exists := r.backends[b.Name()]; exists {
			return nil, fmt.Errorf("duplicate backend identity: %s", b.Name())
		}
		r.order = append(r.order, b.Name())
		r.backends[b.Name()] = b
	}

	if b, ok := r.backends[preferred]; ok && b.IsAvailable() {
		r.active = preferred
		logger.Info("Using preferred AI backend", "backend", preferred)
		return r, nil
	}

	for _, name := range r.order {
		if r.backends[name].IsAvailable() {
			r.active = name
			logger.Warn("Preferred AI backend unavailable, adopting fallback",
				"preferred", preferred, "backend", name)
			return r, nil
		}
	}

	return nil, ErrNoBackendsAvailable
}

// Current returns the active backend identity.
func (r *Registry) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Names returns the backend identities in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Get looks up a backend by identity.
func (r *Registry) Get(name string) (Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Switch attempts to activate the named backend. Switching to the already
// active backend re-validates its availability without touching the pointer.
// On failure the pointer is unchanged; the reason (unknown name vs known but
// unavailable) is distinguishable in the logs.
func (r *Registry) Switch(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == r.active {
		current := r.backends[r.active]
		if current != nil && current.IsAvailable() {
			return true
		}
		r.logger.Warn("Current backend is not available", "backend", r.active)
		return false
	}

	backend, ok := r.backends[name]
	if !ok {
		r.logger.Warn("Requested backend does not exist", "backend", name)
		return false
	}
	if !backend.IsAvailable() {
		r.logger.Warn("Requested backend exists but is not available", "backend", name)
		return false
	}

	r.active = name
	r.logger.Info("Switched AI backend", "backend", name)
	return true
}

// Resolve returns the backend to use for one call: the active backend when
// available, otherwise the first available backend in registration order.
// Returns nil when nothing is available. The active pointer is never mutated
// by resolution; fallback is per call only.
func (r *Registry) Resolve() Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if active, ok := r.backends[r.active]; ok && active.IsAvailable() {
		return active
	}

	for _, name := range r.order {
		if name == r.active {
			continue
		}
		if b := r.backends[name]; b.IsAvailable() {
			r.logger.Info("Falling back to alternate AI backend",
				"active", r.active, "fallback", name)
			return b
		}
	}
	return nil
}
