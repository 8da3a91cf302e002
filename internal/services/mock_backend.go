package services

import (
	"context"
	"strings"
	"sync"
)

// MockBackend is a call-tracking Backend implementation for testing.
type MockBackend struct {
	BackendName     string
	Available       bool
	GenerateFunc    func(ctx context.Context, prompt string) (string, error)
	DefaultResponse string

	// Call tracking
	GenerateCalls []string // prompts, in call order

	mu sync.Mutex
}

// NewMockBackend creates an available mock with a fixed response.
func NewMockBackend(name string, response string) *MockBackend {
	return &MockBackend{
		BackendName:     name,
		Available:       true,
		DefaultResponse: response,
		GenerateCalls:   make([]string, 0),
	}
}

func (m *MockBackend) Name() string {
	return m.BackendName
}

func (m *MockBackend) IsAvailable() bool {
	return m.Available
}

func (m *MockBackend) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return strings.TrimSpace(m.DefaultResponse), nil
}

// CallCount returns the number of GenerateResponse invocations.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockBackend) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.GenerateCalls) == 0 {
		return ""
	}
	return m.GenerateCalls[len(m.GenerateCalls)-1]
}

// SetError makes subsequent calls fail with a wrapped call error.
func (m *MockBackend) SetError(err error) {
	m.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", &BackendCallError{Backend: m.BackendName, Err: err}
	}
}
