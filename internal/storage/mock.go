package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darkstation/chronicles/pkg/state"
)

// MockStorage is an in-memory Storage implementation for testing.
type MockStorage struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*state.SessionState

	PingErr error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new in-memory mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*state.SessionState),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, ss *state.SessionState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ss.UpdatedAt = time.Now()
	saved := *ss
	m.sessions[id] = &saved
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*state.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ss, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	loaded := *ss
	return &loaded, nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}
