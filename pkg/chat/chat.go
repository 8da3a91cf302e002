package chat

import (
	"sync"
	"time"
)

// DefaultMemoryLimit is the number of recent exchanges included in prompts.
const DefaultMemoryLimit = 10

// Exchange is one recorded conversational turn between the player and the
// narrator. Exchanges are immutable once recorded.
type Exchange struct {
	Input     string    `json:"input"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// Memory is an append-only, ordered log of exchanges. Only the most recent
// Limit entries are handed out for prompt inclusion; older entries are pruned
// internally and are not observable through the public API.
type Memory struct {
	mu        sync.Mutex
	exchanges []Exchange
	limit     int
}

// NewMemory creates a conversation memory with the given inclusion window.
// A non-positive limit falls back to DefaultMemoryLimit.
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &Memory{
		exchanges: make([]Exchange, 0),
		limit:     limit,
	}
}

// Record appends an exchange with the current wall-clock timestamp.
func (m *Memory) Record(input, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exchanges = append(m.exchanges, Exchange{
		Input:     input,
		Response:  response,
		Timestamp: time.Now(),
	})

	// Prune well beyond the inclusion window so total history stays bounded.
	if max := m.limit * 10; len(m.exchanges) > max {
		m.exchanges = append([]Exchange(nil), m.exchanges[len(m.exchanges)-max:]...)
	}
}

// Recent returns up to n of the most recent exchanges in chronological order.
// It always returns a copy; the empty slice when there is no history.
func (m *Memory) Recent(n int) []Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || len(m.exchanges) == 0 {
		return []Exchange{}
	}
	if n > len(m.exchanges) {
		n = len(m.exchanges)
	}

	out := make([]Exchange, n)
	copy(out, m.exchanges[len(m.exchanges)-n:])
	return out
}

// Window returns the exchanges eligible for prompt inclusion.
func (m *Memory) Window() []Exchange {
	return m.Recent(m.limit)
}

// Limit returns the inclusion window size.
func (m *Memory) Limit() int {
	return m.limit
}

// Len returns the number of retained exchanges.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.exchanges)
}

// Restore replaces the log with previously persisted exchanges. Used when a
// session is reloaded from storage.
func (m *Memory) Restore(exchanges []Exchange) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exchanges = append([]Exchange(nil), exchanges...)
}

// Snapshot returns a copy of the full retained log for persistence.
func (m *Memory) Snapshot() []Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Exchange, len(m.exchanges))
	copy(out, m.exchanges)
	return out
}
