package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darkstation/chronicles/internal/config"
	"github.com/darkstation/chronicles/internal/storage"
	"github.com/darkstation/chronicles/pkg/state"
	"github.com/darkstation/chronicles/pkg/station"
)

// GameSession couples one station game with its exclusively owned narrator.
// The mutex serializes command processing per session so memory appends and
// backend switches never interleave within a session.
type GameSession struct {
	ID       uuid.UUID
	Station  *station.Station
	Narrator *Narrator

	CreatedAt time.Time

	mu sync.Mutex
}

// Lock serializes access to the session for one request.
func (g *GameSession) Lock() { g.mu.Lock() }

// Unlock releases the session.
func (g *GameSession) Unlock() { g.mu.Unlock() }

// State returns the persistable shape of the session.
func (g *GameSession) State() *state.SessionState {
	return &state.SessionState{
		ID:          g.ID,
		CurrentRoom: g.Station.CurrentRoom,
		Player:      g.Station.Player.State(),
		History:     g.Narrator.Memory().Snapshot(),
		CreatedAt:   g.CreatedAt,
	}
}

// SessionService owns all live game sessions. Each session gets its own
// registry and conversation memory; nothing AI-related is shared between
// sessions. Session state is persisted to storage on every mutation so an
// evicted or restarted process can restore sessions on demand.
type SessionService struct {
	cfg    *config.Config
	store  storage.Storage
	logger *slog.Logger
	mu     sync.Mutex
	live   map[uuid.UUID]*GameSession

	// RegistryFactory builds the per-session backend registry. The default
	// constructs adapters from configuration; tests substitute mocks.
	RegistryFactory func(ctx context.Context) (*Registry, error)
}

// NewSessionService creates the session service.
func NewSessionService(cfg *config.Config, store storage.Storage, logger *slog.Logger) *SessionService {
	s := &SessionService{
		cfg:    cfg,
		store:  store,
		logger: logger,
		live:   make(map[uuid.UUID]*GameSession),
	}
	s.RegistryFactory = func(ctx context.Context) (*Registry, error) {
		return NewRegistry(ctx, cfg, logger)
	}
	return s
}

// Create starts a new game session with a fresh station and narrator.
func (s *SessionService) Create(ctx context.Context) (*GameSession, error) {
	registry, err := s.RegistryFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI backends: %w", err)
	}

	session := &GameSession{
		ID:        uuid.New(),
		Station:   station.New(),
		Narrator:  NewNarrator(registry, s.cfg.MemoryLimit, s.logger),
		CreatedAt: time.Now(),
	}

	if err := s.store.SaveSession(ctx, session.ID, session.State()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.live[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("Created game session", "session_id", session.ID)
	return session, nil
}

// Get returns a live session, restoring it from storage when the process no
// longer holds it in memory. Returns nil when the session does not exist.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	s.mu.Lock()
	session, ok := s.live[id]
	s.mu.Unlock()
	if ok {
		return session, nil
	}

	ss, err := s.store.LoadSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if ss == nil {
		return nil, nil
	}

	restored, err := s.restore(ctx, ss)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	// Another request may have restored it concurrently; keep the first.
	if existing, ok := s.live[id]; ok {
		restored = existing
	} else {
		s.live[id] = restored
	}
	s.mu.Unlock()

	return restored, nil
}

func (s *SessionService) restore(ctx context.Context, ss *state.SessionState) (*GameSession, error) {
	st, err := station.NewFromState(ss)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", ss.ID, err)
	}

	registry, err := s.RegistryFactory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI backends: %w", err)
	}

	narrator := NewNarrator(registry, s.cfg.MemoryLimit, s.logger)
	narrator.Memory().Restore(ss.History)

	s.logger.Info("Restored game session from storage", "session_id", ss.ID)
	return &GameSession{
		ID:        ss.ID,
		Station:   st,
		Narrator:  narrator,
		CreatedAt: ss.CreatedAt,
	}, nil
}

// Persist writes the session's current state to storage.
func (s *SessionService) Persist(ctx context.Context, session *GameSession) error {
	return s.store.SaveSession(ctx, session.ID, session.State())
}

// Delete removes a session from memory and storage.
func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()

	return s.store.DeleteSession(ctx, id)
}
