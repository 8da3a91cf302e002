package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/darkstation/chronicles/pkg/state"
)

// Storage defines the interface for session persistence.
type Storage interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error

	// Close closes the storage connection
	Close() error

	// SaveSession saves a session state by ID
	SaveSession(ctx context.Context, id uuid.UUID, ss *state.SessionState) error

	// LoadSession retrieves a session state by ID.
	// Returns nil if the session doesn't exist.
	LoadSession(ctx context.Context, id uuid.UUID) (*state.SessionState, error)

	// DeleteSession removes a session state by ID
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
