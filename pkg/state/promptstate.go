package state

import (
	"time"

	"github.com/google/uuid"

	"github.com/darkstation/chronicles/pkg/chat"
)

// PromptState is the game-state snapshot handed to prompt composition.
// It is produced by the game layer and consumed read-only; unknown fields
// supplied by future producers are simply ignored by the composer.
type PromptState struct {
	CurrentRoom    string         `json:"current_room,omitempty"`
	PlayerStats    map[string]any `json:"player_stats,omitempty"`
	Inventory      []string       `json:"inventory,omitempty"`
	AvailableExits []string       `json:"available_exits,omitempty"`
	CharacterClass string         `json:"character_class,omitempty"`
}

// PlayerState is the persisted shape of the player.
type PlayerState struct {
	Class     string   `json:"class,omitempty"`
	HP        int      `json:"hp"`
	MaxHP     int      `json:"max_hp"`
	Energy    int      `json:"energy"`
	Level     int      `json:"level"`
	XP        int      `json:"xp"`
	Inventory []string `json:"inventory"`
}

// SessionState is the serialized form of one game session, as stored
// and as returned by the API.
type SessionState struct {
	ID          uuid.UUID       `json:"id"`
	CurrentRoom string          `json:"current_room"`
	Player      PlayerState     `json:"player"`
	History     []chat.Exchange `json:"history,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
