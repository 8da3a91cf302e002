// Package station implements the Dark Station Chronicles room graph and
// command processing. It has no knowledge of the AI layer; the narrator
// consumes its snapshots read-only.
package station

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/darkstation/chronicles/pkg/state"
)

var titleCaser = cases.Title(language.English)

// Station is one game session's world state: the room graph, the player,
// and the player's position.
type Station struct {
	Rooms       map[string]*Room
	CurrentRoom string
	Player      *Player
}

// New creates a fresh game with the default station map and an unclassed
// player in the reception area.
func New() *Station {
	return &Station{
		Rooms:       DefaultRooms(),
		CurrentRoom: "start",
		Player:      NewPlayer(),
	}
}

// OpeningText returns the text shown when a session starts.
func (s *Station) OpeningText() string {
	return "Welcome to Dark Station Chronicles!\n\n" +
		"In the depths of space, aboard an abandoned research station, your story begins. " +
		"Choose your path carefully as you uncover the mysteries that lie within.\n\n" +
		"Available character classes:\n" +
		"- Cybernetic: Enhanced with advanced technology and neural interfaces\n" +
		"- Psionic: Gifted with psychic abilities and enhanced perception\n" +
		"- Hunter: Skilled in survival, tracking, and combat techniques\n\n" +
		"To begin, select your class with the command: /select-class [classname]\n" +
		"Example: /select-class cybernetic\n\n" +
		s.Rooms[s.CurrentRoom].Description
}

// ProcessCommand interprets one player command and returns the response text.
func (s *Station) ProcessCommand(command string) string {
	command = strings.ToLower(strings.TrimSpace(command))

	switch {
	case command == "north", command == "south", command == "east", command == "west":
		return s.move(command)
	case command == "look", command == "look around":
		return s.describeRoom()
	case command == "inventory", command == "i":
		return s.describeInventory()
	case strings.HasPrefix(command, "examine"):
		return s.examine(strings.TrimSpace(strings.TrimPrefix(command, "examine")))
	case strings.HasPrefix(command, "take"):
		return s.take(strings.TrimSpace(strings.TrimPrefix(command, "take")))
	case strings.HasPrefix(command, "/select-class"):
		return s.selectClass(command)
	}

	return "I don't understand that command."
}

func (s *Station) move(direction string) string {
	room := s.Rooms[s.CurrentRoom]
	next, ok := room.Exits[direction]
	if !ok {
		return fmt.Sprintf("You cannot go %s from here.", direction)
	}

	s.CurrentRoom = next
	return fmt.Sprintf("You move %s.\n\n%s", direction, s.Rooms[next].Description)
}

func (s *Station) describeRoom() string {
	room := s.Rooms[s.CurrentRoom]
	desc := room.Description
	if len(room.Items) > 0 {
		desc += "\n\nYou notice: " + strings.Join(room.Items, ", ")
	}
	return desc
}

func (s *Station) describeInventory() string {
	if len(s.Player.Inventory) == 0 {
		return "You are carrying nothing."
	}
	return "You are carrying: " + strings.Join(s.Player.Inventory, ", ")
}

func (s *Station) examine(target string) string {
	switch target {
	case "room", "area", "":
		return s.describeRoom()
	case "self":
		lines := []string{
			fmt.Sprintf("Health: %d%%", s.Player.HP()),
			fmt.Sprintf("Energy: %d%%", s.Player.Energy),
			fmt.Sprintf("Level: %d", s.Player.Level),
		}
		if s.Player.Class != "" {
			lines = append([]string{"Class: " + titleCaser.String(s.Player.Class)}, lines...)
		}
		return strings.Join(lines, "\n")
	}

	if slices.Contains(s.Player.Inventory, target) {
		return fmt.Sprintf("You turn the %s over in your hands. It may prove useful.", target)
	}

	return fmt.Sprintf("You examine the %s, but find nothing particularly interesting.", target)
}

func (s *Station) take(item string) string {
	if item == "" {
		return "Take what?"
	}

	room := s.Rooms[s.CurrentRoom]
	idx := slices.Index(room.Items, item)
	if idx == -1 {
		return fmt.Sprintf("There is no %s here.", item)
	}

	room.Items = slices.Delete(room.Items, idx, idx+1)
	s.Player.Inventory = append(s.Player.Inventory, item)
	return fmt.Sprintf("You take the %s.", item)
}

func (s *Station) selectClass(command string) string {
	fields := strings.Fields(command)
	class := strings.ToLower(fields[len(fields)-1])

	if err := s.Player.SelectClass(class); err != nil {
		return "Invalid class. Choose from: cybernetic, psionic, or hunter."
	}

	return fmt.Sprintf("You have chosen the %s class. Your journey begins...", class)
}

// Snapshot produces the game-state snapshot consumed by prompt composition.
func (s *Station) Snapshot() *state.PromptState {
	room := s.Rooms[s.CurrentRoom]
	return &state.PromptState{
		CurrentRoom:    s.CurrentRoom,
		PlayerStats:    s.Player.Stats(),
		Inventory:      append([]string(nil), s.Player.Inventory...),
		AvailableExits: room.ExitNames(),
		CharacterClass: s.Player.Class,
	}
}

// NewFromState restores a station from a persisted session.
func NewFromState(ss *state.SessionState) (*Station, error) {
	player, err := NewPlayerFromState(ss.Player)
	if err != nil {
		return nil, fmt.Errorf("failed to restore player: %w", err)
	}

	st := &Station{
		Rooms:       DefaultRooms(),
		CurrentRoom: ss.CurrentRoom,
		Player:      player,
	}
	if _, ok := st.Rooms[st.CurrentRoom]; !ok {
		st.CurrentRoom = "start"
	}

	// Items already carried are no longer on the floor.
	for _, room := range st.Rooms {
		room.Items = slices.DeleteFunc(room.Items, func(item string) bool {
			return slices.Contains(player.Inventory, item)
		})
	}
	return st, nil
}
