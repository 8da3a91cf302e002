package station

import "sort"

// Room is one location on the station.
type Room struct {
	Description string            `json:"description"`
	Exits       map[string]string `json:"exits"` // direction -> room id
	Items       []string          `json:"items,omitempty"`
}

// ExitNames returns the room's exit directions in a stable order.
func (r *Room) ExitNames() []string {
	names := make([]string, 0, len(r.Exits))
	for direction := range r.Exits {
		names = append(names, direction)
	}
	sort.Strings(names)
	return names
}

// DefaultRooms returns the station map.
func DefaultRooms() map[string]*Room {
	return map[string]*Room{
		"start": {
			Description: "You find yourself in the dimly lit reception area of Dark Station. " +
				"Emergency lights cast an eerie red glow across abandoned terminals.",
			Exits: map[string]string{"north": "corridor", "east": "security"},
			Items: []string{"datapad"},
		},
		"corridor": {
			Description: "A long corridor stretches before you. Loose cables hang from the ceiling, " +
				"occasionally sparking with residual power.",
			Exits: map[string]string{"south": "start", "north": "lab"},
		},
		"security": {
			Description: "The security office is a mess of broken monitors and scattered datapads. " +
				"A powered-down security robot sits motionless in the corner.",
			Exits: map[string]string{"west": "start"},
			Items: []string{"keycard"},
		},
		"lab": {
			Description: "This appears to be a research laboratory. Strange equipment lines the walls, " +
				"and holographic displays flicker with corrupted data.",
			Exits: map[string]string{"south": "corridor"},
			Items: []string{"sample vial"},
		},
	}
}
