package station

import (
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/darkstation/chronicles/pkg/state"
)

// ValidClasses are the selectable character classes.
var ValidClasses = []string{"cybernetic", "psionic", "hunter"}

// classSpec holds the d20 build parameters for one character class.
type classSpec struct {
	hp         int
	ac         int
	attributes map[string]int
}

var classSpecs = map[string]classSpec{
	"cybernetic": {
		hp: 100,
		ac: 14,
		attributes: map[string]int{
			"intellect": 16,
			"systems":   15,
			"resolve":   12,
		},
	},
	"psionic": {
		hp: 100,
		ac: 11,
		attributes: map[string]int{
			"perception": 16,
			"willpower":  15,
			"empathy":    14,
		},
	},
	"hunter": {
		hp: 100,
		ac: 13,
		attributes: map[string]int{
			"tracking":  16,
			"stealth":   15,
			"endurance": 14,
		},
	},
}

// unclassedSpec backs a player before class selection.
var unclassedSpec = classSpec{
	hp: 100,
	ac: 10,
	attributes: map[string]int{
		"resolve": 10,
	},
}

// Player is the station explorer. Core stats live on a d20 actor so skill
// values and HP bookkeeping come from the same rules engine the narrator
// describes.
type Player struct {
	Class     string
	Energy    int
	Level     int
	XP        int
	Inventory []string

	actor *d20.Actor
}

// NewPlayer creates an unclassed player.
func NewPlayer() *Player {
	p := &Player{
		Energy:    100,
		Level:     1,
		Inventory: []string{},
	}
	p.actor, _ = buildActor("explorer", unclassedSpec)
	return p
}

func buildActor(id string, spec classSpec) (*d20.Actor, error) {
	actor, err := d20.NewActor(id).
		WithHP(spec.hp).
		WithAC(spec.ac).
		WithAttributes(spec.attributes).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}
	return actor, nil
}

// SelectClass rebuilds the player's actor for the chosen class.
func (p *Player) SelectClass(class string) error {
	spec, ok := classSpecs[class]
	if !ok {
		return fmt.Errorf("unknown class: %s", class)
	}

	actor, err := buildActor(class, spec)
	if err != nil {
		return err
	}

	p.Class = class
	p.actor = actor
	return nil
}

// HP returns current hit points.
func (p *Player) HP() int {
	return p.actor.HP()
}

// MaxHP returns maximum hit points.
func (p *Player) MaxHP() int {
	return p.actor.MaxHP()
}

// Attribute returns a class attribute value by name.
func (p *Player) Attribute(name string) (int, bool) {
	return p.actor.Attribute(name)
}

// Stats returns the scalar stats included in game-state snapshots.
func (p *Player) Stats() map[string]any {
	return map[string]any{
		"health": p.HP(),
		"energy": p.Energy,
		"level":  p.Level,
	}
}

// State returns the persisted shape of the player.
func (p *Player) State() state.PlayerState {
	inventory := make([]string, len(p.Inventory))
	copy(inventory, p.Inventory)

	return state.PlayerState{
		Class:     p.Class,
		HP:        p.HP(),
		MaxHP:     p.MaxHP(),
		Energy:    p.Energy,
		Level:     p.Level,
		XP:        p.XP,
		Inventory: inventory,
	}
}

// NewPlayerFromState restores a player from its persisted shape.
func NewPlayerFromState(ps state.PlayerState) (*Player, error) {
	p := NewPlayer()
	if ps.Class != "" {
		if err := p.SelectClass(ps.Class); err != nil {
			return nil, err
		}
	}
	if ps.HP > 0 && ps.HP != p.actor.MaxHP() {
		if err := p.actor.SetHP(ps.HP); err != nil {
			return nil, fmt.Errorf("failed to restore HP: %w", err)
		}
	}
	if ps.Energy > 0 {
		p.Energy = ps.Energy
	}
	if ps.Level > 0 {
		p.Level = ps.Level
	}
	p.XP = ps.XP
	if ps.Inventory != nil {
		p.Inventory = append([]string(nil), ps.Inventory...)
	}
	return p, nil
}
