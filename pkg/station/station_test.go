package station

import (
	"strings"
	"testing"

	"github.com/darkstation/chronicles/pkg/state"
)

func TestStation_Movement(t *testing.T) {
	s := New()

	resp := s.ProcessCommand("north")
	if !strings.HasPrefix(resp, "You move north.") {
		t.Errorf("Unexpected movement response: %q", resp)
	}
	if s.CurrentRoom != "corridor" {
		t.Errorf("Expected corridor, got %q", s.CurrentRoom)
	}

	resp = s.ProcessCommand("east")
	if resp != "You cannot go east from here." {
		t.Errorf("Expected blocked exit message, got %q", resp)
	}
	if s.CurrentRoom != "corridor" {
		t.Errorf("Blocked move changed room to %q", s.CurrentRoom)
	}
}

func TestStation_Look(t *testing.T) {
	s := New()
	resp := s.ProcessCommand("look")
	if !strings.Contains(resp, "reception area") {
		t.Errorf("Expected room description, got %q", resp)
	}
	if !strings.Contains(resp, "datapad") {
		t.Errorf("Expected room items listed, got %q", resp)
	}
}

func TestStation_TakeAndInventory(t *testing.T) {
	s := New()

	if resp := s.ProcessCommand("take datapad"); resp != "You take the datapad." {
		t.Errorf("Unexpected take response: %q", resp)
	}
	if resp := s.ProcessCommand("take datapad"); resp != "There is no datapad here." {
		t.Errorf("Expected item gone after pickup, got %q", resp)
	}
	if resp := s.ProcessCommand("inventory"); !strings.Contains(resp, "datapad") {
		t.Errorf("Expected datapad in inventory, got %q", resp)
	}
	if resp := s.ProcessCommand("look"); strings.Contains(resp, "You notice") {
		t.Errorf("Room should no longer list taken item, got %q", resp)
	}
}

func TestStation_ClassSelection(t *testing.T) {
	s := New()

	resp := s.ProcessCommand("/select-class hunter")
	if !strings.Contains(resp, "hunter class") {
		t.Errorf("Unexpected class selection response: %q", resp)
	}
	if s.Player.Class != "hunter" {
		t.Errorf("Expected hunter class, got %q", s.Player.Class)
	}
	if tracking, ok := s.Player.Attribute("tracking"); !ok || tracking != 16 {
		t.Errorf("Expected tracking 16 on hunter, got %d (ok=%v)", tracking, ok)
	}

	resp = s.ProcessCommand("/select-class pirate")
	if !strings.Contains(resp, "Invalid class") {
		t.Errorf("Expected invalid class message, got %q", resp)
	}
	if s.Player.Class != "hunter" {
		t.Errorf("Failed selection changed class to %q", s.Player.Class)
	}
}

func TestStation_ExamineSelf(t *testing.T) {
	s := New()
	s.ProcessCommand("/select-class cybernetic")

	resp := s.ProcessCommand("examine self")
	if !strings.Contains(resp, "Class: Cybernetic") {
		t.Errorf("Expected title-cased class line, got %q", resp)
	}
	if !strings.Contains(resp, "Health: 100%") {
		t.Errorf("Expected health line, got %q", resp)
	}
}

func TestStation_UnknownCommand(t *testing.T) {
	s := New()
	if resp := s.ProcessCommand("dance"); resp != "I don't understand that command." {
		t.Errorf("Unexpected default response: %q", resp)
	}
}

func TestStation_Snapshot(t *testing.T) {
	s := New()
	s.ProcessCommand("/select-class psionic")
	s.ProcessCommand("take datapad")
	s.ProcessCommand("east")

	snap := s.Snapshot()
	if snap.CurrentRoom != "security" {
		t.Errorf("Expected security, got %q", snap.CurrentRoom)
	}
	if snap.CharacterClass != "psionic" {
		t.Errorf("Expected psionic, got %q", snap.CharacterClass)
	}
	if len(snap.Inventory) != 1 || snap.Inventory[0] != "datapad" {
		t.Errorf("Unexpected snapshot inventory: %v", snap.Inventory)
	}
	if snap.PlayerStats["health"] != 100 {
		t.Errorf("Unexpected health stat: %v", snap.PlayerStats["health"])
	}
	if len(snap.AvailableExits) != 1 || snap.AvailableExits[0] != "west" {
		t.Errorf("Unexpected exits: %v", snap.AvailableExits)
	}
}

func TestStation_RestoreFromState(t *testing.T) {
	s := New()
	s.ProcessCommand("/select-class hunter")
	s.ProcessCommand("take datapad")
	s.ProcessCommand("north")

	ss := &state.SessionState{
		CurrentRoom: s.CurrentRoom,
		Player:      s.Player.State(),
	}

	restored, err := NewFromState(ss)
	if err != nil {
		t.Fatalf("Failed to restore station: %v", err)
	}
	if restored.CurrentRoom != "corridor" {
		t.Errorf("Expected corridor after restore, got %q", restored.CurrentRoom)
	}
	if restored.Player.Class != "hunter" {
		t.Errorf("Expected hunter after restore, got %q", restored.Player.Class)
	}
	if resp := restored.ProcessCommand("south"); !strings.Contains(resp, "reception area") {
		t.Errorf("Restored station map broken: %q", resp)
	}
	// Carried item must not reappear on the floor.
	restored.CurrentRoom = "start"
	if resp := restored.ProcessCommand("take datapad"); resp != "There is no datapad here." {
		t.Errorf("Carried item still on floor after restore: %q", resp)
	}
}
