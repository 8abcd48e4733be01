// Package combat implements the turn authority for Skirmish tabletop
// encounters: initiative ordering, current-actor tracking, and phase
// sequencing, one encounter per world.
package combat

import "github.com/google/uuid"

// Kind distinguishes player combatants from NPC combatants.
type Kind int

const (
	KindPlayer Kind = iota
	KindNPC
)

// Participant is one entrant in an encounter, as handed to StartCombat.
type Participant struct {
	ID   uuid.UUID
	Kind Kind
	// Name is the display name shown in chat and the HUD.
	Name string
	// InitiativeMod is the flat bonus added to the d20 initiative roll.
	InitiativeMod int
}

// IsPlayer reports whether this participant is a player character.
//
// Postcondition: Returns true iff Kind == KindPlayer.
func (p Participant) IsPlayer() bool { return p.Kind == KindPlayer }
