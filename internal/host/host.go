// Package host defines the narrow contracts through which the combat overlay
// consumes the surrounding game engine: entity resolution, particle effects,
// chat messaging, and per-player UI updates. The overlay never reaches past
// these interfaces.
package host

import (
	"math"

	"github.com/google/uuid"
)

// Vec3 is a world-space position.
type Vec3 struct {
	X, Y, Z float64
}

// BlockPos is an integer grid coordinate.
type BlockPos struct {
	X, Y, Z int
}

// Center returns the world-space center of the block's top face.
//
// Postcondition: Returned X and Z are offset by 0.5 from the block corner.
func (b BlockPos) Center() Vec3 {
	return Vec3{X: float64(b.X) + 0.5, Y: float64(b.Y), Z: float64(b.Z) + 0.5}
}

// ChebyshevDistance returns the number of grid steps between two blocks when
// diagonal steps are allowed, ignoring the vertical axis.
//
// Postcondition: Returns max(|dx|, |dz|) >= 0.
func (b BlockPos) ChebyshevDistance(o BlockPos) int {
	dx := int(math.Abs(float64(b.X - o.X)))
	dz := int(math.Abs(float64(b.Z - o.Z)))
	if dx > dz {
		return dx
	}
	return dz
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// EntityRef is an opaque, comparable handle to an entity in the host's
// component store. A ref may outlive its entity; callers must confirm
// liveness through World.Resolve before use.
type EntityRef struct {
	ID  uuid.UUID
	Gen uint32
}

// IsZero reports whether the ref has never been assigned.
func (r EntityRef) IsZero() bool {
	return r.ID == uuid.Nil
}

// EntitySnapshot is a point-in-time view of a resolved entity's
// combat-relevant components.
type EntitySnapshot struct {
	Ref       EntityRef
	Name      string
	Position  Vec3
	CurrentHP float64
	MaxHP     float64
	Alive     bool
	// NPC is true for entities carrying the host's non-player-actor
	// capability, the only kind the overlay treats as targetable.
	NPC bool
}

// World resolves entity references and tracks player presence for one world.
type World interface {
	// ID returns the stable world identifier.
	ID() string
	// Resolve returns a fresh snapshot for ref, or false if the ref no
	// longer points at a live store entry.
	Resolve(ref EntityRef) (EntitySnapshot, bool)
	// Players returns the IDs of all players currently in the world.
	Players() []uuid.UUID
	// PlayerRef returns the entity ref for a player, or false if the
	// player is not present.
	PlayerRef(playerID uuid.UUID) (EntityRef, bool)
	// Teleport moves the entity to pos. Returns false for stale refs.
	Teleport(ref EntityRef, pos Vec3) bool
}

// ParticleEmitter spawns a timed particle effect visible only to viewers.
// Effects expire on their own after a host-defined duration; there is no
// despawn call.
type ParticleEmitter interface {
	Spawn(effect string, pos Vec3, rotation Vec3, scale float32, color Color, viewers []uuid.UUID)
}

// Messenger delivers a plain chat line to one player.
type Messenger interface {
	Send(playerID uuid.UUID, text string)
}

// UISink applies a batch of widget commands to one player's HUD. A clear
// update removes the widget tree instead of refreshing it.
type UISink interface {
	Update(playerID uuid.UUID, clear bool, b *UICommandBuilder)
}
