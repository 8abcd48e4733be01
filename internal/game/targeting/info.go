// Package targeting implements per-player single-target selection with
// particle highlight feedback.
package targeting

import (
	"github.com/duskhollow/skirmish/internal/host"
)

// TargetInfo is a point-in-time snapshot of a selected target's
// combat-relevant state. It is rebuilt from the live entity on every query
// and never persisted.
type TargetInfo struct {
	Ref       host.EntityRef
	Name      string
	CurrentHP float64
	MaxHP     float64
	Position  host.Vec3
	Valid     bool
	Alive     bool
}

// FromRef resolves ref through the world's component store.
//
// Postcondition: Returns nil when the ref is stale; otherwise a snapshot
// with Valid == true.
func FromRef(ref host.EntityRef, world host.World) *TargetInfo {
	snap, ok := world.Resolve(ref)
	if !ok {
		return nil
	}
	return &TargetInfo{
		Ref:       ref,
		Name:      snap.Name,
		CurrentHP: snap.CurrentHP,
		MaxHP:     snap.MaxHP,
		Position:  snap.Position,
		Valid:     true,
		Alive:     snap.Alive,
	}
}

// HPPercent returns CurrentHP / MaxHP in [0, 1].
//
// Postcondition: Returns 0 when MaxHP is 0.
func (i *TargetInfo) HPPercent() float64 {
	if i.MaxHP <= 0 {
		return 0
	}
	return i.CurrentHP / i.MaxHP
}
