// Package movement implements grid-based movement planning for the combat
// overlay: provisional destination selection, straight-grid path
// computation, and particle path visualization.
package movement

import "github.com/duskhollow/skirmish/internal/host"

// State is one player's movement plan for the current turn.
type State struct {
	// Origin is the block the player occupied when the plan was made.
	Origin host.BlockPos
	// Destination is the provisionally selected target block. Nil until
	// the player clicks one.
	Destination *host.BlockPos
	// Waypoints is the planned path, origin first, destination last.
	Waypoints []host.BlockPos
	// Reachable is true when the path fits within the per-turn speed.
	Reachable bool
}

// Steps returns the number of grid steps in the plan (waypoints minus the
// origin). Zero for an empty plan.
func (s *State) Steps() int {
	if len(s.Waypoints) == 0 {
		return 0
	}
	return len(s.Waypoints) - 1
}
