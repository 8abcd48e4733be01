package movement

import "github.com/duskhollow/skirmish/internal/host"

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// ComputePath walks the grid from origin to dest one block at a time,
// stepping each axis toward the destination simultaneously (diagonal moves
// count as a single step). The returned slice always starts with the origin;
// origin == dest yields a single-element path.
//
// Precondition: none.
// Postcondition: Returned slice is non-empty and ends at dest.
func ComputePath(origin, dest host.BlockPos) []host.BlockPos {
	path := make([]host.BlockPos, 0, origin.ChebyshevDistance(dest)+1)
	cur := origin
	path = append(path, cur)
	for cur != dest {
		cur.X += sign(dest.X - cur.X)
		cur.Y += sign(dest.Y - cur.Y)
		cur.Z += sign(dest.Z - cur.Z)
		path = append(path, cur)
	}
	return path
}

// PlanPath builds a full movement state for a click from origin to dest,
// marking it reachable when the step count fits within speedBlocks.
func PlanPath(origin, dest host.BlockPos, speedBlocks int) *State {
	waypoints := ComputePath(origin, dest)
	d := dest
	return &State{
		Origin:      origin,
		Destination: &d,
		Waypoints:   waypoints,
		Reachable:   len(waypoints)-1 <= speedBlocks,
	}
}
