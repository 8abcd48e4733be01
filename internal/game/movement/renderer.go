package movement

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duskhollow/skirmish/internal/host"
)

const pathEffect = "Block/Block_Top_Glow"

const (
	waypointScale    float32 = 0.5
	destinationScale float32 = 0.8
)

var (
	pathColorReachable   = host.Color{R: 0.3, G: 0.8, B: 0.3, A: 0.8}
	destColorReachable   = host.Color{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
	pathColorUnreachable = host.Color{R: 0.8, G: 0.3, B: 0.3, A: 0.8}
	destColorUnreachable = host.Color{R: 1.0, G: 0.2, B: 0.2, A: 1.0}
)

type renderState struct {
	waypoints   []host.BlockPos
	destination host.BlockPos
	reachable   bool
	lastRefresh time.Time
}

func (r *renderState) matches(s *State) bool {
	if s.Destination == nil || r.destination != *s.Destination {
		return false
	}
	if len(r.waypoints) != len(s.Waypoints) {
		return false
	}
	for i, wp := range r.waypoints {
		if wp != s.Waypoints[i] {
			return false
		}
	}
	return true
}

// PathRenderer draws planned movement paths as per-player particle trails.
// Particle effects expire on their own, so an unchanged path is re-emitted
// at most once per refresh interval to keep it visible without flooding the
// emitter.
type PathRenderer struct {
	mu       sync.Mutex
	active   map[uuid.UUID]*renderState
	interval time.Duration
	emitter  host.ParticleEmitter
	now      func() time.Time
}

// NewPathRenderer creates a renderer that re-emits an unchanged path at most
// once per interval.
//
// Precondition: emitter must not be nil.
func NewPathRenderer(interval time.Duration, emitter host.ParticleEmitter) *PathRenderer {
	return &PathRenderer{
		active:   make(map[uuid.UUID]*renderState),
		interval: interval,
		emitter:  emitter,
		now:      time.Now,
	}
}

// RenderPath shows the plan's path to playerID. A plan identical to the one
// already on screen is re-emitted only after the refresh interval has
// elapsed; a changed plan is emitted immediately.
func (r *PathRenderer) RenderPath(playerID uuid.UUID, s *State) {
	if s == nil || s.Destination == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.active[playerID]
	if ok && cur.matches(s) && cur.reachable == s.Reachable {
		if r.now().Sub(cur.lastRefresh) < r.interval {
			return
		}
		cur.lastRefresh = r.now()
		r.emit(playerID, cur)
		return
	}

	next := &renderState{
		waypoints:   append([]host.BlockPos(nil), s.Waypoints...),
		destination: *s.Destination,
		reachable:   s.Reachable,
		lastRefresh: r.now(),
	}
	r.active[playerID] = next
	r.emit(playerID, next)
}

// Refresh re-emits playerID's current path if its interval has elapsed.
// No-op when the player has no path on screen.
func (r *PathRenderer) Refresh(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.active[playerID]
	if !ok || r.now().Sub(cur.lastRefresh) < r.interval {
		return
	}
	cur.lastRefresh = r.now()
	r.emit(playerID, cur)
}

// RefreshAll re-emits every path whose interval has elapsed.
func (r *PathRenderer) RefreshAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for playerID, cur := range r.active {
		if r.now().Sub(cur.lastRefresh) < r.interval {
			continue
		}
		cur.lastRefresh = r.now()
		r.emit(playerID, cur)
	}
}

// ClearPath drops playerID's path. Particles already emitted expire on their
// own; clearing only stops further refreshes.
func (r *PathRenderer) ClearPath(playerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, playerID)
}

// ClearAll drops every active path.
func (r *PathRenderer) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = make(map[uuid.UUID]*renderState)
}

// HasActivePath reports whether playerID currently has a path on screen.
func (r *PathRenderer) HasActivePath(playerID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[playerID]
	return ok
}

// emit spawns one marker per waypoint, skipping the origin block the player
// is standing on, with a larger and brighter marker on the destination.
// Caller must hold mu.
func (r *PathRenderer) emit(playerID uuid.UUID, cur *renderState) {
	pathColor, destColor := pathColorReachable, destColorReachable
	if !cur.reachable {
		pathColor, destColor = pathColorUnreachable, destColorUnreachable
	}
	viewers := []uuid.UUID{playerID}
	for i, wp := range cur.waypoints {
		if i == 0 {
			continue
		}
		scale, color := waypointScale, pathColor
		if wp == cur.destination {
			scale, color = destinationScale, destColor
		}
		r.emitter.Spawn(pathEffect, wp.Center(), host.Vec3{}, scale, color, viewers)
	}
}
