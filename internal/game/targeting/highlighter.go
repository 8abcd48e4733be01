package targeting

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duskhollow/skirmish/internal/host"
)

// Particle system used for the target ring.
const highlightEffect = "Block/Block_Top_Glow"

const (
	ringParticleCount = 8
	ringRadius        = 0.6
	particleScale     = 0.4
)

var (
	targetColor      = host.Color{R: 1.0, G: 0.4, B: 0.1, A: 0.9} // orange
	targetColorLowHP = host.Color{R: 1.0, G: 0.1, B: 0.1, A: 0.9} // red
)

// highlightState tracks what a player currently has highlighted so unchanged
// targets are not re-emitted before the refresh interval elapses.
type highlightState struct {
	targetRef   host.EntityRef
	lastRefresh time.Time
}

// Highlighter renders per-player ring highlights around targeted entities.
// The highlight is visible only to the selecting player. The underlying
// particles expire on their own; clearing only drops the cached state.
//
// All methods are safe for concurrent use.
type Highlighter struct {
	mu       sync.Mutex
	active   map[uuid.UUID]*highlightState
	interval time.Duration
	lowHP    float64
	emitter  host.ParticleEmitter
	now      func() time.Time
}

// NewHighlighter creates a Highlighter.
//
// Precondition: interval > 0; lowHPThreshold in [0, 1]; emitter non-nil.
func NewHighlighter(interval time.Duration, lowHPThreshold float64, emitter host.ParticleEmitter) *Highlighter {
	return &Highlighter{
		active:   make(map[uuid.UUID]*highlightState),
		interval: interval,
		lowHP:    lowHPThreshold,
		emitter:  emitter,
		now:      time.Now,
	}
}

// HighlightTarget shows or refreshes the highlight on info for playerID.
// Particles are re-emitted only when the target changed or the refresh
// interval has elapsed since the last emission.
//
// Precondition: info must be non-nil.
func (h *Highlighter) HighlightTarget(playerID uuid.UUID, info *TargetInfo) {
	if !info.Valid {
		return
	}

	h.mu.Lock()
	state := h.active[playerID]
	if state != nil && state.targetRef == info.Ref {
		if h.now().Sub(state.lastRefresh) < h.interval {
			h.mu.Unlock()
			return
		}
		state.lastRefresh = h.now()
		h.mu.Unlock()
		h.spawnRing(playerID, info)
		return
	}

	h.active[playerID] = &highlightState{targetRef: info.Ref, lastRefresh: h.now()}
	h.mu.Unlock()

	h.spawnRing(playerID, info)
}

// ClearHighlight drops the cached highlight for playerID. Particles already
// emitted despawn naturally. Idempotent.
func (h *Highlighter) ClearHighlight(playerID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.active, playerID)
}

// ClearAll drops every cached highlight.
func (h *Highlighter) ClearAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = make(map[uuid.UUID]*highlightState)
}

// HasActiveHighlight reports whether playerID has a cached highlight.
func (h *Highlighter) HasActiveHighlight(playerID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.active[playerID]
	return ok
}

// spawnRing emits a ring of particles at the target's feet plus a center
// marker, visible only to playerID. Color encodes the low-HP threshold.
func (h *Highlighter) spawnRing(playerID uuid.UUID, info *TargetInfo) {
	color := targetColor
	if info.HPPercent() < h.lowHP {
		color = targetColorLowHP
	}
	viewers := []uuid.UUID{playerID}
	pos := info.Position

	for i := 0; i < ringParticleCount; i++ {
		angle := (2 * math.Pi * float64(i)) / ringParticleCount
		h.emitter.Spawn(
			highlightEffect,
			host.Vec3{
				X: pos.X + math.Cos(angle)*ringRadius,
				Y: pos.Y + 0.1,
				Z: pos.Z + math.Sin(angle)*ringRadius,
			},
			host.Vec3{},
			particleScale,
			color,
			viewers,
		)
	}

	// Center marker for emphasis.
	h.emitter.Spawn(
		highlightEffect,
		host.Vec3{X: pos.X, Y: pos.Y + 0.05, Z: pos.Z},
		host.Vec3{},
		particleScale*0.5,
		color,
		viewers,
	)
}
