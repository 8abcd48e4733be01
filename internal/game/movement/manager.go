package movement

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duskhollow/skirmish/internal/host"
)

// Manager tracks every player's provisional movement plan and applies
// confirmed moves through the world. Clicking a block plans a path; a second
// action confirms it and teleports the player to the destination.
type Manager struct {
	mu          sync.RWMutex
	states      map[uuid.UUID]*State
	renderer    *PathRenderer
	messenger   host.Messenger
	speedBlocks int
	logger      *zap.Logger
}

// NewManager creates a movement manager limiting plans to speedBlocks grid
// steps per turn.
//
// Precondition: renderer, messenger, and logger must not be nil; speedBlocks
// must be positive.
func NewManager(renderer *PathRenderer, messenger host.Messenger, speedBlocks int, logger *zap.Logger) *Manager {
	return &Manager{
		states:      make(map[uuid.UUID]*State),
		renderer:    renderer,
		messenger:   messenger,
		speedBlocks: speedBlocks,
		logger:      logger,
	}
}

func blockOf(pos host.Vec3) host.BlockPos {
	return host.BlockPos{
		X: int(math.Floor(pos.X)),
		Y: int(math.Floor(pos.Y)),
		Z: int(math.Floor(pos.Z)),
	}
}

// OnBlockClicked plans a path from the player's current block to the clicked
// block and renders it. Replanning to a new block replaces the previous plan;
// clicking the currently planned destination leaves it in place.
//
// Postcondition: On success the player has a plan whose destination is block.
func (m *Manager) OnBlockClicked(playerID uuid.UUID, block host.BlockPos, world host.World) {
	ref, ok := world.PlayerRef(playerID)
	if !ok {
		return
	}
	snap, ok := world.Resolve(ref)
	if !ok {
		return
	}

	state := PlanPath(blockOf(snap.Position), block, m.speedBlocks)

	m.mu.Lock()
	m.states[playerID] = state
	m.mu.Unlock()

	m.renderer.RenderPath(playerID, state)
	if state.Reachable {
		m.messenger.Send(playerID, fmt.Sprintf("[Skirmish] Destination set: %d blocks. Right-click to move.", state.Steps()))
	} else {
		m.messenger.Send(playerID, fmt.Sprintf("[Skirmish] Too far: %d blocks (max %d).", state.Steps(), m.speedBlocks))
	}
	m.logger.Debug("movement planned",
		zap.String("player", playerID.String()),
		zap.Int("steps", state.Steps()),
		zap.Bool("reachable", state.Reachable))
}

// ConfirmMovement teleports the player to their planned destination and
// clears the plan. An unreachable or missing plan is rejected with a chat
// message and left untouched so the player can replan.
//
// Postcondition: Returns true only when the teleport succeeded.
func (m *Manager) ConfirmMovement(playerID uuid.UUID, world host.World) bool {
	m.mu.RLock()
	state, ok := m.states[playerID]
	m.mu.RUnlock()

	if !ok || state.Destination == nil {
		m.messenger.Send(playerID, "[Skirmish] No destination selected. Left-click a block first.")
		return false
	}
	if !state.Reachable {
		m.messenger.Send(playerID, fmt.Sprintf("[Skirmish] Too far: %d blocks (max %d).", state.Steps(), m.speedBlocks))
		return false
	}
	ref, ok := world.PlayerRef(playerID)
	if !ok {
		return false
	}
	if !world.Teleport(ref, state.Destination.Center()) {
		m.logger.Warn("teleport failed", zap.String("player", playerID.String()))
		return false
	}

	m.mu.Lock()
	delete(m.states, playerID)
	m.mu.Unlock()
	m.renderer.ClearPath(playerID)

	m.messenger.Send(playerID, fmt.Sprintf("[Skirmish] Moved %d blocks.", state.Steps()))
	return true
}

// State returns the player's current plan, or false when none exists.
func (m *Manager) State(playerID uuid.UUID) (*State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[playerID]
	return state, ok
}

// Clear drops the player's plan and its rendered path.
func (m *Manager) Clear(playerID uuid.UUID) {
	m.mu.Lock()
	delete(m.states, playerID)
	m.mu.Unlock()
	m.renderer.ClearPath(playerID)
}

// ClearAll drops every plan, typically at the end of an encounter.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	m.states = make(map[uuid.UUID]*State)
	m.mu.Unlock()
	m.renderer.ClearAll()
}

// RefreshPaths re-emits paths for players still present in the world and
// prunes plans belonging to players who have left.
func (m *Manager) RefreshPaths(world host.World) {
	m.mu.Lock()
	var gone []uuid.UUID
	for playerID := range m.states {
		if _, ok := world.PlayerRef(playerID); !ok {
			gone = append(gone, playerID)
		}
	}
	for _, playerID := range gone {
		delete(m.states, playerID)
	}
	present := make([]uuid.UUID, 0, len(m.states))
	for playerID := range m.states {
		present = append(present, playerID)
	}
	m.mu.Unlock()

	for _, playerID := range gone {
		m.renderer.ClearPath(playerID)
	}
	for _, playerID := range present {
		m.renderer.Refresh(playerID)
	}
}
