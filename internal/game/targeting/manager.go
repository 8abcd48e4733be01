package targeting

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duskhollow/skirmish/internal/host"
)

// Manager tracks target selection for players during combat. Each player has
// at most one selected target at a time.
//
// Stale targets are pruned lazily on read; RefreshHighlights provides the
// periodic sweep that bounds staleness between reads. Concurrent selections
// by the same player are last-writer-wins; the host engine serializes
// per-player input.
//
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	targets map[uuid.UUID]host.EntityRef

	highlighter *Highlighter
	messenger   host.Messenger
	logger      *zap.Logger
}

// NewManager creates a target Manager.
//
// Precondition: highlighter, messenger, and logger must be non-nil.
func NewManager(highlighter *Highlighter, messenger host.Messenger, logger *zap.Logger) *Manager {
	return &Manager{
		targets:     make(map[uuid.UUID]host.EntityRef),
		highlighter: highlighter,
		messenger:   messenger,
		logger:      logger,
	}
}

// SelectTarget selects candidate as playerID's target.
//
// Self-targeting is rejected without mutating the registry. Selecting the
// current target again toggles it off. An unresolvable candidate rolls the
// registry entry back. All outcomes are reported to the player via chat.
//
// Postcondition: Returns true iff candidate is now playerID's target.
func (m *Manager) SelectTarget(playerID uuid.UUID, candidate host.EntityRef, world host.World) bool {
	if selfRef, ok := world.PlayerRef(playerID); ok && selfRef == candidate {
		m.messenger.Send(playerID, "[Skirmish] You cannot target yourself!")
		return false
	}

	m.mu.Lock()
	current, hadTarget := m.targets[playerID]
	if hadTarget && current == candidate {
		delete(m.targets, playerID)
		m.mu.Unlock()
		m.highlighter.ClearHighlight(playerID)
		m.messenger.Send(playerID, "[Skirmish] Target cleared.")
		return false
	}
	m.targets[playerID] = candidate
	m.mu.Unlock()

	if hadTarget {
		m.highlighter.ClearHighlight(playerID)
	}

	info := FromRef(candidate, world)
	if info == nil || !info.Valid {
		m.mu.Lock()
		delete(m.targets, playerID)
		m.mu.Unlock()
		m.messenger.Send(playerID, "[Skirmish] Invalid target.")
		return false
	}

	m.highlighter.HighlightTarget(playerID, info)
	m.messenger.Send(playerID, fmt.Sprintf(
		"[Skirmish] Target: %s (HP: %.0f/%.0f)", info.Name, info.CurrentHP, info.MaxHP,
	))
	m.logger.Debug("target selected",
		zap.String("player", playerID.String()),
		zap.String("target", info.Name),
	)
	return true
}

// ClearTarget removes playerID's target and highlight. Idempotent.
func (m *Manager) ClearTarget(playerID uuid.UUID) {
	m.mu.Lock()
	_, had := m.targets[playerID]
	delete(m.targets, playerID)
	m.mu.Unlock()

	if had {
		m.highlighter.ClearHighlight(playerID)
		m.logger.Debug("target cleared", zap.String("player", playerID.String()))
	}
}

// ClearAllTargets removes every registry entry and highlight, e.g. when
// combat ends.
func (m *Manager) ClearAllTargets() {
	m.mu.Lock()
	players := make([]uuid.UUID, 0, len(m.targets))
	for id := range m.targets {
		players = append(players, id)
	}
	m.targets = make(map[uuid.UUID]host.EntityRef)
	m.mu.Unlock()

	for _, id := range players {
		m.highlighter.ClearHighlight(id)
	}
	m.logger.Info("all targets cleared", zap.Int("count", len(players)))
}

// Info resolves playerID's current target to a fresh snapshot.
//
// Postcondition: Returns nil — and removes the registry entry and highlight
// as a side effect — when the target ref is stale or the target is dead.
func (m *Manager) Info(playerID uuid.UUID, world host.World) *TargetInfo {
	m.mu.RLock()
	ref, ok := m.targets[playerID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	info := FromRef(ref, world)
	if info == nil || !info.Alive {
		m.mu.Lock()
		delete(m.targets, playerID)
		m.mu.Unlock()
		m.highlighter.ClearHighlight(playerID)
		return nil
	}
	return info
}

// TargetRef returns the raw entity ref for playerID's target.
func (m *Manager) TargetRef(playerID uuid.UUID) (host.EntityRef, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ref, ok := m.targets[playerID]
	return ref, ok
}

// HasTarget reports whether playerID has a target that still resolves.
func (m *Manager) HasTarget(playerID uuid.UUID, world host.World) bool {
	m.mu.RLock()
	ref, ok := m.targets[playerID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	_, live := world.Resolve(ref)
	return live
}

// IsTargeted reports whether any player currently targets ref.
func (m *Manager) IsTargeted(ref host.EntityRef) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.targets {
		if t == ref {
			return true
		}
	}
	return false
}

// IsValidTarget reports whether ref may be targeted at all. Only entities
// carrying the host's NPC capability qualify; other target-worthy
// capabilities would be added here.
func (m *Manager) IsValidTarget(ref host.EntityRef, world host.World) bool {
	snap, ok := world.Resolve(ref)
	return ok && snap.NPC
}

// RefreshHighlights re-renders highlights for every still-valid, still-alive
// target. Players no longer present and targets gone stale are skipped
// silently. Called periodically from the sweep tick.
func (m *Manager) RefreshHighlights(world host.World) {
	m.mu.RLock()
	entries := make(map[uuid.UUID]host.EntityRef, len(m.targets))
	for id, ref := range m.targets {
		entries[id] = ref
	}
	m.mu.RUnlock()

	for playerID, ref := range entries {
		if _, present := world.PlayerRef(playerID); !present {
			continue
		}
		info := FromRef(ref, world)
		if info == nil || !info.Alive {
			continue
		}
		m.highlighter.HighlightTarget(playerID, info)
	}
}
