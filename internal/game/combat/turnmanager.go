package combat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duskhollow/skirmish/internal/game/dice"
)

// Hooks receives encounter lifecycle notifications, typically dispatched
// into Lua encounter scripts. Implementations must not call back into the
// TurnManager from within a hook.
type Hooks interface {
	OnCombatStart(worldID string, round int)
	OnTurnStart(worldID string, actorID uuid.UUID, round int)
	OnCombatEnd(worldID string, rounds int)
}

// EncounterSummary describes a finished encounter for archival.
type EncounterSummary struct {
	EncounterID  uuid.UUID
	WorldID      string
	Rounds       int
	Participants int
	StartedAt    time.Time
	EndedAt      time.Time
}

// Archiver persists finished encounters. Failures are logged by the
// TurnManager but never affect combat flow.
type Archiver interface {
	RecordEncounter(ctx context.Context, s EncounterSummary) error
}

// TurnManager owns one CombatState per world and is the only component that
// mutates them. All methods are safe for concurrent use.
type TurnManager struct {
	mu     sync.RWMutex
	states map[string]*CombatState
	timers map[string]*TurnTimer

	src          dice.Source
	turnDuration time.Duration
	logger       *zap.Logger

	hooks       Hooks
	archiver    Archiver
	endHandlers []func(worldID string)
}

// NewTurnManager creates a TurnManager.
//
// Precondition: src and logger must be non-nil; turnDuration >= 0 (zero
// disables the auto-advance timer).
// Postcondition: Returns a non-nil TurnManager with no active encounters.
func NewTurnManager(src dice.Source, turnDuration time.Duration, logger *zap.Logger) *TurnManager {
	return &TurnManager{
		states:       make(map[string]*CombatState),
		timers:       make(map[string]*TurnTimer),
		src:          src,
		turnDuration: turnDuration,
		logger:       logger,
	}
}

// SetHooks installs the encounter lifecycle hooks. Call before StartCombat.
func (tm *TurnManager) SetHooks(h Hooks) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.hooks = h
}

// SetArchiver installs the encounter archive. Call before StartCombat.
func (tm *TurnManager) SetArchiver(a Archiver) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.archiver = a
}

// OnCombatEnd registers fn to run whenever an encounter ends in any world.
// Used by the targeting and movement managers to drop per-player state.
func (tm *TurnManager) OnCombatEnd(fn func(worldID string)) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.endHandlers = append(tm.endHandlers, fn)
}

// StartCombat begins a new encounter in worldID, rolling initiative for all
// participants and ordering them highest roll first.
//
// Precondition: worldID must be non-empty; participants must have at least
// 2 entries with distinct IDs.
// Postcondition: Returns the new active CombatState, or an error if combat
// is already active in worldID or the participant list is invalid.
func (tm *TurnManager) StartCombat(worldID string, participants []Participant) (*CombatState, error) {
	if worldID == "" {
		return nil, fmt.Errorf("combat: world ID must not be empty")
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("combat: need at least 2 participants, got %d", len(participants))
	}
	seen := make(map[uuid.UUID]bool, len(participants))
	for _, p := range participants {
		if seen[p.ID] {
			return nil, fmt.Errorf("combat: duplicate participant %s", p.ID)
		}
		seen[p.ID] = true
	}

	rolls := RollInitiative(participants, tm.src)
	order := OrderByInitiative(participants, rolls)
	names := make(map[uuid.UUID]string, len(participants))
	kinds := make(map[uuid.UUID]Kind, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
		kinds[p.ID] = p.Kind
	}
	state := newCombatState(worldID, order, names, rolls, kinds)

	tm.mu.Lock()
	if _, exists := tm.states[worldID]; exists {
		tm.mu.Unlock()
		return nil, fmt.Errorf("combat: already active in world %q", worldID)
	}
	tm.states[worldID] = state
	hooks := tm.hooks
	tm.mu.Unlock()

	tm.logger.Info("combat started",
		zap.String("world", worldID),
		zap.Int("participants", len(participants)),
		zap.String("first_actor", names[order[0]]),
	)

	if hooks != nil {
		hooks.OnCombatStart(worldID, 1)
		hooks.OnTurnStart(worldID, order[0], 1)
	}
	tm.armTimer(worldID)

	return state, nil
}

// State returns the combat state for worldID. Worlds with no encounter get
// an inactive state whose queries all answer false/empty.
//
// Postcondition: Never returns nil.
func (tm *TurnManager) State(worldID string) *CombatState {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if s, ok := tm.states[worldID]; ok {
		return s
	}
	return inactiveState(worldID)
}

// Active reports whether combat is running in worldID.
func (tm *TurnManager) Active(worldID string) bool {
	tm.mu.RLock()
	_, ok := tm.states[worldID]
	tm.mu.RUnlock()
	return ok
}

// AdvanceTurn hands the turn to the next actor in initiative order,
// wrapping past the last actor and incrementing the round on wrap. The
// phase resets to PhaseMovement.
//
// Postcondition: Returns the new actor's ID, or false when no combat is
// active in worldID.
func (tm *TurnManager) AdvanceTurn(worldID string) (uuid.UUID, bool) {
	tm.mu.RLock()
	state, ok := tm.states[worldID]
	hooks := tm.hooks
	tm.mu.RUnlock()
	if !ok {
		return uuid.Nil, false
	}

	actor, wrapped := state.advanceTurn()
	round := state.Round()
	tm.logger.Debug("turn advanced",
		zap.String("world", worldID),
		zap.String("actor", state.Name(actor)),
		zap.Int("round", round),
		zap.Bool("wrapped", wrapped),
	)

	if hooks != nil {
		hooks.OnTurnStart(worldID, actor, round)
	}
	tm.armTimer(worldID)

	return actor, true
}

// AdvancePhase steps the current actor's turn to its next phase. Stepping
// past the End phase advances the turn instead.
//
// Postcondition: Returns the now-current phase, or false when no combat is
// active in worldID.
func (tm *TurnManager) AdvancePhase(worldID string) (TurnPhase, bool) {
	tm.mu.RLock()
	state, ok := tm.states[worldID]
	tm.mu.RUnlock()
	if !ok {
		return PhaseMovement, false
	}

	if turnOver := state.advancePhase(); turnOver {
		if _, ok := tm.AdvanceTurn(worldID); !ok {
			return PhaseMovement, false
		}
	}
	return state.Phase(), true
}

// EndCombat finishes the encounter in worldID: the state is deactivated and
// removed, the turn timer stopped, end handlers run, and the summary
// archived when an archiver is configured.
//
// Postcondition: State(worldID) afterwards returns an inactive state.
// No-op for worlds without combat.
func (tm *TurnManager) EndCombat(worldID string) {
	tm.mu.Lock()
	state, ok := tm.states[worldID]
	if !ok {
		tm.mu.Unlock()
		return
	}
	delete(tm.states, worldID)
	if t, ok := tm.timers[worldID]; ok {
		t.Stop()
		delete(tm.timers, worldID)
	}
	hooks := tm.hooks
	archiver := tm.archiver
	handlers := make([]func(string), len(tm.endHandlers))
	copy(handlers, tm.endHandlers)
	tm.mu.Unlock()

	rounds := state.Round()
	summary := EncounterSummary{
		EncounterID:  uuid.New(),
		WorldID:      worldID,
		Rounds:       rounds,
		Participants: len(state.InitiativeOrder()),
		StartedAt:    state.StartedAt(),
		EndedAt:      time.Now(),
	}
	state.end()

	tm.logger.Info("combat ended",
		zap.String("world", worldID),
		zap.Int("rounds", rounds),
	)

	if hooks != nil {
		hooks.OnCombatEnd(worldID, rounds)
	}
	for _, fn := range handlers {
		fn(worldID)
	}
	if archiver != nil {
		if err := archiver.RecordEncounter(context.Background(), summary); err != nil {
			tm.logger.Warn("archiving encounter failed",
				zap.String("world", worldID),
				zap.Error(err),
			)
		}
	}
}

// armTimer starts or resets the auto-advance timer for worldID. A zero
// turnDuration disables the timer entirely.
func (tm *TurnManager) armTimer(worldID string) {
	if tm.turnDuration <= 0 {
		return
	}
	fire := func() {
		tm.logger.Debug("turn timer expired", zap.String("world", worldID))
		tm.AdvanceTurn(worldID)
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if _, stillActive := tm.states[worldID]; !stillActive {
		return
	}
	if t, ok := tm.timers[worldID]; ok {
		t.Reset(tm.turnDuration, fire)
		return
	}
	tm.timers[worldID] = NewTurnTimer(tm.turnDuration, fire)
}
