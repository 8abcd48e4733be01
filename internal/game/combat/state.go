package combat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// CombatState is the authoritative turn record for one encounter in one
// world. All methods are safe for concurrent use; turn advancement and
// turn-ownership checks share one mutex, so an advance is atomic with
// respect to concurrent IsPlayerTurn calls.
//
// Invariant: while active, exactly one participant is the current actor.
type CombatState struct {
	mu      sync.Mutex
	worldID string
	active  bool
	// order is the initiative-ordered participant IDs, highest roll first.
	order   []uuid.UUID
	current int
	names   map[uuid.UUID]string
	rolls   map[uuid.UUID]int
	kinds   map[uuid.UUID]Kind
	phase   TurnPhase
	round   int
	started time.Time
}

// newCombatState builds an active state from rolled participants.
// Precondition: order, names, and rolls must be consistent and non-empty.
func newCombatState(worldID string, order []uuid.UUID, names map[uuid.UUID]string, rolls map[uuid.UUID]int, kinds map[uuid.UUID]Kind) *CombatState {
	return &CombatState{
		worldID: worldID,
		active:  true,
		order:   order,
		names:   names,
		rolls:   rolls,
		kinds:   kinds,
		phase:   PhaseMovement,
		round:   1,
		started: time.Now(),
	}
}

// inactiveState returns an empty, inactive state for worlds with no combat.
// All queries on it answer false/empty.
func inactiveState(worldID string) *CombatState {
	return &CombatState{worldID: worldID}
}

// WorldID returns the world this encounter belongs to.
func (s *CombatState) WorldID() string { return s.worldID }

// Active reports whether combat is currently running.
func (s *CombatState) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// IsPlayerTurn reports whether it is currently id's turn.
//
// Postcondition: Returns true iff combat is active and id is the current
// actor; false for every id when inactive.
func (s *CombatState) IsPlayerTurn(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || len(s.order) == 0 {
		return false
	}
	return s.order[s.current] == id
}

// CurrentActor returns the current actor's ID.
//
// Postcondition: ok is false when combat is inactive.
func (s *CombatState) CurrentActor() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || len(s.order) == 0 {
		return uuid.Nil, false
	}
	return s.order[s.current], true
}

// CurrentActorName returns the display name of the current actor, or ""
// when combat is inactive.
func (s *CombatState) CurrentActorName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || len(s.order) == 0 {
		return ""
	}
	return s.names[s.order[s.current]]
}

// InitiativeOrder returns a copy of the initiative-ordered participant IDs.
func (s *CombatState) InitiativeOrder() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]uuid.UUID, len(s.order))
	copy(cp, s.order)
	return cp
}

// Name returns the display name recorded for id, or "" if unknown.
func (s *CombatState) Name(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names[id]
}

// Roll returns the initiative roll recorded for id, or 0 if unknown.
func (s *CombatState) Roll(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rolls[id]
}

// KindOf returns the participant kind for id.
//
// Postcondition: ok is false for IDs not in the encounter.
func (s *CombatState) KindOf(id uuid.UUID) (Kind, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.kinds[id]
	return k, ok
}

// Phase returns the current turn phase.
func (s *CombatState) Phase() TurnPhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Round returns the current round number, starting at 1.
// Returns 0 when inactive.
func (s *CombatState) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// StartedAt returns when the encounter began. Zero when inactive.
func (s *CombatState) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// advanceTurn moves to the next actor in initiative order, wrapping to the
// first after the last. A wrap increments the round. The phase resets to
// PhaseMovement.
//
// Postcondition: Returns the new current actor and whether the order wrapped.
// No-op returning (Nil, false) when inactive.
func (s *CombatState) advanceTurn() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || len(s.order) == 0 {
		return uuid.Nil, false
	}
	s.current = (s.current + 1) % len(s.order)
	s.phase = PhaseMovement
	wrapped := s.current == 0
	if wrapped {
		s.round++
	}
	return s.order[s.current], wrapped
}

// advancePhase steps to the next phase within the current turn.
//
// Postcondition: Returns true when the End phase was passed, meaning the
// caller must advance the turn instead. No-op returning false when inactive.
func (s *CombatState) advancePhase() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	next, turnOver := s.phase.Next()
	if turnOver {
		return true
	}
	s.phase = next
	return false
}

// end deactivates the state.
//
// Postcondition: Active(), IsPlayerTurn(*), and CurrentActor() all answer
// false afterwards.
func (s *CombatState) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.round = 0
}
