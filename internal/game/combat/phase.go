package combat

// TurnPhase is the stage within one actor's turn. Phases always cycle
// Movement → Action → End; advancing past End yields the turn.
type TurnPhase int

const (
	PhaseMovement TurnPhase = iota
	PhaseAction
	PhaseEnd
)

// String returns the human-readable phase label.
//
// Postcondition: returns "movement", "action", "end", or "unknown".
func (p TurnPhase) String() string {
	switch p {
	case PhaseMovement:
		return "movement"
	case PhaseAction:
		return "action"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Next returns the phase following p within the same turn, and whether p was
// the final phase (in which case the returned phase is PhaseMovement for the
// next actor).
func (p TurnPhase) Next() (TurnPhase, bool) {
	switch p {
	case PhaseMovement:
		return PhaseAction, false
	case PhaseAction:
		return PhaseEnd, false
	default:
		return PhaseMovement, true
	}
}
