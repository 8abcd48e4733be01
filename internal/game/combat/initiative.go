package combat

import (
	"sort"

	"github.com/google/uuid"

	"github.com/duskhollow/skirmish/internal/game/dice"
)

// RollInitiative rolls d20 + InitiativeMod for every participant.
//
// Precondition: src must be non-nil.
// Postcondition: The returned map has one entry per participant ID.
func RollInitiative(participants []Participant, src dice.Source) map[uuid.UUID]int {
	rolls := make(map[uuid.UUID]int, len(participants))
	for _, p := range participants {
		rolls[p.ID] = dice.D20(p.InitiativeMod, src).Total()
	}
	return rolls
}

// OrderByInitiative returns participant IDs sorted by roll, highest first.
// Ties break by display name ascending so the ordering is deterministic.
//
// Postcondition: len(result) == len(participants); every participant ID
// appears exactly once.
func OrderByInitiative(participants []Participant, rolls map[uuid.UUID]int) []uuid.UUID {
	sorted := make([]Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := rolls[sorted[i].ID], rolls[sorted[j].ID]
		if ri != rj {
			return ri > rj
		}
		return sorted[i].Name < sorted[j].Name
	})

	order := make([]uuid.UUID, len(sorted))
	for i, p := range sorted {
		order[i] = p.ID
	}
	return order
}
