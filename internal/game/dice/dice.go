package dice

import "fmt"

// RollResult holds the audit trail for a single die roll.
//
// Postcondition: Total() == Die + Modifier.
type RollResult struct {
	Sides    int // number of faces on the die
	Die      int // raw die result in [1, Sides]
	Modifier int // flat modifier (may be negative)
}

// Total returns the die result plus the modifier.
func (r RollResult) Total() int {
	return r.Die + r.Modifier
}

// String returns a human-readable audit string, e.g. "d20 [14] +2 = 16".
func (r RollResult) String() string {
	return fmt.Sprintf("d%d [%d] %+d = %d", r.Sides, r.Die, r.Modifier, r.Total())
}

// Roll rolls one die with the given number of sides plus a flat modifier.
//
// Precondition: sides >= 2; src must be non-nil.
// Postcondition: result.Die is in [1, sides].
func Roll(sides, modifier int, src Source) RollResult {
	return RollResult{
		Sides:    sides,
		Die:      src.Intn(sides) + 1,
		Modifier: modifier,
	}
}

// D20 rolls a twenty-sided die plus a flat modifier, the roll used for
// initiative.
//
// Precondition: src must be non-nil.
// Postcondition: result.Die is in [1, 20].
func D20(modifier int, src Source) RollResult {
	return Roll(20, modifier, src)
}
