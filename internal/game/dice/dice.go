// Package dice provides the randomness abstraction used by the projection
// engine: a substitutable Source, dice-expression rolling, and the
// randint/damroll helpers every resolver draws from.
package dice

import "fmt"

// RollResult holds the audit trail of one dice-expression roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression, e.g. "10d8+5"
	Dice       []int  // individual die faces
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die faces plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the roll as "10d8+5 → [..] +5 = 52".
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider behind every roll.
//
// Tests substitute deterministic implementations; production uses
// NewCryptoSource or NewSeededSource.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
