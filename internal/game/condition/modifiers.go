package condition

// ACBonus returns the net armour modifier from all active conditions.
// For stackable conditions, the penalty is multiplied by the current stack count.
//
// Postcondition: Returns <= 0.
func ACBonus(s *ActiveSet) int {
	total := 0
	for _, ac := range s.conditions {
		if ac.Def.ACPenalty > 0 {
			total -= ac.Def.ACPenalty * ac.Stacks
		}
	}
	return total
}

// SpeedModifier sums the speed adjustments of all active conditions.
func SpeedModifier(s *ActiveSet) int {
	total := 0
	for _, ac := range s.conditions {
		total += ac.Def.SpeedModifier
	}
	return total
}

// IsActionRestricted reports whether the given action type string is blocked
// by any active condition's RestrictActions list.
func IsActionRestricted(s *ActiveSet, actionType string) bool {
	for _, ac := range s.conditions {
		for _, r := range ac.Def.RestrictActions {
			if r == actionType {
				return true
			}
		}
	}
	return false
}

// Helpless reports whether the holder cannot act at all this turn.
func Helpless(s *ActiveSet) bool {
	return IsActionRestricted(s, "act")
}
