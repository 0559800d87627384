package condition

import (
	"fmt"
	"sort"
)

// ActiveCondition tracks one applied condition on an actor.
type ActiveCondition struct {
	Def               *ConditionDef
	Stacks            int
	DurationRemaining int // -1 = permanent
}

// ActiveSet tracks all conditions currently applied to one actor.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds or updates a condition.
// If the condition is already present, stacks are incremented (capped at MaxStacks).
// If MaxStacks == 0 (unstackable), stacks is always stored as 1.
// duration is turns remaining; use -1 for permanent.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true; DurationRemaining is max(existing, duration)
// capped at MaxDuration.
func (s *ActiveSet) Apply(def *ConditionDef, stacks, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	duration = capDuration(def, duration)

	if existing, ok := s.conditions[def.ID]; ok {
		if def.MaxStacks > 0 {
			existing.Stacks = min(existing.Stacks+stacks, def.MaxStacks)
		}
		if duration > existing.DurationRemaining {
			existing.DurationRemaining = duration
		}
		return nil
	}

	effective := 1
	if def.MaxStacks > 0 {
		effective = min(max(stacks, 1), def.MaxStacks)
	}
	s.conditions[def.ID] = &ActiveCondition{
		Def:               def,
		Stacks:            effective,
		DurationRemaining: duration,
	}
	return nil
}

// Extend adds turns to a condition, applying it first if absent. It reports
// whether the condition was newly applied.
//
// Precondition: def must not be nil; turns > 0.
// Postcondition: Duration(def.ID) grows by turns up to MaxDuration.
func (s *ActiveSet) Extend(def *ConditionDef, turns int) (bool, error) {
	if def == nil {
		return false, fmt.Errorf("Extend: def must not be nil")
	}
	if turns <= 0 {
		return false, fmt.Errorf("Extend: turns must be > 0, got %d", turns)
	}
	existing, ok := s.conditions[def.ID]
	if !ok {
		return true, s.Apply(def, 1, turns)
	}
	if existing.DurationRemaining < 0 {
		return false, nil
	}
	existing.DurationRemaining = capDuration(def, existing.DurationRemaining+turns)
	return false, nil
}

func capDuration(def *ConditionDef, d int) int {
	if def.DurationType == DurationPermanent {
		return -1
	}
	if def.MaxDuration > 0 && d > def.MaxDuration {
		return def.MaxDuration
	}
	return d
}

// Remove deletes the condition with the given ID from the set.
// If the condition is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Damaged removes every condition that breaks when the holder is hurt and
// returns the removed ids in order.
func (s *ActiveSet) Damaged() []string {
	var broken []string
	for id, ac := range s.conditions {
		if ac.Def.BreaksOnDamage {
			broken = append(broken, id)
			delete(s.conditions, id)
		}
	}
	sort.Strings(broken)
	return broken
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Stacks returns the current stack count for condition id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.Stacks
	}
	return 0
}

// Duration returns the turns remaining for id, -1 if permanent, 0 if absent.
func (s *ActiveSet) Duration(id string) int {
	if ac, ok := s.conditions[id]; ok {
		return ac.DurationRemaining
	}
	return 0
}

// Len returns the number of active conditions.
func (s *ActiveSet) Len() int { return len(s.conditions) }

// All returns the active conditions ordered by id.
// The pointed-to values are shared; callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, ac)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}
