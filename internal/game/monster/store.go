package monster

import (
	"fmt"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
)

// Store is the arena of live monsters. Ids start at 1, are never reused
// within one Store, and stay valid across every mutation except Remove.
// It is not safe for concurrent use; the caller must serialise access.
type Store struct {
	conds *condition.Registry
	slots []*Monster
	live  int
}

// NewStore creates an empty Store. conds supplies the asleep definition used
// at spawn; nil falls back to the built-in condition set.
func NewStore(conds *condition.Registry) *Store {
	if conds == nil {
		conds = condition.Defaults()
	}
	return &Store{conds: conds, slots: []*Monster{nil}}
}

// Spawn creates a monster of race at loc with rolled hit points.
//
// Precondition: race must be non-nil and validated.
// Postcondition: Returns a monster whose ID is greater than every earlier ID.
func (s *Store) Spawn(race *Race, at cave.Loc, roller *dice.Roller) (*Monster, error) {
	if race == nil {
		return nil, fmt.Errorf("monster.Store.Spawn: race must not be nil")
	}
	m := &Monster{
		ID:         len(s.slots),
		Loc:        at,
		Conditions: condition.NewActiveSet(),
		Hostile:    true,
	}
	s.setRace(m, race, roller)
	if race.Sleep > 0 {
		if def, ok := s.conds.Get(condition.Asleep); ok {
			if err := m.Conditions.Apply(def, 1, race.Sleep); err != nil {
				return nil, fmt.Errorf("monster.Store.Spawn: %w", err)
			}
		}
	}
	s.slots = append(s.slots, m)
	s.live++
	return m, nil
}

func (s *Store) setRace(m *Monster, race *Race, roller *dice.Roller) {
	m.Race = race
	m.Form = nil
	hp := race.MaxHitPoints()
	if !race.Flags.Has(Unique) && roller != nil {
		hp = max(roller.Roll(race.HitDice()).Total(), 1)
	}
	m.HP, m.MaxHP = hp, hp
}

// Replace turns the monster with id into a fresh monster of race, keeping its
// id and location.
//
// Postcondition: the monster has full hp and no conditions.
func (s *Store) Replace(id int, race *Race, roller *dice.Roller) (*Monster, error) {
	m, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("monster.Store.Replace: monster %d not found", id)
	}
	if race == nil {
		return nil, fmt.Errorf("monster.Store.Replace: race must not be nil")
	}
	s.setRace(m, race, roller)
	m.Conditions = condition.NewActiveSet()
	return m, nil
}

// Get returns the live monster with id.
func (s *Store) Get(id int) (*Monster, bool) {
	if id <= 0 || id >= len(s.slots) || s.slots[id] == nil {
		return nil, false
	}
	return s.slots[id], true
}

// Remove deletes the monster with id.
//
// Postcondition: Get(id) reports false.
func (s *Store) Remove(id int) error {
	if _, ok := s.Get(id); !ok {
		return fmt.Errorf("monster %d not found", id)
	}
	s.slots[id] = nil
	s.live--
	return nil
}

// All returns the live monsters in ascending id order.
func (s *Store) All() []*Monster {
	out := make([]*Monster, 0, s.live)
	for _, m := range s.slots {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of live monsters.
func (s *Store) Len() int { return s.live }

// Conditions returns the definitions monsters' statuses are drawn from.
func (s *Store) Conditions() *condition.Registry { return s.conds }
