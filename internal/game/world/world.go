// Package world provides the explicit context every projection resolver
// works against: the cave, the monster arena, floor objects, the player and
// the player's lore and quest records.
package world

import (
	"fmt"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/monster"
	"github.com/cory-johannsen/spellcast/internal/game/object"
	"github.com/cory-johannsen/spellcast/internal/game/player"
)

// World is the mutable level state. It is not safe for concurrent use; one
// projection runs to completion before anything else touches it.
type World struct {
	Name       string
	Cave       *cave.Cave
	Races      *monster.Registry
	Monsters   *monster.Store
	Kinds      *object.Registry
	Objects    *object.Store
	Conditions *condition.Registry
	// Player is nil for a level with no player on it.
	Player *player.Player
	Lore   *monster.LoreBook
	// Quests maps a quest race id to whether its kill has been recorded.
	Quests map[string]bool
}

// New creates a World over c with empty stores. Nil registries are replaced
// by empty ones; nil conditions by the built-in set.
//
// Precondition: c must be non-nil.
func New(c *cave.Cave, races *monster.Registry, kinds *object.Registry, conds *condition.Registry) *World {
	if races == nil {
		races = monster.NewRegistry()
	}
	if kinds == nil {
		kinds = object.NewRegistry()
	}
	if conds == nil {
		conds = condition.Defaults()
	}
	return &World{
		Cave:       c,
		Races:      races,
		Monsters:   monster.NewStore(conds),
		Kinds:      kinds,
		Objects:    object.NewStore(),
		Conditions: conds,
		Lore:       monster.NewLoreBook(),
		Quests:     make(map[string]bool),
	}
}

// PlaceMonster spawns race at l.
//
// Precondition: l is in bounds and unoccupied.
// Postcondition: Cave.Occupant(l) equals the new monster's ID.
func (w *World) PlaceMonster(race *monster.Race, l cave.Loc, roller *dice.Roller) (*monster.Monster, error) {
	if !w.Cave.InBounds(l) {
		return nil, fmt.Errorf("placing %q: %s is out of bounds", race.ID, l)
	}
	if occ := w.Cave.Occupant(l); occ != cave.NoOccupant {
		return nil, fmt.Errorf("placing %q: %s is occupied by %d", race.ID, l, occ)
	}
	m, err := w.Monsters.Spawn(race, l, roller)
	if err != nil {
		return nil, fmt.Errorf("placing %q: %w", race.ID, err)
	}
	w.Cave.SetOccupant(l, m.ID)
	return m, nil
}

// PlacePlayer puts p at l and makes it the world's player.
//
// Precondition: l is in bounds and unoccupied.
func (w *World) PlacePlayer(p *player.Player, l cave.Loc) error {
	if !w.Cave.InBounds(l) {
		return fmt.Errorf("placing player: %s is out of bounds", l)
	}
	if occ := w.Cave.Occupant(l); occ != cave.NoOccupant {
		return fmt.Errorf("placing player: %s is occupied by %d", l, occ)
	}
	if w.Player != nil {
		w.Cave.SetOccupant(w.Player.Loc, cave.NoOccupant)
	}
	p.Loc = l
	w.Player = p
	w.Cave.SetOccupant(l, cave.PlayerOccupant)
	return nil
}

// MonsterAt returns the monster standing on l.
func (w *World) MonsterAt(l cave.Loc) (*monster.Monster, bool) {
	id := w.Cave.Occupant(l)
	if id <= 0 {
		return nil, false
	}
	return w.Monsters.Get(id)
}

// PlayerAt reports whether the player stands on l.
func (w *World) PlayerAt(l cave.Loc) bool {
	return w.Player != nil && w.Cave.Occupant(l) == cave.PlayerOccupant
}

// RemoveMonster deletes m from the arena and clears its grid.
func (w *World) RemoveMonster(m *monster.Monster) error {
	if w.Cave.Occupant(m.Loc) == m.ID {
		w.Cave.SetOccupant(m.Loc, cave.NoOccupant)
	}
	return w.Monsters.Remove(m.ID)
}

// MoveOccupant moves whatever stands on from to the empty grid to.
//
// Precondition: to is in bounds and unoccupied.
func (w *World) MoveOccupant(from, to cave.Loc) error {
	if from == to {
		return nil
	}
	if !w.Cave.InBounds(to) {
		return fmt.Errorf("move %s -> %s: destination out of bounds", from, to)
	}
	if w.Cave.Occupant(to) != cave.NoOccupant {
		return fmt.Errorf("move %s -> %s: destination occupied", from, to)
	}
	return w.SwapOccupants(from, to)
}

// SwapOccupants exchanges the occupants of a and b, either of which may be empty.
func (w *World) SwapOccupants(a, b cave.Loc) error {
	if !w.Cave.InBounds(a) || !w.Cave.InBounds(b) {
		return fmt.Errorf("swap %s <-> %s: out of bounds", a, b)
	}
	oa, ob := w.Cave.Occupant(a), w.Cave.Occupant(b)
	w.Cave.SetOccupant(a, ob)
	w.Cave.SetOccupant(b, oa)
	w.relocate(oa, b)
	w.relocate(ob, a)
	return nil
}

func (w *World) relocate(occ int, to cave.Loc) {
	switch {
	case occ == cave.PlayerOccupant && w.Player != nil:
		w.Player.Loc = to
	case occ > 0:
		if m, ok := w.Monsters.Get(occ); ok {
			m.Loc = to
		}
	}
}

// OccupantLevel returns the level of whatever stands on l, 0 if nothing.
func (w *World) OccupantLevel(l cave.Loc) int {
	occ := w.Cave.Occupant(l)
	switch {
	case occ == cave.PlayerOccupant && w.Player != nil:
		return w.Player.Level
	case occ > 0:
		if m, ok := w.Monsters.Get(occ); ok {
			return m.Level()
		}
	}
	return 0
}

// CanSee reports whether the player can see grid l: the player is not
// blind, l is in line of sight, and l is lit or within light radius.
func (w *World) CanSee(l cave.Loc) bool {
	p := w.Player
	if p == nil || p.Conditions.Has(condition.Blind) {
		return false
	}
	if !geometry.InLineOfSight(w.Cave, p.Loc, l) {
		return false
	}
	return w.Cave.Lit(l) || cave.Distance(p.Loc, l) <= p.LightRadius
}

// UpdateVisibility refreshes every monster's Visible flag and records a
// sighting for each monster that has just come into view.
func (w *World) UpdateVisibility() {
	for _, m := range w.Monsters.All() {
		seen := w.CanSee(m.Loc) && !m.Race.Flags.Has(monster.Invisible)
		if seen && !m.Visible {
			w.Lore.RecordSighting(m.Race.ID)
		}
		m.Visible = seen
	}
}

// CompleteQuest marks raceID's quest done. It reports whether raceID was a
// quest target that had not yet been completed.
func (w *World) CompleteQuest(raceID string) bool {
	done, ok := w.Quests[raceID]
	if !ok || done {
		return false
	}
	w.Quests[raceID] = true
	return true
}
