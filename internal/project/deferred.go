package project

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/monster"
)

type workKind int

const (
	workTeleport workKind = iota
	workKnockback
	workTransform
)

// transform is a terrain change a primary pass proposed for a grid.
type transform int

const (
	transChar transform = iota
	transBoil
	transLava
	transFreeze
	transPool
	transPermute
)

// transformRule gates a transform: it happens when damage exceeds
// base + randint0(spread).
type transformRule struct {
	name   string
	base   int
	spread int
}

var transformRules = [...]transformRule{
	transChar:    {"char", 10, 20},
	transBoil:    {"boil", 20, 40},
	transLava:    {"lava", 100, 200},
	transFreeze:  {"freeze", 30, 30},
	transPool:    {"pool", 40, 60},
	transPermute: {"permute", 50, 100},
}

// workItem is one entry of the deferred work-list.
type workItem struct {
	kind workKind
	loc  cave.Loc
	// occupant is the id standing on loc when the item was queued.
	occupant int
	damage   int
	// distance is the teleport range.
	distance  int
	transform transform
}

// workList replaces per-grid pending marks: primary passes append, the
// deferred pass consumes.
type workList struct {
	items []workItem
}

func (wl *workList) push(it workItem) { wl.items = append(wl.items, it) }

func (wl *workList) len() int { return len(wl.items) }

// markTeleport queues a teleport of whatever stands on l.
func (c *call) markTeleport(l cave.Loc, distance int) {
	if distance <= 0 {
		return
	}
	c.work.push(workItem{kind: workTeleport, loc: l, occupant: c.w.Cave.Occupant(l), distance: distance})
	c.res.Marked++
}

// markKnockback queues a push of whatever stands on l. Only knockback
// effects push.
func (c *call) markKnockback(l cave.Loc, dam int) {
	if !c.info.Knockback {
		return
	}
	c.work.push(workItem{kind: workKnockback, loc: l, occupant: c.w.Cave.Occupant(l), damage: dam})
	c.res.Marked++
}

// markTransform queues a terrain change of l.
func (c *call) markTransform(l cave.Loc, t transform, dam int) {
	c.work.push(workItem{kind: workTransform, loc: l, damage: dam, transform: t})
	c.res.Marked++
}

// drain runs every queued item once, in queue order, and empties the list.
// It never calls a primary resolver. It reports whether the player noticed
// any change.
func (c *call) drain() bool {
	defer func() { c.work.items = c.work.items[:0] }()
	obvious := false
	for _, it := range c.work.items {
		var done, seen bool
		switch it.kind {
		case workTeleport:
			done, seen = c.teleport(it)
		case workKnockback:
			done, seen = c.knockback(it)
		case workTransform:
			done, seen = c.applyTransform(it)
		}
		if done {
			c.res.Deferred++
		}
		if seen {
			obvious = true
		}
	}
	return obvious
}

// occupantLoc finds where the queued occupant stands now; it may have moved
// or died since it was queued.
func (c *call) occupantLoc(occ int) (cave.Loc, bool) {
	switch {
	case occ == cave.PlayerOccupant:
		if p := c.w.Player; p != nil && !p.IsDead() {
			return p.Loc, true
		}
	case occ > 0:
		if m, ok := c.w.Monsters.Get(occ); ok {
			return m.Loc, true
		}
	}
	return cave.Loc{}, false
}

func (c *call) occupantName(occ int) string {
	if occ == cave.PlayerOccupant {
		return "You"
	}
	if m, ok := c.w.Monsters.Get(occ); ok {
		return monster.TheName(m)
	}
	return "Something"
}

// teleport moves the occupant to a random empty grid within range,
// preferring grids at least a third of the range away.
func (c *call) teleport(it workItem) (bool, bool) {
	from, ok := c.occupantLoc(it.occupant)
	if !ok {
		return false, false
	}
	d := it.distance
	tries := c.e.opts.TeleportTries
	minDist := d / 3
	for i := 0; i < tries; i++ {
		if i > 0 && i%100 == 0 {
			minDist /= 2
		}
		to := cave.L(from.Y+c.roller.Randint0(2*d+1)-d, from.X+c.roller.Randint0(2*d+1)-d)
		dist := cave.Distance(from, to)
		if dist > d || dist < max(minDist, 1) || !c.w.Cave.InBoundsFully(to) || !c.w.Cave.Empty(to) {
			continue
		}
		wasSeen := c.w.CanSee(from)
		if err := c.w.MoveOccupant(from, to); err != nil {
			continue
		}
		c.e.logger.Debug("deferred teleport",
			zap.Int("occupant", it.occupant),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		if it.occupant == cave.PlayerOccupant {
			c.res.msg("You are thrown through space!")
			return true, true
		}
		if wasSeen {
			c.res.msg(fmt.Sprintf("%s disappears!", c.occupantName(it.occupant)))
		}
		c.w.UpdateVisibility()
		return true, wasSeen
	}
	return false, false
}

// knockback pushes the occupant along the caster-to-target bearing. Weaker
// occupants in the way swap places; stronger ones and impassable terrain
// end the push.
func (c *call) knockback(it workItem) (bool, bool) {
	from, ok := c.occupantLoc(it.occupant)
	if !ok {
		return false, false
	}
	dir := geometry.Bearing(c.origin, c.req.Target)
	if dir == (cave.Loc{}) {
		dir = geometry.Bearing(c.res.Centre, from)
	}
	if dir == (cave.Loc{}) {
		return false, false
	}
	steps := min(max(it.damage/20+1, 1), 4)
	far := cave.L(from.Y+dir.Y*steps, from.X+dir.X*steps)
	path := geometry.TracePath(c.w.Cave, from, far, steps, geometry.PathThru)

	level := c.w.OccupantLevel(from)
	cur := from
	for _, next := range path[1:] {
		if !c.w.Cave.Passable(next) {
			break
		}
		if occ := c.w.Cave.Occupant(next); occ != cave.NoOccupant {
			if c.w.OccupantLevel(next) >= level {
				break
			}
			if err := c.w.SwapOccupants(cur, next); err != nil {
				break
			}
		} else if err := c.w.MoveOccupant(cur, next); err != nil {
			break
		}
		cur = next
	}
	if cur == from {
		return false, false
	}
	c.e.logger.Debug("deferred knockback",
		zap.Int("occupant", it.occupant),
		zap.Stringer("from", from),
		zap.Stringer("to", cur),
	)
	seen := c.w.CanSee(cur) || it.occupant == cave.PlayerOccupant
	if seen {
		c.res.msg(fmt.Sprintf("%s %s knocked back!", c.occupantName(it.occupant), verbIs(it.occupant)))
	}
	c.w.UpdateVisibility()
	return true, seen
}

func verbIs(occ int) string {
	if occ == cave.PlayerOccupant {
		return "are"
	}
	return "is"
}

// applyTransform changes the terrain of a marked grid if the damage beats
// the transform's randomised threshold and the grid still qualifies.
func (c *call) applyTransform(it workItem) (bool, bool) {
	rule := transformRules[it.transform]
	if it.damage <= rule.base+c.roller.Randint0(rule.spread) {
		return false, false
	}
	cv := c.w.Cave
	from := cv.Feat(it.loc)
	f := cv.Feature(it.loc)
	to := from
	switch it.transform {
	case transChar:
		if from == cave.FeatTree {
			to = cave.FeatCharredTree
		}
	case transBoil:
		switch from {
		case cave.FeatIce:
			to = cave.FeatShallowWater
		case cave.FeatShallowWater:
			to = cave.FeatFloor
		}
	case transLava:
		if from == cave.FeatFloor {
			to = cave.FeatLava
		}
	case transFreeze:
		switch {
		case f.Has(cave.Water):
			to = cave.FeatIce
		case f.Has(cave.Lava):
			to = cave.FeatFloor
		}
	case transPool:
		switch {
		case from == cave.FeatFloor:
			to = cave.FeatShallowWater
		case f.Has(cave.Lava):
			to = cave.FeatFloor
		}
	case transPermute:
		if f.Has(cave.Passable) && !f.Has(cave.Permanent) {
			choices := []cave.FeatureID{cave.FeatFloor, cave.FeatPassRubble, cave.FeatShallowWater, cave.FeatTree, cave.FeatLava, cave.FeatIce}
			to = choices[c.roller.Randint0(len(choices))]
		}
	}
	if to == from {
		return false, false
	}
	cv.SetFeat(it.loc, to)
	c.e.logger.Debug("deferred transform",
		zap.String("transform", rule.name),
		zap.Stringer("loc", it.loc),
		zap.String("from", cave.Lookup(from).Name),
		zap.String("to", cave.Lookup(to).Name),
	)
	seen := c.w.CanSee(it.loc)
	if seen {
		c.res.msg(fmt.Sprintf("The %s turns to %s.", cave.Lookup(from).Name, cave.Lookup(to).Name))
	}
	return true, seen
}
