package project

import (
	"fmt"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
)

// shatter describes how a feature breaks under a shattering effect: damage
// must exceed min, then it breaks one time in oneIn.
type shatter struct {
	min   int
	oneIn int
	into  cave.FeatureID
}

var shatterOdds = map[cave.FeatureID]shatter{
	cave.FeatClosedDoor: {20, 2, cave.FeatBrokenDoor},
	cave.FeatLockedDoor: {30, 3, cave.FeatBrokenDoor},
	cave.FeatSecretDoor: {30, 3, cave.FeatBrokenDoor},
	cave.FeatRubble:     {10, 2, cave.FeatPassRubble},
	cave.FeatPassRubble: {10, 2, cave.FeatFloor},
	cave.FeatMagma:      {50, 4, cave.FeatRubble},
	cave.FeatQuartz:     {60, 5, cave.FeatRubble},
	cave.FeatGranite:    {80, 8, cave.FeatRubble},
}

// trapTriggerOneIn is the chance a disarmed trap goes off anyway.
const trapTriggerOneIn = 10

// resolveFeature applies the effect to the terrain of one grid and reports
// whether the player noticed. Terrain transforms are only queued.
func (c *call) resolveFeature(g geometry.BlastGrid) bool {
	l := g.Loc
	cv := c.w.Cave
	dam := c.damageAt(g.Dist)
	seen := c.w.CanSee(l)
	feat := cv.Feat(l)
	f := cave.Lookup(feat)

	switch c.req.Effect {
	case effect.KillTrap:
		switch {
		case f.Has(cave.Trap):
			cv.SetFeat(l, cave.FeatFloor)
			if c.roller.OneIn(trapTriggerOneIn) {
				c.res.TriggeredTraps = append(c.res.TriggeredTraps, l)
				c.say(seen, "The trap goes off as it is disarmed!")
			} else {
				c.say(seen, "There is a bright flash of light!")
			}
			return seen
		case feat == cave.FeatLockedDoor:
			cv.SetFeat(l, cave.FeatClosedDoor)
			c.say(seen, "Click!")
			return seen
		}
		return false

	case effect.KillDoor:
		if f.Has(cave.Door) {
			cv.SetFeat(l, cave.FeatFloor)
			c.say(seen, "There is a bright flash of light!")
			return seen
		}
		return false

	case effect.KillWall:
		if f.Has(cave.Permanent) || !(f.Has(cave.Wall) || f.Has(cave.Rubble) || f.Has(cave.Door)) {
			return false
		}
		cv.SetFeat(l, cave.FeatFloor)
		switch {
		case f.Has(cave.Mineral):
			c.say(seen, "The vein turns into mud!")
		case f.Has(cave.Rubble):
			c.say(seen, "The rubble turns into mud!")
		case f.Has(cave.Door):
			c.say(seen, "The door turns into mud!")
		default:
			c.say(seen, "The wall turns into mud!")
		}
		return seen

	case effect.MakeDoor:
		if !c.buildable(l) {
			return false
		}
		cv.SetFeat(l, cave.FeatClosedDoor)
		return seen

	case effect.MakeTrap:
		if !c.buildable(l) {
			return false
		}
		cv.SetFeat(l, cave.FeatTrap)
		return seen

	case effect.StoneWall:
		if !c.buildable(l) {
			return false
		}
		cv.SetFeat(l, cave.FeatGranite)
		return seen
	}

	obvious := false
	info := c.info
	switch {
	case info.Lights:
		cv.SetLit(l, true)
		if c.w.CanSee(l) {
			obvious = true
		}
	case info.Darkens:
		if cv.Lit(l) && seen {
			obvious = true
		}
		cv.SetLit(l, false)
	}

	if info.Shatter {
		if s, ok := shatterOdds[feat]; ok && dam > s.min && c.roller.OneIn(s.oneIn) {
			cv.SetFeat(l, s.into)
			c.say(seen, fmt.Sprintf("The %s shatters!", f.Name))
			obvious = obvious || seen
		}
	}

	if info.Transform && dam > 0 {
		if t, ok := c.transformFor(f); ok {
			c.markTransform(l, t, dam)
		}
	}
	return obvious
}

// transformFor picks the terrain change the effect proposes for f.
func (c *call) transformFor(f *cave.Feature) (transform, bool) {
	switch {
	case c.req.Effect == effect.Chaos:
		return transPermute, !f.Has(cave.Permanent)
	case c.info.Element == effect.ElemFire || c.req.Effect == effect.Plasma || c.req.Effect == effect.Meteor:
		switch {
		case f.Has(cave.Flammable):
			return transChar, true
		case f.Has(cave.Water) || f.Has(cave.Frozen):
			return transBoil, true
		case f.ID == cave.FeatFloor && (c.req.Effect == effect.Lava || c.req.Effect == effect.Hellfire || c.req.Effect == effect.Plasma):
			return transLava, true
		}
	case c.info.Element == effect.ElemCold:
		if f.Has(cave.Water) || f.Has(cave.Lava) {
			return transFreeze, true
		}
	case c.req.Effect == effect.Water:
		if f.ID == cave.FeatFloor || f.Has(cave.Lava) {
			return transPool, true
		}
	}
	return 0, false
}

// buildable reports whether terrain may be created on l: open floor with no
// occupant and no objects.
func (c *call) buildable(l cave.Loc) bool {
	return c.w.Cave.Feat(l) == cave.FeatFloor &&
		c.w.Cave.Occupant(l) == cave.NoOccupant &&
		len(c.w.Objects.Pile(l)) == 0
}

// say records msg when the player can see its source.
func (c *call) say(seen bool, msg string) {
	if seen {
		c.res.msg(msg)
	}
}
