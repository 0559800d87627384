package project

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/object"
)

// materialThreshold is the least damage that destroys an object hating the
// material.
var materialThreshold = map[object.Material]int{
	object.MatAcid: 10,
	object.MatElec: 20,
	object.MatFire: 10,
	object.MatCold: 15,
}

var materialVerb = map[object.Material]string{
	object.MatAcid: "melts",
	object.MatElec: "is destroyed",
	object.MatFire: "burns up",
	object.MatCold: "shatters",
}

// materialsFor lists the materials an effect attacks, in check order.
func materialsFor(t effect.Type) []object.Material {
	switch t {
	case effect.Acid:
		return []object.Material{object.MatAcid}
	case effect.Elec:
		return []object.Material{object.MatElec}
	case effect.Fire, effect.Lava, effect.Hellfire, effect.Steam:
		return []object.Material{object.MatFire}
	case effect.Cold, effect.Ice:
		return []object.Material{object.MatCold}
	case effect.Plasma:
		return []object.Material{object.MatFire, object.MatElec}
	case effect.Meteor:
		return []object.Material{object.MatFire, object.MatCold}
	case effect.Shard, effect.Sound, effect.Force:
		return []object.Material{object.MatCold}
	}
	return nil
}

// Chaos outcomes.
const (
	chaosScatter = iota
	chaosDestroy
	chaosTransmute
	chaosOutcomes
)

// resolveObjects applies the effect to every object on one grid and reports
// whether the player noticed.
func (c *call) resolveObjects(g geometry.BlastGrid) bool {
	pile := c.w.Objects.Pile(g.Loc)
	if len(pile) == 0 {
		return false
	}
	dam := c.damageAt(g.Dist)
	seen := c.w.CanSee(g.Loc)
	obvious := false
	for _, o := range pile {
		// Objects scattered onto a later grid are not hit twice.
		if c.objectsDone[o.InstanceID] {
			continue
		}
		c.objectsDone[o.InstanceID] = true
		if c.req.Effect == effect.Chaos {
			if c.chaosObject(g.Loc, o, seen) {
				obvious = obvious || seen
			}
			continue
		}
		for _, m := range materialsFor(c.req.Effect) {
			if !o.Hates(m) || dam < materialThreshold[m] {
				continue
			}
			if o.Artifact || o.Ignores(m) {
				c.say(seen, fmt.Sprintf("The %s is unaffected!", o.Name()))
				obvious = obvious || seen
				break
			}
			c.w.Objects.Remove(g.Loc, o.InstanceID)
			c.say(seen, fmt.Sprintf("The %s %s!", o.Name(), materialVerb[m]))
			obvious = obvious || seen
			break
		}
	}
	return obvious
}

// chaosObject scatters, destroys or transmutes o with equal odds.
func (c *call) chaosObject(l cave.Loc, o *object.Object, seen bool) bool {
	if o.Artifact {
		c.say(seen, fmt.Sprintf("The %s is unaffected!", o.Name()))
		return true
	}
	switch c.roller.Randint0(chaosOutcomes) {
	case chaosScatter:
		var open []cave.Loc
		for _, d := range cave.Adjacent {
			if n := l.Add(d); c.w.Cave.Passable(n) {
				open = append(open, n)
			}
		}
		if len(open) == 0 {
			return false
		}
		to := open[c.roller.Randint0(len(open))]
		c.w.Objects.Move(l, to, o.InstanceID)
		c.say(seen, fmt.Sprintf("The %s is flung away!", o.Name()))
	case chaosDestroy:
		c.w.Objects.Remove(l, o.InstanceID)
		c.say(seen, fmt.Sprintf("The %s dissolves into chaos!", o.Name()))
	case chaosTransmute:
		k := c.w.Kinds.Transmute(o.Kind, c.roller)
		if k == nil {
			return false
		}
		c.e.logger.Debug("object transmuted",
			zap.String("instance", o.InstanceID),
			zap.String("from", o.Kind.ID),
			zap.String("to", k.ID),
		)
		c.say(seen, fmt.Sprintf("The %s changes into %s!", o.Name(), k.Name))
		o.Kind = k
	}
	return true
}
