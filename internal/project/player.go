package project

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/player"
)

// playerMsgs holds the second-person apply and increase lines per condition.
var playerMsgs = map[string][2]string{
	condition.Stunned:   {"You have been stunned.", "You are more dazed."},
	condition.Confused:  {"You are confused!", "You are more confused!"},
	condition.Afraid:    {"You are terrified!", "You are more scared!"},
	condition.Slowed:    {"You feel yourself moving slower!", "You feel yourself slow down even more!"},
	condition.Paralyzed: {"You are paralysed!", "You are paralysed!"},
	condition.Poisoned:  {"You are poisoned!", "You are more poisoned!"},
	condition.Cut:       {"You have been given a graze.", "Your wounds bleed more."},
	condition.Blind:     {"You are blind!", "You are more blind!"},
}

// playerHit carries the player's resolution through the defense chain.
type playerHit struct {
	c   *call
	p   *player.Player
	dam int
}

func (h *playerHit) saved() bool {
	if h.c.roller.Chance(h.p.Save) {
		h.c.res.msg("You resist the effects!")
		return true
	}
	return false
}

// resists reports whether the player holds any resistance to e; resistance
// also wards off the element's side effect.
func (h *playerHit) resists(e effect.Element) bool { return h.p.ResistPercent(e) > 0 }

// inflict applies condition id for turns unless prot guards against it.
// Unless free is set the player first gets a saving throw.
func (h *playerHit) inflict(id string, turns int, prot player.Protection, free bool) {
	if turns <= 0 {
		return
	}
	if prot != 0 && h.p.Has(prot) {
		return
	}
	if !free && h.saved() {
		return
	}
	def, ok := h.c.w.Conditions.Get(id)
	if !ok {
		h.c.e.logger.Warn("unknown player condition", zap.String("condition", id))
		return
	}
	fresh, err := h.p.Conditions.Extend(def, turns)
	if err != nil {
		h.c.e.logger.Warn("applying player condition", zap.String("condition", id), zap.Error(err))
		return
	}
	msgs := playerMsgs[id]
	if fresh {
		h.c.res.msg(msgs[0])
	} else {
		h.c.res.msg(msgs[1])
	}
}

func (h *playerHit) stun() {
	if h.resists(effect.ElemSound) {
		return
	}
	h.inflict(condition.Stunned, 10+h.c.roller.Randint1(min(max(h.dam/3, 1), 35)), player.ProtStun, false)
}

func (h *playerHit) confuse() {
	h.inflict(condition.Confused, 5+h.c.roller.Randint1(5), player.ProtConf, false)
}

func (h *playerHit) scare() {
	h.inflict(condition.Afraid, 10+h.c.roller.Randint1(10), player.ProtFear, false)
}

func (h *playerHit) slow() {
	h.inflict(condition.Slowed, 4+h.c.roller.Randint1(4), 0, false)
}

func (h *playerHit) blind() {
	h.inflict(condition.Blind, 2+h.c.roller.Randint1(5), player.ProtBlind, false)
}

var statLong = [player.StatCount]string{"strength", "intelligence", "wisdom", "dexterity", "constitution"}

func (h *playerHit) drainStat(s player.Stat) {
	if h.saved() {
		return
	}
	if h.p.DrainStat(s) {
		h.c.res.msg(fmt.Sprintf("You feel your %s drain away.", statLong[s]))
	} else {
		h.c.res.msg(fmt.Sprintf("You feel your %s sustained.", statLong[s]))
	}
}

func (h *playerHit) drainExp() {
	if h.saved() {
		return
	}
	amount := 200 + h.p.Exp/100*2
	if h.p.Has(player.HoldLife) {
		h.c.res.msg("You feel your life slipping away!")
	} else {
		h.c.res.msg("You feel your life draining away!")
	}
	h.p.LoseExp(amount)
}

// playerSides holds each effect's additive side effects. A nil entry has none.
var playerSides = [effect.Count]func(h *playerHit){
	effect.Pois: func(h *playerHit) {
		if !h.resists(effect.ElemPois) {
			h.inflict(condition.Poisoned, 10+h.c.roller.Randint1(max(h.dam, 1)), player.ProtPois, false)
		}
	},
	effect.Spore: func(h *playerHit) {
		if !h.resists(effect.ElemPois) {
			h.inflict(condition.Poisoned, 5+h.c.roller.Randint1(max(h.dam/2, 1)), player.ProtPois, false)
		}
	},
	effect.Light: func(h *playerHit) {
		if !h.resists(effect.ElemLight) {
			h.blind()
		}
	},
	effect.Dark: func(h *playerHit) {
		if !h.resists(effect.ElemDark) {
			h.blind()
		}
	},
	effect.Sound: func(h *playerHit) { h.stun() },
	effect.Shard: func(h *playerHit) {
		if !h.resists(effect.ElemShard) {
			h.inflict(condition.Cut, h.dam, 0, true)
		}
	},
	effect.Nexus: func(h *playerHit) {
		if !h.resists(effect.ElemNexus) {
			h.c.markTeleport(h.p.Loc, 10)
		}
	},
	effect.Nether: func(h *playerHit) {
		if !h.resists(effect.ElemNether) {
			h.drainExp()
		}
	},
	effect.Chaos: func(h *playerHit) {
		if h.resists(effect.ElemChaos) {
			return
		}
		h.confuse()
		h.drainExp()
	},
	effect.Water: func(h *playerHit) {
		h.confuse()
		h.stun()
	},
	effect.Ice: func(h *playerHit) {
		h.inflict(condition.Cut, 5+h.c.roller.Randint1(max(h.dam/4, 1)), 0, true)
		h.stun()
	},
	effect.Gravity: func(h *playerHit) {
		h.slow()
		h.stun()
		h.c.markTeleport(h.p.Loc, 5)
	},
	effect.Inertia: func(h *playerHit) { h.slow() },
	effect.Force: func(h *playerHit) {
		h.stun()
		h.c.markKnockback(h.p.Loc, h.dam)
	},
	effect.Wind: func(h *playerHit) { h.c.markKnockback(h.p.Loc, h.dam) },
	effect.Time: func(h *playerHit) {
		if h.resists(effect.ElemTime) {
			return
		}
		if h.c.roller.OneIn(2) {
			h.drainExp()
		} else {
			h.drainStat(player.Stat(h.c.roller.Randint0(int(player.StatCount))))
		}
	},
	effect.Plasma:   func(h *playerHit) { h.stun() },
	effect.Hellfire: func(h *playerHit) { h.scare() },
	effect.Curse: func(h *playerHit) {
		h.drainStat(player.Stat(h.c.roller.Randint0(int(player.StatCount))))
	},
	effect.Morgul: func(h *playerHit) {
		h.scare()
		h.drainStat(player.StatCon)
		h.drainExp()
	},
	effect.Death:     func(h *playerHit) { h.drainExp() },
	effect.DrainLife: func(h *playerHit) { h.drainExp() },
	effect.Psi:       func(h *playerHit) { h.confuse() },

	effect.MonSlow:  func(h *playerHit) { h.slow() },
	effect.MonConf:  func(h *playerHit) { h.confuse() },
	effect.MonStun:  func(h *playerHit) { h.stun() },
	effect.MonScare: func(h *playerHit) { h.scare() },
	effect.MonHold: func(h *playerHit) {
		h.inflict(condition.Paralyzed, 1+h.c.roller.Randint1(3), player.FreeAction, false)
	},
}

// playerTakesDamage reports whether an effect can wound the player at all.
func playerTakesDamage(t effect.Type) bool {
	switch t.Info().Category {
	case effect.CatElemental, effect.CatDarkMagic:
		return true
	}
	return t == effect.Psi
}

// resolvePlayer applies the effect to the player if they stand on g.
func (c *call) resolvePlayer(g geometry.BlastGrid) bool {
	p := c.w.Player
	if p == nil || p.IsDead() || !c.w.PlayerAt(g.Loc) {
		return false
	}
	if c.byPlayer() && !c.req.Flags.Has(FlagSelf) {
		return false
	}
	t := c.req.Effect
	if !t.Valid() {
		return false
	}
	side := playerSides[t]
	hurts := playerTakesDamage(t)
	if !hurts && side == nil {
		return false
	}

	desc := c.info.Desc
	if desc == "" {
		desc = "something"
	}
	h := &playerHit{c: c, p: p, dam: c.damageAt(g.Dist)}
	if hurts {
		if !c.defend(h, desc) {
			return true
		}
		h.dam = c.resistPlayer(h.dam, p.ResistPercent(c.info.Element))
		h.dam = footingDamage(c.w.Cave.Feature(g.Loc), c.info.Element, h.dam)
		c.res.msg(fmt.Sprintf("You are hit by %s!", desc))
		if p.TakeHit(h.dam, c.casterName()) {
			c.res.PlayerDied = true
			c.res.msg("You die.")
			c.e.logger.Info("player killed",
				zap.String("effect", t.String()),
				zap.String("killer", p.DiedFrom),
			)
			if d := c.e.opts.Deaths; d != nil {
				d.PlayerDied(p, p.DiedFrom)
			}
			return true
		}
		if h.dam > 0 && p.Conditions.Len() > 0 {
			p.Conditions.Damaged()
		}
	}
	if side != nil {
		side(h)
	}
	return true
}

// defend runs evasion and armour. It reports whether the hit lands; a
// glancing blow reduces h.dam in place.
func (c *call) defend(h *playerHit, desc string) bool {
	p := h.p
	evasion := p.Evasion
	if c.area() {
		evasion /= 2
	}
	// A player who cannot act cannot dodge.
	if condition.Helpless(p.Conditions) {
		evasion = 0
	}
	if evasion > 0 && c.roller.Chance(evasion) {
		c.res.msg(fmt.Sprintf("You evade %s.", desc))
		return false
	}
	ac := max(p.AC+condition.ACBonus(p.Conditions), 0)
	if c.info.Physical && ac > 0 {
		if c.roller.Chance(min(ac/8, 20)) {
			c.res.msg("Your armour deflects the blow.")
			return false
		}
		h.dam -= h.dam * min(ac, 150) / 400
	}
	return true
}

// resistPlayer scales dam by a percentage resistance jittered within
// min(pct, 100-pct)/5; negative resistance amplifies damage.
func (c *call) resistPlayer(dam, pct int) int {
	if pct == 0 || dam <= 0 {
		return dam
	}
	mag := min(abs(pct), 100)
	band := min(mag, 100-mag) / 5
	pct = c.roller.Spread(pct, band)
	pct = max(min(pct, 100), -100)
	return max(dam-dam*pct/100, 0)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
