package project

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/monster"
	"github.com/cory-johannsen/spellcast/internal/game/object"
)

type ruleKind int

const (
	ruleUndefined ruleKind = iota
	// ruleInert effects never touch monsters.
	ruleInert
	// ruleDamage effects hurt, subject to the resist flags.
	ruleDamage
	// ruleSpell effects use their power for side effects only.
	ruleSpell
)

// monsterRule is the monster policy for one effect type.
type monsterRule struct {
	kind ruleKind
	// only restricts the effect to monsters with one of these flags.
	only monster.RaceFlags
	// exempt monsters are untouched.
	exempt monster.RaceFlags
	immune monster.RaceFlags
	resist monster.RaceFlags
	weak   monster.RaceFlags
	vuln   monster.RaceFlags
	side   func(h *monsterHit)
}

var nonliving = monster.Undead | monster.Demon

var monsterRules = [effect.Count]monsterRule{
	effect.Acid:     {kind: ruleDamage, immune: monster.ImAcid},
	effect.Elec:     {kind: ruleDamage, immune: monster.ImElec},
	effect.Fire:     {kind: ruleDamage, immune: monster.ImFire, vuln: monster.HurtFire},
	effect.Cold:     {kind: ruleDamage, immune: monster.ImCold, vuln: monster.HurtCold},
	effect.Pois:     {kind: ruleDamage, immune: monster.ImPois},
	effect.Light:    {kind: ruleDamage, vuln: monster.HurtLight},
	effect.Dark:     {kind: ruleDamage},
	effect.Sound:    {kind: ruleDamage, side: sideStun},
	effect.Shard:    {kind: ruleDamage},
	effect.Nexus:    {kind: ruleDamage, resist: monster.ImNexus, side: sideNexus},
	effect.Nether:   {kind: ruleDamage, immune: monster.Undead, resist: monster.ImNether, weak: monster.Evil},
	effect.Chaos:    {kind: ruleDamage, resist: monster.ResChaos, side: sideChaos},
	effect.Disen:    {kind: ruleDamage, resist: monster.ImDisen},
	effect.Water:    {kind: ruleDamage, resist: monster.ImWater, side: sideStun},
	effect.Ice:      {kind: ruleDamage, resist: monster.ImCold, vuln: monster.HurtCold, side: sideStun},
	effect.Gravity:  {kind: ruleDamage, side: sideGravity},
	effect.Inertia:  {kind: ruleDamage, side: sideSlow},
	effect.Force:    {kind: ruleDamage, side: sideForce},
	effect.Time:     {kind: ruleDamage},
	effect.Plasma:   {kind: ruleDamage, resist: monster.ImPlasma, side: sideStun},
	effect.Meteor:   {kind: ruleDamage},
	effect.Missile:  {kind: ruleDamage},
	effect.Mana:     {kind: ruleDamage},
	effect.HolyOrb:  {kind: ruleDamage, vuln: monster.Evil},
	effect.Arrow:    {kind: ruleDamage},
	effect.Lava:     {kind: ruleDamage, immune: monster.ImFire, vuln: monster.HurtFire},
	effect.Steam:    {kind: ruleDamage, weak: monster.ImFire},
	effect.Wind:     {kind: ruleDamage, side: sideKnockback},
	effect.Hellfire: {kind: ruleDamage, resist: monster.Evil, side: sideFear},
	effect.Spore:    {kind: ruleDamage, immune: monster.ImPois},

	effect.LightWeak: {kind: ruleDamage, only: monster.HurtLight},
	effect.DarkWeak:  {kind: ruleInert},
	effect.KillWall:  {kind: ruleDamage, only: monster.HurtRock},
	effect.KillDoor:  {kind: ruleInert},
	effect.KillTrap:  {kind: ruleInert},
	effect.MakeDoor:  {kind: ruleInert},
	effect.MakeTrap:  {kind: ruleInert},
	effect.StoneWall: {kind: ruleInert},

	effect.AwayUndead:  {kind: ruleSpell, only: monster.Undead, side: sideAway},
	effect.AwayEvil:    {kind: ruleSpell, only: monster.Evil, side: sideAway},
	effect.AwayAll:     {kind: ruleSpell, side: sideAway},
	effect.TurnUndead:  {kind: ruleSpell, only: monster.Undead, side: sideTurn},
	effect.TurnEvil:    {kind: ruleSpell, only: monster.Evil, side: sideTurn},
	effect.TurnAll:     {kind: ruleSpell, side: sideTurn},
	effect.DispUndead:  {kind: ruleDamage, only: monster.Undead},
	effect.DispEvil:    {kind: ruleDamage, only: monster.Evil},
	effect.DispAll:     {kind: ruleDamage},
	effect.SleepUndead: {kind: ruleSpell, only: monster.Undead, side: sideSleep},
	effect.SleepEvil:   {kind: ruleSpell, only: monster.Evil, side: sideSleep},
	effect.SleepAll:    {kind: ruleSpell, side: sideSleep},
	effect.MonPoly:     {kind: ruleSpell, side: sidePoly},
	effect.MonHeal:     {kind: ruleSpell, side: sideHeal},
	effect.MonSpeed:    {kind: ruleSpell, side: sideSpeed},
	effect.MonSlow:     {kind: ruleSpell, side: sideSlow},
	effect.MonConf:     {kind: ruleSpell, side: sideConf},
	effect.MonHold:     {kind: ruleSpell, side: sideHold},
	effect.MonStun:     {kind: ruleSpell, side: sideStun},
	effect.MonScare:    {kind: ruleSpell, side: sideFear},
	effect.MonDrain:    {kind: ruleDamage, exempt: nonliving},
	effect.MonCrush:    {kind: ruleDamage, side: sideCrush},
	effect.Psi:         {kind: ruleDamage, exempt: monster.EmptyMind, weak: monster.Animal, side: sidePsi},

	effect.Curse:     {kind: ruleDamage},
	effect.Morgul:    {kind: ruleDamage, immune: monster.Undead, weak: monster.Evil, side: sideFear},
	effect.Death:     {kind: ruleDamage, exempt: nonliving},
	effect.DrainLife: {kind: ruleDamage, exempt: nonliving},
}

func monsterRuleFor(t effect.Type) *monsterRule {
	if !t.Valid() {
		return &monsterRule{kind: ruleInert}
	}
	return &monsterRules[t]
}

// pendingStatus is a condition to apply once damage has been dealt.
type pendingStatus struct {
	id    string
	turns int
}

// monsterHit carries one monster's resolution through the pipeline.
type monsterHit struct {
	c    *call
	m    *monster.Monster
	loc  cave.Loc
	seen bool
	// power is the table damage before any adjustment.
	power int
	dam   int
	// spell marks a monster spell; its saves roll against power.
	spell bool
	// learn collects race flags the player observed in action.
	learn     monster.RaceFlags
	notes     []string
	statuses  []pendingStatus
	teleport  int
	knockback bool
	heal      int
	poly      bool
	acted     bool
}

func (h *monsterHit) note(s string) {
	h.notes = append(h.notes, s)
	h.acted = true
}

// saves reports whether the monster shrugs off a status:
// level (+10 unique, +5 undead against fear and sleep) > randint1(power).
func (h *monsterHit) saves(id string, power int) bool {
	lvl := h.m.Level()
	if h.m.Unique() {
		lvl += 10
	}
	if h.m.Race.Flags.Has(monster.Undead) && (id == condition.Afraid || id == condition.Asleep) {
		lvl += 5
	}
	return lvl > h.c.roller.Randint1(power)
}

// status queues condition id unless the race is immune or saves.
func (h *monsterHit) status(id string, turns int, immune monster.RaceFlags) {
	if turns <= 0 {
		return
	}
	power := h.dam
	if h.spell {
		power = h.power
	}
	if immune != 0 && h.m.Race.Flags.Any(immune) {
		h.learn |= h.m.Race.Flags & immune
		h.note(fmt.Sprintf("%s is unaffected.", monster.TheName(h.m)))
		return
	}
	if h.saves(id, power) {
		h.note(fmt.Sprintf("%s is unaffected.", monster.TheName(h.m)))
		return
	}
	h.statuses = append(h.statuses, pendingStatus{id: id, turns: turns})
	h.acted = true
}

func (h *monsterHit) shortTurns() int { return 5 + h.c.roller.Damroll(1, 5) }

func sideStun(h *monsterHit) {
	if h.dam > 0 || h.c.req.Effect == effect.MonStun {
		h.status(condition.Stunned, h.shortTurns(), monster.NoStun)
	}
}

func sideConf(h *monsterHit) { h.status(condition.Confused, h.shortTurns(), monster.NoConf) }

func sideHold(h *monsterHit) { h.status(condition.Held, 3+h.c.roller.Damroll(1, 5), monster.NoHold) }

func sideSlow(h *monsterHit) { h.status(condition.Slowed, h.shortTurns(), 0) }

func sideFear(h *monsterHit) {
	h.status(condition.Afraid, 10+h.c.roller.Randint1(max(h.power, 1)), monster.NoFear)
}

func sideTurn(h *monsterHit) { h.status(condition.Afraid, max(h.power, 1), monster.NoFear) }

func sideSleep(h *monsterHit) { h.status(condition.Asleep, 500, monster.NoSleep) }

func sideChaos(h *monsterHit) {
	if h.m.Race.Flags.Has(monster.ResChaos) {
		return
	}
	sideConf(h)
}

func sideNexus(h *monsterHit) {
	if !h.m.Race.Flags.Has(monster.ImNexus) && h.c.roller.OneIn(3) {
		h.teleport = 10
		h.acted = true
	}
}

func sideGravity(h *monsterHit) {
	sideSlow(h)
	h.teleport = 10
	h.acted = true
}

func sideForce(h *monsterHit) {
	sideStun(h)
	sideKnockback(h)
}

func sideKnockback(h *monsterHit) {
	if h.dam > 0 {
		h.knockback = true
		h.acted = true
	}
}

func sideAway(h *monsterHit) {
	h.teleport = h.power
	h.acted = h.power > 0
}

func sideSpeed(h *monsterHit) {
	h.statuses = append(h.statuses, pendingStatus{id: condition.Hasted, turns: 50})
	h.acted = true
}

func sideHeal(h *monsterHit) {
	h.heal = h.power
	h.m.Conditions.Remove(condition.Afraid)
	h.note(fmt.Sprintf("%s looks healthier.", monster.TheName(h.m)))
}

func sidePoly(h *monsterHit) {
	if h.saves(condition.Shapechanged, h.power) {
		h.note(fmt.Sprintf("%s is unaffected.", monster.TheName(h.m)))
		return
	}
	h.poly = true
	h.acted = true
}

func sideCrush(h *monsterHit) {
	if h.m.HP >= h.dam {
		h.dam = 0
		h.note(fmt.Sprintf("%s is unaffected.", monster.TheName(h.m)))
	}
}

func sidePsi(h *monsterHit) {
	if h.dam > 0 && h.c.roller.OneIn(3) {
		sideConf(h)
	}
}

// resolveMonster applies the effect to the monster on one grid and reports
// whether the player noticed.
func (c *call) resolveMonster(g geometry.BlastGrid) bool {
	l := g.Loc
	occ := c.w.Cave.Occupant(l)
	if occ <= 0 || occ == c.req.Caster {
		return false
	}
	m, ok := c.w.Monsters.Get(occ)
	if !ok {
		return false
	}
	rule := monsterRuleFor(c.req.Effect)
	if rule.kind == ruleInert || rule.kind == ruleUndefined {
		return false
	}
	if m.Conditions.Has(condition.Stasis) {
		return false
	}
	seen := m.Visible
	if f := c.w.Cave.Feature(l); f.Has(cave.Cover) && !condition.Helpless(m.Conditions) && c.roller.Chance(f.CoverChance) {
		c.say(seen, fmt.Sprintf("%s dodges behind the %s.", monster.TheName(m), f.Name))
		return seen
	}

	power := c.damageAt(g.Dist)
	h := &monsterHit{c: c, m: m, loc: l, seen: seen, power: power, dam: power, spell: rule.kind == ruleSpell}
	c.adjustMonsterDamage(h, rule)
	if h.dam > 0 || rule.kind == ruleSpell {
		if rule.side != nil && (rule.only == 0 || m.Race.Flags.Any(rule.only)) {
			rule.side(h)
		}
	}
	if rule.kind == ruleSpell {
		h.dam = 0
	}

	// Only the player may finish off a unique.
	if m.Unique() && !c.byPlayer() && h.dam > m.HP {
		h.dam = max(m.HP, 0)
	}

	if seen && h.learn != 0 {
		c.w.Lore.Learn(m.Race.ID, h.learn)
	}

	if h.heal > 0 {
		m.HP = min(m.HP+h.heal, m.MaxHP)
	}
	if h.dam > 0 {
		m.HP -= h.dam
		m.Conditions.Damaged()
		h.acted = true
	}

	if m.IsDead() {
		c.killMonster(m, l, seen)
		return seen
	}

	for _, n := range h.notes {
		c.say(seen, n)
	}
	c.applyMonsterStatuses(h)
	harmful := h.dam > 0 || (len(h.statuses) > 0 && c.req.Effect != effect.MonSpeed)
	if c.byPlayer() && !m.Hostile && harmful {
		m.Hostile = true
		c.say(seen, fmt.Sprintf("%s gets angry!", monster.TheName(m)))
	}
	if h.dam > 0 {
		c.say(seen, monster.PainMessage(m, h.dam))
	}
	if h.poly {
		c.polymorph(m, seen)
	}
	if h.teleport > 0 {
		c.markTeleport(l, h.teleport)
	}
	if h.knockback {
		c.markKnockback(l, h.dam)
	}
	return seen && h.acted
}

// adjustMonsterDamage applies the race's immunities and resistances to
// h.dam, recording what the player may learn.
func (c *call) adjustMonsterDamage(h *monsterHit, rule *monsterRule) {
	flags := h.m.Race.Flags
	name := monster.TheName(h.m)
	if rule.only != 0 && !flags.Any(rule.only) {
		h.dam = 0
		if rule.kind == ruleSpell {
			h.power = 0
		}
		return
	}
	if flags.Any(rule.exempt) {
		h.learn |= flags & rule.exempt
		h.dam = 0
		h.note(fmt.Sprintf("%s is unaffected!", name))
		return
	}
	switch {
	case flags.Any(rule.immune):
		h.learn |= flags & rule.immune
		h.dam /= 9
		h.note(fmt.Sprintf("%s resists a lot.", name))
	case flags.Any(rule.resist):
		h.learn |= flags & rule.resist
		h.dam = h.dam * 3 / (c.roller.Randint1(3) + 5)
		h.note(fmt.Sprintf("%s resists.", name))
	case flags.Any(rule.weak):
		h.learn |= flags & rule.weak
		h.dam = h.dam * 3 / (4 + c.roller.Randint0(2))
		h.note(fmt.Sprintf("%s resists somewhat.", name))
	}
	if flags.Any(rule.vuln) {
		h.learn |= flags & rule.vuln
		h.dam *= 2
		h.note(fmt.Sprintf("%s is hit hard.", name))
	}
}

func (c *call) applyMonsterStatuses(h *monsterHit) {
	for _, st := range h.statuses {
		def, ok := c.w.Conditions.Get(st.id)
		if !ok {
			c.e.logger.Warn("unknown monster condition", zap.String("condition", st.id))
			continue
		}
		fresh, err := h.m.Conditions.Extend(def, st.turns)
		if err != nil {
			c.e.logger.Warn("applying monster condition", zap.String("condition", st.id), zap.Error(err))
			continue
		}
		msg := def.MsgIncrease
		if fresh || msg == "" {
			msg = def.MsgApply
		}
		if msg != "" {
			c.say(h.seen, fmt.Sprintf("%s %s", monster.TheName(h.m), msg))
		}
	}
}

// polymorph turns a monster into another race. Uniques only change shape.
func (c *call) polymorph(m *monster.Monster, seen bool) {
	target := c.w.Races.PolymorphTarget(m.Race, c.roller)
	if target == nil {
		c.say(seen, fmt.Sprintf("%s is unaffected.", monster.TheName(m)))
		return
	}
	if m.Unique() {
		def, ok := c.w.Conditions.Get(condition.Shapechanged)
		if !ok {
			return
		}
		if _, err := m.Conditions.Extend(def, 10+c.roller.Randint1(10)); err != nil {
			return
		}
		m.Form = target
		c.say(seen, fmt.Sprintf("%s %s", m.Race.Name, def.MsgApply))
		return
	}
	old := monster.TheName(m)
	if _, err := c.w.Monsters.Replace(m.ID, target, c.roller); err != nil {
		c.e.logger.Warn("polymorph failed", zap.Int("monster", m.ID), zap.Error(err))
		return
	}
	c.say(seen, fmt.Sprintf("%s changes!", old))
}

// killMonster removes m and settles everything its death triggers.
func (c *call) killMonster(m *monster.Monster, l cave.Loc, seen bool) {
	race := m.Race
	byPlayer := c.byPlayer()
	if race.Flags.Any(nonliving | monster.EmptyMind) {
		c.say(seen, fmt.Sprintf("%s is destroyed.", monster.TheName(m)))
	} else {
		c.say(seen, fmt.Sprintf("%s dies.", monster.TheName(m)))
	}
	if err := c.w.RemoveMonster(m); err != nil {
		c.e.logger.Warn("removing dead monster", zap.Int("monster", m.ID), zap.Error(err))
	}
	c.res.Killed = append(c.res.Killed, m.ID)

	if race.Loot != nil {
		loot := monster.GenerateLoot(*race.Loot, c.roller)
		c.res.Gold += loot.Gold
		for _, it := range loot.Items {
			kind, ok := c.w.Kinds.Get(it.Kind)
			if !ok {
				c.e.logger.Warn("loot references unknown object kind",
					zap.String("race", race.ID), zap.String("kind", it.Kind))
				continue
			}
			c.w.Objects.Drop(l, object.NewWithID(it.InstanceID, kind, it.Quantity))
		}
	}

	if race.Flags.Has(monster.Quest) {
		if _, ok := c.w.Quests[race.ID]; !ok {
			c.w.Quests[race.ID] = false
		}
	}
	if c.w.CompleteQuest(race.ID) {
		c.res.msg("You have completed your quest!")
	}

	if byPlayer || seen {
		c.w.Lore.RecordKill(race.ID)
	}
	if p := c.w.Player; byPlayer && p != nil {
		p.GainExp(race.Exp * race.Level / max(p.Level, 1))
	}

	c.e.logger.Debug("monster killed",
		zap.Int("monster", m.ID),
		zap.String("race", race.ID),
		zap.Bool("by_player", byPlayer),
	)
	if h := c.e.opts.Hooks; h != nil {
		h.MonsterDeath(race.ID, l, byPlayer)
	}
	if d := c.e.opts.Deaths; d != nil {
		d.MonsterDied(m, byPlayer)
	}
}
