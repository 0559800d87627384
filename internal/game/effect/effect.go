// Package effect enumerates every projection effect type and the static
// policy each resolver consults for it.
package effect

import (
	"fmt"
	"strings"
)

// Type is a projection effect. The set is closed: Count is a sentinel and
// every value below it has a row in the policy table.
type Type int

// Elemental and physical effects.
const (
	Acid Type = iota
	Elec
	Fire
	Cold
	Pois
	Light
	Dark
	Sound
	Shard
	Nexus
	Nether
	Chaos
	Disen
	Water
	Ice
	Gravity
	Inertia
	Force
	Time
	Plasma
	Meteor
	Missile
	Mana
	HolyOrb
	Arrow
	Lava
	Steam
	Wind
	Hellfire
	Spore

	// Terrain and illumination.
	LightWeak
	DarkWeak
	KillWall
	KillDoor
	KillTrap
	MakeDoor
	MakeTrap
	StoneWall

	// Monster-only spells.
	AwayUndead
	AwayEvil
	AwayAll
	TurnUndead
	TurnEvil
	TurnAll
	DispUndead
	DispEvil
	DispAll
	SleepUndead
	SleepEvil
	SleepAll
	MonPoly
	MonHeal
	MonSpeed
	MonSlow
	MonConf
	MonHold
	MonStun
	MonScare
	MonDrain
	MonCrush
	Psi

	// Dark magic.
	Curse
	Morgul
	Death
	DrainLife

	// Count is the number of defined effect types.
	Count
)

// Element indexes the player's percentage-resistance table.
type Element int

// Elements. ElemNone marks effects no resistance applies to.
const (
	ElemNone Element = iota
	ElemAcid
	ElemElec
	ElemFire
	ElemCold
	ElemPois
	ElemLight
	ElemDark
	ElemSound
	ElemShard
	ElemNexus
	ElemNether
	ElemChaos
	ElemDisen
	ElemWater
	ElemTime
	ElemPlasma
	ElemCount
)

var elementNames = [ElemCount]string{
	"none", "acid", "elec", "fire", "cold", "pois", "light", "dark", "sound",
	"shard", "nexus", "nether", "chaos", "disen", "water", "time", "plasma",
}

// String returns the lower-case element name.
func (e Element) String() string {
	if e < 0 || e >= ElemCount {
		return "unknown"
	}
	return elementNames[e]
}

// ParseElement maps a name to an Element.
func ParseElement(name string) (Element, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range elementNames {
		if s == n {
			return Element(i), nil
		}
	}
	return ElemNone, fmt.Errorf("effect: unknown element %q", name)
}

// Category groups types by what they are for; resolvers use it to skip
// irrelevant pairs quickly.
type Category int

const (
	CatElemental Category = iota
	CatTerrain
	CatMonsterSpell
	CatDarkMagic
)

// Info is the static policy row for one effect type.
type Info struct {
	Name string
	// Desc completes "You are hit by ..." when the player is struck blind.
	Desc     string
	Category Category
	Element  Element
	// Physical effects can be deflected by armour.
	Physical bool
	// Shatter effects break doors, rubble and veins.
	Shatter bool
	// Transform effects may mark a grid for deferred terrain change.
	Transform bool
	// Knockback effects push occupants along the caster's bearing.
	Knockback bool
	// Lights and Darkens toggle grid illumination.
	Lights  bool
	Darkens bool
}

var table = [Count]Info{
	Acid:     {Name: "acid", Desc: "acid", Element: ElemAcid},
	Elec:     {Name: "elec", Desc: "lightning", Element: ElemElec},
	Fire:     {Name: "fire", Desc: "fire", Element: ElemFire, Transform: true},
	Cold:     {Name: "cold", Desc: "frost", Element: ElemCold, Transform: true},
	Pois:     {Name: "pois", Desc: "poison", Element: ElemPois},
	Light:    {Name: "light", Desc: "light", Element: ElemLight, Lights: true},
	Dark:     {Name: "dark", Desc: "darkness", Element: ElemDark, Darkens: true},
	Sound:    {Name: "sound", Desc: "noise", Element: ElemSound, Shatter: true},
	Shard:    {Name: "shard", Desc: "something sharp", Element: ElemShard, Physical: true},
	Nexus:    {Name: "nexus", Desc: "something strange", Element: ElemNexus},
	Nether:   {Name: "nether", Desc: "something cold", Element: ElemNether},
	Chaos:    {Name: "chaos", Desc: "something strange", Element: ElemChaos, Transform: true},
	Disen:    {Name: "disen", Desc: "something strange", Element: ElemDisen},
	Water:    {Name: "water", Desc: "water", Element: ElemWater, Transform: true},
	Ice:      {Name: "ice", Desc: "something sharp", Element: ElemCold, Physical: true, Transform: true},
	Gravity:  {Name: "gravity", Desc: "something heavy", Shatter: true},
	Inertia:  {Name: "inertia", Desc: "something slow"},
	Force:    {Name: "force", Desc: "something hard", Physical: true, Shatter: true, Knockback: true},
	Time:     {Name: "time", Desc: "something strange", Element: ElemTime},
	Plasma:   {Name: "plasma", Desc: "something hot", Element: ElemPlasma, Shatter: true, Transform: true},
	Meteor:   {Name: "meteor", Desc: "something hot", Physical: true, Shatter: true, Transform: true},
	Missile:  {Name: "missile", Desc: "something", Physical: true},
	Mana:     {Name: "mana", Desc: "something"},
	HolyOrb:  {Name: "holy_orb", Desc: "something"},
	Arrow:    {Name: "arrow", Desc: "something sharp", Physical: true},
	Lava:     {Name: "lava", Desc: "molten rock", Element: ElemFire, Physical: true, Transform: true},
	Steam:    {Name: "steam", Desc: "scalding vapour", Element: ElemFire},
	Wind:     {Name: "wind", Desc: "a gust", Physical: true, Knockback: true},
	Hellfire: {Name: "hellfire", Desc: "unholy flame", Element: ElemFire, Transform: true},
	Spore:    {Name: "spore", Desc: "a cloud of spores", Element: ElemPois, Physical: true},

	LightWeak: {Name: "light_weak", Desc: "light", Category: CatTerrain, Lights: true},
	DarkWeak:  {Name: "dark_weak", Desc: "darkness", Category: CatTerrain, Darkens: true},
	KillWall:  {Name: "kill_wall", Desc: "something", Category: CatTerrain},
	KillDoor:  {Name: "kill_door", Desc: "something", Category: CatTerrain},
	KillTrap:  {Name: "kill_trap", Desc: "something", Category: CatTerrain},
	MakeDoor:  {Name: "make_door", Desc: "something", Category: CatTerrain},
	MakeTrap:  {Name: "make_trap", Desc: "something", Category: CatTerrain},
	StoneWall: {Name: "stone_wall", Desc: "something", Category: CatTerrain},

	AwayUndead:  {Name: "away_undead", Category: CatMonsterSpell},
	AwayEvil:    {Name: "away_evil", Category: CatMonsterSpell},
	AwayAll:     {Name: "away_all", Category: CatMonsterSpell},
	TurnUndead:  {Name: "turn_undead", Category: CatMonsterSpell},
	TurnEvil:    {Name: "turn_evil", Category: CatMonsterSpell},
	TurnAll:     {Name: "turn_all", Category: CatMonsterSpell},
	DispUndead:  {Name: "disp_undead", Category: CatMonsterSpell},
	DispEvil:    {Name: "disp_evil", Category: CatMonsterSpell},
	DispAll:     {Name: "disp_all", Category: CatMonsterSpell},
	SleepUndead: {Name: "sleep_undead", Category: CatMonsterSpell},
	SleepEvil:   {Name: "sleep_evil", Category: CatMonsterSpell},
	SleepAll:    {Name: "sleep_all", Category: CatMonsterSpell},
	MonPoly:     {Name: "mon_poly", Category: CatMonsterSpell},
	MonHeal:     {Name: "mon_heal", Category: CatMonsterSpell},
	MonSpeed:    {Name: "mon_speed", Category: CatMonsterSpell},
	MonSlow:     {Name: "mon_slow", Category: CatMonsterSpell},
	MonConf:     {Name: "mon_conf", Category: CatMonsterSpell},
	MonHold:     {Name: "mon_hold", Category: CatMonsterSpell},
	MonStun:     {Name: "mon_stun", Category: CatMonsterSpell},
	MonScare:    {Name: "mon_scare", Category: CatMonsterSpell},
	MonDrain:    {Name: "mon_drain", Category: CatMonsterSpell},
	MonCrush:    {Name: "mon_crush", Category: CatMonsterSpell},
	Psi:         {Name: "psi", Desc: "something", Category: CatMonsterSpell},

	Curse:     {Name: "curse", Desc: "a curse", Category: CatDarkMagic},
	Morgul:    {Name: "morgul", Desc: "a black breath", Category: CatDarkMagic, Element: ElemNether},
	Death:     {Name: "death", Desc: "the touch of death", Category: CatDarkMagic},
	DrainLife: {Name: "drain_life", Desc: "something draining", Category: CatDarkMagic},
}

// unknownInfo answers for values outside the enumeration.
var unknownInfo = Info{Name: "unknown", Desc: "something", Category: CatTerrain}

// Valid reports whether t is a defined effect type.
func (t Type) Valid() bool { return t >= 0 && t < Count }

// Info returns the policy row for t; invalid types get an inert row.
func (t Type) Info() *Info {
	if !t.Valid() {
		return &unknownInfo
	}
	return &table[t]
}

// String returns the effect's short name.
func (t Type) String() string { return t.Info().Name }

// Parse maps a name such as "fire" or "MON_POLY" to a Type.
func Parse(name string) (Type, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i := range table {
		if table[i].Name == n {
			return Type(i), nil
		}
	}
	return Count, fmt.Errorf("effect: unknown effect type %q", name)
}

// All returns every defined effect type in declaration order.
func All() []Type {
	out := make([]Type, Count)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}
