package monster

import (
	"fmt"
	"math/bits"
	"strings"

	"gopkg.in/yaml.v3"
)

// RaceFlags is a bitset of race properties. In YAML it is written as a list
// of lower-case flag names.
type RaceFlags uint64

// Race flags.
const (
	Unique RaceFlags = 1 << iota
	Quest
	Undead
	Evil
	Demon
	Dragon
	Animal
	Orc
	Troll
	Giant
	HurtLight
	HurtRock
	HurtFire
	HurtCold
	ImAcid
	ImElec
	ImFire
	ImCold
	ImPois
	ImWater
	ImNether
	ImPlasma
	ImNexus
	ImDisen
	ResChaos
	NoFear
	NoConf
	NoSleep
	NoStun
	NoHold
	ColdBlood
	NeverMove
	PassWall
	KillWall
	Invisible
	EmptyMind
)

var flagNames = [...]string{
	"unique", "quest", "undead", "evil", "demon", "dragon", "animal", "orc",
	"troll", "giant", "hurt_light", "hurt_rock", "hurt_fire", "hurt_cold",
	"im_acid", "im_elec", "im_fire", "im_cold", "im_pois", "im_water",
	"im_nether", "im_plasma", "im_nexus", "im_disen", "res_chaos", "no_fear",
	"no_conf", "no_sleep", "no_stun", "no_hold", "cold_blood", "never_move",
	"pass_wall", "kill_wall", "invisible", "empty_mind",
}

// Has reports whether every bit in f is set.
func (fl RaceFlags) Has(f RaceFlags) bool { return fl&f == f }

// Any reports whether at least one bit in f is set.
func (fl RaceFlags) Any(f RaceFlags) bool { return fl&f != 0 }

// Names returns the names of the set flags in declaration order.
func (fl RaceFlags) Names() []string {
	var out []string
	for v := uint64(fl); v != 0; v &= v - 1 {
		i := bits.TrailingZeros64(v)
		if i < len(flagNames) {
			out = append(out, flagNames[i])
		}
	}
	return out
}

// String joins the flag names with "|".
func (fl RaceFlags) String() string {
	if fl == 0 {
		return "none"
	}
	return strings.Join(fl.Names(), "|")
}

// ParseFlag maps a single flag name to its bit.
func ParseFlag(name string) (RaceFlags, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range flagNames {
		if s == n {
			return RaceFlags(1) << i, nil
		}
	}
	return 0, fmt.Errorf("unknown race flag %q", name)
}

// UnmarshalYAML decodes a sequence of flag names.
func (fl *RaceFlags) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return fmt.Errorf("line %d: race flags must be a list of names: %w", node.Line, err)
	}
	var out RaceFlags
	for _, n := range names {
		f, err := ParseFlag(n)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		out |= f
	}
	*fl = out
	return nil
}

// MarshalYAML encodes the set as a list of names.
func (fl RaceFlags) MarshalYAML() (interface{}, error) {
	return fl.Names(), nil
}
