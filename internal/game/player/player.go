// Package player holds the player's combat record as the projection
// resolvers see it.
package player

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
)

// Stat indexes the player's attributes.
type Stat int

// Stats.
const (
	StatStr Stat = iota
	StatInt
	StatWis
	StatDex
	StatCon
	StatCount
)

var statNames = [StatCount]string{"str", "int", "wis", "dex", "con"}

// String returns the short stat name.
func (s Stat) String() string {
	if s < 0 || s >= StatCount {
		return "unknown"
	}
	return statNames[s]
}

// Protection is a bitset of immunities to side effects.
type Protection uint16

// Protections.
const (
	ProtFear Protection = 1 << iota
	ProtConf
	ProtBlind
	ProtStun
	ProtPois
	FreeAction
	HoldLife
	SustainStr
	SustainInt
	SustainWis
	SustainDex
	SustainCon
)

var protectionNames = map[string]Protection{
	"prot_fear":   ProtFear,
	"prot_conf":   ProtConf,
	"prot_blind":  ProtBlind,
	"prot_stun":   ProtStun,
	"prot_pois":   ProtPois,
	"free_action": FreeAction,
	"hold_life":   HoldLife,
	"sustain_str": SustainStr,
	"sustain_int": SustainInt,
	"sustain_wis": SustainWis,
	"sustain_dex": SustainDex,
	"sustain_con": SustainCon,
}

// Template is the YAML shape of a player record.
type Template struct {
	Name        string         `yaml:"name"`
	Level       int            `yaml:"level"`
	HP          int            `yaml:"hp"`
	MaxHP       int            `yaml:"max_hp"`
	Exp         int            `yaml:"exp"`
	AC          int            `yaml:"ac"`
	Evasion     int            `yaml:"evasion"`
	Save        int            `yaml:"save"`
	LightRadius int            `yaml:"light"`
	Stats       map[string]int `yaml:"stats"`
	Resists     map[string]int `yaml:"resists"`
	Protections []string       `yaml:"protections"`
}

// Player is the live player record.
type Player struct {
	Name  string
	Level int
	Loc   cave.Loc
	// HP may be 0 while alive; death is hp below 0.
	HP     int
	MaxHP  int
	Exp    int
	MaxExp int
	AC     int
	// Evasion is the percent chance to dodge a bolt outright.
	Evasion int
	// Save is the percent saving throw against side effects.
	Save        int
	LightRadius int
	Stats       [StatCount]int
	// Resist holds percentage resistance per element; negative is vulnerability.
	Resist      [effect.ElemCount]int
	Protections Protection
	Conditions  *condition.ActiveSet
	// DiedFrom names what killed the player; empty while alive.
	DiedFrom string
}

// New builds a Player from t.
//
// Postcondition: returns a player or an error listing every unknown name in t.
func New(t Template) (*Player, error) {
	p := &Player{
		Name:        t.Name,
		Level:       max(t.Level, 1),
		HP:          t.HP,
		MaxHP:       max(t.MaxHP, t.HP),
		Exp:         t.Exp,
		MaxExp:      t.Exp,
		AC:          t.AC,
		Evasion:     t.Evasion,
		Save:        t.Save,
		LightRadius: t.LightRadius,
		Conditions:  condition.NewActiveSet(),
	}
	for i := range p.Stats {
		p.Stats[i] = 10
	}
	var bad []string
	for name, v := range t.Stats {
		found := false
		for i, s := range statNames {
			if s == name {
				p.Stats[i] = v
				found = true
			}
		}
		if !found {
			bad = append(bad, "stat "+name)
		}
	}
	for name, v := range t.Resists {
		e, err := effect.ParseElement(name)
		if err != nil || e == effect.ElemNone {
			bad = append(bad, "resist "+name)
			continue
		}
		p.Resist[e] = max(min(v, 100), -100)
	}
	for _, name := range t.Protections {
		bit, ok := protectionNames[name]
		if !ok {
			bad = append(bad, "protection "+name)
			continue
		}
		p.Protections |= bit
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("player %q: unknown %v", t.Name, bad)
	}
	return p, nil
}

// IsDead reports whether hp has dropped below zero.
func (p *Player) IsDead() bool { return p.HP < 0 }

// Has reports whether every bit of prot is held.
func (p *Player) Has(prot Protection) bool { return p.Protections&prot == prot }

// ResistPercent returns the resistance to e, 0 for ElemNone.
func (p *Player) ResistPercent(e effect.Element) int {
	if e <= effect.ElemNone || e >= effect.ElemCount {
		return 0
	}
	return p.Resist[e]
}

// TakeHit subtracts dam from hp and records the killer when it proves fatal.
// It reports whether the player died.
func (p *Player) TakeHit(dam int, killer string) bool {
	if dam <= 0 {
		return false
	}
	p.HP -= dam
	if p.IsDead() && p.DiedFrom == "" {
		p.DiedFrom = killer
		return true
	}
	return false
}

var sustains = [StatCount]Protection{SustainStr, SustainInt, SustainWis, SustainDex, SustainCon}

// DrainStat lowers stat by one point unless sustained or already at 3.
// It reports whether the stat changed.
func (p *Player) DrainStat(s Stat) bool {
	if s < 0 || s >= StatCount || p.Has(sustains[s]) || p.Stats[s] <= 3 {
		return false
	}
	p.Stats[s]--
	return true
}

// LoseExp drains amount experience; with HoldLife only a tenth is lost.
// It returns the amount actually lost.
func (p *Player) LoseExp(amount int) int {
	if amount <= 0 {
		return 0
	}
	if p.Has(HoldLife) {
		amount /= 10
	}
	amount = min(amount, p.Exp)
	p.Exp -= amount
	return amount
}

// GainExp adds amount experience.
func (p *Player) GainExp(amount int) {
	if amount <= 0 {
		return
	}
	p.Exp += amount
	p.MaxExp = max(p.MaxExp, p.Exp)
}
