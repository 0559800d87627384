// Package monster provides race definitions, live monster instances held in
// an id-keyed arena, the player's monster lore, loot and pain messages.
package monster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/spellcast/internal/game/dice"
)

// Race is a reusable monster archetype loaded from YAML.
type Race struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Glyph       string `yaml:"glyph"`
	Level       int    `yaml:"level"`
	Speed       int    `yaml:"speed"`
	// HP is a dice expression; uniques always get its maximum.
	HP    string `yaml:"hp"`
	AC    int    `yaml:"ac"`
	Exp   int    `yaml:"exp"`
	Sleep int    `yaml:"sleep"`
	// Pain selects the pain message set.
	Pain  int        `yaml:"pain"`
	Flags RaceFlags  `yaml:"flags"`
	Loot  *LootTable `yaml:"loot"`

	hp dice.Expression
}

// Validate checks that the race satisfies basic invariants and caches the
// parsed hit dice.
//
// Precondition: r must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Level >= 0, HP
// parses, and Pain indexes a known message set.
func (r *Race) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("monster race: id must not be empty")
	}
	if r.Name == "" {
		return fmt.Errorf("monster race %q: name must not be empty", r.ID)
	}
	if r.Level < 0 {
		return fmt.Errorf("monster race %q: level must be >= 0", r.ID)
	}
	expr, err := dice.Parse(r.HP)
	if err != nil {
		return fmt.Errorf("monster race %q: hp: %w", r.ID, err)
	}
	r.hp = expr
	if r.Pain < 0 || r.Pain >= len(painSets) {
		return fmt.Errorf("monster race %q: pain %d out of range [0,%d)", r.ID, r.Pain, len(painSets))
	}
	if r.Loot != nil {
		if err := r.Loot.Validate(); err != nil {
			return fmt.Errorf("monster race %q: %w", r.ID, err)
		}
	}
	return nil
}

// HitDice returns the parsed hp expression. Valid only after Validate.
func (r *Race) HitDice() dice.Expression { return r.hp }

// MaxHitPoints is the largest hp the race can spawn with.
func (r *Race) MaxHitPoints() int {
	return max(r.hp.Count*r.hp.Sides+r.hp.Modifier, 1)
}

// Registry indexes races by ID.
type Registry struct {
	races map[string]*Race
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{races: make(map[string]*Race)}
}

// Register validates r and adds it, replacing any race with the same ID.
func (g *Registry) Register(r *Race) error {
	if err := r.Validate(); err != nil {
		return err
	}
	g.races[r.ID] = r
	return nil
}

// Get returns the race with id.
func (g *Registry) Get(id string) (*Race, bool) {
	r, ok := g.races[id]
	return r, ok
}

// All returns the races ordered by level then ID.
func (g *Registry) All() []*Race {
	out := make([]*Race, 0, len(g.races))
	for _, r := range g.races {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PolymorphTarget picks a different non-unique race whose level lies within
// level/5+5 of from's. It returns nil when nothing qualifies.
func (g *Registry) PolymorphTarget(from *Race, roller *dice.Roller) *Race {
	band := from.Level/5 + 5
	var candidates []*Race
	for _, r := range g.All() {
		if r.ID == from.ID || r.Flags.Has(Unique) {
			continue
		}
		if d := r.Level - from.Level; d < -band || d > band {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[roller.Randint0(len(candidates))]
}

// LoadRaceFromBytes parses one or more YAML documents of races.
//
// Postcondition: Returns validated races, or an error naming the first bad one.
func LoadRaceFromBytes(data []byte) ([]*Race, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var out []*Race
	for {
		var r Race
		if err := dec.Decode(&r); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parsing race YAML: %w", err)
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		out = append(out, &r)
	}
	return out, nil
}

// LoadRaces reads all *.yaml files in dir into a Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns the registry or an error on the first parse or
// validate failure.
func LoadRaces(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading race dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		races, err := LoadRaceFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		for _, r := range races {
			reg.races[r.ID] = r
		}
	}
	return reg, nil
}
