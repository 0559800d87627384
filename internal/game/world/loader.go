package world

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/monster"
	"github.com/cory-johannsen/spellcast/internal/game/object"
	"github.com/cory-johannsen/spellcast/internal/game/player"
)

// yamlArenaFile is the top-level YAML structure for arena files.
type yamlArenaFile struct {
	Arena yamlArena `yaml:"arena"`
}

// yamlArena is the YAML representation of a hand-built level.
type yamlArena struct {
	Name string `yaml:"name"`
	// Map rows use feature glyphs; short rows are padded with permanent wall.
	Map      string        `yaml:"map"`
	Lit      bool          `yaml:"lit"`
	Player   *yamlPlayer   `yaml:"player"`
	Monsters []yamlMonster `yaml:"monsters"`
	Objects  []yamlObject  `yaml:"objects"`
	Quests   []string      `yaml:"quests"`
}

type yamlPlayer struct {
	At              yamlLoc `yaml:"at"`
	player.Template `yaml:",inline"`
}

type yamlMonster struct {
	Race    string  `yaml:"race"`
	At      yamlLoc `yaml:"at"`
	HP      int     `yaml:"hp"`
	Awake   bool    `yaml:"awake"`
	Neutral bool    `yaml:"neutral"`
}

type yamlObject struct {
	Kind     string          `yaml:"kind"`
	At       yamlLoc         `yaml:"at"`
	Qty      int             `yaml:"qty"`
	Artifact bool            `yaml:"artifact"`
	Proofed  object.Material `yaml:"proofed"`
}

// yamlLoc is a [y, x] pair.
type yamlLoc cave.Loc

// UnmarshalYAML decodes a two-element [y, x] sequence.
func (l *yamlLoc) UnmarshalYAML(node *yaml.Node) error {
	var pair []int
	if err := node.Decode(&pair); err != nil || len(pair) != 2 {
		return fmt.Errorf("line %d: location must be [y, x]", node.Line)
	}
	*l = yamlLoc{Y: pair[0], X: pair[1]}
	return nil
}

// Content bundles the registries an arena's names resolve against.
type Content struct {
	Races      *monster.Registry
	Kinds      *object.Registry
	Conditions *condition.Registry
}

// LoadArenaFromFile reads and builds a single arena YAML file.
//
// Precondition: path must point to a valid YAML arena file.
// Postcondition: Returns a populated World or a non-nil error.
func LoadArenaFromFile(path string, content Content, roller *dice.Roller) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading arena file %s: %w", path, err)
	}
	return LoadArenaFromBytes(data, content, roller)
}

// LoadArenaFromBytes parses an arena and populates a World from it.
//
// Precondition: data must be valid YAML conforming to the arena schema.
// Postcondition: Returns a populated World or a non-nil error.
func LoadArenaFromBytes(data []byte, content Content, roller *dice.Roller) (*World, error) {
	var file yamlArenaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing arena YAML: %w", err)
	}
	w, err := buildArena(file.Arena, content, roller)
	if err != nil {
		return nil, fmt.Errorf("building arena %q: %w", file.Arena.Name, err)
	}
	return w, nil
}

func buildArena(ya yamlArena, content Content, roller *dice.Roller) (*World, error) {
	c, err := parseMap(ya.Map)
	if err != nil {
		return nil, err
	}
	if ya.Lit {
		for y := 0; y < c.Height; y++ {
			for x := 0; x < c.Width; x++ {
				c.SetLit(cave.L(y, x), true)
			}
		}
	}

	w := New(c, content.Races, content.Kinds, content.Conditions)
	w.Name = ya.Name

	if ya.Player != nil {
		p, err := player.New(ya.Player.Template)
		if err != nil {
			return nil, err
		}
		if err := w.PlacePlayer(p, cave.Loc(ya.Player.At)); err != nil {
			return nil, err
		}
	}

	for i, ym := range ya.Monsters {
		race, ok := w.Races.Get(ym.Race)
		if !ok {
			return nil, fmt.Errorf("monster[%d]: unknown race %q", i, ym.Race)
		}
		m, err := w.PlaceMonster(race, cave.Loc(ym.At), roller)
		if err != nil {
			return nil, fmt.Errorf("monster[%d]: %w", i, err)
		}
		if ym.HP > 0 {
			m.HP = min(ym.HP, m.MaxHP)
		}
		if ym.Awake {
			m.Conditions.Remove(condition.Asleep)
		}
		m.Hostile = !ym.Neutral
	}

	for i, yo := range ya.Objects {
		kind, ok := w.Kinds.Get(yo.Kind)
		if !ok {
			return nil, fmt.Errorf("object[%d]: unknown kind %q", i, yo.Kind)
		}
		at := cave.Loc(yo.At)
		if !c.InBounds(at) {
			return nil, fmt.Errorf("object[%d]: %s is out of bounds", i, at)
		}
		o := object.New(kind, max(yo.Qty, 1))
		o.Artifact = yo.Artifact
		o.Proofed = yo.Proofed
		w.Objects.Drop(at, o)
	}

	for _, q := range ya.Quests {
		if _, ok := w.Races.Get(q); !ok {
			return nil, fmt.Errorf("quest: unknown race %q", q)
		}
		w.Quests[q] = false
	}

	w.UpdateVisibility()
	return w, nil
}

// parseMap converts glyph rows into a cave.
func parseMap(m string) (*cave.Cave, error) {
	var rows []string
	for _, line := range strings.Split(m, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line != "" {
			rows = append(rows, line)
		}
	}
	width := 0
	for _, r := range rows {
		width = max(width, len([]rune(r)))
	}
	c, err := cave.New(len(rows), width)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	for y, r := range rows {
		runes := []rune(r)
		for x := 0; x < width; x++ {
			feat := cave.FeatPermanent
			if x < len(runes) {
				f, ok := cave.FeatureByGlyph(runes[x])
				if !ok {
					return nil, fmt.Errorf("map row %d col %d: unknown glyph %q", y, x, runes[x])
				}
				feat = f
			}
			c.SetFeat(cave.L(y, x), feat)
		}
	}
	return c, nil
}
