// Package object provides object kinds loaded from YAML, live objects with
// material vulnerabilities, and the per-grid floor store.
package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/spellcast/internal/game/dice"
)

// Material is a bitset of elements an object reacts to.
type Material uint8

// Materials.
const (
	MatAcid Material = 1 << iota
	MatElec
	MatFire
	MatCold
)

var materialNames = map[string]Material{
	"acid": MatAcid,
	"elec": MatElec,
	"fire": MatFire,
	"cold": MatCold,
}

// UnmarshalYAML decodes a list of material names.
func (m *Material) UnmarshalYAML(node *yaml.Node) error {
	var names []string
	if err := node.Decode(&names); err != nil {
		return fmt.Errorf("line %d: materials must be a list of names: %w", node.Line, err)
	}
	var out Material
	for _, n := range names {
		bit, ok := materialNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return fmt.Errorf("line %d: unknown material %q", node.Line, n)
		}
		out |= bit
	}
	*m = out
	return nil
}

// Kind defines the static properties of an object loaded from YAML.
type Kind struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Glyph       string `yaml:"glyph"`
	Level       int    `yaml:"level"`
	// Hates lists the elements that can destroy this kind.
	Hates Material `yaml:"hates"`
	// Ignores lists elements the kind is innately proof against.
	Ignores Material `yaml:"ignores"`
	Value   int      `yaml:"value"`
}

// Validate checks that the Kind satisfies its invariants.
//
// Precondition: k is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (k *Kind) Validate() error {
	var errs []error
	if k.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if k.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if k.Level < 0 {
		errs = append(errs, errors.New("Level must be >= 0"))
	}
	if k.Value < 0 {
		errs = append(errs, errors.New("Value must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("object kind validation failed: %v", errs)
	}
	return nil
}

// Registry indexes kinds by ID.
type Registry struct {
	kinds map[string]*Kind
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register validates k and adds it.
func (r *Registry) Register(k *Kind) error {
	if err := k.Validate(); err != nil {
		return err
	}
	r.kinds[k.ID] = k
	return nil
}

// Get returns the kind with id.
func (r *Registry) Get(id string) (*Kind, bool) {
	k, ok := r.kinds[id]
	return k, ok
}

// All returns every kind ordered by ID.
func (r *Registry) All() []*Kind {
	out := make([]*Kind, 0, len(r.kinds))
	for _, k := range r.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Transmute picks a different kind uniformly, or nil when there is none.
func (r *Registry) Transmute(from *Kind, roller *dice.Roller) *Kind {
	var candidates []*Kind
	for _, k := range r.All() {
		if from == nil || k.ID != from.ID {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[roller.Randint0(len(candidates))]
}

// LoadKinds reads all *.yaml and *.yml files from dir. A file may hold
// several kinds as a YAML sequence.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid kinds or the first encountered error.
func LoadKinds(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadKinds: cannot read directory %q: %w", dir, err)
	}

	reg := NewRegistry()
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadKinds: cannot read file %q: %w", path, err)
		}
		var kinds []*Kind
		if err := yaml.Unmarshal(data, &kinds); err != nil {
			return nil, fmt.Errorf("LoadKinds: cannot parse file %q: %w", path, err)
		}
		for _, k := range kinds {
			if err := reg.Register(k); err != nil {
				return nil, fmt.Errorf("LoadKinds: invalid kind in %q: %w", path, err)
			}
		}
	}
	return reg, nil
}
