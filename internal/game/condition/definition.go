package condition

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known condition ids the projection resolvers apply.
const (
	Stunned      = "stunned"
	Confused     = "confused"
	Afraid       = "afraid"
	Asleep       = "asleep"
	Held         = "held"
	Slowed       = "slowed"
	Hasted       = "hasted"
	Stasis       = "stasis"
	Paralyzed    = "paralyzed"
	Poisoned     = "poisoned"
	Cut          = "cut"
	Blind        = "blind"
	Shapechanged = "shapechanged"
)

// Duration kinds.
const (
	DurationTurns     = "turns"
	DurationPermanent = "permanent"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// ConditionDef is the static definition of a timed status, loaded from YAML.
type ConditionDef struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DurationType string `yaml:"duration_type"` // "turns" | "permanent"
	MaxStacks    int    `yaml:"max_stacks"`    // 0 = unstackable
	// MaxDuration caps accumulated turns; 0 leaves it uncapped.
	MaxDuration     int      `yaml:"max_duration"`
	ACPenalty       int      `yaml:"ac_penalty"`
	SpeedModifier   int      `yaml:"speed_modifier"`
	RestrictActions []string `yaml:"restrict_actions"`
	// BreaksOnDamage conditions end when the holder takes damage.
	BreaksOnDamage bool   `yaml:"breaks_on_damage"`
	MsgApply       string `yaml:"msg_apply"`
	MsgIncrease    string `yaml:"msg_increase"`
	MsgRemove      string `yaml:"msg_remove"`
}

// Validate reports definition errors, all of them at once.
func (d *ConditionDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	switch d.DurationType {
	case DurationTurns, DurationPermanent:
	default:
		errs = append(errs, fmt.Errorf("duration_type %q must be %q or %q", d.DurationType, DurationTurns, DurationPermanent))
	}
	if d.MaxStacks < 0 {
		errs = append(errs, fmt.Errorf("max_stacks must be >= 0, got %d", d.MaxStacks))
	}
	if d.MaxDuration < 0 {
		errs = append(errs, fmt.Errorf("max_duration must be >= 0, got %d", d.MaxDuration))
	}
	return errors.Join(errs...)
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot of all registered ConditionDefs ordered by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Defaults returns a Registry holding the built-in condition set.
//
// Postcondition: every well-known id constant resolves.
func Defaults() *Registry {
	reg, err := LoadFS(defaultsFS, "defaults")
	if err != nil {
		panic(fmt.Sprintf("condition: embedded defaults are invalid: %v", err))
	}
	return reg
}

// LoadDirectory reads every *.yaml file in dir and returns a populated Registry.
// A file may hold several definitions as separate YAML documents.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadDirectory(dir string) (*Registry, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS is LoadDirectory over an fs.FS rooted anywhere.
func LoadFS(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		p := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		for {
			var def ConditionDef
			if err := dec.Decode(&def); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("parsing %q: %w", p, err)
			}
			if err := def.Validate(); err != nil {
				return nil, fmt.Errorf("validating %q in %q: %w", def.ID, p, err)
			}
			reg.Register(&def)
		}
	}
	return reg, nil
}
