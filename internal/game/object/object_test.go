package object_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/object"
)

type zeroSource struct{}

func (zeroSource) Intn(int) int { return 0 }

const kindsYAML = `
- id: scroll_light
  name: Scroll of Light
  glyph: "?"
  hates: [fire, acid]
- id: ring_fire
  name: Ring of Flames
  glyph: "="
  hates: [elec]
  ignores: [fire]
- id: flask_oil
  name: Flask of Oil
  glyph: "!"
  hates: [cold]
`

func loadKinds(t *testing.T) *object.Registry {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kinds.yml"), []byte(kindsYAML), 0o644))
	reg, err := object.LoadKinds(dir)
	require.NoError(t, err)
	return reg
}

func TestLoadKinds_ParsesMaterials(t *testing.T) {
	reg := loadKinds(t)
	require.Len(t, reg.All(), 3)
	scroll, ok := reg.Get("scroll_light")
	require.True(t, ok)
	o := object.New(scroll, 1)
	assert.True(t, o.Hates(object.MatFire))
	assert.True(t, o.Hates(object.MatAcid))
	assert.False(t, o.Hates(object.MatCold))
	assert.NotEmpty(t, o.InstanceID)
}

func TestLoadKinds_RejectsUnknownMaterial(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"),
		[]byte("- id: x\n  name: x\n  hates: [wood]\n"), 0o644))
	_, err := object.LoadKinds(dir)
	assert.Error(t, err)
}

func TestKind_ValidateAggregates(t *testing.T) {
	err := (&object.Kind{Level: -1}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ID")
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "Level")
}

func TestObject_IgnoresInnateAndProofed(t *testing.T) {
	reg := loadKinds(t)
	ring, _ := reg.Get("ring_fire")
	o := object.New(ring, 1)
	assert.True(t, o.Ignores(object.MatFire))
	assert.False(t, o.Ignores(object.MatElec))
	o.Proofed = object.MatElec
	assert.True(t, o.Ignores(object.MatElec))
}

func TestRegistry_TransmutePicksAnotherKind(t *testing.T) {
	reg := loadKinds(t)
	oil, _ := reg.Get("flask_oil")
	got := reg.Transmute(oil, dice.NewLoggedRoller(zeroSource{}, nil))
	require.NotNil(t, got)
	assert.NotEqual(t, "flask_oil", got.ID)

	single := object.NewRegistry()
	require.NoError(t, single.Register(oil))
	assert.Nil(t, single.Transmute(oil, dice.NewLoggedRoller(zeroSource{}, nil)))
}

func TestStore_DropRemoveMove(t *testing.T) {
	reg := loadKinds(t)
	oil, _ := reg.Get("flask_oil")
	s := object.NewStore()
	a := object.NewWithID("a", oil, 2)
	b := object.NewWithID("b", oil, 1)
	s.Drop(cave.L(1, 1), a)
	s.Drop(cave.L(1, 1), b)
	assert.Equal(t, []*object.Object{a, b}, s.Pile(cave.L(1, 1)))
	assert.Equal(t, 2, s.Len())

	assert.True(t, s.Move(cave.L(1, 1), cave.L(0, 5), "a"))
	assert.Equal(t, []cave.Loc{cave.L(0, 5), cave.L(1, 1)}, s.Locs())
	assert.False(t, s.Remove(cave.L(1, 1), "a"))
	assert.True(t, s.Remove(cave.L(1, 1), "b"))
	assert.Empty(t, s.Pile(cave.L(1, 1)))
	assert.Equal(t, []cave.Loc{cave.L(0, 5)}, s.Locs())
	assert.False(t, s.Move(cave.L(9, 9), cave.L(0, 0), "zz"))
}

func TestStore_PileIsSnapshot(t *testing.T) {
	reg := loadKinds(t)
	oil, _ := reg.Get("flask_oil")
	s := object.NewStore()
	s.Drop(cave.L(0, 0), object.New(oil, 1))
	p := s.Pile(cave.L(0, 0))
	p[0] = nil
	assert.NotNil(t, s.Pile(cave.L(0, 0))[0])
}
