package project_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/monster"
	"github.com/cory-johannsen/spellcast/internal/game/object"
	"github.com/cory-johannsen/spellcast/internal/game/player"
	"github.com/cory-johannsen/spellcast/internal/game/world"
	"github.com/cory-johannsen/spellcast/internal/project"
)

// lowSource always rolls the lowest value: every Chance succeeds and every
// OneIn fires.
type lowSource struct{}

func (lowSource) Intn(int) int { return 0 }

// highSource always rolls the highest value: Chance below 100 and OneIn
// above 1 never fire.
type highSource struct{}

func (highSource) Intn(n int) int { return n - 1 }

func testRaces(t *testing.T) *monster.Registry {
	t.Helper()
	r := monster.NewRegistry()
	for _, race := range []*monster.Race{
		{ID: "rat", Name: "giant rat", Glyph: "r", Level: 1, HP: "200", Exp: 10},
		{ID: "salamander", Name: "salamander", Glyph: "S", Level: 1, HP: "200", Flags: monster.ImFire},
		{ID: "ghoul", Name: "ghoul", Glyph: "z", Level: 1, HP: "200", Flags: monster.Undead | monster.Evil},
		{ID: "golem", Name: "clay golem", Glyph: "g", Level: 30, HP: "200", Flags: monster.EmptyMind | monster.NoStun},
		{ID: "grip", Name: "Grip, Farmer Maggot's Dog", Glyph: "C", Level: 2, HP: "30", Flags: monster.Unique},
		{
			ID: "orc", Name: "cave orc", Glyph: "o", Level: 7, HP: "5", Exp: 30,
			Flags: monster.Orc | monster.Evil | monster.Quest,
			Loot: &monster.LootTable{
				Gold:  &monster.GoldDrop{Min: 12, Max: 12},
				Items: []monster.ItemDrop{{Kind: "potion", Chance: 100, MinQty: 2, MaxQty: 2}},
			},
		},
	} {
		require.NoError(t, r.Register(race))
	}
	return r
}

func testKinds(t *testing.T) *object.Registry {
	t.Helper()
	k := object.NewRegistry()
	require.NoError(t, k.Register(&object.Kind{ID: "scroll", Name: "Scroll", Glyph: "?", Hates: object.MatFire}))
	require.NoError(t, k.Register(&object.Kind{ID: "potion", Name: "Potion", Glyph: "!", Hates: object.MatCold}))
	require.NoError(t, k.Register(&object.Kind{ID: "flask", Name: "Flask of oil", Glyph: "!", Hates: object.MatFire}))
	return k
}

// openWorld builds a lit, walled height×width room.
func openWorld(t *testing.T, height, width int) *world.World {
	t.Helper()
	w := floorWorld(t, height, width)
	w.Cave.Enclose()
	return w
}

// floorWorld builds a lit height×width cave of open floor with no walls.
func floorWorld(t *testing.T, height, width int) *world.World {
	t.Helper()
	c, err := cave.New(height, width)
	require.NoError(t, err)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c.SetLit(cave.L(y, x), true)
		}
	}
	return world.New(c, testRaces(t), testKinds(t), condition.Defaults())
}

func placePlayer(t *testing.T, w *world.World, at cave.Loc, tmpl player.Template) *player.Player {
	t.Helper()
	if tmpl.Name == "" {
		tmpl.Name = "Tester"
	}
	if tmpl.HP == 0 {
		tmpl.HP = 100
	}
	tmpl.Level = max(tmpl.Level, 10)
	p, err := player.New(tmpl)
	require.NoError(t, err)
	require.NoError(t, w.PlacePlayer(p, at))
	w.UpdateVisibility()
	return p
}

func place(t *testing.T, w *world.World, raceID string, at cave.Loc) *monster.Monster {
	t.Helper()
	race, ok := w.Races.Get(raceID)
	require.True(t, ok, raceID)
	m, err := w.PlaceMonster(race, at, dice.NewLoggedRoller(highSource{}, nil))
	require.NoError(t, err)
	w.UpdateVisibility()
	return m
}

func newEngine(w *world.World, src dice.Source, opts project.Options) *project.Engine {
	return project.NewEngine(w, dice.NewLoggedRoller(src, nil), zap.NewNop(), opts)
}

// bolt is a player-cast bolt that affects monsters only.
func bolt(target cave.Loc, e effect.Type, dam int) project.Request {
	return project.Request{
		Caster: cave.PlayerOccupant,
		Target: target,
		Damage: dam,
		Effect: e,
		Flags:  project.FlagKill | project.FlagStop,
	}
}

type recordingAnimator struct {
	bolts  [][]cave.Loc
	blasts [][]geometry.BlastGrid
}

func (a *recordingAnimator) Bolt(path []cave.Loc, _ effect.Type) { a.bolts = append(a.bolts, path) }

func (a *recordingAnimator) Blast(grids []geometry.BlastGrid, _ effect.Type) {
	a.blasts = append(a.blasts, grids)
}

type recordingHooks struct {
	deaths      []string
	projections []effect.Type
}

func (h *recordingHooks) MonsterDeath(raceID string, _ cave.Loc, _ bool) {
	h.deaths = append(h.deaths, raceID)
}

func (h *recordingHooks) Projection(e effect.Type, _ bool, _ int) {
	h.projections = append(h.projections, e)
}

type recordingDeaths struct {
	monsters []int
	killer   string
}

func (d *recordingDeaths) MonsterDied(m *monster.Monster, _ bool) {
	d.monsters = append(d.monsters, m.ID)
}

func (d *recordingDeaths) PlayerDied(_ *player.Player, killer string) { d.killer = killer }
