package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/object"
	"github.com/cory-johannsen/spellcast/internal/game/player"
	"github.com/cory-johannsen/spellcast/internal/project"
)

func TestResolve_BeamHitsEveryGridAtFullDamage(t *testing.T) {
	w := floorWorld(t, 5, 5)
	near := place(t, w, "rat", cave.L(0, 2))
	far := place(t, w, "rat", cave.L(0, 4))
	e := newEngine(w, highSource{}, project.Options{})

	res := e.Resolve(project.Request{
		Origin: cave.L(0, 0),
		Target: cave.L(0, 4),
		Damage: 40,
		Effect: effect.Missile,
		Flags:  project.FlagBeam | project.FlagKill,
	})

	want := []cave.Loc{cave.L(0, 0), cave.L(0, 1), cave.L(0, 2), cave.L(0, 3), cave.L(0, 4)}
	assert.Equal(t, want, res.Path)
	require.Len(t, res.Grids, len(want))
	for i, g := range res.Grids {
		assert.Equal(t, want[i], g.Loc)
		assert.Equal(t, 40, res.DamageAt(g.Dist))
	}
	assert.Equal(t, 160, near.HP)
	assert.Equal(t, 160, far.HP)
}

func TestResolve_BallFallsOffWithDistance(t *testing.T) {
	w := floorWorld(t, 21, 21)
	centre := place(t, w, "rat", cave.L(10, 10))
	one := place(t, w, "rat", cave.L(10, 11))
	two := place(t, w, "rat", cave.L(10, 12))
	e := newEngine(w, highSource{}, project.Options{})

	res := e.Resolve(project.Request{
		Origin: cave.L(10, 10),
		Target: cave.L(10, 10),
		Radius: 2,
		Damage: 100,
		Effect: effect.Missile,
		Flags:  project.FlagKill,
	})

	assert.Equal(t, cave.L(10, 10), res.Centre)
	assert.Equal(t, []int{100, 50, 34}, res.Table[:3])
	assert.Len(t, res.Grids, 21, "a radius-2 ball loses only its four corners")
	assert.Equal(t, geometry.BlastGrid{Loc: cave.L(10, 10)}, res.Grids[0])
	assert.Equal(t, 100, centre.HP)
	assert.Equal(t, 150, one.HP)
	assert.Equal(t, 166, two.HP)
}

func TestResolve_ArcExcludesGridsOutsideItsWidth(t *testing.T) {
	w := floorWorld(t, 11, 11)
	placePlayer(t, w, cave.L(5, 5), player.Template{})
	e := newEngine(w, highSource{}, project.Options{})

	res := e.Resolve(project.Request{
		Caster:     cave.PlayerOccupant,
		Target:     cave.L(5, 9),
		Radius:     4,
		Damage:     30,
		Effect:     effect.Fire,
		Flags:      project.FlagArc | project.FlagKill,
		ArcDegrees: 60,
	})

	assert.Empty(t, res.Path, "arcs have no path")
	assert.True(t, res.Affected(cave.L(5, 8)))
	assert.True(t, res.Affected(cave.L(4, 8)))
	assert.False(t, res.Affected(cave.L(2, 5)), "due north lies outside a 60 degree arc facing east")
	assert.False(t, res.Affected(cave.L(5, 2)), "behind the caster")
}

func TestResolve_ArcRadiusIsCapped(t *testing.T) {
	w := floorWorld(t, 11, 11)
	placePlayer(t, w, cave.L(5, 1), player.Template{})
	e := newEngine(w, highSource{}, project.Options{ArcMaxRadius: 3})

	res := e.Resolve(project.Request{
		Caster:     cave.PlayerOccupant,
		Target:     cave.L(5, 9),
		Radius:     8,
		Damage:     30,
		Effect:     effect.Cold,
		Flags:      project.FlagArc,
		ArcDegrees: 90,
	})

	assert.True(t, res.Affected(cave.L(5, 4)))
	assert.False(t, res.Affected(cave.L(5, 5)), "beyond the arc radius cap")
	assert.Zero(t, res.Table[4])
}

func TestResolve_OriginEqualsTargetIsSingleGrid(t *testing.T) {
	w := openWorld(t, 7, 7)
	e := newEngine(w, highSource{}, project.Options{})

	res := e.Resolve(project.Request{Origin: cave.L(3, 3), Target: cave.L(3, 3), Damage: 10, Effect: effect.Fire})

	assert.Equal(t, []cave.Loc{cave.L(3, 3)}, res.Path)
	assert.Equal(t, []geometry.BlastGrid{{Loc: cave.L(3, 3)}}, res.Grids)
}

func TestResolve_StopFlagEndsAtFirstMonster(t *testing.T) {
	w := openWorld(t, 3, 9)
	placePlayer(t, w, cave.L(1, 1), player.Template{})
	first := place(t, w, "rat", cave.L(1, 3))
	second := place(t, w, "rat", cave.L(1, 5))
	e := newEngine(w, highSource{}, project.Options{})

	assert.True(t, e.Project(bolt(cave.L(1, 7), effect.Missile, 25)))
	assert.Equal(t, 175, first.HP)
	assert.Equal(t, 200, second.HP)
}

func TestResolve_BoltHitsTheWallThatStopsIt(t *testing.T) {
	w := openWorld(t, 3, 9)
	placePlayer(t, w, cave.L(1, 1), player.Template{})
	w.Cave.SetFeat(cave.L(1, 4), cave.FeatGranite)
	e := newEngine(w, highSource{}, project.Options{})

	res := e.Resolve(project.Request{
		Caster: cave.PlayerOccupant,
		Target: cave.L(1, 7),
		Damage: 20,
		Effect: effect.KillWall,
		Flags:  project.FlagGrid,
	})

	assert.Equal(t, cave.L(1, 4), res.Centre)
	assert.Equal(t, cave.FeatFloor, w.Cave.Feat(cave.L(1, 4)))
	assert.True(t, res.Obvious)
	assert.Contains(t, res.Messages, "The wall turns into mud!")
}

func TestResolve_FlagsGateResolverPasses(t *testing.T) {
	setup := func(t *testing.T) (*project.Engine, func() (int, int)) {
		w := openWorld(t, 7, 7)
		placePlayer(t, w, cave.L(1, 1), player.Template{})
		rat := place(t, w, "rat", cave.L(3, 3))
		kind, _ := w.Kinds.Get("scroll")
		w.Objects.Drop(cave.L(3, 4), object.New(kind, 1))
		return newEngine(w, highSource{}, project.Options{}), func() (int, int) {
			return rat.HP, w.Objects.Len()
		}
	}
	ball := func(flags project.Flag) project.Request {
		return project.Request{Origin: cave.L(3, 3), Target: cave.L(3, 3), Radius: 2, Damage: 50, Effect: effect.Fire, Flags: flags}
	}

	t.Run("item only", func(t *testing.T) {
		e, state := setup(t)
		e.Resolve(ball(project.FlagItem))
		hp, objs := state()
		assert.Equal(t, 200, hp)
		assert.Zero(t, objs)
	})
	t.Run("kill only", func(t *testing.T) {
		e, state := setup(t)
		e.Resolve(ball(project.FlagKill))
		hp, objs := state()
		assert.Equal(t, 150, hp)
		assert.Equal(t, 1, objs)
	})
	t.Run("mark only runs nothing", func(t *testing.T) {
		e, state := setup(t)
		res := e.Resolve(ball(project.FlagKill | project.FlagItem | project.FlagMarkOnly))
		hp, objs := state()
		assert.Equal(t, 200, hp)
		assert.Equal(t, 1, objs)
		assert.NotEmpty(t, res.Grids)
		assert.Equal(t, 50, res.Table[0])
		assert.Empty(t, res.Messages)
		assert.False(t, res.Obvious)
	})
}

func TestResolve_UnknownEffectDoesNothing(t *testing.T) {
	w := openWorld(t, 5, 7)
	placePlayer(t, w, cave.L(1, 1), player.Template{})
	rat := place(t, w, "rat", cave.L(1, 4))
	e := newEngine(w, highSource{}, project.Options{})

	res := e.Resolve(bolt(cave.L(1, 4), effect.Type(999), 50))

	assert.False(t, res.Obvious)
	assert.Equal(t, 200, rat.HP)
	assert.Equal(t, 100, w.Player.HP)
}

func TestResolve_AnimatorAndHooks(t *testing.T) {
	w := openWorld(t, 5, 7)
	placePlayer(t, w, cave.L(1, 1), player.Template{})
	anim := &recordingAnimator{}
	hooks := &recordingHooks{}
	e := newEngine(w, highSource{}, project.Options{Animator: anim, Hooks: hooks})

	e.Project(bolt(cave.L(1, 4), effect.Fire, 10))
	assert.Len(t, anim.bolts, 1)
	assert.Len(t, anim.blasts, 1)
	assert.Equal(t, []effect.Type{effect.Fire}, hooks.projections)

	req := bolt(cave.L(1, 4), effect.Cold, 10)
	req.Flags |= project.FlagHide
	e.Project(req)
	assert.Len(t, anim.bolts, 1, "hidden projections are not drawn")
	assert.Len(t, anim.blasts, 1)
	assert.Equal(t, []effect.Type{effect.Fire, effect.Cold}, hooks.projections)

	req.Flags |= project.FlagMarkOnly
	e.Project(req)
	assert.Len(t, hooks.projections, 2, "previews do not fire hooks")
}

func TestResolve_LogsOneDebugLinePerProjection(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := openWorld(t, 5, 7)
	placePlayer(t, w, cave.L(1, 1), player.Template{})
	e := project.NewEngine(w, dice.NewLoggedRoller(highSource{}, nil), zap.New(core), project.Options{})

	e.Project(bolt(cave.L(1, 4), effect.Acid, 10))

	entries := logs.FilterMessage("projection").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "acid", fields["effect"])
	assert.Equal(t, "stop|kill", fields["flags"])
}

func TestResolve_CasterFootingBoostsFire(t *testing.T) {
	w := openWorld(t, 3, 9)
	p := placePlayer(t, w, cave.L(1, 1), player.Template{})
	rat := place(t, w, "rat", cave.L(1, 4))
	w.Cave.SetFeat(p.Loc, cave.FeatLava)
	e := newEngine(w, highSource{}, project.Options{})

	e.Project(bolt(rat.Loc, effect.Fire, 30))

	assert.Equal(t, 160, rat.HP)
}
