package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/player"
	"github.com/cory-johannsen/spellcast/internal/project"
)

// fixedSource rolls v, or the highest value when v is out of range.
type fixedSource struct{ v int }

func (s fixedSource) Intn(n int) int { return min(s.v, n-1) }

// trapAt is a sourceless projection that strikes only the player at l.
func trapAt(l cave.Loc, e effect.Type, dam int) project.Request {
	return project.Request{Origin: l, Target: l, Damage: dam, Effect: e, Flags: project.FlagPlayer}
}

func TestResolvePlayer_ResistanceWithJitter(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  dice.Source
		want int
	}{
		// 50% resistance jitters by up to 10 points either way.
		{"low roll", lowSource{}, 100 - 60},
		{"high roll", highSource{}, 100 - 40},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := openWorld(t, 5, 5)
			p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, Resists: map[string]int{"fire": 50}})
			e := newEngine(w, tc.src, project.Options{})

			res := e.Resolve(trapAt(p.Loc, effect.Fire, 100))

			assert.Equal(t, tc.want, p.HP)
			assert.True(t, res.Obvious)
			assert.Contains(t, res.Messages, "You are hit by fire!")
		})
	}
}

func TestResolvePlayer_FullImmunityBlocksAll(t *testing.T) {
	w := openWorld(t, 5, 5)
	p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, Resists: map[string]int{"acid": 100}})
	e := newEngine(w, lowSource{}, project.Options{})

	e.Resolve(trapAt(p.Loc, effect.Acid, 80))

	assert.Equal(t, 100, p.HP)
}

func TestResolvePlayer_ArmourDeflectsOrGlances(t *testing.T) {
	t.Run("deflect", func(t *testing.T) {
		w := openWorld(t, 5, 5)
		p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, AC: 80})
		e := newEngine(w, lowSource{}, project.Options{})

		res := e.Resolve(trapAt(p.Loc, effect.Arrow, 100))

		assert.Equal(t, 100, p.HP)
		assert.Contains(t, res.Messages, "Your armour deflects the blow.")
	})
	t.Run("glance", func(t *testing.T) {
		w := openWorld(t, 5, 5)
		p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, AC: 80})
		e := newEngine(w, highSource{}, project.Options{})

		e.Resolve(trapAt(p.Loc, effect.Arrow, 100))

		// 100 - 100*80/400
		assert.Equal(t, 20, p.HP)
	})
	t.Run("non-physical ignores armour", func(t *testing.T) {
		w := openWorld(t, 5, 5)
		p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, AC: 80})
		e := newEngine(w, lowSource{}, project.Options{})

		e.Resolve(trapAt(p.Loc, effect.Mana, 60))

		assert.Equal(t, 40, p.HP)
	})
}

func TestResolvePlayer_StunWeakensArmour(t *testing.T) {
	w := openWorld(t, 5, 5)
	p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, AC: 80})
	stun, ok := w.Conditions.Get(condition.Stunned)
	require.True(t, ok)
	require.NoError(t, p.Conditions.Apply(stun, 1, 5))
	e := newEngine(w, highSource{}, project.Options{})

	e.Resolve(trapAt(p.Loc, effect.Arrow, 100))

	// 100 - 100*(80-5)/400
	assert.Equal(t, 18, p.HP)
}

func TestResolvePlayer_HelplessCannotEvade(t *testing.T) {
	w := openWorld(t, 5, 5)
	p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, Evasion: 100})
	e := newEngine(w, lowSource{}, project.Options{})

	res := e.Resolve(trapAt(p.Loc, effect.Mana, 10))
	assert.Equal(t, 100, p.HP)
	assert.Contains(t, res.Messages, "You evade something.")

	para, ok := w.Conditions.Get(condition.Paralyzed)
	require.True(t, ok)
	require.NoError(t, p.Conditions.Apply(para, 1, 5))

	res = e.Resolve(trapAt(p.Loc, effect.Mana, 10))
	assert.Equal(t, 90, p.HP)
	assert.NotContains(t, res.Messages, "You evade something.")
}

func TestResolvePlayer_EvasionIsHalvedAgainstAreas(t *testing.T) {
	src := fixedSource{v: 30}

	w := openWorld(t, 5, 5)
	p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100, Evasion: 40})
	e := newEngine(w, src, project.Options{})
	res := e.Resolve(trapAt(p.Loc, effect.Mana, 10))
	assert.Equal(t, 100, p.HP, "a roll of 30 is under the full 40")
	assert.Contains(t, res.Messages, "You evade something.")

	req := trapAt(p.Loc, effect.Mana, 10)
	req.Radius = 1
	e.Resolve(req)
	assert.Equal(t, 90, p.HP, "a roll of 30 is over the halved 20")
}

func TestResolvePlayer_OwnProjectionNeedsSelfFlag(t *testing.T) {
	w := openWorld(t, 5, 5)
	p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100})
	e := newEngine(w, highSource{}, project.Options{})
	req := project.Request{
		Caster: cave.PlayerOccupant, Target: p.Loc, Radius: 1, Damage: 20,
		Effect: effect.Missile, Flags: project.FlagPlayer,
	}

	e.Resolve(req)
	assert.Equal(t, 100, p.HP)

	req.Flags |= project.FlagSelf
	e.Resolve(req)
	assert.Equal(t, 80, p.HP)
}

func TestResolvePlayer_TerrainUnderfoot(t *testing.T) {
	w := openWorld(t, 5, 5)
	p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 200})
	w.Cave.SetFeat(p.Loc, cave.FeatShallowWater)
	e := newEngine(w, highSource{}, project.Options{})

	e.Resolve(trapAt(p.Loc, effect.Elec, 60))

	assert.Equal(t, 200-80, p.HP)
}

func TestResolvePlayer_DeathIsReported(t *testing.T) {
	w := openWorld(t, 3, 7)
	p := placePlayer(t, w, cave.L(1, 1), player.Template{HP: 10})
	rat := place(t, w, "rat", cave.L(1, 4))
	deaths := &recordingDeaths{}
	e := newEngine(w, highSource{}, project.Options{Deaths: deaths})

	res := e.Resolve(project.Request{
		Caster: rat.ID, Target: p.Loc, Damage: 50,
		Effect: effect.Missile, Flags: project.FlagPlayer | project.FlagStop,
	})

	assert.True(t, res.PlayerDied)
	assert.True(t, p.IsDead())
	assert.Equal(t, "a giant rat", p.DiedFrom)
	assert.Equal(t, "a giant rat", deaths.killer)
	assert.Contains(t, res.Messages, "You die.")
}

func TestResolvePlayer_SideEffects(t *testing.T) {
	for _, tc := range []struct {
		name  string
		e     effect.Type
		tmpl  player.Template
		cond  string
		wants bool
	}{
		{"poison", effect.Pois, player.Template{}, condition.Poisoned, true},
		{"poison protected", effect.Pois, player.Template{Protections: []string{"prot_pois"}}, condition.Poisoned, false},
		{"poison resisted", effect.Pois, player.Template{Resists: map[string]int{"pois": 30}}, condition.Poisoned, false},
		{"sound stuns", effect.Sound, player.Template{}, condition.Stunned, true},
		{"shards cut", effect.Shard, player.Template{}, condition.Cut, true},
		{"hold paralyses", effect.MonHold, player.Template{}, condition.Paralyzed, true},
		{"free action", effect.MonHold, player.Template{Protections: []string{"free_action"}}, condition.Paralyzed, false},
		{"saving throw", effect.MonConf, player.Template{Save: 100}, condition.Confused, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := openWorld(t, 5, 5)
			tc.tmpl.HP = 500
			p := placePlayer(t, w, cave.L(2, 2), tc.tmpl)
			e := newEngine(w, highSource{}, project.Options{})

			e.Resolve(trapAt(p.Loc, tc.e, 30))

			assert.Equal(t, tc.wants, p.Conditions.Has(tc.cond))
		})
	}
}

func TestResolvePlayer_MonsterSpellsDoNoDamage(t *testing.T) {
	w := openWorld(t, 5, 5)
	p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 100})
	e := newEngine(w, highSource{}, project.Options{})

	e.Resolve(trapAt(p.Loc, effect.MonSlow, 50))
	assert.Equal(t, 100, p.HP)
	assert.True(t, p.Conditions.Has(condition.Slowed))

	assert.False(t, e.Project(trapAt(p.Loc, effect.MonHeal, 50)), "healing monsters means nothing to the player")
}

func TestResolvePlayer_ExperienceDrain(t *testing.T) {
	for _, tc := range []struct {
		name string
		prot []string
		want int
	}{
		{"drained", nil, 1000 - 220},
		{"hold life", []string{"hold_life"}, 1000 - 22},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := openWorld(t, 5, 5)
			p := placePlayer(t, w, cave.L(2, 2), player.Template{HP: 500, Exp: 1000, Protections: tc.prot})
			e := newEngine(w, highSource{}, project.Options{})

			e.Resolve(trapAt(p.Loc, effect.Nether, 30))

			require.False(t, p.IsDead())
			assert.Equal(t, tc.want, p.Exp)
			assert.Equal(t, 1000, p.MaxExp)
		})
	}
}

func TestResolvePlayer_GravityTeleportsShortRange(t *testing.T) {
	w := openWorld(t, 21, 21)
	p := placePlayer(t, w, cave.L(10, 10), player.Template{HP: 500})
	e := project.NewEngine(w, dice.NewLoggedRoller(dice.NewSeededSource(3), nil), nil, project.Options{})

	res := e.Resolve(trapAt(p.Loc, effect.Gravity, 30))

	assert.Equal(t, 1, res.Marked)
	assert.LessOrEqual(t, cave.Distance(cave.L(10, 10), p.Loc), 5)
	assert.Equal(t, cave.PlayerOccupant, w.Cave.Occupant(p.Loc))
}
