package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/player"
)

func TestNew_ParsesTemplate(t *testing.T) {
	p, err := player.New(player.Template{
		Name:        "Frodo",
		HP:          40,
		MaxHP:       50,
		AC:          30,
		Stats:       map[string]int{"con": 16},
		Resists:     map[string]int{"fire": 150, "cold": -50},
		Protections: []string{"free_action", "hold_life"},
	})
	require.NoError(t, err)
	assert.Equal(t, 16, p.Stats[player.StatCon])
	assert.Equal(t, 10, p.Stats[player.StatStr])
	assert.Equal(t, 100, p.ResistPercent(effect.ElemFire), "clamped to 100")
	assert.Equal(t, -50, p.ResistPercent(effect.ElemCold))
	assert.Equal(t, 0, p.ResistPercent(effect.ElemNone))
	assert.True(t, p.Has(player.FreeAction|player.HoldLife))
	assert.False(t, p.Has(player.ProtFear))
	assert.Equal(t, 1, p.Level)
	assert.NotNil(t, p.Conditions)
}

func TestNew_ReportsAllUnknownNames(t *testing.T) {
	_, err := player.New(player.Template{
		Stats:       map[string]int{"luck": 3},
		Resists:     map[string]int{"wood": 10},
		Protections: []string{"prot_cake"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat luck")
	assert.Contains(t, err.Error(), "resist wood")
	assert.Contains(t, err.Error(), "protection prot_cake")
}

func TestTakeHit_DiesOnlyBelowZero(t *testing.T) {
	p, err := player.New(player.Template{Name: "x", HP: 10})
	require.NoError(t, err)
	assert.False(t, p.TakeHit(10, "a kobold"))
	assert.Equal(t, 0, p.HP)
	assert.False(t, p.IsDead())
	assert.True(t, p.TakeHit(1, "a kobold"))
	assert.Equal(t, "a kobold", p.DiedFrom)
	assert.False(t, p.TakeHit(0, "nothing"))
}

func TestDrainStat_RespectsSustainAndFloor(t *testing.T) {
	p, err := player.New(player.Template{Stats: map[string]int{"str": 4}, Protections: []string{"sustain_dex"}})
	require.NoError(t, err)
	assert.True(t, p.DrainStat(player.StatStr))
	assert.False(t, p.DrainStat(player.StatStr), "floor at 3")
	assert.False(t, p.DrainStat(player.StatDex))
	assert.Equal(t, "dex", player.StatDex.String())
}

func TestLoseExp_HoldLifeKeepsMost(t *testing.T) {
	p, err := player.New(player.Template{Exp: 1000, Protections: []string{"hold_life"}})
	require.NoError(t, err)
	assert.Equal(t, 50, p.LoseExp(500))
	assert.Equal(t, 950, p.Exp)
}

func TestExp_NeverNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p, err := player.New(player.Template{Exp: rapid.IntRange(0, 1000).Draw(rt, "exp")})
		if err != nil {
			rt.Fatal(err)
		}
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, "gain") {
				p.GainExp(rapid.IntRange(-10, 500).Draw(rt, "amt"))
			} else {
				p.LoseExp(rapid.IntRange(-10, 500).Draw(rt, "amt"))
			}
			if p.Exp < 0 || p.Exp > p.MaxExp {
				rt.Fatalf("exp %d max %d", p.Exp, p.MaxExp)
			}
		}
	})
}
