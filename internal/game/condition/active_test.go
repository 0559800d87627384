package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellcast/internal/game/condition"
)

func stun() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "stunned", DurationType: condition.DurationTurns, MaxDuration: 20, ACPenalty: 5}
}

func cursed() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "cursed", DurationType: condition.DurationPermanent, MaxStacks: 3}
}

func sleep() *condition.ConditionDef {
	return &condition.ConditionDef{ID: "asleep", DurationType: condition.DurationTurns, BreaksOnDamage: true, RestrictActions: []string{"act"}}
}

func TestApply_NewConditionUnstackable(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stun(), 4, 10))
	assert.True(t, s.Has("stunned"))
	assert.Equal(t, 1, s.Stacks("stunned"))
	assert.Equal(t, 10, s.Duration("stunned"))
}

func TestApply_DurationCappedAndKeepsLonger(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stun(), 1, 50))
	assert.Equal(t, 20, s.Duration("stunned"))
	require.NoError(t, s.Apply(stun(), 1, 3))
	assert.Equal(t, 20, s.Duration("stunned"))
}

func TestApply_PermanentStacksCapped(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(cursed(), 2, 7))
	require.NoError(t, s.Apply(cursed(), 2, 7))
	assert.Equal(t, 3, s.Stacks("cursed"))
	assert.Equal(t, -1, s.Duration("cursed"))
}

func TestApply_NilDef(t *testing.T) {
	assert.Error(t, condition.NewActiveSet().Apply(nil, 1, 1))
}

func TestExtend_AddsTurns(t *testing.T) {
	s := condition.NewActiveSet()
	fresh, err := s.Extend(stun(), 6)
	require.NoError(t, err)
	assert.True(t, fresh)
	fresh, err = s.Extend(stun(), 6)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, 12, s.Duration("stunned"))
	_, err = s.Extend(stun(), 100)
	require.NoError(t, err)
	assert.Equal(t, 20, s.Duration("stunned"))
}

func TestExtend_RejectsBadInput(t *testing.T) {
	s := condition.NewActiveSet()
	_, err := s.Extend(nil, 1)
	assert.Error(t, err)
	_, err = s.Extend(stun(), 0)
	assert.Error(t, err)
}

func TestDamaged_BreaksSleep(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(sleep(), 1, 30))
	require.NoError(t, s.Apply(stun(), 1, 3))
	assert.Equal(t, []string{"asleep"}, s.Damaged())
	assert.False(t, s.Has("asleep"))
	assert.True(t, s.Has("stunned"))
}

func TestAll_OrderedByID(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stun(), 1, 3))
	require.NoError(t, s.Apply(sleep(), 1, 3))
	require.NoError(t, s.Apply(cursed(), 1, 3))
	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, "asleep", all[0].Def.ID)
	assert.Equal(t, "cursed", all[1].Def.ID)
	assert.Equal(t, "stunned", all[2].Def.ID)
	assert.Equal(t, 3, s.Len())
}

func TestProperty_DurationNeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := condition.NewActiveSet()
		def := stun()
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			turns := rapid.IntRange(1, 40).Draw(rt, "turns")
			if _, err := s.Extend(def, turns); err != nil {
				rt.Fatalf("extend: %v", err)
			}
			if d := s.Duration("stunned"); d < 1 || d > def.MaxDuration {
				rt.Fatalf("duration %d outside [1,%d]", d, def.MaxDuration)
			}
		}
	})
}
