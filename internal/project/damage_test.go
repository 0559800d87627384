package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellcast/internal/project"
)

func TestDistanceTable_BallRadiusTwo(t *testing.T) {
	table := project.DistanceTable(100, 2, 0, 20)
	assert.Len(t, table, 21)
	// (100+2)/3 rounds down to 34.
	assert.Equal(t, []int{100, 50, 34}, table[:3])
	for _, d := range table[3:] {
		assert.Zero(t, d)
	}
}

func TestDistanceTable_SourceDiameterFlattensFalloff(t *testing.T) {
	table := project.DistanceTable(100, 3, 20, 5)
	assert.Equal(t, []int{100, 100, 66, 50, 0, 0}, table)
}

func TestDistanceTable_NegativeBaseIsZero(t *testing.T) {
	for _, d := range project.DistanceTable(-40, 3, 0, 6) {
		assert.Zero(t, d)
	}
}

func TestDistanceTable_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.IntRange(-50, 2000).Draw(rt, "base")
		radius := rapid.IntRange(0, 20).Draw(rt, "radius")
		sd := rapid.IntRange(0, 60).Draw(rt, "sd")
		maxRange := rapid.IntRange(0, 30).Draw(rt, "maxRange")

		table := project.DistanceTable(base, radius, sd, maxRange)
		if len(table) != maxRange+1 {
			rt.Fatalf("len %d, want %d", len(table), maxRange+1)
		}
		for i, d := range table {
			if i > radius && d != 0 {
				rt.Fatalf("table[%d] = %d beyond radius %d", i, d, radius)
			}
			if d > max(base, 0) || d < 0 {
				rt.Fatalf("table[%d] = %d outside [0,%d]", i, d, base)
			}
			if i > 0 && d > table[i-1] {
				rt.Fatalf("table increases at %d: %v", i, table)
			}
		}
		if table[0] != max(base, 0) {
			rt.Fatalf("table[0] = %d, want %d", table[0], max(base, 0))
		}
	})
}
