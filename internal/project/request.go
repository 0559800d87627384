// Package project resolves projections: bolts, beams, balls and arcs of an
// effect type fired across the cave, and everything they do to terrain,
// floor objects, monsters and the player.
package project

import (
	"strings"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
)

// Flag is a bitset shaping a projection and gating its resolver passes.
type Flag uint32

// Projection flags.
const (
	// FlagJump starts the projection at the target instead of the caster.
	FlagJump Flag = 1 << iota
	// FlagBeam affects every grid along the path at full strength.
	FlagBeam
	// FlagArc shapes the blast as a sector centred on the caster.
	FlagArc
	// FlagThru continues the path past the target.
	FlagThru
	// FlagStop ends the path at the first occupied grid.
	FlagStop
	// FlagGrid runs the terrain pass.
	FlagGrid
	// FlagItem runs the floor-object pass.
	FlagItem
	// FlagKill runs the monster pass.
	FlagKill
	// FlagPlayer runs the player pass.
	FlagPlayer
	// FlagHide suppresses animation.
	FlagHide
	// FlagMarkOnly computes the affected grids and damage table and stops.
	FlagMarkOnly
	// FlagSelf lets the player be hit by their own projection.
	FlagSelf
)

var flagNames = []struct {
	f    Flag
	name string
}{
	{FlagJump, "jump"}, {FlagBeam, "beam"}, {FlagArc, "arc"}, {FlagThru, "thru"},
	{FlagStop, "stop"}, {FlagGrid, "grid"}, {FlagItem, "item"}, {FlagKill, "kill"},
	{FlagPlayer, "player"}, {FlagHide, "hide"}, {FlagMarkOnly, "mark_only"}, {FlagSelf, "self"},
}

// Has reports whether every bit of f is set.
func (fl Flag) Has(f Flag) bool { return fl&f == f }

// String joins the set flag names with "|".
func (fl Flag) String() string {
	var parts []string
	for _, n := range flagNames {
		if fl.Has(n.f) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseFlags maps names such as "grid", "KILL" to a Flag set. Unknown names
// are returned separately.
func ParseFlags(names []string) (Flag, []string) {
	var out Flag
	var unknown []string
	for _, raw := range names {
		n := strings.ToLower(strings.TrimSpace(raw))
		found := false
		for _, fn := range flagNames {
			if fn.name == n {
				out |= fn.f
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, raw)
		}
	}
	return out, unknown
}

// Request describes one projection. It is not modified by the engine.
type Request struct {
	// Caster is cave.PlayerOccupant, a monster id, or cave.NoOccupant for
	// traps and other sourceless projections.
	Caster int
	// Origin is where a sourceless projection starts; ignored otherwise.
	Origin cave.Loc
	Target cave.Loc
	Radius int
	Damage int
	Effect effect.Type
	Flags  Flag
	// ArcDegrees is the full width of an arc.
	ArcDegrees int
	// SourceDiameter flattens the falloff of a ball; 0 gives the classic curve.
	SourceDiameter int
}

// Result reports everything a projection did.
type Result struct {
	// Obvious is true when any pass produced something the player noticed.
	Obvious bool
	// Path is the traced path, origin first; empty for arcs.
	Path []cave.Loc
	// Centre is the blast epicenter.
	Centre cave.Loc
	// Grids is the affected-grid set ordered by distance.
	Grids []geometry.BlastGrid
	// Table is the damage per distance.
	Table []int
	// Messages are player-facing lines in the order they occurred.
	Messages []string
	// Killed lists the ids of monsters that died.
	Killed []int
	// PlayerDied is set when the player's hp fell below zero.
	PlayerDied bool
	// TriggeredTraps lists traps that went off while being disarmed.
	TriggeredTraps []cave.Loc
	// Gold is the total gold dropped by dying monsters.
	Gold int
	// Marked counts deferred work items queued by the primary passes.
	Marked int
	// Deferred counts deferred work items that changed the world.
	Deferred int
}

// DamageAt returns the table damage for a blast distance.
func (r *Result) DamageAt(dist int) int {
	if dist < 0 || dist >= len(r.Table) {
		return 0
	}
	return r.Table[dist]
}

// Affected reports whether l is in the affected-grid set.
func (r *Result) Affected(l cave.Loc) bool {
	for _, g := range r.Grids {
		if g.Loc == l {
			return true
		}
	}
	return false
}

func (r *Result) msg(s string) {
	r.Messages = append(r.Messages, s)
}
