// Package geometry implements the spatial side of projections: line of
// sight, straight-path tracing and blast-area collection.
//
// All routines are integer-only apart from the one-time construction of the
// coarse angle table, so identical inputs always produce identical grids.
package geometry

import "github.com/cory-johannsen/spellcast/internal/game/cave"

// Terrain is the read-only view of the level that geometry needs.
// *cave.Cave satisfies it.
type Terrain interface {
	InBounds(l cave.Loc) bool
	Projectable(l cave.Loc) bool
	Occupant(l cave.Loc) int
}

// PathFlag modifies how TracePath stops.
type PathFlag uint8

const (
	// PathThru continues past the target until range or an obstruction.
	PathThru PathFlag = 1 << iota
	// PathStop stops at the first occupied grid after the origin.
	PathStop
)

// TracePath returns the grids a projection crosses travelling from origin
// toward target.
//
// The first element is always origin. Tracing stops at the target unless
// PathThru is set, at the first non-projectable grid (which is included, so
// wall-affecting bolts reach it), at the first occupied grid when PathStop is
// set, at the edge of the map, and silently once the distance from origin
// reaches maxRange.
//
// Postcondition: TracePath(t, o, o, r, f) == []cave.Loc{o}.
func TracePath(t Terrain, origin, target cave.Loc, maxRange int, flags PathFlag) []cave.Loc {
	path := []cave.Loc{origin}
	if origin == target || maxRange <= 0 {
		return path
	}

	dy, dx := target.Y-origin.Y, target.X-origin.X
	sy, sx := sign(dy), sign(dx)
	ay, ax := iabs(dy), iabs(dx)

	// Fractions are measured in units where one grid is full = 2*ay*ax, so the
	// minor axis advances whenever the running fraction crosses half a grid.
	half := ay * ax
	full := half * 2
	var frac, slope int

	cur := origin
	switch {
	case ay > ax:
		frac = ax * ax
		slope = frac * 2
		cur.Y += sy
	case ax > ay:
		frac = ay * ay
		slope = frac * 2
		cur.X += sx
	default:
		cur.Y += sy
		cur.X += sx
	}

	for {
		// A diagonal step can add two to the distance; never pass maxRange.
		if !t.InBounds(cur) || cave.Distance(origin, cur) > maxRange {
			break
		}
		path = append(path, cur)
		if cave.Distance(origin, cur) >= maxRange {
			break
		}
		if flags&PathThru == 0 && cur == target {
			break
		}
		if !t.Projectable(cur) {
			break
		}
		if flags&PathStop != 0 && t.Occupant(cur) != cave.NoOccupant {
			break
		}

		switch {
		case ay > ax:
			if slope != 0 {
				frac += slope
				if frac >= half {
					cur.X += sx
					frac -= full
				}
			}
			cur.Y += sy
		case ax > ay:
			if slope != 0 {
				frac += slope
				if frac >= half {
					cur.Y += sy
					frac -= full
				}
			}
			cur.X += sx
		default:
			cur.Y += sy
			cur.X += sx
		}
	}
	return path
}

// InLineOfSight reports whether b is visible from a. Endpoints never block,
// so the near face of a wall is visible.
//
// Postcondition: InLineOfSight(t, a, b) == InLineOfSight(t, b, a).
func InLineOfSight(t Terrain, a, b cave.Loc) bool {
	if !t.InBounds(a) || !t.InBounds(b) {
		return false
	}
	return lineClear(t, a, b) || lineClear(t, b, a)
}

// lineClear walks a Bresenham line from -> to and reports whether every
// intermediate grid is projectable.
func lineClear(t Terrain, from, to cave.Loc) bool {
	dx := iabs(to.X - from.X)
	dy := -iabs(to.Y - from.Y)
	sx, sy := sign(to.X-from.X), sign(to.Y-from.Y)
	err := dx + dy
	x, y := from.X, from.Y
	for {
		if x == to.X && y == to.Y {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if (x != to.X || y != to.Y) && !t.Projectable(cave.L(y, x)) {
			return false
		}
	}
}

// Bearing returns the unit step (each component in -1..1) pointing from a
// toward b.
func Bearing(a, b cave.Loc) cave.Loc {
	return cave.Loc{Y: sign(b.Y - a.Y), X: sign(b.X - a.X)}
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
