package geometry

import (
	"math"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
)

// MaxArcRadius bounds arc radius and the reach of the precomputed angle table.
const MaxArcRadius = 20

// ArcTolerance is added to half the arc width to compensate for the 2°
// resolution of the angle table.
const ArcTolerance = 6

// angleTable holds the bearing of every offset within MaxArcRadius in 2°
// units (0..179), measured counter-clockwise from east with north at 45.
var angleTable = buildAngleTable()

func buildAngleTable() [2*MaxArcRadius + 1][2*MaxArcRadius + 1]int {
	var tbl [2*MaxArcRadius + 1][2*MaxArcRadius + 1]int
	for dy := -MaxArcRadius; dy <= MaxArcRadius; dy++ {
		for dx := -MaxArcRadius; dx <= MaxArcRadius; dx++ {
			tbl[dy+MaxArcRadius][dx+MaxArcRadius] = coarseAngle(dy, dx)
		}
	}
	return tbl
}

func coarseAngle(dy, dx int) int {
	if dy == 0 && dx == 0 {
		return 0
	}
	deg := math.Atan2(float64(-dy), float64(dx)) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return int(math.Round(deg/2)) % 180
}

// AngleTo returns the coarse bearing in degrees (even values in 0..358) of
// offset d, with east at 0 and north at 90.
func AngleTo(d cave.Loc) int {
	if iabs(d.Y) <= MaxArcRadius && iabs(d.X) <= MaxArcRadius {
		return angleTable[d.Y+MaxArcRadius][d.X+MaxArcRadius] * 2
	}
	return coarseAngle(d.Y, d.X) * 2
}

// Deviation returns the smallest absolute angle between two bearings.
func Deviation(a, b int) int {
	d := iabs(a-b) % 360
	if d > 180 {
		d = 360 - d
	}
	return d
}
