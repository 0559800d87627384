package geometry

import "github.com/cory-johannsen/spellcast/internal/game/cave"

// DefaultMaxGrids is the cap on the size of one blast.
const DefaultMaxGrids = 256

// Shape distinguishes the blast collectors.
type Shape int

const (
	// ShapeBall explodes in every direction from the centre.
	ShapeBall Shape = iota
	// ShapeArc explodes within an angular sector.
	ShapeArc
)

// Blast describes an area to collect.
type Blast struct {
	Centre cave.Loc
	Radius int
	Shape  Shape
	// Toward is the far end of the arc's centerline. Ignored for balls.
	Toward cave.Loc
	// Degrees is the full arc width. Zero degrades the arc to a beam.
	Degrees int
	// Scorch adds one layer of opaque grids whose near face is visible.
	Scorch bool
}

// BlastGrid is one member of an affected-grid set.
type BlastGrid struct {
	Loc  cave.Loc
	Dist int
}

// CollectBlast gathers every grid b touches, sorted ascending by distance
// from the centre.
//
// Postcondition: no Loc appears twice and len(result) <= maxGrids. Extra
// grids beyond the cap are dropped silently, farthest first.
func CollectBlast(t Terrain, b Blast, maxGrids int) []BlastGrid {
	if maxGrids <= 0 || !t.InBounds(b.Centre) {
		return nil
	}
	radius := max(b.Radius, 0)

	var centerline, halfWidth int
	if b.Shape == ShapeArc {
		if b.Toward == b.Centre {
			return nil
		}
		radius = min(radius, MaxArcRadius)
		if b.Degrees <= 0 {
			return beamGrids(t, b.Centre, b.Toward, radius, maxGrids)
		}
		centerline = AngleTo(cave.Loc{Y: b.Toward.Y - b.Centre.Y, X: b.Toward.X - b.Centre.X})
		halfWidth = b.Degrees/2 + ArcTolerance
	}

	grids := []BlastGrid{{Loc: b.Centre, Dist: 0}}
	for y := b.Centre.Y - radius; y <= b.Centre.Y+radius; y++ {
		for x := b.Centre.X - radius; x <= b.Centre.X+radius; x++ {
			l := cave.L(y, x)
			if l == b.Centre || !t.InBounds(l) {
				continue
			}
			dist := cave.Distance(b.Centre, l)
			if dist > radius {
				continue
			}
			if b.Shape == ShapeArc {
				off := cave.Loc{Y: y - b.Centre.Y, X: x - b.Centre.X}
				if Deviation(AngleTo(off), centerline) > halfWidth {
					continue
				}
			}
			if t.Projectable(l) {
				if InLineOfSight(t, b.Centre, l) {
					grids = append(grids, BlastGrid{Loc: l, Dist: dist})
				}
			} else if b.Scorch && nearFaceVisible(t, b.Centre, l, radius) {
				grids = append(grids, BlastGrid{Loc: l, Dist: dist})
			}
		}
	}

	grids = SortByDistance(grids, radius)
	if len(grids) > maxGrids {
		grids = grids[:maxGrids]
	}
	return grids
}

// nearFaceVisible reports whether the opaque grid l borders a projectable
// grid inside the blast that the centre can see, and l itself is visible.
func nearFaceVisible(t Terrain, centre, l cave.Loc, radius int) bool {
	if !InLineOfSight(t, centre, l) {
		return false
	}
	for _, d := range cave.Adjacent {
		n := l.Add(d)
		if !t.Projectable(n) || cave.Distance(centre, n) > radius {
			continue
		}
		if InLineOfSight(t, centre, n) {
			return true
		}
	}
	return false
}

// beamGrids turns a path into a blast set where every grid is at distance 0.
func beamGrids(t Terrain, from, toward cave.Loc, length, maxGrids int) []BlastGrid {
	path := TracePath(t, from, toward, length, PathThru)
	if len(path) > maxGrids {
		path = path[:maxGrids]
	}
	out := make([]BlastGrid, len(path))
	for i, l := range path {
		out[i] = BlastGrid{Loc: l}
	}
	return out
}

// SortByDistance stable-sorts grids by Dist using buckets 0..maxDist. Grids
// with a distance above maxDist are placed in the last bucket.
func SortByDistance(grids []BlastGrid, maxDist int) []BlastGrid {
	if maxDist < 0 {
		maxDist = 0
	}
	buckets := make([][]BlastGrid, maxDist+1)
	for _, g := range grids {
		d := min(max(g.Dist, 0), maxDist)
		buckets[d] = append(buckets[d], g)
	}
	out := grids[:0:0]
	for _, b := range buckets {
		out = append(out, b...)
	}
	return out
}
