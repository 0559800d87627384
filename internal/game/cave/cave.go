package cave

import "fmt"

// Occupant ids stored on a square.
const (
	NoOccupant     = 0
	PlayerOccupant = -1
)

type square struct {
	feat FeatureID
	occ  int
	lit  bool
}

// Cave is one dungeon level.
//
// It is not safe for concurrent use; the engine runs one projection at a time.
type Cave struct {
	Height int
	Width  int
	sq     []square
}

// New creates a height×width cave of open floor. Callers that want an
// enclosed level wall it off with Enclose.
//
// Precondition: height >= 3 and width >= 3.
func New(height, width int) (*Cave, error) {
	if height < 3 || width < 3 {
		return nil, fmt.Errorf("cave: dimensions %dx%d too small (min 3x3)", height, width)
	}
	c := &Cave{Height: height, Width: width, sq: make([]square, height*width)}
	for i := range c.sq {
		c.sq[i].feat = FeatFloor
	}
	return c, nil
}

// Enclose turns the outer edge of the cave into permanent wall.
func (c *Cave) Enclose() {
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			if y == 0 || x == 0 || y == c.Height-1 || x == c.Width-1 {
				c.sq[y*c.Width+x].feat = FeatPermanent
			}
		}
	}
}

// InBounds reports whether l lies inside the grid.
func (c *Cave) InBounds(l Loc) bool {
	return l.Y >= 0 && l.X >= 0 && l.Y < c.Height && l.X < c.Width
}

// InBoundsFully reports whether l lies inside the grid and off its edge.
func (c *Cave) InBoundsFully(l Loc) bool {
	return l.Y > 0 && l.X > 0 && l.Y < c.Height-1 && l.X < c.Width-1
}

func (c *Cave) at(l Loc) *square {
	return &c.sq[l.Y*c.Width+l.X]
}

// Feat returns the feature id at l; out-of-bounds squares report FeatNone.
func (c *Cave) Feat(l Loc) FeatureID {
	if !c.InBounds(l) {
		return FeatNone
	}
	return c.at(l).feat
}

// Feature returns the feature table row for the square at l.
func (c *Cave) Feature(l Loc) *Feature { return Lookup(c.Feat(l)) }

// SetFeat replaces the terrain at l. Out-of-bounds writes are ignored.
func (c *Cave) SetFeat(l Loc, f FeatureID) {
	if c.InBounds(l) {
		c.at(l).feat = f
	}
}

// Occupant returns the occupant id at l.
func (c *Cave) Occupant(l Loc) int {
	if !c.InBounds(l) {
		return NoOccupant
	}
	return c.at(l).occ
}

// SetOccupant writes the occupant id at l.
func (c *Cave) SetOccupant(l Loc, id int) {
	if c.InBounds(l) {
		c.at(l).occ = id
	}
}

// Lit reports whether the square at l is illuminated.
func (c *Cave) Lit(l Loc) bool {
	return c.InBounds(l) && c.at(l).lit
}

// SetLit sets the illumination of the square at l.
func (c *Cave) SetLit(l Loc, lit bool) {
	if c.InBounds(l) {
		c.at(l).lit = lit
	}
}

// Passable reports whether actors can stand on l.
func (c *Cave) Passable(l Loc) bool {
	return c.InBounds(l) && c.Feature(l).Has(Passable)
}

// Projectable reports whether projections and sight pass through l.
func (c *Cave) Projectable(l Loc) bool {
	return c.InBounds(l) && c.Feature(l).Has(Projectable)
}

// Empty reports whether l is passable floor-like terrain with no occupant.
func (c *Cave) Empty(l Loc) bool {
	return c.Passable(l) && c.Occupant(l) == NoOccupant
}
