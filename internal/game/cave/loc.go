// Package cave models the dungeon level as a grid of squares: a terrain
// feature id, an occupant id and a lit flag per square.
package cave

import "fmt"

// Loc is a grid coordinate. Y grows downward, X grows rightward.
type Loc struct {
	Y int
	X int
}

// L is shorthand for Loc{Y: y, X: x}.
func L(y, x int) Loc { return Loc{Y: y, X: x} }

// Add returns the component-wise sum of l and d.
func (l Loc) Add(d Loc) Loc { return Loc{Y: l.Y + d.Y, X: l.X + d.X} }

// String renders "(y,x)".
func (l Loc) String() string { return fmt.Sprintf("(%d,%d)", l.Y, l.X) }

// Distance is the octagonal approximation used for every range and falloff
// computation: the longer axis plus half the shorter axis, rounded down.
//
// Postcondition: Distance(a, b) == Distance(b, a) and Distance(a, a) == 0.
func Distance(a, b Loc) int {
	ay := abs(a.Y - b.Y)
	ax := abs(a.X - b.X)
	if ay > ax {
		return ay + ax/2
	}
	return ax + ay/2
}

// Adjacent holds the eight neighbour offsets in clockwise order from north.
var Adjacent = [8]Loc{
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
