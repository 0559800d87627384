package object

import (
	"sort"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
)

// Store tracks object piles by grid. The first object in a pile is its head.
// It is not safe for concurrent use; the caller must serialise access.
type Store struct {
	piles map[cave.Loc][]*Object
}

// NewStore creates an empty Store.
//
// Postcondition: returned Store is ready for use with zero objects.
func NewStore() *Store {
	return &Store{piles: make(map[cave.Loc][]*Object)}
}

// Drop places obj at the bottom of the pile at l.
func (s *Store) Drop(l cave.Loc, obj *Object) {
	s.piles[l] = append(s.piles[l], obj)
}

// Pile returns a snapshot of the objects at l, head first.
//
// Postcondition: returned slice is a copy; mutations do not affect internal state.
func (s *Store) Pile(l cave.Loc) []*Object {
	items := s.piles[l]
	out := make([]*Object, len(items))
	copy(out, items)
	return out
}

// Remove deletes the object with instanceID from the pile at l.
// Returns false if it is not there.
func (s *Store) Remove(l cave.Loc, instanceID string) bool {
	items := s.piles[l]
	for i, o := range items {
		if o.InstanceID == instanceID {
			items = append(items[:i:i], items[i+1:]...)
			if len(items) == 0 {
				delete(s.piles, l)
			} else {
				s.piles[l] = items
			}
			return true
		}
	}
	return false
}

// Move relocates one object between piles.
func (s *Store) Move(from, to cave.Loc, instanceID string) bool {
	for _, o := range s.piles[from] {
		if o.InstanceID == instanceID {
			s.Remove(from, instanceID)
			s.Drop(to, o)
			return true
		}
	}
	return false
}

// Locs returns every grid holding a pile, in row-major order.
func (s *Store) Locs() []cave.Loc {
	out := make([]cave.Loc, 0, len(s.piles))
	for l := range s.piles {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Len returns the total number of objects on the floor.
func (s *Store) Len() int {
	n := 0
	for _, p := range s.piles {
		n += len(p)
	}
	return n
}
