package world

import (
	"strings"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
)

// Render draws the level one row per line: '@' for the player, a monster's
// glyph (or its race initial) for monsters, and the feature glyph elsewhere.
// Grids in mark are drawn with '•' unless occupied.
func (w *World) Render(mark map[cave.Loc]bool) string {
	var b strings.Builder
	for y := 0; y < w.Cave.Height; y++ {
		for x := 0; x < w.Cave.Width; x++ {
			l := cave.L(y, x)
			b.WriteRune(w.glyphAt(l, mark[l]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (w *World) glyphAt(l cave.Loc, marked bool) rune {
	occ := w.Cave.Occupant(l)
	switch {
	case occ == cave.PlayerOccupant:
		return '@'
	case occ > 0:
		if m, ok := w.Monsters.Get(occ); ok {
			g := m.Race.Glyph
			if m.Form != nil {
				g = m.Form.Glyph
			}
			if g == "" {
				g = m.Name()
			}
			return []rune(g)[0]
		}
	}
	if marked {
		return '•'
	}
	return w.Cave.Feature(l).Glyph
}
