// Package miniset stamps small tile patterns onto a level grid.
package miniset

import (
	"fmt"

	"github.com/samdwyer/dungeonseed/internal/world"
)

// Pattern is a search footprint and the replacement written over it when
// the footprint matches. Zero search cells match anything; zero replacement
// cells leave the tile unchanged. Patterns are immutable.
type Pattern struct {
	Width, Height int
	search        []world.Tile
	replace       []world.Tile
}

// New builds a pattern from row-major footprints. It panics when a
// footprint does not match the size, since patterns are static tables.
func New(width, height int, search, replace []world.Tile) Pattern {
	if len(search) != width*height || len(replace) != width*height {
		panic(fmt.Sprintf("miniset: %dx%d pattern with %d search and %d replace cells",
			width, height, len(search), len(replace)))
	}
	return Pattern{Width: width, Height: height, search: search, replace: replace}
}

// Search returns the search cell at (x, y).
func (p Pattern) Search(x, y int) world.Tile {
	return p.search[y*p.Width+x]
}

// Replace returns the replacement cell at (x, y).
func (p Pattern) Replace(x, y int) world.Tile {
	return p.replace[y*p.Width+x]
}

// Matches reports whether the footprint fits at (sx, sy): every non-zero
// search cell equals the grid tile and no covered cell carries a flag.
func (p Pattern) Matches(g *world.TileGrid, sx, sy int) bool {
	for yy := 0; yy < p.Height; yy++ {
		for xx := 0; xx < p.Width; xx++ {
			s := p.Search(xx, yy)
			if s != 0 && g.At(sx+xx, sy+yy) != s {
				return false
			}
			if g.Flags(sx+xx, sy+yy) != 0 {
				return false
			}
		}
	}
	return true
}

// StampAt writes the replacement footprint with its corner at (sx, sy).
func (p Pattern) StampAt(g *world.TileGrid, sx, sy int) {
	for yy := 0; yy < p.Height; yy++ {
		for xx := 0; xx < p.Width; xx++ {
			if r := p.Replace(xx, yy); r != 0 {
				g.Stamp(sx+xx, sy+yy, r)
			}
		}
	}
}
