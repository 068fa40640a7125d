package miniset

import (
	"github.com/samdwyer/dungeonseed/internal/rng"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Scatter walks every origin in row-major order and stamps p with the
// given percent chance wherever the footprint matches, the origin lies
// outside avoid and no replacement tile already appears in the
// surrounding neighbourhood. It returns the number of stamps.
func Scatter(r *rng.Engine, g *world.TileGrid, p Pattern, chance int, avoid world.Room) int {
	placed := 0
	for sy := 0; sy < world.Height-p.Height; sy++ {
		for sx := 0; sx < world.Width-p.Width; sx++ {
			found := true
			if !avoid.Empty() && avoid.Contains(sx, sy) {
				found = false
			}
			if found && !p.Matches(g, sx, sy) {
				found = false
			}
			if found && p.nearby(g, sx, sy) {
				found = false
			}
			if found && r.Intn(100) < chance {
				p.StampAt(g, sx, sy)
				placed++
			}
		}
	}
	return placed
}

// nearby reports whether the first replacement tile already occurs within
// one footprint of (sx, sy). The scan runs past the grid edge.
func (p Pattern) nearby(g *world.TileGrid, sx, sy int) bool {
	first := p.replace[0]
	for yy := sy - p.Height; yy < sy+2*p.Height; yy++ {
		for xx := sx - p.Width; xx < sx+2*p.Width; xx++ {
			if g.At(xx, yy) == first {
				return true
			}
		}
	}
	return false
}
