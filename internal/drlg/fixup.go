package drlg

import (
	"github.com/samdwyer/dungeonseed/internal/rng"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Rule is a single neighbour rewrite evaluated at every cell of a pass.
type Rule struct {
	At     world.Tile // tile required at (x, y)
	DX, DY int        // neighbour offset
	Near   world.Tile // tile required at the neighbour, or forbidden with Not
	Not    bool
	Any    bool // skip the neighbour test
	To     world.Tile
	Self   bool // rewrite (x, y) instead of the neighbour
	Also   []Cond
}

// Cond requires tile T at offset (DX, DY) from the rule's cell.
type Cond struct {
	DX, DY int
	T      world.Tile
}

// when returns a copy of r that also requires cs.
func (r Rule) when(cs ...Cond) Rule {
	r.Also = cs
	return r
}

// put rewrites the cell at (dx, dy) to to whatever it holds, provided the
// conditions hold.
func put(at world.Tile, dx, dy int, to world.Tile, cs ...Cond) Rule {
	return Rule{At: at, DX: dx, DY: dy, Any: true, To: to, Also: cs}
}

func cell(dx, dy int, t world.Tile) Cond {
	return Cond{DX: dx, DY: dy, T: t}
}

// fix rewrites the neighbour at (dx, dy) from near to to when the cell holds at.
func fix(at world.Tile, dx, dy int, near, to world.Tile) Rule {
	return Rule{At: at, DX: dx, DY: dy, Near: near, To: to}
}

// become rewrites the cell itself to to when the neighbour at (dx, dy)
// holds near.
func become(at world.Tile, dx, dy int, near, to world.Tile) Rule {
	return Rule{At: at, DX: dx, DY: dy, Near: near, To: to, Self: true}
}

// dirt rewrites the cell itself to to when the neighbour at (dx, dy) does
// not hold near.
func dirt(at world.Tile, dx, dy int, near, to world.Tile) Rule {
	return Rule{At: at, DX: dx, DY: dy, Near: near, Not: true, To: to, Self: true}
}

// RuleSet is an ordered list of rules. Every rule is tried at every cell;
// later rules observe the writes of earlier ones.
type RuleSet []Rule

// apply runs the rules over [x0, x1) x [y0, y1) in row-major order.
// Neighbours past the grid edge read as 0 and writes there are dropped.
func (rs RuleSet) apply(g *world.TileGrid, x0, y0, x1, y1 int) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			for _, r := range rs {
				if g.At(x, y) != r.At {
					continue
				}
				nx, ny := x+r.DX, y+r.DY
				if !r.Any && (g.At(nx, ny) == r.Near) == r.Not {
					continue
				}
				if !r.holds(g, x, y) {
					continue
				}
				if r.Self {
					g.Set(x, y, r.To)
				} else {
					g.Set(nx, ny, r.To)
				}
			}
		}
	}
}

func (r Rule) holds(g *world.TileGrid, x, y int) bool {
	for _, c := range r.Also {
		if g.At(x+c.DX, y+c.DY) != c.T {
			return false
		}
	}
	return true
}

// applyAll runs the rules over the whole coarse grid.
func (rs RuleSet) applyAll(g *world.TileGrid) {
	rs.apply(g, 0, 0, world.Width, world.Height)
}

// passes runs each rule set over the whole grid in turn.
func passes(g *world.TileGrid, sets []RuleSet) {
	for _, rs := range sets {
		rs.applyAll(g)
	}
}

// Substitution swaps tiles for random variants that share a base type.
type Substitution struct {
	// Base maps a tile id to its base type; 0 means never substituted.
	Base []world.Tile
	// Variants is the range of the variant draw.
	Variants int
	// Odds gives each cell a one in Odds chance; zero means four.
	Odds int
	// Avoid excludes cells whose column and row both fall outside it.
	Avoid world.Room
	// Spacing rejects a variant already present in the surrounding
	// 2*Spacing square. Zero disables the check.
	Spacing int
	// FlagsBlock skips flagged cells.
	FlagsBlock bool
	// Adjust may rewrite the chosen variant and its neighbours.
	Adjust func(g *world.TileGrid, x, y int, k world.Tile) world.Tile
}

func (s Substitution) base(t world.Tile) world.Tile {
	if int(t) >= len(s.Base) {
		return 0
	}
	return s.Base[t]
}

// variant returns the tile id holding the rv-th occurrence of base type c,
// counting cyclically from the start of the table.
func (s Substitution) variant(c world.Tile, rv int) world.Tile {
	k := -1
	for rv >= 0 {
		k++
		if k == len(s.Base) {
			k = 0
		}
		if s.Base[k] == c {
			rv--
		}
	}
	return world.Tile(k)
}

func (s Substitution) avoided(x, y int) bool {
	if s.Avoid.Empty() {
		return false
	}
	x2, y2 := s.Avoid.Max()
	return !((x < s.Avoid.X || x > x2) && (y < s.Avoid.Y || y > y2))
}

// apply considers every cell outside Avoid with a one in Odds chance.
func (s Substitution) apply(r *rng.Engine, g *world.TileGrid) {
	odds := s.Odds
	if odds == 0 {
		odds = 4
	}
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if s.avoided(x, y) || r.Intn(odds) != 0 {
				continue
			}
			c := s.base(g.At(x, y))
			if c == 0 || (s.FlagsBlock && g.Flags(x, y) != 0) {
				continue
			}
			k := s.variant(c, r.Intn(s.Variants))
			if s.Spacing > 0 && s.repeated(g, x, y, k) {
				continue
			}
			if s.Adjust != nil {
				k = s.Adjust(g, x, y, k)
			}
			g.Set(x, y, k)
		}
	}
}

func (s Substitution) repeated(g *world.TileGrid, x, y int, k world.Tile) bool {
	for j := y - s.Spacing; j < y+s.Spacing; j++ {
		for i := x - s.Spacing; i < x+s.Spacing; i++ {
			if g.At(i, j) == k {
				return true
			}
		}
	}
	return false
}

// ShadowRule matches a trigger base type at (x, y) and its north-west,
// north and west neighbours, then writes shadow tiles onto those
// neighbours. Zero fields are wildcards or no-ops.
type ShadowRule struct {
	Trigger     world.Tile
	NW, N, W    world.Tile
	SetNW, SetN world.Tile
	SetW        world.Tile
}

// ShadowSet pairs shadow rules with the base type table they match against.
type ShadowSet struct {
	Base  []world.Tile
	Rules []ShadowRule
	// KeepFlagged skips writes onto flagged cells.
	KeepFlagged bool
}

func (s ShadowSet) base(t world.Tile) world.Tile {
	if int(t) >= len(s.Base) {
		return 0
	}
	return s.Base[t]
}

func (s ShadowSet) apply(g *world.TileGrid) {
	for y := 1; y < world.Height; y++ {
		for x := 1; x < world.Width; x++ {
			here := s.base(g.At(x, y))
			nw := s.base(g.At(x-1, y-1))
			n := s.base(g.At(x, y-1))
			w := s.base(g.At(x-1, y))
			for _, r := range s.Rules {
				if r.Trigger != here {
					continue
				}
				if (r.NW != 0 && r.NW != nw) || (r.N != 0 && r.N != n) || (r.W != 0 && r.W != w) {
					continue
				}
				s.write(g, x-1, y-1, r.SetNW)
				s.write(g, x, y-1, r.SetN)
				s.write(g, x-1, y, r.SetW)
			}
		}
	}
}

func (s ShadowSet) write(g *world.TileGrid, x, y int, t world.Tile) {
	if t == 0 || (s.KeepFlagged && g.Flags(x, y) != 0) {
		return
	}
	g.Set(x, y, t)
}

// baseTable builds a base type table of size n from groups of tiles that
// share a base type. The first tile of every group is the base itself.
func baseTable(n int, groups ...[]world.Tile) []world.Tile {
	t := make([]world.Tile, n)
	for _, grp := range groups {
		for _, id := range grp {
			t[id] = grp[0]
		}
	}
	return t
}
