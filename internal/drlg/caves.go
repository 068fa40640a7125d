package drlg

import (
	"github.com/samdwyer/dungeonseed/internal/miniset"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Cave tile ids.
const (
	caveFloor world.Tile = 7
	caveSolid world.Tile = 8
	caveLava  world.Tile = 33
)

// poolMark tags cells visited by the lava pool search.
const poolMark world.Tile = 0x80

var cavesConv = ConvTable{8, 11, 3, 10, 1, 9, 12, 12, 6, 13, 4, 13, 2, 14, 5, 7}

var caveView = world.Point{X: 17, Y: 19}

var (
	caveStairsUp = miniset.New(3, 3,
		[]world.Tile{8, 8, 0, 10, 10, 0, 7, 7, 0},
		[]world.Tile{51, 50, 0, 48, 49, 0, 0, 0, 0})
	caveStairsDown = miniset.New(3, 3,
		[]world.Tile{8, 9, 7, 8, 9, 7, 0, 0, 0},
		[]world.Tile{0, 47, 0, 0, 46, 0, 0, 0, 0})
	caveWarp = miniset.New(3, 3,
		[]world.Tile{8, 8, 0, 10, 10, 0, 7, 7, 0},
		[]world.Tile{125, 125, 0, 125, 125, 0, 0, 0, 0})
)

// caveDecor is a scattered cave set and its percent chance.
type caveDecor struct {
	set    miniset.Pattern
	chance int
}

func caveSet(w, h int, search, replace []world.Tile, chance int) caveDecor {
	return caveDecor{set: miniset.New(w, h, search, replace), chance: chance}
}

func caveFloors(n int) []world.Tile {
	s := make([]world.Tile, n)
	for i := range s {
		s[i] = caveFloor
	}
	return s
}

var (
	caveIsle1 = miniset.New(2, 3, []world.Tile{5, 14, 4, 9, 13, 12}, []world.Tile{7, 7, 7, 7, 7, 7})
	caveIsle2 = miniset.New(3, 2, []world.Tile{5, 2, 14, 4, 8, 13}, []world.Tile{7, 7, 7, 7, 7, 7})
	caveIsle3 = miniset.New(2, 3, []world.Tile{5, 14, 4, 9, 13, 12}, []world.Tile{29, 30, 25, 28, 31, 32})
	caveIsle4 = miniset.New(3, 2, []world.Tile{5, 2, 14, 4, 8, 13}, []world.Tile{29, 26, 30, 31, 27, 32})
	caveIsle5 = miniset.New(2, 2, []world.Tile{5, 14, 13, 12}, []world.Tile{7, 7, 7, 7})

	// Isles are tried in this order, some sets twice.
	caveIsles = []caveDecor{
		{caveIsle1, 70}, {caveIsle2, 70}, {caveIsle3, 30}, {caveIsle4, 30},
		{caveIsle1, 100}, {caveIsle2, 100}, {caveIsle5, 90},
	}

	caveStalagmites = []caveDecor{
		caveSet(4, 4, caveFloors(16), []world.Tile{0, 0, 0, 0, 0, 57, 58, 0, 0, 56, 55, 0, 0, 0, 0, 0}, 10),
		caveSet(4, 4, caveFloors(16), []world.Tile{0, 0, 0, 0, 0, 61, 60, 0, 0, 59, 62, 0, 0, 0, 0, 0}, 10),
		caveSet(4, 4, caveFloors(16), []world.Tile{0, 0, 0, 0, 0, 65, 64, 0, 0, 63, 66, 0, 0, 0, 0, 0}, 10),
		caveSet(5, 4, caveFloors(20), []world.Tile{0, 0, 0, 0, 0, 0, 77, 78, 0, 0, 0, 76, 74, 75, 0, 0, 0, 0, 0, 0}, 20),
		caveSet(4, 5, caveFloors(20), []world.Tile{0, 0, 0, 0, 0, 83, 0, 0, 0, 82, 80, 0, 0, 81, 79, 0, 0, 0, 0, 0}, 20),
		caveSet(3, 3, caveFloors(9), []world.Tile{0, 0, 0, 0, 52, 0, 0, 0, 0}, 20),
		caveSet(3, 3, caveFloors(9), []world.Tile{0, 0, 0, 0, 53, 0, 0, 0, 0}, 20),
		caveSet(3, 3, caveFloors(9), []world.Tile{0, 0, 0, 0, 54, 0, 0, 0, 0}, 20),
		caveSet(3, 3, caveFloors(9), []world.Tile{0, 0, 0, 0, 67, 0, 0, 0, 0}, 30),
		caveSet(2, 1, []world.Tile{9, 7}, []world.Tile{68, 0}, 20),
		caveSet(1, 2, []world.Tile{10, 7}, []world.Tile{69, 0}, 20),
	}

	caveCrevices = []caveDecor{
		caveSet(2, 1, []world.Tile{8, 7}, []world.Tile{84, 85}, 30),
		caveSet(2, 1, []world.Tile{8, 11}, []world.Tile{86, 87}, 30),
		caveSet(1, 2, []world.Tile{8, 10}, []world.Tile{89, 88}, 30),
		caveSet(2, 1, []world.Tile{8, 7}, []world.Tile{90, 91}, 30),
		caveSet(1, 2, []world.Tile{8, 11}, []world.Tile{92, 93}, 30),
		caveSet(1, 2, []world.Tile{8, 10}, []world.Tile{95, 94}, 30),
		caveSet(2, 1, []world.Tile{8, 7}, []world.Tile{96, 101}, 30),
		caveSet(1, 2, []world.Tile{2, 8}, []world.Tile{102, 97}, 30),
		caveSet(2, 1, []world.Tile{3, 8}, []world.Tile{103, 98}, 30),
		caveSet(2, 1, []world.Tile{4, 8}, []world.Tile{104, 99}, 30),
		caveSet(1, 2, []world.Tile{6, 8}, []world.Tile{105, 100}, 30),
	}

	caveExtras = []caveDecor{
		caveSet(1, 1, []world.Tile{7}, []world.Tile{106}, 25),
		caveSet(1, 1, []world.Tile{7}, []world.Tile{107}, 25),
		caveSet(1, 1, []world.Tile{7}, []world.Tile{108}, 25),
		caveSet(1, 1, []world.Tile{9}, []world.Tile{109}, 25),
		caveSet(1, 1, []world.Tile{10}, []world.Tile{110}, 25),
	}
)

// caveHallFix closes the gaps isles leave at wall corners. The second pass
// opens a corner together with the two cells that complete the square.
var caveHallFix = []RuleSet{
	{
		become(5, 1, 1, caveFloor, caveFloor),
	},
	{
		put(5, 0, 1, caveFloor, cell(1, 1, 12), cell(1, 0, caveFloor)),
		fix(5, 1, 1, 12, caveFloor).when(cell(1, 0, caveFloor), cell(0, 1, caveFloor)),
		put(5, 1, 0, caveFloor, cell(1, 1, 12), cell(0, 1, caveFloor)),
		fix(5, 1, 1, 12, caveFloor).when(cell(0, 1, caveFloor), cell(1, 0, caveFloor)),
		become(5, 1, 1, caveFloor, caveFloor).when(cell(1, 0, caveFloor), cell(0, 1, caveFloor)),
	},
}

// Warp pieces written over the first complete warp block.
var caveWarpTiles = [4]world.Tile{156, 155, 153, 154}

// Lava pool substitutes, indexed by the tile they replace.
var poolSub = [15]world.Tile{0, 35, 26, 36, 25, 29, 34, 7, 33, 28, 27, 37, 32, 31, 30}

// Spread masks of the pool search. The low nibble continues through open
// directions and the high nibble follows edges: N 8/0x80, S 4/0x40,
// E 2/0x20, W 1/0x10.
var (
	edgeSpread = [15]uint8{0x00, 0x0A, 0x43, 0x05, 0x2c, 0x06, 0x09, 0x00, 0x00, 0x1c, 0x83, 0x06, 0x09, 0x0A, 0x05}
	openSpread = [15]uint8{0x00, 0x0A, 0x03, 0x05, 0x0C, 0x06, 0x09, 0x00, 0x00, 0x0C, 0x03, 0x06, 0x09, 0x0A, 0x05}
)

func spread(table *[15]uint8, t world.Tile) uint8 {
	if int(t) >= len(table) {
		return 0
	}
	return table[t]
}

// caves grows organic layouts from a seed room by stacking random blocks.
type caves struct {
	lava bool
}

func (c *caves) carve(g *gen) {
	x1 := g.rng.Intn(20) + 10
	y1 := g.rng.Intn(20) + 10
	x2, y2 := x1+2, y1+2
	c.fillRoom(g, x1, y1, x2, y2)
	c.createBlock(g, x1, y1, 2, 0)
	c.createBlock(g, x2, y1, 2, 1)
	c.createBlock(g, x1, y2, 2, 2)
	c.createBlock(g, x1, y1, 2, 3)

	c.fillDiags(g)
	c.fillSingles(g)
	c.fillStraights(g)
	c.fillDiags(g)

	p := g.grid.Coarse()
	for j := 0; j < world.Height; j++ {
		p.Set(world.Width-1, j, 0)
	}
	for i := 0; i < world.Width; i++ {
		p.Set(i, world.Height-1, 0)
	}
}

// fillRoom opens an empty rectangle with a ragged border.
func (c *caves) fillRoom(g *gen, x1, y1, x2, y2 int) bool {
	if x1 <= 1 || x2 >= 34 || y1 <= 1 || y2 >= 38 {
		return false
	}
	p := g.grid.Coarse()
	for j := y1; j <= y2; j++ {
		for i := x1; i <= x2; i++ {
			if p.At(i, j) != 0 {
				return false
			}
		}
	}

	for j := y1 + 1; j < y2; j++ {
		for i := x1 + 1; i < x2; i++ {
			p.Set(i, j, 1)
		}
	}
	for j := y1; j <= y2; j++ {
		if g.rng.Intn(2) != 0 {
			p.Set(x1, j, 1)
		}
		if g.rng.Intn(2) != 0 {
			p.Set(x2, j, 1)
		}
	}
	for i := x1; i <= x2; i++ {
		if g.rng.Intn(2) != 0 {
			p.Set(i, y1, 1)
		}
		if g.rng.Intn(2) != 0 {
			p.Set(i, y2, 1)
		}
	}
	g.addRoom(world.RoomFromCorners(x1, y1, x2, y2))
	return true
}

// createBlock attaches a 3-4 cell block to the side dir of the block at
// (x, y) and keeps growing from it three times in four.
func (c *caves) createBlock(g *gen, x, y, obs, dir int) {
	w := g.rng.Intn(2) + 3
	h := g.rng.Intn(2) + 3

	offset := func(size, at int) int {
		switch {
		case size < obs:
			return g.rng.Intn(size) + at
		case size == obs:
			return at
		default:
			return at - g.rng.Intn(size)
		}
	}

	var x1, y1, x2, y2 int
	switch dir {
	case 0:
		y2 = y - 1
		y1 = y2 - h
		x1 = offset(w, x)
		x2 = w + x1
	case 3:
		x2 = x - 1
		x1 = x2 - w
		y1 = offset(h, y)
		y2 = y1 + h
	case 2:
		x1 = x + 1
		x2 = x1 + w
		y1 = offset(h, y)
		y2 = y1 + h
	case 1:
		y1 = y + 1
		y2 = y1 + h
		x1 = offset(w, x)
		x2 = w + x1
	}

	if !c.fillRoom(g, x1, y1, x2, y2) {
		return
	}
	if g.rng.Intn(4) == 0 {
		return
	}
	if dir != 2 {
		c.createBlock(g, x1, y1, h, 0)
	}
	if dir != 3 {
		c.createBlock(g, x2, y1, w, 1)
	}
	if dir != 0 {
		c.createBlock(g, x1, y2, h, 2)
	}
	if dir != 1 {
		c.createBlock(g, x1, y1, w, 3)
	}
}

func quad(p *world.Plane, i, j int) int {
	return int(p.At(i+1, j+1)) + 2*int(p.At(i, j+1)) + 4*int(p.At(i+1, j)) + 8*int(p.At(i, j))
}

// fillDiags opens one side of every diagonal-only contact.
func (c *caves) fillDiags(g *gen) {
	p := g.grid.Coarse()
	for j := 0; j < world.Height-1; j++ {
		for i := 0; i < world.Width-1; i++ {
			switch quad(p, i, j) {
			case 6:
				if g.rng.Intn(2) == 0 {
					p.Set(i, j, 1)
				} else {
					p.Set(i+1, j+1, 1)
				}
			case 9:
				if g.rng.Intn(2) == 0 {
					p.Set(i+1, j, 1)
				} else {
					p.Set(i, j+1, 1)
				}
			}
		}
	}
}

// fillSingles opens closed cells pinched between open rows.
func (c *caves) fillSingles(g *gen) {
	p := g.grid.Coarse()
	for j := 1; j < world.Height-1; j++ {
		for i := 1; i < world.Width-1; i++ {
			if p.At(i, j) != 0 {
				continue
			}
			above := p.At(i, j-1) + p.At(i-1, j-1) + p.At(i+1, j-1)
			sides := p.At(i+1, j) + p.At(i-1, j)
			below := p.At(i, j+1) + p.At(i-1, j+1) + p.At(i+1, j+1)
			if above == 3 && sides == 2 && below == 3 {
				p.Set(i, j, 1)
			}
		}
	}
}

// fillStraights roughens long straight edges.
func (c *caves) fillStraights(g *gen) {
	p := g.grid.Coarse()
	type edge struct {
		here, next world.Tile
		vertical   bool
		far        bool // rewrite the neighbour row or column
	}
	for _, e := range []edge{{0, 1, false, false}, {1, 0, false, true}, {0, 1, true, false}, {1, 0, true, true}} {
		for a := 0; a < world.Height-1; a++ {
			run, start := 0, 0
			for b := 0; b < 37; b++ {
				x, y, nx, ny := b, a, b, a+1
				if e.vertical {
					x, y, nx, ny = a, b, a+1, b
				}
				if p.At(x, y) == e.here && p.At(nx, ny) == e.next {
					if run == 0 {
						start = b
					}
					run++
					continue
				}
				if run > 3 && g.rng.Intn(2) != 0 {
					for k := start; k < b; k++ {
						rx, ry := k, a
						if e.vertical {
							rx, ry = a, k
						}
						if e.far {
							if e.vertical {
								rx++
							} else {
								ry++
							}
						}
						p.Set(rx, ry, world.Tile(g.rng.Intn(2)))
					}
				}
				run = 0
			}
		}
	}
}

func isCaveOpen(t world.Tile) bool { return t == 1 }

// validate requires enough floor, all of it reachable from the last open
// cell.
func (c *caves) validate(g *gen) bool {
	p := g.grid.Coarse()
	if world.OpenArea(p, isCaveOpen) < g.def.MinArea {
		return false
	}
	last, ok := world.LastOpen(p, isCaveOpen)
	if !ok {
		return false
	}
	return world.FloodReachable(p, last, isCaveOpen)
}

func (c *caves) resolve(g *gen) {
	p := g.grid.Coarse()
	for j := 0; j < world.Height-1; j++ {
		for i := 0; i < world.Width-1; i++ {
			v := quad(p, i, j)
			switch v {
			case 6:
				if g.rng.Intn(2) == 0 {
					v = 12
				} else {
					v = 5
				}
			case 9:
				if g.rng.Intn(2) == 0 {
					v = 13
				} else {
					v = 10
				}
			}
			p.Set(i, j, cavesConv[v])
		}
		p.Set(world.Width-1, j, caveSolid)
	}
	for i := 0; i < world.Width; i++ {
		p.Set(i, world.Height-1, caveSolid)
	}
}

func (c *caves) placeStairs(g *gen) bool {
	opt := miniset.Options{
		Min:        1,
		Max:        1,
		Search:     miniset.SearchRedraw,
		ViewOffset: caveView,
	}

	up, ok := g.stamp(caveStairsUp, opt, g.entry == EntryMain, true)
	if !ok {
		return false
	}
	g.level.Anchors.StairsUp = up.Origin
	down, ok := g.stamp(caveStairsDown, opt, g.entry == EntryPrev, false)
	if !ok {
		return false
	}
	g.level.Anchors.StairsDown = down.Origin
	if g.entry == EntryPrev {
		g.level.Anchors.View = g.level.Anchors.View.Add(2, -2)
	}
	if g.def.TownWarp {
		warp, ok := g.stamp(caveWarp, opt, g.entry == EntryTownWarp, false)
		if !ok {
			return false
		}
		g.level.Anchors.Warp = warp.Origin
		g.level.Anchors.HasWarp = true
	}
	return true
}

// finish floods enclosed solid areas with lava; a level without a pool is
// rejected.
func (c *caves) finish(g *gen) bool {
	c.lava = false
	p := g.grid.Coarse()
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if p.At(x, y) != caveSolid {
				continue
			}
			p.Set(x, y, caveSolid|poolMark)
			area := 1
			found := true
			if x+1 < world.Width {
				found = c.spawnEdge(p, x+1, y, &area)
			}
			// Each later probe runs only while nothing was found, and
			// otherwise forces found.
			if x-1 > 0 && !found {
				found = c.spawnEdge(p, x-1, y, &area)
			} else {
				found = true
			}
			if y+1 < world.Height && !found {
				found = c.spawnEdge(p, x, y+1, &area)
			} else {
				found = true
			}
			if y-1 > 0 && !found {
				found = c.spawnEdge(p, x, y-1, &area)
			} else {
				found = true
			}

			chance := g.rng.Intn(100)
			for j := y - area; j < y+area; j++ {
				for i := x - area; i < x+area; i++ {
					t := p.At(i, j)
					if t&poolMark == 0 {
						continue
					}
					t &^= poolMark
					p.Set(i, j, t)
					if area > 4 && chance < 25 && !found {
						if k := poolSubstitute(t); k != 0 && k <= 37 {
							p.Set(i, j, k)
						}
						c.lava = true
					}
				}
			}
		}
	}
	if !c.lava {
		g.logger.Debug("no lava pool", "attempt", g.level.Attempts)
	}
	return c.lava
}

func poolSubstitute(t world.Tile) world.Tile {
	if int(t) >= len(poolSub) {
		return 0
	}
	return poolSub[t]
}

// spawnEdge and spawnOpen flood the pool candidate around (x, y). They
// report true when the area leaks off the grid or grows past 40 cells.
func (c *caves) spawnEdge(p *world.Plane, x, y int, area *int) bool {
	t, stop, ok := c.visit(p, x, y, area)
	if !ok {
		return stop
	}
	s := spread(&edgeSpread, t)
	steps := []struct {
		bit    uint8
		dx, dy int
		edge   bool
	}{
		{8, 0, -1, false}, {4, 0, 1, false}, {2, 1, 0, false}, {1, -1, 0, false},
		{0x80, 0, -1, true}, {0x40, 0, 1, true}, {0x20, 1, 0, true}, {0x10, -1, 0, true},
	}
	for _, st := range steps {
		if s&st.bit == 0 {
			continue
		}
		var leak bool
		if st.edge {
			leak = c.spawnEdge(p, x+st.dx, y+st.dy, area)
		} else {
			leak = c.spawnOpen(p, x+st.dx, y+st.dy, area)
		}
		if leak {
			return true
		}
	}
	return false
}

func (c *caves) spawnOpen(p *world.Plane, x, y int, area *int) bool {
	t, stop, ok := c.visit(p, x, y, area)
	if !ok {
		return stop
	}
	if t == caveSolid {
		return false
	}
	s := spread(&openSpread, t)
	for _, st := range [4]struct {
		bit    uint8
		dx, dy int
	}{{8, 0, -1}, {4, 0, 1}, {2, 1, 0}, {1, -1, 0}} {
		if s&st.bit != 0 && c.spawnEdge(p, x+st.dx, y+st.dy, area) {
			return true
		}
	}
	return false
}

// visit marks (x, y) as part of the pool. ok is false when the search
// should not continue from the cell, with stop as the result to report.
func (c *caves) visit(p *world.Plane, x, y int, area *int) (t world.Tile, stop, ok bool) {
	if *area > 40 || !p.In(x, y) {
		return 0, true, false
	}
	t = p.At(x, y)
	if t&poolMark != 0 {
		return 0, false, false
	}
	if t > 15 {
		return 0, true, false
	}
	p.Set(x, y, t|poolMark)
	*area++
	return t, false, true
}

func (c *caves) fixup(g *gen) {
	isLava := func(t world.Tile) bool { return t >= 25 && t <= 41 }
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if g.grid.At(x, y) != caveSolid {
				continue
			}
			surrounded := true
			for dy := -1; dy <= 1 && surrounded; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if (dx != 0 || dy != 0) && !isLava(g.grid.At(x+dx, y+dy)) {
						surrounded = false
						break
					}
				}
			}
			if surrounded {
				g.grid.Set(x, y, caveLava)
			}
		}
	}
	c.fixWarp(g)
}

// fixWarp gives the first whole warp block its corner pieces and opens
// wall corners sitting diagonal to floor.
func (c *caves) fixWarp(g *gen) {
	grid := g.grid
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if grid.At(x, y) == 125 && grid.At(x+1, y) == 125 && grid.At(x, y+1) == 125 && grid.At(x+1, y+1) == 125 {
				grid.Set(x, y, caveWarpTiles[0])
				grid.Set(x+1, y, caveWarpTiles[1])
				grid.Set(x, y+1, caveWarpTiles[2])
				grid.Set(x+1, y+1, caveWarpTiles[3])
				return
			}
			if grid.At(x, y) == 5 && grid.At(x+1, y+1) == caveFloor {
				grid.Set(x, y, caveFloor)
			}
		}
	}
}

func scatterCaves(g *gen, sets []caveDecor) int {
	n := 0
	for _, d := range sets {
		n += miniset.Scatter(g.rng, g.grid, d.set, d.chance, world.Room{})
	}
	return n
}

func (c *caves) decorate(g *gen) {
	isles := scatterCaves(g, caveIsles)
	passes(g.grid, caveHallFix)
	n := scatterCaves(g, caveStalagmites)
	n += scatterCaves(g, caveCrevices)
	n += scatterCaves(g, caveExtras)
	g.logger.Debug("cave decoration placed", "isles", isles, "sets", n)
}
