package drlg

import (
	"github.com/samdwyer/dungeonseed/internal/miniset"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Cathedral tile ids.
const (
	catVWall   world.Tile = 1
	catHWall   world.Tile = 2
	catCorner  world.Tile = 3
	catFloor   world.Tile = 13
	catPillar  world.Tile = 15
	catSolid   world.Tile = 22
	catFloorA  world.Tile = 162
	catFloorB  world.Tile = 163
	catDirtTop world.Tile = 202
)

var cathedralConv = ConvTable{22, 13, 1, 13, 2, 13, 13, 13, 4, 13, 1, 13, 2, 13, 16, 13}

var (
	cathedralStairsUp = miniset.New(4, 4,
		[]world.Tile{
			13, 13, 13, 13,
			2, 2, 2, 2,
			13, 13, 13, 13,
			13, 13, 13, 13,
		},
		[]world.Tile{
			0, 66, 6, 0,
			63, 64, 65, 0,
			0, 67, 68, 0,
			0, 0, 0, 0,
		})
	cathedralStairsDown = miniset.New(4, 3,
		[]world.Tile{
			13, 13, 13, 13,
			13, 13, 13, 13,
			13, 13, 13, 13,
		},
		[]world.Tile{
			62, 57, 58, 0,
			61, 59, 60, 0,
			0, 0, 0, 0,
		})
	cathedralLamps = miniset.New(2, 2,
		[]world.Tile{13, 0, 13, 13},
		[]world.Tile{129, 0, 130, 128})
)

var cathedralTileFix = []RuleSet{
	{
		fix(2, 1, 0, 22, 23),
		fix(13, 1, 0, 22, 18),
		fix(13, 1, 0, 2, 7),
		fix(6, 1, 0, 22, 24),
		fix(1, 0, 1, 22, 24),
		fix(13, 0, 1, 1, 6),
		fix(13, 0, 1, 22, 19),
	},
	{
		fix(13, 1, 0, 19, 21),
		fix(13, 1, 0, 22, 20),
		fix(7, 1, 0, 22, 23),
		fix(13, 1, 0, 24, 21),
		fix(19, 1, 0, 22, 20),
		fix(2, 1, 0, 19, 21),
		fix(19, 1, 0, 1, 6),
		fix(7, 1, 0, 19, 21),
		fix(2, 1, 0, 1, 6),
		fix(3, 1, 0, 22, 24),
		fix(21, 1, 0, 1, 6),
		fix(7, 1, 0, 1, 6),
		fix(7, 1, 0, 24, 21),
		fix(4, 1, 0, 16, 17),
		fix(7, 1, 0, 13, 17),
		fix(2, 1, 0, 24, 21),
		fix(2, 1, 0, 13, 17),
		fix(23, -1, 0, 22, 19),
		fix(19, -1, 0, 23, 21),
		fix(6, -1, 0, 22, 24),
		fix(6, -1, 0, 23, 21),
		fix(1, 0, 1, 2, 7),
		fix(6, 0, 1, 18, 21),
		fix(18, 0, 1, 2, 7),
		fix(6, 0, 1, 2, 7),
		fix(21, 0, 1, 2, 7),
		fix(6, 0, 1, 22, 24),
		fix(6, 0, 1, 13, 16),
		fix(1, 0, 1, 13, 16),
		fix(13, 0, 1, 16, 17),
		// The second rewrite never fires; the first one already changed the tile.
		fix(6, 0, -1, 22, 7),
		fix(6, 0, -1, 22, 24),
		fix(7, 0, -1, 22, 24),
		fix(18, 0, -1, 22, 24),
	},
	{
		fix(4, 0, 1, 2, 7),
		fix(2, 1, 0, 19, 21),
		fix(18, 0, 1, 22, 20),
	},
}

var cathedralDirtFix = RuleSet{
	dirt(21, 1, 0, 19, 202),
	dirt(19, 1, 0, 19, 200),
	dirt(24, 1, 0, 19, 205),
	dirt(18, 0, 1, 18, 199),
	dirt(21, 0, 1, 18, 202),
	dirt(23, 0, 1, 18, 204),
}

var cathedralSubs = Substitution{
	Base: baseTable(206,
		[]world.Tile{1, 93, 94, 95},
		[]world.Tile{2, 96, 97, 98},
		[]world.Tile{5, 99},
		[]world.Tile{6, 100},
		[]world.Tile{7, 101},
		[]world.Tile{9, 102},
		[]world.Tile{11, 103},
		[]world.Tile{12, 104},
		[]world.Tile{14, 105},
		[]world.Tile{22, 106, 107},
	),
	Variants:   16,
	FlagsBlock: true,
}

var cathedralShadows = ShadowSet{
	Base: baseTable(206,
		[]world.Tile{1, 25, 93, 94, 95},
		[]world.Tile{2, 26, 96, 97, 98},
		[]world.Tile{3}, []world.Tile{4}, []world.Tile{5, 99}, []world.Tile{6, 30, 100},
		[]world.Tile{7, 31, 101}, []world.Tile{8}, []world.Tile{9, 102}, []world.Tile{10, 40},
		[]world.Tile{11, 103}, []world.Tile{12, 104}, []world.Tile{13}, []world.Tile{14, 42, 105},
		[]world.Tile{15}, []world.Tile{16}, []world.Tile{17},
	),
	Rules: []ShadowRule{
		{Trigger: 7, NW: 13, W: 13, SetNW: 144, SetW: 142},
		{Trigger: 16, NW: 13, W: 13, SetNW: 144, SetW: 142},
		{Trigger: 15, NW: 13, W: 13, SetNW: 145, SetW: 13},
		{Trigger: 5, NW: 13, N: 13, W: 13, SetNW: 152, SetN: 140, SetW: 139},
		{Trigger: 5, NW: 13, N: 1, W: 13, SetNW: 143, SetN: 146, SetW: 139},
		{Trigger: 5, NW: 13, N: 13, W: 2, SetNW: 143, SetN: 140, SetW: 148},
		{Trigger: 5, N: 1, W: 2, SetN: 146, SetW: 148},
		{Trigger: 5, NW: 13, N: 11, W: 13, SetNW: 143, SetN: 147, SetW: 139},
		{Trigger: 5, NW: 13, N: 13, W: 12, SetNW: 143, SetN: 140, SetW: 149},
		{Trigger: 5, NW: 13, N: 11, W: 12, SetNW: 150, SetN: 147, SetW: 149},
		{Trigger: 5, NW: 13, N: 1, W: 12, SetNW: 143, SetN: 146, SetW: 149},
		{Trigger: 5, NW: 13, N: 11, W: 2, SetNW: 143, SetN: 147, SetW: 148},
		{Trigger: 9, NW: 13, N: 13, W: 13, SetNW: 144, SetN: 140, SetW: 142},
		{Trigger: 9, NW: 13, N: 1, W: 13, SetNW: 144, SetN: 146, SetW: 142},
		{Trigger: 9, NW: 13, N: 11, W: 13, SetNW: 151, SetN: 147, SetW: 142},
		{Trigger: 8, NW: 13, W: 13, SetNW: 144, SetW: 139},
		{Trigger: 8, NW: 13, W: 12, SetNW: 143, SetW: 149},
		{Trigger: 8, W: 2, SetW: 148},
		{Trigger: 11, W: 13, SetW: 139},
		{Trigger: 11, NW: 13, W: 13, SetNW: 139, SetW: 139},
		{Trigger: 11, NW: 2, W: 13, SetNW: 148, SetW: 139},
		{Trigger: 11, NW: 12, W: 13, SetNW: 149, SetW: 139},
		{Trigger: 11, NW: 13, N: 11, W: 12, SetNW: 139, SetW: 149},
		{Trigger: 14, W: 13, SetW: 139},
		{Trigger: 14, NW: 13, W: 13, SetNW: 139, SetW: 139},
		{Trigger: 14, NW: 2, W: 13, SetNW: 148, SetW: 139},
		{Trigger: 14, NW: 12, W: 13, SetNW: 149, SetW: 139},
		{Trigger: 14, NW: 13, N: 11, W: 12, SetNW: 139, SetW: 149},
		{Trigger: 10, N: 13, SetN: 140},
		{Trigger: 10, NW: 13, N: 13, SetNW: 140, SetN: 140},
		{Trigger: 10, N: 1, SetN: 146},
		{Trigger: 10, NW: 13, N: 11, SetNW: 140, SetN: 147},
		{Trigger: 12, N: 13, SetN: 140},
		{Trigger: 12, NW: 13, N: 13, SetNW: 140, SetN: 140},
		{Trigger: 12, N: 1, SetN: 146},
		{Trigger: 12, NW: 13, N: 11, SetNW: 140, SetN: 147},
		{Trigger: 3, NW: 13, N: 11, W: 12, SetNW: 150},
	},
	KeepFlagged: true,
}

// cathedral builds chamber and corridor levels around a central spine of up
// to three 10x10 chambers.
type cathedral struct {
	// vertical and horizontal hold which of the three spine chambers exist.
	vertical   [3]bool
	horizontal [3]bool
}

func (c *cathedral) carve(g *gen) {
	p := g.grid.Coarse()
	c.vertical = [3]bool{}
	c.horizontal = [3]bool{}

	if g.rng.Intn(2) == 0 {
		ys, ye := 1, world.Height-1
		v := &c.vertical
		v[0] = g.rng.Intn(2) != 0
		v[1] = g.rng.Intn(2) != 0
		v[2] = g.rng.Intn(2) != 0
		if !v[0] || !v[2] {
			v[1] = true
		}
		if v[0] {
			c.drawRoom(g, 15, 1, 10, 10)
		} else {
			ys = 18
		}
		if v[1] {
			c.drawRoom(g, 15, 15, 10, 10)
		}
		if v[2] {
			c.drawRoom(g, 15, 29, 10, 10)
		} else {
			ye = 22
		}
		for y := ys; y < ye; y++ {
			for x := 17; x <= 22; x++ {
				p.Set(x, y, 1)
			}
		}
		for i, y := range [3]int{1, 15, 29} {
			if v[i] {
				c.roomGen(g, 15, y, 10, 10, 0)
			}
		}
		return
	}

	xs, xe := 1, world.Width-1
	h := &c.horizontal
	h[0] = g.rng.Intn(2) != 0
	h[1] = g.rng.Intn(2) != 0
	h[2] = g.rng.Intn(2) != 0
	if !h[0] || !h[2] {
		h[1] = true
	}
	if h[0] {
		c.drawRoom(g, 1, 15, 10, 10)
	} else {
		xs = 18
	}
	if h[1] {
		c.drawRoom(g, 15, 15, 10, 10)
	}
	if h[2] {
		c.drawRoom(g, 29, 15, 10, 10)
	} else {
		xe = 22
	}
	for x := xs; x < xe; x++ {
		for y := 17; y <= 22; y++ {
			p.Set(x, y, 1)
		}
	}
	for i, x := range [3]int{1, 15, 29} {
		if h[i] {
			c.roomGen(g, x, 15, 10, 10, 1)
		}
	}
}

func (c *cathedral) drawRoom(g *gen, x, y, w, h int) {
	p := g.grid.Coarse()
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			p.Set(x+i, y+j, 1)
		}
	}
	g.addRoom(world.Room{X: x, Y: y, Width: w, Height: h})
}

func (c *cathedral) roomFree(g *gen, x, y, w, h int) bool {
	p := g.grid.Coarse()
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			if !p.In(x+i, y+j) || p.At(x+i, y+j) != 0 {
				return false
			}
		}
	}
	return true
}

// roomGen grows rooms off both sides of a room, recursing into every room
// it adds. dir 0 grows sideways unless the direction roll flips it.
func (c *cathedral) roomGen(g *gen, x, y, w, h, dir int) {
	roll := g.rng.Intn(4)
	vertical := roll == 0
	if dir == 1 {
		vertical = roll != 0
	}

	if !vertical {
		var cw, ch, cx1, cy1 int
		ran := false
		for num := 0; !ran && num < 20; num++ {
			cw = (g.rng.Intn(5) + 2) &^ 1
			ch = (g.rng.Intn(5) + 2) &^ 1
			cy1 = h/2 + y - ch/2
			cx1 = x - cw
			// Width and height are swapped in this probe.
			ran = c.roomFree(g, cx1-1, cy1-1, ch+2, cw+1)
		}
		if ran {
			c.drawRoom(g, cx1, cy1, cw, ch)
		}
		cx2 := x + w
		ran2 := c.roomFree(g, cx2, cy1-1, cw+1, ch+2)
		if ran2 {
			c.drawRoom(g, cx2, cy1, cw, ch)
		}
		if ran {
			c.roomGen(g, cx1, cy1, cw, ch, 1)
		}
		if ran2 {
			c.roomGen(g, cx2, cy1, cw, ch, 1)
		}
		return
	}

	var width, height, rx, ry int
	ran := false
	for num := 0; !ran && num < 20; num++ {
		width = (g.rng.Intn(5) + 2) &^ 1
		height = (g.rng.Intn(5) + 2) &^ 1
		rx = w/2 + x - width/2
		ry = y - height
		ran = c.roomFree(g, rx-1, ry-1, width+2, height+1)
	}
	if ran {
		c.drawRoom(g, rx, ry, width, height)
	}
	ry2 := y + h
	ran2 := c.roomFree(g, rx-1, ry2, width+2, height+1)
	if ran2 {
		c.drawRoom(g, rx, ry2, width, height)
	}
	if ran {
		c.roomGen(g, rx, ry, width, height, 0)
	}
	if ran2 {
		c.roomGen(g, rx, ry2, width, height, 0)
	}
}

func (c *cathedral) validate(g *gen) bool {
	return g.grid.Coarse().Count(1) >= g.def.MinArea
}

func (c *cathedral) resolve(g *gen) {
	p := g.grid.Coarse()
	hi := doubled(p)
	p.Fill(catSolid)
	convertBlocks(p, hi, &cathedralConv)

	c.fillChambers(g)
	passes(g.grid, cathedralTileFix)
	partitionCathedral(g)
	g.grid.MaskFlags(^world.FlagChamber)
}

func (c *cathedral) fillChambers(g *gen) {
	h, v := c.horizontal, c.vertical

	if h[0] {
		c.chamber(g, 0, 14, false, false, false, true)
	}
	if h[1] {
		c.chamber(g, 14, 14, false, false, h[0], h[2])
	}
	if h[2] {
		c.chamber(g, 28, 14, false, false, true, false)
	}
	if h[0] && h[1] {
		c.hall(g, 12, 18, 14, 18)
	}
	if h[1] && h[2] {
		c.hall(g, 26, 18, 28, 18)
	}
	if h[0] && !h[1] && h[2] {
		c.hall(g, 12, 18, 28, 18)
	}

	if v[0] {
		c.chamber(g, 14, 0, false, true, false, false)
	}
	if v[1] {
		c.chamber(g, 14, 14, v[0], v[2], false, false)
	}
	if v[2] {
		c.chamber(g, 14, 28, true, false, false, false)
	}
	if v[0] && v[1] {
		c.hall(g, 18, 12, 18, 14)
	}
	if v[1] && v[2] {
		c.hall(g, 18, 26, 18, 28)
	}
	if v[0] && !v[1] && v[2] {
		c.hall(g, 18, 12, 18, 28)
	}
}

// chamber writes a 12x12 chamber with openings on the flagged sides.
func (c *cathedral) chamber(g *gen, sx, sy int, top, bottom, left, right bool) {
	g.level.Chambers = append(g.level.Chambers, world.Room{X: sx, Y: sy, Width: 12, Height: 12})
	p := g.grid.Coarse()
	if top {
		for i, t := range []world.Tile{12, 12, 3, 0, 0, 9, 12, 2} {
			if t != 0 {
				p.Set(sx+2+i, sy, t)
			}
		}
	}
	if bottom {
		y := sy + 11
		for i, t := range []world.Tile{10, 12, 8, 0, 0, 5, 12} {
			if t != 0 {
				p.Set(sx+2+i, y, t)
			}
		}
		if p.At(sx+9, y) != 4 {
			p.Set(sx+9, y, 21)
		}
	}
	if left {
		for i, t := range []world.Tile{11, 11, 3, 0, 0, 8, 11, 1} {
			if t != 0 {
				p.Set(sx, sy+2+i, t)
			}
		}
	}
	if right {
		x := sx + 11
		for i, t := range []world.Tile{14, 11, 9, 0, 0, 5, 11} {
			if t != 0 {
				p.Set(x, sy+2+i, t)
			}
		}
		if p.At(x, sy+9) != 4 {
			p.Set(x, sy+9, 21)
		}
	}

	for j := 1; j < 11; j++ {
		for i := 1; i < 11; i++ {
			p.Set(sx+i, sy+j, catFloor)
			g.grid.AddFlags(sx+i, sy+j, world.FlagChamber)
		}
	}
	for _, o := range [4]world.Point{{X: 4, Y: 4}, {X: 7, Y: 4}, {X: 4, Y: 7}, {X: 7, Y: 7}} {
		p.Set(sx+o.X, sy+o.Y, catPillar)
	}
}

func (c *cathedral) hall(g *gen, x1, y1, x2, y2 int) {
	p := g.grid.Coarse()
	if y1 == y2 {
		for i := x1; i < x2; i++ {
			p.Set(i, y1, 12)
			p.Set(i, y1+3, 12)
		}
		return
	}
	for i := y1; i < y2; i++ {
		p.Set(x1, i, 11)
		p.Set(x1+3, i, 11)
	}
}

func (c *cathedral) placeStairs(g *gen) bool {
	origin := world.Point{}
	opt := miniset.Options{
		Min:        1,
		Max:        1,
		Anchor:     &origin,
		Search:     miniset.SearchShift,
		ViewOffset: cathedralView,
	}

	// The down stairs are placed even after the up stairs fail; the
	// attempt is rejected once both have been tried.
	up, okUp := g.stamp(cathedralStairsUp, opt, g.entry != EntryPrev, true)
	down, okDown := g.stamp(cathedralStairsDown, opt, g.entry == EntryPrev, false)
	if okUp {
		g.level.Anchors.StairsUp = up.Origin
	}
	if okDown {
		g.level.Anchors.StairsDown = down.Origin
	}
	if g.entry == EntryPrev {
		g.level.Anchors.View.Y--
	}
	return okUp && okDown
}

func (c *cathedral) finish(*gen) bool { return true }

func (c *cathedral) fixup(g *gen) {
	cathedralDirtFix.applyAll(g.grid)
	c.cornerFix(g)
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if g.grid.Flags(x, y)&^world.FlagProtected != 0 {
				placeCathedralDoor(g.grid, x, y)
			}
		}
	}
}

func (c *cathedral) cornerFix(g *gen) {
	for y := 1; y < world.Height-1; y++ {
		for x := 1; x < world.Width-1; x++ {
			if !g.grid.Protected(x, y) && g.grid.At(x, y) == 17 &&
				g.grid.At(x-1, y) == catFloor && g.grid.At(x, y-1) == catVWall {
				g.grid.Set(x, y, 16)
				// Clears every flag of the cell above instead of protecting it.
				g.grid.SetFlags(x, y-1, g.grid.Flags(x, y-1)&world.FlagProtected)
			}
			// Written even over protected cells.
			if g.grid.At(x, y) == catDirtTop && g.grid.At(x+1, y) == catFloor && g.grid.At(x, y+1) == catVWall {
				g.grid.Stamp(x, y, 8)
			}
		}
	}
}

// doorRule turns wall tile From into door tile To. Rules gated on the row
// never fire on row 1, those gated on the column never fire on column 1.
type doorRule struct {
	From, To world.Tile
	Row, Col bool
}

var cathedralDoors = map[world.Flag][]doorRule{
	world.FlagHDoor: {
		{From: 2, To: 26, Row: true},
		{From: 7, To: 31, Row: true},
		{From: 14, To: 42, Row: true},
		{From: 4, To: 43, Row: true},
		{From: 1, To: 25, Col: true},
		{From: 10, To: 40, Col: true},
		{From: 6, To: 30, Col: true},
	},
	world.FlagVDoor: {
		{From: 1, To: 25, Col: true},
		{From: 6, To: 30, Col: true},
		{From: 10, To: 40, Col: true},
		{From: 4, To: 41, Col: true},
		{From: 2, To: 26, Row: true},
		{From: 14, To: 42, Row: true},
		{From: 7, To: 31, Row: true},
	},
	world.FlagHDoor | world.FlagVDoor: {
		{From: 4, To: 28, Row: true, Col: true},
		{From: 10, To: 40, Col: true},
		{From: 14, To: 42, Row: true},
		{From: 2, To: 26, Row: true},
		{From: 1, To: 25, Col: true},
		{From: 7, To: 31, Row: true},
		{From: 6, To: 30, Col: true},
	},
}

// placeCathedralDoor converts a flagged wall cell into a door and protects
// it. Every rule tests the tile the cell started with; the last match wins.
func placeCathedralDoor(grid *world.TileGrid, x, y int) {
	if !grid.Protected(x, y) {
		c := grid.At(x, y)
		for _, r := range cathedralDoors[grid.Flags(x, y)&^world.FlagProtected] {
			if c != r.From || (r.Row && y == 1) || (r.Col && x == 1) {
				continue
			}
			grid.Stamp(x, y, r.To)
		}
	}
	grid.SetFlags(x, y, world.FlagProtected)
}

func (c *cathedral) decorate(g *gen) {
	cathedralSubs.apply(g.rng, g.grid)
	cathedralShadows.apply(g.grid)
	shadeArchEdges(g.grid)

	origin := world.Point{}
	g.stamp(cathedralLamps, miniset.Options{
		Min:        5,
		Max:        10,
		Anchor:     &origin,
		Search:     miniset.SearchShift,
		ViewOffset: cathedralView,
	}, false, false)

	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if g.grid.Flags(x, y) != 0 || g.grid.At(x, y) != catFloor {
				continue
			}
			switch g.rng.Intn(3) {
			case 1:
				g.grid.Set(x, y, catFloorA)
			case 2:
				g.grid.Set(x, y, catFloorB)
			}
		}
	}
}

// archShade maps a shadow tile to the darker piece used when it falls
// against an arch or pillar.
var archShade = map[world.Tile]world.Tile{
	139: 141,
	149: 153,
	148: 154,
}

// shadeArchEdges darkens unflagged shadow tiles sitting west of an arch or
// pillar tile.
func shadeArchEdges(grid *world.TileGrid) {
	for y := 1; y < world.Height; y++ {
		for x := 1; x < world.Width; x++ {
			dark, ok := archShade[grid.At(x-1, y)]
			if !ok || grid.Flags(x-1, y) != 0 {
				continue
			}
			switch grid.At(x, y) {
			case 29, 32, 35, 37, 38, 39:
				grid.Set(x-1, y, dark)
			}
		}
	}
}

var cathedralView = world.Point{X: 19, Y: 20}
