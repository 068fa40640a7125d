package drlg

import (
	"github.com/samdwyer/dungeonseed/internal/miniset"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Hell tile ids.
const (
	hellVWall world.Tile = 1
	hellHWall world.Tile = 2
	hellFloor world.Tile = 6
	hellSolid world.Tile = 30
)

const (
	// quarterSize is the side of the quarter layout mirrored into the grid.
	quarterSize = 20
	// setPieceRoom is the side of the first room when it hosts a set piece.
	setPieceRoom = 11
	// quadSize is the side of the regions reserved on levels with a first
	// room override.
	quadSize = 14
)

var hellConv = ConvTable{30, 6, 1, 6, 2, 6, 6, 6, 9, 6, 1, 6, 2, 6, 3, 6}

var hellView = world.Point{X: 21, Y: 22}

func hellFloorSearch(n int) []world.Tile {
	s := make([]world.Tile, n)
	for i := range s {
		s[i] = hellFloor
	}
	return s
}

var (
	hellStairsUp = miniset.New(4, 5, hellFloorSearch(20), []world.Tile{
		0, 0, 0, 0,
		36, 38, 35, 0,
		37, 34, 33, 32,
		0, 0, 31, 0,
		0, 0, 0, 0,
	})
	hellStairsDown = miniset.New(5, 5, hellFloorSearch(25), []world.Tile{
		0, 0, 0, 0, 0,
		0, 0, 45, 41, 0,
		0, 44, 43, 40, 0,
		0, 46, 42, 39, 0,
		0, 0, 0, 0, 0,
	})
	hellWarp = miniset.New(4, 5, hellFloorSearch(20), []world.Tile{
		0, 0, 0, 0,
		134, 136, 133, 0,
		135, 132, 131, 130,
		0, 0, 129, 0,
		0, 0, 0, 0,
	})
)

// hellTileFix shapes the raw walls into caps, corners and joins. The later
// passes see the pieces written by the earlier ones.
var hellTileFix = []RuleSet{
	{
		fix(hellHWall, 1, 0, hellFloor, 5),
		fix(hellHWall, 1, 0, hellVWall, 13),
		fix(hellVWall, 0, 1, hellHWall, 14),
		fix(hellVWall, 0, 1, hellFloor, 4),
		fix(hellHWall, 1, 0, 9, 12),
		fix(hellVWall, 0, 1, 9, 10),
		fix(9, 1, 0, hellFloor, 5),
		fix(9, 0, 1, hellFloor, 4),
	},
	{
		fix(13, 0, 1, hellSolid, 27),
		fix(27, 1, 0, hellSolid, 19),
		fix(hellVWall, 0, 1, hellSolid, 27),
		fix(27, 1, 0, hellVWall, 16),
		fix(19, 1, 0, 27, 26),
		fix(27, 1, 0, hellSolid, 19),
		fix(hellHWall, 1, 0, 15, 14),
		fix(14, 1, 0, 15, 14),
		fix(22, 1, 0, hellVWall, 16),
		fix(27, 1, 0, hellVWall, 16),
		fix(22, 1, 0, hellSolid, 19),
		fix(21, 1, 0, hellVWall, 13).when(cell(1, -1, hellVWall)),
		fix(14, 1, 0, hellSolid, 28).when(cell(0, 1, hellFloor)),
		fix(16, 0, 1, hellSolid, 27).when(cell(1, 0, hellFloor)),
		fix(16, 0, 1, hellSolid, 27).when(cell(1, 1, hellSolid)),
		fix(hellFloor, 1, 0, hellSolid, 21).when(cell(1, -1, hellFloor)),
		fix(hellHWall, 1, 0, 27, 29).when(cell(1, 1, 9)),
		fix(9, 1, 0, 15, 14),
		fix(15, 1, 0, 27, 29).when(cell(1, 1, hellHWall)),
		fix(19, 1, 0, 18, 24),
		fix(19, 1, 0, 19, 24).when(cell(1, -1, hellSolid)),
		fix(24, 0, -1, hellSolid, 21).when(cell(0, -2, hellFloor)),
		fix(hellHWall, 1, 0, hellSolid, 28),
		fix(15, 1, 0, hellSolid, 28),
		fix(28, 0, 1, hellSolid, 18),
		fix(28, 0, 1, hellHWall, 15),
		put(19, 1, 0, 17, cell(2, 0, hellHWall), cell(1, -1, 18), cell(1, 1, hellVWall)),
		put(19, 1, 0, 17, cell(2, 0, hellHWall), cell(1, -1, 22), cell(1, 1, hellVWall)),
		put(19, 1, 0, 17, cell(2, 0, hellHWall), cell(1, -1, 18), cell(1, 1, 13)),
		put(21, 1, 0, 17, cell(2, 0, hellHWall), cell(1, -1, 18), cell(1, 1, hellVWall)),
		put(21, 1, 0, 17, cell(1, 1, hellVWall), cell(1, -1, 22), cell(2, 0, 3)),
		fix(15, 1, 0, 28, 23).when(cell(2, 0, hellSolid), cell(1, -1, hellFloor)),
		fix(14, 1, 0, 28, 23).when(cell(2, 0, hellVWall)),
		fix(15, 1, 0, 27, 29).when(cell(1, 1, hellSolid)),
		fix(28, 0, 1, 9, 15),
		fix(21, 0, -1, 21, 24),
		fix(hellHWall, 1, 0, 27, 29).when(cell(1, 1, hellSolid)),
		fix(hellHWall, 1, 0, 18, 25),
		fix(21, 1, 0, 9, 11).when(cell(2, 0, hellHWall)),
		fix(19, 1, 0, 10, 17),
		fix(15, 0, 1, 3, 4),
		fix(22, 0, 1, 9, 15),
		fix(18, 0, 1, hellSolid, 18),
		fix(24, -1, 0, hellSolid, 19),
		fix(21, 0, 1, hellHWall, 15),
		fix(21, 0, 1, 9, 10),
		fix(22, 0, 1, hellSolid, 18),
		fix(21, 0, 1, hellSolid, 18),
		fix(16, 0, 1, hellHWall, 15),
		fix(13, 0, 1, hellHWall, 15),
		fix(22, 0, 1, hellHWall, 15),
		fix(21, 1, 0, 18, 19).when(cell(2, 0, hellSolid)),
		fix(21, 1, 0, 9, 11).when(cell(1, 1, hellVWall)),
		fix(hellHWall, 1, 0, 10, 11).when(cell(1, -1, 18)),
	},
	{
		fix(15, 0, 1, hellHWall, 15),
		fix(13, 0, 1, hellHWall, 15),
		fix(18, 0, 1, hellHWall, 15),
		fix(23, 0, 1, hellHWall, 15),
		fix(19, 1, 0, 21, 20).when(cell(2, 0, hellSolid)),
		fix(17, 1, 0, hellSolid, 19),
		fix(hellVWall, 0, 1, 27, 16),
	},
}

var hellPartitionStarts = []partitionStart{
	{At: 10, Horizontal: true},
	{At: 12, Horizontal: true},
	{At: 13, Horizontal: true},
	{At: 15, Horizontal: true},
	{At: 16, Horizontal: true},
	{At: 21, Horizontal: true},
	{At: 22, Horizontal: true},
	{At: 8},
	{At: 9},
	{At: 11},
	{At: 14},
	{At: 15},
	{At: 16},
	{At: 21},
	{At: 23},
}

var (
	hellHorizEnds = tiles(10, 12, 13, 15, 16, 21, 22)
	hellVertEnds  = tiles(8, 9, 11, 14, 15, 16, 21, 23)
)

var hellShadows = ShadowSet{
	Base: baseTable(256,
		[]world.Tile{3}, []world.Tile{4}, []world.Tile{6, 95, 96, 97}, []world.Tile{8}, []world.Tile{15}),
	Rules: []ShadowRule{
		{Trigger: 3, W: 6, SetW: 47}, {Trigger: 3, NW: 6, SetNW: 48},
		{Trigger: 4, W: 6, SetW: 47}, {Trigger: 4, NW: 6, SetNW: 48},
		{Trigger: 8, W: 6, SetW: 47}, {Trigger: 8, NW: 6, SetNW: 48},
		{Trigger: 15, W: 6, SetW: 47}, {Trigger: 15, NW: 6, SetNW: 48},
	},
}

var hellSubs = Substitution{
	Base: baseTable(256,
		[]world.Tile{1, 61, 62},
		[]world.Tile{2, 63, 64},
		[]world.Tile{9, 65},
		[]world.Tile{30, 66, 67},
	),
	Variants:   16,
	Odds:       3,
	FlagsBlock: true,
}

// hell builds mirrored levels: a quarter layout is grown from a first room
// and reflected into all four corners of the grid.
type hell struct {
	quarter *world.Plane
	// setRoom is the set piece area, in quarter coordinates which match the
	// top-left quarter of the grid.
	setRoom world.Room
	// hold is the first room origin on levels that reserve quads.
	hold world.Point
}

func (h *hell) carve(g *gen) {
	if h.quarter == nil {
		h.quarter = g.newScratch(quarterSize, quarterSize)
	}
	h.quarter.Fill(0)
	h.setRoom = world.Room{}

	h.firstRoom(g)
	for i := 0; i < quarterSize; i++ {
		h.quarter.Set(i, 0, 0)
		h.quarter.Set(0, i, 0)
	}
}

func (h *hell) firstRoom(g *gen) {
	var w, ht int
	switch {
	case g.def.FirstRoom > 0:
		w, ht = g.def.FirstRoom, g.def.FirstRoom
	case g.req.SetPiece != nil:
		w, ht = setPieceRoom, setPieceRoom
	default:
		w = g.rng.Intn(5) + 2
		ht = g.rng.Intn(5) + 2
	}

	place := func(size int) int {
		lo := (quarterSize - size) >> 1
		hi := quarterSize - 1 - size
		v := g.rng.Intn(hi-lo+1) + lo
		if v+size > quarterSize-1 {
			return quarterSize - 1 - size + 1
		}
		return v
	}
	x := place(w)
	y := place(ht)

	h.hold = world.Point{X: x, Y: y}
	if g.req.SetPiece != nil {
		h.setRoom = world.RoomFromCorners(x+1, y+1, x+1+w, y+1+ht)
	} else {
		// Without a set piece only the origin is kept clear of stairs.
		h.setRoom = world.RoomFromCorners(0, 0, 0, 0)
	}

	h.drawRoom(g, x, y, w, ht)
	h.roomGen(g, x, y, w, ht, g.rng.Intn(2))
}

func (h *hell) drawRoom(g *gen, x, y, w, ht int) {
	for j := 0; j < ht && j+y < quarterSize; j++ {
		for i := 0; i < w && i+x < quarterSize; i++ {
			h.quarter.Set(x+i, y+j, 1)
		}
	}
	g.addRoom(world.Room{X: x, Y: y, Width: w, Height: ht})
}

func (h *hell) roomFree(x, y, w, ht int) bool {
	if x <= 0 || y <= 0 {
		return false
	}
	for j := 0; j < ht; j++ {
		for i := 0; i < w; i++ {
			if i+x >= quarterSize || j+y >= quarterSize || h.quarter.At(i+x, j+y) != 0 {
				return false
			}
		}
	}
	return true
}

func (h *hell) roomGen(g *gen, x, y, w, ht, dir int) {
	roll := g.rng.Intn(4)
	if (dir == 1 && roll == 0) || (dir != 1 && roll != 0) {
		var cw, ch, cx1, cy1 int
		ran := false
		for num := 0; !ran && num < 20; num++ {
			cw = (g.rng.Intn(5) + 2) &^ 1
			ch = (g.rng.Intn(5) + 2) &^ 1
			cy1 = ht/2 + y - ch/2
			cx1 = x - cw
			// Width and height are swapped in this probe.
			ran = h.roomFree(cx1-1, cy1-1, ch+2, cw+1)
		}
		if ran {
			h.drawRoom(g, cx1, cy1, cw, ch)
		}
		cx2 := x + w
		ran2 := h.roomFree(cx2, cy1-1, cw+1, ch+2)
		if ran2 {
			h.drawRoom(g, cx2, cy1, cw, ch)
		}
		if ran {
			h.roomGen(g, cx1, cy1, cw, ch, 1)
		}
		if ran2 {
			h.roomGen(g, cx2, cy1, cw, ch, 1)
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
		ran = h.roomFree(rx-1, ry-1, width+2, height+1)
	}
	if ran {
		h.drawRoom(g, rx, ry, width, height)
	}
	ry2 := y + ht
	ran2 := h.roomFree(rx-1, ry2, width+2, height+1)
	if ran2 {
		h.drawRoom(g, rx, ry2, width, height)
	}
	if ran {
		h.roomGen(g, rx, ry, width, height, 0)
	}
	if ran2 {
		h.roomGen(g, rx, ry2, width, height, 0)
	}
}

func (h *hell) validate(g *gen) bool {
	return h.quarter.Count(1) >= g.def.MinArea
}

// uShape runs a two cell wide hall out of the quarter from a random row
// and column, so the mirrored copies join up.
func (h *hell) uShape(g *gen) {
	q := h.quarter
	var ok [quarterSize]bool

	for j := quarterSize - 1; j >= 0; j-- {
		for i := quarterSize - 1; i >= 0; i-- {
			if q.At(i, j) != 1 {
				ok[j] = false
				continue
			}
			ok[j] = q.At(i, j+1) == 1 && q.At(i+1, j+1) == 0
			break
		}
	}
	if row, found := h.pickHall(g, &ok); found {
		for i := quarterSize - 1; i >= 0 && q.At(i, row) != 1; i-- {
			q.Set(i, row, 1)
			q.Set(i, row+1, 1)
		}
	}

	ok = [quarterSize]bool{}
	for i := quarterSize - 1; i >= 0; i-- {
		for j := quarterSize - 1; j >= 0; j-- {
			if q.At(i, j) != 1 {
				ok[i] = false
				continue
			}
			ok[i] = q.At(i+1, j) == 1 && q.At(i+1, j+1) == 0
			break
		}
	}
	if col, found := h.pickHall(g, &ok); found {
		for j := quarterSize - 1; j >= 0 && q.At(col, j) != 1; j-- {
			q.Set(col, j, 1)
			q.Set(col+1, j, 1)
		}
	}
}

// pickHall draws a start line and scans forward, wrapping past the last
// line to 1, until it meets a line that can host a hall. It gives up after
// a full cycle.
func (h *hell) pickHall(g *gen, ok *[quarterSize]bool) (int, bool) {
	start := g.rng.Intn(quarterSize-1) + 1
	rv := start
	for {
		if ok[rv] {
			return rv, true
		}
		rv++
		if rv == quarterSize {
			rv = 1
		}
		if rv == start {
			g.logger.Debug("no line can host a hall", "attempt", g.level.Attempts)
			return 0, false
		}
	}
}

func (h *hell) resolve(g *gen) {
	h.uShape(g)

	p := g.grid.Coarse()
	p.Fill(hellSolid)
	convertBlocks(p, mirrored(h.quarter), &hellConv)
	passes(g.grid, hellTileFix)

	if g.def.FirstRoom > 0 {
		h.saveQuads(g)
	}
	if g.req.SetPiece != nil {
		x2, y2 := h.setRoom.Max()
		for x := h.setRoom.X; x < x2; x++ {
			for y := h.setRoom.Y; y < y2; y++ {
				g.grid.SetFlags(x, y, world.FlagReserved)
			}
		}
	}

	partitionHell(g)

	if sp := g.req.SetPiece; sp != nil {
		g.grid.ApplySetPiece(h.setRoom.X, h.setRoom.Y, sp, hellFloor)
		g.level.SetPiece = world.Room{X: h.setRoom.X, Y: h.setRoom.Y, Width: sp.Width, Height: sp.Height}
	}
}

// saveQuads reserves the first room and its three reflections.
func (h *hell) saveQuads(g *gen) {
	x, y := h.hold.X, h.hold.Y
	for j := 0; j < quadSize; j++ {
		for i := 0; i < quadSize; i++ {
			g.grid.SetFlags(i+x, j+y, world.FlagReserved)
			g.grid.SetFlags(world.Width-1-i-x, j+y, world.FlagReserved)
			g.grid.SetFlags(i+x, world.Height-1-j-y, world.FlagReserved)
			g.grid.SetFlags(world.Width-1-i-x, world.Height-1-j-y, world.FlagReserved)
		}
	}
	fx, fy := world.Width-quadSize-x, world.Height-quadSize-y
	g.level.Quads = append(g.level.Quads,
		world.Room{X: x, Y: y, Width: quadSize, Height: quadSize},
		world.Room{X: fx, Y: y, Width: quadSize, Height: quadSize},
		world.Room{X: x, Y: fy, Width: quadSize, Height: quadSize},
		world.Room{X: fx, Y: fy, Width: quadSize, Height: quadSize},
	)
}

func (h *hell) placeStairs(g *gen) bool {
	opt := miniset.Options{
		Min:        1,
		Max:        1,
		Avoid:      h.setRoom,
		Search:     miniset.SearchRedraw,
		ViewOffset: hellView,
	}

	up, ok := g.stamp(hellStairsUp, opt, g.entry == EntryMain, true)
	if !ok {
		return false
	}
	g.level.Anchors.StairsUp = up.Origin
	if !g.def.Bottom {
		down, ok := g.stamp(hellStairsDown, opt, g.entry == EntryPrev, false)
		if !ok {
			return false
		}
		g.level.Anchors.StairsDown = down.Origin
	}
	if g.def.TownWarp {
		warp, ok := g.stamp(hellWarp, opt, g.entry == EntryTownWarp, false)
		if !ok {
			return false
		}
		g.level.Anchors.Warp = warp.Origin
		g.level.Anchors.HasWarp = true
	}

	if g.entry == EntryMain {
		g.level.Anchors.View.X++
	} else {
		g.level.Anchors.View.Y++
	}
	return true
}

func (h *hell) finish(*gen) bool { return true }

func (h *hell) fixup(g *gen) {
	for y := 0; y < world.Height-1; y++ {
		for x := 0; x < world.Width-1; x++ {
			t := g.grid.At(x, y)
			if (t == 24 || t == 122) && g.grid.At(x+1, y) == hellHWall && g.grid.At(x, y+1) == 5 {
				g.grid.Set(x, y, 17)
			}
		}
	}
}

func (h *hell) decorate(g *gen) {
	hellShadows.apply(g.grid)

	for y := 1; y < world.Height-1; y++ {
		for x := 1; x < world.Width-1; x++ {
			t := g.grid.At(x, y)
			if t >= 18 && t <= 30 && (g.grid.At(x+1, y) < 18 || g.grid.At(x, y+1) < 18) {
				g.grid.Set(x, y, t+98)
			}
		}
	}

	hellSubs.apply(g.rng, g.grid)
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if g.rng.Intn(10) != 0 {
				continue
			}
			if g.grid.At(x, y) == hellFloor && g.grid.Flags(x, y) == 0 {
				g.grid.Set(x, y, world.Tile(g.rng.Intn(3))+95)
			}
		}
	}
}

// partitionHell splits floor areas with walls carrying a double door.
func partitionHell(g *gen) {
	grid := g.grid
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if grid.Flags(x, y) != 0 {
				continue
			}
			for _, s := range hellPartitionStarts {
				if grid.At(x, y) != s.At || g.rng.Intn(100) >= wallChance {
					continue
				}
				if s.Horizontal {
					if n := wallRun(grid, x, y, 1, 0, hellFloor, hellHorizEnds, 4); n != -1 {
						hellHorizWall(g, x, y, n)
					}
				} else if n := wallRun(grid, x, y, 0, 1, hellFloor, hellVertEnds, 4); n != -1 {
					hellVertWall(g, x, y, n)
				}
			}
		}
	}
}

// rewrite applies from/to pairs to (x, y) in order.
func rewrite(grid *world.TileGrid, x, y int, pairs ...world.Tile) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if grid.At(x, y) == pairs[i] {
			grid.Set(x, y, pairs[i+1])
		}
	}
}

func hellHorizWall(g *gen, x, y, n int) {
	grid := g.grid
	rewrite(grid, x, y, 13, 17, 16, 11, 12, 14)
	for i := 1; i < n; i++ {
		grid.Set(x+i, y, hellHWall)
	}
	rewrite(grid, x+n, y, 15, 14, 10, 17, 21, 23, 22, 29)

	i := g.rng.Intn(n-3) + 1
	grid.Set(x+i, y, 57)
	grid.Set(x+i+2, y, 56)
	grid.Set(x+i+1, y, 60)
	rewrite(grid, x+i, y-1, hellFloor, 58)
	rewrite(grid, x+i+1, y-1, hellFloor, 59)
}

func hellVertWall(g *gen, x, y, n int) {
	grid := g.grid
	rewrite(grid, x, y, 14, 17, 8, 9, 15, 10)
	for j := 1; j < n; j++ {
		grid.Set(x, y+j, hellVWall)
	}
	rewrite(grid, x, y+n, 11, 17, 9, 10, 16, 13, 21, 22, 23, 29)

	j := g.rng.Intn(n-3) + 1
	grid.Set(x, y+j, 53)
	grid.Set(x, y+j+2, 52)
	grid.Set(x, y+j+1, hellFloor)
	rewrite(grid, x-1, y+j, hellFloor, 54)
	rewrite(grid, x-1, y+j-1, hellFloor, 55)
}
