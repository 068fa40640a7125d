package drlg

import (
	"time"

	"github.com/samdwyer/dungeonseed/internal/miniset"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Layout markers written while carving catacombs.
const (
	preVoid  world.Tile = ' '
	preWall  world.Tile = '#'
	preSeed  world.Tile = ','
	preFloor world.Tile = '.'
	preSE    world.Tile = 'A'
	preNE    world.Tile = 'B'
	preNW    world.Tile = 'C'
	preDoor  world.Tile = 'D'
	preSW    world.Tile = 'E'
)

// Catacomb tile ids.
const (
	ctbVWall     world.Tile = 1
	ctbHWall     world.Tile = 2
	ctbFloor     world.Tile = 3
	ctbVDoor     world.Tile = 4
	ctbHDoor     world.Tile = 5
	ctbJunction  world.Tile = 6
	ctbVDoorOpen world.Tile = 7
	ctbHDoorOpen world.Tile = 9
	ctbBlank     world.Tile = 12
)

const (
	areaMin  = 2
	roomMax  = 10
	roomMin  = 4
	maxRooms = 80

	// walkTimeout bounds the wall-clock time spent walking corridors.
	walkTimeout = 2 * time.Second
	// voidTries caps the candidate draws of one void filling pass.
	voidTries = 100000
)

// Hall directions, indexed into dirX and dirY.
const (
	dirNorth = 1
	dirEast  = 2
	dirSouth = 3
	dirWest  = 4
)

var (
	dirX = [5]int{0, 0, 1, 0, -1}
	dirY = [5]int{0, -1, 0, 1, 0}
)

var (
	catacombStairsUp = miniset.New(4, 4,
		[]world.Tile{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		[]world.Tile{
			0, 0, 0, 0,
			0, 72, 77, 0,
			0, 76, 0, 0,
			0, 0, 0, 0,
		})
	catacombStairsDown = miniset.New(4, 4,
		[]world.Tile{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		[]world.Tile{
			0, 0, 0, 0,
			0, 48, 71, 0,
			0, 50, 78, 0,
			0, 0, 0, 0,
		})
	catacombWarp = miniset.New(4, 4,
		[]world.Tile{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		[]world.Tile{
			0, 0, 0, 0,
			0, 158, 160, 0,
			0, 159, 0, 0,
			0, 0, 0, 0,
		})

	catacombCrushColumn = miniset.New(3, 3,
		[]world.Tile{3, 1, 3, 2, 6, 3, 3, 3, 3},
		[]world.Tile{0, 0, 0, 0, 83, 0, 0, 0, 0})
	catacombPancreas = []miniset.Pattern{
		miniset.New(5, 3,
			[]world.Tile{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
			[]world.Tile{0, 0, 0, 0, 0, 0, 0, 108, 0, 0, 0, 0, 0, 0, 0}),
		miniset.New(5, 3,
			[]world.Tile{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
			[]world.Tile{0, 0, 0, 0, 0, 0, 0, 110, 0, 0, 0, 0, 0, 0, 0}),
	}
)

// wallEnds are the wall pieces a doorway or arch may butt against; every
// set exists once per end piece.
var wallEnds = []world.Tile{7, 8, 6, 9, 14, 13, 16, 15}

// endSets builds one pattern per wall end, written into search cell end.
func endSets(w, h int, search, replace []world.Tile, end int) []miniset.Pattern {
	sets := make([]miniset.Pattern, 0, len(wallEnds))
	for _, e := range wallEnds {
		s := append([]world.Tile(nil), search...)
		s[end] = e
		sets = append(sets, miniset.New(w, h, s, replace))
	}
	return sets
}

func concatSets(groups ...[]miniset.Pattern) []miniset.Pattern {
	var all []miniset.Pattern
	for _, grp := range groups {
		all = append(all, grp...)
	}
	return all
}

// catacombDecor is a scattered set and its percent chance.
type catacombDecor struct {
	set    miniset.Pattern
	chance int
}

func scatterAll(g *gen, sets []miniset.Pattern, chance int, avoid world.Room) int {
	n := 0
	for _, p := range sets {
		n += miniset.Scatter(g.rng, g.grid, p, chance, avoid)
	}
	return n
}

var (
	// Doors set in the middle of a wall segment.
	catacombCentreDoors = endSets(3, 3,
		[]world.Tile{3, 1, 3, 0, 4, 0, 0, 0, 0},
		[]world.Tile{0, 4, 0, 0, 0, 0, 0, 4, 0}, 7)

	catacombVArches = concatSets(
		endSets(2, 4,
			[]world.Tile{2, 0, 3, 8, 3, 4, 0, 0},
			[]world.Tile{142, 0, 51, 42, 47, 44, 0, 0}, 7),
		endSets(2, 4,
			[]world.Tile{3, 0, 3, 1, 3, 4, 0, 0},
			[]world.Tile{48, 0, 51, 39, 47, 44, 0, 0}, 7),
		endSets(2, 4,
			[]world.Tile{3, 0, 3, 8, 3, 4, 0, 0},
			[]world.Tile{48, 0, 51, 42, 47, 44, 0, 0}, 7),
		endSets(2, 3,
			[]world.Tile{2, 7, 3, 4, 0, 0},
			[]world.Tile{141, 39, 47, 44, 0, 0}, 5),
		endSets(2, 3,
			[]world.Tile{2, 9, 3, 4, 0, 0},
			[]world.Tile{141, 42, 47, 44, 0, 0}, 5),
	)

	catacombHArches = concatSets(
		endSets(3, 2,
			[]world.Tile{3, 3, 0, 2, 5, 0},
			[]world.Tile{49, 46, 0, 40, 45, 0}, 5),
		endSets(3, 2,
			[]world.Tile{3, 3, 0, 8, 5, 0},
			[]world.Tile{49, 46, 0, 43, 45, 0}, 5),
		endSets(3, 2,
			[]world.Tile{1, 3, 0, 9, 5, 0},
			[]world.Tile{140, 46, 0, 40, 45, 0}, 5),
		endSets(3, 2,
			[]world.Tile{1, 3, 0, 6, 5, 0},
			[]world.Tile{140, 46, 0, 43, 45, 0}, 5),
		endSets(3, 2,
			[]world.Tile{3, 3, 0, 2, 9, 0},
			[]world.Tile{49, 46, 0, 40, 45, 0}, 5),
	)

	catacombRuins = []catacombDecor{
		{set: miniset.New(1, 1, []world.Tile{1}, []world.Tile{80}), chance: 10},
		{set: miniset.New(1, 1, []world.Tile{1}, []world.Tile{81}), chance: 10},
		{set: miniset.New(1, 1, []world.Tile{1}, []world.Tile{82}), chance: 10},
		{set: miniset.New(1, 1, []world.Tile{2}, []world.Tile{84}), chance: 10},
		{set: miniset.New(1, 1, []world.Tile{2}, []world.Tile{85}), chance: 10},
		{set: miniset.New(1, 1, []world.Tile{2}, []world.Tile{86}), chance: 10},
		{set: miniset.New(1, 1, []world.Tile{8}, []world.Tile{87}), chance: 50},
	}

	catacombBig = []catacombDecor{
		{set: miniset.New(2, 2, []world.Tile{3, 3, 3, 3}, []world.Tile{113, 0, 112, 0}), chance: 3},
		{set: miniset.New(2, 2, []world.Tile{3, 3, 3, 3}, []world.Tile{114, 115, 0, 0}), chance: 3},
		{set: miniset.New(1, 2, []world.Tile{1, 1}, []world.Tile{117, 116}), chance: 3},
		{set: miniset.New(2, 1, []world.Tile{2, 2}, []world.Tile{118, 119}), chance: 3},
		{set: miniset.New(2, 2, []world.Tile{3, 3, 3, 3}, []world.Tile{120, 122, 121, 123}), chance: 3},
		{set: miniset.New(1, 2, []world.Tile{1, 1}, []world.Tile{125, 124}), chance: 20},
		{set: miniset.New(2, 1, []world.Tile{2, 2}, []world.Tile{126, 127}), chance: 20},
		{set: miniset.New(2, 2, []world.Tile{3, 3, 3, 3}, []world.Tile{128, 130, 129, 131}), chance: 3},
		{set: miniset.New(2, 2, []world.Tile{1, 3, 1, 3}, []world.Tile{133, 135, 132, 134}), chance: 20},
		{set: miniset.New(2, 2, []world.Tile{2, 2, 3, 3}, []world.Tile{136, 137, 3, 3}), chance: 20},
	}
)

var catacombView = world.Point{X: 21, Y: 22}

var catacombTileFix = RuleSet{
	fix(ctbVWall, 0, 1, ctbFloor, ctbVWall),
	fix(ctbFloor, 0, 1, ctbVWall, ctbFloor),
	fix(ctbFloor, 1, 0, ctbVDoorOpen, ctbFloor),
	fix(ctbHWall, 1, 0, ctbFloor, ctbHWall),
	fix(11, 1, 0, 14, 16),
}

var catacombDirtFix = RuleSet{
	dirt(13, 1, 0, 11, 146),
	dirt(11, 1, 0, 11, 144),
	dirt(15, 1, 0, 11, 148),
	dirt(10, 0, 1, 10, 143),
	dirt(13, 0, 1, 10, 146),
	dirt(14, 0, 1, 15, 147),
}

var catacombBase = baseTable(206,
	[]world.Tile{1, 17, 18},
	[]world.Tile{2, 19, 20},
	[]world.Tile{3, 21, 22, 23},
	[]world.Tile{6, 24},
	[]world.Tile{12, 25},
)

var catacombShadowBase = baseTable(206,
	[]world.Tile{1, 17, 18, 39, 40},
	[]world.Tile{2, 19, 20, 41, 42},
	[]world.Tile{3, 21, 22, 23},
	[]world.Tile{4}, []world.Tile{5}, []world.Tile{6, 24}, []world.Tile{7}, []world.Tile{9},
)

type catRoom struct {
	x1, y1, x2, y2 int
}

type hall struct {
	x1, y1, x2, y2, dir int
}

// catacombs builds levels of rectangular rooms joined by wandering
// corridors. Large voids left behind are filled with extra rooms.
type catacombs struct {
	rooms    []catRoom
	halls    []hall
	setRoom  world.Room // inclusive area reserved for the set piece
	started  time.Time  // start of the current corridor walk
	timeouts int        // walks cut short in this attempt
	ok       bool
}

func (c *catacombs) carve(g *gen) {
	c.rooms = c.rooms[:0]
	c.halls = c.halls[:0]
	c.setRoom = world.Room{}
	c.timeouts = 0

	p := g.grid.Coarse()
	p.Fill(preVoid)

	var fw, fh int
	force := g.req.SetPiece != nil
	if force {
		fw, fh = g.req.SetPiece.Width+4, g.req.SetPiece.Height+4
	}
	c.createRoom(g, 2, 2, world.Width-1, world.Height-1, 0, 0, force, fh, fw)

	for len(c.halls) > 0 {
		h := c.halls[0]
		c.halls = c.halls[1:]
		c.connectHall(g, h)
	}
	g.level.WalkTimeouts += c.timeouts

	// The scan reaches one cell past the last row and column.
	for y := 0; y <= world.Height; y++ {
		for x := 0; x <= world.Width; x++ {
			switch p.At(x, y) {
			case preNW, preNE, preSW, preSE:
				p.Set(x, y, preWall)
			case preSeed:
				p.Set(x, y, preFloor)
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if p.At(x+dx, y+dy) == preVoid {
							p.Set(x+dx, y+dy, preWall)
						}
					}
				}
			}
		}
	}

	c.ok = c.fillVoids(g)
}

func (c *catacombs) createRoom(g *gen, x1, y1, x2, y2, dest, dir int, force bool, fh, fw int) {
	if len(c.rooms) >= maxRooms {
		return
	}
	aw, ah := x2-x1, y2-y1
	if aw < areaMin || ah < areaMin {
		return
	}

	rw := roomSide(g, aw)
	rh := roomSide(g, ah)
	if force {
		rw, rh = fw, fh
	}

	rx1 := g.rng.Intn(x2-x1) + x1
	ry1 := g.rng.Intn(y2-y1) + y1
	rx2, ry2 := rw+rx1, rh+ry1
	if rx2 > x2 {
		rx2, rx1 = x2, x2-rw
	}
	if ry2 > y2 {
		ry2, ry1 = y2, y2-rh
	}
	rx1, ry1 = clampRoom(rx1), clampRoom(ry1)
	rx2, ry2 = clampRoom(rx2), clampRoom(ry2)
	c.defineRoom(g, rx1, ry1, rx2, ry2, force)

	if force {
		c.setRoom = world.RoomFromCorners(rx1+2, ry1+2, rx2, ry2)
	}

	id := len(c.rooms)
	if dest != 0 {
		c.addHall(g, dest, dir, rx1, ry1, rx2, ry2)
	}

	if rh > rw {
		c.createRoom(g, x1+2, y1+2, rx1-2, ry2-2, id, dirEast, false, 0, 0)
		c.createRoom(g, rx2+2, ry1+2, x2-2, y2-2, id, dirWest, false, 0, 0)
		c.createRoom(g, x1+2, ry2+2, rx2-2, y2-2, id, dirNorth, false, 0, 0)
		c.createRoom(g, rx1+2, y1+2, x2-2, ry1-2, id, dirSouth, false, 0, 0)
		return
	}
	c.createRoom(g, x1+2, y1+2, rx2-2, ry1-2, id, dirSouth, false, 0, 0)
	c.createRoom(g, rx1+2, ry2+2, x2-2, y2-2, id, dirNorth, false, 0, 0)
	c.createRoom(g, x1+2, ry1+2, rx1-2, y2-2, id, dirEast, false, 0, 0)
	c.createRoom(g, rx2+2, y1+2, x2-2, ry2-2, id, dirWest, false, 0, 0)
}

func roomSide(g *gen, avail int) int {
	switch {
	case avail > roomMax:
		return g.rng.Intn(roomMax-roomMin) + roomMin
	case avail > roomMin:
		return g.rng.Intn(avail-roomMin) + roomMin
	default:
		return avail
	}
}

func clampRoom(v int) int {
	return max(1, min(v, 38))
}

// addHall queues a corridor from the new room towards room dest.
func (c *catacombs) addHall(g *gen, dest, dir, rx1, ry1, rx2, ry2 int) {
	d := c.rooms[dest-1]
	var h hall
	switch dir {
	case dirNorth:
		h.x1 = g.rng.Intn(rx2-rx1-2) + rx1 + 1
		h.y1 = ry1
		h.x2 = g.rng.Intn(d.x2-d.x1-2) + d.x1 + 1
		h.y2 = d.y2
	case dirSouth:
		h.x1 = g.rng.Intn(rx2-rx1-2) + rx1 + 1
		h.y1 = ry2
		h.x2 = g.rng.Intn(d.x2-d.x1-2) + d.x1 + 1
		h.y2 = d.y1
	case dirEast:
		h.x1 = rx2
		h.y1 = g.rng.Intn(ry2-ry1-2) + ry1 + 1
		h.x2 = d.x1
		h.y2 = g.rng.Intn(d.y2-d.y1-2) + d.y1 + 1
	case dirWest:
		h.x1 = rx1
		h.y1 = g.rng.Intn(ry2-ry1-2) + ry1 + 1
		h.x2 = d.x2
		h.y2 = g.rng.Intn(d.y2-d.y1-2) + d.y1 + 1
	}
	h.dir = dir
	c.halls = append(c.halls, h)
}

func (c *catacombs) defineRoom(g *gen, x1, y1, x2, y2 int, force bool) {
	p := g.grid.Coarse()
	p.Set(x1, y1, preNW)
	p.Set(x1, y2, preSW)
	p.Set(x2, y1, preNE)
	p.Set(x2, y2, preSE)

	c.rooms = append(c.rooms, catRoom{x1: x1, y1: y1, x2: x2, y2: y2})
	g.addRoom(world.RoomFromCorners(x1, y1, x2, y2))

	if force {
		// Protects part of the top row, bounded by the bottom edge.
		for i := x1; i < x2; i++ {
			for i < y2 {
				g.grid.Protect(i, y1)
				i++
			}
		}
	}

	for i := x1 + 1; i <= x2-1; i++ {
		p.Set(i, y1, preWall)
		p.Set(i, y2, preWall)
	}
	y2--
	for j := y1 + 1; j <= y2; j++ {
		p.Set(x1, j, preWall)
		p.Set(x2, j, preWall)
		for i := x1 + 1; i < x2; i++ {
			p.Set(i, j, preFloor)
		}
	}
}

// expired reports whether the current walk ran past walkTimeout. The walk
// is abandoned where it stands and the attempt carries on.
func (c *catacombs) expired(g *gen) bool {
	if g.clock.Now().Sub(c.started) <= walkTimeout {
		return false
	}
	c.timeouts++
	g.logger.Warn("corridor walk timed out", "attempt", g.level.Attempts, "timeout", walkTimeout)
	return true
}

// connectHall walks a corridor from (x1, y1) towards (x2, y2), steering
// around room corners and drifting towards the target.
func (c *catacombs) connectHall(g *gen, h hall) {
	p := g.grid.Coarse()
	x1, y1, x2, y2 := h.x1, h.y1, h.x2, h.y2

	minusFlag := g.rng.Intn(100)
	plusFlag := g.rng.Intn(100)
	origX, origY := x1, y1
	c.doorAt(g, x1, y1)
	c.doorAt(g, x2, y2)
	cur := h.dir
	x2 -= dirX[cur]
	y2 -= dirY[cur]
	p.Set(x2, y2, preSeed)
	inRoom := false
	c.started = g.clock.Now()

	for done := false; !done; {
		if c.expired(g) {
			return
		}
		if x1 >= 38 && cur == dirEast {
			cur = dirWest
		}
		if y1 >= 38 && cur == dirSouth {
			cur = dirNorth
		}
		if x1 <= 1 && cur == dirWest {
			cur = dirEast
		}
		if y1 <= 1 && cur == dirNorth {
			cur = dirSouth
		}
		switch t := p.At(x1, y1); {
		case t == preNW && (cur == dirNorth || cur == dirWest):
			cur = dirEast
		case t == preNE && (cur == dirNorth || cur == dirEast):
			cur = dirSouth
		case t == preSW && (cur == dirWest || cur == dirSouth):
			cur = dirNorth
		case t == preSE && (cur == dirEast || cur == dirSouth):
			cur = dirWest
		}
		x1 += dirX[cur]
		y1 += dirY[cur]

		if p.At(x1, y1) == preVoid {
			if inRoom {
				c.doorAt(g, x1-dirX[cur], y1-dirY[cur])
			} else {
				across := cur == dirNorth || cur == dirSouth
				if minusFlag < 50 {
					if across {
						c.extend(g, x1-1, y1)
					} else {
						c.extend(g, x1, y1-1)
					}
				}
				if plusFlag < 50 {
					if across {
						c.extend(g, x1+1, y1)
					} else {
						c.extend(g, x1, y1+1)
					}
				}
			}
			p.Set(x1, y1, preSeed)
			inRoom = false
		} else {
			if !inRoom && p.At(x1, y1) == preWall {
				c.doorAt(g, x1, y1)
			}
			if p.At(x1, y1) != preSeed {
				inRoom = true
			}
		}

		dx, dy := abs(x2-x1), abs(y2-y1)
		if dx > dy {
			if g.rng.Intn(100) < min(2*dx, 30) {
				cur = towardX(x1, x2)
			}
		} else if g.rng.Intn(100) < min(5*dy, 80) {
			cur = towardY(y1, y2)
		}
		if dy < 10 && x1 == x2 && (cur == dirEast || cur == dirWest) {
			cur = towardY(y1, y2)
		}
		if dx < 10 && y1 == y2 && (cur == dirNorth || cur == dirSouth) {
			cur = towardX(x1, x2)
		}
		if dy == 1 && dx > 1 && (cur == dirNorth || cur == dirSouth) {
			cur = towardX(x1, x2)
		}
		if dx == 1 && dy > 1 && (cur == dirEast || cur == dirWest) {
			// Tests the column against the row limit.
			if y2 <= y1 || x1 >= world.Width {
				cur = dirNorth
			} else {
				cur = dirSouth
			}
		}
		if dx == 0 && p.At(x1, y1) != preVoid && (cur == dirEast || cur == dirWest) {
			if x2 <= origX || x1 >= world.Width {
				cur = dirNorth
			} else {
				cur = dirSouth
			}
		}
		if dy == 0 && p.At(x1, y1) != preVoid && (cur == dirNorth || cur == dirSouth) {
			if y2 <= origY || y1 >= world.Height {
				cur = dirWest
			} else {
				cur = dirEast
			}
		}
		done = x1 == x2 && y1 == y2
	}
}

func towardX(x1, x2 int) int {
	if x2 <= x1 || x1 >= world.Width {
		return dirWest
	}
	return dirEast
}

func towardY(y1, y2 int) int {
	if y2 <= y1 || y1 >= world.Height {
		return dirNorth
	}
	return dirSouth
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// doorAt marks a door unless one is adjacent or the cell is a room corner.
func (c *catacombs) doorAt(g *gen, x, y int) {
	p := g.grid.Coarse()
	if p.At(x-1, y) == preDoor || p.At(x+1, y) == preDoor || p.At(x, y-1) == preDoor || p.At(x, y+1) == preDoor {
		return
	}
	switch p.At(x, y) {
	case preNE, preNW, preSE, preSW:
		return
	}
	p.Set(x, y, preDoor)
}

func (c *catacombs) extend(g *gen, x, y int) {
	if g.grid.Coarse().At(x, y) == preVoid {
		g.grid.Coarse().Set(x, y, preSeed)
	}
}

// fillVoids grows rooms into large empty areas until the void count drops
// to the level's limit or the pass runs out of tries.
func (c *catacombs) fillVoids(g *gen) bool {
	p := g.grid.Coarse()
	limit := g.def.MaxVoid

	filled, tries := 0, 0
	for p.Count(preVoid) > limit && filled < 100 && tries < voidTries {
		tries++
		x := g.rng.Intn(38) + 1
		y := g.rng.Intn(38) + 1
		if p.At(x, y) != preWall {
			continue
		}
		var xf1, xf2, yf1, yf2 bool
		switch {
		case p.At(x-1, y) == preVoid && p.At(x+1, y) == preFloor:
			if p.At(x+1, y-1) == preFloor && p.At(x+1, y+1) == preFloor && p.At(x-1, y-1) == preVoid && p.At(x-1, y+1) == preVoid {
				xf1, yf1, yf2 = true, true, true
			}
		case p.At(x+1, y) == preVoid && p.At(x-1, y) == preFloor:
			if p.At(x-1, y-1) == preFloor && p.At(x-1, y+1) == preFloor && p.At(x+1, y-1) == preVoid && p.At(x+1, y+1) == preVoid {
				xf2, yf1, yf2 = true, true, true
			}
		case p.At(x, y-1) == preVoid && p.At(x, y+1) == preFloor:
			if p.At(x-1, y+1) == preFloor && p.At(x+1, y+1) == preFloor && p.At(x-1, y-1) == preVoid && p.At(x+1, y-1) == preVoid {
				yf1, xf1, xf2 = true, true, true
			}
		case p.At(x, y+1) == preVoid && p.At(x, y-1) == preFloor:
			if p.At(x-1, y-1) == preFloor && p.At(x+1, y-1) == preFloor && p.At(x-1, y+1) == preVoid && p.At(x+1, y+1) == preVoid {
				yf2, xf1, xf2 = true, true, true
			}
		}
		// Every wall draw counts against the pass, grown or not.
		if canGrow(xf1, yf1, xf2, yf2) {
			c.growRoom(g, x, y, xf1, yf1, xf2, yf2)
		}
		filled++
	}
	if tries == voidTries {
		g.logger.Debug("void filling ran out of tries", "voids", p.Count(preVoid))
	}
	return p.Count(preVoid) <= limit
}

func canGrow(xf1, yf1, xf2, yf2 bool) bool {
	if xf1 && xf2 && yf1 && yf2 {
		return false
	}
	return (xf1 && xf2 && (yf1 || yf2)) || (yf1 && yf2 && (xf1 || xf2))
}

// growRoom expands a room from the wall cell (x, y) into the void on the
// side whose flag is clear, then draws it when it is large enough.
func (c *catacombs) growRoom(g *gen, x, y int, xf1, yf1, xf2, yf2 bool) {
	p := g.grid.Coarse()
	x1, x2, y1, y2 := x, x, y, y
	if xf1 {
		x1 = x - 1
	}
	if xf2 {
		x2 = x + 1
	}
	if yf1 {
		y1 = y - 1
	}
	if yf2 {
		y2 = y + 1
	}

	switch {
	case !xf1:
		for yf1 || yf2 {
			if y1 == 0 {
				yf1 = false
			}
			if y2 == world.Height-1 {
				yf2 = false
			}
			if y2-y1 >= 14 {
				yf1, yf2 = false, false
			}
			if yf1 {
				y1--
			}
			if yf2 {
				y2++
			}
			if p.At(x2, y1) != preVoid {
				yf1 = false
			}
			if p.At(x2, y2) != preVoid {
				yf2 = false
			}
		}
		y1 += 2
		y2 -= 2
		if y2-y1 > 5 {
			for xf2 {
				if x2 == world.Width-1 || x2-x1 >= 12 {
					xf2 = false
				}
				for j := y1; j <= y2; j++ {
					if p.At(x2, j) != preVoid {
						xf2 = false
					}
				}
				if xf2 {
					x2++
				}
			}
			x2 -= 2
			if x2-x1 > 5 {
				c.drawVoidRoom(g, x1, y1, x2, y2)
			}
		}
	case !xf2:
		for yf1 || yf2 {
			if y1 == 0 {
				yf1 = false
			}
			if y2 == world.Height-1 {
				yf2 = false
			}
			if y2-y1 >= 14 {
				yf1, yf2 = false, false
			}
			if yf1 {
				y1--
			}
			if yf2 {
				y2++
			}
			if p.At(x1, y1) != preVoid {
				yf1 = false
			}
			if p.At(x1, y2) != preVoid {
				yf2 = false
			}
		}
		y1 += 2
		y2 -= 2
		if y2-y1 > 5 {
			for xf1 {
				if x1 == 0 || x2-x1 >= 12 {
					xf1 = false
				}
				for j := y1; j <= y2; j++ {
					if p.At(x1, j) != preVoid {
						xf1 = false
					}
				}
				if xf1 {
					x1--
				}
			}
			x1 += 2
			if x2-x1 > 5 {
				c.drawVoidRoom(g, x1, y1, x2, y2)
			}
		}
	case !yf1:
		for xf1 || xf2 {
			if x1 == 0 {
				xf1 = false
			}
			if x2 == world.Width-1 {
				xf2 = false
			}
			if x2-x1 >= 14 {
				xf1, xf2 = false, false
			}
			if xf1 {
				x1--
			}
			if xf2 {
				x2++
			}
			if p.At(x1, y2) != preVoid {
				xf1 = false
			}
			if p.At(x2, y2) != preVoid {
				xf2 = false
			}
		}
		x1 += 2
		x2 -= 2
		if x2-x1 > 5 {
			for yf2 {
				if y2 == world.Height-1 || y2-y1 >= 12 {
					yf2 = false
				}
				for i := x1; i <= x2; i++ {
					if p.At(i, y2) != preVoid {
						yf2 = false
					}
				}
				if yf2 {
					y2++
				}
			}
			y2 -= 2
			if y2-y1 > 5 {
				c.drawVoidRoom(g, x1, y1, x2, y2)
			}
		}
	case !yf2:
		for xf1 || xf2 {
			if x1 == 0 {
				xf1 = false
			}
			if x2 == world.Width-1 {
				xf2 = false
			}
			if x2-x1 >= 14 {
				xf1, xf2 = false, false
			}
			if xf1 {
				x1--
			}
			if xf2 {
				x2++
			}
			if p.At(x1, y1) != preVoid {
				xf1 = false
			}
			if p.At(x2, y1) != preVoid {
				xf2 = false
			}
		}
		x1 += 2
		x2 -= 2
		if x2-x1 > 5 {
			for yf1 {
				if y1 == 0 || y2-y1 >= 12 {
					yf1 = false
				}
				for i := x1; i <= x2; i++ {
					if p.At(i, y1) != preVoid {
						yf1 = false
					}
				}
				if yf1 {
					y1--
				}
			}
			y1 += 2
			if y2-y1 > 5 {
				c.drawVoidRoom(g, x1, y1, x2, y2)
			}
		}
	}
}

func (c *catacombs) drawVoidRoom(g *gen, x1, y1, x2, y2 int) {
	p := g.grid.Coarse()
	for j := y1; j <= y2; j++ {
		for i := x1; i <= x2; i++ {
			p.Set(i, j, preFloor)
		}
	}
	for j := y1; j <= y2; j++ {
		p.Set(x1, j, preWall)
		p.Set(x2, j, preWall)
	}
	for i := x1; i <= x2; i++ {
		p.Set(i, y1, preWall)
		p.Set(i, y2, preWall)
	}
	g.addRoom(world.RoomFromCorners(x1, y1, x2, y2))

	// Knock through walls shared with neighbouring floor.
	for i := x1 + 1; i < x2; i++ {
		if p.At(i, y1-1) == preFloor && p.At(i, y1+1) == preFloor {
			p.Set(i, y1, preFloor)
		}
		if p.At(i, y2-1) == preFloor && p.At(i, y2+1) == preFloor {
			p.Set(i, y2, preFloor)
		}
		if p.At(i, y1-1) == preDoor {
			p.Set(i, y1-1, preFloor)
		}
		if p.At(i, y2+1) == preDoor {
			p.Set(i, y2+1, preFloor)
		}
	}
	for j := y1 + 1; j < y2; j++ {
		if p.At(x1-1, j) == preFloor && p.At(x1+1, j) == preFloor {
			p.Set(x1, j, preFloor)
		}
		if p.At(x2-1, j) == preFloor && p.At(x2+1, j) == preFloor {
			p.Set(x2, j, preFloor)
		}
		if p.At(x1-1, j) == preDoor {
			p.Set(x1-1, j, preFloor)
		}
		if p.At(x2+1, j) == preDoor {
			p.Set(x2+1, j, preFloor)
		}
	}
}

func (c *catacombs) validate(g *gen) bool {
	return c.ok
}

func (c *catacombs) resolve(g *gen) {
	p := g.grid.Coarse()
	src := p.Clone()
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			p.Set(x, y, catacombTile(src, x, y))
		}
	}
	catacombTileFix.applyAll(g.grid)

	if sp := g.req.SetPiece; sp != nil {
		g.grid.ApplySetPiece(c.setRoom.X, c.setRoom.Y, sp, ctbFloor)
		g.level.SetPiece = world.Room{X: c.setRoom.X, Y: c.setRoom.Y, Width: sp.Width, Height: sp.Height}
	}
}

// patCode classifies one cell of a tile pattern.
type patCode uint8

// Pattern cell codes.
const (
	patAny       patCode = 0
	patWall      = 1 // '#'
	patFloor     = 2 // '.'
	patDoor      = 3 // 'D'
	patVoid      = 4 // ' '
	patDoorFloor = 5
	patDoorWall  = 6
	patVoidFloor = 7
	patSolid     = 8 // door, wall or floor
)

// tilePattern is a 3x3 window of cell codes around a layout cell, row by
// row from the north-west corner, and the tile written when all nine match.
type tilePattern struct {
	cells [9]patCode
	tile  world.Tile
}

func pat(tile world.Tile, cells ...patCode) tilePattern {
	p := tilePattern{tile: tile}
	copy(p.cells[:], cells)
	return p
}

// catacombPatterns is scanned in full for every cell and every match
// overwrites the previous one, so later entries refine earlier ones.
var catacombPatterns = []tilePattern{
	pat(ctbBlank, 0, 0, 0, 0, 0, 0, 0, 0, 0),

	// Walls default to a junction piece.
	pat(ctbJunction, 0, 0, 0, 0, 1, 0, 0, 0, 0),

	// Straight runs.
	pat(ctbVWall, 0, 0, 0, 7, 1, 5, 0, 0, 0),
	pat(ctbVWall, 0, 0, 0, 5, 1, 7, 0, 0, 0),
	pat(ctbVWall, 0, 6, 0, 7, 1, 7, 0, 6, 0),
	pat(ctbHWall, 0, 7, 0, 0, 1, 0, 0, 5, 0),
	pat(ctbHWall, 0, 5, 0, 0, 1, 0, 0, 7, 0),
	pat(ctbHWall, 0, 7, 0, 6, 1, 6, 0, 7, 0),

	// Stubs with a single arm.
	pat(ctbVWall, 0, 6, 0, 7, 1, 7, 0, 7, 0),
	pat(ctbVWall, 0, 7, 0, 7, 1, 7, 0, 6, 0),
	pat(ctbHWall, 0, 7, 0, 6, 1, 7, 0, 7, 0),
	pat(ctbHWall, 0, 7, 0, 7, 1, 6, 0, 7, 0),

	// Runs with void on one side keep their dirt edge.
	pat(10, 0, 0, 0, 4, 1, 5, 0, 0, 0),
	pat(15, 0, 0, 0, 5, 1, 4, 0, 0, 0),
	pat(11, 0, 4, 0, 0, 1, 0, 0, 5, 0),
	pat(10, 4, 6, 0, 4, 1, 5, 4, 6, 0),
	pat(11, 4, 4, 4, 6, 1, 6, 0, 5, 0),

	// Corners.
	pat(ctbJunction, 0, 6, 0, 6, 1, 0, 0, 0, 0),
	pat(9, 0, 6, 0, 0, 1, 6, 0, 0, 0),
	pat(14, 0, 0, 0, 6, 1, 0, 0, 6, 0),
	pat(13, 0, 0, 0, 0, 1, 6, 0, 6, 0),
	pat(ctbJunction, 8, 6, 0, 6, 1, 7, 0, 7, 0),
	pat(9, 0, 6, 8, 7, 1, 6, 0, 7, 0),
	pat(14, 0, 7, 0, 6, 1, 7, 8, 6, 0),
	pat(13, 0, 7, 0, 7, 1, 6, 0, 6, 8),

	// Tees and crossings.
	pat(ctbJunction, 0, 6, 0, 6, 1, 6, 0, 0, 0),
	pat(8, 0, 0, 0, 6, 1, 6, 0, 6, 0),
	pat(ctbJunction, 0, 6, 0, 6, 1, 0, 0, 6, 0),
	pat(8, 0, 6, 0, 0, 1, 6, 0, 6, 0),
	pat(ctbJunction, 0, 6, 0, 6, 1, 6, 0, 6, 0),

	// Floor and doors.
	pat(ctbFloor, 0, 0, 0, 0, 2, 0, 0, 0, 0),
	pat(ctbFloor, 0, 0, 0, 0, 3, 0, 0, 0, 0),
	pat(ctbVDoor, 0, 1, 0, 0, 3, 0, 0, 1, 0),
	pat(ctbHDoor, 0, 0, 0, 1, 3, 1, 0, 0, 0),
	pat(ctbVDoor, 0, 6, 0, 5, 3, 5, 0, 6, 0),
	pat(ctbHDoor, 0, 5, 0, 6, 3, 6, 0, 5, 0),

	// Void.
	pat(ctbBlank, 0, 0, 0, 0, 4, 0, 0, 0, 0),
}

func (c patCode) match(t world.Tile) bool {
	switch c {
	case patAny:
		return true
	case patWall:
		return t == preWall
	case patFloor:
		return t == preFloor
	case patDoor:
		return t == preDoor
	case patVoid:
		return t == preVoid
	case patDoorFloor:
		return t == preDoor || t == preFloor
	case patDoorWall:
		return t == preDoor || t == preWall
	case patVoidFloor:
		return t == preVoid || t == preFloor
	case patSolid:
		return t == preDoor || t == preWall || t == preFloor
	}
	return false
}

// matches reports whether the window centred on (x, y) fits the pattern.
// Cells past the grid edge match any code.
func (tp *tilePattern) matches(src *world.Plane, x, y int) bool {
	for i, code := range tp.cells {
		cx, cy := x+i%3-1, y+i/3-1
		if !src.In(cx, cy) {
			continue
		}
		if !code.match(src.At(cx, cy)) {
			return false
		}
	}
	return true
}

// catacombTile picks the tile for a layout cell from the last pattern its
// neighbourhood matches.
func catacombTile(src *world.Plane, x, y int) world.Tile {
	t := ctbBlank
	for i := range catacombPatterns {
		if catacombPatterns[i].matches(src, x, y) {
			t = catacombPatterns[i].tile
		}
	}
	return t
}

func (c *catacombs) placeStairs(g *gen) bool {
	opt := miniset.Options{
		Min:        1,
		Max:        1,
		Avoid:      c.setRoom,
		Search:     miniset.SearchRedraw,
		ViewOffset: catacombView,
	}

	up, ok := g.stamp(catacombStairsUp, opt, g.entry == EntryMain, true)
	if !ok {
		return false
	}
	g.level.Anchors.StairsUp = up.Origin
	down, ok := g.stamp(catacombStairsDown, opt, g.entry == EntryPrev, false)
	if !ok {
		return false
	}
	g.level.Anchors.StairsDown = down.Origin
	if g.def.TownWarp {
		warp, ok := g.stamp(catacombWarp, opt, g.entry == EntryTownWarp, false)
		if !ok {
			return false
		}
		g.level.Anchors.Warp = warp.Origin
		g.level.Anchors.HasWarp = true
	}

	if g.entry == EntryPrev {
		g.level.Anchors.View.X--
	} else {
		g.level.Anchors.View.Y -= 2
	}
	return true
}

func (c *catacombs) finish(*gen) bool { return true }

func (c *catacombs) fixup(g *gen) {
	c.lockoutFix(g)
	for y := 1; y < world.Height; y++ {
		for x := 1; x < world.Width; x++ {
			if g.grid.At(x, y) == ctbVDoor && g.grid.At(x, y-1) == ctbFloor {
				g.grid.Set(x, y, ctbVDoorOpen)
			}
			if g.grid.At(x, y) == ctbHDoor && g.grid.At(x-1, y) == ctbFloor {
				g.grid.Set(x, y, ctbHDoorOpen)
			}
		}
	}
	catacombDirtFix.applyAll(g.grid)
}

// lockoutFix demotes doors that open onto nothing and adds a door to every
// wall run that separates floor without one.
func (c *catacombs) lockoutFix(g *gen) {
	grid := g.grid
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if grid.At(x, y) == ctbVDoor && grid.At(x-1, y) != ctbFloor {
				grid.Set(x, y, ctbVWall)
			}
			if grid.At(x, y) == ctbHDoor && grid.At(x, y-1) != ctbFloor {
				grid.Set(x, y, ctbHWall)
			}
		}
	}

	for y := 1; y < world.Height-1; y++ {
		for x := 1; x < world.Width-1; x++ {
			if grid.Protected(x, y) {
				continue
			}
			t := grid.At(x, y)
			if (t != ctbHWall && t != ctbHDoor) || grid.At(x, y-1) != ctbFloor || grid.At(x, y+1) != ctbFloor {
				continue
			}
			door := false
			for {
				t := grid.At(x, y)
				if t != ctbHWall && t != ctbHDoor {
					break
				}
				if grid.At(x, y-1) != ctbFloor || grid.At(x, y+1) != ctbFloor {
					break
				}
				if t == ctbHDoor {
					door = true
				}
				x++
			}
			if !door && !grid.Protected(x-1, y) {
				grid.Set(x-1, y, ctbHDoor)
			}
		}
	}

	for x := 1; x < world.Width-1; x++ {
		for y := 1; y < world.Height-1; y++ {
			if grid.Protected(x, y) {
				continue
			}
			t := grid.At(x, y)
			if (t != ctbVWall && t != ctbVDoor) || grid.At(x-1, y) != ctbFloor || grid.At(x+1, y) != ctbFloor {
				continue
			}
			door := false
			for {
				t := grid.At(x, y)
				if t != ctbVWall && t != ctbVDoor {
					break
				}
				if grid.At(x-1, y) != ctbFloor || grid.At(x+1, y) != ctbFloor {
					break
				}
				if t == ctbVDoor {
					door = true
				}
				y++
			}
			if !door && !grid.Protected(x, y-1) {
				grid.Set(x, y-1, ctbVDoor)
			}
		}
	}
}

func (c *catacombs) decorate(g *gen) {
	avoid := c.setRoom
	doors := scatterAll(g, catacombCentreDoors, 100, avoid)
	arches := scatterAll(g, catacombVArches, 100, avoid)
	arches += scatterAll(g, catacombHArches, 100, avoid)
	g.logger.Debug("catacomb arches placed", "doors", doors, "arches", arches)
	miniset.Scatter(g.rng, g.grid, catacombCrushColumn, 99, avoid)
	for _, d := range catacombRuins {
		miniset.Scatter(g.rng, g.grid, d.set, d.chance, avoid)
	}
	scatterAll(g, catacombPancreas, 1, avoid)
	for _, d := range catacombBig {
		miniset.Scatter(g.rng, g.grid, d.set, d.chance, avoid)
	}

	Substitution{
		Base:     catacombBase,
		Variants: 16,
		Avoid:    avoid,
		Spacing:  2,
	}.apply(g.rng, g.grid)

	catacombShadows.apply(g.grid)
}

var catacombShadows = ShadowSet{
	Base: catacombShadowBase,
	Rules: []ShadowRule{
		{Trigger: ctbJunction, NW: ctbFloor, W: ctbFloor, SetNW: 51, SetW: 52},
		{Trigger: ctbHDoorOpen, NW: ctbFloor, W: ctbFloor, SetNW: 51, SetW: 52},
	},
}
