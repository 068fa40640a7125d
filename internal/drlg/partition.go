package drlg

import "github.com/samdwyer/dungeonseed/internal/world"

// wallChance is the percentage roll a partition start has to pass.
const wallChance = 100

type tileSet map[world.Tile]bool

func tiles(ids ...world.Tile) tileSet {
	s := make(tileSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// wallRun measures a partition starting at (x, y) in direction (dx, dy).
// The run crosses unflagged floor cells with floor on both sides and must
// end on a tile in ends. It returns -1 when the run is shorter than min.
func wallRun(grid *world.TileGrid, x, y, dx, dy int, floor world.Tile, ends tileSet, min int) int {
	n := 1
	for ; grid.At(x+n*dx, y+n*dy) == floor; n++ {
		cx, cy := x+n*dx, y+n*dy
		if grid.At(cx-dy, cy-dx) != floor || grid.At(cx+dy, cy+dx) != floor || grid.Flags(cx, cy) != 0 {
			break
		}
	}
	if !ends[grid.At(x+n*dx, y+n*dy)] || n < min {
		return -1
	}
	return n
}

// partitionStart is a tile that may open a partition wall.
type partitionStart struct {
	At         world.Tile
	Horizontal bool
	Pillar     world.Tile // cathedral corner tile written at the start
}

var cathedralPartitionStarts = []partitionStart{
	{At: 3, Horizontal: true, Pillar: 2},
	{At: 3, Pillar: 1},
	{At: 6, Horizontal: true, Pillar: 4},
	{At: 7, Pillar: 4},
	{At: 2, Horizontal: true, Pillar: 2},
	{At: 1, Pillar: 1},
}

var cathedralWallEnds = tiles(3, 4, 5, 6, 7, 16, 17, 18, 19, 20, 21, 23, 24)

// partitionCathedral splits large floor areas with walls carrying a single
// door or arch.
func partitionCathedral(g *gen) {
	grid := g.grid
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if grid.Flags(x, y) != 0 {
				continue
			}
			for _, s := range cathedralPartitionStarts {
				if grid.At(x, y) != s.At || g.rng.Intn(100) >= wallChance {
					continue
				}
				if s.Horizontal {
					if n := wallRun(grid, x, y, 1, 0, catFloor, cathedralWallEnds, 2); n != -1 {
						cathedralHorizWall(g, x, y, s.Pillar, n)
					}
				} else if n := wallRun(grid, x, y, 0, 1, catFloor, cathedralWallEnds, 2); n != -1 {
					cathedralVertWall(g, x, y, s.Pillar, n)
				}
			}
		}
	}
}

func cathedralHorizWall(g *gen, x, y int, p world.Tile, n int) {
	var dt world.Tile
	switch g.rng.Intn(4) {
	case 0, 1:
		dt = 2
	case 2:
		dt = 12
		p = swapTile(p, 2, 12, 4, 10)
	case 3:
		dt = 36
		p = swapTile(p, 2, 36, 4, 27)
	}
	wt := world.Tile(26)
	if g.rng.Intn(6) == 5 {
		wt = 12
	}
	if dt == 12 {
		wt = 12
	}

	grid := g.grid
	grid.Set(x, y, p)
	for i := 1; i < n; i++ {
		grid.Set(x+i, y, dt)
	}
	i := g.rng.Intn(n-1) + 1
	if wt == 12 {
		grid.Set(x+i, y, wt)
		return
	}
	grid.Set(x+i, y, catHWall)
	grid.AddFlags(x+i, y, world.FlagHDoor)
}

func cathedralVertWall(g *gen, x, y int, p world.Tile, n int) {
	var dt world.Tile
	switch g.rng.Intn(4) {
	case 0, 1:
		dt = 1
	case 2:
		dt = 11
		p = swapTile(p, 1, 11, 4, 14)
	case 3:
		dt = 35
		p = swapTile(p, 1, 35, 4, 37)
	}
	wt := world.Tile(25)
	if g.rng.Intn(6) == 5 {
		wt = 11
	}
	if dt == 11 {
		wt = 11
	}

	grid := g.grid
	grid.Set(x, y, p)
	for j := 1; j < n; j++ {
		grid.Set(x, y+j, dt)
	}
	j := g.rng.Intn(n-1) + 1
	if wt == 11 {
		grid.Set(x, y+j, wt)
		return
	}
	grid.Set(x, y+j, catVWall)
	grid.AddFlags(x, y+j, world.FlagVDoor)
}

// swapTile maps a to a2 and b to b2, leaving other tiles alone.
func swapTile(t, a, a2, b, b2 world.Tile) world.Tile {
	switch t {
	case a:
		return a2
	case b:
		return b2
	}
	return t
}
