package drlg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeonseed/internal/world"
)

func setPiece(t *testing.T, w, h int, tile world.Tile) *world.SetPiece {
	t.Helper()
	tiles := make([]world.Tile, w*h)
	for i := range tiles {
		tiles[i] = tile
	}
	sp, err := world.NewSetPiece(w, h, tiles)
	require.NoError(t, err)
	return sp
}

func TestCathedralRecordsRooms(t *testing.T) {
	level, ok := testGenerator().Generate(context.Background(), Request{Seed: 1234, Depth: 1, Mode: BreakOnSuccess})
	require.True(t, ok)
	require.NotEmpty(t, level.Rooms)
	for _, r := range level.Rooms {
		assert.False(t, r.Empty())
	}
	require.NotEmpty(t, level.Chambers)
	for _, ch := range level.Chambers {
		assert.Equal(t, 12, ch.Width)
	}
}

func TestCathedralStairsStamped(t *testing.T) {
	level, ok := testGenerator().Generate(context.Background(), Request{Seed: 8, Depth: 3, Mode: NoContent})
	require.True(t, ok)
	up := level.Anchors.StairsUp
	down := level.Anchors.StairsDown
	assert.Equal(t, CategoryStairs, Classify(Cathedral, level.Grid.At(up.X+1, up.Y+1)))
	assert.Equal(t, CategoryStairs, Classify(Cathedral, level.Grid.At(down.X+1, down.Y)))
}

func TestCatacombWalkTimesOut(t *testing.T) {
	req := Request{Seed: 77, Depth: 6, Mode: BreakOnFailure}
	g := testGen(t, req, &stepClock{step: time.Second})
	g.beginAttempt()

	c := &catacombs{}
	c.carve(g)
	assert.Positive(t, c.timeouts)
	assert.Equal(t, c.timeouts, g.level.WalkTimeouts)

	gn := testGenerator()
	gn.Clock = &stepClock{step: time.Second}
	level, ok := gn.Generate(context.Background(), req)
	if ok {
		assert.Positive(t, level.WalkTimeouts)
	}
}

func TestCatacombWalkWithFrozenClock(t *testing.T) {
	g := testGen(t, Request{Seed: 77, Depth: 6}, &stepClock{})
	g.beginAttempt()

	c := &catacombs{}
	c.carve(g)
	assert.Zero(t, c.timeouts)
	assert.Zero(t, g.level.WalkTimeouts)
}

func TestCatacombSetPieceProtected(t *testing.T) {
	const marker world.Tile = 99
	sp := setPiece(t, 6, 5, marker)

	level, ok := testGenerator().Generate(context.Background(), Request{Seed: 2024, Depth: 7, SetPiece: sp})
	require.True(t, ok)
	area := level.SetPiece
	require.Equal(t, 6, area.Width)
	require.Equal(t, 5, area.Height)

	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			assert.Equal(t, marker, level.Grid.At(x, y), "cell %d,%d", x, y)
			assert.True(t, level.Grid.Protected(x, y))
		}
	}
	assert.False(t, area.Contains(level.Anchors.StairsUp.X, level.Anchors.StairsUp.Y))
}

func TestHellSetPieceProtected(t *testing.T) {
	const marker world.Tile = 200
	sp := setPiece(t, 8, 8, marker)

	level, ok := testGenerator().Generate(context.Background(), Request{Seed: 31337, Depth: 14, SetPiece: sp})
	require.True(t, ok)
	area := level.SetPiece
	require.False(t, area.Empty())

	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			assert.Equal(t, marker, level.Grid.At(x, y))
			assert.True(t, level.Grid.Protected(x, y))
		}
	}
}

func TestHellBottomLevel(t *testing.T) {
	level, ok := testGenerator().Generate(context.Background(), Request{Seed: 16, Depth: 16})
	require.True(t, ok)

	require.Len(t, level.Quads, 4)
	for _, q := range level.Quads {
		assert.Equal(t, quadSize, q.Width)
		assert.Equal(t, quadSize, q.Height)
		assert.NotEqual(t, world.Flag(0), level.Grid.Flags(q.X, q.Y)&world.FlagReserved)
	}
	assert.Equal(t, world.Point{}, level.Anchors.StairsDown)
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			require.NotEqual(t, world.Tile(45), level.Grid.At(x, y), "down stairs at %d,%d", x, y)
		}
	}
}

func TestHellQuadsOnlyOnFirstRoomLevels(t *testing.T) {
	level, ok := testGenerator().Generate(context.Background(), Request{Seed: 16, Depth: 14})
	require.True(t, ok)
	assert.Empty(t, level.Quads)
	assert.NotEqual(t, world.Point{}, level.Anchors.StairsDown)
}

func TestCavesValidatedLayoutIsConnected(t *testing.T) {
	accepted := 0
	for seed := uint32(1); seed <= 30; seed++ {
		g := testGen(t, Request{Seed: seed, Depth: 10}, &stepClock{})
		g.beginAttempt()
		c := &caves{}
		c.carve(g)
		if !c.validate(g) {
			continue
		}
		accepted++
		p := g.grid.Coarse()
		last, ok := world.LastOpen(p, isCaveOpen)
		require.True(t, ok)
		assert.Equal(t, world.OpenArea(p, isCaveOpen), world.Reachable(p, last, isCaveOpen).Size())
		assert.GreaterOrEqual(t, world.OpenArea(p, isCaveOpen), g.def.MinArea)
	}
	assert.Positive(t, accepted)
}

func TestCavesAlwaysHaveLava(t *testing.T) {
	for seed := uint32(1); seed <= 5; seed++ {
		level, ok := testGenerator().Generate(context.Background(), Request{Seed: seed, Depth: 11, Mode: NoContent})
		require.True(t, ok)
		lava := 0
		for y := 0; y < world.Height; y++ {
			for x := 0; x < world.Width; x++ {
				if Classify(Caves, level.Grid.At(x, y)) == CategorySpecial {
					lava++
				}
			}
		}
		assert.Positive(t, lava, "seed %d", seed)
	}
}

func TestProtectedCellsRefuseSet(t *testing.T) {
	grid := world.NewTileGrid()
	grid.Stamp(3, 3, 5)
	grid.Protect(3, 3)

	assert.False(t, grid.Set(3, 3, 9))
	RuleSet{fix(0, 1, 0, 5, 9)}.applyAll(grid)
	assert.Equal(t, world.Tile(5), grid.At(3, 3))
}

var orthogonal = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func TestCatacombCorridorsWalledIn(t *testing.T) {
	for seed := uint32(1); seed <= 20; seed++ {
		g := testGen(t, Request{Seed: seed, Depth: 6}, &stepClock{step: time.Nanosecond})
		g.beginAttempt()
		c := &catacombs{}
		c.carve(g)
		p := g.grid.Coarse()
		for y := 0; y < world.Height; y++ {
			for x := 0; x < world.Width; x++ {
				if p.At(x, y) != preFloor {
					continue
				}
				for _, d := range orthogonal {
					if p.In(x+d[0], y+d[1]) {
						assert.NotEqual(t, preVoid, p.At(x+d[0], y+d[1]), "seed %d floor %d,%d", seed, x, y)
					}
				}
			}
		}
	}
}

func TestCatacombFloorNeverTouchesBlank(t *testing.T) {
	gn := testGenerator()
	levels := 0
	for seed := uint32(1); seed <= 20; seed++ {
		level, ok := gn.Generate(context.Background(), Request{Seed: seed, Depth: 6, Mode: NoContent})
		if !ok {
			continue
		}
		levels++
		for y := 1; y < world.Height-1; y++ {
			for x := 1; x < world.Width-1; x++ {
				if level.Grid.At(x, y) != ctbFloor {
					continue
				}
				for _, d := range orthogonal {
					assert.NotEqual(t, ctbBlank, level.Grid.At(x+d[0], y+d[1]), "seed %d floor %d,%d", seed, x, y)
				}
			}
		}
	}
	assert.Positive(t, levels)
}

func TestCatacombVoidFillCountsEveryWallDraw(t *testing.T) {
	g := testGen(t, Request{Seed: 3, Depth: 6}, &stepClock{step: time.Nanosecond})
	g.beginAttempt()
	p := g.grid.Coarse()
	// Odd rows are void. Even rows repeat void, wall, floor, so every wall
	// has void to the west and floor to the east but void on the diagonals
	// where the growth check wants floor.
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			tile := preVoid
			if y%2 == 0 {
				tile = [3]world.Tile{preVoid, preWall, preFloor}[x%3]
			}
			p.Set(x, y, tile)
		}
	}
	voids := p.Count(preVoid)
	require.Greater(t, voids, g.def.MaxVoid)

	before := g.rng.Draws()
	c := &catacombs{}
	assert.False(t, c.fillVoids(g))
	assert.Equal(t, voids, p.Count(preVoid))
	// The pass stops after a hundred wall draws, well short of its try cap.
	assert.Less(t, g.rng.Draws()-before, uint64(2*voidTries))
}

func TestCathedralViewFollowsStairs(t *testing.T) {
	gn := testGenerator()
	main, ok := gn.Generate(context.Background(), Request{Seed: 7, Depth: 2, Entry: EntryMain})
	require.True(t, ok)
	up := main.Anchors.StairsUp
	assert.Equal(t, world.Point{X: 2*up.X + 19, Y: 2*up.Y + 20}, main.Anchors.View)

	prev, ok := gn.Generate(context.Background(), Request{Seed: 7, Depth: 2, Entry: EntryPrev})
	require.True(t, ok)
	down := prev.Anchors.StairsDown
	assert.Equal(t, world.Point{X: 2*down.X + 19, Y: 2*down.Y + 19}, prev.Anchors.View)
}

func TestCathedralCornerFixStampsProtectedDirt(t *testing.T) {
	g := testGen(t, Request{Seed: 1, Depth: 1}, &stepClock{step: time.Nanosecond})
	grid := g.grid
	grid.Stamp(4, 4, catDirtTop)
	grid.Stamp(5, 4, catFloor)
	grid.Stamp(4, 5, catVWall)
	grid.Protect(4, 4)

	(&cathedral{}).cornerFix(g)
	assert.Equal(t, world.Tile(8), grid.At(4, 4))
	assert.True(t, grid.Protected(4, 4))
}

func TestCathedralArchEdgesDarkened(t *testing.T) {
	grid := world.NewTileGrid()
	grid.Set(3, 2, 139)
	grid.Set(4, 2, 35)
	grid.Set(3, 4, 149)
	grid.Set(4, 4, 39)
	grid.Set(3, 6, 148)
	grid.Set(4, 6, 13)
	grid.Set(3, 8, 139)
	grid.Set(4, 8, 29)
	grid.AddFlags(3, 8, world.FlagHDoor)

	shadeArchEdges(grid)
	assert.Equal(t, world.Tile(141), grid.At(3, 2))
	assert.Equal(t, world.Tile(153), grid.At(3, 4))
	assert.Equal(t, world.Tile(148), grid.At(3, 6))
	assert.Equal(t, world.Tile(139), grid.At(3, 8))
}

func TestCavesWarpGetsCornerPieces(t *testing.T) {
	g := testGen(t, Request{Seed: 1, Depth: 9}, &stepClock{step: time.Nanosecond})
	grid := g.grid
	for _, at := range [][2]int{{6, 6}, {7, 6}, {6, 7}, {7, 7}, {20, 20}, {21, 20}, {20, 21}, {21, 21}} {
		grid.Set(at[0], at[1], 125)
	}
	grid.Set(2, 2, 5)
	grid.Set(3, 3, caveFloor)

	(&caves{}).fixWarp(g)
	assert.Equal(t, world.Tile(156), grid.At(6, 6))
	assert.Equal(t, world.Tile(155), grid.At(7, 6))
	assert.Equal(t, world.Tile(153), grid.At(6, 7))
	assert.Equal(t, world.Tile(154), grid.At(7, 7))
	assert.Equal(t, caveFloor, grid.At(2, 2))
	// Only the first block is converted.
	assert.Equal(t, world.Tile(125), grid.At(20, 20))
	assert.Equal(t, CategoryStairs, Classify(Caves, grid.At(7, 7)))
}

func TestDecoratedLevelsKeepStairs(t *testing.T) {
	gn := testGenerator()
	for _, depth := range []int{6, 10} {
		for seed := uint32(1); seed <= 3; seed++ {
			level, ok := gn.Generate(context.Background(), Request{Seed: seed, Depth: depth})
			require.True(t, ok, "depth %d seed %d", depth, seed)
			up := level.Anchors.StairsUp
			stairs := 0
			for y := up.Y; y < up.Y+4; y++ {
				for x := up.X; x < up.X+4; x++ {
					if Classify(level.Family, level.Grid.At(x, y)) == CategoryStairs {
						stairs++
					}
				}
			}
			assert.Positive(t, stairs, "depth %d seed %d", depth, seed)
		}
	}
}
