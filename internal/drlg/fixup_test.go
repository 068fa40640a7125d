package drlg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeonseed/internal/rng"
	"github.com/samdwyer/dungeonseed/internal/world"
)

func gridOf(rows ...[]world.Tile) *world.TileGrid {
	g := world.NewTileGrid()
	for y, row := range rows {
		for x, t := range row {
			g.Set(x, y, t)
		}
	}
	return g
}

func TestRuleRewritesNeighbour(t *testing.T) {
	g := gridOf([]world.Tile{2, 22, 13, 22})
	RuleSet{fix(2, 1, 0, 22, 23)}.applyAll(g)

	assert.Equal(t, world.Tile(23), g.At(1, 0))
	assert.Equal(t, world.Tile(22), g.At(3, 0))
}

func TestLaterRulesSeeEarlierWrites(t *testing.T) {
	g := gridOf([]world.Tile{1, 5})
	RuleSet{
		fix(1, 1, 0, 5, 6),
		fix(1, 1, 0, 6, 7),
	}.applyAll(g)
	assert.Equal(t, world.Tile(7), g.At(1, 0))
}

func TestDirtRewritesSelfWhenNeighbourDiffers(t *testing.T) {
	g := gridOf([]world.Tile{21, 19, 21, 4})
	RuleSet{dirt(21, 1, 0, 19, 202)}.applyAll(g)

	assert.Equal(t, world.Tile(21), g.At(0, 0))
	assert.Equal(t, world.Tile(202), g.At(2, 0))
}

func TestRuleEdgeReadsAsZero(t *testing.T) {
	g := world.NewTileGrid()
	g.Set(world.Width-1, 0, 8)
	RuleSet{dirt(8, 1, 0, 0, 9)}.applyAll(g)

	assert.Equal(t, world.Tile(8), g.At(world.Width-1, 0))
	assert.Positive(t, g.OutOfBounds())
}

func TestBaseTable(t *testing.T) {
	tbl := baseTable(10, []world.Tile{1, 4, 5}, []world.Tile{2, 9})
	assert.Equal(t, []world.Tile{0, 1, 2, 0, 1, 1, 0, 0, 0, 2}, tbl)
}

func TestSubstitutionVariantCycles(t *testing.T) {
	s := Substitution{Base: baseTable(8, []world.Tile{1, 3, 6})}

	assert.Equal(t, world.Tile(1), s.variant(1, 0))
	assert.Equal(t, world.Tile(3), s.variant(1, 1))
	assert.Equal(t, world.Tile(6), s.variant(1, 2))
	assert.Equal(t, world.Tile(1), s.variant(1, 3))
	assert.Equal(t, world.Tile(3), s.variant(1, 4))
}

func TestSubstitutionKeepsBaseType(t *testing.T) {
	s := Substitution{
		Base:     baseTable(8, []world.Tile{1, 3, 6}),
		Variants: 16,
		Odds:     1,
	}
	g := world.NewTileGrid()
	g.Coarse().Fill(1)
	s.apply(rng.New(5), g)

	changed := 0
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			tile := g.At(x, y)
			require.Contains(t, []world.Tile{1, 3, 6}, tile)
			if tile != 1 {
				changed++
			}
		}
	}
	assert.Positive(t, changed)
}

func TestSubstitutionRespectsAvoidAndFlags(t *testing.T) {
	s := Substitution{
		Base:       baseTable(8, []world.Tile{1, 3}),
		Variants:   2,
		Odds:       1,
		Avoid:      world.Room{X: 0, Y: 0, Width: world.Width, Height: 5},
		FlagsBlock: true,
	}
	g := world.NewTileGrid()
	g.Coarse().Fill(1)
	for x := 0; x < world.Width; x++ {
		g.SetFlags(x, 10, world.FlagReserved)
	}
	s.apply(rng.New(9), g)

	for x := 0; x < world.Width; x++ {
		assert.Equal(t, world.Tile(1), g.At(x, 2))
		assert.Equal(t, world.Tile(1), g.At(x, 10))
	}
}

func TestShadowWritesNeighbours(t *testing.T) {
	s := ShadowSet{
		Base:  baseTable(16, []world.Tile{3}, []world.Tile{6}),
		Rules: []ShadowRule{{Trigger: 3, W: 6, SetW: 9, SetN: 10}},
	}
	g := gridOf(
		[]world.Tile{0, 0},
		[]world.Tile{6, 3},
	)
	s.apply(g)

	assert.Equal(t, world.Tile(9), g.At(0, 1))
	assert.Equal(t, world.Tile(10), g.At(1, 0))
}

func TestShadowKeepFlagged(t *testing.T) {
	s := ShadowSet{
		Base:        baseTable(16, []world.Tile{3}, []world.Tile{6}),
		Rules:       []ShadowRule{{Trigger: 3, W: 6, SetW: 9}},
		KeepFlagged: true,
	}
	g := gridOf(
		[]world.Tile{0, 0},
		[]world.Tile{6, 3},
	)
	g.SetFlags(0, 1, world.FlagHDoor)
	s.apply(g)
	assert.Equal(t, world.Tile(6), g.At(0, 1))
}

func TestWallRun(t *testing.T) {
	const f = catFloor
	g := gridOf(
		[]world.Tile{f, f, f, f, f, f, f},
		[]world.Tile{3, f, f, f, f, f, 4},
		[]world.Tile{f, f, f, f, f, f, f},
	)
	assert.Equal(t, 6, wallRun(g, 0, 1, 1, 0, f, cathedralWallEnds, 3))
	assert.Equal(t, -1, wallRun(g, 0, 1, 1, 0, f, cathedralWallEnds, 7))

	g.SetFlags(3, 1, world.FlagChamber)
	assert.Equal(t, -1, wallRun(g, 0, 1, 1, 0, f, cathedralWallEnds, 3))
}

func TestMirroredReflectsQuarter(t *testing.T) {
	q := world.NewPlane(3, 3)
	q.Set(0, 0, 1)
	hi := mirrored(q)

	require.Equal(t, 12, hi.Width())
	assert.Equal(t, world.Tile(1), hi.At(0, 0))
	assert.Equal(t, world.Tile(1), hi.At(11, 0))
	assert.Equal(t, world.Tile(1), hi.At(0, 11))
	assert.Equal(t, world.Tile(1), hi.At(11, 11))
	assert.Equal(t, world.Tile(0), hi.At(5, 5))
}

func TestConvertBlocksCode(t *testing.T) {
	src := world.NewPlane(3, 3)
	src.Set(1, 1, 1)
	hi := doubled(src)
	dst := world.NewPlane(3, 3)
	var table ConvTable
	for i := range table {
		table[i] = world.Tile(100 + i)
	}
	convertBlocks(dst, hi, &table)

	// Sample (1, 1) sees the set block only in its south-east corner.
	assert.Equal(t, world.Tile(108), dst.At(0, 0))
	assert.Equal(t, world.Tile(101), dst.At(1, 1))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, CategoryFloor, Classify(Cathedral, catFloor))
	assert.Equal(t, CategorySolid, Classify(Cathedral, catSolid))
	assert.Equal(t, CategoryDoor, Classify(Catacombs, ctbVDoorOpen))
	assert.Equal(t, CategoryStairs, Classify(Hell, 45))
	assert.Equal(t, CategoryWall, Classify(Caves, 3))
	assert.Equal(t, CategorySolid, Classify(Family(0), 1))

	walk := Walkable(Catacombs)
	assert.True(t, walk(ctbFloor))
	assert.False(t, walk(ctbBlank))
	assert.Equal(t, "stairs", CategoryStairs.String())
}

func TestRuleConditions(t *testing.T) {
	g := gridOf(
		[]world.Tile{0, 18, 0},
		[]world.Tile{19, 4, 2},
		[]world.Tile{0, 1, 0},
		[]world.Tile{19, 4, 2},
		[]world.Tile{0, 1, 0},
	)
	RuleSet{put(19, 1, 0, 17, cell(2, 0, 2), cell(1, -1, 18), cell(1, 1, 1))}.applyAll(g)

	assert.Equal(t, world.Tile(17), g.At(1, 1))
	// The second row lacks the 18 above.
	assert.Equal(t, world.Tile(4), g.At(1, 3))
}

func TestBecomeRewritesSelf(t *testing.T) {
	g := gridOf(
		[]world.Tile{5, 0, 5},
		[]world.Tile{0, 7, 0},
	)
	RuleSet{become(5, 1, 1, 7, 7)}.applyAll(g)
	assert.Equal(t, world.Tile(7), g.At(0, 0))
	assert.Equal(t, world.Tile(5), g.At(2, 0))
}

// layout builds a coarse plane from rows of layout markers.
func layout(rows ...string) *world.Plane {
	g := world.NewTileGrid()
	p := g.Coarse()
	p.Fill(preVoid)
	for y, row := range rows {
		for x, c := range row {
			p.Set(x, y, world.Tile(c))
		}
	}
	return p
}

func TestCatacombPatterns(t *testing.T) {
	p := layout(
		"          ",
		"   ###    ",
		"   ...    ",
		"   ...    ",
		"   #D#    ",
		"   ...    ",
	)
	assert.Equal(t, world.Tile(11), catacombTile(p, 4, 1), "wall with void behind")
	assert.Equal(t, ctbFloor, catacombTile(p, 4, 2))
	assert.Equal(t, ctbHDoor, catacombTile(p, 4, 4))
	assert.Equal(t, ctbBlank, catacombTile(p, 8, 2))

	p = layout(
		"      ",
		"  .#. ",
		"  .D. ",
		"  .#. ",
	)
	assert.Equal(t, ctbVDoor, catacombTile(p, 3, 2))

	p = layout(
		"    ",
		" ...",
		" ###",
		" ...",
	)
	assert.Equal(t, ctbHWall, catacombTile(p, 2, 2), "wall between floors")
}

func TestCatacombPatternsEdgeMatchesAnything(t *testing.T) {
	p := layout(
		"##",
		"#.",
	)
	// Off-grid cells satisfy every code, so the later tee patterns also
	// fit a corner on the border and the last of them wins.
	assert.Equal(t, ctbJunction, catacombTile(p, 0, 0))

	p = layout(
		"   ",
		" ##",
		" #.",
	)
	assert.Equal(t, world.Tile(13), catacombTile(p, 1, 1))
}

func TestCatacombTileFix(t *testing.T) {
	g := gridOf(
		[]world.Tile{ctbVWall, ctbFloor, ctbHWall, ctbFloor},
		[]world.Tile{ctbFloor, ctbVWall, 11, 14},
	)
	catacombTileFix.applyAll(g)

	assert.Equal(t, ctbVWall, g.At(0, 1))
	assert.Equal(t, ctbFloor, g.At(1, 1))
	assert.Equal(t, ctbHWall, g.At(3, 0))
	assert.Equal(t, world.Tile(16), g.At(3, 1))
}

func TestHellTileFixShapesWalls(t *testing.T) {
	g := gridOf(
		[]world.Tile{hellHWall, hellFloor, hellHWall, hellVWall},
		[]world.Tile{hellVWall, 30, 30, 30},
		[]world.Tile{hellHWall, 30, 30, 30},
	)
	passes(g, hellTileFix)

	assert.Equal(t, world.Tile(5), g.At(1, 0), "cap after a horizontal wall")
	assert.Equal(t, world.Tile(13), g.At(3, 0), "corner joining a vertical wall")
	assert.Equal(t, world.Tile(14), g.At(0, 2), "vertical wall meeting a horizontal one")
}

func TestCaveHallFixOpensSquare(t *testing.T) {
	g := gridOf(
		[]world.Tile{5, caveFloor},
		[]world.Tile{8, 12},
	)
	passes(g, caveHallFix)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, caveFloor, g.At(x, y), "%d,%d", x, y)
		}
	}
}
