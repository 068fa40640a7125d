package miniset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeonseed/internal/rng"
	"github.com/samdwyer/dungeonseed/internal/world"
)

func filled(t world.Tile) *world.TileGrid {
	g := world.NewTileGrid()
	g.Coarse().Fill(t)
	return g
}

func wildcard(w, h int, fill world.Tile) Pattern {
	search := make([]world.Tile, w*h)
	replace := make([]world.Tile, w*h)
	for i := range replace {
		replace[i] = fill
	}
	return New(w, h, search, replace)
}

func TestNewPanicsOnSizeMismatch(t *testing.T) {
	assert.Panics(t, func() {
		New(2, 2, []world.Tile{1, 2, 3}, []world.Tile{1, 2, 3, 4})
	})
}

func TestWildcardPlacesFirstTry(t *testing.T) {
	for _, search := range []Search{SearchShift, SearchRedraw} {
		r := rng.New(12345)
		g := filled(3)

		res, ok := Place(r, g, wildcard(2, 2, 7), Options{Search: search})
		require.True(t, ok)
		assert.Equal(t, 0, res.Misses)
		assert.Equal(t, 1, res.Placed)
		assert.Equal(t, uint64(2), r.Draws())
		assert.Equal(t, world.Tile(7), g.At(res.Origin.X, res.Origin.Y))
		assert.Equal(t, world.Tile(7), g.At(res.Origin.X+1, res.Origin.Y+1))
	}
}

func TestShiftGivesUpAfterBudget(t *testing.T) {
	r := rng.New(1)
	g := filled(3)
	p := New(1, 1, []world.Tile{99}, []world.Tile{1})

	res, ok := Place(r, g, p, Options{})
	assert.False(t, ok)
	assert.Equal(t, ShiftBudget+1, res.Misses)
	assert.Equal(t, 0, res.Placed)
	assert.Equal(t, 0, g.Coarse().Count(1))
}

func TestRedrawGivesUpAfterBudget(t *testing.T) {
	r := rng.New(1)
	g := filled(3)
	p := New(1, 1, []world.Tile{99}, []world.Tile{1})

	res, ok := Place(r, g, p, Options{Search: SearchRedraw})
	assert.False(t, ok)
	assert.Equal(t, RedrawBudget, res.Misses)
	assert.Equal(t, uint64(2), r.Draws())
}

func TestRedrawMatchOnLastCheckFails(t *testing.T) {
	r := rng.New(1)
	g := filled(3)

	_, ok := Place(r, g, wildcard(1, 1, 5), Options{Search: SearchRedraw, Budget: 1})
	assert.False(t, ok)
	assert.Equal(t, 0, g.Coarse().Count(5))
}

func TestFlaggedCellsBlockPlacement(t *testing.T) {
	r := rng.New(7)
	g := filled(5)
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if x != 7 || y != 9 {
				g.Protect(x, y)
			}
		}
	}
	p := New(1, 1, []world.Tile{5}, []world.Tile{6})

	res, ok := Place(r, g, p, Options{})
	require.True(t, ok)
	assert.Equal(t, world.Point{X: 7, Y: 9}, res.Origin)
	assert.Equal(t, world.Tile(6), g.At(7, 9))
	assert.Equal(t, 1, g.Coarse().Count(6))
}

func TestAnchorBandIsAvoided(t *testing.T) {
	for seed := uint32(0); seed < 50; seed++ {
		r := rng.New(seed)
		g := filled(3)

		res, ok := Place(r, g, wildcard(4, 4, 2), Options{Anchor: &world.Point{}})
		require.True(t, ok)
		assert.Greater(t, res.Origin.X, 12)
		assert.Greater(t, res.Origin.Y, 12)
		assert.Equal(t, QuadBottomRight, res.Quadrant)
	}
}

func TestViewOffset(t *testing.T) {
	r := rng.New(3)
	g := filled(3)

	res, ok := Place(r, g, wildcard(3, 3, 2), Options{ViewOffset: world.Point{X: 21, Y: 22}})
	require.True(t, ok)
	assert.Equal(t, 2*res.Origin.X+21, res.View.X)
	assert.Equal(t, 2*res.Origin.Y+22, res.View.Y)
}

func TestCopyCountRange(t *testing.T) {
	for seed := uint32(0); seed < 30; seed++ {
		r := rng.New(seed)
		g := filled(3)

		res, ok := Place(r, g, wildcard(1, 1, 3), Options{Min: 2, Max: 5})
		require.True(t, ok)
		assert.GreaterOrEqual(t, res.Placed, 2)
		assert.Less(t, res.Placed, 5)
	}
}

func TestZeroReplacementKeepsTile(t *testing.T) {
	r := rng.New(9)
	g := filled(3)
	p := New(2, 1, []world.Tile{0, 0}, []world.Tile{0, 8})

	res, ok := Place(r, g, p, Options{})
	require.True(t, ok)
	assert.Equal(t, world.Tile(3), g.At(res.Origin.X, res.Origin.Y))
	assert.Equal(t, world.Tile(8), g.At(res.Origin.X+1, res.Origin.Y))
}

func TestPlaceReproducible(t *testing.T) {
	p := New(2, 2, []world.Tile{3, 3, 3, 0}, []world.Tile{4, 0, 0, 4})

	g1, g2 := filled(3), filled(3)
	r1, r2 := rng.New(555), rng.New(555)
	res1, ok1 := Place(r1, g1, p, Options{Min: 3, Max: 9, Search: SearchRedraw})
	res2, ok2 := Place(r2, g2, p, Options{Min: 3, Max: 9, Search: SearchRedraw})

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, res1, res2)
	assert.True(t, g1.Equal(g2))
	assert.Equal(t, r1.Draws(), r2.Draws())
}

func TestScatterKeepsDistance(t *testing.T) {
	r := rng.New(21)
	g := filled(3)
	p := New(1, 1, []world.Tile{3}, []world.Tile{9})

	placed := Scatter(r, g, p, 100, world.Room{})
	require.Greater(t, placed, 0)
	assert.Equal(t, placed, g.Coarse().Count(9))

	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if g.At(x, y) != 9 {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					assert.NotEqual(t, world.Tile(9), g.At(x+dx, y+dy))
				}
			}
		}
	}
}

func TestScatterRespectsAvoid(t *testing.T) {
	r := rng.New(21)
	g := filled(3)
	p := New(1, 1, []world.Tile{3}, []world.Tile{9})
	avoid := world.Room{X: 0, Y: 0, Width: world.Width, Height: world.Height}

	assert.Equal(t, 0, Scatter(r, g, p, 100, avoid))
	assert.Equal(t, uint64(0), r.Draws())
}
