package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaneOutOfBounds(t *testing.T) {
	p := NewPlane(4, 3)
	p.Set(1, 2, 9)

	assert.Equal(t, Tile(9), p.At(1, 2))
	assert.Equal(t, Tile(0), p.At(4, 0))
	assert.Equal(t, Tile(0), p.At(-1, 0))
	p.Set(0, 3, 5)
	assert.Equal(t, 3, p.OutOfBounds())
	assert.Equal(t, 1, p.Count(9))
}

func TestGridSetRespectsProtection(t *testing.T) {
	g := NewTileGrid()
	g.Stamp(3, 3, 7)
	g.Protect(3, 3)

	assert.False(t, g.Set(3, 3, 1))
	assert.Equal(t, Tile(7), g.At(3, 3))

	assert.True(t, g.Set(4, 3, 1))
	assert.Equal(t, Tile(1), g.At(4, 3))
}

func TestGridFlagsOutOfBounds(t *testing.T) {
	g := NewTileGrid()

	assert.Equal(t, Flag(0), g.Flags(Width, 0))
	g.AddFlags(-1, 5, FlagProtected)
	assert.Equal(t, 3, g.OutOfBounds())
}

func TestMaskFlags(t *testing.T) {
	g := NewTileGrid()
	g.SetFlags(1, 1, FlagChamber|FlagHDoor)

	g.MaskFlags(^FlagChamber)
	assert.Equal(t, FlagHDoor, g.Flags(1, 1))
}

func TestApplySetPiece(t *testing.T) {
	sp, err := NewSetPiece(2, 2, []Tile{5, 0, 0, 6})
	require.NoError(t, err)

	g := NewTileGrid()
	g.Coarse().Fill(3)
	g.ApplySetPiece(10, 10, sp, 0)

	assert.Equal(t, Tile(5), g.At(10, 10))
	assert.Equal(t, Tile(3), g.At(11, 10))
	assert.Equal(t, Tile(6), g.At(11, 11))
	for y := 10; y < 12; y++ {
		for x := 10; x < 12; x++ {
			assert.True(t, g.Protected(x, y))
		}
	}
	assert.False(t, g.Protected(12, 10))
}

func TestExpandCongruence(t *testing.T) {
	g := NewTileGrid()
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			g.Stamp(x, y, Tile((x+y)%20+1))
		}
	}
	mega := SyntheticMegaTiles(30)
	g.Expand(mega, 22)

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			o := FineOrigin(x, y)
			b := mega.Block(g.At(x, y))
			require.Equal(t, b[0], g.FineAt(o.X, o.Y))
			require.Equal(t, b[1], g.FineAt(o.X+1, o.Y))
			require.Equal(t, b[2], g.FineAt(o.X, o.Y+1))
			require.Equal(t, b[3], g.FineAt(o.X+1, o.Y+1))
		}
	}

	solid := mega.Block(22)
	assert.Equal(t, solid[0], g.FineAt(0, 0))
	assert.Equal(t, solid[3], g.FineAt(FineWidth-1, FineHeight-1))
	assert.Equal(t, 0, g.OutOfBounds())
}

func TestCloneAndEqual(t *testing.T) {
	g := NewTileGrid()
	g.Stamp(1, 2, 3)
	c := g.Clone()
	assert.True(t, g.Equal(c))

	c.Stamp(1, 2, 4)
	assert.False(t, g.Equal(c))
}
