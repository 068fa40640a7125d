package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMegaTiles(t *testing.T) {
	data := []byte{
		0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00,
		0x10, 0x01, 0x11, 0x01, 0x12, 0x01, 0x13, 0x01,
	}
	m, err := ParseMegaTiles(data)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, [4]Tile{2, 3, 4, 5}, m.Block(1))
	assert.Equal(t, [4]Tile{0x111, 0x112, 0x113, 0x114}, m.Block(2))
	assert.Equal(t, [4]Tile{}, m.Block(0))
	assert.Equal(t, [4]Tile{}, m.Block(3))
}

func TestParseMegaTilesErrors(t *testing.T) {
	_, err := ParseMegaTiles(nil)
	assert.ErrorIs(t, err, ErrEmptyTable)

	_, err = ParseMegaTiles(make([]byte, 7))
	assert.Error(t, err)
}

func TestSyntheticMegaTiles(t *testing.T) {
	m := SyntheticMegaTiles(3)
	assert.Equal(t, [4]Tile{1, 2, 3, 4}, m.Block(1))
	assert.Equal(t, [4]Tile{9, 10, 11, 12}, m.Block(3))
}

func TestParseSetPiece(t *testing.T) {
	data := []byte{
		0x02, 0x00, 0x01, 0x00,
		0x07, 0x00, 0x00, 0x00,
	}
	sp, err := ParseSetPiece(data)
	require.NoError(t, err)

	assert.Equal(t, 2, sp.Width)
	assert.Equal(t, 1, sp.Height)
	assert.Equal(t, Tile(7), sp.At(0, 0))
	assert.Equal(t, Tile(0), sp.At(1, 0))
	assert.Equal(t, Tile(0), sp.At(5, 5))
}

func TestParseSetPieceTruncated(t *testing.T) {
	_, err := ParseSetPiece([]byte{0x02, 0x00})
	assert.Error(t, err)

	_, err = ParseSetPiece([]byte{0x02, 0x00, 0x02, 0x00, 0x01, 0x00})
	assert.Error(t, err)
}
