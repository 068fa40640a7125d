package world

import (
	"encoding/binary"
	"fmt"
)

// SetPiece is a pre-authored block of coarse tiles. Zero cells leave the
// underlying tile alone.
type SetPiece struct {
	Width, Height int
	tiles         []Tile
}

// NewSetPiece builds a set piece from row-major tiles.
func NewSetPiece(width, height int, tiles []Tile) (*SetPiece, error) {
	if width <= 0 || height <= 0 || width > Width || height > Height {
		return nil, fmt.Errorf("invalid set piece size %dx%d", width, height)
	}
	if len(tiles) != width*height {
		return nil, fmt.Errorf("set piece %dx%d needs %d tiles, got %d", width, height, width*height, len(tiles))
	}
	return &SetPiece{Width: width, Height: height, tiles: append([]Tile(nil), tiles...)}, nil
}

// ParseSetPiece decodes a blob of little-endian uint16 values: width,
// height, then width*height tiles in row-major order. Trailing layers
// are ignored.
func ParseSetPiece(data []byte) (*SetPiece, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("set piece header truncated: %d bytes", len(data))
	}
	w := int(binary.LittleEndian.Uint16(data))
	h := int(binary.LittleEndian.Uint16(data[2:]))
	if len(data) < 4+2*w*h {
		return nil, fmt.Errorf("set piece %dx%d truncated: %d bytes", w, h, len(data))
	}
	tiles := make([]Tile, w*h)
	for i := range tiles {
		tiles[i] = Tile(binary.LittleEndian.Uint16(data[4+2*i:]))
	}
	return NewSetPiece(w, h, tiles)
}

// At returns the tile at (x, y) of the piece, or 0 outside it.
func (s *SetPiece) At(x, y int) Tile {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return 0
	}
	return s.tiles[y*s.Width+x]
}
