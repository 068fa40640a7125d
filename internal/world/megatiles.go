package world

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrEmptyTable is returned when a mega-tile table holds no entries.
var ErrEmptyTable = errors.New("mega-tile table is empty")

// MegaTiles maps a coarse tile id to its 2x2 block of pieces.
type MegaTiles struct {
	blocks [][4]Tile
}

// ParseMegaTiles decodes a table of little-endian uint16 values, four per
// tile, top-left then top-right, bottom-left, bottom-right.
func ParseMegaTiles(data []byte) (*MegaTiles, error) {
	if len(data) == 0 {
		return nil, ErrEmptyTable
	}
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("mega-tile table length %d is not a multiple of 8", len(data))
	}
	m := &MegaTiles{blocks: make([][4]Tile, len(data)/8)}
	for i := range m.blocks {
		for k := 0; k < 4; k++ {
			m.blocks[i][k] = Tile(binary.LittleEndian.Uint16(data[i*8+k*2:]))
		}
	}
	return m, nil
}

// SyntheticMegaTiles builds a table of count tiles where tile t expands to
// the consecutive pieces 4(t-1)+1 .. 4(t-1)+4.
func SyntheticMegaTiles(count int) *MegaTiles {
	m := &MegaTiles{blocks: make([][4]Tile, count)}
	for i := range m.blocks {
		for k := 0; k < 4; k++ {
			m.blocks[i][k] = Tile(i*4 + k)
		}
	}
	return m
}

// Len returns the number of tiles in the table.
func (m *MegaTiles) Len() int {
	return len(m.blocks)
}

// Block returns the pieces of tile t. Tile 0 and ids past the table
// expand to empty pieces. Stored values are zero based.
func (m *MegaTiles) Block(t Tile) [4]Tile {
	if t == 0 || int(t) > len(m.blocks) {
		return [4]Tile{}
	}
	b := m.blocks[t-1]
	return [4]Tile{b[0] + 1, b[1] + 1, b[2] + 1, b[3] + 1}
}
