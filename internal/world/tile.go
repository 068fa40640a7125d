// Package world models the tile grids a level is assembled on.
package world

// Tile is a tile id. Coarse cells hold family tile ids, fine cells hold
// mega-tile piece ids and scratch planes hold carve markers.
type Tile uint16

// Flag marks coarse cells for later stages.
type Flag uint8

const (
	// FlagHDoor marks a horizontal wall cell that should become a door.
	FlagHDoor Flag = 1 << 0
	// FlagVDoor marks a vertical wall cell that should become a door.
	FlagVDoor Flag = 1 << 1
	// FlagReserved keeps stamps out of a region without protecting it.
	FlagReserved Flag = 1 << 2
	// FlagChamber marks the interior of a pre-built chamber.
	FlagChamber Flag = 1 << 6
	// FlagProtected marks cells written by a set piece or a door.
	FlagProtected Flag = 1 << 7
)

const (
	// Width and Height are the coarse grid dimensions.
	Width  = 40
	Height = 40

	// FineWidth and FineHeight are the piece grid dimensions.
	FineWidth  = 112
	FineHeight = 112

	// FineOffset is the border between the piece grid edge and the piece
	// block of coarse cell (0, 0).
	FineOffset = 16
)

// Point is a cell position.
type Point struct {
	X, Y int
}

// Add returns p shifted by (dx, dy).
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// FineOrigin returns the piece grid position of the block for coarse cell (x, y).
func FineOrigin(x, y int) Point {
	return Point{X: FineOffset + 2*x, Y: FineOffset + 2*y}
}
