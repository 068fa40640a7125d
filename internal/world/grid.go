package world

// TileGrid holds the three congruent layers of a level: the coarse tile
// grid the generators work on, the fine piece grid derived from it and the
// per-cell flags.
type TileGrid struct {
	coarse  *Plane
	fine    *Plane
	flags   []Flag
	flagOOB int
}

// NewTileGrid creates an empty grid.
func NewTileGrid() *TileGrid {
	return &TileGrid{
		coarse: NewPlane(Width, Height),
		fine:   NewPlane(FineWidth, FineHeight),
		flags:  make([]Flag, Width*Height),
	}
}

// Coarse exposes the coarse plane for stages that ignore protection.
func (g *TileGrid) Coarse() *Plane { return g.coarse }

// Fine exposes the piece plane.
func (g *TileGrid) Fine() *Plane { return g.fine }

// Reset clears every layer.
func (g *TileGrid) Reset() {
	g.coarse.Fill(0)
	g.fine.Fill(0)
	for i := range g.flags {
		g.flags[i] = 0
	}
}

// At returns the coarse tile at (x, y), or 0 off the grid.
func (g *TileGrid) At(x, y int) Tile {
	return g.coarse.At(x, y)
}

// Set writes a coarse tile unless the cell is protected. It reports
// whether the write happened.
func (g *TileGrid) Set(x, y int, t Tile) bool {
	if g.Protected(x, y) {
		return false
	}
	g.coarse.Set(x, y, t)
	return true
}

// Stamp writes a coarse tile regardless of protection.
func (g *TileGrid) Stamp(x, y int, t Tile) {
	g.coarse.Set(x, y, t)
}

// FineAt returns the piece at fine position (x, y).
func (g *TileGrid) FineAt(x, y int) Tile {
	return g.fine.At(x, y)
}

// Flags returns the flags of coarse cell (x, y), or 0 off the grid.
func (g *TileGrid) Flags(x, y int) Flag {
	if !g.coarse.In(x, y) {
		g.flagOOB++
		return 0
	}
	return g.flags[y*Width+x]
}

// SetFlags replaces the flags of (x, y).
func (g *TileGrid) SetFlags(x, y int, f Flag) {
	if !g.coarse.In(x, y) {
		g.flagOOB++
		return
	}
	g.flags[y*Width+x] = f
}

// AddFlags sets f on (x, y) in addition to existing flags.
func (g *TileGrid) AddFlags(x, y int, f Flag) {
	g.SetFlags(x, y, g.Flags(x, y)|f)
}

// MaskFlags keeps only the flags in mask on every cell.
func (g *TileGrid) MaskFlags(mask Flag) {
	for i := range g.flags {
		g.flags[i] &= mask
	}
}

// Protected reports whether (x, y) carries FlagProtected.
func (g *TileGrid) Protected(x, y int) bool {
	return g.Flags(x, y)&FlagProtected != 0
}

// Protect marks (x, y) as protected.
func (g *TileGrid) Protect(x, y int) {
	g.AddFlags(x, y, FlagProtected)
}

// OutOfBounds returns how many accesses fell outside any layer.
func (g *TileGrid) OutOfBounds() int {
	return g.coarse.OutOfBounds() + g.fine.OutOfBounds() + g.flagOOB
}

// ApplySetPiece stamps sp with its top-left corner at (x, y). Every covered
// cell is protected; zero cells of sp take fill, or stay unchanged when fill
// is 0.
func (g *TileGrid) ApplySetPiece(x, y int, sp *SetPiece, fill Tile) {
	for j := 0; j < sp.Height; j++ {
		for i := 0; i < sp.Width; i++ {
			t := sp.At(i, j)
			switch {
			case t != 0:
				g.Stamp(x+i, y+j, t)
			case fill != 0:
				g.Stamp(x+i, y+j, fill)
			}
			g.Protect(x+i, y+j)
		}
	}
}

// Expand derives the piece grid from the coarse grid. The border outside
// the coarse footprint is filled with the pieces of solid.
func (g *TileGrid) Expand(mega *MegaTiles, solid Tile) {
	border := mega.Block(solid)
	for y := 0; y < FineHeight; y += 2 {
		for x := 0; x < FineWidth; x += 2 {
			g.setBlock(x, y, border)
		}
	}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			o := FineOrigin(x, y)
			g.setBlock(o.X, o.Y, mega.Block(g.coarse.At(x, y)))
		}
	}
}

func (g *TileGrid) setBlock(x, y int, b [4]Tile) {
	g.fine.Set(x, y, b[0])
	g.fine.Set(x+1, y, b[1])
	g.fine.Set(x, y+1, b[2])
	g.fine.Set(x+1, y+1, b[3])
}

// Clone returns an independent copy.
func (g *TileGrid) Clone() *TileGrid {
	return &TileGrid{
		coarse:  g.coarse.Clone(),
		fine:    g.fine.Clone(),
		flags:   append([]Flag(nil), g.flags...),
		flagOOB: g.flagOOB,
	}
}

// Equal reports whether both grids hold the same tiles, pieces and flags.
func (g *TileGrid) Equal(o *TileGrid) bool {
	if o == nil || !g.coarse.Equal(o.coarse) || !g.fine.Equal(o.fine) {
		return false
	}
	for i := range g.flags {
		if g.flags[i] != o.flags[i] {
			return false
		}
	}
	return true
}
