package world

// Plane is a fixed-size tile array indexed by (x, y). Reads outside the
// plane return 0 and writes outside it are dropped; both are counted.
type Plane struct {
	width, height int
	cells         []Tile
	oob           int
}

// NewPlane creates a zero-filled plane.
func NewPlane(width, height int) *Plane {
	return &Plane{
		width:  width,
		height: height,
		cells:  make([]Tile, width*height),
	}
}

// Width returns the plane width.
func (p *Plane) Width() int { return p.width }

// Height returns the plane height.
func (p *Plane) Height() int { return p.height }

// In reports whether (x, y) lies inside the plane.
func (p *Plane) In(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

// At returns the tile at (x, y), or 0 outside the plane.
func (p *Plane) At(x, y int) Tile {
	if !p.In(x, y) {
		p.oob++
		return 0
	}
	return p.cells[y*p.width+x]
}

// Set writes t at (x, y).
func (p *Plane) Set(x, y int, t Tile) {
	if !p.In(x, y) {
		p.oob++
		return
	}
	p.cells[y*p.width+x] = t
}

// Fill writes t to every cell.
func (p *Plane) Fill(t Tile) {
	for i := range p.cells {
		p.cells[i] = t
	}
}

// Count returns how many cells hold t.
func (p *Plane) Count(t Tile) int {
	n := 0
	for _, c := range p.cells {
		if c == t {
			n++
		}
	}
	return n
}

// OutOfBounds returns how many accesses fell outside the plane.
func (p *Plane) OutOfBounds() int {
	return p.oob
}

// Clone returns an independent copy.
func (p *Plane) Clone() *Plane {
	c := &Plane{width: p.width, height: p.height, oob: p.oob}
	c.cells = append([]Tile(nil), p.cells...)
	return c
}

// Equal reports whether both planes have the same size and contents.
func (p *Plane) Equal(o *Plane) bool {
	if o == nil || p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
