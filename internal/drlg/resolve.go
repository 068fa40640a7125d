package drlg

import "github.com/samdwyer/dungeonseed/internal/world"

// ConvTable maps a 4-bit neighbourhood code to a tile id.
type ConvTable [16]world.Tile

func bit(t world.Tile) int {
	if t != 0 {
		return 1
	}
	return 0
}

// doubled scales src by two; every cell becomes a 2x2 block.
func doubled(src *world.Plane) *world.Plane {
	hi := world.NewPlane(src.Width()*2, src.Height()*2)
	for y := 0; y < src.Height(); y++ {
		for x := 0; x < src.Width(); x++ {
			t := src.At(x, y)
			hi.Set(2*x, 2*y, t)
			hi.Set(2*x+1, 2*y, t)
			hi.Set(2*x, 2*y+1, t)
			hi.Set(2*x+1, 2*y+1, t)
		}
	}
	return hi
}

// convertBlocks samples hi at odd offsets and writes the converted 2x2 code
// of each sample into dst. The last row and column of dst are not visited.
//
// The code is 8*se + 4*sw + 2*ne + nw.
func convertBlocks(dst, hi *world.Plane, table *ConvTable) {
	for j, dy := 0, 1; dy <= hi.Height()-3; j, dy = j+1, dy+2 {
		for i, dx := 0, 1; dx <= hi.Width()-3; i, dx = i+1, dx+2 {
			code := 8*bit(hi.At(dx+1, dy+1)) + 4*bit(hi.At(dx, dy+1)) +
				2*bit(hi.At(dx+1, dy)) + bit(hi.At(dx, dy))
			dst.Set(i, j, table[code])
		}
	}
}

// mirrored expands a quarter plane into a doubled plane holding the quarter
// and its three reflections.
func mirrored(quarter *world.Plane) *world.Plane {
	w, h := quarter.Width(), quarter.Height()
	hi := world.NewPlane(4*w, 4*h)
	block := func(x, y int, t world.Tile) {
		hi.Set(x, y, t)
		hi.Set(x+1, y, t)
		hi.Set(x, y+1, t)
		hi.Set(x+1, y+1, t)
	}
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			k, l := 2*i, 2*j
			block(k, l, quarter.At(i, j))
			block(k, l+2*h, quarter.At(i, h-1-j))
			block(k+2*w, l, quarter.At(w-1-i, j))
			block(k+2*w, l+2*h, quarter.At(w-1-i, h-1-j))
		}
	}
	return hi
}
