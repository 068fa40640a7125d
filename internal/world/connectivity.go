package world

import "github.com/zyedidia/generic/mapset"

// OpenFunc classifies a tile as walkable for connectivity checks.
type OpenFunc func(Tile) bool

// OpenArea counts the open cells of p.
func OpenArea(p *Plane, open OpenFunc) int {
	n := 0
	for y := 0; y < p.Height(); y++ {
		for x := 0; x < p.Width(); x++ {
			if open(p.At(x, y)) {
				n++
			}
		}
	}
	return n
}

// LastOpen returns the last open cell of p in row-major order.
func LastOpen(p *Plane, open OpenFunc) (Point, bool) {
	for y := p.Height() - 1; y >= 0; y-- {
		for x := p.Width() - 1; x >= 0; x-- {
			if open(p.At(x, y)) {
				return Point{X: x, Y: y}, true
			}
		}
	}
	return Point{}, false
}

// Reachable collects the open cells 4-connected to start.
func Reachable(p *Plane, start Point, open OpenFunc) mapset.Set[Point] {
	visited := mapset.New[Point]()
	if !p.In(start.X, start.Y) || !open(p.At(start.X, start.Y)) {
		return visited
	}
	queue := []Point{start}
	visited.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		neighbors := []Point{current.Add(0, -1), current.Add(1, 0), current.Add(0, 1), current.Add(-1, 0)}
		for _, n := range neighbors {
			if !p.In(n.X, n.Y) || visited.Has(n) || !open(p.At(n.X, n.Y)) {
				continue
			}
			visited.Put(n)
			queue = append(queue, n)
		}
	}
	return visited
}

// FloodReachable reports whether every open cell of p can be reached from
// start.
func FloodReachable(p *Plane, start Point, open OpenFunc) bool {
	reached := Reachable(p, start, open)
	return reached.Size() == OpenArea(p, open)
}
