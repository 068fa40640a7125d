package miniset

import (
	"github.com/samdwyer/dungeonseed/internal/rng"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Quadrant locates a placement relative to the exclusion anchor.
type Quadrant int

const (
	QuadNone Quadrant = iota
	QuadTopLeft
	QuadTopRight
	QuadBottomLeft
	QuadBottomRight
)

// Search selects how a placement walks the grid after a miss.
type Search int

const (
	// SearchShift nudges the origin out of the anchor band and advances it
	// in row-major order, failing once the miss count exceeds the budget.
	SearchShift Search = iota
	// SearchRedraw draws a fresh origin when it lands in the anchor band
	// and gives up after the budget of checks.
	SearchRedraw
)

const (
	// ShiftBudget is the miss budget of SearchShift.
	ShiftBudget = 4000
	// RedrawBudget is the check budget of SearchRedraw.
	RedrawBudget = 200

	// anchorReach is how far past the anchor the exclusion band extends.
	anchorReach = 12
)

// Options configures a placement.
type Options struct {
	// Min and Max bound the number of copies: Max-Min == 0 places one copy,
	// otherwise Intn(Max-Min)+Min copies.
	Min, Max int
	// Anchor excludes origins in a band around it. Nil disables the band.
	Anchor *world.Point
	// NoQuad rejects origins in one quadrant around Anchor.
	NoQuad Quadrant
	// Avoid rejects origins inside this inclusive rectangle (SearchRedraw).
	Avoid world.Room
	Search Search
	// Budget overrides the default budget of Search when positive.
	Budget int
	// ViewOffset is added to twice the origin to produce Result.View.
	ViewOffset world.Point
}

// Result describes the last placed copy.
type Result struct {
	Origin   world.Point
	Quadrant Quadrant
	View     world.Point
	Placed   int
	Misses   int
}

// Place stamps p onto g at positions drawn from r. A failed copy aborts the
// call and leaves earlier copies in place.
func Place(r *rng.Engine, g *world.TileGrid, p Pattern, opt Options) (Result, bool) {
	count := 1
	if opt.Max-opt.Min != 0 {
		count = r.Intn(opt.Max-opt.Min) + opt.Min
	}

	anchor := world.Point{X: -1, Y: -1}
	if opt.Anchor != nil {
		anchor = *opt.Anchor
	}

	var res Result
	var sx, sy int
	for i := 0; i < count; i++ {
		var misses int
		var ok bool
		if opt.Search == SearchRedraw {
			sx, sy, misses, ok = redraw(r, g, p, anchor, opt)
		} else {
			sx, sy, misses, ok = shift(r, g, p, anchor, opt)
		}
		res.Misses += misses
		if !ok {
			return res, false
		}
		p.StampAt(g, sx, sy)
		res.Placed++
	}

	res.Origin = world.Point{X: sx, Y: sy}
	res.View = world.Point{X: 2*sx + opt.ViewOffset.X, Y: 2*sy + opt.ViewOffset.Y}
	res.Quadrant = quadrantOf(sx, sy, anchor)
	return res, true
}

func shift(r *rng.Engine, g *world.TileGrid, p Pattern, anchor world.Point, opt Options) (int, int, int, bool) {
	budget := opt.Budget
	if budget <= 0 {
		budget = ShiftBudget
	}
	hasAnchor := opt.Anchor != nil

	sx := r.Intn(world.Width - p.Width)
	sy := r.Intn(world.Height - p.Height)
	misses := 0
	for {
		ok := true
		if hasAnchor && sx >= anchor.X-p.Width && sx <= anchor.X+anchorReach {
			sx++
			ok = false
		}
		if hasAnchor && sy >= anchor.Y-p.Height && sy <= anchor.Y+anchorReach {
			sy++
			ok = false
		}
		if inQuadrant(sx, sy, anchor, opt.NoQuad) {
			ok = false
		}
		if ok && !p.Matches(g, sx, sy) {
			ok = false
		}
		if ok {
			return sx, sy, misses, true
		}

		sx++
		if sx == world.Width-p.Width {
			sx = 0
			sy++
			if sy == world.Height-p.Height {
				sy = 0
			}
		}
		misses++
		if misses > budget {
			return sx, sy, misses, false
		}
	}
}

func redraw(r *rng.Engine, g *world.TileGrid, p Pattern, anchor world.Point, opt Options) (int, int, int, bool) {
	budget := opt.Budget
	if budget <= 0 {
		budget = RedrawBudget
	}
	hasAnchor := opt.Anchor != nil

	sx := r.Intn(world.Width - p.Width)
	sy := r.Intn(world.Height - p.Height)
	found := false
	checks := 0
	for ; !found && checks < budget; checks++ {
		found = true
		if !opt.Avoid.Empty() && opt.Avoid.Contains(sx, sy) {
			found = false
		}
		if hasAnchor && sx >= anchor.X-p.Width && sx <= anchor.X+anchorReach {
			sx = r.Intn(world.Width - p.Width)
			sy = r.Intn(world.Height - p.Height)
			found = false
		}
		if hasAnchor && sy >= anchor.Y-p.Height && sy <= anchor.Y+anchorReach {
			sx = r.Intn(world.Width - p.Width)
			sy = r.Intn(world.Height - p.Height)
			found = false
		}
		if found && !p.Matches(g, sx, sy) {
			found = false
		}
		if !found {
			sx++
			if sx == world.Width-p.Width {
				sx = 0
				sy++
				if sy == world.Height-p.Height {
					sy = 0
				}
			}
		}
	}
	// A match on the last permitted check still counts as a failure.
	if checks >= budget {
		return sx, sy, checks, false
	}
	return sx, sy, checks - 1, true
}

func inQuadrant(sx, sy int, anchor world.Point, q Quadrant) bool {
	switch q {
	case QuadTopLeft:
		return sx < anchor.X && sy < anchor.Y
	case QuadTopRight:
		return sx > anchor.X && sy < anchor.Y
	case QuadBottomLeft:
		return sx < anchor.X && sy > anchor.Y
	case QuadBottomRight:
		return sx > anchor.X && sy > anchor.Y
	}
	return false
}

func quadrantOf(sx, sy int, anchor world.Point) Quadrant {
	switch {
	case sx < anchor.X && sy < anchor.Y:
		return QuadTopLeft
	case sx > anchor.X && sy < anchor.Y:
		return QuadTopRight
	case sx < anchor.X && sy > anchor.Y:
		return QuadBottomLeft
	default:
		return QuadBottomRight
	}
}
