// Package game runs the interactive level browser.
package game

import "github.com/samdwyer/dungeonseed/internal/drlg"

// Depth bounds of the browser.
const (
	MinDepth = 1
	MaxDepth = 16
)

// Cursor is the level the browser currently shows.
type Cursor struct {
	Seed  uint32
	Depth int
	Entry drlg.Entry
	// Bare hides decoration.
	Bare bool
}

// Request returns the generation request for the cursor.
func (c Cursor) Request() drlg.Request {
	mode := drlg.Full
	if c.Bare {
		mode = drlg.NoContent
	}
	return drlg.Request{Seed: c.Seed, Depth: c.Depth, Entry: c.Entry, Mode: mode}
}

// Step moves the seed by delta, wrapping around the 32-bit range.
func (c Cursor) Step(delta int) Cursor {
	c.Seed = uint32(int64(c.Seed) + int64(delta))
	return c
}

// Descend moves the depth by delta, clamped to the defined levels.
func (c Cursor) Descend(delta int) Cursor {
	c.Depth = min(max(c.Depth+delta, MinDepth), MaxDepth)
	return c
}

// NextEntry cycles main, prev and town-warp entries.
func (c Cursor) NextEntry() Cursor {
	switch c.Entry {
	case drlg.EntryMain:
		c.Entry = drlg.EntryPrev
	case drlg.EntryPrev:
		c.Entry = drlg.EntryTownWarp
	default:
		c.Entry = drlg.EntryMain
	}
	return c
}

// ToggleBare switches decoration on or off.
func (c Cursor) ToggleBare() Cursor {
	c.Bare = !c.Bare
	return c
}
