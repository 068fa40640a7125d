package game

import "github.com/samdwyer/dungeonseed/internal/drlg"

// Config holds the starting position of the browser.
type Config struct {
	Seed  uint32
	Depth int
	Entry drlg.Entry
	// Generator builds the levels; nil uses the zero Generator.
	Generator *drlg.Generator
}

func (c Config) cursor() Cursor {
	depth := c.Depth
	if depth == 0 {
		depth = MinDepth
	}
	return Cursor{Seed: c.Seed, Depth: depth, Entry: c.Entry}.Descend(0)
}
