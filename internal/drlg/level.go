package drlg

import (
	"errors"
	"fmt"

	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// ErrSetPieceUnsupported is returned when a set piece is requested for a
// family that cannot host one.
var ErrSetPieceUnsupported = errors.New("set pieces are supported by catacombs and hell only")

// Request describes one level to generate.
type Request struct {
	Seed  uint32
	Depth int
	Entry Entry
	Mode  Mode

	// MegaTiles expands coarse tiles into pieces. A synthetic table is used
	// when nil.
	MegaTiles *world.MegaTiles
	// SetPiece is stamped into a reserved room when set.
	SetPiece *world.SetPiece
}

// Validate checks the request against the level registry.
func (r Request) Validate(levels *gamedata.LevelRegistry) error {
	_, _, err := r.lookup(levels)
	return err
}

func (r Request) lookup(levels *gamedata.LevelRegistry) (*gamedata.LevelDef, Family, error) {
	def := levels.ByDepth(r.Depth)
	if def == nil {
		return nil, 0, fmt.Errorf("no level defined for depth %d", r.Depth)
	}
	family, err := ParseFamily(def.Family)
	if err != nil {
		return nil, 0, fmt.Errorf("depth %d: %w", r.Depth, err)
	}
	if _, ok := modeNames[r.Mode]; !ok {
		return nil, 0, fmt.Errorf("unknown mode %d", r.Mode)
	}
	if r.SetPiece != nil && family != Catacombs && family != Hell {
		return nil, 0, ErrSetPieceUnsupported
	}
	return def, family, nil
}

// Anchors are the named points a level exposes. View points are piece grid
// coordinates; stair points are the coarse origins of their stamps.
type Anchors struct {
	View       world.Point // where the player appears
	LevelView  world.Point // map view origin, tied to the up stairs
	StairsUp   world.Point
	StairsDown world.Point
	Warp       world.Point
	HasWarp    bool
}

// Stages records which optional stages ran.
type Stages struct {
	Fixup      bool
	Decoration bool
}

// Level is the outcome of a successful generation.
type Level struct {
	Family    Family
	Depth     int
	Entry     Entry
	Mode      Mode
	Seed      uint32 // requested seed
	LevelSeed uint32 // generator state at the start of the accepted attempt
	Draws     uint64 // values drawn over the whole call
	Attempts  int

	// OutOfBounds counts grid reads and writes that fell off the grid.
	OutOfBounds int
	// WalkTimeouts counts corridor walks abandoned over the whole call.
	WalkTimeouts int

	// Grid is nil for probe modes.
	Grid    *world.TileGrid
	Anchors Anchors

	// Rooms lists carved rooms in coarse coordinates.
	Rooms []world.Room
	// Chambers lists the pre-built cathedral chambers.
	Chambers []world.Room
	// Quads lists regions reserved from stamps.
	Quads []world.Room
	// SetPiece is the area covered by the set piece, empty without one.
	SetPiece world.Room
	Stages   Stages
}

// Entrance returns the point the player enters the level at.
func (l *Level) Entrance() world.Point {
	return l.Anchors.View
}

func (l *Level) resetAttempt() {
	l.Anchors = Anchors{}
	l.Rooms = l.Rooms[:0]
	l.Chambers = l.Chambers[:0]
	l.Quads = l.Quads[:0]
	l.SetPiece = world.Room{}
}
