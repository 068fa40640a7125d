package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
)

var glyphs = map[drlg.Category]rune{
	drlg.CategoryWall:    '#',
	drlg.CategorySolid:   ' ',
	drlg.CategoryFloor:   '.',
	drlg.CategoryDoor:    '+',
	drlg.CategoryStairs:  '>',
	drlg.CategorySpecial: '*',
}

// Glyph returns the character drawn for a tile category.
func Glyph(c drlg.Category) rune {
	if r, ok := glyphs[c]; ok {
		return r
	}
	return '?'
}

// Marker runes drawn over the tile grid.
const (
	glyphEntrance = '@'
	glyphUp       = '<'
	glyphDown     = '>'
	glyphWarp     = 'W'
)

func paletteColor(p gamedata.Palette, c drlg.Category) tcell.Color {
	switch c {
	case drlg.CategoryFloor:
		return p.Floor
	case drlg.CategoryDoor:
		return p.Door
	case drlg.CategoryStairs:
		return p.Stairs
	case drlg.CategorySolid:
		return p.Solid
	case drlg.CategorySpecial:
		return p.Special
	default:
		return p.Wall
	}
}

func paletteHex(p gamedata.PaletteDef, c drlg.Category) string {
	switch c {
	case drlg.CategoryFloor:
		return p.Floor
	case drlg.CategoryDoor:
		return p.Door
	case drlg.CategoryStairs:
		return p.Stairs
	case drlg.CategorySolid:
		return p.Solid
	case drlg.CategorySpecial:
		return p.Special
	default:
		return p.Wall
	}
}
