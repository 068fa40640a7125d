package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// DumpOptions controls Dump.
type DumpOptions struct {
	// Palette colours every glyph when Color is set.
	Palette gamedata.PaletteDef
	Color   bool
	// Markers overlays the entrance and stairs.
	Markers bool
}

var headerStyle = color.Style{color.FgCyan, color.OpBold}

// Dump writes the coarse grid of level as text, one row per line.
func Dump(w io.Writer, level *drlg.Level, opt DumpOptions) error {
	if level == nil {
		return errors.New("no level to dump")
	}
	if level.Grid == nil {
		return fmt.Errorf("level has no grid (mode %s)", level.Mode)
	}

	overlay := map[world.Point]rune{}
	if opt.Markers {
		for _, m := range markers(level) {
			overlay[m.at] = m.glyph
		}
		overlay[EntranceCell(level)] = glyphEntrance
	}

	bw := bufio.NewWriter(w)
	header := fmt.Sprintf("%s depth %d seed %d level seed %d attempts %d",
		level.Family, level.Depth, level.Seed, level.LevelSeed, level.Attempts)
	if opt.Color {
		header = headerStyle.Sprint(header)
	}
	fmt.Fprintln(bw, header)

	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			c := drlg.Classify(level.Family, level.Grid.At(x, y))
			glyph, marked := overlay[world.Point{X: x, Y: y}]
			if !marked {
				glyph = Glyph(c)
			}
			s := string(glyph)
			if opt.Color {
				if marked {
					s = color.Style{color.FgLightYellow, color.OpBold}.Sprint(s)
				} else {
					s = color.HEX(paletteHex(opt.Palette, c)).Sprint(s)
				}
			}
			bw.WriteString(s)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
