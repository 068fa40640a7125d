package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// Renderer draws levels onto a Screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Frame is everything shown in one redraw.
type Frame struct {
	Level   *drlg.Level
	Palette gamedata.Palette
	// Status lines are drawn to the right of the map.
	Status []string
	// Message is drawn below the map.
	Message string
}

// Render clears the screen and draws f. A frame without a level or grid
// shows only the status and message.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()

	if f.Level != nil && f.Level.Grid != nil {
		r.drawGrid(f.Level, f.Palette)
		r.drawMarkers(f.Level)
	}

	for i, line := range f.Status {
		r.drawText(world.Width+2, i, line, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	}
	if f.Message != "" {
		r.drawText(0, world.Height+1, f.Message, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	r.screen.Show()
}

func (r *Renderer) drawGrid(level *drlg.Level, p gamedata.Palette) {
	grid := level.Grid
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			c := drlg.Classify(level.Family, grid.At(x, y))
			style := tcell.StyleDefault.Foreground(paletteColor(p, c))
			if grid.Protected(x, y) {
				style = style.Underline(true)
			}
			r.screen.SetContent(x, y, Glyph(c), style)
		}
	}
}

func (r *Renderer) drawMarkers(level *drlg.Level) {
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	for _, m := range markers(level) {
		r.screen.SetContent(m.at.X, m.at.Y, m.glyph, style)
	}
	// The entrance is drawn last so it stays visible on top of the stairs.
	e := EntranceCell(level)
	r.screen.SetContent(e.X, e.Y, glyphEntrance, style.Foreground(tcell.ColorRed))
}

type marker struct {
	at    world.Point
	glyph rune
}

// markers lists the stair cells of a level. Stair anchors are stamp
// origins, so the marker goes one cell in.
func markers(level *drlg.Level) []marker {
	a := level.Anchors
	out := []marker{{at: a.StairsUp.Add(1, 1), glyph: glyphUp}}
	if a.StairsDown != (world.Point{}) {
		out = append(out, marker{at: a.StairsDown.Add(1, 1), glyph: glyphDown})
	}
	if a.HasWarp {
		out = append(out, marker{at: a.Warp.Add(1, 1), glyph: glyphWarp})
	}
	return out
}

// EntranceCell converts the piece grid entrance to its coarse cell.
func EntranceCell(level *drlg.Level) world.Point {
	v := level.Entrance()
	return world.Point{
		X: (v.X - world.FineOffset) / 2,
		Y: (v.Y - world.FineOffset) / 2,
	}
}

func (r *Renderer) drawText(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, style)
	}
}
