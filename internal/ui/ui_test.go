package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/world"
)

func testLevel(t *testing.T, depth int, mode drlg.Mode) *drlg.Level {
	t.Helper()
	level, ok := drlg.Generate(context.Background(), drlg.Request{Seed: 12345, Depth: depth, Mode: mode})
	require.True(t, ok)
	return level
}

func TestDumpPlain(t *testing.T) {
	level := testLevel(t, 1, drlg.Full)
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, level, DumpOptions{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, world.Height+1)
	assert.Contains(t, lines[0], "cathedral depth 1 seed 12345")
	for _, row := range lines[1:] {
		assert.Len(t, []rune(row), world.Width)
	}
	assert.Contains(t, buf.String(), ".")
}

func TestDumpMarkers(t *testing.T) {
	level := testLevel(t, 5, drlg.Full)
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, level, DumpOptions{Markers: true}))

	e := EntranceCell(level)
	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, glyphEntrance, []rune(lines[1+e.Y])[e.X])
}

func TestDumpColorStripsToPlain(t *testing.T) {
	level := testLevel(t, 9, drlg.Full)
	def := gamedata.Levels().Family("caves")
	require.NotNil(t, def)

	var plain, colored bytes.Buffer
	require.NoError(t, Dump(&plain, level, DumpOptions{}))
	require.NoError(t, Dump(&colored, level, DumpOptions{Color: true, Palette: def.Palette}))
	assert.Equal(t, plain.String(), color.ClearCode(colored.String()))
}

func TestDumpWithoutGrid(t *testing.T) {
	level := testLevel(t, 1, drlg.BreakOnSuccess)
	assert.Error(t, Dump(&bytes.Buffer{}, level, DumpOptions{}))
	assert.Error(t, Dump(&bytes.Buffer{}, nil, DumpOptions{}))
}

func TestRenderDrawsGridAndStatus(t *testing.T) {
	screen, err := NewSimulationScreen(80, 45)
	require.NoError(t, err)
	defer screen.Close()

	level := testLevel(t, 13, drlg.Full)
	pal, err := gamedata.Levels().Family("hell").Palette.Parse()
	require.NoError(t, err)

	NewRenderer(screen).Render(Frame{Level: level, Palette: pal, Status: []string{"seed 12345"}, Message: "hello"})

	floors := 0
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if r, _ := screen.Content(x, y); r == Glyph(drlg.CategoryFloor) {
				floors++
			}
		}
	}
	assert.Positive(t, floors)

	e := EntranceCell(level)
	r, _ := screen.Content(e.X, e.Y)
	assert.Equal(t, glyphEntrance, r)

	r, _ = screen.Content(world.Width+2, 0)
	assert.Equal(t, 's', r)
	r, _ = screen.Content(0, world.Height+1)
	assert.Equal(t, 'h', r)
}

func TestGlyphs(t *testing.T) {
	assert.Equal(t, '.', Glyph(drlg.CategoryFloor))
	assert.Equal(t, '?', Glyph(drlg.Category(42)))
}
