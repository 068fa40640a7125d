package game

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/telemetry"
	"github.com/samdwyer/dungeonseed/internal/ui"
)

// Game is the level browser: one level on screen, keys move between seeds
// and depths.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	gen      *drlg.Generator
	levels   *gamedata.LevelRegistry
	cursor   Cursor
	level    *drlg.Level
	message  string
	running  bool
}

// New opens the terminal and creates a browser.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, cfg), nil
}

// NewWithScreen creates a browser drawing on screen.
func NewWithScreen(screen *ui.Screen, cfg Config) *Game {
	gen := cfg.Generator
	if gen == nil {
		gen = &drlg.Generator{}
	}
	levels := gen.Levels
	if levels == nil {
		levels = gamedata.Levels()
	}
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		gen:      gen,
		levels:   levels,
		cursor:   cfg.cursor(),
		running:  true,
	}
}

// Cursor returns the level currently shown.
func (g *Game) Cursor() Cursor {
	return g.cursor
}

// Run shows levels until the user quits. The screen is closed on return.
func (g *Game) Run(ctx context.Context) error {
	defer g.screen.Close()

	g.regenerate(ctx)
	for g.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.render()
		g.handleInput(ctx)
	}
	return nil
}

func (g *Game) regenerate(ctx context.Context) {
	ctx, span := telemetry.Tracer("viewer").Start(ctx, "viewer.regenerate")
	defer span.End()

	level, ok := g.gen.Generate(ctx, g.cursor.Request())
	span.SetAttributes(
		attribute.Int64("viewer.seed", int64(g.cursor.Seed)),
		attribute.Int("viewer.depth", g.cursor.Depth),
		attribute.Bool("viewer.ok", ok),
	)
	if !ok {
		g.level = nil
		g.message = fmt.Sprintf("seed %d depth %d did not generate", g.cursor.Seed, g.cursor.Depth)
		return
	}
	g.level = level
	g.message = ""
}

func (g *Game) render() {
	frame := ui.Frame{Level: g.level, Message: g.message, Status: g.status()}
	if g.level != nil {
		if def := g.levels.Family(g.level.Family.String()); def != nil {
			if pal, err := def.Palette.Parse(); err == nil {
				frame.Palette = pal
			}
		}
	}
	g.renderer.Render(frame)
}

func (g *Game) status() []string {
	lines := []string{
		fmt.Sprintf("seed   %d", g.cursor.Seed),
		fmt.Sprintf("depth  %d", g.cursor.Depth),
		fmt.Sprintf("entry  %s", g.cursor.Entry),
	}
	if g.level != nil {
		lines = append(lines,
			fmt.Sprintf("family %s", g.level.Family),
			fmt.Sprintf("level  %d", g.level.LevelSeed),
			fmt.Sprintf("tries  %d", g.level.Attempts),
			fmt.Sprintf("draws  %d", g.level.Draws),
		)
	}
	return append(lines, "",
		"<- ->  seed",
		"up dn  depth",
		"e      entry",
		"b      bare",
		"q      quit",
	)
}

func (g *Game) handleInput(ctx context.Context) {
	switch ev := g.screen.PollEvent().(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		// The screen was finalized.
		g.running = false
	}
}

func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	next := g.cursor
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
		return
	case tcell.KeyLeft:
		next = next.Step(-1)
	case tcell.KeyRight:
		next = next.Step(1)
	case tcell.KeyUp:
		next = next.Descend(-1)
	case tcell.KeyDown:
		next = next.Descend(1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
			return
		case 'e', 'E':
			next = next.NextEntry()
		case 'b', 'B':
			next = next.ToggleBare()
		}
	}
	if next != g.cursor {
		g.cursor = next
		g.regenerate(ctx)
	}
}
