// Package drlg generates dungeon levels from a seed. Each family carves a
// layout, resolves it into tiles, places stairs and then fixes up and
// decorates the result, retrying from a fresh layout whenever a stage
// fails.
package drlg

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/dungeonseed/internal/clock"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/miniset"
	"github.com/samdwyer/dungeonseed/internal/rng"
	"github.com/samdwyer/dungeonseed/internal/telemetry"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// builder is the per-family strategy driven by the pipeline.
type builder interface {
	// carve lays out the structure of an attempt.
	carve(g *gen)
	// validate accepts or rejects the carved structure.
	validate(g *gen) bool
	// resolve turns the structure into family tiles.
	resolve(g *gen)
	placeStairs(g *gen) bool
	// finish runs structural stages after the stairs that may still reject
	// the attempt.
	finish(g *gen) bool
	fixup(g *gen)
	decorate(g *gen)
}

func newBuilder(f Family) builder {
	switch f {
	case Catacombs:
		return &catacombs{}
	case Caves:
		return &caves{}
	case Hell:
		return &hell{}
	default:
		return &cathedral{}
	}
}

// Generator runs the level pipeline. The zero value uses the system clock,
// the default logger and the embedded level table.
type Generator struct {
	Clock  clock.Clock
	Logger *slog.Logger
	Levels *gamedata.LevelRegistry
}

// Generate builds a level with the zero Generator.
func Generate(ctx context.Context, req Request) (*Level, bool) {
	var gn Generator
	return gn.Generate(ctx, req)
}

// Generate builds the level described by req. It returns false when the
// request is invalid, the context is done, or a BreakOnFailure mode meets
// a failing stage.
func (gn *Generator) Generate(ctx context.Context, req Request) (*Level, bool) {
	levels := gn.Levels
	if levels == nil {
		levels = gamedata.Levels()
	}
	logger := gn.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := gn.Clock
	if clk == nil {
		clk = clock.New()
	}

	tracer := telemetry.Tracer("drlg")
	ctx, span := tracer.Start(ctx, "drlg.generate")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("level.seed", int64(req.Seed)),
		attribute.Int("level.depth", req.Depth),
		attribute.String("level.entry", req.Entry.String()),
		attribute.String("level.mode", req.Mode.String()),
	)

	def, family, err := req.lookup(levels)
	if err != nil {
		logger.Error("invalid level request", "depth", req.Depth, "error", err)
		span.RecordError(err)
		return nil, false
	}
	span.SetAttributes(attribute.String("level.family", family.String()))

	g := newGen(req, def, family, clk, logger)
	g.solid = world.Tile(levels.Family(def.Family).SolidTile)
	level, ok := g.run(ctx, newBuilder(family))

	span.SetAttributes(
		attribute.Bool("level.ok", ok),
		attribute.Int("level.attempts", g.level.Attempts),
		attribute.Int64("level.draws", int64(g.rng.Draws())),
		attribute.Int64("level.level_seed", int64(g.level.LevelSeed)),
		attribute.Int("level.out_of_bounds", g.outOfBounds()),
		attribute.Int("level.walk_timeouts", g.level.WalkTimeouts),
	)
	return level, ok
}

// gen carries the state of one Generate call through the builder.
type gen struct {
	req    Request
	def    *gamedata.LevelDef
	rng    *rng.Engine
	grid   *world.TileGrid
	mega   *world.MegaTiles
	clock  clock.Clock
	logger *slog.Logger
	level  *Level
	entry  Entry
	solid  world.Tile // fills the piece grid border

	// scratch planes are attempt-local work areas outside the grid.
	scratch []*world.Plane
}

// syntheticTiles covers every tile id the families produce.
const syntheticTiles = 256

func newGen(req Request, def *gamedata.LevelDef, family Family, clk clock.Clock, logger *slog.Logger) *gen {
	mega := req.MegaTiles
	if mega == nil {
		mega = world.SyntheticMegaTiles(syntheticTiles)
	}
	entry := req.Entry
	if entry == EntryTownWarp && !def.TownWarp {
		entry = EntryMain
	}
	return &gen{
		req:    req,
		def:    def,
		rng:    rng.New(req.Seed),
		grid:   world.NewTileGrid(),
		mega:   mega,
		clock:  clk,
		logger: logger.With("family", family.String(), "depth", req.Depth, "seed", req.Seed),
		entry:  entry,
		level: &Level{
			Family: family,
			Depth:  req.Depth,
			Entry:  req.Entry,
			Mode:   req.Mode,
			Seed:   req.Seed,
		},
	}
}

func (g *gen) run(ctx context.Context, b builder) (*Level, bool) {
	for {
		if err := ctx.Err(); err != nil {
			g.logger.Warn("level generation cancelled", "attempts", g.level.Attempts, "error", err)
			return nil, false
		}
		g.beginAttempt()

		b.carve(g)
		if !b.validate(g) {
			if g.giveUp("validate") {
				return nil, false
			}
			continue
		}
		b.resolve(g)
		if !b.placeStairs(g) {
			if g.giveUp("stairs") {
				return nil, false
			}
			continue
		}
		if !b.finish(g) {
			if g.giveUp("finish") {
				return nil, false
			}
			continue
		}
		break
	}

	if g.req.Mode == BreakOnSuccess {
		return g.result(), true
	}

	b.fixup(g)
	g.level.Stages.Fixup = true
	if !g.req.Mode.skipsContent() {
		b.decorate(g)
		g.level.Stages.Decoration = true
	}
	if g.req.Mode.keepsGrid() {
		g.grid.Expand(g.mega, g.solid)
		g.level.Grid = g.grid
	}
	return g.result(), true
}

func (g *gen) beginAttempt() {
	g.level.Attempts++
	g.level.LevelSeed = g.rng.PeekState()
	g.level.resetAttempt()
	g.grid.Reset()
}

// giveUp reports whether a failed stage ends the call.
func (g *gen) giveUp(stage string) bool {
	if !g.req.Mode.breaksOnFailure() {
		return false
	}
	g.logger.Debug("attempt failed", "stage", stage, "attempt", g.level.Attempts)
	return true
}

func (g *gen) result() *Level {
	g.level.Draws = g.rng.Draws()
	g.level.OutOfBounds = g.outOfBounds()
	return g.level
}

// newScratch returns an empty plane whose stray accesses are counted with
// the grid's.
func (g *gen) newScratch(w, h int) *world.Plane {
	p := world.NewPlane(w, h)
	g.scratch = append(g.scratch, p)
	return p
}

func (g *gen) outOfBounds() int {
	n := g.grid.OutOfBounds()
	for _, p := range g.scratch {
		n += p.OutOfBounds()
	}
	return n
}

// stamp places p and records the view anchors it yields.
func (g *gen) stamp(p miniset.Pattern, opt miniset.Options, setView, levelView bool) (miniset.Result, bool) {
	res, ok := miniset.Place(g.rng, g.grid, p, opt)
	if !ok {
		return res, false
	}
	if setView {
		g.level.Anchors.View = res.View
	}
	if levelView {
		g.level.Anchors.LevelView = res.View
	}
	return res, true
}

func (g *gen) addRoom(r world.Room) {
	g.level.Rooms = append(g.level.Rooms, r)
}
