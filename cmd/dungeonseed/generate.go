package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/ui"
)

var (
	generateFlags levelFlags
	dumpColor     bool
	dumpMarkers   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one level and print its coarse grid",
	Long: `Generate runs the full level pipeline for one seed and depth and
prints the coarse tile grid as text. Probe modes print a summary instead.`,
	RunE: runGenerate,
}

func init() {
	generateFlags.register(generateCmd.Flags(), drlg.Full)
	generateCmd.Flags().BoolVar(&dumpColor, "color", false, "colour tiles with the family palette")
	generateCmd.Flags().BoolVar(&dumpMarkers, "markers", true, "overlay the entrance and stairs")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req, err := generateFlags.request()
	if err != nil {
		return err
	}
	levels := gamedata.Levels()
	if err := req.Validate(levels); err != nil {
		return err
	}

	gen := &drlg.Generator{Levels: levels, Logger: slog.Default()}
	level, ok := gen.Generate(cmd.Context(), req)
	if !ok {
		return fmt.Errorf("seed %d at depth %d did not produce a level in %s mode", req.Seed, req.Depth, req.Mode)
	}

	if level.Grid == nil {
		fmt.Fprintf(os.Stdout, "%s depth %d seed %d: level seed %d, %d attempts, %d draws\n",
			level.Family, level.Depth, level.Seed, level.LevelSeed, level.Attempts, level.Draws)
		return nil
	}

	opt := ui.DumpOptions{Color: dumpColor, Markers: dumpMarkers}
	if def := levels.Family(level.Family.String()); def != nil {
		opt.Palette = def.Palette
	}
	if dumpColor && !color.SupportColor() {
		slog.Warn("terminal does not report colour support")
	}
	return ui.Dump(os.Stdout, level, opt)
}
