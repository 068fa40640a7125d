package main

import (
	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/game"
)

var viewFlags levelFlags

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse levels in the terminal",
	Long: `View opens an interactive browser. Left and right step the seed, up
and down change the depth, e cycles the entry, b toggles decoration and q
quits.`,
	RunE: runView,
}

func init() {
	fs := viewCmd.Flags()
	fs.Uint32Var(&viewFlags.seed, "seed", 0, "starting seed")
	fs.IntVar(&viewFlags.depth, "depth", 1, "starting depth")
	fs.StringVar(&viewFlags.entry, "entry", drlg.EntryMain.String(), "entry: main, prev or town-warp")
}

func runView(cmd *cobra.Command, _ []string) error {
	entry, err := drlg.ParseEntry(viewFlags.entry)
	if err != nil {
		return err
	}
	g, err := game.New(game.Config{
		Seed:      viewFlags.seed,
		Depth:     viewFlags.depth,
		Entry:     entry,
		Generator: &drlg.Generator{},
	})
	if err != nil {
		return err
	}
	return g.Run(cmd.Context())
}
