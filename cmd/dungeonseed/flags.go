package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/world"
)

// levelFlags are the request flags shared by the commands.
type levelFlags struct {
	seed      uint32
	depth     int
	entry     string
	mode      string
	megaTiles string
	setPiece  string
}

func (f *levelFlags) register(fs *pflag.FlagSet, defaultMode drlg.Mode) {
	fs.Uint32Var(&f.seed, "seed", 0, "level seed")
	fs.IntVar(&f.depth, "depth", 1, "dungeon depth, 1 to 16")
	fs.StringVar(&f.entry, "entry", drlg.EntryMain.String(), "entry: main, prev or town-warp")
	fs.StringVar(&f.mode, "mode", defaultMode.String(), "generation mode: full, no-content, break-on-success, break-on-failure or break-on-failure-or-no-content")
	fs.StringVar(&f.megaTiles, "megatiles", "", "mega-tile table file; a synthetic table is used when empty")
	fs.StringVar(&f.setPiece, "setpiece", "", "set piece file to stamp (catacombs and hell)")
}

// request builds the generation request, reading any blob files.
func (f *levelFlags) request() (drlg.Request, error) {
	entry, err := drlg.ParseEntry(f.entry)
	if err != nil {
		return drlg.Request{}, err
	}
	mode, err := drlg.ParseMode(f.mode)
	if err != nil {
		return drlg.Request{}, err
	}
	req := drlg.Request{Seed: f.seed, Depth: f.depth, Entry: entry, Mode: mode}

	if f.megaTiles != "" {
		data, err := os.ReadFile(f.megaTiles)
		if err != nil {
			return drlg.Request{}, fmt.Errorf("failed to read mega-tiles: %w", err)
		}
		if req.MegaTiles, err = world.ParseMegaTiles(data); err != nil {
			return drlg.Request{}, fmt.Errorf("failed to parse %s: %w", f.megaTiles, err)
		}
	}
	if f.setPiece != "" {
		data, err := os.ReadFile(f.setPiece)
		if err != nil {
			return drlg.Request{}, fmt.Errorf("failed to read set piece: %w", err)
		}
		if req.SetPiece, err = world.ParseSetPiece(data); err != nil {
			return drlg.Request{}, fmt.Errorf("failed to parse %s: %w", f.setPiece, err)
		}
	}
	return req, nil
}
