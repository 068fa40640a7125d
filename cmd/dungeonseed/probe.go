package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/gamedata"
	"github.com/samdwyer/dungeonseed/internal/probecache"
)

var probeFlags levelFlags

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check whether a seed produces a level",
	Long: `Probe generates one level without keeping its grid and prints the
outcome as JSON. It exits successfully whether or not the seed succeeds.`,
	RunE: runProbe,
}

func init() {
	probeFlags.register(probeCmd.Flags(), drlg.BreakOnSuccess)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	req, err := probeFlags.request()
	if err != nil {
		return err
	}
	levels := gamedata.Levels()
	if err := req.Validate(levels); err != nil {
		return err
	}

	gen := &drlg.Generator{Levels: levels}
	level, ok := gen.Generate(cmd.Context(), req)
	if err := cmd.Context().Err(); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(probecache.NewResult(req, level, ok, time.Now().UTC()))
}
