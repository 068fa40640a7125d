package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonseed/internal/clock"
	"github.com/samdwyer/dungeonseed/internal/drlg"
	"github.com/samdwyer/dungeonseed/internal/probecache"
	"github.com/samdwyer/dungeonseed/internal/redis"
)

var (
	scanFlags    levelFlags
	scanCount    int
	scanWorkers  int
	scanProgress int
	scanRedisURL string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Probe a run of seeds and list the ones that succeed",
	Long: `Scan probes every seed from --seed onwards on a pool of workers and
prints the seeds that produce a level. With --redis (or REDIS_URL) the
outcomes are cached so repeated scans skip seeds already probed.`,
	RunE: runScan,
}

func init() {
	scanFlags.register(scanCmd.Flags(), drlg.BreakOnFailure)
	scanCmd.Flags().IntVar(&scanCount, "count", 1000, "number of seeds to probe")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "probe workers; defaults to the number of CPUs")
	scanCmd.Flags().IntVar(&scanProgress, "progress", 0, "log progress every n seeds")
	scanCmd.Flags().StringVar(&scanRedisURL, "redis", "", "redis URL for the probe cache")
}

func runScan(cmd *cobra.Command, _ []string) error {
	req, err := scanFlags.request()
	if err != nil {
		return err
	}
	if req.MegaTiles != nil || req.SetPiece != nil {
		return errors.New("scan does not take --megatiles or --setpiece")
	}

	scanner := &probecache.Scanner{
		Gen:      &drlg.Generator{},
		Workers:  scanWorkers,
		Logger:   slog.Default(),
		Progress: scanProgress,
	}

	url := scanRedisURL
	if url == "" {
		url = os.Getenv("REDIS_URL")
	}
	if url != "" {
		client, err := redis.NewClientFromURL(url)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()

		if err := client.Ping(cmd.Context()).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		store, err := probecache.NewStore(&probecache.Config{Client: client, Clock: clock.New()})
		if err != nil {
			return err
		}
		scanner.Cache = store
	}

	summary, err := scanner.Run(cmd.Context(), probecache.ScanRequest{
		From:  req.Seed,
		Count: scanCount,
		Depth: req.Depth,
		Entry: req.Entry,
		Mode:  req.Mode,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "probed %d seeds (%d cached): %d ok, %d failed\n",
		summary.Probed, summary.Cached, summary.OK, summary.Failed)
	if len(summary.OKSeeds) > 0 {
		seeds := make([]string, len(summary.OKSeeds))
		for i, s := range summary.OKSeeds {
			seeds[i] = fmt.Sprint(s)
		}
		fmt.Fprintln(os.Stdout, strings.Join(seeds, " "))
	}
	return nil
}
