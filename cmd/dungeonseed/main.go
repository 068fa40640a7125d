// Package main is the entry point for the dungeonseed CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dungeonseed",
	Short: "Deterministic dungeon level generator",
	Long: `dungeonseed rebuilds dungeon levels from a seed, tile for tile, and probes
seeds cheaply for a seed-search layer.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(viewCmd)
}
