package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeonseed/internal/telemetry"
)

var (
	logLevel string
	envFile  string

	shutdownTelemetry func(context.Context) error
)

// setup loads the environment, installs the logger and starts tracing.
func setup(cmd *cobra.Command, _ []string) error {
	// A missing file is fine: variables may be set directly.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: %s not loaded: %v", envFile, err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	shutdown, err := telemetry.Setup(cmd.Context(), otelConfig())
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		return nil
	}
	shutdownTelemetry = shutdown
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	if shutdownTelemetry == nil {
		return nil
	}
	if err := shutdownTelemetry(context.Background()); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
	return nil
}

// otelConfig reads the exporter settings. DUNGEONSEED_HONEYCOMB_API_KEY
// targets Honeycomb; OTEL_EXPORTER_OTLP_ENDPOINT selects any other
// collector.
func otelConfig() telemetry.Config {
	cfg := telemetry.Config{
		Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Headers:  parseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
	}
	if key := os.Getenv("DUNGEONSEED_HONEYCOMB_API_KEY"); key != "" {
		dataset := os.Getenv("DUNGEONSEED_HONEYCOMB_DATASET")
		if dataset == "" {
			dataset = "dungeonseed"
		}
		cfg.Endpoint = "https://api.honeycomb.io"
		cfg.Headers = map[string]string{
			"x-honeycomb-team":    key,
			"x-honeycomb-dataset": dataset,
		}
	}
	cfg.Insecure = strings.HasPrefix(cfg.Endpoint, "http://")
	return cfg
}

// parseHeaders splits "k1=v1,k2=v2".
func parseHeaders(s string) map[string]string {
	if s == "" {
		return nil
	}
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}
