package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"projecthub/internal/config"
	"projecthub/internal/relay"
)

var (
	relayAddr         string
	relayTelemetryURL string
	relayCommandURL   string
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Start the automation backend relay",
	Long: `Start the automation backend relay.

The relay forwards /api/telemetry and /api/command to the configured
backend and shields browser clients from it with a CORS allow-list.

Examples:
  hub relay --telemetry-url https://backend/telemetry --command-url https://backend/command`,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringVar(&relayAddr, "addr", "", "listen address (overrides config)")
	relayCmd.Flags().StringVar(&relayTelemetryURL, "telemetry-url", "", "backend telemetry endpoint")
	relayCmd.Flags().StringVar(&relayCommandURL, "command-url", "", "backend command endpoint")
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if relayAddr != "" {
		cfg.Relay.Addr = relayAddr
	}
	if relayTelemetryURL != "" {
		cfg.Relay.TelemetryURL = relayTelemetryURL
	}
	if relayCommandURL != "" {
		cfg.Relay.CommandURL = relayCommandURL
	}

	server := relay.NewServer(relay.Options{
		TelemetryURL:   cfg.Relay.TelemetryURL,
		CommandURL:     cfg.Relay.CommandURL,
		Timeout:        time.Duration(cfg.Relay.TimeoutSeconds) * time.Second,
		AllowedOrigins: cfg.Relay.AllowedOrigins,
	}, logger)

	logger.Info("starting relay server",
		zap.String("addr", cfg.Relay.Addr),
		zap.Strings("origins", cfg.Relay.AllowedOrigins))
	return server.Run(cfg.Relay.Addr)
}
