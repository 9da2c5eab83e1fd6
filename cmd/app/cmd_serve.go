package main

import (
	"fmt"

	"XSPMonitor/internal/di"
	"XSPMonitor/pkg/config"

	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API, the scheduler and any streaming feed.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and scheduled analyses",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("app initialization failed: %w", err)
	}
	defer cleanup()

	// blocks until SIGINT/SIGTERM
	return app.Run()
}
