package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"XSPMonitor/internal/di"
	"XSPMonitor/internal/handler/cli"
	"XSPMonitor/internal/usecase"
	"XSPMonitor/pkg/config"
	"XSPMonitor/pkg/server"

	"github.com/spf13/cobra"
)

var (
	analyzeCapital    float64
	analyzeNewsPolicy string
	analyzePublish    bool
	analyzeWarmup     time.Duration
	analyzeTimeout    time.Duration
)

// analyzeCmd runs one analysis and prints the report.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis and print the decision",
	Long: `Fetch quotes and today's calendar once, run the decision engine and print
the market, news and strategy report.

Examples:
  xspmonitor analyze --capital 25000
  xspmonitor analyze --news-policy closed
  xspmonitor analyze --publish            # also send the result to Kafka`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Float64Var(&analyzeCapital, "capital", -1, "account capital in USD (defaults to scheduler.capital)")
	analyzeCmd.Flags().StringVar(&analyzeNewsPolicy, "news-policy", "config", "news failure policy: config, open or closed")
	analyzeCmd.Flags().BoolVar(&analyzePublish, "publish", false, "publish the analysis to the configured topic")
	analyzeCmd.Flags().DurationVar(&analyzeWarmup, "warmup", 10*time.Second, "wait for a streaming quote source before analysing")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "overall timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	policy, err := usecase.ParseNewsPolicy(analyzeNewsPolicy)
	if err != nil {
		return err
	}
	capital := analyzeCapital
	if capital < 0 {
		capital = cfg.Scheduler.Capital
	}

	analyzer, cleanup, err := di.InitializeAnalyzer(cfg)
	if err != nil {
		return fmt.Errorf("analyzer initialization failed: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	if feed := server.FindRunner(analyzer.Quotes()); feed != nil {
		go func() { _ = feed.Run(ctx) }()
		select {
		case <-time.After(analyzeWarmup):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	a, err := analyzer.Analyze(ctx, usecase.AnalyzeRequest{
		Capital:    capital,
		NewsPolicy: policy,
		Publish:    analyzePublish,
	})
	if err != nil {
		return err
	}
	return cli.RenderAnalysis(os.Stdout, a)
}
