package main

import (
	"fmt"
	"os"

	"XSPMonitor/internal/di"
	"XSPMonitor/internal/domain/models"
	"XSPMonitor/internal/engine"
	"XSPMonitor/internal/handler/cli"
	"XSPMonitor/pkg/config"
	xhttp "XSPMonitor/pkg/http"

	"github.com/spf13/cobra"
)

var levelsReq models.LevelsRequest

// levelsCmd prints the strike levels for a price and volatility.
var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print gamma-proxy strike levels for a price and volatility",
	Long: `Compute the expected move, walls and short strikes for an underlying
price and annualised volatility. No quote source or calendar is used.

Examples:
  xspmonitor levels --price 580.5 --vol 14.2
  xspmonitor levels --price 580.5 --vol 14.2 --tier wide`,
	RunE: runLevels,
}

func init() {
	rootCmd.AddCommand(levelsCmd)

	levelsCmd.Flags().Float64Var(&levelsReq.Price, "price", 0, "underlying price")
	levelsCmd.Flags().Float64Var(&levelsReq.Vol, "vol", 0, "annualised volatility in percent (e.g. VIX1D)")
	levelsCmd.Flags().StringVar(&levelsReq.Tier, "tier", "narrow", "strike tier: narrow or wide")
}

func runLevels(cmd *cobra.Command, args []string) error {
	if verrs := xhttp.Struct(&levelsReq); len(verrs) > 0 {
		for _, v := range verrs {
			fmt.Fprintf(os.Stderr, "invalid %s: %s\n", v.Field, v.Message)
		}
		return fmt.Errorf("%w: levels flags", engine.ErrInvalidInput)
	}
	tier, err := models.ParseTier(levelsReq.Tier)
	if err != nil {
		return err
	}

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	rules, err := di.ProvideRules(cfg)
	if err != nil {
		return err
	}
	eng, err := di.ProvideEngine(rules)
	if err != nil {
		return err
	}
	lv, err := eng.Levels(levelsReq.Price, levelsReq.Vol, tier)
	if err != nil {
		return err
	}
	return cli.RenderLevels(os.Stdout, lv)
}
