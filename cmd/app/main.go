package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd is the base command for the XSP monitor.
var rootCmd = &cobra.Command{
	Use:   "xspmonitor",
	Short: "XSP 0DTE tactical decision engine",
	Long: `xspmonitor reads the XSP and volatility index quotes plus the US macro
calendar, decides whether an iron condor, a vertical spread or nothing fits
today's session, and sizes the position for the given capital.

Examples:
  xspmonitor serve --config config/config.yaml
  xspmonitor analyze --capital 25000
  xspmonitor levels --price 580.5 --vol 14.2 --tier wide`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
