package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "optionlab",
	Short: "OptionLab - options pricing, risk, and backtest engine",
	Long: `OptionLab Unified CLI

Black-Scholes pricing with full greeks, P&L surfaces and scenario grids,
portfolio aggregation with hedge solving, and historical strategy backtests.

Usage:
  go run ./cmd/optionlab [command]

Examples:
  go run ./cmd/optionlab api
  go run ./cmd/optionlab greeks --type call --strike 100 --spot 105 --vol 0.25 --tte 0.25
  go run ./cmd/optionlab backtest --strategy long_call --ticker 005930 --strike 70000
  go run ./cmd/optionlab sync --from 2025-01-01`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
