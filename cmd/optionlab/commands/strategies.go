package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/optionlab/backend/internal/backtest"
)

// strategiesCmd lists the runnable strategy types.
var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List runnable backtest strategies",
	RunE:  listStrategies,
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

func listStrategies(cmd *cobra.Command, args []string) error {
	params := map[backtest.StrategyType]string{
		backtest.StrategyLongCall: "strike",
		backtest.StrategyLongPut:  "strike",
		backtest.StrategyStraddle: "strike",
		backtest.StrategyStrangle: "put_strike, call_strike (put < call)",
	}

	fmt.Println("Supported strategies:")
	for _, t := range backtest.SupportedStrategies() {
		fmt.Printf("  %-10s  params: %s\n", t, params[t])
	}

	return nil
}
