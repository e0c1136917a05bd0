package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/optionlab/backend/internal/backtest"
	"github.com/wonny/optionlab/backend/pkg/config"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// backtestCmd runs one strategy backtest from the command line.
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy backtest",
	Long: `Run a rule-based option strategy against historical daily closes
and print the equity-curve statistics.

Example:
  go run ./cmd/optionlab backtest --strategy long_call --ticker 005930 \
    --from 2025-01-02 --to 2025-06-30 --strike 70000 --capital 10000000`,
	RunE: runBacktest,
}

var (
	btStrategy  string
	btTicker    string
	btFrom      string
	btTo        string
	btCapital   float64
	btVol       float64
	btRate      float64
	btStrike    float64
	btPutStrike float64
	btCallStrk  float64
	btCurve     bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&btStrategy, "strategy", "", "strategy type (see 'strategies')")
	backtestCmd.Flags().StringVar(&btTicker, "ticker", "", "underlying ticker")
	backtestCmd.Flags().StringVar(&btFrom, "from", "", "start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "end date (YYYY-MM-DD)")
	backtestCmd.Flags().Float64Var(&btCapital, "capital", 1_000_000, "initial capital")
	backtestCmd.Flags().Float64Var(&btVol, "vol", 0, "pricing volatility (0 = config default)")
	backtestCmd.Flags().Float64Var(&btRate, "rate", -1, "pricing rate (-1 = config default)")
	backtestCmd.Flags().Float64Var(&btStrike, "strike", 0, "strike (long_call, long_put, straddle)")
	backtestCmd.Flags().Float64Var(&btPutStrike, "put-strike", 0, "put strike (strangle)")
	backtestCmd.Flags().Float64Var(&btCallStrk, "call-strike", 0, "call strike (strangle)")
	backtestCmd.Flags().BoolVar(&btCurve, "curve", false, "print the full equity curve")

	backtestCmd.MarkFlagRequired("strategy")
	backtestCmd.MarkFlagRequired("ticker")
	backtestCmd.MarkFlagRequired("from")
	backtestCmd.MarkFlagRequired("to")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	provider, cleanup, err := buildProvider(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	start, err := time.Parse("2006-01-02", btFrom)
	if err != nil {
		return fmt.Errorf("parse --from: %w", err)
	}
	end, err := time.Parse("2006-01-02", btTo)
	if err != nil {
		return fmt.Errorf("parse --to: %w", err)
	}

	vol := btVol
	if vol == 0 {
		vol = cfg.Engine.DefaultVol
	}
	rate := btRate
	if rate == -1 {
		rate = cfg.Engine.RiskFreeRate
	}

	params := map[string]float64{}
	if btStrike != 0 {
		params["strike"] = btStrike
	}
	if btPutStrike != 0 {
		params["put_strike"] = btPutStrike
	}
	if btCallStrk != 0 {
		params["call_strike"] = btCallStrk
	}

	engine := backtest.NewEngine(provider, backtest.Config{
		Multiplier:        cfg.Engine.Multiplier,
		PeriodsPerYear:    cfg.Engine.PeriodsPerYear,
		RiskFreeRate:      cfg.Engine.RiskFreeRate,
		DefaultVolatility: cfg.Engine.DefaultVol,
	}, log)

	result, err := engine.Run(context.Background(), backtest.Run{
		StrategyType:   btStrategy,
		Parameters:     params,
		Ticker:         btTicker,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: btCapital,
		Volatility:     vol,
		Rate:           rate,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Backtest %s  (%s)\n", result.Strategy.Type, result.RunID)
	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  Ticker       : %s\n", result.Ticker)
	fmt.Printf("  Period       : %s ~ %s (%d bars)\n",
		btFrom, btTo, result.Periods)
	fmt.Printf("  Capital      : %14.2f -> %14.2f\n", result.InitialCapital, result.FinalEquity)
	fmt.Printf("  Total return : %+9.2f%%\n", result.TotalReturn*100)
	fmt.Printf("  Max drawdown : %9.2f%%\n", result.MaxDrawdown*100)
	fmt.Printf("  Sharpe ratio : %9.2f\n", result.SharpeRatio)
	fmt.Printf("  Volatility   : %9.2f%%\n", result.Volatility*100)
	fmt.Printf("  Duration     : %s\n", result.Duration)
	fmt.Println("═══════════════════════════════════════════════════════════")

	if btCurve {
		fmt.Println()
		for _, p := range result.EquityCurve {
			bar := strings.Repeat("#", barWidth(p.Equity, result.InitialCapital))
			fmt.Printf("  %s  %14.2f  %s\n", p.Date.Format("2006-01-02"), p.Equity, bar)
		}
	}

	return nil
}

// barWidth scales equity against the initial capital for a rough sparkline.
func barWidth(equity, base float64) int {
	if base <= 0 {
		return 0
	}
	w := int(equity / base * 20)
	if w < 0 {
		return 0
	}
	if w > 60 {
		return 60
	}
	return w
}
