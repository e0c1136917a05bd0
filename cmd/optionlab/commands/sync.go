package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/optionlab/backend/internal/marketdata"
	"github.com/wonny/optionlab/backend/pkg/config"
	"github.com/wonny/optionlab/backend/pkg/database"
	"github.com/wonny/optionlab/backend/pkg/httputil"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// syncCmd pulls daily closes into the database once.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync daily closes into the database",
	Long: `Fetch daily closes from the configured source and upsert them into
the database. Tickers come from --tickers or MD_TICKERS.

Example:
  go run ./cmd/optionlab sync --from 2025-01-01
  go run ./cmd/optionlab sync --tickers 005930,000660 --from 2025-01-01 --to 2025-06-30`,
	RunE: runSync,
}

var (
	syncTickers []string
	syncFrom    string
	syncTo      string
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringSliceVar(&syncTickers, "tickers", nil, "tickers to sync (default MD_TICKERS)")
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "start date (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "end date (YYYY-MM-DD, default today)")

	syncCmd.MarkFlagRequired("from")
}

// buildSource returns the scrape (or synthetic) source feeding the collector.
func buildSource(cfg *config.Config, log *logger.Logger) (marketdata.Provider, error) {
	switch cfg.MarketData.Provider {
	case "sise":
		httpClient := httputil.New(log)
		return marketdata.NewSiseClient(cfg.MarketData.BaseURL, httpClient, cfg.MarketData.RateLimitRPS, log), nil
	case "synthetic":
		return marketdata.NewSyntheticProvider(), nil
	default:
		return nil, fmt.Errorf("sync needs a fetchable source, got provider %q (want sise or synthetic)", cfg.MarketData.Provider)
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	tickers := syncTickers
	if len(tickers) == 0 {
		tickers = cfg.MarketData.Tickers
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no tickers given (use --tickers or MD_TICKERS)")
	}

	from, err := time.Parse("2006-01-02", syncFrom)
	if err != nil {
		return fmt.Errorf("parse --from: %w", err)
	}
	to := time.Now()
	if syncTo != "" {
		if to, err = time.Parse("2006-01-02", syncTo); err != nil {
			return fmt.Errorf("parse --to: %w", err)
		}
	}

	source, err := buildSource(cfg, log)
	if err != nil {
		return err
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	col := marketdata.NewCollector(source, marketdata.NewRepository(db.Pool), log)

	fmt.Printf("Syncing %d tickers from %s to %s...\n",
		len(tickers), from.Format("2006-01-02"), to.Format("2006-01-02"))

	saved, err := col.SyncAll(context.Background(), tickers, from, to)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Printf("Done: %d bars saved\n", saved)
	return nil
}
