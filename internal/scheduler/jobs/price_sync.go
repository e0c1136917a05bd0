package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/optionlab/backend/internal/marketdata"
	"github.com/wonny/optionlab/backend/pkg/config"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// PriceSyncJob pulls recent daily closes for the configured tickers into
// the database after the market closes.
type PriceSyncJob struct {
	collector *marketdata.Collector
	config    *config.Config
	logger    *logger.Logger
}

// NewPriceSyncJob creates the end-of-day price sync job.
func NewPriceSyncJob(col *marketdata.Collector, cfg *config.Config, log *logger.Logger) *PriceSyncJob {
	return &PriceSyncJob{
		collector: col,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name.
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Schedule returns the configured cron expression.
func (j *PriceSyncJob) Schedule() string {
	return j.config.MarketData.SyncSchedule
}

// Run syncs the last few trading days for every configured ticker.
// A short overlap window keeps late corrections covered; the upsert
// makes re-syncing the same dates harmless.
func (j *PriceSyncJob) Run(ctx context.Context) error {
	tickers := j.config.MarketData.Tickers
	if len(tickers) == 0 {
		j.logger.Warn("No tickers configured, skipping price sync")
		return nil
	}

	to := time.Now()
	from := to.AddDate(0, 0, -7)

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
	}).Info("Starting scheduled price sync")

	saved, err := j.collector.SyncAll(ctx, tickers, from, to)
	if err != nil {
		return fmt.Errorf("sync prices: %w", err)
	}

	j.logger.WithField("bars_saved", saved).Info("Price sync finished")
	return nil
}
