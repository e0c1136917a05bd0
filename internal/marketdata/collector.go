package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// Collector pulls daily closes from a source provider and upserts them into
// the repository. The scheduler drives it once per trading day.
type Collector struct {
	source Provider
	repo   *Repository
	logger *logger.Logger
}

// NewCollector creates a new collector.
func NewCollector(source Provider, repo *Repository, log *logger.Logger) *Collector {
	return &Collector{
		source: source,
		repo:   repo,
		logger: log,
	}
}

// SyncTicker fetches and stores the close series for one ticker. A ticker
// with no data in the window is logged and skipped, not fatal: the source
// may simply not list it.
func (c *Collector) SyncTicker(ctx context.Context, ticker string, from, to time.Time) (int, error) {
	bars, err := c.source.DailyCloses(ctx, ticker, from, to)
	if err != nil {
		if errors.Is(err, options.ErrNoMarketData) {
			c.logger.WithField("ticker", ticker).Warn("No market data in sync window")
			return 0, nil
		}
		return 0, fmt.Errorf("fetch %s: %w", ticker, err)
	}

	if err := c.repo.SaveBatch(ctx, ticker, bars); err != nil {
		return 0, fmt.Errorf("save %s: %w", ticker, err)
	}

	return len(bars), nil
}

// SyncAll syncs every ticker and returns the total bar count stored.
func (c *Collector) SyncAll(ctx context.Context, tickers []string, from, to time.Time) (int, error) {
	total := 0
	for _, ticker := range tickers {
		n, err := c.SyncTicker(ctx, ticker, from, to)
		if err != nil {
			return total, err
		}
		total += n
	}

	c.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"bars":    total,
	}).Info("Price sync completed")
	return total, nil
}
