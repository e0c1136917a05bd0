// Package marketdata supplies the historical daily close series consumed by
// the backtest engine. The engine only depends on the Provider interface;
// the implementations here cover a PostgreSQL store, a finance-page scrape
// client, a Redis read-through cache and a deterministic synthetic series
// for offline use.
package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/optionlab/backend/internal/options"
)

// Bar is one daily observation: calendar date (no time of day) and close.
type Bar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Provider returns the ordered-by-date close series for a ticker between
// from and to inclusive. An empty series fails with options.ErrNoMarketData.
type Provider interface {
	DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error)
}

// errEmpty builds the canonical empty-series error.
func errEmpty(ticker string, from, to time.Time) error {
	return fmt.Errorf("%w: ticker %s between %s and %s",
		options.ErrNoMarketData, ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))
}
