package marketdata

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"
)

// SyntheticProvider generates a deterministic geometric-Brownian daily walk.
// The seed derives from (ticker, from, to), so identical requests always see
// identical series: backtests against it are reproducible. Meant for demo
// and offline runs where neither the store nor the scrape source is wired.
type SyntheticProvider struct {
	StartPrice float64 // first close, default 100
	DailyDrift float64 // per-day return drift, default 0.0005
	DailySigma float64 // per-day return stddev, default 0.02
}

// NewSyntheticProvider creates a provider with the default walk parameters.
func NewSyntheticProvider() *SyntheticProvider {
	return &SyntheticProvider{
		StartPrice: 100,
		DailyDrift: 0.0005,
		DailySigma: 0.02,
	}
}

// DailyCloses implements Provider. Bars are emitted for weekdays only.
func (p *SyntheticProvider) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error) {
	if to.Before(from) {
		return nil, errEmpty(ticker, from, to)
	}

	rng := rand.New(rand.NewSource(seedFor(ticker, from, to)))

	var bars []Bar
	price := p.StartPrice
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		price *= 1 + p.DailyDrift + p.DailySigma*rng.NormFloat64()
		bars = append(bars, Bar{Date: d, Close: price})
	}

	if len(bars) == 0 {
		return nil, errEmpty(ticker, from, to)
	}
	return bars, nil
}

// seedFor hashes the request identity into a stable seed.
func seedFor(ticker string, from, to time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	h.Write([]byte(from.Format("2006-01-02")))
	h.Write([]byte(to.Format("2006-01-02")))
	return int64(h.Sum64())
}
