package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/optionlab/backend/pkg/redis"
)

// CachedProvider is a read-through Redis cache in front of another Provider.
// Daily series are immutable once the trading day closes, so a long TTL is
// safe.
type CachedProvider struct {
	inner Provider
	cache *redis.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps inner with a cache.
func NewCachedProvider(inner Provider, cache *redis.Cache) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache,
		ttl:   redis.TTLDaily,
	}
}

// DailyCloses implements Provider.
func (p *CachedProvider) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error) {
	key := fmt.Sprintf("md:%s:%s:%s", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var cached []Bar
	if found, err := p.cache.Get(ctx, key, &cached); err == nil && found && len(cached) > 0 {
		return cached, nil
	}

	bars, err := p.inner.DailyCloses(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}

	// Cache failures are not fatal; the series is already in hand.
	_ = p.cache.Set(ctx, key, bars, p.ttl)

	return bars, nil
}
