package commands

import (
	"fmt"

	"github.com/wonny/optionlab/backend/internal/marketdata"
	"github.com/wonny/optionlab/backend/pkg/config"
	"github.com/wonny/optionlab/backend/pkg/database"
	"github.com/wonny/optionlab/backend/pkg/httputil"
	"github.com/wonny/optionlab/backend/pkg/logger"
	"github.com/wonny/optionlab/backend/pkg/redis"
)

// buildProvider assembles the configured market-data source, optionally
// wrapped in a Redis read-through cache. The returned cleanup closes
// whatever connections were opened.
func buildProvider(cfg *config.Config, log *logger.Logger) (marketdata.Provider, func(), error) {
	cleanup := func() {}

	var provider marketdata.Provider
	switch cfg.MarketData.Provider {
	case "synthetic":
		provider = marketdata.NewSyntheticProvider()

	case "sise":
		httpClient := httputil.New(log)
		provider = marketdata.NewSiseClient(cfg.MarketData.BaseURL, httpClient, cfg.MarketData.RateLimitRPS, log)

	case "db":
		db, err := database.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		provider = marketdata.NewRepository(db.Pool)
		cleanup = func() { db.Close() }

	default:
		return nil, nil, fmt.Errorf("unknown market data provider %q", cfg.MarketData.Provider)
	}

	if cfg.Redis.Enabled {
		rc, err := redis.New(cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		provider = marketdata.NewCachedProvider(provider, redis.NewCache(rc, "optionlab"))

		prev := cleanup
		cleanup = func() {
			rc.Close()
			prev()
		}
	}

	return provider, cleanup, nil
}
