package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores and serves daily closes from PostgreSQL. It is both a
// Provider for the backtester and the sink for the sync collector.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new price repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DailyCloses implements Provider.
func (r *Repository) DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error) {
	query := `
		SELECT trade_date, close_price
		FROM marketdata.daily_prices
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []Bar
	for rows.Next() {
		var b Bar
		if err := rows.Scan(&b.Date, &b.Close); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, errEmpty(ticker, from, to)
	}
	return bars, nil
}

// Latest returns the most recent stored bar for a ticker.
func (r *Repository) Latest(ctx context.Context, ticker string) (*Bar, error) {
	query := `
		SELECT trade_date, close_price
		FROM marketdata.daily_prices
		WHERE ticker = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var b Bar
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&b.Date, &b.Close)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBatch upserts a batch of bars for a ticker.
func (r *Repository) SaveBatch(ctx context.Context, ticker string, bars []Bar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO marketdata.daily_prices (ticker, trade_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, trade_date)
		DO UPDATE SET close_price = EXCLUDED.close_price
	`

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(query, ticker, b.Date, b.Close)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range bars {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return nil
}
