// Package backtest time-steps option strategies across historical daily
// closes, repricing the legs each period and deriving risk/return statistics
// from the resulting equity curve. Per-run state lives on the stack of Run;
// concurrent runs do not interfere.
package backtest

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/optionlab/backend/internal/marketdata"
	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/internal/pricing"
	"github.com/wonny/optionlab/backend/pkg/logger"
)

// Config holds engine-wide defaults shared by all runs.
type Config struct {
	Multiplier        float64 // per-contract size
	PeriodsPerYear    int     // annualization base for daily bars
	RiskFreeRate      float64 // Sharpe excess return, and pricing rate fallback
	DefaultVolatility float64 // pricing vol for runs that do not supply one
}

// DefaultConfig mirrors conventional equity-option settings.
func DefaultConfig() Config {
	return Config{
		Multiplier:        options.DefaultMultiplier,
		PeriodsPerYear:    252,
		RiskFreeRate:      0,
		DefaultVolatility: 0.25,
	}
}

// Engine runs strategy backtests against a market-data provider.
type Engine struct {
	provider marketdata.Provider
	config   Config
	logger   *logger.Logger
}

// NewEngine creates a new backtest engine.
func NewEngine(provider marketdata.Provider, cfg Config, log *logger.Logger) *Engine {
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = options.DefaultMultiplier
	}
	if cfg.PeriodsPerYear <= 0 {
		cfg.PeriodsPerYear = 252
	}
	if cfg.DefaultVolatility <= 0 {
		cfg.DefaultVolatility = 0.25
	}
	return &Engine{
		provider: provider,
		config:   cfg,
		logger:   log,
	}
}

// Defaults returns the pricing volatility and rate applied to runs that do
// not supply their own.
func (e *Engine) Defaults() (volatility, rate float64) {
	return e.config.DefaultVolatility, e.config.RiskFreeRate
}

// Run describes one backtest request.
type Run struct {
	StrategyType   string             `json:"strategy_type"`
	Parameters     map[string]float64 `json:"parameters"`
	Ticker         string             `json:"ticker"`
	StartDate      time.Time          `json:"start_date"`
	EndDate        time.Time          `json:"end_date"`
	InitialCapital float64            `json:"initial_capital"`
	Volatility     float64            `json:"volatility"` // pricing vol for the legs
	Rate           float64            `json:"rate"`       // pricing risk-free rate

	// OnProgress, when set, receives each equity point as it is recorded.
	OnProgress func(EquityPoint) `json:"-"`
}

// validate checks the run request fields shared by every strategy.
func (r Run) validate() error {
	if r.Ticker == "" {
		return fmt.Errorf("%w: ticker is required", options.ErrInvalidInput)
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("%w: end_date %s before start_date %s", options.ErrInvalidInput,
			r.EndDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	if math.IsNaN(r.InitialCapital) || math.IsInf(r.InitialCapital, 0) || r.InitialCapital <= 0 {
		return fmt.Errorf("%w: initial_capital %v (must be a positive finite number)", options.ErrInvalidInput, r.InitialCapital)
	}
	if math.IsNaN(r.Volatility) || math.IsInf(r.Volatility, 0) || r.Volatility < 0 {
		return fmt.Errorf("%w: volatility %v (must be a non-negative finite number)", options.ErrInvalidInput, r.Volatility)
	}
	if math.IsNaN(r.Rate) || math.IsInf(r.Rate, 0) {
		return fmt.Errorf("%w: rate %v (must be finite)", options.ErrInvalidInput, r.Rate)
	}
	return nil
}

// EquityPoint is one point of the equity curve.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// Trade records an entry or settlement leg event.
type Trade struct {
	Date    time.Time    `json:"date"`
	Action  string       `json:"action"` // "buy", "sell", "settle"
	Type    options.Type `json:"option_type"`
	Strike  float64      `json:"strike"`
	Spot    float64      `json:"spot"`
	Premium float64      `json:"premium"` // per share
}

// Result holds a completed backtest. EquityCurve has one point per trading
// period plus the initial value; every summary statistic is derived from it.
type Result struct {
	RunID          string        `json:"run_id"`
	Strategy       Strategy      `json:"strategy"`
	Ticker         string        `json:"ticker"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	Periods        int           `json:"periods"`
	InitialCapital float64       `json:"initial_capital"`
	FinalEquity    float64       `json:"final_equity"`
	TotalReturn    float64       `json:"total_return"`
	MaxDrawdown    float64       `json:"max_drawdown"`
	SharpeRatio    float64       `json:"sharpe_ratio"`
	Volatility     float64       `json:"volatility"` // annualized equity-curve vol
	EquityCurve    []EquityPoint `json:"equity_curve"`
	Trades         []Trade       `json:"trades"`
	Duration       time.Duration `json:"duration"`
}

// Equity flattens the curve into raw values.
func (r *Result) Equity() []float64 {
	out := make([]float64, len(r.EquityCurve))
	for i, p := range r.EquityCurve {
		out[i] = p.Equity
	}
	return out
}

// Run executes a backtest: open the strategy at the first close, reprice it
// at every subsequent close with expiry fixed to the final bar's date, and
// settle at intrinsic value there.
func (e *Engine) Run(ctx context.Context, run Run) (*Result, error) {
	strategy, err := ParseStrategy(run.StrategyType, run.Parameters)
	if err != nil {
		return nil, err
	}
	if err := run.validate(); err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"strategy":        strategy.Type,
		"ticker":          run.Ticker,
		"start_date":      run.StartDate.Format("2006-01-02"),
		"end_date":        run.EndDate.Format("2006-01-02"),
		"initial_capital": run.InitialCapital,
	}).Info("Starting backtest")

	startTime := time.Now()

	bars, err := e.provider.DailyCloses(ctx, run.Ticker, run.StartDate, run.EndDate)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s %s..%s", options.ErrNoMarketData, run.Ticker,
			run.StartDate.Format("2006-01-02"), run.EndDate.Format("2006-01-02"))
	}

	result := &Result{
		RunID:          uuid.NewString(),
		Strategy:       strategy,
		Ticker:         run.Ticker,
		StartDate:      run.StartDate,
		EndDate:        run.EndDate,
		Periods:        len(bars),
		InitialCapital: run.InitialCapital,
		EquityCurve:    make([]EquityPoint, 0, len(bars)+1),
	}

	// The option leg expires with the simulation window.
	expiry := bars[len(bars)-1].Date

	cash := run.InitialCapital
	open := false

	record := func(p EquityPoint) {
		result.EquityCurve = append(result.EquityCurve, p)
		if run.OnProgress != nil {
			run.OnProgress(p)
		}
	}

	// Initial equity before any step.
	record(EquityPoint{Date: bars[0].Date, Equity: run.InitialCapital})

	for i, bar := range bars {
		tte := yearsBetween(bar.Date, expiry)

		// Entry at the first period.
		if i == 0 {
			for _, leg := range strategy.Legs {
				premium, err := e.legPrice(leg, bar.Close, tte, run)
				if err != nil {
					return nil, err
				}
				cash -= premium * leg.Quantity * e.config.Multiplier

				action := "buy"
				if leg.Quantity < 0 {
					action = "sell"
				}
				result.Trades = append(result.Trades, Trade{
					Date: bar.Date, Action: action, Type: leg.Type,
					Strike: leg.Strike, Spot: bar.Close, Premium: premium,
				})
			}
			open = true
		}

		equity := cash
		if open {
			value, err := e.strategyValue(strategy, bar.Close, tte, run)
			if err != nil {
				return nil, err
			}

			if tte == 0 {
				// Expired: settle the terminal (intrinsic) value into cash.
				cash += value * e.config.Multiplier
				open = false
				equity = cash
				for _, leg := range strategy.Legs {
					premium, _ := e.legPrice(leg, bar.Close, 0, run)
					result.Trades = append(result.Trades, Trade{
						Date: bar.Date, Action: "settle", Type: leg.Type,
						Strike: leg.Strike, Spot: bar.Close, Premium: premium,
					})
				}
			} else {
				equity = cash + value*e.config.Multiplier
			}
		}

		record(EquityPoint{Date: bar.Date, Equity: equity})
	}

	curve := result.Equity()
	returns := PeriodReturns(curve)
	result.FinalEquity = curve[len(curve)-1]
	result.TotalReturn = TotalReturn(curve)
	result.MaxDrawdown = MaxDrawdown(curve)
	result.SharpeRatio = SharpeRatio(returns, e.config.PeriodsPerYear, e.config.RiskFreeRate)
	result.Volatility = AnnualizedVolatility(returns, e.config.PeriodsPerYear)
	result.Duration = time.Since(startTime)

	e.logger.WithFields(map[string]interface{}{
		"run_id":       result.RunID,
		"periods":      result.Periods,
		"total_return": fmt.Sprintf("%.2f%%", result.TotalReturn*100),
		"sharpe_ratio": fmt.Sprintf("%.2f", result.SharpeRatio),
		"max_drawdown": fmt.Sprintf("%.2f%%", result.MaxDrawdown*100),
		"duration":     result.Duration.Seconds(),
	}).Info("Backtest completed")

	return result, nil
}

// legPrice prices one leg per share at the given spot and time to expiry.
func (e *Engine) legPrice(leg Leg, spot, tte float64, run Run) (float64, error) {
	contract := options.Contract{Type: leg.Type, Strike: leg.Strike, TimeToExpiry: tte}
	market := options.Market{Spot: spot, Rate: run.Rate, Vol: run.Volatility}
	g, err := pricing.PriceAndGreeks(contract, market)
	if err != nil {
		return 0, err
	}
	return g.Price, nil
}

// strategyValue marks the whole strategy per share.
func (e *Engine) strategyValue(s Strategy, spot, tte float64, run Run) (float64, error) {
	total := 0.0
	for _, leg := range s.Legs {
		price, err := e.legPrice(leg, spot, tte, run)
		if err != nil {
			return 0, err
		}
		total += price * leg.Quantity
	}
	return total, nil
}

// yearsBetween converts the calendar gap between two dates to year units.
func yearsBetween(from, to time.Time) float64 {
	if !to.After(from) {
		return 0
	}
	return to.Sub(from).Hours() / 24 / 365
}
