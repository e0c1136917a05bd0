package pricing

import (
	"fmt"
	"math"

	"github.com/wonny/optionlab/backend/internal/options"
)

// SurfaceSpec controls the grid swept by Surface: symmetric fractional spans
// around the base spot and volatility, and the number of levels per axis.
type SurfaceSpec struct {
	PriceSpan float64 `json:"price_span"` // e.g. 0.20 -> spot * [0.80, 1.20]
	VolSpan   float64 `json:"vol_span"`   // e.g. 0.30 -> vol  * [0.70, 1.30]
	Steps     int     `json:"steps"`      // levels per axis
}

// DefaultSurfaceSpec mirrors the conventional charting window:
// +-20% underlying, +-30% implied volatility, 25 levels each.
func DefaultSurfaceSpec() SurfaceSpec {
	return SurfaceSpec{PriceSpan: 0.20, VolSpan: 0.30, Steps: 25}
}

// Validate checks the grid parameters.
func (s SurfaceSpec) Validate() error {
	if math.IsNaN(s.PriceSpan) || math.IsInf(s.PriceSpan, 0) || s.PriceSpan <= 0 || s.PriceSpan >= 1 {
		return fmt.Errorf("%w: price_span %v (must be in (0, 1))", options.ErrInvalidInput, s.PriceSpan)
	}
	if math.IsNaN(s.VolSpan) || math.IsInf(s.VolSpan, 0) || s.VolSpan <= 0 || s.VolSpan > 1 {
		return fmt.Errorf("%w: vol_span %v (must be in (0, 1])", options.ErrInvalidInput, s.VolSpan)
	}
	if s.Steps < 2 {
		return fmt.Errorf("%w: steps %d (must be >= 2)", options.ErrInvalidInput, s.Steps)
	}
	return nil
}

// SurfaceGrid is a P&L surface over underlying price and implied volatility.
// PnL is indexed [price level][vol level]; its dimensions always equal
// (len(PriceLevels), len(VolLevels)).
type SurfaceGrid struct {
	PriceLevels []float64   `json:"underlying_prices"`
	VolLevels   []float64   `json:"iv_levels"`
	PnL         [][]float64 `json:"pnl_surface"`
	BasePrice   float64     `json:"initial_price"`
	BaseDelta   float64     `json:"initial_delta"`
}

// Surface reprices the contract over every (price, vol) grid point and
// reports the per-contract P&L against the base market. Grid points are
// independent of each other; an invalid shared contract or market fails the
// whole sweep up front.
func Surface(c options.Contract, m options.Market, spec SurfaceSpec) (*SurfaceGrid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	base, err := PriceAndGreeks(c, m)
	if err != nil {
		return nil, err
	}

	grid := &SurfaceGrid{
		PriceLevels: linspace(m.Spot*(1-spec.PriceSpan), m.Spot*(1+spec.PriceSpan), spec.Steps),
		VolLevels:   linspace(m.Vol*(1-spec.VolSpan), m.Vol*(1+spec.VolSpan), spec.Steps),
		BasePrice:   base.Price,
		BaseDelta:   base.Delta,
	}

	grid.PnL = make([][]float64, len(grid.PriceLevels))
	for i, spot := range grid.PriceLevels {
		row := make([]float64, len(grid.VolLevels))
		for j, vol := range grid.VolLevels {
			shocked := options.Market{Spot: spot, Rate: m.Rate, Vol: vol}
			g, err := PriceAndGreeks(c, shocked)
			if err != nil {
				return nil, err
			}
			row[j] = g.Price - base.Price
		}
		grid.PnL[i] = row
	}

	return grid, nil
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
