// Package portfolio aggregates risk across a list of option positions and
// solves hedge ratios against the aggregate. The portfolio itself is plain
// caller-owned data passed by value per call; nothing here persists between
// requests.
package portfolio

import (
	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/internal/pricing"
)

// Totals is the quantity- and multiplier-weighted sum of each greek across
// the portfolio. Shorts contribute with negative sign through their quantity.
type Totals struct {
	Delta float64 `json:"total_delta"`
	Gamma float64 `json:"total_gamma"`
	Vega  float64 `json:"total_vega"`
	Theta float64 `json:"total_theta"`
	Rho   float64 `json:"total_rho"`
}

// Of returns the named total.
func (t Totals) Of(name options.GreekName) float64 {
	switch name {
	case options.GreekDelta:
		return t.Delta
	case options.GreekGamma:
		return t.Gamma
	case options.GreekVega:
		return t.Vega
	case options.GreekTheta:
		return t.Theta
	case options.GreekRho:
		return t.Rho
	}
	return 0
}

// PositionGreeks is the scaled contribution of one position.
type PositionGreeks struct {
	Position options.Position `json:"position"`
	Greeks   options.Greeks   `json:"greeks"` // quantity * multiplier scaled
}

// Aggregate is the result of AggregateGreeks.
type Aggregate struct {
	Totals    Totals           `json:"totals"`
	Positions []PositionGreeks `json:"positions"`
	Count     int              `json:"position_count"`
}

// AggregateGreeks prices every position independently and sums the signed,
// scaled greeks. An empty portfolio yields all-zero totals, not an error.
func AggregateGreeks(positions []options.Position) (*Aggregate, error) {
	agg := &Aggregate{
		Positions: make([]PositionGreeks, 0, len(positions)),
		Count:     len(positions),
	}

	for _, pos := range positions {
		if err := pos.Validate(); err != nil {
			return nil, err
		}

		g, err := pricing.PriceAndGreeks(pos.Contract, pos.Market)
		if err != nil {
			return nil, err
		}

		scale := pos.Quantity * pos.EffectiveMultiplier()
		scaled := options.Greeks{
			Price: g.Price * scale,
			Delta: g.Delta * scale,
			Gamma: g.Gamma * scale,
			Vega:  g.Vega * scale,
			Theta: g.Theta * scale,
			Rho:   g.Rho * scale,
		}

		agg.Totals.Delta += scaled.Delta
		agg.Totals.Gamma += scaled.Gamma
		agg.Totals.Vega += scaled.Vega
		agg.Totals.Theta += scaled.Theta
		agg.Totals.Rho += scaled.Rho

		agg.Positions = append(agg.Positions, PositionGreeks{Position: pos, Greeks: scaled})
	}

	return agg, nil
}
