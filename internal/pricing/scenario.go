package pricing

import (
	"fmt"
	"math"

	"github.com/wonny/optionlab/backend/internal/options"
)

// ScenarioPoint is the repriced state of a contract under one shock
// combination. PnLPct is nil when the base price is zero: the percentage is
// undefined there, and the engine reports that explicitly instead of an
// infinity.
type ScenarioPoint struct {
	PriceShock  float64        `json:"price_shock"` // fractional, e.g. -0.05
	IVShock     float64        `json:"iv_shock"`
	DaysForward int            `json:"days_forward"`
	Spot        float64        `json:"shocked_underlying"`
	Vol         float64        `json:"shocked_iv"`
	Greeks      options.Greeks `json:"greeks"`
	PnL         float64        `json:"pnl"`
	PnLPct      *float64       `json:"pnl_pct"`
}

// Scenarios reprices the contract under, for every (price shock, iv shock)
// pair, a market shifted by the shock and a contract aged by daysForward
// calendar days. Output covers the full Cartesian product in price-major,
// iv-minor order, so len(out) == len(priceShocks) * len(ivShocks).
func Scenarios(c options.Contract, m options.Market, priceShocks, ivShocks []float64, daysForward int) ([]ScenarioPoint, error) {
	if daysForward < 0 {
		return nil, fmt.Errorf("%w: days_forward %d (must be >= 0)", options.ErrInvalidInput, daysForward)
	}
	for _, s := range priceShocks {
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= -1 {
			return nil, fmt.Errorf("%w: price_shock %v (must be finite and > -1)", options.ErrInvalidInput, s)
		}
	}
	for _, s := range ivShocks {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < -1 {
			return nil, fmt.Errorf("%w: iv_shock %v (must be finite and >= -1)", options.ErrInvalidInput, s)
		}
	}

	base, err := PriceAndGreeks(c, m)
	if err != nil {
		return nil, err
	}

	aged := c
	aged.TimeToExpiry = math.Max(c.TimeToExpiry-float64(daysForward)/daysPerYear, 0)

	out := make([]ScenarioPoint, 0, len(priceShocks)*len(ivShocks))
	for _, ps := range priceShocks {
		for _, vs := range ivShocks {
			shocked := options.Market{
				Spot: m.Spot * (1 + ps),
				Rate: m.Rate,
				Vol:  m.Vol * (1 + vs),
			}
			g, err := PriceAndGreeks(aged, shocked)
			if err != nil {
				return nil, err
			}

			point := ScenarioPoint{
				PriceShock:  ps,
				IVShock:     vs,
				DaysForward: daysForward,
				Spot:        shocked.Spot,
				Vol:         shocked.Vol,
				Greeks:      g,
				PnL:         g.Price - base.Price,
			}
			if base.Price != 0 {
				pct := point.PnL / base.Price
				point.PnLPct = &pct
			}
			out = append(out, point)
		}
	}

	return out, nil
}

// DecayPoint is one step of a theta-decay schedule.
type DecayPoint struct {
	Day          int            `json:"day"`
	TimeToExpiry float64        `json:"time_to_expiration"`
	Greeks       options.Greeks `json:"greeks"`
}

// ThetaDecay reprices the contract once per calendar day from today through
// `days` days forward, holding spot and volatility fixed. Days past expiry
// settle at the intrinsic-value edge case.
func ThetaDecay(c options.Contract, m options.Market, days int) ([]DecayPoint, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days %d (must be >= 0)", options.ErrInvalidInput, days)
	}

	out := make([]DecayPoint, 0, days+1)
	for day := 0; day <= days; day++ {
		aged := c
		aged.TimeToExpiry = math.Max(c.TimeToExpiry-float64(day)/daysPerYear, 0)

		g, err := PriceAndGreeks(aged, m)
		if err != nil {
			return nil, err
		}
		out = append(out, DecayPoint{Day: day, TimeToExpiry: aged.TimeToExpiry, Greeks: g})
	}
	return out, nil
}
