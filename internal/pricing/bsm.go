// Package pricing implements the closed-form Black-Scholes-Merton model and
// the sweep generators (P&L surface, scenario table, theta decay) built on it.
// Everything here is a pure function of its inputs; concurrent callers need
// no coordination.
package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wonny/optionlab/backend/internal/options"
)

// Scaling conventions fixed by the engine contract.
const (
	daysPerYear = 365.0 // theta is quoted per calendar day
	pctScale    = 100.0 // vega and rho are quoted per 1 percentage point
)

var stdNormal = distuv.UnitNormal

// PriceAndGreeks prices a European option under one market snapshot and
// returns the price together with delta, gamma, vega, theta and rho.
// Dividend yield is treated as zero.
func PriceAndGreeks(c options.Contract, m options.Market) (options.Greeks, error) {
	if err := c.Validate(); err != nil {
		return options.Greeks{}, err
	}
	if err := m.Validate(); err != nil {
		return options.Greeks{}, err
	}

	// Degenerate inputs get explicit deterministic treatment instead of
	// whatever the math would produce (0/0, log of 1 over 0, ...).
	if c.TimeToExpiry == 0 {
		return expired(c, m), nil
	}
	if m.Vol == 0 {
		return deterministic(c, m), nil
	}

	S, K, T, r, sigma := m.Spot, c.Strike, c.TimeToExpiry, m.Rate, m.Vol

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	disc := math.Exp(-r * T)
	pdfD1 := stdNormal.Prob(d1)

	g := options.Greeks{
		Gamma: pdfD1 / (S * sigma * sqrtT),
		Vega:  S * pdfD1 * sqrtT / pctScale,
	}

	switch c.Type {
	case options.Call:
		g.Price = S*stdNormal.CDF(d1) - K*disc*stdNormal.CDF(d2)
		g.Delta = stdNormal.CDF(d1)
		g.Theta = (-S*pdfD1*sigma/(2*sqrtT) - r*K*disc*stdNormal.CDF(d2)) / daysPerYear
		g.Rho = K * T * disc * stdNormal.CDF(d2) / pctScale
	case options.Put:
		g.Price = K*disc*stdNormal.CDF(-d2) - S*stdNormal.CDF(-d1)
		g.Delta = stdNormal.CDF(d1) - 1
		g.Theta = (-S*pdfD1*sigma/(2*sqrtT) + r*K*disc*stdNormal.CDF(-d2)) / daysPerYear
		g.Rho = -K * T * disc * stdNormal.CDF(-d2) / pctScale
	}

	return g, nil
}

// expired is the zero-time edge case: price is intrinsic value, delta is the
// moneyness indicator (0.5/-0.5 exactly at the strike by convention) and the
// remaining sensitivities are zero.
func expired(c options.Contract, m options.Market) options.Greeks {
	var g options.Greeks
	switch c.Type {
	case options.Call:
		g.Price = math.Max(m.Spot-c.Strike, 0)
		switch {
		case m.Spot > c.Strike:
			g.Delta = 1
		case m.Spot < c.Strike:
			g.Delta = 0
		default:
			g.Delta = 0.5
		}
	case options.Put:
		g.Price = math.Max(c.Strike-m.Spot, 0)
		switch {
		case m.Spot < c.Strike:
			g.Delta = -1
		case m.Spot > c.Strike:
			g.Delta = 0
		default:
			g.Delta = -0.5
		}
	}
	return g
}

// deterministic is the zero-volatility edge case: the underlying grows at the
// risk-free rate with certainty, so the option is worth the discounted
// intrinsic value of the forward S*e^{rT}. Gamma and vega collapse to zero;
// delta, theta and rho take their sigma->0 limits.
func deterministic(c options.Contract, m options.Market) options.Greeks {
	S, K, T, r := m.Spot, c.Strike, c.TimeToExpiry, m.Rate
	disc := math.Exp(-r * T)
	forward := S * math.Exp(r*T)

	var g options.Greeks
	switch c.Type {
	case options.Call:
		g.Price = math.Max(S-K*disc, 0)
		switch {
		case forward > K:
			g.Delta = 1
			g.Theta = -r * K * disc / daysPerYear
			g.Rho = K * T * disc / pctScale
		case forward < K:
			g.Delta = 0
		default:
			g.Delta = 0.5
		}
	case options.Put:
		g.Price = math.Max(K*disc-S, 0)
		switch {
		case forward < K:
			g.Delta = -1
			g.Theta = r * K * disc / daysPerYear
			g.Rho = -K * T * disc / pctScale
		case forward > K:
			g.Delta = 0
		default:
			g.Delta = -0.5
		}
	}
	return g
}
