package options

import (
	"fmt"
	"math"
	"strings"
)

// =============================================================================
// Option Type
// =============================================================================

// Type is the option style: call or put.
type Type string

const (
	Call Type = "call"
	Put  Type = "put"
)

// ParseType converts a string into a Type.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Call:
		return Call, nil
	case Put:
		return Put, nil
	default:
		return "", fmt.Errorf("%w: option_type %q (want call or put)", ErrInvalidInput, s)
	}
}

// =============================================================================
// Contract & Market
// =============================================================================

// Contract describes a single European option contract. Immutable once built.
type Contract struct {
	Type         Type    `json:"option_type"`
	Strike       float64 `json:"strike"`
	TimeToExpiry float64 `json:"time_to_expiration"` // years, >= 0
}

// Validate checks the contract terms. Out-of-domain values are rejected,
// never clamped.
func (c Contract) Validate() error {
	if c.Type != Call && c.Type != Put {
		return fmt.Errorf("%w: option_type %q", ErrInvalidInput, c.Type)
	}
	if !isFinite(c.Strike) || c.Strike <= 0 {
		return fmt.Errorf("%w: strike %v (must be a positive finite number)", ErrInvalidInput, c.Strike)
	}
	if !isFinite(c.TimeToExpiry) || c.TimeToExpiry < 0 {
		return fmt.Errorf("%w: time_to_expiration %v (must be a non-negative finite number)", ErrInvalidInput, c.TimeToExpiry)
	}
	return nil
}

// Market is one instantaneous market snapshot used as a pricing input.
type Market struct {
	Spot float64 `json:"underlying_price"`
	Rate float64 `json:"risk_free_rate"`
	Vol  float64 `json:"volatility"` // annualized, >= 0
}

// Validate checks the market snapshot.
func (m Market) Validate() error {
	if !isFinite(m.Spot) || m.Spot <= 0 {
		return fmt.Errorf("%w: underlying_price %v (must be a positive finite number)", ErrInvalidInput, m.Spot)
	}
	if !isFinite(m.Rate) {
		return fmt.Errorf("%w: risk_free_rate %v (must be finite)", ErrInvalidInput, m.Rate)
	}
	if !isFinite(m.Vol) || m.Vol < 0 {
		return fmt.Errorf("%w: volatility %v (must be a non-negative finite number)", ErrInvalidInput, m.Vol)
	}
	return nil
}

// =============================================================================
// Greeks
// =============================================================================

// Greeks holds the option price and its sensitivities for one
// (Contract, Market) pair. Conventions: vega and rho per 1 percentage point
// move, theta per calendar day.
type Greeks struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// =============================================================================
// Position
// =============================================================================

// DefaultMultiplier is the conventional equity-option contract size.
const DefaultMultiplier = 100.0

// Position is a contract plus the market snapshot it is priced against,
// a signed quantity (negative = short) and the per-contract multiplier.
// The engine only reads positions; it never mutates them.
type Position struct {
	Ticker     string   `json:"ticker,omitempty"`
	Contract   Contract `json:"contract"`
	Market     Market   `json:"market"`
	Quantity   float64  `json:"quantity"`
	Multiplier float64  `json:"multiplier,omitempty"` // 0 means DefaultMultiplier
}

// EffectiveMultiplier returns the multiplier, falling back to the default.
func (p Position) EffectiveMultiplier() float64 {
	if p.Multiplier > 0 {
		return p.Multiplier
	}
	return DefaultMultiplier
}

// Validate checks the position, including its contract and market.
func (p Position) Validate() error {
	if err := p.Contract.Validate(); err != nil {
		return err
	}
	if err := p.Market.Validate(); err != nil {
		return err
	}
	if !isFinite(p.Quantity) {
		return fmt.Errorf("%w: quantity %v (must be finite)", ErrInvalidInput, p.Quantity)
	}
	if !isFinite(p.Multiplier) || p.Multiplier < 0 {
		return fmt.Errorf("%w: multiplier %v (must be a non-negative finite number)", ErrInvalidInput, p.Multiplier)
	}
	return nil
}

// =============================================================================
// Greek Name
// =============================================================================

// GreekName identifies one of the five sensitivities.
type GreekName string

const (
	GreekDelta GreekName = "delta"
	GreekGamma GreekName = "gamma"
	GreekVega  GreekName = "vega"
	GreekTheta GreekName = "theta"
	GreekRho   GreekName = "rho"
)

// ParseGreekName converts a string into a GreekName.
func ParseGreekName(s string) (GreekName, error) {
	switch GreekName(strings.ToLower(strings.TrimSpace(s))) {
	case GreekDelta:
		return GreekDelta, nil
	case GreekGamma:
		return GreekGamma, nil
	case GreekVega:
		return GreekVega, nil
	case GreekTheta:
		return GreekTheta, nil
	case GreekRho:
		return GreekRho, nil
	default:
		return "", fmt.Errorf("%w: target_greek %q", ErrInvalidInput, s)
	}
}

// Of returns the named sensitivity from g.
func (g Greeks) Of(name GreekName) float64 {
	switch name {
	case GreekDelta:
		return g.Delta
	case GreekGamma:
		return g.Gamma
	case GreekVega:
		return g.Vega
	case GreekTheta:
		return g.Theta
	case GreekRho:
		return g.Rho
	}
	return 0
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
