package portfolio

import (
	"fmt"

	"github.com/wonny/optionlab/backend/internal/options"
	"github.com/wonny/optionlab/backend/internal/pricing"
)

// Instrument is an optional reference contract to hedge with. When absent,
// only delta can be solved, against one multiplier-sized block of the
// underlying (delta exactly 1 per share).
type Instrument struct {
	Contract   options.Contract `json:"contract"`
	Market     options.Market   `json:"market"`
	Multiplier float64          `json:"multiplier,omitempty"` // 0 means DefaultMultiplier
}

// HedgeRatio solves for the quantity of the hedge instrument that drives the
// portfolio's target greek total to zero. The returned ratio is in instrument
// units: underlying blocks for the default delta hedge, contracts when an
// instrument is supplied.
func HedgeRatio(positions []options.Position, target options.GreekName, hedge *Instrument) (float64, error) {
	if _, err := options.ParseGreekName(string(target)); err != nil {
		return 0, err
	}

	agg, err := AggregateGreeks(positions)
	if err != nil {
		return 0, err
	}
	total := agg.Totals.Of(target)

	if hedge == nil {
		// Only the underlying has a unit greek without a reference contract,
		// and only for delta.
		if target != options.GreekDelta {
			return 0, fmt.Errorf("%w: %s requires a hedge instrument", options.ErrUnsupportedHedgeTarget, target)
		}
		return -total / options.DefaultMultiplier, nil
	}

	if err := hedge.Contract.Validate(); err != nil {
		return 0, err
	}
	if err := hedge.Market.Validate(); err != nil {
		return 0, err
	}

	g, err := pricing.PriceAndGreeks(hedge.Contract, hedge.Market)
	if err != nil {
		return 0, err
	}

	mult := hedge.Multiplier
	if mult <= 0 {
		mult = options.DefaultMultiplier
	}
	perUnit := g.Of(target) * mult
	if perUnit == 0 {
		return 0, fmt.Errorf("%w: hedge instrument has zero %s", options.ErrUnsupportedHedgeTarget, target)
	}

	return -total / perUnit, nil
}
