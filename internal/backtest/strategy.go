package backtest

import (
	"fmt"
	"math"

	"github.com/wonny/optionlab/backend/internal/options"
)

// StrategyType names one supported rule-based strategy.
type StrategyType string

const (
	StrategyLongCall StrategyType = "long_call"
	StrategyLongPut  StrategyType = "long_put"
	StrategyStraddle StrategyType = "straddle"
	StrategyStrangle StrategyType = "strangle"
)

// SupportedStrategies is the fixed, ordered set the engine publishes.
func SupportedStrategies() []StrategyType {
	return []StrategyType{
		StrategyLongCall,
		StrategyLongPut,
		StrategyStraddle,
		StrategyStrangle,
	}
}

// Leg is one option leg of a strategy: contract style, strike and signed
// quantity in contracts.
type Leg struct {
	Type     options.Type `json:"option_type"`
	Strike   float64      `json:"strike"`
	Quantity float64      `json:"quantity"`
}

// Strategy is a validated, tagged strategy definition. Construction through
// ParseStrategy is the only way to obtain one, so an instance always carries
// a supported type and well-formed legs.
type Strategy struct {
	Type StrategyType `json:"strategy_type"`
	Legs []Leg        `json:"legs"`
}

// ParseStrategy validates a strategy type plus its parameter bag and expands
// it into legs. Each strategy case consumes only the parameters it needs:
//
//	long_call, long_put, straddle: strike
//	strangle:                      put_strike, call_strike
func ParseStrategy(typ string, params map[string]float64) (Strategy, error) {
	switch StrategyType(typ) {
	case StrategyLongCall:
		strike, err := strikeParam(params, "strike")
		if err != nil {
			return Strategy{}, err
		}
		return Strategy{
			Type: StrategyLongCall,
			Legs: []Leg{{Type: options.Call, Strike: strike, Quantity: 1}},
		}, nil

	case StrategyLongPut:
		strike, err := strikeParam(params, "strike")
		if err != nil {
			return Strategy{}, err
		}
		return Strategy{
			Type: StrategyLongPut,
			Legs: []Leg{{Type: options.Put, Strike: strike, Quantity: 1}},
		}, nil

	case StrategyStraddle:
		strike, err := strikeParam(params, "strike")
		if err != nil {
			return Strategy{}, err
		}
		return Strategy{
			Type: StrategyStraddle,
			Legs: []Leg{
				{Type: options.Call, Strike: strike, Quantity: 1},
				{Type: options.Put, Strike: strike, Quantity: 1},
			},
		}, nil

	case StrategyStrangle:
		putStrike, err := strikeParam(params, "put_strike")
		if err != nil {
			return Strategy{}, err
		}
		callStrike, err := strikeParam(params, "call_strike")
		if err != nil {
			return Strategy{}, err
		}
		if putStrike >= callStrike {
			return Strategy{}, fmt.Errorf("%w: put_strike %v must be below call_strike %v",
				options.ErrInvalidInput, putStrike, callStrike)
		}
		return Strategy{
			Type: StrategyStrangle,
			Legs: []Leg{
				{Type: options.Put, Strike: putStrike, Quantity: 1},
				{Type: options.Call, Strike: callStrike, Quantity: 1},
			},
		}, nil

	default:
		return Strategy{}, fmt.Errorf("%w: %q (supported: %v)", options.ErrUnknownStrategy, typ, SupportedStrategies())
	}
}

// strikeParam pulls a required positive strike out of the parameter bag.
func strikeParam(params map[string]float64, name string) (float64, error) {
	v, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing parameter %q", options.ErrInvalidInput, name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("%w: parameter %q = %v (must be a positive finite number)", options.ErrInvalidInput, name, v)
	}
	return v, nil
}
