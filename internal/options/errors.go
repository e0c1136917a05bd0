package options

import "errors"

// Error kinds surfaced by the engine. Callers branch with errors.Is; every
// component wraps these with fmt.Errorf("%w: ...") naming the offending field.
var (
	// ErrInvalidInput marks malformed or out-of-domain numeric input
	// (negative strike, non-finite spot, unknown enum value, ...).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoMarketData marks an empty or unavailable historical price series.
	ErrNoMarketData = errors.New("no market data")

	// ErrUnknownStrategy marks a strategy type outside the supported set.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrUnsupportedHedgeTarget marks a hedge solve for a greek with no
	// well-defined unit hedge instrument.
	ErrUnsupportedHedgeTarget = errors.New("unsupported hedge target")
)
