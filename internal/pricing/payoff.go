// Package pricing implements the numerical option-pricing core: a
// Cox-Ross-Rubinstein binomial lattice for European and American exercise,
// a Monte Carlo simulator under geometric Brownian motion, and the
// Black-Scholes closed form used as a reference model.
//
// Design notes:
//   - Every pricer validates its own inputs and returns ErrInvalidArgument
//     with a message naming the violated quantity
//   - Results are plain immutable values; no state survives a call
//   - The package performs no logging and no I/O, so concurrent callers
//     never interfere with each other
package pricing

import "math"

// OptionType identifies the exercise payoff of a vanilla option.
// It is a closed enumeration: the lattice pricer accepts exactly
// "call" and "put" and nothing else.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// PayoffFunc maps a simulated terminal price to a payoff.
//
// The Monte Carlo pricer accepts any caller-supplied PayoffFunc; the engine
// does not inspect its semantics. Payoffs are nonnegative by convention but
// this is not enforced.
type PayoffFunc func(price float64) float64

// Payoff returns the exercise value of a vanilla option.
//
// Parameters:
//   - price: underlying asset price
//   - strike: strike price
//   - kind: Call or Put
//
// Any other kind fails with ErrInvalidArgument.
func Payoff(price, strike float64, kind OptionType) (float64, error) {
	switch kind {
	case Call:
		return math.Max(price-strike, 0), nil
	case Put:
		return math.Max(strike-price, 0), nil
	default:
		return 0, invalidf("option type must be %q or %q, got %q", Call, Put, kind)
	}
}

// VanillaPayoff builds a PayoffFunc for a plain call or put, convenient for
// feeding the Monte Carlo pricer without writing a closure by hand.
func VanillaPayoff(strike float64, kind OptionType) (PayoffFunc, error) {
	// Validate the kind once up front rather than on every path.
	if _, err := Payoff(strike, strike, kind); err != nil {
		return nil, err
	}
	return func(price float64) float64 {
		v, _ := Payoff(price, strike, kind)
		return v
	}, nil
}
