package server

import (
	"math"

	"github.com/contactkeval/option-pricer/internal/expr"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// Field-level defaults applied to Monte Carlo requests. They match the
// defaults the browser form ships with, so an empty JSON body prices a
// plain one-year ATM call.
const (
	defaultSpot       = 100.0
	defaultStrike     = 100.0
	defaultMaturity   = 1.0
	defaultRate       = 0.05
	defaultVolatility = 0.2
	defaultSteps      = 252
	defaultPaths      = 10000
	defaultPayoff     = "max(S - K, 0)"
)

// MonteCarloRequest is the JSON body of POST /api/price.
//
// Pointer fields distinguish "absent" from an explicit zero (a rate of 0 is
// a valid input); absent fields take the defaults above.
type MonteCarloRequest struct {
	Spot       *float64 `json:"spot"`
	Strike     *float64 `json:"strike"`
	Maturity   *float64 `json:"maturity"`
	Rate       *float64 `json:"rate"`
	Volatility *float64 `json:"volatility"`
	Steps      *int     `json:"steps"`
	Paths      *int     `json:"paths"`
	Seed       int64    `json:"seed,omitempty"`   // 0 = non-reproducible
	Payoff     string   `json:"payoff,omitempty"` // sandboxed expression, see internal/expr
}

// LatticeRequest is the JSON body of POST /api/lattice. The lattice has no
// sensible parameter defaults beyond the option type; missing numeric fields
// fail the engine's own validation with a named-quantity message.
type LatticeRequest struct {
	Spot       float64 `json:"spot"`
	Strike     float64 `json:"strike"`
	Maturity   float64 `json:"maturity"`
	Rate       float64 `json:"rate"`
	Up         float64 `json:"up"`
	Down       float64 `json:"down"`
	Steps      int     `json:"steps"`
	OptionType string  `json:"option_type,omitempty"` // "call" (default) or "put"
	American   bool    `json:"american,omitempty"`
}

// MonteCarloResponse mirrors pricing.MonteCarloResult. StandardError is a
// pointer because encoding/json cannot represent NaN (the paths=1 case);
// it is rendered as null instead.
type MonteCarloResponse struct {
	Price         float64  `json:"price"`
	StandardError *float64 `json:"standard_error"`
}

// LatticeResponse mirrors pricing.BinomialResult.
type LatticeResponse struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
}

// ErrorResponse carries the validation failure message back to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}

// jsonFloat maps NaN to nil so it survives JSON encoding as null.
func jsonFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func fallbackFloat(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func fallbackInt(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Params resolves defaults and compiles the payoff expression into typed
// engine parameters.
func (r MonteCarloRequest) Params() (pricing.MonteCarloParams, error) {
	strike := fallbackFloat(r.Strike, defaultStrike)

	expression := r.Payoff
	if expression == "" {
		expression = defaultPayoff
	}
	payoff, err := expr.Compile(expression, strike)
	if err != nil {
		return pricing.MonteCarloParams{}, err
	}

	return pricing.MonteCarloParams{
		Spot:       fallbackFloat(r.Spot, defaultSpot),
		Maturity:   fallbackFloat(r.Maturity, defaultMaturity),
		Rate:       fallbackFloat(r.Rate, defaultRate),
		Volatility: fallbackFloat(r.Volatility, defaultVolatility),
		Steps:      fallbackInt(r.Steps, defaultSteps),
		Paths:      fallbackInt(r.Paths, defaultPaths),
		Payoff:     payoff,
		Seed:       r.Seed,
	}, nil
}

// Params converts the request into typed engine parameters.
func (r LatticeRequest) Params() pricing.BinomialParams {
	kind := pricing.OptionType(r.OptionType)
	if kind == "" {
		kind = pricing.Call
	}
	return pricing.BinomialParams{
		Spot:     r.Spot,
		Strike:   r.Strike,
		Maturity: r.Maturity,
		Rate:     r.Rate,
		Up:       r.Up,
		Down:     r.Down,
		Steps:    r.Steps,
		Type:     kind,
		American: r.American,
	}
}
