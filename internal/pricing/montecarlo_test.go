package pricing

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func mcParams(seed int64) MonteCarloParams {
	payoff, _ := VanillaPayoff(100, Call)
	return MonteCarloParams{
		Spot: 100, Maturity: 1.0, Rate: 0.05, Volatility: 0.2,
		Steps: 16, Paths: 2000, Payoff: payoff, Seed: seed,
	}
}

// Reproducibility here means: the same seed replays the same Go math/rand
// draw sequence and therefore the exact same result. No parity with any
// other generator is promised.
func TestMonteCarloSeedReproducible(t *testing.T) {
	first, err := PriceMonteCarlo(mcParams(12345))
	if err != nil {
		t.Fatalf("pricing failed: %v", err)
	}
	second, err := PriceMonteCarlo(mcParams(12345))
	if err != nil {
		t.Fatalf("pricing failed: %v", err)
	}

	if first.Price != second.Price || first.StandardError != second.StandardError {
		t.Fatalf("seeded runs differ: %+v vs %+v", first, second)
	}

	other, err := PriceMonteCarlo(mcParams(54321))
	if err != nil {
		t.Fatalf("pricing failed: %v", err)
	}
	if other.Price == first.Price {
		t.Fatalf("different seeds produced identical price %v", first.Price)
	}
}

// A single path carries no dispersion estimate; zero would overstate
// precision, so the standard error must be NaN.
func TestMonteCarloSinglePathStandardError(t *testing.T) {
	params := mcParams(7)
	params.Paths = 1

	res, err := PriceMonteCarlo(params)
	if err != nil {
		t.Fatalf("pricing failed: %v", err)
	}
	if !math.IsNaN(res.StandardError) {
		t.Fatalf("expected NaN standard error for one path, got %v", res.StandardError)
	}
}

// With zero volatility every path lands on the deterministic forward, so the
// estimate equals the discounted forward payoff regardless of step or path
// counts.
func TestMonteCarloZeroVolatility(t *testing.T) {
	spot, strike, maturity, rate := 100.0, 95.0, 2.0, 0.03
	payoff, _ := VanillaPayoff(strike, Call)

	forward := spot * math.Exp(rate*maturity)
	expected := math.Exp(-rate*maturity) * (forward - strike)

	for _, shape := range []struct{ steps, paths int }{{1, 1}, {10, 64}, {252, 7}} {
		res, err := PriceMonteCarlo(MonteCarloParams{
			Spot: spot, Maturity: maturity, Rate: rate, Volatility: 0,
			Steps: shape.steps, Paths: shape.paths, Payoff: payoff, Seed: 99,
		})
		if err != nil {
			t.Fatalf("steps=%d paths=%d: pricing failed: %v", shape.steps, shape.paths, err)
		}
		if math.Abs(res.Price-expected) > 1e-9 {
			t.Fatalf("steps=%d paths=%d: expected %.12f, got %.12f", shape.steps, shape.paths, expected, res.Price)
		}
	}
}

// The seeded estimate must land within a few standard errors of the
// Black-Scholes closed form (the GBM terminal distribution is sampled
// exactly, so there is no discretization bias).
func TestMonteCarloAgreesWithBlackScholes(t *testing.T) {
	payoff, _ := VanillaPayoff(100, Call)
	res, err := PriceMonteCarlo(MonteCarloParams{
		Spot: 100, Maturity: 1.0, Rate: 0.05, Volatility: 0.2,
		Steps: 64, Paths: 20000, Payoff: payoff, Seed: 2024,
	})
	if err != nil {
		t.Fatalf("pricing failed: %v", err)
	}

	bs := BlackScholesPrice(Call, 100, 100, 1.0, 0.05, 0.2)
	if diff := math.Abs(res.Price - bs); diff > 5*res.StandardError {
		t.Fatalf("estimate %.6f is %.6f away from BS %.6f (> 5 stderr = %.6f)", res.Price, diff, bs, 5*res.StandardError)
	}
}

// The mean standard error over many seeds should shrink roughly as 1/√N:
// growing N by 16× should cut it to about a quarter.
func TestMonteCarloStandardErrorShrinks(t *testing.T) {
	meanStderr := func(paths int) float64 {
		var sum float64
		const seeds = 20
		for seed := int64(1); seed <= seeds; seed++ {
			params := mcParams(seed)
			params.Steps = 8
			params.Paths = paths
			res, err := PriceMonteCarlo(params)
			if err != nil {
				t.Fatalf("paths=%d seed=%d: pricing failed: %v", paths, seed, err)
			}
			sum += res.StandardError
		}
		return sum / seeds
	}

	small := meanStderr(500)
	large := meanStderr(8000)

	if large >= 0.5*small {
		t.Fatalf("stderr did not shrink: mean %.6f at N=500 vs %.6f at N=8000", small, large)
	}
}

func TestMonteCarloValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MonteCarloParams)
		message string
	}{
		{"zero spot", func(p *MonteCarloParams) { p.Spot = 0 }, "spot price must be positive"},
		{"zero maturity", func(p *MonteCarloParams) { p.Maturity = 0 }, "maturity must be positive"},
		{"negative volatility", func(p *MonteCarloParams) { p.Volatility = -0.1 }, "volatility cannot be negative"},
		{"zero steps", func(p *MonteCarloParams) { p.Steps = 0 }, "steps must be positive"},
		{"zero paths", func(p *MonteCarloParams) { p.Paths = 0 }, "number of paths must be positive"},
		{"nil payoff", func(p *MonteCarloParams) { p.Payoff = nil }, "payoff function must be provided"},
	}

	for _, test := range tests {
		params := mcParams(1)
		test.mutate(&params)

		_, err := PriceMonteCarlo(params)
		if err == nil {
			t.Fatalf("%s: expected validation error, got none", test.name)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", test.name, err)
		}
		if !strings.Contains(err.Error(), test.message) {
			t.Fatalf("%s: expected message containing %q, got %q", test.name, test.message, err.Error())
		}
	}
}
