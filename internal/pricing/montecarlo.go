package pricing

import (
	"math"
	"math/rand"
	"time"
)

// MonteCarloParams describes one simulation pricing call.
//
// Payoff is an open extension point: any function of the terminal price is
// accepted, which is how path-independent exotics are priced without
// touching the engine.
type MonteCarloParams struct {
	Spot       float64    // current underlying price, > 0
	Maturity   float64    // time to maturity in years, > 0
	Rate       float64    // continuously compounded risk-free rate
	Volatility float64    // annualized volatility, >= 0
	Steps      int        // timesteps per path, >= 1
	Paths      int        // number of simulated paths, >= 1
	Payoff     PayoffFunc // terminal payoff, required
	Seed       int64      // 0 = seed from the clock (non-reproducible)
}

// MonteCarloResult is the immutable output of PriceMonteCarlo.
// StandardError is NaN when only one path was simulated: a single sample
// carries no dispersion estimate, and reporting zero would overstate
// precision.
type MonteCarloResult struct {
	Price         float64 `json:"price"`
	StandardError float64 `json:"standard_error"`
}

func (p MonteCarloParams) validate() error {
	if p.Spot <= 0 {
		return invalidf("spot price must be positive")
	}
	if p.Maturity <= 0 {
		return invalidf("maturity must be positive")
	}
	if p.Volatility < 0 {
		return invalidf("volatility cannot be negative")
	}
	if p.Steps <= 0 {
		return invalidf("steps must be positive")
	}
	if p.Paths <= 0 {
		return invalidf("number of paths must be positive")
	}
	if p.Payoff == nil {
		return invalidf("payoff function must be provided")
	}
	return nil
}

// PriceMonteCarlo estimates an option price by simulating independent GBM
// paths with the standard log-normal discretization:
//
//	S(t+dt) = S(t)·exp((r − σ²/2)·dt + σ·√dt·Z),  Z ~ N(0,1)
//
// Each path's terminal payoff is discounted by exp(−r·T) and folded into a
// streaming Welford accumulation, so no per-path slice is materialized.
// Price is the sample mean; StandardError is the Bessel-corrected sample
// standard deviation divided by √Paths.
//
// The generator is created inside the call and owned exclusively by it:
// the same Seed reproduces the draw sequence, and hence the result,
// bit for bit. Concurrent calls never share generator state.
func PriceMonteCarlo(p MonteCarloParams) (*MonteCarloResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dt := p.Maturity / float64(p.Steps)
	drift := (p.Rate - 0.5*p.Volatility*p.Volatility) * dt
	diffusion := p.Volatility * math.Sqrt(dt)
	discount := math.Exp(-p.Rate * p.Maturity)

	var mean, m2 float64
	for n := 1; n <= p.Paths; n++ {
		price := p.Spot
		for s := 0; s < p.Steps; s++ {
			price *= math.Exp(drift + diffusion*rng.NormFloat64())
		}
		sample := discount * p.Payoff(price)

		d := sample - mean
		mean += d / float64(n)
		m2 += d * (sample - mean)
	}

	stderr := math.NaN()
	if p.Paths > 1 {
		variance := m2 / float64(p.Paths-1)
		stderr = math.Sqrt(variance / float64(p.Paths))
	}

	return &MonteCarloResult{Price: mean, StandardError: stderr}, nil
}
