package pricing

import "math"

// BinomialParams describes one lattice pricing call.
//
// The tree is the standard recombining CRR construction: each step the
// underlying moves up by Up or down by Down. American selects early
// exercise at every interior node.
type BinomialParams struct {
	Spot     float64    // current underlying price, > 0
	Strike   float64    // option strike, > 0
	Maturity float64    // time to maturity in years, > 0
	Rate     float64    // continuously compounded risk-free rate
	Up       float64    // per-step up factor, > Down
	Down     float64    // per-step down factor, > 0
	Steps    int        // number of tree steps, >= 1
	Type     OptionType // Call or Put
	American bool       // early exercise allowed if true
}

// BinomialResult is the immutable output of PriceBinomial.
type BinomialResult struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
}

// validate runs every raw-input check eagerly; the first failure names the
// violated quantity.
func (p BinomialParams) validate() error {
	if p.Spot <= 0 {
		return invalidf("spot price must be positive")
	}
	if p.Strike <= 0 {
		return invalidf("strike price must be positive")
	}
	if p.Maturity <= 0 {
		return invalidf("maturity must be positive")
	}
	if p.Steps <= 0 {
		return invalidf("steps must be positive")
	}
	if p.Up <= 0 || p.Down <= 0 {
		return invalidf("up and down factors must be positive")
	}
	if p.Up <= p.Down {
		return invalidf("up factor must exceed down factor")
	}
	// Arbitrage bound: the down-move gross return must stay strictly below
	// the riskless gross return per step, otherwise the risk-neutral
	// probability is ill-defined.
	if p.Down >= math.Exp(p.Rate*(p.Maturity/float64(p.Steps))) {
		return invalidf("down factor must be less than the discount factor to avoid arbitrage")
	}
	return nil
}

// PriceBinomial prices a vanilla option on a Cox-Ross-Rubinstein tree by
// risk-neutral backward induction.
//
// Terminal node j (0 = all-down, Steps = all-up) carries the payoff at
// Spot·Up^j·Down^(Steps−j). Induction then walks from the terminal layer to
// step 0, overwriting one shared buffer in place; indices beyond the live
// range are never read again. For American exercise each interior node takes
// the maximum of continuation and immediate exercise; the terminal layer is
// payoff-only by construction and is never re-checked.
//
// Delta is the one-step finite difference implied by the first branching of
// the tree: (value[1] − value[0]) / (Spot·(Up−Down)), read off the step-1
// layer before the final induction step collapses it. For Steps == 1 that
// layer is the terminal layer itself.
func PriceBinomial(p BinomialParams) (*BinomialResult, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	dt := p.Maturity / float64(p.Steps)
	discount := math.Exp(-p.Rate * dt)
	prob := (math.Exp(p.Rate*dt) - p.Down) / (p.Up - p.Down)
	// Derived-parameter check: combinations can pass the raw checks yet
	// still imply an inconsistent model.
	if prob < 0 || prob > 1 {
		return nil, invalidf("risk-neutral probability out of bounds")
	}

	values := make([]float64, p.Steps+1)
	for j := 0; j <= p.Steps; j++ {
		price := p.Spot * math.Pow(p.Up, float64(j)) * math.Pow(p.Down, float64(p.Steps-j))
		v, err := Payoff(price, p.Strike, p.Type)
		if err != nil {
			return nil, err
		}
		values[j] = v
	}

	var delta float64
	for step := p.Steps - 1; step >= 0; step-- {
		if step == 0 {
			delta = (values[1] - values[0]) / (p.Spot * (p.Up - p.Down))
		}
		for i := 0; i <= step; i++ {
			continuation := discount * (prob*values[i+1] + (1-prob)*values[i])
			if p.American {
				price := p.Spot * math.Pow(p.Up, float64(i)) * math.Pow(p.Down, float64(step-i))
				exercise, err := Payoff(price, p.Strike, p.Type)
				if err != nil {
					return nil, err
				}
				values[i] = math.Max(continuation, exercise)
			} else {
				values[i] = continuation
			}
		}
	}

	return &BinomialResult{Price: values[0], Delta: delta}, nil
}
