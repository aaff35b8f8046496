package pricing

import "math"

// BlackScholesPrice returns the closed-form European option price.
//
// It is the continuous-time reference model for the two numerical pricers:
// the CRR lattice converges to it as the step count grows, and a Monte Carlo
// estimate should land within a few standard errors of it.
//
// Parameters:
//   - kind: Call or Put
//   - spot, strike: underlying and strike prices
//   - maturity: time to expiry in years
//   - rate: continuously compounded risk-free rate
//   - sigma: annualized volatility
//
// When maturity or volatility is non-positive the option is worth its
// intrinsic value; that is returned instead of an error so the function can
// be used as a plain formula.
func BlackScholesPrice(kind OptionType, spot, strike, maturity, rate, sigma float64) float64 {
	if maturity <= 0 || sigma <= 0 {
		if kind == Put {
			return math.Max(0, strike-spot)
		}
		return math.Max(0, spot-strike)
	}

	d1 := (math.Log(spot/strike) + (rate+0.5*sigma*sigma)*maturity) / (sigma * math.Sqrt(maturity))
	d2 := d1 - sigma*math.Sqrt(maturity)

	if kind == Put {
		return strike*math.Exp(-rate*maturity)*normCDF(-d2) - spot*normCDF(-d1)
	}
	return spot*normCDF(d1) - strike*math.Exp(-rate*maturity)*normCDF(d2)
}

// normCDF is the standard normal cumulative distribution function, via the
// error function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}
