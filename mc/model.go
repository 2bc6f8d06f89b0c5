// Package mc simulates underlying price paths.
package mc

import (
	"math"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"golang.org/x/exp/rand"
)

// DefaultSeed is used when a request does not pin one.
const DefaultSeed = 4012

// Process generates one price path from a vector of standard normal draws.
type Process interface {
	// Steps is the number of time steps; paths hold Steps()+1 prices.
	Steps() int
	// Factors is the number of normal draws consumed per step.
	Factors() int
	// Path fills dst with prices driven by sign*z. A sign of -1 gives the antithetic path.
	Path(z []float64, sign float64, dst []float64)
}

// New picks the process implied by the market's volatility specification. Strike
// selects the point of a smile used by single-volatility models; pass 0 for at-the-money.
func New(md market.MarketData, maturity, strike float64, steps int) (Process, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	if steps <= 0 {
		return nil, errs.InvalidConfig("simulate", "steps %d must be positive", steps)
	}
	if !(maturity > 0) {
		return nil, errs.InvalidInstrument("simulate", "maturity %v must be positive", maturity)
	}
	mu := md.Rate(maturity) - md.DividendYield
	switch md.Vol.Kind {
	case market.HestonVol:
		return Heston{S0: md.Spot, Mu: mu, P: md.Vol.Heston, T: maturity, N: steps}, nil
	case market.HypHypVol:
		return HypHyp{S0: md.Spot, Mu: mu, P: md.Vol.HypHyp, T: maturity, N: steps}, nil
	}
	if strike <= 0 {
		strike = md.Spot
	}
	sigma := md.Sigma(strike, maturity)
	if sigma < 0 || math.IsNaN(sigma) {
		return nil, errs.InvalidMarketData("simulate", "volatility %v must be non-negative", sigma)
	}
	return GBM{S0: md.Spot, Mu: mu, Sigma: sigma, T: maturity, N: steps}, nil
}

// Stream returns the random source of block b. Blocks never share draws, and the
// same (seed, b) pair always yields the same sequence.
func Stream(seed uint64, b int) *rand.Rand {
	return rand.New(rand.NewSource(seed + uint64(b)))
}

// Draw fills z with standard normal variates.
func Draw(r *rand.Rand, z []float64) {
	for i := range z {
		z[i] = r.NormFloat64()
	}
}
