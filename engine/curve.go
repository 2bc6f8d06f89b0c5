package engine

import (
	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/payoff"
	"gonum.org/v1/gonum/floats"
)

// Grid defaults of the payoff chart: spot times [0.5, 1.5] in 100 points.
const (
	GridLow    = 0.5
	GridHigh   = 1.5
	GridPoints = 100
)

// PayoffCurve evaluates the undiscounted payoff of inst on n evenly spaced terminal
// prices in [lo, hi]. No path is simulated: each grid point x is read as a path that
// sits at x on every date. Notes quoted against an initial fixing start that path at
// spot instead so their performance is x/spot.
func PayoffCurve(inst payoff.Instrument, spot, lo, hi float64, n int) (PayoffData, error) {
	if err := inst.Validate(); err != nil {
		return PayoffData{}, err
	}
	if n < 2 || !(lo > 0) || hi <= lo {
		return PayoffData{}, errs.InvalidConfig("payoff curve", "grid [%v, %v] with %d points", lo, hi, n)
	}
	if !(spot > 0) {
		return PayoffData{}, errs.InvalidMarketData("payoff curve", "spot %v must be positive", spot)
	}

	size := 2
	fixing := false
	switch v := inst.(type) {
	case payoff.Callable:
		size, fixing = v.Observations()+1, true
	case *payoff.Participation:
		fixing = true
	}

	out := PayoffData{Prices: make([]float64, n), Payoffs: make([]float64, n)}
	floats.Span(out.Prices, lo, hi)
	path := make([]float64, size)
	for i, x := range out.Prices {
		for j := range path {
			path[j] = x
		}
		if fixing {
			path[0] = spot
		}
		out.Payoffs[i] = inst.Payoff(path)
	}
	return out, nil
}

// DefaultPayoffCurve uses the default grid around spot.
func DefaultPayoffCurve(inst payoff.Instrument, spot float64) (PayoffData, error) {
	return PayoffCurve(inst, spot, GridLow*spot, GridHigh*spot, GridPoints)
}
