package data

import (
	"math"
	"sort"

	"github.com/banachtech/structured-pricer/market"
	"gonum.org/v1/gonum/optimize"
)

func minimize(loss func([]float64) float64, start []float64) ([]float64, error) {
	problem := optimize.Problem{Func: loss}
	res, err := optimize.Minimize(problem, start, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, err
	}
	return res.X, nil
}

// FitNelsonSiegel calibrates a Nelson-Siegel curve to zero-rate quotes. Decay
// parameters are searched in log space to keep them positive.
func FitNelsonSiegel(q []RateQuote) (market.NelsonSiegel, error) {
	if len(q) == 0 {
		return market.NelsonSiegel{}, errNoQuotes
	}
	set := func(p []float64) market.NelsonSiegel {
		return market.NelsonSiegel{Beta0: p[0], Beta1: p[1], Beta2: p[2], Tau: math.Exp(p[3])}
	}
	start := initialLevels(q)
	x, err := minimize(func(p []float64) float64 { return rateMSE(set(p), q) }, append(start, 0))
	if err != nil {
		return market.NelsonSiegel{}, err
	}
	return set(x), nil
}

// FitSvensson calibrates a Svensson curve, starting from the Nelson-Siegel fit.
func FitSvensson(q []RateQuote) (market.Svensson, error) {
	ns, err := FitNelsonSiegel(q)
	if err != nil {
		return market.Svensson{}, err
	}
	set := func(p []float64) market.Svensson {
		return market.Svensson{
			NelsonSiegel: market.NelsonSiegel{Beta0: p[0], Beta1: p[1], Beta2: p[2], Tau: math.Exp(p[3])},
			Beta3:        p[4],
			Tau2:         math.Exp(p[5]),
		}
	}
	start := []float64{ns.Beta0, ns.Beta1, ns.Beta2, math.Log(ns.Tau), 0, math.Log(5)}
	x, err := minimize(func(p []float64) float64 { return rateMSE(set(p), q) }, start)
	if err != nil {
		return market.Svensson{}, err
	}
	return set(x), nil
}

// initialLevels guesses level, slope and curvature from the longest and shortest quotes.
func initialLevels(q []RateQuote) []float64 {
	s := append([]RateQuote(nil), q...)
	sort.Slice(s, func(i, j int) bool { return s[i].Maturity < s[j].Maturity })
	long, short := s[len(s)-1].Rate, s[0].Rate
	return []float64{long, short - long, 0}
}

func rateMSE(c market.Curve, q []RateQuote) float64 {
	loss := 0.0
	for _, v := range q {
		d := c.Rate(v.Maturity) - v.Rate
		loss += d * d
	}
	return loss / float64(len(q))
}

// FitSVI calibrates one raw SVI slice of expiry T to implied vol quotes. b and sigma
// are searched in log space and rho through tanh so the slice always validates.
func FitSVI(T float64, q []VolQuote) (market.SVISlice, error) {
	if len(q) == 0 {
		return market.SVISlice{}, errNoQuotes
	}
	set := func(p []float64) market.SVISlice {
		return market.SVISlice{T: T, A: p[0], B: math.Exp(p[1]), Rho: math.Tanh(p[2]), M: p[3], Sigma: math.Exp(p[4])}
	}
	atm := 0.0
	for _, v := range q {
		atm += v.Ivol * v.Ivol * T
	}
	atm /= float64(len(q))
	start := []float64{0.5 * atm, math.Log(0.1), 0, 0, math.Log(0.1)}
	loss := func(p []float64) float64 {
		s := set(p)
		out := 0.0
		for _, v := range q {
			w := s.TotalVariance(v.LogMoneyness)
			if w < 0 {
				// arbitrage: keep the search away from negative variance
				out += 1 + w*w
				continue
			}
			d := math.Sqrt(w/T) - v.Ivol
			out += d * d
		}
		return out / float64(len(q))
	}
	x, err := minimize(loss, start)
	if err != nil {
		return market.SVISlice{}, err
	}
	return set(x), nil
}

// FitSVISurface fits one slice per quoted maturity.
func FitSVISurface(q []VolQuote) (market.Vol, error) {
	byT := map[float64][]VolQuote{}
	for _, v := range q {
		byT[v.Maturity] = append(byT[v.Maturity], v)
	}
	if len(byT) == 0 {
		return market.Vol{}, errNoQuotes
	}
	var slices []market.SVISlice
	for T, quotes := range byT {
		s, err := FitSVI(T, quotes)
		if err != nil {
			return market.Vol{}, err
		}
		slices = append(slices, s)
	}
	return market.SVI(slices...), nil
}
