package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholes prices a European option, "c" for a call and "p" for a put, with
// continuous dividend yield dy.
func BlackScholes(option string, s, k, sigma, T, dy, r float64) float64 {
	if T <= 0 || sigma <= 0 {
		fwd := s * math.Exp((r-dy)*T)
		df := math.Exp(-r * T)
		if option == "p" {
			return df * math.Max(k-fwd, 0)
		}
		return df * math.Max(fwd-k, 0)
	}
	x := sigma * math.Sqrt(T)
	d1 := (math.Log(s/k) + (r-dy+0.5*sigma*sigma)*T) / x
	d2 := d1 - x

	N := distuv.Normal{Mu: 0.0, Sigma: 1.0}

	premium := s*math.Exp(-dy*T)*N.CDF(d1) - k*math.Exp(-r*T)*N.CDF(d2)
	if option == "p" {
		premium = -s*math.Exp(-dy*T)*N.CDF(-d1) + k*math.Exp(-r*T)*N.CDF(-d2)
	}
	return premium
}

// BlackScholesDelta is the spot delta of BlackScholes.
func BlackScholesDelta(option string, s, k, sigma, T, dy, r float64) float64 {
	x := sigma * math.Sqrt(T)
	d1 := (math.Log(s/k) + (r-dy+0.5*sigma*sigma)*T) / x
	N := distuv.Normal{Mu: 0.0, Sigma: 1.0}
	if option == "p" {
		return math.Exp(-dy*T) * (N.CDF(d1) - 1)
	}
	return math.Exp(-dy*T) * N.CDF(d1)
}

// ImpliedVol inverts BlackScholes for the observed premium p.
func ImpliedVol(option string, p, s, k, T, dy, r float64) (float64, error) {
	if T <= 0 || p <= 0 {
		return 0, fmt.Errorf("implied vol needs a positive premium and maturity, got %v and %v", p, T)
	}
	problem := optimize.Problem{
		Func: func(par []float64) float64 {
			d := p - BlackScholes(option, s, k, math.Exp(par[0]), T, dy, r)
			return d * d
		},
	}
	res, err := optimize.Minimize(problem, []float64{math.Log(0.3)}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, err
	}
	return math.Exp(res.X[0]), nil
}

// helper function to open a JSON fixture
func Open[T MarketFile | []Quote](filename string, target T) (T, error) {
	file, err := os.ReadFile(filename)
	if err != nil {
		return target, err
	}
	err = json.Unmarshal(file, &target)
	if err != nil {
		return target, err
	}
	return target, nil
}

var errNoQuotes = errors.New("no quotes to fit")
