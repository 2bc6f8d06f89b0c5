package engine

import (
	"context"

	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/payoff"
	"gonum.org/v1/gonum/mat"
)

// regressors of the continuation value: 1, x and x^2 with x = S/K
const regressors = 3

// priceAmerican values an early-exercise option by least squares Monte Carlo. Paths
// are drawn block by block like any other run, then the exercise rule is fitted
// backwards in time: at each exercise date the continuation value of the paths in
// the money is regressed on the basis, and a path stops when exercising now pays at
// least the fitted continuation.
func (e *Engine) priceAmerican(ctx context.Context, am *payoff.American, md market.MarketData, proc mc.Process, cfg mc.Config) (Result, error) {
	blocks := make([][][]float64, cfg.Blocks())
	err := e.forBlocks(ctx, cfg, func(b int) {
		var out [][]float64
		mc.Block(proc, cfg, b, func(path, twin []float64) {
			out = append(out, append([]float64(nil), path...))
			if twin != nil {
				out = append(out, append([]float64(nil), twin...))
			}
		})
		blocks[b] = out
	})
	if err != nil {
		return Result{}, err
	}
	var paths [][]float64
	for _, b := range blocks {
		paths = append(paths, b...)
	}

	steps := proc.Steps()
	dt := am.Maturity / float64(steps)
	df := make([]float64, steps+1)
	for i := range df {
		df[i] = md.Discount(float64(i) * dt)
	}

	cash := make([]float64, len(paths))
	stop := make([]int, len(paths))
	for i, p := range paths {
		cash[i], stop[i] = am.Exercise(p[steps]), steps
	}

	exercisable := am.Exercisable(steps + 1)
	itm := make([]int, 0, len(paths))
	for t := steps - 1; t > 0; t-- {
		if !exercisable[t] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		itm = itm[:0]
		for i, p := range paths {
			if am.Exercise(p[t]) > 0 {
				itm = append(itm, i)
			}
		}
		if len(itm) <= regressors {
			continue
		}
		x := mat.NewDense(len(itm), regressors, nil)
		y := mat.NewVecDense(len(itm), nil)
		for r, i := range itm {
			s := paths[i][t] / am.Strike
			x.SetRow(r, []float64{1, s, s * s})
			y.SetVec(r, cash[i]*df[stop[i]]/df[t])
		}
		var beta mat.VecDense
		if err := beta.SolveVec(x, y); err != nil {
			e.Log.Debug().Err(err).Int("step", t).Msg("exercise regression skipped")
			continue
		}
		for _, i := range itm {
			s := paths[i][t] / am.Strike
			hold := beta.AtVec(0) + beta.AtVec(1)*s + beta.AtVec(2)*s*s
			if now := am.Exercise(paths[i][t]); now >= hold {
				cash[i], stop[i] = now, t
			}
		}
	}

	// antithetic twins follow their path and are averaged into one sample
	width := 1
	if cfg.Antithetic {
		width = 2
	}
	samples := make([]float64, len(paths)/width)
	for i := range samples {
		var v float64
		for j := 0; j < width; j++ {
			k := i*width + j
			v += cash[k] * df[stop[k]]
		}
		samples[i] = v / float64(width)
	}
	return combine([]moments{momentsOf(samples)}, cfg.Paths), nil
}
