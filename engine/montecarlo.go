package engine

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/payoff"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Deterministic products are valued from their cash flows without simulation.
type Deterministic interface {
	Value(md market.MarketData) (float64, error)
}

// Engine runs pricing requests. The zero value is usable and silent.
type Engine struct {
	Log zerolog.Logger
	// Progress, when set, is called after each completed path block.
	Progress func(done, total int)
}

// New returns an engine logging to log.
func New(log zerolog.Logger) *Engine {
	return &Engine{Log: log}
}

// moments of one block of discounted samples
type moments struct {
	n, mean, m2 float64
}

// merge combines two sets of moments with the pairwise update of Chan et al.
func (a moments) merge(b moments) moments {
	if a.n == 0 {
		return b
	}
	if b.n == 0 {
		return a
	}
	n := a.n + b.n
	d := b.mean - a.mean
	return moments{
		n:    n,
		mean: a.mean + d*b.n/n,
		m2:   a.m2 + b.m2 + d*d*a.n*b.n/n,
	}
}

func momentsOf(samples []float64) moments {
	mean, variance := stat.MeanVariance(samples, nil)
	if len(samples) < 2 {
		variance = 0
	}
	return moments{n: float64(len(samples)), mean: mean, m2: variance * float64(len(samples)-1)}
}

// combine merges the block moments in block order into a result.
func combine(parts []moments, paths int) Result {
	var total moments
	for _, p := range parts {
		total = total.merge(p)
	}
	stderr := 0.0
	if total.n > 1 {
		stderr = math.Sqrt(total.m2/(total.n-1)) / math.Sqrt(total.n)
	}
	return newResult(total.mean, stderr, paths)
}

// forBlocks runs fn for every path block of cfg on a bounded worker pool. No block
// starts once ctx is done, and the context error is returned.
func (e *Engine) forBlocks(ctx context.Context, cfg mc.Config, fn func(b int)) error {
	blocks := cfg.Blocks()
	var done int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount())
	for b := 0; b < blocks; b++ {
		if gctx.Err() != nil {
			break
		}
		b := b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(b)
			if e.Progress != nil {
				e.Progress(int(atomic.AddInt64(&done, 1)), blocks)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Value prices a deterministic product directly.
func (e *Engine) Value(p Deterministic, md market.MarketData) (Result, error) {
	v, err := p.Value(md)
	if err != nil {
		return Result{}, err
	}
	return newResult(v, 0, 0), nil
}

// Price returns the discounted expected payoff of inst with its standard error.
// Validation runs before any path is drawn. The run is split into blocks that each
// own a random stream, so the result does not depend on the number of workers;
// cancellation of ctx is honoured between blocks.
func (e *Engine) Price(ctx context.Context, inst payoff.Instrument, md market.MarketData, cfg mc.Config) (Result, error) {
	if err := inst.Validate(); err != nil {
		return Result{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	callable, isCallable := inst.(payoff.Callable)
	if isCallable {
		cfg.Steps = observationSteps(cfg.Steps, callable.Observations())
	}
	american, isAmerican := inst.(*payoff.American)
	if isAmerican {
		cfg.Steps = observationSteps(cfg.Steps, american.ExerciseDates)
	}
	proc, err := mc.New(md, inst.Expiry(), payoff.Strike(inst), cfg.Steps)
	if err != nil {
		return Result{}, err
	}

	if deterministicPath(proc) {
		return e.priceDeterministic(inst, md, proc), nil
	}

	runID := uuid.New()
	start := time.Now()
	e.Log.Debug().Str("run_id", runID.String()).Str("kind", inst.Kind().String()).
		Int("paths", cfg.Paths).Int("steps", cfg.Steps).Bool("antithetic", cfg.Antithetic).Msg("pricing started")

	var res Result
	if isAmerican {
		res, err = e.priceAmerican(ctx, american, md, proc, cfg)
	} else {
		res, err = e.priceEuropean(ctx, inst, md, proc, cfg)
	}
	if err != nil {
		return Result{}, err
	}
	e.Log.Debug().Str("run_id", runID.String()).Float64("price", res.Price).Float64("std_error", res.StdErr).
		Dur("elapsed", time.Since(start)).Msg("pricing finished")
	return res, nil
}

// priceEuropean averages the discounted payoff of every path. Callable products are
// discounted from their redemption date.
func (e *Engine) priceEuropean(ctx context.Context, inst payoff.Instrument, md market.MarketData, proc mc.Process, cfg mc.Config) (Result, error) {
	dfT := md.Discount(inst.Expiry())
	callable, isCallable := inst.(payoff.Callable)
	discounted := func(path []float64) float64 {
		if isCallable {
			amount, t := callable.Redemption(path)
			return amount * md.Discount(t)
		}
		return inst.Payoff(path) * dfT
	}

	parts := make([]moments, cfg.Blocks())
	err := e.forBlocks(ctx, cfg, func(b int) {
		lo, hi := cfg.BlockRange(b)
		samples := make([]float64, 0, hi-lo)
		mc.Block(proc, cfg, b, func(path, twin []float64) {
			v := discounted(path)
			if twin != nil {
				v = 0.5 * (v + discounted(twin))
			}
			samples = append(samples, v)
		})
		parts[b] = momentsOf(samples)
	})
	if err != nil {
		return Result{}, err
	}
	return combine(parts, cfg.Paths), nil
}

// observationSteps rounds steps up to a multiple of the observation count so that
// every observation date falls on a simulated point.
func observationSteps(steps, obs int) int {
	if obs <= 0 {
		return steps
	}
	return obs * ((steps + obs - 1) / obs)
}

// deterministicPath reports whether every simulated path would be identical.
func deterministicPath(p mc.Process) bool {
	g, ok := p.(mc.GBM)
	return ok && g.Sigma == 0
}

func (e *Engine) priceDeterministic(inst payoff.Instrument, md market.MarketData, p mc.Process) Result {
	path := make([]float64, p.Steps()+1)
	p.Path(make([]float64, p.Steps()*p.Factors()), 1, path)
	if c, ok := inst.(payoff.Callable); ok {
		amount, t := c.Redemption(path)
		return newResult(amount*md.Discount(t), 0, 1)
	}
	if am, ok := inst.(*payoff.American); ok {
		// the only path is known, so the holder exercises at its best date
		dt := am.Maturity / float64(p.Steps())
		best := 0.0
		for i, ok := range am.Exercisable(len(path)) {
			if ok {
				best = math.Max(best, am.Exercise(path[i])*md.Discount(float64(i)*dt))
			}
		}
		return newResult(best, 0, 1)
	}
	return newResult(inst.Payoff(path)*md.Discount(inst.Expiry()), 0, 1)
}
