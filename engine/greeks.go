package engine

import (
	"context"
	"errors"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/payoff"
	"golang.org/x/sync/errgroup"
)

// Bump sizes of the finite differences.
const (
	SpotBump = 0.01       // relative
	VolBump  = 0.01       // absolute
	RateBump = 0.0001     // absolute
	TimeBump = 1.0 / 365. // one day, in years
)

const (
	sBase = iota
	sSpotUp
	sSpotDown
	sVolUp
	sVolDown
	sTime
	sRateUp
	sRateDown
	nScenarios
)

type scenario struct {
	inst payoff.Instrument
	md   market.MarketData
	skip bool
}

// invalid reports whether err comes from input validation.
func invalid(err error) bool {
	return errors.Is(err, errs.ErrInvalidInstrument) ||
		errors.Is(err, errs.ErrInvalidMarketData) ||
		errors.Is(err, errs.ErrInvalidConfig)
}

// PriceWithGreeks prices inst and computes its Greeks by bump and reprice. Every run
// uses the same seed, so the differences are taken over common random numbers, and
// the runs execute concurrently. Delta and gamma bump spot by 1%, vega the volatility
// by one point, theta moves the valuation date one day forward and rho shifts the
// rate curve by one basis point. Theta is per year.
func (e *Engine) PriceWithGreeks(ctx context.Context, inst payoff.Instrument, md market.MarketData, cfg mc.Config) (Result, error) {
	if err := inst.Validate(); err != nil {
		return Result{}, err
	}
	if err := md.Validate(); err != nil {
		return Result{}, err
	}
	h := md.Spot * SpotBump
	sc := make([]scenario, nScenarios)
	sc[sBase] = scenario{inst: inst, md: md}
	sc[sSpotUp] = scenario{inst: inst, md: md.WithSpot(md.Spot + h)}
	sc[sSpotDown] = scenario{inst: inst, md: md.WithSpot(md.Spot - h)}
	sc[sVolUp] = scenario{inst: inst, md: md.WithVolShift(VolBump)}
	sc[sVolDown] = scenario{inst: inst, md: md.WithVolShift(-VolBump)}
	sc[sTime] = scenario{inst: payoff.WithMaturity(inst, inst.Expiry()-TimeBump), md: md}
	sc[sRateUp] = scenario{inst: inst, md: md.WithRateShift(RateBump)}
	sc[sRateDown] = scenario{inst: inst, md: md.WithRateShift(-RateBump)}

	// a bump that moves spot across a barrier changes what is being priced
	if b, ok := inst.(payoff.Barriered); ok {
		base := b.Breached(md.Spot)
		sc[sSpotUp].skip = b.Breached(md.Spot+h) != base
		sc[sSpotDown].skip = b.Breached(md.Spot-h) != base
	}

	sub := &Engine{Log: e.Log}
	results := make([]*Result, nScenarios)
	g, gctx := errgroup.WithContext(ctx)
	for i := range sc {
		i := i
		if sc[i].skip {
			continue
		}
		g.Go(func() error {
			r, err := sub.Price(gctx, sc[i].inst, sc[i].md, cfg)
			if err != nil {
				if i != sBase && invalid(err) {
					e.Log.Debug().Err(err).Int("scenario", i).Msg("greek unavailable")
					return nil
				}
				return err
			}
			results[i] = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := *results[sBase]
	p := func(i int) *float64 {
		if results[i] == nil {
			return nil
		}
		return &results[i].Price
	}
	res.Greeks = &Greeks{
		Delta: difference(p(sSpotUp), p(sBase), p(sSpotDown), h),
		Gamma: second(p(sSpotUp), p(sBase), p(sSpotDown), h),
		Vega:  difference(p(sVolUp), p(sBase), p(sVolDown), VolBump),
		Theta: difference(p(sTime), p(sBase), nil, TimeBump),
		Rho:   difference(p(sRateUp), p(sBase), p(sRateDown), RateBump),
	}
	return res, nil
}

// Greeks returns only the sensitivities of inst.
func (e *Engine) Greeks(ctx context.Context, inst payoff.Instrument, md market.MarketData, cfg mc.Config) (*Greeks, error) {
	res, err := e.PriceWithGreeks(ctx, inst, md, cfg)
	if err != nil {
		return nil, err
	}
	return res.Greeks, nil
}

// difference is the central difference when both bumps priced, otherwise the
// one-sided difference against the base.
func difference(up, base, down *float64, h float64) *float64 {
	var v float64
	switch {
	case up != nil && down != nil:
		v = (*up - *down) / (2 * h)
	case up != nil && base != nil:
		v = (*up - *base) / h
	case down != nil && base != nil:
		v = (*base - *down) / h
	default:
		return nil
	}
	return &v
}

func second(up, base, down *float64, h float64) *float64 {
	if up == nil || base == nil || down == nil {
		return nil
	}
	v := (*up - 2**base + *down) / (h * h)
	return &v
}
