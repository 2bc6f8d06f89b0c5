package engine

import (
	"context"
	"math"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/payoff"
)

// Coupon search settings: the price of the note is matched to its notional.
const (
	CouponLow     = 0.0
	CouponHigh    = 50.0
	CouponTarget  = payoff.Notional
	CouponEpsilon = 1e-2
	CouponMaxIter = 25
)

// SolveCoupon finds the coupon rate that prices the note at par by bisection. The
// note price increases with the coupon, and every trial reuses the same seed so the
// search runs on a fixed set of paths.
func (e *Engine) SolveCoupon(ctx context.Context, note *payoff.Autocall, md market.MarketData, cfg mc.Config) (float64, error) {
	trial := *note
	price := func(c float64) (float64, error) {
		trial.CouponRate = c
		r, err := e.Price(ctx, &trial, md, cfg)
		return r.Price, err
	}

	lo, hi := CouponLow, CouponHigh
	plo, err := price(lo)
	if err != nil {
		return 0, err
	}
	if plo >= CouponTarget {
		if plo-CouponTarget < CouponEpsilon {
			return lo, nil
		}
		return 0, errs.NonConvergence("autocall coupon", "note is worth %.4f above par with no coupon", plo)
	}
	phi, err := price(hi)
	if err != nil {
		return 0, err
	}
	if phi < CouponTarget-CouponEpsilon {
		return 0, errs.NonConvergence("autocall coupon", "note is worth %.4f below par with a %v coupon", phi, hi)
	}

	mid := 0.5 * (lo + hi)
	for i := 0; i < CouponMaxIter; i++ {
		mid = 0.5 * (lo + hi)
		p, err := price(mid)
		if err != nil {
			return 0, err
		}
		if math.Abs(p-CouponTarget) < CouponEpsilon {
			return mid, nil
		}
		if p < CouponTarget {
			lo = mid
		} else {
			hi = mid
		}
	}
	e.Log.Debug().Float64("coupon", mid).Msg("coupon search hit iteration cap")
	return mid, nil
}
