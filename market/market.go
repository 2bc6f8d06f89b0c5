// Package market holds the market snapshot a pricing request runs against.
package market

import (
	"math"
	"time"

	"github.com/banachtech/structured-pricer/errs"
)

// MarketData is a single-underlying market snapshot.
type MarketData struct {
	Spot          float64
	Curve         Curve
	DividendYield float64
	Vol           Vol
	ValuationDate time.Time
}

// New builds a snapshot with a flat rate curve and a constant volatility.
func New(spot, rate, dividend, sigma float64) MarketData {
	return MarketData{Spot: spot, Curve: Flat(rate), DividendYield: dividend, Vol: Constant(sigma)}
}

// Validate fails with errs.ErrInvalidMarketData on a non-positive spot or a negative vol.
func (md MarketData) Validate() error {
	if !(md.Spot > 0) || math.IsInf(md.Spot, 0) {
		return errs.InvalidMarketData("market", "spot %v must be positive", md.Spot)
	}
	if md.Curve == nil {
		return errs.InvalidMarketData("market", "missing rate curve")
	}
	if err := md.Vol.Validate(); err != nil {
		return &errs.Error{Kind: errs.ErrInvalidMarketData, Op: "market", Err: err}
	}
	return nil
}

// Rate is the zero rate to maturity t.
func (md MarketData) Rate(t float64) float64 { return md.Curve.Rate(t) }

// Discount is the discount factor to maturity t.
func (md MarketData) Discount(t float64) float64 { return DiscountFactor(md.Curve, t) }

// Forward is the underlying forward price for maturity t.
func (md MarketData) Forward(t float64) float64 {
	return md.Spot * math.Exp((md.Rate(t)-md.DividendYield)*t)
}

// Sigma is the Black volatility for strike K and maturity t.
func (md MarketData) Sigma(strike, t float64) float64 {
	k := 0.0
	if strike > 0 && t > 0 {
		k = math.Log(strike / md.Forward(t))
	}
	return md.Vol.Implied(k, t)
}

// WithSpot returns a copy with spot replaced.
func (md MarketData) WithSpot(spot float64) MarketData {
	md.Spot = spot
	return md
}

// WithVolShift returns a copy with volatility bumped by dv.
func (md MarketData) WithVolShift(dv float64) MarketData {
	md.Vol = md.Vol.Bump(dv)
	return md
}

// WithRateShift returns a copy with every zero rate moved by dr.
func (md MarketData) WithRateShift(dr float64) MarketData {
	md.Curve = Shifted{Curve: md.Curve, Shift: dr}
	return md
}
