// Package fixedincome values bonds and interest rate swaps from their cash flows.
package fixedincome

import (
	"math"
	"time"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/utils"
)

// CashFlow is one future payment. Time is in years from the valuation date.
type CashFlow struct {
	Date   time.Time `json:"date"`
	Time   float64   `json:"time"`
	Amount float64   `json:"amount"`
}

// Yield search settings.
const (
	YieldLow     = -0.5
	YieldHigh    = 1.0
	YieldTol     = 1e-10
	YieldMaxIter = 200
)

// Bond is a fixed coupon bond. CouponRate is annual and paid Frequency times a year;
// a zero Frequency makes it a zero-coupon bond. Yields compound annually.
type Bond struct {
	Notional   float64
	CouponRate float64
	Frequency  int
	Emission   time.Time
	Maturity   time.Time
	Valuation  time.Time
	Convention market.Convention
	Holidays   []time.Time
}

func (b *Bond) Validate() error {
	if !(b.Notional > 0) {
		return errs.InvalidInstrument("bond", "notional %v must be positive", b.Notional)
	}
	if b.CouponRate < 0 || math.IsNaN(b.CouponRate) {
		return errs.InvalidInstrument("bond", "coupon rate %v must not be negative", b.CouponRate)
	}
	if b.Frequency < 0 || (b.Frequency > 0 && 12%b.Frequency != 0) {
		return errs.InvalidInstrument("bond", "frequency %d must divide 12", b.Frequency)
	}
	if !b.Maturity.After(b.Emission) {
		return errs.InvalidInstrument("bond", "maturity %s must follow emission %s", b.Maturity.Format(utils.Layout), b.Emission.Format(utils.Layout))
	}
	if b.Valuation.Before(b.Emission) || !b.Valuation.Before(b.Maturity) {
		return errs.InvalidInstrument("bond", "valuation date %s must lie in [emission, maturity)", b.Valuation.Format(utils.Layout))
	}
	return nil
}

// coupon is the amount paid each period.
func (b *Bond) coupon() float64 {
	if b.Frequency == 0 {
		return 0
	}
	return b.Notional * b.CouponRate / float64(b.Frequency)
}

func (b *Bond) dates() ([]time.Time, error) {
	if b.Frequency == 0 {
		return []time.Time{b.Maturity}, nil
	}
	return utils.MonthlySchedule(b.Emission, b.Maturity, 12/b.Frequency, b.Holidays)
}

// period returns the coupon dates bracketing the valuation date.
func (b *Bond) period(dates []time.Time) (time.Time, time.Time) {
	last, next := b.Emission, b.Maturity
	for _, d := range dates {
		if !d.After(b.Valuation) {
			last = d
		} else {
			next = d
			break
		}
	}
	return last, next
}

// AccruedFraction is the share of the current coupon period elapsed at the valuation
// date, measured with the bond's day-count convention.
func (b *Bond) AccruedFraction() (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	dates, err := b.dates()
	if err != nil {
		return 0, errs.InvalidInstrument("bond", "%v", err)
	}
	return b.accrued(dates)
}

func (b *Bond) accrued(dates []time.Time) (float64, error) {
	last, next := b.period(dates)
	elapsed, err := b.Convention.YearFraction(last, b.Valuation)
	if err != nil {
		return 0, errs.InvalidInstrument("bond", "%v", err)
	}
	total, err := b.Convention.YearFraction(last, next)
	if err != nil {
		return 0, errs.InvalidInstrument("bond", "%v", err)
	}
	if total <= 0 {
		return 0, nil
	}
	return elapsed / total, nil
}

// AccruedInterest is the coupon amount earned since the last payment.
func (b *Bond) AccruedInterest() (float64, error) {
	a, err := b.AccruedFraction()
	if err != nil {
		return 0, err
	}
	return a * b.coupon(), nil
}

// Schedule lists the future cash flows. The i-th remaining coupon is paid (1-a+i)
// periods from now, a being the accrued fraction; the last flow carries the principal.
func (b *Bond) Schedule() ([]CashFlow, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Frequency == 0 {
		t, err := b.Convention.YearFraction(b.Valuation, b.Maturity)
		if err != nil {
			return nil, errs.InvalidInstrument("bond", "%v", err)
		}
		return []CashFlow{{Date: b.Maturity, Time: t, Amount: b.Notional}}, nil
	}
	dates, err := b.dates()
	if err != nil {
		return nil, errs.InvalidInstrument("bond", "%v", err)
	}
	a, err := b.accrued(dates)
	if err != nil {
		return nil, err
	}
	freq := float64(b.Frequency)
	var out []CashFlow
	for _, d := range dates {
		if !d.After(b.Valuation) {
			continue
		}
		out = append(out, CashFlow{Date: d, Time: (1 - a + float64(len(out))) / freq, Amount: b.coupon()})
	}
	out[len(out)-1].Amount += b.Notional
	return out, nil
}

func pv(flows []CashFlow, y float64) float64 {
	v := 0.0
	for _, f := range flows {
		v += f.Amount * math.Pow(1+y, -f.Time)
	}
	return v
}

// dpv is the derivative of pv with respect to the yield.
func dpv(flows []CashFlow, y float64) float64 {
	v := 0.0
	for _, f := range flows {
		v -= f.Time * f.Amount * math.Pow(1+y, -f.Time-1)
	}
	return v
}

// Price is the dirty price at yield y.
func (b *Bond) Price(y float64) (float64, error) {
	if y <= -1 || math.IsNaN(y) {
		return 0, errs.InvalidInstrument("bond", "yield %v must exceed -1", y)
	}
	flows, err := b.Schedule()
	if err != nil {
		return 0, err
	}
	return pv(flows, y), nil
}

// YTM solves Price(y) = price for y in [YieldLow, YieldHigh]. Newton steps are taken
// while they stay inside the bracket, bisection otherwise.
func (b *Bond) YTM(price float64) (float64, error) {
	flows, err := b.Schedule()
	if err != nil {
		return 0, err
	}
	lo, hi := YieldLow, YieldHigh
	pmin, pmax := pv(flows, hi), pv(flows, lo)
	if !(price >= pmin && price <= pmax) {
		return 0, errs.NonConvergence("bond ytm", "price %v outside [%.6f, %.6f]", price, pmin, pmax)
	}

	y := b.CouponRate
	if y <= lo || y >= hi {
		y = 0.5 * (lo + hi)
	}
	for i := 0; i < YieldMaxIter; i++ {
		f := pv(flows, y) - price
		if math.Abs(f) < YieldTol {
			return y, nil
		}
		// price falls as the yield rises
		if f > 0 {
			lo = y
		} else {
			hi = y
		}
		next := y - f/dpv(flows, y)
		if !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-y) < YieldTol {
			return next, nil
		}
		y = next
	}
	return 0, errs.NonConvergence("bond ytm", "no yield within %d iterations", YieldMaxIter)
}

// SolveCoupon returns the annual coupon rate that prices the bond at price for yield
// y. The price is linear in the coupon so no search is needed.
func (b *Bond) SolveCoupon(y, price float64) (float64, error) {
	if b.Frequency == 0 {
		return 0, errs.InvalidInstrument("bond coupon", "zero-coupon bond has no coupon to solve")
	}
	unit := *b
	unit.CouponRate = 0
	flows, err := unit.Schedule()
	if err != nil {
		return 0, err
	}
	principal := pv(flows, y)
	unit.CouponRate = 1
	flows, err = unit.Schedule()
	if err != nil {
		return 0, err
	}
	annuity := pv(flows, y) - principal
	if annuity <= 0 {
		return 0, errs.InvalidInstrument("bond coupon", "no coupon left to pay")
	}
	return (price - principal) / annuity, nil
}

// Value discounts the cash flows on the market curve.
func (b *Bond) Value(md market.MarketData) (float64, error) {
	if md.Curve == nil {
		return 0, errs.InvalidMarketData("bond", "missing rate curve")
	}
	flows, err := b.Schedule()
	if err != nil {
		return 0, err
	}
	v := 0.0
	for _, f := range flows {
		v += f.Amount * md.Discount(f.Time)
	}
	return v, nil
}
