package fixedincome

import (
	"math"
	"time"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/utils"
)

// Swap is a vanilla interest rate swap seen from the payer of the fixed leg. Spread is
// added to the floating rate, in basis points.
type Swap struct {
	Notional   float64
	FixedRate  float64
	Spread     float64
	Frequency  int
	Emission   time.Time
	Maturity   time.Time
	Valuation  time.Time
	Convention market.Convention
	Holidays   []time.Time
}

// accrual is one remaining payment period of the swap.
type accrual struct {
	t1, t2 float64 // years from valuation, act/365
	yf     float64
	end    time.Time
}

func (s *Swap) Validate() error {
	if !(s.Notional > 0) {
		return errs.InvalidInstrument("swap", "notional %v must be positive", s.Notional)
	}
	if s.Frequency <= 0 || 12%s.Frequency != 0 {
		return errs.InvalidInstrument("swap", "frequency %d must divide 12", s.Frequency)
	}
	if math.IsNaN(s.FixedRate) || math.IsNaN(s.Spread) {
		return errs.InvalidInstrument("swap", "rates must be numbers")
	}
	if !s.Maturity.After(s.Emission) {
		return errs.InvalidInstrument("swap", "maturity %s must follow emission %s", s.Maturity.Format(utils.Layout), s.Emission.Format(utils.Layout))
	}
	if !s.Valuation.Before(s.Maturity) {
		return errs.InvalidInstrument("swap", "valuation date %s must precede maturity", s.Valuation.Format(utils.Layout))
	}
	return nil
}

func yearsBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24 / 365
}

func (s *Swap) periods() ([]accrual, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	dates, err := utils.MonthlySchedule(s.Emission, s.Maturity, 12/s.Frequency, s.Holidays)
	if err != nil {
		return nil, errs.InvalidInstrument("swap", "%v", err)
	}
	var out []accrual
	prev := s.Emission
	for _, d := range dates {
		if d.After(s.Valuation) {
			yf, err := s.Convention.YearFraction(prev, d)
			if err != nil {
				return nil, errs.InvalidInstrument("swap", "%v", err)
			}
			out = append(out, accrual{t1: yearsBetween(s.Valuation, prev), t2: yearsBetween(s.Valuation, d), yf: yf, end: d})
		}
		prev = d
	}
	return out, nil
}

// Annuity is the sum of accrual fractions weighted by the discount factor at payment.
func (s *Swap) Annuity(c market.Curve) (float64, error) {
	ps, err := s.periods()
	if err != nil {
		return 0, err
	}
	a := 0.0
	for _, p := range ps {
		a += p.yf * market.DiscountFactor(c, p.t2)
	}
	return a, nil
}

// FixedLeg is the present value of the fixed payments.
func (s *Swap) FixedLeg(c market.Curve) (float64, error) {
	a, err := s.Annuity(c)
	if err != nil {
		return 0, err
	}
	return s.Notional * s.FixedRate * a, nil
}

// FloatLeg is the present value of the floating payments, each fixed at the forward
// rate of its period. A period already running fixes at the spot rate to its end.
func (s *Swap) FloatLeg(c market.Curve) (float64, error) {
	ps, err := s.periods()
	if err != nil {
		return 0, err
	}
	v := 0.0
	for _, p := range ps {
		fwd := market.ForwardRate(c, p.t1, p.t2) + s.Spread/10000
		v += s.Notional * fwd * p.yf * market.DiscountFactor(c, p.t2)
	}
	return v, nil
}

// NPV is the floating leg less the fixed leg.
func (s *Swap) NPV(c market.Curve) (float64, error) {
	fl, err := s.FloatLeg(c)
	if err != nil {
		return 0, err
	}
	fx, err := s.FixedLeg(c)
	if err != nil {
		return 0, err
	}
	return fl - fx, nil
}

// ParRate is the fixed rate that sets the NPV to zero.
func (s *Swap) ParRate(c market.Curve) (float64, error) {
	a, err := s.Annuity(c)
	if err != nil {
		return 0, err
	}
	if a == 0 {
		return 0, errs.InvalidInstrument("swap", "zero annuity, no payment left")
	}
	fl, err := s.FloatLeg(c)
	if err != nil {
		return 0, err
	}
	return fl / (s.Notional * a), nil
}

// Schedule lists the remaining payment dates with their accrual fractions as amounts
// per unit of notional and rate.
func (s *Swap) Schedule() ([]CashFlow, error) {
	ps, err := s.periods()
	if err != nil {
		return nil, err
	}
	out := make([]CashFlow, len(ps))
	for i, p := range ps {
		out[i] = CashFlow{Date: p.end, Time: p.t2, Amount: p.yf}
	}
	return out, nil
}

// Value is the NPV on the market curve.
func (s *Swap) Value(md market.MarketData) (float64, error) {
	if md.Curve == nil {
		return 0, errs.InvalidMarketData("swap", "missing rate curve")
	}
	return s.NPV(md.Curve)
}
