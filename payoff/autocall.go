package payoff

import (
	"math"
	"strings"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/utils"
)

// AutocallType selects the coupon rule of an autocallable note.
type AutocallType int

const (
	// Phoenix pays a coupon at each date the coupon barrier is met, together with the
	// coupons missed since the last payment.
	Phoenix AutocallType = iota
	// Eagle pays all coupons at once on early redemption.
	Eagle
)

func ParseAutocallType(s string) (AutocallType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "phoenix":
		return Phoenix, nil
	case "eagle":
		return Eagle, nil
	}
	return 0, errs.InvalidInstrument("autocall", "unknown autocall type %q", s)
}

func (a AutocallType) String() string {
	if a == Eagle {
		return "eagle"
	}
	return "phoenix"
}

// Autocall is a note on a notional of 100. Barriers are levels in percent of the
// initial fixing and CouponRate is paid in points per observation date. Observation
// dates are equally spaced over Maturity.
type Autocall struct {
	Type            AutocallType
	Maturity        float64
	Frequency       float64 // observations per year
	AutocallBarrier float64
	CouponBarrier   float64
	CapitalBarrier  float64
	CouponRate      float64

	// IsPlus pays the Eagle coupons at maturity when the note was never called and the
	// capital barrier held.
	IsPlus bool
	// IsSecurity gears the loss below the capital barrier so that it starts from zero.
	IsSecurity bool
	// ContinuousCapitalBarrier observes the capital barrier on every observation date
	// instead of at maturity only.
	ContinuousCapitalBarrier bool
}

// Notional of every autocallable note.
const Notional = 100.0

func (a *Autocall) Kind() Kind      { return KindAutocall }
func (a *Autocall) Expiry() float64 { return a.Maturity }
func (a *Autocall) sealed()         {}

// Observations is the number of observation dates after the initial fixing.
func (a *Autocall) Observations() int {
	return int(math.Round(a.Maturity * a.Frequency))
}

func (a *Autocall) Validate() error {
	if err := checkMaturity("autocall", a.Maturity); err != nil {
		return err
	}
	if err := checkPositive("autocall", "observation frequency", a.Frequency); err != nil {
		return err
	}
	if a.Observations() < 1 {
		return errs.InvalidInstrument("autocall", "maturity %v with frequency %v gives no observation date", a.Maturity, a.Frequency)
	}
	if err := checkPositive("autocall", "autocall barrier", a.AutocallBarrier); err != nil {
		return err
	}
	if err := checkPositive("autocall", "capital barrier", a.CapitalBarrier); err != nil {
		return err
	}
	if a.Type == Phoenix {
		if err := checkPositive("autocall", "coupon barrier", a.CouponBarrier); err != nil {
			return err
		}
	}
	if a.CouponRate < 0 {
		return errs.InvalidInstrument("autocall", "coupon rate %v must not be negative", a.CouponRate)
	}
	return nil
}

// Payoff is the redemption amount regardless of when it is paid.
func (a *Autocall) Payoff(path []float64) float64 {
	amount, _ := a.Redemption(path)
	return amount
}

// Redemption runs the note's state machine over the observation dates. The note stays
// active until the autocall barrier is met, when it redeems at that date; otherwise it
// matures and the capital barrier decides the final amount.
func (a *Autocall) Redemption(path []float64) (float64, float64) {
	n := a.Observations()
	idx := utils.ObservationIndices(len(path), n)
	s0 := path[0]
	perf := func(t int) float64 { return path[idx[t]] / s0 * 100 }

	var coupons, missed float64
	knockedIn := false
	for t := 1; t <= n; t++ {
		p := perf(t)
		if p >= a.AutocallBarrier {
			when := float64(t) / float64(n) * a.Maturity
			if a.Type == Eagle {
				return Notional + float64(t)*a.CouponRate, when
			}
			return Notional + coupons + a.CouponRate + missed, when
		}
		if a.ContinuousCapitalBarrier && p < a.CapitalBarrier {
			knockedIn = true
		}
		if a.Type == Eagle {
			continue
		}
		if p >= a.CouponBarrier {
			coupons += a.CouponRate + missed
			missed = 0
		} else {
			missed += a.CouponRate
		}
	}

	final := perf(n)
	if final < a.CapitalBarrier {
		knockedIn = true
	}
	if a.Type == Eagle {
		// coupons are only paid on call, or at maturity with the plus feature
		coupons = 0
		if a.IsPlus && !knockedIn {
			coupons = float64(n) * a.CouponRate
		}
	}
	// missed coupons are only caught up when the capital is returned in full
	if !knockedIn {
		return Notional + coupons + missed, a.Maturity
	}
	return a.lossRedemption(final) + coupons, a.Maturity
}

// lossRedemption is the capital returned once the capital barrier has been breached.
func (a *Autocall) lossRedemption(final float64) float64 {
	if a.IsSecurity {
		gearing := Notional / a.CapitalBarrier
		return math.Max(0, Notional-math.Max(a.CapitalBarrier-final, 0)*gearing)
	}
	return math.Max(0, math.Min(final, Notional))
}
