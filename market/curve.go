package market

import "math"

// Curve is a zero-rate term structure with continuous compounding. Maturities are in years.
type Curve interface {
	Rate(t float64) float64
}

// Flat is a constant zero rate.
type Flat float64

func (f Flat) Rate(float64) float64 { return float64(f) }

// NelsonSiegel zero curve.
type NelsonSiegel struct {
	Beta0, Beta1, Beta2, Tau float64
}

func nsLoadings(t, tau float64) (float64, float64) {
	if t <= 0 {
		return 1, 0
	}
	x := t / tau
	l1 := (1 - math.Exp(-x)) / x
	return l1, l1 - math.Exp(-x)
}

func (c NelsonSiegel) Rate(t float64) float64 {
	l1, l2 := nsLoadings(t, c.Tau)
	return c.Beta0 + c.Beta1*l1 + c.Beta2*l2
}

// Svensson adds a second hump to Nelson-Siegel.
type Svensson struct {
	NelsonSiegel
	Beta3, Tau2 float64
}

func (c Svensson) Rate(t float64) float64 {
	_, l3 := nsLoadings(t, c.Tau2)
	return c.NelsonSiegel.Rate(t) + c.Beta3*l3
}

// Shifted moves every zero rate of Curve by Shift.
type Shifted struct {
	Curve
	Shift float64
}

func (c Shifted) Rate(t float64) float64 { return c.Curve.Rate(t) + c.Shift }

// DiscountFactor returns exp(-r(t) t).
func DiscountFactor(c Curve, t float64) float64 {
	if t <= 0 {
		return 1
	}
	return math.Exp(-c.Rate(t) * t)
}

// ForwardRate is the continuously compounded forward between t1 and t2.
func ForwardRate(c Curve, t1, t2 float64) float64 {
	if t2 <= t1 {
		return c.Rate(t2)
	}
	if t1 <= 0 {
		return c.Rate(t2)
	}
	return (c.Rate(t2)*t2 - c.Rate(t1)*t1) / (t2 - t1)
}
