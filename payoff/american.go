package payoff

import (
	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/utils"
)

// American is a call or put the holder may exercise before maturity. With
// ExerciseDates zero it can be exercised at every simulated point after inception;
// otherwise on that many equally spaced dates ending at maturity, as a Bermudan.
type American struct {
	Type          OptionType
	Strike        float64
	Maturity      float64
	ExerciseDates int
}

func (a *American) Kind() Kind      { return KindAmerican }
func (a *American) Expiry() float64 { return a.Maturity }
func (a *American) sealed()         {}

func (a *American) Validate() error {
	if err := checkMaturity("american", a.Maturity); err != nil {
		return err
	}
	if err := checkPositive("american", "strike", a.Strike); err != nil {
		return err
	}
	if a.ExerciseDates < 0 {
		return errs.InvalidInstrument("american", "exercise dates %d must not be negative", a.ExerciseDates)
	}
	return nil
}

// Payoff is the value of exercising at maturity.
func (a *American) Payoff(path []float64) float64 {
	return a.Exercise(last(path))
}

// Exercise is the immediate exercise value at underlying level s.
func (a *American) Exercise(s float64) float64 {
	return intrinsic(a.Type, s, a.Strike)
}

// Exercisable flags the indices of an n point path where exercise is allowed.
func (a *American) Exercisable(n int) []bool {
	out := make([]bool, n)
	if a.ExerciseDates == 0 {
		for i := 1; i < n; i++ {
			out[i] = true
		}
		return out
	}
	for _, i := range utils.ObservationIndices(n, a.ExerciseDates)[1:] {
		out[i] = true
	}
	return out
}
