package payoff

import (
	"math"
	"strings"

	"github.com/banachtech/structured-pricer/errs"
)

// BasketStyle selects how the terminal prices of a basket are reduced to one level.
type BasketStyle int

const (
	// Average is the weighted average of the terminal prices.
	Average BasketStyle = iota
	BestOf
	WorstOf
)

func (s BasketStyle) String() string {
	switch s {
	case BestOf:
		return "best_of"
	case WorstOf:
		return "worst_of"
	}
	return "basket"
}

// ParseBasketStyle accepts basket, best_of and worst_of with - or no separator.
func ParseBasketStyle(s string) (BasketStyle, error) {
	switch strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s))) {
	case "", "basket", "average":
		return Average, nil
	case "bestof":
		return BestOf, nil
	case "worstof":
		return WorstOf, nil
	}
	return 0, errs.InvalidInstrument("basket", "unknown basket type %q", s)
}

// BasketOption is a European call or put on a level derived from the terminal
// prices of several underlyings. Weights only apply to Average and default to 1/n.
type BasketOption struct {
	Style    BasketStyle
	Type     OptionType
	Strike   float64
	Maturity float64
	Weights  []float64
}

func (o *BasketOption) Expiry() float64 { return o.Maturity }

// Validate checks the option against a basket of the given size.
func (o *BasketOption) Validate(assets int) error {
	if err := checkMaturity("basket", o.Maturity); err != nil {
		return err
	}
	if err := checkPositive("basket", "strike", o.Strike); err != nil {
		return err
	}
	if assets <= 0 {
		return errs.InvalidInstrument("basket", "no underlying")
	}
	if o.Weights == nil {
		return nil
	}
	if len(o.Weights) != assets {
		return errs.InvalidInstrument("basket", "%d weights for %d underlyings", len(o.Weights), assets)
	}
	for _, w := range o.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return errs.InvalidInstrument("basket", "weight %v must be finite", w)
		}
	}
	return nil
}

// Level reduces the terminal prices of paths, one row per underlying.
func (o *BasketOption) Level(paths [][]float64) float64 {
	switch o.Style {
	case BestOf:
		v := math.Inf(-1)
		for _, p := range paths {
			v = math.Max(v, last(p))
		}
		return v
	case WorstOf:
		v := math.Inf(1)
		for _, p := range paths {
			v = math.Min(v, last(p))
		}
		return v
	}
	var v float64
	for i, p := range paths {
		w := 1 / float64(len(paths))
		if o.Weights != nil {
			w = o.Weights[i]
		}
		v += w * last(p)
	}
	return v
}

func (o *BasketOption) Payoff(paths [][]float64) float64 {
	return intrinsic(o.Type, o.Level(paths), o.Strike)
}
