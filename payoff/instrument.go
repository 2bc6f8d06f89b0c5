// Package payoff maps simulated paths to undiscounted cash amounts at maturity.
package payoff

import (
	"fmt"
	"math"
	"strings"

	"github.com/banachtech/structured-pricer/errs"
)

// Kind tags the instrument family.
type Kind int

const (
	KindVanilla Kind = iota
	KindPathDependent
	KindBarrier
	KindBinary
	KindStrategy
	KindAutocall
	KindParticipation
	KindAmerican
)

func (k Kind) String() string {
	switch k {
	case KindVanilla:
		return "vanilla"
	case KindPathDependent:
		return "path_dependent"
	case KindBarrier:
		return "barrier"
	case KindBinary:
		return "binary"
	case KindStrategy:
		return "strategy"
	case KindAutocall:
		return "autocall"
	case KindParticipation:
		return "participation"
	case KindAmerican:
		return "american"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Instrument is the closed set of simulated products. Only types in this package
// implement it.
type Instrument interface {
	Kind() Kind
	// Expiry is the maturity in years.
	Expiry() float64
	// Validate fails with errs.ErrInvalidInstrument on inconsistent parameters.
	Validate() error
	// Payoff is the undiscounted amount paid at maturity for path. path[0] is the
	// spot at inception and path[len(path)-1] the terminal price.
	Payoff(path []float64) float64

	sealed()
}

// Callable instruments may redeem before maturity.
type Callable interface {
	Instrument
	// Redemption returns the amount paid and its payment time in years.
	Redemption(path []float64) (amount, t float64)
	// Observations is the number of observation dates after inception.
	Observations() int
}

// Barriered instruments change shape when spot moves across a barrier.
type Barriered interface {
	// Breached reports whether spot alone already sits on the breached side.
	Breached(spot float64) bool
}

// OptionType is call or put.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (o OptionType) String() string {
	if o == Put {
		return "put"
	}
	return "call"
}

// ParseOptionType accepts call, put and the c/p shorthands.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, errs.InvalidInstrument("option", "unknown option type %q", s)
}

// intrinsic is the vanilla payoff of o struck at k for underlying level s.
func intrinsic(o OptionType, s, k float64) float64 {
	if o == Put {
		return math.Max(k-s, 0)
	}
	return math.Max(s-k, 0)
}

func last(path []float64) float64 { return path[len(path)-1] }

func checkMaturity(op string, t float64) error {
	if !(t > 0) || math.IsInf(t, 0) {
		return errs.InvalidInstrument(op, "maturity %v must be positive", t)
	}
	return nil
}

func checkPositive(op, name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return errs.InvalidInstrument(op, "%s %v must be positive", name, v)
	}
	return nil
}

// Strike returns the reference strike used to read a volatility smile, or 0 when the
// instrument is quoted at the money.
func Strike(inst Instrument) float64 {
	switch v := inst.(type) {
	case *Vanilla:
		return v.Strike
	case *PathDependent:
		return v.Strike
	case *Barrier:
		return v.Strike
	case *Binary:
		return v.Strike
	case *American:
		return v.Strike
	case *Strategy:
		if len(v.Strikes) > 0 {
			return v.Strikes[0]
		}
	}
	return 0
}

// WithMaturity returns a copy of inst maturing at t.
func WithMaturity(inst Instrument, t float64) Instrument {
	switch v := inst.(type) {
	case *Vanilla:
		c := *v
		c.Maturity = t
		return &c
	case *PathDependent:
		c := *v
		c.Maturity = t
		return &c
	case *Barrier:
		c := *v
		c.Maturity = t
		return &c
	case *Binary:
		c := *v
		c.Maturity = t
		return &c
	case *Strategy:
		c := *v
		c.Maturity = t
		return &c
	case *Autocall:
		c := *v
		c.Maturity = t
		return &c
	case *Participation:
		c := *v
		c.Maturity = t
		return &c
	case *American:
		c := *v
		c.Maturity = t
		return &c
	}
	return inst
}
