package payoff

import (
	"fmt"
	"strings"

	"github.com/banachtech/structured-pricer/errs"
)

// StrategyType names a multi-leg option strategy.
type StrategyType int

const (
	Straddle StrategyType = iota
	Strangle
	BullSpread
	BearSpread
	Collar
	Butterfly
	Condor
	Strip
	Strap
)

var strategyNames = []string{"straddle", "strangle", "bull_spread", "bear_spread", "collar", "butterfly", "condor", "strip", "strap"}

func (s StrategyType) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return fmt.Sprintf("StrategyType(%d)", int(s))
}

func ParseStrategyType(s string) (StrategyType, error) {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	key = strings.TrimSuffix(key, "_strategy")
	switch key {
	case "bullspread":
		key = "bull_spread"
	case "bearspread":
		key = "bear_spread"
	}
	for i, n := range strategyNames {
		if n == key {
			return StrategyType(i), nil
		}
	}
	return 0, errs.InvalidInstrument("strategy", "unknown strategy %q", s)
}

// StrikeCount is the number of strikes the strategy needs.
func (s StrategyType) StrikeCount() int {
	switch s {
	case Strangle, BullSpread, BearSpread, Collar:
		return 2
	case Butterfly:
		return 3
	case Condor:
		return 4
	}
	return 1
}

// Leg is one vanilla position of a strategy. Weight is signed: positive is long.
type Leg struct {
	Type   OptionType
	Strike float64
	Weight float64
}

// Strategy is a set of vanilla legs sharing one maturity. Strikes are used in the
// order given, which fixes the long and short sides:
//
//	straddle    long call k0, long put k0
//	strip       long call k0, long 2 puts k0
//	strap       long 2 calls k0, long put k0
//	strangle    long put k0, long call k1
//	bull_spread long call k0, short call k1
//	bear_spread short put k0, long put k1
//	collar      long put k0, short call k1
//	butterfly   long call k0, short 2 calls k1, long call k2
//	condor      long call k0, short call k1, short call k2, long call k3
type Strategy struct {
	Type     StrategyType
	Strikes  []float64
	Maturity float64
}

func (s *Strategy) Kind() Kind      { return KindStrategy }
func (s *Strategy) Expiry() float64 { return s.Maturity }
func (s *Strategy) sealed()         {}

func (s *Strategy) Validate() error {
	if err := checkMaturity("strategy", s.Maturity); err != nil {
		return err
	}
	if int(s.Type) < 0 || int(s.Type) >= len(strategyNames) {
		return errs.InvalidInstrument("strategy", "unknown strategy %d", int(s.Type))
	}
	if want := s.Type.StrikeCount(); len(s.Strikes) != want {
		return errs.InvalidInstrument("strategy", "%s needs %d strikes, got %d", s.Type, want, len(s.Strikes))
	}
	for _, k := range s.Strikes {
		if err := checkPositive("strategy", "strike", k); err != nil {
			return err
		}
	}
	return nil
}

// Legs expands the strategy into signed vanilla legs.
func (s *Strategy) Legs() []Leg {
	k := s.Strikes
	switch s.Type {
	case Straddle:
		return []Leg{{Call, k[0], 1}, {Put, k[0], 1}}
	case Strip:
		return []Leg{{Call, k[0], 1}, {Put, k[0], 2}}
	case Strap:
		return []Leg{{Call, k[0], 2}, {Put, k[0], 1}}
	case Strangle:
		return []Leg{{Put, k[0], 1}, {Call, k[1], 1}}
	case BullSpread:
		return []Leg{{Call, k[0], 1}, {Call, k[1], -1}}
	case BearSpread:
		return []Leg{{Put, k[0], -1}, {Put, k[1], 1}}
	case Collar:
		return []Leg{{Put, k[0], 1}, {Call, k[1], -1}}
	case Butterfly:
		return []Leg{{Call, k[0], 1}, {Call, k[1], -2}, {Call, k[2], 1}}
	case Condor:
		return []Leg{{Call, k[0], 1}, {Call, k[1], -1}, {Call, k[2], -1}, {Call, k[3], 1}}
	}
	return nil
}

func (s *Strategy) Payoff(path []float64) float64 {
	st := last(path)
	out := 0.0
	for _, l := range s.Legs() {
		out += l.Weight * intrinsic(l.Type, st, l.Strike)
	}
	return out
}
