package payoff

import (
	"math"
	"strings"

	"github.com/banachtech/structured-pricer/errs"
)

// ParticipationType selects the participation note.
type ParticipationType int

const (
	// TwinWin gains on the absolute move between the barriers.
	TwinWin ParticipationType = iota
	// Airbag protects the capital between the lower barrier and the initial level.
	Airbag
)

func ParseParticipationType(s string) (ParticipationType, error) {
	key := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "twinwin":
		return TwinWin, nil
	case "airbag":
		return Airbag, nil
	}
	return 0, errs.InvalidInstrument("participation", "unknown participation product %q", s)
}

func (p ParticipationType) String() string {
	if p == Airbag {
		return "airbag"
	}
	return "twin_win"
}

// Participation is a note on a notional of 100 paying a leveraged share of the
// underlying performance, in percent of the initial fixing, at maturity.
type Participation struct {
	Type         ParticipationType
	Maturity     float64
	UpperBarrier float64
	LowerBarrier float64
	Rebate       float64
	Leverage     float64
}

func (p *Participation) Kind() Kind      { return KindParticipation }
func (p *Participation) Expiry() float64 { return p.Maturity }
func (p *Participation) sealed()         {}

func (p *Participation) Validate() error {
	if err := checkMaturity("participation", p.Maturity); err != nil {
		return err
	}
	if err := checkPositive("participation", "lower barrier", p.LowerBarrier); err != nil {
		return err
	}
	if p.UpperBarrier <= p.LowerBarrier {
		return errs.InvalidInstrument("participation", "upper barrier %v must exceed lower barrier %v", p.UpperBarrier, p.LowerBarrier)
	}
	if p.Leverage < 0 {
		return errs.InvalidInstrument("participation", "leverage %v must not be negative", p.Leverage)
	}
	return nil
}

// Payoff never goes below zero: the holder cannot lose more than the notional.
func (p *Participation) Payoff(path []float64) float64 {
	perf := last(path) / path[0] * 100
	var out float64
	switch {
	case perf > p.UpperBarrier:
		out = Notional + p.Rebate
	case perf < p.LowerBarrier:
		out = Notional + p.Leverage*(perf-100)
	case p.Type == TwinWin:
		out = Notional + p.Leverage*math.Abs(perf-100)
	case perf < 100:
		out = Notional
	default:
		out = Notional + p.Leverage*(perf-100)
	}
	return math.Max(out, 0)
}
