package payoff

import (
	"fmt"
	"math"
	"strings"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/utils"
	"gonum.org/v1/gonum/stat"
)

// PathStyle selects how a path-dependent option reads its path.
type PathStyle int

const (
	Asian PathStyle = iota
	AsianGeometric
	Lookback
	FloatingStrike
	ForwardStart
	Chooser
)

var pathStyles = map[string]PathStyle{
	"asian":           Asian,
	"asian_geometric": AsianGeometric,
	"lookback":        Lookback,
	"floating_strike": FloatingStrike,
	"forward_start":   ForwardStart,
	"chooser":         Chooser,
}

func ParsePathStyle(s string) (PathStyle, error) {
	if p, ok := pathStyles[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return 0, errs.InvalidInstrument("path_dependent", "unknown style %q", s)
}

func (p PathStyle) String() string {
	for k, v := range pathStyles {
		if v == p {
			return k
		}
	}
	return fmt.Sprintf("PathStyle(%d)", int(p))
}

// PathDependent covers Asian, lookback, floating-strike, forward-start and chooser
// options. Averages run over every simulated point including inception.
type PathDependent struct {
	Style    PathStyle
	Type     OptionType
	Strike   float64
	Maturity float64

	// StartTime (years) fixes a forward-start strike at Moneyness times the price
	// observed then. Zero means inception.
	StartTime float64
	Moneyness float64
}

func (p *PathDependent) Kind() Kind      { return KindPathDependent }
func (p *PathDependent) Expiry() float64 { return p.Maturity }
func (p *PathDependent) sealed()         {}

func (p *PathDependent) Validate() error {
	if err := checkMaturity("path_dependent", p.Maturity); err != nil {
		return err
	}
	switch p.Style {
	case FloatingStrike:
		return nil
	case ForwardStart:
		if p.StartTime < 0 || p.StartTime >= p.Maturity {
			return errs.InvalidInstrument("path_dependent", "forward start %v must lie in [0, maturity)", p.StartTime)
		}
		if p.Moneyness < 0 {
			return errs.InvalidInstrument("path_dependent", "moneyness %v must not be negative", p.Moneyness)
		}
		return nil
	case Asian, AsianGeometric, Lookback, Chooser:
		return checkPositive("path_dependent", "strike", p.Strike)
	}
	return errs.InvalidInstrument("path_dependent", "unknown style %d", int(p.Style))
}

func (p *PathDependent) Payoff(path []float64) float64 {
	s := last(path)
	switch p.Style {
	case Asian:
		return intrinsic(p.Type, stat.Mean(path, nil), p.Strike)
	case AsianGeometric:
		return intrinsic(p.Type, utils.GeoMean(path), p.Strike)
	case Lookback:
		if p.Type == Put {
			return intrinsic(Put, utils.MinSlice(path), p.Strike)
		}
		return intrinsic(Call, utils.MaxSlice(path), p.Strike)
	case FloatingStrike:
		return intrinsic(p.Type, s, stat.Mean(path, nil))
	case ForwardStart:
		i := int(math.Round(p.StartTime / p.Maturity * float64(len(path)-1)))
		m := p.Moneyness
		if m == 0 {
			m = 1
		}
		return intrinsic(p.Type, s, m*path[i])
	case Chooser:
		return math.Max(intrinsic(Call, s, p.Strike), intrinsic(Put, s, p.Strike))
	}
	return 0
}

// BarrierType is the direction and effect of a barrier.
type BarrierType int

const (
	UpAndOut BarrierType = iota
	UpAndIn
	DownAndOut
	DownAndIn
)

var barrierTypes = map[string]BarrierType{
	"up_and_out":   UpAndOut,
	"up_and_in":    UpAndIn,
	"down_and_out": DownAndOut,
	"down_and_in":  DownAndIn,
}

func ParseBarrierType(s string) (BarrierType, error) {
	key := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	if b, ok := barrierTypes[key]; ok {
		return b, nil
	}
	return 0, errs.InvalidInstrument("barrier", "unknown barrier type %q", s)
}

func (b BarrierType) up() bool  { return b == UpAndOut || b == UpAndIn }
func (b BarrierType) out() bool { return b == UpAndOut || b == DownAndOut }

// Barrier is a knock-in or knock-out option. With Observations zero the barrier is
// monitored at every simulated point, otherwise on that many equally spaced dates.
// Touching the level counts as a breach.
type Barrier struct {
	Type         OptionType
	Barrier      BarrierType
	Strike       float64
	Level        float64
	Rebate       float64
	Maturity     float64
	Observations int
}

func (b *Barrier) Kind() Kind      { return KindBarrier }
func (b *Barrier) Expiry() float64 { return b.Maturity }
func (b *Barrier) sealed()         {}

func (b *Barrier) Validate() error {
	if err := checkMaturity("barrier", b.Maturity); err != nil {
		return err
	}
	if err := checkPositive("barrier", "strike", b.Strike); err != nil {
		return err
	}
	if err := checkPositive("barrier", "barrier level", b.Level); err != nil {
		return err
	}
	if b.Barrier.up() && b.Level <= b.Strike {
		return errs.InvalidInstrument("barrier", "up barrier %v must sit above strike %v", b.Level, b.Strike)
	}
	if !b.Barrier.up() && b.Level >= b.Strike {
		return errs.InvalidInstrument("barrier", "down barrier %v must sit below strike %v", b.Level, b.Strike)
	}
	if b.Rebate < 0 || b.Observations < 0 {
		return errs.InvalidInstrument("barrier", "rebate and observation count must not be negative")
	}
	return nil
}

func (b *Barrier) hit(s float64) bool {
	if b.Barrier.up() {
		return s >= b.Level
	}
	return s <= b.Level
}

// Breached reports whether the spot alone already triggers the barrier.
func (b *Barrier) Breached(spot float64) bool { return b.hit(spot) }

func (b *Barrier) breached(path []float64) bool {
	if b.Observations == 0 {
		for _, s := range path {
			if b.hit(s) {
				return true
			}
		}
		return false
	}
	for _, i := range utils.ObservationIndices(len(path), b.Observations)[1:] {
		if b.hit(path[i]) {
			return true
		}
	}
	return false
}

func (b *Barrier) Payoff(path []float64) float64 {
	// knocked is true when the option is dead: out and breached, or in and never breached
	knocked := b.breached(path) == b.Barrier.out()
	if knocked {
		return b.Rebate
	}
	return intrinsic(b.Type, last(path), b.Strike)
}
