package payoff

import (
	"strings"

	"github.com/banachtech/structured-pricer/errs"
)

// OptionParams are the request fields shared by single-option products.
type OptionParams struct {
	Strike       float64
	Maturity     float64
	Barrier      float64
	Rebate       float64
	Payout       float64
	Observations int
	StartTime    float64
	Moneyness    float64
}

// ParseOption builds an instrument from a product name. Both the class style
// (EuropeanCallOption, UpAndOutPutOption) and the snake style (european_call,
// up_and_out_put) are accepted.
func ParseOption(name string, p OptionParams) (Instrument, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	key = strings.TrimSuffix(key, "option")

	typ := Call
	base := key
	switch {
	case strings.HasSuffix(key, "call"):
		base = strings.TrimSuffix(key, "call")
	case strings.HasSuffix(key, "put"):
		typ, base = Put, strings.TrimSuffix(key, "put")
	case key != "chooser":
		return nil, errs.InvalidInstrument("option", "unknown option type %q", name)
	}

	var inst Instrument
	switch base {
	case "european", "vanilla", "":
		inst = &Vanilla{Type: typ, Strike: p.Strike, Maturity: p.Maturity}
	case "binary", "digital":
		inst = &Binary{Type: typ, Strike: p.Strike, Payout: p.Payout, Maturity: p.Maturity}
	case "asian", "asianarithmetic":
		inst = &PathDependent{Style: Asian, Type: typ, Strike: p.Strike, Maturity: p.Maturity}
	case "asiangeometric", "geometricasian":
		inst = &PathDependent{Style: AsianGeometric, Type: typ, Strike: p.Strike, Maturity: p.Maturity}
	case "lookback":
		inst = &PathDependent{Style: Lookback, Type: typ, Strike: p.Strike, Maturity: p.Maturity}
	case "floatingstrike":
		inst = &PathDependent{Style: FloatingStrike, Type: typ, Maturity: p.Maturity}
	case "forwardstart":
		inst = &PathDependent{Style: ForwardStart, Type: typ, Maturity: p.Maturity, StartTime: p.StartTime, Moneyness: p.Moneyness}
	case "chooser":
		inst = &PathDependent{Style: Chooser, Strike: p.Strike, Maturity: p.Maturity}
	case "american":
		inst = &American{Type: typ, Strike: p.Strike, Maturity: p.Maturity}
	case "bermudan", "bermudean":
		if p.Observations <= 0 {
			return nil, errs.InvalidInstrument("option", "bermudan option needs a positive number of exercise dates")
		}
		inst = &American{Type: typ, Strike: p.Strike, Maturity: p.Maturity, ExerciseDates: p.Observations}
	case "upandout", "upandin", "downandout", "downandin":
		bt := barrierTypes[map[string]string{
			"upandout":   "up_and_out",
			"upandin":    "up_and_in",
			"downandout": "down_and_out",
			"downandin":  "down_and_in",
		}[base]]
		inst = &Barrier{Type: typ, Barrier: bt, Strike: p.Strike, Level: p.Barrier, Rebate: p.Rebate, Maturity: p.Maturity, Observations: p.Observations}
	default:
		return nil, errs.InvalidInstrument("option", "unknown option type %q", name)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}
