package payoff

// Vanilla is a European call or put.
type Vanilla struct {
	Type     OptionType
	Strike   float64
	Maturity float64
}

func (v *Vanilla) Kind() Kind      { return KindVanilla }
func (v *Vanilla) Expiry() float64 { return v.Maturity }
func (v *Vanilla) sealed()         {}

func (v *Vanilla) Validate() error {
	if err := checkMaturity("vanilla", v.Maturity); err != nil {
		return err
	}
	return checkPositive("vanilla", "strike", v.Strike)
}

func (v *Vanilla) Payoff(path []float64) float64 {
	return intrinsic(v.Type, last(path), v.Strike)
}

// Binary pays a fixed amount when the terminal price finishes beyond the strike:
// above it for calls, below it for puts.
type Binary struct {
	Type     OptionType
	Strike   float64
	Payout   float64
	Maturity float64
}

func (b *Binary) Kind() Kind      { return KindBinary }
func (b *Binary) Expiry() float64 { return b.Maturity }
func (b *Binary) sealed()         {}

func (b *Binary) Validate() error {
	if err := checkMaturity("binary", b.Maturity); err != nil {
		return err
	}
	if err := checkPositive("binary", "strike", b.Strike); err != nil {
		return err
	}
	if b.Payout < 0 {
		return checkPositive("binary", "payout", b.Payout)
	}
	return nil
}

func (b *Binary) Payoff(path []float64) float64 {
	s := last(path)
	if (b.Type == Call && s > b.Strike) || (b.Type == Put && s < b.Strike) {
		return b.Payout
	}
	return 0
}
