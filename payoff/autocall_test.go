package payoff

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func phoenix() *Autocall {
	return &Autocall{
		Type:            Phoenix,
		Maturity:        1,
		Frequency:       4,
		AutocallBarrier: 100,
		CouponBarrier:   80,
		CapitalBarrier:  60,
		CouponRate:      2,
	}
}

// observation dates fall on indices 0, 2, 4, 6, 8 of a 9 point path
func quarterly(levels ...float64) []float64 {
	path := []float64{100}
	for _, l := range levels {
		path = append(path, l, l)
	}
	return path[:9]
}

func TestAutocallRedemption(t *testing.T) {
	testCases := []struct {
		name   string
		inst   func() *Autocall
		path   []float64
		amount float64
		when   float64
	}{
		{
			name:   "FirstDateCall",
			inst:   phoenix,
			path:   quarterly(105, 30, 30, 30),
			amount: 102,
			when:   0.25,
		},
		{
			name:   "CouponsThenCall",
			inst:   phoenix,
			path:   quarterly(90, 85, 101, 50),
			amount: 106,
			when:   0.75,
		},
		{
			name:   "MemoryCoupon",
			inst:   phoenix,
			path:   quarterly(70, 75, 90, 95),
			amount: 108,
			when:   1,
		},
		{
			name:   "MissedCouponPaidNextDate",
			inst:   phoenix,
			path:   []float64{100, 75, 90, 90, 90},
			amount: 108,
			when:   1,
		},
		{
			name:   "MissedCouponsPaidAtMaturity",
			inst:   phoenix,
			path:   quarterly(90, 75, 70, 65),
			amount: 108,
			when:   1,
		},
		{
			name:   "CapitalLoss",
			inst:   phoenix,
			path:   quarterly(90, 70, 65, 50),
			amount: 50 + 2,
			when:   1,
		},
		{
			name: "SecurityGearing",
			inst: func() *Autocall {
				a := phoenix()
				a.IsSecurity = true
				return a
			},
			path:   quarterly(70, 70, 70, 45),
			amount: 75,
			when:   1,
		},
		{
			name: "ContinuousCapitalBarrier",
			inst: func() *Autocall {
				a := phoenix()
				a.ContinuousCapitalBarrier = true
				return a
			},
			path:   quarterly(55, 85, 85, 90),
			amount: 90 + 8,
			when:   1,
		},
		{
			name:   "EuropeanCapitalBarrierIgnoresDip",
			inst:   phoenix,
			path:   quarterly(55, 85, 85, 90),
			amount: 108,
			when:   1,
		},
		{
			name: "EagleCall",
			inst: func() *Autocall {
				a := phoenix()
				a.Type = Eagle
				return a
			},
			path:   quarterly(90, 95, 100, 100),
			amount: 106,
			when:   0.75,
		},
		{
			name: "EagleMaturityPlain",
			inst: func() *Autocall {
				a := phoenix()
				a.Type = Eagle
				return a
			},
			path:   quarterly(90, 95, 90, 85),
			amount: 100,
			when:   1,
		},
		{
			name: "EagleMaturityPlus",
			inst: func() *Autocall {
				a := phoenix()
				a.Type, a.IsPlus = Eagle, true
				return a
			},
			path:   quarterly(90, 95, 90, 85),
			amount: 108,
			when:   1,
		},
		{
			name: "EagleLossNoCoupon",
			inst: func() *Autocall {
				a := phoenix()
				a.Type, a.IsPlus = Eagle, true
				return a
			},
			path:   quarterly(90, 95, 90, 40),
			amount: 40,
			when:   1,
		},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			inst := tc.inst()
			require.NoError(t, inst.Validate())
			amount, when := inst.Redemption(tc.path)
			require.InDelta(t, tc.amount, amount, 1e-9)
			require.InDelta(t, tc.when, when, 1e-12)
			require.InDelta(t, tc.amount, inst.Payoff(tc.path), 1e-9)
		})
	}
}

// once called, nothing after the first date matters
func TestAutocallIgnoresLaterDates(t *testing.T) {
	inst := phoenix()
	base, when := inst.Redemption(quarterly(120, 100, 100, 100))
	for _, tail := range [][]float64{{10, 10, 10}, {200, 200, 200}, {79, 81, 59}} {
		amount, w := inst.Redemption(quarterly(120, tail[0], tail[1], tail[2]))
		require.Equal(t, base, amount)
		require.Equal(t, when, w)
	}
}

// payment dates follow the maturity, so a shorter note calls earlier
func TestAutocallCallTimeScalesWithMaturity(t *testing.T) {
	inst := phoenix()
	path := quarterly(90, 105, 100, 100)
	_, when := inst.Redemption(path)
	require.InDelta(t, 0.5, when, 1e-12)

	short := WithMaturity(inst, 1-1.0/365).(*Autocall)
	require.Equal(t, inst.Observations(), short.Observations())
	_, when = short.Redemption(path)
	require.InDelta(t, 0.5*(1-1.0/365), when, 1e-12)
}

func TestAutocallScaleInvariant(t *testing.T) {
	inst := phoenix()
	path := quarterly(90, 85, 70, 95)
	scaled := make([]float64, len(path))
	for i, v := range path {
		scaled[i] = v * 3.7
	}
	a, _ := inst.Redemption(path)
	b, _ := inst.Redemption(scaled)
	require.InDelta(t, a, b, 1e-9)
}

func TestParticipation(t *testing.T) {
	testCases := []struct {
		name  string
		typ   ParticipationType
		final float64
		want  float64
	}{
		{name: "TwinWinAboveUpper", typ: TwinWin, final: 140, want: 105},
		{name: "TwinWinUp", typ: TwinWin, final: 110, want: 115},
		{name: "TwinWinDown", typ: TwinWin, final: 90, want: 115},
		{name: "TwinWinBelowLower", typ: TwinWin, final: 60, want: 40},
		{name: "AirbagCushion", typ: Airbag, final: 85, want: 100},
		{name: "AirbagUp", typ: Airbag, final: 110, want: 115},
		{name: "AirbagBelowLower", typ: Airbag, final: 70, want: 55},
		{name: "Floored", typ: Airbag, final: 10, want: 0},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			p := &Participation{Type: tc.typ, Maturity: 1, UpperBarrier: 130, LowerBarrier: 80, Rebate: 5, Leverage: 1.5}
			require.NoError(t, p.Validate())
			require.InDelta(t, tc.want, p.Payoff([]float64{100, 100, tc.final}), 1e-9)
		})
	}
}
