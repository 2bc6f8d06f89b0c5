package payoff

import (
	"testing"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/stretchr/testify/require"
)

func TestBasketPayoff(t *testing.T) {
	paths := [][]float64{{100, 120}, {100, 90}, {100, 105}}
	testCases := []struct {
		name string
		opt  BasketOption
		want float64
	}{
		{name: "AverageCall", opt: BasketOption{Style: Average, Type: Call, Strike: 100}, want: 5},
		{name: "AveragePut", opt: BasketOption{Style: Average, Type: Put, Strike: 110}, want: 5},
		{name: "WeightedCall", opt: BasketOption{Style: Average, Type: Call, Strike: 100, Weights: []float64{0.5, 0.5, 0}}, want: 5},
		{name: "BestOfCall", opt: BasketOption{Style: BestOf, Type: Call, Strike: 100}, want: 20},
		{name: "BestOfPut", opt: BasketOption{Style: BestOf, Type: Put, Strike: 125}, want: 5},
		{name: "WorstOfCall", opt: BasketOption{Style: WorstOf, Type: Call, Strike: 100}, want: 0},
		{name: "WorstOfPut", opt: BasketOption{Style: WorstOf, Type: Put, Strike: 100}, want: 10},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, tc.opt.Payoff(paths), 1e-12)
		})
	}
}

func TestParseBasketStyle(t *testing.T) {
	testCases := []struct {
		in   string
		want BasketStyle
	}{
		{in: "", want: Average},
		{in: "basket", want: Average},
		{in: "best_of", want: BestOf},
		{in: "Best-Of", want: BestOf},
		{in: "worstof", want: WorstOf},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseBasketStyle(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
	_, err := ParseBasketStyle("rainbow")
	require.ErrorIs(t, err, errs.ErrInvalidInstrument)
}

func TestBasketValidate(t *testing.T) {
	opt := BasketOption{Type: Call, Strike: 100, Maturity: 1}
	require.NoError(t, opt.Validate(3))
	require.ErrorIs(t, opt.Validate(0), errs.ErrInvalidInstrument)

	opt.Weights = []float64{0.5, 0.5}
	require.ErrorIs(t, opt.Validate(3), errs.ErrInvalidInstrument)
}
