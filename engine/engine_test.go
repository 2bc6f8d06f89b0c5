package engine

import (
	"context"
	"math"
	"testing"

	"github.com/banachtech/structured-pricer/data"
	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/payoff"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testConfig(paths int) mc.Config {
	cfg := mc.DefaultConfig()
	cfg.Paths = paths
	cfg.Steps = 1
	return cfg
}

func TestPriceConvergesToBlackScholes(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0.2)

	testCases := []struct {
		name string
		typ  payoff.OptionType
		flag string
	}{
		{name: "Call", typ: payoff.Call, flag: "c"},
		{name: "Put", typ: payoff.Put, flag: "p"},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			res, err := e.Price(context.Background(), &payoff.Vanilla{Type: tc.typ, Strike: 100, Maturity: 1}, md, testConfig(100000))
			require.NoError(t, err)
			want := data.BlackScholes(tc.flag, 100, 100, 0.2, 1, 0, 0.05)
			require.Greater(t, res.StdErr, 0.0)
			require.InDelta(t, want, res.Price, 4*res.StdErr)
			require.InDelta(t, res.Price-1.96*res.StdErr, res.Lower, 1e-12)
			require.InDelta(t, res.Price+1.96*res.StdErr, res.Upper, 1e-12)
			require.Equal(t, 100000, res.Paths)
		})
	}
}

func TestPutCallParity(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.03, 0.01, 0.25)
	cfg := testConfig(50000)
	c, err := e.Price(context.Background(), &payoff.Vanilla{Type: payoff.Call, Strike: 105, Maturity: 2}, md, cfg)
	require.NoError(t, err)
	p, err := e.Price(context.Background(), &payoff.Vanilla{Type: payoff.Put, Strike: 105, Maturity: 2}, md, cfg)
	require.NoError(t, err)
	want := 100*math.Exp(-0.02) - 105*math.Exp(-0.06)
	require.InDelta(t, want, c.Price-p.Price, 3*(c.StdErr+p.StdErr))
}

func TestStdErrShrinksWithPaths(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0.2)
	inst := &payoff.Vanilla{Type: payoff.Call, Strike: 100, Maturity: 1}
	small, err := e.Price(context.Background(), inst, md, testConfig(10000))
	require.NoError(t, err)
	large, err := e.Price(context.Background(), inst, md, testConfig(40000))
	require.NoError(t, err)
	require.InDelta(t, 2.0, small.StdErr/large.StdErr, 0.2)
}

func TestPriceIndependentOfWorkers(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.02, 0, 0.3)
	inst := &payoff.PathDependent{Style: payoff.Asian, Type: payoff.Call, Strike: 100, Maturity: 1}
	cfg := mc.DefaultConfig()
	cfg.Paths = 20000
	cfg.Steps = 12
	cfg.BlockSize = 1000

	var prices []Result
	for _, w := range []int{1, 3, 8} {
		cfg.Workers = w
		res, err := e.Price(context.Background(), inst, md, cfg)
		require.NoError(t, err)
		prices = append(prices, res)
	}
	require.Equal(t, prices[0], prices[1])
	require.Equal(t, prices[0], prices[2])

	cfg.Seed = 7
	other, err := e.Price(context.Background(), inst, md, cfg)
	require.NoError(t, err)
	require.NotEqual(t, prices[0].Price, other.Price)
}

func TestPriceCancelled(t *testing.T) {
	e := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Price(ctx, &payoff.Vanilla{Type: payoff.Call, Strike: 100, Maturity: 1}, market.New(100, 0.05, 0, 0.2), testConfig(10000))
	require.ErrorIs(t, err, context.Canceled)
}

func TestPriceValidation(t *testing.T) {
	e := New(zerolog.Nop())
	good := &payoff.Vanilla{Type: payoff.Call, Strike: 100, Maturity: 1}
	md := market.New(100, 0.05, 0, 0.2)

	testCases := []struct {
		name string
		inst payoff.Instrument
		md   market.MarketData
		cfg  mc.Config
		kind error
	}{
		{name: "NegativeStrike", inst: &payoff.Vanilla{Strike: -1, Maturity: 1}, md: md, cfg: testConfig(10), kind: errs.ErrInvalidInstrument},
		{name: "ZeroMaturity", inst: &payoff.Vanilla{Strike: 100}, md: md, cfg: testConfig(10), kind: errs.ErrInvalidInstrument},
		{name: "ZeroPaths", inst: good, md: md, cfg: testConfig(0), kind: errs.ErrInvalidConfig},
		{name: "ZeroSpot", inst: good, md: market.New(0, 0.05, 0, 0.2), cfg: testConfig(10), kind: errs.ErrInvalidMarketData},
		{name: "NegativeVol", inst: good, md: market.New(100, 0.05, 0, -0.2), cfg: testConfig(10), kind: errs.ErrInvalidMarketData},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Price(context.Background(), tc.inst, tc.md, tc.cfg)
			require.ErrorIs(t, err, tc.kind)
		})
	}
}

func TestZeroVolIsDeterministic(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0)
	res, err := e.Price(context.Background(), &payoff.Vanilla{Type: payoff.Call, Strike: 100, Maturity: 1}, md, testConfig(100000))
	require.NoError(t, err)
	require.InDelta(t, 100-100*math.Exp(-0.05), res.Price, 1e-9)
	require.Zero(t, res.StdErr)
	require.Equal(t, 1, res.Paths)
}

func TestAutocallDiscountsAtCallDate(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0)
	note := &payoff.Autocall{
		Type: payoff.Phoenix, Maturity: 1, Frequency: 4,
		AutocallBarrier: 100, CouponBarrier: 70, CapitalBarrier: 70, CouponRate: 2,
	}
	res, err := e.Price(context.Background(), note, md, mc.DefaultConfig())
	require.NoError(t, err)
	require.InDelta(t, 102*math.Exp(-0.05*0.25), res.Price, 1e-9)
}

func TestGreeksVanilla(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0.2)
	res, err := e.PriceWithGreeks(context.Background(), &payoff.Vanilla{Type: payoff.Call, Strike: 100, Maturity: 1}, md, testConfig(50000))
	require.NoError(t, err)
	g := res.Greeks
	require.NotNil(t, g)
	require.NotNil(t, g.Delta)
	require.NotNil(t, g.Gamma)
	require.NotNil(t, g.Vega)
	require.NotNil(t, g.Theta)
	require.NotNil(t, g.Rho)

	require.InDelta(t, data.BlackScholesDelta("c", 100, 100, 0.2, 1, 0, 0.05), *g.Delta, 0.02)
	require.Greater(t, *g.Gamma, 0.0)
	require.InDelta(t, 37.52, *g.Vega, 2)
	require.Less(t, *g.Theta, 0.0)
	require.Greater(t, *g.Rho, 0.0)
}

func TestGreeksSkipBarrierCrossing(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0.2)
	inst := &payoff.Barrier{Type: payoff.Call, Barrier: payoff.DownAndOut, Strike: 100, Level: 99.5, Maturity: 1}
	g, err := e.Greeks(context.Background(), inst, md, testConfig(5000))
	require.NoError(t, err)
	require.NotNil(t, g.Delta)
	require.Nil(t, g.Gamma)
	require.NotNil(t, g.Vega)
}

func TestGreeksInvalidBase(t *testing.T) {
	e := New(zerolog.Nop())
	_, err := e.PriceWithGreeks(context.Background(), &payoff.Vanilla{Type: payoff.Call, Strike: 100}, market.New(100, 0, 0, 0.2), testConfig(10))
	require.ErrorIs(t, err, errs.ErrInvalidInstrument)
}

func TestDifference(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	require.InDelta(t, 2.0, *difference(f(3), f(2), f(1), 0.5), 1e-12)
	require.InDelta(t, 1.0, *difference(f(3), f(2), nil, 1), 1e-12)
	require.InDelta(t, 1.0, *difference(nil, f(2), f(1), 1), 1e-12)
	require.Nil(t, difference(nil, f(2), nil, 1))
	require.Nil(t, second(f(3), f(2), nil, 1))
	require.InDelta(t, 4.0, *second(f(3), f(1), f(3), 1), 1e-12)
}

func TestPayoffCurve(t *testing.T) {
	straddle := &payoff.Strategy{Type: payoff.Straddle, Strikes: []float64{100}, Maturity: 1}
	pd, err := DefaultPayoffCurve(straddle, 100)
	require.NoError(t, err)
	require.Len(t, pd.Prices, GridPoints)
	require.Len(t, pd.Payoffs, GridPoints)
	require.InDelta(t, 50, pd.Prices[0], 1e-12)
	require.InDelta(t, 150, pd.Prices[GridPoints-1], 1e-12)
	require.InDelta(t, 50, pd.Payoffs[0], 1e-9)
	require.InDelta(t, 50, pd.Payoffs[GridPoints-1], 1e-9)

	note := &payoff.Autocall{
		Type: payoff.Phoenix, Maturity: 1, Frequency: 4,
		AutocallBarrier: 100, CouponBarrier: 70, CapitalBarrier: 70, CouponRate: 2,
	}
	pd, err = PayoffCurve(note, 200, 100, 300, 3)
	require.NoError(t, err)
	require.Equal(t, []float64{100, 200, 300}, pd.Prices)
	require.InDelta(t, 50, pd.Payoffs[0], 1e-9)
	require.InDelta(t, 102, pd.Payoffs[1], 1e-9)
	require.InDelta(t, 102, pd.Payoffs[2], 1e-9)

	_, err = PayoffCurve(straddle, 100, 10, 5, 10)
	require.ErrorIs(t, err, errs.ErrInvalidConfig)
}

func TestSolveCoupon(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.03, 0, 0.2)
	cfg := mc.DefaultConfig()
	cfg.Paths = 10000
	cfg.Steps = 4
	note := &payoff.Autocall{
		Type: payoff.Phoenix, Maturity: 1, Frequency: 4,
		AutocallBarrier: 100, CouponBarrier: 70, CapitalBarrier: 70,
	}
	c, err := e.SolveCoupon(context.Background(), note, md, cfg)
	require.NoError(t, err)
	require.Greater(t, c, 0.0)
	require.Zero(t, note.CouponRate)

	priced := *note
	priced.CouponRate = c
	res, err := e.Price(context.Background(), &priced, md, cfg)
	require.NoError(t, err)
	require.InDelta(t, 100, res.Price, 0.05)
}

func TestSolveCouponAbovePar(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, -0.05, 0, 0)
	note := &payoff.Autocall{
		Type: payoff.Phoenix, Maturity: 1, Frequency: 4,
		AutocallBarrier: 120, CouponBarrier: 70, CapitalBarrier: 1,
	}
	_, err := e.SolveCoupon(context.Background(), note, md, mc.DefaultConfig())
	require.ErrorIs(t, err, errs.ErrNonConvergence)
}

// with zero volatility there is a single path, so theta only reflects the payment
// date moving closer
func TestAutocallTheta(t *testing.T) {
	e := New(zerolog.Nop())
	r := 0.05
	md := market.New(100, r, 0, 0)

	testCases := []struct {
		name     string
		autocall float64
		amount   float64
		when     float64
	}{
		{name: "CalledFirstDate", autocall: 100, amount: 102, when: 0.25},
		{name: "Matured", autocall: 110, amount: 108, when: 1},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			note := &payoff.Autocall{
				Type: payoff.Phoenix, Maturity: 1, Frequency: 4,
				AutocallBarrier: tc.autocall, CouponBarrier: 80, CapitalBarrier: 60, CouponRate: 2,
			}
			res, err := e.PriceWithGreeks(context.Background(), note, md, testConfig(1000))
			require.NoError(t, err)
			require.InDelta(t, tc.amount*math.Exp(-r*tc.when), res.Price, 1e-9)

			require.NotNil(t, res.Greeks.Theta)
			want := (tc.amount*math.Exp(-r*tc.when*(1-TimeBump)) - res.Price) / TimeBump
			require.InDelta(t, want, *res.Greeks.Theta, 1e-6)
			require.InDelta(t, r*tc.when*res.Price, *res.Greeks.Theta, 1e-2)
			require.Greater(t, *res.Greeks.Theta, 0.0)
		})
	}
}

func americanConfig(paths, steps int) mc.Config {
	cfg := testConfig(paths)
	cfg.Steps = steps
	return cfg
}

func TestAmericanPrice(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0.2)
	cfg := americanConfig(20000, 50)
	european := data.BlackScholes("p", 100, 100, 0.2, 1, 0, 0.05)

	put, err := e.Price(context.Background(), &payoff.American{Type: payoff.Put, Strike: 100, Maturity: 1}, md, cfg)
	require.NoError(t, err)
	require.Greater(t, put.StdErr, 0.0)
	require.Greater(t, put.Price, european+0.3)
	require.Less(t, put.Price, 6.3)

	bermudan, err := e.Price(context.Background(), &payoff.American{Type: payoff.Put, Strike: 100, Maturity: 1, ExerciseDates: 4}, md, cfg)
	require.NoError(t, err)
	require.Greater(t, bermudan.Price, european+0.15)
	require.Less(t, bermudan.Price, put.Price+0.1)

	// early exercise of a call on a stock without dividends is never optimal
	call, err := e.Price(context.Background(), &payoff.American{Type: payoff.Call, Strike: 100, Maturity: 1}, md, cfg)
	require.NoError(t, err)
	require.InDelta(t, data.BlackScholes("c", 100, 100, 0.2, 1, 0, 0.05), call.Price, 4*call.StdErr+0.2)
}

func TestAmericanWorkerIndependence(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.03, 0, 0.3)
	am := &payoff.American{Type: payoff.Put, Strike: 105, Maturity: 0.5}

	var prices []float64
	for _, w := range []int{1, 4} {
		cfg := americanConfig(5000, 20)
		cfg.Workers = w
		cfg.BlockSize = 1000
		res, err := e.Price(context.Background(), am, md, cfg)
		require.NoError(t, err)
		prices = append(prices, res.Price)
	}
	require.Equal(t, prices[0], prices[1])
}

// with a single known path the holder exercises at the best date
func TestAmericanZeroVol(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0)
	res, err := e.Price(context.Background(), &payoff.American{Type: payoff.Put, Strike: 110, Maturity: 1}, md, americanConfig(1000, 4))
	require.NoError(t, err)
	require.InDelta(t, 110*math.Exp(-0.05*0.25)-100, res.Price, 1e-9)
	require.Zero(t, res.StdErr)
}

func TestAmericanGreeks(t *testing.T) {
	e := New(zerolog.Nop())
	md := market.New(100, 0.05, 0, 0.2)
	g, err := e.Greeks(context.Background(), &payoff.American{Type: payoff.Put, Strike: 100, Maturity: 1}, md, americanConfig(10000, 20))
	require.NoError(t, err)
	require.NotNil(t, g.Delta)
	require.Less(t, *g.Delta, 0.0)
	require.Greater(t, *g.Delta, -1.0)
	require.NotNil(t, g.Vega)
	require.Greater(t, *g.Vega, 0.0)
}
