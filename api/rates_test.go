package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/banachtech/structured-pricer/fixedincome"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func decodeField(t *testing.T, recorder *httptest.ResponseRecorder, field string) float64 {
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	var got map[string]float64
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	v, ok := got[field]
	require.True(t, ok, "missing %s in %s", field, recorder.Body.String())
	return v
}

const parBond = "emission=2020-01-01&maturity=2025-01-01&valuation=2020-01-01&coupon_rate=0.05&frequency=1&convention=ACT/ACT"

func TestBondEndpoints(t *testing.T) {
	runCases(t, []apiTestCase{
		{
			name:       "PriceFromYield",
			url:        "/calculate_bond_price?" + parBond + "&ytm=0.05",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.InDelta(t, 100, decodeField(t, recorder, "price"), 1e-9)
			},
		},
		{
			name:       "YieldFromPrice",
			url:        "/calculate_bond_price?" + parBond + "&price=100",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.InDelta(t, 0.05, decodeField(t, recorder, "ytm"), 1e-9)
			},
		},
		{
			name:       "PriceOnCurve",
			url:        "/calculate_bond_price?" + parBond + "&rate=0.05",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				p := decodeField(t, recorder, "price")
				require.Greater(t, p, 95.0)
				require.Less(t, p, 100.0)
			},
		},
		{
			name:       "PriceOutOfRange",
			url:        "/calculate_bond_price?" + parBond + "&price=100000",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
			},
		},
		{
			name:       "Coupon",
			url:        "/calculate_bond_coupon?" + parBond + "&ytm=0.05&price=100",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.InDelta(t, 0.05, decodeField(t, recorder, "coupon"), 1e-9)
			},
		},
		{
			name:       "CouponMissingPrice",
			url:        "/calculate_bond_coupon?" + parBond + "&ytm=0.05",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:       "BadDate",
			url:        "/calculate_bond_price?emission=01/01/2020&maturity=2025-01-01&ytm=0.05",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:       "MissingMaturity",
			url:        "/calculate_bond_price?emission=2020-01-01&ytm=0.05",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	})
}

func TestSwapEndpoints(t *testing.T) {
	swap := gin.H{
		"notional":   1000000,
		"frequency":  4,
		"emission":   "2024-01-15",
		"maturity":   "2029-01-15",
		"valuation":  "2024-01-15",
		"convention": "ACT/360",
		"rate":       0.04,
	}
	withFixed := gin.H{}
	for k, v := range swap {
		withFixed[k] = v
	}
	withFixed["fixed_rate"] = 0.01

	runCases(t, []apiTestCase{
		{
			name:       "ParRate",
			method:     http.MethodPost,
			url:        "/calculate_swap_rate",
			body:       swap,
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				r := decodeField(t, recorder, "rate")
				require.InDelta(t, 0.04, r, 0.005)
			},
		},
		{
			name:       "Price",
			method:     http.MethodPost,
			url:        "/calculate_swap_price",
			body:       withFixed,
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Greater(t, decodeField(t, recorder, "price"), 0.0)
			},
		},
		{
			name:       "BadFrequency",
			url:        "/calculate_swap_price?emission=2024-01-15&maturity=2029-01-15&frequency=5&rate=0.04",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:       "UnknownConvention",
			url:        "/calculate_swap_rate?emission=2024-01-15&maturity=2029-01-15&convention=BUS/252&rate=0.04",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	})
}


func TestSwapRollsExchangeHolidays(t *testing.T) {
	// the first annual payment falls on Independence Day 2024
	swap := fixedincome.Swap{
		Notional:   1000000,
		FixedRate:  0.01,
		Frequency:  1,
		Emission:   utils.Date(2023, time.July, 4),
		Maturity:   utils.Date(2025, time.July, 4),
		Valuation:  utils.Date(2023, time.July, 4),
		Convention: market.Act360,
	}
	plain, err := swap.NPV(market.Flat(0.04))
	require.NoError(t, err)
	swap.Holidays = utils.NYSE(2023, 2025)
	want, err := swap.NPV(market.Flat(0.04))
	require.NoError(t, err)
	flows, err := swap.Schedule()
	require.NoError(t, err)
	require.Equal(t, utils.Date(2024, time.July, 5), flows[0].Date)
	require.Greater(t, math.Abs(want-plain), 1e-6)

	runCases(t, []apiTestCase{
		{
			name:       "Price",
			url:        "/calculate_swap_price?notional=1000000&fixed_rate=0.01&frequency=1&emission=2023-07-04&maturity=2025-07-04&valuation=2023-07-04&convention=ACT/360&rate=0.04",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.InDelta(t, want, decodeField(t, recorder, "price"), 1e-9)
			},
		},
	})
}
