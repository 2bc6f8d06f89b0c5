package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mockdb "github.com/banachtech/structured-pricer/db/mock"
	db "github.com/banachtech/structured-pricer/db/sqlc"
	"github.com/banachtech/structured-pricer/errs"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTickerPrice(t *testing.T) {
	runCases(t, []apiTestCase{
		{
			name: "OK",
			url:  "/ticker_price?ticker=AAPL",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().TickerPrice(gomock.Any(), gomock.Eq("AAPL")).Times(1).Return(decimal.RequireFromString("189.25"), nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var got map[string]string
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.Equal(t, "189.25", got["ticker_price"])
			},
		},
		{
			name: "NotFound",
			url:  "/ticker_price?ticker=NOPE",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().TickerPrice(gomock.Any(), gomock.Eq("NOPE")).Times(1).Return(decimal.Decimal{}, errs.UnknownTicker("NOPE", sql.ErrNoRows))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "InternalError",
			url:  "/ticker_price?ticker=AAPL",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().TickerPrice(gomock.Any(), gomock.Any()).Times(1).Return(decimal.Decimal{}, sql.ErrConnDone)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name:       "MissingTicker",
			url:        "/ticker_price",
			buildStubs: noStore,
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	})
}

func TestListTickers(t *testing.T) {
	updated := time.Date(2024, time.March, 1, 21, 0, 0, 0, time.UTC)
	runCases(t, []apiTestCase{
		{
			name: "OK",
			url:  "/tickers",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().ListUnderlyings(gomock.Any()).Times(1).Return([]db.Underlying{
					{Ticker: "AAPL", LastPrice: "189.25", UpdatedAt: updated},
					{Ticker: "MSFT", LastPrice: "410", UpdatedAt: updated},
				}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				var got struct {
					Tickers []db.Underlying `json:"tickers"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.Len(t, got.Tickers, 2)
				require.Equal(t, "MSFT", got.Tickers[1].Ticker)
				require.Equal(t, "189.25", got.Tickers[0].LastPrice)
				require.True(t, updated.Equal(got.Tickers[0].UpdatedAt))
			},
		},
		{
			name: "Empty",
			url:  "/tickers",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().ListUnderlyings(gomock.Any()).Times(1).Return([]db.Underlying{}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				require.JSONEq(t, `{"tickers":[]}`, recorder.Body.String())
			},
		},
		{
			name: "InternalError",
			url:  "/tickers",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().ListUnderlyings(gomock.Any()).Times(1).Return(nil, sql.ErrConnDone)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
	})
}

func TestRateLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mockdb.NewMockStore(ctrl)
	noStore(store)

	server := newTestServer(t, store)
	server.cfg.RateLimit = 0.001
	server.cfg.RateBurst = 1
	server.setupRouter()

	codes := make([]int, 3)
	for i := range codes {
		recorder := httptest.NewRecorder()
		request, err := http.NewRequest(http.MethodGet, "/ticker_price", nil)
		require.NoError(t, err)
		server.router.ServeHTTP(recorder, request)
		codes[i] = recorder.Code
	}
	require.Equal(t, []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	// health checks are never limited
	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequestIDAndMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mockdb.NewMockStore(ctrl)
	server := newTestServer(t, store)

	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	_, err = uuid.Parse(recorder.Header().Get(requestIDHeaderKey))
	require.NoError(t, err)

	id := uuid.NewString()
	recorder = httptest.NewRecorder()
	request, err = http.NewRequest(http.MethodGet, "/healthz", nil)
	require.NoError(t, err)
	request.Header.Set(requestIDHeaderKey, id)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, id, recorder.Header().Get(requestIDHeaderKey))

	recorder = httptest.NewRecorder()
	request, err = http.NewRequest(http.MethodGet, "/metrics", nil)
	require.NoError(t, err)
	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `pricer_requests_total{route="/healthz",status="200"} 2`)
}

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{err: errs.InvalidInstrument("op", "bad"), want: http.StatusBadRequest},
		{err: errs.InvalidMarketData("op", "bad"), want: http.StatusBadRequest},
		{err: errs.InvalidConfig("op", "bad"), want: http.StatusBadRequest},
		{err: errs.UnknownTicker("X", nil), want: http.StatusNotFound},
		{err: errs.NonConvergence("op", "bad"), want: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("pricing: %w", context.Canceled), want: http.StatusServiceUnavailable},
		{err: context.DeadlineExceeded, want: http.StatusServiceUnavailable},
		{err: sql.ErrConnDone, want: http.StatusInternalServerError},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.err.Error(), func(t *testing.T) {
			require.Equal(t, tc.want, statusCode(tc.err))
		})
	}
}
