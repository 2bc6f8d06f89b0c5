package api

import (
	"context"
	"net/http"

	"github.com/banachtech/structured-pricer/engine"
	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/payoff"
	"github.com/gin-gonic/gin"
	"gonum.org/v1/gonum/mat"
)

// basketRequest describes one basket option. The basket size is the number of
// volatilities; spots may be replaced by tickers looked up in the store. A full
// correlation matrix, row major, wins over the uniform correlation.
type basketRequest struct {
	Tickers           []string  `form:"tickers" json:"tickers"`
	Spots             []float64 `form:"spots" json:"spots"`
	Vols              []float64 `form:"vols" json:"vols" binding:"required"`
	Dividends         []float64 `form:"dividends" json:"dividends"`
	Correlation       float64   `form:"correlation" json:"correlation"`
	CorrelationMatrix []float64 `form:"correlation_matrix" json:"correlation_matrix"`
	BasketType        string    `form:"basket_type" json:"basket_type"`
	OptionType        string    `form:"option_type" json:"option_type" binding:"required"`
	Strike            float64   `form:"strike" json:"strike"`
	Maturity          float64   `form:"maturity" json:"maturity"`
	Weights           []float64 `form:"weights" json:"weights"`
	Rate              *float64  `form:"rate" json:"rate"`
	NbPaths           int       `form:"nb_paths" json:"nb_paths" binding:"gte=0"`
	NbSteps           int       `form:"nb_steps" json:"nb_steps" binding:"gte=0"`
	Seed              uint64    `form:"seed" json:"seed"`
}

type basketResponse struct {
	engine.Result
	ConfidenceInterval [2]float64 `json:"confidence_interval"`
	Spots              []float64  `json:"spots"`
}

func (req basketRequest) correlation(n int) (*mat.SymDense, error) {
	if req.CorrelationMatrix == nil {
		return market.UniformCorrelation(n, req.Correlation), nil
	}
	if len(req.CorrelationMatrix) != n*n {
		return nil, errs.InvalidMarketData("basket", "correlation matrix has %d entries, want %d", len(req.CorrelationMatrix), n*n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			if req.CorrelationMatrix[i*n+j] != req.CorrelationMatrix[j*n+i] {
				return nil, errs.InvalidMarketData("basket", "correlation matrix is not symmetric")
			}
		}
	}
	return mat.NewSymDense(n, append([]float64(nil), req.CorrelationMatrix...)), nil
}

func (server *Server) basketSpots(ctx context.Context, req basketRequest) ([]float64, error) {
	n := len(req.Vols)
	if len(req.Spots) == n {
		return req.Spots, nil
	}
	if len(req.Spots) > 0 || len(req.Tickers) != n {
		return nil, errs.InvalidMarketData("basket", "need %d spots or tickers", n)
	}
	spots := make([]float64, n)
	for i, ticker := range req.Tickers {
		px, err := server.store.TickerPrice(ctx, ticker)
		if err != nil {
			return nil, err
		}
		spots[i] = px.InexactFloat64()
	}
	return spots, nil
}

func (server *Server) basketData(ctx context.Context, req basketRequest) (market.BasketData, error) {
	n := len(req.Vols)
	if len(req.Dividends) != 0 && len(req.Dividends) != n {
		return market.BasketData{}, errs.InvalidMarketData("basket", "need %d dividend yields", n)
	}
	spots, err := server.basketSpots(ctx, req)
	if err != nil {
		return market.BasketData{}, err
	}
	corr, err := req.correlation(n)
	if err != nil {
		return market.BasketData{}, err
	}
	bd := market.BasketData{Correlation: corr, Curve: server.curve(req.Rate)}
	for i := range req.Vols {
		a := market.Asset{Spot: spots[i], Sigma: req.Vols[i]}
		if i < len(req.Tickers) {
			a.Ticker = req.Tickers[i]
		}
		if len(req.Dividends) == n {
			a.DividendYield = req.Dividends[i]
		}
		bd.Assets = append(bd.Assets, a)
	}
	return bd, bd.Validate()
}

func (server *Server) priceBasket(c *gin.Context) {
	req := basketRequest{Strike: 100, Maturity: 1}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	style, err := payoff.ParseBasketStyle(req.BasketType)
	if err != nil {
		server.fail(c, err)
		return
	}
	typ, err := payoff.ParseOptionType(req.OptionType)
	if err != nil {
		server.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	bd, err := server.basketData(ctx, req)
	if err != nil {
		server.fail(c, err)
		return
	}
	opt := &payoff.BasketOption{Style: style, Type: typ, Strike: req.Strike, Maturity: req.Maturity, Weights: req.Weights}
	cfg := server.simConfig(marketRequest{NbPaths: req.NbPaths, NbSteps: req.NbSteps, Seed: req.Seed})
	res, err := server.engine.PriceBasket(ctx, opt, bd, cfg)
	if err != nil {
		server.fail(c, err)
		return
	}
	spots := make([]float64, len(bd.Assets))
	for i, a := range bd.Assets {
		spots[i] = a.Spot
	}
	c.JSON(http.StatusOK, basketResponse{
		Result:             res,
		ConfidenceInterval: [2]float64{res.Lower, res.Upper},
		Spots:              spots,
	})
}
