package api

import (
	"context"
	"net/http"
	"time"

	"github.com/banachtech/structured-pricer/engine"
	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/payoff"
	"github.com/gin-gonic/gin"
)

// marketRequest holds the market and simulation fields shared by the simulated
// products. Spot wins over the ticker lookup when both are given.
type marketRequest struct {
	Ticker   string   `form:"ticker" json:"ticker"`
	Spot     float64  `form:"spot" json:"spot" binding:"gte=0"`
	Rate     *float64 `form:"rate" json:"rate"`
	Dividend float64  `form:"dividend" json:"dividend"`
	VolType  string   `form:"vol_type" json:"vol_type"`
	Vol      float64  `form:"constant_vol" json:"constant_vol" binding:"gte=0"`
	NbPaths  int      `form:"nb_paths" json:"nb_paths" binding:"gte=0"`
	NbSteps  int      `form:"nb_steps" json:"nb_steps" binding:"gte=0"`
	Seed     uint64   `form:"seed" json:"seed"`
}

// default volatilities per model when the request does not set one
var defaultVols = map[market.VolKind]float64{
	market.ConstantVol: 0.2,
	market.HestonVol:   0.25,
	market.HypHypVol:   0.2,
	market.SVIVol:      0.3,
}

func (server *Server) spot(ctx context.Context, req marketRequest) (float64, error) {
	if req.Spot > 0 {
		return req.Spot, nil
	}
	if req.Ticker == "" {
		return 0, errs.InvalidMarketData("market", "spot or ticker is required")
	}
	px, err := server.store.TickerPrice(ctx, req.Ticker)
	if err != nil {
		return 0, err
	}
	return px.InexactFloat64(), nil
}

func (server *Server) marketData(ctx context.Context, req marketRequest) (market.MarketData, error) {
	spot, err := server.spot(ctx, req)
	if err != nil {
		return market.MarketData{}, err
	}
	curve := server.market.Curve
	if req.Rate != nil {
		curve = market.Flat(*req.Rate)
	}
	kind, err := market.ParseVolKind(req.VolType)
	if err != nil {
		return market.MarketData{}, &errs.Error{Kind: errs.ErrInvalidMarketData, Op: "market", Err: err}
	}
	sigma := req.Vol
	if sigma == 0 {
		sigma = defaultVols[kind]
	}

	var vol market.Vol
	switch kind {
	case market.HestonVol:
		vol = market.Heston(market.DefaultHeston(sigma))
	case market.HypHypVol:
		vol = market.HypHyp(market.DefaultHypHyp(sigma))
	case market.SVIVol:
		if server.market.Surface == nil {
			return market.MarketData{}, errs.InvalidMarketData("market", "no svi surface loaded")
		}
		vol = *server.market.Surface
	default:
		vol = market.Constant(sigma)
	}

	md := market.MarketData{Spot: spot, Curve: curve, DividendYield: req.Dividend, Vol: vol, ValuationDate: time.Now().UTC()}
	return md, md.Validate()
}

func (server *Server) simConfig(req marketRequest) mc.Config {
	cfg := server.cfg.Sim
	if req.NbPaths > 0 {
		cfg.Paths = req.NbPaths
	}
	if req.NbSteps > 0 {
		cfg.Steps = req.NbSteps
	}
	if req.Seed > 0 {
		cfg.Seed = req.Seed
	}
	return cfg
}

type priceResponse struct {
	engine.Result
	ConfidenceInterval [2]float64 `json:"confidence_interval"`
	Volatility         float64    `json:"volatility"`
}

// price runs the full pricing of a simulated product: price, Greeks and the payoff
// chart centred on reference.
func (server *Server) price(c *gin.Context, req marketRequest, inst payoff.Instrument, reference func(md market.MarketData) float64) {
	ctx := c.Request.Context()
	md, err := server.marketData(ctx, req)
	if err != nil {
		server.fail(c, err)
		return
	}
	res, err := server.engine.PriceWithGreeks(ctx, inst, md, server.simConfig(req))
	if err != nil {
		server.fail(c, err)
		return
	}
	pd, err := engine.DefaultPayoffCurve(inst, reference(md))
	if err != nil {
		server.fail(c, err)
		return
	}
	res.PayoffData = &pd
	c.JSON(http.StatusOK, priceResponse{
		Result:             res,
		ConfidenceInterval: [2]float64{res.Lower, res.Upper},
		Volatility:         md.Sigma(payoff.Strike(inst), inst.Expiry()),
	})
}

func atSpot(md market.MarketData) float64 { return md.Spot }

type optionRequest struct {
	marketRequest
	OptionType   string  `form:"option_type" json:"option_type" binding:"required"`
	Strike       float64 `form:"strike" json:"strike"`
	Maturity     float64 `form:"maturity" json:"maturity"`
	Barrier      float64 `form:"barrier" json:"barrier"`
	Rebate       float64 `form:"rebate" json:"rebate"`
	Payout       float64 `form:"payout" json:"payout"`
	Observations int     `form:"observations" json:"observations"`
	StartTime    float64 `form:"start_time" json:"start_time"`
	Moneyness    float64 `form:"moneyness" json:"moneyness"`
}

func (server *Server) priceOptions(c *gin.Context) {
	req := optionRequest{Strike: 100, Maturity: 1}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	inst, err := payoff.ParseOption(req.OptionType, payoff.OptionParams{
		Strike:       req.Strike,
		Maturity:     req.Maturity,
		Barrier:      req.Barrier,
		Rebate:       req.Rebate,
		Payout:       req.Payout,
		Observations: req.Observations,
		StartTime:    req.StartTime,
		Moneyness:    req.Moneyness,
	})
	if err != nil {
		server.fail(c, err)
		return
	}
	// the chart spans half to one and a half times the strike
	server.price(c, req.marketRequest, inst, func(market.MarketData) float64 { return req.Strike })
}

type strategyRequest struct {
	marketRequest
	Strategy string    `form:"strategy" json:"strategy" binding:"required"`
	Strikes  []float64 `form:"strikes" json:"strikes" binding:"required"`
	Maturity float64   `form:"maturity" json:"maturity"`
}

func (server *Server) priceStrategy(c *gin.Context) {
	req := strategyRequest{Maturity: 1}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	typ, err := payoff.ParseStrategyType(req.Strategy)
	if err != nil {
		server.fail(c, err)
		return
	}
	inst := &payoff.Strategy{Type: typ, Strikes: req.Strikes, Maturity: req.Maturity}
	if err := inst.Validate(); err != nil {
		server.fail(c, err)
		return
	}
	server.price(c, req.marketRequest, inst, func(market.MarketData) float64 { return req.Strikes[0] })
}

type participationRequest struct {
	marketRequest
	Product      string  `form:"product_type" json:"product_type" binding:"required"`
	Maturity     float64 `form:"maturity" json:"maturity"`
	UpperBarrier float64 `form:"upper_barrier" json:"upper_barrier"`
	LowerBarrier float64 `form:"lower_barrier" json:"lower_barrier"`
	Rebate       float64 `form:"rebate" json:"rebate"`
	Leverage     float64 `form:"leverage" json:"leverage"`
}

func (server *Server) priceParticipation(c *gin.Context) {
	req := participationRequest{Maturity: 1, Leverage: 1}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	typ, err := payoff.ParseParticipationType(req.Product)
	if err != nil {
		server.fail(c, err)
		return
	}
	inst := &payoff.Participation{
		Type:         typ,
		Maturity:     req.Maturity,
		UpperBarrier: req.UpperBarrier,
		LowerBarrier: req.LowerBarrier,
		Rebate:       req.Rebate,
		Leverage:     req.Leverage,
	}
	server.price(c, req.marketRequest, inst, atSpot)
}

type autocallRequest struct {
	marketRequest
	AutocallType             string  `form:"autocall_type" json:"autocall_type"`
	Maturity                 float64 `form:"maturity" json:"maturity"`
	Frequency                float64 `form:"frequency" json:"frequency"`
	AutocallBarrier          float64 `form:"autocall_barrier" json:"autocall_barrier"`
	CouponBarrier            float64 `form:"coupon_barrier" json:"coupon_barrier"`
	CapitalBarrier           float64 `form:"capital_barrier" json:"capital_barrier"`
	CouponRate               float64 `form:"coupon_rate" json:"coupon_rate"`
	IsPlus                   bool    `form:"is_plus" json:"is_plus"`
	IsSecurity               bool    `form:"is_security" json:"is_security"`
	ContinuousCapitalBarrier bool    `form:"continuous_capital_barrier" json:"continuous_capital_barrier"`
}

func (req autocallRequest) instrument() (*payoff.Autocall, error) {
	typ, err := payoff.ParseAutocallType(req.AutocallType)
	if err != nil {
		return nil, err
	}
	note := &payoff.Autocall{
		Type:                     typ,
		Maturity:                 req.Maturity,
		Frequency:                req.Frequency,
		AutocallBarrier:          req.AutocallBarrier,
		CouponBarrier:            req.CouponBarrier,
		CapitalBarrier:           req.CapitalBarrier,
		CouponRate:               req.CouponRate,
		IsPlus:                   req.IsPlus,
		IsSecurity:               req.IsSecurity,
		ContinuousCapitalBarrier: req.ContinuousCapitalBarrier,
	}
	return note, note.Validate()
}

func newAutocallRequest() autocallRequest {
	return autocallRequest{
		AutocallType:    "phoenix",
		Maturity:        1,
		Frequency:       4,
		AutocallBarrier: 100,
		CouponBarrier:   80,
		CapitalBarrier:  70,
	}
}

func (server *Server) priceAutocall(c *gin.Context) {
	req := newAutocallRequest()
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	note, err := req.instrument()
	if err != nil {
		server.fail(c, err)
		return
	}
	server.price(c, req.marketRequest, note, atSpot)
}

func (server *Server) autocallCoupon(c *gin.Context) {
	req := newAutocallRequest()
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	note, err := req.instrument()
	if err != nil {
		server.fail(c, err)
		return
	}
	md, err := server.marketData(c.Request.Context(), req.marketRequest)
	if err != nil {
		server.fail(c, err)
		return
	}
	coupon, err := server.engine.SolveCoupon(c.Request.Context(), note, md, server.simConfig(req.marketRequest))
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}
