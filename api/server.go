package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/banachtech/structured-pricer/config"
	db "github.com/banachtech/structured-pricer/db/sqlc"
	"github.com/banachtech/structured-pricer/engine"
	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DefaultRate is the flat rate used when neither the request nor a fitted curve
// provides one.
const DefaultRate = 0.04

// Market is the market state shared by every request: a fitted zero curve and an
// optional SVI surface, both usually calibrated from the quotes fixture at startup.
type Market struct {
	Curve   market.Curve
	Surface *market.Vol
}

// Server serves HTTP requests for our pricing service.
type Server struct {
	cfg     config.Config
	store   db.Store
	market  Market
	engine  *engine.Engine
	log     zerolog.Logger
	metrics *metrics
	router  *gin.Engine
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(cfg config.Config, store db.Store, mkt Market, log zerolog.Logger) *Server {
	if mkt.Curve == nil {
		mkt.Curve = market.Flat(DefaultRate)
	}
	server := &Server{
		cfg:    cfg,
		store:  store,
		market: mkt,
		engine: engine.New(log),
		log:    log,
	}

	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	reg := prometheus.NewRegistry()
	server.metrics = newMetrics(reg)

	router := gin.New()
	router.Use(gin.Recovery(), requestID(), server.requestLogger(), server.metrics.observe())

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	limited := router.Group("/").Use(newClientLimiter(server.cfg.RateLimit, server.cfg.RateBurst).limit, server.timeout)
	limited.GET("/ticker_price", server.tickerPrice)
	limited.GET("/tickers", server.listTickers)
	for path, h := range map[string]gin.HandlerFunc{
		"/calculate_price_options":          server.priceOptions,
		"/calculate_price_strategy":         server.priceStrategy,
		"/calculate_participation_products": server.priceParticipation,
		"/calculate_autocall_price":         server.priceAutocall,
		"/calculate_autocall_coupon":        server.autocallCoupon,
		"/calculate_basket_price":           server.priceBasket,
		"/calculate_swap_price":             server.swapPrice,
		"/calculate_swap_rate":              server.swapRate,
		"/calculate_bond_price":             server.bondPrice,
		"/calculate_bond_coupon":            server.bondCoupon,
	} {
		limited.GET(path, h)
		limited.POST(path, h)
	}
	server.router = router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// Handler exposes the router, for tests and custom listeners.
func (server *Server) Handler() http.Handler {
	return server.router
}

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// statusCode maps a pricing failure to its HTTP status.
func statusCode(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch errs.KindOf(err) {
	case errs.ErrInvalidInstrument, errs.ErrInvalidMarketData, errs.ErrInvalidConfig:
		return http.StatusBadRequest
	case errs.ErrUnknownTicker:
		return http.StatusNotFound
	case errs.ErrNonConvergence:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// fail aborts the request with the status matching err.
func (server *Server) fail(c *gin.Context, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		server.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, errorResponse(err))
}
