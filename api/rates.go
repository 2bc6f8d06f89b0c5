package api

import (
	"net/http"
	"time"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/fixedincome"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/utils"
	"github.com/gin-gonic/gin"
)

// scheduleRequest holds the dates and conventions common to bonds and swaps. Dates
// use the YYYY-MM-DD layout; an empty valuation date means today.
type scheduleRequest struct {
	Notional   float64  `form:"notional" json:"notional" binding:"gte=0"`
	Frequency  int      `form:"frequency" json:"frequency" binding:"gte=0"`
	Emission   string   `form:"emission" json:"emission" binding:"required"`
	Maturity   string   `form:"maturity" json:"maturity" binding:"required"`
	Valuation  string   `form:"valuation" json:"valuation"`
	Convention string   `form:"convention" json:"convention"`
	Rate       *float64 `form:"rate" json:"rate"`
}

type scheduleDates struct {
	emission, maturity, valuation time.Time
	convention                    market.Convention
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(utils.Layout, s)
	if err != nil {
		return time.Time{}, errs.InvalidInstrument("schedule", "%s %q is not a YYYY-MM-DD date", field, s)
	}
	return d, nil
}

func (req scheduleRequest) dates() (scheduleDates, error) {
	var out scheduleDates
	var err error
	if out.emission, err = parseDate("emission", req.Emission); err != nil {
		return out, err
	}
	if out.maturity, err = parseDate("maturity", req.Maturity); err != nil {
		return out, err
	}
	if req.Valuation == "" {
		now := time.Now().UTC()
		out.valuation = utils.Date(now.Year(), now.Month(), now.Day())
	} else if out.valuation, err = parseDate("valuation", req.Valuation); err != nil {
		return out, err
	}
	if out.convention, err = market.ParseConvention(req.Convention); err != nil {
		return out, &errs.Error{Kind: errs.ErrInvalidInstrument, Op: "schedule", Err: err}
	}
	return out, nil
}

// holidays is the NYSE calendar over the life of the schedule plus the configured
// closures.
func (server *Server) holidays(d scheduleDates) []time.Time {
	return append(utils.NYSE(d.emission.Year(), d.maturity.Year()), server.cfg.Holidays...)
}

func (server *Server) curve(rate *float64) market.Curve {
	if rate != nil {
		return market.Flat(*rate)
	}
	return server.market.Curve
}

type swapRequest struct {
	scheduleRequest
	FixedRate float64 `form:"fixed_rate" json:"fixed_rate"`
	Spread    float64 `form:"float_spread" json:"float_spread"`
}

func (server *Server) bindSwap(c *gin.Context) (*fixedincome.Swap, market.Curve, bool) {
	req := swapRequest{scheduleRequest: scheduleRequest{Notional: 100, Frequency: 1}}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return nil, nil, false
	}
	d, err := req.dates()
	if err != nil {
		server.fail(c, err)
		return nil, nil, false
	}
	swap := &fixedincome.Swap{
		Notional:   req.Notional,
		FixedRate:  req.FixedRate,
		Spread:     req.Spread,
		Frequency:  req.Frequency,
		Emission:   d.emission,
		Maturity:   d.maturity,
		Valuation:  d.valuation,
		Convention: d.convention,
		Holidays:   server.holidays(d),
	}
	return swap, server.curve(req.Rate), true
}

func (server *Server) swapPrice(c *gin.Context) {
	swap, curve, ok := server.bindSwap(c)
	if !ok {
		return
	}
	res, err := server.engine.Value(swap, market.MarketData{Curve: curve})
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": res.Price})
}

func (server *Server) swapRate(c *gin.Context) {
	swap, curve, ok := server.bindSwap(c)
	if !ok {
		return
	}
	rate, err := swap.ParRate(curve)
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rate": rate})
}

type bondRequest struct {
	scheduleRequest
	CouponRate float64  `form:"coupon_rate" json:"coupon_rate" binding:"gte=0"`
	YTM        *float64 `form:"ytm" json:"ytm"`
	Price      *float64 `form:"price" json:"price"`
}

func (server *Server) bindBond(c *gin.Context) (*fixedincome.Bond, bondRequest, bool) {
	req := bondRequest{scheduleRequest: scheduleRequest{Notional: 100, Frequency: 1}}
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return nil, req, false
	}
	d, err := req.dates()
	if err != nil {
		server.fail(c, err)
		return nil, req, false
	}
	bond := &fixedincome.Bond{
		Notional:   req.Notional,
		CouponRate: req.CouponRate,
		Frequency:  req.Frequency,
		Emission:   d.emission,
		Maturity:   d.maturity,
		Valuation:  d.valuation,
		Convention: d.convention,
		Holidays:   server.holidays(d),
	}
	return bond, req, true
}

// bondPrice prices from a yield, solves the yield from a price, or discounts on the
// curve when neither is given.
func (server *Server) bondPrice(c *gin.Context) {
	bond, req, ok := server.bindBond(c)
	if !ok {
		return
	}
	switch {
	case req.Price != nil:
		ytm, err := bond.YTM(*req.Price)
		if err != nil {
			server.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ytm": ytm})
	case req.YTM != nil:
		price, err := bond.Price(*req.YTM)
		if err != nil {
			server.fail(c, err)
			return
		}
		accrued, err := bond.AccruedInterest()
		if err != nil {
			server.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"price": price, "ytm": *req.YTM, "accrued_interest": accrued})
	default:
		res, err := server.engine.Value(bond, market.MarketData{Curve: server.curve(req.Rate)})
		if err != nil {
			server.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"price": res.Price})
	}
}

func (server *Server) bondCoupon(c *gin.Context) {
	bond, req, ok := server.bindBond(c)
	if !ok {
		return
	}
	if req.YTM == nil || req.Price == nil {
		server.fail(c, errs.InvalidInstrument("bond coupon", "ytm and price are both required"))
		return
	}
	coupon, err := bond.SolveCoupon(*req.YTM, *req.Price)
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coupon": coupon})
}
