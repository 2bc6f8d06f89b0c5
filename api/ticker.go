package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type tickerRequest struct {
	Ticker string `form:"ticker" binding:"required"`
}

func (server *Server) tickerPrice(c *gin.Context) {
	var req tickerRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	px, err := server.store.TickerPrice(c.Request.Context(), req.Ticker)
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker_price": px.String()})
}

// listTickers serves every stored underlying with its last price, ordered by ticker.
func (server *Server) listTickers(c *gin.Context) {
	list, err := server.store.ListUnderlyings(c.Request.Context())
	if err != nil {
		server.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickers": list})
}
