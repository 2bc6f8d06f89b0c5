package api

import (
	"os"
	"testing"
	"time"

	"github.com/banachtech/structured-pricer/config"
	db "github.com/banachtech/structured-pricer/db/sqlc"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T, store db.Store) *Server {
	cfg := config.Config{
		RateLimit:      1000,
		RateBurst:      1000,
		RequestTimeout: time.Minute,
		Sim: mc.Config{
			Paths:      2000,
			Steps:      10,
			Seed:       mc.DefaultSeed,
			Antithetic: true,
			BlockSize:  500,
		},
	}
	return NewServer(cfg, store, Market{}, zerolog.Nop())
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}
