package main

import (
	"context"
	"os"

	"github.com/banachtech/structured-pricer/api"
	"github.com/banachtech/structured-pricer/config"
	"github.com/banachtech/structured-pricer/data"
	db "github.com/banachtech/structured-pricer/db/sqlc"
	"github.com/banachtech/structured-pricer/logger"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Out: os.Stderr})
	logger.SetGlobalLogger(l)

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		l.Fatal().Err(err).Str("path", cfg.DBPath).Msg("cannot open database")
	}
	defer conn.Close()
	store := db.NewStore(conn)

	var mkt api.Market
	if cfg.QuotesFile != "" {
		mkt, err = loadMarket(ctx, store, cfg.QuotesFile)
		if err != nil {
			l.Fatal().Err(err).Str("file", cfg.QuotesFile).Msg("cannot load market fixture")
		}
		l.Info().Str("file", cfg.QuotesFile).Msg("market fixture loaded")
	}

	server := api.NewServer(cfg, store, mkt, l)
	l.Info().Str("address", cfg.Address).Msg("starting server")
	if err := server.Start(cfg.Address); err != nil {
		l.Fatal().Err(err).Msg("cannot start server")
	}
}

// loadMarket seeds the ticker table and calibrates the curve and the surface from
// a fixture file. Sections missing from the file are left to the server defaults.
func loadMarket(ctx context.Context, store db.Store, path string) (api.Market, error) {
	var mkt api.Market
	file, err := data.Open(path, data.MarketFile{})
	if err != nil {
		return mkt, err
	}

	if len(file.Quotes) > 0 {
		prices := make(map[string]decimal.Decimal, len(file.Quotes))
		for _, q := range file.Quotes {
			prices[q.Ticker] = decimal.NewFromFloat(q.LastPrice)
		}
		if err := store.SeedPrices(ctx, prices); err != nil {
			return mkt, err
		}
	}
	if len(file.Rates) > 0 {
		curve, err := data.FitSvensson(file.Rates)
		if err != nil {
			return mkt, err
		}
		mkt.Curve = curve
	}
	if len(file.Vols) > 0 {
		surface, err := data.FitSVISurface(file.Vols)
		if err != nil {
			return mkt, err
		}
		mkt.Surface = &surface
	}
	return mkt, nil
}
