// Command pricer prices a single-underlying option from the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/banachtech/structured-pricer/data"
	"github.com/banachtech/structured-pricer/engine"
	"github.com/banachtech/structured-pricer/logger"
	"github.com/banachtech/structured-pricer/market"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/payoff"
	"github.com/schollz/progressbar/v3"
)

func main() {
	def := mc.DefaultConfig()
	var (
		option   = flag.String("option", "european_call", "product name, e.g. european_put or down_and_out_call")
		spot     = flag.Float64("spot", 100, "spot price")
		strike   = flag.Float64("strike", 100, "strike")
		maturity = flag.Float64("maturity", 1, "maturity in years")
		barrier  = flag.Float64("barrier", 0, "barrier level")
		payout   = flag.Float64("payout", 1, "binary payout")
		rate     = flag.Float64("rate", 0.04, "flat continuously compounded rate")
		dividend = flag.Float64("dividend", 0, "continuous dividend yield")
		vol      = flag.Float64("vol", 0.2, "volatility level")
		volType  = flag.String("vol-type", "constant", "constant, heston or hyphyp")
		paths    = flag.Int("paths", def.Paths, "number of simulated paths")
		steps    = flag.Int("steps", def.Steps, "time steps per path")
		seed     = flag.Uint64("seed", def.Seed, "random seed")
		workers  = flag.Int("workers", 0, "worker count, 0 for one per CPU")
		greeks   = flag.Bool("greeks", false, "compute the Greeks")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	l := logger.New(logger.Config{Level: level, Pretty: true, Out: os.Stderr})

	inst, err := payoff.ParseOption(*option, payoff.OptionParams{
		Strike:   *strike,
		Maturity: *maturity,
		Barrier:  *barrier,
		Payout:   *payout,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("invalid option")
	}
	md, err := marketData(*spot, *rate, *dividend, *vol, *volType)
	if err != nil {
		l.Fatal().Err(err).Msg("invalid market")
	}
	cfg := mc.Config{Paths: *paths, Steps: *steps, Seed: *seed, Antithetic: true, Workers: *workers, BlockSize: def.BlockSize}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := engine.New(l)
	bar := progressBar(cfg.Blocks())
	e.Progress = func(int, int) { _ = bar.Add(1) }
	res, err := e.Price(ctx, inst, md, cfg)
	_ = bar.Finish()
	if err != nil {
		l.Fatal().Err(err).Msg("pricing failed")
	}
	if *greeks {
		e.Progress = nil
		if res.Greeks, err = e.Greeks(ctx, inst, md, cfg); err != nil {
			l.Fatal().Err(err).Msg("greeks failed")
		}
	}

	out, _ := json.MarshalIndent(res, "", "  ")
	fmt.Println(string(out))

	if v, ok := inst.(*payoff.Vanilla); ok {
		cp := "c"
		if v.Type == payoff.Put {
			cp = "p"
		}
		if md.Vol.Kind == market.ConstantVol {
			bs := data.BlackScholes(cp, *spot, v.Strike, *vol, v.Maturity, *dividend, *rate)
			fmt.Printf("black-scholes %.4f, difference %.4f (%.1f std errors)\n", bs, res.Price-bs, zscore(res, bs))
		}
		// the Black volatility that reproduces the simulated price, a smile point for stochastic models
		iv, err := data.ImpliedVol(cp, res.Price, *spot, v.Strike, v.Maturity, *dividend, *rate)
		if err != nil {
			l.Warn().Err(err).Msg("no implied volatility")
			return
		}
		fmt.Printf("implied volatility %.4f\n", iv)
	}
}

func marketData(spot, rate, dividend, vol float64, volType string) (market.MarketData, error) {
	kind, err := market.ParseVolKind(volType)
	if err != nil {
		return market.MarketData{}, err
	}
	md := market.New(spot, rate, dividend, vol)
	switch kind {
	case market.HestonVol:
		md.Vol = market.Heston(market.DefaultHeston(vol))
	case market.HypHypVol:
		md.Vol = market.HypHyp(market.DefaultHypHyp(vol))
	case market.SVIVol:
		return md, fmt.Errorf("vol type %q needs a calibrated surface", volType)
	}
	return md, md.Validate()
}

func zscore(res engine.Result, ref float64) float64 {
	if res.StdErr == 0 {
		return 0
	}
	return (res.Price - ref) / res.StdErr
}

// progress bar initialization
func progressBar(length int) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		length,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("pricing"),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
