// Package config loads runtime settings from the environment, an optional .env file
// and defaults.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/mc"
	"github.com/banachtech/structured-pricer/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. PRICER_ADDRESS.
const EnvPrefix = "PRICER"

type Config struct {
	Address        string
	LogLevel       string
	LogPretty      bool
	DBPath         string
	QuotesFile     string
	RateLimit      float64 // requests per second per client
	RateBurst      int
	RequestTimeout time.Duration
	// Holidays are market closures added to the NYSE calendar when rolling dates.
	Holidays       []time.Time
	Sim            mc.Config
}

func defaults(v *viper.Viper) {
	sim := mc.DefaultConfig()
	v.SetDefault("address", "0.0.0.0:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("db_path", "pricer.db")
	v.SetDefault("quotes_file", "")
	v.SetDefault("rate_limit", 2.0)
	v.SetDefault("rate_burst", 4)
	v.SetDefault("request_timeout", "60s")
	v.SetDefault("holidays", []string{})
	v.SetDefault("paths", sim.Paths)
	v.SetDefault("steps", sim.Steps)
	v.SetDefault("seed", sim.Seed)
	v.SetDefault("antithetic", sim.Antithetic)
	v.SetDefault("workers", sim.Workers)
	v.SetDefault("block_size", sim.BlockSize)
}

// Load reads envFile when it exists, then the PRICER_ environment. Environment
// variables already set win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errs.InvalidConfig("config", "read %s: %v", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	defaults(v)

	cfg := Config{
		Address:        v.GetString("address"),
		LogLevel:       v.GetString("log_level"),
		LogPretty:      v.GetBool("log_pretty"),
		DBPath:         v.GetString("db_path"),
		QuotesFile:     v.GetString("quotes_file"),
		RateLimit:      v.GetFloat64("rate_limit"),
		RateBurst:      v.GetInt("rate_burst"),
		RequestTimeout: v.GetDuration("request_timeout"),
		Sim: mc.Config{
			Paths:      v.GetInt("paths"),
			Steps:      v.GetInt("steps"),
			Seed:       v.GetUint64("seed"),
			Antithetic: v.GetBool("antithetic"),
			Workers:    v.GetInt("workers"),
			BlockSize:  v.GetInt("block_size"),
		},
	}
	if err := cfg.Sim.Validate(); err != nil {
		return Config{}, err
	}
	// PRICER_HOLIDAYS is a space separated list of YYYY-MM-DD dates
	hols, err := utils.Hols(v.GetStringSlice("holidays"))
	if err != nil {
		return Config{}, errs.InvalidConfig("config", "holidays: %v", err)
	}
	cfg.Holidays = hols
	if cfg.RateLimit <= 0 || cfg.RateBurst <= 0 {
		return Config{}, errs.InvalidConfig("config", "rate limit %v and burst %d must be positive", cfg.RateLimit, cfg.RateBurst)
	}
	return cfg, nil
}
