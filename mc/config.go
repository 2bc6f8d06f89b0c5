package mc

import (
	"runtime"

	"github.com/banachtech/structured-pricer/errs"
)

// Config is the simulation configuration of one pricing run.
type Config struct {
	Paths      int
	Steps      int
	Seed       uint64
	Antithetic bool
	Workers    int
	BlockSize  int
}

// DefaultConfig returns the settings used by the web endpoints.
func DefaultConfig() Config {
	return Config{Paths: 100000, Steps: 100, Seed: DefaultSeed, Antithetic: true, BlockSize: 2000}
}

func (c Config) Validate() error {
	if c.Paths <= 0 {
		return errs.InvalidConfig("simulate", "paths %d must be positive", c.Paths)
	}
	if c.Steps <= 0 {
		return errs.InvalidConfig("simulate", "steps %d must be positive", c.Steps)
	}
	if c.Workers < 0 || c.BlockSize < 0 {
		return errs.InvalidConfig("simulate", "workers and block size must not be negative")
	}
	return nil
}

// WorkerCount defaults to GOMAXPROCS.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) blockSize() int {
	if c.BlockSize > 0 {
		return c.BlockSize
	}
	return 2000
}

// Blocks is the number of path blocks the run is split into.
func (c Config) Blocks() int {
	bs := c.blockSize()
	return (c.Paths + bs - 1) / bs
}

// BlockRange returns the half-open path range [lo, hi) covered by block b.
func (c Config) BlockRange(b int) (int, int) {
	bs := c.blockSize()
	lo := b * bs
	hi := lo + bs
	if hi > c.Paths {
		hi = c.Paths
	}
	return lo, hi
}
