package mc

import (
	"math"

	"github.com/banachtech/structured-pricer/errs"
	"github.com/banachtech/structured-pricer/market"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// A stock is identified by its ticker and simulated as a geometric Brownian motion
type Stock struct {
	Ticker        string
	S0, Mu, Sigma float64
}

// Basket simulates correlated stocks on a common time grid.
type Basket struct {
	Stocks []Stock
	T      float64
	N      int
	chol   *mat.Cholesky
}

// Holds mc path of a basket of stocks, one row per stock in basket order
type MCPath [][]float64

// Constructor for basket. The correlation matrix must be positive definite.
func NewBasket(bd market.BasketData, maturity float64, steps int) (Basket, error) {
	if err := bd.Validate(); err != nil {
		return Basket{}, err
	}
	if steps <= 0 {
		return Basket{}, errs.InvalidConfig("simulate", "steps %d must be positive", steps)
	}
	if !(maturity > 0) {
		return Basket{}, errs.InvalidInstrument("simulate", "maturity %v must be positive", maturity)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(bd.Correlation); !ok {
		return Basket{}, errs.InvalidMarketData("simulate", "correlation matrix is not positive definite")
	}
	r := bd.Curve.Rate(maturity)
	b := Basket{T: maturity, N: steps, chol: &chol}
	for _, a := range bd.Assets {
		b.Stocks = append(b.Stocks, Stock{Ticker: a.Ticker, S0: a.Spot, Mu: r - a.DividendYield, Sigma: a.Sigma})
	}
	return b, nil
}

func (b Basket) Steps() int { return b.N }
func (b Basket) Size() int  { return len(b.Stocks) }

// Path fills x from sign*z, where z holds Size() correlated draws per step laid out
// step by step.
func (b Basket) Path(z []float64, sign float64, x MCPath) {
	dt := b.T / float64(b.N)
	sdt := math.Sqrt(dt)
	n := b.Size()
	for k, s := range b.Stocks {
		drift := (s.Mu - 0.5*s.Sigma*s.Sigma) * dt
		vol := s.Sigma * sdt
		lx := math.Log(s.S0)
		x[k][0] = s.S0
		for i := 0; i < b.N; i++ {
			lx += drift + vol*sign*z[i*n+k]
			x[k][i+1] = math.Exp(lx)
		}
	}
}

// NewPath allocates a path for the basket.
func (b Basket) NewPath() MCPath {
	x := make(MCPath, b.Size())
	for k := range x {
		x[k] = make([]float64, b.N+1)
	}
	return x
}

// sampler draws correlated normals from the stream of block blk.
func (b Basket) sampler(seed uint64, blk int) *distmv.Normal {
	return distmv.NewNormalChol(make([]float64, b.Size()), b.chol, rand.NewSource(seed+uint64(blk)))
}

// BasketBlock runs fn over every path of block blk like Block does for a single
// underlying.
func BasketBlock(b Basket, cfg Config, blk int, fn func(path, twin MCPath)) {
	lo, hi := cfg.BlockRange(blk)
	d := b.sampler(cfg.Seed, blk)
	n := b.Size()
	z := make([]float64, b.N*n)
	path := b.NewPath()
	var twin MCPath
	if cfg.Antithetic {
		twin = b.NewPath()
	}
	for i := lo; i < hi; i++ {
		for s := 0; s < b.N; s++ {
			d.Rand(z[s*n : (s+1)*n])
		}
		b.Path(z, 1, path)
		if twin != nil {
			b.Path(z, -1, twin)
		}
		fn(path, twin)
	}
}
