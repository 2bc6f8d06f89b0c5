package market

import (
	"math"

	"github.com/banachtech/structured-pricer/errs"
	"gonum.org/v1/gonum/mat"
)

// Asset is one underlying of a basket with its own flat volatility.
type Asset struct {
	Ticker        string
	Spot          float64
	Sigma         float64
	DividendYield float64
}

// BasketData is a snapshot of several underlyings sharing one rate curve. The
// correlation matrix is ordered like Assets.
type BasketData struct {
	Assets      []Asset
	Correlation *mat.SymDense
	Curve       Curve
}

// UniformCorrelation returns the n by n matrix with rho off the diagonal.
func UniformCorrelation(n int, rho float64) *mat.SymDense {
	c := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				c.SetSym(i, j, 1)
			} else {
				c.SetSym(i, j, rho)
			}
		}
	}
	return c
}

// Validate fails with errs.ErrInvalidMarketData on a bad asset, a missing curve or a
// correlation matrix that is not a correlation matrix of the assets. Positive
// definiteness is checked when the paths are set up.
func (bd BasketData) Validate() error {
	if len(bd.Assets) == 0 {
		return errs.InvalidMarketData("basket", "no underlying")
	}
	for _, a := range bd.Assets {
		if !(a.Spot > 0) || math.IsInf(a.Spot, 0) {
			return errs.InvalidMarketData("basket", "spot %v of %q must be positive", a.Spot, a.Ticker)
		}
		if a.Sigma < 0 || math.IsNaN(a.Sigma) {
			return errs.InvalidMarketData("basket", "volatility %v of %q must be non-negative", a.Sigma, a.Ticker)
		}
	}
	if bd.Curve == nil {
		return errs.InvalidMarketData("basket", "missing rate curve")
	}
	n := len(bd.Assets)
	if bd.Correlation == nil || bd.Correlation.SymmetricDim() != n {
		return errs.InvalidMarketData("basket", "correlation matrix must be %d by %d", n, n)
	}
	for i := 0; i < n; i++ {
		if bd.Correlation.At(i, i) != 1 {
			return errs.InvalidMarketData("basket", "correlation diagonal must be one")
		}
		for j := 0; j < i; j++ {
			if rho := bd.Correlation.At(i, j); math.Abs(rho) > 1 || math.IsNaN(rho) {
				return errs.InvalidMarketData("basket", "correlation %v out of [-1, 1]", rho)
			}
		}
	}
	return nil
}

// Discount is the discount factor to time t.
func (bd BasketData) Discount(t float64) float64 { return DiscountFactor(bd.Curve, t) }
