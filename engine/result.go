// Package engine prices instruments by Monte Carlo simulation and computes their
// sensitivities and payoff profiles.
package engine

// Result is the outcome of one pricing request.
type Result struct {
	Price      float64     `json:"price"`
	StdErr     float64     `json:"std_error"`
	Lower      float64     `json:"lower_bound"`
	Upper      float64     `json:"upper_bound"`
	Paths      int         `json:"paths"`
	Greeks     *Greeks     `json:"greeks,omitempty"`
	PayoffData *PayoffData `json:"payoff_data,omitempty"`
}

// Greeks are first and second order sensitivities. A nil field could not be
// computed because its bump made the instrument or market invalid.
type Greeks struct {
	Delta *float64 `json:"delta"`
	Gamma *float64 `json:"gamma"`
	Vega  *float64 `json:"vega"`
	Theta *float64 `json:"theta"`
	Rho   *float64 `json:"rho"`
}

// PayoffData is the undiscounted payoff against the terminal underlying price.
type PayoffData struct {
	Prices  []float64 `json:"prices"`
	Payoffs []float64 `json:"payoffs"`
}

// z95 is the two-sided 95% normal quantile.
const z95 = 1.96

func newResult(price, stderr float64, paths int) Result {
	return Result{Price: price, StdErr: stderr, Lower: price - z95*stderr, Upper: price + z95*stderr, Paths: paths}
}
