package mc

import (
	"math"

	"github.com/banachtech/structured-pricer/market"
)

// HypHyp is a hyperbolic local volatility scaled by a hyperbolic function of an
// Ornstein-Uhlenbeck factor y.
type HypHyp struct {
	S0, Mu float64
	P      market.HypHypParams
	T      float64
	N      int
}

func (m HypHyp) Steps() int   { return m.N }
func (m HypHyp) Factors() int { return 2 }

// Path evolves the log of the normalised price x = S/S0 with an Euler step, and the
// factor y with its exact OU transition.
func (m HypHyp) Path(z []float64, sign float64, dst []float64) {
	dt := m.T / float64(m.N)
	sdt := math.Sqrt(dt)
	b1 := m.P.Beta
	b2 := b1 * b1
	rc := math.Sqrt(1 - m.P.Rho*m.P.Rho)
	decay := math.Exp(-m.P.Kappa * dt)
	spread := m.P.Alpha * math.Sqrt(1-decay*decay)

	var r, y float64
	dst[0] = m.S0
	for i := 0; i < m.N; i++ {
		z1 := sign * z[2*i]
		z2 := m.P.Rho*z1 + rc*sign*z[2*i+1]
		x := math.Exp(r)
		f := ((1-b1+b2)*x + (b1-1)*(math.Sqrt(x*x+b2*(1-x)*(1-x))-b1)) / b1
		g := y + math.Sqrt(y*y+1)
		u := m.P.Sigma * f * g / x
		r += (m.Mu-0.5*u*u)*dt + u*sdt*z1
		y = y*decay + spread*z2
		dst[i+1] = m.S0 * math.Exp(r)
	}
}
