package mc

import (
	"math"

	"github.com/banachtech/structured-pricer/market"
)

// Heston simulates the Heston model with a full-truncation Euler scheme.
type Heston struct {
	S0, Mu float64
	P      market.HestonParams
	T      float64
	N      int
}

func (m Heston) Steps() int   { return m.N }
func (m Heston) Factors() int { return 2 }

// Path reads z as interleaved pairs (z1, z') per step and correlates the variance
// driver as rho*z1 + sqrt(1-rho^2)*z'. Variance is floored at zero wherever it enters
// the drift or the diffusion.
func (m Heston) Path(z []float64, sign float64, dst []float64) {
	dt := m.T / float64(m.N)
	sdt := math.Sqrt(dt)
	rc := math.Sqrt(1 - m.P.Rho*m.P.Rho)
	x := math.Log(m.S0)
	v := m.P.V0
	dst[0] = m.S0
	for i := 0; i < m.N; i++ {
		z1 := sign * z[2*i]
		z2 := m.P.Rho*z1 + rc*sign*z[2*i+1]
		vp := math.Max(v, 0)
		sv := math.Sqrt(vp)
		x += (m.Mu-0.5*vp)*dt + sv*sdt*z1
		v += m.P.Kappa*(m.P.Theta-vp)*dt + m.P.Xi*sv*sdt*z2
		dst[i+1] = math.Exp(x)
	}
}
