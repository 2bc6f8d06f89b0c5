package mc

import "math"

// GBM is geometric Brownian motion with constant drift and volatility.
type GBM struct {
	S0, Mu, Sigma, T float64
	N                int
}

func (m GBM) Steps() int   { return m.N }
func (m GBM) Factors() int { return 1 }

// Path uses the exact log-normal step, so a single step is the closed-form terminal draw.
func (m GBM) Path(z []float64, sign float64, dst []float64) {
	dt := m.T / float64(m.N)
	drift := (m.Mu - 0.5*m.Sigma*m.Sigma) * dt
	vol := m.Sigma * math.Sqrt(dt)
	x := math.Log(m.S0)
	dst[0] = m.S0
	for i := 0; i < m.N; i++ {
		x += drift + vol*sign*z[i]
		dst[i+1] = math.Exp(x)
	}
}
