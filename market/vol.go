package market

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// VolKind selects the volatility model.
type VolKind int

const (
	ConstantVol VolKind = iota
	SVIVol
	HestonVol
	HypHypVol
)

// ParseVolKind maps request names (constant, svi, heston, hyphyp) to a VolKind.
func ParseVolKind(s string) (VolKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "constant":
		return ConstantVol, nil
	case "svi":
		return SVIVol, nil
	case "heston":
		return HestonVol, nil
	case "hyphyp":
		return HypHypVol, nil
	}
	return 0, fmt.Errorf("unknown volatility type %q", s)
}

func (k VolKind) String() string {
	switch k {
	case ConstantVol:
		return "constant"
	case SVIVol:
		return "svi"
	case HestonVol:
		return "heston"
	case HypHypVol:
		return "hyphyp"
	}
	return fmt.Sprintf("VolKind(%d)", int(k))
}

// SVISlice holds raw SVI parameters for one expiry T. Total implied variance at
// log-moneyness k is a + b(rho(k-m) + sqrt((k-m)^2 + sigma^2)).
type SVISlice struct {
	T, A, B, Rho, M, Sigma float64
}

func (s SVISlice) TotalVariance(k float64) float64 {
	x := k - s.M
	return s.A + s.B*(s.Rho*x+math.Sqrt(x*x+s.Sigma*s.Sigma))
}

func (s SVISlice) validate() error {
	switch {
	case s.T <= 0:
		return fmt.Errorf("svi slice expiry %v must be positive", s.T)
	case s.B < 0:
		return fmt.Errorf("svi b %v must be non-negative", s.B)
	case math.Abs(s.Rho) >= 1:
		return fmt.Errorf("svi rho %v must lie in (-1, 1)", s.Rho)
	case s.Sigma <= 0:
		return fmt.Errorf("svi sigma %v must be positive", s.Sigma)
	case s.A+s.B*s.Sigma*math.Sqrt(1-s.Rho*s.Rho) < 0:
		return fmt.Errorf("svi slice at %v has negative minimum variance", s.T)
	}
	return nil
}

// HestonParams are the Heston variance dynamics dv = kappa(theta-v)dt + xi sqrt(v) dW.
type HestonParams struct {
	V0, Theta, Kappa, Xi, Rho float64
}

// DefaultHeston builds the parameter set used when only a volatility level is known.
func DefaultHeston(sigma float64) HestonParams {
	return HestonParams{V0: sigma * sigma, Theta: sigma * sigma, Kappa: 1, Xi: 0.1, Rho: -0.5}
}

// HypHypParams drive the hyperbolic local/stochastic vol model.
type HypHypParams struct {
	Sigma, Alpha, Beta, Kappa, Rho float64
}

// DefaultHypHyp mirrors the starting point used before calibration.
func DefaultHypHyp(sigma float64) HypHypParams {
	return HypHypParams{Sigma: sigma, Alpha: 0.01, Beta: 0.01, Kappa: 5, Rho: 0}
}

// Vol is the volatility specification of a market snapshot.
type Vol struct {
	Kind   VolKind
	Sigma  float64
	SVI    []SVISlice
	Heston HestonParams
	HypHyp HypHypParams

	// Shift is a parallel implied-vol bump applied to SVI surfaces.
	Shift float64
}

func Constant(sigma float64) Vol { return Vol{Kind: ConstantVol, Sigma: sigma} }

func Heston(p HestonParams) Vol { return Vol{Kind: HestonVol, Sigma: math.Sqrt(math.Max(p.Theta, 0)), Heston: p} }

func HypHyp(p HypHypParams) Vol { return Vol{Kind: HypHypVol, Sigma: p.Sigma, HypHyp: p} }

// SVI builds a surface from slices, sorted by expiry.
func SVI(slices ...SVISlice) Vol {
	s := append([]SVISlice(nil), slices...)
	sort.Slice(s, func(i, j int) bool { return s[i].T < s[j].T })
	return Vol{Kind: SVIVol, SVI: s}
}

func (v Vol) Validate() error {
	switch v.Kind {
	case ConstantVol:
		if v.Sigma < 0 || math.IsNaN(v.Sigma) {
			return fmt.Errorf("volatility %v must be non-negative", v.Sigma)
		}
	case SVIVol:
		if len(v.SVI) == 0 {
			return fmt.Errorf("svi surface has no slices")
		}
		for _, s := range v.SVI {
			if err := s.validate(); err != nil {
				return err
			}
		}
	case HestonVol:
		p := v.Heston
		if p.V0 < 0 || p.Theta < 0 || p.Xi < 0 || p.Kappa < 0 {
			return fmt.Errorf("heston v0, theta, kappa and xi must be non-negative")
		}
		if math.Abs(p.Rho) > 1 {
			return fmt.Errorf("heston rho %v must lie in [-1, 1]", p.Rho)
		}
	case HypHypVol:
		p := v.HypHyp
		if p.Sigma < 0 || p.Alpha < 0 || p.Beta <= 0 || p.Kappa < 0 {
			return fmt.Errorf("hyphyp sigma, alpha, kappa must be non-negative and beta positive")
		}
		if math.Abs(p.Rho) > 1 {
			return fmt.Errorf("hyphyp rho %v must lie in [-1, 1]", p.Rho)
		}
	default:
		return fmt.Errorf("unknown volatility kind %d", int(v.Kind))
	}
	return nil
}

// Implied returns the Black volatility for log-moneyness k = ln(K/F) and expiry t.
// Stochastic-vol kinds answer with their long-run level.
func (v Vol) Implied(k, t float64) float64 {
	if v.Kind != SVIVol {
		return v.Sigma
	}
	if t <= 0 {
		t = v.SVI[0].T
	}
	w := v.totalVariance(k, t)
	return math.Sqrt(math.Max(w, 0)/t) + v.Shift
}

// totalVariance interpolates linearly in T between slices and scales the wing
// slices proportionally outside the quoted range.
func (v Vol) totalVariance(k, t float64) float64 {
	s := v.SVI
	if t <= s[0].T {
		return s[0].TotalVariance(k) * t / s[0].T
	}
	n := len(s) - 1
	if t >= s[n].T {
		return s[n].TotalVariance(k) * t / s[n].T
	}
	i := sort.Search(len(s), func(i int) bool { return s[i].T >= t })
	lo, hi := s[i-1], s[i]
	x := (t - lo.T) / (hi.T - lo.T)
	return (1-x)*lo.TotalVariance(k) + x*hi.TotalVariance(k)
}

// Bump returns a copy with volatility moved by dv in absolute terms.
func (v Vol) Bump(dv float64) Vol {
	switch v.Kind {
	case ConstantVol:
		v.Sigma += dv
	case SVIVol:
		v.SVI = append([]SVISlice(nil), v.SVI...)
		v.Shift += dv
	case HestonVol:
		v.Heston.V0 = signedSquare(math.Sqrt(v.Heston.V0) + dv)
		v.Heston.Theta = signedSquare(math.Sqrt(v.Heston.Theta) + dv)
		v.Sigma += dv
	case HypHypVol:
		v.HypHyp.Sigma += dv
		v.Sigma += dv
	}
	return v
}

// signedSquare keeps a negative bumped vol negative so validation rejects it.
func signedSquare(x float64) float64 {
	if x < 0 {
		return -x * x
	}
	return x * x
}
