package analytic

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/integrate/quad"
)

// Phi is the characteristic function of the log return net of drift.
type Phi func(u complex128) complex128

// PhiGenerator builds the characteristic function of a model.
type PhiGenerator interface {
	Generate() Phi
}

type BlackScholesPhi struct {
	R, Q, Sig, T float64
}

func (g BlackScholesPhi) Generate() Phi {
	v := complex(g.Sig*g.Sig*g.T, 0)
	return func(u complex128) complex128 {
		return cmplx.Exp(-0.5 * u * (u + 1i) * v)
	}
}

// HestonPhi is the Heston characteristic function. V0 and Vbar are the
// initial and long run variance, Kappa the reversion speed, Eta the vol of
// variance and Rho the spot-variance correlation.
type HestonPhi struct {
	T, V0, Vbar, Kappa, Eta, Rho float64
}

func (g HestonPhi) Generate() Phi {
	eta2 := complex(g.Eta*g.Eta, 0)
	kappa := complex(g.Kappa, 0)
	t := complex(g.T, 0)
	rhoEta := complex(g.Rho*g.Eta, 0)
	return func(u complex128) complex128 {
		aa := -u*u/2 - 1i*u/2
		bb := kappa - rhoEta*1i*u
		cc := eta2 / 2
		d := cmplx.Sqrt(bb*bb - 4*aa*cc)
		rp := (bb + d) / eta2
		rm := (bb - d) / eta2
		ratio := rm / rp
		expD := cmplx.Exp(-d * t)
		bigD := rm * (1 - expD) / (1 - ratio*expD)
		bigC := kappa * (rm*t - 2/eta2*cmplx.Log((1-ratio*expD)/(1-ratio)))
		return cmplx.Exp(bigC*complex(g.Vbar, 0) + bigD*complex(g.V0, 0))
	}
}

const (
	phiUpper  = 1000.0
	phiPanels = 200
	phiNodes  = 32
)

// PriceCallWithPhi prices a European call from a characteristic function by
// the Lewis formula, integrating over [0, 1000] with piecewise Gauss-Legendre.
func PriceCallWithPhi(gen PhiGenerator, s, k, r, q, t float64) float64 {
	phi := gen.Generate()
	y := math.Log(s/k) + (r-q)*t
	f := func(u float64) float64 {
		z := cmplx.Exp(complex(0, u*y)) * phi(complex(u, -0.5))
		return real(z) / (u*u + 0.25)
	}

	var integral float64
	width := phiUpper / phiPanels
	for i := 0; i < phiPanels; i++ {
		a := float64(i) * width
		integral += quad.Fixed(f, a, a+width, phiNodes, quad.Legendre{}, 0)
	}
	return s*math.Exp(-q*t) - math.Sqrt(s*k)*math.Exp(-(r+q)*t/2)/math.Pi*integral
}
