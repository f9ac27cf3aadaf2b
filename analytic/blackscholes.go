// Package analytic holds closed-form and characteristic-function prices used
// to benchmark the Monte Carlo engine.
package analytic

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoImpliedVol is returned when no volatility reproduces a price.
var ErrNoImpliedVol = errors.New("implied volatility not found")

func d1d2(s, k, r, q, sig, t float64) (float64, float64) {
	totalVol := sig * math.Sqrt(t)
	d1 := (math.Log(s/k)+(r-q)*t)/totalVol + 0.5*totalVol
	return d1, d1 - totalVol
}

// BlackScholesCall is the Black-Scholes price of a European call.
func BlackScholesCall(s, k, r, q, sig, t float64) float64 {
	d1, d2 := d1d2(s, k, r, q, sig, t)
	N := distuv.UnitNormal
	return s*math.Exp(-q*t)*N.CDF(d1) - k*math.Exp(-r*t)*N.CDF(d2)
}

// BlackScholesPut follows from the call by put-call parity.
func BlackScholesPut(s, k, r, q, sig, t float64) float64 {
	forward := s*math.Exp(-q*t) - k*math.Exp(-r*t)
	return BlackScholesCall(s, k, r, q, sig, t) - forward
}

// BlackScholesDigitalCall pays one unit when the spot ends above k.
func BlackScholesDigitalCall(s, k, r, q, sig, t float64) float64 {
	_, d2 := d1d2(s, k, r, q, sig, t)
	return math.Exp(-r*t) * distuv.UnitNormal.CDF(d2)
}

// ImpliedVol inverts BlackScholesCall, or BlackScholesPut when put is set,
// by minimising the squared pricing error over log volatility.
func ImpliedVol(price, s, k, r, q, t float64, put bool) (float64, error) {
	bs := BlackScholesCall
	if put {
		bs = BlackScholesPut
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			diff := price - bs(s, k, r, q, math.Exp(x[0]), t)
			return diff * diff
		},
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: 1e-20, Iterations: 50},
	}
	res, err := optimize.Minimize(problem, []float64{math.Log(0.5)}, settings, &optimize.NelderMead{})
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: %v", ErrNoImpliedVol, err)
	}
	vol := math.Exp(res.X[0])
	if miss := math.Abs(price - bs(s, k, r, q, vol, t)); !(miss <= 1e-6*math.Max(1, price)) {
		return math.NaN(), fmt.Errorf("%w: residual %g at %g", ErrNoImpliedVol, miss, vol)
	}
	return vol, nil
}
