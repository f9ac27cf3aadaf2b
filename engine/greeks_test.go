package engine

import (
	"math"
	"testing"

	"github.com/albertium/FlexPricer/mc"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

type bsGreeks struct {
	price, delta, vega, rho, dExpiry, dStrike, gamma float64
}

// closedForm returns Black-Scholes call greeks with no dividend.
func closedForm(s, k, r, sig, t float64) bsGreeks {
	N := distuv.UnitNormal
	totalVol := sig * math.Sqrt(t)
	d1 := (math.Log(s/k)+r*t)/totalVol + 0.5*totalVol
	d2 := d1 - totalVol
	df := math.Exp(-r * t)
	return bsGreeks{
		price:   s*N.CDF(d1) - k*df*N.CDF(d2),
		delta:   N.CDF(d1),
		vega:    s * N.Prob(d1) * math.Sqrt(t),
		rho:     k * t * df * N.CDF(d2),
		dExpiry: s*N.Prob(d1)*sig/(2*math.Sqrt(t)) + r*k*df*N.CDF(d2),
		dStrike: -df * N.CDF(d2),
		gamma:   N.Prob(d1) / (s * totalVol),
	}
}

func TestGradientAgainstClosedForm(t *testing.T) {
	p, err := NewPricer("black_scholes", "vanilla_european", WithPaths(200000))
	require.NoError(t, err)

	names := []string{"spot", "volatility", "expiration", "rate"}
	grad, err := p.Gradient(bsParams(), names, "strike", 11)
	require.NoError(t, err)

	strikes := []float64{90, 100, 110}
	sens, err := grad(strikes)
	require.NoError(t, err)
	require.Len(t, sens.Prices, len(strikes))
	require.Len(t, sens.Deltas, len(names))

	for i, k := range strikes {
		want := closedForm(100, k, 0.05, 0.3, 0.25)
		require.InEpsilon(t, want.price, sens.Prices[i], 0.025, "price at %g", k)
		require.InEpsilon(t, want.delta, sens.Deltas["spot"][i], 0.02, "delta at %g", k)
		require.InEpsilon(t, want.vega, sens.Deltas["volatility"][i], 0.03, "vega at %g", k)
		require.InEpsilon(t, want.dExpiry, sens.Deltas["expiration"][i], 0.03, "expiration at %g", k)
		require.InEpsilon(t, want.rho, sens.Deltas["rate"][i], 0.03, "rho at %g", k)
	}
}

func TestGradientWithRespectToSweep(t *testing.T) {
	p, err := NewPricer("black_scholes", "vanilla_european", WithPaths(200000))
	require.NoError(t, err)

	grad, err := p.Gradient(bsParams(), []string{"strike"}, "strike", 2)
	require.NoError(t, err)
	sens, err := grad([]float64{95, 105})
	require.NoError(t, err)
	for i, k := range []float64{95, 105} {
		require.InEpsilon(t, closedForm(100, k, 0.05, 0.3, 0.25).dStrike, sens.Deltas["strike"][i], 0.03)
	}
}

func TestGradientWithoutNames(t *testing.T) {
	p, err := NewPricer("black_scholes", "vanilla_european", WithPaths(1000))
	require.NoError(t, err)

	grad, err := p.Gradient(bsParams(), nil, "strike", 2)
	require.NoError(t, err)
	sens, err := grad([]float64{100})
	require.NoError(t, err)
	require.Empty(t, sens.Deltas)

	price, err := p.Price(bsParams(), 2)
	require.NoError(t, err)
	require.Equal(t, price, sens.Prices[0])
}

func TestGammaAgainstClosedForm(t *testing.T) {
	p, err := NewPricer("black_scholes", "vanilla_european", WithPaths(400000))
	require.NoError(t, err)

	gamma, err := p.SecondDerivative(bsParams(), "spot", "spot", "strike", 6)
	require.NoError(t, err)
	got, err := gamma([]float64{100})
	require.NoError(t, err)
	require.InEpsilon(t, closedForm(100, 100, 0.05, 0.3, 0.25).gamma, got[0], 0.1)
}

// Second derivatives must agree with finite differences of first
// derivatives on the same paths.
func TestSecondDerivativeFiniteDifference(t *testing.T) {
	const seed = 21
	p, err := NewPricer("black_scholes", "vanilla_european", WithPaths(100000))
	require.NoError(t, err)
	strikes := []float64{95, 105}

	firstAt := func(t *testing.T, name, bumped string, h float64) []float64 {
		params := bsParams()
		params[bumped] += h
		grad, err := p.Gradient(params, []string{name}, "strike", seed)
		require.NoError(t, err)
		sens, err := grad(strikes)
		require.NoError(t, err)
		return sens.Deltas[name]
	}

	type testCases struct {
		name          string
		first, second string
		h             float64
	}

	for _, test := range []testCases{
		{name: "GAMMA", first: "spot", second: "spot", h: 1e-2},
		{name: "VOLGA", first: "volatility", second: "volatility", h: 1e-4},
		{name: "VANNA", first: "spot", second: "volatility", h: 1e-4},
	} {
		t.Run(test.name, func(t *testing.T) {
			d2, err := p.SecondDerivative(bsParams(), test.first, test.second, "strike", seed)
			require.NoError(t, err)
			got, err := d2(strikes)
			require.NoError(t, err)

			up := firstAt(t, test.first, test.second, test.h)
			down := firstAt(t, test.first, test.second, -test.h)
			for i := range strikes {
				fd := (up[i] - down[i]) / (2 * test.h)
				require.InDelta(t, fd, got[i], 0.01*math.Abs(fd)+1e-6, "strike %g", strikes[i])
			}
		})
	}
}

func TestVannaSymmetry(t *testing.T) {
	for _, model := range []string{"black_scholes", "heston"} {
		t.Run(model, func(t *testing.T) {
			p, err := NewPricer(model, "vanilla_european", WithPaths(20000), WithMaxStep(0.05))
			require.NoError(t, err)
			strikes := floats.Span(make([]float64, 5), 90, 110)

			ab, err := p.SecondDerivative(hestonParams(), "spot", "volatility", "strike", 8)
			require.NoError(t, err)
			ba, err := p.SecondDerivative(hestonParams(), "volatility", "spot", "strike", 8)
			require.NoError(t, err)

			x, err := ab(strikes)
			require.NoError(t, err)
			y, err := ba(strikes)
			require.NoError(t, err)
			for i := range strikes {
				require.InDelta(t, x[i], y[i], 1e-9*math.Max(1, math.Abs(x[i])))
			}
		})
	}
}

func TestSweepDeterministicAcrossWorkers(t *testing.T) {
	strikes := floats.Span(make([]float64, 7), 85, 115)
	run := func(workers int) *Sensitivities {
		p, err := NewPricer("heston", "digital", WithPaths(5000), WithWorkers(workers))
		require.NoError(t, err)
		grad, err := p.Gradient(hestonParams(), []string{"spot", "volatility", "kappa"}, "strike", 4)
		require.NoError(t, err)
		sens, err := grad(strikes)
		require.NoError(t, err)
		return sens
	}
	require.Equal(t, run(1), run(4))
}

func TestSensitivityErrors(t *testing.T) {
	p, err := NewPricer("black_scholes", "vanilla_european", WithPaths(10))
	require.NoError(t, err)

	_, err = p.Gradient(bsParams(), []string{"spot", "vol"}, "strike", 0)
	require.ErrorIs(t, err, mc.ErrMissingParameter)

	_, err = p.SecondDerivative(bsParams(), "spot", "vol", "strike", 0)
	require.ErrorIs(t, err, mc.ErrMissingParameter)

	params := bsParams()
	delete(params, "rate")
	grad, err := p.Gradient(params, []string{"spot"}, "strike", 0)
	require.NoError(t, err)
	_, err = grad([]float64{90, 100, 110})
	require.ErrorIs(t, err, mc.ErrMissingParameter)
}
