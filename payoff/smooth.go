package payoff

import (
	"math"

	"gonum.org/v1/gonum/num/hyperdual"
)

// VanillaSlope is the tanh slope used for call payoffs. Digital payoffs use
// VanillaSlope / smooth.
const VanillaSlope = 6.0

// SmoothCall approximates max(diff, 0) by diff (tanh(c diff) + 1) / 2.
func SmoothCall(diff, c hyperdual.Number) hyperdual.Number {
	return hyperdual.Mul(diff, SmoothDigital(diff, c))
}

// SmoothDigital approximates the indicator diff > 0 by (tanh(c diff) + 1) / 2.
func SmoothDigital(diff, c hyperdual.Number) hyperdual.Number {
	t := hyperdual.Tanh(hyperdual.Mul(c, diff))
	t.Real += 1
	return hyperdual.Scale(0.5, t)
}

// SmoothCallFloat is SmoothCall on plain values.
func SmoothCallFloat(diff, c float64) float64 {
	return diff * SmoothDigitalFloat(diff, c)
}

// SmoothDigitalFloat is SmoothDigital on plain values.
func SmoothDigitalFloat(diff, c float64) float64 {
	return (math.Tanh(c*diff) + 1) / 2
}

// MeanSmoothCall averages SmoothCall(spot - strike, c) over paths.
func MeanSmoothCall(spots []hyperdual.Number, strike, c hyperdual.Number) hyperdual.Number {
	return mean(spots, func(s hyperdual.Number) hyperdual.Number {
		return SmoothCall(hyperdual.Sub(s, strike), c)
	})
}

// MeanSmoothDigital averages SmoothDigital(spot - strike, c) over paths.
func MeanSmoothDigital(spots []hyperdual.Number, strike, c hyperdual.Number) hyperdual.Number {
	return mean(spots, func(s hyperdual.Number) hyperdual.Number {
		return SmoothDigital(hyperdual.Sub(s, strike), c)
	})
}

func mean(xs []hyperdual.Number, f func(hyperdual.Number) hyperdual.Number) hyperdual.Number {
	if len(xs) == 0 {
		return hyperdual.Number{}
	}
	var sum hyperdual.Number
	for _, x := range xs {
		sum = hyperdual.Add(sum, f(x))
	}
	return hyperdual.Scale(1/float64(len(xs)), sum)
}
