package mc

import "gonum.org/v1/gonum/num/hyperdual"

func constant(x float64) hyperdual.Number {
	return hyperdual.Number{Real: x}
}

func div(x, y hyperdual.Number) hyperdual.Number {
	return hyperdual.Mul(x, hyperdual.Inv(y))
}

// positivePart floors x at zero. The derivative parts vanish on the floor.
func positivePart(x hyperdual.Number) hyperdual.Number {
	if x.Real > 0 {
		return x
	}
	return hyperdual.Number{}
}

// sqrtPositive is Sqrt with zero returned at and below zero, where the
// derivative of the square root is unbounded.
func sqrtPositive(x hyperdual.Number) hyperdual.Number {
	if x.Real <= 0 {
		return hyperdual.Number{}
	}
	return hyperdual.Sqrt(x)
}

func filled(n int, x hyperdual.Number) []hyperdual.Number {
	out := make([]hyperdual.Number, n)
	for i := range out {
		out[i] = x
	}
	return out
}

func snapshot(x []hyperdual.Number) []hyperdual.Number {
	out := make([]hyperdual.Number, len(x))
	copy(out, x)
	return out
}
