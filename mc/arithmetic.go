package mc

import "gonum.org/v1/gonum/num/hyperdual"

// ArithmeticBlackScholesFields are the parameters consumed by ArithmeticBlackScholes.
var ArithmeticBlackScholesFields = []string{"spot", "volatility"}

// ArithmeticBlackScholes takes geometric Black-Scholes inputs and simulates
// additive dynamics with absolute volatility volatility*spot, where spot is
// the initial spot. Rates and dividends are not supported; the numeraire
// stays at one.
type ArithmeticBlackScholes struct {
	base
	Spot, Volatility hyperdual.Number
}

// NewArithmeticBlackScholes builds an ArithmeticBlackScholes model from the parameter pool.
func NewArithmeticBlackScholes(p Params, opts ...Option) (Model, error) {
	v, err := p.Lookup("arithmetic_black_scholes", ArithmeticBlackScholesFields...)
	if err != nil {
		return nil, err
	}
	return &ArithmeticBlackScholes{base: newBase(opts), Spot: v[0], Volatility: v[1]}, nil
}

func (m *ArithmeticBlackScholes) Initialize(events []ForwardEvent) error {
	return m.initialize(events, m.RequiredSchedule)
}

func (m *ArithmeticBlackScholes) PopulateGrids(numPaths int, seed int64) ([]Slice, error) {
	return m.populate(numPaths, seed, 1, m.generateSlices)
}

func (m *ArithmeticBlackScholes) generateSlices(dts []hyperdual.Number, z *Innovations, keep []bool) []Slice {
	slices := make([]Slice, len(dts))
	spot := filled(z.paths, m.Spot)
	numeraire := constant(1)
	arithmeticVol := hyperdual.Mul(m.Volatility, m.Spot)

	for i, dt := range dts {
		totalVol := hyperdual.Mul(arithmeticVol, sqrtPositive(dt))
		innovation := z.Next()[0]
		for p := range spot {
			spot[p] = hyperdual.Add(spot[p], hyperdual.Scale(innovation[p], totalVol))
		}
		slices[i] = Slice{Numeraire: numeraire}
		if keep[i] {
			slices[i].Spot = snapshot(spot)
		}
	}
	return slices
}
