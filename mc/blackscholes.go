package mc

import "gonum.org/v1/gonum/num/hyperdual"

// BlackScholesFields are the parameters consumed by BlackScholes.
var BlackScholesFields = []string{"spot", "rate", "dividend", "volatility"}

// BlackScholes is the lognormal model with constant rate, dividend yield and
// volatility.
type BlackScholes struct {
	base
	Spot, Rate, Dividend, Volatility hyperdual.Number
}

// NewBlackScholes builds a BlackScholes model from the parameter pool.
func NewBlackScholes(p Params, opts ...Option) (Model, error) {
	v, err := p.Lookup("black_scholes", BlackScholesFields...)
	if err != nil {
		return nil, err
	}
	return &BlackScholes{base: newBase(opts), Spot: v[0], Rate: v[1], Dividend: v[2], Volatility: v[3]}, nil
}

func (m *BlackScholes) Initialize(events []ForwardEvent) error {
	return m.initialize(events, m.RequiredSchedule)
}

func (m *BlackScholes) PopulateGrids(numPaths int, seed int64) ([]Slice, error) {
	return m.populate(numPaths, seed, 1, m.generateSlices)
}

func (m *BlackScholes) generateSlices(dts []hyperdual.Number, z *Innovations, keep []bool) []Slice {
	slices := make([]Slice, len(dts))
	spot := filled(z.paths, m.Spot)
	numeraire := constant(1)
	// r - q - sigma^2/2
	drift := hyperdual.Sub(hyperdual.Sub(m.Rate, m.Dividend), hyperdual.Scale(0.5, hyperdual.Mul(m.Volatility, m.Volatility)))

	for i, dt := range dts {
		numeraire = hyperdual.Mul(numeraire, hyperdual.Exp(hyperdual.Mul(m.Rate, dt)))
		driftDt := hyperdual.Mul(drift, dt)
		totalVol := hyperdual.Mul(m.Volatility, sqrtPositive(dt))
		innovation := z.Next()[0]
		for p := range spot {
			spot[p] = hyperdual.Mul(spot[p], hyperdual.Exp(hyperdual.Add(driftDt, hyperdual.Scale(innovation[p], totalVol))))
		}
		slices[i] = Slice{Numeraire: numeraire}
		if keep[i] {
			slices[i].Spot = snapshot(spot)
		}
	}
	return slices
}
