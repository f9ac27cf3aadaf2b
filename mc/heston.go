package mc

import "gonum.org/v1/gonum/num/hyperdual"

// HestonFields are the parameters consumed by Heston. volatility is the
// square root of the initial variance.
var HestonFields = []string{"spot", "rate", "dividend", "volatility", "vbar", "kappa", "eta"}

// Heston stochastic volatility model, discretized with a full truncation
// Euler scheme. The variance and spot innovations are independent.
type Heston struct {
	base
	Spot, Rate, Dividend, Volatility hyperdual.Number
	Vbar, Kappa, Eta                 hyperdual.Number
}

// NewHeston builds a Heston model from the parameter pool.
func NewHeston(p Params, opts ...Option) (Model, error) {
	v, err := p.Lookup("heston", HestonFields...)
	if err != nil {
		return nil, err
	}
	return &Heston{
		base:       newBase(opts),
		Spot:       v[0],
		Rate:       v[1],
		Dividend:   v[2],
		Volatility: v[3],
		Vbar:       v[4],
		Kappa:      v[5],
		Eta:        v[6],
	}, nil
}

func (m *Heston) Initialize(events []ForwardEvent) error {
	return m.initialize(events, m.RequiredSchedule)
}

func (m *Heston) PopulateGrids(numPaths int, seed int64) ([]Slice, error) {
	return m.populate(numPaths, seed, 2, m.generateSlices)
}

func (m *Heston) generateSlices(dts []hyperdual.Number, z *Innovations, keep []bool) []Slice {
	slices := make([]Slice, len(dts))
	spot := filled(z.paths, m.Spot)
	variance := filled(z.paths, hyperdual.Mul(m.Volatility, m.Volatility))
	carry := hyperdual.Sub(m.Rate, m.Dividend)
	numeraire := constant(1)

	for i, dt := range dts {
		numeraire = hyperdual.Mul(numeraire, hyperdual.Exp(hyperdual.Mul(m.Rate, dt)))
		carryDt := hyperdual.Mul(carry, dt)
		kappaDt := hyperdual.Mul(m.Kappa, dt)
		quarterDt := hyperdual.Scale(0.25, dt)
		draws := z.Next()
		for p := range spot {
			v := variance[p]
			v2 := positivePart(v)
			diffusion := sqrtPositive(hyperdual.Mul(v2, dt))

			// v' = v - kappa (v2 - vbar) dt + eta sqrt(v2 dt) Z0
			next := hyperdual.Sub(v, hyperdual.Mul(kappaDt, hyperdual.Sub(v2, m.Vbar)))
			next = hyperdual.Add(next, hyperdual.Scale(draws[0][p], hyperdual.Mul(m.Eta, diffusion)))

			// drift uses the average of the current and updated variance
			exponent := hyperdual.Sub(carryDt, hyperdual.Mul(quarterDt, hyperdual.Add(v, next)))
			exponent = hyperdual.Add(exponent, hyperdual.Scale(draws[1][p], diffusion))
			spot[p] = hyperdual.Mul(spot[p], hyperdual.Exp(exponent))
			variance[p] = next
		}
		slices[i] = Slice{Numeraire: numeraire}
		if keep[i] {
			slices[i].Spot = snapshot(spot)
			slices[i].Variance = snapshot(variance)
		}
	}
	return slices
}
