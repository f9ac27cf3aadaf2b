package mc

import "gonum.org/v1/gonum/num/hyperdual"

// HypHypFields are the parameters consumed by HypHyp.
var HypHypFields = []string{"spot", "rate", "dividend", "volatility", "alpha", "beta", "kappa", "correlation"}

// HypHyp is the hyperbolic-hyperbolic stochastic volatility model. The
// forward moneyness F follows dF = sigma f(F) g(Y) dW with an
// Ornstein-Uhlenbeck driver Y correlated to W.
type HypHyp struct {
	base
	Spot, Rate, Dividend hyperdual.Number
	Sigma, Alpha, Beta   hyperdual.Number
	Kappa, Rho           hyperdual.Number
}

// NewHypHyp builds a HypHyp model from the parameter pool.
func NewHypHyp(p Params, opts ...Option) (Model, error) {
	v, err := p.Lookup("hyphyp", HypHypFields...)
	if err != nil {
		return nil, err
	}
	return &HypHyp{
		base:     newBase(opts),
		Spot:     v[0],
		Rate:     v[1],
		Dividend: v[2],
		Sigma:    v[3],
		Alpha:    v[4],
		Beta:     v[5],
		Kappa:    v[6],
		Rho:      v[7],
	}, nil
}

func (m *HypHyp) Initialize(events []ForwardEvent) error {
	return m.initialize(events, m.RequiredSchedule)
}

func (m *HypHyp) PopulateGrids(numPaths int, seed int64) ([]Slice, error) {
	return m.populate(numPaths, seed, 2, m.generateSlices)
}

// Simulate log moneyness by Euler-Maruyama and the driver exactly.
func (m *HypHyp) generateSlices(dts []hyperdual.Number, z *Innovations, keep []bool) []Slice {
	slices := make([]Slice, len(dts))
	x := make([]hyperdual.Number, z.paths)
	y := make([]hyperdual.Number, z.paths)
	spot := make([]hyperdual.Number, z.paths)
	variance := make([]hyperdual.Number, z.paths)
	carry := hyperdual.Sub(m.Rate, m.Dividend)
	numeraire := constant(1)
	elapsed := hyperdual.Number{}

	// Pre compute the constants of the local volatility function f
	b := m.Beta
	b2 := hyperdual.Mul(b, b)
	c1 := div(hyperdual.Add(hyperdual.Sub(constant(1), b), b2), b)
	c2 := div(hyperdual.Sub(b, constant(1)), b)
	a := hyperdual.Scale(0.5, hyperdual.Mul(m.Sigma, m.Sigma))
	rhoBar := sqrtPositive(hyperdual.Sub(constant(1), hyperdual.Mul(m.Rho, m.Rho)))

	for i, dt := range dts {
		elapsed = hyperdual.Add(elapsed, dt)
		numeraire = hyperdual.Mul(numeraire, hyperdual.Exp(hyperdual.Mul(m.Rate, dt)))
		growth := hyperdual.Mul(m.Spot, hyperdual.Exp(hyperdual.Mul(carry, elapsed)))
		sqrtDt := sqrtPositive(dt)
		aDt := hyperdual.Mul(a, dt)
		sigmaSqrtDt := hyperdual.Mul(m.Sigma, sqrtDt)
		decay := hyperdual.Exp(hyperdual.Scale(-1, hyperdual.Mul(m.Kappa, dt)))
		shock := hyperdual.Mul(m.Alpha, sqrtPositive(hyperdual.Sub(constant(1), hyperdual.Mul(decay, decay))))
		draws := z.Next()
		for p := range x {
			ex := hyperdual.Exp(x[p])
			oneMinus := hyperdual.Sub(constant(1), ex)
			root := hyperdual.Sqrt(hyperdual.Add(hyperdual.Mul(ex, ex), hyperdual.Mul(b2, hyperdual.Mul(oneMinus, oneMinus))))
			f := hyperdual.Add(hyperdual.Mul(c1, ex), hyperdual.Mul(c2, hyperdual.Sub(root, b)))
			g := hyperdual.Add(y[p], hyperdual.Sqrt(hyperdual.Add(hyperdual.Mul(y[p], y[p]), constant(1))))
			u := div(hyperdual.Mul(f, g), ex)
			u2 := hyperdual.Mul(u, u)

			x[p] = hyperdual.Sub(x[p], hyperdual.Mul(aDt, u2))
			x[p] = hyperdual.Add(x[p], hyperdual.Scale(draws[0][p], hyperdual.Mul(sigmaSqrtDt, u)))

			w := hyperdual.Add(hyperdual.Scale(draws[0][p], m.Rho), hyperdual.Scale(draws[1][p], rhoBar))
			y[p] = hyperdual.Add(hyperdual.Mul(y[p], decay), hyperdual.Mul(shock, w))

			spot[p] = hyperdual.Mul(growth, hyperdual.Exp(x[p]))
			variance[p] = hyperdual.Scale(2, hyperdual.Mul(a, u2))
		}
		slices[i] = Slice{Numeraire: numeraire}
		if keep[i] {
			slices[i].Spot = snapshot(spot)
			slices[i].Variance = snapshot(variance)
		}
	}
	return slices
}
