package mc

import (
	"fmt"

	"gonum.org/v1/gonum/num/hyperdual"
)

// Params is the flat parameter pool shared by models and instruments.
// Every value is a hyper-dual number so that any entry can be seeded for
// differentiation.
type Params map[string]hyperdual.Number

// NewParams lifts plain values into a parameter pool with zero derivative parts.
func NewParams(values map[string]float64) Params {
	p := make(Params, len(values))
	for k, v := range values {
		p[k] = hyperdual.Number{Real: v}
	}
	return p
}

// Clone returns a shallow copy that can be seeded without touching p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// With returns a copy of p with name set to a constant value.
func (p Params) With(name string, value float64) Params {
	out := p.Clone()
	out[name] = hyperdual.Number{Real: value}
	return out
}

// Seed marks name as a direction of differentiation. e1 and e2 select the
// first and second infinitesimal parts; seeding both on one entry yields the
// pure second derivative in the E1E2 part.
func (p Params) Seed(name string, e1, e2 bool) error {
	v, ok := p[name]
	if !ok {
		return &MissingParameterError{Owner: "seed", Name: name}
	}
	if e1 {
		v.E1mag = 1
	}
	if e2 {
		v.E2mag = 1
	}
	p[name] = v
	return nil
}

// Lookup returns the named fields in order. owner names the variant that
// requires them and is reported when a field is absent.
func (p Params) Lookup(owner string, names ...string) ([]hyperdual.Number, error) {
	out := make([]hyperdual.Number, len(names))
	for i, name := range names {
		v, ok := p[name]
		if !ok {
			return nil, &MissingParameterError{Owner: owner, Name: name}
		}
		out[i] = v
	}
	return out, nil
}

// Values returns the real parts of the pool.
func (p Params) Values() map[string]float64 {
	out := make(map[string]float64, len(p))
	for k, v := range p {
		out[k] = v.Real
	}
	return out
}

func (p Params) String() string {
	return fmt.Sprint(p.Values())
}
