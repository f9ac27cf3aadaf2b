package engine

import (
	"github.com/albertium/FlexPricer/mc"
	"github.com/sourcegraph/conc/pool"
)

// Sensitivities holds prices and first derivatives along a sweep axis.
type Sensitivities struct {
	Prices []float64
	Deltas map[string][]float64
}

// GradientFunc evaluates prices and first derivatives at each sweep value.
type GradientFunc func(values []float64) (*Sensitivities, error)

// CurvatureFunc evaluates a second derivative at each sweep value.
type CurvatureFunc func(values []float64) ([]float64, error)

// Gradient returns a closure computing the price and its derivative with
// respect to every name in names, with sweep set to each value in turn.
// Names are seeded two at a time, so a sweep point costs ceil(len(names)/2)
// evaluations. sweep may also appear in names.
func (p *Pricer) Gradient(params map[string]float64, names []string, sweep string, seed int64) (GradientFunc, error) {
	base := mc.NewParams(params)
	if err := checkNames(base, sweep, names...); err != nil {
		return nil, err
	}
	names = append([]string(nil), names...)

	return func(values []float64) (*Sensitivities, error) {
		out := &Sensitivities{
			Prices: make([]float64, len(values)),
			Deltas: make(map[string][]float64, len(names)),
		}
		for _, name := range names {
			out.Deltas[name] = make([]float64, len(values))
		}
		err := p.sweepEach(values, func(i int, v float64) error {
			point := base.With(sweep, v)
			if len(names) == 0 {
				u, err := p.UnitPrice(point, seed)
				out.Prices[i] = u.Real
				return err
			}
			for j := 0; j < len(names); j += 2 {
				q := point.Clone()
				_ = q.Seed(names[j], true, false)
				if j+1 < len(names) {
					_ = q.Seed(names[j+1], false, true)
				}
				u, err := p.UnitPrice(q, seed)
				if err != nil {
					return err
				}
				out.Prices[i] = u.Real
				out.Deltas[names[j]][i] = u.E1mag
				if j+1 < len(names) {
					out.Deltas[names[j+1]][i] = u.E2mag
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		p.opts.logger.Debug("gradient sweep completed", "sweep", sweep, "points", len(values), "names", names)
		return out, nil
	}, nil
}

// SecondDerivative returns a closure computing d2 price / d name1 d name2 at
// each sweep value. name1 == name2 gives the pure second derivative.
func (p *Pricer) SecondDerivative(params map[string]float64, name1, name2, sweep string, seed int64) (CurvatureFunc, error) {
	base := mc.NewParams(params)
	if err := checkNames(base, sweep, name1, name2); err != nil {
		return nil, err
	}

	return func(values []float64) ([]float64, error) {
		out := make([]float64, len(values))
		err := p.sweepEach(values, func(i int, v float64) error {
			q := base.With(sweep, v)
			_ = q.Seed(name1, true, false)
			_ = q.Seed(name2, false, true)
			u, err := p.UnitPrice(q, seed)
			if err != nil {
				return err
			}
			out[i] = u.E1E2mag
			return nil
		})
		if err != nil {
			return nil, err
		}
		p.opts.logger.Debug("curvature sweep completed", "sweep", sweep, "points", len(values), "first", name1, "second", name2)
		return out, nil
	}, nil
}

// checkNames makes sure every sensitive name can be seeded once sweep is set.
func checkNames(base mc.Params, sweep string, names ...string) error {
	for _, name := range names {
		if _, ok := base[name]; !ok && name != sweep {
			return &mc.MissingParameterError{Owner: "sensitivity", Name: name}
		}
	}
	return nil
}

// sweepEach runs fn for every sweep point on a bounded pool. Results are
// written by index, so the output order never depends on scheduling.
func (p *Pricer) sweepEach(values []float64, fn func(i int, v float64) error) error {
	wp := pool.New().WithErrors().WithFirstError().WithMaxGoroutines(p.opts.workers)
	for i, v := range values {
		i, v := i, v
		wp.Go(func() error {
			return fn(i, v)
		})
	}
	return wp.Wait()
}
