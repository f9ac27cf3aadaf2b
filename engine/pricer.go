// Package engine prices an instrument under a model by Monte Carlo and
// differentiates the price through hyper-dual arithmetic.
package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/albertium/FlexPricer/mc"
	"github.com/albertium/FlexPricer/payoff"
	"gonum.org/v1/gonum/num/hyperdual"
	"gonum.org/v1/gonum/stat"
)

// Pricer binds a model variant to an instrument variant. A Pricer holds no
// per-call state and is safe for concurrent use; every evaluation builds
// its own model and instrument.
type Pricer struct {
	model      mc.Spec
	instrument payoff.Spec
	opts       options
}

// Estimate is a Monte Carlo price with its standard error.
type Estimate struct {
	Price  float64
	StdErr float64
}

// NewPricer looks up the named variants and applies opts.
func NewPricer(model, instrument string, opts ...Option) (*Pricer, error) {
	m, ok := mc.Lookup(model)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	inst, ok := payoff.Lookup(instrument)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, instrument)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &Pricer{model: m, instrument: inst, opts: o}, nil
}

// Fields lists the parameters the model and instrument consume together.
func (p *Pricer) Fields() []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range append(append([]string{}, p.model.Fields...), p.instrument.Fields...) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Price returns the real part of UnitPrice for plain parameters.
func (p *Pricer) Price(params map[string]float64, seed int64) (float64, error) {
	v, err := p.UnitPrice(mc.NewParams(params), seed)
	if err != nil {
		return math.NaN(), err
	}
	return v.Real, nil
}

// UnitPrice runs one full evaluation. Derivative parts seeded in params come
// back in the matching parts of the result.
func (p *Pricer) UnitPrice(params mc.Params, seed int64) (hyperdual.Number, error) {
	v, _, err := p.run(params, seed)
	return v, err
}

// PriceWithError prices params and reports the standard error of the mean
// over paths. The instrument must expose its per path payoffs. A single
// path has no sample variance and reports a zero error.
func (p *Pricer) PriceWithError(params map[string]float64, seed int64) (Estimate, error) {
	pp := mc.NewParams(params)
	inst, err := p.instrument.New(pp)
	if err != nil {
		return Estimate{}, err
	}
	valuer, ok := inst.(payoff.PathValuer)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %s has no path values", ErrUnsupported, p.instrument.Name)
	}
	model, err := p.model.New(pp, mc.WithMaxStep(p.opts.maxStep))
	if err != nil {
		return Estimate{}, err
	}
	price, grids, err := p.evaluate(model, inst, seed)
	if err != nil {
		return Estimate{}, err
	}

	last := grids[len(grids)-1]
	values := valuer.PathValues(last)
	df := 1 / last.Numeraire.Real
	for i := range values {
		values[i] *= df
	}
	if len(values) < 2 {
		return Estimate{Price: price.Real}, nil
	}
	_, std := stat.MeanStdDev(values, nil)
	return Estimate{Price: price.Real, StdErr: std / math.Sqrt(float64(len(values)))}, nil
}

func (p *Pricer) run(params mc.Params, seed int64) (hyperdual.Number, []mc.Slice, error) {
	model, err := p.model.New(params, mc.WithMaxStep(p.opts.maxStep))
	if err != nil {
		return hyperdual.Number{}, nil, err
	}
	inst, err := p.instrument.New(params)
	if err != nil {
		return hyperdual.Number{}, nil, err
	}
	return p.evaluate(model, inst, seed)
}

// evaluate simulates model and runs the instrument's forward pass over the
// returned grids, then its backward pass over the origin and the grids.
func (p *Pricer) evaluate(model mc.Model, inst payoff.Instrument, seed int64) (hyperdual.Number, []mc.Slice, error) {
	forward := inst.ForwardEvents()
	backward := inst.BackwardEvents()
	if len(forward) == 0 {
		return hyperdual.Number{}, nil, fmt.Errorf("forward events: %w", mc.ErrNoEvents)
	}
	if len(backward) == 0 {
		return hyperdual.Number{}, nil, fmt.Errorf("backward events: %w", mc.ErrNoEvents)
	}
	sort.SliceStable(forward, func(i, j int) bool { return forward[i].Time.Real < forward[j].Time.Real })
	sort.SliceStable(backward, func(i, j int) bool { return backward[i].Time.Real > backward[j].Time.Real })

	if err := model.Initialize(forward); err != nil {
		return hyperdual.Number{}, nil, err
	}
	p.opts.logger.Debug("schedule built", "steps", len(model.Schedule()), "events", len(forward))

	grids, err := model.PopulateGrids(p.opts.paths, seed)
	if err != nil {
		return hyperdual.Number{}, nil, err
	}
	if len(grids) != len(forward) {
		return hyperdual.Number{}, nil, fmt.Errorf("%w: %d slices for %d events", ErrTimeMismatch, len(grids), len(forward))
	}

	var carry hyperdual.Number
	for i, ev := range forward {
		if grids[i].Time != ev.Time.Real {
			return hyperdual.Number{}, nil, fmt.Errorf("%w: forward event at %g got slice at %g", ErrTimeMismatch, ev.Time.Real, grids[i].Time)
		}
		carry = ev.Action(carry, grids[i])
	}

	slices := append([]mc.Slice{mc.Origin()}, grids...)
	for _, ev := range backward {
		idx := sliceAt(slices, ev.Time.Real)
		if idx < 0 || idx == len(slices)-1 {
			return hyperdual.Number{}, nil, fmt.Errorf("%w: no slice pair for backward event at %g", ErrTimeMismatch, ev.Time.Real)
		}
		carry = ev.Action(carry, slices[idx+1], slices[idx])
	}
	p.opts.logger.Debug("evaluation completed", "paths", p.opts.paths, "seed", seed, "value", carry.Real)

	if !finite(carry) {
		return hyperdual.Number{}, nil, fmt.Errorf("%w: %v", ErrNumerical, carry)
	}
	return carry, grids, nil
}

// sliceAt returns the first slice at time t. An expiration at zero shares
// its time with the origin and pairs as (grids[0], origin).
func sliceAt(slices []mc.Slice, t float64) int {
	for i := range slices {
		if slices[i].Time == t {
			return i
		}
	}
	return -1
}

func finite(x hyperdual.Number) bool {
	for _, v := range [...]float64{x.Real, x.E1mag, x.E2mag, x.E1E2mag} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
