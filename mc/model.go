package mc

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/num/hyperdual"
)

// Model interface to be satisfied by path simulation models. A Model is
// built for a single pricing call and is not safe for concurrent use.
type Model interface {
	// Times the model must simulate in addition to the instrument's own.
	RequiredSchedule(expiration hyperdual.Number) []hyperdual.Number
	// Merge the instrument's forward event times into the simulation schedule.
	Initialize(events []ForwardEvent) error
	// Simulate all paths and return one slice per forward event.
	PopulateGrids(numPaths int, seed int64) ([]Slice, error)
	Schedule() Schedule
}

// Option configures a model at construction.
type Option func(*options)

type options struct {
	maxStep float64
}

// WithMaxStep bounds the simulation step: the required schedule becomes a
// uniform grid of width h ending at the expiration. Zero keeps the
// expiration as the only required time.
func WithMaxStep(h float64) Option {
	return func(o *options) {
		o.maxStep = h
	}
}

// Factory builds a model from the shared parameter pool.
type Factory func(p Params, opts ...Option) (Model, error)

// Spec describes a model variant and the fields it consumes.
type Spec struct {
	Name   string
	Fields []string
	New    Factory
}

var registry = map[string]Spec{
	"black_scholes":            {Name: "black_scholes", Fields: BlackScholesFields, New: NewBlackScholes},
	"arithmetic_black_scholes": {Name: "arithmetic_black_scholes", Fields: ArithmeticBlackScholesFields, New: NewArithmeticBlackScholes},
	"heston":                   {Name: "heston", Fields: HestonFields, New: NewHeston},
	"hyphyp":                   {Name: "hyphyp", Fields: HypHypFields, New: NewHypHyp},
}

// Lookup returns the model variant registered under name.
func Lookup(name string) (Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names lists the registered model variants.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// generator evolves the model state over dts and returns one slice per
// step; only steps flagged in keep need to carry path data.
type generator func(dts []hyperdual.Number, z *Innovations, keep []bool) []Slice

// base holds the schedule bookkeeping shared by every model.
type base struct {
	opts     options
	schedule Schedule
	indices  []int
}

func newBase(opts []Option) base {
	var b base
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

func (b *base) Schedule() Schedule {
	return b.schedule
}

func (b *base) RequiredSchedule(expiration hyperdual.Number) []hyperdual.Number {
	return uniformSchedule(expiration, b.opts.maxStep)
}

func (b *base) initialize(events []ForwardEvent, required func(hyperdual.Number) []hyperdual.Number) error {
	if len(events) == 0 {
		return ErrNoEvents
	}
	times := make([]hyperdual.Number, len(events))
	for i, ev := range events {
		times[i] = ev.Time
	}
	schedule := MergeSchedule(times, required(times[len(times)-1]))

	indices := make([]int, len(times))
	for i, t := range times {
		idx, err := schedule.IndexOf(t.Real)
		if err != nil {
			return err
		}
		indices[i] = idx
	}
	b.schedule = schedule
	b.indices = indices
	return nil
}

func (b *base) populate(numPaths int, seed int64, factors int, generate generator) ([]Slice, error) {
	if b.schedule == nil {
		return nil, ErrNotInitialized
	}
	if numPaths <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPaths, numPaths)
	}
	keep := make([]bool, len(b.schedule))
	for _, idx := range b.indices {
		keep[idx] = true
	}

	slices := generate(b.schedule.Steps(), NewInnovations(factors, numPaths, seed), keep)

	grids := make([]Slice, len(b.indices))
	for i, idx := range b.indices {
		s := slices[idx]
		s.Time = b.schedule[idx].Real
		grids[i] = s
	}
	return grids, nil
}
