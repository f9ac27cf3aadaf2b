package engine

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
)

const DefaultPaths = 100000

// Option configures a Pricer.
type Option func(*options)

type options struct {
	paths    int
	workers  int
	maxStep  float64
	logger   *slog.Logger
	progress func()
}

func defaultOptions() options {
	return options{
		paths:   DefaultPaths,
		workers: runtime.NumCPU(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithPaths sets the number of simulated paths per evaluation.
func WithPaths(n int) Option {
	return func(o *options) {
		o.paths = n
	}
}

// WithWorkers bounds the number of sweep points evaluated concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithMaxStep bounds the simulation time step. Zero simulates straight to
// the event times.
func WithMaxStep(h float64) Option {
	return func(o *options) {
		o.maxStep = h
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithProgress registers a hook called once per finished risk profile series.
func WithProgress(f func()) Option {
	return func(o *options) {
		o.progress = f
	}
}

func (o options) validate() error {
	switch {
	case o.paths <= 0:
		return fmt.Errorf("%w: paths must be positive, got %d", ErrInvalidOption, o.paths)
	case o.workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidOption, o.workers)
	case o.maxStep < 0:
		return fmt.Errorf("%w: max step must not be negative, got %g", ErrInvalidOption, o.maxStep)
	case o.logger == nil:
		return fmt.Errorf("%w: nil logger", ErrInvalidOption)
	}
	return nil
}
