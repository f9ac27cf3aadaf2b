// Package config loads pricing run files and server settings.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/albertium/FlexPricer/engine"
	"github.com/albertium/FlexPricer/mc"
	"github.com/albertium/FlexPricer/payoff"
	"github.com/albertium/FlexPricer/utils"
	"gopkg.in/yaml.v3"
)

var ErrInvalidRun = errors.New("invalid run file")

// Run is the on-disk shape of a pricing run (YAML).
type Run struct {
	Model      string             `yaml:"model"`
	Instrument string             `yaml:"instrument"`
	Paths      int                `yaml:"paths"`
	Seed       int64              `yaml:"seed"`
	Workers    int                `yaml:"workers"`
	MaxStep    float64            `yaml:"max_step"`
	Params     map[string]float64 `yaml:"params"`
	// Optional: when both dates are set the expiration parameter is derived
	// from them and overrides params.expiration.
	ValuationDate string `yaml:"valuation_date"`
	ExpiryDate    string `yaml:"expiry_date"`
	Sweep         *Sweep `yaml:"sweep"`
}

// Sweep is an evenly spaced axis over one parameter.
type Sweep struct {
	Name   string  `yaml:"name"`
	From   float64 `yaml:"from"`
	To     float64 `yaml:"to"`
	Points int     `yaml:"points"`
}

func LoadRun(path string) (*Run, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRun(raw)
}

// ParseRun decodes, completes and validates a run.
func ParseRun(raw []byte) (*Run, error) {
	var r Run
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRun, err)
	}
	if r.Params == nil {
		r.Params = map[string]float64{}
	}
	if r.ValuationDate != "" || r.ExpiryDate != "" {
		expiration, err := utils.Expiration(r.ValuationDate, r.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRun, err)
		}
		r.Params["expiration"] = expiration
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Run) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: run is nil", ErrInvalidRun)
	}
	model, ok := mc.Lookup(r.Model)
	if !ok {
		return fmt.Errorf("%w: model %q, want one of %v", ErrInvalidRun, r.Model, mc.Names())
	}
	inst, ok := payoff.Lookup(r.Instrument)
	if !ok {
		return fmt.Errorf("%w: instrument %q, want one of %v", ErrInvalidRun, r.Instrument, payoff.Names())
	}
	if r.Paths < 0 || r.Workers < 0 || r.MaxStep < 0 {
		return fmt.Errorf("%w: paths, workers and max_step must not be negative", ErrInvalidRun)
	}
	if r.Sweep != nil {
		if r.Sweep.Name == "" {
			return fmt.Errorf("%w: sweep.name is required", ErrInvalidRun)
		}
		if r.Sweep.Points < 2 {
			return fmt.Errorf("%w: sweep.points must be at least 2", ErrInvalidRun)
		}
	}
	for _, fields := range [][]string{model.Fields, inst.Fields} {
		for _, f := range fields {
			if _, ok := r.Params[f]; !ok && (r.Sweep == nil || r.Sweep.Name != f) {
				return fmt.Errorf("%w: %w", ErrInvalidRun, &mc.MissingParameterError{Owner: r.Model + "/" + r.Instrument, Name: f})
			}
		}
	}
	return nil
}

// Options translates the run into pricer options. Zero values keep the
// engine defaults.
func (r *Run) Options() []engine.Option {
	var opts []engine.Option
	if r.Paths > 0 {
		opts = append(opts, engine.WithPaths(r.Paths))
	}
	if r.Workers > 0 {
		opts = append(opts, engine.WithWorkers(r.Workers))
	}
	if r.MaxStep > 0 {
		opts = append(opts, engine.WithMaxStep(r.MaxStep))
	}
	return opts
}

// Values lays out the sweep axis.
func (s *Sweep) Values() ([]float64, error) {
	return utils.Span(s.From, s.To, s.Points)
}
