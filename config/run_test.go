package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/albertium/FlexPricer/mc"
	"github.com/stretchr/testify/require"
)

const runYAML = `
model: heston
instrument: vanilla_european
paths: 50000
seed: 7
max_step: 0.01
params:
  spot: 100
  rate: 0.02
  dividend: 0.01
  volatility: 0.2
  vbar: 0.04
  kappa: 1.15
  eta: 0.39
  expiration: 0.25
sweep:
  name: strike
  from: 80
  to: 120
  points: 5
`

func TestLoadRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(runYAML), 0o644))

	r, err := LoadRun(path)
	require.NoError(t, err)
	require.Equal(t, "heston", r.Model)
	require.Equal(t, 50000, r.Paths)
	require.Equal(t, int64(7), r.Seed)
	require.Equal(t, 0.39, r.Params["eta"])
	require.Len(t, r.Options(), 2)

	xs, err := r.Sweep.Values()
	require.NoError(t, err)
	require.Equal(t, []float64{80, 90, 100, 110, 120}, xs)

	_, err = LoadRun(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRunDates(t *testing.T) {
	raw := `
model: black_scholes
instrument: digital
valuation_date: "2026-01-02"
expiry_date: "2026-04-03"
params: {spot: 100, rate: 0.05, dividend: 0, volatility: 0.3, strike: 100, smooth: 0.5, expiration: 9}
`
	r, err := ParseRun([]byte(raw))
	require.NoError(t, err)
	require.InDelta(t, 94.0/365, r.Params["expiration"], 1e-12)
	require.Empty(t, r.Options())
}

func TestParseRunInvalid(t *testing.T) {
	type testCases struct {
		name string
		raw  string
	}

	for _, test := range []testCases{
		{name: "BAD_YAML", raw: "model: [heston"},
		{name: "UNKNOWN_MODEL", raw: "model: sabr\ninstrument: digital\n"},
		{name: "UNKNOWN_INSTRUMENT", raw: "model: heston\ninstrument: barrier\n"},
		{name: "NEGATIVE_PATHS", raw: "model: black_scholes\ninstrument: vanilla_european\npaths: -1\n"},
		{name: "SHORT_SWEEP", raw: "model: black_scholes\ninstrument: vanilla_european\nsweep: {name: strike, from: 1, to: 2, points: 1}\n"},
		{name: "ONE_DATE", raw: "model: black_scholes\ninstrument: vanilla_european\nexpiry_date: \"2026-04-03\"\n"},
		{name: "MISSING_FIELD", raw: "model: black_scholes\ninstrument: vanilla_european\nparams: {spot: 100}\n"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseRun([]byte(test.raw))
			require.ErrorIs(t, err, ErrInvalidRun)
		})
	}
}

func TestValidateSweepCoversField(t *testing.T) {
	raw := `
model: arithmetic_black_scholes
instrument: vanilla_european
params: {spot: 100, volatility: 0.3, expiration: 1}
sweep: {name: strike, from: 90, to: 110, points: 3}
`
	_, err := ParseRun([]byte(raw))
	require.NoError(t, err)

	raw = `
model: arithmetic_black_scholes
instrument: vanilla_european
params: {spot: 100, volatility: 0.3, expiration: 1}
`
	_, err = ParseRun([]byte(raw))
	require.ErrorIs(t, err, mc.ErrMissingParameter)
}

func TestExampleRuns(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "examples", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			r, err := LoadRun(path)
			require.NoError(t, err)
			require.NotNil(t, r.Sweep)
			_, err = r.Sweep.Values()
			require.NoError(t, err)
		})
	}
}
