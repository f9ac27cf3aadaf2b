package engine

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ProfileSeries are the series of a risk profile, in output order.
var ProfileSeries = []string{"price", "delta", "vega", "theta", "gamma", "volga", "vanna"}

// Series is one named curve of a Profile.
type Series struct {
	Name   string
	Values []float64
}

// Profile is a set of curves over a common sweep axis.
type Profile struct {
	Axis   string
	X      []float64
	Series []Series
}

// Get returns the values of the named series.
func (pr *Profile) Get(name string) ([]float64, bool) {
	for _, s := range pr.Series {
		if s.Name == name {
			return s.Values, true
		}
	}
	return nil, false
}

// RiskProfile computes price, delta, vega and theta from one gradient sweep
// and gamma, volga and vanna from curvature sweeps, all along sweep. Theta is
// the decay with calendar time, the negative of the expiration derivative.
func (p *Pricer) RiskProfile(params map[string]float64, sweep string, values []float64, seed int64) (*Profile, error) {
	grad, err := p.Gradient(params, []string{"spot", "volatility", "expiration"}, sweep, seed)
	if err != nil {
		return nil, err
	}
	sens, err := grad(values)
	if err != nil {
		return nil, err
	}

	theta := make([]float64, len(values))
	for i, d := range sens.Deltas["expiration"] {
		theta[i] = -d
	}

	out := &Profile{Axis: sweep, X: append([]float64(nil), values...)}
	out.add(p, "price", sens.Prices)
	out.add(p, "delta", sens.Deltas["spot"])
	out.add(p, "vega", sens.Deltas["volatility"])
	out.add(p, "theta", theta)

	for _, c := range []struct {
		name         string
		first, other string
	}{
		{"gamma", "spot", "spot"},
		{"volga", "volatility", "volatility"},
		{"vanna", "spot", "volatility"},
	} {
		d2, err := p.SecondDerivative(params, c.first, c.other, sweep, seed)
		if err != nil {
			return nil, err
		}
		v, err := d2(values)
		if err != nil {
			return nil, err
		}
		out.add(p, c.name, v)
	}
	p.opts.logger.Info("risk profile completed", "sweep", sweep, "points", len(values))
	return out, nil
}

func (pr *Profile) add(p *Pricer, name string, values []float64) {
	pr.Series = append(pr.Series, Series{Name: name, Values: values})
	if p.opts.progress != nil {
		p.opts.progress()
	}
}

// WriteCSV writes the profile as one row per sweep point, the axis first.
func (pr *Profile) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{pr.Axis}
	for _, s := range pr.Series {
		header = append(header, s.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for i, x := range pr.X {
		row[0] = strconv.FormatFloat(x, 'g', -1, 64)
		for j, s := range pr.Series {
			row[j+1] = strconv.FormatFloat(s.Values[i], 'g', 10, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
