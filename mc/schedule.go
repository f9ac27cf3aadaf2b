package mc

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/num/hyperdual"
)

// stepTolerance keeps uniform grid points from landing a rounding error
// away from the expiration.
const stepTolerance = 1e-12

// Schedule is a strictly increasing sequence of simulation times. Times are
// hyper-dual so that derivatives with respect to an expiration flow into the
// time steps.
type Schedule []hyperdual.Number

// MergeSchedule returns the sorted union of event and required times with
// duplicates removed. When two times coincide the one listed first wins, so
// instrument times take precedence over model times.
func MergeSchedule(events, required []hyperdual.Number) Schedule {
	all := make([]hyperdual.Number, 0, len(events)+len(required))
	all = append(all, events...)
	all = append(all, required...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Real < all[j].Real })

	out := make(Schedule, 0, len(all))
	for _, t := range all {
		if len(out) > 0 && out[len(out)-1].Real == t.Real {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IndexOf returns the position of t in the schedule.
func (s Schedule) IndexOf(t float64) (int, error) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Real >= t })
	if i == len(s) || s[i].Real != t {
		return -1, fmt.Errorf("%w: %v", ErrTimeNotScheduled, t)
	}
	return i, nil
}

// Steps returns the time step into each schedule point. The first step is
// measured from zero.
func (s Schedule) Steps() []hyperdual.Number {
	dts := make([]hyperdual.Number, len(s))
	for i := range s {
		if i == 0 {
			dts[i] = s[0]
			continue
		}
		dts[i] = hyperdual.Sub(s[i], s[i-1])
	}
	return dts
}

// Times returns the real parts of the schedule.
func (s Schedule) Times() []float64 {
	out := make([]float64, len(s))
	for i, t := range s {
		out[i] = t.Real
	}
	return out
}

// uniformSchedule returns {h, 2h, ...} below the expiration followed by the
// expiration itself. A non-positive h yields just the expiration.
func uniformSchedule(expiration hyperdual.Number, h float64) []hyperdual.Number {
	if h <= 0 {
		return []hyperdual.Number{expiration}
	}
	var out []hyperdual.Number
	for k := 1; float64(k)*h < expiration.Real-stepTolerance; k++ {
		out = append(out, hyperdual.Number{Real: float64(k) * h})
	}
	return append(out, expiration)
}
