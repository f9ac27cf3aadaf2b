package mc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/hyperdual"
)

func times(ts ...float64) []hyperdual.Number {
	out := make([]hyperdual.Number, len(ts))
	for i, t := range ts {
		out[i] = hyperdual.Number{Real: t}
	}
	return out
}

func TestMergeSchedule(t *testing.T) {
	testCases := []struct {
		name     string
		events   []float64
		required []float64
		want     []float64
	}{
		{name: "SAME_EXPIRATION", events: []float64{0.25}, required: []float64{0.25}, want: []float64{0.25}},
		{name: "INTERLEAVED", events: []float64{0.5, 1.0}, required: []float64{0.25, 0.75, 1.0}, want: []float64{0.25, 0.5, 0.75, 1.0}},
		{name: "UNSORTED_EVENTS", events: []float64{1.0, 0.5}, required: []float64{1.0}, want: []float64{0.5, 1.0}},
		{name: "DUPLICATE_EVENTS", events: []float64{0.5, 0.5, 1.0}, required: []float64{1.0}, want: []float64{0.5, 1.0}},
	}

	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			s := MergeSchedule(times(tc.events...), times(tc.required...))
			require.Equal(t, tc.want, s.Times())
			require.GreaterOrEqual(t, len(s), len(uniqueTimes(tc.events)))

			seen := map[int]float64{}
			for _, e := range tc.events {
				idx, err := s.IndexOf(e)
				require.NoError(t, err)
				require.Equal(t, e, s[idx].Real)
				if prev, ok := seen[idx]; ok {
					require.Equal(t, prev, e)
				}
				seen[idx] = e
			}
		})
	}
}

func uniqueTimes(ts []float64) map[float64]bool {
	out := map[float64]bool{}
	for _, t := range ts {
		out[t] = true
	}
	return out
}

func TestMergeSchedulePrefersEventTimes(t *testing.T) {
	expiry := hyperdual.Number{Real: 0.5, E1mag: 1}
	s := MergeSchedule([]hyperdual.Number{expiry}, times(0.5))
	require.Len(t, s, 1)
	require.Equal(t, 1.0, s[0].E1mag)
}

func TestScheduleIndexOfMissing(t *testing.T) {
	s := MergeSchedule(times(0.5), times(1.0))
	_, err := s.IndexOf(0.75)
	require.ErrorIs(t, err, ErrTimeNotScheduled)
}

func TestScheduleSteps(t *testing.T) {
	s := MergeSchedule(times(0.25, 1.0), times(0.5, 1.0))
	dts := s.Steps()
	require.Len(t, dts, 3)
	require.Equal(t, 0.25, dts[0].Real)
	require.Equal(t, 0.25, dts[1].Real)
	require.Equal(t, 0.5, dts[2].Real)
}

func TestUniformSchedule(t *testing.T) {
	require.Equal(t, []float64{0.25}, Schedule(uniformSchedule(hyperdual.Number{Real: 0.25}, 0)).Times())

	s := Schedule(uniformSchedule(hyperdual.Number{Real: 0.25}, 0.05))
	require.Len(t, s, 5)
	require.Equal(t, 0.25, s[len(s)-1].Real)
	for i := 1; i < len(s); i++ {
		require.Greater(t, s[i].Real, s[i-1].Real)
	}

	s = Schedule(uniformSchedule(hyperdual.Number{Real: 0.3}, 0.2))
	require.InDeltaSlice(t, []float64{0.2, 0.3}, s.Times(), 1e-15)
}
