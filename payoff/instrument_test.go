package payoff

import (
	"math"
	"testing"

	"github.com/albertium/FlexPricer/mc"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/hyperdual"
)

func TestRegistry(t *testing.T) {
	require.Equal(t, []string{"digital", "vanilla_european"}, Names())

	spec, ok := Lookup("digital")
	require.True(t, ok)
	require.Equal(t, DigitalFields, spec.Fields)

	_, ok = Lookup("barrier")
	require.False(t, ok)
}

func TestInstrumentEvents(t *testing.T) {
	params := mc.NewParams(map[string]float64{"strike": 100, "expiration": 0.75, "smooth": 1, "unused": 3})

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			spec, _ := Lookup(name)
			inst, err := spec.New(params)
			require.NoError(t, err)

			fwd := inst.ForwardEvents()
			require.Len(t, fwd, 1)
			require.Equal(t, 0.75, fwd[0].Time.Real)

			bwd := inst.BackwardEvents()
			require.Len(t, bwd, 1)
			require.Equal(t, 0.0, bwd[0].Time.Real)

			// discounting by the numeraire ratio
			next := mc.Slice{Time: 0.75, Numeraire: hyperdual.Number{Real: 1.25}}
			got := bwd[0].Action(hyperdual.Number{Real: 5}, next, mc.Origin())
			require.InDelta(t, 4, got.Real, 1e-12)
		})
	}
}

func TestInstrumentMissingParameter(t *testing.T) {
	_, err := NewDigital(mc.NewParams(map[string]float64{"strike": 100, "expiration": 1}))
	require.ErrorIs(t, err, mc.ErrMissingParameter)

	var missing *mc.MissingParameterError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "smooth", missing.Name)
	require.Equal(t, "digital", missing.Owner)
}

func TestForwardActions(t *testing.T) {
	params := mc.NewParams(map[string]float64{"strike": 100, "expiration": 1, "smooth": 0.01})
	slice := mc.Slice{
		Time: 1,
		Spot: []hyperdual.Number{{Real: 90}, {Real: 110}, {Real: 120}, {Real: 95}},
	}

	vanilla, err := NewVanillaEuropean(params)
	require.NoError(t, err)
	got := vanilla.ForwardEvents()[0].Action(hyperdual.Number{}, slice)
	require.InDelta(t, 7.5, got.Real, 1e-9)
	require.InDeltaSlice(t, []float64{0, 10, 20, 0}, vanilla.(PathValuer).PathValues(slice), 1e-9)

	digital, err := NewDigital(params)
	require.NoError(t, err)
	got = digital.ForwardEvents()[0].Action(hyperdual.Number{}, slice)
	require.InDelta(t, 0.5, got.Real, 1e-9)
	for _, v := range digital.(PathValuer).PathValues(slice) {
		require.False(t, math.IsNaN(v))
	}
}

func TestDigitalSmoothDerivative(t *testing.T) {
	params := mc.NewParams(map[string]float64{"strike": 100, "expiration": 1, "smooth": 2})
	require.NoError(t, params.Seed("strike", true, false))
	inst, err := NewDigital(params)
	require.NoError(t, err)

	slice := mc.Slice{Time: 1, Spot: []hyperdual.Number{{Real: 101}}}
	got := inst.ForwardEvents()[0].Action(hyperdual.Number{}, slice)

	c := VanillaSlope / 2
	th := math.Tanh(c)
	require.InDelta(t, -c*(1-th*th)/2, got.E1mag, 1e-12)
}
