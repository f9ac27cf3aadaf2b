package payoff

import (
	"github.com/albertium/FlexPricer/mc"
	"gonum.org/v1/gonum/num/hyperdual"
)

// DigitalFields are the parameters consumed by Digital.
var DigitalFields = []string{"smooth", "strike", "expiration"}

// Digital pays one when S_T > K. smooth is the width of the tanh ramp; the
// slope is VanillaSlope / smooth.
type Digital struct {
	european
	Smooth     hyperdual.Number
	Strike     hyperdual.Number
	Expiration hyperdual.Number
}

// NewDigital builds a Digital from the parameter pool.
func NewDigital(p mc.Params) (Instrument, error) {
	v, err := p.Lookup("digital", DigitalFields...)
	if err != nil {
		return nil, err
	}
	inst := &Digital{Smooth: v[0], Strike: v[1], Expiration: v[2]}
	inst.european = european{expiration: inst.Expiration, payoff: inst.payoff}
	return inst, nil
}

func (inst *Digital) slope() hyperdual.Number {
	return hyperdual.Scale(VanillaSlope, hyperdual.Inv(inst.Smooth))
}

func (inst *Digital) payoff(_ hyperdual.Number, s mc.Slice) hyperdual.Number {
	return MeanSmoothDigital(s.Spot, inst.Strike, inst.slope())
}

func (inst *Digital) PathValues(s mc.Slice) []float64 {
	c := VanillaSlope / inst.Smooth.Real
	out := make([]float64, len(s.Spot))
	for i, spot := range s.Spot {
		out[i] = SmoothDigitalFloat(spot.Real-inst.Strike.Real, c)
	}
	return out
}
