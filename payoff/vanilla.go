package payoff

import (
	"github.com/albertium/FlexPricer/mc"
	"gonum.org/v1/gonum/num/hyperdual"
)

// VanillaEuropeanFields are the parameters consumed by VanillaEuropean.
var VanillaEuropeanFields = []string{"strike", "expiration"}

// VanillaEuropean is a European call paying max(S_T - K, 0), smoothed with
// VanillaSlope.
type VanillaEuropean struct {
	european
	Strike     hyperdual.Number
	Expiration hyperdual.Number
}

// NewVanillaEuropean builds a VanillaEuropean from the parameter pool.
func NewVanillaEuropean(p mc.Params) (Instrument, error) {
	v, err := p.Lookup("vanilla_european", VanillaEuropeanFields...)
	if err != nil {
		return nil, err
	}
	inst := &VanillaEuropean{Strike: v[0], Expiration: v[1]}
	inst.european = european{expiration: inst.Expiration, payoff: inst.payoff}
	return inst, nil
}

func (inst *VanillaEuropean) payoff(_ hyperdual.Number, s mc.Slice) hyperdual.Number {
	return MeanSmoothCall(s.Spot, inst.Strike, hyperdual.Number{Real: VanillaSlope})
}

func (inst *VanillaEuropean) PathValues(s mc.Slice) []float64 {
	out := make([]float64, len(s.Spot))
	for i, spot := range s.Spot {
		out[i] = SmoothCallFloat(spot.Real-inst.Strike.Real, VanillaSlope)
	}
	return out
}
