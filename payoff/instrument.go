package payoff

import (
	"sort"

	"github.com/albertium/FlexPricer/mc"
	"gonum.org/v1/gonum/num/hyperdual"
)

// Instrument declares the simulation times it needs and the actions run on
// them. Implementations are immutable after construction.
type Instrument interface {
	ForwardEvents() []mc.ForwardEvent
	BackwardEvents() []mc.BackwardEvent
}

// PathValuer is implemented by instruments that can report the undiscounted
// payoff of every path at their final forward event.
type PathValuer interface {
	PathValues(s mc.Slice) []float64
}

// Factory builds an instrument from the shared parameter pool.
type Factory func(p mc.Params) (Instrument, error)

// Spec describes an instrument variant and the fields it consumes.
type Spec struct {
	Name   string
	Fields []string
	New    Factory
}

var registry = map[string]Spec{
	"vanilla_european": {Name: "vanilla_european", Fields: VanillaEuropeanFields, New: NewVanillaEuropean},
	"digital":          {Name: "digital", Fields: DigitalFields, New: NewDigital},
}

// Lookup returns the instrument variant registered under name.
func Lookup(name string) (Spec, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names lists the registered instrument variants.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// discount rolls a value paid at next back to curr by the numeraire ratio.
func discount(carry hyperdual.Number, next, curr mc.Slice) hyperdual.Number {
	return hyperdual.Mul(hyperdual.Mul(carry, hyperdual.Inv(next.Numeraire)), curr.Numeraire)
}

// european is the single expiry event layout shared by the vanilla and
// digital payoffs.
type european struct {
	expiration hyperdual.Number
	payoff     mc.ForwardAction
}

func (e european) ForwardEvents() []mc.ForwardEvent {
	return []mc.ForwardEvent{{Time: e.expiration, Action: e.payoff}}
}

func (e european) BackwardEvents() []mc.BackwardEvent {
	return []mc.BackwardEvent{{Time: hyperdual.Number{}, Action: discount}}
}
