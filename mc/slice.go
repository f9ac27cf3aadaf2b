package mc

import "gonum.org/v1/gonum/num/hyperdual"

// Slice is the simulated state at one schedule point. Spot and Variance hold
// one entry per path; the numeraire is deterministic in every model and is
// stored once.
type Slice struct {
	Time      float64
	Spot      []hyperdual.Number
	Variance  []hyperdual.Number
	Numeraire hyperdual.Number
}

// Origin is the valuation-date slice: time zero, unit numeraire.
func Origin() Slice {
	return Slice{Numeraire: hyperdual.Number{Real: 1}}
}

// ForwardAction evaluates an instrument on a slice. carry is the value
// returned by the previous forward event (zero for the first one); the
// result is handed to the next event and finally to the backward pass.
type ForwardAction func(carry hyperdual.Number, s Slice) hyperdual.Number

// BackwardAction rolls carry from next back to curr.
type BackwardAction func(carry hyperdual.Number, next, curr Slice) hyperdual.Number

type ForwardEvent struct {
	Time   hyperdual.Number
	Action ForwardAction
}

type BackwardEvent struct {
	Time   hyperdual.Number
	Action BackwardAction
}
