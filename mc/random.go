package mc

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Innovations streams independent standard normal draws shaped
// (steps, factors, paths). Draws are produced step by step in that order, so
// the tensor is fully determined by the seed and never held in memory at
// once. An Innovations value must not be shared between goroutines.
type Innovations struct {
	factors int
	paths   int
	normal  distuv.Normal
	buf     [][]float64
}

// NewInnovations seeds a fresh innovation stream.
func NewInnovations(factors, paths int, seed int64) *Innovations {
	buf := make([][]float64, factors)
	for i := range buf {
		buf[i] = make([]float64, paths)
	}
	return &Innovations{
		factors: factors,
		paths:   paths,
		normal:  distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: rand.NewSource(uint64(seed))},
		buf:     buf,
	}
}

// Next returns the draws for the next time step, indexed [factor][path].
// The returned slices are reused by the following call.
func (z *Innovations) Next() [][]float64 {
	for f := 0; f < z.factors; f++ {
		row := z.buf[f]
		for p := range row {
			row[p] = z.normal.Rand()
		}
	}
	return z.buf
}
