package node

import (
	"math/rand"
)

// Noise is a white noise generator with uniform distribution in
// [-amplitude, amplitude). The same seed always produces the same sequence.
type Noise struct {
	amplitude float64
	seed      int64
	rand      *rand.Rand
}

// NewNoise returns a noise generator seeded with seed. Use TimeSeed for
// live playback.
func NewNoise(seed int64, amplitude float64) *Noise {
	return &Noise{
		amplitude: amplitude,
		seed:      seed,
		rand:      rand.New(rand.NewSource(seed)),
	}
}

// Tick returns the next sample, input is ignored.
func (n *Noise) Tick(float64) float64 {
	return n.amplitude * (n.rand.Float64()*2 - 1)
}

// Seed returns the seed of the generator.
func (n *Noise) Seed() int64 {
	return n.seed
}

// Reset reseeds the generator, so the sequence starts over.
func (n *Noise) Reset() {
	n.rand.Seed(n.seed)
}
