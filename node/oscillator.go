package node

import (
	"math"

	"github.com/dudk/flute/signal"
)

// Oscillator is a sine generator. Phase is kept in [0, 1) so precision
// doesn't degrade over long runs.
type Oscillator struct {
	amplitude float64
	step      float64
	phase     float64
}

// NewOscillator returns a sine oscillator of frequency in Hz.
func NewOscillator(sampleRate signal.Frequency, frequency, amplitude float64) (*Oscillator, error) {
	if err := validSampleRate("oscillator", sampleRate); err != nil {
		return nil, err
	}
	if err := nonNegative("oscillator", "frequency", frequency); err != nil {
		return nil, err
	}
	return &Oscillator{
		amplitude: amplitude,
		step:      frequency / float64(sampleRate),
	}, nil
}

// Tick returns the next sample, input is ignored.
func (o *Oscillator) Tick(float64) float64 {
	out := o.amplitude * math.Sin(2*math.Pi*o.phase)
	o.phase += o.step
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}
	return out
}

// Phase returns current phase in cycles.
func (o *Oscillator) Phase() float64 {
	return o.phase
}

// Reset sets phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}
