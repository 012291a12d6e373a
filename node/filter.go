package node

import (
	"math"
	"time"

	"github.com/dudk/flute/signal"
)

// DefaultDCCutoff is the cutoff of DC blocker in Hz.
const DefaultDCCutoff = 10.0

// DefaultDeclickTime is the fade-in duration of declick.
const DefaultDeclickTime = 10 * time.Millisecond

// Lowpass is a one-pole lowpass filter:
//
//	y[n] = y[n-1] + a * (x[n] - y[n-1])
type Lowpass struct {
	coefficient float64
	y1          float64
}

// NewLowpass returns a lowpass filter with cutoff in Hz. Cutoff must be
// positive.
func NewLowpass(sampleRate signal.Frequency, cutoff float64) (*Lowpass, error) {
	if err := validSampleRate("lowpass", sampleRate); err != nil {
		return nil, err
	}
	if !(cutoff > 0) {
		return nil, configErr("lowpass", "cutoff", cutoff)
	}
	return &Lowpass{
		coefficient: 1 - math.Exp(-2*math.Pi*cutoff/float64(sampleRate)),
	}, nil
}

// Tick filters a single sample.
func (f *Lowpass) Tick(in float64) float64 {
	f.y1 += f.coefficient * (in - f.y1)
	return f.y1
}

// Reset clears the filter history.
func (f *Lowpass) Reset() {
	f.y1 = 0
}

// DCBlock removes constant offset with a one-pole highpass:
//
//	y[n] = x[n] - x[n-1] + R * y[n-1]
type DCBlock struct {
	coefficient float64
	x1, y1      float64
}

// NewDCBlock returns a DC blocker with cutoff in Hz.
func NewDCBlock(sampleRate signal.Frequency, cutoff float64) (*DCBlock, error) {
	if err := validSampleRate("dcblock", sampleRate); err != nil {
		return nil, err
	}
	if !(cutoff > 0) {
		return nil, configErr("dcblock", "cutoff", cutoff)
	}
	r := 1 - 2*math.Pi*cutoff/float64(sampleRate)
	// keep the pole inside the unit circle for any sane rate
	if r < 0.9 {
		r = 0.9
	}
	return &DCBlock{
		coefficient: r,
	}, nil
}

// Tick filters a single sample.
func (f *DCBlock) Tick(in float64) float64 {
	out := in - f.x1 + f.coefficient*f.y1
	f.x1 = in
	f.y1 = out
	return out
}

// Reset clears the filter history.
func (f *DCBlock) Reset() {
	f.x1, f.y1 = 0, 0
}

// Declick fades in the signal at the start with a smoothstep curve, which
// suppresses the click of a non-zero first sample.
type Declick struct {
	length int
	pos    int
}

// NewDeclick returns declick with fade-in of duration d.
func NewDeclick(sampleRate signal.Frequency, d time.Duration) (*Declick, error) {
	if err := validSampleRate("declick", sampleRate); err != nil {
		return nil, err
	}
	if err := nonNegative("declick", "duration", d.Seconds()); err != nil {
		return nil, err
	}
	return &Declick{
		length: sampleRate.Events(d),
	}, nil
}

// Tick applies the fade-in gain to a single sample.
func (f *Declick) Tick(in float64) float64 {
	if f.pos >= f.length {
		return in
	}
	x := float64(f.pos) / float64(f.length)
	f.pos++
	return in * x * x * (3 - 2*x)
}

// Reset restarts the fade-in.
func (f *Declick) Reset() {
	f.pos = 0
}
