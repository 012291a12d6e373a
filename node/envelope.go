package node

import (
	"math"

	"github.com/dudk/flute/signal"
)

// EnvelopeParams defines the shape of an envelope. Durations are in
// seconds, SustainLevel is in [0, 1].
type EnvelopeParams struct {
	Attack       float64 `yaml:"attack"`
	Decay        float64 `yaml:"decay"`
	SustainLevel float64 `yaml:"sustain_level"`
	Release      float64 `yaml:"release"`
	SustainTime  float64 `yaml:"sustain_time"`
}

// Length returns the total duration of the envelope.
func (p EnvelopeParams) Length() float64 {
	return p.Attack + p.Decay + p.SustainTime + p.Release
}

// Fit returns params with SustainTime set so the envelope ends exactly at
// length. Attack, decay and release are never changed. If they alone
// exceed length, SustainTime is zero.
func (p EnvelopeParams) Fit(length float64) EnvelopeParams {
	p.SustainTime = math.Max(0, length-p.Attack-p.Decay-p.Release)
	return p
}

// Validate checks that durations are not negative and sustain level is in
// range.
func (p EnvelopeParams) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"attack", p.Attack},
		{"decay", p.Decay},
		{"release", p.Release},
		{"sustain time", p.SustainTime},
	} {
		if err := nonNegative("envelope", v.name, v.value); err != nil {
			return err
		}
	}
	if !(p.SustainLevel >= 0 && p.SustainLevel <= 1) {
		return configErr("envelope", "sustain level", p.SustainLevel)
	}
	return nil
}

// Envelope is a generator of gain in [0, 1] over time since note onset. It
// has four linear segments: attack to 1, decay to sustain level, hold at
// sustain level and release to 0. After the release it outputs 0.
type Envelope struct {
	EnvelopeParams
	sampleRate float64
	// segment ends in seconds
	attackEnd, decayEnd, holdEnd, releaseEnd float64
	n                                        int64
}

// NewEnvelope returns an envelope for provided params.
func NewEnvelope(sampleRate signal.Frequency, p EnvelopeParams) (*Envelope, error) {
	if err := validSampleRate("envelope", sampleRate); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := Envelope{
		EnvelopeParams: p,
		sampleRate:     float64(sampleRate),
		attackEnd:      p.Attack,
	}
	e.decayEnd = e.attackEnd + p.Decay
	e.holdEnd = e.decayEnd + p.SustainTime
	e.releaseEnd = e.holdEnd + p.Release
	return &e, nil
}

// Gain returns envelope value at time t in seconds. It doesn't change the
// state.
func (e *Envelope) Gain(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t < e.attackEnd:
		return t / e.Attack
	case t < e.decayEnd:
		return 1 - (1-e.SustainLevel)*(t-e.attackEnd)/e.Decay
	case t < e.holdEnd:
		return e.SustainLevel
	case t < e.releaseEnd:
		return e.SustainLevel * (1 - (t-e.holdEnd)/e.Release)
	}
	return 0
}

// Tick returns the gain of current sample and advances time. Input is
// ignored.
func (e *Envelope) Tick(float64) float64 {
	g := e.Gain(float64(e.n) / e.sampleRate)
	e.n++
	return g
}

// Done returns true when the envelope has reached its terminal silence.
func (e *Envelope) Done() bool {
	return float64(e.n)/e.sampleRate >= e.releaseEnd
}

// Reset moves the envelope back to onset.
func (e *Envelope) Reset() {
	e.n = 0
}
