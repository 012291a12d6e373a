// Package instrument assembles signal graphs of instruments from notes.
package instrument

import (
	"fmt"
	"math"
	"time"

	"github.com/dudk/flute/node"
	"github.com/dudk/flute/score"
	"github.com/dudk/flute/signal"
)

// Note drives the construction of a voice.
type Note struct {
	Frequency float64 // fundamental frequency in Hz
	Length    float64 // seconds
	Velocity  float64 // [0, 1]
}

// Validate checks that note parameters can produce a voice.
func (n Note) Validate() error {
	if !(n.Frequency >= 0) {
		return &node.ConfigurationError{Component: "note", Param: "frequency", Value: n.Frequency}
	}
	if !(n.Length >= 0) {
		return &node.ConfigurationError{Component: "note", Param: "length", Value: n.Length}
	}
	if !(n.Velocity >= 0 && n.Velocity <= 1) {
		return &node.ConfigurationError{Component: "note", Param: "velocity", Value: n.Velocity}
	}
	return nil
}

func (n Note) String() string {
	return fmt.Sprintf("%.2fHz %.3fs vel %.2f", n.Frequency, n.Length, n.Velocity)
}

// KeyToFrequency converts MIDI key to frequency of A440 equal temperament.
func KeyToFrequency(key uint) float64 {
	return 440 * math.Pow(2, (float64(key)-69)/12)
}

// NoteOf derives a note from score note. Score doesn't carry dynamics, so
// velocity is provided by caller.
func NoteOf(n score.SongNote, velocity float64) Note {
	return Note{
		Frequency: KeyToFrequency(n.MidiKey),
		Length:    n.DurationLength,
		Velocity:  velocity,
	}
}

// Partial is a single oscillator of harmonic series.
type Partial struct {
	Ratio     float64 `yaml:"ratio"`     // multiple of fundamental
	Amplitude float64 `yaml:"amplitude"` // at full velocity
}

var (
	// FlutePartials approximate the overtone profile of a flute.
	FlutePartials = []Partial{
		{Ratio: 1, Amplitude: 0.8},
		{Ratio: 2, Amplitude: 0.4},
		{Ratio: 3, Amplitude: 0.3},
		{Ratio: 4, Amplitude: 0.2},
		{Ratio: 5, Amplitude: 0.1},
	}

	// FluteEnvelope is the envelope shape of flute. Sustain time is fit to
	// the note length.
	FluteEnvelope = node.EnvelopeParams{
		Attack:       0.01,
		Decay:        0.1,
		SustainLevel: 0.7,
		Release:      0.05,
	}
)

// FluteBreath is the amplitude of breath noise at full velocity.
const FluteBreath = 0.1

// Patch is a fixed topology of an instrument. Voices built from the same
// patch and note are identical.
type Patch struct {
	Partials  []Partial
	Breath    float64
	Envelope  node.EnvelopeParams
	Seed      int64
	Pan       float64
	Ceiling   float64
	Lookahead time.Duration
	Release   time.Duration
	Declick   time.Duration
	DCCutoff  float64
}

// Option configures a patch.
type Option func(*Patch) error

// NewFlute returns flute patch with applied options.
func NewFlute(options ...Option) (*Patch, error) {
	p := &Patch{
		Partials:  FlutePartials,
		Breath:    FluteBreath,
		Envelope:  FluteEnvelope,
		Seed:      1,
		Ceiling:   node.DefaultCeiling,
		Lookahead: node.DefaultLookahead,
		Release:   node.DefaultLimiterRelease,
		Declick:   node.DefaultDeclickTime,
		DCCutoff:  node.DefaultDCCutoff,
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// WithSeed sets the seed of breath noise.
func WithSeed(seed int64) Option {
	return func(p *Patch) error {
		p.Seed = seed
		return nil
	}
}

// WithPan sets stereo position in [-1, 1].
func WithPan(position float64) Option {
	return func(p *Patch) error {
		if !(position >= -1 && position <= 1) {
			return &node.ConfigurationError{Component: "patch", Param: "pan", Value: position}
		}
		p.Pan = position
		return nil
	}
}

// WithCeiling sets the ceiling of output limiter.
func WithCeiling(ceiling float64) Option {
	return func(p *Patch) error {
		if !(ceiling > 0) {
			return &node.ConfigurationError{Component: "patch", Param: "ceiling", Value: ceiling}
		}
		p.Ceiling = ceiling
		return nil
	}
}

// WithLimiter sets lookahead and release of output limiter.
func WithLimiter(lookahead, release time.Duration) Option {
	return func(p *Patch) error {
		p.Lookahead = lookahead
		p.Release = release
		return nil
	}
}

// WithEnvelope replaces the envelope shape. Sustain time is always fit to
// the note length.
func WithEnvelope(params node.EnvelopeParams) Option {
	return func(p *Patch) error {
		if err := params.Validate(); err != nil {
			return err
		}
		p.Envelope = params
		return nil
	}
}

// WithPartials replaces the harmonic series.
func WithPartials(partials ...Partial) Option {
	return func(p *Patch) error {
		p.Partials = partials
		return nil
	}
}

// WithBreath sets the amplitude of breath noise at full velocity.
func WithBreath(amplitude float64) Option {
	return func(p *Patch) error {
		p.Breath = amplitude
		return nil
	}
}

// Voice returns mono graph of the note: harmonic series plus breath noise,
// shaped by envelope.
func (p *Patch) Voice(sampleRate signal.Frequency, n Note) (node.Node, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	harmonics, err := node.StackOf(p.Partials, func(h Partial) (node.Node, error) {
		return node.NewOscillator(sampleRate, n.Frequency*h.Ratio, h.Amplitude*n.Velocity)
	})
	if err != nil {
		return nil, err
	}
	env, err := node.NewEnvelope(sampleRate, p.Envelope.Fit(n.Length))
	if err != nil {
		return nil, err
	}
	return node.Product(
		node.Sum(harmonics, node.NewNoise(p.Seed, p.Breath*n.Velocity)),
		env,
	), nil
}

// Stereo returns the voice panned to stereo and passed through effects:
// per-channel declick, per-channel DC blocker and stereo limiter.
func (p *Patch) Stereo(sampleRate signal.Frequency, n Note) (node.Stereo, error) {
	voice, err := p.Voice(sampleRate, n)
	if err != nil {
		return nil, err
	}
	panned, err := node.Pan(voice, p.Pan)
	if err != nil {
		return nil, err
	}
	var declick, dcblock [2]node.Node
	for i := range declick {
		if declick[i], err = node.NewDeclick(sampleRate, p.Declick); err != nil {
			return nil, err
		}
		if dcblock[i], err = node.NewDCBlock(sampleRate, p.DCCutoff); err != nil {
			return nil, err
		}
	}
	limiter, err := node.NewLimiter(sampleRate, p.Ceiling, p.Lookahead, p.Release)
	if err != nil {
		return nil, err
	}
	return node.StereoChain(
		panned,
		node.Split(declick[0], declick[1]),
		node.Split(dcblock[0], dcblock[1]),
		limiter,
	), nil
}
