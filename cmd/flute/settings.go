package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/dudk/flute/instrument"
	"github.com/dudk/flute/node"
	"github.com/dudk/flute/signal"
)

// settings are parameters of a single note and the patch that plays it.
type settings struct {
	Config     string               `yaml:"-"`
	SampleRate float64              `yaml:"sample_rate"`
	BufferSize int                  `yaml:"buffer_size"`
	Frequency  float64              `yaml:"frequency"`
	Key        uint                 `yaml:"key"`
	Length     float64              `yaml:"length"`
	Velocity   float64              `yaml:"velocity"`
	Seed       int64                `yaml:"seed"`
	Pan        float64              `yaml:"pan"`
	Ceiling    float64              `yaml:"ceiling"`
	Lookahead  time.Duration        `yaml:"lookahead"`
	Release    time.Duration        `yaml:"release"`
	Breath     float64              `yaml:"breath"`
	Envelope   *node.EnvelopeParams `yaml:"envelope"`
	Partials   []instrument.Partial `yaml:"partials"`
}

func (s *settings) register(fs *flag.FlagSet, length float64) {
	*s = settings{}
	fs.StringVar(&s.Config, "config", "", "yaml file with settings, explicit flags take precedence")
	fs.Float64Var(&s.SampleRate, "samplerate", 44100, "sample rate in Hz")
	fs.IntVar(&s.BufferSize, "buffersize", 512, "buffer size in frames")
	fs.Float64Var(&s.Frequency, "freq", 440, "fundamental frequency in Hz")
	fs.UintVar(&s.Key, "key", 0, "MIDI key of the note, overrides -freq if set")
	fs.Float64Var(&s.Length, "length", length, "note length in seconds")
	fs.Float64Var(&s.Velocity, "velocity", 1, "note velocity in [0, 1]")
	fs.Int64Var(&s.Seed, "seed", 1, "seed of breath noise")
	fs.Float64Var(&s.Pan, "pan", 0, "stereo position in [-1, 1]")
	fs.Float64Var(&s.Ceiling, "ceiling", node.DefaultCeiling, "peak ceiling of limiter")
	fs.DurationVar(&s.Lookahead, "lookahead", node.DefaultLookahead, "lookahead of limiter")
	fs.DurationVar(&s.Release, "release", node.DefaultLimiterRelease, "release of limiter")
	fs.Float64Var(&s.Breath, "breath", instrument.FluteBreath, "amplitude of breath noise")
}

func (s *settings) configFile() string {
	return s.Config
}

func (s *settings) load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalStrict(b, s); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (s *settings) note() instrument.Note {
	n := instrument.Note{
		Frequency: s.Frequency,
		Length:    s.Length,
		Velocity:  s.Velocity,
	}
	if s.Key != 0 {
		n.Frequency = instrument.KeyToFrequency(s.Key)
	}
	return n
}

func (s *settings) sampleRate() signal.Frequency {
	return signal.Frequency(s.SampleRate)
}

// patch returns flute patch with seed of breath noise.
func (s *settings) patch(seed int64) (*instrument.Patch, error) {
	options := []instrument.Option{
		instrument.WithSeed(seed),
		instrument.WithPan(s.Pan),
		instrument.WithCeiling(s.Ceiling),
		instrument.WithLimiter(s.Lookahead, s.Release),
		instrument.WithBreath(s.Breath),
	}
	if s.Envelope != nil {
		options = append(options, instrument.WithEnvelope(*s.Envelope))
	}
	if len(s.Partials) > 0 {
		options = append(options, instrument.WithPartials(s.Partials...))
	}
	return instrument.NewFlute(options...)
}
