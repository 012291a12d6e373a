package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dudk/flute/node"
	"github.com/dudk/flute/oto"
	"github.com/dudk/flute/portaudio"
	"github.com/dudk/flute/render"
	"github.com/dudk/flute/signal"
	"github.com/dudk/flute/stream"
)

const (
	backendPortaudio = "portaudio"
	backendOto       = "oto"
)

// tail is played after the note to let the limiter release.
const tail = 100 * time.Millisecond

type playCommand struct {
	settings
	backend  string
	format   string
	channels int
	timeSeed bool
}

type player interface {
	Mute()
	Close() error
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play a note with the default output device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	cmd.settings.register(fs, 5)
	fs.StringVar(&cmd.backend, "backend", backendPortaudio, "audio backend: portaudio or oto")
	fs.StringVar(&cmd.format, "format", "f32", "sample format: f32, i32, i16, i8, u8 or u16")
	fs.IntVar(&cmd.channels, "channels", 0, "number of device channels, 0 is device default")
	fs.BoolVar(&cmd.timeSeed, "timeseed", true, "seed breath noise with current time instead of -seed")
}

func (cmd *playCommand) Run(ctx context.Context, c *config) error {
	format, err := stream.ParseFormat(cmd.format)
	if err != nil {
		return &stream.DeviceError{Op: "negotiate", Err: err}
	}
	seed := cmd.Seed
	if cmd.timeSeed {
		seed = node.TimeSeed()
	}

	var p player
	switch cmd.backend {
	case backendPortaudio:
		p, err = cmd.portaudio(c, format, seed)
	case backendOto:
		p, err = cmd.oto(c, format, seed)
	default:
		err = fmt.Errorf("unknown backend %q", cmd.backend)
	}
	if err != nil {
		return err
	}

	// main goroutine doesn't touch the session after the stream is started
	select {
	case <-ctx.Done():
		c.log.Info("Interrupted")
	case <-time.After(time.Duration(cmd.Length*float64(time.Second)) + tail):
	}
	p.Mute()
	return p.Close()
}

// session returns stereo session of the note which is moved to the caller.
func (cmd *playCommand) session(sampleRate signal.Frequency, seed int64) (*render.Session, error) {
	patch, err := cmd.patch(seed)
	if err != nil {
		return nil, err
	}
	graph, err := patch.Stereo(sampleRate, cmd.note())
	if err != nil {
		return nil, err
	}
	s, err := render.New(graph, sampleRate, 2)
	if err != nil {
		return nil, err
	}
	return s.Take()
}

func (cmd *playCommand) portaudio(c *config, format stream.Format, seed int64) (player, error) {
	d, err := portaudio.Negotiate(cmd.channels)
	if err != nil {
		return nil, err
	}
	s, err := cmd.session(d.SampleRate, seed)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"device":     d.Name,
		"sampleRate": d.SampleRate,
		"channels":   d.Channels,
		"format":     format,
		"session":    s.ID(),
	}).Infof("Playing %v", cmd.note())
	p, err := portaudio.Open(d, s, format, cmd.BufferSize)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	return p, nil
}

func (cmd *playCommand) oto(c *config, format stream.Format, seed int64) (player, error) {
	channels := cmd.channels
	if channels == 0 {
		channels = 2
	}
	s, err := cmd.session(cmd.sampleRate(), seed)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"device":     "oto",
		"sampleRate": cmd.SampleRate,
		"channels":   channels,
		"format":     format,
		"session":    s.ID(),
	}).Infof("Playing %v", cmd.note())
	return oto.Open(s, cmd.sampleRate(), channels, format, oto.DefaultBufferSize)
}
