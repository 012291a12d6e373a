package main

import (
	"context"
	"errors"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/dudk/flute"
	"github.com/dudk/flute/metric"
	"github.com/dudk/flute/node"
	"github.com/dudk/flute/render"
	"github.com/dudk/flute/signal"
	"github.com/dudk/flute/wav"
)

type renderCommand struct {
	settings
	out      string
	stereo   bool
	bitDepth int
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render a note into wav file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	cmd.settings.register(fs, 2.5)
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.BoolVar(&cmd.stereo, "stereo", false, "render stereo voice with effects instead of dry mono voice")
	fs.IntVar(&cmd.bitDepth, "bitdepth", 16, "bit depth of wav file: 16 or 32")
}

func (cmd *renderCommand) Run(ctx context.Context, c *config) error {
	if cmd.out == "" {
		return errors.New("missing -out required flag")
	}
	session, err := cmd.session()
	if err != nil {
		return err
	}
	frames := cmd.sampleRate().Samples(cmd.Length)
	p, err := flute.New(cmd.BufferSize,
		flute.WithLogger(c.log),
		flute.WithMetric(),
		flute.WithLines(flute.Line{
			Source: session.Source(int64(frames)),
			Sink:   wav.CreateSink(cmd.out, signal.BitDepth(cmd.bitDepth)),
		}),
	)
	if err != nil {
		return err
	}
	fields := logrus.Fields{
		"session": session.ID(),
		"pipe":    p.ID(),
		"note":    cmd.note(),
		"path":    cmd.out,
	}
	c.log.WithFields(fields).Info("Rendering")
	if err := flute.Wait(p.Run(ctx)); err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{
		"frames":   metric.SessionFrames(session.ID()),
		"duration": signal.DurationOf(cmd.sampleRate(), int64(frames)),
		"path":     cmd.out,
	}).Info("Rendered")
	c.log.Debugf("Metrics: %v", metric.GetAll())
	return nil
}

// session returns rendering session of the note. Mono session renders the
// dry voice. Stereo session renders the voice with effects.
func (cmd *renderCommand) session() (*render.Session, error) {
	patch, err := cmd.patch(cmd.Seed)
	if err != nil {
		return nil, err
	}
	if cmd.stereo {
		graph, err := patch.Stereo(cmd.sampleRate(), cmd.note())
		if err != nil {
			return nil, err
		}
		return render.New(graph, cmd.sampleRate(), 2)
	}
	voice, err := patch.Voice(cmd.sampleRate(), cmd.note())
	if err != nil {
		return nil, err
	}
	return render.New(node.Duplicate(voice), cmd.sampleRate(), 1)
}
