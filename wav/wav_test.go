package wav_test

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/flute"
	"github.com/dudk/flute/mock"
	"github.com/dudk/flute/node"
	"github.com/dudk/flute/render"
	"github.com/dudk/flute/signal"
	fwav "github.com/dudk/flute/wav"
)

const (
	bufferSize = 512
	sampleRate = 44100
)

// ramp is a source of values from -1.5 to 1.5.
type ramp struct {
	step, v float64
}

func (r *ramp) Tick(float64) float64 {
	v := r.v
	r.v += r.step
	return v
}

func (r *ramp) Reset() {}

func TestSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.wav")
	frames := 3001
	s, err := render.New(node.Duplicate(&ramp{v: -1.5, step: 3.0 / float64(frames-1)}), sampleRate, 1)
	require.NoError(t, err)

	p, err := flute.New(bufferSize, flute.WithLines(flute.Line{
		Source: s.Source(int64(frames)),
		Sink:   fwav.CreateSink(path, signal.BitDepth16),
	}))
	require.NoError(t, err)
	require.NoError(t, flute.Wait(p.Run(context.Background())))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	d := wav.NewDecoder(f)
	require.True(t, d.IsValidFile())
	assert.Equal(t, uint16(16), d.BitDepth)
	assert.Equal(t, uint32(sampleRate), d.SampleRate)
	assert.Equal(t, uint16(1), d.NumChans)

	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, frames)
	for i, v := range buf.Data {
		x := -1.5 + float64(i)*3.0/float64(frames-1)
		expected := math.Max(math.Min(math.Round(x*32767), 32767), -32768)
		require.InDelta(t, expected, v, 1, "sample %d", i)
	}
	assert.Equal(t, -32768, buf.Data[0])
	assert.Equal(t, 32767, buf.Data[frames-1])
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	source := &mock.Source{
		Limit:      2*bufferSize + 100,
		Value:      0.5,
		Channels:   2,
		SampleRate: 22050,
	}
	p, err := flute.New(bufferSize, flute.WithLines(flute.Line{
		Source: source.Source(),
		Sink:   fwav.CreateSink(path, signal.BitDepth32),
	}))
	require.NoError(t, err)
	require.NoError(t, flute.Wait(p.Run(context.Background())))

	sink := &mock.Sink{}
	p, err = flute.New(bufferSize, flute.WithLines(flute.Line{
		Source: fwav.OpenSource(path),
		Sink:   sink.Sink(),
	}))
	require.NoError(t, err)
	require.NoError(t, flute.Wait(p.Run(context.Background())))

	result := sink.Buffer()
	require.Equal(t, 2, result.NumChannels())
	require.Equal(t, 2*bufferSize+100, result.Size())
	for _, ch := range result {
		for _, v := range ch {
			require.InDelta(t, 0.5, v, 1e-9)
		}
	}
}

func TestErrors(t *testing.T) {
	_, err := flute.New(bufferSize, flute.WithLines(flute.Line{
		Source: (&mock.Source{Limit: 1, Channels: 1, SampleRate: sampleRate}).Source(),
		Sink:   fwav.CreateSink(filepath.Join(t.TempDir(), "x.wav"), signal.BitDepth8),
	}))
	assert.True(t, errors.Is(err, fwav.ErrUnsupportedBitDepth))

	_, err = flute.New(bufferSize, flute.WithLines(flute.Line{
		Source: (&mock.Source{Limit: 1, Channels: 1, SampleRate: sampleRate}).Source(),
		Sink:   fwav.CreateSink(filepath.Join(t.TempDir(), "missing", "x.wav"), signal.BitDepth16),
	}))
	var ioErr *fwav.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	invalid := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalid, []byte("not a wav file at all"), 0o644))
	_, err = flute.New(bufferSize, flute.WithLines(flute.Line{
		Source: fwav.OpenSource(invalid),
		Sink:   (&mock.Sink{}).Sink(),
	}))
	assert.True(t, errors.Is(err, fwav.ErrInvalidFile))
}
