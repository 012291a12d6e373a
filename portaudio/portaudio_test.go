//go:build portaudio

package portaudio_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/flute/instrument"
	"github.com/dudk/flute/portaudio"
	"github.com/dudk/flute/render"
	"github.com/dudk/flute/stream"
)

const framesPerBuffer = 512

func TestPlay(t *testing.T) {
	d, err := portaudio.Negotiate(0)
	require.NoError(t, err)

	p, err := instrument.NewFlute()
	require.NoError(t, err)
	graph, err := p.Stereo(d.SampleRate, instrument.Note{Frequency: 440, Length: 0.5, Velocity: 0.5})
	require.NoError(t, err)
	s, err := render.New(graph, d.SampleRate, 2)
	require.NoError(t, err)
	owned, err := s.Take()
	require.NoError(t, err)

	playback, err := portaudio.Open(d, owned, stream.Float32, framesPerBuffer)
	require.NoError(t, err)
	time.Sleep(500 * time.Millisecond)
	playback.Mute()
	assert.True(t, playback.Muted())
	assert.NoError(t, playback.Close())
}

func TestUnsupportedFormat(t *testing.T) {
	d, err := portaudio.Negotiate(0)
	require.NoError(t, err)
	defer portaudio.Terminate()

	_, err = portaudio.Open(d, nil, stream.Uint16, framesPerBuffer)
	assert.True(t, errors.Is(err, stream.ErrUnsupportedFormat))
	var devErr *stream.DeviceError
	assert.True(t, errors.As(err, &devErr))
}
