// Package oto plays rendered signal with oto. Oto pulls the signal with
// io.Reader, so the renderer is advanced by the goroutine of oto player.
package oto

import (
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/dudk/flute/signal"
	"github.com/dudk/flute/stream"
)

// DefaultBufferSize is the default buffer duration of oto context.
const DefaultBufferSize = 50 * time.Millisecond

// Player plays renderer with oto.
type Player struct {
	*stream.Reader
	ctx    *oto.Context
	player *oto.Player
}

// format returns oto format of the sample format. Oto supports only
// 32 bit float, signed 16 bit and unsigned 8 bit samples.
func format(f stream.Format) (oto.Format, error) {
	switch f {
	case stream.Float32:
		return oto.FormatFloat32LE, nil
	case stream.Int16:
		return oto.FormatSignedInt16LE, nil
	case stream.Uint8:
		return oto.FormatUnsignedInt8, nil
	}
	return 0, stream.ErrUnsupportedFormat
}

// Open creates oto context and starts playback of renderer. Oto allows
// only one context per process. Renderer must be exclusively owned by the
// player after this call.
func Open(r stream.Renderer, sampleRate signal.Frequency, channels int, f stream.Format, bufferSize time.Duration) (*Player, error) {
	otoFormat, err := format(f)
	if err != nil {
		return nil, &stream.DeviceError{Op: "open", Err: err}
	}
	reader, err := stream.NewReader(r, channels, f)
	if err != nil {
		return nil, &stream.DeviceError{Op: "open", Err: err}
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: channels,
		Format:       otoFormat,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, &stream.DeviceError{Op: "open", Err: err}
	}
	<-ready

	p := ctx.NewPlayer(reader)
	p.Play()
	return &Player{
		Reader: reader,
		ctx:    ctx,
		player: p,
	}, nil
}

// IsPlaying returns true while oto is pulling the signal.
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Close stops playback and suspends the context.
func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return &stream.DeviceError{Op: "close", Err: err}
	}
	if err := p.ctx.Suspend(); err != nil {
		return &stream.DeviceError{Op: "suspend", Err: err}
	}
	return nil
}
