// Package portaudio plays rendered signal with the default output device.
package portaudio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/dudk/flute/signal"
	"github.com/dudk/flute/stream"
)

type (
	// Device is the negotiated default output device.
	Device struct {
		Name       string
		SampleRate signal.Frequency
		Channels   int
		info       *portaudio.DeviceInfo
	}

	// Stream plays renderer on the device. The renderer is advanced only
	// by the callback of portaudio.
	Stream struct {
		stream *portaudio.Stream
		muter
	}

	muter interface {
		Mute()
		Unmute()
		Muted() bool
	}
)

// Negotiate initializes portaudio and returns the default output device.
// If channels is zero, all channels of device are used. Terminate must be
// called if the stream is not opened.
func Negotiate(channels int) (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return Device{}, &stream.DeviceError{Op: "initialize", Err: err}
	}
	info, err := portaudio.DefaultOutputDevice()
	if err != nil {
		portaudio.Terminate()
		return Device{}, &stream.DeviceError{Op: "negotiate", Err: err}
	}
	if info == nil || info.MaxOutputChannels < 1 {
		portaudio.Terminate()
		return Device{}, &stream.DeviceError{Op: "negotiate", Err: stream.ErrNoDevice}
	}
	if channels <= 0 || channels > info.MaxOutputChannels {
		channels = info.MaxOutputChannels
	}
	return Device{
		Name:       info.Name,
		SampleRate: signal.Frequency(info.DefaultSampleRate),
		Channels:   channels,
		info:       info,
	}, nil
}

// Terminate releases portaudio resources.
func Terminate() error {
	return portaudio.Terminate()
}

// Open starts stream of renderer with provided sample format. Renderer
// must be exclusively owned by the stream after this call.
func Open(d Device, r stream.Renderer, format stream.Format, framesPerBuffer int) (*Stream, error) {
	callback, m, err := callback(r, d.Channels, format)
	if err != nil {
		return nil, &stream.DeviceError{Op: "open", Err: err}
	}
	params := portaudio.HighLatencyParameters(nil, d.info)
	params.Output.Channels = d.Channels
	params.SampleRate = float64(d.SampleRate)
	params.FramesPerBuffer = framesPerBuffer

	s, err := portaudio.OpenStream(params, callback)
	if err != nil {
		return nil, &stream.DeviceError{Op: "open", Err: err}
	}
	if err := s.Start(); err != nil {
		s.Close()
		return nil, &stream.DeviceError{Op: "start", Err: err}
	}
	return &Stream{stream: s, muter: m}, nil
}

// callback returns the portaudio callback for the format. Portaudio
// doesn't provide unsigned 16 bit and 64 bit float samples.
func callback(r stream.Renderer, channels int, format stream.Format) (interface{}, muter, error) {
	switch format {
	case stream.Float32:
		return writer[float32](r, channels)
	case stream.Int32:
		return writer[int32](r, channels)
	case stream.Int16:
		return writer[int16](r, channels)
	case stream.Int8:
		return writer[int8](r, channels)
	case stream.Uint8:
		return writer[uint8](r, channels)
	}
	return nil, nil, stream.ErrUnsupportedFormat
}

func writer[T stream.Sample](r stream.Renderer, channels int) (interface{}, muter, error) {
	w, err := stream.NewWriter[T](r, channels)
	if err != nil {
		return nil, nil, err
	}
	return func(out []T) { w.Fill(out) }, w, nil
}

// Close stops the stream and terminates portaudio.
func (s *Stream) Close() error {
	if err := s.stream.Stop(); err != nil {
		return &stream.DeviceError{Op: "stop", Err: err}
	}
	if err := s.stream.Close(); err != nil {
		return &stream.DeviceError{Op: "close", Err: err}
	}
	if err := portaudio.Terminate(); err != nil {
		return &stream.DeviceError{Op: "terminate", Err: err}
	}
	return nil
}
