// Package render advances signal graphs at a sample rate.
//
// Session is the only owner of the graph state. It's either driven by
// offline rendering or moved into a real-time callback with Take. Both
// entry points advance the same state, so switching between them never
// produces a discontinuity.
package render

import (
	"errors"
	"io"
	"math"

	"github.com/rs/xid"

	"github.com/dudk/flute"
	"github.com/dudk/flute/metric"
	"github.com/dudk/flute/node"
	"github.com/dudk/flute/signal"
)

var (
	// ErrSessionMoved is returned when session was moved to another owner.
	ErrSessionMoved = errors.New("session moved")
	// ErrChannels is returned when buffer channels don't match the session.
	ErrChannels = errors.New("channels mismatch")
)

// Session owns an assembled graph, the sample rate and the number of
// output channels. One channel is the mid of stereo frame, two channels
// are the stereo frame. Session is not safe for concurrent use.
type Session struct {
	uid        string
	graph      node.Stereo
	sampleRate signal.Frequency
	channels   int
	frames     int64
	moved      bool
}

// New returns a session of the graph. Graph must not be advanced by
// anything else.
func New(graph node.Stereo, sampleRate signal.Frequency, channels int) (*Session, error) {
	if graph == nil {
		return nil, &node.ConfigurationError{Component: "session", Param: "graph"}
	}
	if !(sampleRate > 0) {
		return nil, &node.ConfigurationError{Component: "session", Param: "sample rate", Value: float64(sampleRate)}
	}
	if channels != 1 && channels != 2 {
		return nil, &node.ConfigurationError{Component: "session", Param: "channels", Value: float64(channels)}
	}
	return &Session{
		uid:        xid.New().String(),
		graph:      graph,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// ID returns unique id of the session. It's kept when session is moved.
func (s *Session) ID() string {
	return s.uid
}

// SampleRate returns the sample rate of session.
func (s *Session) SampleRate() signal.Frequency {
	return s.sampleRate
}

// Channels returns the number of output channels.
func (s *Session) Channels() int {
	return s.channels
}

// Frames returns the number of rendered frames.
func (s *Session) Frames() int64 {
	return s.frames
}

// RenderOne advances the graph by a single frame. NaN and infinite values
// are replaced with silence. Moved session renders silence. It never
// allocates.
func (s *Session) RenderOne() (float64, float64) {
	if s.moved {
		return 0, 0
	}
	l, r := s.graph.TickStereo(0, 0)
	s.frames++
	return finite(l), finite(r)
}

// RenderBlock fills the buffer with consequent frames and returns the
// number of rendered frames. Buffer must have the channels of session. It
// never allocates.
func (s *Session) RenderBlock(buf signal.Float64) (int, error) {
	if s.moved {
		return 0, ErrSessionMoved
	}
	if buf.NumChannels() != s.channels {
		return 0, ErrChannels
	}
	n := buf.Size()
	switch s.channels {
	case 1:
		for i := 0; i < n; i++ {
			l, r := s.RenderOne()
			buf[0][i] = (l + r) / 2
		}
	default:
		for i := 0; i < n; i++ {
			buf[0][i], buf[1][i] = s.RenderOne()
		}
	}
	return n, nil
}

// Render returns a new buffer with the number of frames.
func (s *Session) Render(frames int) (signal.Float64, error) {
	buf := signal.EmptyFloat64(s.channels, frames)
	if _, err := s.RenderBlock(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Reset moves the graph back to its initial state.
func (s *Session) Reset() {
	if s.moved {
		return
	}
	s.graph.Reset()
	s.frames = 0
}

// Take moves the session state to a new owner. The original session can
// no longer render.
func (s *Session) Take() (*Session, error) {
	if s.moved {
		return nil, ErrSessionMoved
	}
	taken := *s
	s.moved, s.graph = true, nil
	return &taken, nil
}

// Source returns allocator of pipe source which renders the number of
// frames. Session is moved into the source at allocation. Rendered frames
// are counted by metric.Session under the session id.
func (s *Session) Source(frames int64) flute.SourceAllocatorFunc {
	return func(bufferSize int) (flute.Source, error) {
		owned, err := s.Take()
		if err != nil {
			return flute.Source{}, err
		}
		end := owned.frames + frames
		rendered := metric.Session(owned.ID())
		return flute.Source{
			SourceFunc: func(out signal.Float64) (int, error) {
				left := end - owned.frames
				if left <= 0 {
					return 0, io.EOF
				}
				if left < int64(out.Size()) {
					out = out.Resize(int(left))
				}
				n, err := owned.RenderBlock(out)
				rendered.Add(int64(n))
				return n, err
			},
			SignalProperties: flute.SignalProperties{
				SampleRate: owned.sampleRate,
				Channels:   owned.channels,
			},
		}, nil
	}
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
