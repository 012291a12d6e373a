// Package mock provides mocks for pipeline components and allows to
// execute integration tests.
package mock

import (
	"context"

	"github.com/dudk/flute"
	"github.com/dudk/flute/signal"
)

// Source mocks a pipe source. It writes Value into all channels until
// Limit frames are written.
type Source struct {
	counter
	Hooks
	Limit       int
	Value       float64
	Channels    int
	SampleRate  signal.Frequency
	ErrorOnCall error
}

// Source returns allocator of the mock.
func (m *Source) Source() flute.SourceAllocatorFunc {
	return func(bufferSize int) (flute.Source, error) {
		return flute.Source{
			SourceFunc: func(out signal.Float64) (int, error) {
				if m.ErrorOnCall != nil {
					return 0, m.ErrorOnCall
				}
				n := out.Size()
				if left := m.Limit - m.samples; left < n {
					n = left
				}
				for i := range out {
					for j := 0; j < n; j++ {
						out[i][j] = m.Value
					}
				}
				if n > 0 {
					m.advance(n)
				}
				return n, nil
			},
			StartFunc: m.start,
			FlushFunc: m.flush,
			SignalProperties: flute.SignalProperties{
				SampleRate: m.SampleRate,
				Channels:   m.Channels,
			},
		}, nil
	}
}

// Processor mocks a pipe processor. It copies input into output.
type Processor struct {
	counter
	Hooks
	ErrorOnCall error
}

// Processor returns allocator of the mock.
func (m *Processor) Processor() flute.ProcessorAllocatorFunc {
	return func(bufferSize int, props flute.SignalProperties) (flute.Processor, error) {
		return flute.Processor{
			ProcessFunc: func(in, out signal.Float64) error {
				if m.ErrorOnCall != nil {
					return m.ErrorOnCall
				}
				for i := range in {
					copy(out[i], in[i])
				}
				m.advance(in.Size())
				return nil
			},
			StartFunc: m.start,
			FlushFunc: m.flush,
		}, nil
	}
}

// Sink mocks up a pipe sink.
// Buffer is not thread-safe, so should not be checked while pipe is running.
type Sink struct {
	counter
	Hooks
	buffer      signal.Float64
	Discard     bool
	ErrorOnCall error
}

// Sink returns allocator of the mock.
func (m *Sink) Sink() flute.SinkAllocatorFunc {
	return func(bufferSize int, props flute.SignalProperties) (flute.Sink, error) {
		return flute.Sink{
			SinkFunc: func(in signal.Float64) error {
				if m.ErrorOnCall != nil {
					return m.ErrorOnCall
				}
				if !m.Discard {
					m.buffer = m.buffer.Append(in)
				}
				m.advance(in.Size())
				return nil
			},
			StartFunc: m.start,
			FlushFunc: m.flush,
		}, nil
	}
}

// Buffer returns sink's buffer
func (m *Sink) Buffer() signal.Float64 {
	return m.buffer
}

// Hooks allows to mock components hooks.
type Hooks struct {
	Started bool
	Flushed bool

	ErrorOnStart error
	ErrorOnFlush error
}

func (h *Hooks) start(context.Context) error {
	h.Started = true
	return h.ErrorOnStart
}

func (h *Hooks) flush(context.Context) error {
	h.Flushed = true
	return h.ErrorOnFlush
}

// counter counts messages and samples.
type counter struct {
	messages int
	samples  int
}

// Advance counter's metrics.
func (c *counter) advance(size int) {
	c.messages++
	c.samples = c.samples + size
}

// Count returns messages and samples metrics.
func (c *counter) Count() (int, int) {
	return c.messages, c.samples
}
