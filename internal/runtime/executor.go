package runtime

import (
	"context"
	"io"

	"github.com/dudk/flute/metric"
	"github.com/dudk/flute/signal"
)

type (
	// Executor executes a single DSP operation.
	Executor interface {
		Execute(context.Context) error
		Start(context.Context) error
		Flush(context.Context) error
	}

	// Meter captures counters of a single component. Zero value doesn't
	// measure anything.
	Meter struct {
		metric.ResetFunc
		measure metric.MeasureFunc
	}

	// Source is the executor for source component. Output is allocated
	// before the run and reused for every buffer.
	Source struct {
		SourceFunc
		StartFunc
		FlushFunc
		Meter
		Output signal.Float64
	}

	// Processor is the executor for processor component.
	Processor struct {
		ProcessFunc
		StartFunc
		FlushFunc
		Meter
		Output signal.Float64
	}

	// Sink is the executor for sink component.
	Sink struct {
		SinkFunc
		StartFunc
		FlushFunc
		Meter
	}
)

func (m *Meter) reset() {
	if m.ResetFunc != nil {
		m.measure = m.ResetFunc()
	}
}

func (m *Meter) capture(frames int) {
	if m.measure != nil {
		m.measure(int64(frames))
	}
}

// bufferSize returns the capacity of output buffer.
func bufferSize(out signal.Float64) int {
	if out.NumChannels() == 0 {
		return 0
	}
	return cap(out[0])
}

// execute reads the next buffer. io.EOF is returned when source has no
// more frames.
func (e *Source) execute() (signal.Float64, error) {
	size := bufferSize(e.Output)
	if size == 0 {
		return nil, ErrEmptyOutput
	}
	out := e.Output.Resize(size)
	read, err := e.SourceFunc(out)
	if err != nil {
		return nil, err
	}
	if read == 0 {
		return nil, io.EOF
	}
	e.capture(read)
	return out.Resize(read), nil
}

// execute processes the input buffer. Output buffer has the size of input.
func (e *Processor) execute(in signal.Float64) (signal.Float64, error) {
	if bufferSize(e.Output) < in.Size() {
		return nil, ErrEmptyOutput
	}
	out := e.Output.Resize(in.Size())
	if err := e.ProcessFunc(in, out); err != nil {
		return nil, err
	}
	e.capture(in.Size())
	return out, nil
}

func (e *Sink) execute(in signal.Float64) error {
	if err := e.SinkFunc(in); err != nil {
		return err
	}
	e.capture(in.Size())
	return nil
}

// Start calls the start hook and resets the meter.
func (e *Source) Start(ctx context.Context) error {
	e.reset()
	return e.StartFunc.Start(ctx)
}

// Start calls the start hook and resets the meter.
func (e *Processor) Start(ctx context.Context) error {
	e.reset()
	return e.StartFunc.Start(ctx)
}

// Start calls the start hook and resets the meter.
func (e *Sink) Start(ctx context.Context) error {
	e.reset()
	return e.StartFunc.Start(ctx)
}
