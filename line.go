package flute

import (
	"context"
	"fmt"

	"github.com/dudk/flute/internal/runtime"
	"github.com/dudk/flute/metric"
	"github.com/dudk/flute/signal"
)

type (
	// Line defines sequence of DSP components allocators. It has a
	// single source, zero or many processors and single sink.
	Line struct {
		Source     SourceAllocatorFunc
		Processors []ProcessorAllocatorFunc
		Sink       SinkAllocatorFunc
	}

	// SourceAllocatorFunc returns source for provided buffer size. It is
	// responsible for pre-allocation of all necessary buffers and
	// structures.
	SourceAllocatorFunc func(bufferSize int) (Source, error)

	// ProcessorAllocatorFunc returns processor for provided buffer size.
	// It is responsible for pre-allocation of all necessary buffers and
	// structures. Along with the processor, output signal properties are
	// returned. Zero properties mean the input ones.
	ProcessorAllocatorFunc func(bufferSize int, input SignalProperties) (Processor, error)

	// SinkAllocatorFunc returns sink for provided buffer size. It is
	// responsible for pre-allocation of all necessary buffers and
	// structures.
	SinkAllocatorFunc func(bufferSize int, input SignalProperties) (Sink, error)

	// SignalProperties contains information about input/output signal.
	SignalProperties struct {
		SampleRate signal.Frequency
		Channels   int
	}
)

type (
	// Source is a source of signal. SourceFunc returns number of frames
	// written into output buffer. Zero frames or io.EOF end the line.
	Source struct {
		SourceFunc
		StartFunc
		FlushFunc
		SignalProperties
	}

	// Processor transforms signal. Output buffer has the size of input.
	Processor struct {
		ProcessFunc
		StartFunc
		FlushFunc
		SignalProperties
	}

	// Sink is the destination of signal.
	Sink struct {
		SinkFunc
		StartFunc
		FlushFunc
	}

	// SourceFunc is a source closure.
	SourceFunc func(out signal.Float64) (int, error)
	// ProcessFunc is a processor closure.
	ProcessFunc func(in, out signal.Float64) error
	// SinkFunc is a sink closure.
	SinkFunc func(in signal.Float64) error

	// StartFunc is a closure that is called before the first buffer.
	StartFunc func(ctx context.Context) error
	// FlushFunc is a closure that is called after the run is done or
	// interrupted with error. It allows to release resources.
	FlushFunc func(ctx context.Context) error
)

func (p SignalProperties) validate() error {
	if !(p.SampleRate > 0) || p.Channels < 1 {
		return fmt.Errorf("%w: %d channels at %v Hz", ErrSignalProperties, p.Channels, p.SampleRate)
	}
	return nil
}

// route allocates all components and binds them into runtime line.
func (l Line) route(bufferSize int, metered bool) (*runtime.Line, error) {
	if l.Source == nil || l.Sink == nil {
		return nil, ErrIncompleteLine
	}
	source, err := l.Source(bufferSize)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if err := source.SignalProperties.validate(); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	props := source.SignalProperties
	line := runtime.Line{
		Source: runtime.Source{
			SourceFunc: runtime.SourceFunc(source.SourceFunc),
			StartFunc:  runtime.StartFunc(source.StartFunc),
			FlushFunc:  runtime.FlushFunc(source.FlushFunc),
			Meter:      meter(metered, source, props),
			Output:     signal.EmptyFloat64(props.Channels, bufferSize),
		},
		Processors: make([]runtime.Processor, 0, len(l.Processors)),
	}

	for i := range l.Processors {
		processor, err := l.Processors[i](bufferSize, props)
		if err != nil {
			return nil, fmt.Errorf("processor %d: %w", i, err)
		}
		if processor.SignalProperties == (SignalProperties{}) {
			processor.SignalProperties = props
		}
		if err := processor.SignalProperties.validate(); err != nil {
			return nil, fmt.Errorf("processor %d: %w", i, err)
		}
		props = processor.SignalProperties
		line.Processors = append(line.Processors, runtime.Processor{
			ProcessFunc: runtime.ProcessFunc(processor.ProcessFunc),
			StartFunc:   runtime.StartFunc(processor.StartFunc),
			FlushFunc:   runtime.FlushFunc(processor.FlushFunc),
			Meter:       meter(metered, processor, props),
			Output:      signal.EmptyFloat64(props.Channels, bufferSize),
		})
	}

	sink, err := l.Sink(bufferSize, props)
	if err != nil {
		return nil, fmt.Errorf("sink: %w", err)
	}
	line.Sink = runtime.Sink{
		SinkFunc:  runtime.SinkFunc(sink.SinkFunc),
		StartFunc: runtime.StartFunc(sink.StartFunc),
		FlushFunc: runtime.FlushFunc(sink.FlushFunc),
		Meter:     meter(metered, sink, props),
	}
	return &line, nil
}

func meter(metered bool, component interface{}, props SignalProperties) runtime.Meter {
	if !metered {
		return runtime.Meter{}
	}
	return runtime.Meter{ResetFunc: metric.Meter(component, props.SampleRate)}
}
