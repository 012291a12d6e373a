/*
Package flute renders a physically-flavoured flute voice and moves the
rendered signal through DSP lines.

Concept

Sound is produced by signal graphs of package node. A graph is a tree of
unit generators which is advanced one sample per tick. Package instrument
assembles the flute graph from a note:

    patch, err := instrument.NewFlute(instrument.WithPan(-0.3))
    graph, err := patch.Stereo(44100, instrument.Note{
        Frequency: 440,
        Length:    2,
        Velocity:  0.8,
    })

Graph is owned by a rendering session of package render. Session produces
frames one by one or in blocks, the result is identical for any block
split:

    s, err := render.New(graph, 44100, 2)
    l, r := s.RenderOne()

Lines

Rendered signal reaches its destination through a line. The line has up
to three stages:

    Source - the origin of signal;
    Processor - the manipulator of the signal;
    Sink - the destination of signal;

Source and Sink are mandatory, there might be 0 to n Processors. Stages
are instantiated with allocator functions:

    SourceAllocatorFunc
    ProcessorAllocatorFunc
    SinkAllocatorFunc

Allocator functions return component structures and pre-allocate all
required buffers. Nothing is allocated while the line runs. Start hook
is called before the first buffer and flush hook after the last one, even
if the line was interrupted by error or context.

    p, err := flute.New(512, flute.WithLines(flute.Line{
        Source: s.Source(frames),
        Sink:   wav.CreateSink("flute.wav", signal.BitDepth16),
    }))
    err = flute.Wait(p.Run(ctx))

Every line runs in its own goroutine. Once any line fails, the rest of
them are cancelled.

Real-time

Audio devices pull the signal from callbacks. Package stream adapts a
session to the callback of a device: it converts samples to the device
format, fills all device channels and can be muted without allocation.
Packages portaudio and oto open the default output device with the
adapter.
*/
package flute
