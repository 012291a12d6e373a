package flute_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dudk/flute"
	"github.com/dudk/flute/metric"
	"github.com/dudk/flute/mock"
	"github.com/dudk/flute/signal"
)

const bufferSize = 512

var errMock = errors.New("mock error")

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mockLine(limit int) (flute.Line, *mock.Source, *mock.Sink) {
	source := &mock.Source{
		Limit:      limit,
		Value:      0.5,
		Channels:   2,
		SampleRate: 44100,
	}
	processor := &mock.Processor{}
	sink := &mock.Sink{}
	return flute.Line{
		Source:     source.Source(),
		Processors: []flute.ProcessorAllocatorFunc{processor.Processor()},
		Sink:       sink.Sink(),
	}, source, sink
}

func TestSimple(t *testing.T) {
	l1, _, sink1 := mockLine(10 * bufferSize)
	l2, _, sink2 := mockLine(3*bufferSize + 7)
	p, err := flute.New(bufferSize, flute.WithLines(l1, l2))
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID())

	err = flute.Wait(p.Run(context.Background()))
	assert.NoError(t, err)
	assert.Equal(t, 10*bufferSize, sink1.Buffer().Size())
	assert.Equal(t, 3*bufferSize+7, sink2.Buffer().Size())

	// pipe can be run once
	err = flute.Wait(p.Run(context.Background()))
	assert.Equal(t, flute.ErrInvalidState, err)
}

func TestMetric(t *testing.T) {
	l, _, _ := mockLine(4 * bufferSize)
	p, err := flute.New(bufferSize, flute.WithLines(l), flute.WithMetric())
	require.NoError(t, err)
	require.NoError(t, flute.Wait(p.Run(context.Background())))

	values := metric.Get(flute.Sink{})
	assert.NotEmpty(t, values[metric.FrameCounter])
	assert.NotEmpty(t, values[metric.BufferCounter])
}

func TestAllocationErrors(t *testing.T) {
	failingSource := func(int) (flute.Source, error) {
		return flute.Source{}, errMock
	}
	silentSource := func(int) (flute.Source, error) {
		return flute.Source{
			SourceFunc: func(signal.Float64) (int, error) { return 0, nil },
		}, nil
	}
	sink := &mock.Sink{}

	tests := []struct {
		description string
		line        flute.Line
		expected    error
	}{
		{
			description: "no source",
			line:        flute.Line{Sink: sink.Sink()},
			expected:    flute.ErrIncompleteLine,
		},
		{
			description: "source error",
			line:        flute.Line{Source: failingSource, Sink: sink.Sink()},
			expected:    errMock,
		},
		{
			description: "no signal properties",
			line:        flute.Line{Source: silentSource, Sink: sink.Sink()},
			expected:    flute.ErrSignalProperties,
		},
	}
	for _, test := range tests {
		_, err := flute.New(bufferSize, flute.WithLines(test.line))
		assert.True(t, errors.Is(err, test.expected), test.description)
	}

	_, err := flute.New(0)
	assert.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	t.Run("execute", func(t *testing.T) {
		l, source, sink := mockLine(100 * bufferSize)
		source.ErrorOnCall = errMock
		p, err := flute.New(bufferSize, flute.WithLines(l))
		require.NoError(t, err)

		err = flute.Wait(p.Run(context.Background()))
		assert.True(t, errors.Is(err, errMock))
		var runErr *flute.ErrorRun
		require.True(t, errors.As(err, &runErr))
		assert.NotNil(t, runErr.ErrExec)
		assert.Nil(t, runErr.ErrFlush)
		assert.True(t, sink.Flushed)
	})
	t.Run("flush", func(t *testing.T) {
		l, _, sink := mockLine(bufferSize)
		sink.ErrorOnFlush = errMock
		p, err := flute.New(bufferSize, flute.WithLines(l))
		require.NoError(t, err)

		err = flute.Wait(p.Run(context.Background()))
		var runErr *flute.ErrorRun
		require.True(t, errors.As(err, &runErr))
		assert.Nil(t, runErr.ErrExec)
		assert.True(t, errors.Is(runErr.ErrFlush, errMock))
	})
	t.Run("cancel others", func(t *testing.T) {
		failing, source, _ := mockLine(bufferSize)
		source.ErrorOnStart = errMock
		endless, _, endlessSink := mockLine(1 << 40)
		endlessSink.Discard = true
		p, err := flute.New(bufferSize, flute.WithLines(failing, endless))
		require.NoError(t, err)

		err = flute.Wait(p.Run(context.Background()))
		assert.True(t, errors.Is(err, errMock))
		// endless line is cancelled and flushed
		assert.True(t, endlessSink.Flushed)
	})
}

func TestCancel(t *testing.T) {
	l, _, sink := mockLine(1 << 40)
	sink.Discard = true
	p, err := flute.New(bufferSize, flute.WithLines(l))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := p.Run(ctx)
	cancel()
	err = flute.Wait(errc)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, sink.Flushed)
}
