package mock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/flute"
	"github.com/dudk/flute/mock"
)

func TestPipe(t *testing.T) {
	tests := []struct {
		channels   int
		limit      int
		value      float64
		bufferSize int
		messages   int
	}{
		{channels: 1, limit: 100, value: 0.5, bufferSize: 10, messages: 10},
		{channels: 2, limit: 1000, value: 0.7, bufferSize: 300, messages: 4},
	}

	for _, test := range tests {
		source := &mock.Source{
			Limit:      test.limit,
			Value:      test.value,
			Channels:   test.channels,
			SampleRate: 44100,
		}
		processor := &mock.Processor{}
		sink := &mock.Sink{}
		p, err := flute.New(test.bufferSize, flute.WithLines(flute.Line{
			Source:     source.Source(),
			Processors: []flute.ProcessorAllocatorFunc{processor.Processor()},
			Sink:       sink.Sink(),
		}))
		require.NoError(t, err)
		require.NoError(t, flute.Wait(p.Run(context.Background())))

		for _, c := range []interface{ Count() (int, int) }{source, processor, sink} {
			messages, samples := c.Count()
			assert.Equal(t, test.messages, messages)
			assert.Equal(t, test.limit, samples)
		}
		assert.True(t, source.Started)
		assert.True(t, sink.Flushed)
		assert.Equal(t, test.channels, sink.Buffer().NumChannels())
		assert.Equal(t, test.limit, sink.Buffer().Size())
		assert.Equal(t, test.value, sink.Buffer()[0][test.limit-1])
	}
}
