package oto

import (
	"errors"
	"testing"

	"github.com/ebitengine/oto/v3"
	"github.com/stretchr/testify/assert"

	"github.com/dudk/flute/stream"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		format   stream.Format
		expected oto.Format
		err      error
	}{
		{format: stream.Float32, expected: oto.FormatFloat32LE},
		{format: stream.Int16, expected: oto.FormatSignedInt16LE},
		{format: stream.Uint8, expected: oto.FormatUnsignedInt8},
		{format: stream.Int32, err: stream.ErrUnsupportedFormat},
		{format: stream.Uint16, err: stream.ErrUnsupportedFormat},
	}
	for _, test := range tests {
		f, err := format(test.format)
		if test.err != nil {
			assert.True(t, errors.Is(err, test.err), "format %v", test.format)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, test.expected, f)
	}
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(nil, 44100, 2, stream.Float64, DefaultBufferSize)
	var devErr *stream.DeviceError
	assert.True(t, errors.As(err, &devErr))
	assert.True(t, errors.Is(err, stream.ErrUnsupportedFormat))

	_, err = Open(nil, 44100, 0, stream.Int16, DefaultBufferSize)
	assert.True(t, errors.Is(err, stream.ErrChannels))
}
