package stream_test

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudk/flute/instrument"
	"github.com/dudk/flute/render"
	"github.com/dudk/flute/stream"
)

// frames is a renderer of fixed stereo frames.
type frames struct {
	values [][2]float64
	pos    int
}

func (f *frames) RenderOne() (float64, float64) {
	v := f.values[f.pos%len(f.values)]
	f.pos++
	return v[0], v[1]
}

func TestParseFormat(t *testing.T) {
	for _, f := range []stream.Format{
		stream.Float32,
		stream.Float64,
		stream.Int8,
		stream.Int16,
		stream.Int32,
		stream.Uint8,
		stream.Uint16,
	} {
		parsed, err := stream.ParseFormat(f.String())
		assert.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
	f, err := stream.ParseFormat(" I16 ")
	assert.NoError(t, err)
	assert.Equal(t, stream.Int16, f)
	assert.Equal(t, 2, f.Size())

	_, err = stream.ParseFormat("i24")
	assert.True(t, errors.Is(err, stream.ErrUnsupportedFormat))
	assert.Equal(t, "unknown", stream.FormatUnknown.String())
	assert.Equal(t, 0, stream.FormatUnknown.Size())
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, stream.Float32, stream.FormatOf[float32]())
	assert.Equal(t, stream.Int16, stream.FormatOf[int16]())
	assert.Equal(t, stream.Uint16, stream.FormatOf[uint16]())
}

func fill[T stream.Sample](t *testing.T, values []float64) []T {
	t.Helper()
	f := &frames{}
	for _, v := range values {
		f.values = append(f.values, [2]float64{v, v})
	}
	w, err := stream.NewWriter[T](f, 1)
	require.NoError(t, err)
	out := make([]T, len(values))
	w.Fill(out)
	return out
}

func TestConversion(t *testing.T) {
	values := []float64{0, 1, -1, 0.5, 2, -2, math.NaN(), math.Inf(1)}
	assert.Equal(t, []float32{0, 1, -1, 0.5, 1, -1, 0, 1}, fill[float32](t, values))
	assert.Equal(t, []float64{0, 1, -1, 0.5, 1, -1, 0, 1}, fill[float64](t, values))
	assert.Equal(t, []int8{0, 127, -127, 64, 127, -128, 0, 127}, fill[int8](t, values))
	assert.Equal(t, []int16{0, 32767, -32767, 16384, 32767, -32768, 0, 32767}, fill[int16](t, values))
	assert.Equal(t, []int32{0, math.MaxInt32, -math.MaxInt32, 1073741824, math.MaxInt32, math.MinInt32, 0, math.MaxInt32}, fill[int32](t, values))
	assert.Equal(t, []uint8{128, 255, 1, 192, 255, 0, 128, 255}, fill[uint8](t, values))
	assert.Equal(t, []uint16{32768, 65535, 1, 49152, 65535, 0, 32768, 65535}, fill[uint16](t, values))
}

func TestWriterChannels(t *testing.T) {
	f := &frames{values: [][2]float64{{0.25, -0.25}, {0.5, -0.5}}}
	w, err := stream.NewWriter[float32](f, 4)
	require.NoError(t, err)

	// 2 frames and incomplete one
	out := make([]float32, 11)
	for i := range out {
		out[i] = 9
	}
	w.Fill(out)
	assert.Equal(t, []float32{
		0.25, -0.25, 0.25, -0.25,
		0.5, -0.5, 0.5, -0.5,
		0, 0, 0,
	}, out)
	assert.Equal(t, 2, f.pos)

	// mono device receives left channel
	f = &frames{values: [][2]float64{{0.25, -0.25}}}
	mono, err := stream.NewWriter[float32](f, 1)
	require.NoError(t, err)
	out = make([]float32, 3)
	mono.Fill(out)
	assert.Equal(t, []float32{0.25, 0.25, 0.25}, out)

	_, err = stream.NewWriter[float32](f, 0)
	assert.Equal(t, stream.ErrChannels, err)
}

func TestWriterMute(t *testing.T) {
	f := &frames{values: [][2]float64{{1, 1}}}
	w, err := stream.NewWriter[uint8](f, 2)
	require.NoError(t, err)

	w.Mute()
	assert.True(t, w.Muted())
	out := make([]uint8, 4)
	w.Fill(out)
	assert.Equal(t, []uint8{128, 128, 128, 128}, out)
	assert.Equal(t, 0, f.pos)

	w.Unmute()
	assert.False(t, w.Muted())
	w.Fill(out)
	assert.Equal(t, []uint8{255, 255, 255, 255}, out)
	assert.Equal(t, 2, f.pos)
}

func TestReader(t *testing.T) {
	f := &frames{values: [][2]float64{{0.5, -0.5}}}

	r, err := stream.NewReader(f, 2, stream.Int16)
	require.NoError(t, err)
	assert.Equal(t, stream.Int16, r.Format())
	p := make([]byte, 10)
	n, err := r.Read(p)
	require.NoError(t, err)
	// only whole frames are read
	assert.Equal(t, 8, n)
	assert.Equal(t, int16(16384), int16(binary.LittleEndian.Uint16(p[0:])))
	assert.Equal(t, int16(-16384), int16(binary.LittleEndian.Uint16(p[2:])))
	assert.Equal(t, 2, f.pos)

	_, err = r.Read(p[:3])
	assert.Equal(t, io.ErrShortBuffer, err)

	r, err = stream.NewReader(f, 3, stream.Float32)
	require.NoError(t, err)
	p = make([]byte, 12)
	_, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(p[0:])))
	assert.Equal(t, float32(-0.5), math.Float32frombits(binary.LittleEndian.Uint32(p[4:])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(p[8:])))

	r, err = stream.NewReader(f, 1, stream.Uint8)
	require.NoError(t, err)
	r.Mute()
	p = make([]byte, 2)
	_, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{128, 128}, p)
	r.Unmute()
	_, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{192, 192}, p)

	_, err = stream.NewReader(f, 2, stream.FormatUnknown)
	assert.Equal(t, stream.ErrUnsupportedFormat, err)
	_, err = stream.NewReader(f, 0, stream.Int16)
	assert.Equal(t, stream.ErrChannels, err)
}

func TestDeviceError(t *testing.T) {
	err := error(&stream.DeviceError{Op: "open", Err: stream.ErrUnsupportedFormat})
	assert.True(t, errors.Is(err, stream.ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "open")
}

func session(t *testing.T) *render.Session {
	t.Helper()
	p, err := instrument.NewFlute()
	require.NoError(t, err)
	graph, err := p.Stereo(44100, instrument.Note{Frequency: 440, Length: 5, Velocity: 1})
	require.NoError(t, err)
	s, err := render.New(graph, 44100, 2)
	require.NoError(t, err)
	return s
}

func TestCallbackDoesNotAllocate(t *testing.T) {
	s := session(t)
	w, err := stream.NewWriter[int16](s, 6)
	require.NoError(t, err)
	out := make([]int16, 512*6)
	allocs := testing.AllocsPerRun(50, func() {
		w.Fill(out)
	})
	assert.Equal(t, 0.0, allocs)

	r, err := stream.NewReader(s, 2, stream.Float32)
	require.NoError(t, err)
	p := make([]byte, 512*8)
	allocs = testing.AllocsPerRun(50, func() {
		_, _ = r.Read(p)
	})
	assert.Equal(t, 0.0, allocs)
}

func TestStreamContinuesOffline(t *testing.T) {
	expected := session(t)
	buf, err := expected.Render(300)
	require.NoError(t, err)

	s := session(t)
	head, err := s.Render(100)
	require.NoError(t, err)
	owned, err := s.Take()
	require.NoError(t, err)
	w, err := stream.NewWriter[float64](owned, 2)
	require.NoError(t, err)
	out := make([]float64, 400)
	w.Fill(out)

	assert.Equal(t, buf[0][:100], head[0])
	for i := 0; i < 200; i++ {
		assert.Equal(t, buf[0][100+i], out[2*i], "frame %d", i)
		assert.Equal(t, buf[1][100+i], out[2*i+1], "frame %d", i)
	}
}
