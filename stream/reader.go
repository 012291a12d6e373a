package stream

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
)

// Reader renders frames into little-endian bytes. It's used by backends
// that pull the signal with io.Reader.
type Reader struct {
	source    Renderer
	channels  int
	format    Format
	frameSize int
	muted     atomic.Bool
}

// NewReader returns reader of the format for device with provided number
// of channels.
func NewReader(source Renderer, channels int, format Format) (*Reader, error) {
	if channels < 1 {
		return nil, ErrChannels
	}
	if format.Size() == 0 {
		return nil, ErrUnsupportedFormat
	}
	return &Reader{
		source:    source,
		channels:  channels,
		format:    format,
		frameSize: channels * format.Size(),
	}, nil
}

// Format returns the format of reader.
func (r *Reader) Format() Format {
	return r.format
}

// Read fills p with whole frames. io.ErrShortBuffer is returned if p
// doesn't fit a single frame.
func (r *Reader) Read(p []byte) (int, error) {
	frames := len(p) / r.frameSize
	if frames == 0 {
		return 0, io.ErrShortBuffer
	}
	size := r.format.Size()
	muted := r.muted.Load()
	for i := 0; i < frames; i++ {
		var l, right float64
		if !muted {
			l, right = r.source.RenderOne()
		}
		frame := p[i*r.frameSize : (i+1)*r.frameSize]
		for ch := 0; ch < r.channels; ch++ {
			v := l
			if ch&1 == 1 {
				v = right
			}
			r.put(frame[ch*size:(ch+1)*size], v)
		}
	}
	return frames * r.frameSize, nil
}

// put encodes a single sample.
func (r *Reader) put(b []byte, v float64) {
	switch r.format {
	case Float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(clamp(v))))
	case Float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(clamp(v)))
	case Int8:
		b[0] = byte(toInt8(v))
	case Int16:
		binary.LittleEndian.PutUint16(b, uint16(toInt16(v)))
	case Int32:
		binary.LittleEndian.PutUint32(b, uint32(toInt32(v)))
	case Uint8:
		b[0] = toUint8(v)
	case Uint16:
		binary.LittleEndian.PutUint16(b, toUint16(v))
	}
}

// Mute makes reader output silence without advancing the renderer. It's
// safe to call from any goroutine.
func (r *Reader) Mute() {
	r.muted.Store(true)
}

// Unmute resumes rendering. It's safe to call from any goroutine.
func (r *Reader) Unmute() {
	r.muted.Store(false)
}

// Muted returns true if reader is muted.
func (r *Reader) Muted() bool {
	return r.muted.Load()
}
