// Package stream delivers rendered frames into buffers of audio backends.
//
// Writers and readers are called on the thread of audio backend. They
// never allocate, block or lock. Frames are converted with saturation and
// NaN is converted to silence. When device has more than two channels,
// even channels receive the left sample and odd channels receive the
// right one.
package stream

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dudk/flute/signal"
)

var (
	// ErrUnsupportedFormat is returned when sample format cannot be
	// written.
	ErrUnsupportedFormat = errors.New("unsupported sample format")
	// ErrNoDevice is returned when there is no output device.
	ErrNoDevice = errors.New("no output device")
	// ErrChannels is returned when device has no channels.
	ErrChannels = errors.New("invalid number of channels")
)

// DeviceError describes failed operation of the audio device.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Op, e.Err)
}

// Unwrap returns underlying error.
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// Renderer provides stereo frames. It's implemented by render.Session.
type Renderer interface {
	RenderOne() (float64, float64)
}

// Format is a sample representation of device buffer.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	Float32
	Float64
	Int8
	Int16
	Int32
	Uint8
	Uint16
)

var formats = map[Format]struct {
	name  string
	bytes int
}{
	Float32: {"f32", 4},
	Float64: {"f64", 8},
	Int8:    {"i8", 1},
	Int16:   {"i16", 2},
	Int32:   {"i32", 4},
	Uint8:   {"u8", 1},
	Uint16:  {"u16", 2},
}

// ParseFormat returns format for its short name, e.g. f32 or i16.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, v := range formats {
		if v.name == s {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) String() string {
	if v, ok := formats[f]; ok {
		return v.name
	}
	return "unknown"
}

// Size returns the size of single sample in bytes. Zero is returned for
// unknown format.
func (f Format) Size() int {
	return formats[f].bytes
}

// Sample is a type of device sample.
type Sample interface {
	float32 | float64 | int8 | int16 | int32 | uint8 | uint16
}

// FormatOf returns format of the sample type.
func FormatOf[T Sample]() Format {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	}
	return FormatUnknown
}

// converter returns the conversion from float to the sample type.
func converter[T Sample]() func(float64) T {
	var fn any
	switch FormatOf[T]() {
	case Float32:
		fn = toFloat32
	case Float64:
		fn = clamp
	case Int8:
		fn = toInt8
	case Int16:
		fn = toInt16
	case Int32:
		fn = toInt32
	case Uint8:
		fn = toUint8
	case Uint16:
		fn = toUint16
	}
	return fn.(func(float64) T)
}

func toFloat32(v float64) float32 { return float32(clamp(v)) }

func toInt8(v float64) int8 { return int8(signal.BitDepth8.Int(v)) }

func toInt16(v float64) int16 { return int16(signal.BitDepth16.Int(v)) }

func toInt32(v float64) int32 { return int32(signal.BitDepth32.Int(v)) }

// unsigned formats are offset binary, silence is the midpoint
func toUint8(v float64) uint8 { return uint8(signal.BitDepth8.Int(v) - math.MinInt8) }

func toUint16(v float64) uint16 { return uint16(signal.BitDepth16.Int(v) - math.MinInt16) }

// clamp limits the value to [-1, 1]. NaN is converted to zero.
func clamp(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
