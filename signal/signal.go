// Package signal provides an API to manipulate digital signals. It allows to:
// 	- convert interleaved int data to non-interleaved floats and back
//	- convert floats to fixed bit depth with rounding and saturation
//	- measure signal duration for a sample rate
package signal

import (
	"math"
	"time"
)

// Float64 is a non-interleaved float64 signal.
type Float64 [][]float64

// Frequency is a sample rate in Hz.
type Frequency float64

const (
	// BitDepth8 is 8 bit depth.
	BitDepth8 = BitDepth(8)
	// BitDepth16 is 16 bit depth.
	BitDepth16 = BitDepth(16)
	// BitDepth32 is 32 bit depth.
	BitDepth32 = BitDepth(32)
)

// InterInt is an interleaved int signal.
type InterInt struct {
	Data        []int
	NumChannels int
	BitDepth
}

// BitDepth contains values required for int-to-float and backward conversion.
type BitDepth int

// MaxValue returns the largest positive value representable with this bit
// depth. Unknown bit depths have no scaling.
func (bitDepth BitDepth) MaxValue() int {
	switch bitDepth {
	case BitDepth8:
		return math.MaxInt8
	case BitDepth16:
		return math.MaxInt16
	case BitDepth32:
		return math.MaxInt32
	default:
		return 1
	}
}

// MinValue returns the smallest value representable with this bit depth.
func (bitDepth BitDepth) MinValue() int {
	switch bitDepth {
	case BitDepth8:
		return math.MinInt8
	case BitDepth16:
		return math.MinInt16
	case BitDepth32:
		return math.MinInt32
	default:
		return -1
	}
}

// Int converts a single float sample to int: round(v * MaxValue) clamped to
// the representable range. NaN is converted to zero.
func (bitDepth BitDepth) Int(v float64) int {
	if v != v {
		return 0
	}
	max := bitDepth.MaxValue()
	scaled := math.Round(v * float64(max))
	if scaled >= float64(max) {
		return max
	}
	if min := bitDepth.MinValue(); scaled <= float64(min) {
		return min
	}
	return int(scaled)
}

// Events returns the number of samples that fit into duration at this rate.
func (f Frequency) Events(d time.Duration) int {
	return int(math.Floor(float64(f) * d.Seconds()))
}

// Samples returns the number of samples in given amount of seconds.
func (f Frequency) Samples(seconds float64) int {
	return int(math.Floor(float64(f) * seconds))
}

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate Frequency, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// AsFloat64 converts interleaved int signal to float64.
func (ints InterInt) AsFloat64() Float64 {
	if ints.Data == nil || ints.NumChannels == 0 {
		return nil
	}
	floats := make([][]float64, ints.NumChannels)
	bufSize := int(math.Ceil(float64(len(ints.Data)) / float64(ints.NumChannels)))

	// determine the divider for bit depth conversion
	divider := float64(ints.BitDepth.MaxValue())

	for i := range floats {
		floats[i] = make([]float64, bufSize)
		pos := 0
		for j := i; j < len(ints.Data); j = j + ints.NumChannels {
			floats[i][pos] = float64(ints.Data[j]) / divider
			pos++
		}
	}
	return floats
}

// AsInterInt converts float64 signal to interleaved int. Values are rounded
// and saturated to the bit depth range.
func (floats Float64) AsInterInt(bitDepth BitDepth) []int {
	var numChannels int
	if numChannels = len(floats); numChannels == 0 {
		return nil
	}
	ints := make([]int, len(floats[0])*numChannels)
	floats.PutInterInt(bitDepth, ints)
	return ints
}

// PutInterInt writes float64 signal into preallocated interleaved int
// slice. It returns the number of written values.
func (floats Float64) PutInterInt(bitDepth BitDepth, ints []int) int {
	numChannels := len(floats)
	if numChannels == 0 {
		return 0
	}
	n := 0
	for j := range floats {
		for i := range floats[j] {
			pos := i*numChannels + j
			if pos >= len(ints) {
				break
			}
			ints[pos] = bitDepth.Int(floats[j][i])
			n++
		}
	}
	return n
}

// EmptyFloat64 returns an empty buffer of specified dimentions.
func EmptyFloat64(numChannels int, bufferSize int) Float64 {
	result := make([][]float64, numChannels)
	for i := range result {
		result[i] = make([]float64, bufferSize)
	}
	return result
}

// NumChannels returns number of channels in this sample slice
func (floats Float64) NumChannels() int {
	return len(floats)
}

// Size returns number of samples in single block in this sample slice
func (floats Float64) Size() int {
	if floats.NumChannels() == 0 {
		return 0
	}
	return len(floats[0])
}

// Append buffers set to existing one one
// new buffer is returned if b is nil
func (floats Float64) Append(source Float64) Float64 {
	if floats == nil {
		floats = make([][]float64, source.NumChannels())
		for i := range floats {
			floats[i] = make([]float64, 0, source.Size())
		}
	}
	for i := range source {
		floats[i] = append(floats[i], source[i]...)
	}
	return floats
}

// Resize reslices every channel to size without allocation. Size must not
// exceed the capacity of channels.
func (floats Float64) Resize(size int) Float64 {
	for i := range floats {
		floats[i] = floats[i][:size]
	}
	return floats
}

// Slice creates a new copy of buffer from start position with defined legth
// if buffer doesn't have enough samples - shorten block is returned
//
// if start >= buffer size, nil is returned
// if start + len >= buffer size, len is decreased till the end of slice
// if start < 0, nil is returned
func (floats Float64) Slice(start int, len int) Float64 {
	if floats == nil || start >= floats.Size() || start < 0 {
		return nil
	}
	end := start + len
	result := make([][]float64, floats.NumChannels())
	for i := range floats {
		if end > floats.Size() {
			end = floats.Size()
		}
		result[i] = append(result[i], floats[i][start:end]...)
	}
	return result
}
