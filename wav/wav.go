// Package wav writes and reads PCM wav files.
package wav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/dudk/flute"
	"github.com/dudk/flute/signal"
)

// pcmFormat is the wav format tag of integer PCM.
const pcmFormat = 1

var (
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 16 and 32 bit depth is supported")
	// ErrInvalidFile is returned when file is not a valid wav.
	ErrInvalidFile = errors.New("invalid wav file")
)

// IOError describes failed file operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("wav %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("wav %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

func supported(bitDepth signal.BitDepth) bool {
	return bitDepth == signal.BitDepth16 || bitDepth == signal.BitDepth32
}

// Sink returns allocator of sink which encodes signal into ws. Sample
// values are rounded and saturated to bit depth. Header is written when
// sink is flushed.
func Sink(ws io.WriteSeeker, bitDepth signal.BitDepth) flute.SinkAllocatorFunc {
	return sink(ws, "", bitDepth, nil)
}

// CreateSink returns allocator of sink which creates file at path. File
// is closed when sink is flushed.
func CreateSink(path string, bitDepth signal.BitDepth) flute.SinkAllocatorFunc {
	return func(bufferSize int, props flute.SignalProperties) (flute.Sink, error) {
		if !supported(bitDepth) {
			return flute.Sink{}, ErrUnsupportedBitDepth
		}
		f, err := os.Create(path)
		if err != nil {
			return flute.Sink{}, &IOError{Op: "create", Path: path, Err: err}
		}
		s, err := sink(f, path, bitDepth, f.Close)(bufferSize, props)
		if err != nil {
			f.Close()
			return flute.Sink{}, err
		}
		return s, nil
	}
}

func sink(ws io.WriteSeeker, path string, bitDepth signal.BitDepth, closeFn func() error) flute.SinkAllocatorFunc {
	return func(bufferSize int, props flute.SignalProperties) (flute.Sink, error) {
		if !supported(bitDepth) {
			return flute.Sink{}, ErrUnsupportedBitDepth
		}
		e := wav.NewEncoder(ws, int(props.SampleRate), int(bitDepth), props.Channels, pcmFormat)
		data := make([]int, bufferSize*props.Channels)
		ib := &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: props.Channels,
				SampleRate:  int(props.SampleRate),
			},
			SourceBitDepth: int(bitDepth),
		}
		return flute.Sink{
			SinkFunc: func(in signal.Float64) error {
				n := in.PutInterInt(bitDepth, data)
				ib.Data = data[:n]
				if err := e.Write(ib); err != nil {
					return &IOError{Op: "write", Path: path, Err: err}
				}
				return nil
			},
			FlushFunc: func(context.Context) error {
				if err := e.Close(); err != nil {
					return &IOError{Op: "close", Path: path, Err: err}
				}
				if closeFn != nil {
					if err := closeFn(); err != nil {
						return &IOError{Op: "close", Path: path, Err: err}
					}
				}
				return nil
			},
		}, nil
	}
}

// Source returns allocator of source which decodes rs.
func Source(rs io.ReadSeeker) flute.SourceAllocatorFunc {
	return source(rs, "", nil)
}

// OpenSource returns allocator of source which reads file at path. File is
// closed when source is flushed.
func OpenSource(path string) flute.SourceAllocatorFunc {
	return func(bufferSize int) (flute.Source, error) {
		f, err := os.Open(path)
		if err != nil {
			return flute.Source{}, &IOError{Op: "open", Path: path, Err: err}
		}
		s, err := source(f, path, f.Close)(bufferSize)
		if err != nil {
			f.Close()
			return flute.Source{}, err
		}
		return s, nil
	}
}

func source(rs io.ReadSeeker, path string, closeFn func() error) flute.SourceAllocatorFunc {
	return func(bufferSize int) (flute.Source, error) {
		d := wav.NewDecoder(rs)
		if !d.IsValidFile() {
			return flute.Source{}, &IOError{Op: "decode", Path: path, Err: ErrInvalidFile}
		}
		bitDepth := signal.BitDepth(d.BitDepth)
		if !supported(bitDepth) {
			return flute.Source{}, ErrUnsupportedBitDepth
		}
		format := d.Format()
		channels := format.NumChannels
		max := float64(bitDepth.MaxValue())
		ib := &audio.IntBuffer{
			Format:         format,
			Data:           make([]int, bufferSize*channels),
			SourceBitDepth: int(bitDepth),
		}
		return flute.Source{
			SourceFunc: func(out signal.Float64) (int, error) {
				ib.Data = ib.Data[:out.Size()*channels]
				read, err := d.PCMBuffer(ib)
				if err != nil {
					return 0, &IOError{Op: "read", Path: path, Err: err}
				}
				frames := read / channels
				if frames == 0 {
					return 0, io.EOF
				}
				for i := 0; i < frames; i++ {
					for c := range out {
						out[c][i] = float64(ib.Data[i*channels+c]) / max
					}
				}
				return frames, nil
			},
			FlushFunc: func(context.Context) error {
				if closeFn == nil {
					return nil
				}
				if err := closeFn(); err != nil {
					return &IOError{Op: "close", Path: path, Err: err}
				}
				return nil
			},
			SignalProperties: flute.SignalProperties{
				SampleRate: signal.Frequency(format.SampleRate),
				Channels:   channels,
			},
		}, nil
	}
}
