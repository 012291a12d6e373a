package stream

import (
	"sync/atomic"
)

// Writer fills interleaved device buffers of type T.
type Writer[T Sample] struct {
	source   Renderer
	channels int
	convert  func(float64) T
	silence  T
	muted    atomic.Bool
}

// NewWriter returns writer for device with provided number of channels.
func NewWriter[T Sample](source Renderer, channels int) (*Writer[T], error) {
	if channels < 1 {
		return nil, ErrChannels
	}
	convert := converter[T]()
	return &Writer[T]{
		source:   source,
		channels: channels,
		convert:  convert,
		silence:  convert(0),
	}, nil
}

// Fill renders a frame for every slot of the buffer. Trailing samples of
// incomplete frame are silenced. Muted writer outputs silence and doesn't
// advance the renderer.
func (w *Writer[T]) Fill(out []T) {
	frames := len(out) / w.channels
	if w.muted.Load() {
		frames = 0
	}
	for i := 0; i < frames; i++ {
		l, r := w.source.RenderOne()
		left, right := w.convert(l), w.convert(r)
		frame := out[i*w.channels : (i+1)*w.channels]
		for ch := range frame {
			if ch&1 == 0 {
				frame[ch] = left
			} else {
				frame[ch] = right
			}
		}
	}
	for i := frames * w.channels; i < len(out); i++ {
		out[i] = w.silence
	}
}

// Mute stops rendering. It's safe to call from any goroutine.
func (w *Writer[T]) Mute() {
	w.muted.Store(true)
}

// Unmute resumes rendering. It's safe to call from any goroutine.
func (w *Writer[T]) Unmute() {
	w.muted.Store(false)
}

// Muted returns true if writer is muted.
func (w *Writer[T]) Muted() bool {
	return w.muted.Load()
}
