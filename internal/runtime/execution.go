// Package runtime executes bound pipeline lines.
package runtime

import (
	"context"
	"errors"

	"github.com/dudk/flute/signal"
)

// ErrEmptyOutput is returned when component has no output buffer.
var ErrEmptyOutput = errors.New("output buffer is empty")

type (
	// SourceFunc is a wrapper type of source closure. It fills out and
	// returns the number of frames written.
	SourceFunc func(out signal.Float64) (int, error)
	// ProcessFunc is a wrapper type of processor closure.
	ProcessFunc func(in, out signal.Float64) error
	// SinkFunc is a wrapper type of sink closure.
	SinkFunc func(in signal.Float64) error
)

type (
	// StartFunc is a closure that triggers pipe component start hook.
	StartFunc func(ctx context.Context) error
	// FlushFunc is a closure that triggers pipe component flush hook.
	FlushFunc func(ctx context.Context) error
)

// Start calls the start hook.
func (fn StartFunc) Start(ctx context.Context) error {
	return callHook(ctx, fn)
}

// Flush calls the flush hook.
func (fn FlushFunc) Flush(ctx context.Context) error {
	return callHook(ctx, fn)
}

func callHook(ctx context.Context, hook func(context.Context) error) error {
	if hook == nil {
		return nil
	}
	return hook(ctx)
}
