package flute

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"

	"github.com/dudk/flute/internal/runtime"
	"github.com/dudk/flute/log"
)

// Pipe is a set of lines rendered offline. Every line is executed in its
// own goroutine, components of the line are executed sequentially.
type Pipe struct {
	uid        string
	bufferSize int
	metered    bool
	log        log.Logger
	pending    []Line
	lines      []*runtime.Line
	started    atomic.Bool
}

// Option provides a way to set functional parameters to pipe.
type Option func(p *Pipe) error

// New creates a new pipe, applies provided options and allocates all
// lines. Allocation errors are returned right away.
func New(bufferSize int, options ...Option) (*Pipe, error) {
	if bufferSize <= 0 {
		return nil, fmt.Errorf("buffer size %d must be positive", bufferSize)
	}
	p := &Pipe{
		uid:        xid.New().String(),
		bufferSize: bufferSize,
		log:        log.Silent(),
	}
	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}
	for i, l := range p.pending {
		r, err := l.route(bufferSize, p.metered)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		p.lines = append(p.lines, r)
	}
	p.pending = nil
	return p, nil
}

// WithLines adds lines to the pipe.
func WithLines(lines ...Line) Option {
	return func(p *Pipe) error {
		p.pending = append(p.pending, lines...)
		return nil
	}
}

// WithLogger sets logger to Pipe. If this option is not provided, silent
// logger is used.
func WithLogger(logger log.Logger) Option {
	return func(p *Pipe) error {
		p.log = logger
		return nil
	}
}

// WithMetric enables metrics of all components.
func WithMetric() Option {
	return func(p *Pipe) error {
		p.metered = true
		return nil
	}
}

// ID returns unique id of the pipe.
func (p *Pipe) ID() string {
	return p.uid
}

// Run executes all lines until their sources are done. The returned
// channel receives the first error and is closed when all lines are
// flushed. If one of lines fails, the rest are cancelled. Pipe can be run
// only once, because components carry their state.
func (p *Pipe) Run(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	if !p.started.CompareAndSwap(false, true) {
		errc <- ErrInvalidState
		close(errc)
		return errc
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, l := range p.lines {
		i, l := i, l
		g.Go(func() error {
			p.log.Debug(fmt.Sprintf("pipe %s: line %d started", p.uid, i))
			errExec, errFlush := runtime.Run(gctx, l)
			if errExec != nil || errFlush != nil {
				p.log.Debug(fmt.Sprintf("pipe %s: line %d failed", p.uid, i))
				return &ErrorRun{ErrExec: errExec, ErrFlush: errFlush}
			}
			p.log.Debug(fmt.Sprintf("pipe %s: line %d done", p.uid, i))
			return nil
		})
	}
	go func() {
		defer close(errc)
		if err := g.Wait(); err != nil {
			errc <- err
		}
		p.log.Info(fmt.Sprintf("pipe %s: done", p.uid))
	}()
	return errc
}

// Wait for state transition or first error to occur.
func Wait(errc <-chan error) error {
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}
