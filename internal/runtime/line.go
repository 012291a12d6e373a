package runtime

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Line executes source, processors and sink sequentially in a single
// goroutine. Buffers are passed between components without copying.
type Line struct {
	Source     Source
	Processors []Processor
	Sink       Sink
	started    int
}

// Execute renders a single buffer through all components. io.EOF is
// returned when source is done. If context is done, its error is returned.
func (l *Line) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	buf, err := l.Source.execute()
	if err != nil {
		return err
	}
	for i := range l.Processors {
		if buf, err = l.Processors[i].execute(buf); err != nil {
			return err
		}
	}
	return l.Sink.execute(buf)
}

type hook interface {
	Start(context.Context) error
	Flush(context.Context) error
}

// hooks returns components in the order of execution.
func (l *Line) hooks() []hook {
	hooks := make([]hook, 0, 2+len(l.Processors))
	hooks = append(hooks, &l.Source)
	for i := range l.Processors {
		hooks = append(hooks, &l.Processors[i])
	}
	return append(hooks, &l.Sink)
}

// Start calls start hooks of components. If any component fails to start,
// the rest are not started.
func (l *Line) Start(ctx context.Context) error {
	for _, h := range l.hooks() {
		if err := h.Start(ctx); err != nil {
			return err
		}
		l.started++
	}
	return nil
}

// Flush calls flush hooks of all started components.
func (l *Line) Flush(ctx context.Context) error {
	var errs execErrors
	for i, h := range l.hooks() {
		if i == l.started {
			break
		}
		if err := h.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	l.started = 0
	return errs.ret()
}

// Run starts the executor and executes it until io.EOF or error. Started
// executor is always flushed.
func Run(ctx context.Context, e Executor) (errExec, errFlush error) {
	if err := e.Start(ctx); err != nil {
		errFlush = e.Flush(ctx)
		return fmt.Errorf("error starting line: %w", err), errFlush
	}
	for errExec == nil {
		errExec = e.Execute(ctx)
	}
	if errExec == io.EOF {
		errExec = nil
	}
	return errExec, e.Flush(ctx)
}

// execErrors wraps errors that might occur when multiple components are
// failing.
type execErrors []error

func (e execErrors) Error() string {
	s := []string{}
	for _, se := range e {
		s = append(s, se.Error())
	}
	return strings.Join(s, ",")
}

// Unwrap allows to match any of errors.
func (e execErrors) Unwrap() []error {
	return e
}

// ret returns untyped nil if error is list is empty.
func (e execErrors) ret() error {
	if len(e) > 0 {
		return e
	}
	return nil
}
