package flute

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned if pipe method cannot be executed at
	// this moment.
	ErrInvalidState = errors.New("invalid state")
	// ErrIncompleteLine is returned when line has no source or sink.
	ErrIncompleteLine = errors.New("line must have source and sink")
	// ErrSignalProperties is returned when component provides invalid
	// sample rate or number of channels.
	ErrSignalProperties = errors.New("invalid signal properties")
)

// ErrorRun is returned if line was successfully allocated, but execution
// and/or flush failed.
type ErrorRun struct {
	ErrExec  error
	ErrFlush error
}

func (e *ErrorRun) Error() string {
	switch {
	case e.ErrExec != nil && e.ErrFlush != nil:
		return fmt.Sprintf("flush error: %v after execute error: %v", e.ErrFlush, e.ErrExec)
	case e.ErrExec != nil:
		return fmt.Sprintf("execute error: %v", e.ErrExec)
	case e.ErrFlush != nil:
		return fmt.Sprintf("flush error: %v", e.ErrFlush)
	}
	return ""
}

// Is checks if any of errors match provided sentinel error.
func (e *ErrorRun) Is(err error) bool {
	if e.ErrExec != nil && errors.Is(e.ErrExec, err) {
		return true
	}
	if e.ErrFlush != nil && errors.Is(e.ErrFlush, err) {
		return true
	}
	return false
}
