/*
Package node provides the building blocks of a signal graph.

A graph is composed of unit generators (oscillators, noise, filters,
envelopes) and combinators (Sum, Product, Stack, Chain) which are nodes
themselves, so they can be nested freely. Nodes are constructed once with
all parameters validated and all buffers allocated. After construction
only the internal state of a node evolves: Tick advances it by exactly one
sample and never allocates.

Generators ignore the input of Tick, processors transform it:

	carrier, _ := node.StackOf(partials, func(p Partial) (node.Node, error) {
		return node.NewOscillator(sampleRate, f*p.Ratio, p.Amplitude)
	})
	env, _ := node.NewEnvelope(sampleRate, params)
	voice := node.Product(carrier, env)

Stereo nodes process a pair of samples per Tick and are used for the
effects pipeline after the voice is panned.
*/
package node

import (
	"errors"
	"fmt"
	"time"

	"github.com/dudk/flute/signal"
)

type (
	// Node is a mono unit of the signal graph.
	Node interface {
		// Tick advances the node by one sample.
		Tick(in float64) float64
		// Reset returns the node to the state right after construction.
		Reset()
	}

	// Stereo is a two-channel unit of the signal graph.
	Stereo interface {
		// TickStereo advances the node by one frame.
		TickStereo(l, r float64) (float64, float64)
		// Reset returns the node to the state right after construction.
		Reset()
	}
)

// ErrConfiguration is matched by every ConfigurationError.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigurationError is returned when a node is constructed with invalid
// parameters.
type ConfigurationError struct {
	Component string
	Param     string
	Value     float64
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %v", e.Component, e.Param, e.Value)
}

// Is makes ConfigurationError match ErrConfiguration.
func (e *ConfigurationError) Is(err error) bool {
	return err == ErrConfiguration
}

func configErr(component, param string, value float64) error {
	return &ConfigurationError{Component: component, Param: param, Value: value}
}

// validSampleRate fails for zero, negative and NaN sample rates.
func validSampleRate(component string, sampleRate signal.Frequency) error {
	if !(sampleRate > 0) {
		return configErr(component, "sample rate", float64(sampleRate))
	}
	return nil
}

// nonNegative fails for negative and NaN values.
func nonNegative(component, param string, v float64) error {
	if !(v >= 0) {
		return configErr(component, param, v)
	}
	return nil
}

// constant is a generator that always outputs the same value.
type constant float64

// Constant returns a generator of a fixed value.
func Constant(v float64) Node {
	return constant(v)
}

func (c constant) Tick(float64) float64 { return float64(c) }

func (c constant) Reset() {}

// TimeSeed returns a seed derived from the current time. It is meant for
// live playback where reproducibility is not required.
func TimeSeed() int64 {
	return time.Now().UnixNano()
}
