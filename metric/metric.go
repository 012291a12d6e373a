// Package metric publishes rendering counters of pipeline components with
// expvar.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dudk/flute/signal"
)

const (
	componentsLabel = "flute.components"
	sessionsLabel   = "flute.sessions"
)

const (
	// BufferCounter measures number of rendered buffers.
	BufferCounter = "Buffers"
	// FrameCounter measures number of rendered frames.
	FrameCounter = "Frames"
	// LatencyCounter measures latency between rendering calls.
	LatencyCounter = "Latency"
	// DurationCounter counts the duration of rendered signal.
	DurationCounter = "Duration"
	// ComponentCounter counts number of metered components.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	// sessions holds frames rendered by every session, keyed by session id.
	sessions = expvar.NewMap(sessionsLabel)

	counters = []string{
		BufferCounter,
		FrameCounter,
		LatencyCounter,
		DurationCounter,
		ComponentCounter,
	}
)

// Get metrics values for provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// ResetFunc returns new Measure closure. This closure is needed to postpone
// metrics capture until component is actually running.
type ResetFunc func() MeasureFunc

// MeasureFunc captures metrics when buffer is rendered. It doesn't allocate.
type MeasureFunc func(frames int64)

// Meter creates new meter closure to capture component counters. Counters
// are shared by all components of the same type.
func Meter(component interface{}, sampleRate signal.Frequency) ResetFunc {
	t := getType(component)
	metric := components.get(t)
	metric.components.Add(1)
	return func() MeasureFunc {
		calledAt := time.Now()
		var (
			bufferSize     int64
			bufferDuration time.Duration
		)
		return func(s int64) {
			metric.latency.set(time.Since(calledAt))
			metric.buffers.Add(1)
			metric.frames.Add(s)
			// recalculate buffer duration only when buffer size has changed
			if bufferSize != s {
				bufferSize = s
				bufferDuration = signal.DurationOf(sampleRate, s)
			}
			metric.duration.add(bufferDuration)
			calledAt = time.Now()
		}
	}
}

// Session returns the counter of frames rendered by the session. Counter is
// created on the first call and shared by subsequent calls with the same id.
// Adding to it doesn't allocate.
func Session(id string) *expvar.Int {
	sessions.Add(id, 0)
	return sessions.Get(id).(*expvar.Int)
}

// SessionFrames returns number of frames rendered by the session. Zero is
// returned for unknown sessions.
func SessionFrames(id string) int64 {
	if v, ok := sessions.Get(id).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		return metric
	}
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	components *expvar.Int
	buffers    *expvar.Int
	frames     *expvar.Int
	latency    *duration
	duration   *duration
}

func newMetric(componentType string) metric {
	m := metric{
		components: expvar.NewInt(key(componentType, ComponentCounter)),
		buffers:    expvar.NewInt(key(componentType, BufferCounter)),
		frames:     expvar.NewInt(key(componentType, FrameCounter)),
		latency:    &duration{},
		duration:   &duration{},
	}
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

// getType returns the name of dereferenced component type.
func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(atomic.LoadInt64(&v.d)))
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
