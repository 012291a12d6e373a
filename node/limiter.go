package node

import (
	"math"
	"time"

	"github.com/dudk/flute/signal"
)

const (
	// DefaultCeiling is the default peak amplitude of limiter.
	DefaultCeiling = 1.0
	// DefaultLookahead is the default lookahead of limiter.
	DefaultLookahead = 5 * time.Millisecond
	// DefaultLimiterRelease is the default release of limiter.
	DefaultLimiterRelease = 5 * time.Millisecond
)

// Limiter is a stereo peak limiter with linked channels. Input is delayed
// by lookahead, so gain is reduced before the peak reaches the output.
// Output magnitude never exceeds the ceiling: residual overshoot of the
// smoothed gain is clipped.
type Limiter struct {
	ceiling     float64
	attackCoef  float64
	releaseCoef float64
	gain        float64

	// delay lines, len is lookahead in samples
	left, right []float64
	delayPos    int

	// peaks holds abs peak of every frame in the window: delayed frames and
	// the incoming one.
	peaks   []float64
	peakPos int
	peak    float64
	peakAge int
}

// NewLimiter returns stereo limiter. Ceiling must be positive.
func NewLimiter(sampleRate signal.Frequency, ceiling float64, lookahead, release time.Duration) (*Limiter, error) {
	if err := validSampleRate("limiter", sampleRate); err != nil {
		return nil, err
	}
	if !(ceiling > 0) {
		return nil, configErr("limiter", "ceiling", ceiling)
	}
	if err := nonNegative("limiter", "lookahead", lookahead.Seconds()); err != nil {
		return nil, err
	}
	if err := nonNegative("limiter", "release", release.Seconds()); err != nil {
		return nil, err
	}
	delay := sampleRate.Events(lookahead)
	return &Limiter{
		ceiling:     ceiling,
		attackCoef:  coefficient(delay),
		releaseCoef: coefficient(sampleRate.Events(release)),
		gain:        1,
		left:        make([]float64, delay),
		right:       make([]float64, delay),
		peaks:       make([]float64, delay+1),
	}, nil
}

// coefficient returns one-pole smoothing coefficient for a time constant
// in samples.
func coefficient(samples int) float64 {
	if samples <= 0 {
		return 0
	}
	return math.Exp(-1 / float64(samples))
}

// TickStereo limits a single frame.
func (l *Limiter) TickStereo(left, right float64) (float64, float64) {
	left, right = finite(left), finite(right)
	l.trackPeak(math.Max(math.Abs(left), math.Abs(right)))

	target := 1.0
	if l.peak > l.ceiling {
		target = l.ceiling / l.peak
	}
	if target < l.gain {
		l.gain = target + (l.gain-target)*l.attackCoef
	} else {
		l.gain = target + (l.gain-target)*l.releaseCoef
	}

	// swap incoming frame with the delayed one
	if len(l.left) > 0 {
		left, l.left[l.delayPos] = l.left[l.delayPos], left
		right, l.right[l.delayPos] = l.right[l.delayPos], right
		l.delayPos++
		if l.delayPos == len(l.left) {
			l.delayPos = 0
		}
	}
	return clip(left*l.gain, l.ceiling), clip(right*l.gain, l.ceiling)
}

// trackPeak stores the frame peak and updates maximum over the window.
func (l *Limiter) trackPeak(v float64) {
	size := len(l.peaks)
	l.peakPos++
	if l.peakPos == size {
		l.peakPos = 0
	}
	l.peaks[l.peakPos] = v
	if v >= l.peak {
		l.peak, l.peakAge = v, 0
		return
	}
	l.peakAge++
	if l.peakAge < size {
		return
	}
	// held peak left the window, find the next one
	l.peak, l.peakAge = 0, 0
	for age := 0; age < size; age++ {
		i := l.peakPos - age
		if i < 0 {
			i += size
		}
		if l.peaks[i] > l.peak {
			l.peak, l.peakAge = l.peaks[i], age
		}
	}
}

// GainReduction returns current gain applied to the signal.
func (l *Limiter) GainReduction() float64 {
	return l.gain
}

// Reset clears delay lines and gain state.
func (l *Limiter) Reset() {
	for i := range l.left {
		l.left[i], l.right[i] = 0, 0
	}
	for i := range l.peaks {
		l.peaks[i] = 0
	}
	l.gain, l.peak, l.peakAge, l.delayPos, l.peakPos = 1, 0, 0, 0, 0
}

// finite replaces NaN and infinite values with silence.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clip(v, ceiling float64) float64 {
	if v > ceiling {
		return ceiling
	}
	if v < -ceiling {
		return -ceiling
	}
	return v
}
