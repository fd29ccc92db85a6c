package sim

import (
	"math"
	"time"
)

// Waveform gives the analog input voltage at a point in simulated time.
type Waveform func(t time.Duration) float64

// DC is a constant input.
func DC(v float64) Waveform {
	return func(time.Duration) float64 { return v }
}

// Sine oscillates around offset with the given amplitude and frequency.
func Sine(offset, amplitude, freqHz float64) Waveform {
	return func(t time.Duration) float64 {
		return offset + amplitude*math.Sin(2*math.Pi*freqHz*t.Seconds())
	}
}

// Step switches from lo to hi at the given time.
func Step(lo, hi float64, at time.Duration) Waveform {
	return func(t time.Duration) float64 {
		if t < at {
			return lo
		}
		return hi
	}
}

// Triangle ramps between lo and hi with the given period.
func Triangle(lo, hi float64, period time.Duration) Waveform {
	return func(t time.Duration) float64 {
		if period <= 0 {
			return lo
		}
		phase := float64(t%period) / float64(period)
		if phase < 0.5 {
			return lo + (hi-lo)*phase*2
		}
		return hi - (hi-lo)*(phase-0.5)*2
	}
}
