package core

import "time"

// ReferenceClockHz is the clock the delay cycle counts were tuned at.
const ReferenceClockHz = 16000000

// Reference busy-wait cycle counts measured on the bench at ReferenceClockHz.
const (
	SampleDwellCycles  = 2000 // hold capacitor charge time through the gate
	LadderSettleCycles = 21   // ladder output + comparator settling per step
	DACSettleCycles    = 10   // minimum that lets the DAC latch reliably
)

// Timing holds the three open-loop delays of the conversion cycle.
// Each one is an implicit hardware contract: shortening it silently
// corrupts results rather than failing.
type Timing struct {
	// SampleDwell is how long the sample gate stays closed so the hold
	// capacitor charges to the input voltage.
	SampleDwell time.Duration

	// LadderSettle is waited after every ladder write, before the
	// comparator is read, so analog transients don't trip it falsely.
	LadderSettle time.Duration

	// DACSettle is waited after the second byte, before chip-select is
	// released, so the receiver has shifted in the full word.
	DACSettle time.Duration
}

// DefaultTiming returns the bench-tuned delays converted from cycle counts.
func DefaultTiming() Timing {
	return Timing{
		SampleDwell:  CyclesToDuration(SampleDwellCycles, ReferenceClockHz),
		LadderSettle: CyclesToDuration(LadderSettleCycles, ReferenceClockHz),
		DACSettle:    CyclesToDuration(DACSettleCycles, ReferenceClockHz),
	}
}

// fill replaces zero fields with defaults.
func (t *Timing) fill() {
	def := DefaultTiming()
	if t.SampleDwell == 0 {
		t.SampleDwell = def.SampleDwell
	}
	if t.LadderSettle == 0 {
		t.LadderSettle = def.LadderSettle
	}
	if t.DACSettle == 0 {
		t.DACSettle = def.DACSettle
	}
}

// CyclesToDuration converts a cycle count at clockHz to a duration,
// rounding up so a converted delay is never shorter than requested.
func CyclesToDuration(cycles, clockHz uint32) time.Duration {
	if clockHz == 0 {
		return 0
	}
	ns := (uint64(cycles)*uint64(time.Second) + uint64(clockHz) - 1) / uint64(clockHz)
	return time.Duration(ns)
}

// DurationToCycles converts a duration to a cycle count at clockHz,
// rounding up.
func DurationToCycles(d time.Duration, clockHz uint32) uint32 {
	if d <= 0 {
		return 0
	}
	cycles := (uint64(d)*uint64(clockHz) + uint64(time.Second) - 1) / uint64(time.Second)
	return uint32(cycles)
}
