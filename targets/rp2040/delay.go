//go:build rp2040

package main

import (
	"follower/core"
	"time"
)

// maxDelayChunk stays well inside one SysTick wrap
const maxDelayChunk = sysTickMask >> 1

// cycleDelayer busy-waits on the SysTick counter. It never yields, so the
// open-loop delays hold even while USB is busy.
type cycleDelayer struct {
	hz uint32
}

func newCycleDelayer(hz uint32) *cycleDelayer {
	return &cycleDelayer{hz: hz}
}

// Delay implements core.Delayer
func (c *cycleDelayer) Delay(d time.Duration) {
	cycles := core.DurationToCycles(d, c.hz)
	for cycles > 0 {
		chunk := cycles
		if chunk > maxDelayChunk {
			chunk = maxDelayChunk
		}
		start := cycleCount()
		for cyclesSince(start) < chunk {
		}
		cycles -= chunk
	}
}
