//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

// Cortex-M0+ SysTick, clocked from the processor
const (
	sysTickCSR = 0xE000E010
	sysTickRVR = 0xE000E014
	sysTickCVR = 0xE000E018

	sysTickEnable    = 1 << 0
	sysTickCLKSource = 1 << 2
	sysTickMask      = 0x00FFFFFF
)

var (
	timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

	stCSR = (*volatile.Register32)(unsafe.Pointer(uintptr(sysTickCSR)))
	stRVR = (*volatile.Register32)(unsafe.Pointer(uintptr(sysTickRVR)))
	stCVR = (*volatile.Register32)(unsafe.Pointer(uintptr(sysTickCVR)))
)

// calibrationWindowUs is how long MeasureCPUHz counts cycles for
const calibrationWindowUs = 1000

// InitCycleCounter starts SysTick as a free-running 24-bit down counter of
// processor cycles. No interrupt is enabled.
func InitCycleCounter() {
	stCSR.Set(0)
	stRVR.Set(sysTickMask)
	stCVR.Set(0)
	stCSR.Set(sysTickEnable | sysTickCLKSource)
}

// cycleCount reads the SysTick down counter
func cycleCount() uint32 {
	return stCVR.Get() & sysTickMask
}

// cyclesSince returns processor cycles elapsed since start, valid for
// intervals shorter than one counter wrap
func cyclesSince(start uint32) uint32 {
	return (start - cycleCount()) & sysTickMask
}

// hardwareMicros reads the low word of the 1 MHz timer, which runs from
// the crystal independently of the system PLL
func hardwareMicros() uint32 {
	return timerRAWL.Get()
}

// MeasureCPUHz counts processor cycles against the crystal timer. A PLL
// that came up wrong shows here, not in machine.CPUFrequency.
func MeasureCPUHz() uint32 {
	// Align to a timer edge
	t0 := hardwareMicros()
	for hardwareMicros() == t0 {
	}
	t0 = hardwareMicros()

	start := cycleCount()
	for hardwareMicros()-t0 < calibrationWindowUs {
	}
	return cyclesSince(start) * (1000000 / calibrationWindowUs)
}
