package core

import "errors"

var (
	ErrClockUncalibrated   = errors.New("clock calibration missing")
	ErrClockOutOfTolerance = errors.New("clock frequency out of tolerance")
)

// erasedCalibration is what blank calibration storage reads back as
const erasedCalibration = 0xFFFFFFFF

// DefaultClockTolerancePPM bounds how far the measured clock may drift from
// the one the delays were converted for.
const DefaultClockTolerancePPM = 20000

// ClockCalibration is what the target knows about its system clock at boot
type ClockCalibration struct {
	ExpectedHz   uint32 // frequency the timing profile assumes
	MeasuredHz   uint32 // frequency reported by the clock tree
	TolerancePPM uint32 // 0 selects DefaultClockTolerancePPM
}

// CheckClock validates calibration data. Running the open-loop delays on an
// unknown clock would silently corrupt every conversion.
func CheckClock(cal ClockCalibration) error {
	if cal.ExpectedHz == 0 || cal.MeasuredHz == 0 ||
		cal.ExpectedHz == erasedCalibration || cal.MeasuredHz == erasedCalibration {
		return ErrClockUncalibrated
	}

	tol := cal.TolerancePPM
	if tol == 0 {
		tol = DefaultClockTolerancePPM
	}

	diff := uint64(cal.MeasuredHz) - uint64(cal.ExpectedHz)
	if cal.MeasuredHz < cal.ExpectedHz {
		diff = uint64(cal.ExpectedHz) - uint64(cal.MeasuredHz)
	}
	if diff*1000000 > uint64(cal.ExpectedHz)*uint64(tol) {
		return ErrClockOutOfTolerance
	}
	return nil
}

// TrapReason says why the firmware stopped
type TrapReason uint8

const (
	TrapNone TrapReason = iota
	TrapClockUncalibrated
	TrapClockOutOfTolerance
	TrapPeripheral // a bus or port failed to configure at boot
)

func (r TrapReason) String() string {
	switch r {
	case TrapNone:
		return "none"
	case TrapClockUncalibrated:
		return "clock_uncalibrated"
	case TrapClockOutOfTolerance:
		return "clock_out_of_tolerance"
	case TrapPeripheral:
		return "peripheral"
	default:
		return "unknown"
	}
}

var (
	trapHandler func(TrapReason)
	lastTrap    TrapReason
)

// SetTrapHandler registers a hook run once before the trap loop, e.g. to
// park outputs. A handler that never returns (or panics) ends the trap.
func SetTrapHandler(h func(TrapReason)) {
	trapHandler = h
}

// LastTrap returns the reason of the most recent trap
func LastTrap() TrapReason {
	return lastTrap
}

// Trap stops the firmware for good. There is no recovery short of a
// power cycle.
func Trap(reason TrapReason) {
	lastTrap = reason
	RecordTrace(EvtTrap, 0, uint32(reason), 0)
	DebugPrintln("[TRAP] " + reason.String())

	if trapHandler != nil {
		trapHandler(reason)
	}
	for {
	}
}

// MustClock traps unless the calibration is valid
func MustClock(cal ClockCalibration) {
	switch CheckClock(cal) {
	case nil:
		return
	case ErrClockOutOfTolerance:
		Trap(TrapClockOutOfTolerance)
	default:
		Trap(TrapClockUncalibrated)
	}
}
