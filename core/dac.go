// DAC driver for the MCP4921-class 12-bit serial DAC
// One 16-bit word per update, high byte first, framed by an active-low
// chip-select
package core

import (
	"time"

	"tinygo.org/x/drivers"
)

// DAC word layout
const (
	DACCmdWrite  = 0x1000 // command nibble 0x1: write, unbuffered, 1x gain, active
	DACLevelMask = 0x0FFF // magnitude field
	DACMaxLevel  = DACLevelMask
)

// DACState is the framing state of the driver
type DACState uint8

const (
	DACIdle     DACState = iota // CS deasserted
	DACSendHigh                 // CS asserted, high byte on the wire
	DACSendLow                  // CS asserted, low byte on the wire
	DACSettling                 // both bytes sent, waiting to release CS
)

func (s DACState) String() string {
	switch s {
	case DACIdle:
		return "idle"
	case DACSendHigh:
		return "send_high"
	case DACSendLow:
		return "send_low"
	case DACSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// PackWord combines the write command with the low 12 bits of level.
// Wider values are masked, never allowed into the command nibble.
func PackWord(level uint16) uint16 {
	return DACCmdWrite | (level & DACLevelMask)
}

// DAC owns framing on the serial bus
type DAC struct {
	bus    drivers.SPI
	gpio   GPIODriver
	delay  Delayer
	cs     GPIOPin
	settle time.Duration

	state    DACState
	lastWord uint16
}

// NewDAC creates a driver. The chip-select line must already be an output
// held high.
func NewDAC(bus drivers.SPI, gpio GPIODriver, delay Delayer, cs GPIOPin, settle time.Duration) *DAC {
	return &DAC{
		bus:    bus,
		gpio:   gpio,
		delay:  delay,
		cs:     cs,
		settle: settle,
	}
}

// Drive sends one level to the DAC. The sequence is fixed: assert CS,
// high byte, low byte, settle, release CS. CS is released even if a byte
// transfer fails; the first error is returned but nothing is retried.
func (d *DAC) Drive(level uint16) error {
	word := PackWord(level)
	d.lastWord = word

	// Select the DAC
	if err := d.gpio.SetPin(d.cs, false); err != nil {
		return err
	}

	d.state = DACSendHigh
	_, err := d.bus.Transfer(byte(word >> 8))

	if err == nil {
		d.state = DACSendLow
		_, err = d.bus.Transfer(byte(word & 0xFF))
	}

	d.state = DACSettling
	d.delay.Delay(d.settle)

	// Rising CS latches the word into the output stage
	csErr := d.gpio.SetPin(d.cs, true)
	d.state = DACIdle

	if err != nil {
		return err
	}
	return csErr
}

// State returns the current framing state.
func (d *DAC) State() DACState {
	return d.state
}

// Idle reports whether the driver is between frames.
func (d *DAC) Idle() bool {
	return d.state == DACIdle
}

// LastWord returns the most recently framed word.
func (d *DAC) LastWord() uint16 {
	return d.lastWord
}
