// Ramp converter
// Linear search over the resistor ladder against the held sample, one code
// per step, first comparator trip wins
package core

import "time"

// LadderCodes is the exclusive upper bound of the search.
const LadderCodes = 256

// ConverterState is the state carried between cycles.
type ConverterState struct {
	// LadderCode is the trial code; 0 whenever the converter is at rest.
	LadderCode uint8

	// PreviousLevel is the last code the comparator tripped on. It only
	// changes on a match, so a missed cycle smooths against the last
	// known-good value.
	PreviousLevel uint8
}

// Result describes one MakeRamp call.
type Result struct {
	Found    bool   // comparator tripped before the ladder ran out
	Code     uint8  // matching ladder code (valid if Found)
	Steps    uint16 // ladder writes performed during the search
	Smoothed uint8  // Average(Code, previous level)
	Level    uint16 // transformed level handed to the DAC
	Word     uint16 // word framed on the bus
	Clipped  bool   // transformed level did not fit 12 bits
	Err      error  // DAC bus error, if any
}

// Converter runs the ramp search and hands matches to the DAC.
type Converter struct {
	ladder     LadderPort
	gpio       GPIODriver
	delay      Delayer
	dac        *DAC
	comparator GPIOPin
	settle     time.Duration
	transform  Transform

	state ConverterState
}

// NewConverter creates a converter with previous level 0.
func NewConverter(ladder LadderPort, gpio GPIODriver, delay Delayer, dac *DAC, comparator GPIOPin, settle time.Duration, transform Transform) *Converter {
	return &Converter{
		ladder:     ladder,
		gpio:       gpio,
		delay:      delay,
		dac:        dac,
		comparator: comparator,
		settle:     settle,
		transform:  transform,
	}
}

// MakeRamp searches for the held sample's level. On a match the smoothed,
// transformed level goes to the DAC and the raw code becomes the previous
// level. Either way the ladder is parked at 0 on return.
func (c *Converter) MakeRamp() Result {
	var res Result

	c.state.LadderCode = 0
	for code := 0; code < LadderCodes; code++ {
		c.state.LadderCode = uint8(code)
		c.ladder.Write(c.state.LadderCode)
		res.Steps++

		c.delay.Delay(c.settle)

		if c.gpio.ReadPin(c.comparator) {
			res.Found = true
			res.Code = c.state.LadderCode
			break
		}
	}

	if res.Found {
		res.Smoothed = Average(res.Code, c.state.PreviousLevel)
		res.Level, res.Clipped = c.transform.Apply(res.Smoothed)
		res.Err = c.dac.Drive(res.Level)
		res.Word = c.dac.LastWord()
		c.state.PreviousLevel = res.Code
	}

	// Rest the ladder at its minimum between cycles
	c.state.LadderCode = 0
	c.ladder.Write(0)

	return res
}

// State returns a copy of the carried state.
func (c *Converter) State() ConverterState {
	return c.state
}

// SetPreviousLevel seeds the smoothing filter.
func (c *Converter) SetPreviousLevel(level uint8) {
	c.state.PreviousLevel = level
}
