//go:build rp2040

package main

// PIO ladder port using tinygo-org/pio. Each FIFO word carries one code in
// its low byte; the state machine puts all eight bits on the pins in the
// same cycle, so the ladder never sees a half-written code.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

const (
	ladderWidth     = 8
	ladderPIOOrigin = 0
)

// buildLadderProgram creates the ladder PIO program using AssemblerV0
func buildLadderProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                    // 0: pull block
		asm.Out(rp2pio.OutDestPins, ladderWidth).Encode(), // 1: out pins, 8
		// .wrap
	}
}

// PIOLadderPort implements core.LadderPort on eight consecutive pins
type PIOLadderPort struct {
	pio    *rp2pio.PIO
	sm     rp2pio.StateMachine
	base   machine.Pin
	offset uint8
	code   uint8
}

// NewPIOLadderPort creates a ladder port on the given PIO block and state
// machine. base is the ladder LSB.
func NewPIOLadderPort(pioNum, smNum uint8, base machine.Pin) *PIOLadderPort {
	pioHW := rp2pio.PIO0
	if pioNum != 0 {
		pioHW = rp2pio.PIO1
	}
	return &PIOLadderPort{
		pio:  pioHW,
		sm:   pioHW.StateMachine(smNum),
		base: base,
	}
}

// Configure loads the program and leaves the port driving 0xFF
func (p *PIOLadderPort) Configure() error {
	p.sm.TryClaim()

	program := buildLadderProgram()
	offset, err := p.pio.AddProgram(program, ladderPIOOrigin)
	if err != nil {
		return err
	}
	p.offset = offset

	for i := machine.Pin(0); i < ladderWidth; i++ {
		(p.base + i).Configure(machine.PinConfig{Mode: p.pio.PinMode()})
	}

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(p.base, ladderWidth)

	// Shift right, explicit pull, 32-bit threshold; the low byte goes out
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)
	cfg.SetClkDivIntFrac(1, 0)

	p.sm.Init(offset, cfg)

	// Pin directions and levels only stick after Init
	p.sm.SetPindirsConsecutive(p.base, ladderWidth, true)
	p.sm.SetPinsConsecutive(p.base, ladderWidth, true)
	p.code = 0xFF

	p.sm.SetEnabled(true)
	return nil
}

// Write queues a code. The state machine latches it within two PIO cycles,
// well inside the ladder settle time.
func (p *PIOLadderPort) Write(code uint8) {
	for p.sm.IsTxFIFOFull() {
	}
	p.sm.TxPut(uint32(code))
	p.code = code
}

// Read returns the last code written
func (p *PIOLadderPort) Read() uint8 {
	return p.code
}
