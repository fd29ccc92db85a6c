//go:build rp2040

package main

import (
	"follower/core"
	"machine"
	"time"
)

// Board describes one revision of the follower board
type Board struct {
	Name string

	// Control lines
	Pins core.Pins

	// First of eight consecutive ladder pins, LSB first
	LadderBase machine.Pin

	// DAC bus
	DACBus spiBusConfig

	// System clock the timing profile was tuned for
	ExpectedHz uint32

	// Zero fields fall back to core.DefaultTiming
	Timing core.Timing
}

// boardRevision is set at link time:
//
//	tinygo flash -target pico -ldflags "-X main.boardRevision=rev-b" ./targets/rp2040
var boardRevision = "rev-a"

var boards = map[string]Board{
	// Breadboard prototype: ladder on GP8..GP15, DAC on spi0a
	"rev-a": {
		Name: "follower-rev-a",
		Pins: core.Pins{
			SampleGate: core.GPIOPin(machine.GPIO16),
			Comparator: core.GPIOPin(machine.GPIO17),
			ChipSelect: core.GPIOPin(machine.GPIO5),
		},
		LadderBase: machine.GPIO8,
		DACBus:     rp2040SPIBuses["spi0a"],
		ExpectedHz: 125000000,
	},

	// PCB revision: larger hold capacitor, slower ladder buffer
	"rev-b": {
		Name: "follower-rev-b",
		Pins: core.Pins{
			SampleGate: core.GPIOPin(machine.GPIO20),
			Comparator: core.GPIOPin(machine.GPIO21),
			ChipSelect: core.GPIOPin(machine.GPIO13),
		},
		LadderBase: machine.GPIO0,
		DACBus:     rp2040SPIBuses["spi1a"],
		ExpectedHz: 125000000,
		Timing: core.Timing{
			SampleDwell:  250 * time.Microsecond,
			LadderSettle: 2 * time.Microsecond,
		},
	},
}

// selectBoard returns the linked revision, or rev-a if the name is unknown
func selectBoard() Board {
	if b, ok := boards[boardRevision]; ok {
		return b
	}
	return boards["rev-a"]
}

// config builds the loop configuration for this board
func (b Board) config() core.Config {
	cfg := core.DefaultConfig()
	cfg.Pins = b.Pins
	if b.Timing.SampleDwell != 0 {
		cfg.Timing.SampleDwell = b.Timing.SampleDwell
	}
	if b.Timing.LadderSettle != 0 {
		cfg.Timing.LadderSettle = b.Timing.LadderSettle
	}
	if b.Timing.DACSettle != 0 {
		cfg.Timing.DACSettle = b.Timing.DACSettle
	}
	cfg.ReportEvery = 1000
	cfg.StatsEvery = 10
	return cfg
}
