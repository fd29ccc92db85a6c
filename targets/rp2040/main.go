//go:build rp2040

package main

import (
	"follower/core"
	"machine"
)

// debugOutput enables debug lines on USB, set with
// -ldflags "-X main.debugOutput=on". They share the port with telemetry.
var debugOutput = "off"

var loopPanics uint32

func main() {
	// Clear any watchdog state left over from before the reset
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	if debugOutput == "on" {
		core.SetDebugWriter(usbDebugWriter)
		core.SetDebugEnabled(true)
	}

	board := selectBoard()
	core.SetTrapHandler(func(core.TrapReason) {
		parkOutputs(board)
	})

	// Every delay below is converted at the expected clock, so check it
	// before anything else runs
	InitCycleCounter()
	core.MustClock(core.ClockCalibration{
		ExpectedHz: board.ExpectedHz,
		MeasuredHz: MeasureCPUHz(),
	})

	core.SetGPIODriver(NewRPGPIODriver())
	core.SetLadderPort(NewPIOLadderPort(0, 0, board.LadderBase))
	core.SetDelayer(newCycleDelayer(board.ExpectedHz))

	bus, err := configureDACBus(board.DACBus, core.DefaultDACBus)
	if err != nil {
		core.Trap(core.TrapPeripheral)
	}
	core.SetSPIBus(bus)

	cfg := board.config()
	hw := core.HardwareFromDrivers()
	if err := core.ConfigureHardware(cfg, hw); err != nil {
		core.Trap(core.TrapPeripheral)
	}

	follower := core.NewFollower(cfg, hw)
	reporter := core.NewReporter(usbSink)
	follower.SetReporter(reporter)
	reporter.Identify(board.Name)

	for {
		// Recover from panics so one bad cycle doesn't stop the output
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
					core.DebugPrintln("[LOOP] recovered panic")
				}
			}()
			follower.Cycle()
		}()
	}
}

// parkOutputs leaves the analog side quiet: gate open, DAC deselected
func parkOutputs(board Board) {
	gate := machine.Pin(board.Pins.SampleGate)
	gate.Configure(machine.PinConfig{Mode: machine.PinOutput})
	gate.Low()

	cs := machine.Pin(board.Pins.ChipSelect)
	cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cs.High()
}
