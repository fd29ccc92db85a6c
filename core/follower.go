package core

import "tinygo.org/x/drivers"

// Hardware bundles the collaborators the loop drives.
type Hardware struct {
	GPIO   GPIODriver
	Ladder LadderPort
	SPI    drivers.SPI
	Delay  Delayer
}

// HardwareFromDrivers collects the drivers registered by the target.
// It panics if any of them is missing.
func HardwareFromDrivers() Hardware {
	return Hardware{
		GPIO:   MustGPIO(),
		Ladder: MustLadder(),
		SPI:    MustSPI(),
		Delay:  MustDelay(),
	}
}

// Follower is the sample / search / drive loop. It is not safe for
// concurrent use; one goroutine owns it for its whole life.
type Follower struct {
	cfg       Config
	sampler   *Sampler
	converter *Converter
	dac       *DAC
	reporter  *Reporter

	stats   Stats
	reports uint32
}

// NewFollower wires the components. Pins and peripherals must already be
// configured (see ConfigureHardware).
func NewFollower(cfg Config, hw Hardware) *Follower {
	cfg.applyDefaults()

	dac := NewDAC(hw.SPI, hw.GPIO, hw.Delay, cfg.Pins.ChipSelect, cfg.Timing.DACSettle)
	return &Follower{
		cfg:       cfg,
		sampler:   NewSampler(hw.GPIO, hw.Delay, cfg.Pins.SampleGate, cfg.Timing.SampleDwell),
		converter: NewConverter(hw.Ladder, hw.GPIO, hw.Delay, dac, cfg.Pins.Comparator, cfg.Timing.LadderSettle, cfg.Transform),
		dac:       dac,
	}
}

// SetReporter attaches telemetry. nil detaches it.
func (f *Follower) SetReporter(r *Reporter) {
	f.reporter = r
}

// Cycle runs one sample and one ramp search. Nothing that goes wrong inside
// a cycle stops the loop; misses and bus errors only show up in Stats.
func (f *Follower) Cycle() Result {
	cycle := f.stats.Cycles

	sampleErr := f.sampler.TakeSample()
	RecordTrace(EvtSample, cycle, uint32(f.cfg.Timing.SampleDwell), 0)
	if sampleErr != nil {
		RecordTrace(EvtBusError, cycle, StageSample, 0)
	}

	res := f.converter.MakeRamp()
	f.trace(cycle, res)
	f.stats.record(res, sampleErr)

	f.report(cycle, res)
	return res
}

// Run cycles forever.
func (f *Follower) Run() {
	for {
		f.Cycle()
	}
}

// Stats returns a copy of the counters.
func (f *Follower) Stats() Stats {
	return f.stats
}

// State returns the converter's carried state.
func (f *Follower) State() ConverterState {
	return f.converter.State()
}

// Converter exposes the ramp converter, mainly for tests and tools.
func (f *Follower) Converter() *Converter {
	return f.converter
}

// DAC exposes the DAC driver.
func (f *Follower) DAC() *DAC {
	return f.dac
}

func (f *Follower) trace(cycle uint32, res Result) {
	if !res.Found {
		RecordTrace(EvtExhausted, cycle, uint32(res.Steps), 0)
		return
	}
	RecordTrace(EvtMatch, cycle, uint32(res.Code), uint32(res.Steps))
	if res.Clipped {
		RecordTrace(EvtClipped, cycle, uint32(res.Smoothed), uint32(res.Level))
	}
	if res.Err != nil {
		RecordTrace(EvtBusError, cycle, StageDAC, 0)
		DebugPrintln("[DAC] bus error: " + res.Err.Error())
		return
	}
	RecordTrace(EvtDACWrite, cycle, uint32(res.Word), uint32(res.Level))
	if debugEnabled {
		DebugPrintln("[DAC] code=" + utoa(uint32(res.Code)) + " word=" + hex16(res.Word))
	}
}

func (f *Follower) report(cycle uint32, res Result) {
	if f.reporter == nil || f.cfg.ReportEvery == 0 {
		return
	}
	if (cycle+1)%f.cfg.ReportEvery != 0 {
		return
	}
	f.reporter.Conversion(cycle, res)
	f.reports++
	if f.cfg.StatsEvery != 0 && f.reports%f.cfg.StatsEvery == 0 {
		f.reporter.Stats(f.stats)
	}
}

// ConfigureHardware performs the one-time pin setup the loop relies on:
// gate low, CS high, comparator as input, ladder parked at 0.
func ConfigureHardware(cfg Config, hw Hardware) error {
	pins := cfg.Pins
	if err := hw.GPIO.ConfigureOutput(pins.SampleGate); err != nil {
		return err
	}
	if err := hw.GPIO.SetPin(pins.SampleGate, false); err != nil {
		return err
	}
	if err := hw.GPIO.ConfigureInput(pins.Comparator); err != nil {
		return err
	}
	if err := hw.GPIO.ConfigureOutput(pins.ChipSelect); err != nil {
		return err
	}
	if err := hw.GPIO.SetPin(pins.ChipSelect, true); err != nil {
		return err
	}
	if err := hw.Ladder.Configure(); err != nil {
		return err
	}
	hw.Ladder.Write(0)
	return nil
}
