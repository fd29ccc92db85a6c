package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"follower/core"
	"follower/host/monitor"
	"follower/sim"
)

var (
	cycles    = flag.Int("cycles", 50, "Number of loop cycles to run")
	input     = flag.Float64("input", 1.0, "Input level in volts (DC level, or centre of sine/triangle)")
	wave      = flag.String("wave", "dc", "Input waveform: dc, sine, step, triangle")
	amplitude = flag.Float64("amplitude", 0.5, "Peak deviation for sine, triangle and step")
	freq      = flag.Float64("freq", 200, "Frequency in Hz for sine and triangle")
	clip      = flag.String("clip", "saturate", "Clip policy: saturate or wrap")
	mult      = flag.Uint("mult", core.DefaultMultiplier, "Transform multiplier")
	offset    = flag.Uint("offset", core.DefaultOffset, "Transform offset")
	telemetry = flag.Bool("telemetry", false, "Decode the telemetry stream and print it after the run")
)

func main() {
	flag.Parse()

	w, err := waveform(*wave, *input, *amplitude, *freq)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	cfg := core.DefaultConfig()
	cfg.Pins = core.Pins{SampleGate: 0, Comparator: 1, ChipSelect: 2}
	cfg.Transform.Multiplier = uint16(*mult)
	cfg.Transform.Offset = uint16(*offset)
	switch *clip {
	case "saturate":
		cfg.Transform.Clip = core.ClipSaturate
	case "wrap":
		cfg.Transform.Clip = core.ClipWrap
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown clip policy %q\n", *clip)
		os.Exit(2)
	}

	bench := sim.NewBench(sim.Config{Pins: cfg.Pins, Input: w})
	hw := bench.Hardware()
	if err := core.ConfigureHardware(cfg, hw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var stream bytes.Buffer
	if *telemetry {
		cfg.ReportEvery = 1
		cfg.StatsEvery = 10
	}
	f := core.NewFollower(cfg, hw)
	if *telemetry {
		r := core.NewReporter(func(frame []byte) { stream.Write(frame) })
		f.SetReporter(r)
		r.Identify("sim")
	}

	fmt.Printf("%6s %10s %8s %8s %5s %6s %7s %s\n",
		"cycle", "t", "vin", "hold", "code", "level", "word", "vout")
	for i := 0; i < *cycles; i++ {
		vin := bench.Input()
		res := f.Cycle()
		if !res.Found {
			fmt.Printf("%6d %10s %8.4f %8.4f %5s\n", i, bench.Now().Round(time.Microsecond), vin, bench.Hold(), "-")
			continue
		}
		mark := ""
		if res.Clipped {
			mark = " clipped"
		}
		fmt.Printf("%6d %10s %8.4f %8.4f %5d %6d  0x%04x %.4f%s\n",
			i, bench.Now().Round(time.Microsecond), vin, bench.Hold(),
			res.Code, res.Level, res.Word, bench.DACVolts(), mark)
	}

	s := f.Stats()
	fmt.Printf("\ncycles=%d matches=%d misses=%d clipped=%d bus_errors=%d dac_writes=%d\n",
		s.Cycles, s.Matches, s.Misses, s.Clipped, s.BusErrors, s.DACWrites)
	fmt.Printf("latched=%d corrupt=%d framing=%d\n",
		len(bench.DACHistory()), bench.CorruptWords(), bench.FramingErrors())

	if *telemetry {
		fmt.Println("\n=== Telemetry ===")
		m := monitor.New(io.NopCloser(&stream), os.Stdout)
		if err := m.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func waveform(name string, level, amp, hz float64) (sim.Waveform, error) {
	switch name {
	case "dc":
		return sim.DC(level), nil
	case "sine":
		return sim.Sine(level, amp, hz), nil
	case "triangle":
		if hz <= 0 {
			return nil, fmt.Errorf("triangle needs a positive -freq")
		}
		period := time.Duration(float64(time.Second) / hz)
		return sim.Triangle(level-amp, level+amp, period), nil
	case "step":
		return sim.Step(level-amp, level+amp, 2*time.Millisecond), nil
	}
	return nil, fmt.Errorf("unknown waveform %q", name)
}
