package sim

import (
	"testing"
	"time"

	"follower/core"
)

var benchPins = core.Pins{SampleGate: 2, Comparator: 3, ChipSelect: 5}

func newBenchFollower(t *testing.T, bc Config, cfg core.Config) (*Bench, *core.Follower) {
	t.Helper()
	bc.Pins = benchPins
	cfg.Pins = benchPins
	b := NewBench(bc)
	if err := core.ConfigureHardware(cfg, b.Hardware()); err != nil {
		t.Fatalf("ConfigureHardware: %v", err)
	}
	return b, core.NewFollower(cfg, b.Hardware())
}

func TestBenchTracksDC(t *testing.T) {
	b, f := newBenchFollower(t, Config{Input: DC(1.0)}, core.DefaultConfig())

	want, ok := b.ExpectedCode(1.0)
	if !ok || want != 78 {
		t.Fatalf("ExpectedCode(1.0) = %d, %v; want 78", want, ok)
	}

	for i := 0; i < 10; i++ {
		res := f.Cycle()
		if !res.Found {
			t.Fatalf("cycle %d: no match", i)
		}
	}

	if got := f.State().PreviousLevel; got != want {
		t.Errorf("previous level = %d, want %d", got, want)
	}
	if got := b.DACLevel(); got != uint16(want)*5+30 {
		t.Errorf("DAC level = %d, want %d", got, uint16(want)*5+30)
	}
	if b.CorruptWords() != 0 || b.FramingErrors() != 0 {
		t.Errorf("bus errors: corrupt=%d framing=%d", b.CorruptWords(), b.FramingErrors())
	}
	if len(b.DACHistory()) != 10 {
		t.Errorf("latched %d words, want 10", len(b.DACHistory()))
	}
}

func TestBenchStep(t *testing.T) {
	at := 2 * time.Millisecond
	b, f := newBenchFollower(t, Config{Input: Step(0.5, 2.0, at)}, core.DefaultConfig())

	lo, _ := b.ExpectedCode(0.5)
	hi, _ := b.ExpectedCode(2.0)

	for b.Now() < at {
		f.Cycle()
	}
	if got := f.State().PreviousLevel; got != lo {
		t.Errorf("before step: previous level = %d, want %d", got, lo)
	}

	for i := 0; i < 5; i++ {
		f.Cycle()
	}
	if got := f.State().PreviousLevel; got != hi {
		t.Errorf("after step: previous level = %d, want %d", got, hi)
	}
	if got := b.DACLevel(); got != uint16(hi)*5+30 {
		t.Errorf("after step: DAC level = %d, want %d", got, uint16(hi)*5+30)
	}

	// The first conversion after the step is smoothed against the old level
	var mid bool
	for _, s := range b.DACHistory() {
		if s.Level > uint16(lo)*5+30 && s.Level < uint16(hi)*5+30 {
			mid = true
		}
	}
	if !mid {
		t.Error("no smoothed intermediate level seen across the step")
	}
}

func TestBenchOverRange(t *testing.T) {
	b, f := newBenchFollower(t, Config{Input: DC(3.3)}, core.DefaultConfig())
	before := b.LadderWrites()

	res := f.Cycle()
	if res.Found {
		t.Fatalf("unexpected match at code %d", res.Code)
	}
	// 256 trial codes plus the park at 0
	if got := b.LadderWrites() - before; got != core.LadderCodes+1 {
		t.Errorf("ladder writes = %d, want %d", got, core.LadderCodes+1)
	}
	if b.Read() != 0 {
		t.Errorf("ladder left at %d", b.Read())
	}
	if len(b.DACHistory()) != 0 {
		t.Errorf("DAC written on a miss: %v", b.DACHistory())
	}
}

func TestBenchShortDACSettle(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Timing.DACSettle = 100 * time.Nanosecond
	b, f := newBenchFollower(t, Config{Input: DC(1.0)}, cfg)

	for i := 0; i < 3; i++ {
		f.Cycle()
	}
	if b.CorruptWords() != 3 {
		t.Errorf("corrupt words = %d, want 3", b.CorruptWords())
	}
	if len(b.DACHistory()) != 0 {
		t.Errorf("DAC latched %d words despite short settle", len(b.DACHistory()))
	}
}

func TestBenchShortLadderSettle(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Timing.LadderSettle = 100 * time.Nanosecond
	b, f := newBenchFollower(t, Config{Input: DC(1.0)}, cfg)

	want, _ := b.ExpectedCode(1.0)
	f.Cycle()
	res := f.Cycle()

	// The comparator still sees the previous code, so the search overshoots by one
	if !res.Found || res.Code != want+1 {
		t.Errorf("code = %d (found %v), want %d", res.Code, res.Found, want+1)
	}
}

func TestBenchHoldDroop(t *testing.T) {
	b := NewBench(Config{Pins: benchPins, Input: DC(2.0), HoldDroop: 1000})

	b.SetPin(benchPins.SampleGate, true)
	b.Delay(time.Millisecond)
	b.SetPin(benchPins.SampleGate, false)
	held := b.Hold()
	if held < 1.99 {
		t.Fatalf("hold = %.3f after 1ms, want ~2.0", held)
	}

	b.Delay(time.Millisecond)
	if got := b.Hold(); got > held-0.9 || got < held-1.1 {
		t.Errorf("hold after droop = %.3f, want ~%.3f", got, held-1)
	}
}

func TestBenchFraming(t *testing.T) {
	b := NewBench(Config{Pins: benchPins})

	// Single byte then release
	b.SetPin(benchPins.ChipSelect, false)
	b.Transfer(0x10)
	b.Delay(time.Microsecond)
	b.SetPin(benchPins.ChipSelect, true)

	// Wrong command nibble
	b.SetPin(benchPins.ChipSelect, false)
	b.Tx([]byte{0x30, 0x00}, nil)
	b.Delay(time.Microsecond)
	b.SetPin(benchPins.ChipSelect, true)

	// Bytes with CS high are ignored
	b.Transfer(0x1F)

	if b.FramingErrors() != 2 {
		t.Errorf("framing errors = %d, want 2", b.FramingErrors())
	}

	b.SetPin(benchPins.ChipSelect, false)
	b.Tx([]byte{0x1A, 0xBC}, nil)
	b.Delay(time.Microsecond)
	b.SetPin(benchPins.ChipSelect, true)
	if b.DACLevel() != 0xABC {
		t.Errorf("DAC level = %#x, want 0xabc", b.DACLevel())
	}
}
