// Package sim models the analog side of the follower board: the gated hold
// capacitor, the resistor ladder, the comparator and the serial DAC. A Bench
// implements every core hardware interface on a virtual clock that only
// advances through busy-wait delays and bus transfers, so the conversion loop
// runs unmodified on the host.
package sim

import (
	"math"
	"time"

	"follower/core"
	"follower/x/mathx"
)

// Config describes the simulated board. Zero fields take defaults.
type Config struct {
	Pins  core.Pins
	Input Waveform

	// VRef is the ladder and DAC reference voltage.
	VRef float64

	// HoldTau is the RC time constant of the gate and hold capacitor.
	HoldTau time.Duration

	// HoldDroop is the leak of the hold node while the gate is open, in V/s.
	HoldDroop float64

	// LadderSettle is how long the ladder output takes to reach a new code.
	// The comparator sees the previously written code until then.
	LadderSettle time.Duration

	// ComparatorOffset is added to the held voltage before comparing.
	ComparatorOffset float64

	// DACSettle is the minimum chip-select hold after the last byte for the
	// DAC to latch the word.
	DACSettle time.Duration

	// ByteTime is how long one byte takes on the serial bus.
	ByteTime time.Duration

	// Ladder maps a code to a voltage. The default is linear, VRef*code/256.
	Ladder func(code uint8, vref float64) float64
}

// Defaults for the bench board
const (
	DefaultVRef         = 3.3
	DefaultHoldTau      = 20 * time.Microsecond
	DefaultLadderSettle = time.Microsecond
	DefaultDACSettle    = 500 * time.Nanosecond
	DefaultByteTime     = time.Microsecond
)

// LinearLadder is an ideal R-2R response.
func LinearLadder(code uint8, vref float64) float64 {
	return vref * float64(code) / 256
}

func (c *Config) applyDefaults() {
	if c.Input == nil {
		c.Input = DC(0)
	}
	if c.VRef == 0 {
		c.VRef = DefaultVRef
	}
	if c.HoldTau == 0 {
		c.HoldTau = DefaultHoldTau
	}
	if c.LadderSettle == 0 {
		c.LadderSettle = DefaultLadderSettle
	}
	if c.DACSettle == 0 {
		c.DACSettle = DefaultDACSettle
	}
	if c.ByteTime == 0 {
		c.ByteTime = DefaultByteTime
	}
	if c.Ladder == nil {
		c.Ladder = LinearLadder
	}
}

// Bench is the simulated board.
type Bench struct {
	cfg Config
	now time.Duration

	outputs map[core.GPIOPin]bool
	inputs  map[core.GPIOPin]bool
	levels  map[core.GPIOPin]bool

	gate bool
	hold float64

	ladderCode     uint8
	prevLadderCode uint8
	ladderAt       time.Duration
	ladderWrites   int

	dac dacModel
}

// NewBench creates a bench with the hold node discharged and the ladder at 0.
func NewBench(cfg Config) *Bench {
	cfg.applyDefaults()
	return &Bench{
		cfg:     cfg,
		outputs: make(map[core.GPIOPin]bool),
		inputs:  make(map[core.GPIOPin]bool),
		levels:  make(map[core.GPIOPin]bool),
		dac: dacModel{
			vref:      cfg.VRef,
			minSettle: cfg.DACSettle,
		},
	}
}

// Hardware returns the bench as the loop's collaborators.
func (b *Bench) Hardware() core.Hardware {
	return core.Hardware{GPIO: b, Ladder: b, SPI: b, Delay: b}
}

// Now returns simulated time since the bench was created.
func (b *Bench) Now() time.Duration { return b.now }

// Hold returns the voltage on the hold node.
func (b *Bench) Hold() float64 { return b.hold }

// Input returns the present input voltage.
func (b *Bench) Input() float64 { return b.cfg.Input(b.now) }

// LadderVolts returns the settled ladder output for code.
func (b *Bench) LadderVolts(code uint8) float64 {
	return b.cfg.Ladder(code, b.cfg.VRef)
}

// ExpectedCode returns the code an ideal search finds for v, and false if
// v is above the ladder's top code.
func (b *Bench) ExpectedCode(v float64) (uint8, bool) {
	for code := 0; code < core.LadderCodes; code++ {
		if b.LadderVolts(uint8(code)) > v+b.cfg.ComparatorOffset {
			return uint8(code), true
		}
	}
	return 0, false
}

// LadderWrites returns how many times the ladder port was written.
func (b *Bench) LadderWrites() int { return b.ladderWrites }

// DACHistory returns every word the DAC latched.
func (b *Bench) DACHistory() []DACSample { return b.dac.history }

// DACLevel returns the DAC's current output code.
func (b *Bench) DACLevel() uint16 { return b.dac.output }

// DACVolts returns the DAC's current output voltage.
func (b *Bench) DACVolts() float64 {
	return b.cfg.VRef * float64(b.dac.output) / 4096
}

// CorruptWords counts words released before the DAC could latch them.
func (b *Bench) CorruptWords() int { return b.dac.corrupt }

// FramingErrors counts chip-select misuse seen by the DAC.
func (b *Bench) FramingErrors() int { return b.dac.framing }

// ConfigureOutput implements core.GPIODriver.
func (b *Bench) ConfigureOutput(pin core.GPIOPin) error {
	b.outputs[pin] = true
	return nil
}

// ConfigureInput implements core.GPIODriver.
func (b *Bench) ConfigureInput(pin core.GPIOPin) error {
	b.inputs[pin] = true
	return nil
}

// SetPin implements core.GPIODriver.
func (b *Bench) SetPin(pin core.GPIOPin, value bool) error {
	b.levels[pin] = value
	switch pin {
	case b.cfg.Pins.SampleGate:
		b.gate = value
	case b.cfg.Pins.ChipSelect:
		b.dac.chipSelect(!value, b.now)
	}
	return nil
}

// ReadPin implements core.GPIODriver. The comparator line is high when the
// ladder output is above the held sample.
func (b *Bench) ReadPin(pin core.GPIOPin) bool {
	if pin != b.cfg.Pins.Comparator {
		return b.levels[pin]
	}
	code := b.ladderCode
	if b.now-b.ladderAt < b.cfg.LadderSettle {
		code = b.prevLadderCode
	}
	return b.LadderVolts(code) > b.hold+b.cfg.ComparatorOffset
}

// Configure implements core.LadderPort.
func (b *Bench) Configure() error {
	return nil
}

// Write implements core.LadderPort.
func (b *Bench) Write(code uint8) {
	b.prevLadderCode = b.ladderCode
	b.ladderCode = code
	b.ladderAt = b.now
	b.ladderWrites++
}

// Read implements core.LadderPort.
func (b *Bench) Read() uint8 {
	return b.ladderCode
}

// Tx implements drivers.SPI.
func (b *Bench) Tx(w, r []byte) error {
	for i, v := range w {
		out, _ := b.Transfer(v)
		if i < len(r) {
			r[i] = out
		}
	}
	return nil
}

// Transfer implements drivers.SPI. The DAC has no data out line, so the
// received byte is always 0.
func (b *Bench) Transfer(v byte) (byte, error) {
	b.advance(b.cfg.ByteTime)
	b.dac.shiftIn(v, b.now)
	return 0, nil
}

// Delay implements core.Delayer by advancing simulated time.
func (b *Bench) Delay(d time.Duration) {
	b.advance(d)
}

// advance moves time forward, charging or drooping the hold node.
func (b *Bench) advance(d time.Duration) {
	if d <= 0 {
		return
	}
	if b.gate {
		vin := b.cfg.Input(b.now)
		k := 1 - math.Exp(-float64(d)/float64(b.cfg.HoldTau))
		b.hold += (vin - b.hold) * k
	} else if b.cfg.HoldDroop != 0 {
		b.hold = mathx.Max(b.hold-b.cfg.HoldDroop*d.Seconds(), 0)
	}
	b.hold = mathx.Clamp(b.hold, 0, b.cfg.VRef)
	b.now += d
}
