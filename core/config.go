package core

// Pins names the control lines the loop drives or polls.
type Pins struct {
	SampleGate GPIOPin // closes the transmission gate, active high
	Comparator GPIOPin // high when the ladder output exceeds the held sample
	ChipSelect GPIOPin // DAC chip-select, active low
}

// Config is the compile-time configuration of the follower. There is no
// runtime reconfiguration; targets build one at boot and hand it over.
type Config struct {
	Pins      Pins
	Timing    Timing
	Transform Transform

	// ReportEvery emits a conversion report every N cycles (0 disables).
	ReportEvery uint32

	// StatsEvery emits a stats report every N conversion reports (0 disables).
	StatsEvery uint32
}

// DefaultConfig returns bench-tuned timing and the stock transform.
// Pins are board specific and left zero.
func DefaultConfig() Config {
	return Config{
		Timing:    DefaultTiming(),
		Transform: DefaultTransform(),
	}
}

// applyDefaults fills in missing configuration values
func (c *Config) applyDefaults() {
	c.Timing.fill()
	// A zero multiplier means the transform was never set. An explicit
	// multiplier keeps its offset, including 0.
	if c.Transform.Multiplier == 0 {
		c.Transform.Multiplier = DefaultMultiplier
		if c.Transform.Offset == 0 {
			c.Transform.Offset = DefaultOffset
		}
	}
}
