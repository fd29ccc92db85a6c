package core

import "time"

// Sampler closes the transmission gate long enough to charge the hold
// capacitor to the present input level. Timing is open loop: nothing
// confirms the charge completed.
type Sampler struct {
	gpio  GPIODriver
	delay Delayer
	gate  GPIOPin
	dwell time.Duration
}

// NewSampler creates a sampler on the given gate line.
func NewSampler(gpio GPIODriver, delay Delayer, gate GPIOPin, dwell time.Duration) *Sampler {
	return &Sampler{
		gpio:  gpio,
		delay: delay,
		gate:  gate,
		dwell: dwell,
	}
}

// TakeSample charges the hold node. The gate is always released, even when
// closing it reported an error.
func (s *Sampler) TakeSample() error {
	err := s.gpio.SetPin(s.gate, true)
	s.delay.Delay(s.dwell)
	if openErr := s.gpio.SetPin(s.gate, false); openErr != nil {
		return openErr
	}
	return err
}
