package core

import "time"

// Delayer busy-waits for a fixed duration. Implementations must not yield:
// the open-loop delays encode analog settling contracts and a scheduler
// switch would stretch them unpredictably.
type Delayer interface {
	Delay(d time.Duration)
}

// DelayFunc adapts a plain function to the Delayer interface.
type DelayFunc func(d time.Duration)

// Delay calls f(d).
func (f DelayFunc) Delay(d time.Duration) {
	f(d)
}

var delayer Delayer

// SetDelayer is called by target-specific code to register its busy-wait.
func SetDelayer(d Delayer) {
	delayer = d
}

// MustDelay returns the configured delayer or panics if missing.
func MustDelay() Delayer {
	if delayer == nil {
		panic("delayer not configured")
	}
	return delayer
}
