//go:build rp2040

package main

import (
	"errors"
	"follower/core"
	"machine"
)

// rp2040PinCount is GPIO0..GPIO29
const rp2040PinCount = 30

var errInvalidPin = errors.New("invalid GPIO pin")

// RPGPIODriver implements core.GPIODriver for the control lines. The
// ladder pins belong to PIO and never pass through here.
type RPGPIODriver struct {
	pins       [rp2040PinCount]machine.Pin
	configured uint32 // bit n set once GPIOn is configured
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{}
}

func (d *RPGPIODriver) configure(pin core.GPIOPin, mode machine.PinMode) error {
	if pin >= rp2040PinCount {
		return errInvalidPin
	}
	mp := machine.Pin(pin)
	mp.Configure(machine.PinConfig{Mode: mode})
	d.pins[pin] = mp
	d.configured |= 1 << pin
	return nil
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinOutput)
}

// ConfigureInput configures a pin as a floating input. The comparator
// drives its line push-pull.
func (d *RPGPIODriver) ConfigureInput(pin core.GPIOPin) error {
	return d.configure(pin, machine.PinInput)
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if pin >= rp2040PinCount || d.configured&(1<<pin) == 0 {
		return errInvalidPin
	}
	d.pins[pin].Set(value)
	return nil
}

// ReadPin reads the current pin state. Unconfigured pins read low.
func (d *RPGPIODriver) ReadPin(pin core.GPIOPin) bool {
	if pin >= rp2040PinCount || d.configured&(1<<pin) == 0 {
		return false
	}
	return d.pins[pin].Get()
}
