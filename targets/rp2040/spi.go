//go:build rp2040

package main

import (
	"errors"
	"follower/core"
	"machine"

	"tinygo.org/x/drivers"
)

// spiBusConfig selects an SPI controller and its GPIO pins, named after
// Klipper's RP2040 bus definitions. The DAC has no data out, but the
// controller still claims an SDI pin.
type spiBusConfig struct {
	spi  *machine.SPI
	sck  machine.Pin
	sdo  machine.Pin
	sdi  machine.Pin
	name string
}

var rp2040SPIBuses = map[string]spiBusConfig{
	"spi0a": {spi: machine.SPI0, sck: machine.GPIO2, sdo: machine.GPIO3, sdi: machine.GPIO4, name: "spi0a"},
	"spi0c": {spi: machine.SPI0, sck: machine.GPIO18, sdo: machine.GPIO19, sdi: machine.GPIO16, name: "spi0c"},
	"spi1a": {spi: machine.SPI1, sck: machine.GPIO10, sdo: machine.GPIO11, sdi: machine.GPIO8, name: "spi1a"},
	"spi1b": {spi: machine.SPI1, sck: machine.GPIO14, sdo: machine.GPIO15, sdi: machine.GPIO12, name: "spi1b"},
}

var (
	errNoSPIBus      = errors.New("SPI bus not set")
	errInvalidSPIMode = errors.New("invalid SPI mode")
)

// configureDACBus sets up the hardware SPI controller as the DAC bus.
// machine.SPI already satisfies drivers.SPI.
func configureDACBus(bus spiBusConfig, cfg core.SPIConfig) (drivers.SPI, error) {
	if bus.spi == nil {
		return nil, errNoSPIBus
	}
	if cfg.Mode > 3 {
		return nil, errInvalidSPIMode
	}

	err := bus.spi.Configure(machine.SPIConfig{
		Frequency: cfg.Rate,
		SCK:       bus.sck,
		SDO:       bus.sdo,
		SDI:       bus.sdi,
		LSBFirst:  cfg.LSBFirst,
		Mode:      uint8(cfg.Mode),
	})
	if err != nil {
		return nil, err
	}
	return bus.spi, nil
}
