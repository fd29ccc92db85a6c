package core

import "tinygo.org/x/drivers"

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

// SPIConfig describes how the target must set up the DAC bus before the
// loop starts. Core code never reconfigures the bus.
type SPIConfig struct {
	Mode     SPIMode // SPI mode (0-3)
	Rate     uint32  // Clock rate in Hz
	LSBFirst bool    // Bit order; the DAC expects MSB first
}

// DefaultDACBus matches the MCP4921 wiring: master, MSB first, clock idle high.
var DefaultDACBus = SPIConfig{
	Mode: 2,
	Rate: 8000000,
}

// The serial bus is anything that looks like machine.SPI. Only Transfer is
// used by the DAC driver; Tx is part of the drivers.SPI contract.
var spiBus drivers.SPI

// SetSPIBus is called by target-specific code to register the DAC bus
func SetSPIBus(bus drivers.SPI) {
	spiBus = bus
}

// MustSPI returns the configured bus or panics if missing
func MustSPI() drivers.SPI {
	if spiBus == nil {
		panic("SPI bus not configured")
	}
	return spiBus
}
