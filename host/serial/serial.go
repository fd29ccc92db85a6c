package serial

import (
	"io"
)

// Port represents a serial port interface
// The monitor only needs a byte stream, so tests can substitute a pipe
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC ignores this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is used when the follower is wired to a USB-UART bridge
// instead of the RP2040's own USB port
const DefaultBaud = 115200

// DefaultConfig returns a default configuration for the follower telemetry port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 500,
	}
}
