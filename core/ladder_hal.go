package core

// LadderPort is the 8-bit output register that drives the resistor ladder.
// Every bit of the code appears on the port at once; the external network
// maps the code monotonically to a voltage.
type LadderPort interface {
	// Configure puts all eight lines into output mode
	Configure() error

	// Write drives the code onto the port
	Write(code uint8)

	// Read returns the code currently driven
	Read() uint8
}

var ladderPort LadderPort

// SetLadderPort is called by target-specific code to register the port.
func SetLadderPort(p LadderPort) {
	ladderPort = p
}

// MustLadder returns the configured port or panics if missing.
func MustLadder() LadderPort {
	if ladderPort == nil {
		panic("ladder port not configured")
	}
	return ladderPort
}
