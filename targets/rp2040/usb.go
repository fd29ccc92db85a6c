//go:build rp2040

package main

import "machine"

const (
	// maxWriteFailures before the host is treated as gone
	maxWriteFailures = 10

	// probeEvery is how often a frame is tried while disconnected
	probeEvery = 64
)

var (
	framesSent               uint32
	framesDropped            uint32
	consecutiveWriteFailures uint32
	usbDisconnected          bool
)

// InitUSB initializes USB serial communication.
// On RP2040 machine.Serial is USB CDC, not a UART.
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
}

// usbSink writes a telemetry frame to USB. Once the host stops reading,
// frames are dropped until a write goes through again.
func usbSink(frame []byte) {
	if usbDisconnected && framesDropped%probeEvery != 0 {
		framesDropped++
		return
	}

	written := 0
	for written < len(frame) {
		n, err := machine.Serial.Write(frame[written:])
		if err != nil || n == 0 {
			framesDropped++
			consecutiveWriteFailures++
			if consecutiveWriteFailures > maxWriteFailures {
				usbDisconnected = true
				consecutiveWriteFailures = 0
			}
			return
		}
		written += n
	}
	consecutiveWriteFailures = 0
	usbDisconnected = false
	framesSent++
}

// usbDebugWriter sends debug lines over USB. Only used when debug output
// is enabled at build time.
func usbDebugWriter(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}
