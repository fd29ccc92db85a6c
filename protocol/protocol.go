// Package protocol implements the telemetry framing shared by the firmware
// and the host monitor. Frames follow the Klipper block layout:
// length, sequence, VLQ payload, CRC16, sync byte.
package protocol

// Version represents the follower firmware version
const Version = "0.3.0"

// Protocol constants
const (
	MessageMax     = 512 // Maximum output buffer size
	MessageMin     = 5   // Minimum message size (header + CRC)
	MessageHeader  = 2   // Message header size
	MessageTrailer = 3   // Message trailer size (CRC)

	// Message sequence masks
	MessageSeqMask  = 0x0F
	MessageSeqShift = 4
)

// Telemetry message IDs, first VLQ of every payload
const (
	MsgIdentify   = 1 // identify version=%s board=%s
	MsgConversion = 2 // conversion cycle=%u found=%c code=%c level=%hu word=%hu
	MsgStats      = 3 // stats cycles=%u matches=%u misses=%u clipped=%u bus_errors=%u
)

// MessageNames maps message IDs to their names
var MessageNames = map[uint16]string{
	MsgIdentify:   "identify",
	MsgConversion: "conversion",
	MsgStats:      "stats",
}
