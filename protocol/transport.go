package protocol

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
	// MessageSeqMask is already defined in protocol.go
)

// Transport frames outgoing telemetry. It is write-only: the firmware never
// listens for commands, so there is no ACK/NAK or sequence negotiation.
type Transport struct {
	output       OutputBuffer
	nextSequence uint8
	dropped      uint32
}

// NewTransport creates a new Transport writing into output
func NewTransport(output OutputBuffer) *Transport {
	return &Transport{
		output:       output,
		nextSequence: MessageDest,
	}
}

// EncodeFrame encodes a frame with the given payload. Frames longer than
// MessageLengthMax, or that don't fit the output, are rolled back and
// counted as dropped; it returns false in that case.
func (t *Transport) EncodeFrame(frameData func(output OutputBuffer)) bool {
	cursor := t.output.CurPosition()

	// Write header (length placeholder and sequence)
	t.output.Output([]byte{0, t.nextSequence})

	// Write frame contents
	frameData(t.output)

	// Update length field
	changed := len(t.output.DataSince(cursor))
	msgLen := changed + MessageTrailerSize
	if msgLen > MessageLengthMax || cursor+msgLen > MessageMax {
		t.output.Truncate(cursor)
		t.dropped++
		return false
	}
	t.output.Update(cursor, uint8(msgLen))

	// Calculate and write CRC
	crc := CRC16(t.output.DataSince(cursor))
	t.output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	t.nextSequence = ((t.nextSequence + 1) & MessageSeqMask) | MessageDest
	return true
}

// SendCommand sends a message with arguments
func (t *Transport) SendCommand(msgID uint16, args func(output OutputBuffer)) bool {
	return t.EncodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(msgID))
		if args != nil {
			args(output)
		}
	})
}

// Dropped returns how many frames were discarded
func (t *Transport) Dropped() uint32 {
	return t.dropped
}

// Reset restarts the sequence
func (t *Transport) Reset() {
	t.nextSequence = MessageDest
}
