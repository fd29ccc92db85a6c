package protocol

import (
	"errors"
	"io"
)

// ErrNoFrame is returned by Next when the stream ended without a complete frame
var ErrNoFrame = errors.New("no complete frame")

// Message represents a parsed telemetry frame
type Message struct {
	Length   uint8
	Sequence uint8
	Payload  []byte // Frame data without header/trailer
	CRC      uint16
}

// HostTransport reads telemetry frames from the firmware. Garbage between
// frames is skipped by hunting for the sync byte; frames with a bad length,
// destination bits or CRC are dropped.
type HostTransport struct {
	port  io.Reader
	input *FifoBuffer
	chunk []byte

	isSynchronized bool
	lastSeq        int
	dropped        uint32
	gaps           uint32
}

// NewHostTransport creates a new host-side transport
func NewHostTransport(port io.Reader) *HostTransport {
	return &HostTransport{
		port:           port,
		input:          NewFifoBuffer(512),
		chunk:          make([]byte, 128),
		isSynchronized: true,
		lastSeq:        -1,
	}
}

// Next blocks until a valid frame is decoded or the port returns an error.
func (t *HostTransport) Next() (*Message, error) {
	for {
		if msg := t.parse(); msg != nil {
			return msg, nil
		}
		// parse leaves at most one partial frame behind, so there is
		// always room for a chunk
		n, err := t.port.Read(t.chunk[:min(len(t.chunk), t.input.Free())])
		if n > 0 {
			t.input.Write(t.chunk[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				if msg := t.parse(); msg != nil {
					return msg, nil
				}
				return nil, ErrNoFrame
			}
			return nil, err
		}
	}
}

// parse extracts at most one frame from the buffered input
func (t *HostTransport) parse() *Message {
	for t.input.Available() > 0 {
		data := t.input.Data()

		if !t.isSynchronized {
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				t.input.Pop(len(data))
				return nil
			}
			t.input.Pop(syncPos + 1)
			t.isSynchronized = true
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			t.input.Pop(1)
			continue
		}

		// Need at least minimum message length
		if len(data) < MessageLengthMin {
			return nil
		}

		msgLen := int(data[MessagePositionLen])
		seq := data[MessagePositionSeq]
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax || seq&^MessageSeqMask != MessageDest {
			t.desync()
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			return nil
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			t.desync()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			t.desync()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		t.input.Pop(msgLen)

		t.trackSequence(seq)
		return &Message{
			Length:   uint8(msgLen),
			Sequence: seq,
			Payload:  payload,
			CRC:      frameCRC,
		}
	}
	return nil
}

func (t *HostTransport) desync() {
	t.isSynchronized = false
	t.dropped++
	t.input.Pop(1)
}

func (t *HostTransport) trackSequence(seq uint8) {
	n := int(seq & MessageSeqMask)
	if t.lastSeq >= 0 && n != (t.lastSeq+1)&MessageSeqMask {
		t.gaps++
	}
	t.lastSeq = n
}

// Dropped returns the number of discarded frames
func (t *HostTransport) Dropped() uint32 {
	return t.dropped
}

// Gaps returns the number of sequence discontinuities seen; each one means
// the firmware dropped at least one frame.
func (t *HostTransport) Gaps() uint32 {
	return t.gaps
}
