package protocol

import (
	"bytes"
	"io"
	"testing"
)

// conversionFrame is the encoding of conversion cycle=3 found=1 code=50
// level=280 word=0x1118 as the first frame of a stream
var conversionFrame = []byte{
	0x0D, 0x10,
	0x02, 0x03, 0x01, 0x32, 0x82, 0x18, 0xA2, 0x18,
	0xA4, 0x3B, 0x7E,
}

func encodeConversion(tr *Transport) bool {
	return tr.SendCommand(MsgConversion, func(output OutputBuffer) {
		EncodeVLQUint(output, 3)
		EncodeVLQUint(output, 1)
		EncodeVLQUint(output, 50)
		EncodeVLQUint(output, 280)
		EncodeVLQUint(output, 0x1118)
	})
}

func TestTransportEncodeFrame(t *testing.T) {
	output := NewScratchOutput()
	tr := NewTransport(output)

	if !encodeConversion(tr) {
		t.Fatal("frame dropped")
	}
	if !bytes.Equal(output.Result(), conversionFrame) {
		t.Errorf("frame = % x\nwant   % x", output.Result(), conversionFrame)
	}
}

func TestTransportSequence(t *testing.T) {
	output := NewScratchOutput()
	tr := NewTransport(output)

	for i := 0; i < 17; i++ {
		pos := output.CurPosition()
		tr.SendCommand(MsgStats, nil)
		seq := output.Result()[pos+MessagePositionSeq]
		want := byte(MessageDest | (i & MessageSeqMask))
		if seq != want {
			t.Fatalf("frame %d: seq %#x, want %#x", i, seq, want)
		}
		output.Reset()
	}

	tr.Reset()
	tr.SendCommand(MsgStats, nil)
	if output.Result()[MessagePositionSeq] != MessageDest {
		t.Errorf("sequence not restarted after Reset")
	}
}

func TestTransportDropsOversizedFrame(t *testing.T) {
	output := NewScratchOutput()
	tr := NewTransport(output)

	ok := tr.SendCommand(MsgIdentify, func(output OutputBuffer) {
		EncodeVLQString(output, string(make([]byte, MessageLengthMax)))
	})
	if ok {
		t.Fatal("oversized frame accepted")
	}
	if output.CurPosition() != 0 {
		t.Errorf("oversized frame left %d bytes behind", output.CurPosition())
	}
	if tr.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", tr.Dropped())
	}

	// The sequence isn't consumed by a dropped frame
	encodeConversion(tr)
	if !bytes.Equal(output.Result(), conversionFrame) {
		t.Errorf("frame after drop = % x", output.Result())
	}
}

func TestHostTransportRoundTrip(t *testing.T) {
	output := NewScratchOutput()
	tr := NewTransport(output)
	encodeConversion(tr)
	tr.SendCommand(MsgStats, func(output OutputBuffer) {
		EncodeVLQUint(output, 1000)
	})

	// Garbage before the first frame, then the two frames
	stream := append([]byte{0x42, 0x00, 0x7E}, output.Result()...)
	host := NewHostTransport(bytes.NewReader(stream))

	msg, err := host.Next()
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if msg.Sequence != MessageDest || !bytes.Equal(msg.Payload, conversionFrame[2:10]) {
		t.Errorf("first frame = %+v", msg)
	}

	msg, err = host.Next()
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	data := msg.Payload
	id, _ := DecodeVLQUint(&data)
	v, _ := DecodeVLQUint(&data)
	if id != MsgStats || v != 1000 {
		t.Errorf("second frame id=%d v=%d", id, v)
	}

	if _, err := host.Next(); err != ErrNoFrame {
		t.Errorf("expected ErrNoFrame at end of stream, got %v", err)
	}
	if host.Gaps() != 0 {
		t.Errorf("gaps = %d", host.Gaps())
	}
}

func TestHostTransportDropsCorruptFrame(t *testing.T) {
	output := NewScratchOutput()
	tr := NewTransport(output)
	encodeConversion(tr)
	encodeConversion(tr)
	encodeConversion(tr)

	stream := append([]byte(nil), output.Result()...)
	// Flip a payload bit in the second frame
	stream[len(conversionFrame)+4] ^= 0x01

	host := NewHostTransport(bytes.NewReader(stream))
	var got []*Message
	for {
		msg, err := host.Next()
		if err != nil {
			break
		}
		got = append(got, msg)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 good frames, got %d", len(got))
	}
	if got[1].Sequence != MessageDest|2 {
		t.Errorf("second good frame seq %#x, want %#x", got[1].Sequence, MessageDest|2)
	}
	if host.Dropped() == 0 {
		t.Errorf("corrupt frame not counted")
	}
	if host.Gaps() != 1 {
		t.Errorf("gaps = %d, want 1", host.Gaps())
	}
}

// chunkReader returns one byte per Read to exercise partial frames
type chunkReader struct {
	data []byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func TestHostTransportPartialReads(t *testing.T) {
	host := NewHostTransport(&chunkReader{data: conversionFrame})
	msg, err := host.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if msg.Length != conversionFrame[0] {
		t.Errorf("length = %d", msg.Length)
	}
}
