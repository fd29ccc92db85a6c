package protocol

import (
	"bytes"
	"testing"
)

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	if scratch.CurPosition() != 3 {
		t.Errorf("Expected position 3, got %d", scratch.CurPosition())
	}

	scratch.Output([]byte{4, 5})
	scratch.Update(0, 99)
	if !bytes.Equal(scratch.Result(), []byte{99, 2, 3, 4, 5}) {
		t.Errorf("Unexpected result %v", scratch.Result())
	}

	if since := scratch.DataSince(2); !bytes.Equal(since, []byte{3, 4, 5}) {
		t.Errorf("DataSince(2) = %v", since)
	}
	if scratch.DataSince(10) != nil {
		t.Errorf("DataSince past end should be nil")
	}

	scratch.Truncate(1)
	if !bytes.Equal(scratch.Result(), []byte{99}) {
		t.Errorf("After Truncate(1), got %v", scratch.Result())
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 {
		t.Errorf("After reset, expected position 0, got %d", scratch.CurPosition())
	}
}

func TestScratchOutputOverflow(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output(make([]byte, MessageMax-1))
	scratch.Output([]byte{1, 2, 3})

	if scratch.CurPosition() != MessageMax {
		t.Errorf("Expected position %d, got %d", MessageMax, scratch.CurPosition())
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if n := fifo.Write([]byte{1, 2, 3, 4, 5}); n != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", n)
	}
	if fifo.Available() != 5 || fifo.Free() != 4 {
		t.Errorf("available=%d free=%d", fifo.Available(), fifo.Free())
	}

	fifo.Pop(2)
	if !bytes.Equal(fifo.Data(), []byte{3, 4, 5}) {
		t.Errorf("After Pop(2), data = %v", fifo.Data())
	}

	// Only capacity-1 bytes fit
	if n := fifo.Write([]byte{6, 7, 8, 9, 10, 11, 12}); n != 6 {
		t.Errorf("Expected to write 6 bytes, wrote %d", n)
	}

	fifo.Reset()
	if fifo.Available() != 0 {
		t.Errorf("After reset, expected empty buffer")
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Pop(3)
	fifo.Write([]byte{5, 6, 7})

	// Contents now straddle the end of the backing array
	if !bytes.Equal(fifo.Data(), []byte{4, 5, 6, 7}) {
		t.Errorf("Wrapped data = %v, want [4 5 6 7]", fifo.Data())
	}

	fifo.Pop(10)
	if fifo.Available() != 0 {
		t.Errorf("Pop past end should empty the buffer, %d left", fifo.Available())
	}
}
