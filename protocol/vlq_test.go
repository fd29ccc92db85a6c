package protocol

import (
	"bytes"
	"testing"
)

func TestVLQEncoding(t *testing.T) {
	testCases := []struct {
		value    int32
		expected []byte
	}{
		{0, []byte{0x00}},
		{95, []byte{0x5F}},
		{96, []byte{0x80, 0x60}},
		{405, []byte{0x83, 0x15}},
		{0x1195, []byte{0xA3, 0x15}},
		{1000000, []byte{0xBD, 0x84, 0x40}},
		{-1, []byte{0x7F}},
		{-32, []byte{0x60}},
		{-33, []byte{0xFF, 0x5F}},
	}

	for _, tc := range testCases {
		output := NewScratchOutput()
		EncodeVLQInt(output, tc.value)
		if !bytes.Equal(output.Result(), tc.expected) {
			t.Errorf("EncodeVLQInt(%d) = % x, want % x", tc.value, output.Result(), tc.expected)
		}

		data := tc.expected
		decoded, err := DecodeVLQInt(&data)
		if err != nil {
			t.Errorf("DecodeVLQInt(% x) failed: %v", tc.expected, err)
			continue
		}
		if decoded != tc.value || len(data) != 0 {
			t.Errorf("DecodeVLQInt(% x) = %d with %d bytes left, want %d", tc.expected, decoded, len(data), tc.value)
		}
	}
}

func TestVLQUintFullRange(t *testing.T) {
	for _, v := range []uint32{0xFFFF, 0xFFFFFFFF, 1 << 31} {
		output := NewScratchOutput()
		EncodeVLQUint(output, v)
		data := output.Result()
		got, err := DecodeVLQUint(&data)
		if err != nil || got != v {
			t.Errorf("uint %d decoded as %d, %v", v, got, err)
		}
	}
}

func TestVLQString(t *testing.T) {
	output := NewScratchOutput()
	EncodeVLQString(output, "rp2040")
	EncodeVLQString(output, "")

	data := output.Result()
	first, err := DecodeVLQString(&data)
	if err != nil || first != "rp2040" {
		t.Fatalf("first string = %q, %v", first, err)
	}
	second, err := DecodeVLQString(&data)
	if err != nil || second != "" {
		t.Fatalf("second string = %q, %v", second, err)
	}

	short := []byte{5, 'a', 'b'}
	if _, err := DecodeVLQString(&short); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}
}

func TestVLQBufferTooSmall(t *testing.T) {
	// Continuation byte but no following byte
	data := []byte{0x80}
	if _, err := DecodeVLQInt(&data); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}

	empty := []byte{}
	if _, err := DecodeVLQInt(&empty); err != ErrBufferTooSmall {
		t.Errorf("Expected ErrBufferTooSmall, got %v", err)
	}
}

func TestVLQTooLong(t *testing.T) {
	data := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x01}
	if _, err := DecodeVLQInt(&data); err != ErrInvalidVLQ {
		t.Errorf("Expected ErrInvalidVLQ, got %v", err)
	}
}
