package monitor

import (
	"errors"
	"fmt"

	"follower/protocol"
)

var (
	ErrEmptyPayload   = errors.New("empty payload")
	ErrUnknownMessage = errors.New("unknown message id")
)

// Message is one decoded telemetry message
type Message interface {
	Name() string
	String() string
}

// Identify is sent once at boot
type Identify struct {
	Version string `json:"version"`
	Board   string `json:"board"`
}

func (Identify) Name() string { return "identify" }

func (m Identify) String() string {
	return fmt.Sprintf("identify version=%s board=%s", m.Version, m.Board)
}

// Conversion reports one loop cycle
type Conversion struct {
	Cycle uint32 `json:"cycle"`
	Found bool   `json:"found"`
	Code  uint8  `json:"code"`
	Level uint16 `json:"level"`
	Word  uint16 `json:"word"`
}

func (Conversion) Name() string { return "conversion" }

func (m Conversion) String() string {
	if !m.Found {
		return fmt.Sprintf("conversion cycle=%d found=0", m.Cycle)
	}
	return fmt.Sprintf("conversion cycle=%d found=1 code=%d level=%d word=0x%04x",
		m.Cycle, m.Code, m.Level, m.Word)
}

// Stats carries the loop counters
type Stats struct {
	Cycles    uint32 `json:"cycles"`
	Matches   uint32 `json:"matches"`
	Misses    uint32 `json:"misses"`
	Clipped   uint32 `json:"clipped"`
	BusErrors uint32 `json:"bus_errors"`
}

func (Stats) Name() string { return "stats" }

func (m Stats) String() string {
	return fmt.Sprintf("stats cycles=%d matches=%d misses=%d clipped=%d bus_errors=%d",
		m.Cycles, m.Matches, m.Misses, m.Clipped, m.BusErrors)
}

// Decode parses a frame payload: message id then arguments, all VLQ
func Decode(payload []byte) (Message, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	data := payload
	id, err := protocol.DecodeVLQUint(&data)
	if err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	switch id {
	case protocol.MsgIdentify:
		var m Identify
		if m.Version, err = protocol.DecodeVLQString(&data); err != nil {
			return nil, fmt.Errorf("identify version: %w", err)
		}
		if m.Board, err = protocol.DecodeVLQString(&data); err != nil {
			return nil, fmt.Errorf("identify board: %w", err)
		}
		return m, nil

	case protocol.MsgConversion:
		v, err := decodeUints(&data, 5)
		if err != nil {
			return nil, fmt.Errorf("conversion: %w", err)
		}
		return Conversion{
			Cycle: v[0],
			Found: v[1] != 0,
			Code:  uint8(v[2]),
			Level: uint16(v[3]),
			Word:  uint16(v[4]),
		}, nil

	case protocol.MsgStats:
		v, err := decodeUints(&data, 5)
		if err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
		return Stats{
			Cycles:    v[0],
			Matches:   v[1],
			Misses:    v[2],
			Clipped:   v[3],
			BusErrors: v[4],
		}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMessage, id)
}

func decodeUints(data *[]byte, n int) ([]uint32, error) {
	out := make([]uint32, n)
	for i := range out {
		v, err := protocol.DecodeVLQUint(data)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
