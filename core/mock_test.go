package core

import (
	"errors"
	"time"
)

// Test pin assignment, same lines as the bench board
const (
	testGate       GPIOPin = 2
	testComparator GPIOPin = 1
	testCS         GPIOPin = 4
)

var testPins = Pins{
	SampleGate: testGate,
	Comparator: testComparator,
	ChipSelect: testCS,
}

var errMockBus = errors.New("mock bus error")

// benchEvent is one observed hardware interaction, in order
type benchEvent struct {
	kind  string // "set", "ladder", "read", "tx", "delay"
	pin   GPIOPin
	value uint32
	level bool
	d     time.Duration
}

// mockBench is a test implementation of every HAL interface. The comparator
// trips when the ladder code is at or above threshold.
type mockBench struct {
	pins      map[GPIOPin]bool
	outputs   map[GPIOPin]bool
	inputs    map[GPIOPin]bool
	ladder    uint8
	threshold int

	events []benchEvent
	sent   []byte

	failTransfer error
	failSet      map[GPIOPin]error
}

func newMockBench(threshold int) *mockBench {
	return &mockBench{
		pins:      make(map[GPIOPin]bool),
		outputs:   make(map[GPIOPin]bool),
		inputs:    make(map[GPIOPin]bool),
		threshold: threshold,
		failSet:   make(map[GPIOPin]error),
	}
}

func (m *mockBench) hardware() Hardware {
	return Hardware{GPIO: m, Ladder: m, SPI: m, Delay: m}
}

func (m *mockBench) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = true
	return nil
}

func (m *mockBench) ConfigureInput(pin GPIOPin) error {
	m.inputs[pin] = true
	return nil
}

func (m *mockBench) SetPin(pin GPIOPin, value bool) error {
	if err := m.failSet[pin]; err != nil {
		return err
	}
	m.pins[pin] = value
	m.events = append(m.events, benchEvent{kind: "set", pin: pin, level: value})
	return nil
}

func (m *mockBench) ReadPin(pin GPIOPin) bool {
	m.events = append(m.events, benchEvent{kind: "read", pin: pin})
	if pin == testComparator {
		return int(m.ladder) >= m.threshold
	}
	return m.pins[pin]
}

func (m *mockBench) Configure() error {
	return nil
}

func (m *mockBench) Write(code uint8) {
	m.ladder = code
	m.events = append(m.events, benchEvent{kind: "ladder", value: uint32(code)})
}

func (m *mockBench) Read() uint8 {
	return m.ladder
}

func (m *mockBench) Tx(w, r []byte) error {
	for i, b := range w {
		out, err := m.Transfer(b)
		if err != nil {
			return err
		}
		if i < len(r) {
			r[i] = out
		}
	}
	return nil
}

func (m *mockBench) Transfer(b byte) (byte, error) {
	if m.failTransfer != nil {
		return 0, m.failTransfer
	}
	m.sent = append(m.sent, b)
	m.events = append(m.events, benchEvent{kind: "tx", value: uint32(b)})
	return 0, nil
}

func (m *mockBench) Delay(d time.Duration) {
	m.events = append(m.events, benchEvent{kind: "delay", d: d})
}

func (m *mockBench) reset() {
	m.events = nil
	m.sent = nil
}

// countSets returns how many times pin was driven to level
func (m *mockBench) countSets(pin GPIOPin, level bool) int {
	n := 0
	for _, e := range m.events {
		if e.kind == "set" && e.pin == pin && e.level == level {
			n++
		}
	}
	return n
}

func (m *mockBench) countKind(kind string) int {
	n := 0
	for _, e := range m.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func newTestConverter(m *mockBench) *Converter {
	timing := DefaultTiming()
	dac := NewDAC(m, m, m, testCS, timing.DACSettle)
	m.pins[testCS] = true
	return NewConverter(m, m, m, dac, testComparator, timing.LadderSettle, DefaultTransform())
}
