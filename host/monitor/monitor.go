// Package monitor reads follower telemetry from a serial port and prints it.
package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"follower/host/serial"
	"follower/protocol"
)

// Monitor represents a connection to a running follower
type Monitor struct {
	transport *protocol.HostTransport
	port      io.ReadCloser

	out     io.Writer
	json    bool
	verbose bool

	counts map[string]int
	errors int
}

// Option configures a Monitor
type Option func(*Monitor)

// WithJSON prints one JSON object per message instead of text
func WithJSON() Option {
	return func(m *Monitor) { m.json = true }
}

// WithVerbose prints frame sequence numbers and decode errors
func WithVerbose() Option {
	return func(m *Monitor) { m.verbose = true }
}

// New creates a monitor over an already open stream
func New(port io.ReadCloser, out io.Writer, opts ...Option) *Monitor {
	m := &Monitor{
		transport: protocol.NewHostTransport(port),
		port:      port,
		out:       out,
		counts:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect opens a serial port and returns a monitor reading from it
func Connect(cfg *serial.Config, out io.Writer, opts ...Option) (*Monitor, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	// Drop whatever piled up while nobody was listening
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port: %w", err)
	}
	return New(port, out, opts...), nil
}

// Close closes the underlying port
func (m *Monitor) Close() error {
	if m.port != nil {
		return m.port.Close()
	}
	return nil
}

// Run prints messages until the stream ends. A clean end of stream returns nil.
func (m *Monitor) Run() error {
	for {
		_, err := m.Step()
		if errors.Is(err, protocol.ErrNoFrame) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Step reads and prints one frame. Frames that fail to decode are counted
// and skipped, returning a nil message.
func (m *Monitor) Step() (Message, error) {
	frame, err := m.transport.Next()
	if err != nil {
		return nil, err
	}

	msg, err := Decode(frame.Payload)
	if err != nil {
		m.errors++
		if m.verbose {
			fmt.Fprintf(m.out, "seq=%d decode error: %v\n", frame.Sequence&protocol.MessageSeqMask, err)
		}
		return nil, nil
	}
	m.counts[msg.Name()]++

	if err := m.print(frame, msg); err != nil {
		return msg, err
	}
	return msg, nil
}

func (m *Monitor) print(frame *protocol.Message, msg Message) error {
	if m.json {
		line, err := json.Marshal(struct {
			Time    time.Time `json:"time"`
			Type    string    `json:"type"`
			Message Message   `json:"message"`
		}{time.Now(), msg.Name(), msg})
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", msg.Name(), err)
		}
		_, err = fmt.Fprintln(m.out, string(line))
		return err
	}
	if m.verbose {
		_, err := fmt.Fprintf(m.out, "[%d] %s\n", frame.Sequence&protocol.MessageSeqMask, msg)
		return err
	}
	_, err := fmt.Fprintln(m.out, msg)
	return err
}

// Summary describes what was seen so far
type Summary struct {
	Counts       map[string]int
	DecodeErrors int
	Dropped      uint32 // frames rejected by the framing layer
	Gaps         uint32 // sequence jumps, i.e. frames the firmware dropped
}

// Summary returns counters for the session
func (m *Monitor) Summary() Summary {
	counts := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		counts[k] = v
	}
	return Summary{
		Counts:       counts,
		DecodeErrors: m.errors,
		Dropped:      m.transport.Dropped(),
		Gaps:         m.transport.Gaps(),
	}
}

// PrintSummary writes the session counters
func (m *Monitor) PrintSummary() {
	s := m.Summary()
	fmt.Fprintln(m.out, "\n=== Telemetry Summary ===")
	for _, name := range []string{"identify", "conversion", "stats"} {
		fmt.Fprintf(m.out, "%-12s %d\n", name, s.Counts[name])
	}
	fmt.Fprintf(m.out, "%-12s %d\n", "decode_err", s.DecodeErrors)
	fmt.Fprintf(m.out, "%-12s %d\n", "dropped", s.Dropped)
	fmt.Fprintf(m.out, "%-12s %d\n", "seq_gaps", s.Gaps)
}
