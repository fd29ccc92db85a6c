package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TraceEvent captures one step of the conversion cycle for post-mortem
// analysis
type TraceEvent struct {
	EventType uint8  // Event type code
	Cycle     uint32 // Loop cycle the event belongs to
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtSample    = 1 // sample taken; v1 = dwell ns
	EvtMatch     = 2 // comparator tripped; v1 = code, v2 = steps
	EvtExhausted = 3 // ladder ran out; v1 = steps
	EvtDACWrite  = 4 // word framed; v1 = word, v2 = level
	EvtBusError  = 5 // HAL error; v1 = stage (see Stage*)
	EvtClipped   = 6 // level out of range; v1 = smoothed, v2 = level
	EvtTrap      = 7 // fatal trap; v1 = reason
)

// Stage codes for EvtBusError
const (
	StageSample = 1
	StageDAC    = 2
)

const (
	TraceRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Trace ring buffer (non-blocking, for post-mortem)
	traceRing     [TraceRingSize]TraceEvent
	traceRingHead uint8
	traceEnabled  bool = true
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
// Leave disabled in normal operation, a blocking writer stretches the cycle
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// SetTraceEnabled turns event capture on or off
func SetTraceEnabled(enabled bool) {
	traceEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTrace captures an event in the ring buffer
func RecordTrace(eventType uint8, cycle, value1, value2 uint32) {
	if !traceEnabled {
		return
	}
	idx := traceRingHead
	traceRing[idx] = TraceEvent{
		EventType: eventType,
		Cycle:     cycle,
		Value1:    value1,
		Value2:    value2,
	}
	traceRingHead = (idx + 1) % TraceRingSize
}

// TraceSnapshot returns the captured events, oldest first
func TraceSnapshot() []TraceEvent {
	events := make([]TraceEvent, 0, TraceRingSize)
	start := traceRingHead
	for i := uint8(0); i < TraceRingSize; i++ {
		evt := traceRing[(start+i)%TraceRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

func eventName(t uint8) string {
	switch t {
	case EvtSample:
		return "SAMPLE"
	case EvtMatch:
		return "MATCH"
	case EvtExhausted:
		return "EXHAUSTED"
	case EvtDACWrite:
		return "DAC_WRITE"
	case EvtBusError:
		return "BUS_ERROR!"
	case EvtClipped:
		return "CLIPPED"
	case EvtTrap:
		return "TRAP!"
	default:
		return "UNKNOWN"
	}
}

// DumpTraceRing outputs the trace ring buffer, ignoring the debug enable
// flag. Call after stopping the loop, never from inside a cycle.
func DumpTraceRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TRACE] === Trace Ring Dump ===")
	for _, evt := range TraceSnapshot() {
		debugPrintln("[TRACE] " + eventName(evt.EventType) +
			" cycle=" + utoa(evt.Cycle) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TRACE] === End Dump ===")
}

// ClearTraceRing clears the trace buffer
func ClearTraceRing() {
	for i := range traceRing {
		traceRing[i] = TraceEvent{}
	}
	traceRingHead = 0
}
