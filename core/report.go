package core

import "follower/protocol"

// FrameSink takes a finished telemetry frame. It must not block; a sink
// that can't keep up drops frames. The slice is reused after the call.
type FrameSink func(frame []byte)

// Reporter encodes telemetry frames between cycles
type Reporter struct {
	output    *protocol.ScratchOutput
	transport *protocol.Transport
	sink      FrameSink
}

// NewReporter creates a reporter writing frames to sink
func NewReporter(sink FrameSink) *Reporter {
	output := protocol.NewScratchOutput()
	return &Reporter{
		output:    output,
		transport: protocol.NewTransport(output),
		sink:      sink,
	}
}

// Identify announces the firmware version and board
// Format: identify version=%s board=%s
func (r *Reporter) Identify(board string) {
	r.transport.SendCommand(protocol.MsgIdentify, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQString(output, protocol.Version)
		protocol.EncodeVLQString(output, board)
	})
	r.flush()
}

// Conversion reports one cycle
// Format: conversion cycle=%u found=%c code=%c level=%hu word=%hu
func (r *Reporter) Conversion(cycle uint32, res Result) {
	found := uint32(0)
	if res.Found {
		found = 1
	}
	r.transport.SendCommand(protocol.MsgConversion, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, cycle)
		protocol.EncodeVLQUint(output, found)
		protocol.EncodeVLQUint(output, uint32(res.Code))
		protocol.EncodeVLQUint(output, uint32(res.Level))
		protocol.EncodeVLQUint(output, uint32(res.Word))
	})
	r.flush()
}

// Stats reports the loop counters
// Format: stats cycles=%u matches=%u misses=%u clipped=%u bus_errors=%u
func (r *Reporter) Stats(s Stats) {
	r.transport.SendCommand(protocol.MsgStats, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, s.Cycles)
		protocol.EncodeVLQUint(output, s.Matches)
		protocol.EncodeVLQUint(output, s.Misses)
		protocol.EncodeVLQUint(output, s.Clipped)
		protocol.EncodeVLQUint(output, s.BusErrors)
	})
	r.flush()
}

// Dropped returns the number of frames that didn't fit
func (r *Reporter) Dropped() uint32 {
	return r.transport.Dropped()
}

func (r *Reporter) flush() {
	result := r.output.Result()
	if len(result) > 0 && r.sink != nil {
		r.sink(result)
	}
	r.output.Reset()
}
