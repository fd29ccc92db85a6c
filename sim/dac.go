package sim

import "time"

// DACSample is one word the simulated DAC latched.
type DACSample struct {
	At    time.Duration
	Word  uint16
	Level uint16
	Volts float64
}

// dacModel shifts bytes in while CS is low and latches on the rising edge.
// A word released before the settle time has elapsed since the last byte is
// counted as corrupt and not latched, which is what the real part does when
// the delay is cut.
type dacModel struct {
	vref       float64
	minSettle  time.Duration
	selected   bool
	shift      []byte
	lastByteAt time.Duration

	output  uint16
	history []DACSample
	corrupt int
	framing int
}

func (d *dacModel) chipSelect(low bool, now time.Duration) {
	if low {
		if d.selected {
			d.framing++ // asserted twice without a release
		}
		d.selected = true
		d.shift = d.shift[:0]
		return
	}
	if !d.selected {
		return
	}
	d.selected = false

	if len(d.shift) != 2 {
		d.framing++
		return
	}
	if now-d.lastByteAt < d.minSettle {
		d.corrupt++
		return
	}
	word := uint16(d.shift[0])<<8 | uint16(d.shift[1])
	if word>>12 != 0x1 {
		// Not a write to an active, unbuffered channel A
		d.framing++
		return
	}
	d.output = word & 0x0FFF
	d.history = append(d.history, DACSample{
		At:    now,
		Word:  word,
		Level: d.output,
		Volts: d.vref * float64(d.output) / 4096,
	})
}

func (d *dacModel) shiftIn(b byte, now time.Duration) {
	if !d.selected {
		return
	}
	d.shift = append(d.shift, b)
	d.lastByteAt = now
}
