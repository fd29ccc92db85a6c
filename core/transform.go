package core

import "follower/x/mathx"

// Stock scale and offset from ladder units to DAC units.
const (
	DefaultMultiplier = 5
	DefaultOffset     = 30
)

// ClipPolicy decides what happens to a transformed level that doesn't fit
// the DAC's 12-bit field.
type ClipPolicy uint8

const (
	// ClipSaturate clamps to DACMaxLevel.
	ClipSaturate ClipPolicy = iota
	// ClipWrap leaves the value alone; PackWord masks it to 12 bits.
	ClipWrap
)

func (p ClipPolicy) String() string {
	switch p {
	case ClipSaturate:
		return "saturate"
	case ClipWrap:
		return "wrap"
	default:
		return "unknown"
	}
}

// Transform maps a smoothed ladder code to a DAC level: v*Multiplier + Offset.
type Transform struct {
	Multiplier uint16
	Offset     uint16
	Clip       ClipPolicy
}

// DefaultTransform returns the stock transform with saturation.
func DefaultTransform() Transform {
	return Transform{
		Multiplier: DefaultMultiplier,
		Offset:     DefaultOffset,
		Clip:       ClipSaturate,
	}
}

// Apply returns the DAC level for v and whether it was out of range.
func (t Transform) Apply(v uint8) (level uint16, clipped bool) {
	raw := uint32(v)*uint32(t.Multiplier) + uint32(t.Offset)
	clipped = raw > DACMaxLevel
	if t.Clip == ClipSaturate {
		return uint16(mathx.Clamp(raw, 0, DACMaxLevel)), clipped
	}
	// Wrap: keep the low 16 bits, the DAC driver masks to 12
	return uint16(raw), clipped
}

// Average is the one-sample smoothing filter: the truncating mean of a and b.
func Average(a, b uint8) uint8 {
	return uint8((uint16(a) + uint16(b)) >> 1)
}
