package colorsep

// Channel is the set of per-channel encodings a Frame can carry:
// 8-bit integer (0..255), 16-bit integer (0..32768) and 32-bit float
// (0.0..1.0). Render calls are monomorphized over the channel type, so the
// per-pixel hot loop never branches on depth.
type Channel interface {
	uint8 | uint16 | float32
}

// Pixel is one RGBA sample at a given channel depth. The red, green and blue
// channels are the only data the effect ever mutates; alpha is passed
// through untouched.
type Pixel[C Channel] struct {
	R, G, B, A C
}

// Convenience aliases for the three supported depths.
type (
	Pixel8  = Pixel[uint8]
	Pixel16 = Pixel[uint16]
	PixelF  = Pixel[float32]
)

// Depth identifies a channel encoding at runtime, for callers that carry a
// host-supplied format discriminator rather than a concrete frame type.
type Depth uint8

const (
	// Depth8 is 8-bit integer channels, 0..255.
	Depth8 Depth = iota
	// Depth16 is 16-bit integer channels, 0..32768.
	Depth16
	// DepthFloat is 32-bit float channels, 0.0..1.0.
	DepthFloat
)

// String returns the depth name.
func (d Depth) String() string {
	switch d {
	case Depth8:
		return "8-bit"
	case Depth16:
		return "16-bit"
	case DepthFloat:
		return "float"
	default:
		return "unknown"
	}
}

// maxChannel returns the maximum channel value for C as a float32.
func maxChannel[C Channel]() float32 {
	var zero C
	switch any(zero).(type) {
	case uint8:
		return 255
	case uint16:
		return 32768
	default:
		return 1
	}
}

// blend linearly interpolates from src toward dst by t in [0,1].
// Integer channels round to nearest; float channels are exact.
// blend(x, x, t) == x for any t, and blend(x, y, 0) == x,
// blend(x, y, 1) == y up to rounding.
func blend[C Channel](src, dst C, t float32) C {
	v := float32(src) + (float32(dst)-float32(src))*t
	if _, isFloat := any(src).(float32); !isFloat {
		v += 0.5
	}
	return C(v)
}

// transparent reports whether the pixel's alpha is at or below the minimum
// representable value: exactly 0 for integer channels, <= 0.0 for float.
func transparent[C Channel](p Pixel[C]) bool {
	return float32(p.A) <= 0
}
