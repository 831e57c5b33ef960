package colorsep

// Color8 is the effect's target color as configured by the host UI: plain
// 8-bit RGB. It is converted once per render call into the active depth's
// native range; the converted alpha is always the depth's maximum and is
// never written to the output (the compositor copies source alpha).
type Color8 struct {
	R, G, B uint8
}

// color conversion constants, shared with the compiled pipeline's shader.
const (
	scale8to16   = 32768.0 / 255.0
	scale8toF    = 1.0 / 255.0
	scale16to8   = 255.0 / 32768.0
	roundNearest = 0.5
)

// convertColor expands an 8-bit UI color into a native pixel at depth C:
// identity for 8-bit, round(c*32768/255) for 16-bit, c/255 for float.
func convertColor[C Channel](c Color8) Pixel[C] {
	var zero C
	switch any(zero).(type) {
	case uint8:
		return Pixel[C]{R: C(c.R), G: C(c.G), B: C(c.B), A: C(maxChannel[C]())}
	case uint16:
		return Pixel[C]{
			R: C(float32(c.R)*scale8to16 + roundNearest),
			G: C(float32(c.G)*scale8to16 + roundNearest),
			B: C(float32(c.B)*scale8to16 + roundNearest),
			A: C(maxChannel[C]()),
		}
	default:
		return Pixel[C]{
			R: C(float32(c.R) * scale8toF),
			G: C(float32(c.G) * scale8toF),
			B: C(float32(c.B) * scale8toF),
			A: C(maxChannel[C]()),
		}
	}
}

// Convert16 returns the 16-bit native value of an 8-bit channel.
// Exposed so hosts can display the converted target color.
func Convert16(c uint8) uint16 {
	return uint16(float32(c)*scale8to16 + roundNearest)
}

// Convert8 maps a 16-bit native channel back to 8-bit, rounding to nearest.
func Convert8(c uint16) uint8 {
	return uint8(float32(c)*scale16to8 + roundNearest)
}
