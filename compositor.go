package colorsep

// compositePixel blends the target color over src by the effective coverage
// eff = coverage * srcAlpha/maxChannel and writes the result to dst. Alpha is
// always carried over unchanged, so premultiplied consumers downstream never
// see color pushed above the alpha ceiling on opaque-target blends.
//
// Effective coverage at or below coverageEpsilon snaps to src, at or above
// coverageFull snaps to target; in between the channels interpolate.
func compositePixel[C Channel](dst *Pixel[C], src Pixel[C], target Pixel[C], coverage float32) {
	eff := coverage * float32(src.A) * invMaxChannel[C]()
	switch {
	case eff <= coverageEpsilon:
		*dst = src
	case eff >= coverageFull:
		dst.R = target.R
		dst.G = target.G
		dst.B = target.B
		dst.A = src.A
	default:
		dst.R = blend(src.R, target.R, eff)
		dst.G = blend(src.G, target.G, eff)
		dst.B = blend(src.B, target.B, eff)
		dst.A = src.A
	}
}

// invMaxChannel returns 1/maxChannel for the depth, resolved at
// instantiation time.
func invMaxChannel[C Channel]() float32 {
	return 1.0 / maxChannel[C]()
}
