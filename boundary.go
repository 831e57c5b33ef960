package colorsep

import "math"

// Mode selects the boundary shape.
type Mode uint8

const (
	// ModeLine splits the frame along a straight edge through the anchor
	// point at a given angle.
	ModeLine Mode = iota
	// ModeCircle splits the frame along a circle of a given radius centered
	// on the anchor point.
	ModeCircle
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLine:
		return "line"
	case ModeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// EdgeWidth is the fixed half-width of the anti-aliasing transition band,
// measured perpendicular to the boundary: 1/sqrt(2) device pixels. The full
// band is 2*EdgeWidth wide. It is not user-configurable.
const EdgeWidth = 0.70710678118654752440

// Coverage thresholds: effective coverage at or below coverageEpsilon copies
// the source verbatim, at or above coverageFull writes the target color.
// Both shortcuts are bit-identical to the general blend at those values.
const (
	coverageEpsilon = 0.0001
	coverageFull    = 0.9999
)

// Boundary describes the separation boundary for one render call.
// Angle is in degrees (normalized modulo 360 at derivation time) and is used
// by ModeLine only; Radius is in device pixels and used by ModeCircle only.
// The anchor is in device pixels for both modes.
type Boundary struct {
	Mode    Mode
	AnchorX int
	AnchorY int
	Angle   float64
	Radius  float64
}

// geometry holds the per-call derived constants of a Boundary: trig terms,
// squared radii for the circle early-outs, and the downsample factors folded
// in. It is computed once per render call, shared read-only by all workers,
// and never mutated afterwards.
type geometry struct {
	mode Mode

	ax, ay   float32 // anchor, device pixels
	dsx, dsy float32 // downsample factors (effect units per device pixel)

	cs, sn  float32 // cos/sin of the normalized angle (line mode)
	radius  float32
	invEdge float32

	// Circle early-out bounds: squared distance below rMinus2 is provably
	// full coverage, above rPlus2 provably zero. rMinus2 is forced negative
	// when radius < EdgeWidth so the inner shortcut can never fire where the
	// analytic coverage is below 1 (degenerate radii included).
	rMinus2, rPlus2 float32
}

// derive computes the per-call geometry. The angle is normalized modulo 360
// degrees first, so 370 degrees behaves identically to 10 degrees.
// Nonpositive radii stay well-defined; a radius at or below -EdgeWidth
// covers nothing.
func (b Boundary) derive(dsx, dsy float64) geometry {
	rad := math.Mod(b.Angle, 360) * math.Pi / 180

	g := geometry{
		mode:    b.Mode,
		ax:      float32(b.AnchorX),
		ay:      float32(b.AnchorY),
		dsx:     float32(dsx),
		dsy:     float32(dsy),
		cs:      float32(math.Cos(rad)),
		sn:      float32(math.Sin(rad)),
		radius:  float32(b.Radius),
		invEdge: 1.0 / EdgeWidth,
	}

	// rPlus clamps at zero so a negative radius degenerates to "everything
	// outside" instead of a spuriously positive squared bound.
	rPlus := g.radius + EdgeWidth
	if rPlus < 0 {
		rPlus = 0
	}
	g.rPlus2 = rPlus * rPlus
	if rMinus := g.radius - EdgeWidth; rMinus > 0 {
		g.rMinus2 = rMinus * rMinus
	} else {
		g.rMinus2 = -1
	}
	return g
}

// local maps a device-pixel coordinate into effect-local space relative to
// the anchor, scaled by the downsample factors.
func (g *geometry) local(x, y float32) (fx, fy float32) {
	return (x - g.ax) * g.dsx, (y - g.ay) * g.dsy
}

// lineRot returns the signed distance from the line through the anchor,
// measured perpendicular to it: positive on the recolored side.
func (g *geometry) lineRot(fx, fy float32) float32 {
	return fx*g.cs + fy*g.sn
}

// lineCoverage maps a signed line distance to coverage in [0,1].
func (g *geometry) lineCoverage(rot float32) float32 {
	return clamp01((rot*g.invEdge + 1) * 0.5)
}

// circleCoverage maps a squared center distance to coverage in [0,1].
// The square root is only taken here, inside the transition band; callers
// use rMinus2/rPlus2 to skip it for pixels provably inside or outside.
func (g *geometry) circleCoverage(dist2 float32) float32 {
	dist := float32(math.Sqrt(float64(dist2)))
	return clamp01(((g.radius-dist)*g.invEdge + 1) * 0.5)
}

// Coverage evaluates the analytic coverage of a single device pixel: 0 keeps
// the original color, 1 is fully recolored, values between blend across the
// transition band. The row engine uses the incremental forms; this entry
// exists for hosts and tests that probe individual positions.
func (g *geometry) coverage(x, y float32) float32 {
	fx, fy := g.local(x, y)
	if g.mode == ModeLine {
		return g.lineCoverage(g.lineRot(fx, fy))
	}
	dist2 := fx*fx + fy*fy
	if dist2 >= g.rPlus2 {
		return 0
	}
	if dist2 <= g.rMinus2 {
		return 1
	}
	return g.circleCoverage(dist2)
}

// bbox returns the half-open device-pixel rectangle the circle boundary can
// affect, clipped to a width x height frame: anchor +- (radius+EdgeWidth)
// scaled back into device pixels. The downsample divisor is clamped away
// from zero so hosts passing degenerate factors cannot divide by zero.
func (g *geometry) bbox(width, height int) (x0, x1, y0, y1 int) {
	reach := math.Max(float64(g.radius)+EdgeWidth, 0)
	ex := reach / math.Max(float64(g.dsx), 1e-6)
	ey := reach / math.Max(float64(g.dsy), 1e-6)

	x0 = max(0, int(math.Floor(float64(g.ax)-ex)))
	x1 = min(width, int(math.Ceil(float64(g.ax)+ex))+1)
	y0 = max(0, int(math.Floor(float64(g.ay)-ey)))
	y1 = min(height, int(math.Ceil(float64(g.ay)+ey))+1)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, x1, y0, y1
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
