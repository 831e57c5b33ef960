// Package colorsep renders a two-region color-separation effect over raster
// frames.
//
// # Overview
//
// A boundary — either a straight line through an anchor point at a given
// angle, or a circle of a given radius centered on the anchor — splits the
// frame into two regions. Pixels on one side keep their original color,
// pixels on the other side are recolored toward a target color, and the
// boundary itself is an analytic anti-aliased gradient rather than a hard
// cut. Source alpha is always preserved.
//
// # Quick Start
//
//	import "github.com/gogpu/colorsep"
//
//	frame := colorsep.NewFrame[uint8](1920, 1080)
//	// ... fill frame.Pix ...
//
//	err := colorsep.Render8(frame, frame, colorsep.Params{ // in-place is allowed
//	    Boundary: colorsep.Boundary{
//	        Mode:    colorsep.ModeCircle,
//	        AnchorX: 960,
//	        AnchorY: 540,
//	        Radius:  300,
//	    },
//	    Target: colorsep.Color8{R: 255},
//	})
//
// Three pixel depths are supported: 8-bit integer (0..255), 16-bit integer
// (0..32768) and 32-bit float (0.0..1.0), via Render8, Render16 and
// RenderFloat. The same coverage and blending semantics apply to all three.
//
// # Execution strategies
//
// By default frames are rendered by a row-parallel scalar engine backed by an
// internal worker pool. An optional compiled data-parallel pipeline — GPU
// compute via WebGPU when a device is available, SIMD-vectorized CPU rows
// otherwise — can be enabled with a blank import:
//
//	import _ "github.com/gogpu/colorsep/pipeline/compiled"
//
// The pipeline is probed once per process. Any pipeline failure, including
// per-frame GPU errors, falls back transparently to the native engine; output
// is identical either way, only throughput differs.
package colorsep
