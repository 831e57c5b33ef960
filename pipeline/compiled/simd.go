// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compiled

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/gogpu/colorsep"
	"github.com/gogpu/colorsep/internal/parallel"
)

// kernel is the scalarized form of a render call's geometry, shared by the
// GPU uniform block and the CPU schedule.
type kernel struct {
	mode     uint32 // 0 line, 1 circle
	ax, ay   float32
	dsx, dsy float32
	cs, sn   float32
	radius   float32
	invEdge  float32
}

func deriveKernel(p colorsep.Params) kernel {
	dsx, dsy := p.DownsampleX, p.DownsampleY
	if dsx <= 0 {
		dsx = 1
	}
	if dsy <= 0 {
		dsy = 1
	}
	b := p.Boundary
	rad := math.Mod(b.Angle, 360) * math.Pi / 180

	k := kernel{
		ax:      float32(b.AnchorX),
		ay:      float32(b.AnchorY),
		dsx:     float32(dsx),
		dsy:     float32(dsy),
		cs:      float32(math.Cos(rad)),
		sn:      float32(math.Sin(rad)),
		radius:  float32(b.Radius),
		invEdge: 1.0 / colorsep.EdgeWidth,
	}
	if b.Mode == colorsep.ModeCircle {
		k.mode = 1
	}
	return k
}

var (
	simdPoolOnce sync.Once
	simdPool     *parallel.Pool
)

func pool() *parallel.Pool {
	simdPoolOnce.Do(func() { simdPool = parallel.NewPool(0) })
	return simdPool
}

// renderSIMD is the CPU schedule: coverage for each row is evaluated across
// SIMD lanes into a scratch buffer, then a scalar pass composites the row.
// Rows are split into bands across the worker pool, with the abort callback
// polled once per row.
func renderSIMD(dst, src *colorsep.Frame[uint8], params colorsep.Params) error {
	k := deriveKernel(params)
	target := params.Target
	w := src.Width

	var aborted atomic.Bool
	checkAbort := func() bool {
		if aborted.Load() {
			return true
		}
		if params.Abort != nil && params.Abort() {
			aborted.Store(true)
			return true
		}
		return false
	}

	bands := parallel.Bands(0, src.Height, pool().Workers())
	work := make([]func(), len(bands))
	for i, b := range bands {
		b := b
		work[i] = func() {
			cov := make([]float32, w)
			for y := b.Y0; y < b.Y1; y++ {
				if checkAbort() {
					return
				}
				coverageRow(cov, k, y, w)
				compositeRow(dst.Row(y), src.Row(y), cov, target)
			}
		}
	}
	if len(work) == 1 {
		work[0]()
	} else {
		pool().ExecuteAll(work)
	}

	if aborted.Load() {
		return colorsep.ErrAborted
	}
	return nil
}

// coverageRow fills cov[0:w] with the analytic coverage of row y.
// Both boundary shapes reduce to a per-lane ramp: the line's signed distance
// is affine in x, the circle's needs one square root per lane.
func coverageRow(cov []float32, k kernel, y, w int) {
	fy := (float32(y) - k.ay) * k.dsy

	ramp := hwy.Iota[float32]()
	vHalfInv := hwy.Set[float32](k.invEdge * 0.5)
	vHalf := hwy.Set[float32](0.5)
	vZero := hwy.Zero[float32]()
	vOne := hwy.Set[float32](1)

	if k.mode == 0 {
		rot0 := (0-k.ax)*k.dsx*k.cs + fy*k.sn
		step := k.dsx * k.cs
		vStep := hwy.Set[float32](step)
		hwy.ProcessWithTail[float32](w,
			func(off int) {
				base := hwy.Set[float32](rot0 + float32(off)*step)
				rot := hwy.FMA(ramp, vStep, base)
				c := hwy.Clamp(hwy.FMA(rot, vHalfInv, vHalf), vZero, vOne)
				hwy.Store(c, cov[off:])
			},
			func(off, count int) {
				mask := hwy.TailMask[float32](count)
				base := hwy.Set[float32](rot0 + float32(off)*step)
				rot := hwy.FMA(ramp, vStep, base)
				c := hwy.Clamp(hwy.FMA(rot, vHalfInv, vHalf), vZero, vOne)
				hwy.MaskStore(mask, c, cov[off:])
			},
		)
		return
	}

	fx0 := (0 - k.ax) * k.dsx
	fy2 := fy * fy
	vDsx := hwy.Set[float32](k.dsx)
	vFy2 := hwy.Set[float32](fy2)
	vRadius := hwy.Set[float32](k.radius)
	circleVec := func(off int) hwy.Vec[float32] {
		base := hwy.Set[float32](fx0 + float32(off)*k.dsx)
		fx := hwy.FMA(ramp, vDsx, base)
		dist := hwy.Sqrt(hwy.FMA(fx, fx, vFy2))
		sd := hwy.Sub(vRadius, dist)
		return hwy.Clamp(hwy.FMA(sd, vHalfInv, vHalf), vZero, vOne)
	}
	hwy.ProcessWithTail[float32](w,
		func(off int) {
			hwy.Store(circleVec(off), cov[off:])
		},
		func(off, count int) {
			mask := hwy.TailMask[float32](count)
			hwy.MaskStore(mask, circleVec(off), cov[off:])
		},
	)
}

// compositeRow blends the target into one row using precomputed coverage.
// Matches the native compositor: coverage scales by source alpha, alpha
// itself passes through, integer results round to nearest.
func compositeRow(dstRow, srcRow []colorsep.Pixel8, cov []float32, target colorsep.Color8) {
	const invMax = 1.0 / 255.0
	for x, s := range srcRow {
		eff := cov[x] * float32(s.A) * invMax
		switch {
		case eff <= 0.0001:
			dstRow[x] = s
		case eff >= 0.9999:
			dstRow[x] = colorsep.Pixel8{R: target.R, G: target.G, B: target.B, A: s.A}
		default:
			dstRow[x] = colorsep.Pixel8{
				R: uint8(float32(s.R) + (float32(target.R)-float32(s.R))*eff + 0.5),
				G: uint8(float32(s.G) + (float32(target.G)-float32(s.G))*eff + 0.5),
				B: uint8(float32(s.B) + (float32(target.B)-float32(s.B))*eff + 0.5),
				A: s.A,
			}
		}
	}
}
