package colorsep

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/colorsep/internal/parallel"
)

// RowIterator runs fn(i) for every i in [0, n) and returns when all calls
// have finished. Hosts with their own scheduling (a frame-server thread pool,
// a job system) install one via WithRowIterator; the engine then hands its
// row bands to the host instead of its internal pool. Calls of fn must be
// safe to run concurrently.
type RowIterator func(n int, fn func(i int))

var (
	defaultPoolOnce sync.Once
	defaultPool     *parallel.Pool
)

// sharedPool lazily starts the package-level worker pool. It lives for the
// process; per-call pools would pay goroutine startup on every frame.
func sharedPool() *parallel.Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = parallel.NewPool(0)
	})
	return defaultPool
}

// renderNative runs the effect on the native row engine. dst and src must be
// the same size; they may be the exact same frame (in-place) but must not
// partially overlap. Rows are partitioned into contiguous bands, one work
// item per band, and every band worker checks the abort flag once per row.
func renderNative[C Channel](dst, src *Frame[C], p Params, o options) error {
	if dst.Width != src.Width || dst.Height != src.Height {
		return ErrFrameMismatch
	}
	if dst.Width == 0 || dst.Height == 0 {
		return nil
	}

	dsx, dsy := p.DownsampleX, p.DownsampleY
	if dsx <= 0 {
		dsx = 1
	}
	if dsy <= 0 {
		dsy = 1
	}
	g := p.Boundary.derive(dsx, dsy)
	target := convertColor[C](p.Target)
	inPlace := sameBuffer(dst, src)

	e := &engine[C]{
		dst:     dst,
		src:     src,
		g:       &g,
		target:  target,
		inPlace: inPlace,
		abort:   p.Abort,
	}
	if g.mode == ModeCircle {
		e.x0, e.x1, e.y0, e.y1 = g.bbox(dst.Width, dst.Height)
	} else {
		e.x0, e.x1, e.y0, e.y1 = 0, dst.Width, 0, dst.Height
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	bands := parallel.Bands(0, dst.Height, workers)
	run := func(i int) { e.renderBand(bands[i]) }
	switch {
	case len(bands) == 1:
		run(0)
	case o.iterator != nil:
		o.iterator(len(bands), run)
	default:
		work := make([]func(), len(bands))
		for i := range bands {
			i := i
			work[i] = func() { run(i) }
		}
		sharedPool().ExecuteAll(work)
	}

	if e.aborted.Load() {
		return ErrAborted
	}
	return nil
}

// engine holds the per-call state shared read-only by all band workers.
// Only the aborted flag is written after construction.
type engine[C Channel] struct {
	dst, src *Frame[C]
	g        *geometry
	target   Pixel[C]
	inPlace  bool
	abort    func() bool

	// x0..y1 is the half-open rectangle the boundary can touch; rows and
	// columns outside it are verbatim copies.
	x0, x1, y0, y1 int

	aborted atomic.Bool
}

// checkAbort polls the host callback at row granularity. Once any worker
// observes an abort, every other worker stops at its next row.
func (e *engine[C]) checkAbort() bool {
	if e.aborted.Load() {
		return true
	}
	if e.abort != nil && e.abort() {
		e.aborted.Store(true)
		return true
	}
	return false
}

func (e *engine[C]) renderBand(b parallel.Band) {
	for y := b.Y0; y < b.Y1; y++ {
		if e.checkAbort() {
			return
		}
		if y < e.y0 || y >= e.y1 {
			e.copyRow(y)
			continue
		}
		if e.g.mode == ModeLine {
			e.renderLineRow(y)
		} else {
			e.renderCircleRow(y)
		}
	}
}

// copyRow transfers a row untouched by the boundary. In-place it is a no-op.
func (e *engine[C]) copyRow(y int) {
	if !e.inPlace {
		copy(e.dst.Row(y), e.src.Row(y))
	}
}

// fullRow composites every pixel of [x0, x1) at coverage 1. The compositor
// still scales by source alpha, so transparent pixels pass through.
func (e *engine[C]) fullRow(y, x0, x1 int) {
	srcRow := e.src.Row(y)
	dstRow := e.dst.Row(y)
	for x := x0; x < x1; x++ {
		compositePixel(&dstRow[x], srcRow[x], e.target, 1)
	}
}

func (e *engine[C]) renderLineRow(y int) {
	fx0, fy := e.g.local(0, float32(y))
	rot0 := e.g.lineRot(fx0, fy)
	step := e.g.dsx * e.g.cs

	// Signed distance is linear in x, so its range over the row is spanned
	// by the endpoints. A row entirely past either side of the transition
	// band needs no per-pixel work.
	rotEnd := rot0 + step*float32(e.dst.Width-1)
	lo, hi := rot0, rotEnd
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi <= -EdgeWidth {
		e.copyRow(y)
		return
	}
	if lo >= EdgeWidth {
		e.fullRow(y, 0, e.dst.Width)
		return
	}

	srcRow := e.src.Row(y)
	dstRow := e.dst.Row(y)
	rot := rot0
	for x := range srcRow {
		compositePixel(&dstRow[x], srcRow[x], e.target, e.g.lineCoverage(rot))
		rot += step
	}
}

func (e *engine[C]) renderCircleRow(y int) {
	// Columns outside the bounding box cannot be touched by the boundary.
	if !e.inPlace {
		srcRow := e.src.Row(y)
		dstRow := e.dst.Row(y)
		copy(dstRow[:e.x0], srcRow[:e.x0])
		copy(dstRow[e.x1:], srcRow[e.x1:])
	}
	if e.x0 >= e.x1 {
		return
	}

	g := e.g
	_, fy := g.local(0, float32(y))
	fy2 := fy * fy
	fx0 := (float32(e.x0) - g.ax) * g.dsx
	fxEnd := (float32(e.x1-1) - g.ax) * g.dsx

	// Squared distance over the row is a parabola in x with its minimum at
	// the anchor column: the row minimum is fy^2 when the anchor lies inside
	// the span, otherwise the nearer endpoint; the maximum is always the
	// farther endpoint.
	d2Start := fx0*fx0 + fy2
	d2End := fxEnd*fxEnd + fy2
	rowMin, rowMax := d2Start, d2End
	if rowMin > rowMax {
		rowMin, rowMax = rowMax, rowMin
	}
	if fx0 <= 0 && fxEnd >= 0 {
		rowMin = fy2
	}
	if rowMin >= g.rPlus2 {
		e.copySpan(y, e.x0, e.x1)
		return
	}
	if rowMax <= g.rMinus2 {
		e.fullRow(y, e.x0, e.x1)
		return
	}

	srcRow := e.src.Row(y)
	dstRow := e.dst.Row(y)

	// d2 advances by 2*fx*dsx + dsx^2 per pixel; the increment itself grows
	// by 2*dsx^2, so the inner loop carries no multiplies for the distance.
	dsx2 := g.dsx * g.dsx
	d2 := d2Start
	inc := 2*fx0*g.dsx + dsx2
	incStep := 2 * dsx2

	for x := e.x0; x < e.x1; x++ {
		s := srcRow[x]
		switch {
		case d2 >= g.rPlus2:
			dstRow[x] = s
		case d2 <= g.rMinus2:
			compositePixel(&dstRow[x], s, e.target, 1)
		case transparent(s):
			dstRow[x] = s
		default:
			compositePixel(&dstRow[x], s, e.target, g.circleCoverage(d2))
		}
		d2 += inc
		inc += incStep
	}
}

// copySpan copies the [x0, x1) span of a row. In-place it is a no-op.
func (e *engine[C]) copySpan(y, x0, x1 int) {
	if !e.inPlace {
		copy(e.dst.Row(y)[x0:x1], e.src.Row(y)[x0:x1])
	}
}
