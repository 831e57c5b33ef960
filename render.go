package colorsep

import "errors"

// ErrFrameMismatch indicates the source and destination frames differ in size.
var ErrFrameMismatch = errors.New("colorsep: frame sizes do not match")

// Params describes one render call. The same Params value works at any depth;
// Target is given in 8-bit terms and widened to the frame's depth internally.
type Params struct {
	// Boundary is the separation boundary.
	Boundary Boundary

	// DownsampleX and DownsampleY map device pixels to effect-local units,
	// letting a proxy-resolution render match a full-resolution one.
	// Values <= 0 are treated as 1.
	DownsampleX float64
	DownsampleY float64

	// Target is the recolor target for the covered region.
	Target Color8

	// Abort, when non-nil, is polled at row granularity. Returning true
	// cancels the render; the call then returns ErrAborted and the
	// destination may hold a mix of written and unwritten rows.
	Abort func() bool
}

// Status classifies a render outcome for hosts that dispatch on a closed set
// rather than matching error values.
type Status uint8

const (
	// StatusOK means the render completed.
	StatusOK Status = iota
	// StatusUnavailable means a requested path is not implemented
	// (for example a pipeline that does not support the depth).
	StatusUnavailable
	// StatusTransient means the render failed for a reason that may not
	// recur, such as a device error or invalid frames.
	StatusTransient
	// StatusAborted means the host's abort callback cancelled the render.
	StatusAborted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	case StatusTransient:
		return "transient failure"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// StatusOf maps an error from a render call onto the Status set.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrAborted):
		return StatusAborted
	case errors.Is(err, ErrFallback):
		return StatusUnavailable
	default:
		return StatusTransient
	}
}

type options struct {
	workers    int
	iterator   RowIterator
	nativeOnly bool
}

// Option configures a render call.
type Option func(*options)

// WithWorkers caps the number of row bands processed concurrently.
// n <= 0 (the default) uses one band per available CPU; n == 1 renders
// serially on the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRowIterator hands band scheduling to the host. The iterator replaces
// the internal worker pool for this call; WithWorkers still bounds how many
// bands it receives.
func WithRowIterator(it RowIterator) Option {
	return func(o *options) { o.iterator = it }
}

// WithNativeEngine bypasses any registered compiled pipeline for this call.
// Useful for verifying compiled output against the native engine, or for
// hosts that want the scalar path regardless of what is registered.
func WithNativeEngine() Option {
	return func(o *options) { o.nativeOnly = true }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Render8 runs the effect on 8-bit frames. dst and src must be the same
// size; passing the same frame for both renders in place.
//
// If a compiled pipeline is registered and claims the depth, it is tried
// first; on any pipeline failure other than an abort the call transparently
// falls back to the native engine, leaving no trace of the failed attempt in
// dst.
func Render8(dst, src *Frame[uint8], p Params, opts ...Option) error {
	return render(dst, src, p, newOptions(opts), Depth8,
		func(pl Pipeline) error { return pl.Render8(dst, src, p) })
}

// Render16 runs the effect on 16-bit frames (channel range 0..32768).
// See Render8 for the pipeline and fallback behavior.
func Render16(dst, src *Frame[uint16], p Params, opts ...Option) error {
	return render(dst, src, p, newOptions(opts), Depth16,
		func(pl Pipeline) error { return pl.Render16(dst, src, p) })
}

// RenderFloat runs the effect on float frames (channel range 0..1).
// See Render8 for the pipeline and fallback behavior.
func RenderFloat(dst, src *Frame[float32], p Params, opts ...Option) error {
	return render(dst, src, p, newOptions(opts), DepthFloat,
		func(pl Pipeline) error { return pl.RenderFloat(dst, src, p) })
}

func render[C Channel](dst, src *Frame[C], p Params, o options, depth Depth, compiled func(Pipeline) error) error {
	if dst == nil || src == nil {
		return errors.New("colorsep: nil frame")
	}
	if pl := ActivePipeline(); !o.nativeOnly && pl != nil && pl.CanRender(depth) {
		err := compiled(pl)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrAborted) {
			return err
		}
		Logger().Warn("compiled pipeline failed, using native engine",
			"pipeline", pl.Name(), "depth", depth.String(), "error", err)
	}
	return renderNative(dst, src, p, o)
}
