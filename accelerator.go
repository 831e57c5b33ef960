package colorsep

import (
	"errors"
	"sync"
)

// ErrFallback indicates the compiled pipeline cannot handle this call.
// The caller should transparently fall back to the native engine.
var ErrFallback = errors.New("colorsep: falling back to native engine")

// ErrUnsupportedDepth indicates a pipeline does not implement the requested
// pixel depth. It unwraps to ErrFallback so depth gaps and runtime failures
// take the same fallback path.
var ErrUnsupportedDepth = errFallbackf("unsupported pixel depth")

// ErrNotInitialized indicates a pipeline was invoked before a successful
// Init, or after Close. It also unwraps to ErrFallback.
var ErrNotInitialized = errFallbackf("pipeline not initialized")

// ErrAborted indicates the host's abort callback cancelled the render.
// Partially written rows may remain in the destination.
var ErrAborted = errors.New("colorsep: render aborted")

func errFallbackf(msg string) error {
	return &fallbackError{msg: msg}
}

type fallbackError struct{ msg string }

func (e *fallbackError) Error() string { return "colorsep: " + e.msg }
func (e *fallbackError) Unwrap() error { return ErrFallback }

// Pipeline is an optional compiled rendering provider.
//
// When registered via RegisterPipeline, Render8/Render16/RenderFloat try the
// pipeline first. If it returns an error wrapping ErrFallback, or any other
// error, the call transparently falls back to the native row engine and the
// output is unaffected by the failed attempt.
//
// Implementations are provided by backend packages; users opt in via blank
// import:
//
//	import _ "github.com/gogpu/colorsep/pipeline/compiled"
type Pipeline interface {
	// Name returns the pipeline name (e.g., "compiled/gpu", "compiled/simd").
	Name() string

	// Init initializes pipeline resources. Called once during registration.
	Init() error

	// Close releases pipeline resources.
	Close()

	// CanRender reports whether the pipeline implements the given depth.
	// This is a fast check used to skip the pipeline entirely.
	CanRender(depth Depth) bool

	// Render8 runs the effect on 8-bit frames.
	// Returns an error wrapping ErrFallback if the call cannot be handled.
	Render8(dst, src *Frame[uint8], p Params) error

	// Render16 runs the effect on 16-bit frames.
	Render16(dst, src *Frame[uint16], p Params) error

	// RenderFloat runs the effect on float frames.
	RenderFloat(dst, src *Frame[float32], p Params) error
}

var (
	pipelineMu sync.RWMutex
	pipeline   Pipeline
)

// RegisterPipeline registers a compiled pipeline for optional accelerated
// rendering.
//
// Only one pipeline can be registered. Subsequent calls replace the previous
// one. The pipeline's Init() method is called during registration; if it
// fails, the pipeline is not registered and the error is returned.
//
// Typical usage via init() in backend packages:
//
//	func init() {
//	    colorsep.RegisterPipeline(compiled.New())
//	}
func RegisterPipeline(p Pipeline) error {
	if p == nil {
		return errors.New("colorsep: pipeline must not be nil")
	}
	if err := p.Init(); err != nil {
		return err
	}
	pipelineMu.Lock()
	old := pipeline
	pipeline = p
	pipelineMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// ActivePipeline returns the currently registered pipeline, or nil if none.
func ActivePipeline() Pipeline {
	pipelineMu.RLock()
	p := pipeline
	pipelineMu.RUnlock()
	return p
}
