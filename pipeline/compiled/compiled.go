// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compiled provides the compiled rendering pipeline for colorsep.
//
// The pipeline carries two schedules for the 8-bit depth: a GPU compute
// schedule built on wgpu/hal, and a CPU schedule that vectorizes coverage
// evaluation across each row and runs rows in parallel. The GPU schedule is
// probed once at registration; when no usable device exists, or a dispatch
// fails at call time, the CPU schedule takes over for that call. The 16-bit
// and float depths are not implemented here and always fall back to the
// native engine.
//
// Importing this package registers the pipeline:
//
//	import _ "github.com/gogpu/colorsep/pipeline/compiled"
package compiled

import (
	"errors"
	"sync"

	"github.com/gogpu/colorsep"
	"github.com/gogpu/gpucontext"
)

func init() {
	if err := colorsep.RegisterPipeline(New()); err != nil {
		colorsep.Logger().Warn("compiled pipeline registration failed", "error", err)
	}
}

// DeviceHandle provides GPU device access from the host application.
// It is an alias for gpucontext.DeviceProvider, so hosts already integrated
// with the gpucontext ecosystem can hand their device straight in.
type DeviceHandle = gpucontext.DeviceProvider

// Pipeline implements colorsep.Pipeline with GPU and CPU-vectorized
// schedules. The zero value is usable after Init; New is the conventional
// constructor.
type Pipeline struct {
	mu  sync.Mutex
	gpu *gpuRenderer // nil when the GPU schedule is unavailable
}

var _ colorsep.Pipeline = (*Pipeline)(nil)

// New returns an uninitialized pipeline. RegisterPipeline calls Init.
func New() *Pipeline { return &Pipeline{} }

// Name identifies the pipeline in fallback log lines.
func (p *Pipeline) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gpu != nil {
		return "compiled/gpu"
	}
	return "compiled/simd"
}

// Init probes the GPU schedule. A missing or unusable device is not an
// error: the CPU schedule needs no setup and the pipeline stays registered.
func (p *Pipeline) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	gpu, err := newGPURenderer()
	if err != nil {
		colorsep.Logger().Info("compiled pipeline: GPU schedule unavailable, using CPU schedule", "error", err)
		return nil
	}
	p.gpu = gpu
	return nil
}

// Close releases GPU resources. The pipeline remains usable on its CPU
// schedule afterwards.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gpu != nil {
		p.gpu.destroy()
		p.gpu = nil
	}
}

// SetDeviceProvider switches the GPU schedule to a shared device from the
// host. The provider must expose HalDevice() any and HalQueue() any
// returning wgpu/hal types; gogpu windows do.
func (p *Pipeline) SetDeviceProvider(provider any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	gpu, err := newGPURendererShared(provider)
	if err != nil {
		return err
	}
	if p.gpu != nil {
		p.gpu.destroy()
	}
	p.gpu = gpu
	return nil
}

// CanRender reports whether the pipeline implements the depth. Only the
// 8-bit depth is compiled; the others fall back to the native engine.
func (p *Pipeline) CanRender(depth colorsep.Depth) bool {
	return depth == colorsep.Depth8
}

// Render8 runs the effect on the GPU schedule when available, downgrading
// to the CPU schedule for this call if the dispatch fails. Aborts propagate;
// the GPU schedule never writes a partially updated frame.
func (p *Pipeline) Render8(dst, src *colorsep.Frame[uint8], params colorsep.Params) error {
	if dst.Width != src.Width || dst.Height != src.Height {
		return colorsep.ErrFrameMismatch
	}
	if dst.Width == 0 || dst.Height == 0 {
		return nil
	}

	p.mu.Lock()
	gpu := p.gpu
	p.mu.Unlock()

	if gpu != nil {
		err := gpu.render(dst, src, params)
		if err == nil || errors.Is(err, colorsep.ErrAborted) {
			return err
		}
		colorsep.Logger().Warn("compiled pipeline: GPU dispatch failed, using CPU schedule", "error", err)
	}
	return renderSIMD(dst, src, params)
}

// Render16 is not implemented by the compiled pipeline.
func (p *Pipeline) Render16(_, _ *colorsep.Frame[uint16], _ colorsep.Params) error {
	return colorsep.ErrUnsupportedDepth
}

// RenderFloat is not implemented by the compiled pipeline.
func (p *Pipeline) RenderFloat(_, _ *colorsep.Frame[float32], _ colorsep.Params) error {
	return colorsep.ErrUnsupportedDepth
}
