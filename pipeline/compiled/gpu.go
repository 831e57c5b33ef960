// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compiled

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/colorsep"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

//go:embed shaders/coverage.wgsl
var coverageShaderWGSL string

// configWords is the size of the shader Config uniform in 32-bit words.
const configWords = 16

// gpuRenderer owns the compute pipeline for the GPU schedule. Buffers are
// created per call; frames vary in size and the dispatch is a single pass,
// so there is nothing worth caching between calls.
type gpuRenderer struct {
	instance hal.Instance // nil when the device is shared
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	shared bool
}

// newGPURenderer creates a standalone renderer on the first usable Vulkan
// adapter and validates it with a one-pixel dispatch.
func newGPURenderer() (*gpuRenderer, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	r := &gpuRenderer{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}
	if err := r.setup(); err != nil {
		r.destroy()
		return nil, err
	}
	colorsep.Logger().Info("compiled pipeline: GPU schedule ready", "adapter", selected.Info.Name)
	return r, nil
}

// newGPURendererShared builds a renderer on a device owned by the host.
// The provider must expose HalDevice() any and HalQueue() any.
func newGPURendererShared(provider any) (*gpuRenderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("compiled: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("compiled: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("compiled: provider HalQueue is not hal.Queue")
	}

	r := &gpuRenderer{device: device, queue: queue, shared: true}
	if err := r.setup(); err != nil {
		r.destroy()
		return nil, err
	}
	colorsep.Logger().Info("compiled pipeline: GPU schedule on shared device")
	return r, nil
}

// setup compiles the shader and creates the pipeline, then smoke-tests the
// whole dispatch chain on a one-pixel frame so a broken driver is caught at
// registration instead of on the first real call.
func (r *gpuRenderer) setup() error {
	if err := r.createPipeline(); err != nil {
		return err
	}
	dst := colorsep.NewFrame[uint8](1, 1)
	src := colorsep.NewFrame[uint8](1, 1)
	src.Set(0, 0, colorsep.Pixel8{R: 1, G: 2, B: 3, A: 255})
	if err := r.render(dst, src, colorsep.Params{}); err != nil {
		return fmt.Errorf("smoke dispatch: %w", err)
	}
	return nil
}

func (r *gpuRenderer) createPipeline() error {
	spirvBytes, err := naga.Compile(coverageShaderWGSL)
	if err != nil {
		return fmt.Errorf("compile coverage shader: %w", err)
	}
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}

	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "coverage",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	r.shader = shader

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "coverage_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "coverage_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	pipeline, err := r.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "coverage_pipeline", Layout: r.pipeLayout,
		Compute: hal.ComputeState{Module: r.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	r.pipeline = pipeline
	return nil
}

func (r *gpuRenderer) destroy() {
	if r.device != nil {
		if r.pipeline != nil {
			r.device.DestroyComputePipeline(r.pipeline)
			r.pipeline = nil
		}
		if r.pipeLayout != nil {
			r.device.DestroyPipelineLayout(r.pipeLayout)
			r.pipeLayout = nil
		}
		if r.bindLayout != nil {
			r.device.DestroyBindGroupLayout(r.bindLayout)
			r.bindLayout = nil
		}
		if r.shader != nil {
			r.device.DestroyShaderModule(r.shader)
			r.shader = nil
		}
	}
	if !r.shared {
		if r.device != nil {
			r.device.Destroy()
		}
		if r.instance != nil {
			r.instance.Destroy()
		}
	}
	r.device = nil
	r.queue = nil
	r.instance = nil
}

// packConfig serializes the shader Config uniform.
func packConfig(k kernel, width, height int, target colorsep.Color8) []byte {
	out := make([]byte, configWords*4)
	le := binary.LittleEndian
	le.PutUint32(out[0:], uint32(width))
	le.PutUint32(out[4:], uint32(height))
	le.PutUint32(out[8:], uint32(k.mode))
	floats := []float32{
		k.ax, k.ay, k.dsx, k.dsy,
		k.cs, k.sn, k.radius, k.invEdge,
		float32(target.R), float32(target.G), float32(target.B), 0,
	}
	for i, f := range floats {
		le.PutUint32(out[16+i*4:], math.Float32bits(f))
	}
	return out
}

// packFrame serializes a frame into tightly packed little-endian RGBA words.
func packFrame(f *colorsep.Frame[uint8]) []byte {
	out := make([]byte, f.Width*f.Height*4)
	i := 0
	for y := 0; y < f.Height; y++ {
		for _, px := range f.Row(y) {
			packed := uint32(px.R) | uint32(px.G)<<8 | uint32(px.B)<<16 | uint32(px.A)<<24
			binary.LittleEndian.PutUint32(out[i:], packed)
			i += 4
		}
	}
	return out
}

// unpackFrame writes packed RGBA words back into a frame, honoring its
// stride.
func unpackFrame(packed []byte, f *colorsep.Frame[uint8]) {
	i := 0
	for y := 0; y < f.Height; y++ {
		row := f.Row(y)
		for x := range row {
			v := binary.LittleEndian.Uint32(packed[i:])
			row[x] = colorsep.Pixel8{
				R: uint8(v), G: uint8(v >> 8), B: uint8(v >> 16), A: uint8(v >> 24),
			}
			i += 4
		}
	}
}

// render runs one compute dispatch over the whole frame. Results land in a
// staging buffer first and are only copied into dst after the fence clears
// and the abort callback has been consulted, so a failed or aborted call
// leaves dst exactly as it was.
func (r *gpuRenderer) render(dst, src *colorsep.Frame[uint8], params colorsep.Params) error {
	if params.Abort != nil && params.Abort() {
		return colorsep.ErrAborted
	}

	k := deriveKernel(params)
	w, h := src.Width, src.Height
	pixelBufSize := uint64(w * h * 4)
	configBytes := packConfig(k, w, h, params.Target)
	srcPacked := packFrame(src)

	configBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "coverage_config", Size: uint64(len(configBytes)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create config buffer: %w", err)
	}
	defer r.device.DestroyBuffer(configBuf)

	srcBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "coverage_src", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create source buffer: %w", err)
	}
	defer r.device.DestroyBuffer(srcBuf)

	dstBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "coverage_dst", Size: pixelBufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create output buffer: %w", err)
	}
	defer r.device.DestroyBuffer(dstBuf)

	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "coverage_staging", Size: pixelBufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	r.queue.WriteBuffer(configBuf, 0, configBytes)
	r.queue.WriteBuffer(srcBuf, 0, srcPacked)

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "coverage_bind", Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: configBuf.NativeHandle(), Offset: 0, Size: uint64(len(configBytes))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer r.device.DestroyBindGroup(bindGroup)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "coverage_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("coverage"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "coverage_pass"})
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((uint32(w)+15)/16, (uint32(h)+15)/16, 1)
	pass.End()
	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	if params.Abort != nil && params.Abort() {
		return colorsep.ErrAborted
	}
	readback := make([]byte, pixelBufSize)
	if err := r.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackFrame(readback, dst)
	return nil
}
