// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glint"
	"github.com/gogpu/glint/gpu"
)

// Device implements gpu.Device over a gogpu/wgpu hal device and queue.
// Opaque glint IDs map to hal resources; shaders compile from WGSL to
// SPIR-V through naga before reaching the driver.
//
// Safe for concurrent use; all resource maps are mutex-protected.
type Device struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	nextID atomic.Uint64

	// lastSubmit is the submission index returned by the most recent
	// queue submit; completion callbacks wait for it.
	lastSubmit atomic.Uint64

	buffers   map[gpu.BufferID]hal.Buffer
	textures  map[gpu.TextureID]*textureEntry
	views     map[gpu.TextureViewID]hal.TextureView
	samplers  map[gpu.SamplerID]hal.Sampler
	shaders   map[gpu.ShaderModuleID]hal.ShaderModule
	layouts   map[gpu.BindGroupLayoutID]hal.BindGroupLayout
	groups    map[gpu.BindGroupID]hal.BindGroup
	pipelines map[gpu.RenderPipelineID]*pipelineEntry
}

// textureEntry keeps the hal texture together with the dimensions
// needed for full-extent uploads.
type textureEntry struct {
	tex    hal.Texture
	desc   gpu.TextureDescriptor
	bpp    int
	halFmt gputypes.TextureFormat
}

// pipelineEntry keeps the hal pipeline together with the pipeline
// layout created for it, so both are released on destroy.
type pipelineEntry struct {
	pipeline hal.RenderPipeline
	layout   hal.PipelineLayout
}

var _ gpu.Device = (*Device)(nil)

// NewDevice wraps a hal device and queue.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	d := &Device{
		device:    device,
		queue:     queue,
		buffers:   make(map[gpu.BufferID]hal.Buffer),
		textures:  make(map[gpu.TextureID]*textureEntry),
		views:     make(map[gpu.TextureViewID]hal.TextureView),
		samplers:  make(map[gpu.SamplerID]hal.Sampler),
		shaders:   make(map[gpu.ShaderModuleID]hal.ShaderModule),
		layouts:   make(map[gpu.BindGroupLayoutID]hal.BindGroupLayout),
		groups:    make(map[gpu.BindGroupID]hal.BindGroup),
		pipelines: make(map[gpu.RenderPipelineID]*pipelineEntry),
	}
	// 0 is gpu.InvalidID.
	d.nextID.Store(1)
	return d
}

func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// CreateBuffer allocates a device buffer.
func (d *Device) CreateBuffer(size int, usage gpu.BufferUsage, label string) (gpu.BufferID, error) {
	if size <= 0 {
		return gpu.InvalidID, fmt.Errorf("%w: buffer %q size %d", gpu.ErrInvalidDescriptor, label, size)
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create buffer %q: %w", label, err)
	}

	id := gpu.BufferID(d.newID())
	d.mu.Lock()
	d.buffers[id] = buf
	d.mu.Unlock()
	return id, nil
}

// DestroyBuffer releases a buffer.
func (d *Device) DestroyBuffer(id gpu.BufferID) {
	d.mu.Lock()
	buf, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyBuffer(buf)
	}
}

// WriteBuffer writes data at a byte offset.
func (d *Device) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) {
	d.mu.RLock()
	buf, ok := d.buffers[id]
	d.mu.RUnlock()
	if ok && len(data) > 0 {
		d.queue.WriteBuffer(buf, offset, data)
	}
}

// CreateTexture allocates a 2D texture.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return gpu.InvalidID, fmt.Errorf("%w: texture %q size %dx%d",
			gpu.ErrInvalidDescriptor, desc.Label, desc.Width, desc.Height)
	}
	halFmt := convertTextureFormat(desc.Format)
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),
			Height:             uint32(desc.Height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        halFmt,
		Usage:         convertTextureUsage(desc.Usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create texture %q: %w", desc.Label, err)
	}

	id := gpu.TextureID(d.newID())
	d.mu.Lock()
	d.textures[id] = &textureEntry{
		tex:    tex,
		desc:   *desc,
		bpp:    desc.Format.BytesPerPixel(),
		halFmt: halFmt,
	}
	d.mu.Unlock()
	return id, nil
}

// DestroyTexture releases a texture.
func (d *Device) DestroyTexture(id gpu.TextureID) {
	d.mu.Lock()
	entry, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyTexture(entry.tex)
	}
}

// WriteTexture uploads tightly packed pixel rows covering the full
// extent.
func (d *Device) WriteTexture(id gpu.TextureID, data []byte) {
	d.mu.RLock()
	entry, ok := d.textures[id]
	d.mu.RUnlock()
	if !ok || len(data) == 0 || entry.bpp == 0 {
		return
	}

	w := uint32(entry.desc.Width)
	h := uint32(entry.desc.Height)
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  entry.tex,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * uint32(entry.bpp),
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
}

// CreateTextureView creates a full-texture view.
func (d *Device) CreateTextureView(id gpu.TextureID) (gpu.TextureViewID, error) {
	d.mu.RLock()
	entry, ok := d.textures[id]
	d.mu.RUnlock()
	if !ok {
		return gpu.InvalidID, fmt.Errorf("%w: view of unknown texture %d", gpu.ErrInvalidDescriptor, id)
	}

	view, err := d.device.CreateTextureView(entry.tex, &hal.TextureViewDescriptor{
		Label:         entry.desc.Label + " view",
		Format:        entry.halFmt,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create view of %q: %w", entry.desc.Label, err)
	}

	viewID := gpu.TextureViewID(d.newID())
	d.mu.Lock()
	d.views[viewID] = view
	d.mu.Unlock()
	return viewID, nil
}

// DestroyTextureView releases a texture view.
func (d *Device) DestroyTextureView(id gpu.TextureViewID) {
	d.mu.Lock()
	view, ok := d.views[id]
	if ok {
		delete(d.views, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyTextureView(view)
	}
}

// CreateSampler creates a sampler.
func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.SamplerID, error) {
	addr := convertAddressMode(desc.AddressMode)
	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: addr,
		AddressModeV: addr,
		AddressModeW: addr,
		MagFilter:    convertFilter(desc.MagFilter),
		MinFilter:    convertFilter(desc.MinFilter),
		MipmapFilter: convertFilter(desc.MinFilter),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create sampler %q: %w", desc.Label, err)
	}

	id := gpu.SamplerID(d.newID())
	d.mu.Lock()
	d.samplers[id] = sampler
	d.mu.Unlock()
	return id, nil
}

// DestroySampler releases a sampler.
func (d *Device) DestroySampler(id gpu.SamplerID) {
	d.mu.Lock()
	sampler, ok := d.samplers[id]
	if ok {
		delete(d.samplers, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroySampler(sampler)
	}
}

// CreateShaderModule compiles WGSL through naga to SPIR-V and creates
// the module.
func (d *Device) CreateShaderModule(wgsl, label string) (gpu.ShaderModuleID, error) {
	spirv, err := compileWGSL(wgsl)
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: compile shader %q: %w", label, err)
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create shader %q: %w", label, err)
	}

	id := gpu.ShaderModuleID(d.newID())
	d.mu.Lock()
	d.shaders[id] = module
	d.mu.Unlock()
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (d *Device) DestroyShaderModule(id gpu.ShaderModuleID) {
	d.mu.Lock()
	module, ok := d.shaders[id]
	if ok {
		delete(d.shaders, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyShaderModule(module)
	}
}

// compileWGSL compiles WGSL to SPIR-V words.
func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, err
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// CreateBindGroupLayout creates a bind group layout.
func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayoutID, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entries[i] = convertLayoutEntry(e)
	}
	layout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create bind group layout %q: %w", desc.Label, err)
	}

	id := gpu.BindGroupLayoutID(d.newID())
	d.mu.Lock()
	d.layouts[id] = layout
	d.mu.Unlock()
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (d *Device) DestroyBindGroupLayout(id gpu.BindGroupLayoutID) {
	d.mu.Lock()
	layout, ok := d.layouts[id]
	if ok {
		delete(d.layouts, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyBindGroupLayout(layout)
	}
}

// CreateBindGroup creates a bind group from resolved entries.
func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroupID, error) {
	d.mu.RLock()
	layout, ok := d.layouts[desc.Layout]
	if !ok {
		d.mu.RUnlock()
		return gpu.InvalidID, fmt.Errorf("%w: bind group %q over unknown layout %d",
			gpu.ErrInvalidDescriptor, desc.Label, desc.Layout)
	}
	entries := make([]gputypes.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entry, err := d.convertEntryLocked(e)
		if err != nil {
			d.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("wgpu: bind group %q slot %d: %w", desc.Label, e.Binding, err)
		}
		entries[i] = entry
	}
	d.mu.RUnlock()

	group, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create bind group %q: %w", desc.Label, err)
	}

	id := gpu.BindGroupID(d.newID())
	d.mu.Lock()
	d.groups[id] = group
	d.mu.Unlock()
	return id, nil
}

// convertEntryLocked resolves one bind group entry to its hal resource
// handle. Caller holds at least a read lock.
func (d *Device) convertEntryLocked(e gpu.BindGroupEntry) (gputypes.BindGroupEntry, error) {
	out := gputypes.BindGroupEntry{Binding: uint32(e.Binding)}
	switch {
	case e.Buffer != gpu.InvalidID:
		buf, ok := d.buffers[e.Buffer]
		if !ok {
			return out, fmt.Errorf("%w: unknown buffer %d", gpu.ErrInvalidDescriptor, e.Buffer)
		}
		out.Resource = gputypes.BufferBinding{
			Buffer: buf.NativeHandle(),
			Offset: e.Offset,
			Size:   e.Size,
		}
	case e.Sampler != gpu.InvalidID:
		sampler, ok := d.samplers[e.Sampler]
		if !ok {
			return out, fmt.Errorf("%w: unknown sampler %d", gpu.ErrInvalidDescriptor, e.Sampler)
		}
		out.Resource = gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}
	case e.TextureView != gpu.InvalidID:
		view, ok := d.views[e.TextureView]
		if !ok {
			return out, fmt.Errorf("%w: unknown texture view %d", gpu.ErrInvalidDescriptor, e.TextureView)
		}
		out.Resource = gputypes.TextureViewBinding{TextureView: view.NativeHandle()}
	default:
		return out, fmt.Errorf("%w: entry references nothing", gpu.ErrInvalidDescriptor)
	}
	return out, nil
}

// DestroyBindGroup releases a bind group.
func (d *Device) DestroyBindGroup(id gpu.BindGroupID) {
	d.mu.Lock()
	group, ok := d.groups[id]
	if ok {
		delete(d.groups, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyBindGroup(group)
	}
}

// CreateRenderPipeline creates a render pipeline. A nil bind group
// layout list produces an empty pipeline layout; shaders with bindings
// need explicit layouts on this backend.
func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipelineID, error) {
	d.mu.RLock()
	vs, vsOK := d.shaders[desc.VertexShader]
	fs, fsOK := d.shaders[desc.FragmentShader]
	halLayouts := make([]hal.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	var missingLayout gpu.BindGroupLayoutID
	for _, lid := range desc.BindGroupLayouts {
		layout, ok := d.layouts[lid]
		if !ok {
			missingLayout = lid
			break
		}
		halLayouts = append(halLayouts, layout)
	}
	d.mu.RUnlock()

	if !vsOK || !fsOK {
		return gpu.InvalidID, fmt.Errorf("%w: pipeline %q references unknown shader",
			gpu.ErrInvalidDescriptor, desc.Label)
	}
	if missingLayout != gpu.InvalidID {
		return gpu.InvalidID, fmt.Errorf("%w: pipeline %q references unknown layout %d",
			gpu.ErrInvalidDescriptor, desc.Label, missingLayout)
	}

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + " layout",
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("wgpu: create pipeline layout %q: %w", desc.Label, err)
	}

	vertexBuffers, err := convertVertexLayouts(desc.VertexBuffers)
	if err != nil {
		d.device.DestroyPipelineLayout(pipeLayout)
		return gpu.InvalidID, err
	}

	targets := make([]gputypes.ColorTargetState, len(desc.ColorFormats))
	for i, f := range desc.ColorFormats {
		target := gputypes.ColorTargetState{
			Format:    convertTextureFormat(f),
			WriteMask: gputypes.ColorWriteMaskAll,
		}
		if desc.BlendEnabled {
			blend := gputypes.BlendStatePremultiplied()
			target.Blend = &blend
		}
		targets[i] = target
	}

	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     vs,
			EntryPoint: desc.VertexEntry,
			Buffers:    vertexBuffers,
		},
		Fragment: &hal.FragmentState{
			Module:     fs,
			EntryPoint: desc.FragmentEntry,
			Targets:    targets,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: convertTopology(desc.Topology),
			CullMode: convertCullMode(desc.CullMode),
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		d.device.DestroyPipelineLayout(pipeLayout)
		return gpu.InvalidID, fmt.Errorf("wgpu: create pipeline %q: %w", desc.Label, err)
	}

	id := gpu.RenderPipelineID(d.newID())
	d.mu.Lock()
	d.pipelines[id] = &pipelineEntry{pipeline: pipeline, layout: pipeLayout}
	d.mu.Unlock()
	return id, nil
}

// DestroyRenderPipeline releases a pipeline and its layout.
func (d *Device) DestroyRenderPipeline(id gpu.RenderPipelineID) {
	d.mu.Lock()
	entry, ok := d.pipelines[id]
	if ok {
		delete(d.pipelines, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyRenderPipeline(entry.pipeline)
		d.device.DestroyPipelineLayout(entry.layout)
	}
}

// CreateCommandEncoder opens a hal command encoder.
func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder %q: %w", label, err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding %q: %w", label, err)
	}
	return &commandEncoder{device: d, enc: enc, label: label}, nil
}

// Submit hands command buffers to the queue in order and records the
// returned submission index for completion tracking.
func (d *Device) Submit(buffers ...gpu.CommandBuffer) error {
	halBufs := make([]hal.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*commandBuffer)
		if !ok {
			return fmt.Errorf("%w: foreign command buffer", gpu.ErrInvalidDescriptor)
		}
		halBufs = append(halBufs, cb.buf)
	}
	idx, err := d.queue.Submit(halBufs)
	if err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	d.lastSubmit.Store(idx)
	return nil
}

// OnSubmittedWorkDone polls the queue until the last recorded
// submission index completes, then invokes fn from a separate
// goroutine. With nothing submitted, or the work already complete, fn
// runs inline.
func (d *Device) OnSubmittedWorkDone(fn func()) {
	target := d.lastSubmit.Load()
	if target == 0 || d.queue.PollCompleted() >= target {
		fn()
		return
	}
	go func() {
		deadline := time.Now().Add(5 * time.Second)
		for d.queue.PollCompleted() < target {
			if time.Now().After(deadline) {
				glint.Logger().Warn("wgpu: completion poll timed out, waiting for device idle",
					"submission", target)
				if err := d.device.WaitIdle(); err != nil {
					glint.Logger().Warn("wgpu: device idle wait failed", "error", err)
				}
				break
			}
			time.Sleep(time.Millisecond)
		}
		fn()
	}()
}

// commandEncoder adapts a hal command encoder.
type commandEncoder struct {
	device *Device
	enc    hal.CommandEncoder
	label  string
}

func (e *commandEncoder) BeginRenderPass(desc *gpu.RenderPassDescriptor) (gpu.RenderPassEncoder, error) {
	attachments := make([]hal.RenderPassColorAttachment, len(desc.ColorAttachments))
	e.device.mu.RLock()
	for i, ca := range desc.ColorAttachments {
		view, ok := e.device.views[ca.View]
		if !ok {
			e.device.mu.RUnlock()
			return nil, fmt.Errorf("%w: pass %q attachment %d has unknown view %d",
				gpu.ErrInvalidDescriptor, desc.Label, i, ca.View)
		}
		attachments[i] = hal.RenderPassColorAttachment{
			View:    view,
			LoadOp:  convertLoadOp(ca.Load),
			StoreOp: convertStoreOp(ca.Store),
			ClearValue: gputypes.Color{
				R: ca.Clear.R, G: ca.Clear.G, B: ca.Clear.B, A: ca.Clear.A,
			},
		}
	}
	e.device.mu.RUnlock()

	rp := e.enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: attachments,
	})
	return &passEncoder{device: e.device, rp: rp}, nil
}

func (e *commandEncoder) Finish() (gpu.CommandBuffer, error) {
	buf, err := e.enc.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding %q: %w", e.label, err)
	}
	return &commandBuffer{label: e.label, buf: buf}, nil
}

// passEncoder adapts a hal render pass encoder.
type passEncoder struct {
	device *Device
	rp     hal.RenderPassEncoder
}

func (p *passEncoder) SetPipeline(id gpu.RenderPipelineID) {
	p.device.mu.RLock()
	entry, ok := p.device.pipelines[id]
	p.device.mu.RUnlock()
	if ok {
		p.rp.SetPipeline(entry.pipeline)
	}
}

func (p *passEncoder) SetBindGroup(slot int, id gpu.BindGroupID) {
	p.device.mu.RLock()
	group, ok := p.device.groups[id]
	p.device.mu.RUnlock()
	if ok {
		p.rp.SetBindGroup(uint32(slot), group, nil)
	}
}

func (p *passEncoder) SetVertexBuffer(slot int, id gpu.BufferID) {
	p.device.mu.RLock()
	buf, ok := p.device.buffers[id]
	p.device.mu.RUnlock()
	if ok {
		p.rp.SetVertexBuffer(uint32(slot), buf, 0)
	}
}

func (p *passEncoder) SetIndexBuffer(id gpu.BufferID, format glint.IndexFormat) {
	p.device.mu.RLock()
	buf, ok := p.device.buffers[id]
	p.device.mu.RUnlock()
	if ok {
		p.rp.SetIndexBuffer(buf, convertIndexFormat(format), 0)
	}
}

func (p *passEncoder) Draw(vertexCount, instanceCount int) {
	p.rp.Draw(uint32(vertexCount), uint32(instanceCount), 0, 0)
}

func (p *passEncoder) DrawIndexed(indexCount, instanceCount int) {
	p.rp.DrawIndexed(uint32(indexCount), uint32(instanceCount), 0, 0, 0)
}

func (p *passEncoder) End() error {
	p.rp.End()
	return nil
}

// commandBuffer wraps a sealed hal command buffer.
type commandBuffer struct {
	label string
	buf   hal.CommandBuffer
}

func (b *commandBuffer) Label() string { return b.label }
