// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a pure in-memory gpu.Device.
//
// The software device keeps every resource as plain Go data and
// records an operation trace instead of driving hardware. It is the
// always-available fallback backend and the device glint's own tests
// run against: submitted-work completion is steppable, so tests decide
// exactly when "the GPU finished".
package software

import (
	"fmt"
	"sync"

	"github.com/gogpu/glint"
	"github.com/gogpu/glint/gpu"
)

// Device is an in-memory gpu.Device.
type Device struct {
	mu     sync.Mutex
	nextID uint64

	buffers   map[gpu.BufferID][]byte
	textures  map[gpu.TextureID]*textureData
	views     map[gpu.TextureViewID]gpu.TextureID
	samplers  map[gpu.SamplerID]gpu.SamplerDescriptor
	shaders   map[gpu.ShaderModuleID]string
	layouts   map[gpu.BindGroupLayoutID]gpu.BindGroupLayoutDescriptor
	groups    map[gpu.BindGroupID]gpu.BindGroupDescriptor
	pipelines map[gpu.RenderPipelineID]gpu.RenderPipelineDescriptor

	trace   []string
	pending []func()

	// AutoComplete runs work-done callbacks at the next Submit instead
	// of waiting for CompleteWork.
	AutoComplete bool
}

type textureData struct {
	desc gpu.TextureDescriptor
	pix  []byte
}

// New creates an empty software device.
func New() *Device {
	return &Device{
		buffers:   make(map[gpu.BufferID][]byte),
		textures:  make(map[gpu.TextureID]*textureData),
		views:     make(map[gpu.TextureViewID]gpu.TextureID),
		samplers:  make(map[gpu.SamplerID]gpu.SamplerDescriptor),
		shaders:   make(map[gpu.ShaderModuleID]string),
		layouts:   make(map[gpu.BindGroupLayoutID]gpu.BindGroupLayoutDescriptor),
		groups:    make(map[gpu.BindGroupID]gpu.BindGroupDescriptor),
		pipelines: make(map[gpu.RenderPipelineID]gpu.RenderPipelineDescriptor),
	}
}

func (d *Device) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Device) record(format string, args ...any) {
	d.trace = append(d.trace, fmt.Sprintf(format, args...))
}

// Trace returns a copy of the recorded operation trace.
func (d *Device) Trace() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.trace))
	copy(out, d.trace)
	return out
}

// ClearTrace discards the recorded trace.
func (d *Device) ClearTrace() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.trace = nil
}

// Counts returns live resource counts by kind, for leak checks.
func (d *Device) Counts() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return map[string]int{
		"buffer":   len(d.buffers),
		"texture":  len(d.textures),
		"view":     len(d.views),
		"sampler":  len(d.samplers),
		"shader":   len(d.shaders),
		"layout":   len(d.layouts),
		"group":    len(d.groups),
		"pipeline": len(d.pipelines),
	}
}

// CreateBuffer allocates a zeroed buffer.
func (d *Device) CreateBuffer(size int, usage gpu.BufferUsage, label string) (gpu.BufferID, error) {
	if size <= 0 {
		return gpu.InvalidID, fmt.Errorf("%w: buffer %q size %d", gpu.ErrInvalidDescriptor, label, size)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.BufferID(d.id())
	d.buffers[id] = make([]byte, size)
	d.record("create_buffer %d size=%d", id, size)
	return id, nil
}

// DestroyBuffer releases a buffer.
func (d *Device) DestroyBuffer(id gpu.BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.buffers, id)
	d.record("destroy_buffer %d", id)
}

// WriteBuffer writes data at offset. Out-of-range writes are clipped.
func (d *Device) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.buffers[id]
	if !ok {
		return
	}
	if int(offset) < len(buf) {
		copy(buf[offset:], data)
	}
	d.record("write_buffer %d off=%d len=%d", id, offset, len(data))
}

// BufferData returns a copy of a buffer's current contents.
func (d *Device) BufferData(id gpu.BufferID) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf, ok := d.buffers[id]
	if !ok {
		return nil
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}

// CreateTexture allocates a texture.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.TextureID, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return gpu.InvalidID, fmt.Errorf("%w: texture %q size %dx%d",
			gpu.ErrInvalidDescriptor, desc.Label, desc.Width, desc.Height)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.TextureID(d.id())
	d.textures[id] = &textureData{
		desc: *desc,
		pix:  make([]byte, desc.Width*desc.Height*desc.Format.BytesPerPixel()),
	}
	d.record("create_texture %d %dx%d", id, desc.Width, desc.Height)
	return id, nil
}

// DestroyTexture releases a texture.
func (d *Device) DestroyTexture(id gpu.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.textures, id)
	d.record("destroy_texture %d", id)
}

// WriteTexture stores tightly packed pixel rows.
func (d *Device) WriteTexture(id gpu.TextureID, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tex, ok := d.textures[id]
	if !ok {
		return
	}
	copy(tex.pix, data)
	d.record("write_texture %d len=%d", id, len(data))
}

// TexturePixels returns a copy of a texture's stored pixels.
func (d *Device) TexturePixels(id gpu.TextureID) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	tex, ok := d.textures[id]
	if !ok {
		return nil
	}
	out := make([]byte, len(tex.pix))
	copy(out, tex.pix)
	return out
}

// CreateTextureView creates a full-texture view.
func (d *Device) CreateTextureView(id gpu.TextureID) (gpu.TextureViewID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.textures[id]; !ok {
		return gpu.InvalidID, fmt.Errorf("%w: view of unknown texture %d", gpu.ErrInvalidDescriptor, id)
	}
	view := gpu.TextureViewID(d.id())
	d.views[view] = id
	d.record("create_view %d of %d", view, id)
	return view, nil
}

// DestroyTextureView releases a view.
func (d *Device) DestroyTextureView(id gpu.TextureViewID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.views, id)
	d.record("destroy_view %d", id)
}

// CreateSampler creates a sampler.
func (d *Device) CreateSampler(desc *gpu.SamplerDescriptor) (gpu.SamplerID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.SamplerID(d.id())
	d.samplers[id] = *desc
	d.record("create_sampler %d", id)
	return id, nil
}

// DestroySampler releases a sampler.
func (d *Device) DestroySampler(id gpu.SamplerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.samplers, id)
	d.record("destroy_sampler %d", id)
}

// CreateShaderModule stores WGSL source without compiling it.
func (d *Device) CreateShaderModule(wgsl, label string) (gpu.ShaderModuleID, error) {
	if wgsl == "" {
		return gpu.InvalidID, fmt.Errorf("%w: shader %q is empty", gpu.ErrInvalidDescriptor, label)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.ShaderModuleID(d.id())
	d.shaders[id] = wgsl
	d.record("create_shader %d %s", id, label)
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (d *Device) DestroyShaderModule(id gpu.ShaderModuleID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.shaders, id)
	d.record("destroy_shader %d", id)
}

// CreateBindGroupLayout creates a bind group layout.
func (d *Device) CreateBindGroupLayout(desc *gpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayoutID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := gpu.BindGroupLayoutID(d.id())
	d.layouts[id] = *desc
	d.record("create_layout %d", id)
	return id, nil
}

// DestroyBindGroupLayout releases a layout.
func (d *Device) DestroyBindGroupLayout(id gpu.BindGroupLayoutID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.layouts, id)
	d.record("destroy_layout %d", id)
}

// CreateBindGroup creates a bind group.
func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroupID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.layouts[desc.Layout]; !ok {
		return gpu.InvalidID, fmt.Errorf("%w: bind group %q over unknown layout %d",
			gpu.ErrInvalidDescriptor, desc.Label, desc.Layout)
	}
	id := gpu.BindGroupID(d.id())
	d.groups[id] = *desc
	d.record("create_group %d", id)
	return id, nil
}

// DestroyBindGroup releases a bind group.
func (d *Device) DestroyBindGroup(id gpu.BindGroupID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.groups, id)
	d.record("destroy_group %d", id)
}

// CreateRenderPipeline creates a render pipeline.
func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipelineID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.shaders[desc.VertexShader]; !ok {
		return gpu.InvalidID, fmt.Errorf("%w: pipeline %q over unknown vertex shader",
			gpu.ErrInvalidDescriptor, desc.Label)
	}
	if _, ok := d.shaders[desc.FragmentShader]; !ok {
		return gpu.InvalidID, fmt.Errorf("%w: pipeline %q over unknown fragment shader",
			gpu.ErrInvalidDescriptor, desc.Label)
	}
	id := gpu.RenderPipelineID(d.id())
	d.pipelines[id] = *desc
	d.record("create_pipeline %d %s", id, desc.Label)
	return id, nil
}

// DestroyRenderPipeline releases a pipeline.
func (d *Device) DestroyRenderPipeline(id gpu.RenderPipelineID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pipelines, id)
	d.record("destroy_pipeline %d", id)
}

// CreateCommandEncoder opens a trace-recording encoder.
func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	return &encoder{device: d, label: label}, nil
}

// Submit appends the recorded buffers to the trace. With AutoComplete
// set, pending work-done callbacks run immediately after.
func (d *Device) Submit(buffers ...gpu.CommandBuffer) error {
	d.mu.Lock()
	for _, b := range buffers {
		cb, ok := b.(*commandBuffer)
		if !ok {
			d.mu.Unlock()
			return fmt.Errorf("%w: foreign command buffer", gpu.ErrInvalidDescriptor)
		}
		d.trace = append(d.trace, cb.ops...)
	}
	d.record("submit n=%d", len(buffers))
	auto := d.AutoComplete
	d.mu.Unlock()

	if auto {
		d.CompleteWork()
	}
	return nil
}

// OnSubmittedWorkDone queues fn until CompleteWork (or the next
// auto-completing Submit).
func (d *Device) OnSubmittedWorkDone(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, fn)
}

// CompleteWork declares all submitted work finished, running queued
// work-done callbacks in order. Callbacks queued while completing run
// on the next CompleteWork call.
func (d *Device) CompleteWork() {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
}

// PendingCallbacks returns the number of queued work-done callbacks.
func (d *Device) PendingCallbacks() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// encoder records pass and draw operations into a command buffer.
type encoder struct {
	device   *Device
	label    string
	ops      []string
	open     bool
	finished bool
}

func (e *encoder) BeginRenderPass(desc *gpu.RenderPassDescriptor) (gpu.RenderPassEncoder, error) {
	if e.finished {
		return nil, fmt.Errorf("%w: encoder %q already finished", gpu.ErrInvalidDescriptor, e.label)
	}
	if e.open {
		return nil, fmt.Errorf("%w: encoder %q has an open pass", gpu.ErrInvalidDescriptor, e.label)
	}
	if len(desc.ColorAttachments) == 0 {
		return nil, fmt.Errorf("%w: pass %q has no attachments", gpu.ErrInvalidDescriptor, desc.Label)
	}
	e.open = true
	e.ops = append(e.ops, fmt.Sprintf("begin_pass %s n=%d", desc.Label, len(desc.ColorAttachments)))
	for _, ca := range desc.ColorAttachments {
		e.ops = append(e.ops, fmt.Sprintf("attach view=%d load=%d store=%d clear=%v",
			ca.View, ca.Load, ca.Store, ca.Clear))
	}
	return &passEncoder{enc: e}, nil
}

func (e *encoder) Finish() (gpu.CommandBuffer, error) {
	if e.open {
		return nil, fmt.Errorf("%w: encoder %q has an open pass", gpu.ErrInvalidDescriptor, e.label)
	}
	if e.finished {
		return nil, fmt.Errorf("%w: encoder %q already finished", gpu.ErrInvalidDescriptor, e.label)
	}
	e.finished = true
	return &commandBuffer{label: e.label, ops: e.ops}, nil
}

// passEncoder records draw commands for one open pass.
type passEncoder struct {
	enc   *encoder
	ended bool
}

func (p *passEncoder) SetPipeline(id gpu.RenderPipelineID) {
	p.enc.ops = append(p.enc.ops, fmt.Sprintf("set_pipeline %d", id))
}

func (p *passEncoder) SetBindGroup(slot int, id gpu.BindGroupID) {
	p.enc.ops = append(p.enc.ops, fmt.Sprintf("set_group slot=%d id=%d", slot, id))
}

func (p *passEncoder) SetVertexBuffer(slot int, id gpu.BufferID) {
	p.enc.ops = append(p.enc.ops, fmt.Sprintf("set_vertices slot=%d id=%d", slot, id))
}

func (p *passEncoder) SetIndexBuffer(id gpu.BufferID, format glint.IndexFormat) {
	p.enc.ops = append(p.enc.ops, fmt.Sprintf("set_indices id=%d fmt=%s", id, format))
}

func (p *passEncoder) Draw(vertexCount, instanceCount int) {
	p.enc.ops = append(p.enc.ops, fmt.Sprintf("draw v=%d i=%d", vertexCount, instanceCount))
}

func (p *passEncoder) DrawIndexed(indexCount, instanceCount int) {
	p.enc.ops = append(p.enc.ops, fmt.Sprintf("draw_indexed n=%d i=%d", indexCount, instanceCount))
}

func (p *passEncoder) End() error {
	if p.ended {
		return fmt.Errorf("%w: pass already ended", gpu.ErrInvalidDescriptor)
	}
	p.ended = true
	p.enc.open = false
	p.enc.ops = append(p.enc.ops, "end_pass")
	return nil
}

// commandBuffer is a sealed op list.
type commandBuffer struct {
	label string
	ops   []string
}

func (b *commandBuffer) Label() string { return b.label }
