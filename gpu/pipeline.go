// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/glint"
)

// PipelineDescriptor describes a render pipeline over resource
// wrappers. Entry point names default to "vs_main" and "fs_main".
type PipelineDescriptor struct {
	Label string

	VertexShader   *ShaderModule
	VertexEntry    string
	FragmentShader *ShaderModule
	FragmentEntry  string

	// VertexBuffers lists one buffer layout per vertex buffer slot.
	// Shader locations come from the layouts; build the layouts with
	// concatenated start locations when a pipeline consumes several
	// vertex arrays at once.
	VertexBuffers []glint.BufferLayout

	// BindGroupLayouts is the ordered explicit layout list. Nil lets
	// the backend infer layouts from the shaders.
	BindGroupLayouts []*BindGroupLayout

	Topology     PrimitiveTopology
	CullMode     CullMode
	BlendEnabled bool
}

// Pipeline wraps a family of device render pipelines, one variant per
// color-target format list. Variants are created lazily on the first
// Handle call for their format list and cached by a hash of the
// formats, so repeated passes over the same target kinds reuse the
// same device object.
type Pipeline struct {
	mu sync.Mutex
	binding

	desc     PipelineDescriptor
	variants map[uint64]RenderPipelineID
}

// NewPipeline creates an unbound pipeline from desc.
func NewPipeline(desc PipelineDescriptor) *Pipeline {
	if desc.VertexEntry == "" {
		desc.VertexEntry = "vs_main"
	}
	if desc.FragmentEntry == "" {
		desc.FragmentEntry = "fs_main"
	}
	return &Pipeline{
		desc:     desc,
		variants: make(map[uint64]RenderPipelineID),
	}
}

// Label returns the pipeline's debug label.
func (p *Pipeline) Label() string {
	return p.desc.Label
}

// Handle binds the pipeline to d if unbound and returns the variant for
// the given color-target formats, creating it on first use.
func (p *Pipeline) Handle(d Device, colorFormats ...TextureFormat) (RenderPipelineID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.bind(d); err != nil {
		return InvalidID, err
	}
	if len(colorFormats) == 0 {
		return InvalidID, fmt.Errorf("%w: pipeline %q needs at least one color format",
			ErrInvalidDescriptor, p.desc.Label)
	}

	key := formatHash(colorFormats)
	if id, ok := p.variants[key]; ok {
		return id, nil
	}

	if p.desc.VertexShader == nil || p.desc.FragmentShader == nil {
		return InvalidID, fmt.Errorf("%w: pipeline %q is missing a shader stage",
			ErrInvalidDescriptor, p.desc.Label)
	}
	vs, err := p.desc.VertexShader.Handle(d)
	if err != nil {
		return InvalidID, err
	}
	fs, err := p.desc.FragmentShader.Handle(d)
	if err != nil {
		return InvalidID, err
	}

	var layouts []BindGroupLayoutID
	if p.desc.BindGroupLayouts != nil {
		layouts = make([]BindGroupLayoutID, len(p.desc.BindGroupLayouts))
		for i, l := range p.desc.BindGroupLayouts {
			layouts[i], err = l.Handle(d)
			if err != nil {
				return InvalidID, err
			}
		}
	}

	id, err := d.CreateRenderPipeline(&RenderPipelineDescriptor{
		Label:            p.desc.Label,
		VertexShader:     vs,
		VertexEntry:      p.desc.VertexEntry,
		FragmentShader:   fs,
		FragmentEntry:    p.desc.FragmentEntry,
		VertexBuffers:    p.desc.VertexBuffers,
		BindGroupLayouts: layouts,
		ColorFormats:     colorFormats,
		Topology:         p.desc.Topology,
		CullMode:         p.desc.CullMode,
		BlendEnabled:     p.desc.BlendEnabled,
	})
	if err != nil {
		return InvalidID, fmt.Errorf("create pipeline %q: %w", p.desc.Label, err)
	}
	p.variants[key] = id
	glint.Logger().Debug("pipeline variant created",
		"label", p.desc.Label, "formats", len(colorFormats), "variants", len(p.variants))
	return id, nil
}

// VertexBufferSlots returns the number of vertex buffer slots the
// pipeline consumes, one per declared buffer layout. Pipelines without
// declared layouts use a single slot.
func (p *Pipeline) VertexBufferSlots() int {
	if n := len(p.desc.VertexBuffers); n > 0 {
		return n
	}
	return 1
}

// Variants returns the number of cached pipeline variants.
func (p *Pipeline) Variants() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.variants)
}

// Destroy releases all cached variants. The next Handle call re-creates
// on the same device.
func (p *Pipeline) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, id := range p.variants {
		p.device.DestroyRenderPipeline(id)
		delete(p.variants, key)
	}
}

// formatHash computes an FNV-1a hash over a color format list.
func formatHash(formats []TextureFormat) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for _, f := range formats {
		v := uint32(f)
		for i := 0; i < 4; i++ {
			h ^= uint64(byte(v >> (8 * i)))
			h *= prime64
		}
	}
	return h
}
