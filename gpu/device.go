// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/glint"
)

// Resource IDs
//
// These opaque IDs represent device objects. Each backend maintains a
// mapping between IDs and actual API resources. IDs are uint64 to
// accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// TextureViewID is an opaque handle to a texture view.
type TextureViewID uint64

// SamplerID is an opaque handle to a sampler.
type SamplerID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// RenderPipelineID is an opaque handle to a render pipeline.
type RenderPipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatUndefined is the zero value, representing no format.
	TextureFormatUndefined TextureFormat = iota

	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm

	// TextureFormatRGBA8UnormSRGB is 8-bit RGBA in sRGB color space.
	TextureFormatRGBA8UnormSRGB

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	TextureFormatBGRA8Unorm

	// TextureFormatBGRA8UnormSRGB is 8-bit BGRA in sRGB color space.
	TextureFormatBGRA8UnormSRGB

	// TextureFormatR8Unorm is 8-bit red channel only.
	TextureFormatR8Unorm

	// TextureFormatRGBA16Float is 16-bit float RGBA.
	TextureFormatRGBA16Float

	// TextureFormatRGBA32Float is 32-bit float RGBA.
	TextureFormatRGBA32Float

	// TextureFormatDepth24PlusStencil8 is a combined depth/stencil format.
	TextureFormatDepth24PlusStencil8
)

// BytesPerPixel returns the byte size of one pixel, or 0 for formats
// without a fixed CPU-visible pixel size.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case TextureFormatR8Unorm:
		return 1
	case TextureFormatRGBA8Unorm, TextureFormatRGBA8UnormSRGB,
		TextureFormatBGRA8Unorm, TextureFormatBGRA8UnormSRGB:
		return 4
	case TextureFormatRGBA16Float:
		return 8
	case TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

// TextureUsage is a bitmask specifying how a texture will be used.
type TextureUsage uint32

// Texture usage flags.
const (
	// TextureUsageCopySrc allows the texture to be a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows sampling the texture in shaders.
	TextureUsageTextureBinding

	// TextureUsageStorageBinding allows storage-texture access.
	TextureUsageStorageBinding

	// TextureUsageRenderAttachment allows rendering into the texture.
	TextureUsageRenderAttachment
)

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageCopySrc allows the buffer to be a copy source.
	BufferUsageCopySrc BufferUsage = 1 << iota

	// BufferUsageCopyDst allows the buffer to be a copy destination.
	BufferUsageCopyDst

	// BufferUsageIndex allows use as an index buffer.
	BufferUsageIndex

	// BufferUsageVertex allows use as a vertex buffer.
	BufferUsageVertex

	// BufferUsageUniform allows use as a uniform buffer.
	BufferUsageUniform

	// BufferUsageStorage allows use as a storage buffer.
	BufferUsageStorage
)

// FilterMode selects texel filtering for samplers.
type FilterMode uint8

const (
	// FilterNearest picks the nearest texel.
	FilterNearest FilterMode = iota

	// FilterLinear interpolates between texels.
	FilterLinear
)

// AddressMode selects how sampling outside [0, 1] behaves.
type AddressMode uint8

const (
	// AddressClampToEdge clamps coordinates to the edge texel.
	AddressClampToEdge AddressMode = iota

	// AddressRepeat wraps coordinates.
	AddressRepeat

	// AddressMirrorRepeat wraps with mirroring.
	AddressMirrorRepeat
)

// ShaderStage is a bitmask of pipeline stages a binding is visible to.
type ShaderStage uint32

// Shader stages.
const (
	// ShaderStageVertex makes a binding visible to vertex shaders.
	ShaderStageVertex ShaderStage = 1 << iota

	// ShaderStageFragment makes a binding visible to fragment shaders.
	ShaderStageFragment

	// ShaderStageCompute makes a binding visible to compute shaders.
	ShaderStageCompute
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeStorageBuffer is a read-write storage buffer binding.
	BindingTypeStorageBuffer

	// BindingTypeReadOnlyStorageBuffer is a read-only storage buffer binding.
	BindingTypeReadOnlyStorageBuffer

	// BindingTypeSampler is a sampler binding.
	BindingTypeSampler

	// BindingTypeSampledTexture is a sampled texture binding.
	BindingTypeSampledTexture
)

// LoadOp selects what happens to an attachment at pass start.
type LoadOp uint8

const (
	// LoadOpLoad preserves the existing attachment contents.
	LoadOpLoad LoadOp = iota

	// LoadOpClear clears the attachment to the pass clear color.
	LoadOpClear
)

// StoreOp selects what happens to an attachment at pass end.
type StoreOp uint8

const (
	// StoreOpStore writes pass output to the attachment.
	StoreOpStore StoreOp = iota

	// StoreOpDiscard drops pass output.
	StoreOpDiscard
)

// PrimitiveTopology selects how vertices assemble into primitives.
type PrimitiveTopology uint8

const (
	// TopologyTriangleList assembles independent triangles.
	TopologyTriangleList PrimitiveTopology = iota

	// TopologyTriangleStrip assembles a triangle strip.
	TopologyTriangleStrip

	// TopologyLineList assembles independent lines.
	TopologyLineList

	// TopologyPointList assembles points.
	TopologyPointList
)

// CullMode selects which triangle faces are discarded.
type CullMode uint8

const (
	// CullNone keeps all faces.
	CullNone CullMode = iota

	// CullFront discards front faces.
	CullFront

	// CullBack discards back faces.
	CullBack
)

// Color is a double-precision RGBA color used for clears.
type Color struct {
	R, G, B, A float64
}

// ColorOpaqueBlack is the default attachment clear color.
var ColorOpaqueBlack = Color{0, 0, 0, 1}

// TextureDescriptor describes a texture to create.
type TextureDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the texture dimensions in pixels.
	Width, Height int

	// Format is the texture pixel format.
	Format TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// SamplerDescriptor describes a sampler to create.
type SamplerDescriptor struct {
	// Label is an optional debug name.
	Label string

	// MagFilter is the magnification filter.
	MagFilter FilterMode

	// MinFilter is the minification filter.
	MinFilter FilterMode

	// AddressMode applies to all three texture coordinates.
	AddressMode AddressMode
}

// BindGroupLayoutEntry describes a single binding in a layout.
type BindGroupLayoutEntry struct {
	// Binding is the binding index within the group.
	Binding int

	// Visibility is the set of shader stages that can see the binding.
	Visibility ShaderStage

	// Type is the kind of resource bound at this index.
	Type BindingType

	// MinBindingSize is the minimum buffer size for buffer bindings.
	// Zero for non-buffer bindings.
	MinBindingSize uint64
}

// BindGroupLayoutDescriptor describes a bind group layout.
type BindGroupLayoutDescriptor struct {
	Label   string
	Entries []BindGroupLayoutEntry
}

// BindGroupEntry is one resolved binding in a bind group: exactly one
// of Buffer, Sampler, or TextureView is set.
type BindGroupEntry struct {
	Binding int

	Buffer BufferID
	Offset uint64
	Size   uint64 // 0 binds the whole buffer from Offset

	Sampler     SamplerID
	TextureView TextureViewID
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayoutID
	Entries []BindGroupEntry
}

// RenderPipelineDescriptor describes a render pipeline.
type RenderPipelineDescriptor struct {
	Label string

	// VertexShader and FragmentShader are the compiled shader modules.
	VertexShader   ShaderModuleID
	VertexEntry    string
	FragmentShader ShaderModuleID
	FragmentEntry  string

	// VertexBuffers lists one buffer layout per vertex buffer slot.
	VertexBuffers []glint.BufferLayout

	// BindGroupLayouts is the ordered layout list. Nil selects
	// automatic layout inference by the backend.
	BindGroupLayouts []BindGroupLayoutID

	// ColorFormats lists the color target formats, one per attachment.
	ColorFormats []TextureFormat

	Topology PrimitiveTopology
	CullMode CullMode

	// BlendEnabled turns on premultiplied-alpha blending for all color
	// targets.
	BlendEnabled bool
}

// ColorAttachment configures one color attachment of a render pass.
type ColorAttachment struct {
	// View is the texture view rendered into.
	View TextureViewID

	// Format is the view's texture format, used to match pipelines to
	// attachments.
	Format TextureFormat

	// Load selects clear-vs-preserve at pass start; Clear is the clear
	// color when Load is LoadOpClear.
	Load  LoadOp
	Store StoreOp
	Clear Color
}

// RenderPassDescriptor describes one render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []ColorAttachment
}

// RenderPassEncoder records draw commands within one render pass.
// Command order is execution order.
type RenderPassEncoder interface {
	// SetPipeline selects the pipeline for subsequent draws.
	SetPipeline(id RenderPipelineID)

	// SetBindGroup binds a resource group to a numbered slot.
	SetBindGroup(slot int, id BindGroupID)

	// SetVertexBuffer binds a vertex buffer to a numbered slot.
	SetVertexBuffer(slot int, id BufferID)

	// SetIndexBuffer binds the index buffer.
	SetIndexBuffer(id BufferID, format glint.IndexFormat)

	// Draw records a non-indexed draw.
	Draw(vertexCount, instanceCount int)

	// DrawIndexed records an indexed draw.
	DrawIndexed(indexCount, instanceCount int)

	// End seals the pass. No commands may be recorded afterwards.
	End() error
}

// CommandEncoder records passes into a command buffer.
type CommandEncoder interface {
	// BeginRenderPass opens a render pass.
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPassEncoder, error)

	// Finish seals the encoder and returns the recorded command buffer.
	Finish() (CommandBuffer, error)
}

// CommandBuffer is an opaque recorded command sequence, ready for
// submission.
type CommandBuffer interface {
	// Label returns the encoder's debug label.
	Label() string
}

// Device is the low-level GPU boundary glint renders through.
//
// Backends (backend/wgpu, backend/software) implement Device; resource
// wrappers call it to materialize device objects. All methods are
// called from the single frame-loop goroutine; implementations may be
// but are not required to be safe for concurrent use.
type Device interface {
	// CreateBuffer allocates a buffer of the given byte size.
	CreateBuffer(size int, usage BufferUsage, label string) (BufferID, error)

	// DestroyBuffer releases a buffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer writes data at a byte offset into a buffer.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// CreateTexture allocates a texture.
	CreateTexture(desc *TextureDescriptor) (TextureID, error)

	// DestroyTexture releases a texture.
	DestroyTexture(id TextureID)

	// WriteTexture uploads tightly packed pixel rows covering the full
	// texture extent.
	WriteTexture(id TextureID, data []byte)

	// CreateTextureView creates a full-texture view.
	CreateTextureView(id TextureID) (TextureViewID, error)

	// DestroyTextureView releases a texture view.
	DestroyTextureView(id TextureViewID)

	// CreateSampler creates a sampler.
	CreateSampler(desc *SamplerDescriptor) (SamplerID, error)

	// DestroySampler releases a sampler.
	DestroySampler(id SamplerID)

	// CreateShaderModule compiles a WGSL shader module.
	CreateShaderModule(wgsl, label string) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc *BindGroupLayoutDescriptor) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// CreateBindGroup creates a bind group from resolved entries.
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID)

	// CreateRenderPipeline creates a render pipeline.
	CreateRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipelineID, error)

	// DestroyRenderPipeline releases a render pipeline.
	DestroyRenderPipeline(id RenderPipelineID)

	// CreateCommandEncoder opens a command encoder.
	CreateCommandEncoder(label string) (CommandEncoder, error)

	// Submit enqueues recorded command buffers for execution.
	// Buffers execute in submission order.
	Submit(buffers ...CommandBuffer) error

	// OnSubmittedWorkDone invokes fn once all work submitted up to this
	// point has completed on the device.
	OnSubmittedWorkDone(fn func())
}

// DeviceHolder models the configured-vs-unconfigured device state
// explicitly: Get fails with ErrNotInitialized until Set is called.
// It replaces ambient "lazy proxy" device singletons.
type DeviceHolder struct {
	mu     sync.RWMutex
	device Device
}

// Set installs the device. Later calls replace the held device; callers
// that need rebinding protection get it from the wrappers, which stay
// bound to the device they first resolved against.
func (h *DeviceHolder) Set(d Device) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.device = d
}

// Get returns the held device, or ErrNotInitialized before Set.
func (h *DeviceHolder) Get() (Device, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.device == nil {
		return nil, fmt.Errorf("%w (call Set after device init)", ErrNotInitialized)
	}
	return h.device, nil
}
