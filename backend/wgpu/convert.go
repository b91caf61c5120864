// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint"
	"github.com/gogpu/glint/gpu"
)

// convertBufferUsage maps gpu.BufferUsage to gputypes.BufferUsage.
func convertBufferUsage(usage gpu.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage
	if usage&gpu.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&gpu.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&gpu.BufferUsageIndex != 0 {
		result |= gputypes.BufferUsageIndex
	}
	if usage&gpu.BufferUsageVertex != 0 {
		result |= gputypes.BufferUsageVertex
	}
	if usage&gpu.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}
	if usage&gpu.BufferUsageStorage != 0 {
		result |= gputypes.BufferUsageStorage
	}
	return result
}

// convertTextureUsage maps gpu.TextureUsage to gputypes.TextureUsage.
func convertTextureUsage(usage gpu.TextureUsage) gputypes.TextureUsage {
	var result gputypes.TextureUsage
	if usage&gpu.TextureUsageCopySrc != 0 {
		result |= gputypes.TextureUsageCopySrc
	}
	if usage&gpu.TextureUsageCopyDst != 0 {
		result |= gputypes.TextureUsageCopyDst
	}
	if usage&gpu.TextureUsageTextureBinding != 0 {
		result |= gputypes.TextureUsageTextureBinding
	}
	if usage&gpu.TextureUsageStorageBinding != 0 {
		result |= gputypes.TextureUsageStorageBinding
	}
	if usage&gpu.TextureUsageRenderAttachment != 0 {
		result |= gputypes.TextureUsageRenderAttachment
	}
	return result
}

// convertTextureFormat maps gpu.TextureFormat to gputypes.TextureFormat.
func convertTextureFormat(format gpu.TextureFormat) gputypes.TextureFormat {
	switch format {
	case gpu.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case gpu.TextureFormatRGBA8UnormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case gpu.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case gpu.TextureFormatBGRA8UnormSRGB:
		return gputypes.TextureFormatBGRA8UnormSrgb
	case gpu.TextureFormatR8Unorm:
		return gputypes.TextureFormatR8Unorm
	case gpu.TextureFormatRGBA16Float:
		return gputypes.TextureFormatRGBA16Float
	case gpu.TextureFormatRGBA32Float:
		return gputypes.TextureFormatRGBA32Float
	case gpu.TextureFormatDepth24PlusStencil8:
		return gputypes.TextureFormatDepth24PlusStencil8
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// convertVertexFormat maps a glint attribute format to a
// gputypes.VertexFormat. Matrix formats never reach here; the vertex
// descriptor rejects them.
func convertVertexFormat(f glint.Format) (gputypes.VertexFormat, error) {
	switch f {
	case glint.Uint8x2:
		return gputypes.VertexFormatUint8x2, nil
	case glint.Uint8x4:
		return gputypes.VertexFormatUint8x4, nil
	case glint.Sint8x2:
		return gputypes.VertexFormatSint8x2, nil
	case glint.Sint8x4:
		return gputypes.VertexFormatSint8x4, nil
	case glint.Unorm8x2:
		return gputypes.VertexFormatUnorm8x2, nil
	case glint.Unorm8x4:
		return gputypes.VertexFormatUnorm8x4, nil
	case glint.Snorm8x2:
		return gputypes.VertexFormatSnorm8x2, nil
	case glint.Snorm8x4:
		return gputypes.VertexFormatSnorm8x4, nil
	case glint.Uint16x2:
		return gputypes.VertexFormatUint16x2, nil
	case glint.Uint16x4:
		return gputypes.VertexFormatUint16x4, nil
	case glint.Sint16x2:
		return gputypes.VertexFormatSint16x2, nil
	case glint.Sint16x4:
		return gputypes.VertexFormatSint16x4, nil
	case glint.Unorm16x2:
		return gputypes.VertexFormatUnorm16x2, nil
	case glint.Unorm16x4:
		return gputypes.VertexFormatUnorm16x4, nil
	case glint.Snorm16x2:
		return gputypes.VertexFormatSnorm16x2, nil
	case glint.Snorm16x4:
		return gputypes.VertexFormatSnorm16x4, nil
	case glint.Float16x2:
		return gputypes.VertexFormatFloat16x2, nil
	case glint.Float16x4:
		return gputypes.VertexFormatFloat16x4, nil
	case glint.Float32:
		return gputypes.VertexFormatFloat32, nil
	case glint.Float32x2:
		return gputypes.VertexFormatFloat32x2, nil
	case glint.Float32x3:
		return gputypes.VertexFormatFloat32x3, nil
	case glint.Float32x4:
		return gputypes.VertexFormatFloat32x4, nil
	case glint.Uint32:
		return gputypes.VertexFormatUint32, nil
	case glint.Uint32x2:
		return gputypes.VertexFormatUint32x2, nil
	case glint.Uint32x3:
		return gputypes.VertexFormatUint32x3, nil
	case glint.Uint32x4:
		return gputypes.VertexFormatUint32x4, nil
	case glint.Sint32:
		return gputypes.VertexFormatSint32, nil
	case glint.Sint32x2:
		return gputypes.VertexFormatSint32x2, nil
	case glint.Sint32x3:
		return gputypes.VertexFormatSint32x3, nil
	case glint.Sint32x4:
		return gputypes.VertexFormatSint32x4, nil
	default:
		return 0, fmt.Errorf("wgpu: no vertex format for %v", f)
	}
}

// convertVertexLayouts maps glint buffer layouts to gputypes vertex
// buffer layouts.
func convertVertexLayouts(layouts []glint.BufferLayout) ([]gputypes.VertexBufferLayout, error) {
	out := make([]gputypes.VertexBufferLayout, len(layouts))
	for i, l := range layouts {
		attrs := make([]gputypes.VertexAttribute, len(l.Attributes))
		for j, a := range l.Attributes {
			vf, err := convertVertexFormat(a.Format)
			if err != nil {
				return nil, err
			}
			attrs[j] = gputypes.VertexAttribute{
				Format:         vf,
				Offset:         uint64(a.Offset),
				ShaderLocation: uint32(a.ShaderLocation),
			}
		}
		out[i] = gputypes.VertexBufferLayout{
			ArrayStride: uint64(l.Stride),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes:  attrs,
		}
	}
	return out, nil
}

// convertTopology maps gpu.PrimitiveTopology to gputypes.
func convertTopology(t gpu.PrimitiveTopology) gputypes.PrimitiveTopology {
	switch t {
	case gpu.TopologyTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	case gpu.TopologyLineList:
		return gputypes.PrimitiveTopologyLineList
	case gpu.TopologyPointList:
		return gputypes.PrimitiveTopologyPointList
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// convertCullMode maps gpu.CullMode to gputypes.
func convertCullMode(m gpu.CullMode) gputypes.CullMode {
	switch m {
	case gpu.CullFront:
		return gputypes.CullModeFront
	case gpu.CullBack:
		return gputypes.CullModeBack
	default:
		return gputypes.CullModeNone
	}
}

// convertFilter maps gpu.FilterMode to gputypes.
func convertFilter(f gpu.FilterMode) gputypes.FilterMode {
	if f == gpu.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// convertAddressMode maps gpu.AddressMode to gputypes.
func convertAddressMode(m gpu.AddressMode) gputypes.AddressMode {
	switch m {
	case gpu.AddressRepeat:
		return gputypes.AddressModeRepeat
	case gpu.AddressMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeClampToEdge
	}
}

// convertShaderStage maps gpu.ShaderStage to gputypes.ShaderStage.
func convertShaderStage(s gpu.ShaderStage) gputypes.ShaderStage {
	var result gputypes.ShaderStage
	if s&gpu.ShaderStageVertex != 0 {
		result |= gputypes.ShaderStageVertex
	}
	if s&gpu.ShaderStageFragment != 0 {
		result |= gputypes.ShaderStageFragment
	}
	if s&gpu.ShaderStageCompute != 0 {
		result |= gputypes.ShaderStageCompute
	}
	return result
}

// convertLayoutEntry maps a gpu bind group layout entry to gputypes.
func convertLayoutEntry(e gpu.BindGroupLayoutEntry) gputypes.BindGroupLayoutEntry {
	out := gputypes.BindGroupLayoutEntry{
		Binding:    uint32(e.Binding),
		Visibility: convertShaderStage(e.Visibility),
	}
	switch e.Type {
	case gpu.BindingTypeUniformBuffer:
		out.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: e.MinBindingSize,
		}
	case gpu.BindingTypeStorageBuffer:
		out.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeStorage,
			MinBindingSize: e.MinBindingSize,
		}
	case gpu.BindingTypeReadOnlyStorageBuffer:
		out.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: e.MinBindingSize,
		}
	case gpu.BindingTypeSampler:
		out.Sampler = &gputypes.SamplerBindingLayout{
			Type: gputypes.SamplerBindingTypeFiltering,
		}
	case gpu.BindingTypeSampledTexture:
		out.Texture = &gputypes.TextureBindingLayout{
			SampleType:    gputypes.TextureSampleTypeFloat,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	}
	return out
}

// convertLoadOp maps gpu.LoadOp to gputypes.
func convertLoadOp(op gpu.LoadOp) gputypes.LoadOp {
	if op == gpu.LoadOpLoad {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

// convertStoreOp maps gpu.StoreOp to gputypes.
func convertStoreOp(op gpu.StoreOp) gputypes.StoreOp {
	if op == gpu.StoreOpDiscard {
		return gputypes.StoreOpDiscard
	}
	return gputypes.StoreOpStore
}

// convertIndexFormat maps glint.IndexFormat to gputypes.IndexFormat.
func convertIndexFormat(f glint.IndexFormat) gputypes.IndexFormat {
	if f == glint.IndexUint32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}
