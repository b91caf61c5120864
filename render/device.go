// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/glint/gpu"
)

// DeviceHandle provides GPU device access from the host application.
//
// glint receives its device from the host, it does not create one: a
// windowing or engine layer that already owns a gpucontext device
// implements DeviceHandle (or just passes its gpucontext.DeviceProvider
// through) and the wgpu backend renders on the shared device. This
// keeps resources shareable between glint and the host and avoids a
// second device init.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so any host
// in the gpucontext ecosystem plugs in without an adapter.
type DeviceHandle = gpucontext.DeviceProvider

// SurfaceFormat translates a host surface format into the device
// texture format passes render against. Unknown formats map to
// BGRA8Unorm, the most common swapchain format.
func SurfaceFormat(f gputypes.TextureFormat) gpu.TextureFormat {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return gpu.TextureFormatRGBA8Unorm
	case gputypes.TextureFormatBGRA8Unorm:
		return gpu.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatR8Unorm:
		return gpu.TextureFormatR8Unorm
	case gputypes.TextureFormatDepth24PlusStencil8:
		return gpu.TextureFormatDepth24PlusStencil8
	default:
		return gpu.TextureFormatBGRA8Unorm
	}
}
