// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu provides the device abstraction and the lazily-bound
// resource wrappers of glint.
//
// # Device abstraction
//
// [Device] is an opaque-ID interface over a low-level GPU API: buffers,
// textures, samplers, shader modules, bind groups, pipelines, and
// command encoding. Backends implement it (see backend/wgpu and
// backend/software); tests fake it.
//
// # Resource wrappers
//
// Texture, Sampler, Buffer, ShaderModule, BindGroupLayout, BindGroup,
// and Pipeline wrap one underlying device object each. A wrapper starts
// unbound; the first device-object request binds it to that device and
// lazily creates the object, which is then cached for the wrapper's
// lifetime. Requesting the object for a different device is a fatal
// usage error: a wrapper belongs to at most one device.
//
// # Deferred texture destruction
//
// Destroying a texture never frees the device object immediately.
// The handle is released onto a [DestructionQueue] only once all GPU
// work that referenced it has completed, tracked by per-handle epoch
// counters. The frame loop drains the queue once per frame.
package gpu
