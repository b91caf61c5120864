// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render schedules deferred render passes and drives the frame
// loop.
//
// A [Scheduler] records passes without touching the device: BeginPass
// opens a pass, Canvas.Draw records retained draw steps, End queues
// the pass, and Flush encodes every queued pass into one command
// buffer and submits it. [Loop] runs the per-frame cycle of callback,
// deferred-destruction drain, and flush.
//
// Passes render into a [RenderTarget]: an offscreen [TextureTarget] or
// a host-owned [ViewTarget]. Hosts that already own a GPU device share
// it through [DeviceHandle].
package render
