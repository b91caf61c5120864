// Package glint is a retained-mode 2D/3D rendering abstraction for Go.
//
// # Overview
//
// glint sits directly on top of a low-level GPU device (buffers, textures,
// samplers, pipelines, bind groups, command encoding) and lets application
// code describe typed vertex data, uniform structures, and draw passes
// without hand-managing GPU object lifetimes, memory layout, or CPU/GPU
// synchronization.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glint"
//	    "github.com/gogpu/glint/render"
//	)
//
//	// Describe per-vertex data once.
//	vd, _ := glint.NewVertexDescriptor(
//	    glint.Attr("position", glint.Float32x3),
//	    glint.Attr("color", glint.Unorm8x4),
//	)
//
//	// Fill a vertex array and draw it every frame.
//	va, _ := glint.NewVertexArray(vd)
//	va.Append(map[string][]float32{"position": {0, 0, 0}, "color": {1, 0, 0, 1}})
//
//	sched := render.NewScheduler(ctx)
//	loop := render.NewLoop(ctx, sched)
//	loop.Run(func(deltaMs float64) {
//	    sched.BeginPass(render.PassInfo{ColorAttachments: render.Canvas})
//	    sched.Draw(render.DrawInfo{Pipeline: pipe, Buffer: render.NamedBuffer("mesh")})
//	    sched.EndPass()
//	})
//
// # Architecture
//
// The library is organized into:
//   - Root package: wire formats, the structured-memory codec, struct and
//     vertex descriptors, vertex arrays
//   - gpu: the device abstraction, lazily-bound resource wrappers, and the
//     deferred texture destruction queue
//   - render: the per-frame pass scheduler, render targets, and frame loop
//   - backend: pluggable device implementations (gogpu/wgpu, software)
//   - glb: the binary scene-container parser
//
// Resource wrappers are the unit application code holds and shares; the
// underlying device objects are created lazily on first use and cached for
// the wrapper's lifetime.
package glint
