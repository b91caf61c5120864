// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Common errors returned by the pass scheduler and frame loop.
var (
	// ErrNoActivePass is returned when recording a draw or ending a
	// pass while no pass is open.
	ErrNoActivePass = errors.New("render: no active pass")

	// ErrPassEnded is returned when recording through a canvas whose
	// pass has already ended.
	ErrPassEnded = errors.New("render: pass already ended")

	// ErrPassActive is returned by Flush while a pass is still open.
	ErrPassActive = errors.New("render: pass still active")

	// ErrPassOrder is returned when ending a pass that is not the
	// innermost open pass.
	ErrPassOrder = errors.New("render: pass ended out of order")

	// ErrNilTarget is returned when a pass is opened without a render
	// target.
	ErrNilTarget = errors.New("render: target is nil")

	// ErrNilPipeline is returned when a draw step carries no pipeline.
	ErrNilPipeline = errors.New("render: pipeline is nil")

	// ErrNoVertices is returned when a draw step carries no vertex
	// array or an empty one.
	ErrNoVertices = errors.New("render: no vertices to draw")

	// ErrNilBindGroup is returned when a nil bind group is installed on
	// a pass or a draw step.
	ErrNilBindGroup = errors.New("render: bind group is nil")

	// ErrLoopRunning is returned by Run on a loop that is already
	// running.
	ErrLoopRunning = errors.New("render: loop already running")
)
