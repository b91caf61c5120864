// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend selects the device implementation glint renders on.
//
// Device backends register themselves from init() functions; hosts
// pick one by name with Get or take the best available with Default.
package backend

import (
	"errors"

	"github.com/gogpu/glint/gpu"
)

// Backend names.
const (
	// BackendWGPU is the hardware backend on gogpu/wgpu.
	BackendWGPU = "wgpu"

	// BackendSoftware is the deterministic in-memory fallback.
	BackendSoftware = "software"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when no usable backend is
	// registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// DeviceBackend creates and owns one gpu.Device.
type DeviceBackend interface {
	// Name returns the backend identifier (e.g., "wgpu", "software").
	Name() string

	// Init brings the backend up and returns its device.
	Init() (gpu.Device, error)

	// Close releases all backend resources. The device must not be
	// used afterwards.
	Close()
}
