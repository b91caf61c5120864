// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpu"
)

func init() {
	backend.Register(backend.BackendSoftware, func() backend.DeviceBackend {
		return &Backend{}
	})
}

// Backend is the software device backend. It is always available.
type Backend struct {
	device *Device
}

// Name returns "software".
func (b *Backend) Name() string {
	return backend.BackendSoftware
}

// Init creates the in-memory device. Submitted work auto-completes so
// hosts without a frame-stepping harness still see destruction make
// progress.
func (b *Backend) Init() (gpu.Device, error) {
	if b.device == nil {
		b.device = New()
		b.device.AutoComplete = true
	}
	return b.device, nil
}

// Device returns the backend's device, or nil before Init.
func (b *Backend) Device() *Device {
	return b.device
}

// Close drops the device.
func (b *Backend) Close() {
	b.device = nil
}
