// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu backs the glint device abstraction with gogpu/wgpu hal.
// Shaders are WGSL, compiled to SPIR-V through naga at module creation.
//
// The backend either opens its own Vulkan device or shares one from a
// host through SetDeviceProvider, so glint can render into a window the
// host already drives.
package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/gpu"
)

func init() {
	backend.Register(backend.BackendWGPU, func() backend.DeviceBackend {
		if _, ok := hal.GetBackend(gputypes.BackendVulkan); !ok {
			return nil
		}
		return &Backend{}
	})
}

// Backend is the hardware device backend.
type Backend struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	wrapped *Device

	externalDevice bool // true when using shared device (don't destroy on Close)
}

// Name returns "wgpu".
func (b *Backend) Name() string {
	return backend.BackendWGPU
}

// Init opens a standalone Vulkan device, unless a shared one was
// provided earlier through SetDeviceProvider.
func (b *Backend) Init() (gpu.Device, error) {
	if b.wrapped != nil {
		return b.wrapped, nil
	}
	if err := b.openDevice(); err != nil {
		return nil, err
	}
	b.wrapped = NewDevice(b.device, b.queue)
	return b.wrapped, nil
}

// SetDeviceProvider switches the backend to a shared GPU device from an
// external provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func (b *Backend) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}

	// Drop own resources if we created them.
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}

	b.device = device
	b.queue = queue
	b.externalDevice = true
	b.wrapped = NewDevice(device, queue)
	return nil
}

// HalDevice returns the underlying hal device, for sharing onward.
func (b *Backend) HalDevice() any { return b.device }

// HalQueue returns the underlying hal queue, for sharing onward.
func (b *Backend) HalQueue() any { return b.queue }

// Close releases the device and instance when the backend owns them.
func (b *Backend) Close() {
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.instance = nil
	b.device = nil
	b.queue = nil
	b.wrapped = nil
	b.externalDevice = false
}

func (b *Backend) openDevice() error {
	halBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("wgpu: %w: vulkan not registered", backend.ErrBackendNotAvailable)
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("wgpu: %w: no adapters", backend.ErrBackendNotAvailable)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpu: open device: %w", err)
	}

	b.instance = instance
	b.device = openDev.Device
	b.queue = openDev.Queue
	return nil
}
