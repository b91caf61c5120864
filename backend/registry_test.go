// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend_test

import (
	"errors"
	"testing"

	"github.com/gogpu/glint/backend"
	"github.com/gogpu/glint/backend/software"
	"github.com/gogpu/glint/gpu"
)

// The software backend registers itself on import.
func TestRegistry_SoftwareRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendSoftware) {
		t.Fatal("software backend not registered")
	}
	b := backend.Get(backend.BackendSoftware)
	if b == nil {
		t.Fatal("Get(software) = nil")
	}
	if b.Name() != backend.BackendSoftware {
		t.Errorf("Name() = %q, want %q", b.Name(), backend.BackendSoftware)
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	if b := backend.Get("no-such-backend"); b != nil {
		t.Errorf("Get(unknown) = %v, want nil", b)
	}
}

func TestRegistry_RegisterAndUnregister(t *testing.T) {
	name := "test-backend"
	backend.Register(name, func() backend.DeviceBackend {
		return &fakeBackend{name: name}
	})
	defer backend.Unregister(name)

	if !backend.IsRegistered(name) {
		t.Fatal("registered backend not found")
	}
	found := false
	for _, n := range backend.Available() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing %q", backend.Available(), name)
	}

	backend.Unregister(name)
	if backend.IsRegistered(name) {
		t.Error("backend still registered after Unregister")
	}
}

func TestRegistry_DecliningFactory(t *testing.T) {
	name := "declining"
	backend.Register(name, func() backend.DeviceBackend { return nil })
	defer backend.Unregister(name)

	if b := backend.Get(name); b != nil {
		t.Errorf("Get on declining factory = %v, want nil", b)
	}
	// Default skips declining factories and lands on software.
	b := backend.Default()
	if b == nil {
		t.Fatal("Default() = nil with software registered")
	}
}

func TestInitDefault(t *testing.T) {
	b, dev, err := backend.InitDefault()
	if err != nil {
		t.Fatalf("InitDefault: %v", err)
	}
	defer b.Close()
	if dev == nil {
		t.Fatal("InitDefault returned nil device")
	}

	// The returned device is live: resources can be created on it.
	id, err := dev.CreateBuffer(16, gpu.BufferUsageUniform, "probe")
	if err != nil {
		t.Fatalf("CreateBuffer on default device: %v", err)
	}
	dev.DestroyBuffer(id)
}

func TestSoftwareBackend_Lifecycle(t *testing.T) {
	b := backend.Get(backend.BackendSoftware).(*software.Backend)
	dev, err := b.Init()
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	again, err := b.Init()
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if dev != again {
		t.Error("Init re-created the device")
	}
	if b.Device() == nil {
		t.Error("Device() = nil after Init")
	}
	b.Close()
	if b.Device() != nil {
		t.Error("Device() survived Close")
	}
}

var errUnavailable = errors.New("unavailable")

type fakeBackend struct {
	name string
}

func (f *fakeBackend) Name() string { return f.name }
func (f *fakeBackend) Init() (gpu.Device, error) {
	return nil, errUnavailable
}
func (f *fakeBackend) Close() {}
