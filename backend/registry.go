// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"sync"

	"github.com/gogpu/glint"
	"github.com/gogpu/glint/gpu"
)

// Factory creates a new backend instance, or returns nil when the
// backend cannot run in this environment.
type Factory func() DeviceBackend

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// Hardware before software fallback.
	priority = []string{BackendWGPU, BackendSoftware}
)

// Register registers a backend factory under name. Typically called
// from init() in backend packages. Registering a taken name replaces
// the earlier factory.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry. Useful for tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether a backend with the given name is
// registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns a backend instance by name, or nil if the name is not
// registered or the factory declines.
func Get(name string) DeviceBackend {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available backend in priority order,
// falling back to any registered backend. Returns nil when none is
// available.
func Default() DeviceBackend {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if factory, ok := backends[name]; ok {
			if b := factory(); b != nil {
				return b
			}
		}
	}
	for _, factory := range backends {
		if b := factory(); b != nil {
			return b
		}
	}
	return nil
}

// InitDefault brings up the default backend and returns it with its
// device.
func InitDefault() (DeviceBackend, gpu.Device, error) {
	b := Default()
	if b == nil {
		return nil, nil, ErrBackendNotAvailable
	}
	d, err := b.Init()
	if err != nil {
		return nil, nil, err
	}
	glint.Logger().Info("backend selected", "name", b.Name())
	return b, d, nil
}
