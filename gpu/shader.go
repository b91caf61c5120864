// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"
)

// ShaderModule wraps one compiled WGSL module, compiled lazily on the
// first Handle call.
type ShaderModule struct {
	mu sync.Mutex
	binding

	label string
	wgsl  string
	id    ShaderModuleID
}

// NewShaderModule creates an unbound shader module from WGSL source.
func NewShaderModule(wgsl, label string) *ShaderModule {
	return &ShaderModule{wgsl: wgsl, label: label}
}

// Label returns the module's debug label.
func (m *ShaderModule) Label() string {
	return m.label
}

// Source returns the module's WGSL source.
func (m *ShaderModule) Source() string {
	return m.wgsl
}

// Handle binds the module to d if unbound, lazily compiles it, and
// returns its ID.
func (m *ShaderModule) Handle(d Device) (ShaderModuleID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.bind(d); err != nil {
		return InvalidID, err
	}
	if m.id != InvalidID {
		return m.id, nil
	}
	if m.wgsl == "" {
		return InvalidID, fmt.Errorf("%w: shader %q has no source", ErrInvalidDescriptor, m.label)
	}
	id, err := d.CreateShaderModule(m.wgsl, m.label)
	if err != nil {
		return InvalidID, fmt.Errorf("compile shader %q: %w", m.label, err)
	}
	m.id = id
	return id, nil
}

// Destroy releases the device object. The next Handle call recompiles
// on the same device.
func (m *ShaderModule) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id == InvalidID {
		return
	}
	m.device.DestroyShaderModule(m.id)
	m.id = InvalidID
}
