// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"
)

// BindGroupLayout wraps one device bind group layout, created lazily on
// the first Handle call.
type BindGroupLayout struct {
	mu sync.Mutex
	binding

	desc BindGroupLayoutDescriptor
	id   BindGroupLayoutID
}

// NewBindGroupLayout creates an unbound bind group layout from desc.
func NewBindGroupLayout(desc BindGroupLayoutDescriptor) *BindGroupLayout {
	return &BindGroupLayout{desc: desc}
}

// Label returns the layout's debug label.
func (l *BindGroupLayout) Label() string {
	return l.desc.Label
}

// Handle binds the layout to d if unbound, lazily creates the device
// object, and returns its ID.
func (l *BindGroupLayout) Handle(d Device) (BindGroupLayoutID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.bind(d); err != nil {
		return InvalidID, err
	}
	if l.id != InvalidID {
		return l.id, nil
	}
	if err := requireEntries("bind group layout "+l.desc.Label, len(l.desc.Entries)); err != nil {
		return InvalidID, err
	}
	id, err := d.CreateBindGroupLayout(&l.desc)
	if err != nil {
		return InvalidID, fmt.Errorf("create bind group layout %q: %w", l.desc.Label, err)
	}
	l.id = id
	return id, nil
}

// Destroy releases the device object. The next Handle call re-creates
// it on the same device.
func (l *BindGroupLayout) Destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.id == InvalidID {
		return
	}
	l.device.DestroyBindGroupLayout(l.id)
	l.id = InvalidID
}

// Binding references one resource wrapper for a bind group slot.
// Exactly one of Buffer, Sampler, or Texture must be set; a Texture
// binds its full view.
type Binding struct {
	// Binding is the binding index within the group.
	Binding int

	Buffer *Buffer
	// Offset and Size select a buffer sub-range; Size 0 binds the whole
	// buffer from Offset.
	Offset uint64
	Size   uint64

	Sampler *Sampler
	Texture *Texture
}

// BindUniform binds a buffer as slot binding.
func BindUniform(binding int, buf *Buffer) Binding {
	return Binding{Binding: binding, Buffer: buf}
}

// BindSampler binds a sampler as slot binding.
func BindSampler(binding int, s *Sampler) Binding {
	return Binding{Binding: binding, Sampler: s}
}

// BindTexture binds a texture's view as slot binding.
func BindTexture(binding int, t *Texture) Binding {
	return Binding{Binding: binding, Texture: t}
}

// BindGroup wraps one device bind group over resource wrappers. The
// wrapper references are resolved to device IDs once, when the device
// object is created; later changes to a referenced resource are not
// picked up automatically. To rebind after a referenced resource was
// re-created, Destroy the group and request it again.
type BindGroup struct {
	mu sync.Mutex
	binding

	label   string
	layout  *BindGroupLayout
	entries []Binding
	id      BindGroupID
}

// NewBindGroup creates an unbound bind group over layout with the given
// entries.
func NewBindGroup(layout *BindGroupLayout, label string, entries ...Binding) *BindGroup {
	return &BindGroup{label: label, layout: layout, entries: entries}
}

// Label returns the group's debug label.
func (g *BindGroup) Label() string {
	return g.label
}

// Layout returns the group's layout wrapper.
func (g *BindGroup) Layout() *BindGroupLayout {
	return g.layout
}

// Textures returns the texture wrappers the group references, for
// use tracking by the render scheduler.
func (g *BindGroup) Textures() []*Texture {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*Texture
	for _, e := range g.entries {
		if e.Texture != nil {
			out = append(out, e.Texture)
		}
	}
	return out
}

// Handle binds the group to d if unbound, resolves every referenced
// wrapper against d (creating their device objects as needed), lazily
// creates the device bind group, and returns its ID.
func (g *BindGroup) Handle(d Device) (BindGroupID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.bind(d); err != nil {
		return InvalidID, err
	}
	if g.id != InvalidID {
		return g.id, nil
	}
	if g.layout == nil {
		return InvalidID, fmt.Errorf("%w: bind group %q has no layout", ErrInvalidDescriptor, g.label)
	}
	if err := requireEntries("bind group "+g.label, len(g.entries)); err != nil {
		return InvalidID, err
	}

	layoutID, err := g.layout.Handle(d)
	if err != nil {
		return InvalidID, err
	}

	resolved := make([]BindGroupEntry, len(g.entries))
	for i, e := range g.entries {
		entry := BindGroupEntry{Binding: e.Binding, Offset: e.Offset, Size: e.Size}
		switch {
		case e.Buffer != nil:
			entry.Buffer, err = e.Buffer.Handle(d)
		case e.Sampler != nil:
			entry.Sampler, err = e.Sampler.Handle(d)
		case e.Texture != nil:
			entry.TextureView, err = e.Texture.View(d)
		default:
			err = fmt.Errorf("%w: bind group %q slot %d references nothing",
				ErrInvalidDescriptor, g.label, e.Binding)
		}
		if err != nil {
			return InvalidID, err
		}
		resolved[i] = entry
	}

	id, err := d.CreateBindGroup(&BindGroupDescriptor{
		Label:   g.label,
		Layout:  layoutID,
		Entries: resolved,
	})
	if err != nil {
		return InvalidID, fmt.Errorf("create bind group %q: %w", g.label, err)
	}
	g.id = id
	return id, nil
}

// Destroy releases the device object, leaving referenced wrappers
// untouched. The next Handle call re-resolves and re-creates.
func (g *BindGroup) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.id == InvalidID {
		return
	}
	g.device.DestroyBindGroup(g.id)
	g.id = InvalidID
}
