// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"
)

// Sampler wraps one device sampler, created lazily on the first Handle
// call. Identical Handle calls return the identical ID.
type Sampler struct {
	mu sync.Mutex
	binding

	desc SamplerDescriptor
	id   SamplerID
}

// NewSampler creates an unbound sampler from desc.
func NewSampler(desc SamplerDescriptor) *Sampler {
	return &Sampler{desc: desc}
}

// LinearSampler is a linear-filtering, clamp-to-edge sampler, the
// common case for sprite and UI textures.
func LinearSampler(label string) *Sampler {
	return NewSampler(SamplerDescriptor{
		Label:       label,
		MagFilter:   FilterLinear,
		MinFilter:   FilterLinear,
		AddressMode: AddressClampToEdge,
	})
}

// NearestSampler is a nearest-filtering, clamp-to-edge sampler for
// pixel-exact sampling.
func NearestSampler(label string) *Sampler {
	return NewSampler(SamplerDescriptor{
		Label:       label,
		MagFilter:   FilterNearest,
		MinFilter:   FilterNearest,
		AddressMode: AddressClampToEdge,
	})
}

// Label returns the sampler's debug label.
func (s *Sampler) Label() string {
	return s.desc.Label
}

// Handle binds the sampler to d if unbound, lazily creates the device
// object, and returns its ID.
func (s *Sampler) Handle(d Device) (SamplerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bind(d); err != nil {
		return InvalidID, err
	}
	if s.id != InvalidID {
		return s.id, nil
	}
	id, err := d.CreateSampler(&s.desc)
	if err != nil {
		return InvalidID, fmt.Errorf("create sampler %q: %w", s.desc.Label, err)
	}
	s.id = id
	return id, nil
}

// Destroy releases the device object. The next Handle call re-creates
// it on the same device.
func (s *Sampler) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == InvalidID {
		return
	}
	s.device.DestroySampler(s.id)
	s.id = InvalidID
}
