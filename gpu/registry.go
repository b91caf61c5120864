// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"
)

// Registry is a label-keyed collection of resources of one kind,
// typically pipelines, bind groups, or textures shared across a
// renderer. Registering a taken label or looking up an unknown one is
// an error: collisions and typos surface immediately instead of
// silently shadowing a resource.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]T)}
}

// Register adds value under label.
func (r *Registry[T]) Register(label string, value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[label]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	r.entries[label] = value
	return nil
}

// Lookup returns the value registered under label.
func (r *Registry[T]) Lookup(label string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.entries[label]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return value, nil
}

// Unregister removes the value registered under label. Removing an
// unknown label is an error.
func (r *Registry[T]) Unregister(label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[label]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	delete(r.entries, label)
	return nil
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Labels returns the registered labels in unspecified order.
func (r *Registry[T]) Labels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for label := range r.entries {
		out = append(out, label)
	}
	return out
}
