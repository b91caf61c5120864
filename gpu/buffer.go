// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/glint"
)

// Buffer wraps one device buffer behind a CPU-side mirror. The device
// object is created lazily on the first Handle call; until then all
// writes land only in the mirror. Once created, writes are forwarded
// to the device as partial updates covering just the changed range.
//
// A buffer binds to the first device it is requested for and belongs
// to it from then on. Destroy releases the device object but keeps the
// binding; the next Handle call re-creates the object on the same
// device.
type Buffer struct {
	mu sync.Mutex
	binding

	id    BufferID
	usage BufferUsage
	label string
	data  []byte
}

// NewBuffer creates an unbound buffer for the given usage.
func NewBuffer(usage BufferUsage, label string) *Buffer {
	return &Buffer{usage: usage, label: label}
}

// Label returns the buffer's debug label.
func (b *Buffer) Label() string {
	return b.label
}

// Size returns the current byte size of the buffer's contents.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// SetData replaces the buffer's contents. When the size is unchanged
// and a device object exists, the new contents are uploaded in place;
// a size change releases the device object so the next Handle call
// allocates one of the right size.
func (b *Buffer) SetData(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	resized := len(data) != len(b.data)
	b.data = make([]byte, len(data))
	copy(b.data, data)

	if b.id == InvalidID {
		return
	}
	if resized {
		b.device.DestroyBuffer(b.id)
		b.id = InvalidID
		return
	}
	b.device.WriteBuffer(b.id, 0, b.data)
}

// WriteAt overwrites a byte range of the buffer. The range must lie
// within the current contents.
func (b *Buffer) WriteAt(offset int, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("%w: write [%d, %d) in buffer of %d bytes",
			glint.ErrOutOfRange, offset, offset+len(data), len(b.data))
	}
	copy(b.data[offset:], data)
	if b.id != InvalidID {
		b.device.WriteBuffer(b.id, uint64(offset), b.data[offset:offset+len(data)])
	}
	return nil
}

// MirrorStruct makes the buffer mirror a structured value: the buffer
// takes the struct's current bytes as its contents and installs a
// dirty-range hook so every later field write is forwarded as a
// partial device update. One struct should mirror into at most one
// buffer.
func (b *Buffer) MirrorStruct(s *glint.Struct) {
	b.SetData(s.Bytes())
	s.OnWrite(func(offset, size int) {
		// The struct validated the write; the range is in bounds.
		_ = b.WriteAt(offset, s.Bytes()[offset:offset+size])
	})
}

// Handle binds the buffer to d if unbound, lazily creates the device
// object, and returns its ID. Creating an empty buffer is an error.
func (b *Buffer) Handle(d Device) (BufferID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.bind(d); err != nil {
		return InvalidID, err
	}
	if b.id != InvalidID {
		return b.id, nil
	}
	if len(b.data) == 0 {
		return InvalidID, fmt.Errorf("%w: buffer %q is empty", ErrInvalidDescriptor, b.label)
	}

	id, err := d.CreateBuffer(len(b.data), b.usage|BufferUsageCopyDst, b.label)
	if err != nil {
		return InvalidID, fmt.Errorf("create buffer %q: %w", b.label, err)
	}
	d.WriteBuffer(id, 0, b.data)
	b.id = id
	glint.Logger().Debug("buffer created", "label", b.label, "size", len(b.data))
	return id, nil
}

// Destroy releases the device object, if any. The CPU mirror and the
// device binding survive, so the buffer can be used again.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.id == InvalidID {
		return
	}
	b.device.DestroyBuffer(b.id)
	b.id = InvalidID
}
