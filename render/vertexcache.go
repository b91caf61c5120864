// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/glint"
	"github.com/gogpu/glint/gpu"
)

// arrayBuffers pairs the device buffers backing one vertex array.
type arrayBuffers struct {
	vertex *gpu.Buffer
	index  *gpu.Buffer

	// uploaded index format; a format change forces an index re-upload
	// even when the byte length happens to match.
	indexFmt glint.IndexFormat
}

// bufferCache keeps one vertex/index buffer pair per vertex array and
// re-uploads lazily: an array marked dirty gets its bytes regenerated
// and pushed on the next use, a clean array reuses the device buffers
// untouched.
type bufferCache struct {
	entries map[*glint.VertexArray]*arrayBuffers
}

func newBufferCache() *bufferCache {
	return &bufferCache{entries: make(map[*glint.VertexArray]*arrayBuffers)}
}

// buffersFor returns up-to-date device buffers for va, creating and
// uploading as needed.
func (c *bufferCache) buffersFor(d gpu.Device, va *glint.VertexArray) (*arrayBuffers, error) {
	bufs, ok := c.entries[va]
	if !ok {
		bufs = &arrayBuffers{
			vertex: gpu.NewBuffer(gpu.BufferUsageVertex, "vertices"),
			index:  gpu.NewBuffer(gpu.BufferUsageIndex, "indices"),
		}
		c.entries[va] = bufs
	}

	if va.Dirty() || !ok {
		bufs.vertex.SetData(va.Bytes())
		if va.HasIndices() {
			bufs.index.SetData(va.IndexBytes())
			bufs.indexFmt = va.IndexFormat()
		} else {
			bufs.indexFmt = glint.IndexNone
		}
	} else if va.HasIndices() && bufs.indexFmt != va.IndexFormat() {
		bufs.index.SetData(va.IndexBytes())
		bufs.indexFmt = va.IndexFormat()
	}

	if _, err := bufs.vertex.Handle(d); err != nil {
		return nil, err
	}
	if va.HasIndices() {
		if _, err := bufs.index.Handle(d); err != nil {
			return nil, err
		}
	}
	return bufs, nil
}

// forget drops the cached buffers for va, destroying the device
// objects.
func (c *bufferCache) forget(va *glint.VertexArray) {
	bufs, ok := c.entries[va]
	if !ok {
		return
	}
	bufs.vertex.Destroy()
	bufs.index.Destroy()
	delete(c.entries, va)
}
