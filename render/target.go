// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/glint/gpu"
)

// RenderTarget is a surface the scheduler renders passes into.
//
// Implementations cover offscreen device textures (TextureTarget) and
// host-owned swapchain views (ViewTarget). A target exposes the view
// to attach and the format pipelines must be built against.
type RenderTarget interface {
	// Width returns the target width in pixels.
	Width() int

	// Height returns the target height in pixels.
	Height() int

	// Format returns the target's texture format.
	Format() gpu.TextureFormat

	// View returns the texture view rendered into.
	View() gpu.TextureViewID
}

// TextureTarget is an offscreen render target backed by a device
// texture created with render-attachment usage. The texture can also
// be sampled, so a pass can render into it and a later pass can read
// it.
type TextureTarget struct {
	device gpu.Device
	label  string
	w, h   int
	format gpu.TextureFormat
	id     gpu.TextureID
	view   gpu.TextureViewID
}

// NewTextureTarget creates an offscreen target of the given size and
// format on d.
func NewTextureTarget(d gpu.Device, w, h int, format gpu.TextureFormat, label string) (*TextureTarget, error) {
	if d == nil {
		return nil, gpu.ErrNilDevice
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: target %q size %dx%d", gpu.ErrInvalidDescriptor, label, w, h)
	}

	id, err := d.CreateTexture(&gpu.TextureDescriptor{
		Label:  label,
		Width:  w,
		Height: h,
		Format: format,
		Usage:  gpu.TextureUsageRenderAttachment | gpu.TextureUsageTextureBinding | gpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create target %q: %w", label, err)
	}
	view, err := d.CreateTextureView(id)
	if err != nil {
		d.DestroyTexture(id)
		return nil, fmt.Errorf("create target view %q: %w", label, err)
	}
	return &TextureTarget{
		device: d,
		label:  label,
		w:      w,
		h:      h,
		format: format,
		id:     id,
		view:   view,
	}, nil
}

// Width returns the target width in pixels.
func (t *TextureTarget) Width() int { return t.w }

// Height returns the target height in pixels.
func (t *TextureTarget) Height() int { return t.h }

// Format returns the target's texture format.
func (t *TextureTarget) Format() gpu.TextureFormat { return t.format }

// View returns the texture view rendered into.
func (t *TextureTarget) View() gpu.TextureViewID { return t.view }

// Texture returns the backing texture ID, for sampling the target in a
// later pass.
func (t *TextureTarget) Texture() gpu.TextureID { return t.id }

// Release frees the backing texture immediately. The target must not
// be referenced by in-flight GPU work.
func (t *TextureTarget) Release() {
	if t.id == gpu.InvalidID {
		return
	}
	t.device.DestroyTextureView(t.view)
	t.device.DestroyTexture(t.id)
	t.id = gpu.InvalidID
	t.view = gpu.InvalidID
}

// ViewTarget wraps a host-owned texture view, typically the current
// swapchain frame. The view's lifetime is the host's business.
type ViewTarget struct {
	W, H       int
	ViewID     gpu.TextureViewID
	ViewFormat gpu.TextureFormat
}

// Width returns the target width in pixels.
func (t *ViewTarget) Width() int { return t.W }

// Height returns the target height in pixels.
func (t *ViewTarget) Height() int { return t.H }

// Format returns the target's texture format.
func (t *ViewTarget) Format() gpu.TextureFormat { return t.ViewFormat }

// View returns the wrapped texture view.
func (t *ViewTarget) View() gpu.TextureViewID { return t.ViewID }
