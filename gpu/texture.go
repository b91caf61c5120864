// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"image"
	stddraw "image/draw"
	"sync"
	"sync/atomic"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/glint"
)

// Texture wraps one device texture plus its full view. The source is
// an image.Image, supplied up front or produced on demand by a lazy
// loader; the device objects are created on the first Load (or View)
// call and cached for the wrapper's lifetime.
//
// Destruction is deferred: Destroy never frees the device objects
// immediately. It waits for the device to confirm that all submitted
// work referencing them has completed, re-checks that no new work
// arrived in the meantime, and only then hands the release to a
// DestructionQueue drained by the frame loop.
type Texture struct {
	mu sync.Mutex
	binding

	label  string
	flipY  bool
	src    image.Image
	loader func() (image.Image, error)

	// scaleW/scaleH force the uploaded size; zero means native size.
	scaleW, scaleH int

	id    TextureID
	view  TextureViewID
	w, h  int
	epoch *atomic.Uint64

	// destroyed marks that the wrapper released device objects at least
	// once, so a later load is a re-creation.
	destroyed bool
}

// NewTexture creates an unbound texture from a source image.
func NewTexture(src image.Image, label string) *Texture {
	return &Texture{src: src, label: label}
}

// NewLazyTexture creates an unbound texture whose source is produced by
// loader at first Load. The loader runs at most once per upload.
func NewLazyTexture(loader func() (image.Image, error), label string) *Texture {
	return &Texture{loader: loader, label: label}
}

// Label returns the texture's debug label.
func (t *Texture) Label() string {
	return t.label
}

// SetFlipY selects whether pixel rows are uploaded bottom-to-top.
// Takes effect on the next upload.
func (t *Texture) SetFlipY(flip bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flipY = flip
}

// SetSource replaces the source image. A loaded texture is released
// (deferred, through q) and re-created from the new source on the next
// Load call.
func (t *Texture) SetSource(src image.Image, q *DestructionQueue) {
	t.mu.Lock()
	t.src = src
	t.loader = nil
	t.mu.Unlock()
	t.Destroy(q)
}

// SetSize forces the uploaded texture to w by h pixels, rescaling the
// source with bilinear filtering. Zero restores the source's native
// size. A loaded texture is released (deferred, through q) and
// re-created at the new size on the next Load call.
func (t *Texture) SetSize(w, h int, q *DestructionQueue) {
	t.mu.Lock()
	t.scaleW, t.scaleH = w, h
	t.mu.Unlock()
	t.Destroy(q)
}

// Size returns the dimensions of the loaded texture, or (0, 0) before
// the first Load.
func (t *Texture) Size() (w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w, t.h
}

// Loaded reports whether the device objects exist.
func (t *Texture) Loaded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id != InvalidID
}

// Load binds the texture to d if unbound and creates the device
// texture, its view, and the pixel upload. Loading an already-loaded
// texture is a no-op; after Destroy it re-creates the objects.
func (t *Texture) Load(d Device) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(d)
}

func (t *Texture) loadLocked(d Device) error {
	if err := t.bind(d); err != nil {
		return err
	}
	if t.id != InvalidID {
		return nil
	}

	src := t.src
	if src == nil {
		if t.loader == nil {
			return fmt.Errorf("%w: texture %q", ErrSourceNotSet, t.label)
		}
		loaded, err := t.loader()
		if err != nil {
			return fmt.Errorf("load texture %q: %w", t.label, err)
		}
		src = loaded
		t.src = loaded
	}

	rgba := toRGBA(src)
	if t.scaleW > 0 && t.scaleH > 0 {
		rgba = rescale(rgba, t.scaleW, t.scaleH)
	}
	w := rgba.Bounds().Dx()
	h := rgba.Bounds().Dy()

	id, err := d.CreateTexture(&TextureDescriptor{
		Label:  t.label,
		Width:  w,
		Height: h,
		Format: TextureFormatRGBA8Unorm,
		Usage:  TextureUsageTextureBinding | TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create texture %q: %w", t.label, err)
	}
	view, err := d.CreateTextureView(id)
	if err != nil {
		d.DestroyTexture(id)
		return fmt.Errorf("create texture view %q: %w", t.label, err)
	}
	d.WriteTexture(id, pixels(rgba, t.flipY))

	t.id = id
	t.view = view
	t.w, t.h = w, h
	t.epoch = new(atomic.Uint64)
	if t.destroyed {
		glint.Logger().Debug("texture re-created", "label", t.label, "width", w, "height", h)
	} else {
		glint.Logger().Debug("texture loaded", "label", t.label, "width", w, "height", h)
	}
	return nil
}

// View returns the texture's view ID, loading the texture first if
// needed.
func (t *Texture) View(d Device) (TextureViewID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.loadLocked(d); err != nil {
		return InvalidID, err
	}
	return t.view, nil
}

// Handle returns the texture's ID, loading the texture first if needed.
func (t *Texture) Handle(d Device) (TextureID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.loadLocked(d); err != nil {
		return InvalidID, err
	}
	return t.id, nil
}

// MarkUsed records that GPU work referencing the texture's current
// device objects was submitted. The render scheduler calls this once
// per flush for every texture the flushed work draws with; a pending
// destruction observing the bump waits for another completion round
// before releasing.
func (t *Texture) MarkUsed() {
	t.mu.Lock()
	epoch := t.epoch
	t.mu.Unlock()
	if epoch != nil {
		epoch.Add(1)
	}
}

// Destroy detaches the device objects from the wrapper and releases
// them once safe. The wrapper itself stays usable: it keeps its source
// and device binding, and the next Load re-creates the objects.
//
// The release is deferred in two steps. First, the device reports that
// all work submitted so far has completed; if new work referencing the
// objects was submitted in the meantime the wait re-arms. Second, the
// confirmed-idle release is enqueued on q and runs when the frame loop
// drains the queue. A nil q runs the release directly at confirmation.
func (t *Texture) Destroy(q *DestructionQueue) {
	t.mu.Lock()
	if t.id == InvalidID {
		t.mu.Unlock()
		return
	}
	d := t.device
	id, view := t.id, t.view
	// The epoch stays installed: work submitted after the destroy but
	// before the device confirms idle still references the old objects,
	// and MarkUsed must keep extending the wait. The next load replaces
	// the counter with a fresh one for the new objects.
	epoch := t.epoch
	t.id = InvalidID
	t.view = InvalidID
	t.w, t.h = 0, 0
	t.destroyed = true
	t.mu.Unlock()

	glint.Logger().Debug("texture release deferred", "label", t.label)

	release := func() {
		d.DestroyTextureView(view)
		d.DestroyTexture(id)
	}
	waitIdle(d, epoch, func() {
		if q != nil {
			q.Enqueue(release)
			return
		}
		release()
	})
}

// waitIdle invokes done once the device is idle with respect to the
// epoch counter: it snapshots the counter, waits for submitted work to
// complete, and re-arms if the counter moved while waiting.
func waitIdle(d Device, epoch *atomic.Uint64, done func()) {
	seen := epoch.Load()
	d.OnSubmittedWorkDone(func() {
		if epoch.Load() != seen {
			waitIdle(d, epoch, done)
			return
		}
		done()
	})
}

// toRGBA converts an image to RGBA without copying when it already is
// one.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(rgba, rgba.Bounds(), src, b.Min, stddraw.Src)
	return rgba
}

// rescale resizes an RGBA image with bilinear filtering.
func rescale(src *image.RGBA, w, h int) *image.RGBA {
	if src.Bounds().Dx() == w && src.Bounds().Dy() == h {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// pixels extracts tightly packed RGBA rows, bottom-to-top when flipY is
// set.
func pixels(img *image.RGBA, flipY bool) []byte {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	rowBytes := w * 4
	out := make([]byte, rowBytes*h)
	for y := 0; y < h; y++ {
		dst := y
		if flipY {
			dst = h - 1 - y
		}
		copy(out[dst*rowBytes:], img.Pix[y*img.Stride:y*img.Stride+rowBytes])
	}
	return out
}
