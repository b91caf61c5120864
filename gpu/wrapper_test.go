// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu_test

import (
	"bytes"
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/glint"
	"github.com/gogpu/glint/backend/software"
	"github.com/gogpu/glint/gpu"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	return img
}

func TestBuffer_LazyCreateAndCache(t *testing.T) {
	dev := software.New()
	buf := gpu.NewBuffer(gpu.BufferUsageVertex, "verts")
	buf.SetData([]byte{1, 2, 3, 4})

	if dev.Counts()["buffer"] != 0 {
		t.Fatal("device object created before first Handle")
	}

	id, err := buf.Handle(dev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	again, err := buf.Handle(dev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if id != again {
		t.Errorf("second Handle = %d, want cached %d", again, id)
	}
	if dev.Counts()["buffer"] != 1 {
		t.Errorf("%d device buffers, want 1", dev.Counts()["buffer"])
	}
	if got := dev.BufferData(id); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("device contents = %v", got)
	}
}

func TestBuffer_DeviceExclusivity(t *testing.T) {
	a := software.New()
	b := software.New()
	buf := gpu.NewBuffer(gpu.BufferUsageUniform, "u")
	buf.SetData(make([]byte, 16))

	if _, err := buf.Handle(a); err != nil {
		t.Fatalf("Handle on first device: %v", err)
	}
	if _, err := buf.Handle(b); !errors.Is(err, gpu.ErrDeviceConflict) {
		t.Errorf("Handle on second device: %v, want ErrDeviceConflict", err)
	}
	// The original device still works.
	if _, err := buf.Handle(a); err != nil {
		t.Errorf("Handle on first device after conflict: %v", err)
	}
}

func TestBuffer_SetDataResizeRecreates(t *testing.T) {
	dev := software.New()
	buf := gpu.NewBuffer(gpu.BufferUsageVertex, "v")
	buf.SetData(make([]byte, 8))

	first, err := buf.Handle(dev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	// Same size: in-place upload, same object.
	buf.SetData([]byte{9, 9, 9, 9, 9, 9, 9, 9})
	same, _ := buf.Handle(dev)
	if same != first {
		t.Errorf("same-size SetData re-created the buffer")
	}
	if got := dev.BufferData(first); got[0] != 9 {
		t.Errorf("in-place upload not visible: %v", got)
	}

	// New size: old object released, next Handle allocates fresh.
	buf.SetData(make([]byte, 16))
	if dev.Counts()["buffer"] != 0 {
		t.Fatalf("resize did not release the old buffer")
	}
	second, err := buf.Handle(dev)
	if err != nil {
		t.Fatalf("Handle after resize: %v", err)
	}
	if second == first {
		t.Errorf("resized buffer reused the released ID")
	}
}

func TestBuffer_WriteAt(t *testing.T) {
	dev := software.New()
	buf := gpu.NewBuffer(gpu.BufferUsageUniform, "u")
	buf.SetData(make([]byte, 8))
	id, _ := buf.Handle(dev)

	if err := buf.WriteAt(4, []byte{7, 8, 9, 10}); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	got := dev.BufferData(id)
	if !bytes.Equal(got[4:], []byte{7, 8, 9, 10}) {
		t.Errorf("partial write not applied: %v", got)
	}
	if err := buf.WriteAt(6, []byte{1, 2, 3}); !errors.Is(err, glint.ErrOutOfRange) {
		t.Errorf("out-of-range WriteAt: %v, want ErrOutOfRange", err)
	}
}

func TestBuffer_MirrorStruct(t *testing.T) {
	desc, err := glint.NewStructDescriptor(
		glint.F("color", glint.Float32x4),
		glint.F("time", glint.Float32),
	)
	if err != nil {
		t.Fatalf("NewStructDescriptor: %v", err)
	}
	s := glint.NewStruct(desc)
	if err := s.Set("color", 1, 0, 0, 1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	dev := software.New()
	buf := gpu.NewBuffer(gpu.BufferUsageUniform, "uniforms")
	buf.MirrorStruct(s)
	id, err := buf.Handle(dev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if buf.Size() != desc.Size() {
		t.Fatalf("mirror size = %d, want %d", buf.Size(), desc.Size())
	}

	// A field write after creation lands on the device as a partial
	// update.
	if err := s.Set("time", 2.5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	offset, _ := desc.Offset("time")
	got, err := glint.Read(dev.BufferData(id), offset, glint.Float32)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got[0] != 2.5 {
		t.Errorf("mirrored field = %v, want 2.5", got[0])
	}
}

func TestTexture_LoadAndDestroyDeferred(t *testing.T) {
	dev := software.New()
	var q gpu.DestructionQueue
	tex := gpu.NewTexture(testImage(2, 2), "checker")

	if err := tex.Load(dev); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !tex.Loaded() {
		t.Fatal("Loaded() = false after Load")
	}
	if w, h := tex.Size(); w != 2 || h != 2 {
		t.Fatalf("Size() = %dx%d, want 2x2", w, h)
	}
	if c := dev.Counts(); c["texture"] != 1 || c["view"] != 1 {
		t.Fatalf("device resources = %v", c)
	}

	tex.Destroy(&q)
	if tex.Loaded() {
		t.Error("wrapper still loaded after Destroy")
	}
	// Nothing freed yet: the device has not confirmed completion and
	// the queue has not drained.
	if c := dev.Counts(); c["texture"] != 1 || c["view"] != 1 {
		t.Fatalf("released before completion: %v", c)
	}
	if q.Len() != 0 {
		t.Fatalf("release enqueued before completion")
	}

	dev.CompleteWork()
	if q.Len() != 1 {
		t.Fatalf("release not enqueued after completion: Len() = %d", q.Len())
	}
	if c := dev.Counts(); c["texture"] != 1 {
		t.Fatalf("released before drain: %v", c)
	}

	q.Drain()
	if c := dev.Counts(); c["texture"] != 0 || c["view"] != 0 {
		t.Errorf("resources leaked after drain: %v", c)
	}
}

func TestTexture_DestroyWaitsForLaterWork(t *testing.T) {
	dev := software.New()
	var q gpu.DestructionQueue
	tex := gpu.NewTexture(testImage(2, 2), "streamed")
	if err := tex.Load(dev); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tex.MarkUsed() // work submitted before the destroy
	tex.Destroy(&q)
	tex.MarkUsed() // same-frame flush submitted after the destroy

	// The first completion round covers only the pre-destroy work; the
	// later use must force another round before the release is enqueued.
	dev.CompleteWork()
	if q.Len() != 0 {
		t.Fatalf("release enqueued after one completion round with later work pending")
	}
	if c := dev.Counts(); c["texture"] != 1 || c["view"] != 1 {
		t.Fatalf("released while later work pending: %v", c)
	}

	dev.CompleteWork()
	if q.Len() != 1 {
		t.Fatalf("release not enqueued once later work completed: Len() = %d", q.Len())
	}
	q.Drain()
	if c := dev.Counts(); c["texture"] != 0 || c["view"] != 0 {
		t.Errorf("resources leaked after drain: %v", c)
	}
}

func TestTexture_ReloadAfterDestroy(t *testing.T) {
	dev := software.New()
	tex := gpu.NewTexture(testImage(4, 4), "sprite")

	first, err := tex.Handle(dev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	tex.Destroy(nil)
	dev.CompleteWork()

	second, err := tex.Handle(dev)
	if err != nil {
		t.Fatalf("Handle after Destroy: %v", err)
	}
	if second == first {
		t.Errorf("reload reused the released ID")
	}
}

func TestTexture_LazyLoader(t *testing.T) {
	dev := software.New()
	calls := 0
	tex := gpu.NewLazyTexture(func() (image.Image, error) {
		calls++
		return testImage(1, 1), nil
	}, "lazy")

	if calls != 0 {
		t.Fatal("loader ran before first Load")
	}
	if _, err := tex.View(dev); err != nil {
		t.Fatalf("View: %v", err)
	}
	if _, err := tex.View(dev); err != nil {
		t.Fatalf("View: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader ran %d times, want 1", calls)
	}
}

func TestTexture_NoSource(t *testing.T) {
	dev := software.New()
	tex := gpu.NewTexture(nil, "empty")
	if err := tex.Load(dev); !errors.Is(err, gpu.ErrSourceNotSet) {
		t.Errorf("Load without source: %v, want ErrSourceNotSet", err)
	}
}

func TestPipeline_VariantCaching(t *testing.T) {
	dev := software.New()
	vs := gpu.NewShaderModule("@vertex fn vs_main() {}", "vs")
	fs := gpu.NewShaderModule("@fragment fn fs_main() {}", "fs")
	p := gpu.NewPipeline(gpu.PipelineDescriptor{
		Label:          "sprite",
		VertexShader:   vs,
		FragmentShader: fs,
	})

	rgba, err := p.Handle(dev, gpu.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	again, err := p.Handle(dev, gpu.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if rgba != again {
		t.Errorf("same formats produced a new variant")
	}

	bgra, err := p.Handle(dev, gpu.TextureFormatBGRA8Unorm)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if bgra == rgba {
		t.Errorf("different formats shared a variant")
	}
	if p.Variants() != 2 {
		t.Errorf("Variants() = %d, want 2", p.Variants())
	}

	if _, err := p.Handle(dev); !errors.Is(err, gpu.ErrInvalidDescriptor) {
		t.Errorf("Handle with no formats: %v, want ErrInvalidDescriptor", err)
	}

	p.Destroy()
	if p.Variants() != 0 {
		t.Errorf("Variants() = %d after Destroy, want 0", p.Variants())
	}
	if dev.Counts()["pipeline"] != 0 {
		t.Errorf("device pipelines leaked: %d", dev.Counts()["pipeline"])
	}
}

func TestBindGroup_ResolvesWrappers(t *testing.T) {
	dev := software.New()

	buf := gpu.NewBuffer(gpu.BufferUsageUniform, "uniforms")
	buf.SetData(make([]byte, 16))
	sampler := gpu.LinearSampler("linear")
	tex := gpu.NewTexture(testImage(2, 2), "albedo")

	layout := gpu.NewBindGroupLayout(gpu.BindGroupLayoutDescriptor{
		Label: "material",
		Entries: []gpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gpu.ShaderStageVertex | gpu.ShaderStageFragment, Type: gpu.BindingTypeUniformBuffer},
			{Binding: 1, Visibility: gpu.ShaderStageFragment, Type: gpu.BindingTypeSampler},
			{Binding: 2, Visibility: gpu.ShaderStageFragment, Type: gpu.BindingTypeSampledTexture},
		},
	})
	group := gpu.NewBindGroup(layout, "material",
		gpu.BindUniform(0, buf),
		gpu.BindSampler(1, sampler),
		gpu.BindTexture(2, tex),
	)

	id, err := group.Handle(dev)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if id == gpu.InvalidID {
		t.Fatal("Handle returned InvalidID")
	}

	// Resolving the group materialized every referenced wrapper.
	c := dev.Counts()
	for _, kind := range []string{"buffer", "sampler", "texture", "view", "layout", "group"} {
		if c[kind] != 1 {
			t.Errorf("%s count = %d, want 1", kind, c[kind])
		}
	}

	if got := group.Textures(); len(got) != 1 || got[0] != tex {
		t.Errorf("Textures() = %v, want the bound texture", got)
	}

	// Re-creation after an explicit Destroy re-resolves.
	group.Destroy()
	second, err := group.Handle(dev)
	if err != nil {
		t.Fatalf("Handle after Destroy: %v", err)
	}
	if second == id {
		t.Errorf("re-created group reused the released ID")
	}
}

func TestBindGroup_EmptyEntries(t *testing.T) {
	dev := software.New()
	layout := gpu.NewBindGroupLayout(gpu.BindGroupLayoutDescriptor{
		Label: "l",
		Entries: []gpu.BindGroupLayoutEntry{
			{Binding: 0, Type: gpu.BindingTypeUniformBuffer},
		},
	})
	group := gpu.NewBindGroup(layout, "empty")
	if _, err := group.Handle(dev); !errors.Is(err, gpu.ErrInvalidDescriptor) {
		t.Errorf("empty group: %v, want ErrInvalidDescriptor", err)
	}
}

func TestRegistry(t *testing.T) {
	r := gpu.NewRegistry[*gpu.Sampler]()
	linear := gpu.LinearSampler("linear")

	if err := r.Register("linear", linear); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("linear", gpu.NearestSampler("x")); !errors.Is(err, gpu.ErrDuplicateLabel) {
		t.Errorf("duplicate Register: %v, want ErrDuplicateLabel", err)
	}

	got, err := r.Lookup("linear")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != linear {
		t.Error("Lookup returned a different value")
	}
	if _, err := r.Lookup("nearest"); !errors.Is(err, gpu.ErrUnknownLabel) {
		t.Errorf("unknown Lookup: %v, want ErrUnknownLabel", err)
	}

	if err := r.Unregister("linear"); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if err := r.Unregister("linear"); !errors.Is(err, gpu.ErrUnknownLabel) {
		t.Errorf("double Unregister: %v, want ErrUnknownLabel", err)
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestWrapperDiagnosticsLogged(t *testing.T) {
	orig := glint.Logger()
	t.Cleanup(func() { glint.SetLogger(orig) })

	var buf bytes.Buffer
	glint.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	dev := software.New()
	b := gpu.NewBuffer(gpu.BufferUsageUniform, "diag")
	b.SetData(make([]byte, 4))
	if _, err := b.Handle(dev); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	tex := gpu.NewTexture(testImage(1, 1), "diag")
	if err := tex.Load(dev); err != nil {
		t.Fatalf("Load: %v", err)
	}
	tex.Destroy(nil)
	dev.CompleteWork()
	if err := tex.Load(dev); err != nil {
		t.Fatalf("reload: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"buffer created",
		"texture loaded",
		"texture release deferred",
		"texture re-created",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDeviceHolder(t *testing.T) {
	var h gpu.DeviceHolder
	if _, err := h.Get(); !errors.Is(err, gpu.ErrNotInitialized) {
		t.Errorf("Get before Set: %v, want ErrNotInitialized", err)
	}
	dev := software.New()
	h.Set(dev)
	got, err := h.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != gpu.Device(dev) {
		t.Error("Get returned a different device")
	}
}
