package glint

import (
	"encoding/binary"
	"errors"
	"testing"
)

func posUVDescriptor(t *testing.T) *VertexDescriptor {
	t.Helper()
	d, err := NewVertexDescriptor(
		Attr("position", Float32x3),
		Attr("uv", Float32x2),
	)
	if err != nil {
		t.Fatalf("NewVertexDescriptor: %v", err)
	}
	return d
}

func TestVertexDescriptor_Stride(t *testing.T) {
	d := posUVDescriptor(t)
	// position at 0 (12 bytes, align 16), uv padded to 16 (8 bytes),
	// record rounded up to max alignment 16.
	if got := d.Stride(); got != 32 {
		t.Errorf("Stride() = %d, want 32", got)
	}
}

func TestVertexDescriptor_RejectsMatrices(t *testing.T) {
	_, err := NewVertexDescriptor(Attr("m", Mat4x4F))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("matrix attribute: %v, want ErrInvalidFormat", err)
	}
}

func TestVertexDescriptor_Layout(t *testing.T) {
	d := posUVDescriptor(t)

	full, err := d.Layout(0)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(full.Attributes) != 2 {
		t.Fatalf("full layout has %d attributes, want 2", len(full.Attributes))
	}
	if full.Attributes[0].ShaderLocation != 0 || full.Attributes[1].ShaderLocation != 1 {
		t.Errorf("locations = %d, %d, want 0, 1",
			full.Attributes[0].ShaderLocation, full.Attributes[1].ShaderLocation)
	}

	// Subset keeps full-record offsets and stride.
	uvOnly, err := d.Layout(3, "uv")
	if err != nil {
		t.Fatalf("Layout(uv): %v", err)
	}
	if uvOnly.Stride != d.Stride() {
		t.Errorf("subset stride = %d, want %d", uvOnly.Stride, d.Stride())
	}
	if uvOnly.Attributes[0].Offset != 16 {
		t.Errorf("uv offset = %d, want 16", uvOnly.Attributes[0].Offset)
	}
	if uvOnly.Attributes[0].ShaderLocation != 3 {
		t.Errorf("uv location = %d, want 3 (startLocation)", uvOnly.Attributes[0].ShaderLocation)
	}

	if _, err := d.Layout(0, "normal"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown attribute: %v, want ErrUnknownField", err)
	}
}

func TestVertexDescriptor_LayoutConcatenation(t *testing.T) {
	// Locations from a second descriptor continue after the first, so
	// both can bind into one shader interface.
	first := posUVDescriptor(t)
	second, err := NewVertexDescriptor(Attr("color", Unorm8x4))
	if err != nil {
		t.Fatalf("NewVertexDescriptor: %v", err)
	}

	a, err := first.Layout(0)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	next := a.Attributes[len(a.Attributes)-1].ShaderLocation + 1
	b, err := second.Layout(next)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if b.Attributes[0].ShaderLocation != 2 {
		t.Errorf("continued location = %d, want 2", b.Attributes[0].ShaderLocation)
	}
}

func TestVertexArray_AppendAndBytes(t *testing.T) {
	d := posUVDescriptor(t)
	va, err := NewVertexArray(d)
	if err != nil {
		t.Fatalf("NewVertexArray: %v", err)
	}

	verts := []map[string][]float32{
		{"position": {0, 0, 0}, "uv": {0, 0}},
		{"position": {1, 0, 0}, "uv": {1, 0}},
		{"position": {0, 1, 0}, "uv": {0, 1}},
	}
	for _, v := range verts {
		if err := va.Append(v); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if va.VertexCount() != 3 {
		t.Fatalf("VertexCount() = %d, want 3", va.VertexCount())
	}

	buf := va.Bytes()
	if len(buf) != 3*d.Stride() {
		t.Fatalf("len(Bytes()) = %d, want %d", len(buf), 3*d.Stride())
	}
	// Second vertex: position.x at record base, uv.x at base+16.
	base := d.Stride()
	x, _ := Read(buf, base, Float32)
	u, _ := Read(buf, base+16, Float32)
	if x[0] != 1 || u[0] != 1 {
		t.Errorf("vertex 1 decodes x=%v u=%v, want 1, 1", x[0], u[0])
	}
}

func TestVertexArray_BytesCached(t *testing.T) {
	d := posUVDescriptor(t)
	va, _ := NewVertexArray(d)
	if err := va.Append(map[string][]float32{"position": {1, 2, 3}}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	first := va.Bytes()
	if va.Dirty() {
		t.Error("Dirty() = true after Bytes()")
	}
	second := va.Bytes()
	if &first[0] != &second[0] {
		t.Error("clean Bytes() re-encoded")
	}

	if err := va.SetVertex(0, map[string][]float32{"position": {9, 9, 9}}); err != nil {
		t.Fatalf("SetVertex: %v", err)
	}
	if !va.Dirty() {
		t.Error("Dirty() = false after SetVertex")
	}
	third := va.Bytes()
	x, _ := Read(third, 0, Float32)
	if x[0] != 9 {
		t.Errorf("re-encoded x = %v, want 9", x[0])
	}
}

func TestVertexArray_AppendErrors(t *testing.T) {
	d := posUVDescriptor(t)
	va, _ := NewVertexArray(d)

	if err := va.Append(map[string][]float32{"normal": {0, 0, 1}}); !errors.Is(err, ErrUnknownField) {
		t.Errorf("unknown attribute: %v, want ErrUnknownField", err)
	}
	if err := va.Append(map[string][]float32{"uv": {1}}); !errors.Is(err, ErrComponentCount) {
		t.Errorf("wrong arity: %v, want ErrComponentCount", err)
	}
	if va.VertexCount() != 0 {
		t.Errorf("failed appends changed the array: %d vertices", va.VertexCount())
	}
}

func TestVertexArray_IndexWidthSelection(t *testing.T) {
	d, err := NewVertexDescriptor(Attr("position", Float32x2))
	if err != nil {
		t.Fatalf("NewVertexDescriptor: %v", err)
	}

	t.Run("small indices pick uint16", func(t *testing.T) {
		va, _ := NewVertexArray(d)
		for i := 0; i < 4; i++ {
			_ = va.Append(map[string][]float32{"position": {float32(i), 0}})
		}
		if err := va.SetIndices(0, 1, 2, 2, 1, 3); err != nil {
			t.Fatalf("SetIndices: %v", err)
		}
		if va.IndexFormat() != IndexUint16 {
			t.Errorf("IndexFormat() = %v, want uint16", va.IndexFormat())
		}
		raw := va.IndexBytes()
		if len(raw) != 12 {
			t.Fatalf("len(IndexBytes()) = %d, want 12", len(raw))
		}
		if got := binary.LittleEndian.Uint16(raw[10:]); got != 3 {
			t.Errorf("last index = %d, want 3", got)
		}
	})

	t.Run("large index forces uint32", func(t *testing.T) {
		va, _ := NewVertexArray(d)
		for i := 0; i <= 0x10000; i++ {
			_ = va.Append(map[string][]float32{"position": {0, 0}})
		}
		if err := va.SetIndices(0, 0x10000); err != nil {
			t.Fatalf("SetIndices: %v", err)
		}
		if va.IndexFormat() != IndexUint32 {
			t.Errorf("IndexFormat() = %v, want uint32", va.IndexFormat())
		}
		raw := va.IndexBytes()
		if got := binary.LittleEndian.Uint32(raw[4:]); got != 0x10000 {
			t.Errorf("second index = %d, want 65536", got)
		}
	})

	t.Run("out of range rejected", func(t *testing.T) {
		va, _ := NewVertexArray(d)
		_ = va.Append(map[string][]float32{"position": {0, 0}})
		if err := va.SetIndices(0, 1); !errors.Is(err, ErrIndexRange) {
			t.Errorf("SetIndices: %v, want ErrIndexRange", err)
		}
		if va.HasIndices() {
			t.Error("failed SetIndices installed an index stream")
		}
	})

	t.Run("clear returns to non-indexed", func(t *testing.T) {
		va, _ := NewVertexArray(d)
		_ = va.Append(map[string][]float32{"position": {0, 0}})
		_ = va.SetIndices(0)
		va.ClearIndices()
		if va.HasIndices() || va.IndexBytes() != nil {
			t.Error("ClearIndices left index state behind")
		}
	})
}

func TestVertexArray_LayoutRegistry(t *testing.T) {
	d := posUVDescriptor(t)
	va, _ := NewVertexArray(d)

	layout, err := va.RegisterLayout("full", 0)
	if err != nil {
		t.Fatalf("RegisterLayout: %v", err)
	}
	got, err := va.RegisteredLayout("full")
	if err != nil {
		t.Fatalf("RegisteredLayout: %v", err)
	}
	if got != layout {
		t.Error("lookup returned a different layout")
	}

	if _, err := va.RegisterLayout("full", 0); !errors.Is(err, ErrDuplicateLayout) {
		t.Errorf("duplicate register: %v, want ErrDuplicateLayout", err)
	}
	if err := va.UnregisterLayout("full"); err != nil {
		t.Fatalf("UnregisterLayout: %v", err)
	}
	if _, err := va.RegisteredLayout("full"); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("lookup after unregister: %v, want ErrUnknownLayout", err)
	}
	if err := va.UnregisterLayout("full"); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("double unregister: %v, want ErrUnknownLayout", err)
	}
}
