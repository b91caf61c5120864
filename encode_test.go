package glint

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestWrite_Float32(t *testing.T) {
	buf := make([]byte, 16)
	if err := Write(buf, 4, []float32{1.5, -2.25}, Float32x2); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(buf, 4, Float32x2)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got[0] != 1.5 || got[1] != -2.25 {
		t.Errorf("round trip = %v, want [1.5 -2.25]", got)
	}
	// Bytes before and after the write stay zero.
	if !bytes.Equal(buf[:4], make([]byte, 4)) || !bytes.Equal(buf[12:], make([]byte, 4)) {
		t.Errorf("write touched bytes outside [4, 12): % x", buf)
	}
}

func TestWrite_Errors(t *testing.T) {
	buf := make([]byte, 8)

	tests := []struct {
		name    string
		offset  int
		comps   []float32
		format  Format
		wantErr error
	}{
		{"undefined format", 0, []float32{1}, FormatUndefined, ErrInvalidFormat},
		{"wrong component count", 0, []float32{1, 2, 3}, Float32x2, ErrComponentCount},
		{"negative offset", -4, []float32{1, 2}, Float32x2, ErrOutOfRange},
		{"past end", 4, []float32{1, 2}, Float32x2, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Write(buf, tt.offset, tt.comps, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Write() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppend_AlignsAndChains(t *testing.T) {
	buf := make([]byte, 64)

	// A float32 at offset 0, then a vec3 that must pad to 16.
	offset := 0
	n, err := Append(buf, offset, []float32{1}, Float32)
	if err != nil {
		t.Fatalf("Append float32: %v", err)
	}
	if n != 4 {
		t.Fatalf("Append float32 consumed %d, want 4", n)
	}
	offset += n

	n, err = Append(buf, offset, []float32{2, 3, 4}, Float32x3)
	if err != nil {
		t.Fatalf("Append float32x3: %v", err)
	}
	// 12 bytes of padding up to 16, then 12 bytes of value.
	if n != 24 {
		t.Fatalf("Append float32x3 consumed %d, want 24", n)
	}

	got, err := Read(buf, 16, Float32x3)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got[0] != 2 || got[1] != 3 || got[2] != 4 {
		t.Errorf("value at aligned offset = %v, want [2 3 4]", got)
	}
}

func TestAppend_AlreadyAligned(t *testing.T) {
	buf := make([]byte, 32)
	n, err := Append(buf, 16, []float32{1, 2, 3, 4}, Float32x4)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if n != 16 {
		t.Errorf("consumed %d, want 16 (no padding)", n)
	}
}

func TestUnorm_DecodeFormula(t *testing.T) {
	// unorm8 encodes round(clamp(v,0,1)*255); decode is c/255.
	buf := make([]byte, 4)
	if err := Write(buf, 0, []float32{0, 1, 0.5, 2}, Unorm8x4); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if want := []byte{0, 255, 128, 255}; !bytes.Equal(buf, want) {
		t.Fatalf("encoded bytes = % x, want % x", buf, want)
	}
	got, _ := Read(buf, 0, Unorm8x4)
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("endpoints decode to %v, want 0 and 1", got[:2])
	}
	if math.Abs(float64(got[2])-0.5) > 1.0/255 {
		t.Errorf("mid decodes to %v, want ~0.5", got[2])
	}
}

func TestSnorm_DecodeFormula(t *testing.T) {
	// snorm16 encodes round(clamp(v,-1,1)*32767); decode clamps the
	// -32768 case back to -1.
	buf := make([]byte, 8)
	if err := Write(buf, 0, []float32{-1, 1, 0, -2}, Snorm16x4); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := Read(buf, 0, Snorm16x4)
	want := []float32{-1, 1, 0, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFloat16_RoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 0.5, 2048, -0.000061035156, 65504}
	buf := make([]byte, 4)
	for _, v := range values {
		if err := Write(buf, 0, []float32{v, 0}, Float16x2); err != nil {
			t.Fatalf("Write(%v): %v", v, err)
		}
		got, _ := Read(buf, 0, Float16x2)
		if got[0] != v {
			t.Errorf("half round trip of %v = %v", v, got[0])
		}
	}
}

func TestFloat16_Overflow(t *testing.T) {
	buf := make([]byte, 4)
	if err := Write(buf, 0, []float32{1e6, -1e6}, Float16x2); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := Read(buf, 0, Float16x2)
	if !math.IsInf(float64(got[0]), 1) || !math.IsInf(float64(got[1]), -1) {
		t.Errorf("out-of-range halves = %v, want +Inf and -Inf", got)
	}
}

func TestWrite_IntClamping(t *testing.T) {
	buf := make([]byte, 4)
	if err := Write(buf, 0, []float32{300, -5}, Uint8x2); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf[0] != 255 || buf[1] != 0 {
		t.Errorf("uint8 clamp = [%d %d], want [255 0]", buf[0], buf[1])
	}

	if err := Write(buf, 0, []float32{200, -200}, Sint8x2); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := Read(buf, 0, Sint8x2)
	if got[0] != 127 || got[1] != -128 {
		t.Errorf("sint8 clamp = %v, want [127 -128]", got)
	}
}

func TestWrite_MatrixColumnPadding(t *testing.T) {
	// mat3x3f columns occupy vec4-sized strides; the fourth float of
	// each column must stay untouched.
	buf := make([]byte, Mat3x3F.Size())
	comps := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if err := Write(buf, 0, comps, Mat3x3F); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for c := 0; c < 3; c++ {
		col, err := Read(buf, c*16, Float32x3)
		if err != nil {
			t.Fatalf("Read column %d: %v", c, err)
		}
		for r := 0; r < 3; r++ {
			if want := comps[c*3+r]; col[r] != want {
				t.Errorf("column %d row %d = %v, want %v", c, r, col[r], want)
			}
		}
		if pad := buf[c*16+12 : c*16+16]; !bytes.Equal(pad, make([]byte, 4)) {
			t.Errorf("column %d padding written: % x", c, pad)
		}
	}

	got, err := Read(buf, 0, Mat3x3F)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for i := range comps {
		if got[i] != comps[i] {
			t.Errorf("matrix round trip component %d = %v, want %v", i, got[i], comps[i])
		}
	}
}
