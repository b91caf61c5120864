package glint

import (
	"math"
	"testing"
)

func TestMat4_Mul(t *testing.T) {
	// Translation then scale, applied to a column vector via the
	// combined matrix.
	m := Scale4(2, 2, 2).Mul(Translate4(1, 0, 0))
	// Column-major: the translation column is column 3.
	col := m.Col(3)
	if col[0] != 2 || col[1] != 0 || col[2] != 0 || col[3] != 1 {
		t.Errorf("combined translation column = %v, want [2 0 0 1]", col)
	}

	id := Identity4()
	if got := id.Mul(id); got != id {
		t.Errorf("I*I = %v, want identity", got)
	}
}

func TestMat4_RotateZ(t *testing.T) {
	m := RotateZ4(math.Pi / 2)
	// Rotating the X basis vector 90 degrees CCW lands on Y.
	if math.Abs(float64(m.At(0, 1))-1) > 1e-6 {
		t.Errorf("At(0,1) = %v, want 1", m.At(0, 1))
	}
	if math.Abs(float64(m.At(0, 0))) > 1e-6 {
		t.Errorf("At(0,0) = %v, want 0", m.At(0, 0))
	}
}

func TestMat_IndexPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("At(4, 0) did not panic")
		}
	}()
	m := Identity4()
	_ = m.At(4, 0)
}

func TestVec3_CrossAndNormalize(t *testing.T) {
	x := V3(1, 0, 0)
	y := V3(0, 1, 0)
	if got := x.Cross(y); got != V3(0, 0, 1) {
		t.Errorf("x cross y = %v, want z", got)
	}

	v := V3(3, 0, 4)
	n := v.Normalize()
	if math.Abs(float64(n.Length())-1) > 1e-6 {
		t.Errorf("normalized length = %v, want 1", n.Length())
	}
	if zero := V3(0, 0, 0); zero.Normalize() != zero {
		t.Error("normalizing zero vector changed it")
	}
}

func TestVec_ComponentsAreCopies(t *testing.T) {
	v := V4(1, 2, 3, 4)
	c := v.Components()
	c[0] = 99
	if v[0] != 1 {
		t.Error("mutating Components() slice changed the vector")
	}
}
