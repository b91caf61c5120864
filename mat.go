package glint

import "math"

// Matrices are column-major: element (col, row) lives at index
// col*rows + row, matching the WGSL matCxR memory layout.

// Mat2 is a 2x2 column-major float32 matrix.
type Mat2 [4]float32

// Identity2 returns the 2x2 identity matrix.
func Identity2() Mat2 {
	return Mat2{1, 0, 0, 1}
}

// At returns element (col, row). Out-of-range indices panic.
func (m Mat2) At(col, row int) float32 {
	checkIndex(col, 2)
	checkIndex(row, 2)
	return m[col*2+row]
}

// SetAt sets element (col, row). Out-of-range indices panic.
func (m *Mat2) SetAt(col, row int, v float32) {
	checkIndex(col, 2)
	checkIndex(row, 2)
	m[col*2+row] = v
}

// Mul returns the matrix product m * n.
func (m Mat2) Mul(n Mat2) Mat2 {
	var out Mat2
	for c := 0; c < 2; c++ {
		for r := 0; r < 2; r++ {
			out[c*2+r] = m[r]*n[c*2] + m[2+r]*n[c*2+1]
		}
	}
	return out
}

// Components returns the matrix elements in column-major order.
// The slice is a copy; mutating it does not affect the matrix.
func (m Mat2) Components() []float32 {
	out := make([]float32, 4)
	copy(out, m[:])
	return out
}

// Mat3 is a 3x3 column-major float32 matrix.
type Mat3 [9]float32

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// At returns element (col, row). Out-of-range indices panic.
func (m Mat3) At(col, row int) float32 {
	checkIndex(col, 3)
	checkIndex(row, 3)
	return m[col*3+row]
}

// SetAt sets element (col, row). Out-of-range indices panic.
func (m *Mat3) SetAt(col, row int, v float32) {
	checkIndex(col, 3)
	checkIndex(row, 3)
	m[col*3+row] = v
}

// Mul returns the matrix product m * n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			var sum float32
			for k := 0; k < 3; k++ {
				sum += m[k*3+r] * n[c*3+k]
			}
			out[c*3+r] = sum
		}
	}
	return out
}

// Components returns the matrix elements in column-major order.
// The slice is a copy; mutating it does not affect the matrix.
func (m Mat3) Components() []float32 {
	out := make([]float32, 9)
	copy(out, m[:])
	return out
}

// Mat4 is a 4x4 column-major float32 matrix.
type Mat4 [16]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 returns a translation matrix.
func Translate4(x, y, z float32) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale4 returns a scale matrix.
func Scale4(x, y, z float32) Mat4 {
	m := Identity4()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateZ4 returns a rotation matrix around the Z axis.
// The angle is in radians, counter-clockwise.
func RotateZ4(angle float32) Mat4 {
	s := float32(math.Sin(float64(angle)))
	c := float32(math.Cos(float64(angle)))
	m := Identity4()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// At returns element (col, row). Out-of-range indices panic.
func (m Mat4) At(col, row int) float32 {
	checkIndex(col, 4)
	checkIndex(row, 4)
	return m[col*4+row]
}

// SetAt sets element (col, row). Out-of-range indices panic.
func (m *Mat4) SetAt(col, row int, v float32) {
	checkIndex(col, 4)
	checkIndex(row, 4)
	m[col*4+row] = v
}

// Col returns column col as a Vec4. Out-of-range indices panic.
func (m Mat4) Col(col int) Vec4 {
	checkIndex(col, 4)
	return Vec4{m[col*4], m[col*4+1], m[col*4+2], m[col*4+3]}
}

// Mul returns the matrix product m * n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Components returns the matrix elements in column-major order.
// The slice is a copy; mutating it does not affect the matrix.
func (m Mat4) Components() []float32 {
	out := make([]float32, 16)
	copy(out, m[:])
	return out
}

// checkIndex panics when i is outside [0, n), mirroring slice indexing.
func checkIndex(i, n int) {
	if i < 0 || i >= n {
		panic("glint: index out of range")
	}
}
