package glint

import "fmt"

// Format identifies a wire type: a tagged scalar/vector/matrix encoding
// with a fixed byte size and alignment, used for both vertex attributes
// and struct fields.
//
// The set is closed. Every encoder consults this table to compute
// offsets; sizes and alignments must stay consistent with the WebGPU
// buffer-layout rules or uploaded data will decode incorrectly on the
// GPU.
type Format uint32

// Wire formats. Vector formats follow the WebGPU vertex format naming
// (component type, component width, component count). Matrix formats are
// valid in struct descriptors only.
const (
	// FormatUndefined is the zero value, representing no format.
	FormatUndefined Format = iota

	// Uint8x2 is two 8-bit unsigned integers.
	Uint8x2

	// Uint8x4 is four 8-bit unsigned integers.
	Uint8x4

	// Sint8x2 is two 8-bit signed integers.
	Sint8x2

	// Sint8x4 is four 8-bit signed integers.
	Sint8x4

	// Unorm8x2 is two 8-bit unsigned normalized values in [0, 1].
	Unorm8x2

	// Unorm8x4 is four 8-bit unsigned normalized values in [0, 1].
	Unorm8x4

	// Snorm8x2 is two 8-bit signed normalized values in [-1, 1].
	Snorm8x2

	// Snorm8x4 is four 8-bit signed normalized values in [-1, 1].
	Snorm8x4

	// Uint16x2 is two 16-bit unsigned integers.
	Uint16x2

	// Uint16x4 is four 16-bit unsigned integers.
	Uint16x4

	// Sint16x2 is two 16-bit signed integers.
	Sint16x2

	// Sint16x4 is four 16-bit signed integers.
	Sint16x4

	// Unorm16x2 is two 16-bit unsigned normalized values in [0, 1].
	Unorm16x2

	// Unorm16x4 is four 16-bit unsigned normalized values in [0, 1].
	Unorm16x4

	// Snorm16x2 is two 16-bit signed normalized values in [-1, 1].
	Snorm16x2

	// Snorm16x4 is four 16-bit signed normalized values in [-1, 1].
	Snorm16x4

	// Float16x2 is two 16-bit IEEE 754 half-precision floats.
	Float16x2

	// Float16x4 is four 16-bit IEEE 754 half-precision floats.
	Float16x4

	// Float32 is one 32-bit float.
	Float32

	// Float32x2 is two 32-bit floats.
	Float32x2

	// Float32x3 is three 32-bit floats.
	Float32x3

	// Float32x4 is four 32-bit floats.
	Float32x4

	// Uint32 is one 32-bit unsigned integer.
	Uint32

	// Uint32x2 is two 32-bit unsigned integers.
	Uint32x2

	// Uint32x3 is three 32-bit unsigned integers.
	Uint32x3

	// Uint32x4 is four 32-bit unsigned integers.
	Uint32x4

	// Sint32 is one 32-bit signed integer.
	Sint32

	// Sint32x2 is two 32-bit signed integers.
	Sint32x2

	// Sint32x3 is three 32-bit signed integers.
	Sint32x3

	// Sint32x4 is four 32-bit signed integers.
	Sint32x4

	// Mat2x2F is a 2x2 column-major float32 matrix (struct fields only).
	Mat2x2F

	// Mat3x3F is a 3x3 column-major float32 matrix (struct fields only).
	Mat3x3F

	// Mat4x4F is a 4x4 column-major float32 matrix (struct fields only).
	Mat4x4F
)

// formatKind classifies the scalar encoding of a format.
type formatKind uint8

const (
	kindUint formatKind = iota
	kindSint
	kindUnorm
	kindSnorm
	kindFloat16
	kindFloat32
)

// formatInfo holds the static properties of one wire format.
type formatInfo struct {
	name     string
	kind     formatKind
	compSize int // bytes per component
	comps    int // components per value (columns*rows for matrices)
	cols     int // 0 for non-matrix formats
}

// formatTable is the closed format property table. Sizes and alignments
// derive from it; it must match the WebGPU vertex-format and WGSL
// struct-layout rules exactly.
var formatTable = map[Format]formatInfo{
	Uint8x2:   {"uint8x2", kindUint, 1, 2, 0},
	Uint8x4:   {"uint8x4", kindUint, 1, 4, 0},
	Sint8x2:   {"sint8x2", kindSint, 1, 2, 0},
	Sint8x4:   {"sint8x4", kindSint, 1, 4, 0},
	Unorm8x2:  {"unorm8x2", kindUnorm, 1, 2, 0},
	Unorm8x4:  {"unorm8x4", kindUnorm, 1, 4, 0},
	Snorm8x2:  {"snorm8x2", kindSnorm, 1, 2, 0},
	Snorm8x4:  {"snorm8x4", kindSnorm, 1, 4, 0},
	Uint16x2:  {"uint16x2", kindUint, 2, 2, 0},
	Uint16x4:  {"uint16x4", kindUint, 2, 4, 0},
	Sint16x2:  {"sint16x2", kindSint, 2, 2, 0},
	Sint16x4:  {"sint16x4", kindSint, 2, 4, 0},
	Unorm16x2: {"unorm16x2", kindUnorm, 2, 2, 0},
	Unorm16x4: {"unorm16x4", kindUnorm, 2, 4, 0},
	Snorm16x2: {"snorm16x2", kindSnorm, 2, 2, 0},
	Snorm16x4: {"snorm16x4", kindSnorm, 2, 4, 0},
	Float16x2: {"float16x2", kindFloat16, 2, 2, 0},
	Float16x4: {"float16x4", kindFloat16, 2, 4, 0},
	Float32:   {"float32", kindFloat32, 4, 1, 0},
	Float32x2: {"float32x2", kindFloat32, 4, 2, 0},
	Float32x3: {"float32x3", kindFloat32, 4, 3, 0},
	Float32x4: {"float32x4", kindFloat32, 4, 4, 0},
	Uint32:    {"uint32", kindUint, 4, 1, 0},
	Uint32x2:  {"uint32x2", kindUint, 4, 2, 0},
	Uint32x3:  {"uint32x3", kindUint, 4, 3, 0},
	Uint32x4:  {"uint32x4", kindUint, 4, 4, 0},
	Sint32:    {"sint32", kindSint, 4, 1, 0},
	Sint32x2:  {"sint32x2", kindSint, 4, 2, 0},
	Sint32x3:  {"sint32x3", kindSint, 4, 3, 0},
	Sint32x4:  {"sint32x4", kindSint, 4, 4, 0},
	Mat2x2F:   {"mat2x2f", kindFloat32, 4, 4, 2},
	Mat3x3F:   {"mat3x3f", kindFloat32, 4, 9, 3},
	Mat4x4F:   {"mat4x4f", kindFloat32, 4, 16, 4},
}

// Valid reports whether f is a member of the closed format set.
func (f Format) Valid() bool {
	_, ok := formatTable[f]
	return ok
}

// IsMatrix reports whether f is a matrix format.
// Matrix formats are only valid in struct descriptors.
func (f Format) IsMatrix() bool {
	return formatTable[f].cols > 0
}

// Components returns the number of logical components a value of this
// format carries (columns x rows for matrices). Zero for invalid formats.
func (f Format) Components() int {
	return formatTable[f].comps
}

// ComponentSize returns the byte size of one component.
// Zero for invalid formats.
func (f Format) ComponentSize() int {
	return formatTable[f].compSize
}

// Columns returns the number of matrix columns, or 0 for non-matrix
// formats.
func (f Format) Columns() int {
	return formatTable[f].cols
}

// Alignment returns the required byte alignment of the format:
// component size times 2 for 1- or 2-component vectors, times 4
// otherwise; scalars always align to 4 bytes; matrices align like
// their column vector. Zero for invalid formats.
func (f Format) Alignment() int {
	info, ok := formatTable[f]
	if !ok {
		return 0
	}
	if info.cols > 0 {
		rows := info.comps / info.cols
		return vectorAlignment(info.compSize, rows)
	}
	if info.comps == 1 {
		return 4
	}
	return vectorAlignment(info.compSize, info.comps)
}

// Size returns the byte size of one value of this format. Matrix sizes
// include per-column padding (each column occupies its alignment-rounded
// stride). Zero for invalid formats.
func (f Format) Size() int {
	info, ok := formatTable[f]
	if !ok {
		return 0
	}
	if info.cols > 0 {
		return info.cols * f.columnStride()
	}
	return info.comps * info.compSize
}

// columnStride returns the byte distance between matrix columns.
func (f Format) columnStride() int {
	info := formatTable[f]
	rows := info.comps / info.cols
	return vectorAlignment(info.compSize, rows)
}

// vectorAlignment computes the alignment of an n-component vector with
// the given component size: 2 elements when n <= 2, 4 elements otherwise.
func vectorAlignment(compSize, n int) int {
	if n <= 2 {
		return compSize * 2
	}
	return compSize * 4
}

// String returns the WebGPU-style name of the format.
func (f Format) String() string {
	if info, ok := formatTable[f]; ok {
		return info.name
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}
