package glint

import (
	"encoding/binary"
	"fmt"
	"math"
)

// The structured-memory codec writes numeric values into byte buffers
// using fixed little-endian encodings per wire format. Write places a
// value at an exact caller-supplied offset; Append self-aligns first.
//
// Normalized encodings (unorm/snorm) remap the float's logical range to
// the integer's full range with the exact inverse of the WebGPU decode
// formula. Getting this remap wrong renders visibly broken output, so
// the formulas here are a correctness contract, not an implementation
// detail.

// Write encodes comps at offset using format f. The buffer must be
// large enough to hold Size(f) bytes at offset.
func Write(buf []byte, offset int, comps []float32, f Format) error {
	info, ok := formatTable[f]
	if !ok {
		return fmt.Errorf("%w: %v", ErrInvalidFormat, f)
	}
	if len(comps) != info.comps {
		return fmt.Errorf("%w: format %v wants %d components, got %d",
			ErrComponentCount, f, info.comps, len(comps))
	}
	if offset < 0 || offset+f.Size() > len(buf) {
		return fmt.Errorf("%w: write of %d bytes at %d into %d-byte buffer",
			ErrOutOfRange, f.Size(), offset, len(buf))
	}

	if info.cols > 0 {
		// Matrices are written column by column; each column occupies
		// its alignment-rounded stride.
		rows := info.comps / info.cols
		stride := f.columnStride()
		for c := 0; c < info.cols; c++ {
			col := comps[c*rows : (c+1)*rows]
			writeVector(buf[offset+c*stride:], col, info)
		}
		return nil
	}

	writeVector(buf[offset:], comps, info)
	return nil
}

// Append pads offset up to the alignment of f, writes comps at the
// padded offset, and returns the number of bytes consumed (padding plus
// value size) so callers can chain appends.
func Append(buf []byte, offset int, comps []float32, f Format) (int, error) {
	align := f.Alignment()
	if align == 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFormat, f)
	}
	padding := (align - offset%align) % align
	if err := Write(buf, offset+padding, comps, f); err != nil {
		return 0, err
	}
	return padding + f.Size(), nil
}

// Read decodes one value of format f at offset, applying the inverse of
// the Write encoding (the documented GPU decode formula for normalized
// formats).
func Read(buf []byte, offset int, f Format) ([]float32, error) {
	info, ok := formatTable[f]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, f)
	}
	if offset < 0 || offset+f.Size() > len(buf) {
		return nil, fmt.Errorf("%w: read of %d bytes at %d from %d-byte buffer",
			ErrOutOfRange, f.Size(), offset, len(buf))
	}

	comps := make([]float32, info.comps)
	if info.cols > 0 {
		rows := info.comps / info.cols
		stride := f.columnStride()
		for c := 0; c < info.cols; c++ {
			readVector(buf[offset+c*stride:], comps[c*rows:(c+1)*rows], info)
		}
		return comps, nil
	}
	readVector(buf[offset:], comps, info)
	return comps, nil
}

// writeVector encodes a densely packed run of components.
// The destination is assumed large enough (checked by Write).
func writeVector(dst []byte, comps []float32, info formatInfo) {
	for i, v := range comps {
		putScalar(dst[i*info.compSize:], v, info)
	}
}

// readVector decodes a densely packed run of components.
func readVector(src []byte, comps []float32, info formatInfo) {
	for i := range comps {
		comps[i] = getScalar(src[i*info.compSize:], info)
	}
}

// putScalar encodes one component as compSize little-endian bytes.
func putScalar(dst []byte, v float32, info formatInfo) {
	var bits uint64
	switch info.kind {
	case kindFloat32:
		bits = uint64(math.Float32bits(v))
	case kindFloat16:
		bits = uint64(float16Bits(v))
	case kindUint:
		bits = uint64(clampUint(v, info.compSize))
	case kindSint:
		width := uint(info.compSize * 8)
		bits = uint64(clampSint(v, info.compSize)) & (1<<width - 1)
	case kindUnorm:
		// Encode: round(clamp(v, 0, 1) * max). Decode: c / max.
		max := float64(uint64(1)<<(info.compSize*8) - 1)
		bits = uint64(math.Round(clampf(float64(v), 0, 1) * max))
	case kindSnorm:
		// Encode: round(clamp(v, -1, 1) * max). Decode: max(c / max, -1).
		max := float64(int64(1)<<(info.compSize*8-1) - 1)
		width := uint(info.compSize * 8)
		bits = uint64(int64(math.Round(clampf(float64(v), -1, 1)*max))) & (1<<width - 1)
	}
	switch info.compSize {
	case 1:
		dst[0] = byte(bits)
	case 2:
		binary.LittleEndian.PutUint16(dst, uint16(bits))
	case 4:
		binary.LittleEndian.PutUint32(dst, uint32(bits))
	}
}

// getScalar decodes one component from compSize little-endian bytes.
func getScalar(src []byte, info formatInfo) float32 {
	var bits uint64
	switch info.compSize {
	case 1:
		bits = uint64(src[0])
	case 2:
		bits = uint64(binary.LittleEndian.Uint16(src))
	case 4:
		bits = uint64(binary.LittleEndian.Uint32(src))
	}
	switch info.kind {
	case kindFloat32:
		return math.Float32frombits(uint32(bits))
	case kindFloat16:
		return float16Value(uint16(bits))
	case kindUint:
		return float32(bits)
	case kindSint:
		return float32(signExtend(bits, info.compSize))
	case kindUnorm:
		max := float64(uint64(1)<<(info.compSize*8) - 1)
		return float32(float64(bits) / max)
	case kindSnorm:
		max := float64(int64(1)<<(info.compSize*8-1) - 1)
		v := float64(signExtend(bits, info.compSize)) / max
		if v < -1 {
			v = -1
		}
		return float32(v)
	}
	return 0
}

// clampf clamps v to [lo, hi].
func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampUint rounds v and clamps it to the unsigned range of the given
// byte width.
func clampUint(v float32, compSize int) uint64 {
	max := float64(uint64(1)<<(compSize*8) - 1)
	return uint64(clampf(math.Round(float64(v)), 0, max))
}

// clampSint rounds v and clamps it to the signed range of the given
// byte width.
func clampSint(v float32, compSize int) int64 {
	lim := int64(1) << (compSize*8 - 1)
	return int64(clampf(math.Round(float64(v)), float64(-lim), float64(lim-1)))
}

// signExtend interprets the low compSize bytes of bits as a signed
// two's complement integer.
func signExtend(bits uint64, compSize int) int64 {
	shift := uint(64 - compSize*8)
	return int64(bits<<shift) >> shift
}

// float16Bits converts a float32 to IEEE 754 half-precision bits,
// rounding to nearest even. Values beyond the half range become Inf.
func float16Bits(v float32) uint16 {
	b := math.Float32bits(v)
	sign := uint16(b>>16) & 0x8000
	exp := int32(b>>23&0xFF) - 127 + 15
	mant := b & 0x7FFFFF

	switch {
	case exp >= 0x1F:
		// Overflow or Inf/NaN.
		if int32(b>>23&0xFF) == 0xFF && mant != 0 {
			return sign | 0x7E00 // NaN
		}
		return sign | 0x7C00 // Inf
	case exp <= 0:
		// Subnormal or underflow to zero.
		if exp < -10 {
			return sign
		}
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		// Round to nearest even.
		rem := mant & (1<<shift - 1)
		mid := uint32(1) << (shift - 1)
		if rem > mid || (rem == mid && half&1 == 1) {
			half++
		}
		return sign | half
	default:
		half := sign | uint16(exp)<<10 | uint16(mant>>13)
		rem := mant & 0x1FFF
		if rem > 0x1000 || (rem == 0x1000 && half&1 == 1) {
			half++
		}
		return half
	}
}

// float16Value converts IEEE 754 half-precision bits to a float32.
func float16Value(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h >> 10 & 0x1F)
	mant := uint32(h & 0x3FF)

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: normalize.
		e := uint32(127 - 15 + 1)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		mant &= 0x3FF
		return math.Float32frombits(sign | e<<23 | mant<<13)
	case 0x1F:
		return math.Float32frombits(sign | 0x7F800000 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp-15+127)<<23 | mant<<13)
	}
}
