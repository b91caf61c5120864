package glint

import (
	"encoding/binary"
	"fmt"
)

// IndexFormat selects the wire width of an index stream.
type IndexFormat uint8

const (
	// IndexNone means the array carries no index stream.
	IndexNone IndexFormat = iota

	// IndexUint16 is a 16-bit index stream.
	IndexUint16

	// IndexUint32 is a 32-bit index stream.
	IndexUint32
)

// String returns the string representation of the index format.
func (f IndexFormat) String() string {
	switch f {
	case IndexNone:
		return "none"
	case IndexUint16:
		return "uint16"
	case IndexUint32:
		return "uint32"
	default:
		return fmt.Sprintf("IndexFormat(%d)", uint8(f))
	}
}

// Attribute declares one vertex descriptor entry.
type Attribute struct {
	// Name is the attribute name, unique within its descriptor.
	Name string

	// Format is the attribute's wire format. Matrix formats are not
	// allowed in vertex descriptors.
	Format Format
}

// Attr declares a vertex attribute.
func Attr(name string, format Format) Attribute {
	return Attribute{Name: name, Format: format}
}

// AttributeLayout is one attribute's placement inside a vertex buffer:
// its byte offset within the per-vertex record and the shader location
// it binds to.
type AttributeLayout struct {
	Name           string
	Format         Format
	Offset         int
	ShaderLocation int
}

// BufferLayout describes how a vertex buffer slot is laid out: the
// byte stride between consecutive vertices and the attributes the slot
// carries. Offsets are always computed against the full per-vertex
// record, so a subset layout keeps the same stride as the full one and
// multiple simultaneously-bound subsets stay consistent.
type BufferLayout struct {
	Stride     int
	Attributes []AttributeLayout
}

// VertexDescriptor is an ordered, immutable mapping from attribute
// names to scalar/vector wire formats. Unlike struct descriptors there
// is no nesting and no matrix formats.
type VertexDescriptor struct {
	attrs   []Attribute
	index   map[string]int
	offsets []int
	stride  int
}

// NewVertexDescriptor builds a descriptor from attributes in
// declaration order. The per-vertex record places each attribute at the
// next offset padded to the attribute's alignment; the stride is the
// record size rounded up to the record's maximum alignment.
func NewVertexDescriptor(attrs ...Attribute) (*VertexDescriptor, error) {
	if len(attrs) == 0 {
		return nil, ErrEmptyDescriptor
	}

	d := &VertexDescriptor{
		attrs:   make([]Attribute, len(attrs)),
		index:   make(map[string]int, len(attrs)),
		offsets: make([]int, len(attrs)),
	}
	copy(d.attrs, attrs)

	offset := 0
	maxAlign := 1
	for i, a := range attrs {
		if !a.Format.Valid() || a.Format.IsMatrix() {
			return nil, fmt.Errorf("%w: attribute %q has format %v", ErrInvalidFormat, a.Name, a.Format)
		}
		if _, dup := d.index[a.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, a.Name)
		}
		d.index[a.Name] = i

		align := a.Format.Alignment()
		offset = roundUp(offset, align)
		d.offsets[i] = offset
		offset += a.Format.Size()
		if align > maxAlign {
			maxAlign = align
		}
	}
	d.stride = roundUp(offset, maxAlign)
	return d, nil
}

// Attributes returns the descriptor's attributes in declaration order.
// The returned slice is a copy.
func (d *VertexDescriptor) Attributes() []Attribute {
	out := make([]Attribute, len(d.attrs))
	copy(out, d.attrs)
	return out
}

// Stride returns the byte size of one full per-vertex record.
func (d *VertexDescriptor) Stride() int {
	return d.stride
}

// Layout computes a buffer layout for the named attributes, assigning
// shader locations monotonically from startLocation in declaration
// order. An empty name list selects all attributes. Layout computation
// is idempotent: the same inputs always yield the same layout.
//
// Passing startLocation lets the layout of one descriptor concatenate
// directly after another's in the same shader interface.
func (d *VertexDescriptor) Layout(startLocation int, names ...string) (*BufferLayout, error) {
	selected := make([]int, 0, len(d.attrs))
	if len(names) == 0 {
		for i := range d.attrs {
			selected = append(selected, i)
		}
	} else {
		for _, name := range names {
			i, ok := d.index[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
			}
			selected = append(selected, i)
		}
	}

	layout := &BufferLayout{
		Stride:     d.stride,
		Attributes: make([]AttributeLayout, len(selected)),
	}
	for n, i := range selected {
		layout.Attributes[n] = AttributeLayout{
			Name:           d.attrs[i].Name,
			Format:         d.attrs[i].Format,
			Offset:         d.offsets[i],
			ShaderLocation: startLocation + n,
		}
	}
	return layout, nil
}

// VertexArray owns CPU-side vertex data for one vertex descriptor:
// vertex records in insertion order (insertion order is draw order), an
// optional index stream, and a registry of named layouts reused across
// frames until explicitly unregistered.
//
// The interleaved byte buffer is regenerated lazily: mutations mark the
// array dirty and the next Bytes call re-encodes.
type VertexArray struct {
	desc *VertexDescriptor

	// verts holds one dense component run per vertex, attributes
	// concatenated in declaration order.
	verts [][]float32

	indices  []uint32
	indexFmt IndexFormat

	layouts map[string]*BufferLayout

	cache []byte
	dirty bool
}

// NewVertexArray creates an empty vertex array for desc.
func NewVertexArray(desc *VertexDescriptor) (*VertexArray, error) {
	if desc == nil {
		return nil, ErrEmptyDescriptor
	}
	return &VertexArray{
		desc:    desc,
		layouts: make(map[string]*BufferLayout),
		dirty:   true,
	}, nil
}

// Descriptor returns the array's vertex descriptor.
func (va *VertexArray) Descriptor() *VertexDescriptor {
	return va.desc
}

// Append adds one vertex. values maps attribute names to component
// slices; attributes absent from the map are zero. An unknown name or
// a wrong component count is an error and leaves the array unchanged.
func (va *VertexArray) Append(values map[string][]float32) error {
	record, err := va.encodeRecord(values)
	if err != nil {
		return err
	}
	va.verts = append(va.verts, record)
	va.dirty = true
	return nil
}

// SetVertex replaces the vertex at position i.
func (va *VertexArray) SetVertex(i int, values map[string][]float32) error {
	if i < 0 || i >= len(va.verts) {
		return fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, i, len(va.verts))
	}
	record, err := va.encodeRecord(values)
	if err != nil {
		return err
	}
	va.verts[i] = record
	va.dirty = true
	return nil
}

// encodeRecord validates values and packs them into one dense component
// run in declaration order.
func (va *VertexArray) encodeRecord(values map[string][]float32) ([]float32, error) {
	total := 0
	for _, a := range va.desc.attrs {
		total += a.Format.Components()
	}
	record := make([]float32, total)

	for name, comps := range values {
		i, ok := va.desc.index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		f := va.desc.attrs[i].Format
		if len(comps) != f.Components() {
			return nil, fmt.Errorf("%w: attribute %q wants %d components, got %d",
				ErrComponentCount, name, f.Components(), len(comps))
		}
		base := 0
		for j := 0; j < i; j++ {
			base += va.desc.attrs[j].Format.Components()
		}
		copy(record[base:], comps)
	}
	return record, nil
}

// VertexCount returns the number of vertices.
func (va *VertexArray) VertexCount() int {
	return len(va.verts)
}

// SetIndices installs an index stream. The encoding is chosen by the
// maximum index value: 16-bit when it fits in 0xFFFF, 32-bit otherwise.
// An index referring past the current vertex count is rejected and the
// previous index stream is kept.
func (va *VertexArray) SetIndices(indices ...int) error {
	maxIndex := 0
	for _, idx := range indices {
		if idx < 0 || idx >= len(va.verts) {
			return fmt.Errorf("%w: index %d with %d vertices", ErrIndexRange, idx, len(va.verts))
		}
		if idx > maxIndex {
			maxIndex = idx
		}
	}

	va.indices = make([]uint32, len(indices))
	for i, idx := range indices {
		va.indices[i] = uint32(idx)
	}
	if maxIndex <= 0xFFFF {
		va.indexFmt = IndexUint16
	} else {
		va.indexFmt = IndexUint32
	}
	if len(indices) == 0 {
		va.indexFmt = IndexNone
		va.indices = nil
	}
	va.dirty = true
	return nil
}

// ClearIndices removes the index stream, returning the array to
// non-indexed drawing.
func (va *VertexArray) ClearIndices() {
	va.indices = nil
	va.indexFmt = IndexNone
	va.dirty = true
}

// HasIndices reports whether the array carries an index stream.
func (va *VertexArray) HasIndices() bool {
	return va.indexFmt != IndexNone
}

// IndexFormat returns the selected index encoding.
func (va *VertexArray) IndexFormat() IndexFormat {
	return va.indexFmt
}

// IndexCount returns the number of indices.
func (va *VertexArray) IndexCount() int {
	return len(va.indices)
}

// Bytes returns the interleaved full-record vertex buffer, re-encoding
// only when vertex data changed since the last call.
func (va *VertexArray) Bytes() []byte {
	if !va.dirty && va.cache != nil {
		return va.cache
	}

	buf := make([]byte, len(va.verts)*va.desc.stride)
	for vi, record := range va.verts {
		base := vi * va.desc.stride
		comp := 0
		for ai, a := range va.desc.attrs {
			n := a.Format.Components()
			// Record layout was validated at construction; Write cannot
			// fail here.
			_ = Write(buf, base+va.desc.offsets[ai], record[comp:comp+n], a.Format)
			comp += n
		}
	}
	va.cache = buf
	va.dirty = false
	return buf
}

// IndexBytes returns the index stream encoded at the selected width,
// little-endian. Nil when the array has no indices.
func (va *VertexArray) IndexBytes() []byte {
	switch va.indexFmt {
	case IndexUint16:
		buf := make([]byte, 2*len(va.indices))
		for i, idx := range va.indices {
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(idx))
		}
		return buf
	case IndexUint32:
		buf := make([]byte, 4*len(va.indices))
		for i, idx := range va.indices {
			binary.LittleEndian.PutUint32(buf[i*4:], idx)
		}
		return buf
	default:
		return nil
	}
}

// Dirty reports whether vertex data changed since the last Bytes call.
func (va *VertexArray) Dirty() bool {
	return va.dirty
}

// RegisterLayout computes and caches a named layout over the given
// attributes (all attributes when names is empty), with shader
// locations starting at startLocation. Registering a taken name is an
// error.
func (va *VertexArray) RegisterLayout(name string, startLocation int, names ...string) (*BufferLayout, error) {
	if _, exists := va.layouts[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateLayout, name)
	}
	layout, err := va.desc.Layout(startLocation, names...)
	if err != nil {
		return nil, err
	}
	va.layouts[name] = layout
	return layout, nil
}

// RegisteredLayout looks up a previously registered layout.
func (va *VertexArray) RegisteredLayout(name string) (*BufferLayout, error) {
	layout, ok := va.layouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	return layout, nil
}

// UnregisterLayout removes a registered layout. Removing an unknown
// name is an error.
func (va *VertexArray) UnregisterLayout(name string) error {
	if _, ok := va.layouts[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	delete(va.layouts, name)
	return nil
}
