package glint

import "fmt"

// Field declares one struct descriptor entry: a named wire format or a
// nested descriptor.
type Field struct {
	// Name is the field name, unique within its descriptor.
	Name string

	// Format is the field's wire format. Ignored when Nested is set.
	Format Format

	// Nested embeds another descriptor as a sub-struct.
	Nested *StructDescriptor
}

// F declares a field with a wire format.
func F(name string, format Format) Field {
	return Field{Name: name, Format: format}
}

// NestedField declares a field holding a nested struct.
func NestedField(name string, desc *StructDescriptor) Field {
	return Field{Name: name, Nested: desc}
}

// StructDescriptor is an ordered, immutable mapping from field names to
// wire formats or nested descriptors. Field offsets, the struct's
// alignment (max over fields), and its total size (rounded up to the
// alignment) are computed once at construction and never change:
// setting a field's value never affects layout.
type StructDescriptor struct {
	fields  []Field
	index   map[string]int
	offsets []int
	align   int
	size    int
}

// NewStructDescriptor builds a descriptor from fields in declaration
// order. Each field is placed at the next offset padded up to the
// field's own alignment requirement.
//
// A field with an unrecognized wire format, a duplicate name, or an
// empty field list is a construction error.
func NewStructDescriptor(fields ...Field) (*StructDescriptor, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyDescriptor
	}

	d := &StructDescriptor{
		fields:  make([]Field, len(fields)),
		index:   make(map[string]int, len(fields)),
		offsets: make([]int, len(fields)),
	}
	copy(d.fields, fields)

	offset := 0
	for i, f := range fields {
		if _, dup := d.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		d.index[f.Name] = i

		var align, size int
		switch {
		case f.Nested != nil:
			align = f.Nested.Alignment()
			size = f.Nested.Size()
		case f.Format.Valid():
			align = f.Format.Alignment()
			size = f.Format.Size()
		default:
			return nil, fmt.Errorf("%w: field %q has format %v", ErrInvalidFormat, f.Name, f.Format)
		}

		offset = roundUp(offset, align)
		d.offsets[i] = offset
		offset += size
		if align > d.align {
			d.align = align
		}
	}
	d.size = roundUp(offset, d.align)
	return d, nil
}

// Fields returns the descriptor's fields in declaration order.
// The returned slice is a copy.
func (d *StructDescriptor) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Offset returns the byte offset of the named field.
func (d *StructDescriptor) Offset(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return d.offsets[i], nil
}

// Alignment returns the struct's alignment: the maximum alignment over
// all fields.
func (d *StructDescriptor) Alignment() int {
	return d.align
}

// Size returns the struct's total byte size, rounded up to a multiple
// of its alignment.
func (d *StructDescriptor) Size() int {
	return d.size
}

// Struct pairs a descriptor with live values in a GPU-layout byte
// buffer. Field writes encode straight into the buffer; an optional
// dirty-range callback lets a GPU buffer mirror every change.
type Struct struct {
	desc    *StructDescriptor
	data    []byte
	base    int // offset of this (possibly nested) struct inside data
	onWrite func(offset, size int)
}

// NewStruct allocates a zeroed instance of desc.
func NewStruct(desc *StructDescriptor) *Struct {
	return &Struct{
		desc: desc,
		data: make([]byte, desc.Size()),
	}
}

// Descriptor returns the struct's descriptor.
func (s *Struct) Descriptor() *StructDescriptor {
	return s.desc
}

// Bytes returns the struct's backing buffer. For a nested view the
// slice covers only the nested region. The slice aliases live data;
// callers must not hold it across writes they want to observe
// separately.
func (s *Struct) Bytes() []byte {
	return s.data[s.base : s.base+s.desc.Size()]
}

// OnWrite installs a dirty-range callback invoked after every
// successful Set with the byte range (relative to the whole backing
// buffer) that changed. A buffered struct uses this to mirror changes
// into its GPU buffer. Pass nil to remove the callback.
func (s *Struct) OnWrite(fn func(offset, size int)) {
	s.onWrite = fn
}

// Set encodes comps into the named field.
func (s *Struct) Set(name string, comps ...float32) error {
	i, ok := s.desc.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f := s.desc.fields[i]
	if f.Nested != nil {
		return fmt.Errorf("%w: %q is a nested struct", ErrInvalidFormat, name)
	}
	offset := s.base + s.desc.offsets[i]
	if err := Write(s.data, offset, comps, f.Format); err != nil {
		return err
	}
	if s.onWrite != nil {
		s.onWrite(offset, f.Format.Size())
	}
	return nil
}

// Get decodes the named field's current value.
func (s *Struct) Get(name string) ([]float32, error) {
	i, ok := s.desc.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f := s.desc.fields[i]
	if f.Nested != nil {
		return nil, fmt.Errorf("%w: %q is a nested struct", ErrInvalidFormat, name)
	}
	return Read(s.data, s.base+s.desc.offsets[i], f.Format)
}

// Nested returns a view of the named nested struct field. The view
// shares the backing buffer and the dirty-range callback, so writes
// through it behave exactly like writes to a top-level field.
func (s *Struct) Nested(name string) (*Struct, error) {
	i, ok := s.desc.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	f := s.desc.fields[i]
	if f.Nested == nil {
		return nil, fmt.Errorf("%w: %q is not a nested struct", ErrInvalidFormat, name)
	}
	return &Struct{
		desc:    f.Nested,
		data:    s.data,
		base:    s.base + s.desc.offsets[i],
		onWrite: s.onWrite,
	}, nil
}

// roundUp rounds v up to the next multiple of align.
func roundUp(v, align int) int {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}
