package glint

import "errors"

// Common errors returned by the value, codec, and descriptor layers.
var (
	// ErrInvalidFormat is returned when an operation references a wire
	// format outside the closed Format set, or a format that is not
	// allowed in the given position (e.g. a matrix format in a vertex
	// descriptor).
	ErrInvalidFormat = errors.New("glint: invalid data format")

	// ErrOutOfRange is returned when a codec write or read does not fit
	// inside the destination buffer.
	ErrOutOfRange = errors.New("glint: offset out of buffer range")

	// ErrComponentCount is returned when a value's component count does
	// not match the wire format it is encoded as.
	ErrComponentCount = errors.New("glint: component count mismatch")

	// ErrUnknownField is returned when a struct field or vertex
	// attribute name is not part of the descriptor.
	ErrUnknownField = errors.New("glint: unknown field")

	// ErrDuplicateField is returned when a descriptor declares the same
	// field or attribute name twice.
	ErrDuplicateField = errors.New("glint: duplicate field")

	// ErrEmptyDescriptor is returned when a descriptor declares no
	// fields or attributes.
	ErrEmptyDescriptor = errors.New("glint: descriptor has no fields")

	// ErrIndexRange is returned when a vertex index refers to a vertex
	// that does not exist in the array.
	ErrIndexRange = errors.New("glint: index exceeds vertex count")

	// ErrDuplicateLayout is returned when a vertex array registers a
	// layout under a name that is already taken.
	ErrDuplicateLayout = errors.New("glint: duplicate layout name")

	// ErrUnknownLayout is returned when looking up a layout name that
	// was never registered (or has been unregistered).
	ErrUnknownLayout = errors.New("glint: unknown layout name")
)
