// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package glb parses the GLB binary container format.
//
// A GLB file is a 12-byte header followed by chunks: one JSON chunk
// holding the glTF document, and optionally binary chunks holding
// buffer data. The parser validates framing and returns the raw chunk
// payloads; interpreting the JSON document is the caller's concern.
//
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
package glb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// headerMagic spells "glTF" in little-endian.
	headerMagic = 0x46546C67
	// supportedVersion is the only GLB container version defined.
	supportedVersion = 2

	chunkTypeJSON = 0x4E4F534A
	chunkTypeBIN  = 0x004E4942

	headerSize = 12
	chunkAlign = 4
)

var (
	// ErrBadMagic reports a file that does not start with "glTF".
	ErrBadMagic = errors.New("glb: bad magic")

	// ErrUnsupportedVersion reports a container version other than 2.
	ErrUnsupportedVersion = errors.New("glb: unsupported version")

	// ErrLengthMismatch reports a header length that disagrees with
	// the input size.
	ErrLengthMismatch = errors.New("glb: declared length does not match input")

	// ErrTruncatedChunk reports a chunk whose declared payload runs
	// past the end of the input.
	ErrTruncatedChunk = errors.New("glb: truncated chunk")

	// ErrMissingJSON reports a container without a JSON chunk.
	ErrMissingJSON = errors.New("glb: missing JSON chunk")

	// ErrDuplicateJSON reports a container with more than one JSON
	// chunk.
	ErrDuplicateJSON = errors.New("glb: duplicate JSON chunk")
)

// Container holds the payloads of a parsed GLB file.
type Container struct {
	// JSON is the glTF document chunk, verbatim.
	JSON []byte

	// Binary is the concatenation of BIN chunk payloads in file
	// order, or nil when the container carries none.
	Binary []byte
}

// HasBinary reports whether the container carried a BIN chunk.
func (c *Container) HasBinary() bool {
	return c.Binary != nil
}

// Parse validates and splits a GLB file held in memory.
func Parse(data []byte) (*Container, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncatedChunk, len(data))
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	version := binary.LittleEndian.Uint32(data[4:8])
	length := binary.LittleEndian.Uint32(data[8:12])

	if magic != headerMagic {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}
	if version != supportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if int(length) != len(data) {
		return nil, fmt.Errorf("%w: header says %d, input is %d",
			ErrLengthMismatch, length, len(data))
	}

	var c Container
	offset := headerSize
	for offset < len(data) {
		if len(data)-offset < 8 {
			return nil, fmt.Errorf("%w: %d bytes left for chunk header",
				ErrTruncatedChunk, len(data)-offset)
		}
		chunkLen := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		if chunkLen > len(data)-offset {
			return nil, fmt.Errorf("%w: chunk wants %d bytes, %d remain",
				ErrTruncatedChunk, chunkLen, len(data)-offset)
		}
		payload := data[offset : offset+chunkLen]
		offset += chunkLen

		// Chunks are padded to 4-byte boundaries; the pad bytes are
		// not part of the payload.
		if rem := chunkLen % chunkAlign; rem != 0 {
			pad := chunkAlign - rem
			if pad > len(data)-offset {
				pad = len(data) - offset
			}
			offset += pad
		}

		switch chunkType {
		case chunkTypeJSON:
			if c.JSON != nil {
				return nil, ErrDuplicateJSON
			}
			c.JSON = payload
		case chunkTypeBIN:
			c.Binary = append(c.Binary, payload...)
		default:
			// Unknown chunk types are skipped per the format spec.
		}
	}

	if c.JSON == nil {
		return nil, ErrMissingJSON
	}
	return &c, nil
}

// ParseReader reads the whole stream and parses it.
func ParseReader(r io.Reader) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("glb: read: %w", err)
	}
	return Parse(data)
}
