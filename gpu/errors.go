// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// Common errors returned by resource wrappers and registries.
var (
	// ErrNilDevice is returned when a device-object request is made
	// with a nil device.
	ErrNilDevice = errors.New("gpu: device is nil")

	// ErrNotInitialized is returned by DeviceHolder.Get before a device
	// has been configured.
	ErrNotInitialized = errors.New("gpu: device not yet initialized")

	// ErrDeviceConflict is returned when a wrapper already bound to one
	// device is requested for a different device.
	ErrDeviceConflict = errors.New("gpu: resource already used by another device")

	// ErrInvalidDescriptor is returned when creation parameters are
	// structurally invalid (zero size, missing shader, no entries).
	ErrInvalidDescriptor = errors.New("gpu: invalid descriptor")

	// ErrDuplicateLabel is returned when registering a label that is
	// already taken.
	ErrDuplicateLabel = errors.New("gpu: duplicate label")

	// ErrUnknownLabel is returned when looking up a label that was
	// never registered.
	ErrUnknownLabel = errors.New("gpu: unknown label")

	// ErrSourceNotSet is returned when loading a texture that has
	// neither a source value nor a lazy loader.
	ErrSourceNotSet = errors.New("gpu: texture source not set")
)
